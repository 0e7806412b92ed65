package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/llm"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
)

func mixedRequest() Request {
	return Request{
		Grade:      "6",
		Subject:    "science",
		Topic:      "states of matter",
		Difficulty: progress.Medium,
		Count:      3,
		Types:      []quiz.Type{quiz.TypeMultipleChoice, quiz.TypeTrueFalse, quiz.TypeFill},
	}
}

func validQuizJSON() json.RawMessage {
	return json.RawMessage(`{"questions":[
		{"id":1,"type":"mc","q":"Which is a gas at room temperature?","opts":["Iron","Oxygen","Ice","Salt"],"a":"1","explanation":"Oxygen is a gas."},
		{"id":1,"type":"tf","q":"Ice is solid water.","opts":[],"a":"TRUE","explanation":"Ice is frozen water."},
		{"id":7,"type":"fill","q":"Water boils at ___ degrees Celsius.","opts":[],"a":" 100 ","explanation":"At sea level."}
	]}`)
}

func TestQuestions_Mixed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validQuizJSON()})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Questions(context.Background(), mixedRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("got %d questions", len(qs))
	}
	if mock.Purposes[0] != llm.PurposeQuiz {
		t.Errorf("purpose = %q", mock.Purposes[0])
	}
	if err := quiz.ValidateSet(qs); err != nil {
		t.Fatalf("generated set invalid: %v", err)
	}
	for i, q := range qs {
		if q.ID != i+1 {
			t.Errorf("question %d has id %d", i, q.ID)
		}
	}
	if idx, _ := qs[0].Correct.Index(); idx != 1 {
		t.Errorf("mc answer index = %d", idx)
	}
	if v, ok := qs[1].Correct.Bool(); !ok || !v {
		t.Errorf("tf answer = %v", qs[1].Correct)
	}
	if s, _ := qs[2].Correct.Text(); s != "100" {
		t.Errorf("fill answer = %q", s)
	}

	call := mock.Calls[0]
	if call.Schema != QuizSchema {
		t.Error("quiz schema not sent")
	}
	msg := call.Messages[0].Content
	for _, want := range []string{"Grade: 6", "Topic: states of matter", "Difficulty: medium", "tf (true/false)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestQuestions_AnswerByOptionText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[
		{"id":1,"type":"mc","q":"Largest planet?","opts":["Mars","Jupiter"],"a":"jupiter","explanation":""}
	]}`)})
	qs, err := New(mock, DefaultConfig()).Questions(context.Background(), Request{Count: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx, _ := qs[0].Correct.Index(); idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
}

func TestQuestions_ValidationFailuresAreMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"index out of range", `{"questions":[{"id":1,"type":"mc","q":"Q?","opts":["a","b"],"a":"5","explanation":""}]}`},
		{"duplicate options", `{"questions":[{"id":1,"type":"mc","q":"Q?","opts":["a","a"],"a":"0","explanation":""}]}`},
		{"type not requested", `{"questions":[{"id":1,"type":"fill","q":"Q ___","opts":[],"a":"x","explanation":""}]}`},
		{"bad tf answer", `{"questions":[{"id":1,"type":"tf","q":"Q?","opts":[],"a":"maybe","explanation":""}]}`},
		{"empty list", `{"questions":[]}`},
		{"not json", `{"questions":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.content)})
			req := Request{Count: 1, Types: []quiz.Type{quiz.TypeMultipleChoice, quiz.TypeTrueFalse}}
			_, err := New(mock, DefaultConfig()).Questions(context.Background(), req)
			pe, ok := errs.AsProvider(err)
			if !ok {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if pe.Kind != errs.ProviderMalformed {
				t.Errorf("kind = %s, want malformed", pe.Kind)
			}
		})
	}
}

func TestQuestions_ProviderErrorsClassified(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAuth{Err: errors.New("bad key")}})
	_, err := New(mock, DefaultConfig()).Questions(context.Background(), mixedRequest())
	pe, ok := errs.AsProvider(err)
	if !ok || !pe.NeedsCredential() {
		t.Fatalf("expected credential ProviderError, got %v", err)
	}
}

func TestQuestions_TrimsExtra(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validQuizJSON()})
	req := mixedRequest()
	req.Count = 2
	qs, err := New(mock, DefaultConfig()).Questions(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 {
		t.Errorf("got %d questions, want 2", len(qs))
	}
}

func TestCards(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"cards":[
		{"front":" Photosynthesis ","back":"How plants make food from light"},
		{"front":"","back":"dropped"},
		{"front":"Chlorophyll","back":"Green pigment"},
		{"front":"Stomata","back":"Leaf pores"}
	]}`)})
	gen := New(mock, DefaultConfig())

	long := strings.Repeat("\u00e1", MaxSourceChars+500)
	got, err := gen.Cards(context.Background(), CardsRequest{Text: long, SourceName: "bio.pdf", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []cards.Card{
		{Front: "Photosynthesis", Back: "How plants make food from light", Status: cards.StatusNew},
		{Front: "Chlorophyll", Back: "Green pigment", Status: cards.StatusNew},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d cards", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("card %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	msg := mock.Calls[0].Messages[0].Content
	if n := strings.Count(msg, "\u00e1"); n != MaxSourceChars {
		t.Errorf("sent %d source runes, want %d", n, MaxSourceChars)
	}
	if !utf8.ValidString(msg) {
		t.Error("truncation split a rune")
	}
	if !strings.Contains(msg, "exactly 2 flashcards") {
		t.Error("count missing from prompt")
	}
	if mock.Purposes[0] != llm.PurposeCards {
		t.Errorf("purpose = %q", mock.Purposes[0])
	}
}

func TestCards_EmptyText(t *testing.T) {
	_, err := New(llm.NewMockProvider(), DefaultConfig()).Cards(context.Background(), CardsRequest{Text: "  "})
	var inv *errs.InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestClampCardCount(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 12: 12, 20: 20, 50: 20} {
		if got := ClampCardCount(in); got != want {
			t.Errorf("ClampCardCount(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Errorf("empty = %q", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Errorf("limited = %q", got)
	}
}
