package play

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/history"
	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/lessons"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/quizgen"
	"github.com/abhisek/eduquiz/internal/router"
	"github.com/abhisek/eduquiz/internal/study"
)

var mixed = []quiz.Question{
	{ID: 1, Type: quiz.TypeMultipleChoice, Prompt: "Capital of Vietnam?", Options: []string{"Hue", "Hanoi", "Da Nang"}, Correct: quiz.Choice(1), Explanation: "Hanoi has been the capital since 1976."},
	{ID: 2, Type: quiz.TypeTrueFalse, Prompt: "The Mekong flows into the sea.", Correct: quiz.TrueFalse(true)},
	{ID: 3, Type: quiz.TypeFill, Prompt: "Ha Long Bay is in ___ province.", Correct: quiz.Text("Quang Ninh")},
}

type stubGenerator struct{}

func (stubGenerator) Questions(_ context.Context, req quizgen.Request) ([]quiz.Question, error) {
	return mixed[:req.Count], nil
}

func (stubGenerator) Cards(context.Context, quizgen.CardsRequest) ([]cards.Card, error) {
	return nil, nil
}

type stubTutor struct{}

func (stubTutor) Kit(context.Context, lessons.KitInput) (*lessons.Kit, error) { return nil, nil }
func (stubTutor) Feedback(context.Context, lessons.FeedbackInput) (quiz.TutorFeedback, error) {
	return quiz.TutorFeedback{Title: "Nice", Body: "Review the provinces."}, nil
}
func (stubTutor) Path(context.Context, lessons.PathInput) (*history.Path, error) { return nil, nil }

func startedStudy(t *testing.T, count int) *study.Study {
	t.Helper()
	ctx := context.Background()
	st, err := study.New(ctx, study.Deps{
		KV:        kv.NewMemory(),
		UserID:    "lan",
		Generator: stubGenerator{},
		Tutor:     stubTutor{},
		Rand:      rand.New(rand.NewPCG(3, 4)),
		Now:       func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new study: %v", err)
	}
	setup := study.Setup{
		Grade: "Grade 5", Subject: "Geography", Topic: "Vietnam",
		Difficulty: progress.Easy, Count: count,
		Types: []quiz.Type{quiz.TypeMultipleChoice, quiz.TypeTrueFalse, quiz.TypeFill},
	}
	if _, err := st.GenerateQuiz(ctx, setup); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := st.StartQuiz(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(st.Wait)
	return st
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *Screen, text string) *Screen {
	for _, r := range text {
		scr, _ := s.Update(keyPress(r))
		s = scr.(*Screen)
	}
	return s
}

func TestPlayThroughQuiz(t *testing.T) {
	st := startedStudy(t, 3)
	s := New(context.Background(), st)

	if got := s.Title(); got != "Question 1 of 3" {
		t.Errorf("title = %q", got)
	}

	// Multiple choice by letter.
	s.Update(keyPress('b'))
	if s.outcome == nil || !s.outcome.Correct {
		t.Fatalf("expected correct outcome, got %+v", s.outcome)
	}
	if !strings.Contains(s.View(100, 30), "Hanoi has been the capital") {
		t.Error("expected explanation in feedback view")
	}

	// Any key advances.
	s.Update(keyPress('x'))
	if s.index != 1 || s.outcome != nil {
		t.Fatalf("expected second question awaiting answer, index=%d", s.index)
	}

	// True/false: B is False, which is wrong here.
	s.Update(keyPress('b'))
	if s.outcome == nil || s.outcome.Correct {
		t.Fatalf("expected incorrect outcome, got %+v", s.outcome)
	}
	if !strings.Contains(s.View(100, 30), "Correct answer: true") {
		t.Error("expected correct answer to be shown")
	}
	s.Update(specialKey(tea.KeyEnter))

	// Fill in the blank, case-insensitive.
	s = typeText(s, "quang ninh")
	s.Update(specialKey(tea.KeyEnter))
	if s.outcome == nil || !s.outcome.Correct {
		t.Fatalf("expected correct fill answer, got %+v", s.outcome)
	}

	_, cmd := s.Update(keyPress(' '))
	if cmd == nil {
		t.Fatal("expected navigation to results")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Results" {
		t.Errorf("expected results screen, got %q", msg.Screen.Title())
	}
}

func TestEmptyFillIsIgnored(t *testing.T) {
	st := startedStudy(t, 3)
	ctx := context.Background()
	for _, a := range []quiz.Answer{quiz.Choice(0), quiz.TrueFalse(true)} {
		if _, err := st.Submit(ctx, a); err != nil {
			t.Fatal(err)
		}
		if _, err := st.Advance(ctx); err != nil {
			t.Fatal(err)
		}
	}

	s := New(ctx, st)
	s.Update(specialKey(tea.KeyEnter))
	if s.outcome != nil {
		t.Error("blank answer should not be submitted")
	}
}

func TestQuitConfirm(t *testing.T) {
	s := New(context.Background(), startedStudy(t, 3))

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	s.Update(keyPress('n'))
	if s.confirmQuit {
		t.Fatal("expected confirmation dismissed")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestResumeDuringFeedback(t *testing.T) {
	st := startedStudy(t, 2)
	if _, err := st.Submit(context.Background(), quiz.Choice(0)); err != nil {
		t.Fatal(err)
	}

	s := New(context.Background(), st)
	if !s.showingFeedback() {
		t.Fatal("expected feedback view for an answered question")
	}
	if !strings.Contains(s.View(100, 30), "Correct answer: Hanoi") {
		t.Error("expected correct answer after resume")
	}
	s.Update(keyPress('x'))
	if s.index != 1 {
		t.Errorf("expected to advance to question 2, got %d", s.index)
	}
}

func TestKeyHints(t *testing.T) {
	s := New(context.Background(), startedStudy(t, 1))
	hints := s.KeyHints()
	if len(hints) != 3 || hints[1].Key != "A-C" {
		t.Errorf("unexpected hints %+v", hints)
	}
}

func TestNoQuizShowsError(t *testing.T) {
	st, err := study.New(context.Background(), study.Deps{KV: kv.NewMemory(), UserID: "lan"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(context.Background(), st)
	if s.errMsg == "" {
		t.Fatal("expected an error without a running quiz")
	}
	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Error("expected quit on key press")
	}
}
