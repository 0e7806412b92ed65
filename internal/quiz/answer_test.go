package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	mc := Question{ID: 1, Type: TypeMultipleChoice, Prompt: "p", Options: []string{"a", "b"}, Correct: Choice(1)}
	tf := Question{ID: 2, Type: TypeTrueFalse, Prompt: "p", Correct: TrueFalse(false)}
	fill := Question{ID: 3, Type: TypeFill, Prompt: "p", Correct: Text("Ho Chi Minh City")}

	tests := []struct {
		name string
		q    Question
		resp Answer
		want bool
	}{
		{"mc right", mc, Choice(1), true},
		{"mc wrong", mc, Choice(0), false},
		{"mc wrong kind", mc, Text("b"), false},
		{"tf right", tf, TrueFalse(false), true},
		{"tf wrong", tf, TrueFalse(true), false},
		{"fill exact", fill, Text("Ho Chi Minh City"), true},
		{"fill case and spaces", fill, Text("  ho chi   MINH city "), true},
		{"fill different", fill, Text("Hanoi"), false},
		{"fill empty", fill, Answer{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.q, tt.resp))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	// Decomposed "ộ" (o + combining marks) must equal the composed form.
	decomposed := "Ha\u0300 No\u0323\u0302i"
	assert.Equal(t, NormalizeText("hà nội"), NormalizeText(decomposed))
	assert.Equal(t, "water cycle", NormalizeText(" WATER \t Cycle "))
	assert.Equal(t, "", NormalizeText(" \t\n"))
	// Punctuation is kept: "3.5" and "35" are different answers.
	assert.Equal(t, "3.5", NormalizeText(" 3.5 "))
	assert.NotEqual(t, NormalizeText("35"), NormalizeText("3.5"))
}

func TestAnswerJSON(t *testing.T) {
	q := Question{ID: 1, Type: TypeMultipleChoice, Prompt: "p", Options: []string{"x", "y"}, Correct: Choice(1)}
	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"correctAnswer":1`)

	var back Question
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, q, back)

	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`true`), &a))
	assert.Equal(t, TrueFalse(true), a)
	require.NoError(t, json.Unmarshal([]byte(`"Water"`), &a))
	assert.Equal(t, Text("Water"), a)
	require.NoError(t, json.Unmarshal([]byte(`null`), &a))
	assert.True(t, a.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &a))
}

func TestParseResponse(t *testing.T) {
	mc := Question{ID: 1, Type: TypeMultipleChoice, Prompt: "p", Options: []string{"x", "y", "z"}, Correct: Choice(2)}
	tf := Question{ID: 2, Type: TypeTrueFalse, Prompt: "p", Correct: TrueFalse(true)}

	a, err := ParseResponse(mc, "C")
	require.NoError(t, err)
	assert.Equal(t, Choice(2), a)

	a, err = ParseResponse(mc, "2")
	require.NoError(t, err)
	assert.Equal(t, Choice(1), a)

	_, err = ParseResponse(mc, "second")
	assert.Error(t, err)

	a, err = ParseResponse(tf, "yes")
	require.NoError(t, err)
	assert.Equal(t, TrueFalse(true), a)

	_, err = ParseResponse(tf, "maybe")
	assert.Error(t, err)
}

func TestValidateSet(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(q *Question)
		field string
	}{
		{"zero id", func(q *Question) { q.ID = 0 }, "questions[0].id"},
		{"blank prompt", func(q *Question) { q.Prompt = "  " }, "questions[0].prompt"},
		{"one option", func(q *Question) { q.Options = q.Options[:1] }, "questions[0].options"},
		{"empty option", func(q *Question) { q.Options[1] = "" }, "questions[0].options[1]"},
		{"duplicate option", func(q *Question) { q.Options[2] = q.Options[0] }, "questions[0].options[2]"},
		{"index past end", func(q *Question) { q.Correct = Choice(3) }, "questions[0].correctAnswer"},
		{"wrong answer kind", func(q *Question) { q.Correct = Text("Hà Nội") }, "questions[0].correctAnswer"},
		{"unknown type", func(q *Question) { q.Type = "essay" }, "questions[0].type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := sampleQuestions()
			tt.edit(&qs[0])
			err := ValidateSet(qs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	dup := sampleQuestions()
	dup[1].ID = 1
	assert.ErrorContains(t, ValidateSet(dup), "duplicate id")
	assert.NoError(t, ValidateSet(sampleQuestions()))
}
