package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/extract"
	"github.com/abhisek/eduquiz/internal/history"
	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/lessons"
	"github.com/abhisek/eduquiz/internal/logger"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/quizgen"
	"github.com/abhisek/eduquiz/internal/session"
	"github.com/abhisek/eduquiz/internal/study"
)

var testQuestions = []quiz.Question{
	{ID: 1, Type: quiz.TypeMultipleChoice, Prompt: "7 × 8 = ?", Options: []string{"54", "56", "64"}, Correct: quiz.Choice(1)},
	{ID: 2, Type: quiz.TypeTrueFalse, Prompt: "9 is prime.", Correct: quiz.TrueFalse(false)},
	{ID: 3, Type: quiz.TypeFill, Prompt: "Half of 50 is ___.", Correct: quiz.Text("25")},
}

type fakeGenerator struct{}

func (fakeGenerator) Questions(context.Context, quizgen.Request) ([]quiz.Question, error) {
	return testQuestions, nil
}

func (fakeGenerator) Cards(context.Context, quizgen.CardsRequest) ([]cards.Card, error) {
	return nil, nil
}

type fakeTutor struct{}

func (fakeTutor) Kit(context.Context, lessons.KitInput) (*lessons.Kit, error) { return nil, nil }
func (fakeTutor) Feedback(context.Context, lessons.FeedbackInput) (quiz.TutorFeedback, error) {
	return quiz.TutorFeedback{Title: "Good effort", Body: "Revise prime numbers."}, nil
}
func (fakeTutor) Path(context.Context, lessons.PathInput) (*history.Path, error) { return nil, nil }

func startedStudy(t *testing.T) *study.Study {
	t.Helper()
	ctx := context.Background()
	st, err := study.New(ctx, study.Deps{
		KV:        kv.NewMemory(),
		UserID:    "bao",
		Generator: fakeGenerator{},
		Tutor:     fakeTutor{},
	})
	require.NoError(t, err)
	_, err = st.GenerateQuiz(ctx, study.Setup{
		Grade: "Grade 3", Subject: "Math", Topic: "Times tables",
		Difficulty: progress.Easy, Count: 3,
	})
	require.NoError(t, err)
	require.NoError(t, st.StartQuiz(ctx))
	t.Cleanup(st.Wait)
	return st
}

func TestAnswerAll(t *testing.T) {
	st := startedStudy(t)
	var out bytes.Buffer

	c, err := answerAll(context.Background(), &out, st, []string{"b", "true", " 25 "})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 67, c.Result.Score)
	assert.Equal(t, 2, c.Result.Correct)

	text := out.String()
	assert.Contains(t, text, "✓ 56")
	assert.Contains(t, text, "✗ true  (correct: false)")
	assert.Contains(t, text, "B) 56")
}

func TestAnswerAllStopsWhenAnswersRunOut(t *testing.T) {
	st := startedStudy(t)
	var out bytes.Buffer

	_, err := answerAll(context.Background(), &out, st, []string{"b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 1 answers for 3 remaining questions")
	assert.Equal(t, session.StageQuiz, st.Stage())

	// A second run continues where the first stopped.
	c, err := answerAll(context.Background(), &out, st, []string{"f", "25"})
	require.NoError(t, err)
	assert.Equal(t, 100, c.Result.Score)
}

func TestAnswerAllRejectsBadAnswer(t *testing.T) {
	st := startedStudy(t)
	_, err := answerAll(context.Background(), &bytes.Buffer{}, st, []string{"seven"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "answer 1")
}

func TestPlayScriptedPrintsFeedback(t *testing.T) {
	st := startedStudy(t)
	var out bytes.Buffer
	quizCmd.SetOut(&out)
	quizCmd.SetContext(context.Background())
	t.Cleanup(func() { quizCmd.SetOut(nil) })

	require.NoError(t, playScripted(quizCmd, st, []string{"a", "f", "25"}))
	assert.Contains(t, out.String(), "Score: 67/100")
	assert.Contains(t, out.String(), "Good effort")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "Việt", truncateRunes("Việt Nam", 4))
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "any", truncateRunes("any", 0))
}

func TestCardIndex(t *testing.T) {
	i, err := cardIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	for _, bad := range []string{"0", "-1", "x"} {
		_, err := cardIndex(bad)
		assert.Error(t, err, bad)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCardsImportAndList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	db := filepath.Join(dir, "eduquiz.db")

	csvPath := filepath.Join(dir, "cards.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("front,back,status\nH2O,Water,new\nNaCl,Salt,mastered\n"), 0o644))

	out := execute(t, "--db", db, "--user", "hoa", "cards", "import", csvPath)
	assert.Contains(t, out, "Imported 2 cards.")

	out = execute(t, "--db", db, "--user", "hoa", "cards", "list")
	assert.Contains(t, out, "H2O")
	assert.Contains(t, out, "NaCl")
	assert.True(t, strings.Contains(out, "1 new · 0 needs review · 1 mastered"), out)
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Equal(t, "eduquiz (devel)\n", out)
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    []string
		notWant []string
		logged  int
	}{
		{
			name: "bad credential asks for a key",
			err:  fmt.Errorf("generate quiz: %w", &errs.ProviderError{Kind: errs.ProviderCredential, Op: "generate questions"}),
			want: []string{"Error: generate quiz", "EDUQUIZ_<PROVIDER>_API_KEY"},
		},
		{
			name: "exhausted quota",
			err:  &errs.ProviderError{Kind: errs.ProviderQuota, Op: "generate questions"},
			want: []string{"no remaining quota"},
		},
		{
			name:    "transient failure has no key hint",
			err:     &errs.ProviderError{Kind: errs.ProviderTransient, Op: "generate questions"},
			want:    []string{"Error:"},
			notWant: []string{"API_KEY", "quota"},
		},
		{
			name:    "locked pdf keeps its own hint",
			err:     &errs.ProviderError{Kind: errs.ProviderCredential, Op: "extract text", Err: &extract.ExtractError{Kind: extract.KindPasswordRequired, Path: "a.pdf"}},
			want:    []string{"password-required"},
			notWant: []string{"API_KEY"},
		},
		{
			name:   "invariant violation is logged",
			err:    &errs.InvalidStateError{Op: "Advance", State: "idle"},
			want:   []string{"Internal error", "Advance"},
			logged: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
			var out bytes.Buffer

			reportError(&out, log, "eduquiz quiz new", tt.err)

			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out.String(), w)
			}
			entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
			require.Len(t, entries, tt.logged)
			if tt.logged > 0 {
				assert.Equal(t, "invariant violated", entries[0].Message)
			}
		})
	}
}

func TestExecuteReportsBadCardNumber(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	db := filepath.Join(dir, "eduquiz.db")
	csvPath := filepath.Join(dir, "cards.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("front,back,status\nH2O,Water,new\n"), 0o644))
	execute(t, "--db", db, "--user", "hoa", "cards", "import", csvPath)

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"--db", db, "--user", "hoa", "cards", "delete", "5"})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.Error(t, Execute())
	assert.Contains(t, stderr.String(), "Error: no card 5: the set has 1 cards")
	assert.NotContains(t, stderr.String(), "Internal error")
}
