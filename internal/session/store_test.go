package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
)

func questions() []quiz.Question {
	return []quiz.Question{
		{ID: 1, Type: quiz.TypeMultipleChoice, Prompt: "2 + 3 = ?", Options: []string{"4", "5", "6"}, Correct: quiz.Choice(1)},
		{ID: 2, Type: quiz.TypeTrueFalse, Prompt: "Zero is even.", Correct: quiz.TrueFalse(true)},
		{ID: 3, Type: quiz.TypeFill, Prompt: "The opposite of hot is ___.", Correct: quiz.Text("cold")},
	}
}

func TestStore_RoundTripRestoresEngine(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory(), "lan", nil)

	e := quiz.NewEngine()
	require.NoError(t, e.Start(questions()))
	_, err := e.SubmitAnswer(quiz.Choice(1))
	require.NoError(t, err)
	_, err = e.Advance()
	require.NoError(t, err)
	_, err = e.SubmitAnswer(quiz.TrueFalse(false))
	require.NoError(t, err)

	qs := e.Snapshot()
	saved, err := store.Save(ctx, Snapshot{
		Stage:      StageQuiz,
		Topic:      "Numbers",
		Grade:      "Grade 3",
		Subject:    "Math",
		Difficulty: progress.Medium,
		Quiz:       &qs,
		Cards:      []cards.Card{cards.NewCard("even", "divisible by two")},
	})
	require.NoError(t, err)
	require.True(t, saved)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, StageQuiz, snap.Stage)
	assert.Equal(t, progress.Medium, snap.Difficulty)
	assert.False(t, snap.SavedAt.IsZero())
	assert.Equal(t, 1, snap.Deck().Len())

	restored, err := snap.Engine()
	require.NoError(t, err)
	assert.Equal(t, e.Index(), restored.Index())
	assert.Equal(t, e.Score(), restored.Score())
	assert.Equal(t, e.Correctness(), restored.Correctness())
	assert.Equal(t, e.Answers(), restored.Answers())
	assert.Equal(t, quiz.StateShowingFeedback, restored.State())
}

func TestStore_SkipsNonProgressStages(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := NewStore(mem, "lan", nil)

	for _, st := range []Stage{StageBuilder, StageResult} {
		saved, err := store.Save(ctx, Snapshot{Stage: st})
		require.NoError(t, err)
		assert.False(t, saved, "stage %s", st)
	}

	saved, err := store.Save(ctx, Snapshot{Stage: StageQuiz, AssignmentID: "a-1"})
	require.NoError(t, err)
	assert.False(t, saved, "assignment sessions are not resumable")

	_, ok, err := mem.Get(ctx, kv.SessionKey("lan"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_LoadEmpty(t *testing.T) {
	snap, err := NewStore(kv.NewMemory(), "lan", nil).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_CorruptSlotIsCleared(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := NewStore(mem, "lan", nil)

	for _, raw := range []string{`{not json`, `{"stage":"lobby"}`} {
		require.NoError(t, mem.Set(ctx, kv.SessionKey("lan"), raw))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap)

		_, ok, err := mem.Get(ctx, kv.SessionKey("lan"))
		require.NoError(t, err)
		assert.False(t, ok, "corrupt slot %q should be removed", raw)
	}
}

func TestStore_ClearMissingSlot(t *testing.T) {
	store := NewStore(kv.NewMemory(), "lan", nil)
	store.Clear(context.Background())
	store.Clear(context.Background())
}

func TestStage(t *testing.T) {
	tests := []struct {
		stage    Stage
		progress bool
	}{
		{StageBuilder, false},
		{StageLearningKit, true},
		{StageReview, true},
		{StageQuiz, true},
		{StageCards, true},
		{StageShare, true},
		{StageResult, false},
	}
	for _, tt := range tests {
		if got := tt.stage.IsProgress(); got != tt.progress {
			t.Errorf("%s.IsProgress() = %v, want %v", tt.stage, got, tt.progress)
		}
		parsed, err := ParseStage(string(tt.stage))
		if err != nil || parsed != tt.stage {
			t.Errorf("ParseStage(%q) = %q, %v", tt.stage, parsed, err)
		}
	}
	if _, err := ParseStage("lobby"); err == nil {
		t.Error("expected error for unknown stage")
	}
}
