// Package kvtest holds the behavioural contract every kv.Store backend
// must satisfy.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduquiz/internal/kv"
)

// Run exercises s against the kv.Store contract. s must start empty.
func Run(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "session:u1", `{"stage":"quiz"}`))
		v, ok, err := s.Get(ctx, "session:u1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `{"stage":"quiz"}`, v)

		require.NoError(t, s.Set(ctx, "session:u1", `{"stage":"cards"}`))
		v, _, err = s.Get(ctx, "session:u1")
		require.NoError(t, err)
		assert.Equal(t, `{"stage":"cards"}`, v)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "tmp", "x"))
		require.NoError(t, s.Remove(ctx, "tmp"))
		_, ok, err := s.Get(ctx, "tmp")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, s.Remove(ctx, "tmp"), "removing a missing key is fine")
	})

	t.Run("keys by prefix", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, kv.HistoryKey("u1", "6", "math"), "[]"))
		require.NoError(t, s.Set(ctx, kv.HistoryKey("u1", "6", "english"), "[]"))
		require.NoError(t, s.Set(ctx, kv.HistoryKey("u2", "6", "math"), "[]"))

		keys, err := s.Keys(ctx, kv.HistoryPrefix("u1"))
		require.NoError(t, err)
		assert.Equal(t, []string{"history:u1:6:english", "history:u1:6:math"}, keys)
	})

	t.Run("json helpers", func(t *testing.T) {
		type rec struct {
			Score int `json:"score"`
		}
		require.NoError(t, kv.SetJSON(ctx, s, kv.LastResultKey("u1"), rec{Score: 80}))

		var got rec
		ok, err := kv.GetJSON(ctx, s, kv.LastResultKey("u1"), &got)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 80, got.Score)

		require.NoError(t, s.Set(ctx, "broken", "{not json"))
		ok, err = kv.GetJSON(ctx, s, "broken", &got)
		assert.True(t, ok)
		assert.Error(t, err)
	})
}
