package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/eduquiz/internal/kv/kvtest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"kv_entries", "llm_request_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestKVContract(t *testing.T) {
	s := openTestStore(t)
	kvtest.Run(t, s.KV())
}

func TestKVPrefixEscapesWildcards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	kv := s.KV()

	if err := kv.Set(ctx, "a_b:1", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "aXb:1", "y"); err != nil {
		t.Fatalf("set: %v", err)
	}
	keys, err := kv.Keys(ctx, "a_b:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "a_b:1" {
		t.Fatalf("keys = %v, want [a_b:1]", keys)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSequenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eduquiz.db")
	ctx := context.Background()

	next := func() int64 {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer s.Close()
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		return seq
	}

	if first, second := next(), next(); first != 1 || second != 2 {
		t.Fatalf("sequence across reopen = %d, %d; want 1, 2", first, second)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock", Purpose: "quiz-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nfractions"},
		{Provider: "mock", Model: "mock", Purpose: "feedback", InputTokens: 40, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "mock", Model: "mock", Purpose: "quiz-gen", InputTokens: 10, OutputTokens: 0, LatencyMs: 400, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].ErrorMessage != "rate limited" || all[0].Success {
		t.Errorf("expected newest event first, got %+v", all[0])
	}

	quiz, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz-gen", Limit: 1})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(quiz) != 1 || quiz[0].Purpose != "quiz-gen" {
		t.Fatalf("unexpected filtered events: %+v", quiz)
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "[user]\nfractions" {
		t.Fatalf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d purposes, want 2", len(usage))
	}
	// Ordered by purpose: feedback, quiz-gen.
	if usage[1].Key != "quiz-gen" || usage[1].Calls != 2 || usage[1].InputTokens != 110 || usage[1].AvgLatencyMs != 300 {
		t.Errorf("unexpected quiz-gen usage: %+v", usage[1])
	}
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EDUQUIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := Path("")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if want := filepath.Join(dir, "eduquiz", "eduquiz.db"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	explicit := filepath.Join(dir, "nested", "mine.db")
	got, err = Path(explicit)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if got != explicit {
		t.Errorf("Path(explicit) = %q", got)
	}
	if _, err := os.Stat(filepath.Dir(explicit)); err != nil {
		t.Errorf("parent not created: %v", err)
	}
}
