package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("user", "u1").Warn("stale result discarded", "generation", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Errorf("level = %s, want warn", e.Level)
	}
	fields := e.ContextMap()
	if fields["user"] != "u1" {
		t.Errorf("user field = %v", fields["user"])
	}
	if fields["generation"] != int64(3) {
		t.Errorf("generation field = %v (%T)", fields["generation"], fields["generation"])
	}
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"development", "production", "prod", "quiet", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Debug("hello")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded", "k", "v")
	l.Sync()
}
