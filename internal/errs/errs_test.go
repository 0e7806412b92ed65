package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		internal    bool
		recoverable bool
	}{
		{"invalid state", &InvalidStateError{Op: "advance", State: "idle"}, true, false},
		{"out of range", &OutOfRangeError{Op: "reorder", Index: 4, Len: 2}, true, false},
		{"wrapped out of range", fmt.Errorf("cards: %w", &OutOfRangeError{Op: "set", Index: -1}), true, false},
		{"empty pool", &EmptyPoolError{Filter: "notMastered"}, false, true},
		{"provider", &ProviderError{Kind: ProviderTransient, Op: "quiz"}, false, true},
		{"invalid input", &InvalidInputError{Reason: "empty"}, false, false},
		{"plain", errors.New("boom"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInternal(tt.err); got != tt.internal {
				t.Errorf("IsInternal = %v, want %v", got, tt.internal)
			}
			if got := IsRecoverable(tt.err); got != tt.recoverable {
				t.Errorf("IsRecoverable = %v, want %v", got, tt.recoverable)
			}
		})
	}
}

func TestProviderError_NeedsCredential(t *testing.T) {
	for kind, want := range map[ProviderKind]bool{
		ProviderQuota:      true,
		ProviderCredential: true,
		ProviderMalformed:  false,
		ProviderTransient:  false,
	} {
		e := &ProviderError{Kind: kind}
		if got := e.NeedsCredential(); got != want {
			t.Errorf("%s: NeedsCredential = %v, want %v", kind, got, want)
		}
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("429")
	err := fmt.Errorf("generate: %w", &ProviderError{Kind: ProviderQuota, Op: "quiz", Err: cause})

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through ProviderError")
	}
	prov, ok := AsProvider(err)
	if !ok {
		t.Fatal("expected AsProvider to find the error")
	}
	if prov.Kind != ProviderQuota {
		t.Errorf("kind = %s, want quota", prov.Kind)
	}
}
