package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func cardSchema() *Schema {
	return &Schema{
		Name:        "validate-card",
		Description: "A single flashcard",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"front":  map[string]any{"type": "string", "minLength": 1},
				"back":   map[string]any{"type": "string", "minLength": 1},
				"weight": map[string]any{"type": "integer", "minimum": 0},
				"status": map[string]any{"type": "string", "enum": []any{"new", "needs-review", "mastered"}},
			},
			"required": []any{"front", "back"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"front":"H2O","back":"Water","status":"new"}`, false},
		{"optional omitted", `{"front":"NaCl","back":"Salt"}`, false},
		{"missing required", `{"front":"CO2"}`, true},
		{"wrong type", `{"front":"O2","back":"Oxygen","weight":"heavy"}`, true},
		{"bad enum", `{"front":"He","back":"Helium","status":"forgotten"}`, true},
		{"empty string", `{"front":"","back":"Nothing"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(cardSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.raw != "" {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedArray(t *testing.T) {
	schema := &Schema{
		Name: "validate-deck",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cards": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    cardSchema().Definition,
				},
			},
			"required": []any{"cards"},
		},
	}

	valid := json.RawMessage(`{"cards":[{"front":"Fe","back":"Iron"}]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, raw := range []string{`{"cards":[]}`, `{"cards":[{"front":"Fe"}]}`} {
		if err := validateResponse(schema, json.RawMessage(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestValidateResponse_NamesSchema(t *testing.T) {
	err := validateResponse(cardSchema(), json.RawMessage(`{"front":"Ar"}`))
	if err == nil || !strings.Contains(err.Error(), "validate-card") {
		t.Fatalf("error should name the schema, got %v", err)
	}
}
