package llm

import (
	"bytes"
	"context"
	"encoding/json"
)

// Provider generates structured study content from a prompt.
type Provider interface {
	// Generate sends one prompt and returns the model's reply. When
	// req.Schema is set the reply is JSON that has been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System sets the tutor persona and output rules.
	System string

	// Messages holds the prompt. Every call this app makes is single-turn,
	// so this is one user message.
	Messages []Message

	// Schema is the JSON Schema the reply must satisfy. Providers use their
	// native structured-output mode for it. Nil returns plain text.
	Schema *Schema

	MaxTokens int

	// Temperature in 0.0-1.0. Zero leaves the provider default.
	Temperature float64
}

// Message is one prompt turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema, e.g. "quiz-questions".
type Schema struct {
	// Name doubles as the tool or schema name on the wire and as the
	// validation cache key, so it must be unique per Definition.
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response holds the model's reply.
type Response struct {
	// Content is the validated JSON object when the request carried a
	// Schema, otherwise the raw reply text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, which may differ from
	// the configured alias.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish turns a raw provider reply into a Response. A reply cut off by
// the token limit cannot satisfy a schema and is reported as
// ErrMaxTokensExceeded rather than as a schema violation.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil {
		content = stripCodeFence(content)
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// stripCodeFence removes a ```json ... ``` wrapper. Models reached through
// OpenRouter without strict schema support often add one.
func stripCodeFence(raw json.RawMessage) json.RawMessage {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = s[3:]
	if nl := bytes.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = bytes.TrimSuffix(bytes.TrimSpace(s), []byte("```"))
	return bytes.TrimSpace(s)
}
