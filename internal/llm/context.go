package llm

import "context"

// Purpose labels an LLM call in the event log and in traces.
type Purpose string

const (
	PurposeQuiz         Purpose = "quiz-gen"
	PurposeCards        Purpose = "cards-gen"
	PurposeLearningKit  Purpose = "learning-kit"
	PurposeFeedback     Purpose = "feedback"
	PurposeLearningPath Purpose = "learning-path"
	PurposeUnknown      Purpose = "unknown"
)

// Purposes lists the labels the app itself attaches.
var Purposes = []Purpose{PurposeQuiz, PurposeCards, PurposeLearningKit, PurposeFeedback, PurposeLearningPath}

type purposeKey struct{}

// WithPurpose attaches a purpose label to the context.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom extracts the purpose label, PurposeUnknown when none is set.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
