package lessons

import (
	"github.com/abhisek/eduquiz/internal/llm"
	"github.com/abhisek/eduquiz/internal/quizgen"
)

// KitSchema defines the JSON schema for learning kit generation.
var KitSchema = &llm.Schema{
	Name:        "learning-kit",
	Description: "A topic summary, flashcards, quiz questions and one open question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "A clear summary of the topic in 2-4 short paragraphs",
			},
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{"type": "string"},
						"back":  map[string]any{"type": "string"},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
			},
			"questions": map[string]any{
				"type":  "array",
				"items": quizgen.QuestionItemSchema(),
			},
			"criticalThinkingQuestion": map[string]any{
				"type":        "string",
				"description": "One open question that asks the student to apply or reason about the topic",
			},
		},
		"required":             []any{"summary", "flashcards", "questions", "criticalThinkingQuestion"},
		"additionalProperties": false,
	},
}

// FeedbackSchema defines the JSON schema for tutor feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "tutor-feedback",
	Description: "Encouraging feedback on a finished quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A short encouraging headline",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Analysis of the mistakes and concrete advice",
			},
		},
		"required":             []any{"title", "content"},
		"additionalProperties": false,
	},
}

// PathSchema defines the JSON schema for a four-week learning path.
var PathSchema = &llm.Schema{
	Name:        "learning-path",
	Description: "A four-week study plan",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"weeks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week":      map[string]any{"type": "integer"},
						"title":     map[string]any{"type": "string"},
						"topics":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"objective": map[string]any{"type": "string"},
					},
					"required":             []any{"week", "title", "topics", "objective"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"weeks"},
		"additionalProperties": false,
	},
}
