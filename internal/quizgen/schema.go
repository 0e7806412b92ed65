package quizgen

import "github.com/abhisek/eduquiz/internal/llm"

// questionItem is the per-question shape shared by quizzes and learning
// kits.
var questionItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{
			"type":        "integer",
			"description": "1-based question number",
		},
		"type": map[string]any{
			"type":        "string",
			"enum":        []any{"mc", "tf", "fill"},
			"description": "mc: multiple choice, tf: true/false, fill: fill in the blank",
		},
		"q": map[string]any{
			"type":        "string",
			"description": "The question prompt. For fill, mark the blank with ___",
		},
		"opts": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "2 to 4 distinct options for mc. Empty array for tf and fill.",
		},
		"a": map[string]any{
			"type":        "string",
			"description": "mc: 0-based index of the correct option as digits. tf: \"true\" or \"false\". fill: the expected answer text.",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "One or two sentences explaining the correct answer",
		},
	},
	"required":             []any{"id", "type", "q", "opts", "a", "explanation"},
	"additionalProperties": false,
}

// QuestionItemSchema exposes the question shape to other generators.
func QuestionItemSchema() map[string]any { return questionItem }

// QuizSchema is the response shape for quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A list of quiz questions with answers and explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionItem,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// CardsSchema is the response shape for flashcards from text.
var CardsSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "Flashcards covering the key facts of a document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "A term, question or cue",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "The definition or answer, one or two sentences",
						},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
