package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/llm"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// Generator produces quiz questions and flashcards.
type Generator interface {
	// Questions returns a validated question set for req.
	Questions(ctx context.Context, req Request) ([]quiz.Question, error)

	// Cards returns flashcards drawn from req.Text, all in the new status.
	Cards(ctx context.Context, req CardsRequest) ([]cards.Card, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// QuestionOutput is one question as the model returns it.
type QuestionOutput struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	Q           string   `json:"q"`
	Opts        []string `json:"opts"`
	A           string   `json:"a"`
	Explanation string   `json:"explanation"`
}

type quizOutput struct {
	Questions []QuestionOutput `json:"questions"`
}

type cardsOutput struct {
	Cards []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"cards"`
}

func (g *LLMGenerator) Questions(ctx context.Context, req Request) ([]quiz.Question, error) {
	const op = "generate quiz"
	if req.Count <= 0 {
		return nil, &errs.InvalidInputError{Field: "count", Reason: "must be positive"}
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req, g.config)}},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, llm.Classify(op, err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, malformed(op, fmt.Errorf("parse response: %w", err))
	}
	if len(raw.Questions) == 0 {
		return nil, malformed(op, fmt.Errorf("no questions returned"))
	}
	if len(raw.Questions) > req.Count {
		raw.Questions = raw.Questions[:req.Count]
	}

	questions, err := ConvertQuestions(raw.Questions, req, g.config.Validators)
	if err != nil {
		return nil, malformed(op, err)
	}
	return questions, nil
}

// ConvertQuestions maps model output to questions, renumbers them from 1
// and runs validators over each.
func ConvertQuestions(raw []QuestionOutput, req Request, validators []Validator) ([]quiz.Question, error) {
	out := make([]quiz.Question, 0, len(raw))
	for i, r := range raw {
		q, err := convertQuestion(r)
		if err != nil {
			return nil, &ValidationError{Validator: "parse", Index: i, Message: err.Error()}
		}
		q.ID = i + 1
		for _, v := range validators {
			if verr := v.Validate(&q, req); verr != nil {
				verr.Index = i
				return nil, verr
			}
		}
		out = append(out, q)
	}
	return out, nil
}

func convertQuestion(r QuestionOutput) (quiz.Question, error) {
	t, err := quiz.ParseType(r.Type)
	if err != nil {
		return quiz.Question{}, err
	}
	q := quiz.Question{
		Type:        t,
		Prompt:      strings.TrimSpace(r.Q),
		Explanation: strings.TrimSpace(r.Explanation),
	}
	a := strings.TrimSpace(r.A)

	switch t {
	case quiz.TypeMultipleChoice:
		for _, o := range r.Opts {
			q.Options = append(q.Options, strings.TrimSpace(o))
		}
		idx, err := strconv.Atoi(a)
		if err != nil {
			// Some models answer with the option text.
			idx = indexOf(q.Options, a)
			if idx < 0 {
				return quiz.Question{}, fmt.Errorf("answer %q is neither an index nor an option", r.A)
			}
		}
		q.Correct = quiz.Choice(idx)
	case quiz.TypeTrueFalse:
		v, err := strconv.ParseBool(strings.ToLower(a))
		if err != nil {
			return quiz.Question{}, fmt.Errorf("true/false answer %q", r.A)
		}
		q.Correct = quiz.TrueFalse(v)
	case quiz.TypeFill:
		q.Correct = quiz.Text(a)
	}
	return q, nil
}

func indexOf(options []string, s string) int {
	for i, o := range options {
		if quiz.NormalizeText(o) == quiz.NormalizeText(s) {
			return i
		}
	}
	return -1
}

func (g *LLMGenerator) Cards(ctx context.Context, req CardsRequest) ([]cards.Card, error) {
	const op = "generate cards"
	req.Text = TruncateSource(strings.TrimSpace(req.Text))
	if req.Text == "" {
		return nil, &errs.InvalidInputError{Field: "text", Reason: "no text to build cards from"}
	}
	req.Count = ClampCardCount(req.Count)
	ctx = llm.WithPurpose(ctx, llm.PurposeCards)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      cardsSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildCardsMessage(req)}},
		Schema:      CardsSchema,
		MaxTokens:   g.config.CardMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, llm.Classify(op, err)
	}

	var raw cardsOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, malformed(op, fmt.Errorf("parse response: %w", err))
	}

	var out []cards.Card
	for _, c := range raw.Cards {
		card := cards.NewCard(c.Front, c.Back)
		if card.Front == "" || card.Back == "" {
			continue
		}
		out = append(out, card)
		if len(out) == req.Count {
			break
		}
	}
	if len(out) == 0 {
		return nil, malformed(op, fmt.Errorf("no usable cards returned"))
	}
	return out, nil
}

func malformed(op string, err error) error {
	return &errs.ProviderError{Kind: errs.ProviderMalformed, Op: op, Err: err}
}
