// Package lessons generates learning kits, tutor feedback and learning paths.
package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/history"
	"github.com/abhisek/eduquiz/internal/llm"
	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/quizgen"
)

// PerfectFeedback is returned without a provider call when nothing was
// answered wrong.
var PerfectFeedback = quiz.TutorFeedback{
	Title: "Perfect score!",
	Body:  "You answered every question correctly. Try the next difficulty or a new topic to keep going.",
}

// FallbackFeedback is returned alongside the error when the provider fails.
var FallbackFeedback = quiz.TutorFeedback{
	Title: "Good effort!",
	Body:  "Tutor feedback is unavailable right now. Review the explanations of the questions you missed and try again.",
}

// Service generates lesson content. Calls are synchronous; callers that
// want background generation own the goroutine.
type Service struct {
	provider   llm.Provider
	cfg        Config
	validators []quizgen.Validator
	now        func() time.Time
}

// NewService creates a lesson generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{
		provider:   provider,
		cfg:        cfg,
		validators: quizgen.DefaultValidators(),
		now:        time.Now,
	}
}

type kitOutput struct {
	Summary    string `json:"summary"`
	Flashcards []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"flashcards"`
	Questions        []quizgen.QuestionOutput `json:"questions"`
	CriticalThinking string                   `json:"criticalThinkingQuestion"`
}

// Kit generates a learning kit for in.Topic.
func (s *Service) Kit(ctx context.Context, in KitInput) (*Kit, error) {
	const op = "generate learning kit"
	if strings.TrimSpace(in.Topic) == "" {
		return nil, &errs.InvalidInputError{Field: "topic", Reason: "must not be empty"}
	}
	if in.QuestionCount <= 0 {
		in.QuestionCount = 5
	}
	if in.CardCount <= 0 {
		in.CardCount = 5
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeLearningKit), llm.Request{
		System:      kitSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildKitUserMessage(in)}},
		Schema:      KitSchema,
		MaxTokens:   s.cfg.KitMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, llm.Classify(op, err)
	}

	var out kitOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, malformed(op, fmt.Errorf("parse response: %w", err))
	}
	if len(out.Questions) == 0 {
		return nil, malformed(op, fmt.Errorf("kit has no questions"))
	}
	if len(out.Questions) > in.QuestionCount {
		out.Questions = out.Questions[:in.QuestionCount]
	}

	req := quizgen.Request{
		Grade:      in.Grade,
		Subject:    in.Subject,
		Topic:      in.Topic,
		Difficulty: in.Difficulty,
		Count:      in.QuestionCount,
		Types:      in.Types,
	}
	questions, err := quizgen.ConvertQuestions(out.Questions, req, s.validators)
	if err != nil {
		return nil, malformed(op, err)
	}

	kit := &Kit{
		Topic:            in.Topic,
		Summary:          strings.TrimSpace(out.Summary),
		Questions:        questions,
		CriticalThinking: strings.TrimSpace(out.CriticalThinking),
	}
	for _, c := range out.Flashcards {
		card := cards.NewCard(c.Front, c.Back)
		if card.Front == "" || card.Back == "" {
			continue
		}
		kit.Flashcards = append(kit.Flashcards, card)
	}
	return kit, nil
}

type feedbackOutput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Feedback asks the tutor to review a finished quiz. On a provider failure
// it returns FallbackFeedback together with the error so callers always
// have something to show.
func (s *Service) Feedback(ctx context.Context, in FeedbackInput) (quiz.TutorFeedback, error) {
	const op = "generate feedback"
	if len(in.Wrong) == 0 {
		return PerfectFeedback, nil
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeFeedback), llm.Request{
		System:      feedbackSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildFeedbackUserMessage(in)}},
		Schema:      FeedbackSchema,
		MaxTokens:   s.cfg.FeedbackMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return FallbackFeedback, llm.Classify(op, err)
	}

	var out feedbackOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return FallbackFeedback, malformed(op, fmt.Errorf("parse response: %w", err))
	}
	fb := quiz.TutorFeedback{
		Title: strings.TrimSpace(out.Title),
		Body:  strings.TrimSpace(out.Content),
	}
	if fb.Body == "" {
		return FallbackFeedback, malformed(op, fmt.Errorf("empty feedback"))
	}
	if fb.Title == "" {
		fb.Title = FallbackFeedback.Title
	}
	return fb, nil
}

type pathOutput struct {
	Weeks []history.Week `json:"weeks"`
}

// Path generates a four-week learning path. Weeks are renumbered from 1
// and weeks without topics are dropped.
func (s *Service) Path(ctx context.Context, in PathInput) (*history.Path, error) {
	const op = "generate learning path"
	if strings.TrimSpace(in.Grade) == "" || strings.TrimSpace(in.Subject) == "" {
		return nil, &errs.InvalidInputError{Field: "grade/subject", Reason: "must not be empty"}
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeLearningPath), llm.Request{
		System:      pathSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildPathUserMessage(in)}},
		Schema:      PathSchema,
		MaxTokens:   s.cfg.PathMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, llm.Classify(op, err)
	}

	var out pathOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, malformed(op, fmt.Errorf("parse response: %w", err))
	}

	path := &history.Path{Grade: in.Grade, Subject: in.Subject, CreatedAt: s.now()}
	for _, w := range out.Weeks {
		topics := w.Topics[:0]
		for _, t := range w.Topics {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
		if len(topics) == 0 {
			continue
		}
		w.Topics = topics
		w.Week = len(path.Weeks) + 1
		w.Title = strings.TrimSpace(w.Title)
		w.Objective = strings.TrimSpace(w.Objective)
		path.Weeks = append(path.Weeks, w)
		if len(path.Weeks) == history.PathWeeks {
			break
		}
	}
	if len(path.Weeks) == 0 {
		return nil, malformed(op, fmt.Errorf("path has no weeks"))
	}
	return path, nil
}

func malformed(op string, err error) error {
	return &errs.ProviderError{Kind: errs.ProviderMalformed, Op: op, Err: err}
}
