package study

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/history"
	"github.com/abhisek/eduquiz/internal/lessons"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/quizgen"
	"github.com/abhisek/eduquiz/internal/session"
)

// DefaultQuestionCount is used when a setup asks for no specific count.
const DefaultQuestionCount = 5

// Setup describes the quiz or kit a learner asked for.
type Setup struct {
	Grade      string
	Subject    string
	Topic      string
	Difficulty progress.Tier
	Count      int
	Types      []quiz.Type
	// Week selects a learning path week. Its topics replace Topic and
	// its unlocked tier bounds Difficulty.
	Week     int
	Language string
}

func (st Setup) fingerprint(kind string) string {
	types := make([]string, len(st.Types))
	for i, t := range st.Types {
		types[i] = string(t)
	}
	return strings.Join([]string{
		kind, st.Grade, st.Subject, st.Topic, string(st.Difficulty),
		fmt.Sprint(st.Count), strings.Join(types, ","), st.Language,
	}, "|")
}

// resolve fills defaults and rejects setups asking for a locked tier or
// week.
func (s *Study) resolve(ctx context.Context, st Setup) (Setup, []history.Entry, error) {
	st.Grade = strings.TrimSpace(st.Grade)
	st.Subject = strings.TrimSpace(st.Subject)
	st.Topic = strings.TrimSpace(st.Topic)
	if st.Difficulty == "" {
		st.Difficulty = progress.Easy
	}
	if !st.Difficulty.Valid() {
		return st, nil, &errs.InvalidInputError{Field: "difficulty", Reason: fmt.Sprintf("unknown tier %q", st.Difficulty)}
	}
	if st.Count <= 0 {
		st.Count = DefaultQuestionCount
	}

	s.mu.Lock()
	entries, err := s.historyLocked(ctx, st.Grade, st.Subject)
	s.mu.Unlock()
	if err != nil {
		return st, nil, err
	}

	limit := s.progress.UnlockedTier(st.Grade, st.Subject)
	if st.Week > 0 {
		path, err := s.paths.Load(ctx, st.Grade, st.Subject)
		if err != nil {
			return st, nil, err
		}
		if path == nil {
			return st, nil, &errs.InvalidInputError{Field: "week", Reason: "no learning path for this grade and subject"}
		}
		w, ok := path.FindWeek(st.Week)
		if !ok {
			return st, nil, &errs.InvalidInputError{Field: "week", Reason: fmt.Sprintf("path has no week %d", st.Week)}
		}
		if unlocked := path.UnlockedWeek(entries); st.Week > unlocked {
			return st, nil, &errs.InvalidInputError{Field: "week", Reason: fmt.Sprintf("week %d is locked, finish week %d first", st.Week, unlocked)}
		}
		st.Topic = w.Topic()
		limit = history.UnlockedTier(w, entries)
	}
	if st.Topic == "" {
		return st, nil, &errs.InvalidInputError{Field: "topic", Reason: "must not be empty"}
	}
	if !limit.AtLeast(st.Difficulty) {
		return st, nil, &errs.InvalidInputError{Field: "difficulty", Reason: fmt.Sprintf("%s is locked, highest unlocked is %s", st.Difficulty, limit)}
	}
	return st, entries, nil
}

func priorPrompts(topic string, entries []history.Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Topic != topic {
			continue
		}
		for _, q := range e.Questions {
			out = append(out, q.Prompt)
		}
	}
	return out
}

// GenerateQuiz asks the generator for a question set and stages it for
// review. Identical concurrent requests share one provider call.
func (s *Study) GenerateQuiz(ctx context.Context, st Setup) ([]quiz.Question, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("study: no question generator configured")
	}
	st, entries, err := s.resolve(ctx, st)
	if err != nil {
		return nil, err
	}
	token := s.begin()

	v, err, shared := s.flight.Do(st.fingerprint("quiz"), func() (any, error) {
		return s.gen.Questions(ctx, quizgen.Request{
			Grade:        st.Grade,
			Subject:      st.Subject,
			Topic:        st.Topic,
			Difficulty:   st.Difficulty,
			Count:        st.Count,
			Types:        st.Types,
			PriorPrompts: priorPrompts(st.Topic, entries),
			Language:     st.Language,
		})
	})
	if err != nil {
		s.log.Warn("quiz generation failed", "topic", st.Topic, "error", err)
		return nil, err
	}
	questions := slices.Clone(v.([]quiz.Question))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != token {
		return nil, ErrStale
	}
	s.log.Debug("quiz generated", "topic", st.Topic, "questions", len(questions), "shared", shared)
	s.snap = session.Snapshot{
		Stage:      session.StageReview,
		Topic:      st.Topic,
		Grade:      st.Grade,
		Subject:    st.Subject,
		Difficulty: st.Difficulty,
	}
	s.staged, s.engine, s.finished = questions, nil, nil
	s.persistLocked(ctx)
	return slices.Clone(questions), nil
}

// GenerateKit asks the tutor for a learning kit. The kit's questions are
// staged so the learner can take the quiz after reading.
func (s *Study) GenerateKit(ctx context.Context, st Setup, cardCount int) (*lessons.Kit, error) {
	if s.tutor == nil {
		return nil, fmt.Errorf("study: no tutor configured")
	}
	st, _, err := s.resolve(ctx, st)
	if err != nil {
		return nil, err
	}
	token := s.begin()

	key := st.fingerprint("kit") + "|" + fmt.Sprint(cardCount)
	v, err, _ := s.flight.Do(key, func() (any, error) {
		return s.tutor.Kit(ctx, lessons.KitInput{
			Grade:         st.Grade,
			Subject:       st.Subject,
			Topic:         st.Topic,
			Difficulty:    st.Difficulty,
			QuestionCount: st.Count,
			CardCount:     cardCount,
			Types:         st.Types,
			Language:      st.Language,
		})
	})
	if err != nil {
		s.log.Warn("kit generation failed", "topic", st.Topic, "error", err)
		return nil, err
	}
	kit := *v.(*lessons.Kit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != token {
		return nil, ErrStale
	}
	s.snap = session.Snapshot{
		Stage:      session.StageLearningKit,
		Topic:      st.Topic,
		Grade:      st.Grade,
		Subject:    st.Subject,
		Difficulty: st.Difficulty,
		Kit:        &kit,
	}
	s.staged, s.engine, s.finished = slices.Clone(kit.Questions), nil, nil
	s.persistLocked(ctx)
	return &kit, nil
}

// CardsFromText turns document text into flashcards, adds them to the
// saved card set and moves to the cards stage.
func (s *Study) CardsFromText(ctx context.Context, text, sourceName string, count int, language string) ([]cards.Card, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("study: no question generator configured")
	}
	token := s.begin()

	sum := sha256.Sum256([]byte(text))
	key := fmt.Sprintf("cards|%s|%d|%s", hex.EncodeToString(sum[:8]), count, language)
	v, err, _ := s.flight.Do(key, func() (any, error) {
		return s.gen.Cards(ctx, quizgen.CardsRequest{Text: text, SourceName: sourceName, Count: count, Language: language})
	})
	if err != nil {
		s.log.Warn("card generation failed", "source", sourceName, "error", err)
		return nil, err
	}
	added := slices.Clone(v.([]cards.Card))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != token {
		return nil, ErrStale
	}
	s.deck.Add(added...)
	if err := s.cardStore.Save(ctx, s.deck); err != nil {
		return nil, fmt.Errorf("save cards: %w", err)
	}
	s.snap = session.Snapshot{Stage: session.StageCards, Topic: sourceName, PDFName: sourceName}
	s.staged, s.engine, s.finished = nil, nil, nil
	s.persistLocked(ctx)
	return added, nil
}

// GeneratePath asks the tutor for a learning path and saves it, replacing
// any earlier path for the grade and subject.
func (s *Study) GeneratePath(ctx context.Context, grade, subject, language string) (*history.Path, error) {
	if s.tutor == nil {
		return nil, fmt.Errorf("study: no tutor configured")
	}
	v, err, _ := s.flight.Do("path|"+grade+"|"+subject+"|"+language, func() (any, error) {
		return s.tutor.Path(ctx, lessons.PathInput{Grade: grade, Subject: subject, Language: language})
	})
	if err != nil {
		return nil, err
	}
	path := *v.(*history.Path)
	if err := s.paths.Save(ctx, path); err != nil {
		return nil, fmt.Errorf("save path: %w", err)
	}
	return &path, nil
}
