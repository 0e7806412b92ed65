// Package study orchestrates a learner's study session: generating
// content, playing quizzes, keeping flashcards and recording results.
//
// Study is safe for concurrent use. Provider calls run outside the lock;
// their results are applied only if no reset or new request happened in
// the meantime.
package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abhisek/eduquiz/internal/assignments"
	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/history"
	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/lessons"
	"github.com/abhisek/eduquiz/internal/logger"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/quizgen"
	"github.com/abhisek/eduquiz/internal/session"
)

// ErrStale is returned when a generation result arrives after the session
// was reset or replaced. The result is discarded.
var ErrStale = errors.New("result discarded: session changed while it was generating")

// Tutor produces lesson content.
type Tutor interface {
	Kit(ctx context.Context, in lessons.KitInput) (*lessons.Kit, error)
	Feedback(ctx context.Context, in lessons.FeedbackInput) (quiz.TutorFeedback, error)
	Path(ctx context.Context, in lessons.PathInput) (*history.Path, error)
}

// Deps are the collaborators of a Study.
type Deps struct {
	KV        kv.Store
	UserID    string
	Generator quizgen.Generator
	Tutor     Tutor
	Log       *logger.Logger
	// Rand drives flashcard question synthesis. Nil seeds from the clock.
	Rand *rand.Rand
	Now  func() time.Time
}

// Study is one learner's session orchestrator.
type Study struct {
	kv     kv.Store
	userID string
	gen    quizgen.Generator
	tutor  Tutor
	log    *logger.Logger
	now    func() time.Time

	sessions    *session.Store
	history     *history.Log
	paths       *history.PathStore
	cardStore   *cards.Store
	assignments *assignments.Service
	progress    *progress.Tracker
	synth       *cards.Synthesizer

	flight singleflight.Group
	jobs   sync.WaitGroup

	mu         sync.Mutex
	generation uint64
	snap       session.Snapshot
	staged     []quiz.Question
	engine     *quiz.Engine
	deck       *cards.Deck
	finished   *assignmentAttempt
	pending    *FeedbackResult

	// unsettled holds history entries whose tutor feedback is still
	// running. Each is appended once, complete, when feedback lands.
	unsettled map[uint64]unsettledEntry
	nextEntry uint64
}

type unsettledEntry struct {
	grade, subject string
	entry          history.Entry
}

type assignmentAttempt struct {
	id     string
	result quiz.Result
	sub    assignments.Submission
}

// New loads the learner's progress and saved cards.
func New(ctx context.Context, d Deps) (*Study, error) {
	if d.KV == nil {
		return nil, fmt.Errorf("study: no store")
	}
	if d.UserID == "" {
		return nil, &errs.InvalidInputError{Field: "userId", Reason: "must not be empty"}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	log := d.Log.With("service", "Study", "user", d.UserID)

	tracker, err := progress.Load(ctx, d.KV, d.UserID, log)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	cardStore := cards.NewStore(d.KV, d.UserID)
	deck, err := cardStore.Load(ctx)
	if err != nil {
		log.Warn("ignoring unreadable card set", "error", err)
		deck = cards.NewDeck(nil)
	}

	return &Study{
		kv:          d.KV,
		userID:      d.UserID,
		gen:         d.Generator,
		tutor:       d.Tutor,
		log:         log,
		now:         d.Now,
		sessions:    session.NewStore(d.KV, d.UserID, log),
		history:     history.NewLog(d.KV, d.UserID),
		paths:       history.NewPathStore(d.KV, d.UserID),
		cardStore:   cardStore,
		assignments: assignments.NewService(d.KV),
		progress:    tracker,
		synth:       cards.NewSynthesizer(d.Rand),
		deck:        deck,
		snap:        session.Snapshot{Stage: session.StageBuilder},
		unsettled:   make(map[uint64]unsettledEntry),
	}, nil
}

// Stage returns the current stage.
func (s *Study) Stage() session.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Stage
}

// Current returns a copy of the current session state.
func (s *Study) Current() session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Staged returns the questions waiting to be played.
func (s *Study) Staged() []quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]quiz.Question(nil), s.staged...)
}

// Resume restores the saved session, if any, and returns it. A saved quiz
// that no longer restores cleanly is discarded.
func (s *Study) Resume(ctx context.Context) (*session.Snapshot, error) {
	snap, err := s.sessions.Load(ctx)
	if err != nil || snap == nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++

	var engine *quiz.Engine
	var staged []quiz.Question
	switch snap.Stage {
	case session.StageQuiz, session.StageShare:
		if snap.Quiz != nil && snap.Quiz.State != quiz.StateIdle {
			engine, err = snap.Engine(quiz.WithClock(s.now))
			if err != nil {
				s.log.Warn("discarding session that does not restore", "error", err)
				s.sessions.Clear(ctx)
				return nil, err
			}
		}
	}
	if snap.Quiz != nil && engine == nil {
		staged = snap.Quiz.Questions
	}

	s.snap = *snap
	s.snap.Quiz, s.snap.Cards = nil, nil
	s.engine = engine
	s.staged = staged
	if len(snap.Cards) > 0 && s.deck.Len() == 0 {
		s.deck = snap.Deck()
	}
	s.finished, s.pending = nil, nil
	s.log.Info("resumed session", "stage", snap.Stage, "topic", snap.Topic)
	return snap, nil
}

// Reset abandons the current session and clears the resume slot. Any
// generation still in flight is discarded when it lands.
func (s *Study) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snap = session.Snapshot{Stage: session.StageBuilder}
	s.staged, s.engine, s.finished, s.pending = nil, nil, nil, nil
	s.sessions.Clear(ctx)
}

// Wait blocks until background jobs such as tutor feedback finish.
func (s *Study) Wait() { s.jobs.Wait() }

// begin starts a new request generation and returns its token.
func (s *Study) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// snapshotLocked builds the persisted form of the session. Callers hold mu.
func (s *Study) snapshotLocked() session.Snapshot {
	snap := s.snap
	switch {
	case s.engine != nil && s.engine.State() != quiz.StateIdle:
		qs := s.engine.Snapshot()
		snap.Quiz = &qs
	case len(s.staged) > 0:
		snap.Quiz = &quiz.Snapshot{Questions: append([]quiz.Question(nil), s.staged...), State: quiz.StateIdle}
	}
	if snap.Stage == session.StageCards {
		snap.Cards = s.deck.Cards()
	}
	return snap
}

// persistLocked saves the session after a transition. A failed save is
// logged; the in-memory transition stands.
func (s *Study) persistLocked(ctx context.Context) {
	if _, err := s.sessions.Save(ctx, s.snapshotLocked()); err != nil {
		s.log.Warn("session not saved", "stage", s.snap.Stage, "error", err)
	}
}
