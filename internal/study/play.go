package study

import (
	"context"
	"slices"

	"github.com/abhisek/eduquiz/internal/assignments"
	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/history"
	"github.com/abhisek/eduquiz/internal/lessons"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/session"
)

// CardsQuizTopic names quizzes built from the saved card set.
const CardsQuizTopic = "Flashcards"

// Completion is the outcome of finishing a quiz.
type Completion struct {
	Result quiz.Result
	// Unlocked is the tier opened by this result, if NewTier is set.
	Unlocked progress.Tier
	NewTier  bool
	// Assignment is set when the quiz came from an assignment. Its result
	// is not recorded until SubmitAssignment.
	Assignment string
}

// FeedbackResult is the tutor's review of the last completed quiz.
type FeedbackResult struct {
	Feedback quiz.TutorFeedback
	Err      error
}

// StartQuiz starts the staged questions.
func (s *Study) StartQuiz(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.snap.Stage {
	case session.StageReview, session.StageLearningKit, session.StageShare:
	default:
		return &errs.InvalidStateError{Op: "start quiz", State: string(s.snap.Stage)}
	}
	return s.startLocked(ctx, s.staged)
}

func (s *Study) startLocked(ctx context.Context, questions []quiz.Question) error {
	e := quiz.NewEngine(quiz.WithClock(s.now))
	if err := e.Start(questions); err != nil {
		return err
	}
	s.engine = e
	s.staged = nil
	s.finished, s.pending = nil, nil
	s.snap.Stage = session.StageQuiz
	s.persistLocked(ctx)
	return nil
}

// StartCardsQuiz builds multiple-choice questions from the saved cards
// selected by filter and starts them.
func (s *Study) StartCardsQuiz(ctx context.Context, filter cards.Filter, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, err := s.deck.BuildQuizPool(filter)
	if err != nil {
		return err
	}
	if count <= 0 {
		count = len(pool)
	}
	questions, err := s.synth.Questions(pool, count)
	if err != nil {
		return err
	}
	s.generation++
	s.snap = session.Snapshot{Stage: session.StageQuiz, Topic: CardsQuizTopic, PDFName: s.snap.PDFName}
	return s.startLocked(ctx, questions)
}

// StartAssignment loads an assignment and starts its questions. The
// session is never written to the resume slot.
func (s *Study) StartAssignment(ctx context.Context, id string) (*assignments.Assignment, error) {
	a, err := s.assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snap = session.Snapshot{
		Stage:        session.StageQuiz,
		Topic:        a.Topic,
		Grade:        a.Grade,
		Subject:      a.Subject,
		AssignmentID: a.ID.String(),
	}
	if err := s.startLocked(ctx, a.Questions); err != nil {
		return nil, err
	}
	return a, nil
}

// Share publishes the staged questions as an assignment.
func (s *Study) Share(ctx context.Context) (*assignments.Assignment, error) {
	s.mu.Lock()
	snap := s.snap
	questions := slices.Clone(s.staged)
	if len(questions) == 0 && s.engine != nil {
		questions = s.engine.Questions()
	}
	s.mu.Unlock()

	a, err := s.assignments.Create(ctx, snap.Topic, snap.Grade, snap.Subject, questions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Stage == session.StageReview {
		s.snap.Stage = session.StageShare
		s.persistLocked(ctx)
	}
	return a, nil
}

// CurrentQuestion returns the question being asked.
func (s *Study) CurrentQuestion() (quiz.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return quiz.Question{}, &errs.InvalidStateError{Op: "current question", State: string(s.snap.Stage)}
	}
	return s.engine.CurrentQuestion()
}

// Progress returns the position in the running quiz.
func (s *Study) Progress() (index, total int, state quiz.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return 0, 0, quiz.StateIdle
	}
	return s.engine.Index(), s.engine.Len(), s.engine.State()
}

// Submit answers the current question.
func (s *Study) Submit(ctx context.Context, response quiz.Answer) (quiz.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return quiz.Outcome{}, &errs.InvalidStateError{Op: "submit answer", State: string(s.snap.Stage)}
	}
	out, err := s.engine.SubmitAnswer(response)
	if err != nil {
		return out, err
	}
	s.persistLocked(ctx)
	return out, nil
}

// Advance moves past the feedback of the current question. When the last
// question is passed the quiz completes and the completion is returned.
func (s *Study) Advance(ctx context.Context) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil, &errs.InvalidStateError{Op: "advance", State: string(s.snap.Stage)}
	}
	r, err := s.engine.Advance()
	if err != nil {
		return nil, err
	}
	if r == nil {
		s.persistLocked(ctx)
		return nil, nil
	}
	return s.completeLocked(ctx, *r)
}

// completeLocked records a finished quiz. Assignment attempts wait for
// SubmitAssignment; everything else updates progress, the last result and
// history, then queues tutor feedback. A failed step is logged and the
// rest still run.
func (s *Study) completeLocked(ctx context.Context, r quiz.Result) (*Completion, error) {
	snap := s.snap
	s.snap.Stage = session.StageResult

	c := &Completion{Result: r, Assignment: snap.AssignmentID}
	if snap.AssignmentID != "" {
		s.finished = &assignmentAttempt{
			id:     snap.AssignmentID,
			result: r,
			sub: assignments.Submission{
				Score:       r.Score,
				Answers:     s.engine.Answers(),
				Correctness: s.engine.Correctness(),
				SubmittedAt: r.CompletedAt,
			},
		}
		return c, nil
	}
	s.sessions.Clear(ctx)

	graded := snap.Grade != "" && snap.Subject != ""
	if graded {
		tier, ok, err := s.progress.RecordResult(ctx, snap.Grade, snap.Subject, snap.Difficulty, r)
		if err != nil {
			s.log.Error("progress not recorded", "grade", snap.Grade, "subject", snap.Subject, "error", err)
		} else {
			c.Unlocked, c.NewTier = tier, ok
		}
	}
	if err := s.saveLastResult(ctx, r); err != nil {
		s.log.Warn("last result not saved", "error", err)
	}

	entry := history.Entry{
		Timestamp:  r.CompletedAt,
		Score:      r.Score,
		Difficulty: snap.Difficulty,
		Topic:      snap.Topic,
		Questions:  s.engine.Questions(),
		Answers:    s.engine.Answers(),
	}
	id, held := uint64(0), false
	if graded {
		id, held = s.nextEntry, true
		s.nextEntry++
		s.unsettled[id] = unsettledEntry{grade: snap.Grade, subject: snap.Subject, entry: entry}
	}
	s.requestFeedbackLocked(ctx, entry, id, held)
	return c, nil
}

// requestFeedbackLocked runs tutor feedback in the background. A held
// history entry is appended with the feedback once it lands, and reads see
// it through the unsettled set until then. Feedback for a session that was
// reset meanwhile is not delivered.
func (s *Study) requestFeedbackLocked(ctx context.Context, entry history.Entry, id uint64, held bool) {
	token := s.generation
	in := lessons.NewFeedbackInput(entry.Topic, entry.Questions, entry.Answers, entry.Score)
	ctx = context.WithoutCancel(ctx)

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()

		var res FeedbackResult
		if s.tutor != nil {
			res.Feedback, res.Err = s.tutor.Feedback(ctx, in)
			if res.Err != nil {
				s.log.Warn("tutor feedback failed", "topic", entry.Topic, "error", res.Err)
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if held {
			s.settleLocked(ctx, id, res.Feedback)
		}
		if s.generation != token {
			s.log.Debug("dropping feedback for replaced session", "topic", entry.Topic)
			return
		}
		s.pending = &res
	}()
}

// settleLocked writes a held history entry with its feedback. Entries
// dropped by a history reset in the meantime are not written.
func (s *Study) settleLocked(ctx context.Context, id uint64, fb quiz.TutorFeedback) {
	u, ok := s.unsettled[id]
	if !ok {
		return
	}
	delete(s.unsettled, id)
	u.entry.Feedback = &fb
	if err := s.history.Append(ctx, u.grade, u.subject, u.entry); err != nil {
		s.log.Error("history entry lost", "topic", u.entry.Topic, "error", err)
	}
}

// historyLocked returns the saved entries for a grade and subject merged
// with the ones still waiting on feedback, oldest first.
func (s *Study) historyLocked(ctx context.Context, grade, subject string) ([]history.Entry, error) {
	entries, err := s.history.List(ctx, grade, subject)
	if err != nil {
		return nil, err
	}
	n := len(entries)
	for _, u := range s.unsettled {
		if u.grade == grade && u.subject == subject {
			entries = append(entries, u.entry)
		}
	}
	if len(entries) > n {
		slices.SortStableFunc(entries, func(a, b history.Entry) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
	}
	return entries, nil
}

// ConsumeFeedback returns the tutor feedback if it is ready. The pending
// slot is cleared on consumption.
func (s *Study) ConsumeFeedback() (FeedbackResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return FeedbackResult{}, false
	}
	res := *s.pending
	s.pending = nil
	return res, true
}

// SubmitAssignment records the finished assignment attempt under
// studentName.
func (s *Study) SubmitAssignment(ctx context.Context, studentName string) error {
	s.mu.Lock()
	attempt := s.finished
	s.mu.Unlock()
	if attempt == nil {
		return &errs.InvalidStateError{Op: "submit assignment", State: string(s.Stage())}
	}

	sub := attempt.sub
	sub.StudentName = studentName
	if err := s.assignments.Submit(ctx, attempt.id, sub); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished == attempt {
		s.finished = nil
	}
	return nil
}
