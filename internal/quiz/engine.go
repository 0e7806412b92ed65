package quiz

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/abhisek/eduquiz/internal/errs"
)

// State is the engine's position in the answer/feedback cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingAnswer
	StateShowingFeedback
	StateCompleted
)

var stateNames = [...]string{"idle", "awaiting-answer", "showing-feedback", "completed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	i := slices.Index(stateNames[:], string(b))
	if i < 0 {
		return fmt.Errorf("unknown quiz state %q", b)
	}
	*s = State(i)
	return nil
}

// Outcome describes one checked answer.
type Outcome struct {
	Question Question
	Response Answer
	Correct  bool
	Score    float64
}

// Engine runs one quiz. It is owned by a single goroutine.
type Engine struct {
	questions   []Question
	index       int
	answers     map[int]Answer
	correctness []bool
	score       float64
	state       State
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, answers: map[int]Answer{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start validates questions and begins a fresh quiz. It may be called in
// any state; on error the engine is left untouched.
func (e *Engine) Start(questions []Question) error {
	if err := ValidateSet(questions); err != nil {
		return err
	}
	e.questions = slices.Clone(questions)
	e.index = 0
	e.answers = make(map[int]Answer, len(questions))
	e.correctness = make([]bool, 0, len(questions))
	e.score = 0
	e.state = StateAwaitingAnswer
	return nil
}

// SubmitAnswer checks response against the current question.
func (e *Engine) SubmitAnswer(response Answer) (Outcome, error) {
	if e.state != StateAwaitingAnswer {
		return Outcome{}, &errs.InvalidStateError{Op: "SubmitAnswer", State: e.state.String()}
	}
	q := e.questions[e.index]
	correct := Check(q, response)

	e.answers[q.ID] = response
	e.correctness = append(e.correctness, correct)
	if correct {
		e.score = percent(countCorrect(e.correctness), len(e.questions))
	}
	e.state = StateShowingFeedback

	return Outcome{Question: q, Response: response, Correct: correct, Score: e.score}, nil
}

// Advance moves past the feedback for the current question. After the last
// question it completes the quiz and returns the result; otherwise the
// result is nil.
func (e *Engine) Advance() (*Result, error) {
	if e.state != StateShowingFeedback {
		return nil, &errs.InvalidStateError{Op: "Advance", State: e.state.String()}
	}
	e.index++
	if e.index < len(e.questions) {
		e.state = StateAwaitingAnswer
		return nil, nil
	}
	e.state = StateCompleted
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	r := newResult(e.correctness, now())
	return &r, nil
}

// CurrentQuestion returns the question being answered or reviewed.
func (e *Engine) CurrentQuestion() (Question, error) {
	if e.state == StateIdle || e.state == StateCompleted {
		return Question{}, &errs.OutOfRangeError{Op: "CurrentQuestion", Index: e.index, Len: len(e.questions)}
	}
	return e.questions[e.index], nil
}

func (e *Engine) State() State        { return e.state }
func (e *Engine) Index() int          { return e.index }
func (e *Engine) Len() int            { return len(e.questions) }
func (e *Engine) Score() float64      { return e.score }
func (e *Engine) Answered() int       { return len(e.correctness) }
func (e *Engine) Correctness() []bool { return slices.Clone(e.correctness) }

func (e *Engine) Questions() []Question { return slices.Clone(e.questions) }

// Answers returns a copy of the responses keyed by question id.
func (e *Engine) Answers() map[int]Answer { return maps.Clone(e.answers) }

// Snapshot is the persisted form of an engine.
type Snapshot struct {
	Questions   []Question     `json:"questions"`
	Answers     map[int]Answer `json:"answers"`
	Correctness []bool         `json:"correctness"`
	Score       float64        `json:"score"`
	State       State          `json:"state"`
	Index       int            `json:"currentIndex"`
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Questions:   e.Questions(),
		Answers:     e.Answers(),
		Correctness: e.Correctness(),
		Score:       e.score,
		State:       e.state,
		Index:       e.index,
	}
}

// Restore loads a snapshot after checking it is internally consistent.
func (e *Engine) Restore(s Snapshot) error {
	bad := func(reason string) error {
		return &errs.InvalidInputError{Field: "snapshot", Reason: reason}
	}
	if s.State == StateIdle {
		*e = *NewEngine(WithClock(e.now))
		return nil
	}
	if err := ValidateSet(s.Questions); err != nil {
		return err
	}
	n := len(s.Questions)
	if len(s.Answers) != len(s.Correctness) {
		return bad(fmt.Sprintf("%d answers but %d correctness entries", len(s.Answers), len(s.Correctness)))
	}

	var answered int
	switch s.State {
	case StateAwaitingAnswer:
		answered = s.Index
	case StateShowingFeedback:
		answered = s.Index + 1
	case StateCompleted:
		answered = n
		if s.Index != n {
			return bad("completed quiz must point past the last question")
		}
	default:
		return bad(fmt.Sprintf("unknown state %d", int(s.State)))
	}
	if s.State != StateCompleted && (s.Index < 0 || s.Index >= n) {
		return bad(fmt.Sprintf("index %d outside %d questions", s.Index, n))
	}
	if len(s.Correctness) != answered {
		return bad(fmt.Sprintf("state %s at index %d needs %d answers, have %d", s.State, s.Index, answered, len(s.Correctness)))
	}
	for _, q := range s.Questions[:answered] {
		if _, ok := s.Answers[q.ID]; !ok {
			return bad(fmt.Sprintf("missing answer for question %d", q.ID))
		}
	}
	if want := percent(countCorrect(s.Correctness), n); math.Abs(s.Score-want) > 1e-6 {
		return bad(fmt.Sprintf("score %v does not match %d correct of %d", s.Score, countCorrect(s.Correctness), n))
	}

	e.questions = slices.Clone(s.Questions)
	e.answers = maps.Clone(s.Answers)
	if e.answers == nil {
		e.answers = map[int]Answer{}
	}
	e.correctness = slices.Clone(s.Correctness)
	e.score = s.Score
	e.state = s.State
	e.index = s.Index
	return nil
}
