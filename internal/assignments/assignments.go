// Package assignments stores quizzes a teacher shares with students and
// the submissions they collect.
package assignments

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// ErrNotFound is returned for an unknown assignment id.
var ErrNotFound = errors.New("assignment not found")

// Assignment is a fixed question set shared with students.
type Assignment struct {
	ID        uuid.UUID       `json:"id"`
	Topic     string          `json:"topic"`
	Grade     string          `json:"grade,omitempty"`
	Subject   string          `json:"subject,omitempty"`
	Questions []quiz.Question `json:"questions"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Submission is one student's completed attempt.
type Submission struct {
	StudentName string              `json:"studentName"`
	Score       int                 `json:"score"`
	Answers     map[int]quiz.Answer `json:"answers"`
	Correctness []bool              `json:"correctness"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

// Service reads and writes assignments. Assignments are shared by all
// users of a store, so nothing here is keyed by user.
type Service struct {
	kv  kv.Store
	now func() time.Time
}

func NewService(s kv.Store) *Service {
	return &Service{kv: s, now: time.Now}
}

// Create stores a new assignment for questions.
func (s *Service) Create(ctx context.Context, topic, grade, subject string, questions []quiz.Question) (*Assignment, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &errs.InvalidInputError{Field: "topic", Reason: "must not be empty"}
	}
	if err := quiz.ValidateSet(questions); err != nil {
		return nil, err
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	a := Assignment{
		ID:        uuid.New(),
		Topic:     topic,
		Grade:     grade,
		Subject:   subject,
		Questions: slices.Clone(questions),
		CreatedAt: s.now(),
	}
	all = append(all, a)
	if err := kv.SetJSON(ctx, s.kv, kv.AssignmentsKey, all); err != nil {
		return nil, fmt.Errorf("save assignment: %w", err)
	}
	return &a, nil
}

// List returns every assignment, oldest first.
func (s *Service) List(ctx context.Context) ([]Assignment, error) {
	var all []Assignment
	if _, err := kv.GetJSON(ctx, s.kv, kv.AssignmentsKey, &all); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	return all, nil
}

// Get returns the assignment with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Assignment, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, &errs.InvalidInputError{Field: "id", Reason: err.Error()}
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == uid {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", uid, ErrNotFound)
}

// Submit appends sub to the assignment's submissions.
func (s *Service) Submit(ctx context.Context, id string, sub Submission) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sub.StudentName = strings.TrimSpace(sub.StudentName)
	if sub.StudentName == "" {
		return &errs.InvalidInputError{Field: "studentName", Reason: "must not be empty"}
	}
	if len(sub.Correctness) != len(a.Questions) {
		return &errs.InvalidInputError{
			Field:  "correctness",
			Reason: fmt.Sprintf("%d entries for %d questions", len(sub.Correctness), len(a.Questions)),
		}
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now()
	}

	subs, err := s.Submissions(ctx, id)
	if err != nil {
		return err
	}
	subs = append(subs, sub)
	if err := kv.SetJSON(ctx, s.kv, kv.SubmissionsKey(a.ID.String()), subs); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// Submissions returns the submissions for an assignment in the order
// they arrived.
func (s *Service) Submissions(ctx context.Context, id string) ([]Submission, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, &errs.InvalidInputError{Field: "id", Reason: err.Error()}
	}
	var subs []Submission
	if _, err := kv.GetJSON(ctx, s.kv, kv.SubmissionsKey(uid.String()), &subs); err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	return subs, nil
}
