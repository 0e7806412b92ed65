// Package cards tracks a study set of flashcards, turns it into quiz
// questions and moves it in and out of the app.
package cards

import (
	"fmt"
	"strings"

	"github.com/abhisek/eduquiz/internal/errs"
)

// Status is the learner's own judgement of a card. Only explicit user
// actions change it.
type Status string

const (
	StatusNew         Status = "new"
	StatusNeedsReview Status = "needs-review"
	StatusMastered    Status = "mastered"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNew, StatusNeedsReview, StatusMastered}

// ParseStatus accepts the canonical names plus a few spellings seen in
// exported files. An empty string means new.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "new":
		return StatusNew, nil
	case "needs-review", "needsreview", "needs_review", "review":
		return StatusNeedsReview, nil
	case "mastered":
		return StatusMastered, nil
	}
	return "", &errs.InvalidInputError{Field: "status", Reason: fmt.Sprintf("unknown card status %q", s)}
}

// Card is one flashcard.
type Card struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Status Status `json:"status"`
}

// NewCard returns a card in the new status with trimmed faces.
func NewCard(front, back string) Card {
	return Card{Front: strings.TrimSpace(front), Back: strings.TrimSpace(back), Status: StatusNew}
}

func (c Card) validate(field string) error {
	if c.Front == "" {
		return &errs.InvalidInputError{Field: field + ".front", Reason: "is empty"}
	}
	if c.Back == "" {
		return &errs.InvalidInputError{Field: field + ".back", Reason: "is empty"}
	}
	if _, err := ParseStatus(string(c.Status)); err != nil {
		return &errs.InvalidInputError{Field: field + ".status", Reason: err.Error()}
	}
	return nil
}

// Filter selects which cards take part in review or a quiz.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterNeedsReview Filter = "needsReview"
	FilterNotMastered Filter = "notMastered"
)

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "needsreview", "needs-review", "review":
		return FilterNeedsReview, nil
	case "notmastered", "not-mastered", "unmastered":
		return FilterNotMastered, nil
	}
	return "", &errs.InvalidInputError{Field: "filter", Reason: fmt.Sprintf("unknown filter %q", s)}
}

// Match reports whether a card with status s passes the filter.
func (f Filter) Match(s Status) bool {
	switch f {
	case FilterNeedsReview:
		return s == StatusNeedsReview
	case FilterNotMastered:
		return s != StatusMastered
	}
	return true
}
