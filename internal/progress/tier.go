// Package progress tracks which difficulty tier a learner has unlocked for
// each grade and subject.
package progress

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/eduquiz/internal/errs"
)

// Tier is a difficulty level. Tiers are ordered Easy < Medium < Hard.
type Tier string

const (
	Easy   Tier = "easy"
	Medium Tier = "medium"
	Hard   Tier = "hard"
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{Easy, Medium, Hard}

func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &errs.InvalidInputError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", s)}
	}
	return t, nil
}

func (t Tier) Valid() bool { return slices.Contains(Tiers, t) }

// Rank is the tier's position in Tiers, or -1 for an unknown tier.
func (t Tier) Rank() int { return slices.Index(Tiers, t) }

// Next returns the tier above t. ok is false for the top tier.
func (t Tier) Next() (next Tier, ok bool) {
	r := t.Rank()
	if r < 0 || r == len(Tiers)-1 {
		return t, false
	}
	return Tiers[r+1], true
}

// AtLeast reports whether t is at or above o.
func (t Tier) AtLeast(o Tier) bool { return t.Rank() >= o.Rank() }
