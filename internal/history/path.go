package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/progress"
)

// PathWeeks is the length of a generated learning path.
const PathWeeks = 4

// Week is one step of a learning path.
type Week struct {
	Week      int      `json:"week"`
	Title     string   `json:"title"`
	Topics    []string `json:"topics"`
	Objective string   `json:"objective"`
}

// Topic is the quiz topic used for this week. History entries are matched
// to a week by this string.
func (w Week) Topic() string { return strings.Join(w.Topics, ", ") }

// Path is a multi-week plan for one grade and subject.
type Path struct {
	Grade     string    `json:"grade"`
	Subject   string    `json:"subject"`
	Weeks     []Week    `json:"weeks"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindWeek returns the week numbered n.
func (p Path) FindWeek(n int) (Week, bool) {
	for _, w := range p.Weeks {
		if w.Week == n {
			return w, true
		}
	}
	return Week{}, false
}

// UnlockedWeek returns the highest unlocked week number. Week 1 is always
// open; week k+1 opens once week k has a pass at every tier.
func (p Path) UnlockedWeek(entries []Entry) int {
	unlocked := 1
	for unlocked < len(p.Weeks) {
		w, ok := p.FindWeek(unlocked)
		if !ok || !passedAllTiers(w.Topic(), entries) {
			break
		}
		unlocked++
	}
	return unlocked
}

// UnlockedTier returns the highest tier open within w: one above the
// highest passed tier, capped at the top.
func UnlockedTier(w Week, entries []Entry) progress.Tier {
	best := -1
	topic := w.Topic()
	for _, e := range entries {
		if e.Topic == topic && e.Passed() {
			best = max(best, e.Difficulty.Rank())
		}
	}
	if best < 0 {
		return progress.Easy
	}
	return progress.Tiers[min(best+1, len(progress.Tiers)-1)]
}

func passedAllTiers(topic string, entries []Entry) bool {
	passed := map[progress.Tier]bool{}
	for _, e := range entries {
		if e.Topic == topic && e.Passed() {
			passed[e.Difficulty] = true
		}
	}
	for _, t := range progress.Tiers {
		if !passed[t] {
			return false
		}
	}
	return true
}

// PathStore keeps one learning path per grade and subject.
type PathStore struct {
	kv     kv.Store
	userID string
}

func NewPathStore(s kv.Store, userID string) *PathStore {
	return &PathStore{kv: s, userID: userID}
}

// Load returns the saved path, or nil when none was generated.
func (s *PathStore) Load(ctx context.Context, grade, subject string) (*Path, error) {
	var p Path
	ok, err := kv.GetJSON(ctx, s.kv, kv.PathKey(s.userID, grade, subject), &p)
	if err != nil {
		return nil, fmt.Errorf("load path: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *PathStore) Save(ctx context.Context, p Path) error {
	return kv.SetJSON(ctx, s.kv, kv.PathKey(s.userID, p.Grade, p.Subject), p)
}
