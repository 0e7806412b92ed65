package progress

import (
	"context"
	"sort"

	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/logger"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// Record is the unlocked tier for one grade and subject.
type Record struct {
	Grade    string
	Subject  string
	Unlocked Tier
}

// Tracker holds a learner's unlocked tiers and writes the whole mapping
// through to the store after every change.
type Tracker struct {
	kv     kv.Store
	userID string
	log    *logger.Logger

	// grade -> subject -> highest unlocked tier
	unlocked map[string]map[string]Tier
}

// Load reads the learner's progress. A stored value that cannot be decoded
// is logged and treated as no progress.
func Load(ctx context.Context, store kv.Store, userID string, log *logger.Logger) (*Tracker, error) {
	if log == nil {
		log = logger.Nop()
	}
	t := &Tracker{kv: store, userID: userID, log: log, unlocked: map[string]map[string]Tier{}}

	var stored map[string]map[string]Tier
	_, err := kv.GetJSON(ctx, store, kv.ProgressKey(userID), &stored)
	if err != nil {
		raw, _, getErr := store.Get(ctx, kv.ProgressKey(userID))
		if getErr != nil {
			return nil, getErr
		}
		log.Warn("ignoring unreadable progress", "user", userID, "error", err, "bytes", len(raw))
		return t, nil
	}
	for grade, subjects := range stored {
		for subject, tier := range subjects {
			if tier.Valid() {
				t.set(grade, subject, tier)
			}
		}
	}
	return t, nil
}

// UnlockedTier returns the highest unlocked tier, Easy when nothing was
// recorded.
func (t *Tracker) UnlockedTier(grade, subject string) Tier {
	if tier, ok := t.unlocked[grade][subject]; ok {
		return tier
	}
	return Easy
}

// RecordResult unlocks the tier above difficulty when the result passes,
// difficulty is not the top tier, and difficulty is at or above the
// currently unlocked tier. It reports the tier unlocked, if any.
func (t *Tracker) RecordResult(ctx context.Context, grade, subject string, difficulty Tier, r quiz.Result) (Tier, bool, error) {
	if !r.Passed() {
		return "", false, nil
	}
	next, ok := difficulty.Next()
	if !ok {
		return "", false, nil
	}
	if !difficulty.AtLeast(t.UnlockedTier(grade, subject)) {
		return "", false, nil
	}

	t.set(grade, subject, next)
	if err := kv.SetJSON(ctx, t.kv, kv.ProgressKey(t.userID), t.unlocked); err != nil {
		return next, true, err
	}
	t.log.Info("tier unlocked", "user", t.userID, "grade", grade, "subject", subject, "tier", next)
	return next, true, nil
}

// Records lists every grade and subject with progress, sorted.
func (t *Tracker) Records() []Record {
	var out []Record
	for grade, subjects := range t.unlocked {
		for subject, tier := range subjects {
			out = append(out, Record{Grade: grade, Subject: subject, Unlocked: tier})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Grade != out[j].Grade {
			return out[i].Grade < out[j].Grade
		}
		return out[i].Subject < out[j].Subject
	})
	return out
}

func (t *Tracker) set(grade, subject string, tier Tier) {
	if t.unlocked[grade] == nil {
		t.unlocked[grade] = map[string]Tier{}
	}
	t.unlocked[grade][subject] = tier
}
