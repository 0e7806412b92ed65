package study

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/eduquiz/internal/history"
	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// Settings are the learner's remembered builder choices.
type Settings struct {
	Grade      string        `json:"grade"`
	Subject    string        `json:"subject"`
	Difficulty progress.Tier `json:"difficulty"`
	Topic      string        `json:"topic"`
}

// LastResult is the most recent non-assignment quiz result.
type LastResult struct {
	Score  int       `json:"score"`
	Total  int       `json:"total"`
	Streak int       `json:"streak"`
	At     time.Time `json:"at"`
}

// Settings returns the saved settings, zero when none were saved.
func (s *Study) Settings(ctx context.Context) (Settings, error) {
	var st Settings
	if _, err := kv.GetJSON(ctx, s.kv, kv.SettingsKey(s.userID), &st); err != nil {
		s.log.Warn("ignoring unreadable settings", "error", err)
		return Settings{}, nil
	}
	return st, nil
}

func (s *Study) SaveSettings(ctx context.Context, st Settings) error {
	if st.Difficulty != "" && !st.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", st.Difficulty)
	}
	return kv.SetJSON(ctx, s.kv, kv.SettingsKey(s.userID), st)
}

// LastResult returns the last recorded result, or nil.
func (s *Study) LastResult(ctx context.Context) (*LastResult, error) {
	var last LastResult
	ok, err := kv.GetJSON(ctx, s.kv, kv.LastResultKey(s.userID), &last)
	if err != nil || !ok {
		return nil, err
	}
	return &last, nil
}

func (s *Study) saveLastResult(ctx context.Context, r quiz.Result) error {
	return kv.SetJSON(ctx, s.kv, kv.LastResultKey(s.userID), LastResult{
		Score:  r.Score,
		Total:  r.Total,
		Streak: r.LongestStreak,
		At:     r.CompletedAt,
	})
}

// ProgressRecords returns the unlocked tier per grade and subject.
func (s *Study) ProgressRecords() []progress.Record { return s.progress.Records() }

// UnlockedTier returns the highest tier open for a grade and subject.
func (s *Study) UnlockedTier(grade, subject string) progress.Tier {
	return s.progress.UnlockedTier(grade, subject)
}

// History returns the entries for a grade and subject, oldest first.
// Entries still waiting on tutor feedback are included.
func (s *Study) History(ctx context.Context, grade, subject string) ([]history.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked(ctx, grade, subject)
}

// HistorySubjects lists every grade and subject with history.
func (s *Study) HistorySubjects(ctx context.Context) ([]history.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.history.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range s.unsettled {
		sub := history.Subject{Grade: u.grade, Subject: u.subject}
		if !slices.Contains(out, sub) {
			out = append(out, sub)
		}
	}
	return out, nil
}

// ResetHistory deletes the log for a grade and subject, including entries
// still waiting on feedback. Progress is kept.
func (s *Study) ResetHistory(ctx context.Context, grade, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.unsettled {
		if u.grade == grade && u.subject == subject {
			delete(s.unsettled, id)
		}
	}
	return s.history.Reset(ctx, grade, subject)
}

// WeekStatus is one learning path week with its unlock state.
type WeekStatus struct {
	history.Week
	Unlocked bool
	Tier     progress.Tier
}

// PathStatus returns the saved path with per-week unlocks, or nil when no
// path was generated.
func (s *Study) PathStatus(ctx context.Context, grade, subject string) (*history.Path, []WeekStatus, error) {
	path, err := s.paths.Load(ctx, grade, subject)
	if err != nil || path == nil {
		return nil, nil, err
	}
	s.mu.Lock()
	entries, err := s.historyLocked(ctx, grade, subject)
	s.mu.Unlock()
	if err != nil {
		return nil, nil, err
	}
	open := path.UnlockedWeek(entries)
	weeks := make([]WeekStatus, 0, len(path.Weeks))
	for _, w := range path.Weeks {
		ws := WeekStatus{Week: w, Unlocked: w.Week <= open}
		if ws.Unlocked {
			ws.Tier = history.UnlockedTier(w, entries)
		}
		weeks = append(weeks, ws)
	}
	return path, weeks, nil
}
