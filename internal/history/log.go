// Package history keeps the append-only log of completed quizzes and
// derives learning-path unlocks from it.
package history

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// Entry is one completed quiz. Entries are written once and never edited.
type Entry struct {
	Timestamp  time.Time           `json:"timestamp"`
	Score      int                 `json:"score"`
	Difficulty progress.Tier       `json:"difficulty"`
	Topic      string              `json:"topic"`
	Questions  []quiz.Question     `json:"questions"`
	Answers    map[int]quiz.Answer `json:"answers"`
	Feedback   *quiz.TutorFeedback `json:"feedback,omitempty"`
}

// Passed reports whether the entry counts toward unlocks.
func (e Entry) Passed() bool { return e.Score >= quiz.PassScore }

// Subject names one history log.
type Subject struct {
	Grade   string
	Subject string
}

// Log reads and appends history for one learner. Writes through one Log
// are serialized.
type Log struct {
	mu     sync.Mutex
	kv     kv.Store
	userID string
}

func NewLog(s kv.Store, userID string) *Log {
	return &Log{kv: s, userID: userID}
}

// Append adds entry to the (grade, subject) log, keeping it ordered by
// Timestamp. Entries with equal timestamps keep append order.
func (l *Log) Append(ctx context.Context, grade, subject string, entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.List(ctx, grade, subject)
	if err != nil {
		return err
	}
	i := len(entries)
	for i > 0 && entries[i-1].Timestamp.After(entry.Timestamp) {
		i--
	}
	entries = slices.Insert(entries, i, entry)
	if err := kv.SetJSON(ctx, l.kv, kv.HistoryKey(l.userID, grade, subject), entries); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// List returns entries oldest first.
func (l *Log) List(ctx context.Context, grade, subject string) ([]Entry, error) {
	var entries []Entry
	if _, err := kv.GetJSON(ctx, l.kv, kv.HistoryKey(l.userID, grade, subject), &entries); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Reset deletes the whole (grade, subject) log.
func (l *Log) Reset(ctx context.Context, grade, subject string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv.Remove(ctx, kv.HistoryKey(l.userID, grade, subject))
}

// Subjects lists every (grade, subject) with a history log.
func (l *Log) Subjects(ctx context.Context) ([]Subject, error) {
	keys, err := l.kv.Keys(ctx, kv.HistoryPrefix(l.userID))
	if err != nil {
		return nil, err
	}
	var out []Subject
	for _, k := range keys {
		if grade, subject, ok := kv.SplitHistoryKey(k); ok {
			out = append(out, Subject{Grade: grade, Subject: subject})
		}
	}
	return out, nil
}
