package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/logger"
)

// Store owns the single resume slot of one learner.
type Store struct {
	kv     kv.Store
	userID string
	log    *logger.Logger
	now    func() time.Time
}

// NewStore returns the session slot of userID.
func NewStore(s kv.Store, userID string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{kv: s, userID: userID, log: log, now: time.Now}
}

// Save overwrites the slot with snap. Snapshots outside a progress stage
// and snapshots of assignment sessions are skipped; Save reports whether
// it wrote anything.
func (s *Store) Save(ctx context.Context, snap Snapshot) (bool, error) {
	if !snap.Stage.IsProgress() || snap.AssignmentID != "" {
		return false, nil
	}
	snap.SavedAt = s.now()
	if err := kv.SetJSON(ctx, s.kv, kv.SessionKey(s.userID), snap); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	return true, nil
}

// Load returns the saved snapshot, or nil when the slot is empty. A slot
// that cannot be decoded is cleared and treated as empty.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	ok, err := kv.GetJSON(ctx, s.kv, kv.SessionKey(s.userID), &snap)
	if !ok {
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		return nil, nil
	}
	if err == nil {
		if _, perr := ParseStage(string(snap.Stage)); perr != nil {
			err = perr
		}
	}
	if err != nil {
		s.log.Warn("discarding unreadable session", "user", s.userID, "error", err)
		s.Clear(ctx)
		return nil, nil
	}
	return &snap, nil
}

// Clear deletes the slot. Failures are logged, never returned.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Remove(ctx, kv.SessionKey(s.userID)); err != nil {
		s.log.Warn("clear session failed", "user", s.userID, "error", err)
	}
}
