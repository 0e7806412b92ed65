package cards

import (
	"context"
	"fmt"

	"github.com/abhisek/eduquiz/internal/kv"
)

// Store keeps a user's saved card set in one key-value slot.
type Store struct {
	kv     kv.Store
	userID string
}

func NewStore(s kv.Store, userID string) *Store {
	return &Store{kv: s, userID: userID}
}

// Load returns the saved deck, or an empty deck when nothing is saved.
func (s *Store) Load(ctx context.Context) (*Deck, error) {
	d := NewDeck(nil)
	if _, err := kv.GetJSON(ctx, s.kv, kv.CardsKey(s.userID), d); err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	return d, nil
}

func (s *Store) Save(ctx context.Context, d *Deck) error {
	return kv.SetJSON(ctx, s.kv, kv.CardsKey(s.userID), d)
}
