package study

import (
	"context"
	"fmt"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/session"
)

// Cards returns the saved card set.
func (s *Study) Cards() []cards.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Cards()
}

// CardCounts tallies saved cards per status.
func (s *Study) CardCounts() map[cards.Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Counts()
}

// FilterCards returns the indexes and cards selected by f.
func (s *Study) FilterCards(f cards.Filter) ([]int, []cards.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var idx []int
	var out []cards.Card
	for i, c := range s.deck.Filter(f) {
		idx = append(idx, i)
		out = append(out, c)
	}
	return idx, out
}

func (s *Study) SetCardStatus(ctx context.Context, i int, st cards.Status) error {
	return s.editDeck(ctx, func(d *cards.Deck) error { return d.SetStatus(i, st) })
}

func (s *Study) MoveCard(ctx context.Context, from, to int) error {
	return s.editDeck(ctx, func(d *cards.Deck) error { return d.Reorder(from, to) })
}

func (s *Study) DeleteCard(ctx context.Context, i int) error {
	return s.editDeck(ctx, func(d *cards.Deck) error { return d.Delete(i) })
}

// ImportCards appends cards to the saved set.
func (s *Study) ImportCards(ctx context.Context, cs []cards.Card) error {
	return s.editDeck(ctx, func(d *cards.Deck) error {
		d.Add(cs...)
		return nil
	})
}

// editDeck applies fn, saves the card set and, on the cards stage, the
// session.
func (s *Study) editDeck(ctx context.Context, fn func(*cards.Deck) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.deck); err != nil {
		return err
	}
	if err := s.cardStore.Save(ctx, s.deck); err != nil {
		return fmt.Errorf("save cards: %w", err)
	}
	if s.snap.Stage == session.StageCards {
		s.persistLocked(ctx)
	}
	return nil
}

// OpenCards moves to the cards stage.
func (s *Study) OpenCards(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snap = session.Snapshot{Stage: session.StageCards, PDFName: s.snap.PDFName}
	s.staged, s.engine, s.finished = nil, nil, nil
	s.persistLocked(ctx)
}
