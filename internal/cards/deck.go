package cards

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"github.com/abhisek/eduquiz/internal/errs"
)

// Deck is the ordered card set of one study session. It is owned by a
// single goroutine.
type Deck struct {
	cards []Card
}

// NewDeck copies cards into a deck. Cards without a status become new.
func NewDeck(cards []Card) *Deck {
	d := &Deck{cards: slices.Clone(cards)}
	for i := range d.cards {
		if d.cards[i].Status == "" {
			d.cards[i].Status = StatusNew
		}
	}
	return d
}

func (d *Deck) Len() int      { return len(d.cards) }
func (d *Deck) Cards() []Card { return slices.Clone(d.cards) }

func (d *Deck) At(i int) (Card, error) {
	if err := d.check("At", i); err != nil {
		return Card{}, err
	}
	return d.cards[i], nil
}

// Add appends cards, defaulting their status to new.
func (d *Deck) Add(cards ...Card) {
	for _, c := range cards {
		if c.Status == "" {
			c.Status = StatusNew
		}
		d.cards = append(d.cards, c)
	}
}

// SetStatus changes the status of the card at i. Any transition is allowed.
func (d *Deck) SetStatus(i int, s Status) error {
	if err := d.check("SetStatus", i); err != nil {
		return err
	}
	status, err := ParseStatus(string(s))
	if err != nil {
		return err
	}
	d.cards[i].Status = status
	return nil
}

// Delete removes the card at i.
func (d *Deck) Delete(i int) error {
	if err := d.check("Delete", i); err != nil {
		return err
	}
	d.cards = slices.Delete(d.cards, i, i+1)
	return nil
}

// Reorder removes the card at from and inserts it at to.
func (d *Deck) Reorder(from, to int) error {
	if err := d.check("Reorder", from); err != nil {
		return err
	}
	if err := d.check("Reorder", to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	c := d.cards[from]
	d.cards = slices.Delete(d.cards, from, from+1)
	d.cards = slices.Insert(d.cards, to, c)
	return nil
}

// Filter yields matching cards with their deck index, in deck order. The
// sequence reads the deck when ranged over, so it can be reused.
func (d *Deck) Filter(f Filter) iter.Seq2[int, Card] {
	return func(yield func(int, Card) bool) {
		for i, c := range d.cards {
			if !f.Match(c.Status) {
				continue
			}
			if !yield(i, c) {
				return
			}
		}
	}
}

// BuildQuizPool returns the cards selected by f.
func (d *Deck) BuildQuizPool(f Filter) ([]Card, error) {
	var pool []Card
	for _, c := range d.Filter(f) {
		pool = append(pool, c)
	}
	if len(pool) == 0 {
		return nil, &errs.EmptyPoolError{Filter: string(f)}
	}
	return pool, nil
}

// Counts tallies cards per status.
func (d *Deck) Counts() map[Status]int {
	out := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		out[s] = 0
	}
	for _, c := range d.cards {
		out[c.Status]++
	}
	return out
}

func (d *Deck) check(op string, i int) error {
	if i < 0 || i >= len(d.cards) {
		return &errs.OutOfRangeError{Op: op, Index: i, Len: len(d.cards)}
	}
	return nil
}

func (d *Deck) MarshalJSON() ([]byte, error) {
	if d.cards == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.cards)
}

func (d *Deck) UnmarshalJSON(b []byte) error {
	var cards []Card
	if err := json.Unmarshal(b, &cards); err != nil {
		return fmt.Errorf("decode cards: %w", err)
	}
	*d = *NewDeck(cards)
	return nil
}
