package session

import (
	"fmt"
	"time"

	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/lessons"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// Snapshot captures enough state to rebuild the quiz engine, the card
// deck and the current stage after a restart.
type Snapshot struct {
	Stage      Stage          `json:"stage"`
	Topic      string         `json:"topic"`
	Grade      string         `json:"grade"`
	Subject    string         `json:"subject"`
	Difficulty progress.Tier  `json:"difficulty"`
	Quiz       *quiz.Snapshot `json:"quiz,omitempty"`
	Cards      []cards.Card   `json:"cards,omitempty"`
	// PDFName is the document the cards were drawn from, if any.
	PDFName string       `json:"pdfName,omitempty"`
	Kit     *lessons.Kit `json:"kit,omitempty"`
	// AssignmentID is set when the session was started from an assignment.
	// Such sessions are never written to the store.
	AssignmentID string    `json:"assignmentId,omitempty"`
	SavedAt      time.Time `json:"savedAt"`
}

// Engine rebuilds the quiz engine captured in the snapshot.
func (s *Snapshot) Engine(opts ...quiz.Option) (*quiz.Engine, error) {
	if s.Quiz == nil {
		return nil, fmt.Errorf("snapshot has no quiz")
	}
	e := quiz.NewEngine(opts...)
	if err := e.Restore(*s.Quiz); err != nil {
		return nil, err
	}
	return e, nil
}

// Deck rebuilds the card deck captured in the snapshot.
func (s *Snapshot) Deck() *cards.Deck {
	return cards.NewDeck(s.Cards)
}
