package cards

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/eduquiz/internal/errs"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// maxDistractors caps wrong options per question, giving at most four
// options.
const maxDistractors = 3

// Synthesizer builds multiple-choice questions from flashcards.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer uses rng for every shuffle. A nil rng is seeded from
// the clock.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Synthesizer{rng: rng}
}

// Questions picks up to count cards from pool at random and asks for each
// card's back given its front. Wrong options come from the other cards'
// backs; cards sharing the target's front are never used. A target with no
// usable wrong option is skipped.
func (s *Synthesizer) Questions(pool []Card, count int) ([]quiz.Question, error) {
	if len(pool) == 0 {
		return nil, &errs.EmptyPoolError{Filter: "synthesize"}
	}
	if count <= 0 {
		return nil, &errs.InvalidInputError{Field: "count", Reason: "must be positive"}
	}

	shuffled := make([]Card, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var out []quiz.Question
	for _, target := range shuffled[:min(count, len(shuffled))] {
		distractors := s.distractors(pool, target)
		if len(distractors) == 0 {
			continue
		}

		options := append([]string{target.Back}, distractors...)
		s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

		correct := 0
		for i, o := range options {
			if o == target.Back {
				correct = i
				break
			}
		}

		out = append(out, quiz.Question{
			ID:          len(out) + 1,
			Type:        quiz.TypeMultipleChoice,
			Prompt:      target.Front,
			Options:     options,
			Correct:     quiz.Choice(correct),
			Explanation: fmt.Sprintf("The answer is %q because it is the back of the card %q.", target.Back, target.Front),
		})
	}

	if len(out) == 0 {
		return nil, &errs.InvalidInputError{Field: "cards", Reason: "need at least two cards with different answers"}
	}
	return out, nil
}

// distractors samples without replacement from the backs of cards whose
// front differs from target's. Backs equal to the answer or already picked
// are skipped so the options stay unique.
func (s *Synthesizer) distractors(pool []Card, target Card) []string {
	var candidates []string
	for _, c := range pool {
		if c.Front != target.Front {
			candidates = append(candidates, c.Back)
		}
	}

	seen := map[string]bool{target.Back: true}
	var out []string
	for _, i := range s.rng.Perm(len(candidates)) {
		b := candidates[i]
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
		if len(out) == maxDistractors {
			break
		}
	}
	return out
}
