package quiz

import (
	"math"
	"time"
)

// Result summarizes a completed quiz. Score is out of Total, which is
// always 100.
type Result struct {
	Score         int       `json:"score"`
	Total         int       `json:"total"`
	Correct       int       `json:"correct"`
	Questions     int       `json:"questions"`
	LongestStreak int       `json:"longestStreak"`
	CompletedAt   time.Time `json:"completedAt"`
}

// Passed reports whether the result clears the unlock threshold.
func (r Result) Passed() bool { return r.Score >= PassScore }

// PassScore is the minimum rounded score that counts as a pass.
const PassScore = 70

// LongestStreak returns the longest run of consecutive correct answers.
func LongestStreak(correctness []bool) int {
	best, run := 0, 0
	for _, ok := range correctness {
		if !ok {
			run = 0
			continue
		}
		run++
		best = max(best, run)
	}
	return best
}

// percent is the share of correct answers out of n, on a 0..100 scale.
func percent(correct, n int) float64 {
	if n == 0 {
		return 0
	}
	return 100 * float64(correct) / float64(n)
}

func countCorrect(correctness []bool) int {
	n := 0
	for _, ok := range correctness {
		if ok {
			n++
		}
	}
	return n
}

// newResult scores from the correct count, not the running float sum, so
// halves round the same way for every quiz length.
func newResult(correctness []bool, at time.Time) Result {
	correct := countCorrect(correctness)
	return Result{
		Score:         int(math.Round(percent(correct, len(correctness)))),
		Total:         100,
		Correct:       correct,
		Questions:     len(correctness),
		LongestStreak: LongestStreak(correctness),
		CompletedAt:   at,
	}
}

// TutorFeedback is the written review of a completed quiz.
type TutorFeedback struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
