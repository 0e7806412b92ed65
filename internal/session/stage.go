// Package session persists the single resumable study session of a learner.
package session

import "fmt"

// Stage is the screen a learner is on.
type Stage string

const (
	StageBuilder     Stage = "builder"     // Choosing grade, subject and topic
	StageLearningKit Stage = "learningKit" // Reading a generated kit
	StageReview      Stage = "review"      // Reviewing generated questions before starting
	StageQuiz        Stage = "quiz"        // Answering questions
	StageCards       Stage = "cards"       // Studying flashcards
	StageShare       Stage = "share"       // Sharing a quiz as an assignment
	StageResult      Stage = "result"      // Viewing the final result
)

// ParseStage parses a stage name.
func ParseStage(s string) (Stage, error) {
	switch st := Stage(s); st {
	case StageBuilder, StageLearningKit, StageReview, StageQuiz, StageCards, StageShare, StageResult:
		return st, nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// IsProgress reports whether a learner on this stage has work worth
// resuming. Setup and result stages are never persisted.
func (s Stage) IsProgress() bool {
	switch s {
	case StageLearningKit, StageReview, StageQuiz, StageCards, StageShare:
		return true
	}
	return false
}
