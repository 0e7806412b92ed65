package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure rejects the whole batch.
	Validators []Validator

	MaxTokens     int
	CardMaxTokens int
	Temperature   float64

	// MaxPriorPrompts caps how many earlier questions are listed in the
	// prompt.
	MaxPriorPrompts int
}

// DefaultConfig returns the standard validator chain and budgets.
func DefaultConfig() Config {
	return Config{
		Validators:      DefaultValidators(),
		MaxTokens:       4096,
		CardMaxTokens:   4096,
		Temperature:     0.7,
		MaxPriorPrompts: 10,
	}
}
