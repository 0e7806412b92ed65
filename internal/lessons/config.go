package lessons

// Config holds generation budgets for the lesson service.
type Config struct {
	KitMaxTokens      int
	FeedbackMaxTokens int
	PathMaxTokens     int
	Temperature       float64
}

// DefaultConfig returns sensible defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		KitMaxTokens:      8192,
		FeedbackMaxTokens: 1024,
		PathMaxTokens:     2048,
		Temperature:       0.5,
	}
}
