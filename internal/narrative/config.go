package narrative

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxTips bounds the coaching tips requested per breakdown.
	MaxTips int
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.3,
		MaxTips:     3,
	}
}
