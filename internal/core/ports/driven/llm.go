package driven

import "context"

// LLMService produces text completions. This is an optional
// capability: when nil, consumers fall back to deterministic answers
// and zero memory candidates.
//
// Failure modes are distinguished through domain sentinels so callers
// can apply the right fallback:
//   - domain.ErrLLMUnavailable: not configured at all
//   - domain.ErrLLMTransient: quota, rate limit, network, timeout
type LLMService interface {
	// Complete produces a text completion from a prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// CompleteOptions configures text generation behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
