package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Reply is a provider response. ThreadID is the provider-side
// continuation token for the thread; providers without server-side
// threads leave it empty, which tells callers to resend history.
type Reply struct {
	Text     string
	ThreadID string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	ThreadID    string // Continue a provider-side thread instead of resending history
	Effort      string // Reasoning effort hint ("low", "medium", "high"), providers may ignore
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithThread(threadID string) Option {
	return func(o *Options) {
		o.ThreadID = threadID
	}
}

func WithEffort(effort string) Option {
	return func(o *Options) {
		o.Effort = effort
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response.
	// With WithThread the history should hold only the new input; the
	// provider resumes the server-side thread.
	Chat(ctx context.Context, history []Message, options ...Option) (Reply, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (Reply, error)
}
