// Package llm wraps the external text-generation capability behind a small
// chat-completion interface so stage handlers can be tested against fakes.
package llm

import "context"

// Request is a single chat completion: an ordered system+user message pair,
// a sampling temperature, and an optional structured-output hint.
type Request struct {
	Operation   string // stable label for logs and metrics, e.g. "generate-questions"
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	JSONMode    bool // ask the service for a JSON object response
}

// Client is the text-generation capability. Implementations must classify
// transport failures through the errors package so the retry policy can
// distinguish transient from permanent faults.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
