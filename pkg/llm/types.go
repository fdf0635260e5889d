// Package llm defines the chat-style request shapes the repair channel
// consumes and provides the Ollama-backed default implementation.
package llm

import "context"

// ChatMessage is one role/content message in a chat request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the structured request sent to a repair channel.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatResponse is the canonical response shape. Channels may also return a
// raw string or a map carrying "content" or "message" keys; callers must
// tolerate all three shapes.
type ChatResponse struct {
	Content string       `json:"content,omitempty"`
	Message *ChatMessage `json:"message,omitempty"`
}

// RepairChannel is the opaque code-generation capability invoked to rewrite
// broken artifact code. The response is deliberately untyped: see
// ChatResponse for the accepted shapes.
type RepairChannel interface {
	Send(ctx context.Context, req ChatRequest) (any, error)
}

// RepairChannelFunc adapts a plain function into a RepairChannel.
type RepairChannelFunc func(ctx context.Context, req ChatRequest) (any, error)

// Send calls the wrapped function.
func (f RepairChannelFunc) Send(ctx context.Context, req ChatRequest) (any, error) {
	return f(ctx, req)
}
