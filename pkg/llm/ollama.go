package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// OllamaChannel is a RepairChannel backed by a local Ollama server.
type OllamaChannel struct {
	client *ollama.Client
	model  string
}

// NewOllamaChannel creates a channel for the given model. An empty serverURL
// falls back to the OLLAMA_HOST environment variable or the Ollama default.
func NewOllamaChannel(model, serverURL string) (*OllamaChannel, error) {
	var client *ollama.Client
	if serverURL == "" {
		c, err := ollama.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
		client = c
	} else {
		base, err := url.Parse(serverURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama server URL %q: %w", serverURL, err)
		}
		client = ollama.NewClient(base, http.DefaultClient)
	}
	return &OllamaChannel{
		client: client,
		model:  strings.TrimPrefix(model, "ollama:"),
	}, nil
}

// Send issues a non-streaming chat request and returns the accumulated
// response as a ChatResponse.
func (c *OllamaChannel) Send(ctx context.Context, req ChatRequest) (any, error) {
	messages := make([]ollama.Message, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = ollama.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	options := map[string]interface{}{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}

	var content strings.Builder
	respFunc := func(res ollama.ChatResponse) error {
		content.WriteString(res.Message.Content)
		return nil
	}

	if err := c.client.Chat(ctx, chatReq, respFunc); err != nil {
		return nil, fmt.Errorf("ollama chat failed: %w", err)
	}

	return ChatResponse{Content: content.String()}, nil
}
