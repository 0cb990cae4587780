package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/config"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

// OpenAIBackend talks to any chat-completions compatible endpoint
// (OpenAI, DashScope, Ollama, vLLM and friends).
type OpenAIBackend struct {
	name        string
	endpoint    string
	model       string
	apiKey      string
	maxTokens   int
	temperature *float64
	client      *http.Client
}

// NewOpenAIBackend creates a backend from a resolved configuration.
func NewOpenAIBackend(cfg *config.ResolvedBackend) *OpenAIBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OpenAIBackend{
		name:        cfg.Name,
		endpoint:    completionsURL(cfg.Endpoint),
		model:       cfg.Model,
		apiKey:      cfg.Key,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// completionsURL appends the chat-completions path unless the endpoint
// already carries it.
func completionsURL(endpoint string) string {
	trimmed := strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(trimmed, "/chat/completions") {
		return trimmed
	}
	return trimmed + "/chat/completions"
}

// Name identifies the backend for logs and events.
func (b *OpenAIBackend) Name() string { return b.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Invoke sends the instruction context and returns the model's reply.
func (b *OpenAIBackend) Invoke(ctx context.Context, turns []core.Turn) (core.Response, error) {
	messages := make([]chatMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, chatMessage{Role: string(t.Role), Content: t.Content})
	}

	body, err := json.Marshal(chatRequest{
		Model:       b.model,
		Messages:    messages,
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned HTTP %d: %s", resp.StatusCode, snippet(payload))
	}

	var cr chatResponse
	if err := json.Unmarshal(payload, &cr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("backend error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("backend returned no choices")
	}

	return core.TextResponse{Text: cr.Choices[0].Message.Content}, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
