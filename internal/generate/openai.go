// Package generate provides the generation collaborator: turning a query,
// retrieved context chunks and recent conversation turns into answer text.
// The retrieval core has no opinion on prompt formatting or model choice
// beyond what this package implements.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"docchat/internal/domain"
)

// Client is an OpenAI-compatible chat-completions client implementing the
// Generator interface. It retries transient failures with backoff; this is
// the network-facing collaborator where retries belong.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
	maxRetries  int
}

var _ domain.Generator = (*Client)(nil)

// Config configures the chat-completions client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// NewClient creates a generation client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      key,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: 0.7,
		client:      &http.Client{Timeout: t},
		maxRetries:  5,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate sends the conversation history plus the assembled prompt to the
// chat-completions endpoint and returns the answer text.
func (c *Client) Generate(ctx context.Context, query string, contextChunks []string, history []domain.Turn) (string, error) {
	messages := make([]chatMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: BuildPrompt(query, contextChunks)})

	body := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt, ""))
				continue
			}
			return "", err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			ra := resp.Header.Get("Retry-After")
			_ = resp.Body.Close()
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt, ra))
				continue
			}
			return "", fmt.Errorf("chat completion failed: %s", resp.Status)
		}
		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return "", fmt.Errorf("chat completion failed: %s", resp.Status)
		}

		var out struct {
			Choices []struct {
				Message chatMessage `json:"message"`
			} `json:"choices"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			return "", err
		}
		if len(out.Choices) == 0 {
			return "", errors.New("no completion returned")
		}
		return out.Choices[0].Message.Content, nil
	}
	return "", errors.New("no completion returned")
}

// retryDelay applies exponential backoff capped at 5s, honoring a
// Retry-After header when one is present.
func retryDelay(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
