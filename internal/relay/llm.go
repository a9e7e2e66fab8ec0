package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNoAPIKey signals the heuristic fallback path should be used.
var ErrNoAPIKey = errors.New("no API key configured")

// llmClient talks to an OpenAI-style chat-completions endpoint.
type llmClient struct {
	apiKey string
	model  string
	url    string
	http   *http.Client
}

func newLLMClient(cfg Config) *llmClient {
	return &llmClient{
		apiKey: cfg.OpenAIKey,
		model:  cfg.OpenAIModel,
		url:    cfg.OpenAIURL,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// complete runs one system+user exchange and returns the assistant content
// and tokens used.
func (l *llmClient) complete(ctx context.Context, system, user string) (string, int, error) {
	if l.apiKey == "" {
		return "", 0, ErrNoAPIKey
	}
	reqBody := chatRequest{
		Model: l.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(b))
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("call completion API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", 0, fmt.Errorf("completion API HTTP %d", resp.StatusCode)
	}
	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", 0, fmt.Errorf("decode completion response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", 0, errors.New("no choices in completion response")
	}
	return cr.Choices[0].Message.Content, cr.Usage.TotalTokens, nil
}

// jsonBlock strips markdown fences so a JSON reply can be unmarshalled even
// when the model wraps it.
func jsonBlock(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
