package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ryosukesatoh/gov-digest/internal/config"
)

// OpenRouterClient calls an OpenAI-compatible chat completions API.
type OpenRouterClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

var _ Generator = (*OpenRouterClient)(nil)

func NewOpenRouterClient(cfg config.GeneratorConfig) *OpenRouterClient {
	return &OpenRouterClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Chat completions API request/response types

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Generate sends one chat completion request and returns the model's text.
func (c *OpenRouterClient) Generate(ctx context.Context, roleInstruction, taskPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: roleInstruction},
			{Role: "user", Content: taskPrompt},
		},
		Temperature: 0.3,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("generator: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("generator: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generator: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("generator: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("generator: failed to parse response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("generator: API error %d: %s", apiResp.Error.Code, apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("generator: empty response")
	}

	return apiResp.Choices[0].Message.Content, nil
}
