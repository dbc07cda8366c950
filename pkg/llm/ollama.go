package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaClient implements Client against a local Ollama server's chat API.
type OllamaClient struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// OllamaOption configures an OllamaClient.
type OllamaOption func(*OllamaClient)

// WithOllamaTemperature sets the sampling temperature.
func WithOllamaTemperature(t float64) OllamaOption {
	return func(c *OllamaClient) { c.temperature = t }
}

// WithOllamaMaxTokens caps the completion length (num_predict).
func WithOllamaMaxTokens(n int) OllamaOption {
	return func(c *OllamaClient) { c.maxTokens = n }
}

// NewOllamaClient creates an Ollama chat client.
// baseURL is typically "http://localhost:11434"; model e.g. "llama3.2".
func NewOllamaClient(baseURL, model string, opts ...OllamaOption) *OllamaClient {
	c := &OllamaClient{
		baseURL:     baseURL,
		model:       model,
		temperature: 0.2,
		client: &http.Client{
			Timeout: 300 * time.Second, // local models can be slow
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*OllamaClient)(nil)

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Complete sends the prompts and returns the raw completion text.
func (c *OllamaClient) Complete(ctx context.Context, system, user string) (string, error) {
	return c.chat(ctx, system, user, "")
}

// CompleteJSON asks Ollama for JSON output and decodes the completion into
// out, after fence stripping and array normalization.
func (c *OllamaClient) CompleteJSON(ctx context.Context, system, user string, out any) error {
	response, err := c.chat(ctx, system, user, "json")
	if err != nil {
		return err
	}
	return decodeCompletion(response, out)
}

func (c *OllamaClient) chat(ctx context.Context, system, user, format string) (string, error) {
	reqBody := ollamaChatRequest{
		Model:    c.model,
		Messages: buildMessages(system, user),
		Stream:   false,
		Format:   format,
		Options:  c.options(),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(body))
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.Message.Content, nil
}

func (c *OllamaClient) options() map[string]any {
	opts := map[string]any{"temperature": c.temperature}
	if c.maxTokens > 0 {
		opts["num_predict"] = c.maxTokens
	}
	return opts
}

func buildMessages(system, user string) []chatMessage {
	msgs := make([]chatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: user})
	return msgs
}
