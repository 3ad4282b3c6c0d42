// Package llm sends assembled document text to a chat-completion endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/googleapi"
)

// FallbackResponse is returned when the model answered without any content.
const FallbackResponse = "Resposta do Grok não contém texto"

// Sampling parameters sent with every request.
const (
	MaxCompletionTokens = 2048
	Temperature         = 1.0
	TopP                = 1.0
)

// Summarizer turns a prompt into the model's answer.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages            []message `json:"messages"`
	MaxCompletionTokens int       `json:"max_completion_tokens"`
	Temperature         float64   `json:"temperature"`
	TopP                float64   `json:"top_p"`
	FrequencyPenalty    float64   `json:"frequency_penalty"`
	PresencePenalty     float64   `json:"presence_penalty"`
	Model               string    `json:"model"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GrokClient implements Summarizer for an OpenAI-compatible chat-completions URL.
type GrokClient struct {
	endpoint   string
	secret     string
	model      string
	httpClient *http.Client
}

// NewGrokClient creates a GrokClient. A nil httpClient means http.DefaultClient.
func NewGrokClient(endpoint, secret, model string, httpClient *http.Client) *GrokClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GrokClient{
		endpoint:   endpoint,
		secret:     secret,
		model:      model,
		httpClient: httpClient,
	}
}

// Summarize posts a single user message and returns choices[0].message.content.
func (c *GrokClient) Summarize(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages:            []message{{Role: "user", Content: prompt}},
		MaxCompletionTokens: MaxCompletionTokens,
		Temperature:         Temperature,
		TopP:                TopP,
		Model:               c.model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return ExtractContent(raw)
}

// ExtractContent pulls choices[0].message.content out of a response body, or
// FallbackResponse when there is none.
func ExtractContent(raw []byte) (string, error) {
	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return FallbackResponse, nil
	}
	return out.Choices[0].Message.Content, nil
}
