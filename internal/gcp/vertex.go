package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/processdocumentflow/internal/llm"
)

// SummarySystemPrompt frames the concatenated case documents for Gemini.
const SummarySystemPrompt = "Você é um assistente jurídico. Você receberá documentos de um processo judicial, separados por linhas '---' e identificados pelo tipo. Responda em português."

// VertexClient implements llm.Summarizer with a Gemini model on Vertex AI.
type VertexClient struct {
	SummaryModel *genai.GenerativeModel
	baseClient   *genai.Client
}

var _ llm.Summarizer = (*VertexClient)(nil)

// NewVertexClient creates a client holding the pre-configured summary model.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	summaryModel := baseClient.GenerativeModel(modelName)
	summaryModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SummarySystemPrompt)},
	}
	// Same sampling as the chat-completions backend.
	summaryModel.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](llm.Temperature),
		TopP:            genai.Ptr[float32](llm.TopP),
		MaxOutputTokens: genai.Ptr[int32](llm.MaxCompletionTokens),
	}

	return &VertexClient{
		SummaryModel: summaryModel,
		baseClient:   baseClient,
	}, nil
}

// Summarize sends the prompt as a single text part.
func (c *VertexClient) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := c.SummaryModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	text := extractText(resp)
	if text == "" {
		return llm.FallbackResponse, nil
	}
	return text, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
