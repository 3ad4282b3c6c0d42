package gcp

import (
	"context"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	assert.Empty(t, extractText(nil))
	assert.Empty(t, extractText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Resumo: "),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("apelação provida.\n"),
			}},
		}},
	}
	assert.Equal(t, "Resumo: apelação provida.", extractText(resp))
}

func TestNewVertexClient_RequiresProject(t *testing.T) {
	_, err := NewVertexClient(context.Background(), "", "us-central1", "gemini-1.5-pro")
	require.Error(t, err)
}
