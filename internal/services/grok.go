package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
	"github.com/Lllllllleong/processdocumentflow/internal/gcp"
	"github.com/Lllllllleong/processdocumentflow/internal/llm"
	"github.com/Lllllllleong/processdocumentflow/internal/models"
)

// GrokFunction holds the dependencies for submitting a prompt to the configured model.
type GrokFunction struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *slog.Logger

	// The Vertex client holds a gRPC connection, so it is created once.
	vertexOnce   sync.Once
	vertexClient *gcp.VertexClient
	vertexErr    error
}

// NewGrok creates a GrokFunction. A nil httpClient means http.DefaultClient.
func NewGrok(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *GrokFunction {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrokFunction{cfg: cfg, httpClient: httpClient, logger: logger}
}

// Process validates the prompt and returns the model's answer.
func (f *GrokFunction) Process(ctx context.Context, req *models.GrokRequest) (*models.GrokResponse, error) {
	if strings.TrimSpace(req.GrokText) == "" {
		f.logger.Error("Invalid grokText parameter.")
		return nil, apperr.Invalidf("Missing or invalid grokText")
	}
	if err := f.cfg.RequireLLM(); err != nil {
		f.logger.Error("LLM settings missing.", "error", err)
		return nil, err
	}

	summarizer, err := f.summarizer(ctx)
	if err != nil {
		f.logger.Error("Failed to initialize LLM client.", "provider", f.cfg.LLMProvider, "error", err)
		return nil, apperr.Wrap(apperr.Upstream, "Error processing Grok request", err)
	}

	logCtx := f.logger.With("provider", f.cfg.LLMProvider, "promptLength", len(req.GrokText))
	logCtx.Info("Sending prompt to LLM.")
	answer, err := summarizer.Summarize(ctx, req.GrokText)
	if err != nil {
		logCtx.Error("LLM request failed.", "error", err)
		return nil, apperr.Wrap(apperr.Upstream, "Error processing Grok request", err)
	}
	logCtx.Info("LLM answered.", "responseLength", len(answer))

	return &models.GrokResponse{GrokResponse: answer}, nil
}

func (f *GrokFunction) summarizer(ctx context.Context) (llm.Summarizer, error) {
	if f.cfg.LLMProvider != config.ProviderVertex {
		return llm.NewGrokClient(f.cfg.GrokAPIURL, f.cfg.GrokAPISecret, f.cfg.GrokModel, f.httpClient), nil
	}
	f.vertexOnce.Do(func() {
		// The client outlives the request that created it.
		f.vertexClient, f.vertexErr = gcp.NewVertexClient(context.WithoutCancel(ctx), f.cfg.ProjectID, f.cfg.VertexAIRegion, f.cfg.VertexModel)
	})
	if f.vertexErr != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", f.vertexErr)
	}
	return f.vertexClient, nil
}

// Close releases the Vertex client if one was created.
func (f *GrokFunction) Close() error {
	if f.vertexClient != nil {
		return f.vertexClient.Close()
	}
	return nil
}
