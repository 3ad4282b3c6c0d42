package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"github.com/Lllllllleong/processdocumentflow/internal/caseapi"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
	"github.com/Lllllllleong/processdocumentflow/internal/models"
	"golang.org/x/sync/errgroup"
)

var processNumberRegex = regexp.MustCompile(`^\d{20}$`)

// NormalizeProcessNumber strips hyphens and dots and requires exactly 20 digits.
func NormalizeProcessNumber(raw string) (string, error) {
	normalized := strings.NewReplacer("-", "", ".", "").Replace(strings.TrimSpace(raw))
	if !processNumberRegex.MatchString(normalized) {
		return "", apperr.Invalidf("Invalid process number format (must be 20 digits)")
	}
	return normalized, nil
}

// TokenSource yields a bearer token for the case API.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// DocumentsFunction holds the dependencies for document retrieval.
type DocumentsFunction struct {
	cfg        *config.Config
	tokens     TokenSource
	caseClient *caseapi.Client
	logger     *slog.Logger
}

// NewDocuments creates a DocumentsFunction. A nil httpClient means http.DefaultClient.
func NewDocuments(cfg *config.Config, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *DocumentsFunction {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentsFunction{
		cfg:        cfg,
		tokens:     tokens,
		caseClient: caseapi.NewClient(cfg.APIURL, httpClient),
		logger:     logger,
	}
}

// Process lists a process's documents, keeps the wanted ones with text, fetches their
// texts and assembles the prompt.
func (f *DocumentsFunction) Process(ctx context.Context, req *models.DocumentsRequest) (*models.DocumentsResponse, error) {
	logCtx := f.logger.With("processNumber", req.ProcessNumber)
	logCtx.Info("Parameters received.", "documentTypes", req.DocumentTypes)

	if strings.TrimSpace(req.ProcessNumber) == "" || len(req.DocumentTypes) == 0 {
		logCtx.Error("Invalid parameters.")
		return nil, apperr.Invalidf("Missing or invalid processNumber or documentTypes")
	}
	processNumber, err := NormalizeProcessNumber(req.ProcessNumber)
	if err != nil {
		logCtx.Error("Invalid process number format.", "error", err)
		return nil, err
	}
	logCtx = f.logger.With("processNumber", processNumber)

	if err := f.cfg.RequireCaseAPI(); err != nil {
		logCtx.Error("Case API settings missing.", "error", err)
		return nil, err
	}

	// --- 1. Token ---
	token, err := f.tokens.Token(ctx)
	if err != nil {
		if apperr.KindOf(err) == apperr.Unknown {
			err = apperr.Wrap(apperr.Upstream, "Failed to obtain token", err)
		}
		return nil, err
	}

	// --- 2. Document list ---
	logCtx.Info("Requesting document list.", "url", f.caseClient.DocumentsURL(processNumber))
	summaries, err := f.caseClient.ListDocuments(ctx, token, processNumber)
	if err != nil {
		logCtx.Error("Failed to list documents.", "error", err)
		if errors.Is(err, caseapi.ErrMissingDocuments) {
			return nil, apperr.Wrap(apperr.Upstream, "Invalid response format from API: documentos not found or not an array", err)
		}
		return nil, apperr.Wrap(apperr.Upstream, "Error fetching documents", err)
	}

	// --- 3. Filter ---
	selected := SelectDocuments(summaries, req.DocumentTypes, logCtx)
	logCtx.Info("Documents selected.", "listed", len(summaries), "selected", len(selected))

	// --- 4. Texts ---
	documents := f.fetchTexts(ctx, logCtx, token, processNumber, selected)

	grokText := AssemblePrompt(documents)
	logCtx.Info("Prompt assembled.", "documentCount", len(documents), "promptLength", len(grokText))
	logCtx.Debug("Prompt text.", "grokText", grokText)

	return &models.DocumentsResponse{
		Documents: documents,
		GrokText:  grokText,
	}, nil
}

// SelectDocuments keeps entries whose type is wanted and whose declared text size is
// positive. Entries without an id are logged and skipped.
func SelectDocuments(summaries []caseapi.Summary, wanted []string, logger *slog.Logger) []caseapi.Summary {
	wantedSet := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		wantedSet[w] = struct{}{}
	}

	var selected []caseapi.Summary
	for i, s := range summaries {
		if s.ID == "" {
			logger.Warn("Document without id skipped.", "position", i, "type", s.Tipo.Nome)
			continue
		}
		if _, ok := wantedSet[s.Tipo.Nome]; !ok {
			continue
		}
		if !s.HasText() {
			continue
		}
		selected = append(selected, s)
	}
	return selected
}

// fetchTexts fetches every selected document concurrently. Each goroutine owns one slot;
// a failed fetch leaves its slot empty and never stops the others.
func (f *DocumentsFunction) fetchTexts(ctx context.Context, logCtx *slog.Logger, token, processNumber string, selected []caseapi.Summary) []models.Document {
	slots := make([]*models.Document, len(selected))

	var eg errgroup.Group
	eg.SetLimit(max(f.cfg.FetchConcurrency, 1))
	for i, s := range selected {
		eg.Go(func() error {
			text, err := f.caseClient.FetchText(ctx, token, processNumber, s.ID)
			if err != nil {
				logCtx.Error("Failed to fetch document text, skipping.", "documentId", s.ID, "url", f.caseClient.TextURL(processNumber, s.ID), "error", err)
				return nil
			}
			logCtx.Info("Document text fetched.", "documentId", s.ID, "type", s.Tipo.Nome, "textSize", float64(s.Arquivo.TamanhoTexto))
			slots[i] = &models.Document{
				ID:   string(s.ID),
				Text: text,
				Type: s.Tipo.Nome,
			}
			return nil
		})
	}
	_ = eg.Wait()

	documents := make([]models.Document, 0, len(slots))
	for _, d := range slots {
		if d != nil {
			documents = append(documents, *d)
		}
	}
	return documents
}
