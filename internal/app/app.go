// Package app wires the services from a single Config.
package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/Lllllllleong/processdocumentflow/internal/auth"
	"github.com/Lllllllleong/processdocumentflow/internal/catalog"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
	"github.com/Lllllllleong/processdocumentflow/internal/handlers"
	"github.com/Lllllllleong/processdocumentflow/internal/services"
	"github.com/Lllllllleong/processdocumentflow/internal/web"
)

// App holds one instance of every service.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Tokens    *auth.TokenProvider
	Auth      *services.AuthFunction
	Documents *services.DocumentsFunction
	Grok      *services.GrokFunction
	Catalog   *catalog.Catalog
}

// NewLogger returns the JSON logger used by every entry point.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// New builds the services. A nil httpClient means http.DefaultClient.
func New(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *App {
	tokens := auth.NewTokenProvider(cfg, httpClient, logger.With("component", "auth"))
	return &App{
		Config:    cfg,
		Logger:    logger,
		Tokens:    tokens,
		Auth:      services.NewAuth(tokens, logger.With("component", "auth")),
		Documents: services.NewDocuments(cfg, tokens, httpClient, logger.With("component", "documents")),
		Grok:      services.NewGrok(cfg, httpClient, logger.With("component", "grok")),
		Catalog:   catalog.Default(),
	}
}

func (a *App) AuthHandler() http.HandlerFunc {
	return handlers.Auth(a.Auth, a.Logger)
}

func (a *App) DocumentsHandler() http.HandlerFunc {
	return handlers.Documents(a.Documents, a.Logger)
}

func (a *App) GrokHandler() http.HandlerFunc {
	return handlers.Grok(a.Grok, a.Logger)
}

// PageHandler serves the lookup form.
func (a *App) PageHandler() http.Handler {
	return web.NewPage(a.Documents, a.Grok, a.Catalog, a.Logger.With("component", "web"))
}

// Close releases long-lived clients.
func (a *App) Close() error {
	return a.Grok.Close()
}
