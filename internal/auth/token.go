// Package auth obtains bearer tokens for the case API with the OAuth client-credentials grant.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider fetches a fresh access token on every call. Nothing is cached.
type TokenProvider struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTokenProvider creates a TokenProvider. A nil httpClient means http.DefaultClient.
func NewTokenProvider(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *TokenProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenProvider{cfg: cfg, httpClient: httpClient, logger: logger}
}

// Token issues a single client-credentials request and returns the access token.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if err := p.cfg.RequireAuth(); err != nil {
		p.logger.Error("Token settings missing.")
		return "", err
	}

	cc := &clientcredentials.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		TokenURL:     p.cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	p.logger.Info("Requesting access token.", "tokenUrl", p.cfg.TokenURL)
	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient))
	if err != nil {
		p.logger.Error("Failed to obtain token.", "error", err)
		return "", apperr.Wrap(apperr.Upstream, "Error obtaining token", err)
	}
	if tok.AccessToken == "" {
		p.logger.Error("Token response has no access_token.")
		return "", apperr.New(apperr.Upstream, "Failed to obtain token")
	}
	p.logger.Info("Access token obtained.", "tokenType", tok.TokenType)
	return tok.AccessToken, nil
}
