package services

import (
	"context"
	"log/slog"

	"github.com/Lllllllleong/processdocumentflow/internal/models"
)

// AuthFunction exposes the token provider as an HTTP function.
type AuthFunction struct {
	tokens TokenSource
	logger *slog.Logger
}

// NewAuth creates an AuthFunction.
func NewAuth(tokens TokenSource, logger *slog.Logger) *AuthFunction {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFunction{tokens: tokens, logger: logger}
}

// Process returns a freshly issued token.
func (f *AuthFunction) Process(ctx context.Context) (*models.TokenResponse, error) {
	token, err := f.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{Token: token}, nil
}
