package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TOKEN_URL", "https://sso.example/token")
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("API_URL", "https://api.example/processos/")
	t.Setenv("CASE_FETCH_CONCURRENCY", "not-a-number")
	t.Setenv("LLM_PROVIDER", "GROK")

	cfg := Load()

	assert.Equal(t, "https://api.example/processos", cfg.APIURL)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.Equal(t, ProviderGrok, cfg.LLMProvider)
	assert.Equal(t, "grok-3-dev", cfg.GrokModel)
	assert.NoError(t, cfg.RequireCaseAPI())
}

func TestRequireAuth(t *testing.T) {
	cfg := &Config{ClientID: "id", ClientSecret: "secret"}
	err := cfg.RequireAuth()
	require.Error(t, err)
	assert.Equal(t, apperr.Configuration, apperr.KindOf(err))
}

func TestRequireCaseAPI_MissingAPIURL(t *testing.T) {
	cfg := &Config{TokenURL: "t", ClientID: "id", ClientSecret: "s"}
	err := cfg.RequireCaseAPI()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_URL")
}

func TestRequireLLM(t *testing.T) {
	t.Run("grok needs url and secret", func(t *testing.T) {
		cfg := &Config{LLMProvider: ProviderGrok, GrokAPIURL: "https://llm.example"}
		assert.Equal(t, apperr.Configuration, apperr.KindOf(cfg.RequireLLM()))
		cfg.GrokAPISecret = "s"
		assert.NoError(t, cfg.RequireLLM())
	})

	t.Run("vertex needs project", func(t *testing.T) {
		cfg := &Config{LLMProvider: ProviderVertex, VertexAIRegion: "us-central1"}
		assert.Error(t, cfg.RequireLLM())
		cfg.ProjectID = "p"
		assert.NoError(t, cfg.RequireLLM())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &Config{LLMProvider: "other"}
		assert.Error(t, cfg.RequireLLM())
	})
}

func TestOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiUrl: https://file.example/\nfetchConcurrency: 8\nlogLevel: debug\n"), 0o600))

	cfg := &Config{APIURL: "https://env.example", ClientID: "env-id", FetchConcurrency: 4}
	require.NoError(t, cfg.Overlay(path))

	assert.Equal(t, "https://file.example", cfg.APIURL)
	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, 8, cfg.FetchConcurrency)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestOverlay_MissingFile(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Overlay(filepath.Join(t.TempDir(), "nope.yaml")))
}
