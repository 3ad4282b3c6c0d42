package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
	"github.com/Lllllllleong/processdocumentflow/internal/llm"
	"github.com/Lllllllleong/processdocumentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLLMServer(t *testing.T, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func grokConfig(url string) *config.Config {
	return &config.Config{
		LLMProvider:   config.ProviderGrok,
		GrokAPIURL:    url,
		GrokAPISecret: "secret",
		GrokModel:     "grok-3-dev",
	}
}

func TestGrokProcess(t *testing.T) {
	var calls atomic.Int32
	server := newLLMServer(t, `{"choices":[{"message":{"content":"ok"}}]}`, &calls)

	f := NewGrok(grokConfig(server.URL), server.Client(), discardLogger())
	resp, err := f.Process(context.Background(), &models.GrokRequest{GrokText: "Documento 1 (Acórdão):\nA\n\n"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.GrokResponse)
}

func TestGrokProcess_Fallback(t *testing.T) {
	var calls atomic.Int32
	server := newLLMServer(t, `{"choices":[]}`, &calls)

	resp, err := NewGrok(grokConfig(server.URL), server.Client(), discardLogger()).
		Process(context.Background(), &models.GrokRequest{GrokText: "x"})
	require.NoError(t, err)
	assert.Equal(t, llm.FallbackResponse, resp.GrokResponse)
}

func TestGrokProcess_BlankPrompt(t *testing.T) {
	var calls atomic.Int32
	server := newLLMServer(t, `{}`, &calls)

	_, err := NewGrok(grokConfig(server.URL), server.Client(), discardLogger()).
		Process(context.Background(), &models.GrokRequest{GrokText: " \n\t"})
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	assert.Zero(t, calls.Load())
}

func TestGrokProcess_MissingSecret(t *testing.T) {
	var calls atomic.Int32
	server := newLLMServer(t, `{}`, &calls)
	cfg := grokConfig(server.URL)
	cfg.GrokAPISecret = ""

	_, err := NewGrok(cfg, server.Client(), discardLogger()).
		Process(context.Background(), &models.GrokRequest{GrokText: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.Configuration, apperr.KindOf(err))
	assert.Zero(t, calls.Load())
}

func TestGrokProcess_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewGrok(grokConfig(server.URL), server.Client(), discardLogger()).
		Process(context.Background(), &models.GrokRequest{GrokText: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.Upstream, apperr.KindOf(err))
	assert.Equal(t, "Error processing Grok request", apperr.Message(err))
}

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) { return s.token, s.err }

func TestAuthProcess(t *testing.T) {
	resp, err := NewAuth(staticTokens{token: "abc"}, discardLogger()).Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)

	_, err = NewAuth(staticTokens{err: apperr.Configf("missing")}, discardLogger()).Process(context.Background())
	assert.Equal(t, apperr.Configuration, apperr.KindOf(err))
}
