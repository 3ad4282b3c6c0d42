// Package config builds the process-wide configuration once at start-up.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGrok   = "grok"
	ProviderVertex = "vertex"
)

// Config holds every external-service setting. Missing values are not an error at load
// time; each component checks the values it needs with a Require* method.
type Config struct {
	TokenURL     string `yaml:"tokenUrl"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	APIURL       string `yaml:"apiUrl"`

	LLMProvider   string `yaml:"llmProvider"`
	GrokAPIURL    string `yaml:"grokApiUrl"`
	GrokAPISecret string `yaml:"grokApiSecret"`
	GrokModel     string `yaml:"grokModel"`

	ProjectID      string `yaml:"projectId"`
	VertexAIRegion string `yaml:"vertexAiRegion"`
	VertexModel    string `yaml:"vertexModel"`

	FetchConcurrency int    `yaml:"fetchConcurrency"`
	Port             string `yaml:"port"`
	LogLevel         string `yaml:"logLevel"`
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load reads the configuration from the environment.
func Load() *Config {
	concurrency, err := strconv.Atoi(GetEnv("CASE_FETCH_CONCURRENCY", "4"))
	if err != nil || concurrency < 1 {
		concurrency = 4
	}
	return &Config{
		TokenURL:         GetEnv("TOKEN_URL", ""),
		ClientID:         GetEnv("CLIENT_ID", ""),
		ClientSecret:     GetEnv("CLIENT_SECRET", ""),
		APIURL:           strings.TrimRight(GetEnv("API_URL", ""), "/"),
		LLMProvider:      strings.ToLower(GetEnv("LLM_PROVIDER", ProviderGrok)),
		GrokAPIURL:       GetEnv("GROK_API_URL", ""),
		GrokAPISecret:    GetEnv("GROK_API_SECRET", ""),
		GrokModel:        GetEnv("GROK_MODEL", "grok-3-dev"),
		ProjectID:        GetEnv("PROJECT_ID", ""),
		VertexAIRegion:   GetEnv("VERTEX_AI_REGION", "us-central1"),
		VertexModel:      GetEnv("VERTEX_MODEL", "gemini-1.5-pro"),
		FetchConcurrency: concurrency,
		Port:             GetEnv("PORT", "8080"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
	}
}

// Overlay merges the non-empty values of a YAML file on top of c.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.TokenURL, file.TokenURL)
	set(&c.ClientID, file.ClientID)
	set(&c.ClientSecret, file.ClientSecret)
	set(&c.APIURL, strings.TrimRight(file.APIURL, "/"))
	set(&c.LLMProvider, strings.ToLower(file.LLMProvider))
	set(&c.GrokAPIURL, file.GrokAPIURL)
	set(&c.GrokAPISecret, file.GrokAPISecret)
	set(&c.GrokModel, file.GrokModel)
	set(&c.ProjectID, file.ProjectID)
	set(&c.VertexAIRegion, file.VertexAIRegion)
	set(&c.VertexModel, file.VertexModel)
	set(&c.Port, file.Port)
	set(&c.LogLevel, file.LogLevel)
	if file.FetchConcurrency > 0 {
		c.FetchConcurrency = file.FetchConcurrency
	}
	return nil
}

// RequireAuth checks the client-credentials settings.
func (c *Config) RequireAuth() error {
	if c.TokenURL == "" || c.ClientID == "" || c.ClientSecret == "" {
		return apperr.Configf("Configuração inválida: variáveis de ambiente faltando (TOKEN_URL, CLIENT_ID, CLIENT_SECRET)")
	}
	return nil
}

// RequireCaseAPI checks everything the document retriever needs, token settings included.
func (c *Config) RequireCaseAPI() error {
	if err := c.RequireAuth(); err != nil {
		return err
	}
	if c.APIURL == "" {
		return apperr.Configf("Configuração inválida: API_URL não definido")
	}
	return nil
}

// RequireLLM checks the settings of the selected LLM provider.
func (c *Config) RequireLLM() error {
	switch c.LLMProvider {
	case ProviderVertex:
		if c.ProjectID == "" || c.VertexAIRegion == "" {
			return apperr.Configf("Configuração inválida: PROJECT_ID ou VERTEX_AI_REGION não definido")
		}
	case ProviderGrok, "":
		if c.GrokAPIURL == "" || c.GrokAPISecret == "" {
			return apperr.Configf("Configuração inválida: GROK_API_URL ou GROK_API_SECRET não definido")
		}
	default:
		return apperr.Configf("Configuração inválida: LLM_PROVIDER desconhecido %q", c.LLMProvider)
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
