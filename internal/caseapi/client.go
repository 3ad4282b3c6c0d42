// Package caseapi talks to the case-management REST API.
package caseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// PlaceholderText replaces a document text that the API returned empty.
const PlaceholderText = "Documento sem texto"

// ErrMissingDocuments means the list response had no "documentos" array.
var ErrMissingDocuments = errors.New("document list response has no documentos array")

// DocumentID accepts both string and numeric ids.
type DocumentID string

func (id *DocumentID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = DocumentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = DocumentID(n.String())
		return nil
	}
	// Anything else is treated as a missing id.
	*id = ""
	return nil
}

// TextSize is the declared extracted-text size. The API sometimes sends it as a string.
type TextSize float64

func (ts *TextSize) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*ts = TextSize(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*ts = TextSize(f)
			return nil
		}
	}
	*ts = 0
	return nil
}

// Summary is one entry of the document list.
type Summary struct {
	ID   DocumentID `json:"id"`
	Tipo struct {
		Nome string `json:"nome"`
	} `json:"tipo"`
	Arquivo struct {
		TamanhoTexto TextSize `json:"tamanhoTexto"`
	} `json:"arquivo"`
}

// HasText reports whether the API declares extractable text for the document.
func (s Summary) HasText() bool {
	return s.Arquivo.TamanhoTexto > 0
}

type listResponse struct {
	Documentos []json.RawMessage `json:"documentos"`
}

// Client calls the case API with a bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// DocumentsURL returns the list endpoint for a normalized process number.
func (c *Client) DocumentsURL(processNumber string) string {
	return fmt.Sprintf("%s/%s/documentos", c.baseURL, url.PathEscape(processNumber))
}

// TextURL returns the text endpoint of one document.
func (c *Client) TextURL(processNumber string, id DocumentID) string {
	return fmt.Sprintf("%s/%s/texto", c.DocumentsURL(processNumber), url.PathEscape(string(id)))
}

// ListDocuments returns the process's document summaries in API order.
func (c *Client) ListDocuments(ctx context.Context, token, processNumber string) ([]Summary, error) {
	body, err := c.get(ctx, token, c.DocumentsURL(processNumber))
	if err != nil {
		return nil, err
	}
	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDocuments, err)
	}
	if list.Documentos == nil {
		return nil, ErrMissingDocuments
	}
	// An entry that does not decode is kept as an empty Summary, which has no id.
	summaries := make([]Summary, len(list.Documentos))
	for i, raw := range list.Documentos {
		var s Summary
		if err := json.Unmarshal(raw, &s); err != nil {
			s = Summary{}
		}
		summaries[i] = s
	}
	return summaries, nil
}

// FetchText returns the text of one document.
func (c *Client) FetchText(ctx context.Context, token, processNumber string, id DocumentID) (string, error) {
	body, err := c.get(ctx, token, c.TextURL(processNumber, id))
	if err != nil {
		return "", err
	}
	return ParseText(body), nil
}

func (c *Client) get(ctx context.Context, token, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.authed(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}
	return body, nil
}

// authed wraps the base client so every request carries "Authorization: Bearer <token>".
func (c *Client) authed(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

// ParseText accepts a raw text body, a JSON string, or a JSON object with a "text" field.
// An empty result becomes PlaceholderText.
func ParseText(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	var text string
	switch {
	case len(trimmed) == 0:
	case json.Valid(trimmed):
		var v any
		_ = json.Unmarshal(trimmed, &v)
		switch t := v.(type) {
		case string:
			text = t
		case map[string]any:
			if s, ok := t["text"].(string); ok {
				text = s
			}
		}
	default:
		text = string(body)
	}
	if text == "" {
		return PlaceholderText
	}
	return text
}
