package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"github.com/Lllllllleong/processdocumentflow/internal/catalog"
	"github.com/Lllllllleong/processdocumentflow/internal/models"
	"github.com/Lllllllleong/processdocumentflow/internal/services"
)

//go:embed templates/consulta.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("consulta.html").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"typeLabel": func(t string) string {
		if t == "" {
			return services.UnknownType
		}
		return t
	},
}).ParseFS(templateFS, "templates/consulta.html"))

// DocumentProcessor is the document retriever as seen by the page.
type DocumentProcessor interface {
	Process(ctx context.Context, req *models.DocumentsRequest) (*models.DocumentsResponse, error)
}

// PromptProcessor is the LLM function as seen by the page.
type PromptProcessor interface {
	Process(ctx context.Context, req *models.GrokRequest) (*models.GrokResponse, error)
}

// Page serves the lookup form. It calls the services in-process.
type Page struct {
	documents DocumentProcessor
	grok      PromptProcessor
	catalog   *catalog.Catalog
	logger    *slog.Logger
}

// NewPage creates a Page.
func NewPage(documents DocumentProcessor, grok PromptProcessor, cat *catalog.Catalog, logger *slog.Logger) *Page {
	if logger == nil {
		logger = slog.Default()
	}
	return &Page{documents: documents, grok: grok, catalog: cat, logger: logger}
}

type pageData struct {
	Session      *Session
	RequestTypes []string
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p.render(w, http.StatusOK, &Session{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			p.logger.Error("Could not parse form.", "error", err)
			p.render(w, http.StatusBadRequest, &Session{State: Failed, Error: MsgDocumentsError})
			return
		}
		s := sessionFromForm(r)
		switch r.PostFormValue("action") {
		case "load":
			p.loadDocuments(r.Context(), s)
		case "grok":
			p.sendToLLM(r.Context(), s)
		default:
			p.render(w, http.StatusBadRequest, &Session{State: Failed, Error: MsgDocumentsError})
			return
		}
		p.render(w, http.StatusOK, s)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (p *Page) loadDocuments(ctx context.Context, s *Session) {
	logCtx := p.logger.With("processNumber", s.ProcessNumber, "requestType", s.RequestType)
	if err := s.StartLoading(); err != nil {
		logCtx.Warn("Load ignored.", "error", err)
		return
	}
	res, err := p.documents.Process(ctx, &models.DocumentsRequest{
		ProcessNumber: s.ProcessNumber,
		DocumentTypes: p.catalog.DocumentTypes(s.RequestType),
	})
	if err != nil {
		logCtx.Error("Document lookup failed.", "error", err)
		_ = s.Fail(userMessage(err, MsgDocumentsError))
		return
	}
	_ = s.DocumentsLoaded(res.Documents, res.GrokText)
	logCtx.Info("Documents loaded.", "documentCount", len(res.Documents), "validationError", s.ValidationError)
}

func (p *Page) sendToLLM(ctx context.Context, s *Session) {
	logCtx := p.logger.With("processNumber", s.ProcessNumber)
	if err := s.StartLLM(); err != nil {
		if !errors.Is(err, ErrValidation) {
			logCtx.Warn("Send to LLM ignored.", "error", err)
		}
		return
	}
	// The prompt is rebuilt from the documents the gate just checked.
	s.GrokText = services.AssemblePrompt(s.Documents)
	res, err := p.grok.Process(ctx, &models.GrokRequest{GrokText: s.GrokText})
	if err != nil {
		logCtx.Error("LLM call failed.", "error", err)
		_ = s.Fail(userMessage(err, MsgLLMError))
		return
	}
	_ = s.LLMResponded(res.GrokResponse)
}

func (p *Page) render(w http.ResponseWriter, status int, s *Session) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Session: s, RequestTypes: p.catalog.Names()}); err != nil {
		p.logger.Error("Failed to render page.", "error", err)
		http.Error(w, "Internal Server Error: failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// sessionFromForm rebuilds the client-held state from the submitted fields.
func sessionFromForm(r *http.Request) *Session {
	s := &Session{
		State:         ParseState(r.PostFormValue("state")),
		ProcessNumber: r.PostFormValue("processNumber"),
		RequestType:   r.PostFormValue("requestType"),
	}
	ids, types, texts := r.PostForm["docId"], r.PostForm["docType"], r.PostForm["docText"]
	for i, id := range ids {
		doc := models.Document{ID: id}
		if i < len(types) {
			doc.Type = types[i]
		}
		if i < len(texts) {
			// Form submission turns every line break into CRLF.
			doc.Text = strings.ReplaceAll(texts[i], "\r\n", "\n")
		}
		s.Documents = append(s.Documents, doc)
	}
	// Loading states never survive a round trip.
	if s.State == LoadingDocuments || s.State == LoadingLLM {
		s.State = Idle
	}
	return s
}

// userMessage prefers the classified message of err, like the proxy's {"error"} field.
func userMessage(err error, fallback string) string {
	if apperr.KindOf(err) == apperr.Unknown {
		return fallback
	}
	return apperr.Message(err)
}
