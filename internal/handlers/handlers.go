// Package handlers exposes the services as POST-only JSON HTTP functions.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/processdocumentflow/internal/apperr"
	"github.com/Lllllllleong/processdocumentflow/internal/models"
	"github.com/Lllllllleong/processdocumentflow/internal/services"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id used to correlate log lines of one request.
const RequestIDHeader = "X-Request-Id"

// Auth handles POST requests for a fresh case API token.
func Auth(svc *services.AuthFunction, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logCtx, ok := begin(w, r, logger, "auth")
		if !ok {
			return
		}
		res, err := svc.Process(r.Context())
		if err != nil {
			writeError(w, logCtx, err)
			return
		}
		writeJSON(w, logCtx, http.StatusOK, res)
	}
}

// Documents handles POST {"processNumber","documentTypes"}.
func Documents(svc *services.DocumentsFunction, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logCtx, ok := begin(w, r, logger, "documents")
		if !ok {
			return
		}
		var req models.DocumentsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logCtx.Error("Could not decode request body.", "error", err)
			writeError(w, logCtx, apperr.Wrap(apperr.InvalidInput, "Missing or invalid processNumber or documentTypes", err))
			return
		}
		res, err := svc.Process(r.Context(), &req)
		if err != nil {
			writeError(w, logCtx, err)
			return
		}
		writeJSON(w, logCtx, http.StatusOK, res)
	}
}

// Grok handles POST {"grokText"}.
func Grok(svc *services.GrokFunction, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logCtx, ok := begin(w, r, logger, "grok")
		if !ok {
			return
		}
		var req models.GrokRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logCtx.Error("Could not decode request body.", "error", err)
			writeError(w, logCtx, apperr.Wrap(apperr.InvalidInput, "Missing or invalid grokText", err))
			return
		}
		res, err := svc.Process(r.Context(), &req)
		if err != nil {
			writeError(w, logCtx, err)
			return
		}
		writeJSON(w, logCtx, http.StatusOK, res)
	}
}

// begin tags the request with an id and rejects anything but POST.
func begin(w http.ResponseWriter, r *http.Request, logger *slog.Logger, function string) (*slog.Logger, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)
	logCtx := logger.With("function", function, "requestId", requestID)

	if r.Method != http.MethodPost {
		logCtx.Warn("Invalid method.", "method", r.Method)
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, logCtx, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
		return nil, false
	}
	return logCtx, true
}

func writeError(w http.ResponseWriter, logCtx *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	logCtx.Error("Request failed.", "status", status, "kind", apperr.KindOf(err).String(), "error", err)
	writeJSON(w, logCtx, status, models.ErrorResponse{
		Error:   apperr.Message(err),
		Details: apperr.Details(err),
	})
}

func writeJSON(w http.ResponseWriter, logCtx *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logCtx.Error("Failed to write response.", "error", err)
	}
}
