// Package server exposes the pipeline over HTTP for the UI layer. The
// handlers translate the pipeline's tagged errors into stable machine-readable
// tags plus display messages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"docsimplifier/internal/extract"
	"docsimplifier/internal/gemini"
	"docsimplifier/internal/models"
	"docsimplifier/internal/pipeline"
	"docsimplifier/internal/session"
)

// maxUploadBytes bounds the multipart form in memory; the extraction ceilings
// bound the real work.
const maxUploadBytes = 32 << 20

// Request headers used by the UI layer.
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderSessionID = "X-Session-ID"
)

// Processor is the pipeline surface the handlers need; the concrete
// *pipeline.Pipeline satisfies it.
type Processor interface {
	Process(ctx context.Context, sess *pipeline.Session, document []byte, credential string) (*models.SessionResult, error)
	ClearSession(sess *pipeline.Session)
	ClearCache()
}

// Server holds the handler dependencies.
type Server struct {
	pipeline    Processor
	sessions    *session.Manager
	fallbackKey string
}

// New creates a Server. fallbackKey, when non-empty, is used for requests that
// carry no API key header.
func New(p Processor, sessions *session.Manager, fallbackKey string) *Server {
	return &Server{
		pipeline:    p,
		sessions:    sessions,
		fallbackKey: fallbackKey,
	}
}

// Handler builds the routed handler with CORS enabled for browser UIs.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/v1/documents", s.handleProcess).Methods(http.MethodPost)
	r.HandleFunc("/v1/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/v1/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/v1/cache/clear", s.handleClearCache).Methods(http.MethodPost)
	return cors.AllowAll().Handler(r)
}

// handleProcess runs the full pipeline for an uploaded document.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get(HeaderAPIKey)
	if credential == "" {
		credential = s.fallbackKey
	}

	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		sessionID = session.NewID()
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "request must be multipart form data with a document file",
		})
		return
	}
	file, _, err := r.FormFile("document")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "document file is required",
		})
		return
	}
	defer file.Close()
	document, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "could not read uploaded document",
		})
		return
	}

	sess := s.sessions.Get(sessionID)
	result, err := s.pipeline.Process(r.Context(), sess, document, credential)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set(HeaderSessionID, sessionID)
	writeJSON(w, http.StatusOK, toResponse(sessionID, result))
}

// handleGetSession redisplays a prior result without recomputation.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.sessions.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "unknown session",
		})
		return
	}
	result := sess.Result()
	if result == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "no document processed in this session",
		})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(id, result))
}

// handleDeleteSession clears the session's result and purges that document's
// cache entries.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if sess, ok := s.sessions.Lookup(id); ok {
		s.pipeline.ClearSession(sess)
		s.sessions.Remove(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearCache purges every cached artifact.
func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(sessionID string, result *models.SessionResult) models.ProcessResponse {
	return models.ProcessResponse{
		SessionID:      sessionID,
		Fingerprint:    result.Fingerprint,
		Summary:        result.Summary,
		KeyPoints:      result.KeyPoints,
		ExtractedText:  result.Extracted.Text,
		PagesProcessed: result.Extracted.PagesProcessed,
		TotalPages:     result.Extracted.TotalPages,
		Truncated:      result.Extracted.Truncated,
	}
}

// writeError maps pipeline errors onto HTTP statuses and stable tags.
func writeError(w http.ResponseWriter, err error) {
	var (
		status int
		tag    string
	)
	switch {
	case errors.Is(err, pipeline.ErrValidation):
		status, tag = http.StatusBadRequest, "validation_error"
	case errors.Is(err, extract.ErrInvalidFormat):
		status, tag = http.StatusUnprocessableEntity, "invalid_format"
	case errors.Is(err, extract.ErrNoExtractableText):
		status, tag = http.StatusUnprocessableEntity, "no_extractable_text"
	case errors.Is(err, gemini.ErrAuth):
		status, tag = http.StatusUnauthorized, "auth_error"
	case errors.Is(err, gemini.ErrRateLimit):
		status, tag = http.StatusTooManyRequests, "rate_limit_error"
	case errors.Is(err, gemini.ErrContentPolicy):
		status, tag = http.StatusUnprocessableEntity, "content_policy_error"
	case errors.Is(err, gemini.ErrEmptyResponse):
		status, tag = http.StatusBadGateway, "empty_response_error"
	case errors.Is(err, gemini.ErrNetwork):
		status, tag = http.StatusBadGateway, "network_error"
	default:
		slog.Error("Unclassified pipeline failure.", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "processing failed",
		})
		return
	}
	writeJSON(w, status, models.ErrorResponse{Error: tag, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to write response.", "error", err)
	}
}
