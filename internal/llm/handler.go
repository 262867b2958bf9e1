package llm

import (
	"encoding/json"
	"errors"
	"net/http"

	"python-chat/internal/auth"
	"python-chat/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// HandlerOptions configures the stateless completion endpoint.
type HandlerOptions struct {
	// SystemPrompt is prepended to every history; client-sent system turns are dropped.
	SystemPrompt string
	// DefaultCredential is used when the caller sends no bearer key.
	DefaultCredential string
	// FixedModel, when set, overrides whatever model the caller asks for.
	FixedModel string
}

// Handler is the http api layer for the completion gateway.
type Handler struct {
	service Service
	opts    HandlerOptions
}

// NewHandler creates a new handler injecting the service.
func NewHandler(s Service, opts HandlerOptions) *Handler {
	return &Handler{
		service: s,
		opts:    opts,
	}
}

// RegisterRoutes attaches the llm endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Stateless: the caller owns the history.
	r.Post("/api/complete", h.handleComplete)
}

// --- DTOs ---

// completeRequest is the DTO for what an API caller sends.
type completeRequest struct {
	Model   string         `json:"model"`
	History []*domain.Turn `json:"history"`
}

// --- Handlers ---

// handleComplete answers one history with one assistant turn.
func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	turns := make([]domain.Turn, 0, len(req.History)+1)
	turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: h.opts.SystemPrompt})
	for _, t := range req.History {
		if t == nil || !t.Role.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid turn in history")
			return
		}
		if t.Role == domain.RoleSystem {
			continue
		}
		turns = append(turns, *t)
	}
	if len(turns) == 1 {
		writeError(w, http.StatusBadRequest, "History is empty")
		return
	}

	model := req.Model
	if h.opts.FixedModel != "" {
		model = h.opts.FixedModel
	} else if model != "" && !IsKnownModel(model) {
		writeError(w, http.StatusBadRequest, "Unknown model")
		return
	}

	credential := auth.BearerCredential(r)
	if credential == "" {
		credential = h.opts.DefaultCredential
	}

	reply, err := h.service.Reply(r.Context(), turns, model, credential)
	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			writeError(w, http.StatusUnauthorized, "Missing API credential")
			return
		}
		// A failed call still answers with one assistant turn carrying the notice.
		hlog.FromRequest(r).Warn().Err(err).Str("model", model).Msg("completion failed")
		reply = ClassifyFailure(err.Error())
	}

	writeJSON(w, http.StatusOK, domain.Turn{Role: domain.RoleAssistant, Content: reply})
}

// writeJSON is a helper function for sending json responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for sending a standardized json error.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
