package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"python-chat/internal/auth"
	"python-chat/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

// DefaultCookieName is the cookie that carries the session ID.
const DefaultCookieName = "pychat_session"

// HandlerOptions configures the chat front end.
type HandlerOptions struct {
	Variant Variant
	// CookieName defaults to DefaultCookieName.
	CookieName string
	// CookieSecure marks the session cookie Secure (set behind TLS).
	CookieSecure bool
}

// Handler is the HTTP layer for the chat front end.
type Handler struct {
	service  Service
	opts     HandlerOptions
	render   *renderer
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler.
func NewHandler(s Service, opts HandlerOptions) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Handler{
		service: s,
		opts:    opts,
		render:  newRenderer(),
		// Default origin check: the socket is authenticated by cookie alone.
		upgrader: websocket.Upgrader{},
	}
}

// RegisterRoutes attaches all chat endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		// Browser page and its forms.
		r.Get("/", h.handlePage)
		r.Post("/messages", h.handleMessageForm)
		r.Post("/session/reset", h.handleResetForm)
		if h.opts.Variant == VariantInteractive {
			r.Post("/settings", h.handleSettingsForm)
		}

		// JSON API for scripts and tests.
		r.Get("/api/history", h.handleGetHistory)
		r.Post("/api/messages", h.handlePostMessage)
		r.Delete("/api/session", h.handleEndSession)

		r.Get("/ws", h.handleWebSocket)
	})
}

// withSession makes sure every request belongs to a live session, starting
// one when the cookie is missing or its session has ended.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(h.opts.CookieName); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				if _, err := h.service.GetSession(r.Context(), id); err == nil {
					next.ServeHTTP(w, auth.SetSessionID(r, id))
					return
				}
			}
		}

		sess, err := h.service.StartSession(r.Context())
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("could not start session")
			writeError(w, http.StatusInternalServerError, "Could not start session")
			return
		}
		http.SetCookie(w, h.sessionCookie(sess.ID.String(), 0))
		next.ServeHTTP(w, auth.SetSessionID(r, sess.ID))
	})
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// --- DTOs ---

type postMessageRequest struct {
	Text string `json:"text"`
}

type historyResponse struct {
	SessionID     string        `json:"session_id"`
	Model         string        `json:"model"`
	HasCredential bool          `json:"has_credential"`
	Turns         []domain.Turn `json:"turns"`
}

// --- Browser handlers ---

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())
	sess, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.render.page(w, sess, h.opts.Variant); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("could not render page")
	}
}

// handleMessageForm is the no-JavaScript path for sending a message.
func (h *Handler) handleMessageForm(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	// An empty input is ignored, like pressing enter in an empty box.
	_, err := h.service.SendMessage(r.Context(), id, r.PostForm.Get("text"))
	if err != nil && !errors.Is(err, ErrEmptyMessage) {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	update := SettingsUpdate{
		Credential:      r.PostForm.Get("api_key"),
		ClearCredential: r.PostForm.Get("clear_key") != "",
		Model:           r.PostForm.Get("model"),
	}
	if _, err := h.service.UpdateSettings(r.Context(), id, update); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleResetForm(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())
	if err := h.service.EndSession(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// --- JSON handlers ---

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())
	sess, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		SessionID:     sess.ID.String(),
		Model:         sess.Model,
		HasCredential: sess.HasCredential(),
		Turns:         sess.Conversation.Visible(),
	})
}

func (h *Handler) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	exchange, err := h.service.SendMessage(r.Context(), id, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())
	if err := h.service.EndSession(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]string{"status": "session_ended"})
}

// statusFor maps service errors to HTTP status codes and user-facing text.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest, "Message is empty"
	case errors.Is(err, ErrUnknownModel):
		return http.StatusBadRequest, "Unknown model"
	case errors.Is(err, ErrSettingsLocked):
		return http.StatusForbidden, "Settings are fixed on this deployment"
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "Session has ended"
	default:
		return http.StatusInternalServerError, "Could not process chat"
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("chat request failed")
	}
	writeError(w, status, message)
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
