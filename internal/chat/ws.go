package chat

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"python-chat/internal/auth"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

// CloseSessionEnded is the close code sent when the socket's session has
// expired or been reset. The page reloads to pick up a fresh session.
const CloseSessionEnded = 4001

type wsInbound struct {
	Text string `json:"text"`
}

type wsOutbound struct {
	*Exchange
	UserHTML      template.HTML `json:"user_html,omitempty"`
	AssistantHTML template.HTML `json:"assistant_html,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// handleWebSocket answers each inbound frame with one exchange. Frames are
// handled one at a time, in the order they arrive.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.GetSessionID(r.Context())
	logger := hlog.FromRequest(r)

	// The hijacked connection never writes w's headers, so a cookie set by
	// withSession has to travel with the upgrade response.
	var respHeader http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		respHeader = http.Header{"Set-Cookie": cookies}
	}

	conn, err := h.upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		// Upgrade has already written the error response.
		logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket closed")
			}
			return
		}

		var out wsOutbound
		exchange, err := h.service.SendMessage(r.Context(), id, in.Text)
		if errors.Is(err, ErrSessionNotFound) {
			_, message := statusFor(err)
			closeMsg := websocket.FormatCloseMessage(CloseSessionEnded, message)
			_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
			return
		}
		if err != nil {
			_, out.Error = statusFor(err)
		} else {
			out.Exchange = exchange
			out.UserHTML = h.render.markdown(exchange.User.Content)
			out.AssistantHTML = h.render.markdown(exchange.Assistant.Content)
		}

		if err := conn.WriteJSON(out); err != nil {
			logger.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}
