package ws

import (
	"net/http"
	"strings"

	"companygrow/internal/pkg/jwt"
	"companygrow/internal/pkg/logger"

	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated requests. Browsers cannot set headers on a
// websocket handshake, so the access token may also come as ?token=.
type Handler struct {
	hub      *Hub
	tokens   jwt.Service
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, tokens jwt.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		hub:    hub,
		tokens: tokens,
		log:    log.With("component", "ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.hub == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	tok := strings.TrimSpace(r.URL.Query().Get("token"))
	if tok == "" {
		if parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tok = strings.TrimSpace(parts[1])
		}
	}
	if tok == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ValidateToken(tok)
	if err != nil || claims.TokenType != jwt.TokenTypeAccess {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, claims.UserID)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

// NewServer serves the handler at /ws/notifications on its own listener.
func NewServer(addr string, h *Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws/notifications", h)
	return &http.Server{Addr: addr, Handler: mux}
}
