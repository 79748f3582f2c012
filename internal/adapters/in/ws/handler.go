package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxInbound = 512
)

// Handler upgrades authenticated requests to websocket sessions joined to the Hub.
type Handler struct {
	hub        *Hub
	resolver   ports.IdentityResolver
	upgrader   websocket.Upgrader
	bufferSize int
	logger     *slog.Logger
}

func NewHandler(hub *Hub, resolver ports.IdentityResolver, bufferSize int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:      hub,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		bufferSize: bufferSize,
		logger:     logger.With("component", "ws_handler"),
	}
}

// Serve authenticates the request, then upgrades it. Unauthenticated requests
// get 401 and never reach the hub.
func (h *Handler) Serve(c echo.Context) error {
	req := c.Request()
	who, err := h.resolver.Resolve(req.Context(), Credential(req))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	session := NewSession(who.UserID(), h.bufferSize)
	h.hub.Join(who.UserID(), session)

	go h.write(conn, session)
	h.read(conn)

	h.hub.Leave(session)
	return nil
}

// read drains inbound frames until the peer goes away. Clients send nothing
// meaningful; reading keeps pong handling alive.
func (h *Handler) read(conn *websocket.Conn) {
	conn.SetReadLimit(maxInbound)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// write is the single writer of conn.
func (h *Handler) write(conn *websocket.Conn, s *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-s.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case payload := <-s.Outbox():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Credential extracts the bearer token from the Authorization header, falling
// back to the token query parameter browsers use for websocket handshakes.
func Credential(r *http.Request) string {
	if r.Header.Get(echo.HeaderAuthorization) != "" {
		return BearerToken(r)
	}
	return r.URL.Query().Get("token")
}

// BearerToken reads the token from an "Authorization: Bearer" header only.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
