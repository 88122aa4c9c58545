package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/adi-253/chathub/internal/hub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// Options tunes websocket connections
type Options struct {
	// AllowedOrigins lists browser origins allowed to connect; "*" allows any
	AllowedOrigins []string

	// MaxMessageSize caps inbound frames in bytes
	MaxMessageSize int64

	// SendBufferSize is the number of outbound frames queued per client before it is dropped
	SendBufferSize int
}

// Handler upgrades HTTP requests to websocket clients
type Handler struct {
	hub      *hub.Hub
	gateway  *Gateway
	upgrader websocket.Upgrader
	opts     Options
	log      *slog.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(log *slog.Logger, h *hub.Hub, gateway *Gateway, opts Options) *Handler {
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = 1 << 20
	}
	if opts.SendBufferSize <= 0 {
		opts.SendBufferSize = 256
	}
	return &Handler{
		hub:     h,
		gateway: gateway,
		opts:    opts,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

// ServeWS handles websocket upgrade requests at /ws.
// The connection starts unauthenticated; the client must send an authenticate frame first.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := newClient(uuid.NewString(), h.gateway, h.hub, conn, h.opts, h.log)
	if err := h.gateway.register(client); err != nil {
		h.log.Info("Rejecting connection", "error", err)
		conn.Close()
		return
	}
	h.log.Info("New connection", "conn", client.ID, "remote", r.RemoteAddr)

	go client.WritePump()
	go client.ReadPump()
}

// originChecker allows requests without an Origin header and those whose origin is listed
func originChecker(allowed []string) func(r *http.Request) bool {
	normalized := lo.Map(allowed, func(o string, _ int) string { return normalizeOrigin(o) })
	allowAll := lo.Contains(normalized, "*")

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}
		return lo.Contains(normalized, normalizeOrigin(origin))
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
