package websocket

import (
	"log/slog"
	"time"

	"github.com/adi-253/chathub/internal/hub"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client represents a single websocket connection
type Client struct {
	// ID is the transport connection id, distinct from the participant's session id
	ID string

	gateway *Gateway
	hub     *hub.Hub

	conn *websocket.Conn

	// Buffered channel of outbound frames
	send chan []byte

	maxMessageSize int64
	log            *slog.Logger
}

func newClient(id string, gateway *Gateway, h *hub.Hub, conn *websocket.Conn, opts Options, log *slog.Logger) *Client {
	return &Client{
		ID:             id,
		gateway:        gateway,
		hub:            h,
		conn:           conn,
		send:           make(chan []byte, opts.SendBufferSize),
		maxMessageSize: opts.MaxMessageSize,
		log:            log.With("conn", id),
	}
}

// ReadPump reads frames from the connection and hands them to the hub one at a time.
// When it returns the participant is disconnected, so no frame of this connection
// is ever processed after its disconnect.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c.ID)
		c.gateway.unregister(c)
		c.conn.Close()
		c.gateway.wg.Done()
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Read error", "error", err)
			}
			return
		}
		c.handle(c.gateway.ctx, message)
	}
}

// WritePump writes queued frames and keepalive pings to the connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.gateway.wg.Done()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Gateway closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Each event is its own frame so clients can parse them independently
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
