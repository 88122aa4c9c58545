package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adi-253/chathub/internal/models"
	"github.com/samber/lo"
)

// Gateway maintains the set of open websocket clients and delivers events to them.
// It is the hub's Transport.
type Gateway struct {
	// clients maps a connection id to its client
	clients map[string]*Client

	// mutex guarding clients and closed; send channels are only closed under the write lock
	mu     sync.RWMutex
	closed bool

	// ctx is cancelled on shutdown and is the parent of every frame handled by a client
	ctx    context.Context
	cancel context.CancelFunc

	// wg tracks client pumps so Shutdown can wait for them
	wg sync.WaitGroup

	log *slog.Logger
}

// NewGateway creates an empty Gateway
func NewGateway(log *slog.Logger) *Gateway {
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		clients: make(map[string]*Client),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
}

// register adds a client and accounts for its two pumps. It fails once the gateway is shutting down.
func (g *Gateway) register(client *Client) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return models.ErrConnectionClosed
	}
	g.clients[client.ID] = client
	g.wg.Add(2)
	g.log.Debug("Client registered", "conn", client.ID, "total", len(g.clients))
	return nil
}

// unregister removes a client and closes its send channel, which stops its write pump
func (g *Gateway) unregister(client *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if current, ok := g.clients[client.ID]; ok && current == client {
		delete(g.clients, client.ID)
		close(client.send)
		g.log.Debug("Client unregistered", "conn", client.ID, "remaining", len(g.clients))
	}
}

// Push enqueues evt on the client's send buffer without blocking.
// A client whose buffer is full is dropped.
func (g *Gateway) Push(connID string, evt models.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", evt.Type, err)
	}

	g.mu.RLock()
	client, ok := g.clients[connID]
	if !ok {
		g.mu.RUnlock()
		return models.ErrConnectionClosed
	}
	select {
	case client.send <- data:
		g.mu.RUnlock()
		return nil
	default:
		g.mu.RUnlock()
	}

	g.log.Warn("Dropping slow client", "conn", connID)
	g.unregister(client)
	return models.ErrSlowConsumer
}

// Connections returns the ids of every open connection
func (g *Gateway) Connections() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return lo.Keys(g.clients)
}

// Count returns the number of open connections
func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

// Shutdown closes every client and waits for their pumps to exit or ctx to expire.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	for id, client := range g.clients {
		delete(g.clients, id)
		close(client.send)
	}
	g.mu.Unlock()
	g.cancel()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.log.Info("Gateway shut down")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("gateway shutdown: %w", ctx.Err())
	}
}
