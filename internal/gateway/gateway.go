// Package gateway owns the WebSocket transport: it upgrades connections,
// tracks the live sockets and implements the push interface the broadcaster
// delivers through.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"

	"github.com/utec-cloud/incident-hub/internal/metrics"
	"github.com/utec-cloud/incident-hub/internal/realtime"
)

const defaultWriteTimeout = 3 * time.Second

// client is one live socket. Writes are serialized per connection; reads
// happen only on the connection's own read loop.
type client struct {
	conn net.Conn
	mu   sync.Mutex
}

// Gateway is the process-local transport endpoint. The durable registry
// stays the source of truth for membership; this table only maps connection
// ids to the sockets this process physically holds.
type Gateway struct {
	writeTimeout time.Duration
	metrics      *metrics.Metrics

	lifecycle *realtime.Lifecycle
	router    *realtime.Router

	mu      sync.RWMutex
	clients map[string]*client
}

func New(writeTimeout time.Duration, m *metrics.Metrics) *Gateway {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Gateway{
		writeTimeout: writeTimeout,
		metrics:      m,
		clients:      make(map[string]*client),
	}
}

// Attach wires the realtime handlers. Called once before the gateway starts
// accepting upgrades; the handlers need a constructed gateway first because
// the broadcaster pushes through it.
func (g *Gateway) Attach(lifecycle *realtime.Lifecycle, router *realtime.Router) {
	g.lifecycle = lifecycle
	g.router = router
}

// Handler upgrades an HTTP request to a WebSocket connection and runs its
// lifecycle until the peer goes away.
func (g *Gateway) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		connectionID := uuid.NewString()
		g.track(connectionID, conn)
		g.metrics.ConnectionOpened()

		if err := g.lifecycle.Connect(r.Context(), connectionID); err != nil {
			slog.Error("connect handling failed", "connection_id", connectionID, "error", err)
			g.drop(connectionID)
			g.metrics.ConnectionClosed()
			return
		}

		go g.readLoop(connectionID, conn)
	}
}

// readLoop feeds inbound text frames to the action router until the socket
// dies, then runs disconnect handling.
func (g *Gateway) readLoop(connectionID string, conn net.Conn) {
	defer func() {
		g.drop(connectionID)
		g.metrics.ConnectionClosed()
		g.lifecycle.Disconnect(context.Background(), connectionID)
	}()

	for {
		data, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			slog.Debug("socket read ended", "connection_id", connectionID, "error", err)
			return
		}
		if op != ws.OpText {
			continue
		}
		if err := g.router.HandleMessage(context.Background(), connectionID, data); err != nil {
			slog.Error("action handling failed", "connection_id", connectionID, "error", err)
		}
	}
}

// Send implements realtime.Pusher. A connection this process does not hold,
// or a socket that rejects the write, both count as delivery failure; the
// caller decides what that means for membership.
func (g *Gateway) Send(ctx context.Context, connectionID string, data []byte) error {
	g.mu.RLock()
	c, ok := g.clients[connectionID]
	g.mu.RUnlock()
	if !ok {
		return fmt.Errorf("gateway: no live socket for %s", connectionID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(g.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("gateway: set deadline for %s: %w", connectionID, err)
	}
	if err := wsutil.WriteServerMessage(c.conn, ws.OpText, data); err != nil {
		g.drop(connectionID)
		return fmt.Errorf("gateway: write to %s: %w", connectionID, err)
	}
	return nil
}

func (g *Gateway) track(connectionID string, conn net.Conn) {
	g.mu.Lock()
	g.clients[connectionID] = &client{conn: conn}
	g.mu.Unlock()
}

// drop closes and forgets the socket. Safe to call more than once.
func (g *Gateway) drop(connectionID string) {
	g.mu.Lock()
	c, ok := g.clients[connectionID]
	if ok {
		delete(g.clients, connectionID)
	}
	g.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

// Close tears down every live socket, used on shutdown.
func (g *Gateway) Close() {
	g.mu.Lock()
	clients := g.clients
	g.clients = make(map[string]*client)
	g.mu.Unlock()
	for _, c := range clients {
		_ = c.conn.Close()
	}
}
