// Package realtime implements the connection registry contract, the
// broadcast fan-out and the WebSocket action handling.
package realtime

import (
	"context"
	"errors"
	"time"
)

// AnonymousName is the display name applied until a client identifies itself.
const AnonymousName = "Anónimo"

// ErrConnectionNotFound reports a registry miss.
var ErrConnectionNotFound = errors.New("realtime: connection not found")

// Connection is one live observer endpoint.
type Connection struct {
	ID          string    `json:"connection_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// NewConnection builds a registry entry with the anonymous default name.
func NewConnection(id string) Connection {
	return Connection{ID: id, DisplayName: AnonymousName, JoinedAt: time.Now().UTC()}
}

// Registry is the durable membership store shared by every handler. Each
// call hits the backing store; a listing is a point-in-time snapshot that
// may be stale by the time it is acted on.
type Registry interface {
	// Register upserts the entry; a second call with the same id wins.
	Register(ctx context.Context, conn Connection) error
	// Unregister removes the entry if present. Absent ids are not an error.
	Unregister(ctx context.Context, connectionID string) error
	// Get returns ErrConnectionNotFound for unknown ids.
	Get(ctx context.Context, connectionID string) (Connection, error)
	// ListAll snapshots the current membership in no particular order.
	ListAll(ctx context.Context) ([]Connection, error)
}

// Pusher is the transport's push interface. A send failure is the only
// liveness signal the system has.
type Pusher interface {
	Send(ctx context.Context, connectionID string, data []byte) error
}
