package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utec-cloud/incident-hub/internal/reports"
)

// ReportSource provides the incident snapshot pushed to observers.
type ReportSource interface {
	ScanAll(ctx context.Context) ([]reports.Report, error)
}

// Lifecycle reacts to transport connect and disconnect events.
type Lifecycle struct {
	registry    Registry
	broadcaster *Broadcaster
	source      ReportSource
}

func NewLifecycle(registry Registry, broadcaster *Broadcaster, source ReportSource) *Lifecycle {
	return &Lifecycle{registry: registry, broadcaster: broadcaster, source: source}
}

// Connect registers the connection and pushes the current incident snapshot
// to the new endpoint only. A failed registration is fatal to the connect
// attempt; a failed snapshot push is logged and tolerated.
func (l *Lifecycle) Connect(ctx context.Context, connectionID string) error {
	conn := NewConnection(connectionID)
	if err := l.registry.Register(ctx, conn); err != nil {
		return fmt.Errorf("connect %s: register: %w", connectionID, err)
	}
	slog.Info("connection registered", "connection_id", connectionID)

	incidents, err := l.source.ScanAll(ctx)
	if err != nil {
		slog.Warn("initial incident snapshot unavailable", "connection_id", connectionID, "error", err)
		return nil
	}
	if err := l.broadcaster.SendTo(ctx, connectionID, NewIncidentsList(incidents)); err != nil {
		slog.Warn("initial incident snapshot not delivered", "connection_id", connectionID, "error", err)
	}
	return nil
}

// Disconnect removes the connection and tells the remaining observers.
// Teardown cannot be undone, so every failure here is logged and swallowed.
func (l *Lifecycle) Disconnect(ctx context.Context, connectionID string) {
	name := AnonymousName
	if conn, err := l.registry.Get(ctx, connectionID); err == nil {
		name = conn.DisplayName
	}

	if err := l.registry.Unregister(ctx, connectionID); err != nil {
		slog.Error("failed to unregister connection", "connection_id", connectionID, "error", err)
	}

	remaining, err := l.registry.ListAll(ctx)
	if err != nil {
		slog.Error("disconnect: list connections failed", "connection_id", connectionID, "error", err)
		return
	}

	users := make([]string, 0, len(remaining))
	for _, c := range remaining {
		users = append(users, c.DisplayName)
	}

	if _, err := l.broadcaster.BroadcastTo(ctx, remaining, NewNotification(name+" se ha desconectado")); err != nil {
		slog.Error("disconnect notification broadcast failed", "connection_id", connectionID, "error", err)
	}
	if _, err := l.broadcaster.BroadcastTo(ctx, remaining, NewUserList(users)); err != nil {
		slog.Error("user list broadcast failed", "connection_id", connectionID, "error", err)
	}
	slog.Info("connection closed", "connection_id", connectionID, "display_name", name, "remaining", len(remaining))
}
