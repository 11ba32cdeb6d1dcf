package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Action discriminators accepted on the socket.
const (
	ActionGetIncidents = "getIncidents"
	ActionNuevoReporte = "nuevoReporte"
)

type inboundMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Router dispatches one inbound message from an already-registered
// connection. Every branch answers the transport with success unless the
// report store itself is unreachable.
type Router struct {
	source      ReportSource
	broadcaster *Broadcaster
}

func NewRouter(source ReportSource, broadcaster *Broadcaster) *Router {
	return &Router{source: source, broadcaster: broadcaster}
}

func (r *Router) HandleMessage(ctx context.Context, connectionID string, raw []byte) error {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.replyError(ctx, connectionID, "mensaje inválido")
		return nil
	}

	slog.Debug("socket action", "connection_id", connectionID, "action", msg.Action)

	switch msg.Action {
	case ActionGetIncidents:
		incidents, err := r.source.ScanAll(ctx)
		if err != nil {
			return fmt.Errorf("getIncidents: %w", err)
		}
		if err := r.broadcaster.SendTo(ctx, connectionID, NewIncidentsList(incidents)); err != nil {
			slog.Warn("incident list not delivered", "connection_id", connectionID, "error", err)
		}
		return nil

	case ActionNuevoReporte:
		// Relay only: the payload is neither validated nor persisted here.
		// The intake pipeline is the authoritative path for new reports.
		data := msg.Data
		if len(data) == 0 {
			data = json.RawMessage(`{}`)
		}
		report, err := r.broadcaster.Broadcast(ctx, NewNuevoReporte(data))
		if err != nil {
			return fmt.Errorf("nuevoReporte: %w", err)
		}
		slog.Info("nuevoReporte relayed", "connection_id", connectionID, "recipients", report.Recipients, "failed", report.Failed)
		return nil

	default:
		r.replyError(ctx, connectionID, "Acción desconocida")
		return nil
	}
}

func (r *Router) replyError(ctx context.Context, connectionID, message string) {
	if err := r.broadcaster.SendTo(ctx, connectionID, NewError(message)); err != nil {
		slog.Warn("error reply not delivered", "connection_id", connectionID, "error", err)
	}
}
