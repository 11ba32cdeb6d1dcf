package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utec-cloud/incident-hub/internal/metrics"
	"github.com/utec-cloud/incident-hub/internal/reports"
)

const defaultSendTimeout = 3 * time.Second

// DeliveryReport is the overall completion signal of a broadcast. There is
// deliberately no per-recipient detail.
type DeliveryReport struct {
	Recipients int
	Failed     int
}

// Broadcaster fans a message out to the registry's current membership.
// Delivery is best-effort: a failed push unregisters the recipient and the
// rest of the broadcast carries on. No retries anywhere.
type Broadcaster struct {
	registry Registry
	pusher   Pusher
	metrics  *metrics.Metrics

	concurrency int
	sendTimeout time.Duration
}

func NewBroadcaster(registry Registry, pusher Pusher, m *metrics.Metrics, concurrency int, sendTimeout time.Duration) *Broadcaster {
	if concurrency <= 0 {
		concurrency = 8
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &Broadcaster{
		registry:    registry,
		pusher:      pusher,
		metrics:     m,
		concurrency: concurrency,
		sendTimeout: sendTimeout,
	}
}

// Broadcast delivers message to every registered connection. After it
// returns, every id still in the registry either got the message or was
// unregistered because its push failed.
func (b *Broadcaster) Broadcast(ctx context.Context, message any) (DeliveryReport, error) {
	recipients, err := b.registry.ListAll(ctx)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("broadcast: list connections: %w", err)
	}
	return b.BroadcastTo(ctx, recipients, message)
}

// BroadcastTo delivers message to a caller-supplied recipient snapshot.
// Recipients are independent units of work: a hung or dead endpoint never
// blocks the others beyond the configured send timeout.
func (b *Broadcaster) BroadcastTo(ctx context.Context, recipients []Connection, message any) (DeliveryReport, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("broadcast: encode message: %w", err)
	}

	var failed atomic.Int64
	g := &errgroup.Group{}
	g.SetLimit(b.concurrency)
	for _, conn := range recipients {
		conn := conn
		g.Go(func() error {
			if !b.deliver(ctx, conn.ID, payload) {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return DeliveryReport{Recipients: len(recipients), Failed: int(failed.Load())}, nil
}

// SendTo pushes a message to one connection. The pruning policy is the same
// as for a broadcast: a dead endpoint is treated as disconnected.
func (b *Broadcaster) SendTo(ctx context.Context, connectionID string, message any) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("send: encode message: %w", err)
	}
	if !b.deliver(ctx, connectionID, payload) {
		return fmt.Errorf("send: delivery to %s failed", connectionID)
	}
	return nil
}

// NotifyNewIncident satisfies the intake pipeline's notifier contract.
// The record is already committed; nothing here can fail the submission.
func (b *Broadcaster) NotifyNewIncident(ctx context.Context, r reports.Report) {
	b.metrics.ReportCreated()
	report, err := b.Broadcast(ctx, NewNewIncident(r))
	if err != nil {
		slog.Error("new incident broadcast failed", "uuid", r.UUID, "error", err)
		return
	}
	slog.Info("new incident broadcast",
		"uuid", r.UUID,
		"recipients", report.Recipients,
		"failed", report.Failed,
	)
}

// deliver attempts one push and prunes the registry entry on failure.
// Reports whether the recipient got the payload.
func (b *Broadcaster) deliver(ctx context.Context, connectionID string, payload []byte) bool {
	sendCtx, cancel := context.WithTimeout(ctx, b.sendTimeout)
	defer cancel()

	if err := b.pusher.Send(sendCtx, connectionID, payload); err != nil {
		slog.Debug("delivery failed, pruning connection", "connection_id", connectionID, "error", err)
		b.metrics.DeliveryFailed()
		if uerr := b.registry.Unregister(ctx, connectionID); uerr != nil {
			slog.Error("failed to prune connection", "connection_id", connectionID, "error", uerr)
		} else {
			b.metrics.ConnectionPruned()
		}
		return false
	}
	b.metrics.Delivered()
	return true
}
