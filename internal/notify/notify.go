// Package notify delivers user-facing status change events. Delivery is best-effort:
// the caller's transition has already committed and never waits on a sender.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/metrics"
)

const sendTimeout = 10 * time.Second

type Event struct {
	ID         uuid.UUID        `json:"id"`
	UserID     int64            `json:"userId"`
	Kind       domain.EventKind `json:"kind"`
	Payload    map[string]any   `json:"payload"`
	OccurredAt time.Time        `json:"occurredAt"`
}

type Sender interface {
	Name() string
	Send(ctx context.Context, event Event) error
}

type Dispatcher struct {
	pool    *WorkerPool
	senders []Sender
}

func NewDispatcher(workers, queue int, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		pool:    NewWorkerPool(workers, queue),
		senders: senders,
	}
}

// Notify queues the event for every sender and returns immediately. A full queue drops
// the event with a warning.
func (d *Dispatcher) Notify(ctx context.Context, userID int64, kind domain.EventKind, payload map[string]any) {
	event := Event{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	// The request context ends with the HTTP response, delivery must outlive it.
	ctx = context.WithoutCancel(ctx)

	queued := d.pool.TryAdd(func() error {
		return d.deliver(ctx, event)
	})
	if !queued {
		metrics.ObserveNotification("dispatcher", ErrQueueFull)
		zap.L().Warn("notification dropped",
			zap.String("eventID", event.ID.String()), zap.String("kind", string(kind)), zap.Int64("userID", userID))
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	var g errgroup.Group
	for _, sender := range d.senders {
		sender := sender
		g.Go(func() error {
			err := sender.Send(ctx, event)
			metrics.ObserveNotification(sender.Name(), err)
			if err != nil {
				zap.L().Warn("notification delivery failed",
					zap.String("sender", sender.Name()), zap.String("eventID", event.ID.String()), zap.Error(err))
			}
			return err
		})
	}
	return g.Wait()
}

// Close drains queued events.
func (d *Dispatcher) Close() {
	d.pool.Close()
}
