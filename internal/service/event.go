package service

import (
	"context"

	"go.uber.org/zap"
)

// EventWriter queues lifecycle events. *events.EventProducer implements it.
type EventWriter interface {
	WriteJSON(ctx context.Context, kind string, v any) error
}

// publish never fails the calling operation: the state change is already committed.
func publish(ctx context.Context, ew EventWriter, kind string, payload any) {
	if ew == nil {
		return
	}
	if err := ew.WriteJSON(ctx, kind, payload); err != nil {
		zap.S().Named("service").Errorw("failed to write event", "error", err, "event_kind", kind)
	}
}
