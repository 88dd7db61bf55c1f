package service

import (
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ecuworks/tunehub/internal/events"
)

// writeSink pushes a notification to the external event producer. The sink
// is fire and forget: failures are logged and never surfaced to the actor
// whose request produced the event.
func writeSink(ctx context.Context, ep *events.EventProducer, kind string, payload any) {
	if ep == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		zap.S().Named("service").Errorw("failed to encode sink event", "error", err, "event_kind", kind)
		return
	}

	if err := ep.Write(ctx, kind, bytes.NewBuffer(data)); err != nil {
		zap.S().Named("service").Errorw("failed to write sink event", "error", err, "event_kind", kind)
	}
}
