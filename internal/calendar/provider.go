package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/storage"
	"go.uber.org/zap"
)

type Provider struct {
	store  storage.EventStore
	logger *zap.Logger
}

func NewProvider(store storage.EventStore, logger *zap.Logger) *Provider {
	return &Provider{store: store, logger: logger}
}

// CreateEvent is the single-step mode: assemble the event deterministically,
// append it to the store, and serialize the interchange file. Appending is
// intentionally not idempotent.
func (p *Provider) CreateEvent(ctx context.Context, f *features.EmailFeatures) *action.Result {
	event := BuildEvent(f)
	event.ID = uuid.New().String()

	if err := p.store.Append(ctx, event); err != nil {
		p.logger.Error("failed to persist calendar event",
			zap.Error(err),
			zap.String("title", event.Title))
		return action.Failure("Failed to create calendar event: " + err.Error())
	}

	data := map[string]any{"event": event}
	ics, err := BuildICS(event, time.Now())
	if err != nil {
		// The stored event is still valid without an interchange file.
		p.logger.Warn("failed to build ics", zap.Error(err), zap.String("event_id", event.ID))
	} else {
		data["ics"] = ics
	}

	p.logger.Info("calendar event created",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title),
		zap.String("label", event.Label))

	return &action.Result{
		Message: "Calendar event created successfully",
		Success: true,
		Data:    data,
	}
}
