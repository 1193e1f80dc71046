package storage

import (
	"context"
	"encoding/json"

	"github.com/xaenox/mailmind/internal/models"
)

// EventStore is the append-only collection of calendar events created from
// emails. Append never deduplicates: invoking it twice with the same event
// appends two records.
type EventStore interface {
	Append(ctx context.Context, event *models.CalendarEvent) error
	List(ctx context.Context) ([]*models.CalendarEvent, error)
	Close() error
}

// FeatureLog records every extracted feature set in insertion order, for the
// data-browsing endpoints.
type FeatureLog interface {
	Append(ctx context.Context, record json.RawMessage) error
	List(ctx context.Context) ([]json.RawMessage, error)
}
