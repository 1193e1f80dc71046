package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/xaenox/mailmind/internal/models"
)

// MemoryEventStore keeps events in process memory. Used in tests and when no
// persistent backend is configured.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events []*models.CalendarEvent
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

func (s *MemoryEventStore) Append(ctx context.Context, event *models.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *event
	s.events = append(s.events, &copied)
	return nil
}

func (s *MemoryEventStore) List(ctx context.Context) ([]*models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CalendarEvent, len(s.events))
	for i, e := range s.events {
		copied := *e
		out[i] = &copied
	}
	return out, nil
}

func (s *MemoryEventStore) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// MemoryFeatureLog is the in-memory FeatureLog counterpart.
type MemoryFeatureLog struct {
	mu      sync.RWMutex
	records []json.RawMessage
}

func NewMemoryFeatureLog() *MemoryFeatureLog {
	return &MemoryFeatureLog{}
}

func (l *MemoryFeatureLog) Append(ctx context.Context, record json.RawMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := make(json.RawMessage, len(record))
	copy(copied, record)
	l.records = append(l.records, copied)
	return nil
}

func (l *MemoryFeatureLog) List(ctx context.Context) ([]json.RawMessage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]json.RawMessage, len(l.records))
	copy(out, l.records)
	return out, nil
}
