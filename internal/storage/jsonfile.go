package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xaenox/mailmind/internal/models"
)

// JSONFileEventStore persists events as one JSON array file, created on
// first append. The read-modify-write cycle is not protected by a lock;
// concurrent writers may race. An accepted limitation, matching the original
// calendar file.
type JSONFileEventStore struct {
	path string
}

func NewJSONFileEventStore(path string) *JSONFileEventStore {
	return &JSONFileEventStore{path: path}
}

func (s *JSONFileEventStore) Append(ctx context.Context, event *models.CalendarEvent) error {
	events, err := s.load()
	if err != nil {
		return err
	}
	events = append(events, event)
	return writeJSONArray(s.path, events)
}

func (s *JSONFileEventStore) List(ctx context.Context) ([]*models.CalendarEvent, error) {
	return s.load()
}

func (s *JSONFileEventStore) Close() error { return nil }

func (s *JSONFileEventStore) load() ([]*models.CalendarEvent, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []*models.CalendarEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading event store %s: %w", s.path, err)
	}

	var events []*models.CalendarEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		// A single bare object is tolerated, matching files written by hand.
		var single models.CalendarEvent
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return nil, fmt.Errorf("parsing event store %s: %w", s.path, err)
		}
		events = []*models.CalendarEvent{&single}
	}
	return events, nil
}

// JSONFileFeatureLog is the file-backed FeatureLog, one JSON array in
// insertion order.
type JSONFileFeatureLog struct {
	path string
}

func NewJSONFileFeatureLog(path string) *JSONFileFeatureLog {
	return &JSONFileFeatureLog{path: path}
}

func (l *JSONFileFeatureLog) Append(ctx context.Context, record json.RawMessage) error {
	records, err := l.List(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)
	return writeJSONArray(l.path, records)
}

func (l *JSONFileFeatureLog) List(ctx context.Context) ([]json.RawMessage, error) {
	raw, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading feature log %s: %w", l.path, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing feature log %s: %w", l.path, err)
	}
	return records, nil
}

func writeJSONArray(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
