package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/mailmind/internal/models"
)

func TestMemoryEventStoreAppendAndList(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, &models.CalendarEvent{ID: "a", Title: "First"}))
	require.NoError(t, store.Append(ctx, &models.CalendarEvent{ID: "b", Title: "Second"}))

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)

	// Mutating a listed event must not leak back into the store.
	events[0].Title = "changed"
	again, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First", again[0].Title)
}

func TestJSONFileEventStoreCreatesFileOnFirstAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.json")
	store := NewJSONFileEventStore(path)
	ctx := context.Background()

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, store.Append(ctx, &models.CalendarEvent{ID: "a", Title: "Dentist"}))
	require.NoError(t, store.Append(ctx, &models.CalendarEvent{ID: "b", Title: "Standup"}))

	events, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Dentist", events[0].Title)
	assert.Equal(t, "Standup", events[1].Title)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestJSONFileEventStoreToleratesBareObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "solo", "title": "Lone Event"}`), 0o644))

	store := NewJSONFileEventStore(path)
	events, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "solo", events[0].ID)
}

func TestJSONFileEventStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))

	store := NewJSONFileEventStore(path)
	_, err := store.List(context.Background())
	assert.Error(t, err)
}

func TestJSONFileFeatureLogOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.json")
	log := NewJSONFileFeatureLog(path)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, json.RawMessage(`{"category":"updates"}`)))
	require.NoError(t, log.Append(ctx, json.RawMessage(`{"category":"spam"}`)))

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"category":"updates"}`, string(records[0]))
	assert.JSONEq(t, `{"category":"spam"}`, string(records[1]))
}

func TestMemoryFeatureLog(t *testing.T) {
	log := NewMemoryFeatureLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, json.RawMessage(`{"a":1}`)))
	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
