package attraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

// fakeCompleter replays canned responses in call order, optionally sleeping
// before a given call to trip deadline checks.
type fakeCompleter struct {
	responses   []string
	calls       int
	sleepOnCall int
	sleepFor    time.Duration
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.calls++
	if f.sleepOnCall == f.calls && f.sleepFor > 0 {
		time.Sleep(f.sleepFor)
	}
	if f.calls > len(f.responses) {
		return "", errors.New("no more canned responses")
	}
	return f.responses[f.calls-1], nil
}

func (f *fakeCompleter) CompleteWithTools(ctx context.Context, req llm.Request, tools []llm.Tool) (*llm.Decision, error) {
	return nil, errors.New("not used")
}

func strptr(s string) *string { return &s }

func TestMapSearchLink(t *testing.T) {
	link := MapSearchLink("Gardens by the Bay", "Marina Bay Sands, Singapore")
	assert.Equal(t,
		"https://www.google.com/maps/search/Gardens+by+the+Bay+Marina+Bay+Sands,+Singapore",
		link)
}

func TestDiscoverRepairsBrokenMapLinks(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"name": "Eiffel Tower", "description": "Iron lattice tower.", "fun_fact": "Painted every 7 years.", "map_link": "not a url"},
		  {"name": "Louvre", "description": "Art museum.", "fun_fact": "Largest in the world.", "map_link": "https://www.google.com/maps/search/Louvre+Paris"}]`,
	}}
	provider := NewProvider(completer, zap.NewNop())

	result := provider.Discover(context.Background(), "Paris", "landmark")

	require.True(t, result.Success)
	matches := result.Data["direct_match"].([]Attraction)
	require.Len(t, matches, 2)
	assert.Equal(t, "https://www.google.com/maps/search/Eiffel+Tower+Paris", matches[0].MapLink)
	assert.Equal(t, "https://www.google.com/maps/search/Louvre+Paris", matches[1].MapLink)
	assert.Equal(t, "landmark", matches[0].Type)
	assert.Equal(t, "Paris", matches[0].Location)
	assert.Empty(t, result.Data["recommendations"])
}

func TestDiscoverRequiresDestination(t *testing.T) {
	provider := NewProvider(&fakeCompleter{}, zap.NewNop())

	result := provider.Discover(context.Background(), "  ", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No location provided")
	assert.Empty(t, result.Data["direct_match"])
	assert.Empty(t, result.Data["recommendations"])
}

func TestMultiStepKeepsCompoundLocationWhole(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`["Marina Bay Sands, Singapore"]`,
		`[{"name": "SkyPark Observation Deck", "description": "Rooftop deck.", "fun_fact": "57 floors up.", "map_link": ""}]`,
		`["Gardens by the Bay", "Sentosa Island", "Clarke Quay"]`,
		`[{"name": "Supertree Grove", "description": "Vertical gardens.", "fun_fact": "Up to 50m tall.", "map_link": ""}]`,
		`[{"name": "Universal Studios Singapore", "description": "Theme park.", "fun_fact": "First in Southeast Asia.", "map_link": ""}]`,
		`[{"name": "Clarke Quay Riverside", "description": "Riverside quay.", "fun_fact": "Historic trading port.", "map_link": ""}]`,
	}}
	provider := NewProvider(completer, zap.NewNop())

	f := &features.EmailFeatures{}
	result := provider.DiscoverMultiStep(context.Background(), f,
		"Your stay at Marina Bay Sands, Singapore is confirmed!", action.NewDeadline(time.Minute))

	require.True(t, result.Success)
	matches := result.Data["direct_match"].([]Attraction)
	require.Len(t, matches, 1)
	assert.Equal(t, "Marina Bay Sands, Singapore", matches[0].Location)

	recommendations := result.Data["recommendations"].([]Attraction)
	assert.Len(t, recommendations, 3)
	for _, rec := range recommendations {
		assert.NotEmpty(t, rec.MapLink)
	}
}

func TestMultiStepFallsBackToFeatureLocation(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[]`,
		`[{"name": "Colosseum", "description": "Ancient amphitheatre.", "fun_fact": "Held 50,000 spectators.", "map_link": ""}]`,
		`[]`,
	}}
	provider := NewProvider(completer, zap.NewNop())

	f := &features.EmailFeatures{Location: strptr("Rome")}
	result := provider.DiscoverMultiStep(context.Background(), f,
		"Looking forward to the trip!", action.NewDeadline(time.Minute))

	require.True(t, result.Success)
	matches := result.Data["direct_match"].([]Attraction)
	require.Len(t, matches, 1)
	assert.Equal(t, "Rome", matches[0].Location)
}

func TestMultiStepWithoutAnyLocation(t *testing.T) {
	completer := &fakeCompleter{responses: []string{`[]`}}
	provider := NewProvider(completer, zap.NewNop())

	result := provider.DiscoverMultiStep(context.Background(), &features.EmailFeatures{},
		"No places here", action.NewDeadline(time.Minute))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No location provided")
}

func TestMultiStepTimeoutPreservesPartialResults(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{
			`["Kyoto"]`,
			`[{"name": "Fushimi Inari Shrine", "description": "Shrine with torii gates.", "fun_fact": "Thousands of gates.", "map_link": ""}]`,
		},
		sleepOnCall: 2,
		sleepFor:    30 * time.Millisecond,
	}
	provider := NewProvider(completer, zap.NewNop())

	result := provider.DiscoverMultiStep(context.Background(), &features.EmailFeatures{},
		"Visit Kyoto this spring", action.NewDeadline(10*time.Millisecond))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "exceeded")
	assert.Contains(t, result.Message, "elapsed")
	matches := result.Data["direct_match"].([]Attraction)
	require.Len(t, matches, 1)
	assert.Equal(t, "Kyoto", matches[0].Location)
	assert.Empty(t, result.Data["recommendations"])
}
