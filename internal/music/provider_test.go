package music

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

// fakeCompleter returns canned responses in order.
type fakeCompleter struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "", errors.New("no more canned responses")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeCompleter) CompleteWithTools(ctx context.Context, req llm.Request, tools []llm.Tool) (*llm.Decision, error) {
	return nil, errors.New("not used")
}

type fakeSearcher struct {
	track *Track
	err   error
}

func (f *fakeSearcher) SearchTrack(ctx context.Context, title, artist string) (*Track, error) {
	return f.track, f.err
}

func TestDiscoverLinksFindsTrack(t *testing.T) {
	searcher := &fakeSearcher{track: &Track{
		Name:       "Bohemian Rhapsody",
		Artist:     "Queen",
		Album:      "A Night at the Opera",
		SpotifyURL: "https://open.spotify.com/track/4u7EnebtmKWzUH433cf5Qv",
	}}
	provider := NewProvider(&fakeCompleter{}, searcher, zap.NewNop())

	result := provider.DiscoverLinks(context.Background(), "Bohemian Rhapsody", "Queen", "")

	require.True(t, result.Success)
	songs := result.Data["songs"].([]Song)
	require.Len(t, songs, 1)
	assert.Equal(t, "Bohemian Rhapsody", songs[0].Song)
	require.NotNil(t, songs[0].SpotifyURL)
	assert.Contains(t, *songs[0].SpotifyURL, "open.spotify.com")
	assert.Equal(t, ModeDirectLinks, result.Data["mode"])
}

func TestDiscoverLinksRefusesArtistOnly(t *testing.T) {
	provider := NewProvider(&fakeCompleter{}, &fakeSearcher{}, zap.NewNop())

	result := provider.DiscoverLinks(context.Background(), "", "Coldplay",
		"Check out the latest from Coldplay!")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "refusing to guess")
	assert.Empty(t, result.Data["songs"])
	assert.Empty(t, result.Error, "a refusal is not a contract violation")
}

func TestDiscoverLinksParsesMentionFromText(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"```json\n{\"title\": \"Yesterday\", \"artist\": \"The Beatles\"}\n```",
	}}
	searcher := &fakeSearcher{track: &Track{
		Name:       "Yesterday",
		Artist:     "The Beatles",
		SpotifyURL: "https://open.spotify.com/track/3BQHpFgAp4l80e1XslIjNI",
	}}
	provider := NewProvider(completer, searcher, zap.NewNop())

	result := provider.DiscoverLinks(context.Background(), "", "",
		"I love Yesterday by The Beatles")

	require.True(t, result.Success)
	assert.Equal(t, 1, completer.calls)
}

func TestDiscoverLinksTrackNotFound(t *testing.T) {
	provider := NewProvider(&fakeCompleter{}, &fakeSearcher{track: nil}, zap.NewNop())

	result := provider.DiscoverLinks(context.Background(), "Nonexistent Song", "Nobody", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not found")
}

func TestDiscoverLinksWithoutSearcher(t *testing.T) {
	provider := NewProvider(&fakeCompleter{}, nil, zap.NewNop())

	result := provider.DiscoverLinks(context.Background(), "Song", "Artist", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not configured")
}

func TestRecommendGeneratesLinklessSongs(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`{"mentioned_artists": ["Queen"], "mentioned_songs": [], "genres": ["rock"], "mood": "energetic", "context": "workout", "preferences": "classic rock"}`,
		`[{"song_name": "Don't Stop Me Now", "artist_name": "Queen", "reason": "High energy classic rock"},
		  {"song_name": "Thunderstruck", "artist_name": "AC/DC", "reason": "Workout staple"}]`,
	}}
	provider := NewProvider(completer, nil, zap.NewNop())

	result := provider.Recommend(context.Background(),
		"Need some rock music for my workout playlist", action.NewDeadline(time.Minute))

	require.True(t, result.Success)
	songs := result.Data["songs"].([]Song)
	require.Len(t, songs, 2)
	for _, song := range songs {
		assert.Nil(t, song.SpotifyURL)
		require.NotNil(t, song.Reason)
		assert.NotEmpty(t, *song.Reason)
	}
	assert.Equal(t, ModeRecommendations, result.Data["mode"])
}

func TestRecommendSurvivesAnalysisFailure(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"this is not json",
		`[{"song_name": "Imagine", "artist_name": "John Lennon", "reason": "Calm and reflective"}]`,
	}}
	provider := NewProvider(completer, nil, zap.NewNop())

	result := provider.Recommend(context.Background(), "some email", action.NewDeadline(time.Minute))

	require.True(t, result.Success)
	songs := result.Data["songs"].([]Song)
	assert.Len(t, songs, 1)
}

func TestRecommendTimesOutBeforeFirstStage(t *testing.T) {
	provider := NewProvider(&fakeCompleter{}, nil, zap.NewNop())

	deadline := action.Deadline{Start: time.Now().Add(-2 * time.Minute), Budget: time.Minute}
	result := provider.Recommend(context.Background(), "some email", deadline)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "budget of 1m0s exceeded")
	assert.Empty(t, result.Data["songs"])
}
