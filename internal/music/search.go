// Package music resolves songs mentioned in emails to playable track links
// (single-step mode) or generates link-less recommendations (multi-step
// mode).
package music

import (
	"context"
	"errors"
	"fmt"
	"strings"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotConfigured is returned when Spotify credentials are absent.
var ErrNotConfigured = errors.New("music: spotify credentials not configured")

// Track is one ranked candidate from the track search capability.
type Track struct {
	Name        string
	Artist      string
	Album       string
	ReleaseDate string
	SpotifyURL  string
	PreviewURL  string
	ArtistID    string
}

// TrackSearcher is the narrow search capability the provider depends on.
// A (nil, nil) return means no match, which is not an error.
type TrackSearcher interface {
	SearchTrack(ctx context.Context, title, artist string) (*Track, error)
}

// SpotifySearcher looks tracks up through the Spotify Web API using the
// client-credentials flow.
type SpotifySearcher struct {
	client *spotifyapi.Client
	logger *zap.Logger
}

func NewSpotifySearcher(ctx context.Context, clientID, clientSecret string, logger *zap.Logger) (*SpotifySearcher, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrNotConfigured
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	httpClient := config.Client(ctx)

	return &SpotifySearcher{
		client: spotifyapi.New(httpClient),
		logger: logger,
	}, nil
}

func (s *SpotifySearcher) SearchTrack(ctx context.Context, title, artist string) (*Track, error) {
	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	results, err := s.client.Search(ctx, query, spotifyapi.SearchTypeTrack, spotifyapi.Limit(1))
	if err != nil {
		s.logger.Error("spotify search failed", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("music: spotify search: %w", err)
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, nil
	}

	track := results.Tracks.Tracks[0]
	artists := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		artists = append(artists, a.Name)
	}

	out := &Track{
		Name:        track.Name,
		Artist:      strings.Join(artists, ", "),
		Album:       track.Album.Name,
		ReleaseDate: track.Album.ReleaseDate,
		SpotifyURL:  track.ExternalURLs["spotify"],
		PreviewURL:  track.PreviewURL,
	}
	if len(track.Artists) > 0 {
		out.ArtistID = string(track.Artists[0].ID)
	}
	return out, nil
}
