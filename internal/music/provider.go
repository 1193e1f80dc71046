package music

import (
	"context"
	"fmt"

	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

// Response mode tags. A response carries links or recommendations, never
// both.
const (
	ModeDirectLinks     = "direct_links"
	ModeRecommendations = "recommendations"
)

// Song is one entry in a provider response. In direct-links mode SpotifyURL
// is always set and Reason is nil; in recommendations mode the inverse holds.
type Song struct {
	Song        string  `json:"song"`
	Artist      string  `json:"artist"`
	SpotifyURL  *string `json:"spotify_url"`
	Album       *string `json:"album"`
	ReleaseDate *string `json:"release_date"`
	PreviewURL  *string `json:"preview_url"`
	Reason      *string `json:"reason,omitempty"`
}

type Provider struct {
	llm      llm.Completer
	searcher TrackSearcher
	logger   *zap.Logger
}

func NewProvider(completer llm.Completer, searcher TrackSearcher, logger *zap.Logger) *Provider {
	return &Provider{llm: completer, searcher: searcher, logger: logger}
}

// DiscoverLinks is the strict single-step mode. The song and artist
// arguments come from the router's tool call; when empty they are parsed
// from the email text. An artist mentioned without a specific song yields
// success:false with an empty list, never a "latest songs" substitute.
func (p *Provider) DiscoverLinks(ctx context.Context, song, artist, emailText string) *action.Result {
	if song == "" || artist == "" {
		mention, err := parseMention(ctx, p.llm, emailText)
		if err != nil {
			p.logger.Error("song mention parse failed", zap.Error(err))
			return directLinksFailure("Could not parse a song mention from the email: " + err.Error())
		}
		if song == "" {
			song = mention.title()
		}
		if artist == "" {
			artist = mention.artist()
		}
	}

	if song == "" {
		if artist != "" {
			return directLinksFailure(fmt.Sprintf(
				"No specific song mentioned for artist %q; refusing to guess.", artist))
		}
		return directLinksFailure("No song or artist explicitly mentioned in the email.")
	}
	if artist == "" {
		return directLinksFailure(fmt.Sprintf(
			"Song %q mentioned without an artist; refusing to guess.", song))
	}

	if p.searcher == nil {
		return directLinksFailure("Track search is not configured.")
	}

	track, err := p.searcher.SearchTrack(ctx, song, artist)
	if err != nil {
		p.logger.Error("track search failed",
			zap.Error(err),
			zap.String("song", song),
			zap.String("artist", artist))
		return directLinksFailure("Track search failed: " + err.Error())
	}
	if track == nil {
		return directLinksFailure(fmt.Sprintf("Track %q by %q not found.", song, artist))
	}

	result := Song{
		Song:       track.Name,
		Artist:     track.Artist,
		SpotifyURL: stringPtr(track.SpotifyURL),
	}
	if track.Album != "" {
		result.Album = stringPtr(track.Album)
	}
	if track.ReleaseDate != "" {
		result.ReleaseDate = stringPtr(track.ReleaseDate)
	}
	if track.PreviewURL != "" {
		result.PreviewURL = stringPtr(track.PreviewURL)
	}

	p.logger.Info("resolved track link",
		zap.String("song", track.Name),
		zap.String("artist", track.Artist))

	return &action.Result{
		Message: fmt.Sprintf("Found %q by %s", track.Name, track.Artist),
		Success: true,
		Data: map[string]any{
			"songs": []Song{result},
			"mode":  ModeDirectLinks,
		},
	}
}

func directLinksFailure(message string) *action.Result {
	return &action.Result{
		Message: message,
		Success: false,
		Data: map[string]any{
			"songs": []Song{},
			"mode":  ModeDirectLinks,
		},
	}
}

func stringPtr(s string) *string { return &s }
