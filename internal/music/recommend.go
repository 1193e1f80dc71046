package music

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

// recommendationTemperature is deliberately above the deterministic default
// used everywhere else: recommendation variety is a feature here.
const recommendationTemperature = 0.3

const maxRecommendations = 8

// Analysis is the structured output of the first recommendation stage.
type Analysis struct {
	MentionedArtists []string `json:"mentioned_artists"`
	MentionedSongs   []string `json:"mentioned_songs"`
	Genres           []string `json:"genres"`
	Mood             string   `json:"mood"`
	Context          string   `json:"context"`
	Preferences      string   `json:"preferences"`
}

type recommendedSong struct {
	SongName   string `json:"song_name"`
	ArtistName string `json:"artist_name"`
	Reason     string `json:"reason"`
}

// Recommend is the multi-step mode: analyze the email's musical context,
// then generate 5-8 suggestions with a one-sentence rationale each. No
// playable links are ever attached in this mode.
func (p *Provider) Recommend(ctx context.Context, emailText string, deadline action.Deadline) *action.Result {
	if deadline.Exceeded() {
		return recommendationsFailure(deadline.TimeoutMessage("music analysis"), nil)
	}

	analysis, err := p.analyze(ctx, emailText)
	if err != nil {
		p.logger.Error("music analysis failed", zap.Error(err))
		// The generation stage can still work from the raw email.
		analysis = &Analysis{}
	}

	if deadline.Exceeded() {
		return recommendationsFailure(deadline.TimeoutMessage("recommendation generation"), analysis)
	}

	recommendations, err := p.generate(ctx, analysis, emailText)
	if err != nil {
		p.logger.Error("recommendation generation failed", zap.Error(err))
		return recommendationsFailure("Recommendation generation failed: "+err.Error(), analysis)
	}

	songs := make([]Song, 0, len(recommendations))
	for _, rec := range recommendations {
		if len(songs) >= maxRecommendations {
			break
		}
		reason := rec.Reason
		if reason == "" {
			reason = "Recommended based on your preferences"
		}
		songs = append(songs, Song{
			Song:   rec.SongName,
			Artist: rec.ArtistName,
			Reason: &reason,
			// SpotifyURL stays nil in recommendations mode.
		})
	}

	p.logger.Info("generated song recommendations", zap.Int("count", len(songs)))

	return &action.Result{
		Message: fmt.Sprintf("Generated %d personalized song recommendation(s) based on email content", len(songs)),
		Success: true,
		Data: map[string]any{
			"songs":    songs,
			"analysis": analysis,
			"mode":     ModeRecommendations,
		},
	}
}

func (p *Provider) analyze(ctx context.Context, emailText string) (*Analysis, error) {
	prompt := fmt.Sprintf(`Analyze this email to understand the user's music preferences:

Email: %s

Your task:
1. Identify any mentioned artists, songs, genres, or music-related content
2. Determine the mood or context (e.g., workout, relaxation, party, study)
3. Identify musical preferences (genres, styles, eras)

Return ONLY a valid JSON object with this structure:
{
  "mentioned_artists": ["Artist 1", ...],
  "mentioned_songs": ["Song 1", ...],
  "genres": ["Genre 1", ...],
  "mood": "mood description",
  "context": "context description",
  "preferences": "overall music preference summary"
}`, truncate(emailText, 800))

	content, err := p.llm.Complete(ctx, llm.Request{User: prompt})
	if err != nil {
		return nil, err
	}
	var analysis Analysis
	if err := json.Unmarshal([]byte(llm.StripFences(content)), &analysis); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	return &analysis, nil
}

func (p *Provider) generate(ctx context.Context, analysis *Analysis, emailText string) ([]recommendedSong, error) {
	analysisJSON, _ := json.Marshal(analysis)
	prompt := fmt.Sprintf(`Based on the music preference analysis, generate 5-8 personalized song recommendations.

Analysis: %s
Original email context: %s

For each song provide:
- song_name: Full song title
- artist_name: Artist or band name
- reason: Brief one-sentence explanation why this song matches their preferences

Return ONLY a valid JSON array:
[
  {"song_name": "Song Title", "artist_name": "Artist Name", "reason": "..."},
  ...
]

Do NOT include Spotify links. Only provide song names and artists.`,
		analysisJSON, truncate(emailText, 500))

	content, err := p.llm.Complete(ctx, llm.Request{
		User:        prompt,
		Temperature: recommendationTemperature,
	})
	if err != nil {
		return nil, err
	}
	var recommendations []recommendedSong
	if err := json.Unmarshal([]byte(llm.StripFences(content)), &recommendations); err != nil {
		return nil, fmt.Errorf("malformed recommendations response: %w", err)
	}
	return recommendations, nil
}

func recommendationsFailure(message string, analysis *Analysis) *action.Result {
	data := map[string]any{
		"songs": []Song{},
		"mode":  ModeRecommendations,
	}
	if analysis != nil {
		data["analysis"] = analysis
	}
	return &action.Result{Message: message, Success: false, Data: data}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
