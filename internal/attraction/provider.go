// Package attraction discovers points of interest for locations mentioned in
// emails, with an optional multi-step recommendation pipeline.
package attraction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

// DefaultLimit is the number of attractions requested per destination in
// single-step mode.
const DefaultLimit = 3

// Attraction is one point of interest. Direct matches are tied to a location
// explicitly present in the email; recommendations are not.
type Attraction struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	MapLink     string `json:"map_link"`
	FunFact     string `json:"fun_fact"`
}

type Provider struct {
	llm    llm.Completer
	logger *zap.Logger
}

func NewProvider(completer llm.Completer, logger *zap.Logger) *Provider {
	return &Provider{llm: completer, logger: logger}
}

// Discover is the single-step mode: resolve attractions for one destination
// and return them as direct matches only.
func (p *Provider) Discover(ctx context.Context, destination, attractionType string) *action.Result {
	if strings.TrimSpace(destination) == "" {
		return emptyFailure("No location provided. Cannot discover attractions.")
	}

	attractions, err := p.fetchAttractions(ctx, destination, DefaultLimit)
	if err != nil {
		p.logger.Error("attraction lookup failed",
			zap.Error(err),
			zap.String("destination", destination))
		return emptyFailure("Failed to discover attractions: " + err.Error())
	}

	kind := attractionType
	if kind == "" {
		kind = "general"
	}
	directMatch := make([]Attraction, 0, len(attractions))
	for _, a := range attractions {
		a.Location = destination
		a.Type = kind
		directMatch = append(directMatch, a)
	}

	p.logger.Info("discovered attractions",
		zap.String("destination", destination),
		zap.Int("count", len(directMatch)))

	return &action.Result{
		Message: fmt.Sprintf("Successfully discovered %d attraction(s) for %s", len(directMatch), destination),
		Success: true,
		Data: map[string]any{
			"direct_match":    directMatch,
			"recommendations": []Attraction{},
		},
	}
}

// fetchAttractions issues one model call for a destination and repairs map
// links deterministically.
func (p *Provider) fetchAttractions(ctx context.Context, destination string, limit int) ([]Attraction, error) {
	prompt := fmt.Sprintf(`List exactly %d top tourist attractions in %q.

For each attraction, provide:
- name: Full name of the attraction
- description: Brief 2-sentence description
- fun_fact: One interesting fact
- map_link: Google Maps search URL (format: https://www.google.com/maps/search/<attraction_name>+%s)

Return ONLY a valid JSON array. No explanations, no markdown.
Example format:
[
  {"name": "Attraction Name", "description": "...", "fun_fact": "...", "map_link": "https://..."}
]`, limit, destination, plusJoin(destination))

	content, err := p.llm.Complete(ctx, llm.Request{User: prompt, MaxTokens: 800})
	if err != nil {
		return nil, err
	}

	var attractions []Attraction
	if err := json.Unmarshal([]byte(llm.StripFences(content)), &attractions); err != nil {
		return nil, fmt.Errorf("malformed attractions response: %w", err)
	}
	if len(attractions) > limit {
		attractions = attractions[:limit]
	}
	for i := range attractions {
		if !validMapLink(attractions[i].MapLink) {
			attractions[i].MapLink = MapSearchLink(attractions[i].Name, destination)
		}
	}
	return attractions, nil
}

// MapSearchLink builds the deterministic search-URL fallback for an
// attraction at a destination.
func MapSearchLink(name, destination string) string {
	return "https://www.google.com/maps/search/" + plusJoin(name) + "+" + plusJoin(destination)
}

func plusJoin(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "+")
}

func validMapLink(link string) bool {
	if link == "" {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

func emptyFailure(message string) *action.Result {
	return &action.Result{
		Message: message,
		Success: false,
		Data: map[string]any{
			"direct_match":    []Attraction{},
			"recommendations": []Attraction{},
		},
	}
}
