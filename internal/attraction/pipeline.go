package attraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

const (
	maxDirectMatches      = 3
	recommendedLocations  = 3
	maxRecommendedResults = 3
)

// DiscoverMultiStep is the four-stage pipeline: extract mentioned locations,
// resolve direct attractions for the first one, propose additional related
// locations, then resolve one attraction per proposed location. Every stage
// checks the shared deadline first; on timeout whatever has been accumulated
// is returned, flagged as a timeout failure.
func (p *Provider) DiscoverMultiStep(ctx context.Context, f *features.EmailFeatures, emailText string, deadline action.Deadline) *action.Result {
	var directMatch, recommendations []Attraction

	// Stage 1: literal mentioned locations.
	if deadline.Exceeded() {
		return timeoutFailure(deadline, "location extraction", directMatch, recommendations)
	}
	locations, err := p.extractMentionedLocations(ctx, emailText)
	if err != nil {
		p.logger.Error("location extraction failed", zap.Error(err))
		locations = nil
	}
	if len(locations) == 0 && f.LocationString() != "" {
		locations = []string{f.LocationString()}
	}
	if len(locations) == 0 {
		return emptyFailure("No location provided. Cannot discover attractions.")
	}

	primary := locations[0]
	p.logger.Info("multi-step attraction discovery",
		zap.String("primary_location", primary),
		zap.Strings("mentioned", locations))

	// Stage 2: direct attractions for the first mentioned location.
	if deadline.Exceeded() {
		return timeoutFailure(deadline, "direct attraction lookup", directMatch, recommendations)
	}
	direct, err := p.fetchAttractions(ctx, primary, maxDirectMatches)
	if err != nil {
		p.logger.Error("direct attraction lookup failed", zap.Error(err), zap.String("location", primary))
	}
	for _, a := range direct {
		a.Location = primary
		if a.Type == "" {
			a.Type = "general"
		}
		directMatch = append(directMatch, a)
	}

	// Stage 3: propose additional related locations.
	if deadline.Exceeded() {
		return timeoutFailure(deadline, "location recommendation", directMatch, recommendations)
	}
	proposed, err := p.recommendLocations(ctx, emailText, locations)
	if err != nil {
		p.logger.Error("location recommendation failed", zap.Error(err))
		proposed = nil
	}

	// Stage 4: one attraction per recommended location, deduplicated against
	// the direct matches by name.
	seen := make(map[string]struct{}, len(directMatch))
	for _, a := range directMatch {
		seen[strings.ToLower(a.Name)] = struct{}{}
	}
	for _, loc := range proposed {
		if len(recommendations) >= maxRecommendedResults {
			break
		}
		if deadline.Exceeded() {
			return timeoutFailure(deadline, "recommended attraction lookup", directMatch, recommendations)
		}
		found, err := p.fetchAttractions(ctx, loc, 1)
		if err != nil {
			p.logger.Warn("recommended attraction lookup failed",
				zap.Error(err),
				zap.String("location", loc))
			continue
		}
		for _, a := range found {
			key := strings.ToLower(a.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			a.Location = loc
			if a.Type == "" {
				a.Type = "general"
			}
			recommendations = append(recommendations, a)
			break
		}
	}

	total := len(directMatch) + len(recommendations)
	return &action.Result{
		Message: fmt.Sprintf("Successfully discovered %d attraction(s)", total),
		Success: true,
		Data: map[string]any{
			"direct_match":    directMatch,
			"recommendations": recommendations,
		},
	}
}

// extractMentionedLocations returns the locations literally present in the
// email. Compound mentions must stay whole: "Marina Bay Sands, Singapore" is
// one location, and "Singapore" is only listed separately when the email
// independently mentions it on its own.
func (p *Provider) extractMentionedLocations(ctx context.Context, emailText string) ([]string, error) {
	prompt := fmt.Sprintf(`Extract the locations explicitly mentioned in this email.

Email: %s

CRITICAL RULES:
- Only list locations literally present in the text.
- Keep compound mentions whole: "Marina Bay Sands, Singapore" is ONE location.
  Never split it into "Marina Bay Sands" and "Singapore", and never add a
  broader containing location (city, country) unless the email independently
  mentions it by itself.
- Preserve the original spelling and order of first mention.

Return ONLY a valid JSON array of strings, e.g. ["Marina Bay Sands, Singapore"].
Return [] if no location is mentioned.`, truncate(emailText, 800))

	content, err := p.llm.Complete(ctx, llm.Request{User: prompt})
	if err != nil {
		return nil, err
	}
	var locations []string
	if err := json.Unmarshal([]byte(llm.StripFences(content)), &locations); err != nil {
		return nil, fmt.Errorf("malformed locations response: %w", err)
	}
	out := locations[:0]
	for _, loc := range locations {
		if strings.TrimSpace(loc) != "" {
			out = append(out, strings.TrimSpace(loc))
		}
	}
	return out, nil
}

// recommendLocations proposes exactly three additional locations related to
// the email's theme and distinct from everything already mentioned.
func (p *Provider) recommendLocations(ctx context.Context, emailText string, mentioned []string) ([]string, error) {
	prompt := fmt.Sprintf(`Based on this email, propose exactly %d additional locations a traveler
might also enjoy, related to the email's theme.

Email: %s
Already mentioned (do NOT repeat any of these): %s

Return ONLY a valid JSON array of exactly %d location name strings.`,
		recommendedLocations, truncate(emailText, 500), strings.Join(mentioned, "; "), recommendedLocations)

	content, err := p.llm.Complete(ctx, llm.Request{User: prompt})
	if err != nil {
		return nil, err
	}
	var locations []string
	if err := json.Unmarshal([]byte(llm.StripFences(content)), &locations); err != nil {
		return nil, fmt.Errorf("malformed recommended locations response: %w", err)
	}

	mentionedSet := make(map[string]struct{}, len(mentioned))
	for _, m := range mentioned {
		mentionedSet[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	out := make([]string, 0, recommendedLocations)
	for _, loc := range locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		if _, dup := mentionedSet[strings.ToLower(loc)]; dup {
			continue
		}
		out = append(out, loc)
		if len(out) == recommendedLocations {
			break
		}
	}
	return out, nil
}

func timeoutFailure(deadline action.Deadline, stage string, directMatch, recommendations []Attraction) *action.Result {
	if directMatch == nil {
		directMatch = []Attraction{}
	}
	if recommendations == nil {
		recommendations = []Attraction{}
	}
	return &action.Result{
		Message: deadline.TimeoutMessage(stage),
		Success: false,
		Data: map[string]any{
			"direct_match":    directMatch,
			"recommendations": recommendations,
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
