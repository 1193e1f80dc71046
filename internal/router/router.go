// Package router decides, per email, which zero-or-more action providers to
// invoke, and aggregates their results into one response. The model's output
// is never trusted to be well-formed; nothing it emits can crash the
// process.
package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/classify"
	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

// Provider interfaces are narrow on purpose so tests can substitute fakes.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, f *features.EmailFeatures) *action.Result
}

type MusicProvider interface {
	DiscoverLinks(ctx context.Context, song, artist, emailText string) *action.Result
}

type AttractionProvider interface {
	Discover(ctx context.Context, destination, attractionType string) *action.Result
}

type Router struct {
	llm        llm.Completer
	calendar   CalendarProvider
	music      MusicProvider
	attraction AttractionProvider
	logger     *zap.Logger
}

func New(completer llm.Completer, cal CalendarProvider, mus MusicProvider, attr AttractionProvider, logger *zap.Logger) *Router {
	return &Router{
		llm:        completer,
		calendar:   cal,
		music:      mus,
		attraction: attr,
		logger:     logger,
	}
}

// Route runs one decision call with function calling enabled and dispatches
// every requested tool call sequentially. Terminal states:
//   - no tool calls: a single synthetic result carrying the model's direct text
//   - a nil provider result: aborted, nil surfaced to the caller
//   - a result with an explicit error: surfaced immediately, nothing further
//   - otherwise the aggregated, function_name-tagged result list
func (r *Router) Route(ctx context.Context, f *features.EmailFeatures, emailText string) ([]action.Result, error) {
	// Spam-classified email never triggers actions.
	if classify.IsSpam(f.Category) {
		r.logger.Info("skipping routing for spam email")
		return []action.Result{noActionResult("Email classified as spam; no actions applicable.")}, nil
	}

	decision, err := r.llm.CompleteWithTools(ctx, llm.Request{
		System: routingSystemPrompt,
		User:   r.userPrompt(f, emailText),
	}, routerTools)
	if err != nil {
		return nil, fmt.Errorf("router: decision call failed: %w", err)
	}

	if len(decision.Calls) == 0 {
		r.logger.Info("model issued no tool calls", zap.String("response", decision.Content))
		return []action.Result{noActionResult(decision.Content)}, nil
	}

	results := make([]action.Result, 0, len(decision.Calls))
	for _, call := range decision.Calls {
		r.logger.Info("dispatching tool call",
			zap.String("function", call.Name),
			zap.String("arguments", call.Arguments))

		result := r.dispatch(ctx, call, f, emailText)
		if result == nil {
			r.logger.Error("provider returned nil result", zap.String("function", call.Name))
			return nil, nil
		}
		result.FunctionName = call.Name
		if result.Error != "" {
			r.logger.Error("tool call failed",
				zap.String("function", call.Name),
				zap.String("error", result.Error))
			return []action.Result{*result}, nil
		}
		results = append(results, *result)
	}
	return results, nil
}

// dispatch is the closed mapping from action name to provider. The unknown
// branch exists only to convert a defective model request into an error
// object.
func (r *Router) dispatch(ctx context.Context, call llm.ToolCall, f *features.EmailFeatures, emailText string) *action.Result {
	var args toolArguments
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return action.Errorf(fmt.Sprintf("malformed arguments for %s: %v", call.Name, err))
		}
	}

	switch call.Name {
	case ActionCreateEvent:
		return r.calendar.CreateEvent(ctx, f)
	case ActionSpotifyLinkDiscovery:
		return r.music.DiscoverLinks(ctx, args.Song, args.Artist, emailText)
	case ActionAttractionDiscovery:
		destination := args.Location
		if destination == "" {
			destination = f.LocationString()
		}
		return r.attraction.Discover(ctx, destination, args.AttractionType)
	default:
		return action.Errorf("unknown function: " + call.Name)
	}
}

func (r *Router) userPrompt(f *features.EmailFeatures, emailText string) string {
	featuresJSON, err := json.Marshal(f)
	if err != nil {
		r.logger.Warn("failed to encode features for prompt", zap.Error(err))
		featuresJSON = []byte("{}")
	}
	return fmt.Sprintf(`Based on the extracted email features, decide which function to call to handle the email appropriately.
Features: %s, Email Text: %s.`, featuresJSON, emailText)
}

func noActionResult(message string) action.Result {
	return action.Result{
		Message: message,
		Success: true,
		Data:    map[string]any{"response": message},
	}
}
