package calendar

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

// PipelineResult is the outcome of the multi-step calendar pipeline.
// Skipped is true both when the email is not calendar-worthy and when the
// budget ran out; Reason distinguishes the two.
type PipelineResult struct {
	Event      map[string]any `json:"calendar_event"`
	Decision   map[string]any `json:"decision"`
	Scheduling map[string]any `json:"scheduling,omitempty"`
	Processed  bool           `json:"processed"`
	Skipped    bool           `json:"skipped"`
	Reason     string         `json:"reason,omitempty"`
}

// Pipeline is the multi-step calendar mode: three sequential model stages
// (classification, scheduling, presentation) under one shared soft deadline.
type Pipeline struct {
	llm    llm.Completer
	logger *zap.Logger
}

func NewPipeline(completer llm.Completer, logger *zap.Logger) *Pipeline {
	return &Pipeline{llm: completer, logger: logger}
}

func (p *Pipeline) Process(ctx context.Context, f *features.EmailFeatures, deadline action.Deadline) *PipelineResult {
	// Stage 1: is this calendar-worthy at all?
	if deadline.Exceeded() {
		return timeoutResult(deadline, "classification")
	}
	decision, err := p.runStage(ctx, classificationPrompt(f), 0)
	if err != nil {
		return abortedResult("classification failed: " + err.Error())
	}
	shouldAdd, _ := decision["should_add"].(bool)
	if !shouldAdd {
		return &PipelineResult{
			Decision:  decision,
			Processed: true,
			Skipped:   true,
		}
	}

	// Stage 2: normalized scheduling block.
	if deadline.Exceeded() {
		return timeoutResult(deadline, "scheduling")
	}
	scheduling, err := p.runStage(ctx, schedulingPrompt(f), 0)
	if err != nil {
		return abortedResult("scheduling failed: " + err.Error())
	}

	// Stage 3: presentation fields.
	if deadline.Exceeded() {
		return timeoutResult(deadline, "formatting")
	}
	presentation, err := p.runStage(ctx, formattingPrompt(f), 0)
	if err != nil {
		return abortedResult("formatting failed: " + err.Error())
	}

	// Merge, later stages overriding earlier keys on collision.
	event := map[string]any{
		"title":    f.TitleString(),
		"location": f.LocationString(),
	}
	if f.DateFrom != nil {
		event["start"] = f.DateFrom.String()
	}
	if f.DateTo != nil {
		event["end"] = f.DateTo.String()
	}
	for k, v := range scheduling {
		event[k] = v
	}
	for k, v := range presentation {
		event[k] = v
	}

	p.logger.Info("multi-step calendar pipeline complete",
		zap.Float64("elapsed_seconds", deadline.Elapsed().Seconds()))

	return &PipelineResult{
		Event:      event,
		Decision:   decision,
		Scheduling: scheduling,
		Processed:  true,
		Skipped:    false,
	}
}

func (p *Pipeline) runStage(ctx context.Context, prompt string, temperature float32) (map[string]any, error) {
	content, err := p.llm.Complete(ctx, llm.Request{User: prompt, Temperature: temperature})
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(llm.StripFences(content)), &out); err != nil {
		return nil, fmt.Errorf("stage returned malformed JSON: %w", err)
	}
	return out, nil
}

func timeoutResult(deadline action.Deadline, stage string) *PipelineResult {
	return &PipelineResult{
		Decision:  map[string]any{"should_add": false},
		Processed: false,
		Skipped:   true,
		Reason:    deadline.TimeoutMessage(stage),
	}
}

func abortedResult(reason string) *PipelineResult {
	return &PipelineResult{
		Decision:  map[string]any{"should_add": false, "reasoning": reason},
		Processed: false,
		Skipped:   true,
		Reason:    reason,
	}
}

func classificationPrompt(f *features.EmailFeatures) string {
	date := ""
	if f.DateFrom != nil {
		date = f.DateFrom.String()
	}
	schedulable := f.EventType == features.EventAppointment ||
		f.EventType == features.EventMeeting ||
		f.EventType == features.EventDeadline
	return fmt.Sprintf(`Classify email: category=%s, event_type=%s, date=%s

If the date is non-empty AND (the category is one of [%s, %s] OR the event type is schedulable [here: %t]):
    Return: {"should_add": true, "reasoning": "Has valid date", "priority": "high", "confidence": 0.9}
Else:
    Return: {"should_add": false, "reasoning": "Not calendar-worthy", "priority": "low", "confidence": 0.9}

Return ONLY the JSON object.`,
		f.Category, f.EventType, date,
		classify.CategoryConcertPromotion, classify.CategoryFlightBooking, schedulable)
}

func schedulingPrompt(f *features.EmailFeatures) string {
	dateFrom, dateTo, timeFrom, timeTo := "", "", "", ""
	if f.DateFrom != nil {
		dateFrom = f.DateFrom.String()
	}
	if f.DateTo != nil {
		dateTo = f.DateTo.String()
	}
	if f.TimeFrom != nil {
		timeFrom = f.TimeFrom.String()
	}
	if f.TimeTo != nil {
		timeTo = f.TimeTo.String()
	}
	return fmt.Sprintf(`Normalize the scheduling block for a calendar event.

Known fields: date_from=%q, date_to=%q, time_from=%q, time_to=%q

Rules:
- When date_to is empty, reuse date_from.
- When no time is known, pick a sensible evening slot and set all_day to true.
- Times are HH:MM:SS in 24-hour format.

Return ONLY a JSON object with keys date_from, date_to, time_from, time_to, all_day.`,
		dateFrom, dateTo, timeFrom, timeTo)
}

func formattingPrompt(f *features.EmailFeatures) string {
	text := f.EmailText
	if len(text) > 100 {
		text = text[:100]
	}
	return fmt.Sprintf(`Create presentation fields for a calendar event from: %q at %q

Return ONLY a JSON object with keys:
- calendar_title: short human title
- calendar_description: one-line description
- calendar_color: hex color such as "#9370DB"
- calendar_reminder_minutes: reminder lead time in minutes (integer, e.g. 1440)`,
		text, f.LocationString())
}
