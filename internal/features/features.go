package features

import (
	"encoding/json"
	"fmt"
)

// EmailFeatures is the structured representation extracted from one email.
// Instances are built once by the extraction engine and treated as read-only
// afterward; the only allowed later writes are the Category and Location
// overrides applied before routing.
type EmailFeatures struct {
	EmailText string `json:"email_text,omitempty"`
	Category  string `json:"category,omitempty"`

	ScheduledDatetime   *DateTime `json:"scheduled_datetime"`
	DateText            *string   `json:"date_text"`
	DateFrom            *Date     `json:"date_from"`
	DateTo              *Date     `json:"date_to"`
	TimeFrom            *Clock    `json:"time_from"`
	TimeTo              *Clock    `json:"time_to"`
	HasCompleteDatetime bool      `json:"has_complete_datetime"`

	Location     *string      `json:"location"`
	MeetingURL   *string      `json:"meeting_url"`
	MapsURL      *string      `json:"maps_url"`
	Coordinates  *string      `json:"coordinates"`
	LocationType LocationType `json:"location_type"`

	Title           *string   `json:"title"`
	EventType       EventType `json:"event_type"`
	EventConfidence Score     `json:"event_confidence"`

	UrgencyLevel      UrgencyLevel `json:"urgency_level"`
	UrgencyScore      Score        `json:"urgency_score"`
	UrgencyIndicators []string     `json:"urgency_indicators"`

	RecurrencePattern RecurrencePattern `json:"recurrence_pattern"`
	RecurrenceText    *string           `json:"recurrence_text"`

	ActionRequired   ActionRequirement `json:"action_required"`
	ActionDeadline   *DateTime         `json:"action_deadline"`
	ActionConfidence Score             `json:"action_confidence"`
	ActionPhrases    []string          `json:"action_phrases"`

	ContainsLinks       bool    `json:"contains_links"`
	ContainsAttachments bool    `json:"contains_attachments"`
	FinancialAmount     *string `json:"financial_amount"`
}

// Parse decodes model output into EmailFeatures and applies the defaulting
// rules, so every enum field is non-empty afterward.
func Parse(raw []byte) (*EmailFeatures, error) {
	var f EmailFeatures
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("invalid email features payload: %w", err)
	}
	f.normalize()
	return &f, nil
}

// normalize substitutes documented defaults for fields the model left absent,
// drops zero-valued date/time pointers, and recomputes has_complete_datetime.
func (f *EmailFeatures) normalize() {
	if f.EventType == "" {
		f.EventType = EventOther
	}
	if f.UrgencyLevel == "" {
		f.UrgencyLevel = UrgencyLow
	}
	if f.RecurrencePattern == "" {
		f.RecurrencePattern = RecurrenceNone
	}
	if f.ActionRequired == "" {
		f.ActionRequired = ActionNone
	}
	if f.LocationType == "" {
		f.LocationType = LocationNone
	}

	if f.DateFrom != nil && f.DateFrom.IsZero() {
		f.DateFrom = nil
	}
	if f.DateTo != nil && f.DateTo.IsZero() {
		f.DateTo = nil
	}
	if f.TimeFrom != nil && f.TimeFrom.IsZero() {
		f.TimeFrom = nil
	}
	if f.TimeTo != nil && f.TimeTo.IsZero() {
		f.TimeTo = nil
	}
	if f.ScheduledDatetime != nil && f.ScheduledDatetime.IsZero() {
		f.ScheduledDatetime = nil
	}
	if f.ActionDeadline != nil && f.ActionDeadline.IsZero() {
		f.ActionDeadline = nil
	}

	if f.UrgencyIndicators == nil {
		f.UrgencyIndicators = []string{}
	}
	if f.ActionPhrases == nil {
		f.ActionPhrases = []string{}
	}

	f.HasCompleteDatetime = f.hasDate() && f.hasTime()
}

func (f *EmailFeatures) hasDate() bool {
	return f.DateFrom != nil || f.DateTo != nil
}

func (f *EmailFeatures) hasTime() bool {
	return f.TimeFrom != nil || f.TimeTo != nil
}

// LocationString returns the coarse location or "" when absent.
func (f *EmailFeatures) LocationString() string {
	if f.Location == nil {
		return ""
	}
	return *f.Location
}

// TitleString returns the extracted title or "" when absent.
func (f *EmailFeatures) TitleString() string {
	if f.Title == nil {
		return ""
	}
	return *f.Title
}
