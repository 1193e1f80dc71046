package models

import "time"

// CalendarEvent is one event record derived from an email. Start and End are
// local ISO-8601 strings ("2025-11-15T14:00:00") so the stored form matches
// what the calendar surface renders.
type CalendarEvent struct {
	ID             string    `json:"id,omitempty"`
	Title          string    `json:"title"`
	Start          string    `json:"start,omitempty"`
	End            string    `json:"end,omitempty"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Label          string    `json:"label"`
	MeetingURL     string    `json:"meeting_url"`
	UrgencyLevel   string    `json:"urgency_level"`
	ActionRequired string    `json:"action_required"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// StartTime parses the Start field. The boolean is false when Start is empty
// or not a recognizable timestamp.
func (e *CalendarEvent) StartTime() (time.Time, bool) {
	return parseEventInstant(e.Start)
}

// EndTime parses the End field.
func (e *CalendarEvent) EndTime() (time.Time, bool) {
	return parseEventInstant(e.End)
}

func parseEventInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
