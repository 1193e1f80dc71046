// Package calendar builds calendar events from extracted email features,
// persists them to the event store, and serializes them to iCalendar files.
package calendar

import (
	"time"

	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/models"
)

const eventLayout = "2006-01-02T15:04:05"

// event_type -> calendar label. Everything unlisted maps to "other".
var labelByEventType = map[features.EventType]string{
	features.EventMeeting:      "meeting",
	features.EventAppointment:  "appointment",
	features.EventDeadline:     "deadline",
	features.EventReminder:     "reminder",
	features.EventPayment:      "deadline",
	features.EventVerification: "reminder",
	features.EventNotification: "reminder",
	features.EventMaintenance:  "appointment",
}

// Label maps an event type to its calendar label.
func Label(t features.EventType) string {
	if label, ok := labelByEventType[t]; ok {
		return label
	}
	return "other"
}

// BuildEvent deterministically assembles an event record from features alone,
// with no model call. Missing start time defaults to midnight, missing end
// time to 23:59:59, and a wholly missing end to the start instant.
func BuildEvent(f *features.EmailFeatures) *models.CalendarEvent {
	title := f.TitleString()
	if title == "" {
		title = "Untitled Event"
	}

	event := &models.CalendarEvent{
		Title:          title,
		Description:    f.EmailText,
		Location:       f.LocationString(),
		Label:          Label(f.EventType),
		UrgencyLevel:   string(f.UrgencyLevel),
		ActionRequired: string(f.ActionRequired),
	}
	if f.MeetingURL != nil {
		event.MeetingURL = *f.MeetingURL
	}

	if f.DateFrom != nil {
		start := features.NewClock(0, 0, 0)
		if f.TimeFrom != nil {
			start = f.TimeFrom
		}
		event.Start = start.At(*f.DateFrom, time.UTC).Format(eventLayout)
	}

	switch {
	case f.DateTo != nil && f.TimeTo != nil:
		event.End = f.TimeTo.At(*f.DateTo, time.UTC).Format(eventLayout)
	case f.DateTo != nil:
		event.End = features.NewClock(23, 59, 59).At(*f.DateTo, time.UTC).Format(eventLayout)
	case event.Start != "":
		event.End = event.Start
	}

	return event
}
