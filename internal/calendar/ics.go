package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xaenox/mailmind/internal/models"
)

// IcsBuildError reports an event that cannot be serialized, typically
// because its start instant is missing or unparseable.
type IcsBuildError struct {
	Reason string
}

func (e *IcsBuildError) Error() string {
	return fmt.Sprintf("calendar: cannot build ics: %s", e.Reason)
}

// BuildICS serializes one event to iCalendar text. Start and end are emitted
// in UTC with a generated UID and a creation stamp. When the end is missing
// or unparseable it defaults to start plus one hour.
func BuildICS(event *models.CalendarEvent, now time.Time) (string, error) {
	start, ok := event.StartTime()
	if !ok {
		return "", &IcsBuildError{Reason: fmt.Sprintf("unparseable start %q", event.Start)}
	}
	end, ok := event.EndTime()
	if !ok {
		end = start.Add(time.Hour)
	}

	cal := ics.NewCalendar()
	cal.SetProductId("-//mailmind//calendar agent//EN")
	cal.SetVersion("2.0")

	uid := fmt.Sprintf("%s@mailmind", uuid.New().String())
	icsEvent := cal.AddEvent(uid)
	icsEvent.SetSummary(event.Title)
	icsEvent.SetDescription(event.Description)
	if event.Location != "" {
		icsEvent.SetLocation(event.Location)
	}
	icsEvent.SetStartAt(start.UTC())
	icsEvent.SetEndAt(end.UTC())
	icsEvent.SetDtStampTime(now.UTC())

	return cal.Serialize(), nil
}
