package features

import (
	"bytes"
	"encoding/json"
)

type EventType string

const (
	EventAppointment  EventType = "appointment"
	EventMeeting      EventType = "meeting"
	EventDeadline     EventType = "deadline"
	EventMaintenance  EventType = "maintenance"
	EventPayment      EventType = "payment"
	EventVerification EventType = "verification"
	EventNotification EventType = "notification"
	EventReminder     EventType = "reminder"
	EventFinal        EventType = "final"
	EventOther        EventType = "other"
)

type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = "none"
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
	RecurrenceCustom  RecurrencePattern = "custom"
)

type ActionRequirement string

const (
	ActionConfirm  ActionRequirement = "confirm"
	ActionReply    ActionRequirement = "reply"
	ActionPay      ActionRequirement = "pay"
	ActionVerify   ActionRequirement = "verify"
	ActionClick    ActionRequirement = "click"
	ActionDownload ActionRequirement = "download"
	ActionComplete ActionRequirement = "complete"
	ActionReview   ActionRequirement = "review"
	ActionNone     ActionRequirement = "none"
)

type LocationType string

const (
	LocationPhysical LocationType = "physical"
	LocationVirtual  LocationType = "virtual"
	LocationHybrid   LocationType = "hybrid"
	LocationNone     LocationType = "none"
)

var (
	eventTypes = tagSet(EventAppointment, EventMeeting, EventDeadline, EventMaintenance,
		EventPayment, EventVerification, EventNotification, EventReminder, EventFinal, EventOther)
	urgencyLevels      = tagSet(UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical)
	recurrencePatterns = tagSet(RecurrenceNone, RecurrenceDaily, RecurrenceWeekly,
		RecurrenceMonthly, RecurrenceYearly, RecurrenceCustom)
	actionRequirements = tagSet(ActionConfirm, ActionReply, ActionPay, ActionVerify,
		ActionClick, ActionDownload, ActionComplete, ActionReview, ActionNone)
	locationTypes = tagSet(LocationPhysical, LocationVirtual, LocationHybrid, LocationNone)
)

func tagSet[T ~string](tags ...T) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[string(tag)] = struct{}{}
	}
	return set
}

// decodeTag decodes a JSON value that should be an enum tag. Model output is
// not trusted: null, an unknown tag, or a non-string value all fall back to
// the provided default instead of failing the whole extraction.
func decodeTag(data []byte, valid map[string]struct{}, def string) string {
	if bytes.Equal(data, []byte("null")) {
		return def
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return def
	}
	if _, ok := valid[s]; !ok {
		return def
	}
	return s
}

func (t *EventType) UnmarshalJSON(data []byte) error {
	*t = EventType(decodeTag(data, eventTypes, string(EventOther)))
	return nil
}

func (u *UrgencyLevel) UnmarshalJSON(data []byte) error {
	*u = UrgencyLevel(decodeTag(data, urgencyLevels, string(UrgencyLow)))
	return nil
}

func (r *RecurrencePattern) UnmarshalJSON(data []byte) error {
	*r = RecurrencePattern(decodeTag(data, recurrencePatterns, string(RecurrenceNone)))
	return nil
}

// UnmarshalJSON additionally coerces the boolean true to "none": the upstream
// model occasionally emits action_required as a bare boolean.
func (a *ActionRequirement) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		*a = ActionNone
		return nil
	}
	*a = ActionRequirement(decodeTag(data, actionRequirements, string(ActionNone)))
	return nil
}

func (l *LocationType) UnmarshalJSON(data []byte) error {
	*l = LocationType(decodeTag(data, locationTypes, string(LocationNone)))
	return nil
}

// Score is a confidence value in [0,1]. Null decodes to 0 and out-of-range
// values are clamped rather than rejected.
type Score float64

func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*s = 0
		return nil
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	*s = Score(f)
	return nil
}
