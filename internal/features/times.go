package features

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

// Date is a calendar day without a time component ("2025-11-15").
type Date struct {
	time.Time
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s, ok := decodeTimeString(data)
	if !ok || s == "" {
		d.Time = time.Time{}
		return nil
	}
	// Some model outputs carry a full datetime where only a date was asked for.
	if idx := strings.IndexAny(s, "T "); idx > 0 {
		s = s[:idx]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		d.Time = time.Time{}
		return nil
	}
	d.Time = t
	return nil
}

// Clock is a time of day without a date component ("14:30:00").
type Clock struct {
	time.Time
}

func (c Clock) String() string { return c.Format(clockLayout) }

func (c Clock) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(c.Format(clockLayout))
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	s, ok := decodeTimeString(data)
	if !ok || s == "" {
		c.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{clockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			c.Time = t
			return nil
		}
	}
	c.Time = time.Time{}
	return nil
}

// At combines a day with a time of day into one instant in loc.
func (c Clock) At(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc)
}

// DateTime is a full timestamp serialized as ISO-8601.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s, ok := decodeTimeString(data)
	if !ok || s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

func decodeTimeString(data []byte) (string, bool) {
	if string(data) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// NewDate is a test and call-site convenience constructor.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewClock is a test and call-site convenience constructor.
func NewClock(hour, minute, second int) *Clock {
	return &Clock{Time: time.Date(0, 1, 1, hour, minute, second, 0, time.UTC)}
}

// ParseClock parses an "HH:MM:SS" string.
func ParseClock(s string) (*Clock, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return &Clock{Time: t}, nil
}
