package response

import (
	"fmt"
	"strconv"
	"time"
)

// LocalDateTimeLayout renders a wall-clock time without zone, trimming
// trailing zeros from the fraction (e.g. "2026-02-24T22:10:00.12").
const LocalDateTimeLayout = "2006-01-02T15:04:05.999999999"

// now is the clock used to stamp envelopes and payloads.
var now = time.Now

// LocalDateTime is a point in time serialized as a local ISO-8601 date-time.
type LocalDateTime time.Time

// Time returns t as a time.Time.
func (t LocalDateTime) Time() time.Time { return time.Time(t) }

// String formats t with LocalDateTimeLayout in the local zone.
func (t LocalDateTime) String() string {
	return time.Time(t).Local().Format(LocalDateTimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *LocalDateTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("local date-time: %w", err)
	}
	parsed, err := time.ParseInLocation(LocalDateTimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("local date-time: %w", err)
	}
	*t = LocalDateTime(parsed)
	return nil
}
