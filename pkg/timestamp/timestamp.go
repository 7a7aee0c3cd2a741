// Package timestamp provides the clock used to stamp UMF messages.
//
// UMF timestamps travel as ISO-8601 strings in UTC with millisecond
// precision, e.g. "2023-01-15T12:30:45.123Z". Internally the package also
// works with int64 milliseconds since the Unix epoch, where 0 means
// "not set".
//
// Usage Examples:
//
//	// Current time as a UMF timestamp
//	ts := timestamp.SystemClock.Now()
//
//	// Deterministic clock for tests
//	clock := timestamp.ClockFunc(func() time.Time { return fixed })
//
//	// Parse a timestamp read from a message
//	t, err := timestamp.ParseISO(msg.Timestamp())
package timestamp

import (
	"encoding/json"
	"strconv"
	"time"
)

// ISOLayout is the UMF timestamp layout: UTC, millisecond precision, "Z" suffix.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Clock produces the current instant as a UMF timestamp string.
// Implementations must be safe for concurrent use.
type Clock interface {
	Now() string
}

// ClockFunc adapts a time source to the Clock interface.
type ClockFunc func() time.Time

// Now formats the instant returned by f as an ISO-8601 string.
func (f ClockFunc) Now() string {
	return ISO(f())
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// ISO formats t as a UMF timestamp. Returns empty string for the zero time.
func ISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

// ParseISO parses an ISO-8601 timestamp. Both the millisecond UMF layout and
// any RFC3339 variant (offsets, nanoseconds) are accepted.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ToUnixMs converts a time.Time to Unix milliseconds.
func ToUnixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMs converts Unix milliseconds to time.Time.
// Returns zero time if timestamp is 0.
func FromUnixMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Parse converts the value found under a message's timestamp key to Unix
// milliseconds. Supports:
//   - string (ISO-8601 / RFC3339, or a numeric string)
//   - int64, int, float64, json.Number (milliseconds if > 1e12, otherwise seconds)
//   - time.Time
//
// Returns 0 for nil, unsupported or unparseable input.
func Parse(input any) int64 {
	switch v := input.(type) {
	case nil:
		return 0

	case int64:
		if v > 1e12 {
			return v
		}
		return v * 1000

	case int:
		return Parse(int64(v))

	case float64:
		if v > 1e12 {
			return int64(v)
		}
		return int64(v * 1000)

	case json.Number:
		return Parse(v.String())

	case string:
		if v == "" {
			return 0
		}
		if t, err := ParseISO(v); err == nil {
			return ToUnixMs(t)
		}
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			return Parse(ts)
		}
		if ts, err := strconv.ParseFloat(v, 64); err == nil {
			return Parse(ts)
		}
		return 0

	case time.Time:
		return ToUnixMs(v)

	default:
		return 0
	}
}
