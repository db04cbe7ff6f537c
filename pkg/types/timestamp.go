package types

import (
	"fmt"
	"time"
)

// legacyTimestamp is the zone-less ISO-8601 form written by the original
// service; it is read as UTC.
const legacyTimestamp = "2006-01-02T15:04:05.999999999"

// FormatTimestamp renders t the way backing files store timestamps, in
// UTC. The instant is kept; the zone is not.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp accepts RFC 3339 timestamps and the zone-less legacy form.
// The result is in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(legacyTimestamp, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is not ISO-8601", s)
	}
	return t, nil
}
