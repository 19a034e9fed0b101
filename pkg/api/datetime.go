package api

import (
	"fmt"
	"time"
)

// DateTimeLayout is the wire format of every timestamp in requests and responses.
const DateTimeLayout = "2006-01-02 15:04:05"

// ParseDateTime parses s in DateTimeLayout as a UTC instant.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date time %q, expected %s: %w", s, DateTimeLayout, err)
	}
	return t, nil
}

// FormatDateTime renders t in UTC using DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}
