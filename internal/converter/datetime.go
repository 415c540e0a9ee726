package converter

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDateTime = errors.New("invalid date/time")

// Zoned layouts carry their own offset. Local layouts are read in the practice zone.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
	}
	localLayouts = []string{
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// ParseDateTime accepts ISO-8601 timestamps and the browser's datetime-local shape
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDateTime
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// ParseOptionalDateTime returns nil for a nil or blank value
func ParseOptionalDateTime(value *string, loc *time.Location) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseDateTime(*value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
