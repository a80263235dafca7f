// Package timezone resolves user-supplied timezone identifiers and converts
// local wall-clock input into absolute instants.
package timezone

import (
	"fmt"
	"time"
)

const (
	// Default is the timezone assumed when an owner has no stored preference.
	Default = "UTC"

	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
	dateTimeLayout = dateLayout + " " + clockLayout
)

// Resolve parses an IANA timezone identifier (e.g. "Europe/Moscow").
// Empty input and "UTC" resolve to UTC.
func Resolve(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// IsValid checks if a timezone identifier is recognized.
func IsValid(tz string) bool {
	_, err := Resolve(tz)
	return err == nil
}

// LocalToInstant combines a calendar date ("2006-01-02") and wall-clock time
// ("15:04") under the given location into an absolute instant. The location's
// offset for that date applies, including DST where the zone has it.
func LocalToInstant(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	t, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date or time %q %q: %w", date, clock, err)
	}

	return t, nil
}

// FormatLocal renders an instant as local wall-clock text in the given zone
// for display.
func FormatLocal(t time.Time, tz string) string {
	loc, err := Resolve(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateTimeLayout)
}
