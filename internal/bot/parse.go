package bot

import (
	"fmt"
	"strings"
)

// reminderInput is the parsed form of a free-text reminder message:
//
//	Date: 2025-08-29
//	Time: 14:30
//	Text: Meet the client
type reminderInput struct {
	Date  string
	Clock string
	Label string
}

const timezonePrefix = "Timezone:"

// parseTimezoneMessage extracts the zone name from a "Timezone: Europe/Moscow"
// message, or returns false when the message is not a timezone update.
func parseTimezoneMessage(text string) (string, bool) {
	if !strings.HasPrefix(text, timezonePrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(text, timezonePrefix)), true
}

// parseReminderMessage parses the three-line reminder format. Field order is
// free, unknown lines are ignored, every field is required.
func parseReminderMessage(text string) (*reminderInput, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("expected three lines (Date, Time, Text), got %d", len(lines))
	}

	var in reminderInput
	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Date:"):
			in.Date = strings.TrimSpace(strings.TrimPrefix(line, "Date:"))
		case strings.HasPrefix(line, "Time:"):
			in.Clock = strings.TrimSpace(strings.TrimPrefix(line, "Time:"))
		case strings.HasPrefix(line, "Text:"):
			in.Label = strings.TrimSpace(strings.TrimPrefix(line, "Text:"))
		}
	}

	if in.Date == "" || in.Clock == "" || in.Label == "" {
		return nil, fmt.Errorf("missing field: all of Date, Time and Text are required")
	}

	return &in, nil
}
