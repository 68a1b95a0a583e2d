package reporting

import (
	"strconv"
	"strings"
	"time"
)

var nativeDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 02 2006",
}

var monthAbbreviations = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate reads a report date such as "2025-12-29", "29-Dec-25" or
// "29 Dec 2025". Anything unreadable becomes now.
func ParseDate(value string, now time.Time) time.Time {
	if t, ok := parseReportDate(value); ok {
		return t
	}
	return now
}

func parseReportDate(value string) (time.Time, bool) {
	str := strings.TrimSpace(value)
	if str == "" {
		return time.Time{}, false
	}

	for _, layout := range nativeDateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), true
		}
	}

	parts := strings.FieldsFunc(str, func(r rune) bool { return r == '-' || r == ' ' })
	if len(parts) < 3 || len(parts[1]) < 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, ok := monthAbbreviations[strings.ToLower(parts[1][:3])]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	if len(parts[2]) == 2 {
		year += 2000
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
