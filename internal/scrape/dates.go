package scrape

import (
	"regexp"
	"strings"
	"time"
)

// dueDateLayouts covers the formats the seven sources have been observed to
// emit. Layouts with a time component are tried as-is; date-only layouts
// normalize to midnight UTC.
var dueDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Monday, January 2, 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006 3:04 PM",
	"01/02/2006 15:04",
	time.RFC1123Z,
	time.RFC1123,
}

var datePrefixes = []string{
	"due date:", "due:", "closing date:", "closes:", "close date:",
	"deadline:", "response due:", "responses due:", "bid opening:",
	"submittal deadline:", "proposals due:",
}

var (
	isoDateRe   = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	usDateRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(20\d{2})\b`)
	monthNameRe = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+(\d{1,2}),?\s+(20\d{2})\b`)
)

// NormalizeDueDate parses a raw due-date string into a UTC date. It never
// fails loudly: garbage like "TBD" or "Until filled" returns ok=false, which
// only nulls the record's due date — it does not disqualify the record.
func NormalizeDueDate(raw string) (time.Time, bool) {
	s := cleanDateText(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toDateUTC(t), true
		}
	}

	// Fall back to pulling a recognizable date out of surrounding text.
	if m := isoDateRe.FindString(s); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return toDateUTC(t), true
		}
	}
	if m := usDateRe.FindStringSubmatch(s); len(m) == 4 {
		if t, err := time.Parse("1/2/2006", m[1]+"/"+m[2]+"/"+m[3]); err == nil {
			return toDateUTC(t), true
		}
	}
	if m := monthNameRe.FindStringSubmatch(s); len(m) == 4 {
		candidate := m[1] + " " + m[2] + ", " + m[3]
		for _, layout := range []string{"January 2, 2006", "Jan 2, 2006"} {
			if t, err := time.Parse(layout, candidate); err == nil {
				return toDateUTC(t), true
			}
		}
	}

	return time.Time{}, false
}

func toDateUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func cleanDateText(s string) string {
	s = cleanText(s)
	lower := strings.ToLower(s)
	for _, p := range datePrefixes {
		if idx := strings.Index(lower, p); idx != -1 {
			s = s[idx+len(p):]
			lower = lower[idx+len(p):]
		}
	}
	s = strings.TrimSpace(s)
	// Normalize "Dec. 31, 2024" and stray timezone suffixes like "EST".
	for _, suffix := range []string{" est", " edt", " cst", " cdt", " mst", " pst", " pdt", " et", " ct", " pt"} {
		if strings.HasSuffix(strings.ToLower(s), suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
		}
	}
	return s
}
