package scrape

import (
	"testing"
	"time"
)

func TestNormalizeDueDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"ISO date", "2024-12-31", "2024-12-31", true},
		{"US slash date", "12/31/2024", "2024-12-31", true},
		{"US slash date no padding", "1/5/2025", "2025-01-05", true},
		{"dashed US date", "12-31-2024", "2024-12-31", true},
		{"long month name", "December 31, 2024", "2024-12-31", true},
		{"short month name", "Dec 31, 2024", "2024-12-31", true},
		{"day first", "31 December 2024", "2024-12-31", true},
		{"weekday prefix", "Tuesday, December 31, 2024", "2024-12-31", true},
		{"RFC3339 keeps date only", "2024-12-31T17:00:00Z", "2024-12-31", true},
		{"datetime with space", "2024-12-31 17:00:00", "2024-12-31", true},
		{"US datetime", "12/31/2024 5:00 PM", "2024-12-31", true},
		{"due date prefix", "Due Date: 12/31/2024", "2024-12-31", true},
		{"closing date prefix", "Closing Date: December 31, 2024", "2024-12-31", true},
		{"timezone suffix", "12/31/2024 5:00 PM EST", "2024-12-31", true},
		{"date buried in text", "Sealed bids accepted until 12/31/2024 at the office", "2024-12-31", true},
		{"iso buried in text", "window closes 2025-03-15 sharp", "2025-03-15", true},
		{"whitespace noise", "  12/31/2024  ", "2024-12-31", true},
		{"tbd", "TBD", "", false},
		{"until filled", "Open Until Filled", "", false},
		{"empty", "", "", false},
		{"garbage", "see attachment", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDueDate(tt.raw)
			if ok != tt.ok {
				t.Fatalf("NormalizeDueDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("NormalizeDueDate(%q) = %s, want %s", tt.raw, got.Format("2006-01-02"), tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("NormalizeDueDate(%q) not in UTC", tt.raw)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
				t.Errorf("NormalizeDueDate(%q) not truncated to midnight: %v", tt.raw, got)
			}
		})
	}
}

func TestNormalizeDueDateSameDayAcrossFormats(t *testing.T) {
	inputs := []string{"12/31/2024", "Dec 31, 2024", "2024-12-31", "December 31, 2024"}
	var first time.Time
	for i, raw := range inputs {
		got, ok := NormalizeDueDate(raw)
		if !ok {
			t.Fatalf("NormalizeDueDate(%q) failed", raw)
		}
		if i == 0 {
			first = got
			continue
		}
		if !got.Equal(first) {
			t.Errorf("NormalizeDueDate(%q) = %v, want %v", raw, got, first)
		}
	}
}
