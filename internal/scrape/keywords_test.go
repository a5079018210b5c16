package scrape

import "testing"

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        bool
	}{
		{"janitorial in title", "Janitorial Services for District Offices", "", true},
		{"case insensitive", "CUSTODIAL SERVICES RFP", "", true},
		{"match in description only", "RFP 24-101", "Provide nightly cleaning of facility", true},
		{"floor care phrase", "Floor Care and Maintenance", "", true},
		{"pressure washing", "Pressure Washing of Parking Decks", "", true},
		{"unrelated construction", "Road Resurfacing Project", "asphalt and paving work", false},
		{"unrelated IT", "Network Switch Procurement", "Cisco hardware", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesKeywords(tt.title, tt.description); got != tt.want {
				t.Errorf("MatchesKeywords(%q, %q) = %v, want %v", tt.title, tt.description, got, tt.want)
			}
		})
	}
}
