package scrape

import "strings"

// codeByName maps lowercase full state names (plus DC spellings) to the
// 2-letter postal code. The reverse map is derived at init.
var codeByName = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",
	"district of columbia": "DC",
	"washington dc":        "DC",
	"washington d.c.":      "DC",
}

var nameByCode = func() map[string]string {
	m := make(map[string]string, 51)
	for name, code := range codeByName {
		// Keep the canonical spelling, not the DC aliases.
		if _, ok := m[code]; !ok || name == "district of columbia" {
			m[code] = name
		}
	}
	return m
}()

// ToStateCode maps a location string (full name or 2-letter code, any case)
// to its postal code. It never guesses: anything unrecognized returns
// ok=false and the caller drops the listing.
func ToStateCode(location string) (string, bool) {
	s := strings.TrimSpace(location)
	if s == "" {
		return "", false
	}
	if len(s) == 2 {
		code := strings.ToUpper(s)
		if _, ok := nameByCode[code]; ok {
			return code, true
		}
		return "", false
	}
	if code, ok := codeByName[strings.ToLower(cleanText(s))]; ok {
		return code, true
	}
	return "", false
}

// StateName returns the full name for a postal code, title-cased.
func StateName(code string) (string, bool) {
	name, ok := nameByCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", false
	}
	parts := strings.Fields(name)
	for i, p := range parts {
		if p == "of" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " "), true
}
