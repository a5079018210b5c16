package scrape

import "strings"

// keywordTerms is the curated janitorial/custodial vocabulary. A listing
// whose title or description contains any of these (case-insensitive) is
// relevant; everything else is silently dropped.
var keywordTerms = []string{
	"janitorial",
	"custodial",
	"custodian",
	"cleaning",
	"housekeeping",
	"sanitation",
	"sanitizing",
	"disinfect",
	"floor care",
	"floor maintenance",
	"carpet cleaning",
	"window washing",
	"window cleaning",
	"pressure washing",
	"porter service",
	"restroom supplies",
}

// MatchesKeywords reports whether the listing text hits the curated term
// list. Absence of a match is expected high-volume filtering, not an error.
func MatchesKeywords(title, description string) bool {
	_, ok := matchedKeyword(title, description)
	return ok
}

func matchedKeyword(title, description string) (string, bool) {
	haystack := strings.ToLower(title + " " + description)
	for _, term := range keywordTerms {
		if strings.Contains(haystack, term) {
			return term, true
		}
	}
	return "", false
}
