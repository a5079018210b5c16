package scrape

import "strings"

// NAICS codes for the janitorial-services family. Classification is pure
// enrichment: a listing with no hint simply gets no code.
const (
	naicsJanitorial     = "561720" // janitorial services
	naicsCarpet         = "561740" // carpet and upholstery cleaning
	naicsOtherBuilding  = "561790" // other services to buildings and dwellings
	naicsFacilities     = "561210" // facilities support services
	naicsSepticPortable = "562991" // septic tank and related services
)

var naicsHints = []struct {
	hint string
	code string
}{
	{"carpet", naicsCarpet},
	{"upholstery", naicsCarpet},
	{"facilities support", naicsFacilities},
	{"facility support", naicsFacilities},
	{"facilities management", naicsFacilities},
	{"septic", naicsSepticPortable},
	{"portable toilet", naicsSepticPortable},
	{"pressure washing", naicsOtherBuilding},
	{"window washing", naicsOtherBuilding},
	{"window cleaning", naicsOtherBuilding},
	{"exterior cleaning", naicsOtherBuilding},
	{"janitorial", naicsJanitorial},
	{"custodial", naicsJanitorial},
	{"custodian", naicsJanitorial},
	{"housekeeping", naicsJanitorial},
	{"cleaning", naicsJanitorial},
	{"sanitation", naicsJanitorial},
}

// ClassifyNAICS maps a listing's category hint (and title as fallback) to a
// janitorial-services NAICS code. Returns "" when nothing matches.
func ClassifyNAICS(category, title string) string {
	for _, text := range []string{category, title} {
		lower := strings.ToLower(text)
		if lower == "" {
			continue
		}
		// A bare 6-digit 5617xx/5612xx/5629xx code passes through.
		if len(lower) == 6 && isKnownNAICS(lower) {
			return lower
		}
		for _, h := range naicsHints {
			if strings.Contains(lower, h.hint) {
				return h.code
			}
		}
	}
	return ""
}

func isKnownNAICS(code string) bool {
	switch code {
	case naicsJanitorial, naicsCarpet, naicsOtherBuilding, naicsFacilities, naicsSepticPortable:
		return true
	}
	return false
}
