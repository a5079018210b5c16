package scrape

import (
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// normalizeListing applies the shared normalization sequence every source
// uses: keyword relevance, state mapping, date parsing, NAICS enrichment.
// Returns nil when the listing is dropped; drops are silent for keyword
// misses and logged at WARN for unmappable states (the system never guesses
// a state).
func normalizeListing(raw RawListing, source, defaultState string, now time.Time, log *zap.Logger) *models.Contract {
	title := cleanText(raw.Title)
	if title == "" {
		return nil
	}
	if !MatchesKeywords(title, raw.Description) {
		return nil
	}

	location := raw.Location
	if location == "" {
		location = defaultState
	}
	state, ok := ToStateCode(location)
	if !ok {
		log.Warn("dropping listing with unmappable state",
			zap.String("source", source),
			zap.String("location", raw.Location),
			zap.String("title", title))
		return nil
	}

	link := cleanText(raw.Link)
	if !isAbsoluteURL(link) {
		return nil
	}

	solicitation := cleanText(raw.SolicitationNumber)
	if solicitation == "" {
		solicitation = stableID(source, link, title)
	}

	rec := &models.Contract{
		State:              state,
		Title:              title,
		SolicitationNumber: solicitation,
		Link:               link,
		Agency:             cleanText(raw.Agency),
		Source:             source,
		ScrapedAt:          now,
		Description:        sanitizeDescription(raw.Description),
		OrganizationType:   cleanText(raw.OrganizationType),
		NAICSCode:          ClassifyNAICS(raw.Category, title),
	}

	if due, ok := NormalizeDueDate(raw.DueDateRaw); ok {
		rec.DueDate = &due
	}

	return rec
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
