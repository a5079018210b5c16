package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// CalEProcureScraper screen-scrapes the Cal eProcure CSCR event search
// results. The page renders events both as table rows and as result cards
// depending on viewport; both shapes are tried.
type CalEProcureScraper struct {
	cfg   SourceConfig
	fetch Fetcher
	log   *zap.Logger
	now   func() time.Time
}

func NewCalEProcureScraper(cfg SourceConfig, fetch Fetcher, log *zap.Logger) *CalEProcureScraper {
	return &CalEProcureScraper{cfg: cfg, fetch: fetch, log: log, now: time.Now}
}

func (s *CalEProcureScraper) Source() string { return s.cfg.ID }

func (s *CalEProcureScraper) FetchRaw(ctx context.Context, f Filters) ([][]byte, error) {
	keyword := f.Keyword
	if keyword == "" {
		keyword = "janitorial"
	}
	body, err := s.fetch.Fetch(ctx, s.cfg.BaseURL+"?keyword="+url.QueryEscape(keyword))
	if err != nil {
		return nil, fmt.Errorf("cal eprocure search page: %w", err)
	}
	return [][]byte{body}, nil
}

func (s *CalEProcureScraper) Parse(payload []byte) ([]RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse cal eprocure page: %w", err)
	}

	base, _ := url.Parse(s.cfg.BaseURL)

	var listings []RawListing
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		anchor := cells.Eq(1).Find("a").First()
		href, _ := anchor.Attr("href")

		listings = append(listings, RawListing{
			Title:              cleanText(cells.Eq(1).Text()),
			SolicitationNumber: cleanText(cells.Eq(0).Text()),
			Agency:             cleanText(cells.Eq(2).Text()),
			DueDateRaw:         cleanText(cells.Eq(3).Text()),
			Link:               resolveURL(base, href),
			OrganizationType:   "State",
		})
	})

	// Card layout fallback.
	if len(listings) == 0 {
		doc.Find("div.event-result, li.event-result").Each(func(_ int, card *goquery.Selection) {
			anchor := card.Find("a").First()
			href, _ := anchor.Attr("href")
			listings = append(listings, RawListing{
				Title:              cleanText(anchor.Text()),
				SolicitationNumber: cleanText(card.Find(".event-id").Text()),
				Agency:             cleanText(card.Find(".event-department").Text()),
				DueDateRaw:         cleanText(card.Find(".event-end-date").Text()),
				Link:               resolveURL(base, href),
				OrganizationType:   "State",
			})
		})
	}
	return listings, nil
}

func (s *CalEProcureScraper) Normalize(raw RawListing) *models.Contract {
	return normalizeListing(raw, s.cfg.ID, s.defaultState(), s.now().UTC(), s.log)
}

func (s *CalEProcureScraper) defaultState() string {
	if len(s.cfg.States) > 0 {
		return s.cfg.States[0]
	}
	return ""
}
