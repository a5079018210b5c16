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

// EVAVirginiaScraper screen-scrapes Virginia's eVA public opportunities
// listing. Rows missing their expected cells are skipped rather than failing
// the page; the portal's markup drifts.
type EVAVirginiaScraper struct {
	cfg   SourceConfig
	fetch Fetcher
	log   *zap.Logger
	now   func() time.Time
}

func NewEVAVirginiaScraper(cfg SourceConfig, fetch Fetcher, log *zap.Logger) *EVAVirginiaScraper {
	return &EVAVirginiaScraper{cfg: cfg, fetch: fetch, log: log, now: time.Now}
}

func (s *EVAVirginiaScraper) Source() string { return s.cfg.ID }

func (s *EVAVirginiaScraper) FetchRaw(ctx context.Context, _ Filters) ([][]byte, error) {
	body, err := s.fetch.Fetch(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("eva listing page: %w", err)
	}
	return [][]byte{body}, nil
}

func (s *EVAVirginiaScraper) Parse(payload []byte) ([]RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse eva listing page: %w", err)
	}

	base, _ := url.Parse(s.cfg.BaseURL)

	var listings []RawListing
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		titleCell := cells.Eq(1)
		anchor := titleCell.Find("a").First()
		href, _ := anchor.Attr("href")

		listings = append(listings, RawListing{
			Title:              cleanText(titleCell.Text()),
			SolicitationNumber: cleanText(cells.Eq(0).Text()),
			Agency:             cleanText(cells.Eq(2).Text()),
			DueDateRaw:         cleanText(cells.Eq(3).Text()),
			Link:               resolveURL(base, href),
			OrganizationType:   "State",
		})
	})
	return listings, nil
}

func (s *EVAVirginiaScraper) Normalize(raw RawListing) *models.Contract {
	return normalizeListing(raw, s.cfg.ID, s.defaultState(), s.now().UTC(), s.log)
}

func (s *EVAVirginiaScraper) defaultState() string {
	if len(s.cfg.States) > 0 {
		return s.cfg.States[0]
	}
	return ""
}

// resolveURL makes listing links absolute against the page they came from.
func resolveURL(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
