package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// MyFloridaScraper reads the MyFlorida Vendor Bid System advertisement feed.
// Item titles carry the agency as a prefix ("DMS - Janitorial Services for
// ...") and the due date lives inside the HTML description.
type MyFloridaScraper struct {
	cfg    SourceConfig
	fetch  Fetcher
	log    *zap.Logger
	now    func() time.Time
	parser *gofeed.Parser
}

func NewMyFloridaScraper(cfg SourceConfig, fetch Fetcher, log *zap.Logger) *MyFloridaScraper {
	return &MyFloridaScraper{cfg: cfg, fetch: fetch, log: log, now: time.Now, parser: gofeed.NewParser()}
}

func (s *MyFloridaScraper) Source() string { return s.cfg.ID }

func (s *MyFloridaScraper) FetchRaw(ctx context.Context, _ Filters) ([][]byte, error) {
	body, err := s.fetch.Fetch(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("vbs feed: %w", err)
	}
	return [][]byte{body}, nil
}

func (s *MyFloridaScraper) Parse(payload []byte) ([]RawListing, error) {
	feed, err := s.parser.ParseString(string(payload))
	if err != nil {
		return nil, fmt.Errorf("parse vbs feed: %w", err)
	}

	listings := make([]RawListing, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		agency, title := splitAgencyTitle(item.Title)
		desc := htmlToText(item.Description)
		listings = append(listings, RawListing{
			Title:              title,
			Description:        desc,
			DueDateRaw:         desc, // "... Due Date: 12/31/2024 ..." is extracted downstream
			SolicitationNumber: cleanText(item.GUID),
			Link:               item.Link,
			Agency:             agency,
			OrganizationType:   "State",
		})
	}
	return listings, nil
}

func (s *MyFloridaScraper) Normalize(raw RawListing) *models.Contract {
	return normalizeListing(raw, s.cfg.ID, s.defaultState(), s.now().UTC(), s.log)
}

func (s *MyFloridaScraper) defaultState() string {
	if len(s.cfg.States) > 0 {
		return s.cfg.States[0]
	}
	return ""
}

// splitAgencyTitle pulls the agency prefix off feed titles shaped like
// "AGENCY - Title". Titles without the separator come back agency-less.
func splitAgencyTitle(full string) (agency, title string) {
	parts := strings.SplitN(full, " - ", 2)
	if len(parts) == 2 {
		return cleanText(parts[0]), cleanText(parts[1])
	}
	return "", cleanText(full)
}
