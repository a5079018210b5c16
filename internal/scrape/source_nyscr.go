package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// NYContractReporterScraper reads the NYS Contract Reporter current
// advertisements feed. Contract numbers and due dates ride in Dublin Core
// extension fields when present, otherwise they are recovered from the
// description text.
type NYContractReporterScraper struct {
	cfg    SourceConfig
	fetch  Fetcher
	log    *zap.Logger
	now    func() time.Time
	parser *gofeed.Parser
}

func NewNYContractReporterScraper(cfg SourceConfig, fetch Fetcher, log *zap.Logger) *NYContractReporterScraper {
	return &NYContractReporterScraper{cfg: cfg, fetch: fetch, log: log, now: time.Now, parser: gofeed.NewParser()}
}

func (s *NYContractReporterScraper) Source() string { return s.cfg.ID }

func (s *NYContractReporterScraper) FetchRaw(ctx context.Context, _ Filters) ([][]byte, error) {
	body, err := s.fetch.Fetch(ctx, s.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("contract reporter feed: %w", err)
	}
	return [][]byte{body}, nil
}

func (s *NYContractReporterScraper) Parse(payload []byte) ([]RawListing, error) {
	feed, err := s.parser.ParseString(string(payload))
	if err != nil {
		return nil, fmt.Errorf("parse contract reporter feed: %w", err)
	}

	listings := make([]RawListing, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		desc := htmlToText(item.Description)

		agency := ""
		if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
			agency = item.DublinCoreExt.Creator[0]
		} else if item.Author != nil {
			agency = item.Author.Name
		}

		listings = append(listings, RawListing{
			Title:              item.Title,
			Description:        desc,
			DueDateRaw:         desc,
			SolicitationNumber: cleanText(item.GUID),
			Link:               item.Link,
			Agency:             agency,
			OrganizationType:   "State",
		})
	}
	return listings, nil
}

func (s *NYContractReporterScraper) Normalize(raw RawListing) *models.Contract {
	return normalizeListing(raw, s.cfg.ID, s.defaultState(), s.now().UTC(), s.log)
}

func (s *NYContractReporterScraper) defaultState() string {
	if len(s.cfg.States) > 0 {
		return s.cfg.States[0]
	}
	return ""
}
