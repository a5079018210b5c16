package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// DemandStarScraper queries the DemandStar bid aggregator. It is the lowest
// priority source: any bid it shares with an official portal is attributed to
// the portal during dedup, so DemandStar only contributes listings the
// portals missed.
type DemandStarScraper struct {
	cfg   SourceConfig
	fetch Fetcher
	log   *zap.Logger
	now   func() time.Time
}

func NewDemandStarScraper(cfg SourceConfig, fetch Fetcher, log *zap.Logger) *DemandStarScraper {
	return &DemandStarScraper{cfg: cfg, fetch: fetch, log: log, now: time.Now}
}

func (s *DemandStarScraper) Source() string { return s.cfg.ID }

type demandStarResponse struct {
	TotalPages int             `json:"totalPages"`
	Bids       []demandStarBid `json:"bids"`
}

type demandStarBid struct {
	BidNumber  string `json:"bidNumber"`
	BidName    string `json:"bidName"`
	AgencyName string `json:"agencyName"`
	AgencyType string `json:"agencyType"` // City, County, School District...
	State      string `json:"state"`
	DueDate    string `json:"dueDate"`
	Scope      string `json:"scopeOfWork"`
	BidURL     string `json:"bidUrl"`
}

func (s *DemandStarScraper) FetchRaw(ctx context.Context, f Filters) ([][]byte, error) {
	keyword := f.Keyword
	if keyword == "" {
		keyword = "janitorial"
	}
	states := f.States
	if len(states) == 0 {
		states = s.cfg.States
	}

	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 4
	}

	var pages [][]byte
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("search", keyword)
		q.Set("status", "active")
		if len(states) > 0 {
			q.Set("states", strings.Join(states, ","))
		}
		q.Set("page", strconv.Itoa(page))

		body, err := s.fetch.Fetch(ctx, s.cfg.BaseURL+"?"+q.Encode())
		if err != nil {
			return pages, fmt.Errorf("demandstar page %d: %w", page, err)
		}
		pages = append(pages, body)

		var peek demandStarResponse
		if err := json.Unmarshal(body, &peek); err != nil {
			break
		}
		if page >= peek.TotalPages || len(peek.Bids) == 0 {
			break
		}
	}
	return pages, nil
}

func (s *DemandStarScraper) Parse(payload []byte) ([]RawListing, error) {
	var resp demandStarResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode demandstar response: %w", err)
	}

	listings := make([]RawListing, 0, len(resp.Bids))
	for _, bid := range resp.Bids {
		listings = append(listings, RawListing{
			Title:              bid.BidName,
			Description:        bid.Scope,
			Location:           bid.State,
			DueDateRaw:         bid.DueDate,
			SolicitationNumber: bid.BidNumber,
			Link:               bid.BidURL,
			Agency:             bid.AgencyName,
			OrganizationType:   bid.AgencyType,
		})
	}
	return listings, nil
}

func (s *DemandStarScraper) Normalize(raw RawListing) *models.Contract {
	return normalizeListing(raw, s.cfg.ID, "", s.now().UTC(), s.log)
}
