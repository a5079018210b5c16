package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// SamGovScraper harvests federal janitorial opportunities from the SAM.gov
// Get Opportunities JSON API. Keyword and notice-type filters are applied
// server-side; pagination walks until the API reports no more records.
type SamGovScraper struct {
	cfg   SourceConfig
	fetch Fetcher
	log   *zap.Logger
	now   func() time.Time
}

func NewSamGovScraper(cfg SourceConfig, fetch Fetcher, log *zap.Logger) *SamGovScraper {
	return &SamGovScraper{cfg: cfg, fetch: fetch, log: log, now: time.Now}
}

func (s *SamGovScraper) Source() string { return s.cfg.ID }

type samResponse struct {
	TotalRecords      int              `json:"totalRecords"`
	OpportunitiesData []samOpportunity `json:"opportunitiesData"`
}

type samOpportunity struct {
	Title              string `json:"title"`
	SolicitationNumber string `json:"solicitationNumber"`
	FullParentPathName string `json:"fullParentPathName"`
	ResponseDeadLine   string `json:"responseDeadLine"`
	NAICSCode          string `json:"naicsCode"`
	UILink             string `json:"uiLink"`
	PlaceOfPerformance struct {
		State struct {
			Code string `json:"code"`
		} `json:"state"`
	} `json:"placeOfPerformance"`
}

const samPageSize = 100

func (s *SamGovScraper) FetchRaw(ctx context.Context, f Filters) ([][]byte, error) {
	keyword := f.Keyword
	if keyword == "" {
		keyword = "janitorial"
	}

	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}

	now := s.now().UTC()
	var pages [][]byte
	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("api_key", s.cfg.APIKey)
		q.Set("title", keyword)
		q.Set("ptype", "o") // solicitation notices only
		q.Set("postedFrom", now.AddDate(0, 0, -30).Format("01/02/2006"))
		q.Set("postedTo", now.Format("01/02/2006"))
		q.Set("limit", strconv.Itoa(samPageSize))
		q.Set("offset", strconv.Itoa(page*samPageSize))

		body, err := s.fetch.Fetch(ctx, s.cfg.BaseURL+"?"+q.Encode())
		if err != nil {
			// Keep whatever pages already arrived; the runner marks us degraded.
			return pages, fmt.Errorf("sam.gov page %d: %w", page, err)
		}
		pages = append(pages, body)

		var peek samResponse
		if err := json.Unmarshal(body, &peek); err != nil {
			break
		}
		if (page+1)*samPageSize >= peek.TotalRecords || len(peek.OpportunitiesData) == 0 {
			break
		}
	}
	return pages, nil
}

func (s *SamGovScraper) Parse(payload []byte) ([]RawListing, error) {
	var resp samResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode sam.gov response: %w", err)
	}

	listings := make([]RawListing, 0, len(resp.OpportunitiesData))
	for _, opp := range resp.OpportunitiesData {
		listings = append(listings, RawListing{
			Title:              opp.Title,
			Location:           opp.PlaceOfPerformance.State.Code,
			DueDateRaw:         opp.ResponseDeadLine,
			SolicitationNumber: opp.SolicitationNumber,
			Link:               opp.UILink,
			Agency:             opp.FullParentPathName,
			Category:           opp.NAICSCode,
			OrganizationType:   "Federal",
		})
	}
	return listings, nil
}

func (s *SamGovScraper) Normalize(raw RawListing) *models.Contract {
	if raw.Link == "" {
		// Notice without a deep link: point at the public search page.
		raw.Link = "https://sam.gov/search/?keywords=" + url.QueryEscape(raw.SolicitationNumber)
	}
	return normalizeListing(raw, s.cfg.ID, "", s.now().UTC(), s.log)
}
