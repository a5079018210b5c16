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

// TxSmartBuyScraper pulls open solicitations from the Texas SmartBuy
// Electronic State Business Daily search API.
type TxSmartBuyScraper struct {
	cfg   SourceConfig
	fetch Fetcher
	log   *zap.Logger
	now   func() time.Time
}

func NewTxSmartBuyScraper(cfg SourceConfig, fetch Fetcher, log *zap.Logger) *TxSmartBuyScraper {
	return &TxSmartBuyScraper{cfg: cfg, fetch: fetch, log: log, now: time.Now}
}

func (s *TxSmartBuyScraper) Source() string { return s.cfg.ID }

type esbdResponse struct {
	Total         int        `json:"total"`
	Solicitations []esbdItem `json:"solicitations"`
}

type esbdItem struct {
	SolicitationID string `json:"solicitationId"`
	Title          string `json:"title"`
	Agency         string `json:"agencyName"`
	ResponseDue    string `json:"responseDueDate"`
	Description    string `json:"description"`
	ClassItem      string `json:"classItemDescription"`
	DetailURL      string `json:"detailUrl"`
}

const esbdPageSize = 50

func (s *TxSmartBuyScraper) FetchRaw(ctx context.Context, f Filters) ([][]byte, error) {
	keyword := f.Keyword
	if keyword == "" {
		keyword = "janitorial"
	}

	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}

	var pages [][]byte
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("keyword", keyword)
		q.Set("status", "open")
		q.Set("pageSize", strconv.Itoa(esbdPageSize))
		q.Set("page", strconv.Itoa(page))

		body, err := s.fetch.Fetch(ctx, s.cfg.BaseURL+"?"+q.Encode())
		if err != nil {
			return pages, fmt.Errorf("esbd page %d: %w", page, err)
		}
		pages = append(pages, body)

		var peek esbdResponse
		if err := json.Unmarshal(body, &peek); err != nil {
			break
		}
		if len(peek.Solicitations) < esbdPageSize {
			break
		}
	}
	return pages, nil
}

func (s *TxSmartBuyScraper) Parse(payload []byte) ([]RawListing, error) {
	var resp esbdResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode esbd response: %w", err)
	}

	listings := make([]RawListing, 0, len(resp.Solicitations))
	for _, item := range resp.Solicitations {
		link := item.DetailURL
		if link == "" && item.SolicitationID != "" {
			link = "https://www.txsmartbuy.com/esbd/" + url.PathEscape(item.SolicitationID)
		}
		listings = append(listings, RawListing{
			Title:              item.Title,
			Description:        item.Description,
			DueDateRaw:         item.ResponseDue,
			SolicitationNumber: item.SolicitationID,
			Link:               link,
			Agency:             item.Agency,
			Category:           item.ClassItem,
			OrganizationType:   "State",
		})
	}
	return listings, nil
}

func (s *TxSmartBuyScraper) Normalize(raw RawListing) *models.Contract {
	return normalizeListing(raw, s.cfg.ID, s.defaultState(), s.now().UTC(), s.log)
}

func (s *TxSmartBuyScraper) defaultState() string {
	if len(s.cfg.States) > 0 {
		return s.cfg.States[0]
	}
	return ""
}
