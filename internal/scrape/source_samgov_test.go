package scrape

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// scriptedFetcher feeds canned responses to a scraper and records the URLs
// it was asked for.
type scriptedFetcher struct {
	responses []string
	errs      []error
	urls      []string
}

func (f *scriptedFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	i := len(f.urls)
	f.urls = append(f.urls, url)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return []byte(f.responses[i]), nil
	}
	return nil, &StatusError{URL: url, StatusCode: 404}
}

const samFixture = `{
	"totalRecords": 2,
	"opportunitiesData": [
		{
			"title": "Janitorial Services - VA Medical Center",
			"solicitationNumber": "36C24E24Q0101",
			"fullParentPathName": "VETERANS AFFAIRS, DEPARTMENT OF",
			"responseDeadLine": "2024-12-31",
			"naicsCode": "561720",
			"uiLink": "https://sam.gov/opp/abc123/view",
			"placeOfPerformance": {"state": {"code": "VA"}}
		},
		{
			"title": "Custodial Support, Fort Worth",
			"solicitationNumber": "W912BV25R0007",
			"fullParentPathName": "ARMY, DEPARTMENT OF THE",
			"responseDeadLine": "2025-01-15T17:00:00-05:00",
			"naicsCode": "561720",
			"uiLink": "https://sam.gov/opp/def456/view",
			"placeOfPerformance": {"state": {"code": "TX"}}
		}
	]
}`

func samGovForTest(fetch Fetcher) *SamGovScraper {
	cfg := SourceConfig{ID: "sam_gov", BaseURL: "https://api.sam.gov/opportunities/v2/search", APIKey: "k", MaxPages: 3}
	return NewSamGovScraper(cfg, fetch, zap.NewNop())
}

func TestSamGovParse(t *testing.T) {
	s := samGovForTest(nil)
	listings, err := s.Parse([]byte(samFixture))
	if err != nil {
		t.Fatalf("Parse returned %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}

	first := listings[0]
	if first.SolicitationNumber != "36C24E24Q0101" {
		t.Errorf("SolicitationNumber = %q", first.SolicitationNumber)
	}
	if first.Location != "VA" {
		t.Errorf("Location = %q", first.Location)
	}
	if first.Category != "561720" {
		t.Errorf("Category = %q", first.Category)
	}

	rec := s.Normalize(first)
	if rec == nil {
		t.Fatal("Normalize dropped a valid federal listing")
	}
	if rec.State != "VA" || rec.DueDateISO() != "2024-12-31" || rec.NAICSCode != "561720" {
		t.Errorf("normalized = %+v", rec)
	}
}

func TestSamGovParseMalformedPayload(t *testing.T) {
	if _, err := samGovForTest(nil).Parse([]byte("<html>maintenance</html>")); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
}

func TestSamGovFetchRawStopsAtTotalRecords(t *testing.T) {
	fetch := &scriptedFetcher{responses: []string{samFixture}}
	pages, err := samGovForTest(fetch).FetchRaw(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("FetchRaw returned %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1 (totalRecords=2 fits one page)", len(pages))
	}
	if !strings.Contains(fetch.urls[0], "api_key=k") || !strings.Contains(fetch.urls[0], "offset=0") {
		t.Errorf("request url = %q", fetch.urls[0])
	}
}

func TestSamGovFetchRawKeepsPagesBeforeError(t *testing.T) {
	big := strings.Replace(samFixture, `"totalRecords": 2`, `"totalRecords": 500`, 1)
	fetch := &scriptedFetcher{
		responses: []string{big},
		errs:      []error{nil, &StatusError{StatusCode: 503}},
	}
	pages, err := samGovForTest(fetch).FetchRaw(context.Background(), Filters{})
	if err == nil {
		t.Fatal("expected error from failing second page")
	}
	if len(pages) != 1 {
		t.Errorf("pages = %d, want the 1 page fetched before the failure", len(pages))
	}
}
