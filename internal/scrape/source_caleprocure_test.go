package scrape

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const calTableFixture = `<html><body>
<table class="results">
	<tbody>
		<tr>
			<td>0000031337</td>
			<td><a href="/event/0000031337">Janitorial Services - Caltrans District 7</a></td>
			<td>Department of Transportation</td>
			<td>01/20/2025</td>
		</tr>
	</tbody>
</table>
</body></html>`

const calCardFixture = `<html><body>
<div class="event-result">
	<a href="/event/0000031400">Custodial Services, State Capitol</a>
	<span class="event-id">0000031400</span>
	<span class="event-department">Department of General Services</span>
	<span class="event-end-date">02/01/2025</span>
</div>
</body></html>`

func calForTest(fetch Fetcher) *CalEProcureScraper {
	cfg := SourceConfig{ID: "cal_eprocure", BaseURL: "https://caleprocure.ca.gov/pages/Events-BS3/event-search.aspx", States: []string{"CA"}}
	return NewCalEProcureScraper(cfg, fetch, zap.NewNop())
}

func TestCalEProcureParseTableLayout(t *testing.T) {
	s := calForTest(nil)
	listings, err := s.Parse([]byte(calTableFixture))
	if err != nil {
		t.Fatalf("Parse returned %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings = %d, want 1", len(listings))
	}

	rec := s.Normalize(listings[0])
	if rec == nil {
		t.Fatal("Normalize dropped a valid event")
	}
	if rec.State != "CA" || rec.SolicitationNumber != "0000031337" {
		t.Errorf("normalized = %+v", rec)
	}
	if rec.Link != "https://caleprocure.ca.gov/event/0000031337" {
		t.Errorf("Link = %q", rec.Link)
	}
}

func TestCalEProcureParseCardLayout(t *testing.T) {
	listings, err := calForTest(nil).Parse([]byte(calCardFixture))
	if err != nil {
		t.Fatalf("Parse returned %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings = %d, want 1", len(listings))
	}
	if listings[0].SolicitationNumber != "0000031400" {
		t.Errorf("SolicitationNumber = %q", listings[0].SolicitationNumber)
	}
	if listings[0].DueDateRaw != "02/01/2025" {
		t.Errorf("DueDateRaw = %q", listings[0].DueDateRaw)
	}
}

func TestCalEProcureFetchRawSendsKeyword(t *testing.T) {
	fetch := &scriptedFetcher{responses: []string{calTableFixture}}
	if _, err := calForTest(fetch).FetchRaw(context.Background(), Filters{}); err != nil {
		t.Fatalf("FetchRaw returned %v", err)
	}
	if !strings.Contains(fetch.urls[0], "keyword=janitorial") {
		t.Errorf("request url = %q", fetch.urls[0])
	}
}
