package scrape

import (
	"testing"

	"go.uber.org/zap"
)

const esbdFixture = `{
	"total": 2,
	"solicitations": [
		{
			"solicitationId": "ESBD-2024-1187",
			"title": "Custodial Services - Austin State Office Complex",
			"agencyName": "Texas Facilities Commission",
			"responseDueDate": "01/15/2025",
			"description": "Nightly janitorial and floor care",
			"classItemDescription": "Janitorial Services",
			"detailUrl": "https://www.txsmartbuy.com/esbd/ESBD-2024-1187"
		},
		{
			"solicitationId": "ESBD-2024-1202",
			"title": "Window Cleaning, Capitol Annex",
			"agencyName": "State Preservation Board",
			"responseDueDate": "TBD"
		}
	]
}`

func txForTest() *TxSmartBuyScraper {
	cfg := SourceConfig{ID: "tx_smartbuy", BaseURL: "https://www.txsmartbuy.com/esbd/api/solicitations", States: []string{"TX"}}
	return NewTxSmartBuyScraper(cfg, nil, zap.NewNop())
}

func TestTxSmartBuyParse(t *testing.T) {
	listings, err := txForTest().Parse([]byte(esbdFixture))
	if err != nil {
		t.Fatalf("Parse returned %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	if listings[0].Agency != "Texas Facilities Commission" {
		t.Errorf("Agency = %q", listings[0].Agency)
	}
	// Item without detailUrl gets a constructed link.
	if listings[1].Link != "https://www.txsmartbuy.com/esbd/ESBD-2024-1202" {
		t.Errorf("constructed link = %q", listings[1].Link)
	}
}

func TestTxSmartBuyNormalizeDefaultsState(t *testing.T) {
	s := txForTest()
	listings, err := s.Parse([]byte(esbdFixture))
	if err != nil {
		t.Fatalf("Parse returned %v", err)
	}
	rec := s.Normalize(listings[0])
	if rec == nil {
		t.Fatal("Normalize dropped a valid listing")
	}
	if rec.State != "TX" {
		t.Errorf("State = %q, want TX", rec.State)
	}
	if rec.DueDateISO() != "2025-01-15" {
		t.Errorf("DueDateISO = %q", rec.DueDateISO())
	}

	// TBD due date survives with a null date.
	rec = s.Normalize(listings[1])
	if rec == nil || rec.DueDate != nil {
		t.Errorf("TBD listing = %+v, want record with nil due date", rec)
	}
}
