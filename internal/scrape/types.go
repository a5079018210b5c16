package scrape

import (
	"context"
	"time"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// RawListing is the untrusted, source-shaped bag of fields extracted from a
// single payload item. It is transient: the normalizer either turns it into a
// models.Contract or drops it. Never persisted.
type RawListing struct {
	Title              string
	Description        string
	Location           string // state name, code, or free text
	DueDateRaw         string
	SolicitationNumber string
	Link               string
	Agency             string
	Category           string
	OrganizationType   string
}

// Filters narrows what a source is asked for. Sources apply them server-side
// where the upstream supports it (keyword search, jurisdiction) and ignore
// what they cannot express.
type Filters struct {
	States  []string
	Keyword string
}

// Scraper is the contract every procurement source implements. FetchRaw may
// issue one call or several (pagination, per-jurisdiction); each returned
// payload is handed to Parse independently so one bad page cannot sink the
// others. Normalize returns nil to drop a listing — a drop is expected
// high-volume filtering, not an error.
type Scraper interface {
	Source() string
	FetchRaw(ctx context.Context, f Filters) ([][]byte, error)
	Parse(payload []byte) ([]RawListing, error)
	Normalize(raw RawListing) *models.Contract
}

// ScraperResult summarizes one source's run. Used for logging and the run
// summary only; never persisted to the contracts table.
type ScraperResult struct {
	Source          string        `json:"source"`
	RawCount        int           `json:"raw_count"`
	MatchedCount    int           `json:"matched_count"`
	NormalizedCount int           `json:"normalized_count"`
	Duplicates      int           `json:"duplicates"`
	Errors          []string      `json:"errors,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
	Degraded        bool          `json:"degraded"`
	Duration        time.Duration `json:"-"`
	DurationMS      int64         `json:"duration_ms"`
}

// Fetcher retrieves the raw bytes behind a URL. Implementations own their
// timeout and retry behavior.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
