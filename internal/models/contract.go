package models

import "time"

// Contract is the canonical contract-opportunity record every source is
// normalized into. The pair (State, SolicitationNumber) uniquely identifies
// an opportunity across all sources and all historical runs; it is both the
// dedup key and the persistence upsert key.
type Contract struct {
	ID                 string     `json:"id,omitempty"`
	State              string     `json:"state"`
	Title              string     `json:"title"`
	SolicitationNumber string     `json:"solicitation_number"`
	DueDate            *time.Time `json:"due_date"` // nil means the source gave no parseable date
	Link               string     `json:"link"`
	Agency             string     `json:"agency"`
	Source             string     `json:"source"`
	ScrapedAt          time.Time  `json:"scraped_at"`
	Description        string     `json:"description,omitempty"`
	OrganizationType   string     `json:"organization_type,omitempty"`
	NAICSCode          string     `json:"naics_code,omitempty"`
	LastSeenAt         *time.Time `json:"last_seen_at,omitempty"`
}

// Key returns the natural dedup key for the record.
func (c Contract) Key() string {
	return c.State + "|" + c.SolicitationNumber
}

// DueDateISO renders the due date as an ISO-8601 date string, or "unknown".
func (c Contract) DueDateISO() string {
	if c.DueDate == nil {
		return "unknown"
	}
	return c.DueDate.Format("2006-01-02")
}

// RunSummary aggregates one full harvesting pass across all sources,
// including the persistence outcome. It is what the admin trigger endpoint
// returns and what gets stored in the run history.
type RunSummary struct {
	RunID             string                 `json:"run_id,omitempty"`
	RecordsFound      int                    `json:"records_found"`
	DuplicatesRemoved int                    `json:"duplicates_removed"`
	Inserted          int                    `json:"inserted"`
	Updated           int                    `json:"updated"`
	Failed            int                    `json:"failed"`
	DegradedSources   []string               `json:"degraded_sources"`
	PerSource         map[string]SourceStats `json:"per_source"`
	PerState          map[string]int         `json:"per_state"`
	StartedAt         time.Time              `json:"started_at"`
	DurationMS        int64                  `json:"duration_ms"`
}

// SaveStats reports a persistence pass. Failed counts records whose upsert
// errored; the pass keeps going past them.
type SaveStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// SourceStats is the per-source slice of a run summary.
type SourceStats struct {
	Raw        int      `json:"raw"`
	Matched    int      `json:"matched"`
	Normalized int      `json:"normalized"`
	Duplicates int      `json:"duplicates"`
	Degraded   bool     `json:"degraded"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}
