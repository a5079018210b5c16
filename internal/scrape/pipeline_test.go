package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

type memStore struct {
	saved     []models.Contract
	saveErr   error
	started   []string
	completed map[string]string // run id -> status
	summaries map[string]models.RunSummary
}

func newMemStore() *memStore {
	return &memStore{completed: map[string]string{}, summaries: map[string]models.RunSummary{}}
}

func (m *memStore) SaveAll(_ context.Context, records []models.Contract) (models.SaveStats, error) {
	if m.saveErr != nil {
		return models.SaveStats{Failed: len(records)}, m.saveErr
	}
	m.saved = append(m.saved, records...)
	return models.SaveStats{Inserted: len(records)}, nil
}

func (m *memStore) StartRun(_ context.Context, runID string, _ time.Time) error {
	m.started = append(m.started, runID)
	return nil
}

func (m *memStore) CompleteRun(_ context.Context, runID, status string, summary models.RunSummary) error {
	m.completed[runID] = status
	m.summaries[runID] = summary
	return nil
}

func pipelineForTest(store ContractStore, scrapers ...Scraper) *Pipeline {
	return &Pipeline{
		Engine: NewEngine(scrapers, Filters{}, zap.NewNop()),
		Store:  store,
		Log:    zap.NewNop(),
	}
}

func TestPipelineRun(t *testing.T) {
	store := newMemStore()
	s := &fakeScraper{
		source: "src",
		state:  "VA",
		pages:  [][]byte{{1}},
		parse: listingsPage(
			RawListing{Title: "Janitorial Services", SolicitationNumber: "P-1", Link: "https://x.gov/p1"},
		),
	}

	summary, err := pipelineForTest(store, s).Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if summary.RunID == "" {
		t.Error("summary missing run id")
	}
	if summary.RecordsFound != 1 || summary.Inserted != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(store.saved) != 1 {
		t.Errorf("store saved %d records", len(store.saved))
	}
	if store.completed[summary.RunID] != "completed" {
		t.Errorf("run status = %q", store.completed[summary.RunID])
	}
}

func TestPipelineRunPersistFailureStillSummarizes(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("db down")
	s := &fakeScraper{
		source: "src",
		state:  "VA",
		pages:  [][]byte{{1}},
		parse: listingsPage(
			RawListing{Title: "Cleaning Contract", SolicitationNumber: "P-2", Link: "https://x.gov/p2"},
		),
	}

	summary, err := pipelineForTest(store, s).Run(context.Background(), false)
	if err == nil {
		t.Fatal("expected save error to propagate")
	}
	if summary.RecordsFound != 1 {
		t.Errorf("summary lost harvest counts: %+v", summary)
	}
	if store.completed[summary.RunID] != "failed" {
		t.Errorf("run status = %q, want failed", store.completed[summary.RunID])
	}
}
