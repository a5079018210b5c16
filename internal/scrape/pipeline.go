package scrape

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// ContractStore is the slice of the database layer the pipeline needs.
type ContractStore interface {
	SaveAll(ctx context.Context, records []models.Contract) (models.SaveStats, error)
	StartRun(ctx context.Context, runID string, startedAt time.Time) error
	CompleteRun(ctx context.Context, runID, status string, summary models.RunSummary) error
}

// Pipeline is one full harvest: run every source, merge, persist, record the
// run. Both the admin trigger endpoint and the daily schedule go through
// here, so a manual run and a scheduled run behave identically.
type Pipeline struct {
	Engine *Engine
	Store  ContractStore
	Log    *zap.Logger
}

// Run executes the pipeline and returns the run summary. Persistence errors
// are returned after the summary is filled in, so callers still see what the
// harvest found.
func (p *Pipeline) Run(ctx context.Context, parallel bool) (models.RunSummary, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()

	if err := p.Store.StartRun(ctx, runID, started); err != nil {
		p.Log.Warn("could not record run start", zap.String("run_id", runID), zap.Error(err))
	}

	records, results := p.Engine.RunAll(ctx, parallel)
	summary := Summarize(records, results, started)
	summary.RunID = runID

	stats, saveErr := p.Store.SaveAll(ctx, records)
	summary.Inserted = stats.Inserted
	summary.Updated = stats.Updated
	summary.Failed = stats.Failed
	summary.DurationMS = time.Since(started).Milliseconds()

	status := "completed"
	if saveErr != nil {
		status = "failed"
	}
	if err := p.Store.CompleteRun(ctx, runID, status, summary); err != nil {
		p.Log.Warn("could not record run completion", zap.String("run_id", runID), zap.Error(err))
	}

	p.Log.Info("harvest finished",
		zap.String("run_id", runID),
		zap.Int("records", summary.RecordsFound),
		zap.Int("duplicates_removed", summary.DuplicatesRemoved),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("failed", summary.Failed),
		zap.Strings("degraded_sources", summary.DegradedSources),
		zap.Int64("duration_ms", summary.DurationMS))

	return summary, saveErr
}
