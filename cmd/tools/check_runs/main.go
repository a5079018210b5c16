package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/db"
)

func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	store := db.NewStore(pool, zap.NewNop())

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Status", "Found", "Dups", "Ins", "Upd", "Fail", "Degraded", "Duration", "Started At"})

	for _, run := range runs {
		duration := "Running..."
		if run.FinishedAt != nil {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		t.AppendRow(table.Row{
			run.RunID[:8],
			run.Status,
			run.Summary.RecordsFound,
			run.Summary.DuplicatesRemoved,
			run.Summary.Inserted,
			run.Summary.Updated,
			run.Summary.Failed,
			len(run.Summary.DegradedSources),
			duration,
			run.StartedAt.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
}
