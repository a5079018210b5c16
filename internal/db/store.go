package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewStore(pool *pgxpool.Pool, log *zap.Logger) *Store {
	return &Store{pool: pool, log: log}
}

var ErrNotFound = errors.New("not found")

const selectCols = `id, state, title, solicitation_number, due_date, link,
	agency, source, description, organization_type, naics_code,
	scraped_at, last_seen_at`

const upsertSQL = `
	INSERT INTO contracts (
		state, title, solicitation_number, due_date, link,
		agency, source, description, organization_type, naics_code,
		scraped_at, last_seen_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	ON CONFLICT (state, solicitation_number) DO UPDATE SET
		title = EXCLUDED.title,
		due_date = EXCLUDED.due_date,
		link = EXCLUDED.link,
		agency = EXCLUDED.agency,
		source = EXCLUDED.source,
		description = EXCLUDED.description,
		organization_type = EXCLUDED.organization_type,
		naics_code = EXCLUDED.naics_code,
		scraped_at = EXCLUDED.scraped_at,
		last_seen_at = NOW()
	RETURNING (xmax = 0)`

// SaveAll upserts every record on (state, solicitation_number). A failing
// record is counted and skipped; one bad row must not lose the batch.
// Re-running over unchanged input updates rows instead of inserting them.
func (s *Store) SaveAll(ctx context.Context, records []models.Contract) (models.SaveStats, error) {
	var stats models.SaveStats
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var inserted bool
		err := s.pool.QueryRow(ctx, upsertSQL,
			rec.State, rec.Title, rec.SolicitationNumber, rec.DueDate, rec.Link,
			rec.Agency, rec.Source, rec.Description, rec.OrganizationType, rec.NAICSCode,
			rec.ScrapedAt,
		).Scan(&inserted)
		if err != nil {
			stats.Failed++
			s.log.Warn("upsert failed",
				zap.String("key", rec.Key()),
				zap.String("source", rec.Source),
				zap.Error(err))
			continue
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}
	return stats, nil
}

func (s *Store) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_runs (run_id, status, started_at) VALUES ($1, 'running', $2)`,
		runID, startedAt)
	if err != nil {
		return fmt.Errorf("insert scrape run: %w", err)
	}
	return nil
}

func (s *Store) CompleteRun(ctx context.Context, runID, status string, summary models.RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE scrape_runs SET status = $2, summary = $3, finished_at = NOW() WHERE run_id = $1`,
		runID, status, payload)
	if err != nil {
		return fmt.Errorf("update scrape run: %w", err)
	}
	return nil
}

// RunRecord is one row of the run history.
type RunRecord struct {
	RunID      string            `json:"run_id"`
	Status     string            `json:"status"`
	Summary    models.RunSummary `json:"summary"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at"`
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, status, COALESCE(summary, '{}'::jsonb), started_at, finished_at
		 FROM scrape_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scrape runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var summaryRaw []byte
		if err := rows.Scan(&r.RunID, &r.Status, &summaryRaw, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(summaryRaw, &r.Summary)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type ListParams struct {
	State  string
	Source string
	Query  string
	Limit  int
	Offset int
}

type ListResult struct {
	Contracts []models.Contract `json:"contracts"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

func scanContract(scan func(dest ...interface{}) error) (models.Contract, error) {
	var c models.Contract
	var dueDate, lastSeen *time.Time

	err := scan(
		&c.ID, &c.State, &c.Title, &c.SolicitationNumber, &dueDate, &c.Link,
		&c.Agency, &c.Source, &c.Description, &c.OrganizationType, &c.NAICSCode,
		&c.ScrapedAt, &lastSeen,
	)
	if err != nil {
		return c, err
	}
	c.DueDate = dueDate
	c.LastSeenAt = lastSeen
	return c, nil
}

// ListContracts returns a filtered, paginated page plus the total count for
// the same filter.
func (s *Store) ListContracts(ctx context.Context, p ListParams) (ListResult, error) {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	var where []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.State != "" {
		where = append(where, "state = "+arg(strings.ToUpper(p.State)))
	}
	if p.Source != "" {
		where = append(where, "source = "+arg(p.Source))
	}
	if p.Query != "" {
		ph := arg("%" + p.Query + "%")
		where = append(where, "(title ILIKE "+ph+" OR description ILIKE "+ph+" OR agency ILIKE "+ph+")")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	result := ListResult{Limit: p.Limit, Offset: p.Offset}
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contracts"+clause, args...).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("count contracts: %w", err)
	}

	query := "SELECT " + selectCols + " FROM contracts" + clause +
		" ORDER BY due_date ASC NULLS LAST, last_seen_at DESC" +
		" LIMIT " + arg(p.Limit) + " OFFSET " + arg(p.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return result, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContract(rows.Scan)
		if err != nil {
			return result, err
		}
		result.Contracts = append(result.Contracts, c)
	}
	return result, rows.Err()
}

func (s *Store) GetContract(ctx context.Context, id string) (models.Contract, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+selectCols+" FROM contracts WHERE id = $1", id)
	c, err := scanContract(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

// StatsSnapshot is the aggregate view served by the stats endpoint.
type StatsSnapshot struct {
	Total     int            `json:"total"`
	DueSoon   int            `json:"due_soon"` // due within 14 days
	ByState   map[string]int `json:"by_state"`
	BySource  map[string]int `json:"by_source"`
	LastRunAt *time.Time     `json:"last_run_at"`
}

func (s *Store) Stats(ctx context.Context) (StatsSnapshot, error) {
	snap := StatsSnapshot{ByState: map[string]int{}, BySource: map[string]int{}}

	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contracts").Scan(&snap.Total); err != nil {
		return snap, fmt.Errorf("count contracts: %w", err)
	}
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contracts
		 WHERE due_date IS NOT NULL AND due_date BETWEEN CURRENT_DATE AND CURRENT_DATE + 14`,
	).Scan(&snap.DueSoon); err != nil {
		return snap, fmt.Errorf("count due soon: %w", err)
	}

	rows, err := s.pool.Query(ctx, "SELECT state, COUNT(*) FROM contracts GROUP BY state")
	if err != nil {
		return snap, fmt.Errorf("count by state: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return snap, err
		}
		snap.ByState[state] = n
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	srcRows, err := s.pool.Query(ctx, "SELECT source, COUNT(*) FROM contracts GROUP BY source")
	if err != nil {
		return snap, fmt.Errorf("count by source: %w", err)
	}
	defer srcRows.Close()
	for srcRows.Next() {
		var source string
		var n int
		if err := srcRows.Scan(&source, &n); err != nil {
			return snap, err
		}
		snap.BySource[source] = n
	}
	if err := srcRows.Err(); err != nil {
		return snap, err
	}

	err = s.pool.QueryRow(ctx, "SELECT MAX(started_at) FROM scrape_runs").Scan(&snap.LastRunAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return snap, fmt.Errorf("last run: %w", err)
	}
	return snap, nil
}
