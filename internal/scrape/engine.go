package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// perSourceBudget caps how long any single source may run. One slow portal
// must not hold the whole harvest hostage.
const perSourceBudget = 2 * time.Minute

// Engine fans a harvest out across every registered source and merges the
// results. Scrapers are held in priority order; dedup walks them in that
// order so the first (most authoritative) source to claim a
// (state, solicitation number) pair keeps it.
type Engine struct {
	scrapers []Scraper
	filters  Filters
	log      *zap.Logger
}

func NewEngine(scrapers []Scraper, filters Filters, log *zap.Logger) *Engine {
	return &Engine{scrapers: scrapers, filters: filters, log: log}
}

// BuildScrapers constructs one scraper per enabled registry entry. JSON and
// RSS sources share the plain HTTP fetcher; HTML portals go through the
// crawler-backed fetcher, which paces requests per domain.
func BuildScrapers(reg *Registry, log *zap.Logger) ([]Scraper, error) {
	var scrapers []Scraper
	for _, cfg := range reg.Enabled() {
		timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		retries := cfg.Fetch.MaxRetries
		if retries <= 0 {
			retries = 3
		}

		var fetch Fetcher
		if cfg.Format == "html" {
			fetch = NewCollyFetcher(timeout, retries)
		} else {
			policy := DefaultRetryPolicy()
			policy.MaxAttempts = retries
			fetch = NewHTTPFetcher(timeout, policy)
		}

		var s Scraper
		switch cfg.ID {
		case "sam_gov":
			s = NewSamGovScraper(cfg, fetch, log)
		case "eva_virginia":
			s = NewEVAVirginiaScraper(cfg, fetch, log)
		case "tx_smartbuy":
			s = NewTxSmartBuyScraper(cfg, fetch, log)
		case "cal_eprocure":
			s = NewCalEProcureScraper(cfg, fetch, log)
		case "myflorida_vbs":
			s = NewMyFloridaScraper(cfg, fetch, log)
		case "ny_contract_reporter":
			s = NewNYContractReporterScraper(cfg, fetch, log)
		case "demandstar":
			s = NewDemandStarScraper(cfg, fetch, log)
		default:
			return nil, fmt.Errorf("no scraper registered for source %q", cfg.ID)
		}
		scrapers = append(scrapers, s)
	}
	return scrapers, nil
}

// RunAll executes every scraper, in parallel or sequentially, then dedups
// across sources. Results come back in priority order regardless of finish
// order, and a panicking or failing source never takes the run down with it.
func (e *Engine) RunAll(ctx context.Context, parallel bool) ([]models.Contract, []ScraperResult) {
	results := make([]ScraperResult, len(e.scrapers))
	batches := make([][]models.Contract, len(e.scrapers))

	runOne := func(i int, s Scraper) {
		sctx, cancel := context.WithTimeout(ctx, perSourceBudget)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				results[i] = ScraperResult{
					Source:   s.Source(),
					Degraded: true,
					Errors:   []string{fmt.Sprintf("panic: %v", r)},
				}
				e.log.Error("scraper panicked",
					zap.String("source", s.Source()),
					zap.Any("panic", r))
			}
		}()
		results[i], batches[i] = RunScraper(sctx, s, e.filters, e.log)
	}

	if parallel {
		var wg sync.WaitGroup
		for i, s := range e.scrapers {
			wg.Add(1)
			go func(i int, s Scraper) {
				defer wg.Done()
				runOne(i, s)
			}(i, s)
		}
		wg.Wait()
	} else {
		for i, s := range e.scrapers {
			runOne(i, s)
		}
	}

	merged := e.dedup(batches, results)
	return merged, results
}

// dedup merges per-source batches in priority order. The first source to
// claim a (state, solicitation number) key keeps the record; later claims
// are counted against the losing source.
func (e *Engine) dedup(batches [][]models.Contract, results []ScraperResult) []models.Contract {
	seen := make(map[string]string)
	var merged []models.Contract
	for i, batch := range batches {
		for _, rec := range batch {
			key := rec.Key()
			if winner, dup := seen[key]; dup {
				results[i].Duplicates++
				e.log.Debug("duplicate discarded",
					zap.String("key", key),
					zap.String("kept_source", winner),
					zap.String("dropped_source", rec.Source))
				continue
			}
			seen[key] = rec.Source
			merged = append(merged, rec)
		}
	}
	return merged
}

// Summarize rolls per-source results and the merged record set into one run
// summary.
func Summarize(records []models.Contract, results []ScraperResult, startedAt time.Time) models.RunSummary {
	sum := models.RunSummary{
		RecordsFound: len(records),
		PerSource:    make(map[string]models.SourceStats, len(results)),
		PerState:     make(map[string]int),
		StartedAt:    startedAt,
	}
	for _, res := range results {
		sum.DuplicatesRemoved += res.Duplicates
		if res.Degraded {
			sum.DegradedSources = append(sum.DegradedSources, res.Source)
		}
		sum.PerSource[res.Source] = models.SourceStats{
			Raw:        res.RawCount,
			Matched:    res.MatchedCount,
			Normalized: res.NormalizedCount,
			Duplicates: res.Duplicates,
			Degraded:   res.Degraded,
			Errors:     res.Errors,
			Warnings:   res.Warnings,
			DurationMS: res.DurationMS,
		}
	}
	for _, rec := range records {
		sum.PerState[rec.State]++
	}
	sum.DurationMS = time.Since(startedAt).Milliseconds()
	return sum
}
