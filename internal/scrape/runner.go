package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/models"
)

// RunScraper drives one source through fetch, parse and normalize, keeping
// whatever it can salvage. A fetch error after some pages arrived, or a parse
// error on one page, degrades the result without discarding the good pages.
func RunScraper(ctx context.Context, s Scraper, f Filters, log *zap.Logger) (ScraperResult, []models.Contract) {
	started := time.Now()
	res := ScraperResult{Source: s.Source()}

	pages, err := s.FetchRaw(ctx, f)
	if err != nil {
		res.Degraded = true
		res.Errors = append(res.Errors, err.Error())
		log.Warn("fetch failed",
			zap.String("source", res.Source),
			zap.Int("pages_kept", len(pages)),
			zap.Error(err))
	}

	var records []models.Contract
	for i, page := range pages {
		listings, perr := s.Parse(page)
		if perr != nil {
			res.Degraded = true
			res.Errors = append(res.Errors, perr.Error())
			log.Warn("parse failed",
				zap.String("source", res.Source),
				zap.Int("page", i),
				zap.Error(perr))
			continue
		}
		res.RawCount += len(listings)

		for _, raw := range listings {
			if !MatchesKeywords(raw.Title, raw.Description) {
				continue
			}
			res.MatchedCount++
			if rec := s.Normalize(raw); rec != nil {
				records = append(records, *rec)
			}
		}
	}
	res.NormalizedCount = len(records)

	if err == nil && res.RawCount == 0 {
		// A healthy fetch with nothing in it usually means the portal changed
		// its markup or parameters, not that the market dried up.
		res.Warnings = append(res.Warnings, "zero_results")
		log.Warn("source returned no listings", zap.String("source", res.Source))
	}

	res.Duration = time.Since(started)
	res.DurationMS = res.Duration.Milliseconds()

	log.Info("source finished",
		zap.String("source", res.Source),
		zap.Int("raw", res.RawCount),
		zap.Int("matched", res.MatchedCount),
		zap.Int("normalized", res.NormalizedCount),
		zap.Bool("degraded", res.Degraded),
		zap.Duration("took", res.Duration))

	return res, records
}
