// Package scanner drives the per-ticker scan loop: fetch, derive
// indicators, pick the most recent closed session, evaluate the explosion
// rule, and aggregate matches and failure statistics.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ExplosionRadar/internal/indicator"
	"ExplosionRadar/internal/marketdata"
	"ExplosionRadar/internal/model"
	"ExplosionRadar/internal/session"
	"ExplosionRadar/internal/strategy"
)

// progressLogEvery is the console progress cadence from the reference
// scanner; the Progress hook itself fires on every symbol.
const progressLogEvery = 50

// ProgressFunc is invoked between ticker iterations with the number of
// symbols processed, the universe size, and the matches so far.
type ProgressFunc func(done, total, matches int)

// Scanner holds everything a run needs. All run state lives in the Run
// call itself, so independent scans (and tests) never interfere.
type Scanner struct {
	Fetcher      marketdata.Fetcher
	Selector     *session.Selector
	Criteria     model.ScanCriteria
	LookbackDays int
	Progress     ProgressFunc

	// Now is the clock used for closed-session selection; defaults to
	// time.Now.
	Now func() time.Time
}

// New validates the criteria up front: a bad threshold set is a caller
// error and must be rejected before any fetching starts.
func New(fetcher marketdata.Fetcher, sel *session.Selector, criteria model.ScanCriteria, lookbackDays int) (*Scanner, error) {
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("scan criteria: %w", err)
	}
	if lookbackDays < model.MinBars {
		return nil, fmt.Errorf("lookback of %d days cannot yield %d bars", lookbackDays, model.MinBars)
	}
	return &Scanner{
		Fetcher:      fetcher,
		Selector:     sel,
		Criteria:     criteria,
		LookbackDays: lookbackDays,
		Now:          time.Now,
	}, nil
}

// Run scans the universe strictly sequentially. Per-symbol failures are
// recorded in the stats and never abort the run; cancellation is checked
// between tickers only and returns whatever has accumulated, flagged as
// cancelled rather than failed.
func (s *Scanner) Run(ctx context.Context, universe []string) ([]model.MatchResult, *model.ScanStats) {
	stats := &model.ScanStats{
		UniverseSize: len(universe),
		StartedAt:    s.now(),
	}
	var matches []model.MatchResult

	for i, symbol := range universe {
		if ctx.Err() != nil {
			stats.Cancelled = true
			log.Printf("[INFO] scan cancelled after %d/%d symbols", i, len(universe))
			break
		}
		if i%progressLogEvery == 0 && i > 0 {
			log.Printf("[INFO] progress: %d/%d (%.1f%%), %d matches",
				i, len(universe), float64(i)/float64(len(universe))*100, len(matches))
		}

		stats.Attempted++
		if s.scanOne(ctx, symbol, stats, &matches) {
			stats.Succeeded++
		}

		if s.Progress != nil {
			s.Progress(i+1, len(universe), len(matches))
		}
	}

	stats.Matched = len(matches)
	stats.FinishedAt = s.now()
	return matches, stats
}

// scanOne processes a single symbol and reports whether usable data was
// obtained (independent of whether it matched).
func (s *Scanner) scanOne(ctx context.Context, symbol string, stats *model.ScanStats, matches *[]model.MatchResult) bool {
	bars, err := s.Fetcher.FetchDaily(ctx, symbol, s.LookbackDays)
	if err != nil {
		reason := model.FailTransport
		var fe *marketdata.FetchError
		if errors.As(err, &fe) {
			reason = fe.Reason
		}
		stats.RecordFailure(reason)
		log.Printf("[WARN] %s: fetch failed (%s): %v", symbol, reason, err)
		return false
	}

	snaps, err := indicator.Compute(bars)
	if err != nil {
		// A series violating its own invariants is malformed provider data.
		stats.RecordFailure(model.FailMissingOrDelisted)
		log.Printf("[WARN] %s: indicator computation rejected series: %v", symbol, err)
		return false
	}

	idx, ok := s.Selector.MostRecentClosed(bars, s.now())
	if !ok {
		stats.RecordFailure(model.FailInsufficientHistory)
		log.Printf("[WARN] %s: no fully closed session in series", symbol)
		return false
	}

	if result, hit := strategy.Evaluate(symbol, &snaps[idx], s.Criteria); hit {
		*matches = append(*matches, result)
		log.Printf("[INFO] explosion setup found: %s (price=%.2f adx=%.2f rsi=%.2f volx=%.2f)",
			symbol, result.Price, result.ADX, result.RSI, result.VolRatio)
	}
	return true
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
