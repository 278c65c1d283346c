package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"ExplosionRadar/internal/marketdata"
	"ExplosionRadar/internal/model"
	"ExplosionRadar/internal/session"
)

// testClock is an evening after the close, the day after the last test bar.
var testClock = time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC)

// breakoutBars builds a sawtooth series whose last bar jumps up on the same
// volume. The jump pushes %K above %D and above any loose threshold while
// keeping every indicator window well-formed.
func breakoutBars(base float64, jump bool) []model.Bar {
	const n = 30
	end := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		c := base + float64(i%5)*base*0.01
		if jump && i == n-1 {
			c = base * 1.2
		}
		bars[i] = model.Bar{
			Date:   end.AddDate(0, 0, i-(n-1)),
			Open:   c,
			High:   c + base*0.01,
			Low:    c - base*0.01,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}

// looseCriteria passes anything with a valid snapshot, a rising %K and a
// price inside 1..1000.
func looseCriteria() model.ScanCriteria {
	return model.ScanCriteria{
		MinPrice:    1,
		MaxPrice:    1000,
		MinVolume:   0,
		MinADX:      0,
		MinDISpread: -100,
		RSILow:      0,
		RSIHigh:     100,
		KThreshold:  0,
		VolumeSurge: 0,
	}
}

func newTestScanner(t *testing.T, fetcher marketdata.Fetcher) *Scanner {
	t.Helper()
	sc, err := New(fetcher, session.NewSelector(), looseCriteria(), 30)
	if err != nil {
		t.Fatal(err)
	}
	sc.Now = func() time.Time { return testClock }
	return sc
}

func TestNew_RejectsBadInput(t *testing.T) {
	bad := looseCriteria()
	bad.MinPrice = 50
	bad.MaxPrice = 10
	if _, err := New(&marketdata.MockFetcher{}, session.NewSelector(), bad, 30); err == nil {
		t.Error("expected error for inverted price band")
	}
	if _, err := New(&marketdata.MockFetcher{}, session.NewSelector(), looseCriteria(), 10); err == nil {
		t.Error("expected error for lookback below the minimum bar count")
	}
}

func TestRun_MatchesKeepUniverseOrder(t *testing.T) {
	fetcher := &marketdata.MockFetcher{
		Bars: map[string][]model.Bar{
			"AAA": breakoutBars(10, true),
			"CCC": breakoutBars(2000, true), // out of the price band
			"BBB": breakoutBars(10, true),
		},
	}
	sc := newTestScanner(t, fetcher)

	matches, stats := sc.Run(context.Background(), []string{"AAA", "CCC", "BBB"})

	if stats.UniverseSize != 3 || stats.Attempted != 3 || stats.Succeeded != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Failed != 0 || stats.Cancelled {
		t.Fatalf("unexpected failures: %+v", stats)
	}
	if len(matches) != 2 || stats.Matched != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Ticker != "AAA" || matches[1].Ticker != "BBB" {
		t.Errorf("matches out of universe order: %s, %s", matches[0].Ticker, matches[1].Ticker)
	}
	if matches[0].VolRatio != 1.0 {
		t.Errorf("vol ratio = %f, want 1.0 for constant volume", matches[0].VolRatio)
	}
	if matches[0].Price != 12.0 {
		t.Errorf("price = %f, want the jump close 12.0", matches[0].Price)
	}
}

func TestRun_NoJumpNoSurgeStillSucceeds(t *testing.T) {
	criteria := looseCriteria()
	criteria.VolumeSurge = 2.0 // constant volume can never double its average
	fetcher := &marketdata.MockFetcher{
		Bars: map[string][]model.Bar{"AAA": breakoutBars(10, true)},
	}
	sc, err := New(fetcher, session.NewSelector(), criteria, 30)
	if err != nil {
		t.Fatal(err)
	}
	sc.Now = func() time.Time { return testClock }

	matches, stats := sc.Run(context.Background(), []string{"AAA"})
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
	if stats.Succeeded != 1 || stats.NoData() {
		t.Errorf("a zero-match symbol still counts as succeeded: %+v", stats)
	}
}

func TestRun_FailureAccounting(t *testing.T) {
	fetcher := &marketdata.MockFetcher{
		Errs: map[string]error{
			"RL":  &marketdata.FetchError{Symbol: "RL", Reason: model.FailRateLimited},
			"MD":  &marketdata.FetchError{Symbol: "MD", Reason: model.FailMissingOrDelisted},
			"IH":  &marketdata.FetchError{Symbol: "IH", Reason: model.FailInsufficientHistory},
			"TR":  &marketdata.FetchError{Symbol: "TR", Reason: model.FailTransport},
			"RAW": errors.New("connection reset"), // untyped errors count as transport
		},
	}
	sc := newTestScanner(t, fetcher)

	matches, stats := sc.Run(context.Background(), []string{"RL", "MD", "IH", "TR", "RAW"})

	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
	if stats.Attempted != 5 || stats.Failed != 5 || stats.Succeeded != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.RateLimited != 1 || stats.MissingOrDelisted != 1 || stats.InsufficientHistory != 1 || stats.Transport != 2 {
		t.Errorf("per-reason counters wrong: %+v", stats)
	}
	if !stats.NoData() {
		t.Error("all-failed run must report NoData")
	}
	if stats.Cancelled {
		t.Error("failures must not flag the run as cancelled")
	}
}

func TestRun_FailureDoesNotAbort(t *testing.T) {
	fetcher := &marketdata.MockFetcher{
		Bars: map[string][]model.Bar{"OK": breakoutBars(10, true)},
		Errs: map[string]error{
			"BAD": &marketdata.FetchError{Symbol: "BAD", Reason: model.FailMissingOrDelisted},
		},
	}
	sc := newTestScanner(t, fetcher)

	matches, stats := sc.Run(context.Background(), []string{"BAD", "OK"})
	if stats.Attempted != 2 || stats.Succeeded != 1 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(matches) != 1 || matches[0].Ticker != "OK" {
		t.Fatalf("expected OK to match after BAD failed, got %v", matches)
	}
}

func TestRun_CancellationBetweenTickers(t *testing.T) {
	fetcher := &marketdata.MockFetcher{
		Bars: map[string][]model.Bar{
			"AAA": breakoutBars(10, true),
			"BBB": breakoutBars(10, true),
			"CCC": breakoutBars(10, true),
		},
	}
	sc := newTestScanner(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	sc.Progress = func(done, total, matches int) {
		if done == 1 {
			cancel()
		}
	}

	matches, stats := sc.Run(ctx, []string{"AAA", "BBB", "CCC"})

	if !stats.Cancelled {
		t.Fatal("expected the run to be flagged cancelled")
	}
	if stats.Attempted != 1 || stats.Succeeded != 1 {
		t.Errorf("expected exactly one symbol processed, stats = %+v", stats)
	}
	if len(matches) != 1 {
		t.Errorf("partial results must be kept, got %d matches", len(matches))
	}
	if stats.FinishedAt.IsZero() {
		t.Error("cancelled run must still be finalized")
	}
}

func TestRun_ProgressHookEverySymbol(t *testing.T) {
	fetcher := &marketdata.MockFetcher{
		Bars: map[string][]model.Bar{
			"AAA": breakoutBars(10, false),
			"BBB": breakoutBars(10, false),
			"CCC": breakoutBars(10, false),
		},
	}
	sc := newTestScanner(t, fetcher)

	var calls []int
	sc.Progress = func(done, total, matches int) {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		calls = append(calls, done)
	}

	sc.Run(context.Background(), []string{"AAA", "BBB", "CCC"})

	if len(calls) != 3 {
		t.Fatalf("progress called %d times, want 3", len(calls))
	}
	for i, done := range calls {
		if done != i+1 {
			t.Errorf("call %d reported done=%d", i, done)
		}
	}
}
