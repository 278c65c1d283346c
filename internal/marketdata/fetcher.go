package marketdata

import (
	"context"
	"fmt"

	"ExplosionRadar/internal/model"
)

// Fetcher defines the interface for fetching historical daily bars.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, days int) ([]model.Bar, error)
	Name() string
}

// FetchError is a typed per-symbol failure. The orchestrator records the
// reason in the run stats and moves on; no fetch failure aborts a scan.
type FetchError struct {
	Symbol string
	Reason model.FailReason
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Symbol, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }
