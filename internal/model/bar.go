package model

import (
	"fmt"
	"time"
)

// MinBars is the minimum series length required before any indicator
// evaluation is meaningful. Shorter series are rejected at fetch time.
const MinBars = 20

// Bar represents one trading day's candlestick. Immutable once fetched.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// ValidateSeries checks the BarSeries invariant: strictly increasing dates.
func ValidateSeries(bars []Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return fmt.Errorf("bar series not strictly ascending at index %d (%s >= %s)",
				i, bars[i-1].Date.Format("2006-01-02"), bars[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}
