package model

import (
	"math"
	"time"
)

// IndicatorSnapshot holds the derived values for a single bar. Fields are
// NaN until the corresponding indicator's lookback is satisfied; such a
// snapshot must never be evaluated as if the values were zero.
type IndicatorSnapshot struct {
	Date   time.Time
	Close  float64
	Volume float64

	RSI      float64
	ADX      float64
	PlusDI   float64
	MinusDI  float64
	PctK     float64
	PctD     float64
	Vol10Avg float64
}

// Valid reports whether every indicator field carries a real value.
func (s *IndicatorSnapshot) Valid() bool {
	for _, v := range []float64{s.RSI, s.ADX, s.PlusDI, s.MinusDI, s.PctK, s.PctD, s.Vol10Avg} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
