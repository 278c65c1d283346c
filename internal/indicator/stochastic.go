package indicator

import (
	"errors"
	"math"
)

// StochasticSeries computes the fast stochastic oscillator:
// %K = 100 * (close - lowest low) / (highest high - lowest low) over
// `window` bars, and %D as a smooth-period simple moving average of %K.
// %K is valid from index window-1, %D once `smooth` %K values exist.
// A flat window (highest high == lowest low) yields NaN for that position
// rather than a fabricated 0 or 100.
func StochasticSeries(highs, lows, closes []float64, window, smooth int) (pctK, pctD []float64, err error) {
	if window <= 0 || smooth <= 0 {
		return nil, nil, errors.New("window and smooth must be positive")
	}
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return nil, nil, errors.New("high/low/close length mismatch")
	}
	n := len(closes)
	pctK, pctD = nanSlice(n), nanSlice(n)

	for i := window - 1; i < n; i++ {
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - window + 1; j <= i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			continue
		}
		pctK[i] = 100 * (closes[i] - ll) / (hh - ll)
	}

	for i := window - 2 + smooth; i < n; i++ {
		sum := 0.0
		valid := true
		for j := i - smooth + 1; j <= i; j++ {
			if math.IsNaN(pctK[j]) {
				valid = false
				break
			}
			sum += pctK[j]
		}
		if valid {
			pctD[i] = sum / float64(smooth)
		}
	}
	return pctK, pctD, nil
}
