package indicator

import (
	"errors"
	"math"
)

// ADXSeries computes Wilder's directional movement family: +DI, -DI and
// ADX, each aligned with the input bars. +DI/-DI become valid once a full
// period of true ranges has been smoothed (index >= period); ADX needs a
// further period of DX values (index >= 2*period-1). Earlier positions
// are NaN.
func ADXSeries(highs, lows, closes []float64, period int) (adx, plusDI, minusDI []float64, err error) {
	if period <= 0 {
		return nil, nil, nil, errors.New("period must be positive")
	}
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return nil, nil, nil, errors.New("high/low/close length mismatch")
	}
	n := len(closes)
	adx, plusDI, minusDI = nanSlice(n), nanSlice(n), nanSlice(n)
	if n < period+1 {
		return adx, plusDI, minusDI, nil
	}

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))

		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	// Wilder smoothing: seed with the sum of the first period values,
	// then smoothed = smoothed - smoothed/period + current.
	var smTR, smPlusDM, smMinusDM float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlusDM += plusDM[i]
		smMinusDM += minusDM[i]
	}

	dx := nanSlice(n)
	for i := period; i < n; i++ {
		if i > period {
			smTR = smTR - smTR/float64(period) + tr[i]
			smPlusDM = smPlusDM - smPlusDM/float64(period) + plusDM[i]
			smMinusDM = smMinusDM - smMinusDM/float64(period) + minusDM[i]
		}
		if smTR == 0 {
			continue // flat window, directional movement undefined
		}
		p := 100 * smPlusDM / smTR
		m := 100 * smMinusDM / smTR
		plusDI[i] = p
		minusDI[i] = m
		if p+m > 0 {
			dx[i] = 100 * math.Abs(p-m) / (p + m)
		}
	}

	// First ADX is the simple mean of the first period DX values, Wilder
	// smoothing afterwards.
	first := 2*period - 1
	if n <= first {
		return adx, plusDI, minusDI, nil
	}
	var sum float64
	for i := period; i <= first; i++ {
		sum += dx[i]
	}
	adx[first] = sum / float64(period)
	for i := first + 1; i < n; i++ {
		adx[i] = (adx[i-1]*float64(period-1) + dx[i]) / float64(period)
	}
	return adx, plusDI, minusDI, nil
}
