package indicator

import (
	"fmt"

	"ExplosionRadar/internal/model"
)

// Default lookbacks, matching the conventional indicator parameters the
// explosion rule was tuned against.
const (
	RSIPeriod       = 14
	ADXPeriod       = 14
	StochWindow     = 14
	StochSmooth     = 3
	VolumeAvgWindow = 10
)

// Compute derives one IndicatorSnapshot per bar, aligned with the input
// series. Leading snapshots carry NaN fields until each indicator's
// lookback is satisfied; callers must check Valid() before evaluating.
func Compute(bars []model.Bar) ([]model.IndicatorSnapshot, error) {
	if err := model.ValidateSeries(bars); err != nil {
		return nil, err
	}

	n := len(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	rsi, err := RSISeries(closes, RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	adx, plusDI, minusDI, err := ADXSeries(highs, lows, closes, ADXPeriod)
	if err != nil {
		return nil, fmt.Errorf("adx: %w", err)
	}
	pctK, pctD, err := StochasticSeries(highs, lows, closes, StochWindow, StochSmooth)
	if err != nil {
		return nil, fmt.Errorf("stochastic: %w", err)
	}
	vol10, err := SMASeries(volumes, VolumeAvgWindow)
	if err != nil {
		return nil, fmt.Errorf("volume average: %w", err)
	}

	snaps := make([]model.IndicatorSnapshot, n)
	for i := range bars {
		snaps[i] = model.IndicatorSnapshot{
			Date:     bars[i].Date,
			Close:    closes[i],
			Volume:   volumes[i],
			RSI:      rsi[i],
			ADX:      adx[i],
			PlusDI:   plusDI[i],
			MinusDI:  minusDI[i],
			PctK:     pctK[i],
			PctD:     pctD[i],
			Vol10Avg: vol10[i],
		}
	}
	return snaps, nil
}
