// Package strategy evaluates the day-before explosion rule against a
// single bar's indicator snapshot. The rule is pure: every threshold
// comes from the ScanCriteria, nothing is hard-coded here.
package strategy

import "ExplosionRadar/internal/model"

// Evaluate applies the conjunctive explosion rule to one snapshot. It
// returns the display-rounded match record and true on a hit. A snapshot
// with any invalid (insufficient-lookback) field never matches and never
// errors. Comparisons run on the raw values; rounding is applied only
// when the MatchResult is built.
func Evaluate(ticker string, snap *model.IndicatorSnapshot, c model.ScanCriteria) (model.MatchResult, bool) {
	if !snap.Valid() {
		return model.MatchResult{}, false
	}

	diSpread := snap.PlusDI - snap.MinusDI
	pass := snap.Close >= c.MinPrice && snap.Close <= c.MaxPrice &&
		snap.Volume > c.MinVolume &&
		snap.ADX >= c.MinADX &&
		diSpread >= c.MinDISpread &&
		snap.RSI >= c.RSILow && snap.RSI <= c.RSIHigh &&
		snap.PctK > c.KThreshold &&
		snap.PctK > snap.PctD &&
		snap.Volume > c.VolumeSurge*snap.Vol10Avg
	if !pass {
		return model.MatchResult{}, false
	}

	return model.MatchResult{
		Ticker:   ticker,
		Price:    model.Round2(snap.Close),
		ADX:      model.Round2(snap.ADX),
		PlusDI:   model.Round2(snap.PlusDI),
		MinusDI:  model.Round2(snap.MinusDI),
		DIDiff:   model.Round2(diSpread),
		RSI:      model.Round2(snap.RSI),
		PctK:     model.Round2(snap.PctK),
		PctD:     model.Round2(snap.PctD),
		Volume:   int64(snap.Volume),
		Vol10Avg: int64(snap.Vol10Avg),
		VolRatio: model.Round2(snap.Volume / snap.Vol10Avg),
	}, true
}
