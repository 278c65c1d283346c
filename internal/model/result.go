package model

import (
	"math"
	"time"
)

// FailReason classifies why a symbol could not be scanned.
type FailReason string

const (
	FailRateLimited         FailReason = "RateLimited"
	FailMissingOrDelisted   FailReason = "MissingOrDelisted"
	FailInsufficientHistory FailReason = "InsufficientHistory"
	FailTransport           FailReason = "Transport"
)

// MatchResult is one positive scan hit, rounded for display. The field set
// is part of the core's output contract: presentation layers render it as
// a table, CSV, or message without recomputing anything.
type MatchResult struct {
	Ticker   string
	Price    float64
	ADX      float64
	PlusDI   float64
	MinusDI  float64
	DIDiff   float64
	RSI      float64
	PctK     float64
	PctD     float64
	Volume   int64
	Vol10Avg int64
	VolRatio float64
}

// Round2 rounds to two decimal places, the display precision for all
// non-volume metrics.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScanStats aggregates per-run counters. Owned and mutated exclusively by
// the orchestrator during a run, finalized at run end.
type ScanStats struct {
	UniverseSize int
	Attempted    int
	Succeeded    int
	Matched      int
	Failed       int

	RateLimited         int
	MissingOrDelisted   int
	InsufficientHistory int
	Transport           int

	Cancelled  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// RecordFailure bumps the aggregate and per-reason failure counters.
func (s *ScanStats) RecordFailure(reason FailReason) {
	s.Failed++
	switch reason {
	case FailRateLimited:
		s.RateLimited++
	case FailMissingOrDelisted:
		s.MissingOrDelisted++
	case FailInsufficientHistory:
		s.InsufficientHistory++
	case FailTransport:
		s.Transport++
	}
}

// NoData reports whether the run failed to obtain usable data for every
// attempted symbol. A zero-match run with NoData()==false is a normal
// outcome; NoData()==true points at a provider or connectivity problem.
func (s *ScanStats) NoData() bool {
	return s.Attempted > 0 && s.Succeeded == 0
}
