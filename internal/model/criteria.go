package model

import "fmt"

// ScanCriteria holds the explosion-setup thresholds. Created once per run
// and never mutated; the evaluator carries no thresholds of its own.
type ScanCriteria struct {
	MinPrice    float64 `yaml:"min_price"`
	MaxPrice    float64 `yaml:"max_price"`
	MinVolume   float64 `yaml:"min_volume"`
	MinADX      float64 `yaml:"min_adx"`
	MinDISpread float64 `yaml:"di_spread_min"`
	RSILow      float64 `yaml:"rsi_low"`
	RSIHigh     float64 `yaml:"rsi_high"`
	KThreshold  float64 `yaml:"k_threshold"`
	VolumeSurge float64 `yaml:"volume_surge"`
}

// DefaultCriteria returns the reference thresholds for the day-before
// explosion setup.
func DefaultCriteria() ScanCriteria {
	return ScanCriteria{
		MinPrice:    3,
		MaxPrice:    15,
		MinVolume:   500000,
		MinADX:      40,
		MinDISpread: 10,
		RSILow:      60,
		RSIHigh:     75,
		KThreshold:  70,
		VolumeSurge: 2.0,
	}
}

// Validate rejects configurations that can never match anything sensibly.
// Called before a run starts; a bad criteria set is a caller error, not a
// scan failure.
func (c ScanCriteria) Validate() error {
	if c.MinPrice < 0 || c.MaxPrice <= 0 {
		return fmt.Errorf("price band must be positive (min=%.2f max=%.2f)", c.MinPrice, c.MaxPrice)
	}
	if c.MinPrice > c.MaxPrice {
		return fmt.Errorf("min_price %.2f exceeds max_price %.2f", c.MinPrice, c.MaxPrice)
	}
	if c.RSILow > c.RSIHigh {
		return fmt.Errorf("rsi_low %.1f exceeds rsi_high %.1f", c.RSILow, c.RSIHigh)
	}
	if c.RSILow < 0 || c.RSIHigh > 100 {
		return fmt.Errorf("rsi band must stay within 0-100 (low=%.1f high=%.1f)", c.RSILow, c.RSIHigh)
	}
	if c.MinVolume < 0 {
		return fmt.Errorf("min_volume must be non-negative, got %.0f", c.MinVolume)
	}
	if c.VolumeSurge < 0 {
		return fmt.Errorf("volume_surge must be non-negative, got %.2f", c.VolumeSurge)
	}
	return nil
}
