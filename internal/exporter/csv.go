// Package exporter renders the scan's match records as a CSV file. It is
// presentation only: the record shape comes from the core, nothing is
// recomputed here.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ExplosionRadar/internal/model"
)

var csvHeader = []string{
	"Ticker", "Price", "ADX", "+DI", "-DI", "DI_Diff",
	"RSI", "%K", "%D", "Volume", "Vol10Avg", "Vol_Ratio",
}

// WriteCSV writes the matches to `explosion_signals_YYYYMMDD_HHMM.csv`
// under dir and returns the file path. Nothing is written when there are
// no matches.
func WriteCSV(dir string, matches []model.MatchResult, at time.Time) (string, error) {
	if len(matches) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("explosion_signals_%s.csv", at.Format("20060102_1504")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, m := range matches {
		row := []string{
			m.Ticker,
			fmtFloat(m.Price),
			fmtFloat(m.ADX),
			fmtFloat(m.PlusDI),
			fmtFloat(m.MinusDI),
			fmtFloat(m.DIDiff),
			fmtFloat(m.RSI),
			fmtFloat(m.PctK),
			fmtFloat(m.PctD),
			strconv.FormatInt(m.Volume, 10),
			strconv.FormatInt(m.Vol10Avg, 10),
			fmtFloat(m.VolRatio),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %s: %w", m.Ticker, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
