package notifier

import (
	"fmt"
	"strings"
	"time"

	"ExplosionRadar/internal/model"
)

// FormatScanReport formats a completed run into a Telegram message.
func FormatScanReport(stats *model.ScanStats, matches []model.MatchResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🚨 <b>ExplosionRadar scan</b> | %s\n\n", stats.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(FormatStats(stats))

	if stats.NoData() {
		b.WriteString("\n❌ No data could be fetched for any symbol — check connectivity or provider status.\n")
		return b.String()
	}
	if len(matches) == 0 {
		b.WriteString("\n🚫 No tickers matched the explosion preconditions.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("\n✅ <b>%d explosion candidates:</b>\n", len(matches)))
	for _, m := range matches {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> @ %.2f\n", m.Ticker, m.Price))
		b.WriteString(fmt.Sprintf("  ADX %.2f | DI diff %.2f | RSI %.2f\n", m.ADX, m.DIDiff, m.RSI))
		b.WriteString(fmt.Sprintf("  %%K %.2f > %%D %.2f | Vol %d (%.2fx avg)\n", m.PctK, m.PctD, m.Volume, m.VolRatio))
	}
	return b.String()
}

// FormatStats formats run counters, distinguishing a clean zero-match run
// from one that could not obtain data.
func FormatStats(stats *model.ScanStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Universe: %d | Scanned: %d | OK: %d | Matches: %d\n",
		stats.UniverseSize, stats.Attempted, stats.Succeeded, stats.Matched))
	if stats.Failed > 0 {
		b.WriteString(fmt.Sprintf("Failures: %d (rate-limited %d, missing %d, short history %d, transport %d)\n",
			stats.Failed, stats.RateLimited, stats.MissingOrDelisted,
			stats.InsufficientHistory, stats.Transport))
	}
	if stats.Cancelled {
		b.WriteString("⚠️ Run was cancelled before completing.\n")
	}
	b.WriteString(fmt.Sprintf("Duration: %s\n", stats.FinishedAt.Sub(stats.StartedAt).Round(time.Second)))
	return b.String()
}
