package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ExplosionRadar/internal/model"
)

func testStats() *model.ScanStats {
	return &model.ScanStats{
		UniverseSize:        503,
		Attempted:           503,
		Succeeded:           498,
		Matched:             2,
		Failed:              5,
		RateLimited:         1,
		MissingOrDelisted:   2,
		InsufficientHistory: 1,
		Transport:           1,
		StartedAt:           time.Date(2025, 3, 11, 17, 30, 0, 0, time.UTC),
		FinishedAt:          time.Date(2025, 3, 11, 17, 42, 0, 0, time.UTC),
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	defer r.Close()

	stats := testStats()
	matches := []model.MatchResult{
		{Ticker: "AAA", Price: 10, ADX: 45, PlusDI: 22, MinusDI: 10, DIDiff: 12,
			RSI: 68, PctK: 75, PctD: 60, Volume: 1000000, Vol10Avg: 400000, VolRatio: 2.5},
		{Ticker: "BBB", Price: 7.5, ADX: 41, PlusDI: 25, MinusDI: 11, DIDiff: 14,
			RSI: 62, PctK: 81, PctD: 70, Volume: 900000, Vol10Avg: 300000, VolRatio: 3},
	}
	require.NoError(t, r.RecordRun(stats, matches))

	got, err := r.LastRun()
	require.NoError(t, err)
	require.Equal(t, stats.UniverseSize, got.UniverseSize)
	require.Equal(t, stats.Succeeded, got.Succeeded)
	require.Equal(t, stats.Matched, got.Matched)
	require.Equal(t, stats.RateLimited, got.RateLimited)
	require.Equal(t, stats.MissingOrDelisted, got.MissingOrDelisted)
	require.False(t, got.Cancelled)
	require.Equal(t, stats.StartedAt.Unix(), got.StartedAt.Unix())

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM scan_matches`).Scan(&count))
	require.Equal(t, 2, count)

	var ratio float64
	require.NoError(t, r.db.QueryRow(
		`SELECT vol_ratio FROM scan_matches WHERE ticker = ?`, "AAA").Scan(&ratio))
	require.Equal(t, 2.5, ratio)
}

func TestSQLiteRecorder_LastRunPicksNewest(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	defer r.Close()

	first := testStats()
	require.NoError(t, r.RecordRun(first, nil))

	second := testStats()
	second.Matched = 9
	second.Cancelled = true
	require.NoError(t, r.RecordRun(second, nil))

	got, err := r.LastRun()
	require.NoError(t, err)
	require.Equal(t, 9, got.Matched)
	require.True(t, got.Cancelled)
}

func TestSQLiteRecorder_EmptyMatchesOK(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordRun(testStats(), nil))

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM scan_matches`).Scan(&count))
	require.Zero(t, count)
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	require.NoError(t, n.RecordRun(testStats(), nil))
	require.NoError(t, n.Close())
}
