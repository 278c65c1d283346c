package recorder

import "ExplosionRadar/internal/model"

// Recorder persists completed scan runs for later analysis. Persistence is
// best-effort: a recorder failure is logged, never escalated into a scan
// failure.
type Recorder interface {
	RecordRun(stats *model.ScanStats, matches []model.MatchResult) error
	Close() error
}
