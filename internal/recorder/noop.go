package recorder

import "ExplosionRadar/internal/model"

// NoopRecorder discards everything. Used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) RecordRun(*model.ScanStats, []model.MatchResult) error { return nil }
func (*NoopRecorder) Close() error                                          { return nil }
