package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ExplosionRadar/internal/model"
)

// SQLiteRecorder persists scan runs and their matches to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scanner writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at           INTEGER NOT NULL,
			finished_at          INTEGER NOT NULL,
			universe_size        INTEGER,
			attempted            INTEGER,
			succeeded            INTEGER,
			matched              INTEGER,
			failed               INTEGER,
			rate_limited         INTEGER,
			missing_or_delisted  INTEGER,
			insufficient_history INTEGER,
			transport            INTEGER,
			cancelled            INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS scan_matches (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    INTEGER NOT NULL REFERENCES scan_runs(id),
			ticker    TEXT NOT NULL,
			price     REAL,
			adx       REAL,
			plus_di   REAL,
			minus_di  REAL,
			di_diff   REAL,
			rsi       REAL,
			pct_k     REAL,
			pct_d     REAL,
			volume    INTEGER,
			vol10avg  INTEGER,
			vol_ratio REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run ON scan_matches(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_ticker ON scan_matches(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run's stats row and one row per match, atomically.
func (r *SQLiteRecorder) RecordRun(stats *model.ScanStats, matches []model.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	cancelled := 0
	if stats.Cancelled {
		cancelled = 1
	}
	res, err := tx.Exec(`INSERT INTO scan_runs
		(started_at, finished_at, universe_size, attempted, succeeded, matched,
		 failed, rate_limited, missing_or_delisted, insufficient_history, transport, cancelled)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		stats.StartedAt.Unix(), stats.FinishedAt.Unix(), stats.UniverseSize,
		stats.Attempted, stats.Succeeded, stats.Matched,
		stats.Failed, stats.RateLimited, stats.MissingOrDelisted,
		stats.InsufficientHistory, stats.Transport, cancelled,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, m := range matches {
		if _, err := tx.Exec(`INSERT INTO scan_matches
			(run_id, ticker, price, adx, plus_di, minus_di, di_diff, rsi, pct_k, pct_d, volume, vol10avg, vol_ratio)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, m.Ticker, m.Price, m.ADX, m.PlusDI, m.MinusDI, m.DIDiff,
			m.RSI, m.PctK, m.PctD, m.Volume, m.Vol10Avg, m.VolRatio,
		); err != nil {
			return fmt.Errorf("insert match %s: %w", m.Ticker, err)
		}
	}
	return tx.Commit()
}

// LastRun loads the most recent run's stats, for status commands.
func (r *SQLiteRecorder) LastRun() (*model.ScanStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.db.QueryRow(`SELECT started_at, finished_at, universe_size, attempted,
		succeeded, matched, failed, rate_limited, missing_or_delisted,
		insufficient_history, transport, cancelled
		FROM scan_runs ORDER BY id DESC LIMIT 1`)

	var s model.ScanStats
	var started, finished int64
	var cancelled int
	if err := row.Scan(&started, &finished, &s.UniverseSize, &s.Attempted,
		&s.Succeeded, &s.Matched, &s.Failed, &s.RateLimited, &s.MissingOrDelisted,
		&s.InsufficientHistory, &s.Transport, &cancelled); err != nil {
		return nil, err
	}
	s.StartedAt = time.Unix(started, 0)
	s.FinishedAt = time.Unix(finished, 0)
	s.Cancelled = cancelled != 0
	return &s, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
