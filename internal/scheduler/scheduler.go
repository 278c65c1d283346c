// Package scheduler runs scans on a cron schedule in daemon mode and
// serves the manual trigger and status commands.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ExplosionRadar/internal/exporter"
	"ExplosionRadar/internal/model"
	"ExplosionRadar/internal/notifier"
	"ExplosionRadar/internal/recorder"
	"ExplosionRadar/internal/scanner"
	"ExplosionRadar/internal/universe"
)

// Scheduler wires the scan pipeline to a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Resolver  *universe.Resolver
	Scanner   *scanner.Scanner
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	ExportDir string
	Ctx       context.Context

	mu          sync.Mutex
	running     bool
	lastStats   *model.ScanStats
	lastMatches []model.MatchResult
}

// NewScheduler creates a scheduler. Notifier may be nil (no Telegram).
func NewScheduler(ctx context.Context, res *universe.Resolver, sc *scanner.Scanner,
	tn *notifier.TelegramNotifier, rec recorder.Recorder, exportDir string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Resolver:  res,
		Scanner:   sc,
		Notifier:  tn,
		Recorder:  rec,
		ExportDir: exportDir,
		Ctx:       ctx,
	}
}

// Register schedules the scan task.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[WARN] scan already in progress, skipping trigger")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Println("[INFO] running scan")
	symbols := s.Resolver.Resolve()
	if len(symbols) == 0 {
		// The chain ends with an embedded constant list; an empty universe
		// means the resolver itself is broken.
		log.Println("[ERROR] empty scan universe, aborting run")
		s.trySend("❌ Scan aborted: could not resolve any ticker universe.")
		return
	}

	matches, stats := s.Scanner.Run(s.Ctx, symbols)

	s.mu.Lock()
	s.lastStats = stats
	s.lastMatches = matches
	s.mu.Unlock()

	s.trySend(notifier.FormatScanReport(stats, matches))

	if err := s.Recorder.RecordRun(stats, matches); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if s.ExportDir != "" {
		path, err := exporter.WriteCSV(s.ExportDir, matches, time.Now())
		if err != nil {
			log.Printf("[ERROR] export csv: %v", err)
		} else if path != "" {
			log.Printf("[INFO] results saved to %s", path)
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		go s.scanTask()
		return "🔎 Scan started."
	case "/last":
		s.mu.Lock()
		stats, matches := s.lastStats, s.lastMatches
		s.mu.Unlock()
		if stats == nil {
			return "No scan has completed yet."
		}
		return notifier.FormatScanReport(stats, matches)
	default:
		return "Commands:\n• /scan — run a scan now\n• /last — last run's report"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
