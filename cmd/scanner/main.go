package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ExplosionRadar/internal/config"
	"ExplosionRadar/internal/exporter"
	"ExplosionRadar/internal/marketdata"
	"ExplosionRadar/internal/notifier"
	"ExplosionRadar/internal/recorder"
	"ExplosionRadar/internal/scanner"
	"ExplosionRadar/internal/scheduler"
	"ExplosionRadar/internal/session"
	"ExplosionRadar/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ExplosionRadar starting...")

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher and resolver
	fetcher := marketdata.NewYahooFetcher(cfg.YahooConfig())
	log.Printf("[INFO] data source: %s", fetcher.Name())
	resolver := universe.NewResolver(cfg.Universe.DatahubURL, cfg.Universe.WikipediaURL, cfg.Proxy)

	// Init scanner
	sc, err := scanner.New(fetcher, session.NewSelector(), cfg.Criteria, cfg.Fetch.LookbackDays)
	if err != nil {
		log.Fatalf("[FATAL] init scanner: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown; cancellation is checked between tickers.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// One-shot mode: no Telegram configured, or forced via RUN_ONCE.
	if cfg.Telegram.BotToken == "" || os.Getenv("RUN_ONCE") == "true" {
		go func() {
			<-sigCh
			log.Println("[INFO] shutdown signal received, stopping after current symbol...")
			cancel()
		}()
		runOnce(ctx, cfg, resolver, sc, rec)
		return
	}

	// Daemon mode: cron-scheduled scans plus Telegram commands.
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	sched := scheduler.NewScheduler(ctx, resolver, sc, tn, rec, cfg.Export.Dir)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] ExplosionRadar is running. Press Ctrl+C to stop.")
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ExplosionRadar stopped")
}

// runOnce performs a single scan and prints the report to the console.
func runOnce(ctx context.Context, cfg *config.Config, resolver *universe.Resolver, sc *scanner.Scanner, rec recorder.Recorder) {
	symbols := resolver.Resolve()
	if len(symbols) == 0 {
		log.Fatal("[FATAL] could not resolve any ticker universe")
	}
	log.Printf("[INFO] scanning %d tickers with explosion criteria", len(symbols))

	matches, stats := sc.Run(ctx, symbols)

	fmt.Println()
	fmt.Printf("Scan complete: %d/%d symbols OK, %d matches\n", stats.Succeeded, stats.Attempted, stats.Matched)
	if stats.Failed > 0 {
		fmt.Printf("Failures: rate-limited %d, missing %d, short history %d, transport %d\n",
			stats.RateLimited, stats.MissingOrDelisted, stats.InsufficientHistory, stats.Transport)
	}
	if stats.NoData() {
		fmt.Println("No data could be fetched for any symbol — check connectivity.")
	}

	if len(matches) > 0 {
		fmt.Printf("\n%-6s %8s %8s %8s %8s %8s %8s %8s %8s %12s %12s %8s\n",
			"Ticker", "Price", "ADX", "+DI", "-DI", "DI_Diff", "RSI", "%K", "%D", "Volume", "Vol10Avg", "VolRatio")
		for _, m := range matches {
			fmt.Printf("%-6s %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f %12d %12d %8.2f\n",
				m.Ticker, m.Price, m.ADX, m.PlusDI, m.MinusDI, m.DIDiff, m.RSI, m.PctK, m.PctD,
				m.Volume, m.Vol10Avg, m.VolRatio)
		}
	} else if !stats.NoData() {
		fmt.Println("No tickers matched the explosion preconditions.")
	}

	if err := rec.RecordRun(stats, matches); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if path, err := exporter.WriteCSV(cfg.Export.Dir, matches, time.Now()); err != nil {
		log.Printf("[ERROR] export csv: %v", err)
	} else if path != "" {
		log.Printf("[INFO] results saved to %s", path)
	}
}
