package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"HistoFetch/internal/collector"
	"HistoFetch/internal/config"
	"HistoFetch/internal/model"
	"HistoFetch/internal/notifier"
	"HistoFetch/internal/recorder"
	"HistoFetch/internal/scheduler"
	"HistoFetch/internal/writer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] HistoFetch starting...")

	cfgPath := flag.String("config", "", "path to config file (default configs/config.yaml)")
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot mode: single fetch ending at the configured end date.
	if cfg.Schedule.Cron == "" {
		end, err := cfg.EndTime()
		if err != nil {
			log.Fatalf("[FATAL] end date: %v", err)
		}
		if err := runFetch(ctx, cfg, rec, end); err != nil {
			log.Printf("[ERROR] fetch: %v", err)
			os.Exit(1)
		}
		log.Println("[INFO] done")
		return
	}

	// Scheduled refresh mode: re-fetch on the cron spec with end date = now.
	tn := notifier.NewTelegramNotifier(cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID, cfg.Proxy)
	sched := scheduler.NewScheduler(func() {
		if err := runFetch(ctx, cfg, rec, time.Now().UTC()); err != nil {
			log.Printf("[ERROR] scheduled fetch: %v", err)
			if tn.Enabled() {
				if nerr := tn.SendWithRetry(ctx, fmt.Sprintf("HistoFetch run failed: %v", err), 3); nerr != nil {
					log.Printf("[ERROR] send notification: %v", nerr)
				}
			}
		}
	})
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutting down")
}

// runFetch performs one full fetch-and-write cycle. Symbols fail
// independently: successful series are still written and recorded, and the
// returned error names the symbols that failed.
func runFetch(ctx context.Context, cfg *config.Config, rec recorder.Recorder, end time.Time) error {
	tick := cfg.TickSize()
	src := collector.NewCryptoCompareSource(cfg.API.BaseURL, cfg.API.Key, cfg.Fetch.Currency, tick, cfg.Proxy)
	col := collector.NewCollector(src, cfg.Fetch.Symbols, cfg.Fetch.Currency, tick, end, cfg.Fetch.Lookback)

	rs, reports := col.Fetch(ctx)

	var failed []string
	for _, rep := range reports {
		status := "OK"
		errText := ""
		if rep.Err != nil {
			status = "FAILED"
			errText = rep.Err.Error()
			failed = append(failed, rep.Symbol)
		}
		if err := rec.RecordRun(&recorder.RunRecord{
			Symbol:    rep.Symbol,
			Currency:  cfg.Fetch.Currency,
			Tick:      tick,
			Lookback:  cfg.Fetch.Lookback,
			Pages:     rep.Pages,
			RawPoints: rep.RawPoints,
			Filled:    rep.Filled,
			Duration:  rep.Duration,
			Status:    status,
			ErrText:   errText,
		}); err != nil {
			log.Printf("[ERROR] record run: %v", err)
		}
	}

	if !rs.Empty() {
		if err := writeOutputs(cfg, rs); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d symbols failed: %s", len(failed), len(reports), strings.Join(failed, ", "))
	}
	return nil
}

func writeOutputs(cfg *config.Config, rs *model.ResultSet) error {
	if p := cfg.Output.JSONPath; p != "" {
		if err := writer.WriteJSON(p, rs); err != nil {
			return fmt.Errorf("write json output: %w", err)
		}
		log.Printf("[INFO] wrote %s", p)
	}
	if p := cfg.Output.CSVPath; p != "" {
		if err := writer.WriteWideCSV(p, rs, cfg.Output.CSVField); err != nil {
			return fmt.Errorf("write csv output: %w", err)
		}
		log.Printf("[INFO] wrote %s", p)
	}
	if p := cfg.Output.RawCSVPath; p != "" {
		if err := writer.WriteLongCSV(p, rs); err != nil {
			return fmt.Errorf("write raw csv output: %w", err)
		}
		log.Printf("[INFO] wrote %s", p)
	}
	return nil
}
