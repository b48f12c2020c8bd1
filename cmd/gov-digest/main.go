package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ryosukesatoh/gov-digest/internal/config"
	"github.com/ryosukesatoh/gov-digest/internal/generator"
	"github.com/ryosukesatoh/gov-digest/internal/provider"
	"github.com/ryosukesatoh/gov-digest/internal/publisher"
	"github.com/ryosukesatoh/gov-digest/internal/runner"
	"github.com/ryosukesatoh/gov-digest/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	backfill := flag.Int("backfill", -1, "override backfill window in days")
	show := flag.String("show", "", "print the stored digest for a date (YYYY-MM-DD) and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *backfill >= 0 {
		cfg.BackfillDays = *backfill
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// Show mode: render one stored day and exit
	if *show != "" {
		date, err := time.Parse("2006-01-02", *show)
		if err != nil {
			log.Fatalf("Invalid date %q: %v", *show, err)
		}
		d, err := st.GetDaily(context.Background(), date)
		if errors.Is(err, store.ErrNotFound) {
			log.Fatalf("No digest stored for %s", *show)
		}
		if err != nil {
			log.Fatalf("Failed to load digest: %v", err)
		}
		if err := publisher.NewStdoutPublisher().PublishDaily(context.Background(), d); err != nil {
			log.Fatalf("Failed to render digest: %v", err)
		}
		return
	}

	gen, err := generator.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}
	prov := provider.NewWorldNewsProvider(cfg.Provider)

	r := runner.New(cfg.BackfillDays, cfg.RetentionDays, prov, gen, st, cfg.Countries)

	// Single-run mode: run the pipeline once and exit
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := r.Run(ctx); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		log.Println("All done")
		return
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run immediately on startup if configured
	if cfg.RunOnStart {
		log.Println("Running initial pipeline...")
		if err := r.Run(ctx); err != nil {
			log.Printf("Initial run failed: %v", err)
		}
	}

	// Set up cron scheduler
	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Println("Cron triggered, running pipeline...")
		if err := r.Run(ctx); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	log.Printf("Scheduled pipeline with cron expression: %s", cfg.Schedule)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	cancel()
	c.Stop()

	log.Println("Shutdown complete")
}
