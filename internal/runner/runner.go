package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ryosukesatoh/gov-digest/internal/digest"
	"github.com/ryosukesatoh/gov-digest/internal/provider"
	"github.com/ryosukesatoh/gov-digest/internal/store"
)

// Runner orchestrates the daily backfill -> weekly roll-up -> prune pipeline.
type Runner struct {
	backfillDays  int
	retentionDays int
	daily         *digest.DailyBuilder
	weekly        *digest.WeeklyBuilder
	store         *store.Store
	now           func() time.Time
}

func New(backfillDays, retentionDays int, p provider.Provider, gen digest.Generator, st *store.Store, countries map[string]string) *Runner {
	return &Runner{
		backfillDays:  backfillDays,
		retentionDays: retentionDays,
		daily:         digest.NewDailyBuilder(p, gen, st, countries),
		weekly:        digest.NewWeeklyBuilder(gen, st),
		store:         st,
		now:           time.Now,
	}
}

// Run executes the full pipeline once: daily digests for each day in the
// backfill window (oldest first), then weekly digests for every complete
// week, then retention pruning. A generation failure aborts the run; the
// failed day or week left no partial rows and is retried on the next run.
func (r *Runner) Run(ctx context.Context) error {
	today := r.now().UTC().Truncate(24 * time.Hour)

	log.Printf("Starting pipeline (backfill=%d days, retention=%d days)", r.backfillDays, r.retentionDays)

	created, skipped, existing := 0, 0, 0
	for i := r.backfillDays; i > 0; i-- {
		date := today.AddDate(0, 0, -i)
		day := date.Format("2006-01-02")
		log.Printf("Processing %s", day)

		result, err := r.daily.Build(ctx, date)
		if err != nil {
			return fmt.Errorf("runner: day %s failed: %w", day, err)
		}
		switch result.Status {
		case digest.StatusCreated:
			created++
			log.Printf("  Done: %d countries, %d releases", result.Countries, result.Releases)
		case digest.StatusAlreadyExists:
			existing++
			log.Printf("  Already exists, skipping")
		case digest.StatusSkipped:
			skipped++
			log.Printf("  Skipped: %s", result.Reason)
		}
	}

	log.Println("Checking for weekly digests to generate...")
	weeks, err := r.weekly.Build(ctx)
	if err != nil {
		return fmt.Errorf("runner: weekly digests failed: %w", err)
	}

	cutoff := today.AddDate(0, 0, -r.retentionDays)
	log.Printf("Pruning digests older than %s...", cutoff.Format("2006-01-02"))
	pruned, err := r.store.Prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("runner: prune failed: %w", err)
	}
	if pruned.DailyDigests == 0 && pruned.WeeklyDigests == 0 {
		log.Println("  Nothing to prune")
	} else {
		log.Printf("  Pruned %d daily + %d weekly digests", pruned.DailyDigests, pruned.WeeklyDigests)
	}

	log.Printf("Pipeline completed: %d created, %d skipped, %d already existed, %d weekly digests",
		created, skipped, existing, weeks)
	return nil
}
