package digest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/ryosukesatoh/gov-digest/internal/provider"
	"github.com/ryosukesatoh/gov-digest/internal/retry"
)

// Status is the terminal state of one day's build.
type Status int

const (
	StatusCreated Status = iota
	StatusAlreadyExists
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusAlreadyExists:
		return "already exists"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result reports how a day's build terminated.
type Result struct {
	Status    Status
	Reason    string
	Countries int
	Releases  int
}

// DailyBuilder turns one day's raw releases into a persisted daily digest.
type DailyBuilder struct {
	provider  provider.Provider
	gen       Generator
	store     DailyStore
	countries map[string]string
	retry     retry.Config
}

func NewDailyBuilder(p provider.Provider, gen Generator, store DailyStore, countries map[string]string) *DailyBuilder {
	return &DailyBuilder{
		provider:  p,
		gen:       gen,
		store:     store,
		countries: countries,
		retry:     retry.DefaultConfig(),
	}
}

// Build generates and persists the digest for one day. It is idempotent: a
// day already in the store terminates immediately with no generation calls.
// A returned error means a generation call exhausted its retries; nothing is
// persisted for the day in that case.
func (b *DailyBuilder) Build(ctx context.Context, date time.Time) (Result, error) {
	day := date.Format("2006-01-02")

	exists, err := b.store.DailyExists(ctx, date)
	if err != nil {
		return Result{}, fmt.Errorf("check daily digest %s: %w", day, err)
	}
	if exists {
		return Result{Status: StatusAlreadyExists}, nil
	}

	// Fetch release listings per country; failed or empty countries drop out.
	listings := make(map[string][]provider.Release)
	for _, code := range b.sortedCodes() {
		releases, err := b.provider.ListReleases(ctx, code, date)
		if err != nil {
			log.Printf("WARNING: failed to fetch releases for %s: %v", code, err)
			continue
		}
		if len(releases) > 0 {
			listings[code] = releases
			log.Printf("  %s: %d releases", b.countries[code], len(releases))
		}
	}
	if len(listings) == 0 {
		return Result{Status: StatusSkipped, Reason: "no releases"}, nil
	}

	// Importance filter per country.
	for _, code := range sortedKeys(listings) {
		releases := listings[code]
		filtered, err := b.filterImportant(ctx, releases, b.countries[code])
		if err != nil {
			return Result{}, err
		}
		if len(releases) > topReleases {
			log.Printf("  %s: %d -> %d", b.countries[code], len(releases), len(filtered))
		}
		listings[code] = filtered
	}

	// Batch-fetch full content for all selected releases.
	var allIDs []int64
	for _, code := range sortedKeys(listings) {
		for _, r := range listings[code] {
			allIDs = append(allIDs, r.ID)
		}
	}
	details, err := b.provider.FetchByIDs(ctx, allIDs)
	if err != nil {
		log.Printf("WARNING: batch fetch failed for %d releases: %v", len(allIDs), err)
		details = map[int64]provider.Release{}
	}
	log.Printf("  Resolved %d of %d releases", len(details), len(allIDs))

	// Summarize per country, in display-name order.
	codes := sortedKeys(listings)
	sort.Slice(codes, func(i, j int) bool {
		return b.countries[codes[i]] < b.countries[codes[j]]
	})

	var countries []CountryDigest
	totalReleases := 0
	for _, code := range codes {
		name := b.countries[code]

		var summaries []ReleaseSummary
		for _, r := range listings[code] {
			detail, ok := details[r.ID]
			if !ok {
				continue
			}
			summary, err := b.summarizeRelease(ctx, detail, name)
			if err != nil {
				return Result{}, fmt.Errorf("summarize release %d: %w", detail.ID, err)
			}
			summaries = append(summaries, ReleaseSummary{
				ReleaseID: detail.ID,
				Title:     detail.Title,
				Summary:   summary,
				URL:       detail.URL,
				Ministry:  detail.Ministry,
			})
		}
		if len(summaries) == 0 {
			log.Printf("  %s: no resolvable releases, dropped", name)
			continue
		}

		title, summary, err := b.summarizeCountry(ctx, name, summaries)
		if err != nil {
			return Result{}, fmt.Errorf("summarize country %s: %w", name, err)
		}

		countries = append(countries, CountryDigest{
			CountryCode: code,
			CountryName: name,
			Title:       title,
			Summary:     summary,
			Releases:    summaries,
		})
		totalReleases += len(summaries)
	}
	if len(countries) == 0 {
		return Result{Status: StatusSkipped, Reason: "no summarizable releases"}, nil
	}

	globalTitle, globalSummary, err := b.summarizeGlobal(ctx, countries)
	if err != nil {
		return Result{}, fmt.Errorf("summarize day %s: %w", day, err)
	}

	d := &DailyDigest{
		Date:          date,
		GlobalTitle:   globalTitle,
		GlobalSummary: globalSummary,
		Countries:     countries,
	}
	if err := b.store.InsertDaily(ctx, d); err != nil {
		return Result{}, fmt.Errorf("persist daily digest %s: %w", day, err)
	}

	return Result{Status: StatusCreated, Countries: len(countries), Releases: totalReleases}, nil
}

func (b *DailyBuilder) sortedCodes() []string {
	return sortedKeys(b.countries)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
