package digest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/ryosukesatoh/gov-digest/internal/retry"
)

// WeeklyBuilder rolls accumulated daily digests up into Monday-Sunday weekly
// digests.
type WeeklyBuilder struct {
	gen   Generator
	store WeeklyStore
	retry retry.Config
}

func NewWeeklyBuilder(gen Generator, store WeeklyStore) *WeeklyBuilder {
	return &WeeklyBuilder{
		gen:   gen,
		store: store,
		retry: retry.DefaultConfig(),
	}
}

// weekEndFor returns the Sunday that closes the week containing d.
func weekEndFor(d time.Time) time.Time {
	daysUntilSunday := 6 - (int(d.Weekday())+6)%7
	return d.AddDate(0, 0, daysUntilSunday)
}

// Build aggregates every complete, not-yet-digested week found in the store
// and returns the number of weekly digests created. Each week is persisted as
// one transaction; a generation failure aborts the run with nothing written
// for the failed week.
func (b *WeeklyBuilder) Build(ctx context.Context) (int, error) {
	dates, err := b.store.ListDailyDates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list daily dates: %w", err)
	}
	if len(dates) == 0 {
		return 0, nil
	}

	haveDay := make(map[string]bool, len(dates))
	for _, d := range dates {
		haveDay[d.Format("2006-01-02")] = true
	}

	sundaySet := make(map[string]time.Time)
	for _, d := range dates {
		sunday := weekEndFor(d)
		sundaySet[sunday.Format("2006-01-02")] = sunday
	}
	sundays := make([]string, 0, len(sundaySet))
	for s := range sundaySet {
		sundays = append(sundays, s)
	}
	sort.Strings(sundays)

	created := 0
	for _, key := range sundays {
		sunday := sundaySet[key]

		// A week is complete only once its Sunday has a daily digest;
		// partially filled weeks wait for the next run.
		if !haveDay[key] {
			continue
		}

		exists, err := b.store.WeeklyExists(ctx, sunday)
		if err != nil {
			return created, fmt.Errorf("check weekly digest %s: %w", key, err)
		}
		if exists {
			continue
		}

		monday := sunday.AddDate(0, 0, -6)
		rows, err := b.store.WeekRows(ctx, monday, sunday)
		if err != nil {
			return created, fmt.Errorf("load week %s: %w", key, err)
		}
		if len(rows) == 0 {
			continue
		}

		log.Printf("Weekly: %s to %s", monday.Format("2006-01-02"), key)
		if err := b.buildWeek(ctx, monday, sunday, rows); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

type countryWeek struct {
	code  string
	name  string
	items []string
}

func (b *WeeklyBuilder) buildWeek(ctx context.Context, monday, sunday time.Time, rows []WeekRow) error {
	// Rows arrive ordered by date then country name; keep the first global
	// title per date and group country items across the week.
	var dayLines []string
	seenDays := make(map[string]bool)
	byCode := make(map[string]*countryWeek)
	for _, r := range rows {
		day := r.Date.Format("2006-01-02")
		if !seenDays[day] {
			seenDays[day] = true
			dayLines = append(dayLines, fmt.Sprintf("**%s**: %s", day, r.GlobalTitle))
		}
		cw, ok := byCode[r.CountryCode]
		if !ok {
			cw = &countryWeek{code: r.CountryCode, name: r.CountryName}
			byCode[r.CountryCode] = cw
		}
		cw.items = append(cw.items, fmt.Sprintf("%s: %s - %s", day, r.CountryTitle, r.CountrySummary))
	}

	countries := make([]*countryWeek, 0, len(byCode))
	for _, cw := range byCode {
		countries = append(countries, cw)
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].name < countries[j].name })

	var countryBlobs []string
	for _, cw := range countries {
		countryBlobs = append(countryBlobs, fmt.Sprintf("**%s**:\n%s", cw.name, bulleted(cw.items)))
	}

	result, err := generate(ctx, b.gen, b.retry,
		"You write a weekly government briefing. "+weeklyStyleRules,
		fmt.Sprintf("Here are this week's daily headlines:\n\n%s\n\n"+
			"And here are the country details:\n\n%s\n\n"+
			"First line: A compelling weekly headline under 15 words. No quotes.\n"+
			"Rest: Write a 400-500 character weekly overview. Use **bold**, *italic*, and bullet points. "+
			"What were the biggest stories? What trends emerged? Make it a must-read recap.",
			strings.Join(dayLines, "\n"), strings.Join(countryBlobs, "\n\n")))
	if err != nil {
		return fmt.Errorf("summarize week %s: %w", sunday.Format("2006-01-02"), err)
	}
	weeklyTitle, weeklySummary := splitHeadline(result)

	weekly := &WeeklyDigest{
		WeekStart:     monday,
		WeekEnd:       sunday,
		GlobalTitle:   weeklyTitle,
		GlobalSummary: weeklySummary,
	}

	for _, cw := range countries {
		result, err := generate(ctx, b.gen, b.retry,
			"You write weekly country news recaps. "+weeklyStyleRules,
			fmt.Sprintf("This week from %s:\n\n%s\n\n"+
				"First line: Punchy headline under 10 words. No quotes.\n"+
				"Rest: 400-500 character weekly recap. Use **bold**, *italic*, bullet lists, or a table if it helps. "+
				"What were the key stories? What changed?",
				cw.name, bulleted(cw.items)))
		if err != nil {
			return fmt.Errorf("summarize week for %s: %w", cw.name, err)
		}
		title, summary := splitHeadline(result)

		weekly.Countries = append(weekly.Countries, WeeklyCountryDigest{
			CountryCode: cw.code,
			CountryName: cw.name,
			Title:       title,
			Summary:     summary,
		})
	}

	if err := b.store.InsertWeekly(ctx, weekly); err != nil {
		return fmt.Errorf("persist weekly digest %s: %w", sunday.Format("2006-01-02"), err)
	}
	log.Printf("  Done: %d countries", len(weekly.Countries))
	return nil
}

func bulleted(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(item)
	}
	return sb.String()
}
