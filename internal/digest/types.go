package digest

import (
	"context"
	"time"
)

// ReleaseSummary is the generated summary of one press release.
type ReleaseSummary struct {
	ReleaseID int64
	Title     string
	Summary   string
	URL       string
	Ministry  string
}

// CountryDigest is one country's digest for a single day.
type CountryDigest struct {
	CountryCode string
	CountryName string
	Title       string
	Summary     string
	Releases    []ReleaseSummary
}

// DailyDigest is the full digest hierarchy for one calendar day.
type DailyDigest struct {
	Date          time.Time
	GlobalTitle   string
	GlobalSummary string
	Countries     []CountryDigest
}

// WeeklyCountryDigest is one country's recap for a Monday-Sunday week.
type WeeklyCountryDigest struct {
	CountryCode string
	CountryName string
	Title       string
	Summary     string
}

// WeeklyDigest is the roll-up of one calendar week of daily digests.
type WeeklyDigest struct {
	WeekStart     time.Time
	WeekEnd       time.Time
	GlobalTitle   string
	GlobalSummary string
	Countries     []WeeklyCountryDigest
}

// WeekRow is one daily-digest/country-digest pair loaded for weekly
// aggregation, ordered by date then country name.
type WeekRow struct {
	Date           time.Time
	GlobalTitle    string
	CountryCode    string
	CountryName    string
	CountryTitle   string
	CountrySummary string
}

// DailyStore is the persistence surface the daily builder needs.
type DailyStore interface {
	DailyExists(ctx context.Context, date time.Time) (bool, error)
	InsertDaily(ctx context.Context, d *DailyDigest) error
}

// WeeklyStore is the persistence surface the weekly builder needs.
type WeeklyStore interface {
	ListDailyDates(ctx context.Context) ([]time.Time, error)
	WeeklyExists(ctx context.Context, weekEnd time.Time) (bool, error)
	WeekRows(ctx context.Context, weekStart, weekEnd time.Time) ([]WeekRow, error)
	InsertWeekly(ctx context.Context, w *WeeklyDigest) error
}
