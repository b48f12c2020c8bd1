package digest

import (
	"context"
	"strings"
	"testing"
	"time"
)

func weeklyGenerator() *fakeGenerator {
	return &fakeGenerator{respond: func(role, task string) (string, error) {
		switch {
		case strings.HasPrefix(role, "You write a weekly government briefing"):
			return "Weekly Global Headline\nweekly overview", nil
		case strings.HasPrefix(role, "You write weekly country news recaps"):
			return "Weekly Country Headline\nweekly country recap", nil
		default:
			return "unexpected role: " + role, nil
		}
	}}
}

func newTestWeeklyBuilder(gen *fakeGenerator, st *fakeWeeklyStore) *WeeklyBuilder {
	b := NewWeeklyBuilder(gen, st)
	b.retry = fastRetry
	return b
}

func TestWeekEndFor(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-03-02", "2026-03-08"}, // Monday
		{"2026-03-04", "2026-03-08"}, // Wednesday
		{"2026-03-08", "2026-03-08"}, // Sunday maps to itself
		{"2026-03-09", "2026-03-15"}, // next Monday
	}
	for _, tt := range tests {
		got := weekEndFor(day(tt.date)).Format("2006-01-02")
		if got != tt.want {
			t.Errorf("weekEndFor(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestWeeklyBuildWaitsForSunday(t *testing.T) {
	gen := weeklyGenerator()
	st := &fakeWeeklyStore{
		dates: []time.Time{day("2026-03-02"), day("2026-03-04")}, // Mon, Wed
		rows: []WeekRow{
			{Date: day("2026-03-02"), GlobalTitle: "g1", CountryCode: "DE", CountryName: "Germany", CountryTitle: "t", CountrySummary: "s"},
			{Date: day("2026-03-04"), GlobalTitle: "g2", CountryCode: "DE", CountryName: "Germany", CountryTitle: "t", CountrySummary: "s"},
		},
	}
	b := newTestWeeklyBuilder(gen, st)

	created, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if created != 0 {
		t.Errorf("Expected no weekly digest for an incomplete week, got %d", created)
	}
	if len(gen.calls) != 0 {
		t.Errorf("Expected zero generation calls, got %d", len(gen.calls))
	}
	if len(st.inserted) != 0 {
		t.Errorf("Expected zero writes, got %d", len(st.inserted))
	}
}

func TestWeeklyBuildCompleteWeek(t *testing.T) {
	gen := weeklyGenerator()
	st := &fakeWeeklyStore{
		dates: []time.Time{day("2026-03-02"), day("2026-03-08")}, // Mon, Sun
		rows: []WeekRow{
			{Date: day("2026-03-02"), GlobalTitle: "Monday headline", CountryCode: "JP", CountryName: "Japan", CountryTitle: "jt", CountrySummary: "js"},
			{Date: day("2026-03-08"), GlobalTitle: "Sunday headline", CountryCode: "DE", CountryName: "Germany", CountryTitle: "dt", CountrySummary: "ds"},
		},
	}
	b := newTestWeeklyBuilder(gen, st)

	created, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if created != 1 {
		t.Fatalf("Expected 1 weekly digest, got %d", created)
	}
	if len(st.inserted) != 1 {
		t.Fatalf("Expected one persisted weekly digest, got %d", len(st.inserted))
	}

	w := st.inserted[0]
	if w.WeekEnd.Format("2006-01-02") != "2026-03-08" {
		t.Errorf("Expected week_end 2026-03-08, got %s", w.WeekEnd.Format("2006-01-02"))
	}
	if w.WeekStart.Format("2006-01-02") != "2026-03-02" {
		t.Errorf("Expected week_start 2026-03-02, got %s", w.WeekStart.Format("2006-01-02"))
	}
	if w.GlobalTitle != "Weekly Global Headline" || w.GlobalSummary != "weekly overview" {
		t.Errorf("Unexpected weekly global fields: %q / %q", w.GlobalTitle, w.GlobalSummary)
	}
	// One global call plus one per country.
	if len(gen.calls) != 3 {
		t.Errorf("Expected 3 generation calls, got %d", len(gen.calls))
	}
	// Countries in display-name order.
	if len(w.Countries) != 2 || w.Countries[0].CountryName != "Germany" || w.Countries[1].CountryName != "Japan" {
		t.Errorf("Expected Germany then Japan, got %+v", w.Countries)
	}

	// The global prompt carries both the daily headlines and country items.
	global := gen.calls[0]
	if !strings.Contains(global.task, "**2026-03-02**: Monday headline") {
		t.Errorf("Expected daily headline line in prompt, got: %s", global.task)
	}
	if !strings.Contains(global.task, "2026-03-08: dt - ds") {
		t.Errorf("Expected country item in prompt, got: %s", global.task)
	}
}

func TestWeeklyBuildIdempotent(t *testing.T) {
	gen := weeklyGenerator()
	st := &fakeWeeklyStore{
		dates:    []time.Time{day("2026-03-08")},
		weeklies: map[string]bool{"2026-03-08": true},
		rows: []WeekRow{
			{Date: day("2026-03-08"), GlobalTitle: "g", CountryCode: "DE", CountryName: "Germany", CountryTitle: "t", CountrySummary: "s"},
		},
	}
	b := newTestWeeklyBuilder(gen, st)

	created, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if created != 0 {
		t.Errorf("Expected no new weekly digest, got %d", created)
	}
	if len(gen.calls) != 0 {
		t.Errorf("Expected zero generation calls, got %d", len(gen.calls))
	}
	if len(st.inserted) != 0 {
		t.Errorf("Expected zero writes, got %d", len(st.inserted))
	}
}

func TestWeeklyBuildNoDailyDigests(t *testing.T) {
	gen := weeklyGenerator()
	b := newTestWeeklyBuilder(gen, &fakeWeeklyStore{})

	created, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if created != 0 {
		t.Errorf("Expected 0 weekly digests, got %d", created)
	}
}

func TestWeeklyBuildGenerationFailureLeavesNothingPersisted(t *testing.T) {
	gen := &fakeGenerator{respond: func(role, task string) (string, error) {
		if strings.HasPrefix(role, "You write weekly country news recaps") {
			return "", errGenDown
		}
		return "Weekly Global\noverview", nil
	}}
	st := &fakeWeeklyStore{
		dates: []time.Time{day("2026-03-08")},
		rows: []WeekRow{
			{Date: day("2026-03-08"), GlobalTitle: "g", CountryCode: "DE", CountryName: "Germany", CountryTitle: "t", CountrySummary: "s"},
		},
	}
	b := newTestWeeklyBuilder(gen, st)

	_, err := b.Build(context.Background())
	if err == nil {
		t.Fatal("Expected error after retry exhaustion")
	}
	if len(st.inserted) != 0 {
		t.Errorf("Expected no weekly digest persisted, got %d", len(st.inserted))
	}
}
