package digest

import (
	"context"
	"errors"
	"time"

	"github.com/ryosukesatoh/gov-digest/internal/provider"
	"github.com/ryosukesatoh/gov-digest/internal/retry"
)

// Fake implementations shared by the digest tests.

type genCall struct {
	role string
	task string
}

type fakeGenerator struct {
	calls   []genCall
	respond func(role, task string) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, role, task string) (string, error) {
	g.calls = append(g.calls, genCall{role: role, task: task})
	if g.respond == nil {
		return "generated text", nil
	}
	return g.respond(role, task)
}

type fakeProvider struct {
	listings map[string][]provider.Release
	listErr  map[string]error
	details  map[int64]provider.Release
}

func (p *fakeProvider) ListReleases(_ context.Context, countryCode string, _ time.Time) ([]provider.Release, error) {
	if err := p.listErr[countryCode]; err != nil {
		return nil, err
	}
	return p.listings[countryCode], nil
}

func (p *fakeProvider) FetchByIDs(_ context.Context, ids []int64) (map[int64]provider.Release, error) {
	out := make(map[int64]provider.Release)
	for _, id := range ids {
		if r, ok := p.details[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

type fakeDailyStore struct {
	existing map[string]bool
	inserted []*DailyDigest
}

func (s *fakeDailyStore) DailyExists(_ context.Context, date time.Time) (bool, error) {
	return s.existing[date.Format("2006-01-02")], nil
}

func (s *fakeDailyStore) InsertDaily(_ context.Context, d *DailyDigest) error {
	s.inserted = append(s.inserted, d)
	return nil
}

type fakeWeeklyStore struct {
	dates    []time.Time
	weeklies map[string]bool
	rows     []WeekRow
	inserted []*WeeklyDigest
}

func (s *fakeWeeklyStore) ListDailyDates(_ context.Context) ([]time.Time, error) {
	return s.dates, nil
}

func (s *fakeWeeklyStore) WeeklyExists(_ context.Context, weekEnd time.Time) (bool, error) {
	return s.weeklies[weekEnd.Format("2006-01-02")], nil
}

func (s *fakeWeeklyStore) WeekRows(_ context.Context, weekStart, weekEnd time.Time) ([]WeekRow, error) {
	var out []WeekRow
	for _, r := range s.rows {
		if !r.Date.Before(weekStart) && !r.Date.After(weekEnd) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeWeeklyStore) InsertWeekly(_ context.Context, w *WeeklyDigest) error {
	s.inserted = append(s.inserted, w)
	return nil
}

// fastRetry keeps test backoff sleeps negligible.
var fastRetry = retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}

var errGenDown = errors.New("generation service unavailable")

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
