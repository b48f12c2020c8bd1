package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ryosukesatoh/gov-digest/internal/digest"
)

// ErrNotFound is returned when no digest exists for the requested key.
var ErrNotFound = fmt.Errorf("digest not found")

// GetDaily loads the full digest hierarchy for one date. Returns ErrNotFound
// when the date has no digest.
func (s *Store) GetDaily(ctx context.Context, date time.Time) (*digest.DailyDigest, error) {
	day := date.Format(dateLayout)

	var dailyID int64
	d := &digest.DailyDigest{Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, global_title, global_summary FROM daily_digest WHERE date = ?`, day).
		Scan(&dailyID, &d.GlobalTitle, &d.GlobalSummary)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query daily digest %s: %w", day, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, country_code, country_name, title, summary
         FROM country_digest WHERE daily_digest_id = ? ORDER BY country_name`, dailyID)
	if err != nil {
		return nil, fmt.Errorf("query country digests: %w", err)
	}
	defer rows.Close()

	var countryIDs []int64
	for rows.Next() {
		var cd digest.CountryDigest
		var countryID int64
		if err := rows.Scan(&countryID, &cd.CountryCode, &cd.CountryName, &cd.Title, &cd.Summary); err != nil {
			return nil, fmt.Errorf("scan country digest: %w", err)
		}
		d.Countries = append(d.Countries, cd)
		countryIDs = append(countryIDs, countryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country digests: %w", err)
	}

	for i, countryID := range countryIDs {
		releases, err := s.releasesFor(ctx, countryID)
		if err != nil {
			return nil, err
		}
		d.Countries[i].Releases = releases
	}
	return d, nil
}

func (s *Store) releasesFor(ctx context.Context, countryID int64) ([]digest.ReleaseSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT release_id, title, summary, original_url, COALESCE(ministry, '')
         FROM release_summary WHERE country_digest_id = ? ORDER BY id`, countryID)
	if err != nil {
		return nil, fmt.Errorf("query release summaries: %w", err)
	}
	defer rows.Close()

	var out []digest.ReleaseSummary
	for rows.Next() {
		var rs digest.ReleaseSummary
		if err := rows.Scan(&rs.ReleaseID, &rs.Title, &rs.Summary, &rs.URL, &rs.Ministry); err != nil {
			return nil, fmt.Errorf("scan release summary: %w", err)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate release summaries: %w", err)
	}
	return out, nil
}

// GetWeekly loads one weekly digest with its country rows. Returns
// ErrNotFound when the Sunday has no digest.
func (s *Store) GetWeekly(ctx context.Context, weekEnd time.Time) (*digest.WeeklyDigest, error) {
	key := weekEnd.Format(dateLayout)

	var weeklyID int64
	var start string
	w := &digest.WeeklyDigest{WeekEnd: weekEnd}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, week_start, global_title, global_summary FROM weekly_digest WHERE week_end = ?`, key).
		Scan(&weeklyID, &start, &w.GlobalTitle, &w.GlobalSummary)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query weekly digest %s: %w", key, err)
	}
	w.WeekStart, err = time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse week start %q: %w", start, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT country_code, country_name, title, summary
         FROM weekly_country_digest WHERE weekly_digest_id = ? ORDER BY country_name`, weeklyID)
	if err != nil {
		return nil, fmt.Errorf("query weekly country digests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var wc digest.WeeklyCountryDigest
		if err := rows.Scan(&wc.CountryCode, &wc.CountryName, &wc.Title, &wc.Summary); err != nil {
			return nil, fmt.Errorf("scan weekly country digest: %w", err)
		}
		w.Countries = append(w.Countries, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly country digests: %w", err)
	}
	return w, nil
}
