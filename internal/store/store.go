// Package store persists the digest hierarchy in SQLite: daily digests own
// country digests own release summaries, weekly digests own weekly country
// digests. The date and week_end columns are the idempotency keys; consumers
// of the published briefing read this database directly.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ryosukesatoh/gov-digest/internal/digest"
)

const dateLayout = "2006-01-02"

// Store wraps *sql.DB backed by modernc.org/sqlite (pure Go).
type Store struct {
	db *sql.DB
}

var _ digest.DailyStore = (*Store)(nil)
var _ digest.WeeklyStore = (*Store)(nil)

// Open opens the SQLite database, creating parent directories and running
// the idempotent migration.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA foreign_keys=ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// migrate executes the schema statements, kept idempotent.
func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_digest (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            date TEXT UNIQUE NOT NULL,
            global_title TEXT NOT NULL DEFAULT '',
            global_summary TEXT NOT NULL,
            created_at TEXT NOT NULL DEFAULT (datetime('now'))
        );`,
		`CREATE TABLE IF NOT EXISTS country_digest (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            daily_digest_id INTEGER NOT NULL REFERENCES daily_digest(id),
            country_code TEXT NOT NULL,
            country_name TEXT NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            summary TEXT NOT NULL,
            created_at TEXT NOT NULL DEFAULT (datetime('now'))
        );`,
		`CREATE TABLE IF NOT EXISTS release_summary (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            country_digest_id INTEGER NOT NULL REFERENCES country_digest(id),
            release_id INTEGER NOT NULL,
            title TEXT NOT NULL,
            summary TEXT NOT NULL,
            original_url TEXT NOT NULL,
            ministry TEXT,
            created_at TEXT NOT NULL DEFAULT (datetime('now'))
        );`,
		`CREATE TABLE IF NOT EXISTS weekly_digest (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            week_start TEXT NOT NULL,
            week_end TEXT UNIQUE NOT NULL,
            global_title TEXT NOT NULL DEFAULT '',
            global_summary TEXT NOT NULL,
            created_at TEXT NOT NULL DEFAULT (datetime('now'))
        );`,
		`CREATE TABLE IF NOT EXISTS weekly_country_digest (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            weekly_digest_id INTEGER NOT NULL REFERENCES weekly_digest(id),
            country_code TEXT NOT NULL,
            country_name TEXT NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            summary TEXT NOT NULL,
            created_at TEXT NOT NULL DEFAULT (datetime('now'))
        );`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// DailyExists reports whether a daily digest for the date is already stored.
func (s *Store) DailyExists(ctx context.Context, date time.Time) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM daily_digest WHERE date = ?`, date.Format(dateLayout)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query daily digest: %w", err)
	}
	return true, nil
}

// InsertDaily writes one day's digest hierarchy in a single transaction:
// the daily row, then each country row, then each release row.
func (s *Store) InsertDaily(ctx context.Context, d *digest.DailyDigest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO daily_digest (date, global_title, global_summary) VALUES (?, ?, ?)`,
		d.Date.Format(dateLayout), d.GlobalTitle, d.GlobalSummary)
	if err != nil {
		return fmt.Errorf("insert daily digest %s: %w", d.Date.Format(dateLayout), err)
	}
	dailyID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("daily digest id: %w", err)
	}

	for _, cd := range d.Countries {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO country_digest (daily_digest_id, country_code, country_name, title, summary)
             VALUES (?, ?, ?, ?, ?)`,
			dailyID, cd.CountryCode, cd.CountryName, cd.Title, cd.Summary)
		if err != nil {
			return fmt.Errorf("insert country digest %s: %w", cd.CountryCode, err)
		}
		countryID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("country digest id: %w", err)
		}

		for _, rs := range cd.Releases {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO release_summary (country_digest_id, release_id, title, summary, original_url, ministry)
                 VALUES (?, ?, ?, ?, ?, ?)`,
				countryID, rs.ReleaseID, rs.Title, rs.Summary, rs.URL, nullable(rs.Ministry))
			if err != nil {
				return fmt.Errorf("insert release summary %d: %w", rs.ReleaseID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit daily digest: %w", err)
	}
	return nil
}

// ListDailyDates returns every stored daily digest date, ascending.
func (s *Store) ListDailyDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date FROM daily_digest ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query daily dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan daily date: %w", err)
		}
		d, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse daily date %q: %w", day, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily dates: %w", err)
	}
	return dates, nil
}

// WeeklyExists reports whether a weekly digest ending on the Sunday is stored.
func (s *Store) WeeklyExists(ctx context.Context, weekEnd time.Time) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM weekly_digest WHERE week_end = ?`, weekEnd.Format(dateLayout)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query weekly digest: %w", err)
	}
	return true, nil
}

// WeekRows loads every daily/country digest pair dated within the inclusive
// range, ordered by date then country name.
func (s *Store) WeekRows(ctx context.Context, weekStart, weekEnd time.Time) ([]digest.WeekRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT d.date, d.global_title, c.country_code, c.country_name, c.title, c.summary
        FROM daily_digest d
        JOIN country_digest c ON c.daily_digest_id = d.id
        WHERE d.date >= ? AND d.date <= ?
        ORDER BY d.date, c.country_name`,
		weekStart.Format(dateLayout), weekEnd.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query week rows: %w", err)
	}
	defer rows.Close()

	var out []digest.WeekRow
	for rows.Next() {
		var wr digest.WeekRow
		var day string
		if err := rows.Scan(&day, &wr.GlobalTitle, &wr.CountryCode, &wr.CountryName, &wr.CountryTitle, &wr.CountrySummary); err != nil {
			return nil, fmt.Errorf("scan week row: %w", err)
		}
		wr.Date, err = time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse week row date %q: %w", day, err)
		}
		out = append(out, wr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate week rows: %w", err)
	}
	return out, nil
}

// InsertWeekly writes one week's digest and its country rows in a single
// transaction.
func (s *Store) InsertWeekly(ctx context.Context, w *digest.WeeklyDigest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO weekly_digest (week_start, week_end, global_title, global_summary)
         VALUES (?, ?, ?, ?)`,
		w.WeekStart.Format(dateLayout), w.WeekEnd.Format(dateLayout), w.GlobalTitle, w.GlobalSummary)
	if err != nil {
		return fmt.Errorf("insert weekly digest %s: %w", w.WeekEnd.Format(dateLayout), err)
	}
	weeklyID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("weekly digest id: %w", err)
	}

	for _, wc := range w.Countries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO weekly_country_digest (weekly_digest_id, country_code, country_name, title, summary)
             VALUES (?, ?, ?, ?, ?)`,
			weeklyID, wc.CountryCode, wc.CountryName, wc.Title, wc.Summary)
		if err != nil {
			return fmt.Errorf("insert weekly country digest %s: %w", wc.CountryCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit weekly digest: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
