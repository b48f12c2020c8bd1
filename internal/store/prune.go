package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// PruneResult reports what a pruning pass removed.
type PruneResult struct {
	DailyDigests  int
	WeeklyDigests int
}

// Prune deletes every daily digest dated before the cutoff along with its
// country digests and release summaries, and every weekly digest whose
// week_end is before the cutoff along with its country rows. Deletion runs
// child-before-parent inside one transaction.
//
// The ID lists are bound as one placeholder each; a retention horizon large
// enough to exceed SQLite's bound-parameter limit would need chunking here.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (PruneResult, error) {
	day := cutoff.Format(dateLayout)
	var result PruneResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	dailyIDs, err := collectIDs(ctx, tx, `SELECT id FROM daily_digest WHERE date < ?`, day)
	if err != nil {
		return result, fmt.Errorf("list old daily digests: %w", err)
	}

	if len(dailyIDs) > 0 {
		countryIDs, err := collectIDs(ctx, tx,
			`SELECT id FROM country_digest WHERE daily_digest_id IN (`+placeholders(len(dailyIDs))+`)`,
			dailyIDs...)
		if err != nil {
			return result, fmt.Errorf("list old country digests: %w", err)
		}

		if len(countryIDs) > 0 {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM release_summary WHERE country_digest_id IN (`+placeholders(len(countryIDs))+`)`,
				countryIDs...); err != nil {
				return result, fmt.Errorf("delete release summaries: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM country_digest WHERE daily_digest_id IN (`+placeholders(len(dailyIDs))+`)`,
			dailyIDs...); err != nil {
			return result, fmt.Errorf("delete country digests: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM daily_digest WHERE id IN (`+placeholders(len(dailyIDs))+`)`,
			dailyIDs...); err != nil {
			return result, fmt.Errorf("delete daily digests: %w", err)
		}
		result.DailyDigests = len(dailyIDs)
	}

	weeklyIDs, err := collectIDs(ctx, tx, `SELECT id FROM weekly_digest WHERE week_end < ?`, day)
	if err != nil {
		return result, fmt.Errorf("list old weekly digests: %w", err)
	}
	if len(weeklyIDs) > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM weekly_country_digest WHERE weekly_digest_id IN (`+placeholders(len(weeklyIDs))+`)`,
			weeklyIDs...); err != nil {
			return result, fmt.Errorf("delete weekly country digests: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM weekly_digest WHERE id IN (`+placeholders(len(weeklyIDs))+`)`,
			weeklyIDs...); err != nil {
			return result, fmt.Errorf("delete weekly digests: %w", err)
		}
		result.WeeklyDigests = len(weeklyIDs)
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("commit prune: %w", err)
	}
	return result, nil
}

func collectIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]any, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []any
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
