package digest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ryosukesatoh/gov-digest/internal/provider"
)

// topReleases is the per-country cap applied by the importance filter.
const topReleases = 5

// filterImportant reduces a country's releases for one day to the topReleases
// most important, chosen by a generation call. Sets at or under the cap pass
// through unchanged with no call. An unusable model response falls back to
// the first topReleases in their original order; only an exhausted generation
// call is returned as an error.
func (b *DailyBuilder) filterImportant(ctx context.Context, releases []provider.Release, countryName string) ([]provider.Release, error) {
	if len(releases) <= topReleases {
		return releases, nil
	}

	var listing strings.Builder
	for _, r := range releases {
		fmt.Fprintf(&listing, "- ID:%d | %s | %s\n", r.ID, ministryOr(r.Ministry), r.Title)
	}

	task := fmt.Sprintf("From these %d releases from %s, pick the %d most important "+
		"(policy changes, foreign relations, defence, economic reform, major law).\n\n%s\n"+
		"Return ONLY a JSON array of %d IDs, e.g. [123, 456, 789, 101, 102]",
		len(releases), countryName, topReleases, listing.String(), topReleases)

	result, err := generate(ctx, b.gen, b.retry,
		"You pick the most globally important government press releases. Return only a JSON array of IDs.",
		task)
	if err != nil {
		return nil, fmt.Errorf("filter releases for %s: %w", countryName, err)
	}

	ids, ok := parseIDList(result)
	if !ok {
		log.Printf("WARNING: unparseable filter response for %s, keeping first %d", countryName, topReleases)
		return releases[:topReleases], nil
	}

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	filtered := make([]provider.Release, 0, topReleases)
	for _, r := range releases {
		if wanted[r.ID] {
			filtered = append(filtered, r)
			if len(filtered) == topReleases {
				break
			}
		}
	}
	if len(filtered) == 0 {
		return releases[:topReleases], nil
	}
	return filtered, nil
}
