package provider

import (
	"context"
	"time"
)

// Release represents one government press release. Listings carry only the
// brief fields (ID, Title, Ministry); batch fetches fill in the rest.
type Release struct {
	ID       int64
	Title    string
	Ministry string
	Content  string
	URL      string
	Country  string
}

// Provider supplies release listings per country and day, and full release
// content by ID.
type Provider interface {
	// ListReleases returns the brief records published by a country on the
	// given calendar day.
	ListReleases(ctx context.Context, countryCode string, date time.Time) ([]Release, error)
	// FetchByIDs resolves release IDs to full records. Unknown IDs are
	// omitted from the result.
	FetchByIDs(ctx context.Context, ids []int64) (map[int64]Release, error)
}
