package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ryosukesatoh/gov-digest/internal/config"
)

// maxBatchSize is the largest ID count the batch endpoint accepts per request.
const maxBatchSize = 50

// WorldNewsProvider fetches releases from the world-news API.
type WorldNewsProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Provider = (*WorldNewsProvider)(nil)

func NewWorldNewsProvider(cfg config.ProviderConfig) *WorldNewsProvider {
	return &WorldNewsProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type releaseJSON struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Ministry string `json:"ministry"`
	Content  string `json:"content"`
	URL      string `json:"url"`
	Country  string `json:"country"`
}

type listResponse struct {
	Data []releaseJSON `json:"data"`
}

func (r releaseJSON) toRelease() Release {
	return Release{
		ID:       r.ID,
		Title:    r.Title,
		Ministry: r.Ministry,
		Content:  r.Content,
		URL:      r.URL,
		Country:  r.Country,
	}
}

// ListReleases queries the brief listing for one country and day.
func (p *WorldNewsProvider) ListReleases(ctx context.Context, countryCode string, date time.Time) ([]Release, error) {
	day := date.Format("2006-01-02")

	query := url.Values{}
	query.Set("country", countryCode)
	query.Set("date_from", day)
	query.Set("date_to", day)
	query.Set("per_page", "100")
	query.Set("fields", "brief")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/releases?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("provider: failed to create request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: list releases for %s: %w", countryCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("provider: list releases for %s: unexpected status %d: %s",
			countryCode, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("provider: failed to parse listing for %s: %w", countryCode, err)
	}

	releases := make([]Release, 0, len(lr.Data))
	for _, rj := range lr.Data {
		releases = append(releases, rj.toRelease())
	}
	return releases, nil
}

// FetchByIDs resolves full release records in chunks of 50. A failed chunk is
// logged and skipped; the remaining chunks still contribute to the result.
func (p *WorldNewsProvider) FetchByIDs(ctx context.Context, ids []int64) (map[int64]Release, error) {
	result := make(map[int64]Release, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	for start := 0; start < len(ids); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		releases, err := p.fetchBatch(ctx, chunk)
		if err != nil {
			log.Printf("WARNING: batch fetch failed for %d IDs: %v", len(chunk), err)
			continue
		}
		for _, r := range releases {
			result[r.ID] = r
		}
	}

	return result, nil
}

func (p *WorldNewsProvider) fetchBatch(ctx context.Context, ids []int64) ([]Release, error) {
	body, err := json.Marshal(map[string][]int64{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("provider: failed to marshal batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/releases/batch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("provider: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: batch fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("provider: batch fetch: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var rjs []releaseJSON
	if err := json.NewDecoder(resp.Body).Decode(&rjs); err != nil {
		return nil, fmt.Errorf("provider: failed to parse batch response: %w", err)
	}

	releases := make([]Release, 0, len(rjs))
	for _, rj := range rjs {
		releases = append(releases, rj.toRelease())
	}
	return releases, nil
}

func (p *WorldNewsProvider) setHeaders(req *http.Request) {
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}
}
