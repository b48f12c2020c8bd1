package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryosukesatoh/gov-digest/internal/provider"
)

// maxContentChars caps the release content included in a summarization prompt.
const maxContentChars = 3000

// summarizeRelease produces the 200-300 character narrative for one release.
func (b *DailyBuilder) summarizeRelease(ctx context.Context, detail provider.Release, countryName string) (string, error) {
	task := fmt.Sprintf("Title: %s\nMinistry: %s\nCountry: %s\n\nContent:\n%s\n\n"+
		"Write a 200-300 character summary. **Bold** key facts. Be specific with numbers, names, dates.",
		detail.Title, ministryOr(detail.Ministry), countryName, truncate(detail.Content, maxContentChars))

	return generate(ctx, b.gen, b.retry,
		"You summarize government press releases. "+styleRules, task)
}

// summarizeCountry produces a country's headline and woven narrative from its
// release summaries. A single-release country gets a headline-only call and
// keeps the release narrative unchanged.
func (b *DailyBuilder) summarizeCountry(ctx context.Context, countryName string, summaries []ReleaseSummary) (title, summary string, err error) {
	if len(summaries) == 1 {
		rs := summaries[0]
		result, err := generate(ctx, b.gen, b.retry,
			"You write news headlines. "+styleRules,
			fmt.Sprintf("Write a short punchy headline (under 10 words) for this from %s:\n\n"+
				"%s: %s\n\nReturn only the headline. No quotes.",
				countryName, rs.Title, rs.Summary))
		if err != nil {
			return "", "", err
		}
		return cleanTitle(result), rs.Summary, nil
	}

	var items []string
	for _, rs := range summaries {
		items = append(items, fmt.Sprintf("- %s: %s", rs.Title, rs.Summary))
	}

	result, err := generate(ctx, b.gen, b.retry,
		"You write country-level news digests. "+styleRules,
		fmt.Sprintf("Today's announcements from %s:\n\n%s\n\n"+
			"First line: Punchy headline under 10 words. No quotes.\n"+
			"Second line onwards: 200-300 characters max. **Bold** key facts. "+
			"Weave stories together. What happened and why it matters.",
			countryName, strings.Join(items, "\n\n")))
	if err != nil {
		return "", "", err
	}

	title, summary = splitHeadline(result)
	if summary == "" {
		summary = title
	}
	return title, summary, nil
}

// summarizeGlobal produces the day's cross-country headline and narrative
// from every country digest, which must already be in display-name order.
func (b *DailyBuilder) summarizeGlobal(ctx context.Context, countries []CountryDigest) (title, summary string, err error) {
	var items []string
	for _, cd := range countries {
		items = append(items, fmt.Sprintf("**%s** (%s): %s", cd.CountryName, cd.Title, cd.Summary))
	}

	result, err := generate(ctx, b.gen, b.retry,
		"You write a daily global government briefing. "+styleRules,
		fmt.Sprintf("Today's country summaries:\n\n%s\n\n"+
			"First line: Compelling headline under 15 words. No quotes.\n"+
			"Second line onwards: 200-300 characters. **Bold** the biggest story. "+
			"Find threads connecting countries. Hook the reader.",
			strings.Join(items, "\n\n")))
	if err != nil {
		return "", "", err
	}

	title, summary = splitHeadline(result)
	return title, summary, nil
}
