package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryosukesatoh/gov-digest/internal/digest"
)

// StdoutPublisher prints a stored daily digest to stdout.
type StdoutPublisher struct{}

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{}
}

func (p *StdoutPublisher) PublishDaily(_ context.Context, d *digest.DailyDigest) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("Daily Briefing: %s\n", d.Date.Format("2006-01-02"))
	if d.GlobalTitle != "" {
		fmt.Println(d.GlobalTitle)
	}
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()

	if d.GlobalSummary != "" {
		fmt.Println(d.GlobalSummary)
		fmt.Println()
	}

	for _, cd := range d.Countries {
		fmt.Println(strings.Repeat("-", 72))
		fmt.Printf("%s (%s): %s\n", cd.CountryName, cd.CountryCode, cd.Title)
		fmt.Println()
		fmt.Printf("  %s\n", cd.Summary)
		fmt.Println()
		for _, rs := range cd.Releases {
			fmt.Printf("  * %s\n", rs.Title)
			if rs.Ministry != "" {
				fmt.Printf("    Ministry: %s\n", rs.Ministry)
			}
			fmt.Printf("    %s\n", rs.Summary)
			if rs.URL != "" {
				fmt.Printf("    %s\n", rs.URL)
			}
			fmt.Println()
		}
	}

	return nil
}
