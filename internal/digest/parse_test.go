package digest

import (
	"testing"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Germany raises defence budget", "Germany raises defence budget"},
		{"surrounding whitespace", "  Headline  ", "Headline"},
		{"markdown heading", "# Headline", "Headline"},
		{"double heading marker", "## Headline", "Headline"},
		{"trailing period", "Headline.", "Headline"},
		{"trailing periods", "Headline...", "Headline"},
		{"heading and period", "  # Headline.  ", "Headline"},
		{"empty", "", ""},
		{"only markers", "#.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanTitle(tt.input)
			if got != tt.want {
				t.Errorf("cleanTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// The rule is idempotent: a cleaned title is a fixed point.
			if again := cleanTitle(got); again != got {
				t.Errorf("cleanTitle not idempotent: %q -> %q -> %q", tt.input, got, again)
			}
		})
	}
}

func TestSplitHeadline(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantRest  string
	}{
		{"title and body", "# Big Day.\nEverything changed at once.", "Big Day", "Everything changed at once."},
		{"multi-line body", "Headline\nline one\nline two", "Headline", "line one\nline two"},
		{"single line", "Just a headline.", "Just a headline", ""},
		{"blank body", "Headline\n   ", "Headline", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, rest := splitHeadline(tt.input)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []int64
		wantOK bool
	}{
		{"bare array", "[1, 2, 3]", []int64{1, 2, 3}, true},
		{"fenced with tag", "```json\n[2,5,9,1,7]\n```", []int64{2, 5, 9, 1, 7}, true},
		{"fenced without tag", "```\n[4, 8]\n```", []int64{4, 8}, true},
		{"fence with preamble", "Here you go:\n```json\n[10]\n```", []int64{10}, true},
		{"garbage", "I could not decide.", nil, false},
		{"empty array", "[]", nil, false},
		{"object not array", `{"ids": [1]}`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseIDList(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseIDList(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello world", 5); got != "hello" {
		t.Errorf("truncate long = %q", got)
	}
	// Rune-based, not byte-based
	if got := truncate("日本語です", 3); got != "日本語" {
		t.Errorf("truncate unicode = %q", got)
	}
}

func TestMinistryOr(t *testing.T) {
	if got := ministryOr(""); got != "N/A" {
		t.Errorf("ministryOr empty = %q", got)
	}
	if got := ministryOr("Finance"); got != "Finance" {
		t.Errorf("ministryOr = %q", got)
	}
}
