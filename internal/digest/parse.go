package digest

import (
	"encoding/json"
	"strings"
)

// cleanTitle normalizes a model-returned headline: surrounding whitespace,
// leading markdown heading markers, and trailing periods are stripped.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".")
	return strings.TrimSpace(s)
}

// splitHeadline splits a model response into a cleaned first-line title and
// the remaining text. The remainder is empty when the response is one line.
func splitHeadline(s string) (title, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "\n"); i >= 0 {
		return cleanTitle(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return cleanTitle(s), ""
}

// parseIDList extracts a JSON array of release IDs from a model response,
// tolerating a fenced code block with or without a language tag. ok is false
// when no non-empty array can be parsed.
func parseIDList(s string) (ids []int64, ok bool) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "```") {
		parts := strings.SplitN(s, "```", 3)
		if len(parts) >= 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
		s = strings.TrimSpace(s)
	}

	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, false
	}
	if len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

// truncate caps a string at n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func ministryOr(ministry string) string {
	if ministry == "" {
		return "N/A"
	}
	return ministry
}
