package helpers

import (
	"strings"
)

// ContainsAnyFold reports whether target contains any of the keywords,
// ignoring case. Empty keywords never match.
func ContainsAnyFold(target string, keywords []string) bool {
	lowered := strings.ToLower(target)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
