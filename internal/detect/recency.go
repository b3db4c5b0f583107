// Package detect decides whether an extracted record is a fresh restock or
// launch signal.
package detect

import (
	"regexp"
	"strings"
)

// RecencyRule reports whether a platform "time ago" label is fresh enough to
// act on. Rules are total: unrecognized input is never recent.
type RecencyRule func(label string) bool

var (
	reMinutesAgo = regexp.MustCompile(`^(?:\d+分钟前|\d+ minutes? ago)$`)
	reHoursAgo   = regexp.MustCompile(`^(?:\d+小时前|\d+ hours? ago)$`)
)

// FeedRecency is the search-feed vocabulary: "just now", "<n> minutes ago"
// and exactly "1 hour ago".
func FeedRecency(label string) bool {
	label = normalizeLabel(label)
	if label == "" {
		return false
	}
	if strings.Contains(label, "刚刚") || strings.Contains(label, "just now") {
		return true
	}
	if reMinutesAgo.MatchString(label) {
		return true
	}
	return label == "1小时前" || label == "1 hour ago"
}

// ProfileRecency is the creator-profile vocabulary: "today" and
// "<n> hours ago". Day counts are stale.
func ProfileRecency(label string) bool {
	label = normalizeLabel(label)
	if label == "" {
		return false
	}
	if strings.Contains(label, "今天") || strings.Contains(label, "today") {
		return true
	}
	return reHoursAgo.MatchString(label)
}

var recencyRules = map[string]RecencyRule{
	"feed":    FeedRecency,
	"profile": ProfileRecency,
}

// RecencyByName looks up a rule by its configuration name.
func RecencyByName(name string) (RecencyRule, bool) {
	rule, ok := recencyRules[strings.ToLower(strings.TrimSpace(name))]
	return rule, ok
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
