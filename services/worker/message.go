package worker

import (
	"fmt"
	"strings"
	"time"

	"github.com/roccohia/labubu-watcher/internal/crawler"
	"github.com/roccohia/labubu-watcher/internal/detect"
)

// TimestampFormat is the layout of the "Pushed at" line
const TimestampFormat = "2006-01-02 15:04:05"

// FormatMessage renders the alert for a matched record
func FormatMessage(job Job, category detect.Category, rec crawler.Record, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ [%s] Labubu %s %s!\n", job.Label, categoryTitle(category), job.Subject)
	fmt.Fprintf(&b, "Text: %s\n", rec.Text)
	if rec.TimeLabel != "" {
		fmt.Fprintf(&b, "Time: %s\n", rec.TimeLabel)
	}
	fmt.Fprintf(&b, "Pushed at: %s", now.Format(TimestampFormat))
	return b.String()
}

func categoryTitle(c detect.Category) string {
	switch c {
	case detect.Restock:
		return "restock"
	case detect.LaunchOrSale:
		return "ambush/launch"
	default:
		return c.String()
	}
}
