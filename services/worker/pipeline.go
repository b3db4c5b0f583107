package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/roccohia/labubu-watcher/helpers"
	"github.com/roccohia/labubu-watcher/internal/crawler"
	"github.com/roccohia/labubu-watcher/internal/detect"
	"github.com/roccohia/labubu-watcher/logger"
	"github.com/roccohia/labubu-watcher/services/metrics"
	"github.com/roccohia/labubu-watcher/services/notifier"
)

// Fetcher loads the records of a target page
type Fetcher interface {
	Fetch(ctx context.Context, cfg crawler.FetchConfig, narr logger.Narrator) ([]crawler.Record, error)
}

// Outcome is the result of one job run
type Outcome struct {
	Matched  bool
	Message  string
	Category detect.Category
	Record   crawler.Record
}

// Pipeline fetches, filters, classifies and notifies for one job at a time
type Pipeline struct {
	fetcher  Fetcher
	notifier notifier.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewPipeline creates a pipeline. m may be nil.
func NewPipeline(fetcher Fetcher, n notifier.Notifier, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		notifier: n,
		metrics:  m,
		now:      time.Now,
	}
}

// Run executes job once. In debug mode the job's fixture replaces the fetch.
// The first fresh record with a signal is notified and ends the run; a failed
// notification is narrated but still counts as a match. Only fetch errors are
// returned.
func (p *Pipeline) Run(ctx context.Context, job Job, narr logger.Narrator, debug bool) (Outcome, error) {
	var records []crawler.Record
	if debug {
		narr.Info(fmt.Sprintf("debug mode: using %d fixture records", len(job.Fixture)))
		records = append([]crawler.Record(nil), job.Fixture...)
	} else {
		recs, err := p.fetcher.Fetch(ctx, job.Fetch, narr)
		if err != nil {
			return Outcome{}, err
		}
		records = recs
	}

	for _, rec := range records {
		if job.Recency != nil && !job.Recency(rec.TimeLabel) {
			narr.Info(fmt.Sprintf("stale: %q", rec.TimeLabel))
			continue
		}
		category := job.Keywords.Classify(rec.Text)
		if category == detect.None {
			narr.Info("no keyword: " + helpers.Truncate(rec.Text, 40))
			continue
		}

		msg := FormatMessage(job, category, rec, p.now())
		narr.Success(msg)
		p.metrics.Match(job.Name, category.String())

		err := p.notifier.Send(ctx, msg)
		p.metrics.Notified(job.Name, err)
		if err != nil {
			narr.Info(fmt.Sprintf("notification failed: %v", err))
			logger.ForComponent("notifier").WithError(err).Error().Str("job", job.Name).
				Str("text", helpers.Truncate(rec.Text, 80)).Msg("notification failed")
		}

		return Outcome{Matched: true, Message: msg, Category: category, Record: rec}, nil
	}

	narr.Info(job.NoMatch)
	return Outcome{}, nil
}
