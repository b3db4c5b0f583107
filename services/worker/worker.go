package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roccohia/labubu-watcher/helpers"
	"github.com/roccohia/labubu-watcher/logger"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
	"github.com/roccohia/labubu-watcher/services/metrics"
)

// Lease guards a target against overlapping runs
type Lease interface {
	Acquire(target, owner string) (func(), error)
}

// Result is the record of one job within a worker run
type Result struct {
	Job      string
	Outcome  Outcome
	Skipped  bool
	Duration time.Duration
}

// Worker runs jobs one after another
type Worker struct {
	pipeline *Pipeline
	jobs     []Job
	lease    Lease
	metrics  *metrics.Metrics
	logger   helpers.LoggerInterface
	log      *logger.Logger
	newID    func() string
}

// NewWorker creates a new worker. lease and m may be nil.
func NewWorker(
	pipeline *Pipeline,
	jobs []Job,
	lease Lease,
	m *metrics.Metrics,
	errLogger helpers.LoggerInterface,
) *Worker {
	return &Worker{
		pipeline: pipeline,
		jobs:     jobs,
		lease:    lease,
		metrics:  m,
		logger:   errLogger,
		log:      logger.ForComponent("worker"),
		newID:    uuid.NewString,
	}
}

// Jobs returns the configured jobs
func (w *Worker) Jobs() []Job {
	return w.jobs
}

// Run executes the named jobs in order. It stops at the first failing job and
// returns the results gathered so far together with that job's error.
func (w *Worker) Run(ctx context.Context, names []string, debug bool) ([]Result, error) {
	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		job, ok := findJob(w.jobs, name)
		if !ok {
			return nil, watcherrors.NewConfiguration(fmt.Sprintf("unknown job %q", name), nil)
		}
		jobs = append(jobs, job)
	}

	runID := w.newID()
	w.log.Info().Str("run_id", runID).Strs("jobs", names).Bool("debug", debug).Msg("run started")

	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		res, err := w.runJob(ctx, runID, job, debug)
		if err != nil {
			w.logger.LogError(job.Name, err)
			return results, err
		}
		results = append(results, res)
	}

	w.log.Info().Str("run_id", runID).Int("jobs", len(results)).Msg("run finished")
	return results, nil
}

func (w *Worker) runJob(ctx context.Context, runID string, job Job, debug bool) (Result, error) {
	start := time.Now()
	narr := logger.NewNarrator(logger.ForJob(job.Name).WithField("run_id", runID))
	res := Result{Job: job.Name}

	// Fixture runs touch nothing external, so they skip the lease.
	if w.lease != nil && !debug {
		release, err := w.lease.Acquire(job.Name, runID)
		if watcherrors.Is(err, watcherrors.ErrorTypeLocked) {
			narr.Info("another run is in progress, skipping")
			res.Skipped = true
			return res, nil
		}
		if err != nil {
			// A missing cache must not stop the watch.
			w.log.Warn().Err(err).Str("job", job.Name).Msg("lease unavailable, running without it")
		} else {
			defer release()
		}
	}

	outcome, err := w.pipeline.Run(ctx, job, narr, debug)
	res.Duration = time.Since(start)
	w.metrics.ObserveJob(job.Name, res.Duration)
	if err != nil {
		return res, err
	}
	res.Outcome = outcome

	if logger.IsDebugEnabled() {
		w.logger.LogInfo("%s finished in %s (matched=%t)", job.Name, res.Duration, outcome.Matched)
	}
	return res, nil
}
