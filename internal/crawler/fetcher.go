package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/roccohia/labubu-watcher/logger"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
)

// AttemptRecorder counts fetch attempts and exhausted fetches
type AttemptRecorder interface {
	FetchAttempt(target string)
	FetchFailed(target string)
}

// PageFetcher loads a target page through a Launcher with bounded retries
type PageFetcher struct {
	launcher Launcher
	recorder AttemptRecorder
	log      *logger.Logger
}

// NewPageFetcher creates a new page fetcher. recorder may be nil.
func NewPageFetcher(launcher Launcher, recorder AttemptRecorder) *PageFetcher {
	return &PageFetcher{
		launcher: launcher,
		recorder: recorder,
		log:      logger.ForComponent("fetcher").WithField("engine", launcher.Name()),
	}
}

// Fetch returns the records of cfg.URL. Each attempt runs in its own session
// and waits cfg.BackoffDelay before the next one. After cfg.MaxRetries failed
// attempts it returns a fetch error wrapping the last failure.
func (f *PageFetcher) Fetch(ctx context.Context, cfg FetchConfig, narr logger.Narrator) ([]Record, error) {
	maxAttempts := cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	cookies, err := LoadCookies(cfg.CookiesPath)
	if err != nil {
		f.countFailure(cfg.Target)
		return nil, watcherrors.NewFetch(cfg.Target, 0, err)
	}
	if len(cookies) > 0 {
		narr.Info(fmt.Sprintf("loaded %d cookies from %s", len(cookies), cfg.CookiesPath))
	}

	var records []Record
	attempt := 0
	operation := func() error {
		attempt++
		narr.Info(fmt.Sprintf("(attempt %d/%d) opening %s", attempt, maxAttempts, cfg.URL))
		if f.recorder != nil {
			f.recorder.FetchAttempt(cfg.Target)
		}

		recs, err := f.attempt(ctx, cfg, cookies)
		if err != nil {
			narr.Info(fmt.Sprintf("(attempt %d/%d) failed: %v", attempt, maxAttempts, err))
			if !watcherrors.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		records = recs
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.BackoffDelay), uint64(maxAttempts-1)),
		ctx,
	)
	err = backoff.RetryNotify(operation, policy, func(_ error, wait time.Duration) {
		narr.Info(fmt.Sprintf("retrying in %s", wait))
	})
	if err != nil {
		narr.Info(fmt.Sprintf("all %d attempts failed", attempt))
		f.countFailure(cfg.Target)
		return nil, watcherrors.NewFetch(cfg.Target, attempt, err)
	}

	narr.Info(fmt.Sprintf("page loaded, %d records extracted", len(records)))
	return records, nil
}

// attempt runs one scoped session. The session is closed on every path.
func (f *PageFetcher) attempt(ctx context.Context, cfg FetchConfig, cookies []Cookie) ([]Record, error) {
	session, err := f.launcher.Launch(ctx, cfg, cookies)
	if err != nil {
		return nil, watcherrors.NewNavigation(cfg.Target, "launch browser", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			f.log.Warn().Err(cerr).Str("target", cfg.Target).Msg("session teardown failed")
		}
	}()

	if err := session.Navigate(ctx, cfg.URL); err != nil {
		return nil, watcherrors.NewNavigation(cfg.Target, "navigate", err)
	}

	if err := sleep(ctx, cfg.SettleDelay); err != nil {
		return nil, err
	}

	if cfg.Humanize {
		if err := session.Humanize(ctx); err != nil {
			f.log.Debug().Err(err).Str("target", cfg.Target).Msg("humanize failed")
		}
	}

	records, err := session.Extract(ctx, cfg.Selectors)
	if err != nil {
		return nil, watcherrors.NewExtraction(cfg.Target, "extract records", err)
	}
	return records, nil
}

func (f *PageFetcher) countFailure(target string) {
	if f.recorder != nil {
		f.recorder.FetchFailed(target)
	}
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
