package cmd

import (
	"github.com/roccohia/labubu-watcher/config"
	"github.com/roccohia/labubu-watcher/helpers"
	"github.com/roccohia/labubu-watcher/internal/crawler"
	"github.com/roccohia/labubu-watcher/logger"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
	"github.com/roccohia/labubu-watcher/services/cache"
	"github.com/roccohia/labubu-watcher/services/metrics"
	"github.com/roccohia/labubu-watcher/services/notifier"
	"github.com/roccohia/labubu-watcher/services/worker"
)

// Services holds all the initialized services
type Services struct {
	Worker   *worker.Worker
	Metrics  *metrics.Metrics
	closeFns []func() error
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, fn := range s.closeFns {
		if err := fn(); err != nil {
			logger.Error("cleanup failed: %v", err)
		}
	}
}

// initializeServices initializes all required services
func initializeServices(cfg *config.Config) (*Services, error) {
	log := logger.Default
	services := &Services{Metrics: metrics.New()}

	overrides, err := config.LoadTargetOverrides(cfg.TargetsFile)
	if err != nil {
		return nil, watcherrors.NewConfiguration("load targets", err)
	}
	jobs, err := worker.DefaultJobs(cfg, overrides)
	if err != nil {
		return nil, watcherrors.NewConfiguration("build jobs", err)
	}

	launcher, err := crawler.NewLauncher(cfg.BrowserEngine, cfg.BrowserBin, cfg.BrowserHeadless)
	if err != nil {
		return nil, watcherrors.NewConfiguration("browser engine", err)
	}

	sink, closeNotifier := notifier.FromConfig(cfg)
	services.closeFns = append(services.closeFns, closeNotifier)
	log.Info().Int("channels", sink.Len()).Msg("notifiers ready")

	var lease worker.Lease
	if cfg.MemcacheAddr != "" {
		lease = cache.NewRunLease(cache.NewMemcacheService(cfg.MemcacheAddr), cfg.RunLockTTL)
		logger.Info("Using Memcache at %s for run leases", cfg.MemcacheAddr)
	}

	fetcher := crawler.NewPageFetcher(launcher, services.Metrics)
	pipeline := worker.NewPipeline(fetcher, sink, services.Metrics)
	services.Worker = worker.NewWorker(pipeline, jobs, lease, services.Metrics, helpers.NewLogger(cfg.ErrorLogFile))

	log.Info().
		Str("environment", cfg.Environment).
		Str("engine", launcher.Name()).
		Bool("headless", cfg.BrowserHeadless).
		Msg("Starting application")

	return services, nil
}
