package crawler

import (
	"context"
	"fmt"
	"io"

	"github.com/roccohia/labubu-watcher/helpers"
)

// StaticLauncher fetches pages with a plain HTTP GET and no script execution.
// It suits server-rendered pages and tests.
type StaticLauncher struct{}

// NewStaticLauncher creates the http engine
func NewStaticLauncher() *StaticLauncher {
	return &StaticLauncher{}
}

// Name returns the engine name
func (l *StaticLauncher) Name() string {
	return "http"
}

// Launch prepares a request session
func (l *StaticLauncher) Launch(_ context.Context, cfg FetchConfig, cookies []Cookie) (Session, error) {
	return &staticSession{
		opts: helpers.RequestOptions{
			UserAgent:      cfg.Fingerprint.UserAgent,
			AcceptLanguage: cfg.Fingerprint.AcceptLanguageHeader(),
			Headers:        cfg.Fingerprint.ExtraHeaders,
			Cookies:        HTTPCookies(cookies),
			Timeout:        cfg.Timeout,
		},
	}, nil
}

type staticSession struct {
	opts helpers.RequestOptions
	body io.Reader
}

func (s *staticSession) Navigate(ctx context.Context, url string) error {
	body, err := helpers.FetchWithHeaders(ctx, url, s.opts)
	if err != nil {
		return err
	}
	s.body = body
	return nil
}

func (s *staticSession) Humanize(context.Context) error {
	return nil
}

func (s *staticSession) Extract(_ context.Context, sel Selectors) ([]Record, error) {
	if s.body == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	return ExtractRecords(s.body, sel)
}

func (s *staticSession) Close() error {
	s.body = nil
	return nil
}
