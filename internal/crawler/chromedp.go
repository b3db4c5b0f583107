package crawler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ChromedpLauncher starts a Chrome per session through chromedp
type ChromedpLauncher struct {
	Bin      string
	Headless bool
}

// NewChromedpLauncher creates the chromedp engine
func NewChromedpLauncher(bin string, headless bool) *ChromedpLauncher {
	return &ChromedpLauncher{Bin: bin, Headless: headless}
}

// Name returns the engine name
func (l *ChromedpLauncher) Name() string {
	return "chromedp"
}

// Launch allocates a Chrome process and a tab with the fingerprint and cookies applied
func (l *ChromedpLauncher) Launch(ctx context.Context, cfg FetchConfig, cookies []Cookie) (Session, error) {
	fp := cfg.Fingerprint

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if fp.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(fp.UserAgent))
	}
	if fp.ViewportWidth > 0 && fp.ViewportHeight > 0 {
		opts = append(opts, chromedp.WindowSize(fp.ViewportWidth, fp.ViewportHeight))
	}
	if l.Bin != "" {
		opts = append(opts, chromedp.ExecPath(l.Bin))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &chromedpSession{
		ctx:     tabCtx,
		timeout: cfg.Timeout,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}

	setup := []chromedp.Action{}
	if fp.ViewportWidth > 0 && fp.ViewportHeight > 0 {
		setup = append(setup, chromedp.EmulateViewport(int64(fp.ViewportWidth), int64(fp.ViewportHeight)))
	}
	if fp.Locale != "" {
		setup = append(setup, emulation.SetLocaleOverride().WithLocale(fp.Locale))
	}
	headers := network.Headers{}
	for k, v := range fp.ExtraHeaders {
		headers[k] = v
	}
	if lang := fp.AcceptLanguageHeader(); lang != "" {
		headers["Accept-Language"] = lang
	}
	if len(headers) > 0 {
		setup = append(setup, network.Enable(), network.SetExtraHTTPHeaders(headers))
	}
	if len(cookies) > 0 {
		params := make([]*network.CookieParam, 0, len(cookies))
		for _, c := range cookies {
			param := &network.CookieParam{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Secure:   c.Secure,
				HTTPOnly: c.HTTPOnly,
			}
			if c.Expires > 0 {
				param.Expires = cdpExpiry(c.Expires)
			}
			params = append(params, param)
		}
		setup = append(setup, network.SetCookies(params))
	}

	// The first Run starts the browser even when there is nothing to set up.
	if err := chromedp.Run(tabCtx, setup...); err != nil {
		s.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return s, nil
}

type chromedpSession struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	runCtx, stop := s.bind(ctx)
	defer stop()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, s.timeout)
		defer cancel()
	}
	return chromedp.Run(runCtx, chromedp.Navigate(url))
}

func (s *chromedpSession) Humanize(ctx context.Context) error {
	runCtx, stop := s.bind(ctx)
	defer stop()

	var scrolled bool
	return chromedp.Run(runCtx,
		chromedp.MouseEvent(input.MouseMoved, rand.Float64()*1000, rand.Float64()*1000),
		chromedp.Evaluate(`window.scrollBy(0, 400); true`, &scrolled),
		chromedp.Sleep(time.Second),
	)
}

func (s *chromedpSession) Extract(ctx context.Context, sel Selectors) ([]Record, error) {
	runCtx, stop := s.bind(ctx)
	defer stop()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("read DOM: %w", err)
	}
	return ExtractRecords(strings.NewReader(html), sel)
}

func (s *chromedpSession) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}

// bind derives a context from the tab that is also cancelled with ctx
func (s *chromedpSession) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// cdpExpiry converts a cookie export expiry in unix seconds
func cdpExpiry(expires float64) *cdp.TimeSinceEpoch {
	sec, frac := math.Modf(expires)
	t := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*1e9)))
	return &t
}
