package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodLauncher starts a local Chrome per session through go-rod.
// Pages are created with the stealth evasions applied.
type RodLauncher struct {
	Bin      string // Chrome binary, empty lets rod find or download one
	Headless bool
}

// NewRodLauncher creates the rod engine
func NewRodLauncher(bin string, headless bool) *RodLauncher {
	return &RodLauncher{Bin: bin, Headless: headless}
}

// Name returns the engine name
func (l *RodLauncher) Name() string {
	return "rod"
}

// Launch starts Chrome, opens a stealth page and applies the fingerprint and cookies
func (l *RodLauncher) Launch(ctx context.Context, cfg FetchConfig, cookies []Cookie) (Session, error) {
	fp := cfg.Fingerprint

	ln := launcher.New().
		Context(ctx).
		Headless(l.Headless).
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-blink-features", "AutomationControlled")
	if fp.ViewportWidth > 0 && fp.ViewportHeight > 0 {
		ln = ln.Set("window-size", fmt.Sprintf("%d,%d", fp.ViewportWidth, fp.ViewportHeight))
	}
	if l.Bin != "" {
		ln = ln.Bin(l.Bin)
	}

	u, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	s := &rodSession{
		launcher: ln,
		browser:  rod.New().ControlURL(u).Context(ctx),
		timeout:  cfg.Timeout,
	}
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		s.Close()
		return nil, fmt.Errorf("connect chrome: %w", err)
	}

	if err := s.setup(fp, cookies); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

func (s *rodSession) setup(fp Fingerprint, cookies []Cookie) error {
	page, err := stealth.Page(s.browser)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	s.page = page

	if fp.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      fp.UserAgent,
			AcceptLanguage: fp.AcceptLanguageHeader(),
		})
		if err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
	}

	if fp.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: fp.Locale}).Call(page); err != nil {
			return fmt.Errorf("set locale: %w", err)
		}
	}

	if fp.ViewportWidth > 0 && fp.ViewportHeight > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             fp.ViewportWidth,
			Height:            fp.ViewportHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return fmt.Errorf("set viewport: %w", err)
		}
	}

	if len(fp.ExtraHeaders) > 0 {
		dict := make([]string, 0, len(fp.ExtraHeaders)*2)
		for k, v := range fp.ExtraHeaders {
			dict = append(dict, k, v)
		}
		if _, err := page.SetExtraHeaders(dict); err != nil {
			return fmt.Errorf("set extra headers: %w", err)
		}
	}

	if len(cookies) > 0 {
		params := make([]*proto.NetworkCookieParam, 0, len(cookies))
		for _, c := range cookies {
			param := &proto.NetworkCookieParam{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Secure:   c.Secure,
				HTTPOnly: c.HTTPOnly,
			}
			if c.Expires > 0 {
				param.Expires = proto.TimeSinceEpoch(c.Expires)
			}
			params = append(params, param)
		}
		if err := page.SetCookies(params); err != nil {
			return fmt.Errorf("set cookies: %w", err)
		}
	}

	return nil
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	navCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	page := s.page.Context(navCtx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (s *rodSession) Humanize(ctx context.Context) error {
	point := proto.Point{X: rand.Float64() * 1000, Y: rand.Float64() * 1000}
	if err := s.page.Mouse.MoveTo(point); err != nil {
		return err
	}
	if err := s.page.Mouse.Scroll(0, 400, 1); err != nil {
		return err
	}
	return sleep(ctx, time.Second)
}

func (s *rodSession) Extract(ctx context.Context, sel Selectors) ([]Record, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return nil, fmt.Errorf("read DOM: %w", err)
	}
	return ExtractRecords(strings.NewReader(html), sel)
}

func (s *rodSession) Close() error {
	var err error
	if s.page != nil {
		s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return err
}
