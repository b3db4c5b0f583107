package crawler

import (
	"context"
	"strings"
	"time"
)

// Record is one post, video or button scraped from a target page
type Record struct {
	Text      string `json:"text"`
	TimeLabel string `json:"time_label,omitempty"`
}

// ElementRemoval defines elements to remove from a selection before extracting text
type ElementRemoval struct {
	Selector    string `yaml:"selector"`     // Selector to find elements to remove
	ApplyToPath string `yaml:"apply_to_path"` // The path to apply this to ("text" or "time")
}

// Selectors contains CSS selectors for the record container and its fields.
// An empty Text selector reads the container's own text. An empty Time
// selector leaves every TimeLabel empty.
type Selectors struct {
	Container      string           `yaml:"container"`
	Text           string           `yaml:"text"`
	Time           string           `yaml:"time"`
	RemoveElements []ElementRemoval `yaml:"remove_elements"`
}

// Fingerprint is the browser identity presented to the target
type Fingerprint struct {
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	AcceptLanguage string
	ExtraHeaders   map[string]string
}

// AcceptLanguageHeader returns AcceptLanguage, or a header derived from
// Locale when it is unset: "en-US" gives "en-US,en;q=0.9".
func (f Fingerprint) AcceptLanguageHeader() string {
	if f.AcceptLanguage != "" || f.Locale == "" {
		return f.AcceptLanguage
	}
	lang, _, found := strings.Cut(f.Locale, "-")
	if !found || lang == "" {
		return f.Locale
	}
	return f.Locale + "," + lang + ";q=0.9"
}

// FetchConfig contains configuration for fetching one target
type FetchConfig struct {
	Target       string
	URL          string
	Selectors    Selectors
	MaxRetries   int
	Timeout      time.Duration // per-attempt navigation timeout
	SettleDelay  time.Duration // wait after navigation for client-side rendering
	BackoffDelay time.Duration // flat wait between attempts
	Humanize     bool
	CookiesPath  string
	Fingerprint  Fingerprint
}

// Session is one live browser tab. Close must be safe to call after any failure.
type Session interface {
	// Navigate loads url, bounded by the config timeout
	Navigate(ctx context.Context, url string) error

	// Humanize performs synthetic mouse and scroll input
	Humanize(ctx context.Context) error

	// Extract evaluates the selectors against the rendered document
	Extract(ctx context.Context, sel Selectors) ([]Record, error)

	// Close tears the session down
	Close() error
}

// Launcher starts sessions for a browser engine
type Launcher interface {
	// Launch opens a fresh session configured with cfg's fingerprint.
	// cookies are attached before the first navigation.
	Launch(ctx context.Context, cfg FetchConfig, cookies []Cookie) (Session, error)

	// Name returns the engine name for logging
	Name() string
}

// DefaultFingerprint mirrors a desktop Chrome on Windows at 1920x1080
func DefaultFingerprint() Fingerprint {
	return Fingerprint{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Locale:         "zh-CN",
		AcceptLanguage: "zh-CN,zh;q=0.9,en;q=0.8",
		ExtraHeaders: map[string]string{
			"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"DNT":    "1",
		},
	}
}
