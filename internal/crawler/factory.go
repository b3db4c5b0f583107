package crawler

import (
	"fmt"
	"strings"
)

// Engines lists the supported browser engines
var Engines = []string{"rod", "chromedp", "http"}

// NewLauncher creates the launcher for a browser engine name
func NewLauncher(engine, bin string, headless bool) (Launcher, error) {
	switch strings.ToLower(engine) {
	case "", "rod":
		return NewRodLauncher(bin, headless), nil
	case "chromedp":
		return NewChromedpLauncher(bin, headless), nil
	case "http":
		return NewStaticLauncher(), nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q (want one of %s)", engine, strings.Join(Engines, ", "))
	}
}
