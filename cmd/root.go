package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roccohia/labubu-watcher/config"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
)

const appName = "labubu-watcher"

// AppFlags holds the persistent flags of the root command
type AppFlags struct {
	Debug       bool   // --debug uses fixtures instead of fetching
	Engine      string // --engine overrides BROWSER_ENGINE
	TargetsFile string // --targets overrides TARGETS_FILE
}

// Flags gives subcommands access to the parsed persistent flags
var Flags AppFlags

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Watch Labubu feeds and listings for restocks and new drops",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.LoadConfig()
		if Flags.Engine != "" {
			cfg.BrowserEngine = Flags.Engine
		}
		if Flags.TargetsFile != "" {
			cfg.TargetsFile = Flags.TargetsFile
		}
		if err := cfg.Validate(); err != nil {
			return watcherrors.NewConfiguration("invalid configuration", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&Flags.Debug, "debug", false, "use built-in fixtures instead of fetching (also DEBUG_MODE=true)")
	rootCmd.PersistentFlags().StringVar(&Flags.Engine, "engine", "", "browser engine: rod, chromedp or http")
	rootCmd.PersistentFlags().StringVar(&Flags.TargetsFile, "targets", "", "YAML file with per-target overrides")

	rootCmd.AddCommand(allCmd, targetsCmd)
	for _, c := range jobCommands() {
		rootCmd.AddCommand(c)
	}
}

// debugMode reports whether fixtures replace fetching
func debugMode() bool {
	return Flags.Debug || cfg.DebugMode
}

// Execute runs the command line and returns the first unhandled error
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
