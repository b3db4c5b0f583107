package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roccohia/labubu-watcher/logger"
	"github.com/roccohia/labubu-watcher/services/worker"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the feed and marketplace jobs back to back",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJobs(cmd, worker.RunAllJobs)
	},
}

var jobShort = map[string]string{
	worker.JobXHS:    "Check the Xiaohongshu search feed",
	worker.JobDouyin: "Check the Douyin creator profile",
	worker.JobTaobao: "Check the Tmall product page purchase button",
}

func jobCommands() []*cobra.Command {
	names := []string{worker.JobXHS, worker.JobDouyin, worker.JobTaobao}
	cmds := make([]*cobra.Command, 0, len(names))
	for _, name := range names {
		cmds = append(cmds, &cobra.Command{
			Use:   name,
			Short: jobShort[name],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runJobs(cmd, []string{name})
			},
		})
	}
	return cmds
}

func runJobs(cmd *cobra.Command, names []string) error {
	services, err := initializeServices(cfg)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	results, err := services.Worker.Run(cmd.Context(), names, debugMode())
	for _, res := range results {
		switch {
		case res.Skipped:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped\n", res.Job)
		case res.Outcome.Matched:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Job, res.Outcome.Category)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no match\n", res.Job)
		}
	}

	if cfg.PushgatewayURL != "" {
		if perr := services.Metrics.Push(cfg.PushgatewayURL); perr != nil {
			logger.Warn("metrics push failed: %v", perr)
		} else {
			logger.Debug("metrics pushed to %s", cfg.PushgatewayURL)
		}
	}
	return err
}
