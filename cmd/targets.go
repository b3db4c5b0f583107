package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roccohia/labubu-watcher/config"
	"github.com/roccohia/labubu-watcher/services/worker"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the configured targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := config.LoadTargetOverrides(cfg.TargetsFile)
		if err != nil {
			return err
		}
		jobs, err := worker.DefaultJobs(cfg, overrides)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRECENCY\tRETRIES\tCONTAINER\tURL")
		for _, j := range jobs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", j.Name, j.RecencyName, j.Fetch.MaxRetries, j.Fetch.Selectors.Container, j.Fetch.URL)
		}
		return w.Flush()
	},
}
