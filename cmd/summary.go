package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/lighthouse-check/internal/config"
	"github.com/naka-gawa/lighthouse-check/internal/gateway"
	"github.com/naka-gawa/lighthouse-check/internal/usecase"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints the merged Lighthouse summary without publishing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, false)
		if err != nil {
			return err
		}

		publisher := usecase.NewPublisher(gateway.NewFileSystemGateway(logger), nil, logger)
		summary, err := publisher.Summarize(context.Background(), cfg.ReportsDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n\n", summary.Title)
		fmt.Fprintln(out, summary.Markdown)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
