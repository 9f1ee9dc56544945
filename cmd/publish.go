package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/lighthouse-check/internal/config"
	"github.com/naka-gawa/lighthouse-check/internal/gateway"
	"github.com/naka-gawa/lighthouse-check/internal/usecase"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Merges Lighthouse reports and publishes them as a check run",
	Long: `Reads every *.json file in the reports directory, merges runs of the same URL,
and creates a completed "Lighthouse Report" check run on the configured commit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd)
	},
}

func runPublish(cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := config.Load(v, true)
	if err != nil {
		return err
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, cfg.APIURL, cfg.GraphQLURL, logger)
	if err != nil {
		return err
	}
	publisher := usecase.NewPublisher(gateway.NewFileSystemGateway(logger), githubGateway, logger)

	result, err := publisher.Publish(ctx, cfg.ReportsDir, usecase.Target{
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		HeadSHA: cfg.SHA,
	})
	if err != nil {
		return err
	}

	if result.HTMLURL != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.HTMLURL)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
