// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/lighthouse-check/internal/config"
)

var (
	v      = viper.New()
	logger = log.New()
)

var rootCmd = &cobra.Command{
	Use:   "lighthouse-check",
	Short: "Publishes Lighthouse scores as a GitHub check run.",
	Long: `lighthouse-check reads the Lighthouse JSON reports in a directory,
merges repeated runs of the same URL by averaging their category scores,
and publishes a Markdown summary as a check run on the current commit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(v.GetString(config.KeyLogLevel))
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = log.DebugLevel
		}
		logger.SetLevel(level)
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		// stdout is reserved for the summary and workflow commands.
		logger.SetOutput(os.Stderr)
		return nil
	},
	// Without a subcommand the tool behaves as the action entrypoint.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Failures are reported as a workflow error annotation.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stdout, "::error::%s\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	flags.String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	flags.String(config.KeyReports, "", "Directory containing Lighthouse JSON reports")
	flags.String(config.KeyGitHubToken, "", "GitHub token used to create the check run")
	flags.String(config.KeyRepository, "", "Repository as owner/name")
	flags.String(config.KeySHA, "", "Commit SHA to attach the check run to (default: default branch head)")
	flags.String(config.KeyAPIURL, "", "GitHub REST API URL")
	flags.String(config.KeyGraphQLURL, "", "GitHub GraphQL API URL")

	for _, key := range []string{
		config.KeyLogLevel, config.KeyReports, config.KeyGitHubToken, config.KeyRepository,
		config.KeySHA, config.KeyAPIURL, config.KeyGraphQLURL,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			logger.Warnf("Unable to bind flag %s", key)
		}
	}
	if err := config.BindEnv(v); err != nil {
		logger.Warn(err)
	}
}
