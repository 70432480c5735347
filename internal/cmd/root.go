package cmd

import (
	"github.com/Ramsey-B/fern/pkg/filters"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fern",
	Short: "Tabular preprocessing pipelines from the command line",
	Long: `fern runs configurable preprocessing pipelines over CSV datasets.
Pipelines are ordered sequences of filters (imputation, one-hot encoding,
scaling, PCA) validated for ordering and data compatibility before anything
executes. A run halts at the first failing filter and reports the schema
changes each completed stage made.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(filters.RegisterAll)
}
