package cmd

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a pipeline against a dataset without running it",
	Long: `validate checks the configured filter sequence for ordering problems and
for incompatibilities with the given dataset (missing values without
imputation, PCA component bounds, and so on). Errors block execution;
warnings do not.`,
	RunE: runValidate,
}

var (
	validateDataPath     string
	validatePipelinePath string
)

func init() {
	validateCmd.Flags().StringVar(&validateDataPath, "data", "", "path to the CSV dataset")
	validateCmd.Flags().StringVar(&validatePipelinePath, "pipeline", "", "path to the pipeline config (YAML or JSON)")
	_ = validateCmd.MarkFlagRequired("data")
	_ = validateCmd.MarkFlagRequired("pipeline")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(validateDataPath)
	if err != nil {
		return err
	}
	cfg, err := loadPipeline(validatePipelinePath)
	if err != nil {
		return err
	}

	msgs := newService().Validate(cmd.Context(), f, cfg.Steps)
	printMessages(msgs)

	if models.HasErrors(msgs) {
		return fmt.Errorf("pipeline has %d validation error(s)", len(models.Errors(msgs)))
	}
	fmt.Println("Pipeline is valid.")
	return nil
}
