package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pipeline over a dataset",
	Long: `run validates the pipeline, executes it stage by stage, and prints an
execution summary. The run halts at the first failing stage; completed
stages before the failure keep their results. The transformed dataset is
written to --out when given, otherwise to stdout.`,
	RunE: runRun,
}

var (
	runDataPath     string
	runPipelinePath string
	runOutPath      string
	runConfigOut    string
)

func init() {
	runCmd.Flags().StringVar(&runDataPath, "data", "", "path to the CSV dataset")
	runCmd.Flags().StringVar(&runPipelinePath, "pipeline", "", "path to the pipeline config (YAML or JSON)")
	runCmd.Flags().StringVar(&runOutPath, "out", "", "path for the transformed CSV (default stdout)")
	runCmd.Flags().StringVar(&runConfigOut, "config-out", "", "path for the resolved pipeline config (YAML)")
	_ = runCmd.MarkFlagRequired("data")
	_ = runCmd.MarkFlagRequired("pipeline")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	f, err := loadDataset(runDataPath)
	if err != nil {
		return err
	}
	cfg, err := loadPipeline(runPipelinePath)
	if err != nil {
		return err
	}

	packet, resolved, err := newService().Run(cmd.Context(), f, cfg.Steps)
	if err != nil {
		return err
	}

	for _, stage := range packet.History {
		printStage(stage)
	}

	failed := len(packet.History) > 0 && packet.History[len(packet.History)-1].Status == models.StageStatusError

	if runConfigOut != "" {
		data, err := yaml.Marshal(resolved)
		if err != nil {
			return fmt.Errorf("failed to marshal resolved config: %w", err)
		}
		if err := os.WriteFile(runConfigOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write resolved config: %w", err)
		}
	}

	if failed {
		return fmt.Errorf("run %s halted: %s", packet.RunID, packet.History[len(packet.History)-1].Message)
	}

	if err := writeResult(packet.Frame); err != nil {
		return err
	}

	rows, cols := packet.Frame.Shape()
	fmt.Fprintf(os.Stderr, "run %s completed: %d stage(s), final shape %dx%d\n", packet.RunID, len(packet.History), rows, cols)
	return nil
}

func printStage(stage models.StageResult) {
	if stage.Status == models.StageStatusError {
		fmt.Fprintf(os.Stderr, "FAIL %s: %s\n", stage.StageName, stage.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "OK   %s: %dx%d -> %dx%d\n",
		stage.StageName, stage.InShape.Rows, stage.InShape.Cols, stage.OutShape.Rows, stage.OutShape.Cols)
	if len(stage.AddedCols) > 0 {
		fmt.Fprintf(os.Stderr, "     added: %s\n", strings.Join(stage.AddedCols, ", "))
	}
	if len(stage.RemovedCols) > 0 {
		fmt.Fprintf(os.Stderr, "     removed: %s\n", strings.Join(stage.RemovedCols, ", "))
	}
	if len(stage.ModifiedCols) > 0 {
		fmt.Fprintf(os.Stderr, "     modified: %s\n", strings.Join(stage.ModifiedCols, ", "))
	}
}

func writeResult(f *frame.Frame) error {
	if runOutPath == "" {
		return frame.WriteCSV(os.Stdout, f)
	}

	file, err := os.Create(runOutPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := frame.WriteCSV(file, f); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
