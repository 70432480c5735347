package cmd

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/internal/services/preprocess"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/runner"
	"gopkg.in/yaml.v3"
)

// newService builds the preprocessing service backed by a plain stderr logger.
// The CLI prints its own results on stdout, so log output stays out of the way.
func newService() *preprocess.Service {
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		if msg.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", msg.Level, msg.Message, msg.Err)
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %s\n", msg.Level, msg.Message)
	})
	return preprocess.NewService(logger, runner.DefaultPreviewRows)
}

func loadDataset(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	f, err := frame.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return f, nil
}

// loadPipeline parses a pipeline config file. YAML is a superset of JSON, so
// both formats go through the same decoder.
func loadPipeline(path string) (models.PipelineConfig, error) {
	var cfg models.PipelineConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read pipeline config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse pipeline config: %w", err)
	}
	return cfg, nil
}

func printMessages(msgs []models.ValidationMessage) {
	for _, msg := range models.Errors(msgs) {
		fmt.Printf("ERROR   %s\n", msg.Text)
	}
	for _, msg := range models.Warnings(msgs) {
		fmt.Printf("WARNING %s\n", msg.Text)
	}
}
