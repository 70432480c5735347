package preprocess

import (
	"context"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/filters"
	"github.com/Ramsey-B/fern/pkg/filters/registry"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/runner"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/validate"
)

// Service wires the registry, validators and runner behind one surface. It is
// the run-permission gate the validators specify: Run refuses to execute while
// any validation error is present.
type Service struct {
	logger      ectologger.Logger
	previewRows int
}

func NewService(logger ectologger.Logger, previewRows int) *Service {
	return &Service{
		logger:      logger,
		previewRows: previewRows,
	}
}

// Catalog returns the filter definitions sorted by key.
func (s *Service) Catalog() []filters.FilterDefinition {
	definitions := make([]filters.FilterDefinition, 0, len(filters.FilterDefinitions))
	for _, definition := range filters.FilterDefinitions {
		definitions = append(definitions, definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Key < definitions[j].Key
	})
	return definitions
}

// Validate runs both validation tiers over the dataset and step sequence.
func (s *Service) Validate(ctx context.Context, f *frame.Frame, steps []models.StepDefinition) []models.ValidationMessage {
	_, span := tracing.StartSpan(ctx, "preprocess.Validate")
	defer span.End()

	config := models.PipelineConfig{Steps: steps}
	msgs := validate.Structure(config.StepKeys())
	return append(msgs, validate.Data(f, config.StepKeys(), config.StepParams())...)
}

// Run validates, builds the filters, and executes the pipeline. The returned
// PipelineConfig carries the resolved parameters in execution order (the
// reproducibility artifact). Validation or build errors fail before any stage
// executes; stage failures surface only through the packet history.
func (s *Service) Run(ctx context.Context, f *frame.Frame, steps []models.StepDefinition) (*models.DataPacket, models.PipelineConfig, error) {
	ctx, span := tracing.StartSpan(ctx, "preprocess.Run")
	defer span.End()

	if msgs := s.Validate(ctx, f, steps); models.HasErrors(msgs) {
		texts := []string{}
		for _, msg := range models.Errors(msgs) {
			texts = append(texts, msg.Text)
		}
		return nil, models.PipelineConfig{}, errors.NewPipelineErrorf("pipeline has validation errors: %s", strings.Join(texts, " "))
	}

	built := make([]models.Filter, 0, len(steps))
	resolved := models.PipelineConfig{Steps: make([]models.StepDefinition, 0, len(steps))}
	for _, step := range steps {
		filter, err := registry.GetFilter(step.Key, step.Params)
		if err != nil {
			return nil, models.PipelineConfig{}, err
		}
		built = append(built, filter)
		resolved.Steps = append(resolved.Steps, models.StepDefinition{Key: step.Key, Params: filter.Params()})
	}

	packet := models.NewDataPacket(f.Clone())
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id": packet.RunID,
		"steps":  len(built),
	}).Info("starting pipeline run")

	packet = runner.NewPipelineRunner(built, s.previewRows, s.logger).Run(ctx, packet)
	return packet, resolved, nil
}
