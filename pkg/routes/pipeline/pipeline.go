package pipeline

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/fern/internal/services/preprocess"
	perr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

type ValidatePipelineRequest struct {
	DatasetCSV string                  `json:"dataset_csv" validate:"required"`
	Steps      []models.StepDefinition `json:"steps" validate:"omitempty"`
}

type ValidatePipelineResponse struct {
	Messages []models.ValidationMessage `json:"messages"`
	CanRun   bool                       `json:"can_run"`
}

// ValidatePipeline runs both validation tiers against the uploaded dataset and
// step sequence without executing anything.
func ValidatePipeline(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "pipeline.ValidatePipeline")
	defer span.End()

	req, err := utils.BindRequest[ValidatePipelineRequest](c)
	if err != nil {
		return err
	}

	ctx, service, err := ectoinject.GetContext[*preprocess.Service](ctx)
	if err != nil {
		return err
	}

	f, err := frame.ReadCSV(strings.NewReader(req.DatasetCSV))
	if err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}

	msgs := service.Validate(ctx, f, req.Steps)
	return c.JSON(http.StatusOK, ValidatePipelineResponse{
		Messages: msgs,
		CanRun:   !models.HasErrors(msgs),
	})
}

type RunPipelineRequest struct {
	DatasetCSV string                  `json:"dataset_csv" validate:"required"`
	Steps      []models.StepDefinition `json:"steps" validate:"required"`
}

type StageResultResponse struct {
	StageName    string         `json:"stage_name"`
	Status       string         `json:"status"`
	Message      string         `json:"message"`
	InShape      models.Shape   `json:"in_shape"`
	OutShape     models.Shape   `json:"out_shape"`
	Preview      [][]string     `json:"preview"`
	Stats        map[string]any `json:"stats"`
	AddedCols    []string       `json:"added_cols"`
	RemovedCols  []string       `json:"removed_cols"`
	KeptCols     []string       `json:"kept_cols"`
	ModifiedCols []string       `json:"modified_cols"`
}

type RunPipelineResponse struct {
	RunID      string                `json:"run_id"`
	History    []StageResultResponse `json:"history"`
	FinalShape models.Shape          `json:"final_shape"`
	FinalCSV   string                `json:"final_csv"`
	Config     models.PipelineConfig `json:"config"`
}

// RunPipeline validates, builds and executes the configured steps over the
// uploaded dataset, returning the full stage history, the final table as CSV
// and the resolved pipeline configuration (the reproducibility artifact).
func RunPipeline(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "pipeline.RunPipeline")
	defer span.End()

	req, err := utils.BindRequest[RunPipelineRequest](c)
	if err != nil {
		return err
	}

	ctx, service, err := ectoinject.GetContext[*preprocess.Service](ctx)
	if err != nil {
		return err
	}

	f, err := frame.ReadCSV(strings.NewReader(req.DatasetCSV))
	if err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}

	packet, config, err := service.Run(ctx, f, req.Steps)
	if err != nil {
		// check if the error is a pipeline error
		if pipelineErr, ok := err.(*perr.PipelineError); ok {
			return pipelineErr.ToHTTPError()
		}

		return err
	}

	var finalCSV strings.Builder
	if err := frame.WriteCSV(&finalCSV, packet.Frame); err != nil {
		return err
	}

	history := make([]StageResultResponse, 0, len(packet.History))
	for _, result := range packet.History {
		history = append(history, StageResultResponse{
			StageName:    result.StageName,
			Status:       string(result.Status),
			Message:      result.Message,
			InShape:      result.InShape,
			OutShape:     result.OutShape,
			Preview:      result.Preview.Records(),
			Stats:        result.Stats,
			AddedCols:    result.AddedCols,
			RemovedCols:  result.RemovedCols,
			KeptCols:     result.KeptCols,
			ModifiedCols: result.ModifiedCols,
		})
	}

	rows, cols := packet.Frame.Shape()
	return c.JSON(http.StatusOK, RunPipelineResponse{
		RunID:      packet.RunID,
		History:    history,
		FinalShape: models.Shape{Rows: rows, Cols: cols},
		FinalCSV:   finalCSV.String(),
		Config:     config,
	})
}
