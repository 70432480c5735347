// Package runner executes an ordered list of filters over a data packet,
// recording a per-stage audit trail. A run is a plain sequential fold: stage
// i+1 never starts before stage i's result is recorded, and the first failure
// terminates the run with the partial history intact.
package runner

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const DefaultPreviewRows = 8

type PipelineRunner struct {
	filters     []models.Filter
	previewRows int
	logger      ectologger.Logger
}

func NewPipelineRunner(filters []models.Filter, previewRows int, logger ectologger.Logger) *PipelineRunner {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	return &PipelineRunner{
		filters:     filters,
		previewRows: previewRows,
		logger:      logger,
	}
}

// Run executes the filters in order. Each stage's outcome (success or failure)
// is appended to the packet history; any filter error halts the run
// immediately and is surfaced only through the history, never re-raised.
func (r *PipelineRunner) Run(ctx context.Context, packet *models.DataPacket) *models.DataPacket {
	ctx, span := tracing.StartSpan(ctx, "runner.Run")
	defer span.End()

	for _, filter := range r.filters {
		rows, cols := packet.Frame.Shape()
		inShape := models.Shape{Rows: rows, Cols: cols}
		beforeCols := packet.Frame.ColumnNames()
		preStep := packet.Frame

		r.logger.WithContext(ctx).WithFields(map[string]any{
			"run_id": packet.RunID,
			"stage":  filter.Name(),
		}).Infof("Executing stage '%s'", filter.Name())

		next, err := filter.Run(packet)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("stage", filter.Name()).Errorf("Stage '%s' failed, halting pipeline", filter.Name())
			packet.History = append(packet.History, models.StageResult{
				StageName:    filter.Name(),
				Status:       models.StageStatusError,
				Message:      err.Error(),
				InShape:      inShape,
				OutShape:     inShape,
				Preview:      preStep.Head(r.previewRows),
				Stats:        map[string]any{},
				AddedCols:    []string{},
				RemovedCols:  []string{},
				KeptCols:     beforeCols,
				ModifiedCols: []string{},
			})
			return packet
		}
		packet = next

		outRows, outCols := packet.Frame.Shape()
		afterCols := packet.Frame.ColumnNames()
		added, removed, kept := diffColumns(beforeCols, afterCols)

		packet.History = append(packet.History, models.StageResult{
			StageName:    filter.Name(),
			Status:       models.StageStatusOK,
			Message:      "Completed successfully.",
			InShape:      inShape,
			OutShape:     models.Shape{Rows: outRows, Cols: outCols},
			Preview:      packet.Frame.Head(r.previewRows),
			Stats:        packet.StatsFor(filter.Name()),
			AddedCols:    added,
			RemovedCols:  removed,
			KeptCols:     kept,
			ModifiedCols: modifiedColumns(packet, filter.Name(), afterCols),
		})
	}

	return packet
}

// diffColumns classifies the before/after column names into added, removed and
// kept, each lexicographically sorted.
func diffColumns(before, after []string) (added, removed, kept []string) {
	beforeSet := toSet(before)
	afterSet := toSet(after)

	added, removed, kept = []string{}, []string{}, []string{}
	for name := range afterSet {
		if _, ok := beforeSet[name]; ok {
			kept = append(kept, name)
		} else {
			added = append(added, name)
		}
	}
	for name := range beforeSet {
		if _, ok := afterSet[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(kept)
	return added, removed, kept
}

// modifiedColumns reads the stage's declared in-place modifications, dropping
// anything that is no longer a column after the stage.
func modifiedColumns(packet *models.DataPacket, stage string, afterCols []string) []string {
	afterSet := toSet(afterCols)
	modified := []string{}
	for _, name := range packet.ModifiedFor(stage) {
		if _, ok := afterSet[name]; ok {
			modified = append(modified, name)
		}
	}
	sort.Strings(modified)
	return modified
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
