package models

import (
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/google/uuid"
)

// Metadata key prefixes used as the per-stage side channel. Filters publish
// statistics and in-place-modified column lists under these namespaces; the
// runner reads them back when it builds the StageResult for the stage.
const (
	statsKeyPrefix    = "stats::"
	modifiedKeyPrefix = "modified::"
)

// DataPacket is the unit of state flowing through a pipeline run: the current
// table, an open metadata side channel, and the append-only execution history.
// One packet is owned by exactly one run for its duration.
type DataPacket struct {
	RunID   string
	Frame   *frame.Frame
	Meta    map[string]any
	History []StageResult
}

// NewDataPacket wraps a frame in a fresh packet with empty metadata and history.
func NewDataPacket(f *frame.Frame) *DataPacket {
	return &DataPacket{
		RunID: uuid.New().String(),
		Frame: f,
		Meta:  map[string]any{},
	}
}

// SetStats publishes the statistics mapping for the named stage.
func (p *DataPacket) SetStats(stage string, stats map[string]any) {
	p.Meta[statsKeyPrefix+stage] = stats
}

// StatsFor returns the statistics published for the named stage, or an empty
// mapping when the stage published none (or published something malformed).
func (p *DataPacket) StatsFor(stage string) map[string]any {
	stats, ok := p.Meta[statsKeyPrefix+stage].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return stats
}

// SetModified publishes the list of columns the named stage changed in place.
func (p *DataPacket) SetModified(stage string, cols []string) {
	p.Meta[modifiedKeyPrefix+stage] = cols
}

// ModifiedFor returns the in-place-modified column list declared by the named
// stage, or nil when absent or not a proper column-name list.
func (p *DataPacket) ModifiedFor(stage string) []string {
	cols, ok := p.Meta[modifiedKeyPrefix+stage].([]string)
	if !ok {
		return nil
	}
	return cols
}

// Shape is a (rows, cols) pair.
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// StageStatus is the outcome of one executed stage.
type StageStatus string

const (
	StageStatusOK    StageStatus = "ok"
	StageStatusError StageStatus = "error"
)

// StageResult is the immutable audit record for one executed stage. Added,
// removed and kept columns are computed by the runner from set algebra over the
// before/after column names; modified columns are declared by the filter itself
// and are always a subset of the kept columns.
type StageResult struct {
	StageName    string         `json:"stage_name"`
	Status       StageStatus    `json:"status"`
	Message      string         `json:"message"`
	InShape      Shape          `json:"in_shape"`
	OutShape     Shape          `json:"out_shape"`
	Preview      *frame.Frame   `json:"-"`
	Stats        map[string]any `json:"stats"`
	AddedCols    []string       `json:"added_cols"`
	RemovedCols  []string       `json:"removed_cols"`
	KeptCols     []string       `json:"kept_cols"`
	ModifiedCols []string       `json:"modified_cols"`
}
