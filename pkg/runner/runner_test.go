package runner

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
}

// fakeFilter applies fn to the packet's frame and optionally declares modified
// columns or fails.
type fakeFilter struct {
	name     string
	fn       func(f *frame.Frame) *frame.Frame
	modified []string
	err      error
}

func (f *fakeFilter) Name() string { return f.name }
func (f *fakeFilter) Params() any  { return nil }

func (f *fakeFilter) Run(packet *models.DataPacket) (*models.DataPacket, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.fn != nil {
		packet.Frame = f.fn(packet.Frame)
	}
	if f.modified != nil {
		packet.SetModified(f.name, f.modified)
	}
	return packet, nil
}

func newPacket(t *testing.T, cols ...frame.Column) *models.DataPacket {
	t.Helper()
	f, err := frame.New(cols...)
	require.NoError(t, err)
	return models.NewDataPacket(f)
}

func TestPipelineRunner(t *testing.T) {
	t.Run("should leave the packet untouched for an empty filter list", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("a", []float64{1, 2}))

		runner := NewPipelineRunner(nil, 0, testLogger())
		out := runner.Run(context.Background(), packet)

		assert.Empty(t, out.History)
		assert.Equal(t, []string{"a"}, out.Frame.ColumnNames())
	})

	t.Run("should record one history entry per completed stage", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("a", []float64{1, 2}))

		runner := NewPipelineRunner([]models.Filter{
			&fakeFilter{name: "first"},
			&fakeFilter{name: "second"},
		}, 0, testLogger())
		out := runner.Run(context.Background(), packet)

		require.Len(t, out.History, 2)
		assert.Equal(t, "first", out.History[0].StageName)
		assert.Equal(t, "second", out.History[1].StageName)
		for _, stage := range out.History {
			assert.Equal(t, models.StageStatusOK, stage.Status)
			assert.Equal(t, "Completed successfully.", stage.Message)
		}
	})

	t.Run("should partition columns into added removed and kept", func(t *testing.T) {
		packet := newPacket(t,
			frame.NewNumericColumn("a", []float64{1}),
			frame.NewNumericColumn("b", []float64{2}),
		)

		swap := func(f *frame.Frame) *frame.Frame {
			out := &frame.Frame{}
			col, _ := f.Column("a")
			_ = out.AddColumn(col)
			_ = out.AddColumn(frame.NewNumericColumn("c", []float64{3}))
			return out
		}

		runner := NewPipelineRunner([]models.Filter{
			&fakeFilter{name: "swap", fn: swap},
		}, 0, testLogger())
		out := runner.Run(context.Background(), packet)

		require.Len(t, out.History, 1)
		stage := out.History[0]
		assert.Equal(t, []string{"c"}, stage.AddedCols)
		assert.Equal(t, []string{"b"}, stage.RemovedCols)
		assert.Equal(t, []string{"a"}, stage.KeptCols)
		assert.Equal(t, models.Shape{Rows: 1, Cols: 2}, stage.InShape)
		assert.Equal(t, models.Shape{Rows: 1, Cols: 2}, stage.OutShape)
	})

	t.Run("should drop modified declarations for columns that no longer exist", func(t *testing.T) {
		packet := newPacket(t,
			frame.NewNumericColumn("a", []float64{1}),
			frame.NewNumericColumn("b", []float64{2}),
		)

		dropB := func(f *frame.Frame) *frame.Frame {
			f.DropColumn("b")
			return f
		}

		runner := NewPipelineRunner([]models.Filter{
			&fakeFilter{name: "drop", fn: dropB, modified: []string{"a", "b"}},
		}, 0, testLogger())
		out := runner.Run(context.Background(), packet)

		require.Len(t, out.History, 1)
		assert.Equal(t, []string{"a"}, out.History[0].ModifiedCols)
	})

	t.Run("should halt at the first failing stage", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("a", []float64{1, math.NaN()}))

		third := &fakeFilter{name: "never"}
		runner := NewPipelineRunner([]models.Filter{
			&fakeFilter{name: "ok"},
			&fakeFilter{name: "boom", err: fmt.Errorf("numeric matrix contains missing values")},
			third,
		}, 0, testLogger())
		out := runner.Run(context.Background(), packet)

		require.Len(t, out.History, 2)
		assert.Equal(t, models.StageStatusOK, out.History[0].Status)

		failed := out.History[1]
		assert.Equal(t, models.StageStatusError, failed.Status)
		assert.Equal(t, "numeric matrix contains missing values", failed.Message)
		assert.Equal(t, failed.InShape, failed.OutShape)
		assert.Equal(t, []string{"a"}, failed.KeptCols)
		assert.Empty(t, failed.AddedCols)
		assert.Empty(t, failed.RemovedCols)
		assert.Empty(t, failed.ModifiedCols)
	})

	t.Run("should bound the preview to the configured row count", func(t *testing.T) {
		values := make([]float64, 20)
		packet := newPacket(t, frame.NewNumericColumn("a", values))

		runner := NewPipelineRunner([]models.Filter{
			&fakeFilter{name: "noop"},
		}, 5, testLogger())
		out := runner.Run(context.Background(), packet)

		require.Len(t, out.History, 1)
		assert.Equal(t, 5, out.History[0].Preview.Rows())
	})

	t.Run("should attach stage stats from the metadata side channel", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("a", []float64{1}))

		stats := &fakeFilter{name: "stats", fn: func(f *frame.Frame) *frame.Frame {
			return f
		}}
		runner := NewPipelineRunner([]models.Filter{stats}, 0, testLogger())

		packet.SetStats("stats", map[string]any{"k": "v"})
		out := runner.Run(context.Background(), packet)

		require.Len(t, out.History, 1)
		assert.Equal(t, map[string]any{"k": "v"}, out.History[0].Stats)
	})
}
