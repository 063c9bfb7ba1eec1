package store

import (
	"context"

	"github.com/roach88/minq/internal/ir"
)

// Recorder is an engine.TraceSink that buffers the steps and outputs of
// one run in memory. The run row must exist before step rows can be
// written (foreign keys), and the step count is only known at the end, so
// the recorder collects everything and RecordRun persists the whole run in
// a single transaction afterwards.
type Recorder struct {
	steps   []ir.Step
	outputs []ir.Output
}

// NewRecorder creates an empty recorder for one run.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Step buffers one executed step.
func (r *Recorder) Step(_ context.Context, step ir.Step) error {
	r.steps = append(r.steps, step)
	return nil
}

// Output buffers one printed value.
func (r *Recorder) Output(_ context.Context, out ir.Output) error {
	r.outputs = append(r.outputs, out)
	return nil
}

// Steps returns the buffered steps in execution order.
func (r *Recorder) Steps() []ir.Step {
	return r.steps
}

// Outputs returns the buffered outputs in print order.
func (r *Recorder) Outputs() []ir.Output {
	return r.outputs
}
