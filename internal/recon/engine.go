package recon

import (
	"fmt"

	"ct-console/internal/planning"
)

// Result is what a completed reconstruction setup yields: the slice stack
// the scan playback will step through.
type Result struct {
	CaseID      string `json:"case_id"`
	TotalSlices int    `json:"total_slices"`
	Kernel      Kernel `json:"kernel"`
}

// Engine is the simulated reconstruction collaborator. A real console would
// hand the parameters to the scanner backend; the simulator validates them
// and derives the slice stack from the committed z-range.
type Engine struct{}

// NewEngine creates the simulated engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Apply validates the parameter set against the committed planning snapshot
// and returns the resulting slice stack. It must complete (or fail) before
// the workflow enters the scanning state.
func (e *Engine) Apply(caseID string, params Params, snap planning.Snapshot) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, fmt.Errorf("reconstruction rejected: %w", err)
	}
	if !snap.WellFormed() {
		return Result{}, fmt.Errorf("reconstruction rejected: planning snapshot has no usable z-range")
	}

	total := params.SliceCount(snap.EndY - snap.StartY)
	if total <= 0 {
		return Result{}, fmt.Errorf("reconstruction rejected: z-range %d..%d yields no slices", snap.StartY, snap.EndY)
	}

	return Result{CaseID: caseID, TotalSlices: total, Kernel: params.Kernel}, nil
}
