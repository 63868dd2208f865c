package op

import (
	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/tessellate"
)

// State is the lifecycle stage of a StrokeOp.
type State uint8

const (
	// StateCreated accepts merges; the op still owns its processors.
	StateCreated State = iota
	// StatePrePrepared has a tessellator and programs.
	StatePrePrepared
	// StatePrepared has filled its buffers.
	StatePrepared
	// StateExecuted has issued its draws. Terminal.
	StateExecuted
	// StateDiscarded was merged into another op or aborted. Terminal.
	StateDiscarded
)

var stateNames = [...]string{
	StateCreated:     "Created",
	StatePrePrepared: "PrePrepared",
	StatePrepared:    "Prepared",
	StateExecuted:    "Executed",
	StateDiscarded:   "Discarded",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// CombineResult is the outcome of StrokeOp.CombineIfPossible.
type CombineResult uint8

const (
	// CombineCannotCombine leaves both ops independent.
	CombineCannotCombine CombineResult = iota
	// CombineMerged moved the other op's strokes into the receiver.
	CombineMerged
)

// String returns the result name.
func (r CombineResult) String() string {
	if r == CombineMerged {
		return "Merged"
	}
	return "CannotCombine"
}

// FlushState is the render-thread view of a backend during preparation
// and execution.
type FlushState interface {
	tessellate.Target
	tessellate.Recorder
	// BindPipeline binds p for the draws that follow, scissored to
	// bounds.
	BindPipeline(p *Program, bounds stroketess.Rect)
	// InRenderPass reports whether draws can be issued.
	InRenderPass() bool
}

// Uploader is implemented by flush states that stage buffer contents on
// the CPU and must copy them to the GPU between preparation and
// execution.
type Uploader interface {
	Upload() error
}
