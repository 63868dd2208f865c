package op

import (
	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/assert"
	"github.com/gogpu/stroketess/tessellate"
)

// maxVerbsToEnableDynamicState is the batch size up to which enabling a
// new dynamic state is always worth its extra vertex payload.
const maxVerbsToEnableDynamicState = 50

// StrokeOp draws a batch of stroked paths that share a view matrix,
// antialiasing mode and paint.
//
// An op is created for one stroke, offered to earlier ops with
// CombineIfPossible, then driven through PrePrepare (optional, may run
// on a worker), Prepare and Execute (render thread). StrokeOp does no
// locking; one goroutine at a time may touch an op.
type StrokeOp struct {
	aa           stroketess.AAType
	viewMatrix   stroketess.Matrix
	list         tessellate.PathStrokeList
	flags        tessellate.ShaderFlags
	totalVerbs   int
	processors   *ProcessorSet
	needsStencil bool
	bounds       stroketess.Rect
	state        State
	finalized    bool

	tessellator    tessellate.Tessellator
	pipelineInfo   *PipelineInfo
	fillProgram    *Program
	stencilProgram *Program
	// skipDraw is set when programs could not be built; the op then
	// issues nothing this frame.
	skipDraw bool
}

// NewStrokeOp returns an op drawing one stroke. The op keeps its own
// copy of path, so the caller may reuse it. List nodes come from a,
// which must outlive the op; a nil arena uses the heap.
func NewStrokeOp(a *tessellate.Arena, aa stroketess.AAType, viewMatrix stroketess.Matrix,
	path *stroketess.Path, stroke stroketess.Stroke, color stroketess.PMColor, processors *ProcessorSet) *StrokeOp {
	assert.That(processors != nil, "stroke op without processors")
	assert.That(path != nil, "stroke op without a path")
	path = path.Clone()
	op := &StrokeOp{
		aa:         aa,
		viewMatrix: viewMatrix,
		list:       tessellate.NewPathStrokeList(a),
		totalVerbs: path.CountVerbs(),
		processors: processors,
	}
	op.list.Append(tessellate.PathStroke{Path: path, Stroke: stroke, Color: color})
	if !color.FitsInBytes() {
		op.flags |= tessellate.ShaderFlagWideColor
	}

	r := stroke.InflationRadius()
	if stroke.IsHairline() {
		op.bounds = viewMatrix.MapRect(path.Bounds()).Outset(r, r)
	} else {
		op.bounds = viewMatrix.MapRect(path.Bounds().Outset(r, r))
	}
	return op
}

// AA returns the antialiasing mode.
func (op *StrokeOp) AA() stroketess.AAType { return op.aa }

// ViewMatrix returns the matrix shared by every entry.
func (op *StrokeOp) ViewMatrix() stroketess.Matrix { return op.viewMatrix }

// Flags returns the current shader flags.
func (op *StrokeOp) Flags() tessellate.ShaderFlags { return op.flags }

// TotalVerbCount returns the verb total over every entry.
func (op *StrokeOp) TotalVerbCount() int { return op.totalVerbs }

// NeedsStencil reports whether the op draws a stencil pass before its
// fill.
func (op *StrokeOp) NeedsStencil() bool { return op.needsStencil }

// Bounds returns the device-space bounds of every entry.
func (op *StrokeOp) Bounds() stroketess.Rect { return op.bounds }

// State returns the lifecycle stage.
func (op *StrokeOp) State() State { return op.state }

// Finalized reports whether Finalize has run.
func (op *StrokeOp) Finalized() bool { return op.finalized }

// Len returns the number of strokes in the op.
func (op *StrokeOp) Len() int { return op.list.Len() }

// Strokes returns the op's stroke list. Entries other than the head must
// not be modified.
func (op *StrokeOp) Strokes() *tessellate.PathStrokeList { return &op.list }

// Processors returns the paint, or nil once it has moved into the
// pipeline info.
func (op *StrokeOp) Processors() *ProcessorSet { return op.processors }

// Tessellator returns the tessellator, nil before pre-preparation.
func (op *StrokeOp) Tessellator() tessellate.Tessellator { return op.tessellator }

// FillProgram returns the fill program, nil before pre-preparation.
func (op *StrokeOp) FillProgram() *Program { return op.fillProgram }

// StencilProgram returns the stencil program if the op needs one.
func (op *StrokeOp) StencilProgram() *Program { return op.stencilProgram }

// Finalize analyses the paint against the single stroke of a new op. An
// effect with a constant output replaces the head color, and a paint
// whose output depends on the destination turns on the stencil pass.
func (op *StrokeOp) Finalize() Analysis {
	assert.That(op.state == StateCreated, "finalize in state %v", op.state)
	assert.That(!op.finalized, "finalize twice")
	assert.That(op.list.Len() == 1, "finalize after combine (%d strokes)", op.list.Len())
	assert.That(op.processors != nil, "finalize after processors were transferred")

	head := op.list.Head()
	a := op.processors.Analyze(head.Color, op.aa)
	if a.HasOverrideColor {
		head.Color = a.OverrideColor
		if !head.Color.FitsInBytes() {
			op.flags |= tessellate.ShaderFlagWideColor
		} else {
			op.flags &^= tessellate.ShaderFlagWideColor
		}
	}
	op.needsStencil = !a.UnaffectedByDstValue
	op.finalized = true
	return a
}

// ShouldUseDynamicStates reports whether enabling the needed dynamic
// states is worthwhile: always when they are already on, otherwise only
// for small batches.
func (op *StrokeOp) ShouldUseDynamicStates(needed tessellate.ShaderFlags) bool {
	return needed&^op.flags == 0 || op.totalVerbs <= maxVerbsToEnableDynamicState
}

// CanUseHardwareTessellation reports whether the hardware strategy can
// draw this op: the device must have a tessellation stage and the paint
// must not need interpolated local coordinates. It must be called before
// the processors are transferred.
func (op *StrokeOp) CanUseHardwareTessellation(caps Caps) bool {
	assert.That(op.processors != nil, "hardware eligibility checked after processors were transferred")
	return caps.TessellationSupport() && !op.processors.UsesVaryingCoords()
}

// CombineIfPossible merges other into op when both share antialiasing,
// a bit-identical view matrix and equal paint. On success other is left
// empty and discarded.
func (op *StrokeOp) CombineIfPossible(other *StrokeOp) CombineResult {
	assert.That(op != other, "op combined with itself")
	assert.That(op.state == StateCreated, "combine into op in state %v", op.state)
	assert.That(other.state == StateCreated, "combine of op in state %v", other.state)

	if op.aa != other.aa ||
		!op.viewMatrix.Equal(other.viewMatrix) ||
		!op.processors.Equal(other.processors) {
		return CombineCannotCombine
	}

	op.list.Concat(&other.list)
	op.flags |= other.flags
	op.totalVerbs += other.totalVerbs
	op.needsStencil = op.needsStencil || other.needsStencil
	op.bounds = op.bounds.Union(other.bounds)

	other.processors = nil
	other.totalVerbs = 0
	other.state = StateDiscarded
	return CombineMerged
}

// neededDynamicStates returns the dynamic states that would let every
// entry share one run.
func (op *StrokeOp) neededDynamicStates() tessellate.ShaderFlags {
	head := op.list.Head()
	var needed tessellate.ShaderFlags
	for s := range op.list.All() {
		if !head.Stroke.IsHairline() && !s.Stroke.IsHairline() &&
			!head.Stroke.EqualDynamicState(s.Stroke) {
			needed |= tessellate.ShaderFlagDynamicStroke
		}
		if !head.Color.Equal(s.Color) {
			needed |= tessellate.ShaderFlagDynamicColor
		}
	}
	return needed
}

// PrePrepare selects the strategy and dynamic states, builds the
// tessellator and programs, and moves the processors into the pipeline
// info. It may run on a worker goroutine.
func (op *StrokeOp) PrePrepare(ctx *Context) {
	assert.That(op.state == StateCreated, "pre-prepare in state %v", op.state)
	op.prePrepareTessellator(ctx)
	op.state = StatePrePrepared
}

func (op *StrokeOp) prePrepareTessellator(ctx *Context) {
	assert.That(op.tessellator == nil, "tessellator already built")
	log := stroketess.Logger()

	needed := op.neededDynamicStates()
	for _, state := range [...]tessellate.ShaderFlags{tessellate.ShaderFlagDynamicStroke, tessellate.ShaderFlagDynamicColor} {
		if needed.Has(state) && op.ShouldUseDynamicStates(state) {
			op.flags |= state
		}
	}

	mode := tessellate.ModeIndirect
	if ctx.HardwareTessellationAllowed() && op.CanUseHardwareTessellation(ctx.Caps()) {
		mode = tessellate.ModeHardware
	}
	if mode == tessellate.ModeHardware {
		op.tessellator = tessellate.NewHardwareTessellator(op.flags)
	} else {
		op.tessellator = tessellate.NewIndirectTessellator(op.flags)
	}

	op.pipelineInfo = &PipelineInfo{Processors: op.takeProcessors(), AA: op.aa}
	key := ProgramKey{
		Mode:       mode,
		Flags:      op.flags,
		AA:         op.aa,
		Stencil:    StencilUnused,
		Blend:      op.pipelineInfo.Processors.Blend(),
		Processors: op.pipelineInfo.Processors.Key(),
	}
	if op.needsStencil {
		key.Stencil = StencilMark
		p, err := ctx.Programs().Get(key, op.pipelineInfo)
		if err != nil {
			log.Warn("op: stencil program unavailable, skipping stroke draw", "err", err)
			op.skipDraw = true
			return
		}
		op.stencilProgram = p
		key.Stencil = StencilTestAndReset
	}
	p, err := ctx.Programs().Get(key, op.pipelineInfo)
	if err != nil {
		log.Warn("op: fill program unavailable, skipping stroke draw", "err", err)
		op.skipDraw = true
		return
	}
	op.fillProgram = p
	log.Debug("op: pre-prepared stroke",
		"mode", mode, "flags", op.flags, "strokes", op.list.Len(),
		"verbs", op.totalVerbs, "stencil", op.needsStencil)
}

// takeProcessors moves the processor set out of the op. A second take is
// a contract violation.
func (op *StrokeOp) takeProcessors() *ProcessorSet {
	assert.That(op.processors != nil, "processors transferred twice")
	p := op.processors
	op.processors = nil
	return p
}

// Prepare fills the op's buffers, pre-preparing first if that was
// skipped. Render thread only.
func (op *StrokeOp) Prepare(ctx *Context, fs FlushState) {
	assert.That(op.state == StateCreated || op.state == StatePrePrepared, "prepare in state %v", op.state)
	if op.tessellator == nil {
		op.prePrepareTessellator(ctx)
	}
	if !op.skipDraw {
		op.tessellator.Prepare(fs, op.viewMatrix, &op.list, op.totalVerbs)
	}
	op.state = StatePrepared
}

// Execute issues the op's draws inside the active render pass: the
// stencil pass first when needed, then the fill. The op is terminal
// afterwards.
func (op *StrokeOp) Execute(fs FlushState) {
	assert.That(fs.InRenderPass(), "execute outside a render pass")
	assert.That(op.state == StatePrepared, "execute in state %v", op.state)
	if !op.skipDraw {
		if op.stencilProgram != nil {
			fs.BindPipeline(op.stencilProgram, op.bounds)
			op.tessellator.Draw(fs)
		}
		fs.BindPipeline(op.fillProgram, op.bounds)
		op.tessellator.Draw(fs)
	}
	op.release()
	op.state = StateExecuted
}

// Discard drops the op without drawing, as when a render pass is
// aborted.
func (op *StrokeOp) Discard() {
	assert.That(op.state != StateExecuted, "discard after execute")
	op.release()
	op.state = StateDiscarded
}

func (op *StrokeOp) release() {
	op.tessellator = nil
	op.fillProgram = nil
	op.stencilProgram = nil
	op.pipelineInfo = nil
	op.processors = nil
	op.list = tessellate.PathStrokeList{}
}
