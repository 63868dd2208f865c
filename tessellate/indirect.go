package tessellate

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/assert"
)

// IndirectTessellator expands every patch as an instanced triangle
// strip. Instances are bucketed by resolve level so each (run, level)
// pair becomes one indirect draw with a fixed vertex count.
type IndirectTessellator struct {
	lifecycle
	instanceBuffer Buffer
	argsBuffer     Buffer
	argsOffset     int
	instanceCount  int
	runs           []run // first/count index draw args
	args           []DrawIndirectArgs
	scratch        []cubic
}

// NewIndirectTessellator returns an indirect-draw tessellator for flags.
func NewIndirectTessellator(flags ShaderFlags) Tessellator {
	return &IndirectTessellator{lifecycle: lifecycle{flags: flags}}
}

// Mode returns ModeIndirect.
func (t *IndirectTessellator) Mode() Mode { return ModeIndirect }

// Flags returns the shader flags fixed at construction.
func (t *IndirectTessellator) Flags() ShaderFlags { return t.flags }

// InstanceCount returns the number of instances written by Prepare.
func (t *IndirectTessellator) InstanceCount() int { return t.instanceCount }

// Args returns the indirect draws written by Prepare.
func (t *IndirectTessellator) Args() []DrawIndirectArgs { return t.args }

type instance struct {
	prev   stroketess.Point
	c      cubic
	stroke *PathStroke
	level  int
}

// Prepare resolves every patch, then writes the instance and indirect
// argument buffers.
func (t *IndirectTessellator) Prepare(target Target, viewMatrix stroketess.Matrix, list *PathStrokeList, totalVerbCount int) {
	t.beginPrepare(ModeIndirect)
	if totalVerbCount <= 0 || list.IsEmpty() {
		return
	}

	// Resolve levels and runs on the CPU first: the argument count is
	// only known once every patch has been measured.
	var (
		instances []instance
		runStarts []int
		runHeads  []*PathStroke
	)
	for s := range list.All() {
		if n := len(runHeads); n == 0 || !sameUniforms(runHeads[n-1], s, t.flags) {
			runStarts = append(runStarts, len(instances))
			runHeads = append(runHeads, s)
		}
		t.scratch = forEachPatch(s.Path, t.scratch, func(prev stroketess.Point, c cubic) {
			level := resolveLevel(wangSegments(c.transform(viewMatrix)))
			instances = append(instances, instance{prev: prev, c: c, stroke: s, level: level})
		})
	}
	assert.That(len(instances) <= totalVerbCount,
		"%d patches exceed verb count %d", len(instances), totalVerbCount)
	if len(instances) == 0 {
		return
	}
	runStarts = append(runStarts, len(instances))

	type bucket struct {
		count [MaxResolveLevel + 1]int
	}
	buckets := make([]bucket, len(runHeads))
	argCount := 0
	for r := range runHeads {
		for _, in := range instances[runStarts[r]:runStarts[r+1]] {
			if buckets[r].count[in.level] == 0 {
				argCount++
			}
			buckets[r].count[in.level]++
		}
	}

	stride := InstanceStride(t.flags)
	space, ok := target.MakeVertexSpace(stride, totalVerbCount)
	if !ok {
		stroketess.Logger().Warn("tessellate: instance allocation failed, skipping stroke draw",
			"mode", ModeIndirect, "instances", totalVerbCount, "stride", stride)
		return
	}
	argSpace, ok := target.MakeDrawIndirectSpace(argCount)
	if !ok {
		target.PutBackVertices(stride, totalVerbCount)
		stroketess.Logger().Warn("tessellate: indirect allocation failed, skipping stroke draw",
			"mode", ModeIndirect, "draws", argCount)
		return
	}
	target.PutBackVertices(stride, totalVerbCount-len(instances))

	w := newPatchWriter(space.Data, stride, t.flags)
	for r, head := range runHeads {
		// Slot of the next instance of each level within this run.
		var next [MaxResolveLevel + 1]int
		slot := runStarts[r]
		firstArg := len(t.args)
		for level, n := range buckets[r].count {
			if n == 0 {
				continue
			}
			next[level] = slot
			t.args = append(t.args, DrawIndirectArgs{
				VertexCount:   levelVertexCount(level),
				InstanceCount: uint32(n),
				FirstVertex:   0,
				FirstInstance: uint32(space.BaseVertex + slot),
			})
			slot += n
		}
		for _, in := range instances[runStarts[r]:runStarts[r+1]] {
			w.count = next[in.level]
			next[in.level]++
			tail := w.write(in.prev, in.c, in.stroke)
			binary.LittleEndian.PutUint32(tail, math.Float32bits(float32(int(1)<<in.level)))
		}
		t.runs = append(t.runs, run{
			uniforms: Uniforms{ViewMatrix: viewMatrix, Stroke: head.Stroke, Color: head.Color},
			first:    firstArg,
			count:    len(t.args) - firstArg,
		})
	}
	copy(argSpace.Args, t.args)

	t.instanceBuffer = space.Buffer
	t.argsBuffer = argSpace.Buffer
	t.argsOffset = argSpace.Offset
	t.instanceCount = len(instances)
	t.ok = true
	stroketess.Logger().Debug("tessellate: prepared",
		"mode", ModeIndirect, "instances", len(instances), "draws", argCount,
		"runs", len(t.runs), "flags", t.flags)
}

// Draw binds the instance buffer and issues one indirect draw batch per
// run.
func (t *IndirectTessellator) Draw(rec Recorder) {
	if !t.beginDraw(ModeIndirect) {
		return
	}
	rec.BindBuffers(t.instanceBuffer, nil)
	for _, r := range t.runs {
		rec.SetUniforms(r.uniforms)
		rec.DrawIndirect(t.argsBuffer, t.argsOffset+r.first*DrawIndirectArgsSize, r.count)
	}
}
