package tessellate

import "github.com/gogpu/stroketess"

// HardwareTessellator writes one fat vertex per patch and draws each
// uniform run with a single non-instanced draw.
type HardwareTessellator struct {
	lifecycle
	vertexBuffer Buffer
	baseVertex   int
	patchCount   int
	runs         []run
	scratch      []cubic
}

// NewHardwareTessellator returns a hardware-stage tessellator for flags.
func NewHardwareTessellator(flags ShaderFlags) Tessellator {
	return &HardwareTessellator{lifecycle: lifecycle{flags: flags}}
}

// Mode returns ModeHardware.
func (t *HardwareTessellator) Mode() Mode { return ModeHardware }

// Flags returns the shader flags fixed at construction.
func (t *HardwareTessellator) Flags() ShaderFlags { return t.flags }

// PatchCount returns the number of patches written by Prepare.
func (t *HardwareTessellator) PatchCount() int { return t.patchCount }

// Prepare writes every patch of list. The reservation is sized for
// totalVerbCount patches and the unused tail is returned to target.
func (t *HardwareTessellator) Prepare(target Target, viewMatrix stroketess.Matrix, list *PathStrokeList, totalVerbCount int) {
	t.beginPrepare(ModeHardware)
	if totalVerbCount <= 0 || list.IsEmpty() {
		return
	}

	stride := PatchStride(t.flags)
	space, ok := target.MakeVertexSpace(stride, totalVerbCount)
	if !ok {
		stroketess.Logger().Warn("tessellate: vertex allocation failed, skipping stroke draw",
			"mode", ModeHardware, "patches", totalVerbCount, "stride", stride)
		return
	}

	w := newPatchWriter(space.Data, stride, t.flags)
	var prevEntry *PathStroke
	for s := range list.All() {
		if prevEntry == nil || !sameUniforms(prevEntry, s, t.flags) {
			t.closeRun(w.count)
			t.runs = append(t.runs, run{
				uniforms: Uniforms{ViewMatrix: viewMatrix, Stroke: s.Stroke, Color: s.Color},
				first:    w.count,
			})
			prevEntry = s
		}
		t.scratch = forEachPatch(s.Path, t.scratch, func(prev stroketess.Point, c cubic) {
			w.write(prev, c, s)
		})
	}
	t.closeRun(w.count)

	target.PutBackVertices(stride, totalVerbCount-w.count)
	t.patchCount = w.count
	if w.count == 0 {
		return
	}
	t.vertexBuffer = space.Buffer
	t.baseVertex = space.BaseVertex
	t.ok = true
	stroketess.Logger().Debug("tessellate: prepared",
		"mode", ModeHardware, "patches", w.count, "runs", len(t.runs), "flags", t.flags)
}

// closeRun sets the count of the open run and drops it when empty.
func (t *HardwareTessellator) closeRun(end int) {
	if n := len(t.runs); n > 0 {
		r := &t.runs[n-1]
		r.count = end - r.first
		if r.count == 0 {
			t.runs = t.runs[:n-1]
		}
	}
}

// Draw binds the patch buffer and draws every run.
func (t *HardwareTessellator) Draw(rec Recorder) {
	if !t.beginDraw(ModeHardware) {
		return
	}
	rec.BindBuffers(nil, t.vertexBuffer)
	for _, r := range t.runs {
		rec.SetUniforms(r.uniforms)
		rec.Draw(r.count, t.baseVertex+r.first)
	}
}
