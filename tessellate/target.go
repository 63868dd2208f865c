package tessellate

import "github.com/gogpu/stroketess"

// Buffer is an opaque backend buffer handle. Tessellators only pass it
// back to the Recorder that handed it out.
type Buffer any

// VertexSpace is a writable region of a vertex buffer.
type VertexSpace struct {
	// Data receives stride*count bytes of vertex data.
	Data []byte
	// Buffer is the backend buffer that holds Data.
	Buffer Buffer
	// BaseVertex is the index of the first vertex of Data in Buffer.
	BaseVertex int
}

// IndirectSpace is a writable region of an indirect-argument buffer.
type IndirectSpace struct {
	Args   []DrawIndirectArgs
	Buffer Buffer
	// Offset is the byte offset of Args[0] in Buffer.
	Offset int
}

// DrawIndirectArgs matches the GPU layout of a non-indexed indirect draw.
type DrawIndirectArgs struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// DrawIndirectArgsSize is the byte size of one DrawIndirectArgs.
const DrawIndirectArgsSize = 16

// Target hands out GPU-visible memory during preparation. It is only
// used on the render thread. Exhaustion is reported with ok == false.
type Target interface {
	// MakeVertexSpace reserves count vertices of stride bytes each.
	MakeVertexSpace(stride, count int) (space VertexSpace, ok bool)
	// PutBackVertices returns the last count vertices of the most recent
	// reservation.
	PutBackVertices(stride, count int)
	// MakeDrawIndirectSpace reserves count indirect draws.
	MakeDrawIndirectSpace(count int) (space IndirectSpace, ok bool)
}

// Uniforms is the per-draw state shared by every patch of a run.
type Uniforms struct {
	ViewMatrix stroketess.Matrix
	Stroke     stroketess.Stroke
	Color      stroketess.PMColor
}

// Recorder receives the draw commands of a tessellator. The caller binds
// the pipeline before Draw; tessellators never do.
type Recorder interface {
	// BindBuffers binds the per-instance and per-vertex streams. Either
	// may be nil.
	BindBuffers(instance, vertex Buffer)
	SetUniforms(u Uniforms)
	Draw(vertexCount, firstVertex int)
	DrawInstanced(instanceCount, firstInstance, vertexCount, firstVertex int)
	// DrawIndirect issues drawCount draws whose arguments start at byte
	// offset in buf.
	DrawIndirect(buf Buffer, offset, drawCount int)
}
