package tessellate

import "fmt"

// fakeTarget is an in-memory Target with switchable exhaustion.
type fakeTarget struct {
	vertexData   []byte
	stride       int
	reserved     int
	putBack      int
	args         []DrawIndirectArgs
	baseVertex   int
	failVertex   bool
	failIndirect bool
}

func (f *fakeTarget) MakeVertexSpace(stride, count int) (VertexSpace, bool) {
	if f.failVertex {
		return VertexSpace{}, false
	}
	f.stride, f.reserved = stride, count
	f.vertexData = make([]byte, stride*count)
	return VertexSpace{Data: f.vertexData, Buffer: "vbuf", BaseVertex: f.baseVertex}, true
}

func (f *fakeTarget) PutBackVertices(stride, count int) {
	if stride != f.stride {
		panic("PutBackVertices stride mismatch")
	}
	f.putBack += count
}

func (f *fakeTarget) MakeDrawIndirectSpace(count int) (IndirectSpace, bool) {
	if f.failIndirect {
		return IndirectSpace{}, false
	}
	f.args = make([]DrawIndirectArgs, count)
	return IndirectSpace{Args: f.args, Buffer: "ibuf", Offset: 32}, true
}

// fakeRecorder logs every call as a string.
type fakeRecorder struct {
	calls    []string
	uniforms []Uniforms
}

func (r *fakeRecorder) BindBuffers(instance, vertex Buffer) {
	r.calls = append(r.calls, fmt.Sprintf("bind %v %v", instance, vertex))
}

func (r *fakeRecorder) SetUniforms(u Uniforms) {
	r.uniforms = append(r.uniforms, u)
	r.calls = append(r.calls, "uniforms")
}

func (r *fakeRecorder) Draw(vertexCount, firstVertex int) {
	r.calls = append(r.calls, fmt.Sprintf("draw %d %d", vertexCount, firstVertex))
}

func (r *fakeRecorder) DrawInstanced(instanceCount, firstInstance, vertexCount, firstVertex int) {
	r.calls = append(r.calls, fmt.Sprintf("instanced %d %d %d %d", instanceCount, firstInstance, vertexCount, firstVertex))
}

func (r *fakeRecorder) DrawIndirect(buf Buffer, offset, drawCount int) {
	r.calls = append(r.calls, fmt.Sprintf("indirect %v %d %d", buf, offset, drawCount))
}
