package recording

import (
	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/arena"
	"github.com/gogpu/stroketess/internal/assert"
	"github.com/gogpu/stroketess/op"
	"github.com/gogpu/stroketess/tessellate"
)

const defaultBlockSize = 64 << 10

// vertexBlock is one host vertex buffer. Reservations are carved from
// the end; a reservation that does not fit starts a new block.
type vertexBlock struct {
	id   BufferID
	data []byte
	used int
}

type indirectBlock struct {
	id   BufferID
	args []tessellate.DrawIndirectArgs
}

type options struct {
	maxVertexBytes int
	blockSize      int
}

// Option configures NewFlushState.
type Option func(*options)

// WithMaxVertexBytes caps the vertex bytes reserved per flush. A
// reservation past the cap fails as exhaustion would on a device. 0
// means unlimited.
func WithMaxVertexBytes(n int) Option {
	return func(o *options) { o.maxVertexBytes = n }
}

// WithBlockSize sets the minimum size of a vertex block.
func WithBlockSize(n int) Option {
	return func(o *options) { o.blockSize = n }
}

// OptionsFromConfig translates cfg into flush state options.
func OptionsFromConfig(cfg stroketess.Config) []Option {
	return []Option{WithMaxVertexBytes(cfg.Buffers.MaxVertexBytes)}
}

// FlushState implements op.FlushState in host memory.
// It is not safe for concurrent use.
type FlushState struct {
	opts     options
	vertex   []*vertexBlock
	indirect []*indirectBlock
	nextID   BufferID
	reserved int // vertex bytes handed out this flush
	inPass   bool
	commands []Command
}

var (
	_ op.FlushState = (*FlushState)(nil)
	_ op.Uploader   = (*FlushState)(nil)
)

// NewFlushState returns an empty flush state outside any render pass.
func NewFlushState(opts ...Option) *FlushState {
	o := options{blockSize: defaultBlockSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &FlushState{opts: o}
}

// MakeVertexSpace reserves count vertices of stride bytes, aligned so
// the region starts on a whole vertex.
func (s *FlushState) MakeVertexSpace(stride, count int) (tessellate.VertexSpace, bool) {
	assert.That(stride > 0 && count > 0, "vertex space %d x %d", stride, count)
	n := stride * count
	if s.opts.maxVertexBytes > 0 && s.reserved+n > s.opts.maxVertexBytes {
		return tessellate.VertexSpace{}, false
	}

	var blk *vertexBlock
	off := 0
	if k := len(s.vertex); k > 0 {
		last := s.vertex[k-1]
		off = arena.AlignUp(last.used, stride)
		if off+n <= len(last.data) {
			blk = last
		}
	}
	if blk == nil {
		blk = &vertexBlock{id: s.newID(), data: make([]byte, max(n, s.opts.blockSize))}
		s.vertex = append(s.vertex, blk)
		off = 0
	}
	s.reserved += n + (off - blk.used)
	blk.used = off + n
	return tessellate.VertexSpace{
		Data:       blk.data[off : off+n : off+n],
		Buffer:     blk.id,
		BaseVertex: off / stride,
	}, true
}

// PutBackVertices returns the tail of the most recent reservation.
func (s *FlushState) PutBackVertices(stride, count int) {
	if count == 0 {
		return
	}
	assert.That(len(s.vertex) > 0, "put back without a reservation")
	blk := s.vertex[len(s.vertex)-1]
	n := stride * count
	assert.That(n <= blk.used, "put back %d bytes of %d", n, blk.used)
	blk.used -= n
	s.reserved -= n
}

// MakeDrawIndirectSpace reserves count indirect draws in a new block.
func (s *FlushState) MakeDrawIndirectSpace(count int) (tessellate.IndirectSpace, bool) {
	assert.That(count > 0, "indirect space %d", count)
	blk := &indirectBlock{id: s.newID(), args: make([]tessellate.DrawIndirectArgs, count)}
	s.indirect = append(s.indirect, blk)
	return tessellate.IndirectSpace{Args: blk.args, Buffer: blk.id, Offset: 0}, true
}

func (s *FlushState) newID() BufferID {
	id := s.nextID
	s.nextID++
	return id
}

// Upload is a no-op: host buffers need no copy.
func (s *FlushState) Upload() error { return nil }

// BeginRenderPass starts recording draws.
func (s *FlushState) BeginRenderPass() {
	assert.That(!s.inPass, "nested render pass")
	s.inPass = true
	s.commands = append(s.commands, BeginRenderPass{})
}

// EndRenderPass ends the current pass.
func (s *FlushState) EndRenderPass() {
	assert.That(s.inPass, "end without a render pass")
	s.inPass = false
	s.commands = append(s.commands, EndRenderPass{})
}

// InRenderPass reports whether a pass is open.
func (s *FlushState) InRenderPass() bool { return s.inPass }

// BindPipeline records a program bind.
func (s *FlushState) BindPipeline(p *op.Program, bounds stroketess.Rect) {
	s.commands = append(s.commands, BindPipeline{Key: p.Key, Bounds: bounds})
}

// BindBuffers records the bound streams.
func (s *FlushState) BindBuffers(instance, vertex tessellate.Buffer) {
	s.commands = append(s.commands, BindBuffers{Instance: bufferID(instance), Vertex: bufferID(vertex)})
}

// SetUniforms records per-run uniforms.
func (s *FlushState) SetUniforms(u tessellate.Uniforms) {
	s.commands = append(s.commands, SetUniforms{Uniforms: u})
}

// Draw records a non-instanced draw.
func (s *FlushState) Draw(vertexCount, firstVertex int) {
	s.commands = append(s.commands, Draw{VertexCount: vertexCount, FirstVertex: firstVertex})
}

// DrawInstanced records an instanced draw.
func (s *FlushState) DrawInstanced(instanceCount, firstInstance, vertexCount, firstVertex int) {
	s.commands = append(s.commands, DrawInstanced{
		InstanceCount: instanceCount,
		FirstInstance: firstInstance,
		VertexCount:   vertexCount,
		FirstVertex:   firstVertex,
	})
}

// DrawIndirect records an indirect batch with a copy of its arguments.
func (s *FlushState) DrawIndirect(buf tessellate.Buffer, offset, drawCount int) {
	id := bufferID(buf)
	cmd := DrawIndirect{Buffer: id, Offset: offset, DrawCount: drawCount}
	for _, blk := range s.indirect {
		if blk.id == id {
			first := offset / tessellate.DrawIndirectArgsSize
			cmd.Args = append([]tessellate.DrawIndirectArgs(nil), blk.args[first:first+drawCount]...)
			break
		}
	}
	s.commands = append(s.commands, cmd)
}

func bufferID(b tessellate.Buffer) BufferID {
	if b == nil {
		return NoBuffer
	}
	return b.(BufferID)
}

// Commands returns every recorded command in order.
func (s *FlushState) Commands() []Command { return s.commands }

// Count returns how many commands of type t were recorded.
func (s *FlushState) Count(t CommandType) int {
	n := 0
	for _, c := range s.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// VertexData returns the used bytes of vertex block id, or nil.
func (s *FlushState) VertexData(id BufferID) []byte {
	for _, blk := range s.vertex {
		if blk.id == id {
			return blk.data[:blk.used]
		}
	}
	return nil
}

// ReservedVertexBytes returns the vertex bytes currently reserved.
func (s *FlushState) ReservedVertexBytes() int { return s.reserved }

// Reset drops every buffer and command for the next frame.
func (s *FlushState) Reset() {
	assert.That(!s.inPass, "reset inside a render pass")
	s.vertex = s.vertex[:0]
	s.indirect = s.indirect[:0]
	s.commands = s.commands[:0]
	s.reserved = 0
	s.nextID = 0
}
