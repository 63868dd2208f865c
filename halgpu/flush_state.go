package halgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/arena"
	"github.com/gogpu/stroketess/internal/assert"
	"github.com/gogpu/stroketess/op"
	"github.com/gogpu/stroketess/tessellate"
)

const defaultBlockSize = 256 << 10

// ErrNotUploaded is reported when draws reference staging that was never
// uploaded.
var ErrNotUploaded = errors.New("halgpu: vertex data not uploaded")

// PassEncoder is the subset of hal.RenderPassEncoder the flush state
// encodes into.
type PassEncoder interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// stagingBlock is CPU-side vertex memory uploaded as one GPU buffer.
type stagingBlock struct {
	data []byte
	used int
	gpu  hal.Buffer
}

// argsBlock holds indirect arguments. They stay on the CPU: batches are
// replayed as direct draws.
type argsBlock struct {
	args []tessellate.DrawIndirectArgs
}

type flushOptions struct {
	maxVertexBytes int
	blockSize      int
}

// FlushOption configures NewFlushState.
type FlushOption func(*flushOptions)

// WithMaxVertexBytes caps the vertex bytes staged per flush. 0 means
// unlimited.
func WithMaxVertexBytes(n int) FlushOption {
	return func(o *flushOptions) { o.maxVertexBytes = n }
}

// WithBlockSize sets the minimum size of a staging block.
func WithBlockSize(n int) FlushOption {
	return func(o *flushOptions) { o.blockSize = n }
}

// FlushOptionsFromConfig translates cfg into flush state options.
func FlushOptionsFromConfig(cfg stroketess.Config) []FlushOption {
	return []FlushOption{WithMaxVertexBytes(cfg.Buffers.MaxVertexBytes)}
}

// FlushState implements op.FlushState for one render target of a
// Device. Render thread only.
type FlushState struct {
	dev            *Device
	width, height  float32
	opts           flushOptions
	blocks         []*stagingBlock
	argBlocks      []*argsBlock
	reserved       int
	pass           PassEncoder
	current        *pipeline
	uniformBuffers []hal.Buffer
	bindGroups     []hal.BindGroup
	draws          int
}

var (
	_ op.FlushState = (*FlushState)(nil)
	_ op.Uploader   = (*FlushState)(nil)
)

// NewFlushState returns a flush state for a width x height target.
func NewFlushState(dev *Device, width, height int, opts ...FlushOption) *FlushState {
	o := flushOptions{blockSize: defaultBlockSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &FlushState{dev: dev, width: float32(width), height: float32(height), opts: o}
}

// MakeVertexSpace reserves count vertices of stride bytes in staging.
func (s *FlushState) MakeVertexSpace(stride, count int) (tessellate.VertexSpace, bool) {
	assert.That(stride > 0 && count > 0, "vertex space %d x %d", stride, count)
	n := stride * count
	if s.opts.maxVertexBytes > 0 && s.reserved+n > s.opts.maxVertexBytes {
		return tessellate.VertexSpace{}, false
	}
	var blk *stagingBlock
	off := 0
	if k := len(s.blocks); k > 0 {
		last := s.blocks[k-1]
		off = arena.AlignUp(last.used, stride)
		if last.gpu == nil && off+n <= len(last.data) {
			blk = last
		}
	}
	if blk == nil {
		blk = &stagingBlock{data: make([]byte, max(n, s.opts.blockSize))}
		s.blocks = append(s.blocks, blk)
		off = 0
	}
	s.reserved += n + (off - blk.used)
	blk.used = off + n
	return tessellate.VertexSpace{
		Data:       blk.data[off : off+n : off+n],
		Buffer:     blk,
		BaseVertex: off / stride,
	}, true
}

// PutBackVertices returns the tail of the most recent reservation.
func (s *FlushState) PutBackVertices(stride, count int) {
	if count == 0 {
		return
	}
	assert.That(len(s.blocks) > 0, "put back without a reservation")
	blk := s.blocks[len(s.blocks)-1]
	n := stride * count
	assert.That(n <= blk.used, "put back %d bytes of %d", n, blk.used)
	blk.used -= n
	s.reserved -= n
}

// MakeDrawIndirectSpace reserves count indirect draws.
func (s *FlushState) MakeDrawIndirectSpace(count int) (tessellate.IndirectSpace, bool) {
	blk := &argsBlock{args: make([]tessellate.DrawIndirectArgs, count)}
	s.argBlocks = append(s.argBlocks, blk)
	return tessellate.IndirectSpace{Args: blk.args, Buffer: blk}, true
}

// Upload copies every staged block that has not been uploaded to a new
// vertex buffer. Queue writes land before the next submit, so Upload may
// run while a pass is being encoded.
func (s *FlushState) Upload() error {
	for i, blk := range s.blocks {
		if blk.gpu != nil || blk.used == 0 {
			continue
		}
		buf, err := s.dev.createAndUploadBuffer(fmt.Sprintf("stroke_vertices_%d", i),
			blk.data[:blk.used], gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return fmt.Errorf("halgpu: upload: %w", err)
		}
		blk.gpu = buf
	}
	return nil
}

// BeginRenderPass directs draws to pass.
func (s *FlushState) BeginRenderPass(pass PassEncoder) {
	assert.That(s.pass == nil, "nested render pass")
	s.pass = pass
}

// EndRenderPass stops encoding. The caller ends the HAL pass.
func (s *FlushState) EndRenderPass() {
	s.pass = nil
	s.current = nil
}

// InRenderPass reports whether a pass is being encoded.
func (s *FlushState) InRenderPass() bool { return s.pass != nil }

// BindPipeline sets the program's pipeline. Scissoring to bounds is left
// to the pass owner.
func (s *FlushState) BindPipeline(p *op.Program, _ stroketess.Rect) {
	pl := p.Pipeline.(*pipeline)
	s.current = pl
	s.pass.SetPipeline(pl.render)
}

// BindBuffers binds whichever stream is set to slot 0. Stroke programs
// read one stream: instances for indirect draws, patches otherwise.
func (s *FlushState) BindBuffers(instance, vertex tessellate.Buffer) {
	b := instance
	if b == nil {
		b = vertex
	}
	if b == nil {
		return
	}
	blk := b.(*stagingBlock)
	if blk.gpu == nil {
		stroketess.Logger().Warn("halgpu: binding staging that was not uploaded", "err", ErrNotUploaded)
		return
	}
	s.pass.SetVertexBuffer(0, blk.gpu, 0)
}

// SetUniforms uploads u into a new uniform buffer and binds it at group
// 0.
func (s *FlushState) SetUniforms(u tessellate.Uniforms) {
	assert.That(s.current != nil, "uniforms set without a pipeline")
	data := s.uniformBytes(u)
	buf, err := s.dev.createAndUploadBuffer("stroke_uniforms", data,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		stroketess.Logger().Warn("halgpu: uniform upload failed", "err", err)
		return
	}
	s.uniformBuffers = append(s.uniformBuffers, buf)

	bg, err := s.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "stroke_uniforms",
		Layout: s.current.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		stroketess.Logger().Warn("halgpu: uniform bind group failed", "err", err)
		return
	}
	s.bindGroups = append(s.bindGroups, bg)
	s.pass.SetBindGroup(0, bg, nil)
}

// uniformBytes encodes u in the layout of the shader's Uniforms struct.
func (s *FlushState) uniformBytes(u tessellate.Uniforms) []byte {
	m := u.ViewMatrix
	radius := float32(u.Stroke.Width / 2)
	if u.Stroke.IsHairline() {
		radius = -0.5
	}
	vals := [uniformSize / 4]float32{
		float32(m.A), float32(m.B), float32(m.C), 0,
		float32(m.D), float32(m.E), float32(m.F), 0,
		s.width, s.height, radius, u.Stroke.JoinType(),
		u.Color.R, u.Color.G, u.Color.B, u.Color.A,
	}
	out := make([]byte, uniformSize)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// Draw issues a non-instanced draw.
func (s *FlushState) Draw(vertexCount, firstVertex int) {
	s.pass.Draw(uint32(vertexCount), 1, uint32(firstVertex), 0)
	s.draws++
}

// DrawInstanced issues an instanced draw.
func (s *FlushState) DrawInstanced(instanceCount, firstInstance, vertexCount, firstVertex int) {
	s.pass.Draw(uint32(vertexCount), uint32(instanceCount), uint32(firstVertex), uint32(firstInstance))
	s.draws++
}

// DrawIndirect replays drawCount staged argument records as direct
// draws.
func (s *FlushState) DrawIndirect(buf tessellate.Buffer, offset, drawCount int) {
	blk := buf.(*argsBlock)
	first := offset / tessellate.DrawIndirectArgsSize
	for _, a := range blk.args[first : first+drawCount] {
		s.pass.Draw(a.VertexCount, a.InstanceCount, a.FirstVertex, a.FirstInstance)
		s.draws++
	}
}

// Draws returns the number of HAL draws encoded since the last Reset.
func (s *FlushState) Draws() int { return s.draws }

// Reset destroys the frame's buffers and bind groups. Call it once the
// submitted work has completed, together with the op context's
// Programs().ReleaseRetired.
func (s *FlushState) Reset() {
	assert.That(s.pass == nil, "reset inside a render pass")
	d := s.dev.device
	for _, bg := range s.bindGroups {
		d.DestroyBindGroup(bg)
	}
	for _, b := range s.uniformBuffers {
		d.DestroyBuffer(b)
	}
	for _, blk := range s.blocks {
		if blk.gpu != nil {
			d.DestroyBuffer(blk.gpu)
		}
	}
	clear(s.bindGroups)
	clear(s.uniformBuffers)
	clear(s.blocks)
	s.bindGroups = s.bindGroups[:0]
	s.uniformBuffers = s.uniformBuffers[:0]
	s.blocks = s.blocks[:0]
	s.argBlocks = s.argBlocks[:0]
	s.reserved = 0
	s.draws = 0
}
