// Package recording provides a CPU flush state that records stroke
// preparation and execution as typed commands.
//
// Buffers live in host memory and every bind and draw is appended to a
// command list instead of reaching a GPU. The result can be inspected
// command by command, which makes FlushState the reference backend for
// tests and for debugging batching decisions.
//
//	fs := recording.NewFlushState()
//	fs.BeginRenderPass()
//	_ = task.Flush(ctx, opCtx, fs)
//	fs.EndRenderPass()
//	for _, cmd := range fs.Commands() {
//		fmt.Println(cmd.Type())
//	}
package recording

import (
	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/op"
	"github.com/gogpu/stroketess/tessellate"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdBeginRenderPass CommandType = iota // Start of a render pass
	CmdEndRenderPass                      // End of a render pass
	CmdBindPipeline                       // Bind a stroke program
	CmdBindBuffers                        // Bind instance and vertex streams
	CmdSetUniforms                        // Set per-run uniforms
	CmdDraw                               // Non-instanced draw
	CmdDrawInstanced                      // Instanced draw
	CmdDrawIndirect                       // Indirect draws
)

var commandTypeNames = [...]string{
	CmdBeginRenderPass: "BeginRenderPass",
	CmdEndRenderPass:   "EndRenderPass",
	CmdBindPipeline:    "BindPipeline",
	CmdBindBuffers:     "BindBuffers",
	CmdSetUniforms:     "SetUniforms",
	CmdDraw:            "Draw",
	CmdDrawInstanced:   "DrawInstanced",
	CmdDrawIndirect:    "DrawIndirect",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by all recorded commands.
type Command interface {
	Type() CommandType
}

// BufferID names a recorded buffer block. NoBuffer marks an unbound
// stream.
type BufferID int

// NoBuffer is the BufferID of a nil binding.
const NoBuffer BufferID = -1

// BeginRenderPass marks the start of a pass.
type BeginRenderPass struct{}

// EndRenderPass marks the end of a pass.
type EndRenderPass struct{}

// BindPipeline records a program bind.
type BindPipeline struct {
	Key    op.ProgramKey
	Bounds stroketess.Rect
}

// BindBuffers records the bound streams.
type BindBuffers struct {
	Instance BufferID
	Vertex   BufferID
}

// SetUniforms records per-run uniforms.
type SetUniforms struct {
	Uniforms tessellate.Uniforms
}

// Draw records a non-instanced draw.
type Draw struct {
	VertexCount int
	FirstVertex int
}

// DrawInstanced records an instanced draw.
type DrawInstanced struct {
	InstanceCount int
	FirstInstance int
	VertexCount   int
	FirstVertex   int
}

// DrawIndirect records an indirect draw batch. Args holds a copy of the
// arguments read from the buffer at record time.
type DrawIndirect struct {
	Buffer    BufferID
	Offset    int
	DrawCount int
	Args      []tessellate.DrawIndirectArgs
}

func (BeginRenderPass) Type() CommandType { return CmdBeginRenderPass }
func (EndRenderPass) Type() CommandType   { return CmdEndRenderPass }
func (BindPipeline) Type() CommandType    { return CmdBindPipeline }
func (BindBuffers) Type() CommandType     { return CmdBindBuffers }
func (SetUniforms) Type() CommandType     { return CmdSetUniforms }
func (Draw) Type() CommandType            { return CmdDraw }
func (DrawInstanced) Type() CommandType   { return CmdDrawInstanced }
func (DrawIndirect) Type() CommandType    { return CmdDrawIndirect }
