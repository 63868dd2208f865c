package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/op"
	"github.com/gogpu/stroketess/tessellate"
)

var (
	// ErrHardwareTessellationUnsupported is returned for programs of the
	// hardware strategy.
	ErrHardwareTessellationUnsupported = errors.New("halgpu: hardware tessellation unsupported")
	// ErrUnsupportedEffect is returned for effects without a WGSL
	// implementation.
	ErrUnsupportedEffect = errors.New("halgpu: unsupported effect")
	// ErrUnsupportedBlend is returned for blend modes without a fixed
	// function equivalent here.
	ErrUnsupportedBlend = errors.New("halgpu: unsupported blend mode")
)

// pipeline is a compiled stroke program and the objects it owns.
type pipeline struct {
	device     hal.Device
	module     hal.ShaderModule
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	render     hal.RenderPipeline
}

// Release destroys the pipeline objects in reverse creation order.
func (p *pipeline) Release() {
	if p.render != nil {
		p.device.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.layout != nil {
		p.device.DestroyBindGroupLayout(p.layout)
		p.layout = nil
	}
	if p.module != nil {
		p.device.DestroyShaderModule(p.module)
		p.module = nil
	}
}

// checkProcessors rejects paint the stroke shader cannot express. A
// constant color is applied by Finalize before the program exists.
func checkProcessors(ps *op.ProcessorSet) error {
	if ps == nil {
		return nil
	}
	switch ps.Blend() {
	case op.BlendSrcOver, op.BlendSrc:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedBlend, ps.Blend())
	}
	for _, e := range ps.Effects() {
		if _, ok := e.(op.ConstantColor); !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedEffect, e.Key())
		}
	}
	return nil
}

// stencilState returns the depth-stencil state for s. Mark writes
// non-zero stencil under the stroke. TestAndReset passes where stencil
// is non-zero and zeroes it so each pixel is blended once.
func stencilState(s op.StencilSettings) *hal.DepthStencilState {
	face := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	switch s {
	case op.StencilMark:
		face.PassOp = hal.StencilOperationIncrementWrap
	case op.StencilTestAndReset:
		face.Compare = gputypes.CompareFunctionNotEqual
		face.PassOp = hal.StencilOperationZero
	}
	return &hal.DepthStencilState{
		Format:            gputypes.TextureFormatDepth24PlusStencil8,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      face,
		StencilBack:       face,
		StencilReadMask:   0xFF,
		StencilWriteMask:  0xFF,
	}
}

func (d *Device) colorTarget(key op.ProgramKey) gputypes.ColorTargetState {
	if key.Stencil == op.StencilMark {
		return gputypes.ColorTargetState{Format: d.format, WriteMask: gputypes.ColorWriteMaskNone}
	}
	t := gputypes.ColorTargetState{Format: d.format, WriteMask: gputypes.ColorWriteMaskAll}
	if key.Blend == op.BlendSrcOver {
		premul := gputypes.BlendStatePremultiplied()
		t.Blend = &premul
	}
	return t
}

// BuildPipeline compiles the indirect stroke program for key.
func (d *Device) BuildPipeline(key op.ProgramKey, info *op.PipelineInfo) (op.Pipeline, error) {
	if key.Mode == tessellate.ModeHardware {
		return nil, ErrHardwareTessellationUnsupported
	}
	if info != nil {
		if err := checkProcessors(info.Processors); err != nil {
			return nil, err
		}
	}

	spirv, err := d.compile(strokeShaderWGSL(key.Flags))
	if err != nil {
		return nil, err
	}
	p := &pipeline{device: d.device}
	fail := func(err error) (op.Pipeline, error) {
		p.Release()
		return nil, err
	}

	label := "stroke_" + key.String()
	p.module, err = d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fail(fmt.Errorf("create shader module: %w", err))
	}

	p.layout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_uniforms",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fail(fmt.Errorf("create bind group layout: %w", err))
	}

	p.pipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.layout},
	})
	if err != nil {
		return fail(fmt.Errorf("create pipeline layout: %w", err))
	}

	samples := uint32(1)
	if key.AA == stroketess.AAMSAA {
		samples = d.samples
	}
	p.render, err = d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{instanceLayout(key.Flags)},
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{d.colorTarget(key)},
		},
		DepthStencil: stencilState(key.Stencil),
		Multisample:  gputypes.MultisampleState{Count: samples, Mask: 0xFFFFFFFF},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
	})
	if err != nil {
		return fail(fmt.Errorf("create render pipeline: %w", err))
	}
	return p, nil
}
