package halgpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stroketess/tessellate"
)

// uniformSize is the byte size of the per-run uniform block:
// two matrix rows, viewport + radius + join, color.
const uniformSize = 64

// Vertex attribute locations of an instance.
const (
	locPrev = iota
	locP01
	locP23
	locStroke
	locColor
	locSegments
)

// instanceLayout returns the vertex buffer layout of an indirect
// instance for flags. It follows tessellate.InstanceStride.
func instanceLayout(flags tessellate.ShaderFlags) gputypes.VertexBufferLayout {
	attrs := []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: locPrev},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: locP01},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: locP23},
	}
	off := uint64(40)
	if flags.Has(tessellate.ShaderFlagDynamicStroke) {
		attrs = append(attrs, gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32x2, Offset: off, ShaderLocation: locStroke})
		off += 8
	}
	if flags.Has(tessellate.ShaderFlagDynamicColor) {
		if flags.Has(tessellate.ShaderFlagWideColor) {
			attrs = append(attrs, gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32x4, Offset: off, ShaderLocation: locColor})
			off += 16
		} else {
			attrs = append(attrs, gputypes.VertexAttribute{Format: gputypes.VertexFormatUnorm8x4, Offset: off, ShaderLocation: locColor})
			off += 4
		}
	}
	attrs = append(attrs, gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32, Offset: off, ShaderLocation: locSegments})
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(tessellate.InstanceStride(flags)),
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes:  attrs,
	}
}

const shaderPrelude = `struct Uniforms {
    row0: vec4<f32>,
    row1: vec4<f32>,
    // xy: viewport size, z: stroke radius (negative for hairlines), w: join
    params: vec4<f32>,
    color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

fn to_device(p: vec2<f32>) -> vec2<f32> {
    return vec2<f32>(dot(u.row0.xy, p) + u.row0.z, dot(u.row1.xy, p) + u.row1.z);
}

fn eval_cubic(p0: vec2<f32>, p1: vec2<f32>, p2: vec2<f32>, p3: vec2<f32>, t: f32) -> vec2<f32> {
    let mt = 1.0 - t;
    return mt * mt * mt * p0 + 3.0 * mt * mt * t * p1 + 3.0 * mt * t * t * p2 + t * t * t * p3;
}

fn unit_normal(p0: vec2<f32>, p1: vec2<f32>, p2: vec2<f32>, p3: vec2<f32>, t: f32) -> vec2<f32> {
    let mt = 1.0 - t;
    var d = mt * mt * (p1 - p0) + 2.0 * mt * t * (p2 - p1) + t * t * (p3 - p2);
    if (dot(d, d) == 0.0) {
        d = p3 - p0;
    }
    if (dot(d, d) == 0.0) {
        d = vec2<f32>(1.0, 0.0);
    }
    let n = normalize(d);
    return vec2<f32>(-n.y, n.x);
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

// strokeShaderWGSL returns the indirect stroke shader for flags. Every
// instance is one cubic expanded to a strip of 2*(segments+1) vertices.
func strokeShaderWGSL(flags tessellate.ShaderFlags) string {
	var b strings.Builder
	b.WriteString(shaderPrelude)

	b.WriteString("\nstruct Instance {\n")
	fmt.Fprintf(&b, "    @location(%d) prev: vec2<f32>,\n", locPrev)
	fmt.Fprintf(&b, "    @location(%d) p01: vec4<f32>,\n", locP01)
	fmt.Fprintf(&b, "    @location(%d) p23: vec4<f32>,\n", locP23)
	if flags.Has(tessellate.ShaderFlagDynamicStroke) {
		fmt.Fprintf(&b, "    @location(%d) stroke: vec2<f32>,\n", locStroke)
	}
	if flags.Has(tessellate.ShaderFlagDynamicColor) {
		fmt.Fprintf(&b, "    @location(%d) color: vec4<f32>,\n", locColor)
	}
	fmt.Fprintf(&b, "    @location(%d) segments: f32,\n", locSegments)
	b.WriteString("}\n")

	radius := "u.params.z"
	if flags.Has(tessellate.ShaderFlagDynamicStroke) {
		radius = "select(inst.stroke.x, u.params.z, u.params.z < 0.0)"
	}
	color := "u.color"
	if flags.Has(tessellate.ShaderFlagDynamicColor) {
		color = "inst.color"
	}

	fmt.Fprintf(&b, `
@vertex
fn vs_main(@builtin(vertex_index) vi: u32, inst: Instance) -> VertexOutput {
    let n = max(inst.segments, 1.0);
    let t = min(f32(vi / 2u) / n, 1.0);
    let side = select(-1.0, 1.0, (vi & 1u) == 1u);
    let radius = %s;
    var pos: vec2<f32>;
    if (radius < 0.0) {
        let d0 = to_device(inst.p01.xy);
        let d1 = to_device(inst.p01.zw);
        let d2 = to_device(inst.p23.xy);
        let d3 = to_device(inst.p23.zw);
        pos = eval_cubic(d0, d1, d2, d3, t) + unit_normal(d0, d1, d2, d3, t) * (side * 0.5);
    } else {
        let p = eval_cubic(inst.p01.xy, inst.p01.zw, inst.p23.xy, inst.p23.zw, t);
        let nrm = unit_normal(inst.p01.xy, inst.p01.zw, inst.p23.xy, inst.p23.zw, t);
        pos = to_device(p + nrm * (side * radius));
    }
    var out: VertexOutput;
    out.position = vec4<f32>(pos.x / u.params.x * 2.0 - 1.0, 1.0 - pos.y / u.params.y * 2.0, 0.0, 1.0);
    out.color = %s;
    return out;
}
`, radius, color)
	return b.String()
}
