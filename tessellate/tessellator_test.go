package tessellate

import (
	"encoding/binary"
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/assert"
)

func listOf(entries ...PathStroke) *PathStrokeList {
	l := NewPathStrokeList(NewArena())
	for _, e := range entries {
		l.Append(e)
	}
	return &l
}

func colored(p *stroketess.Path, c stroketess.PMColor) PathStroke {
	e := entry(p)
	e.Color = c
	return e
}

func TestHardwarePrepareAndDraw(t *testing.T) {
	l := listOf(entry(linePath(0, 0, 1, 0)), entry(linePath(0, 0, 0, 1)))
	target := &fakeTarget{baseVertex: 7}
	tess := NewHardwareTessellator(ShaderFlagsNone)

	tess.Prepare(target, stroketess.Identity(), l, l.CountVerbs())
	if target.reserved != 4 || target.putBack != 2 {
		t.Errorf("reserved %d put back %d, want 4 and 2", target.reserved, target.putBack)
	}
	if n := tess.(*HardwareTessellator).PatchCount(); n != 2 {
		t.Errorf("PatchCount = %d, want 2", n)
	}

	rec := &fakeRecorder{}
	tess.Draw(rec)
	want := []string{"bind <nil> vbuf", "uniforms", "draw 2 7"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestHardwareRunsSplitOnColor(t *testing.T) {
	red := stroketess.PMColor{R: 1, A: 1}
	tests := []struct {
		name  string
		flags ShaderFlags
		want  []string
	}{
		{"uniform color", ShaderFlagsNone, []string{"bind <nil> vbuf", "uniforms", "draw 1 0", "uniforms", "draw 2 1"}},
		{"dynamic color", ShaderFlagDynamicColor, []string{"bind <nil> vbuf", "uniforms", "draw 3 0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listOf(
				entry(linePath(0, 0, 1, 0)),
				colored(linePath(0, 0, 2, 0), red),
				colored(linePath(0, 0, 3, 0), red),
			)
			tess := NewHardwareTessellator(tt.flags)
			tess.Prepare(&fakeTarget{}, stroketess.Identity(), l, l.CountVerbs())
			rec := &fakeRecorder{}
			tess.Draw(rec)
			if !reflect.DeepEqual(rec.calls, tt.want) {
				t.Errorf("calls = %v, want %v", rec.calls, tt.want)
			}
		})
	}
}

func TestHardwareRunsSplitOnStroke(t *testing.T) {
	wide := entry(linePath(0, 0, 1, 0))
	wide.Stroke = wide.Stroke.WithWidth(8)
	hair := entry(linePath(0, 0, 1, 0))
	hair.Stroke = stroketess.Hairline()

	// Dynamic stroke absorbs the width change but never a hairline.
	l := listOf(entry(linePath(0, 0, 1, 0)), wide, hair)
	tess := NewHardwareTessellator(ShaderFlagDynamicStroke)
	tess.Prepare(&fakeTarget{}, stroketess.Identity(), l, l.CountVerbs())
	rec := &fakeRecorder{}
	tess.Draw(rec)
	if len(rec.uniforms) != 2 {
		t.Fatalf("runs = %d, want 2", len(rec.uniforms))
	}
	if !rec.uniforms[1].Stroke.IsHairline() {
		t.Error("second run must carry the hairline stroke")
	}

	l2 := listOf(entry(linePath(0, 0, 1, 0)), wide)
	tess2 := NewHardwareTessellator(ShaderFlagsNone)
	tess2.Prepare(&fakeTarget{}, stroketess.Identity(), l2, l2.CountVerbs())
	rec2 := &fakeRecorder{}
	tess2.Draw(rec2)
	if len(rec2.uniforms) != 2 {
		t.Errorf("runs without dynamic stroke = %d, want 2", len(rec2.uniforms))
	}
}

func TestHardwareUniformsCarryViewMatrix(t *testing.T) {
	m := stroketess.Translate(3, 4)
	l := listOf(entry(linePath(0, 0, 1, 0)))
	tess := NewHardwareTessellator(ShaderFlagsNone)
	tess.Prepare(&fakeTarget{}, m, l, l.CountVerbs())
	rec := &fakeRecorder{}
	tess.Draw(rec)
	if len(rec.uniforms) != 1 || !rec.uniforms[0].ViewMatrix.Equal(m) {
		t.Errorf("uniforms = %+v", rec.uniforms)
	}
}

func TestTessellatorAllocationFailure(t *testing.T) {
	for _, mk := range []func(ShaderFlags) Tessellator{NewHardwareTessellator, NewIndirectTessellator} {
		tess := mk(ShaderFlagsNone)
		t.Run(tess.Mode().String(), func(t *testing.T) {
			l := listOf(entry(linePath(0, 0, 1, 0)))
			tess.Prepare(&fakeTarget{failVertex: true}, stroketess.Identity(), l, l.CountVerbs())
			rec := &fakeRecorder{}
			tess.Draw(rec)
			if len(rec.calls) != 0 {
				t.Errorf("draw after failed allocation issued %v", rec.calls)
			}
		})
	}
}

func TestIndirectArgsFailureReturnsVertices(t *testing.T) {
	l := listOf(entry(linePath(0, 0, 1, 0)))
	target := &fakeTarget{failIndirect: true}
	tess := NewIndirectTessellator(ShaderFlagsNone)
	tess.Prepare(target, stroketess.Identity(), l, l.CountVerbs())
	if target.putBack != target.reserved {
		t.Errorf("put back %d of %d reserved", target.putBack, target.reserved)
	}
	rec := &fakeRecorder{}
	tess.Draw(rec)
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
}

func TestTessellatorEmptyList(t *testing.T) {
	for _, mk := range []func(ShaderFlags) Tessellator{NewHardwareTessellator, NewIndirectTessellator} {
		tess := mk(ShaderFlagsNone)
		target := &fakeTarget{}
		l := listOf(entry(stroketess.NewPath()))
		tess.Prepare(target, stroketess.Identity(), l, 0)
		rec := &fakeRecorder{}
		tess.Draw(rec)
		if len(rec.calls) != 0 || target.reserved != 0 {
			t.Errorf("%v: empty list reserved %d and drew %v", tess.Mode(), target.reserved, rec.calls)
		}
	}
}

func TestTessellatorPrepareTwicePanics(t *testing.T) {
	if !assert.Enabled {
		t.Skip("assertions compiled out")
	}
	for _, mk := range []func(ShaderFlags) Tessellator{NewHardwareTessellator, NewIndirectTessellator} {
		tess := mk(ShaderFlagsNone)
		t.Run(tess.Mode().String(), func(t *testing.T) {
			l := listOf(entry(linePath(0, 0, 1, 0)))
			tess.Prepare(&fakeTarget{}, stroketess.Identity(), l, l.CountVerbs())
			defer func() {
				if recover() == nil {
					t.Error("second Prepare did not panic")
				}
			}()
			tess.Prepare(&fakeTarget{}, stroketess.Identity(), l, l.CountVerbs())
		})
	}
}

func TestTessellatorDrawBeforePreparePanics(t *testing.T) {
	if !assert.Enabled {
		t.Skip("assertions compiled out")
	}
	for _, mk := range []func(ShaderFlags) Tessellator{NewHardwareTessellator, NewIndirectTessellator} {
		tess := mk(ShaderFlagsNone)
		t.Run(tess.Mode().String(), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Draw before Prepare did not panic")
				}
			}()
			tess.Draw(&fakeRecorder{})
		})
	}
}

func TestIndirectGroupsByLevel(t *testing.T) {
	curve := stroketess.NewPath()
	curve.MoveTo(0, 0)
	curve.CubicTo(0, 100, 100, 100, 100, 0)

	// line, curve, line: two level-0 instances and one higher level.
	l := listOf(entry(linePath(0, 0, 10, 0)), entry(curve), entry(linePath(0, 0, 0, 10)))
	target := &fakeTarget{baseVertex: 100}
	tess := NewIndirectTessellator(ShaderFlagsNone).(*IndirectTessellator)
	tess.Prepare(target, stroketess.Identity(), l, l.CountVerbs())

	if tess.InstanceCount() != 3 {
		t.Fatalf("InstanceCount = %d, want 3", tess.InstanceCount())
	}
	if target.putBack != l.CountVerbs()-3 {
		t.Errorf("put back %d, want %d", target.putBack, l.CountVerbs()-3)
	}
	curveLevel := resolveLevel(wangSegments(cubic{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}}))
	want := []DrawIndirectArgs{
		{VertexCount: 4, InstanceCount: 2, FirstVertex: 0, FirstInstance: 100},
		{VertexCount: levelVertexCount(curveLevel), InstanceCount: 1, FirstVertex: 0, FirstInstance: 102},
	}
	if !reflect.DeepEqual(target.args, want) {
		t.Errorf("args = %+v, want %+v", target.args, want)
	}

	// The curve instance sits after both lines and records its segment count.
	stride := InstanceStride(ShaderFlagsNone)
	slot := target.vertexData[2*stride:][:stride]
	p0x := math.Float32frombits(binary.LittleEndian.Uint32(slot[8:]))
	p1y := math.Float32frombits(binary.LittleEndian.Uint32(slot[20:]))
	segs := math.Float32frombits(binary.LittleEndian.Uint32(slot[stride-4:]))
	if p0x != 0 || p1y != 100 || segs != float32(int(1)<<curveLevel) {
		t.Errorf("curve slot p0x=%v p1y=%v segments=%v", p0x, p1y, segs)
	}

	rec := &fakeRecorder{}
	tess.Draw(rec)
	wantCalls := []string{"bind vbuf <nil>", "uniforms", "indirect ibuf 32 2"}
	if !reflect.DeepEqual(rec.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", rec.calls, wantCalls)
	}
}

func TestIndirectRunsOffsetArgs(t *testing.T) {
	red := stroketess.PMColor{R: 1, A: 1}
	l := listOf(entry(linePath(0, 0, 1, 0)), colored(linePath(0, 0, 2, 0), red))
	target := &fakeTarget{}
	tess := NewIndirectTessellator(ShaderFlagsNone)
	tess.Prepare(target, stroketess.Identity(), l, l.CountVerbs())

	rec := &fakeRecorder{}
	tess.Draw(rec)
	want := []string{
		"bind vbuf <nil>",
		"uniforms", "indirect ibuf 32 1",
		"uniforms", "indirect ibuf 48 1",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if !rec.uniforms[1].Color.Equal(red) {
		t.Error("second run must use the red uniform color")
	}
	if target.args[1].FirstInstance != 1 {
		t.Errorf("second run FirstInstance = %d, want 1", target.args[1].FirstInstance)
	}
}

func TestIndirectLevelsFollowViewMatrix(t *testing.T) {
	curve := stroketess.NewPath()
	curve.MoveTo(0, 0)
	curve.CubicTo(0, 1, 1, 1, 1, 0)

	levelUnder := func(m stroketess.Matrix) uint32 {
		target := &fakeTarget{}
		l := listOf(entry(curve))
		NewIndirectTessellator(ShaderFlagsNone).Prepare(target, m, l, l.CountVerbs())
		return target.args[0].VertexCount
	}
	if small, big := levelUnder(stroketess.Identity()), levelUnder(stroketess.Scale(50, 50)); big <= small {
		t.Errorf("vertex count under zoom %d <= unzoomed %d", big, small)
	}
}
