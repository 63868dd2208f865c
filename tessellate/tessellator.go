// Package tessellate turns lists of stroked paths into GPU patches.
//
// A Tessellator is built once per stroke op with a fixed strategy and
// shader flags. Prepare fills every buffer the op needs; Draw later
// issues the draws against a pipeline the caller has already bound.
//
//	t := tessellate.NewIndirectTessellator(flags)
//	t.Prepare(target, viewMatrix, &list, list.CountVerbs())
//	// ... bind pipeline ...
//	t.Draw(recorder)
package tessellate

import (
	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/assert"
)

// Mode identifies a tessellation strategy.
type Mode uint8

const (
	// ModeHardware emits one fat vertex per patch for a tessellation
	// stage to expand.
	ModeHardware Mode = iota
	// ModeIndirect expands patches as instanced triangle strips with
	// per-level indirect draws.
	ModeIndirect
)

// String returns the strategy name.
func (m Mode) String() string {
	switch m {
	case ModeHardware:
		return "Hardware"
	case ModeIndirect:
		return "Indirect"
	default:
		return "Unknown"
	}
}

// Tessellator converts a PathStrokeList into GPU buffers and draws.
//
// Prepare must be called exactly once, before Draw. Calling it twice, or
// calling Draw first, is a contract violation and panics when assertions
// are enabled. If a buffer allocation fails, Prepare logs a warning and
// Draw issues nothing.
type Tessellator interface {
	Mode() Mode
	Flags() ShaderFlags
	Prepare(target Target, viewMatrix stroketess.Matrix, list *PathStrokeList, totalVerbCount int)
	Draw(rec Recorder)
}

// run is a maximal span of consecutive entries that share one set of
// uniforms under the tessellator's flags.
type run struct {
	uniforms Uniforms
	first    int
	count    int
}

// sameUniforms reports whether b can be drawn with the uniforms of a.
func sameUniforms(a, b *PathStroke, flags ShaderFlags) bool {
	if a.Stroke.IsHairline() != b.Stroke.IsHairline() {
		return false
	}
	if flags.Has(ShaderFlagDynamicStroke) {
		if a.Stroke.Cap != b.Stroke.Cap {
			return false
		}
	} else if !a.Stroke.EqualDynamicState(b.Stroke) {
		return false
	}
	return flags.Has(ShaderFlagDynamicColor) || a.Color.Equal(b.Color)
}

// lifecycle tracks the prepare-once, draw-after-prepare contract.
type lifecycle struct {
	flags    ShaderFlags
	prepared bool
	ok       bool // buffers were allocated and hold at least one patch
}

func (l *lifecycle) beginPrepare(mode Mode) {
	assert.That(!l.prepared, "%v tessellator prepared twice", mode)
	l.prepared = true
}

func (l *lifecycle) beginDraw(mode Mode) bool {
	assert.That(l.prepared, "%v tessellator drawn before prepare", mode)
	return l.ok
}
