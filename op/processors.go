package op

import (
	"strings"

	"github.com/gogpu/stroketess"
)

// Effect is one paint stage evaluated in the fragment program.
type Effect interface {
	// Key identifies the effect's program variant. Equal keys must
	// produce identical programs.
	Key() string
	// UsesVaryingCoords reports whether the effect reads local
	// coordinates interpolated from the vertex stage.
	UsesVaryingCoords() bool
	// ConstantOutput returns the color the effect always produces, if
	// any.
	ConstantOutput() (stroketess.PMColor, bool)
}

// ConstantColor paints every fragment with one color, replacing the
// stroke color.
type ConstantColor struct {
	Color stroketess.PMColor
}

// Key returns the program variant. The color is a uniform, so every
// ConstantColor shares one program.
func (e ConstantColor) Key() string { return "ConstantColor" }

// UsesVaryingCoords reports false.
func (e ConstantColor) UsesVaryingCoords() bool { return false }

// ConstantOutput returns the effect color.
func (e ConstantColor) ConstantOutput() (stroketess.PMColor, bool) { return e.Color, true }

// LocalCoordsEffect stands for any shader that samples in local space,
// such as a gradient or an image. Name distinguishes variants.
type LocalCoordsEffect struct {
	Name string
}

// Key returns the program variant for Name.
func (e LocalCoordsEffect) Key() string { return "LocalCoords:" + e.Name }

// UsesVaryingCoords reports true: the effect samples in local space.
func (e LocalCoordsEffect) UsesVaryingCoords() bool { return true }

// ConstantOutput reports no constant color.
func (e LocalCoordsEffect) ConstantOutput() (stroketess.PMColor, bool) {
	return stroketess.PMColor{}, false
}

// BlendMode is the Porter-Duff operator applied to the program output.
type BlendMode uint8

const (
	// BlendSrcOver composites the stroke over the destination.
	BlendSrcOver BlendMode = iota
	// BlendSrc replaces the destination.
	BlendSrc
	// BlendPlus adds to the destination.
	BlendPlus
	// BlendMultiply multiplies with the destination.
	BlendMultiply
)

var blendNames = [...]string{
	BlendSrcOver:  "SrcOver",
	BlendSrc:      "Src",
	BlendPlus:     "Plus",
	BlendMultiply: "Multiply",
}

// String returns the blend mode name.
func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return "Unknown"
}

// ProcessorSet is the paint of a stroke op: its effects and blend mode.
// A set is owned by one op until pre-preparation moves it into the
// op's PipelineInfo.
type ProcessorSet struct {
	effects []Effect
	blend   BlendMode
	key     string
}

// NewProcessorSet returns a set applying effects in order.
func NewProcessorSet(blend BlendMode, effects ...Effect) *ProcessorSet {
	var b strings.Builder
	b.WriteString(blend.String())
	for _, e := range effects {
		b.WriteByte('/')
		b.WriteString(e.Key())
	}
	return &ProcessorSet{effects: effects, blend: blend, key: b.String()}
}

// Key identifies the set for program caching and combining.
func (p *ProcessorSet) Key() string { return p.key }

// Blend returns the blend mode.
func (p *ProcessorSet) Blend() BlendMode { return p.blend }

// Effects returns the effects in application order.
func (p *ProcessorSet) Effects() []Effect { return p.effects }

// Equal reports whether both sets produce the same program.
func (p *ProcessorSet) Equal(o *ProcessorSet) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.key == o.key
}

// UsesVaryingCoords reports whether any effect reads interpolated local
// coordinates.
func (p *ProcessorSet) UsesVaryingCoords() bool {
	for _, e := range p.effects {
		if e.UsesVaryingCoords() {
			return true
		}
	}
	return false
}

// Analysis is the result of finalizing a processor set against an input
// color.
type Analysis struct {
	// OverrideColor is set when the effects ignore the input color.
	OverrideColor    stroketess.PMColor
	HasOverrideColor bool
	// UnaffectedByDstValue is true when the output never depends on the
	// destination, so overlapping coverage can be drawn more than once.
	UnaffectedByDstValue bool
}

// Analyze evaluates the set for an input color and antialiasing mode.
func (p *ProcessorSet) Analyze(color stroketess.PMColor, aa stroketess.AAType) Analysis {
	var a Analysis
	for _, e := range p.effects {
		if c, ok := e.ConstantOutput(); ok {
			a.OverrideColor, a.HasOverrideColor = c, true
			color = c
		}
	}
	switch p.blend {
	case BlendSrc:
		a.UnaffectedByDstValue = true
	case BlendSrcOver:
		// Coverage AA blends partial fragments with the destination.
		a.UnaffectedByDstValue = color.IsOpaque() && aa != stroketess.AACoverage && !p.UsesVaryingCoords()
	}
	return a
}
