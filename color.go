package stroketess

import "math"

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components (0-1 range).
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA2 creates a color from RGBA components (0-1 range).
func RGBA2(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// Premultiply returns the premultiplied color used by the stroke
// pipeline.
func (c RGBA) Premultiply() PMColor {
	return PMColor{
		R: float32(c.R * c.A),
		G: float32(c.G * c.A),
		B: float32(c.B * c.A),
		A: float32(c.A),
	}
}

// PMColor is a premultiplied color. Components are normally in [0, 1];
// wide-gamut or HDR sources may exceed that range.
type PMColor struct {
	R, G, B, A float32
}

// Common premultiplied colors.
var (
	Transparent = PMColor{}
	Black       = PMColor{A: 1}
	White       = PMColor{R: 1, G: 1, B: 1, A: 1}
)

// FitsInBytes reports whether every channel is in [0, 1], so the color
// survives packing into RGBA8 without clamping.
func (c PMColor) FitsInBytes() bool {
	for _, v := range [4]float32{c.R, c.G, c.B, c.A} {
		if !(v >= 0 && v <= 1) {
			return false
		}
	}
	return true
}

// IsOpaque reports whether alpha is 1.
func (c PMColor) IsOpaque() bool {
	return c.A == 1
}

// Equal reports whether both colors have bit-identical channels.
func (c PMColor) Equal(o PMColor) bool {
	return math.Float32bits(c.R) == math.Float32bits(o.R) &&
		math.Float32bits(c.G) == math.Float32bits(o.G) &&
		math.Float32bits(c.B) == math.Float32bits(o.B) &&
		math.Float32bits(c.A) == math.Float32bits(o.A)
}

// PackRGBA8 packs the color as little-endian RGBA8 (R in the low byte),
// clamping each channel to [0, 1].
func (c PMColor) PackRGBA8() uint32 {
	return uint32(unorm8(c.R)) |
		uint32(unorm8(c.G))<<8 |
		uint32(unorm8(c.B))<<16 |
		uint32(unorm8(c.A))<<24
}

// Array returns the channels in RGBA order.
func (c PMColor) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func unorm8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
