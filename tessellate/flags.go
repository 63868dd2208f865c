package tessellate

import "strings"

// ShaderFlags selects the per-instance attributes a stroke program reads
// from the vertex stream instead of from uniforms.
type ShaderFlags uint8

const (
	// ShaderFlagWideColor writes dynamic colors as four float32s instead
	// of packed RGBA8. Set when a color does not fit in bytes.
	ShaderFlagWideColor ShaderFlags = 1 << iota
	// ShaderFlagDynamicStroke gives every patch its own stroke radius and
	// join type.
	ShaderFlagDynamicStroke
	// ShaderFlagDynamicColor gives every patch its own color.
	ShaderFlagDynamicColor
)

// ShaderFlagsNone is the empty flag set.
const ShaderFlagsNone ShaderFlags = 0

// DynamicStatesMask covers the flags that trade vertex payload for
// batchability.
const DynamicStatesMask = ShaderFlagDynamicStroke | ShaderFlagDynamicColor

// Has reports whether every flag in o is set in f.
func (f ShaderFlags) Has(o ShaderFlags) bool {
	return f&o == o
}

var flagNames = [...]string{"WideColor", "DynamicStroke", "DynamicColor"}

// String lists the set flags joined by "|", or "None".
func (f ShaderFlags) String() string {
	if f == ShaderFlagsNone {
		return "None"
	}
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := f &^ (1<<len(flagNames) - 1); rest != 0 {
		parts = append(parts, "Unknown")
	}
	return strings.Join(parts, "|")
}
