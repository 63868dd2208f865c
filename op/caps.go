package op

// Caps is the read-only capability query of a GPU backend.
type Caps interface {
	// TessellationSupport reports whether the device has a hardware
	// tessellation stage.
	TessellationSupport() bool
}

// StaticCaps is a Caps with fixed answers.
type StaticCaps struct {
	Tessellation bool
}

// TessellationSupport reports c.Tessellation.
func (c StaticCaps) TessellationSupport() bool { return c.Tessellation }
