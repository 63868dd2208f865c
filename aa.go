package stroketess

// AAType selects how stroke edges are antialiased.
type AAType uint8

const (
	// AANone draws aliased edges.
	AANone AAType = iota
	// AACoverage computes analytic coverage in the fragment stage.
	AACoverage
	// AAMSAA relies on a multisampled render target.
	AAMSAA
)

// String returns the name of the antialiasing mode.
func (a AAType) String() string {
	switch a {
	case AANone:
		return "None"
	case AACoverage:
		return "Coverage"
	case AAMSAA:
		return "MSAA"
	default:
		return "Unknown"
	}
}
