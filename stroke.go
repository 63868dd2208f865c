package stroketess

import "math"

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// String returns the string representation of the line cap.
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "Butt"
	case LineCapRound:
		return "Round"
	case LineCapSquare:
		return "Square"
	default:
		return "Unknown"
	}
}

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// String returns the string representation of the line join.
func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "Miter"
	case LineJoinRound:
		return "Round"
	case LineJoinBevel:
		return "Bevel"
	default:
		return "Unknown"
	}
}

// Stroke defines the style for stroking paths.
type Stroke struct {
	// Width is the line width in local coordinates. Zero selects a
	// hairline: one device pixel wide regardless of the view matrix.
	Width float64

	// Cap is the shape of line endpoints. Default: LineCapButt
	Cap LineCap

	// Join is the shape of line joins. Default: LineJoinMiter
	Join LineJoin

	// MiterLimit is the limit for miter joins before they become bevels.
	// Default: 4.0
	MiterLimit float64
}

// DefaultStroke returns a solid 1-unit stroke with butt caps and miter
// joins.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}
}

// Hairline returns the hairline stroke style.
func Hairline() Stroke {
	s := DefaultStroke()
	s.Width = 0
	return s
}

// WithWidth returns a copy of the Stroke with the given width.
func (s Stroke) WithWidth(w float64) Stroke {
	s.Width = w
	return s
}

// WithCap returns a copy of the Stroke with the given line cap style.
func (s Stroke) WithCap(lineCap LineCap) Stroke {
	s.Cap = lineCap
	return s
}

// WithJoin returns a copy of the Stroke with the given line join style.
func (s Stroke) WithJoin(join LineJoin) Stroke {
	s.Join = join
	return s
}

// WithMiterLimit returns a copy of the Stroke with the given miter limit.
func (s Stroke) WithMiterLimit(limit float64) Stroke {
	s.MiterLimit = limit
	return s
}

// IsHairline reports whether the stroke is a hairline.
func (s Stroke) IsHairline() bool {
	return s.Width == 0
}

// InflationRadius returns how far the stroke can reach beyond the path's
// control-point bounds, in local units. Hairlines report a half pixel,
// which the caller must not scale by the view matrix.
func (s Stroke) InflationRadius() float64 {
	if s.IsHairline() {
		return 0.5
	}
	r := s.Width / 2
	mult := 1.0
	if s.Join == LineJoinMiter {
		mult = math.Max(mult, s.MiterLimit)
	}
	if s.Cap == LineCapSquare {
		mult = math.Max(mult, math.Sqrt2)
	}
	return r * mult
}

// JoinType encodes the join as the float the stroke shader reads: the
// miter limit for miter joins, 0 for bevel and -1 for round.
func (s Stroke) JoinType() float32 {
	switch s.Join {
	case LineJoinRound:
		return -1
	case LineJoinBevel:
		return 0
	default:
		return float32(s.MiterLimit)
	}
}

// EqualDynamicState reports whether s and o can be drawn with one
// uniform stroke state.
func (s Stroke) EqualDynamicState(o Stroke) bool {
	if s.IsHairline() != o.IsHairline() {
		return false
	}
	if s.Width != o.Width || s.Cap != o.Cap || s.Join != o.Join {
		return false
	}
	return s.Join != LineJoinMiter || s.MiterLimit == o.MiterLimit
}
