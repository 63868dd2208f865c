package stroketess

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// MapRect returns the bounds of r's four corners after transformation.
// Zero-area rectangles, such as the bounds of a straight line, are
// mapped like any other; only an inverted rectangle is returned as is.
func (m Matrix) MapRect(r Rect) Rect {
	if r.MinX > r.MaxX || r.MinY > r.MaxY {
		return r
	}
	out := EmptyRect()
	for _, p := range [4]Point{
		{r.MinX, r.MinY}, {r.MaxX, r.MinY},
		{r.MaxX, r.MaxY}, {r.MinX, r.MaxY},
	} {
		out = out.extend(m.TransformPoint(p))
	}
	return out
}

// MaxScale returns the largest factor by which the matrix stretches a
// unit vector: the larger singular value of the linear part.
func (m Matrix) MaxScale() float64 {
	// Singular values of [[a b] [d e]] from the eigenvalues of M^T*M.
	p := m.A*m.A + m.D*m.D
	q := m.A*m.B + m.D*m.E
	r := m.B*m.B + m.E*m.E
	mean := (p + r) / 2
	diff := (p - r) / 2
	return math.Sqrt(mean + math.Sqrt(diff*diff+q*q))
}

// Equal reports whether both matrices have bit-identical coefficients.
// Unlike ==, NaN coefficients compare equal to themselves and 0 differs
// from -0, so two ops that tessellate identically always compare equal.
func (m Matrix) Equal(o Matrix) bool {
	return math.Float64bits(m.A) == math.Float64bits(o.A) &&
		math.Float64bits(m.B) == math.Float64bits(o.B) &&
		math.Float64bits(m.C) == math.Float64bits(o.C) &&
		math.Float64bits(m.D) == math.Float64bits(o.D) &&
		math.Float64bits(m.E) == math.Float64bits(o.E) &&
		math.Float64bits(m.F) == math.Float64bits(o.F)
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}
