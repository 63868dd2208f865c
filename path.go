package stroketess

import "math"

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path represents a vector path.
type Path struct {
	elements []PathElement
	start    Point // Starting point of current subpath
	current  Point // Current point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo moves to a point without drawing.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Clear removes all elements from the path.
func (p *Path) Clear() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.current = Point{}
}

// Elements returns the path elements. The slice is owned by the path.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// CountVerbs returns the number of verbs in the path. Every element
// counts, including MoveTo and Close.
func (p *Path) CountVerbs() int {
	if p == nil {
		return 0
	}
	return len(p.elements)
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool {
	return p == nil || len(p.elements) == 0
}

// Bounds returns the bounding box of every point and control point in
// the path. An empty path returns EmptyRect.
func (p *Path) Bounds() Rect {
	r := EmptyRect()
	if p == nil {
		return r
	}
	for _, e := range p.elements {
		switch e := e.(type) {
		case MoveTo:
			r = r.extend(e.Point)
		case LineTo:
			r = r.extend(e.Point)
		case QuadTo:
			r = r.extend(e.Control).extend(e.Point)
		case CubicTo:
			r = r.extend(e.Control1).extend(e.Control2).extend(e.Point)
		}
	}
	return r
}

// Transform returns a new path with all points transformed by the matrix.
func (p *Path) Transform(m Matrix) *Path {
	out := &Path{
		elements: make([]PathElement, 0, len(p.elements)),
		start:    m.TransformPoint(p.start),
		current:  m.TransformPoint(p.current),
	}
	for _, e := range p.elements {
		switch e := e.(type) {
		case MoveTo:
			out.elements = append(out.elements, MoveTo{Point: m.TransformPoint(e.Point)})
		case LineTo:
			out.elements = append(out.elements, LineTo{Point: m.TransformPoint(e.Point)})
		case QuadTo:
			out.elements = append(out.elements, QuadTo{
				Control: m.TransformPoint(e.Control),
				Point:   m.TransformPoint(e.Point),
			})
		case CubicTo:
			out.elements = append(out.elements, CubicTo{
				Control1: m.TransformPoint(e.Control1),
				Control2: m.TransformPoint(e.Control2),
				Point:    m.TransformPoint(e.Point),
			})
		case Close:
			out.elements = append(out.elements, Close{})
		}
	}
	return out
}

// Rectangle adds a closed rectangle subpath.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a closed circle subpath approximated by four cubics.
func (p *Path) Circle(cx, cy, r float64) {
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	o := r * k

	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+o, cx+o, cy+r, cx, cy+r)
	p.CubicTo(cx-o, cy+r, cx-r, cy+o, cx-r, cy)
	p.CubicTo(cx-r, cy-o, cx-o, cy-r, cx, cy-r)
	p.CubicTo(cx+o, cy-r, cx+r, cy-o, cx+r, cy)
	p.Close()
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	out := &Path{
		elements: make([]PathElement, len(p.elements)),
		start:    p.start,
		current:  p.current,
	}
	copy(out.elements, p.elements)
	return out
}

// IsFinite reports whether the path is non-empty and every coordinate is
// finite.
func (p *Path) IsFinite() bool {
	if p.IsEmpty() {
		return false
	}
	b := p.Bounds()
	for _, v := range [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
