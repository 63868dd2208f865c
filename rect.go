package stroketess

import "math"

// Rect is an axis-aligned rectangle. A Rect with MinX > MaxX or
// MinY > MaxY is empty; EmptyRect returns the canonical empty value,
// which is the identity for Union.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyRect returns an inverted rectangle that contains nothing.
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return !(r.MinX < r.MaxX) || !(r.MinY < r.MaxY)
}

// Width returns the horizontal extent, or 0 for an empty rectangle.
func (r Rect) Width() float64 {
	if r.MaxX < r.MinX {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the vertical extent, or 0 for an empty rectangle.
func (r Rect) Height() float64 {
	if r.MaxY < r.MinY {
		return 0
	}
	return r.MaxY - r.MinY
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Intersects reports whether r and o share a region of positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX &&
		r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Outset grows the rectangle by dx horizontally and dy vertically on
// each side.
func (r Rect) Outset(dx, dy float64) Rect {
	return Rect{
		MinX: r.MinX - dx, MinY: r.MinY - dy,
		MaxX: r.MaxX + dx, MaxY: r.MaxY + dy,
	}
}

// extend grows r to contain p.
func (r Rect) extend(p Point) Rect {
	return Rect{
		MinX: math.Min(r.MinX, p.X), MinY: math.Min(r.MinY, p.Y),
		MaxX: math.Max(r.MaxX, p.X), MaxY: math.Max(r.MaxY, p.Y),
	}
}
