package stroketess

import (
	"math"
	"testing"
)

func TestMatrixEqual(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		a, b Matrix
		want bool
	}{
		{"identity", Identity(), Identity(), true},
		{"translate differs", Translate(1, 0), Translate(0, 1), false},
		{"scale same", Scale(2, 3), Scale(2, 3), true},
		{"nan equals nan", Matrix{A: nan, E: 1}, Matrix{A: nan, E: 1}, true},
		{"zero vs negative zero", Matrix{A: 1, C: 0, E: 1}, Matrix{A: 1, C: math.Copysign(0, -1), E: 1}, false},
		{"tiny difference", Translate(0.1, 0), Translate(0.1+1e-16, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%+v.Equal(%+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatrixMapRect(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20}

	got := Translate(5, -5).Multiply(Scale(2, 1)).MapRect(r)
	want := Rect{MinX: 5, MinY: -5, MaxX: 25, MaxY: 15}
	if got != want {
		t.Errorf("MapRect = %+v, want %+v", got, want)
	}

	rot := Rotate(math.Pi / 2).MapRect(r)
	if math.Abs(rot.MinX+20) > 1e-9 || math.Abs(rot.MaxX) > 1e-9 ||
		math.Abs(rot.MinY) > 1e-9 || math.Abs(rot.MaxY-10) > 1e-9 {
		t.Errorf("rotated MapRect = %+v", rot)
	}

	if e := Scale(2, 2).MapRect(EmptyRect()); !e.IsEmpty() {
		t.Errorf("MapRect(empty) = %+v, want empty", e)
	}

	// A vertical line has zero area but must still move.
	line := Rect{MinX: 10, MinY: 0, MaxX: 10, MaxY: 100}
	if got := Translate(1000, 0).MapRect(line); got != (Rect{MinX: 1010, MinY: 0, MaxX: 1010, MaxY: 100}) {
		t.Errorf("MapRect(line) = %+v", got)
	}
	if got := Scale(2, 3).MapRect(Rect{MinX: 1, MinY: 1, MaxX: 1, MaxY: 1}); got != (Rect{MinX: 2, MinY: 3, MaxX: 2, MaxY: 3}) {
		t.Errorf("MapRect(point) = %+v", got)
	}
}

func TestMatrixMaxScale(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want float64
	}{
		{"identity", Identity(), 1},
		{"translation", Translate(100, 100), 1},
		{"uniform", Scale(3, 3), 3},
		{"non-uniform", Scale(0.5, 4), 4},
		{"rotation", Rotate(0.7), 1},
		{"rotated scale", Rotate(1.1).Multiply(Scale(2, 5)), 5},
		{"mirror", Scale(-2, 1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.MaxScale(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MaxScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixTransformPoint(t *testing.T) {
	m := Translate(10, 20).Multiply(Scale(2, 3))
	got := m.TransformPoint(Pt(1, 1))
	if got != Pt(12, 23) {
		t.Errorf("TransformPoint = %v, want (12,23)", got)
	}
	if v := m.TransformVector(Pt(1, 1)); v != Pt(2, 3) {
		t.Errorf("TransformVector = %v, want (2,3)", v)
	}
}

func TestRect(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := Rect{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10}
	c := Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}

	if a.Intersects(b) {
		t.Error("edge-adjacent rects must not intersect")
	}
	if !a.Intersects(c) {
		t.Error("overlapping rects must intersect")
	}
	if u := EmptyRect().Union(a); u != a {
		t.Errorf("EmptyRect().Union(a) = %+v, want %+v", u, a)
	}
	if o := a.Outset(1, 2); o != (Rect{MinX: -1, MinY: -2, MaxX: 11, MaxY: 12}) {
		t.Errorf("Outset = %+v", o)
	}
	if !EmptyRect().IsEmpty() || a.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
	if EmptyRect().Width() != 0 || a.Height() != 10 {
		t.Error("Width/Height mismatch")
	}
}
