package stroketess

import (
	"math"
	"testing"
)

func TestStrokeInflationRadius(t *testing.T) {
	tests := []struct {
		name string
		s    Stroke
		want float64
	}{
		{"hairline", Hairline(), 0.5},
		{"bevel butt", DefaultStroke().WithWidth(4).WithJoin(LineJoinBevel), 2},
		{"round", DefaultStroke().WithWidth(4).WithJoin(LineJoinRound).WithCap(LineCapRound), 2},
		{"miter", DefaultStroke().WithWidth(4).WithMiterLimit(4), 8},
		{"miter below one", DefaultStroke().WithWidth(4).WithMiterLimit(0.5), 2},
		{"square cap", DefaultStroke().WithWidth(2).WithJoin(LineJoinBevel).WithCap(LineCapSquare), math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.InflationRadius(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("InflationRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrokeEqualDynamicState(t *testing.T) {
	base := DefaultStroke().WithWidth(3)
	tests := []struct {
		name string
		o    Stroke
		want bool
	}{
		{"same", base, true},
		{"width", base.WithWidth(4), false},
		{"join", base.WithJoin(LineJoinRound), false},
		{"cap", base.WithCap(LineCapRound), false},
		{"miter limit", base.WithMiterLimit(10), false},
		{"hairline", Hairline(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.EqualDynamicState(tt.o); got != tt.want {
				t.Errorf("EqualDynamicState(%+v) = %v, want %v", tt.o, got, tt.want)
			}
		})
	}

	// Miter limit is irrelevant when the join is not a miter.
	r := base.WithJoin(LineJoinRound)
	if !r.EqualDynamicState(r.WithMiterLimit(99)) {
		t.Error("miter limit must not matter for round joins")
	}
}

func TestStrokeJoinType(t *testing.T) {
	if got := DefaultStroke().WithJoin(LineJoinRound).JoinType(); got != -1 {
		t.Errorf("round JoinType = %v, want -1", got)
	}
	if got := DefaultStroke().WithJoin(LineJoinBevel).JoinType(); got != 0 {
		t.Errorf("bevel JoinType = %v, want 0", got)
	}
	if got := DefaultStroke().WithMiterLimit(6).JoinType(); got != 6 {
		t.Errorf("miter JoinType = %v, want 6", got)
	}
}
