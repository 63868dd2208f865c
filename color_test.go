package stroketess

import (
	"math"
	"testing"
)

func TestPMColorFitsInBytes(t *testing.T) {
	tests := []struct {
		name string
		c    PMColor
		want bool
	}{
		{"black", Black, true},
		{"white", White, true},
		{"transparent", Transparent, true},
		{"hdr red", PMColor{R: 1.5, A: 1}, false},
		{"negative", PMColor{G: -0.1, A: 1}, false},
		{"nan", PMColor{B: float32(math.NaN()), A: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.FitsInBytes(); got != tt.want {
				t.Errorf("FitsInBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPMColorPackRGBA8(t *testing.T) {
	tests := []struct {
		c    PMColor
		want uint32
	}{
		{Black, 0xFF000000},
		{White, 0xFFFFFFFF},
		{PMColor{R: 1, A: 1}, 0xFF0000FF},
		{PMColor{R: 0.5, G: 0.5, B: 0.5, A: 0.5}, 0x80808080},
		{PMColor{R: 2, G: -1, A: 1}, 0xFF0000FF},
	}
	for _, tt := range tests {
		if got := tt.c.PackRGBA8(); got != tt.want {
			t.Errorf("%+v.PackRGBA8() = %#08x, want %#08x", tt.c, got, tt.want)
		}
	}
}

func TestRGBAPremultiply(t *testing.T) {
	got := RGBA2(1, 0.5, 0, 0.5).Premultiply()
	want := PMColor{R: 0.5, G: 0.25, B: 0, A: 0.5}
	if !got.Equal(want) {
		t.Errorf("Premultiply() = %+v, want %+v", got, want)
	}
	if !RGB(0.2, 0.3, 0.4).Premultiply().IsOpaque() {
		t.Error("RGB must premultiply to an opaque color")
	}
}
