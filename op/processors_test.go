package op_test

import (
	"testing"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/op"
)

func TestProcessorSet_Key(t *testing.T) {
	a := op.NewProcessorSet(op.BlendSrcOver, op.ConstantColor{Color: stroketess.White}, op.LocalCoordsEffect{Name: "img"})
	if got, want := a.Key(), "SrcOver/ConstantColor/LocalCoords:img"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if !a.UsesVaryingCoords() {
		t.Error("UsesVaryingCoords() = false with a local coords effect")
	}
	if len(a.Effects()) != 2 || a.Blend() != op.BlendSrcOver {
		t.Error("set does not report its construction")
	}
}

func TestProcessorSet_Equal(t *testing.T) {
	var none *op.ProcessorSet
	tests := []struct {
		name string
		a, b *op.ProcessorSet
		want bool
	}{
		{"same key", solidPaint(), solidPaint(), true},
		{"blend differs", solidPaint(), op.NewProcessorSet(op.BlendSrc), false},
		{"effect differs", op.NewProcessorSet(op.BlendSrc, op.LocalCoordsEffect{Name: "a"}), op.NewProcessorSet(op.BlendSrc, op.LocalCoordsEffect{Name: "b"}), false},
		// Constant colors are uniforms, not program variants.
		{"constant colors", op.NewProcessorSet(op.BlendSrc, op.ConstantColor{Color: stroketess.Black}), op.NewProcessorSet(op.BlendSrc, op.ConstantColor{Color: stroketess.White}), true},
		{"nil and set", none, solidPaint(), false},
		{"both nil", none, none, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessorSet_Analyze(t *testing.T) {
	half := stroketess.RGBA2(0, 0, 1, 0.5).Premultiply()
	a := op.NewProcessorSet(op.BlendSrcOver).Analyze(half, stroketess.AANone)
	if a.HasOverrideColor || a.UnaffectedByDstValue {
		t.Errorf("translucent SrcOver: %+v", a)
	}
	a = op.NewProcessorSet(op.BlendSrcOver, op.ConstantColor{Color: stroketess.White}).Analyze(half, stroketess.AANone)
	if !a.HasOverrideColor || !a.OverrideColor.Equal(stroketess.White) || !a.UnaffectedByDstValue {
		t.Errorf("opaque override: %+v", a)
	}
	a = op.NewProcessorSet(op.BlendMultiply).Analyze(stroketess.Black, stroketess.AAMSAA)
	if a.UnaffectedByDstValue {
		t.Error("Multiply reported unaffected by destination")
	}
}
