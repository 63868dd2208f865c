package op_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/op"
)

// fakePipeline counts releases.
type fakePipeline struct {
	key      op.ProgramKey
	released int
}

func (p *fakePipeline) Release() { p.released++ }

// fakeBuilder builds fake pipelines and fails for selected stencil
// settings.
type fakeBuilder struct {
	mu    sync.Mutex
	built []op.ProgramKey
	fail  map[op.StencilSettings]bool
}

var errBuild = errors.New("shader compile failed")

func (b *fakeBuilder) BuildPipeline(key op.ProgramKey, _ *op.PipelineInfo) (op.Pipeline, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail[key.Stencil] {
		return nil, errBuild
	}
	b.built = append(b.built, key)
	return &fakePipeline{key: key}, nil
}

// linePath returns an open polyline with exactly verbs verbs.
func linePath(x, y float64, verbs int) *stroketess.Path {
	p := stroketess.NewPath()
	p.MoveTo(x, y)
	for i := 1; i < verbs; i++ {
		p.LineTo(x+float64(i), y+float64(i%2))
	}
	return p
}

func rectPath(x, y, w, h float64) *stroketess.Path {
	p := stroketess.NewPath()
	p.Rectangle(x, y, w, h)
	return p
}

func solidPaint() *op.ProcessorSet { return op.NewProcessorSet(op.BlendSrcOver) }

func bevel(width float64) stroketess.Stroke {
	return stroketess.DefaultStroke().WithWidth(width).WithJoin(stroketess.LineJoinBevel)
}

// newOp returns a finalized op with an opaque color and no antialiasing,
// which needs no stencil pass.
func newOp(path *stroketess.Path, stroke stroketess.Stroke, paint *op.ProcessorSet) *op.StrokeOp {
	o := op.NewStrokeOp(nil, stroketess.AANone, stroketess.Identity(), path, stroke, stroketess.Black, paint)
	o.Finalize()
	return o
}

func newContext(tess bool, opts ...op.ContextOption) (*op.Context, *fakeBuilder) {
	b := &fakeBuilder{}
	return op.NewContext(op.StaticCaps{Tessellation: tess}, b, opts...), b
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}
