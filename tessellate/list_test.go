package tessellate

import (
	"testing"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/assert"
)

func linePath(x0, y0, x1, y1 float64) *stroketess.Path {
	p := stroketess.NewPath()
	p.MoveTo(x0, y0)
	p.LineTo(x1, y1)
	return p
}

func entry(p *stroketess.Path) PathStroke {
	return PathStroke{Path: p, Stroke: stroketess.DefaultStroke(), Color: stroketess.Black}
}

func TestPathStrokeListAppendConcat(t *testing.T) {
	a := NewArena()
	l1 := NewPathStrokeList(a)
	l2 := NewPathStrokeList(a)

	if l1.Head() != nil || !l1.IsEmpty() {
		t.Fatal("new list not empty")
	}
	l1.Append(entry(linePath(0, 0, 1, 0)))
	l2.Append(entry(linePath(0, 0, 2, 0)))
	l2.Append(entry(linePath(0, 0, 3, 0)))

	l1.Concat(&l2)
	if l1.Len() != 3 || l2.Len() != 0 || l2.Head() != nil {
		t.Fatalf("after concat: l1=%d l2=%d", l1.Len(), l2.Len())
	}
	var xs []float64
	for s := range l1.All() {
		xs = append(xs, s.Path.Bounds().MaxX)
	}
	if len(xs) != 3 || xs[0] != 1 || xs[1] != 2 || xs[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", xs)
	}
	if l1.CountVerbs() != 6 {
		t.Errorf("CountVerbs = %d, want 6", l1.CountVerbs())
	}
	if a.Len() != 3 {
		t.Errorf("arena nodes = %d, want 3", a.Len())
	}

	// Appending after a splice keeps order.
	l1.Append(entry(linePath(0, 0, 4, 0)))
	l2.Append(entry(linePath(0, 0, 5, 0)))
	if l1.Len() != 4 || l2.Len() != 1 {
		t.Errorf("lens after reuse: %d %d", l1.Len(), l2.Len())
	}
}

func TestPathStrokeListConcatEmpty(t *testing.T) {
	var l1, l2 PathStrokeList
	l2.Append(entry(linePath(0, 0, 1, 1)))
	l1.Concat(&l2)
	if l1.Len() != 1 || l1.Head() == nil {
		t.Fatal("concat into empty list lost entries")
	}
	var empty PathStrokeList
	l1.Concat(&empty)
	if l1.Len() != 1 {
		t.Error("concat of empty list changed length")
	}
}

func TestPathStrokeListHeadMutation(t *testing.T) {
	l := NewPathStrokeList(nil)
	l.Append(entry(linePath(0, 0, 1, 1)))
	l.Head().Color = stroketess.White
	for s := range l.All() {
		if !s.Color.Equal(stroketess.White) {
			t.Error("head edit not visible")
		}
	}
}

func TestPathStrokeListConcatAcrossArenas(t *testing.T) {
	if !assert.Enabled {
		t.Skip("assertions compiled out")
	}
	l1 := NewPathStrokeList(NewArena())
	l2 := NewPathStrokeList(NewArena())
	l2.Append(entry(linePath(0, 0, 1, 1)))
	defer func() {
		if recover() == nil {
			t.Error("concat across arenas did not panic")
		}
	}()
	l1.Concat(&l2)
}

func TestArenaReset(t *testing.T) {
	a := NewArena()
	l := NewPathStrokeList(a)
	for i := 0; i < 100; i++ {
		l.Append(entry(linePath(0, 0, 1, 1)))
	}
	a.Reset()
	if a.Len() != 0 {
		t.Errorf("arena Len after Reset = %d", a.Len())
	}
}
