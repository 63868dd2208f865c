// Package arena provides a typed slab allocator whose elements are
// released all at once.
package arena

import "golang.org/x/exp/constraints"

const defaultSlabLen = 64

// Arena hands out stable pointers to T from fixed-size slabs. Pointers
// stay valid until Reset. An Arena is not safe for concurrent use.
type Arena[T any] struct {
	slabs   [][]T
	cur     int // index of the slab being filled
	slabLen int
	n       int
}

// New returns an arena whose first slab holds slabLen elements. A
// non-positive slabLen selects a default.
func New[T any](slabLen int) *Arena[T] {
	if slabLen <= 0 {
		slabLen = defaultSlabLen
	}
	return &Arena[T]{slabLen: slabLen}
}

// Alloc returns a pointer to a zeroed T owned by the arena.
func (a *Arena[T]) Alloc() *T {
	if len(a.slabs) == 0 {
		a.slabs = append(a.slabs, make([]T, 0, a.slabLen))
	}
	s := a.slabs[a.cur]
	if len(s) == cap(s) {
		a.cur++
		if a.cur == len(a.slabs) {
			// Each new slab doubles so long recordings need few slabs.
			a.slabs = append(a.slabs, make([]T, 0, 2*cap(s)))
		}
		s = a.slabs[a.cur]
	}
	s = append(s, *new(T))
	a.slabs[a.cur] = s
	a.n++
	return &s[len(s)-1]
}

// Make allocates a T initialized to v.
func (a *Arena[T]) Make(v T) *T {
	p := a.Alloc()
	*p = v
	return p
}

// Len returns the number of live elements.
func (a *Arena[T]) Len() int { return a.n }

// Reset releases every element. Slabs are zeroed so that referenced
// memory can be collected, and kept for reuse.
func (a *Arena[T]) Reset() {
	for i := range a.slabs {
		clear(a.slabs[i])
		a.slabs[i] = a.slabs[i][:0]
	}
	a.cur = 0
	a.n = 0
}

// AlignUp rounds x up to the next multiple of y.
func AlignUp[T constraints.Integer](x, y T) T {
	r := x % y
	if r == 0 {
		return x
	}
	return x + y - r
}
