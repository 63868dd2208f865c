package tessellate

import (
	"iter"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/arena"
	"github.com/gogpu/stroketess/internal/assert"
)

// PathStroke is one stroke draw: a path, its style and its premultiplied
// color. Entries are immutable once appended to a list, except the head
// of a list that has not yet been merged.
type PathStroke struct {
	Path   *stroketess.Path
	Stroke stroketess.Stroke
	Color  stroketess.PMColor
}

type listNode struct {
	stroke PathStroke
	next   *listNode
}

// Arena owns the nodes of every PathStrokeList recorded for one flush.
// Lists built from an arena are invalid after Reset.
type Arena struct {
	nodes *arena.Arena[listNode]
}

// NewArena returns an empty node arena.
func NewArena() *Arena {
	return &Arena{nodes: arena.New[listNode](0)}
}

// Reset releases every node. All lists allocated from a become invalid.
func (a *Arena) Reset() { a.nodes.Reset() }

// Len returns the number of live nodes.
func (a *Arena) Len() int { return a.nodes.Len() }

// PathStrokeList is an ordered singly linked list of PathStrokes with
// O(1) append and O(1) splice. The zero value is an empty list whose
// nodes are heap allocated.
type PathStrokeList struct {
	arena *Arena
	head  *listNode
	tail  *listNode
	n     int
}

// NewPathStrokeList returns an empty list allocating from a. A nil arena
// allocates from the heap.
func NewPathStrokeList(a *Arena) PathStrokeList {
	return PathStrokeList{arena: a}
}

// Append adds s to the end of the list.
func (l *PathStrokeList) Append(s PathStroke) {
	var node *listNode
	if l.arena != nil {
		node = l.arena.nodes.Make(listNode{stroke: s})
	} else {
		node = &listNode{stroke: s}
	}
	if l.tail == nil {
		l.head = node
	} else {
		l.tail.next = node
	}
	l.tail = node
	l.n++
}

// Head returns the first entry, or nil for an empty list.
func (l *PathStrokeList) Head() *PathStroke {
	if l.head == nil {
		return nil
	}
	return &l.head.stroke
}

// Concat moves every entry of other to the end of l in O(1). other is
// left empty. Both lists must share an arena.
func (l *PathStrokeList) Concat(other *PathStrokeList) {
	assert.That(l != other, "concat of a list with itself")
	assert.That(l.arena == other.arena, "concat across arenas")
	if other.head == nil {
		return
	}
	if l.tail == nil {
		l.head = other.head
	} else {
		l.tail.next = other.head
	}
	l.tail = other.tail
	l.n += other.n
	other.head, other.tail, other.n = nil, nil, 0
}

// Len returns the number of entries.
func (l *PathStrokeList) Len() int { return l.n }

// IsEmpty reports whether the list has no entries.
func (l *PathStrokeList) IsEmpty() bool { return l.n == 0 }

// All iterates the entries in order.
func (l *PathStrokeList) All() iter.Seq[*PathStroke] {
	return func(yield func(*PathStroke) bool) {
		for n := l.head; n != nil; n = n.next {
			if !yield(&n.stroke) {
				return
			}
		}
	}
}

// CountVerbs returns the verb total over every entry.
func (l *PathStrokeList) CountVerbs() int {
	total := 0
	for s := range l.All() {
		total += s.Path.CountVerbs()
	}
	return total
}
