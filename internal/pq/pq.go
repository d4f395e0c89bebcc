// Package pq is an array-backed binary heap with a pluggable orientation.
package pq

import "cmp"

// Order selects which end of the ordering sits on top.
type Order int

const (
	MaxFirst Order = iota
	MinFirst
)

// Heap keeps its items in a 1-indexed slice; slot 0 is unused.
type Heap[T any] struct {
	items   []T
	size    int
	compare func(a, b T) int
	order   Order
}

// New returns a heap ordered by compare. capacity is a hint; the backing
// slice doubles when it fills up.
func New[T any](capacity int, order Order, compare func(a, b T) int) *Heap[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Heap[T]{
		items:   make([]T, capacity+1),
		compare: compare,
		order:   order,
	}
}

func NewMax[T cmp.Ordered](capacity int) *Heap[T] {
	return New(capacity, MaxFirst, cmp.Compare[T])
}

func NewMin[T cmp.Ordered](capacity int) *Heap[T] {
	return New(capacity, MinFirst, cmp.Compare[T])
}

// beats reports whether a belongs strictly above b.
func (h *Heap[T]) beats(a, b T) bool {
	if h.order == MaxFirst {
		return h.compare(a, b) > 0
	}
	return h.compare(a, b) < 0
}

func (h *Heap[T]) Insert(item T) {
	h.size++
	if h.size >= len(h.items) {
		h.grow()
	}
	h.items[h.size] = item
	h.swim(h.size)
}

// Pop removes and returns the top item.
func (h *Heap[T]) Pop() (T, bool) {
	var zero T
	if h.size == 0 {
		return zero, false
	}
	top := h.items[1]
	h.items[1] = h.items[h.size]
	h.items[h.size] = zero
	h.size--
	h.sink(1)
	return top, true
}

func (h *Heap[T]) Peek() (T, bool) {
	if h.size == 0 {
		var zero T
		return zero, false
	}
	return h.items[1], true
}

func (h *Heap[T]) Len() int { return h.size }

func (h *Heap[T]) IsEmpty() bool { return h.size == 0 }

func (h *Heap[T]) grow() {
	next := make([]T, 2*len(h.items))
	copy(next, h.items)
	h.items = next
}

func (h *Heap[T]) swim(i int) {
	for i > 1 {
		parent := i / 2
		if !h.beats(h.items[i], h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) sink(i int) {
	for {
		left := 2 * i
		if left > h.size {
			return
		}
		// On a tie between the children the right one is taken.
		child := left
		if right := left + 1; right <= h.size && !h.beats(h.items[left], h.items[right]) {
			child = right
		}
		if !h.beats(h.items[child], h.items[i]) {
			return
		}
		h.items[i], h.items[child] = h.items[child], h.items[i]
		i = child
	}
}
