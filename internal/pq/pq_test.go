package pq

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"
)

func drain[T any](h *Heap[T]) []T {
	var out []T
	for {
		v, ok := h.Pop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestMaxHeapOrder(t *testing.T) {
	h := NewMax[float64](2)
	for _, v := range []float64{3.0, 1.0, 4.0, 1.0, 5.0} {
		h.Insert(v)
	}
	if h.Len() != 5 {
		t.Fatalf("Len = %d, want 5", h.Len())
	}
	got := drain(h)
	want := []float64{5.0, 4.0, 3.0, 1.0, 1.0}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if !h.IsEmpty() {
		t.Fatal("heap should be empty after draining")
	}
}

func TestMinHeapOrder(t *testing.T) {
	h := NewMin[int](1)
	for _, v := range []int{9, -2, 7, 7, 0, 3} {
		h.Insert(v)
	}
	got := drain(h)
	want := []int{-2, 0, 3, 7, 7, 9}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEmptyHeap(t *testing.T) {
	h := NewMax[int](4)
	if _, ok := h.Pop(); ok {
		t.Fatal("Pop on an empty heap reported a value")
	}
	if _, ok := h.Peek(); ok {
		t.Fatal("Peek on an empty heap reported a value")
	}
	h.Insert(1)
	h.Pop()
	if _, ok := h.Peek(); ok {
		t.Fatal("Peek after draining reported a value")
	}
}

func TestPeekMatchesPop(t *testing.T) {
	h := NewMin[int](3)
	for _, v := range []int{5, 2, 8} {
		h.Insert(v)
	}
	top, _ := h.Peek()
	popped, _ := h.Pop()
	if top != 2 || popped != 2 || h.Len() != 2 {
		t.Fatalf("peek=%d pop=%d len=%d", top, popped, h.Len())
	}
}

func TestRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, order := range []Order{MaxFirst, MinFirst} {
		h := New(1, order, cmp.Compare[int])
		in := make([]int, 500)
		for i := range in {
			in[i] = rng.Intn(50)
			h.Insert(in[i])
		}
		out := drain(h)
		if len(out) != len(in) {
			t.Fatalf("extracted %d items, inserted %d", len(out), len(in))
		}
		for i := 1; i < len(out); i++ {
			if order == MaxFirst && out[i] > out[i-1] {
				t.Fatalf("max heap out of order at %d: %v > %v", i, out[i], out[i-1])
			}
			if order == MinFirst && out[i] < out[i-1] {
				t.Fatalf("min heap out of order at %d: %v < %v", i, out[i], out[i-1])
			}
		}
		slices.Sort(in)
		slices.Sort(out)
		if !slices.Equal(in, out) {
			t.Fatal("extracted items are not a permutation of the inserted ones")
		}
	}
}

func TestInterleavedInsertPop(t *testing.T) {
	type item struct {
		key float64
		id  int
	}
	h := New(2, MaxFirst, func(a, b item) int { return cmp.Compare(a.key, b.key) })
	h.Insert(item{1, 0})
	h.Insert(item{3, 1})
	if v, _ := h.Pop(); v.id != 1 {
		t.Fatalf("popped id %d, want 1", v.id)
	}
	h.Insert(item{2, 2})
	h.Insert(item{2, 3})
	h.Insert(item{0, 4})

	seen := map[int]bool{}
	last := 3.0
	for _, v := range drain(h) {
		if v.key > last {
			t.Fatalf("key %v after %v", v.key, last)
		}
		last = v.key
		seen[v.id] = true
	}
	for _, id := range []int{0, 2, 3, 4} {
		if !seen[id] {
			t.Fatalf("item %d lost", id)
		}
	}
}
