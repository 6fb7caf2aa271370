// Package topk provides a generic, heap-based top-K collector.
//
// It keeps the K highest-scoring items from a stream in O(n log k)
// instead of sorting everything. The board bootstrapper uses it to pick
// the most-used labels; the analysis summary uses it for the busiest
// facets.
package topk

import (
	"container/heap"
	"sort"
)

// Scored pairs an item with its score
type Scored[T any] struct {
	Item  T
	Score float64
}

// Collector maintains the top-K highest-scoring items seen so far.
// The less function breaks score ties deterministically; with a nil less,
// tied items come back in arbitrary order.
type Collector[T any] struct {
	k    int
	h    *minHeap[T]
	less func(a, b T) bool
}

// New creates a Collector for the top k items. k <= 0 collects nothing.
func New[T any](k int, less func(a, b T) bool) *Collector[T] {
	if k < 0 {
		k = 0
	}
	h := &minHeap[T]{items: make([]Scored[T], 0, k), less: less}
	heap.Init(h)
	return &Collector[T]{k: k, h: h, less: less}
}

// Add considers an item for inclusion. Returns true if it was kept.
func (c *Collector[T]) Add(item T, score float64) bool {
	if c.k <= 0 {
		return false
	}
	entry := Scored[T]{Item: item, Score: score}
	if c.h.Len() < c.k {
		heap.Push(c.h, entry)
		return true
	}
	if score > c.h.items[0].Score {
		heap.Pop(c.h)
		heap.Push(c.h, entry)
		return true
	}
	if score == c.h.items[0].Score && c.less != nil && c.less(item, c.h.items[0].Item) {
		heap.Pop(c.h)
		heap.Push(c.h, entry)
		return true
	}
	return false
}

// Len returns the current number of collected items
func (c *Collector[T]) Len() int {
	return c.h.Len()
}

// Results returns the collected items in descending score order, ties
// broken by the less function.
func (c *Collector[T]) Results() []T {
	if c.h.Len() == 0 {
		return nil
	}
	scored := make([]Scored[T], c.h.Len())
	copy(scored, c.h.items)
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if c.less != nil {
			return c.less(scored[i].Item, scored[j].Item)
		}
		return false
	})
	out := make([]T, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}

type minHeap[T any] struct {
	items []Scored[T]
	less  func(a, b T) bool
}

func (h *minHeap[T]) Len() int { return len(h.items) }

func (h *minHeap[T]) Less(i, j int) bool {
	if h.items[i].Score != h.items[j].Score {
		return h.items[i].Score < h.items[j].Score
	}
	if h.less != nil {
		// Items that tie-break first should survive longest, so they get
		// lower heap priority.
		return !h.less(h.items[i].Item, h.items[j].Item)
	}
	return false
}

func (h *minHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *minHeap[T]) Push(x any) { h.items = append(h.items, x.(Scored[T])) }

func (h *minHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
