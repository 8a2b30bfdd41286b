// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package index

import (
	"container/heap"
	"sort"

	"github.com/tomtom215/gamescout/internal/recommend"
)

// topK keeps the k nearest neighbors seen so far in a bounded max-heap.
// The root is the current worst neighbor, so a closer candidate replaces
// it in O(log k).
type topK struct {
	k     int
	items []recommend.Neighbor
}

func newTopK(k int) *topK {
	return &topK{k: k, items: make([]recommend.Neighbor, 0, k)}
}

// worse reports whether a ranks after b: larger distance, then larger
// position.
func worse(a, b recommend.Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Position > b.Position
}

func (t *topK) Len() int           { return len(t.items) }
func (t *topK) Less(i, j int) bool { return worse(t.items[i], t.items[j]) }
func (t *topK) Swap(i, j int)      { t.items[i], t.items[j] = t.items[j], t.items[i] }
func (t *topK) Push(x any)         { t.items = append(t.items, x.(recommend.Neighbor)) }
func (t *topK) Pop() any {
	n := len(t.items)
	x := t.items[n-1]
	t.items = t.items[:n-1]
	return x
}

// offer considers one candidate.
func (t *topK) offer(n recommend.Neighbor) {
	if t.k <= 0 {
		return
	}
	if len(t.items) < t.k {
		heap.Push(t, n)
		return
	}
	if worse(t.items[0], n) {
		t.items[0] = n
		heap.Fix(t, 0)
	}
}

// sorted returns the kept neighbors by ascending distance, ties by position.
func (t *topK) sorted() []recommend.Neighbor {
	out := make([]recommend.Neighbor, len(t.items))
	copy(out, t.items)
	sort.Slice(out, func(i, j int) bool { return worse(out[j], out[i]) })
	return out
}

// squaredL2 returns the squared Euclidean distance between a and b.
// Extra trailing components of the longer vector are ignored.
func squaredL2(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
