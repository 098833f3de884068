package dag

import (
	"cmp"
	"container/heap"
)

// minQueue is a min-heap of keys.
type minQueue[K cmp.Ordered] struct {
	items keyHeap[K]
}

func (q *minQueue[K]) push(k K) { heap.Push(&q.items, k) }
func (q *minQueue[K]) pop() K   { return heap.Pop(&q.items).(K) }
func (q *minQueue[K]) len() int { return q.items.Len() }

type keyHeap[K cmp.Ordered] []K

func (h keyHeap[K]) Len() int           { return len(h) }
func (h keyHeap[K]) Less(i, j int) bool { return h[i] < h[j] }
func (h keyHeap[K]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *keyHeap[K]) Push(x any) { *h = append(*h, x.(K)) }

func (h *keyHeap[K]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
