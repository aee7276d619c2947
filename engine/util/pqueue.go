package util

import (
	"container/heap"
)

type PqItem[T comparable] struct {
	value    T
	priority int
	index    int
}

func NewNode[T comparable](value T, priority int) *PqItem[T] {
	return &PqItem[T]{value: value, priority: priority}
}

// PriorityQueue is a min-heap: Pop returns the lowest priority value first.
type PriorityQueue[T comparable] []*PqItem[T]

func NewPriorityQueue[T comparable](items []*PqItem[T]) *PriorityQueue[T] {
	pq := make(PriorityQueue[T], len(items))
	for i, item := range items {
		item.index = i
		pq[i] = item
	}
	heap.Init(&pq)
	return &pq
}

func (pq PriorityQueue[T]) Len() int { return len(pq) }

func (pq PriorityQueue[T]) Less(i, j int) bool {
	return pq[i].priority < pq[j].priority
}

func (pq PriorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *PriorityQueue[T]) Push(x any) {
	item := x.(*PqItem[T])
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *PriorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*pq = old[0 : n-1]
	return item
}

func (pq *PriorityQueue[T]) Enqueue(value T, priority int) {
	heap.Push(pq, NewNode(value, priority))
}

func (pq *PriorityQueue[T]) Dequeue() T {
	return heap.Pop(pq).(*PqItem[T]).value
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.Len() == 0
}

func (pq *PriorityQueue[T]) Clear() {
	*pq = (*pq)[:0]
}
