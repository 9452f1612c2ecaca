// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import "sync"

// Queue is a FIFO safe for any number of producers. Drain is meant to be
// called by a single consumer (the frame tick).
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends v.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain takes every queued item and calls fn on each in enqueue order.
// Items pushed while fn runs are left for the next Drain.
func (q *Queue[T]) Drain(fn func(T)) int {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	for _, v := range items {
		fn(v)
	}
	return len(items)
}

// InputQueues holds the pending input for one bridge.
type InputQueues struct {
	Pointer Queue[PointerEvent]
	Scroll  Queue[ScrollEvent]
	Key     Queue[KeyEvent]
}

// flush dispatches everything queued in q to view: pointer first, then
// scroll, then key.
func (q *InputQueues) flush(view View) (pointers, scrolls, keys int) {
	pointers = q.Pointer.Drain(view.FirePointerEvent)
	scrolls = q.Scroll.Drain(view.FireScrollEvent)
	keys = q.Key.Drain(view.FireKeyEvent)
	return pointers, scrolls, keys
}
