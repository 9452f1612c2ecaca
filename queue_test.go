// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_DrainInOrder(t *testing.T) {
	var q Queue[int]
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	assert.Equal(t, 5, q.Len())

	var got []int
	n := q.Drain(func(v int) { got = append(got, v) })
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Zero(t, q.Len())
	assert.Zero(t, q.Drain(func(int) { t.Fatal("queue should be empty") }))
}

func TestQueue_PushDuringDrainWaitsForNextDrain(t *testing.T) {
	var q Queue[string]
	q.Push("a")

	var got []string
	q.Drain(func(v string) {
		got = append(got, v)
		q.Push("b")
	})
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 200
	var q Queue[[2]int]
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push([2]int{p, i})
			}
		}(p)
	}

	var got [][2]int
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		q.Drain(func(v [2]int) { got = append(got, v) })
		select {
		case <-done:
			q.Drain(func(v [2]int) { got = append(got, v) })
			assert.Len(t, got, producers*perProducer)
			// Per-producer order is preserved.
			next := make([]int, producers)
			for _, v := range got {
				assert.Equal(t, next[v[0]], v[1])
				next[v[0]]++
			}
			return
		default:
		}
	}
}

func TestInputQueues_FlushOrder(t *testing.T) {
	v := newFakeView(10, 10)
	var q InputQueues
	q.Key.Push(KeyEvent{Kind: KeyChar, Text: "x"})
	q.Scroll.Push(ScrollEvent{DY: 3})
	q.Pointer.Push(PointerEvent{Kind: PointerDown, X: 1, Y: 2, Button: ButtonLeft})

	p, s, k := q.flush(v)
	assert.Equal(t, 1, p)
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, k)
	assert.Len(t, v.pointers, 1)
	assert.Len(t, v.scrolls, 1)
	assert.Len(t, v.keys, 1)
}
