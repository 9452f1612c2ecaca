// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import "sync"

// Signal is a one-shot readiness flag. Readers can either check Fired each
// frame or wait on Done.
type Signal struct {
	once sync.Once
	ch   chan struct{}
	mu   sync.Mutex
}

// NewSignal returns an unfired signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

func (s *Signal) done() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Fire marks the signal and wakes every waiter. Later calls do nothing.
func (s *Signal) Fire() {
	ch := s.done()
	s.once.Do(func() { close(ch) })
}

// Fired reports whether Fire was called.
func (s *Signal) Fired() bool {
	select {
	case <-s.done():
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.done()
}
