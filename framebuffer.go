// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"fmt"
	"sync"
)

// FrameBuffer is an in-memory BGRA8 Texture. Headless hosts and tests use it
// in place of a GPU texture.
type FrameBuffer struct {
	mu     sync.Mutex
	width  int
	height int
	pix    []byte
	writes uint64
}

// NewFrameBuffer allocates a cleared width x height buffer.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{width: width, height: height, pix: make([]byte, width*height*4)}
}

func (f *FrameBuffer) Size() (int, int) { return f.width, f.height }

func (f *FrameBuffer) WriteBGRA(pix []byte) error {
	if len(pix) != len(f.pix) {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), len(f.pix))
	}
	f.mu.Lock()
	copy(f.pix, pix)
	f.writes++
	f.mu.Unlock()
	return nil
}

// Pixels returns a copy of the current contents.
func (f *FrameBuffer) Pixels() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, len(f.pix))
	copy(out, f.pix)
	return out
}

// Writes returns how many frames were written.
func (f *FrameBuffer) Writes() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}
