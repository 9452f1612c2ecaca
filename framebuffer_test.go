// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer(2, 1)
	w, h := fb.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)

	require.NoError(t, fb.WriteBGRA([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	px := fb.Pixels()
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, px)

	px[0] = 99
	assert.Equal(t, byte(1), fb.Pixels()[0], "Pixels returns a copy")

	assert.Error(t, fb.WriteBGRA([]byte{1, 2, 3}))
	assert.Equal(t, uint64(1), fb.Writes())
}
