// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	assert.Equal(t, "A", KeyA.String())
	assert.Equal(t, "Digit7", KeyDigit7.String())
	assert.Equal(t, "F10", KeyF10.String())
	assert.Equal(t, "ArrowUp", KeyArrowUp.String())
	assert.Equal(t, "Key(0)", KeyUnknown.String())
}

func TestParseKey(t *testing.T) {
	for k := KeyA; k < KeyMax; k++ {
		got, err := ParseKey(k.String())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, got)
	}

	tests := map[string]Key{
		"f10":        KeyF10,
		" Escape ":   KeyEscape,
		"q":          KeyQ,
		"Q":          KeyQ,
		"5":          KeyDigit5,
		"arrowright": KeyArrowRight,
	}
	for in, want := range tests {
		got, err := ParseKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "F13", "Key(0)", "??"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}
