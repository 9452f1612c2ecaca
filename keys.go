// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"fmt"
	"strings"
)

// Key identifies a physical key in an engine-neutral way. Host adapters
// translate their native key identifiers into Key.
type Key int

const (
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyDigit0
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyDigit5
	KeyDigit6
	KeyDigit7
	KeyDigit8
	KeyDigit9

	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyArrowLeft
	KeyArrowUp
	KeyArrowRight
	KeyArrowDown

	KeyShift
	KeyControl
	KeyAlt
	KeyMeta
	KeyCapsLock

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyMax
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint32

const (
	ModAlt   Modifiers = 1
	ModCtrl  Modifiers = 2
	ModMeta  Modifiers = 4
	ModShift Modifiers = 8
)

// Windows virtual key codes, which is what the web engine expects as native codes.
var rawKeyCodes = map[Key]int32{
	KeyBackspace: 0x08,
	KeyTab:       0x09,
	KeyEnter:     0x0D,
	KeyEscape:    0x1B,
	KeySpace:     0x20,
	KeyPageUp:    0x21,
	KeyPageDown:  0x22,
	KeyEnd:       0x23,
	KeyHome:      0x24,
	KeyInsert:    0x2D,
	KeyDelete:    0x2E,

	KeyShift:    0x10,
	KeyControl:  0x11,
	KeyAlt:      0x12,
	KeyCapsLock: 0x14,
	KeyMeta:     0x5B,

	KeyF1:  0x70,
	KeyF2:  0x71,
	KeyF3:  0x72,
	KeyF4:  0x73,
	KeyF5:  0x74,
	KeyF6:  0x75,
	KeyF7:  0x76,
	KeyF8:  0x77,
	KeyF9:  0x78,
	KeyF10: 0x79,
	KeyF11: 0x7A,
	KeyF12: 0x7B,
}

var arrowKeyCodes = map[Key]int32{
	KeyArrowLeft:  0x25,
	KeyArrowUp:    0x26,
	KeyArrowRight: 0x27,
	KeyArrowDown:  0x28,
}

var keyNames = map[Key]string{
	KeyBackspace:  "Backspace",
	KeyTab:        "Tab",
	KeyEnter:      "Enter",
	KeyEscape:     "Escape",
	KeySpace:      "Space",
	KeyInsert:     "Insert",
	KeyDelete:     "Delete",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "PageUp",
	KeyPageDown:   "PageDown",
	KeyArrowLeft:  "ArrowLeft",
	KeyArrowUp:    "ArrowUp",
	KeyArrowRight: "ArrowRight",
	KeyArrowDown:  "ArrowDown",
	KeyShift:      "Shift",
	KeyControl:    "Control",
	KeyAlt:        "Alt",
	KeyMeta:       "Meta",
	KeyCapsLock:   "CapsLock",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= KeyDigit0 && k <= KeyDigit9:
		return "Digit" + string(rune('0'+int(k-KeyDigit0)))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// ParseKey resolves a key name as produced by Key.String. Matching is case
// insensitive; single letters and digits ("a", "7") are accepted too.
func ParseKey(name string) (Key, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return KeyUnknown, fmt.Errorf("empty key name")
	}
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KeyA + Key(c-'a'), nil
		case c >= 'A' && c <= 'Z':
			return KeyA + Key(c-'A'), nil
		case c >= '0' && c <= '9':
			return KeyDigit0 + Key(c-'0'), nil
		}
	}
	for k := KeyA; k < KeyMax; k++ {
		if strings.EqualFold(k.String(), n) {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}
