// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import "math"

// PointerKind is the mouse event type understood by the web engine.
type PointerKind int32

const (
	PointerMoved PointerKind = 0
	PointerDown  PointerKind = 1
	PointerUp    PointerKind = 2
)

// MouseButton values match the web engine's button enum.
type MouseButton int32

const (
	ButtonNone   MouseButton = 0
	ButtonLeft   MouseButton = 1
	ButtonMiddle MouseButton = 2
	ButtonRight  MouseButton = 3
)

// PointerPhase is what the host reports for a touch or click on the target.
type PointerPhase int

const (
	PhaseDown PointerPhase = iota
	PhaseUp
	PhaseEnter
	PhaseMove
)

// KeyKind is the key event type understood by the web engine.
type KeyKind int32

const (
	KeyRawDown KeyKind = 0
	KeyDown    KeyKind = 1
	KeyUp      KeyKind = 2
	KeyChar    KeyKind = 3
)

// PointerEvent is a mouse event in view pixel coordinates.
type PointerEvent struct {
	Kind   PointerKind
	X, Y   int
	Button MouseButton
}

// ScrollEvent is a pixel scroll delta.
type ScrollEvent struct {
	DX, DY int
}

// KeyEvent is a keyboard event. Char events carry Text; raw events carry
// NativeCode.
type KeyEvent struct {
	Kind       KeyKind
	NativeCode int32
	Modifiers  Modifiers
	Text       string
}

// MapperOptions configures an InputMapper.
type MapperOptions struct {
	// ToggleKey is reserved for the visibility toggle and never forwarded.
	ToggleKey Key
	// ForwardArrowKeys enables raw key events for the arrow keys.
	ForwardArrowKeys bool
}

// InputMapper translates host input into web engine events.
type InputMapper struct {
	toggle Key
	raw    map[Key]int32
}

// NewInputMapper builds the key table once for the given options.
// A zero ToggleKey defaults to F10.
func NewInputMapper(opts MapperOptions) *InputMapper {
	if opts.ToggleKey == KeyUnknown {
		opts.ToggleKey = KeyF10
	}
	raw := make(map[Key]int32, len(rawKeyCodes)+len(arrowKeyCodes))
	for k, vk := range rawKeyCodes {
		raw[k] = vk
	}
	if opts.ForwardArrowKeys {
		for k, vk := range arrowKeyCodes {
			raw[k] = vk
		}
	}
	delete(raw, opts.ToggleKey)
	return &InputMapper{toggle: opts.ToggleKey, raw: raw}
}

// ToggleKey returns the key reserved for the visibility toggle.
func (m *InputMapper) ToggleKey() Key { return m.toggle }

// MapPointer converts a position in the target's local [0,1] space into a
// pixel position on a surface of the given size.
func MapPointer(localX, localY float64, width, height int, kind PointerKind) PointerEvent {
	return PointerEvent{
		Kind:   kind,
		X:      scaleAxis(localX, width),
		Y:      scaleAxis(localY, height),
		Button: ButtonLeft,
	}
}

func scaleAxis(v float64, size int) int {
	if size <= 0 || math.IsNaN(v) {
		return 0
	}
	v = math.Min(math.Max(v, 0), 1)
	p := int(math.Floor(v * float64(size)))
	if p >= size {
		p = size - 1
	}
	return p
}

// MapKey maps a pressed key. It returns false for the toggle key and for keys
// with no mapping.
func (m *InputMapper) MapKey(key Key, mods Modifiers) (KeyEvent, bool) {
	if key == m.toggle {
		return KeyEvent{}, false
	}
	switch {
	case key >= KeyA && key <= KeyZ:
		return KeyEvent{Kind: KeyChar, Modifiers: mods, Text: string(rune('a' + int(key-KeyA)))}, true
	case key >= KeyDigit0 && key <= KeyDigit9:
		return KeyEvent{Kind: KeyChar, Modifiers: mods, Text: string(rune('0' + int(key-KeyDigit0)))}, true
	}
	if vk, ok := m.raw[key]; ok {
		return KeyEvent{Kind: KeyRawDown, NativeCode: vk, Modifiers: mods}, true
	}
	return KeyEvent{}, false
}

// MapKeyRelease maps a released key. Only raw table keys produce key-up
// events; character keys need none.
func (m *InputMapper) MapKeyRelease(key Key, mods Modifiers) (KeyEvent, bool) {
	if key == m.toggle {
		return KeyEvent{}, false
	}
	if vk, ok := m.raw[key]; ok {
		return KeyEvent{Kind: KeyUp, NativeCode: vk, Modifiers: mods}, true
	}
	return KeyEvent{}, false
}
