// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package ebitenhost

import (
	framebridge "github.com/YindSoft/ultralight-framebridge"
	"github.com/hajimehoshi/ebiten/v2"
)

var keyTable = map[ebiten.Key]framebridge.Key{
	ebiten.KeyBackspace:   framebridge.KeyBackspace,
	ebiten.KeyTab:         framebridge.KeyTab,
	ebiten.KeyEnter:       framebridge.KeyEnter,
	ebiten.KeyNumpadEnter: framebridge.KeyEnter,
	ebiten.KeyEscape:      framebridge.KeyEscape,
	ebiten.KeySpace:       framebridge.KeySpace,
	ebiten.KeyInsert:      framebridge.KeyInsert,
	ebiten.KeyDelete:      framebridge.KeyDelete,

	ebiten.KeyHome:       framebridge.KeyHome,
	ebiten.KeyEnd:        framebridge.KeyEnd,
	ebiten.KeyPageUp:     framebridge.KeyPageUp,
	ebiten.KeyPageDown:   framebridge.KeyPageDown,
	ebiten.KeyArrowLeft:  framebridge.KeyArrowLeft,
	ebiten.KeyArrowUp:    framebridge.KeyArrowUp,
	ebiten.KeyArrowRight: framebridge.KeyArrowRight,
	ebiten.KeyArrowDown:  framebridge.KeyArrowDown,

	ebiten.KeyShiftLeft:    framebridge.KeyShift,
	ebiten.KeyShiftRight:   framebridge.KeyShift,
	ebiten.KeyControlLeft:  framebridge.KeyControl,
	ebiten.KeyControlRight: framebridge.KeyControl,
	ebiten.KeyAltLeft:      framebridge.KeyAlt,
	ebiten.KeyAltRight:     framebridge.KeyAlt,
	ebiten.KeyMetaLeft:     framebridge.KeyMeta,
	ebiten.KeyMetaRight:    framebridge.KeyMeta,
	ebiten.KeyCapsLock:     framebridge.KeyCapsLock,

	ebiten.KeyF1:  framebridge.KeyF1,
	ebiten.KeyF2:  framebridge.KeyF2,
	ebiten.KeyF3:  framebridge.KeyF3,
	ebiten.KeyF4:  framebridge.KeyF4,
	ebiten.KeyF5:  framebridge.KeyF5,
	ebiten.KeyF6:  framebridge.KeyF6,
	ebiten.KeyF7:  framebridge.KeyF7,
	ebiten.KeyF8:  framebridge.KeyF8,
	ebiten.KeyF9:  framebridge.KeyF9,
	ebiten.KeyF10: framebridge.KeyF10,
	ebiten.KeyF11: framebridge.KeyF11,
	ebiten.KeyF12: framebridge.KeyF12,
}

// translateKey maps an Ebiten key to a framebridge key.
func translateKey(key ebiten.Key) framebridge.Key {
	switch {
	case key >= ebiten.KeyA && key <= ebiten.KeyZ:
		return framebridge.KeyA + framebridge.Key(key-ebiten.KeyA)
	case key >= ebiten.KeyDigit0 && key <= ebiten.KeyDigit9:
		return framebridge.KeyDigit0 + framebridge.Key(key-ebiten.KeyDigit0)
	case key >= ebiten.KeyNumpad0 && key <= ebiten.KeyNumpad9:
		return framebridge.KeyDigit0 + framebridge.Key(key-ebiten.KeyNumpad0)
	}
	if k, ok := keyTable[key]; ok {
		return k
	}
	return framebridge.KeyUnknown
}

func translateKeys(dst []framebridge.Key, keys []ebiten.Key) []framebridge.Key {
	for _, k := range keys {
		dst = append(dst, translateKey(k))
	}
	return dst
}

func currentModifiers() framebridge.Modifiers {
	var mods framebridge.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= framebridge.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= framebridge.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= framebridge.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= framebridge.ModMeta
	}
	return mods
}
