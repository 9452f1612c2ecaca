// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package ebitenhost

import (
	framebridge "github.com/YindSoft/ultralight-framebridge"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSink receives host input. *framebridge.Bridge implements it.
type InputSink interface {
	HandlePointer(localX, localY float64, phase framebridge.PointerPhase)
	HandleScroll(dx, dy int)
	HandleKeys(keys []framebridge.Key, mods framebridge.Modifiers)
	HandleKeyReleases(keys []framebridge.Key, mods framebridge.Modifiers)
}

// Input reads Ebiten input once per frame and forwards what concerns the
// target to an InputSink. Mouse and scroll are only forwarded while the
// cursor is over the target; keyboard always is.
type Input struct {
	target *Target
	sink   InputSink

	// ScrollScale converts wheel units into pixels.
	ScrollScale float64

	inside         bool
	mouseX, mouseY int
	leftDown       bool
	keys           []framebridge.Key
	ebitenKeys     []ebiten.Key
}

// NewInput returns an Input for target forwarding to sink.
func NewInput(target *Target, sink InputSink) *Input {
	return &Input{target: target, sink: sink, ScrollScale: 100}
}

// Poll forwards this frame's input. Call it from the game's Update.
func (in *Input) Poll() {
	mx, my := ebiten.CursorPosition()
	in.pointer(mx, my, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if in.inside {
		_, wy := ebiten.Wheel()
		if wy != 0 {
			in.sink.HandleScroll(0, int(wy*in.ScrollScale))
		}
	}

	mods := currentModifiers()
	in.ebitenKeys = inpututil.AppendJustPressedKeys(in.ebitenKeys[:0])
	if len(in.ebitenKeys) > 0 {
		in.keys = translateKeys(in.keys[:0], in.ebitenKeys)
		in.sink.HandleKeys(in.keys, mods)
	}
	in.ebitenKeys = inpututil.AppendJustReleasedKeys(in.ebitenKeys[:0])
	if len(in.ebitenKeys) > 0 {
		in.keys = translateKeys(in.keys[:0], in.ebitenKeys)
		in.sink.HandleKeyReleases(in.keys, mods)
	}
}

// pointer turns the cursor state into enter/move/down/up phases.
func (in *Input) pointer(mx, my int, leftPressed bool) {
	inside := in.target.Contains(mx, my)
	lx, ly := in.target.Local(mx, my)

	if inside && !in.inside {
		in.sink.HandlePointer(lx, ly, framebridge.PhaseEnter)
	}
	in.inside = inside
	if !inside {
		if in.leftDown && !leftPressed {
			in.leftDown = false
			in.sink.HandlePointer(lx, ly, framebridge.PhaseUp)
		}
		return
	}

	if mx != in.mouseX || my != in.mouseY {
		in.mouseX, in.mouseY = mx, my
		in.sink.HandlePointer(lx, ly, framebridge.PhaseMove)
	}

	if leftPressed && !in.leftDown {
		in.leftDown = true
		in.sink.HandlePointer(lx, ly, framebridge.PhaseDown)
	} else if !leftPressed && in.leftDown {
		in.leftDown = false
		in.sink.HandlePointer(lx, ly, framebridge.PhaseUp)
	}
}
