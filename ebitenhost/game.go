// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package ebitenhost

import (
	"fmt"
	"image/color"
	"time"

	framebridge "github.com/YindSoft/ultralight-framebridge"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Ticker is the per-frame part of a bridge.
type Ticker interface {
	Tick(now time.Time, serviceAvailable bool)
}

// Game is an ebiten.Game that drives one bridge and draws its target.
type Game struct {
	Bridge    Ticker
	Target    *Target
	Input     *Input
	Lifecycle framebridge.Lifecycle

	// Done, when closed, ends the game loop.
	Done <-chan struct{}

	Width, Height int
	Background    color.Color
	ShowFPS       bool
	// OnUpdate runs after the bridge tick.
	OnUpdate func() error
}

// Update forwards input, ticks the bridge and handles window close.
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		if g.Lifecycle != nil {
			g.Lifecycle.RequestShutdown()
		}
		return ebiten.Termination
	}
	if g.Done != nil {
		select {
		case <-g.Done:
			return ebiten.Termination
		default:
		}
	}

	if g.Input != nil {
		g.Input.Poll()
	}
	available := g.Lifecycle != nil && g.Lifecycle.ServiceAvailable()
	g.Bridge.Tick(time.Now(), available)

	if g.OnUpdate != nil {
		return g.OnUpdate()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.Background != nil {
		screen.Fill(g.Background)
	}
	g.Target.Draw(screen)
	if g.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.Width, g.Height
}
