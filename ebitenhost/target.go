// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package ebitenhost

import (
	"fmt"
	"sync"

	framebridge "github.com/YindSoft/ultralight-framebridge"
	"github.com/hajimehoshi/ebiten/v2"
)

// Target is a screen rectangle that shows a bridge texture. It implements
// framebridge.ImageTarget and framebridge.TargetFinder.
type Target struct {
	X, Y          int
	width, height int

	// Alpha scales the texture opacity when drawn. Zero means opaque.
	Alpha float32

	mu      sync.Mutex
	tex     *Texture
	visible bool
}

// NewTarget returns a target of the given resolution drawn at (x, y).
func NewTarget(x, y, width, height int) *Target {
	return &Target{X: x, Y: y, width: width, height: height, visible: true}
}

// FindImageTarget returns t, or nil for a nil target.
func (t *Target) FindImageTarget() framebridge.ImageTarget {
	if t == nil {
		return nil
	}
	return t
}

func (t *Target) Resolution() (int, int) { return t.width, t.height }

func (t *Target) NewTexture(width, height int) (framebridge.Texture, error) {
	return NewTexture(width, height), nil
}

func (t *Target) SetImage(tex framebridge.Texture) {
	et, ok := tex.(*Texture)
	if !ok {
		return
	}
	t.mu.Lock()
	t.tex = et
	t.mu.Unlock()
}

func (t *Target) SetVisible(visible bool) {
	t.mu.Lock()
	t.visible = visible
	t.mu.Unlock()
}

// Visible reports whether the target is drawn.
func (t *Target) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Contains reports whether the screen position lies inside the target.
func (t *Target) Contains(x, y int) bool {
	return x >= t.X && x < t.X+t.width && y >= t.Y && y < t.Y+t.height
}

// Local converts a screen position into the target's [0,1] space.
func (t *Target) Local(x, y int) (float64, float64) {
	if t.width <= 0 || t.height <= 0 {
		return 0, 0
	}
	return float64(x-t.X) / float64(t.width), float64(y-t.Y) / float64(t.height)
}

// Draw renders the texture onto screen if the target is visible.
func (t *Target) Draw(screen *ebiten.Image) {
	t.mu.Lock()
	tex, visible := t.tex, t.visible
	t.mu.Unlock()
	if !visible || tex == nil {
		return
	}
	opts := &ebiten.DrawImageOptions{}
	if t.Alpha > 0 && t.Alpha < 1 {
		opts.ColorScale.Scale(1, 1, 1, t.Alpha)
	}
	opts.GeoM.Translate(float64(t.X), float64(t.Y))
	screen.DrawImage(tex.Image(), opts)
}

// Texture is an Ebiten image fed with BGRA frames.
type Texture struct {
	img    *ebiten.Image
	rgba   []byte
	width  int
	height int
}

// NewTexture allocates an Ebiten image of the given size.
func NewTexture(width, height int) *Texture {
	return &Texture{
		img:    ebiten.NewImage(width, height),
		rgba:   make([]byte, width*height*4),
		width:  width,
		height: height,
	}
}

func (t *Texture) Size() (int, int) { return t.width, t.height }

// WriteBGRA converts pix to RGBA and uploads it.
func (t *Texture) WriteBGRA(pix []byte) error {
	if len(pix) != len(t.rgba) {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), len(t.rgba))
	}
	bgraToRGBA(t.rgba, pix)
	t.img.WritePixels(t.rgba)
	return nil
}

// Image returns the underlying Ebiten image.
func (t *Texture) Image() *ebiten.Image { return t.img }

func bgraToRGBA(dst, src []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}
