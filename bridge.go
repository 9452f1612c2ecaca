// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options for starting a bridge. Engine is only used by the first bridge that
// creates the shared render context.
type Options struct {
	Engine EngineConfig

	PlaceholderURL string
	StartURL       string
	// ServiceAvailable is the readiness condition at Start. When true the
	// placeholder is skipped.
	ServiceAvailable bool

	SessionPersistent bool
	SessionPath       string

	// Hidden starts the bridge with the target hidden.
	Hidden           bool
	ToggleKey        Key
	ForwardArrowKeys bool

	// StartupScript, if set, is evaluated once on the first composited frame.
	StartupScript string
}

// FrameStats counts per-frame work.
type FrameStats struct {
	Ticks        uint64
	Frames       uint64
	CopyFailures uint64
	LastFrame    time.Time
}

// Bridge drives one view: it pumps the shared render context every frame,
// copies the rendered bitmap into the target's texture and relays queued input.
type Bridge struct {
	logger zerolog.Logger

	rc      *RenderContext
	session Session
	view    View
	target  ImageTarget
	texture Texture
	width   int
	height  int
	staging []byte

	seq    *Sequencer
	mapper *InputMapper
	inputs *InputQueues

	visible atomic.Bool
	stopped atomic.Bool
	tickMu  sync.Mutex

	startupScript string
	scriptDone    bool

	copyErrLimit *rate.Limiter
	suppressed   int
	stats        FrameStats

	// OnMessage is called for each message the page sends via go.send(msg).
	// It runs on the ticking goroutine after the frame is done.
	OnMessage func(msg string)
}

// Start finds the target, allocates its texture and creates a session and view
// on the shared render context, then issues the first load. The logger is
// taken from ctx.
func Start(ctx context.Context, owner *ContextOwner, finder TargetFinder, opts Options) (*Bridge, error) {
	log := zerolog.Ctx(ctx).With().Str("component", "frame-bridge").Logger()

	var target ImageTarget
	if finder != nil {
		target = finder.FindImageTarget()
	}
	if target == nil {
		err := &MissingTargetError{}
		log.Error().Err(err).Msg("bridge not started")
		return nil, err
	}
	width, height := target.Resolution()
	if width <= 0 || height <= 0 {
		err := &MissingTargetError{Reason: fmt.Sprintf("target resolution %dx%d", width, height)}
		log.Error().Err(err).Msg("bridge not started")
		return nil, err
	}

	texture, err := target.NewTexture(width, height)
	if err != nil {
		return nil, fmt.Errorf("allocate texture: %w", err)
	}

	rc, err := owner.GetOrCreate(opts.Engine)
	if err != nil {
		log.Error().Err(err).Msg("render context unavailable")
		return nil, err
	}

	session, err := rc.renderer.CreateSession(opts.SessionPersistent, opts.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	view, err := rc.renderer.CreateView(width, height, true, session)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("create view: %w", err)
	}
	rc.acquire()

	b := &Bridge{
		logger:        log,
		rc:            rc,
		session:       session,
		view:          view,
		target:        target,
		texture:       texture,
		width:         width,
		height:        height,
		staging:       make([]byte, width*height*4),
		seq:           NewSequencer(opts.PlaceholderURL, opts.StartURL),
		mapper:        NewInputMapper(MapperOptions{ToggleKey: opts.ToggleKey, ForwardArrowKeys: opts.ForwardArrowKeys}),
		inputs:        &InputQueues{},
		startupScript: opts.StartupScript,
		copyErrLimit:  rate.NewLimiter(rate.Every(time.Second), 1),
	}
	b.visible.Store(!opts.Hidden)

	target.SetImage(texture)
	target.SetVisible(b.visible.Load())
	view.SetLoadCompleteCallback(b.onLoadComplete)

	url := b.seq.Begin(opts.ServiceAvailable)
	if opts.ServiceAvailable {
		log.Info().Str("url", url).Msg("service already available, skipping placeholder")
	} else {
		log.Info().Str("url", url).Msg("service not available yet, loading placeholder")
	}
	view.LoadURL(url)

	log.Debug().Int("width", width).Int("height", height).Msg("bridge started")
	return b, nil
}

func (b *Bridge) onLoadComplete(url string) {
	if b.seq.OnLoadComplete(url) {
		b.logger.Info().Str("url", url).Str("state", b.seq.State().String()).Msg("finished loading")
		return
	}
	b.logger.Debug().Str("url", url).Msg("load completed without state change")
}

// State returns the page-load state.
func (b *Bridge) State() LoadState { return b.seq.State() }

// Inputs returns the queues producers push into.
func (b *Bridge) Inputs() *InputQueues { return b.inputs }

// Size returns the view size in pixels.
func (b *Bridge) Size() (int, int) { return b.width, b.height }

// Visible reports the current visibility flag.
func (b *Bridge) Visible() bool { return b.visible.Load() }

// ToggleVisible flips the visibility flag. The target is updated on the next
// Tick; rendering continues while hidden.
func (b *Bridge) ToggleVisible() {
	for {
		v := b.visible.Load()
		if b.visible.CompareAndSwap(v, !v) {
			return
		}
	}
}

// Stats returns a snapshot of the frame counters.
func (b *Bridge) Stats() FrameStats {
	b.tickMu.Lock()
	defer b.tickMu.Unlock()
	return b.stats
}

// Tick runs one frame. It never fails; per-frame errors are logged and the
// frame's effect is skipped.
func (b *Bridge) Tick(now time.Time, serviceAvailable bool) {
	if b == nil || b.stopped.Load() {
		return
	}
	msgs := b.tick(now, serviceAvailable)
	if b.OnMessage != nil {
		for _, m := range msgs {
			b.OnMessage(m)
		}
	}
}

func (b *Bridge) tick(now time.Time, serviceAvailable bool) []string {
	b.tickMu.Lock()
	defer b.tickMu.Unlock()

	if b.stopped.Load() || b.rc == nil {
		return nil
	}
	b.stats.Ticks++

	// Nothing is composited until the placeholder has loaded.
	if b.seq.State() == AwaitingPlaceholderLoad {
		b.rc.pump()
		return nil
	}

	if b.seq.Advance(serviceAvailable) {
		b.logger.Info().Str("url", b.seq.StartURL()).Msg("service available, loading start url")
		b.view.LoadURL(b.seq.StartURL())
	}

	if !b.scriptDone {
		b.scriptDone = true
		b.runStartupScript()
	}

	b.flushInputs(b.inputs)
	msgs := b.pollMessages()

	b.rc.pump()

	if err := b.copyFrame(); err != nil {
		b.reportCopyError(now, err)
	} else {
		b.stats.Frames++
		b.stats.LastFrame = now
	}

	b.target.SetVisible(b.visible.Load())
	return msgs
}

func (b *Bridge) flushInputs(q *InputQueues) {
	p, s, k := q.flush(b.view)
	if p+s+k > 0 {
		b.logger.Trace().Int("pointer", p).Int("scroll", s).Int("key", k).Msg("input flushed")
	}
}

func (b *Bridge) pollMessages() []string {
	src, ok := b.view.(MessageSource)
	if !ok {
		return nil
	}
	var msgs []string
	for {
		msg, ok := src.PollMessage()
		if !ok {
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func (b *Bridge) runStartupScript() {
	if b.startupScript == "" {
		return
	}
	result, err := b.eval(b.startupScript)
	if err != nil {
		return
	}
	b.logger.Info().Str("result", result).Msg("startup script returned")
}

// copyFrame copies the view bitmap into the staging buffer under the pixel
// lock and writes the staging buffer to the texture after unlocking. On
// failure the texture keeps the previous frame.
func (b *Bridge) copyFrame() error {
	bmp, err := b.view.Bitmap()
	if err != nil {
		return &FrameCopyError{Err: fmt.Errorf("get bitmap: %w", err)}
	}
	if bmp == nil {
		return &FrameCopyError{Err: errors.New("view has no bitmap")}
	}
	if err := b.lockAndCopy(bmp); err != nil {
		return err
	}
	if err := b.texture.WriteBGRA(b.staging); err != nil {
		return &FrameCopyError{Err: fmt.Errorf("write texture: %w", err)}
	}
	return nil
}

func (b *Bridge) lockAndCopy(bmp Bitmap) (err error) {
	w, h := bmp.Width(), bmp.Height()
	if w != b.width || h != b.height {
		return &FrameCopyError{Err: fmt.Errorf("bitmap is %dx%d, texture is %dx%d", w, h, b.width, b.height)}
	}
	if bpp := bmp.BytesPerPixel(); bpp != 4 {
		return &FrameCopyError{Err: fmt.Errorf("unsupported %d bytes per pixel", bpp)}
	}
	rowBytes := bmp.RowBytes()
	rowLen := w * 4

	pix, err := bmp.LockPixels()
	if err != nil {
		return &FrameCopyError{Err: fmt.Errorf("lock pixels: %w", err)}
	}
	defer bmp.UnlockPixels()
	defer func() {
		if r := recover(); r != nil {
			err = &FrameCopyError{Err: fmt.Errorf("panic during copy: %v", r)}
		}
	}()

	if rowBytes < rowLen || len(pix) < rowBytes*(h-1)+rowLen {
		return &FrameCopyError{Err: fmt.Errorf("pixel buffer too short: %d bytes, row stride %d", len(pix), rowBytes)}
	}
	if rowBytes == rowLen {
		copy(b.staging, pix[:rowLen*h])
		return nil
	}
	for y := 0; y < h; y++ {
		copy(b.staging[y*rowLen:(y+1)*rowLen], pix[y*rowBytes:y*rowBytes+rowLen])
	}
	return nil
}

func (b *Bridge) reportCopyError(now time.Time, err error) {
	b.stats.CopyFailures++
	if !b.copyErrLimit.AllowN(now, 1) {
		b.suppressed++
		return
	}
	b.logger.Error().Err(err).Int("suppressed", b.suppressed).Msg("frame skipped")
	b.suppressed = 0
}

// HandlePointer queues a pointer event at a position in the target's local
// [0,1] space. Safe to call from any goroutine.
func (b *Bridge) HandlePointer(localX, localY float64, phase PointerPhase) {
	switch phase {
	case PhaseDown:
		b.inputs.Pointer.Push(MapPointer(localX, localY, b.width, b.height, PointerDown))
	case PhaseUp:
		b.inputs.Pointer.Push(MapPointer(localX, localY, b.width, b.height, PointerUp))
	case PhaseMove:
		ev := MapPointer(localX, localY, b.width, b.height, PointerMoved)
		ev.Button = ButtonNone
		b.inputs.Pointer.Push(ev)
	case PhaseEnter:
		b.logger.Debug().Float64("x", localX).Float64("y", localY).Msg("pointer entered target")
	}
}

// HandleScroll queues a scroll delta in pixels.
func (b *Bridge) HandleScroll(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	b.inputs.Scroll.Push(ScrollEvent{DX: dx, DY: dy})
}

// HandleKeys processes the keys pressed this frame. The toggle key flips
// visibility and is not forwarded; unmapped keys are dropped.
func (b *Bridge) HandleKeys(keys []Key, mods Modifiers) {
	toggled := false
	for _, k := range keys {
		if k == b.mapper.ToggleKey() {
			if !toggled {
				toggled = true
				b.ToggleVisible()
			}
			continue
		}
		ev, ok := b.mapper.MapKey(k, mods)
		if !ok {
			b.logger.Debug().Stringer("key", k).Msg("unmapped key dropped")
			continue
		}
		b.inputs.Key.Push(ev)
	}
}

// HandleKeyReleases processes the keys released this frame.
func (b *Bridge) HandleKeyReleases(keys []Key, mods Modifiers) {
	for _, k := range keys {
		if ev, ok := b.mapper.MapKeyRelease(k, mods); ok {
			b.inputs.Key.Push(ev)
		}
	}
}

// Eval runs JavaScript in the page and returns its result. A thrown exception
// is returned as *ScriptEvaluationError. Do not call from inside a Tick.
func (b *Bridge) Eval(js string) (string, error) {
	b.tickMu.Lock()
	defer b.tickMu.Unlock()
	if b.stopped.Load() {
		return "", ErrStopped
	}
	return b.eval(js)
}

func (b *Bridge) eval(js string) (string, error) {
	result, exception := b.view.EvaluateScript(js)
	if exception != "" {
		err := &ScriptEvaluationError{Script: js, Exception: exception}
		b.logger.Error().Err(err).Msg("javascript returned exception")
		return result, err
	}
	return result, nil
}

// Send serializes data to JSON and passes it to window.go.receive in the page.
func (b *Bridge) Send(data any) error {
	script, err := receiveScript(data)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	_, err = b.Eval(script)
	return err
}

// Stop disposes the view and then the session, and releases the render
// context. It waits for an in-flight Tick. Safe to call more than once.
func (b *Bridge) Stop() {
	if !b.stopped.CompareAndSwap(false, true) {
		return
	}
	b.tickMu.Lock()
	defer b.tickMu.Unlock()

	if b.view != nil {
		b.view.Close()
		b.view = nil
	}
	if b.session != nil {
		b.session.Close()
		b.session = nil
	}
	if b.rc != nil {
		b.rc.release()
		b.rc = nil
	}
	b.logger.Debug().Msg("bridge stopped")
}
