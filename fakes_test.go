// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu         sync.Mutex
	configures []EngineConfig
	loggerSets int
	logFn      LogFunc
	renderer   *fakeRenderer
	err        error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{renderer: &fakeRenderer{}}
}

func (e *fakeEngine) Configure(cfg EngineConfig) (Renderer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.configures = append(e.configures, cfg)
	if e.err != nil {
		return nil, e.err
	}
	return e.renderer, nil
}

func (e *fakeEngine) SetLogger(fn LogFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loggerSets++
	e.logFn = fn
}

type fakeRenderer struct {
	mu         sync.Mutex
	updates    int
	renders    int
	sessions   []*fakeSession
	views      []*fakeView
	disposed   bool
	closeOrder []string
	// onRender runs after each Render, like an engine delivering callbacks.
	onRender func()
}

func (r *fakeRenderer) CreateSession(persistent bool, path string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &fakeSession{r: r, persistent: persistent, path: path}
	r.sessions = append(r.sessions, s)
	return s, nil
}

func (r *fakeRenderer) CreateView(width, height int, transparent bool, session Session) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := newFakeView(width, height)
	v.r = r
	v.session = session.(*fakeSession)
	v.transparent = transparent
	r.views = append(r.views, v)
	return v, nil
}

func (r *fakeRenderer) Update() {
	r.mu.Lock()
	r.updates++
	r.mu.Unlock()
}

func (r *fakeRenderer) Render() {
	r.mu.Lock()
	r.renders++
	fn := r.onRender
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (r *fakeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
	return nil
}

func (r *fakeRenderer) pumps() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates, r.renders
}

func (r *fakeRenderer) recordClose(what string) {
	r.mu.Lock()
	r.closeOrder = append(r.closeOrder, what)
	r.mu.Unlock()
}

func (r *fakeRenderer) closed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.closeOrder...)
}

type fakeSession struct {
	r          *fakeRenderer
	persistent bool
	path       string
	closed     bool
}

func (s *fakeSession) Close() {
	s.closed = true
	s.r.recordClose("session")
}

type fakeView struct {
	r           *fakeRenderer
	mu          sync.Mutex
	width       int
	height      int
	transparent bool
	session     *fakeSession
	loads       []string
	onLoad      func(url string)
	pointers    []PointerEvent
	scrolls     []ScrollEvent
	keys        []KeyEvent
	scripts     []string
	exception   string
	messages    []string
	bitmap      *fakeBitmap
	bitmapErr   error
	closed      bool
}

func newFakeView(width, height int) *fakeView {
	return &fakeView{width: width, height: height, bitmap: newFakeBitmap(width, height, 0)}
}

func (v *fakeView) LoadURL(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loads = append(v.loads, url)
}

func (v *fakeView) SetLoadCompleteCallback(fn func(url string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onLoad = fn
}

// complete simulates the engine finishing a main-frame load.
func (v *fakeView) complete(url string) {
	v.mu.Lock()
	fn := v.onLoad
	v.mu.Unlock()
	fn(url)
}

func (v *fakeView) EvaluateScript(js string) (string, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scripts = append(v.scripts, js)
	if v.exception != "" {
		return "undefined", v.exception
	}
	return "4", ""
}

func (v *fakeView) FirePointerEvent(ev PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pointers = append(v.pointers, ev)
}

func (v *fakeView) FireScrollEvent(ev ScrollEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls = append(v.scrolls, ev)
}

func (v *fakeView) FireKeyEvent(ev KeyEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = append(v.keys, ev)
}

func (v *fakeView) PollMessage() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.messages) == 0 {
		return "", false
	}
	m := v.messages[0]
	v.messages = v.messages[1:]
	return m, true
}

func (v *fakeView) Bitmap() (Bitmap, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bitmapErr != nil {
		return nil, v.bitmapErr
	}
	return v.bitmap, nil
}

func (v *fakeView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.r.recordClose("view")
}

func (v *fakeView) loaded() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.loads...)
}

type fakeBitmap struct {
	mu       sync.Mutex
	width    int
	height   int
	rowBytes int
	pix      []byte
	lockErr  error
	locks    int
	unlocks  int
	locked   bool
}

// newFakeBitmap returns a bitmap filled with fill. Rows are padded by 8
// bytes to exercise strided copies.
func newFakeBitmap(width, height int, fill byte) *fakeBitmap {
	row := width*4 + 8
	pix := bytes.Repeat([]byte{fill}, row*height)
	return &fakeBitmap{width: width, height: height, rowBytes: row, pix: pix}
}

func (b *fakeBitmap) fill(v byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.pix {
		b.pix[i] = v
	}
}

func (b *fakeBitmap) Width() int         { return b.width }
func (b *fakeBitmap) Height() int        { return b.height }
func (b *fakeBitmap) BytesPerPixel() int { return 4 }
func (b *fakeBitmap) RowBytes() int      { return b.rowBytes }

func (b *fakeBitmap) LockPixels() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lockErr != nil {
		return nil, b.lockErr
	}
	b.locks++
	b.locked = true
	return b.pix, nil
}

func (b *fakeBitmap) UnlockPixels() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unlocks++
	b.locked = false
}

func (b *fakeBitmap) counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locks, b.unlocks
}

type fakeTarget struct {
	mu      sync.Mutex
	width   int
	height  int
	tex     *FrameBuffer
	image   Texture
	visible []bool
	texErr  error
}

func newFakeTarget(width, height int) *fakeTarget {
	return &fakeTarget{width: width, height: height}
}

func (t *fakeTarget) FindImageTarget() ImageTarget { return t }

func (t *fakeTarget) Resolution() (int, int) { return t.width, t.height }

func (t *fakeTarget) NewTexture(width, height int) (Texture, error) {
	if t.texErr != nil {
		return nil, t.texErr
	}
	t.tex = NewFrameBuffer(width, height)
	return t.tex, nil
}

func (t *fakeTarget) SetImage(tex Texture) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.image = tex
}

func (t *fakeTarget) SetVisible(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = append(t.visible, v)
}

func (t *fakeTarget) lastVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible[len(t.visible)-1]
}

// testEngineConfig returns a config with usable temporary directories.
func testEngineConfig(t *testing.T) EngineConfig {
	t.Helper()
	dir := t.TempDir()
	res := filepath.Join(dir, "resources")
	require.NoError(t, os.MkdirAll(res, 0o755))
	return EngineConfig{
		CachePath:        filepath.Join(dir, "Cache"),
		ResourcePath:     res,
		EnableImages:     true,
		EnableJavaScript: true,
	}
}

// testLogger returns a debug logger writing JSON lines into buf.
func testLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(&syncWriter{w: buf}).Level(zerolog.TraceLevel)
}

type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type bridgeFixture struct {
	engine *fakeEngine
	owner  *ContextOwner
	target *fakeTarget
	bridge *Bridge
	view   *fakeView
	logs   *bytes.Buffer
}

func startFixture(t *testing.T, opts Options) *bridgeFixture {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := testLogger(logs)
	engine := newFakeEngine()
	owner := NewContextOwner(engine, logger)
	target := newFakeTarget(8, 4)

	if opts.Engine == (EngineConfig{}) {
		opts.Engine = testEngineConfig(t)
	}
	if opts.PlaceholderURL == "" {
		opts.PlaceholderURL = "file:///loading.html"
	}
	if opts.StartURL == "" {
		opts.StartURL = "http://localhost:5000/"
	}

	b, err := Start(logger.WithContext(context.Background()), owner, target, opts)
	require.NoError(t, err)
	t.Cleanup(b.Stop)

	return &bridgeFixture{
		engine: engine,
		owner:  owner,
		target: target,
		bridge: b,
		view:   engine.renderer.views[0],
		logs:   logs,
	}
}

// placeholderLoaded completes the placeholder load.
func (f *bridgeFixture) placeholderLoaded() {
	f.view.complete(f.bridge.seq.PlaceholderURL())
}

var errBoom = errors.New("boom")
