// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package ultralight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	framebridge "github.com/YindSoft/ultralight-framebridge"
)

// Mouse and scroll event types of the bridge library.
const (
	mouseEventTypeMoved = 0
	mouseEventTypeDown  = 1
	mouseEventTypeUp    = 2

	scrollEventTypeByPixel = 0
)

// goHelperScript sets up window.go.send on top of the native __goSend
// function the bridge registers through JavaScriptCore.
const goHelperScript = "if(typeof window.__goSend==='function'){window.go=window.go||{};if(!window.go.send)window.go.send=function(m){window.__goSend(typeof m==='string'?m:JSON.stringify(m));};}"

// Options for the Ultralight engine. All fields are optional.
type Options struct {
	// LibraryDir contains the bridge shared library and the Ultralight SDK
	// libraries. Defaults to the working directory, then the executable's.
	LibraryDir string
	// FileSystemRoot is served for file:/// URLs. Defaults to LibraryDir.
	FileSystemRoot string
	// Debug makes the bridge write bridge.log and ultralight.log.
	Debug bool
}

// Engine implements framebridge.Engine on top of the native bridge library.
type Engine struct {
	opts Options

	mu    sync.Mutex
	logFn framebridge.LogFunc
}

// NewEngine returns an engine. The library is loaded on Configure.
func NewEngine(opts Options) *Engine {
	opts.LibraryDir = resolveLibraryDir(opts.LibraryDir)
	if opts.FileSystemRoot == "" {
		opts.FileSystemRoot = opts.LibraryDir
	}
	return &Engine{opts: opts}
}

func resolveLibraryDir(dir string) string {
	if dir != "" {
		return dir
	}
	dir, _ = os.Getwd()
	if _, err := os.Stat(filepath.Join(dir, bridgeLibName())); err != nil {
		if exe, _ := os.Executable(); exe != "" {
			dir = filepath.Dir(exe)
		}
	}
	return dir
}

// SetLogger installs the sink for engine log lines and page console output.
func (e *Engine) SetLogger(fn framebridge.LogFunc) {
	e.mu.Lock()
	e.logFn = fn
	e.mu.Unlock()
}

func (e *Engine) log(level framebridge.LogLevel, msg string) {
	e.mu.Lock()
	fn := e.logFn
	e.mu.Unlock()
	if fn != nil {
		fn(level, msg)
	}
}

// Configure loads the bridge library and initializes Ultralight once.
func (e *Engine) Configure(cfg framebridge.EngineConfig) (framebridge.Renderer, error) {
	if err := initBridge(e.opts.LibraryDir); err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	if err := ensureULInit(e.opts.LibraryDir, cfg.CachePath, cfg.ResourcePath, e.opts.FileSystemRoot, initFlags(cfg, e.opts.Debug)); err != nil {
		return nil, err
	}
	return &Renderer{engine: e, views: make(map[int32]*View)}, nil
}

func initFlags(cfg framebridge.EngineConfig, debug bool) uint32 {
	var flags uint32
	if cfg.UseGPURenderer {
		flags |= initFlagGPU
	}
	if cfg.EnableImages {
		flags |= initFlagImages
	}
	if cfg.EnableJavaScript {
		flags |= initFlagJavaScript
	}
	if debug {
		flags |= initFlagDebug
	}
	return flags
}

// Renderer is the live Ultralight renderer.
type Renderer struct {
	engine *Engine

	mu     sync.Mutex
	views  map[int32]*View
	closed bool
}

func (r *Renderer) CreateSession(persistent bool, path string) (framebridge.Session, error) {
	p := int32(0)
	if persistent {
		p = 1
	}
	id := ulCreateSession(p, path)
	if id < 0 {
		return nil, fmt.Errorf("ul_create_session failed with code %d", id)
	}
	return &Session{id: id}, nil
}

func (r *Renderer) CreateView(width, height int, transparent bool, session framebridge.Session) (framebridge.View, error) {
	s, ok := session.(*Session)
	if !ok || s == nil {
		return nil, errors.New("session was not created by this renderer")
	}
	t := int32(0)
	if transparent {
		t = 1
	}
	id := ulCreateView(int32(width), int32(height), t, s.id)
	if id < 0 {
		return nil, fmt.Errorf("ul_create_view_ex failed with code %d", id)
	}
	v := &View{id: id, renderer: r}
	r.mu.Lock()
	r.views[id] = v
	r.mu.Unlock()
	return v, nil
}

func (r *Renderer) Update() {
	ulUpdate()
}

// Render paints every view, then delivers load completions and log lines
// queued by the bridge library.
func (r *Renderer) Render() {
	ulRender()

	r.mu.Lock()
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.mu.Unlock()

	for _, v := range views {
		for {
			url, ok := pollLoadEvent(v.id)
			if !ok {
				break
			}
			ulViewEvalJS(v.id, goHelperScript)
			v.loadComplete(url)
		}
		for {
			msg, ok := pollConsoleMessage(v.id)
			if !ok {
				break
			}
			r.engine.log(framebridge.LogInfo, "[console] "+msg)
		}
	}
	for {
		level, msg, ok := pollLog()
		if !ok {
			break
		}
		r.engine.log(logLevel(level), msg)
	}
}

// logLevel maps ULLogLevel (0 error, 1 warning, 2 info).
func logLevel(level int32) framebridge.LogLevel {
	switch level {
	case 1:
		return framebridge.LogWarning
	case 2:
		return framebridge.LogInfo
	default:
		return framebridge.LogError
	}
}

// Close destroys the renderer. Call only at process teardown.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	ulDestroy()
	return nil
}

func (r *Renderer) forget(id int32) {
	r.mu.Lock()
	delete(r.views, id)
	r.mu.Unlock()
}

// Session is an Ultralight session.
type Session struct {
	id     int32
	closed bool
}

func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	ulDestroySession(s.id)
}

// View is an Ultralight view.
type View struct {
	id       int32
	renderer *Renderer

	mu     sync.Mutex
	onLoad func(url string)
	closed bool
}

func (v *View) LoadURL(url string) {
	ulViewLoadURL(v.id, url)
}

func (v *View) SetLoadCompleteCallback(fn func(url string)) {
	v.mu.Lock()
	v.onLoad = fn
	v.mu.Unlock()
}

func (v *View) loadComplete(url string) {
	v.mu.Lock()
	fn := v.onLoad
	v.mu.Unlock()
	if fn != nil {
		fn(url)
	}
}

func (v *View) EvaluateScript(js string) (string, string) {
	return evalJSResult(v.id, js)
}

func (v *View) FirePointerEvent(ev framebridge.PointerEvent) {
	var t int32
	switch ev.Kind {
	case framebridge.PointerDown:
		t = mouseEventTypeDown
	case framebridge.PointerUp:
		t = mouseEventTypeUp
	default:
		t = mouseEventTypeMoved
	}
	ulViewFireMouse(v.id, t, int32(ev.X), int32(ev.Y), int32(ev.Button))
}

func (v *View) FireScrollEvent(ev framebridge.ScrollEvent) {
	ulViewFireScroll(v.id, scrollEventTypeByPixel, int32(ev.DX), int32(ev.DY))
}

func (v *View) FireKeyEvent(ev framebridge.KeyEvent) {
	ulViewFireKey(v.id, int32(ev.Kind), ev.NativeCode, uint32(ev.Modifiers), ev.Text)
}

// PollMessage returns the next message sent by the page via go.send.
func (v *View) PollMessage() (string, bool) {
	return pollMessage(v.id)
}

func (v *View) Bitmap() (framebridge.Bitmap, error) {
	v.mu.Lock()
	closed := v.closed
	v.mu.Unlock()
	if closed {
		return nil, errors.New("view closed")
	}
	return &bitmap{viewID: v.id}, nil
}

func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.onLoad = nil
	v.mu.Unlock()

	v.renderer.forget(v.id)
	ulDestroyView(v.id)
}

// bitmap reads the view surface. BGRA8, premultiplied alpha.
type bitmap struct {
	viewID int32
}

func (b *bitmap) Width() int         { return int(ulViewGetWidth(b.viewID)) }
func (b *bitmap) Height() int        { return int(ulViewGetHeight(b.viewID)) }
func (b *bitmap) BytesPerPixel() int { return 4 }
func (b *bitmap) RowBytes() int      { return int(ulViewGetRowBytes(b.viewID)) }

func (b *bitmap) LockPixels() ([]byte, error) {
	ptr := ulViewGetPixels(b.viewID)
	if ptr == 0 {
		return nil, errors.New("ul_view_get_pixels returned null")
	}
	total := uintptr(ulViewGetRowBytes(b.viewID)) * uintptr(ulViewGetHeight(b.viewID))
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), total), nil
}

func (b *bitmap) UnlockPixels() {
	ulViewUnlockPixels(b.viewID)
}
