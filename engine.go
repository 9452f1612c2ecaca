// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

// EngineConfig configures the shared rendering context. Paths are engine-internal
// directories; their layout is owned by the web engine.
type EngineConfig struct {
	CachePath        string
	ResourcePath     string
	UseGPURenderer   bool
	EnableImages     bool
	EnableJavaScript bool
}

// LogLevel is the severity reported by the web engine's log sink.
type LogLevel int

const (
	LogError LogLevel = iota
	LogWarning
	LogInfo
)

// LogFunc receives log lines emitted by the web engine.
type LogFunc func(level LogLevel, msg string)

// Engine is the opaque web-rendering engine. Configure is called at most once
// per ContextOwner.
type Engine interface {
	Configure(cfg EngineConfig) (Renderer, error)
	SetLogger(fn LogFunc)
}

// Renderer is the live engine instance backing a RenderContext.
type Renderer interface {
	CreateSession(persistent bool, path string) (Session, error)
	CreateView(width, height int, transparent bool, session Session) (View, error)
	Update()
	Render()
}

// Session is a cookie/local storage partition.
type Session interface {
	Close()
}

// View is one off-screen browsing surface of fixed size.
type View interface {
	LoadURL(url string)
	// SetLoadCompleteCallback registers fn for main-frame load completion.
	// fn may be invoked from any goroutine.
	SetLoadCompleteCallback(fn func(url string))
	// EvaluateScript runs js and returns its stringified result. A non-empty
	// exception string means the script threw.
	EvaluateScript(js string) (result string, exception string)
	FirePointerEvent(ev PointerEvent)
	FireScrollEvent(ev ScrollEvent)
	FireKeyEvent(ev KeyEvent)
	Bitmap() (Bitmap, error)
	Close()
}

// MessageSource is implemented by views that can deliver page messages
// (window.go.send) back to Go.
type MessageSource interface {
	PollMessage() (string, bool)
}

// Bitmap is the rendered surface of a View. LockPixels returns the pixel
// bytes, valid until UnlockPixels.
type Bitmap interface {
	Width() int
	Height() int
	BytesPerPixel() int
	RowBytes() int
	LockPixels() ([]byte, error)
	UnlockPixels()
}

// Texture is an engine-visible BGRA8 image the bridge writes every frame.
type Texture interface {
	Size() (width, height int)
	// WriteBGRA replaces the whole texture. pix is tightly packed
	// (stride = width*4).
	WriteBGRA(pix []byte) error
}

// ImageTarget is the image-bearing UI element the bridge draws into.
type ImageTarget interface {
	Resolution() (width, height int)
	NewTexture(width, height int) (Texture, error)
	SetImage(tex Texture)
	SetVisible(visible bool)
}

// TargetFinder locates the drawable target on the host surface. It returns
// nil when none exists.
type TargetFinder interface {
	FindImageTarget() ImageTarget
}

// TargetFinderFunc adapts a function to TargetFinder.
type TargetFinderFunc func() ImageTarget

func (f TargetFinderFunc) FindImageTarget() ImageTarget { return f() }

// Lifecycle is the host process service the bridge depends on.
type Lifecycle interface {
	// ServiceAvailable is level triggered; it may flip to true once and stay true.
	ServiceAvailable() bool
	RequestShutdown()
}
