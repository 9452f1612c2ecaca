// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// ContextOwner holds the single RenderContext allowed per process. Create one
// at startup, pass it to every bridge, and Close it at teardown.
type ContextOwner struct {
	engine Engine
	logger zerolog.Logger

	mu      sync.Mutex
	current *RenderContext
	closed  bool
	logOnce sync.Once
}

// RenderContext is the shared engine instance borrowed by bridges.
type RenderContext struct {
	renderer Renderer
	config   EngineConfig

	mu   sync.Mutex
	refs int
}

// NewContextOwner wraps engine. No engine call is made until GetOrCreate.
func NewContextOwner(engine Engine, logger zerolog.Logger) *ContextOwner {
	return &ContextOwner{
		engine: engine,
		logger: logger.With().Str("component", "render-context").Logger(),
	}
}

// GetOrCreate returns the existing RenderContext, or configures the engine
// with cfg and creates it. cfg is ignored once a context exists.
func (o *ContextOwner) GetOrCreate(cfg EngineConfig) (*RenderContext, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil, ErrOwnerClosed
	}
	if o.current != nil {
		if cfg != o.current.config {
			o.logger.Debug().
				Str("cache_path", cfg.CachePath).
				Str("resource_path", cfg.ResourcePath).
				Msg("render context already exists; ignoring new configuration")
		}
		return o.current, nil
	}

	if err := validateEngineConfig(cfg); err != nil {
		o.logger.Error().Err(err).Msg("render context configuration rejected")
		return nil, err
	}

	o.logOnce.Do(func() {
		o.engine.SetLogger(o.engineLog)
	})

	renderer, err := o.engine.Configure(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure engine: %w", err)
	}
	o.current = &RenderContext{renderer: renderer, config: cfg}
	o.logger.Info().
		Str("cache_path", cfg.CachePath).
		Str("resource_path", cfg.ResourcePath).
		Bool("gpu", cfg.UseGPURenderer).
		Msg("render context created")
	return o.current, nil
}

// Close disposes the render context. It must only be called at process
// teardown, after every bridge has stopped.
func (o *ContextOwner) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	if o.current == nil {
		return nil
	}
	if n := o.current.Refs(); n > 0 {
		o.logger.Warn().Int("refs", n).Msg("closing render context with active bridges")
	}
	var err error
	if c, ok := o.current.renderer.(io.Closer); ok {
		err = c.Close()
	}
	o.current = nil
	return err
}

func (o *ContextOwner) engineLog(level LogLevel, msg string) {
	switch level {
	case LogWarning:
		o.logger.Warn().Msg(msg)
	case LogInfo:
		o.logger.Info().Msg(msg)
	default:
		o.logger.Error().Msg(msg)
	}
}

// Config returns the configuration the context was created with.
func (c *RenderContext) Config() EngineConfig { return c.config }

// Refs returns the number of bridges borrowing the context.
func (c *RenderContext) Refs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs
}

func (c *RenderContext) acquire() {
	c.mu.Lock()
	c.refs++
	c.mu.Unlock()
}

// release drops a borrower. The context stays alive at zero.
func (c *RenderContext) release() {
	c.mu.Lock()
	if c.refs > 0 {
		c.refs--
	}
	c.mu.Unlock()
}

// pump advances the engine and paints every view.
func (c *RenderContext) pump() {
	c.renderer.Update()
	c.renderer.Render()
}

func validateEngineConfig(cfg EngineConfig) error {
	if cfg.CachePath == "" {
		return &ConfigurationError{Field: "cache path", Err: errors.New("empty path")}
	}
	if err := os.MkdirAll(cfg.CachePath, 0o755); err != nil {
		return &ConfigurationError{Field: "cache path", Path: cfg.CachePath, Err: err}
	}
	probe, err := os.CreateTemp(cfg.CachePath, ".probe-*")
	if err != nil {
		return &ConfigurationError{Field: "cache path", Path: cfg.CachePath, Err: fmt.Errorf("not writable: %w", err)}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	if cfg.ResourcePath == "" {
		return &ConfigurationError{Field: "resource path", Err: errors.New("empty path")}
	}
	fi, err := os.Stat(cfg.ResourcePath)
	if err != nil {
		return &ConfigurationError{Field: "resource path", Path: cfg.ResourcePath, Err: err}
	}
	if !fi.IsDir() {
		return &ConfigurationError{Field: "resource path", Path: cfg.ResourcePath, Err: errors.New("not a directory")}
	}
	if _, err := os.ReadDir(cfg.ResourcePath); err != nil {
		return &ConfigurationError{Field: "resource path", Path: cfg.ResourcePath, Err: fmt.Errorf("not readable: %w", err)}
	}
	return nil
}
