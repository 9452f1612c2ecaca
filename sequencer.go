// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"net/url"
	"strings"
	"sync/atomic"
)

// LoadState is the page-load protocol state of one bridge.
type LoadState int32

const (
	AwaitingPlaceholderLoad LoadState = iota
	PlaceholderLoadedAwaitingService
	StartURLLoading
	Steady
)

func (s LoadState) String() string {
	switch s {
	case AwaitingPlaceholderLoad:
		return "awaiting-placeholder-load"
	case PlaceholderLoadedAwaitingService:
		return "placeholder-loaded-awaiting-service"
	case StartURLLoading:
		return "start-url-loading"
	case Steady:
		return "steady"
	default:
		return "unknown"
	}
}

// Sequencer decides which URL is loaded: a placeholder until the host
// service is available, then the start URL.
//
// OnLoadComplete may run on the engine's loading goroutine while Advance runs
// on the frame goroutine; every transition is a single compare-and-swap.
type Sequencer struct {
	placeholderURL string
	startURL       string
	state          atomic.Int32
}

// NewSequencer returns a sequencer in AwaitingPlaceholderLoad.
func NewSequencer(placeholderURL, startURL string) *Sequencer {
	return &Sequencer{placeholderURL: placeholderURL, startURL: startURL}
}

// State returns the current state.
func (s *Sequencer) State() LoadState {
	return LoadState(s.state.Load())
}

// PlaceholderURL returns the loading page URL.
func (s *Sequencer) PlaceholderURL() string { return s.placeholderURL }

// StartURL returns the main page URL.
func (s *Sequencer) StartURL() string { return s.startURL }

// Begin picks the first URL to load. When the service is already available
// the placeholder is skipped entirely.
func (s *Sequencer) Begin(serviceAvailable bool) string {
	if serviceAvailable {
		s.state.Store(int32(StartURLLoading))
		return s.startURL
	}
	s.state.Store(int32(AwaitingPlaceholderLoad))
	return s.placeholderURL
}

// OnLoadComplete applies a main-frame load completion. It reports whether the
// state changed.
func (s *Sequencer) OnLoadComplete(loaded string) bool {
	switch s.State() {
	case AwaitingPlaceholderLoad:
		if sameURL(loaded, s.placeholderURL) {
			return s.state.CompareAndSwap(int32(AwaitingPlaceholderLoad), int32(PlaceholderLoadedAwaitingService))
		}
	case StartURLLoading:
		if sameURL(loaded, s.startURL) {
			return s.state.CompareAndSwap(int32(StartURLLoading), int32(Steady))
		}
	}
	return false
}

// Advance moves to StartURLLoading once the placeholder is loaded and the
// service is available. It returns true exactly once; the caller must then
// load the start URL.
func (s *Sequencer) Advance(serviceAvailable bool) bool {
	if !serviceAvailable {
		return false
	}
	return s.state.CompareAndSwap(int32(PlaceholderLoadedAwaitingService), int32(StartURLLoading))
}

// sameURL compares URLs ignoring scheme/host case and a trailing slash,
// which engines add when normalizing.
func sameURL(a, b string) bool {
	if a == b {
		return true
	}
	return normalizeURL(a) == normalizeURL(b)
}

func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSuffix(raw, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
