// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Package framebridge presents an off-screen web view as a texture on a game
// engine UI element and relays pointer and keyboard input back to the page.
//
// The package is engine-agnostic. The web engine is reached through [Engine]
// (see package ultralight for the Ultralight binding) and the game engine
// through [ImageTarget] (see package ebitenhost for Ebitengine).
//
// Basic usage:
//
//	owner := framebridge.NewContextOwner(ultralight.NewEngine(ultralight.Options{LibraryDir: libDir}), logger)
//	defer owner.Close()
//
//	b, err := framebridge.Start(ctx, owner, target, framebridge.Options{
//	    Engine:         engineCfg,
//	    PlaceholderURL: "file:///loading.html",
//	    StartURL:       "http://localhost:5000/",
//	})
//	if err != nil { ... }
//	defer b.Stop()
//
//	// Every frame, on the update goroutine:
//	b.Tick(time.Now(), service.ServiceAvailable())
//
// Only one render context exists per [ContextOwner]. The first bridge
// configures it; later configurations are ignored.
//
// The placeholder page is shown until it has loaded and the host service is
// available, then the start URL is loaded. If the service is already
// available at Start, the placeholder is skipped.
//
// Input handlers ([Bridge.HandlePointer], [Bridge.HandleKeys], ...) may be
// called from any goroutine; events are queued and flushed on the next Tick.
// The toggle key (F10 by default) flips visibility and is never forwarded.
// Hidden bridges keep rendering so the page is current when shown again.
package framebridge
