// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Package ultralight binds the Ultralight 1.4 bridge library through purego
// and implements the framebridge engine interfaces on top of it.
//
// Requirements: the bridge shared library (ul_bridge.dll on Windows,
// libul_bridge.so on Linux, libul_bridge.dylib on macOS) and the Ultralight
// SDK libraries must be present next to the executable or in
// [Options.LibraryDir].
//
// All calls into the library must come from the goroutine that runs the
// frame loop; the package locks the main OS thread at init.
package ultralight
