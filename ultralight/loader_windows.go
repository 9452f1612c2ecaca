// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

//go:build windows

package ultralight

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

func doInitBridge(baseDir string) error {
	dllPath := filepath.Join(baseDir, bridgeLibName())
	absPath, err := filepath.Abs(dllPath)
	if err != nil {
		absPath = dllPath
	}
	// Resolve the SDK DLLs next to the bridge, not from the working directory.
	lib, err := windows.LoadLibraryEx(absPath, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return fmt.Errorf("failed to load %s from %s: %w", bridgeLibName(), absPath, err)
	}
	return resolveAllSymbols(uintptr(lib))
}

func getSymbolAddr(handle uintptr, name string) (uintptr, error) {
	sym, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, err
	}
	if sym == 0 {
		return 0, fmt.Errorf("symbol %q not found in DLL", name)
	}
	return sym, nil
}

func bridgeLibName() string {
	return "ul_bridge.dll"
}
