// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package ultralight

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"unsafe"
)

// RegisterFile registers a file in Ultralight's VFS.
// filePath is the virtual path (e.g., "ui/style.css"). data is the content.
// Registered files take priority over disk files.
// Must be called BEFORE creating views that reference them.
func (e *Engine) RegisterFile(filePath string, data []byte) error {
	if err := initBridge(e.opts.LibraryDir); err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	return registerFile(filePath, data)
}

func registerFile(filePath string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	norm := vfsPath(filePath)
	rc := ulVfsRegister(norm, uintptr(unsafe.Pointer(&data[0])), int64(len(data)))
	if rc != 0 {
		return fmt.Errorf("ul_vfs_register failed for %q: code %d", norm, rc)
	}
	return nil
}

// RegisterFS registers every file of fsys so that pages loaded from
// file:/// URLs can reference them with relative paths.
//
//	//go:embed ui
//	var uiFiles embed.FS
//	err := engine.RegisterFS(uiFiles)
//	// placeholder URL: ultralight.FileURL("ui/loading.html")
func (e *Engine) RegisterFS(fsys fs.FS) error {
	if err := initBridge(e.opts.LibraryDir); err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, readErr := fs.ReadFile(fsys, p)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", p, readErr)
		}
		return registerFile(p, data)
	})
	if err != nil {
		return fmt.Errorf("walking FS: %w", err)
	}
	return nil
}

// ClearFiles frees all files registered in the VFS.
func (e *Engine) ClearFiles() {
	if initBridge(e.opts.LibraryDir) == nil {
		ulVfsClear()
	}
}

// FileCount returns the number of files registered in the VFS.
func (e *Engine) FileCount() int {
	if initBridge(e.opts.LibraryDir) != nil {
		return 0
	}
	return int(ulVfsCount())
}

// FileURL returns the file:/// URL under which a VFS file is served.
func FileURL(name string) string {
	return "file:///" + vfsPath(path.Clean(strings.ReplaceAll(name, "\\", "/")))
}

func vfsPath(p string) string {
	norm := strings.ReplaceAll(p, "\\", "/")
	return strings.TrimLeft(norm, "/")
}
