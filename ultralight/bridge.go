// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package ultralight

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

func init() {
	// Ultralight requires all API calls to be made from the same OS thread.
	runtime.LockOSThread()
}

// Init flags for ul_init_ex.
const (
	initFlagGPU        = 1
	initFlagImages     = 2
	initFlagJavaScript = 4
	initFlagDebug      = 8
)

const msgBufSize = 2048

var (
	ulInitEx                func(baseDir, cachePath, resourcePath, fsRoot string, flags uint32) int32
	ulCreateSession         func(persistent int32, name string) int32
	ulDestroySession        func(sessionID int32)
	ulCreateView            func(width, height, transparent, sessionID int32) int32
	ulDestroyView           func(viewID int32)
	ulViewLoadURL           func(viewID int32, url string)
	ulUpdate                func()
	ulRender                func()
	ulViewGetPixels         func(viewID int32) uintptr
	ulViewUnlockPixels      func(viewID int32)
	ulViewGetWidth          func(viewID int32) uint32
	ulViewGetHeight         func(viewID int32) uint32
	ulViewGetRowBytes       func(viewID int32) uint32
	ulViewFireMouse         func(viewID int32, eventType, x, y, button int32)
	ulViewFireScroll        func(viewID int32, eventType, dx, dy int32)
	ulViewFireKey           func(viewID int32, keyType int32, vk int32, mods uint32, text string)
	ulViewEvalJS            func(viewID int32, js string)
	ulViewEvalJSResult      func(viewID int32, js string, out uintptr, outSize int32, exc uintptr, excSize int32) int32
	ulViewGetMessage        func(viewID int32, buf uintptr, bufSize int32) int32
	ulViewGetConsoleMessage func(viewID int32, buf uintptr, bufSize int32) int32
	ulViewPollLoad          func(viewID int32, buf uintptr, bufSize int32) int32
	ulPollLog               func(buf uintptr, bufSize int32, level uintptr) int32
	ulVfsRegister           func(path string, data uintptr, size int64) int32
	ulVfsClear              func()
	ulVfsCount              func() int32
	ulDestroy               func()
)

var (
	bridgeOnce sync.Once
	initErr    error
	ulInitOnce sync.Once
	ulInitErr  error
)

func initBridge(baseDir string) error {
	bridgeOnce.Do(func() {
		initErr = doInitBridge(baseDir)
	})
	return initErr
}

// ensureULInit calls ul_init_ex once. Must be called after initBridge.
func ensureULInit(baseDir, cachePath, resourcePath, fsRoot string, flags uint32) error {
	ulInitOnce.Do(func() {
		if rc := ulInitEx(baseDir, cachePath, resourcePath, fsRoot, flags); rc != 0 {
			ulInitErr = fmt.Errorf("ul_init_ex failed with code %d", rc)
		}
	})
	return ulInitErr
}

func resolveAllSymbols(h uintptr) error {
	for _, reg := range []struct {
		fptr any
		name string
	}{
		{&ulInitEx, "ul_init_ex"},
		{&ulCreateSession, "ul_create_session"},
		{&ulDestroySession, "ul_destroy_session"},
		{&ulCreateView, "ul_create_view_ex"},
		{&ulDestroyView, "ul_destroy_view"},
		{&ulViewLoadURL, "ul_view_load_url"},
		{&ulUpdate, "ul_update"},
		{&ulRender, "ul_render"},
		{&ulViewGetPixels, "ul_view_get_pixels"},
		{&ulViewUnlockPixels, "ul_view_unlock_pixels"},
		{&ulViewGetWidth, "ul_view_get_width"},
		{&ulViewGetHeight, "ul_view_get_height"},
		{&ulViewGetRowBytes, "ul_view_get_row_bytes"},
		{&ulViewFireMouse, "ul_view_fire_mouse"},
		{&ulViewFireScroll, "ul_view_fire_scroll"},
		{&ulViewFireKey, "ul_view_fire_key"},
		{&ulViewEvalJS, "ul_view_eval_js"},
		{&ulViewEvalJSResult, "ul_view_eval_js_result"},
		{&ulViewGetMessage, "ul_view_get_message"},
		{&ulViewGetConsoleMessage, "ul_view_get_console_message"},
		{&ulViewPollLoad, "ul_view_poll_load"},
		{&ulPollLog, "ul_poll_log"},
		{&ulVfsRegister, "ul_vfs_register"},
		{&ulVfsClear, "ul_vfs_clear"},
		{&ulVfsCount, "ul_vfs_count"},
		{&ulDestroy, "ul_destroy"},
	} {
		if err := registerSymbol(reg.fptr, h, reg.name); err != nil {
			return fmt.Errorf("%s: %w (recompile the bridge library)", reg.name, err)
		}
	}
	return nil
}

func registerSymbol(fptr any, handle uintptr, name string) error {
	sym, err := getSymbolAddr(handle, name)
	if err != nil {
		return err
	}
	purego.RegisterFunc(fptr, sym)
	return nil
}

// pollString reads one queued string via a native poll function. n <= 0
// means the queue is empty.
func pollString(poll func(buf uintptr, size int32) int32) (string, bool) {
	var buf [msgBufSize]byte
	n := poll(uintptr(unsafe.Pointer(&buf[0])), msgBufSize)
	if n <= 0 {
		return "", false
	}
	if int(n) > len(buf) {
		n = int32(len(buf))
	}
	return string(buf[:n]), true
}

func pollMessage(viewID int32) (string, bool) {
	return pollString(func(buf uintptr, size int32) int32 {
		return ulViewGetMessage(viewID, buf, size)
	})
}

func pollConsoleMessage(viewID int32) (string, bool) {
	return pollString(func(buf uintptr, size int32) int32 {
		return ulViewGetConsoleMessage(viewID, buf, size)
	})
}

func pollLoadEvent(viewID int32) (string, bool) {
	return pollString(func(buf uintptr, size int32) int32 {
		return ulViewPollLoad(viewID, buf, size)
	})
}

func pollLog() (int32, string, bool) {
	var level int32
	msg, ok := pollString(func(buf uintptr, size int32) int32 {
		return ulPollLog(buf, size, uintptr(unsafe.Pointer(&level)))
	})
	return level, msg, ok
}

func evalJSResult(viewID int32, js string) (string, string) {
	var out, exc [msgBufSize]byte
	n := ulViewEvalJSResult(viewID, js,
		uintptr(unsafe.Pointer(&out[0])), msgBufSize,
		uintptr(unsafe.Pointer(&exc[0])), msgBufSize)
	result := ""
	if n > 0 {
		if int(n) > len(out) {
			n = int32(len(out))
		}
		result = string(out[:n])
	}
	return result, cString(exc[:])
}

// cString returns the bytes of b up to the first NUL.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
