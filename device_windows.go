//go:build windows

package dxup

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32            = windows.NewLazySystemDLL("user32.dll")
	procGetClientRect = user32.NewProc("GetClientRect")
)

type winRect struct {
	left, top, right, bottom int32
}

// getWindowRect queries the client area of hwnd via GetClientRect, mirroring
// the legacy driver's use of the window's current size when the caller
// leaves BackBufferWidth/Height at 0 (windowed auto-sizing).
func getWindowRect(hwnd uintptr) (width, height uint32, ok bool) {
	if hwnd == 0 {
		return 0, 0, false
	}
	var r winRect
	ret, _, _ := procGetClientRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return 0, 0, false
	}
	w := r.right - r.left
	h := r.bottom - r.top
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return uint32(w), uint32(h), true
}
