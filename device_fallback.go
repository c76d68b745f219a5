//go:build !windows

package dxup

// getWindowRect has no window system to query outside Windows; callers must
// supply explicit BackBufferWidth/Height in this configuration.
func getWindowRect(hwnd uintptr) (width, height uint32, ok bool) {
	return 0, 0, false
}
