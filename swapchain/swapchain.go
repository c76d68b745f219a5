// Package swapchain states the presentation collaborator the device
// runtime drives for CreateAdditionalSwapChain, Reset, Present and
// PresentEx. The concrete implementation lives in swapchain/wgpuswap,
// wrapping a ModernGfx surface.
package swapchain

import "github.com/simulasi2/dxup/gfx"

// PresentParameters mirrors the handful of D3DPRESENT_PARAMETERS fields
// the runtime actually consults when (re)configuring a swap chain.
type PresentParameters struct {
	BackBufferWidth, BackBufferHeight uint32
	BackBufferFormat                  uint32 // D3DFORMAT value, resolved to a gputypes.TextureFormat by the concrete backend
	BackBufferCount                   uint32
	Windowed                          bool
	PresentationInterval              uint32 // D3DPRESENT_INTERVAL_* value
	WindowHandle                      uintptr
	EnableAutoDepthStencil            bool
	AutoDepthStencilFormat            uint32 // D3DFORMAT value, only consulted when EnableAutoDepthStencil is set
}

// SwapChain presents rendered frames to a platform window.
type SwapChain interface {
	// GetBackBuffer returns the color texture and view the device renders
	// into for the next Present call. The texture may be nil when only a
	// view of the frame is available; the device binds only the view.
	GetBackBuffer() (gfx.Texture, gfx.TextureView, error)

	// Present blits/flips the current back buffer to the window. hwndOverride
	// of 0 uses the swap chain's own window.
	Present(hwndOverride uintptr) error

	// Reset reconfigures the swap chain in place, e.g. after a window
	// resize or a device-lost recovery.
	Reset(params PresentParameters) error

	// Test reports whether the swap chain's surface is still presentable
	// (TestCooperativeLevel's per-swap-chain counterpart).
	Test() error

	// Destroy releases the swap chain's surface and back buffers.
	Destroy()
}
