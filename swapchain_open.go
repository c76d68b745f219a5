package dxup

import (
	"github.com/simulasi2/dxup/gfx/wgpubackend"
	"github.com/simulasi2/dxup/swapchain"
	"github.com/simulasi2/dxup/swapchain/wgpuswap"
)

// defaultSwapChainOpener returns a SwapChainOpener backed by
// swapchain/wgpuswap, resolving D3DFORMAT backbuffer formats through
// resolveFormat so a caller that doesn't supply its own opener still
// gets a working implicit swap chain.
func defaultSwapChainOpener(backend *wgpubackend.Handle) SwapChainOpener {
	return func(params swapchain.PresentParameters) (swapchain.SwapChain, error) {
		return wgpuswap.Create(backend.Instance, backend.Device, defaultFormatResolver, params)
	}
}
