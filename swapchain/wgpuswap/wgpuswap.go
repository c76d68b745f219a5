// Package wgpuswap implements swapchain.SwapChain on top of a
// *wgpu.Surface.
package wgpuswap

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/simulasi2/dxup/dxlog"
	"github.com/simulasi2/dxup/gfx"
	"github.com/simulasi2/dxup/gfx/wgpubackend"
	"github.com/simulasi2/dxup/swapchain"
)

// FormatResolver maps a D3DFORMAT backbuffer format value to the
// gputypes.TextureFormat the surface should be configured with. The
// device runtime supplies its own resolver so this package need not
// depend on dxup's D3DFORMAT enum (it would otherwise import the root
// package, introducing a cycle).
type FormatResolver func(d3dFormat uint32) gputypes.TextureFormat

// SwapChain adapts a *wgpu.Surface to swapchain.SwapChain.
type SwapChain struct {
	instance *wgpu.Instance
	device   *wgpubackend.Device
	surface  *wgpu.Surface
	resolve  FormatResolver

	windowHandle uintptr
	format       gputypes.TextureFormat
	width        uint32
	height       uint32

	current     *wgpu.SurfaceTexture
	currentView *wgpubackend.TextureView
}

// Create configures a new surface-backed swap chain for windowHandle.
func Create(instance *wgpu.Instance, device *wgpubackend.Device, resolve FormatResolver, params swapchain.PresentParameters) (*SwapChain, error) {
	rawSurface, err := instance.CreateSurface(0, params.WindowHandle)
	if err != nil {
		return nil, fmt.Errorf("wgpuswap: create surface: %w", err)
	}

	sc := &SwapChain{
		instance:     instance,
		device:       device,
		surface:      rawSurface,
		resolve:      resolve,
		windowHandle: params.WindowHandle,
	}
	if err := sc.configure(params); err != nil {
		rawSurface.Release()
		return nil, err
	}
	return sc, nil
}

func (s *SwapChain) configure(params swapchain.PresentParameters) error {
	s.width = params.BackBufferWidth
	s.height = params.BackBufferHeight
	s.format = s.resolve(params.BackBufferFormat)

	presentMode := wgpu.PresentModeFifo
	if params.PresentationInterval == presentIntervalImmediate {
		presentMode = wgpu.PresentModeImmediate
	}

	err := s.surface.Configure(s.device.Raw(), &wgpu.SurfaceConfiguration{
		Width:       s.width,
		Height:      s.height,
		Format:      s.format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: presentMode,
	})
	if err != nil {
		return fmt.Errorf("wgpuswap: configure surface: %w", err)
	}
	dxlog.Logger().Debug("wgpuswap: surface configured", "width", s.width, "height", s.height)
	return nil
}

// presentIntervalImmediate mirrors D3DPRESENT_INTERVAL_IMMEDIATE (0x80000000)
// without importing the root package's render-state enums.
const presentIntervalImmediate = 0x80000000

func (s *SwapChain) GetBackBuffer() (gfx.Texture, gfx.TextureView, error) {
	if s.currentView != nil {
		return nil, s.currentView, nil
	}

	tex, suboptimal, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, nil, fmt.Errorf("wgpuswap: acquire back buffer: %w", err)
	}
	if suboptimal {
		dxlog.Logger().Warn("wgpuswap: surface suboptimal, reconfigure recommended")
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("wgpuswap: create back buffer view: %w", err)
	}

	s.current = tex
	s.currentView = wgpubackend.WrapTextureView(view)
	return nil, s.currentView, nil
}

func (s *SwapChain) Present(hwndOverride uintptr) error {
	if s.current == nil {
		return fmt.Errorf("wgpuswap: Present called without an acquired back buffer")
	}
	if err := s.surface.Present(s.current); err != nil {
		return fmt.Errorf("wgpuswap: present: %w", err)
	}
	s.current = nil
	s.currentView = nil
	return nil
}

func (s *SwapChain) Reset(params swapchain.PresentParameters) error {
	s.surface.Unconfigure()
	s.current = nil
	s.currentView = nil
	return s.configure(params)
}

func (s *SwapChain) Test() error {
	return nil
}

func (s *SwapChain) Destroy() {
	s.surface.Unconfigure()
	s.surface.Release()
}
