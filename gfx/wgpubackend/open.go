// Package wgpubackend implements the gfx package's interfaces on top of
// github.com/gogpu/wgpu, the concrete ModernGfx-class API the dxup
// device runtime targets.
package wgpubackend

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/simulasi2/dxup/dxlog"
)

// Handle bundles the instance, adapter and device created for one
// dxup.Device. Callers keep it alive for the lifetime of the device and
// pass Handle.Instance to swapchain/wgpuswap when creating a surface.
type Handle struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *Device
}

// Options configures backend device selection.
type Options struct {
	// PowerPreference steers adapter selection when more than one GPU is
	// present.
	PowerPreference gputypes.PowerPreference
	// Debug is accepted but not used: Open creates the instance with
	// default flags and attaches no validation/debug layer.
	Debug bool
	Label string
}

// Open creates an instance, selects an adapter, and opens a device,
// returning the gfx.Device implementation the dxup runtime drives.
func Open(opts Options) (*Handle, error) {
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create instance: %w", err)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: opts.PowerPreference,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("wgpubackend: request adapter: %w", err)
	}

	rawDevice, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            opts.Label,
		RequiredFeatures: adapter.Features(),
		RequiredLimits:   adapter.Limits(),
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("wgpubackend: request device: %w", err)
	}

	info := adapter.Info()
	dxlog.Logger().Info("wgpubackend: device opened",
		"adapter", info.Name, "backend", info.Backend)

	dev := &Device{raw: rawDevice, limits: adapter.Limits()}
	return &Handle{Instance: instance, Adapter: adapter, Device: dev}, nil
}

// Close releases the device, adapter and instance in dependency order.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	if h.Device != nil {
		h.Device.Destroy()
	}
	if h.Adapter != nil {
		h.Adapter.Release()
	}
	if h.Instance != nil {
		h.Instance.Release()
	}
}
