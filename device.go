package dxup

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/constants"
	"github.com/simulasi2/dxup/dxcfg"
	"github.com/simulasi2/dxup/dxlog"
	"github.com/simulasi2/dxup/gfx"
	"github.com/simulasi2/dxup/gfx/wgpubackend"
	"github.com/simulasi2/dxup/shaderxlat"
	"github.com/simulasi2/dxup/swapchain"
)

// maxSwapChains bounds the device's swap chain array; slot 0 is the
// implicit swap chain created by Reset.
const maxSwapChains = 6

// Factory is the weak parent back-reference a Device holds. The real
// adapter-enumeration and capability-query surface is out of scope for
// the device runtime; Factory exists only so Device.GetDirect3D has
// something to hand back.
type Factory struct {
	Ordinal uint32
}

// SwapChainOpener constructs a swapchain.SwapChain for a given window,
// letting Device stay free of any concrete backend import beyond
// gfx.Device/wgpubackend.Handle. The device runtime supplies a
// wgpuswap.Create-backed opener when it owns Create.
type SwapChainOpener func(params swapchain.PresentParameters) (swapchain.SwapChain, error)

// Device is the per-device object specified in §3: the pipeline state
// mirror, the state-object and pipeline caches, the constant manager, and the
// swap chain array all live here.
type Device struct {
	gfxDevice  gfx.Device
	backend    *wgpubackend.Handle
	openSwap   SwapChainOpener
	translator shaderxlat.Translator
	constants  constants.Manager

	factory       *Factory
	windowHandle  uintptr
	adapterOrd    uint32
	deviceType    uint32
	isEx          bool
	behaviorFlags uint32

	presentParams swapchain.PresentParameters
	autoDS        bool
	autoDSFormat  Format

	swapChains [maxSwapChains]swapchain.SwapChain

	state pipelineState

	rasterizerCache   *stateCache[gfx.RasterizerDesc, gfx.RasterizerState]
	blendCache        *stateCache[gfx.BlendDesc, gfx.BlendState]
	depthStencilCache *stateCache[gfx.DepthStencilDesc, gfx.DepthStencilState]
	pipelineCache     *stateCache[pipelineKey, gfx.Pipeline]

	// defaultPixelSamplers are the 4 MIN_MAG_MIP_LINEAR/wrap/CMP_NEVER
	// samplers (re)created on every Reset, per §4.1. Nothing in the draw
	// path binds them into a render pass yet: see DESIGN.md's note on the
	// missing bind-group layer.
	defaultPixelSamplers [4]gfx.Sampler

	cursorPending bool
	cursorX       int32
	cursorY       int32
	cursorHidden  bool
}

// CreateParams bundles Create's arguments, adapting the legacy
// CreateDevice(adapter, window, parent, present_params, device_type,
// is_ex, behaviour_flags) signature into one struct.
type CreateParams struct {
	Factory        *Factory
	WindowHandle   uintptr
	AdapterOrdinal uint32
	DeviceType     uint32
	IsEx           bool
	BehaviorFlags  uint32
	PresentParams  swapchain.PresentParameters
	Translator     shaderxlat.Translator
	OpenSwapChain  SwapChainOpener // nil uses the default wgpuswap opener
}

// Create opens the underlying ModernGfx device and calls Reset to populate
// defaults, per §4.1. The adapter is the one wgpubackend.Open selects;
// AdapterOrdinal is stored on the device but does not choose the adapter.
func Create(params CreateParams) (*Device, error) {
	backend, err := wgpubackend.Open(wgpubackend.Options{
		Debug: dxcfg.Default.GetBool(dxcfg.Debug),
		Label: "dxup",
	})
	if err != nil {
		return nil, wrapResult(DeviceLost, fmt.Errorf("open backend: %w", err))
	}

	openSwap := params.OpenSwapChain
	if openSwap == nil {
		openSwap = defaultSwapChainOpener(backend)
	}

	d := &Device{
		gfxDevice:      backend.Device,
		backend:        backend,
		openSwap:       openSwap,
		translator:     params.Translator,
		factory:        params.Factory,
		windowHandle:   params.WindowHandle,
		adapterOrd:     params.AdapterOrdinal,
		deviceType:     params.DeviceType,
		isEx:           params.IsEx,
		behaviorFlags:  params.BehaviorFlags,

		rasterizerCache:   newStateCache[gfx.RasterizerDesc, gfx.RasterizerState](),
		blendCache:        newStateCache[gfx.BlendDesc, gfx.BlendState](),
		depthStencilCache: newStateCache[gfx.DepthStencilDesc, gfx.DepthStencilState](),
		pipelineCache:     newStateCache[pipelineKey, gfx.Pipeline](),
	}

	constMgr, err := constants.NewBufferManager(d.gfxDevice, d.gfxDevice.Queue())
	if err != nil {
		backend.Close()
		return nil, wrapResult(DeviceLost, fmt.Errorf("constant manager: %w", err))
	}
	d.constants = constMgr

	pp := normalizePresentParams(params.PresentParams, params.WindowHandle)
	if err := d.Reset(pp); err != nil {
		d.Destroy()
		return nil, wrapResult(InvalidCall, fmt.Errorf("initial reset: %w", err))
	}
	return d, nil
}

// normalizePresentParams fills in width/height/back-buffer-count/format
// defaults per §4.1 step 3. GetWindowRect supplies the window size on
// platforms that have one (device_windows.go); elsewhere the caller's
// explicit dimensions are required.
func normalizePresentParams(pp swapchain.PresentParameters, window uintptr) swapchain.PresentParameters {
	if pp.BackBufferWidth == 0 || pp.BackBufferHeight == 0 {
		if w, h, ok := getWindowRect(window); ok {
			pp.BackBufferWidth, pp.BackBufferHeight = w, h
		}
	}
	if pp.BackBufferCount == 0 {
		pp.BackBufferCount = 1
	}
	if pp.BackBufferFormat == 0 {
		pp.BackBufferFormat = uint32(FormatA8B8G8R8)
	}
	return pp
}

func defaultFormatResolver(d3dFormat uint32) gputypes.TextureFormat {
	return resolveFormat(Format(d3dFormat), 0)
}

// Reset unbinds every texture, stream, index buffer, shader, declaration,
// the depth-stencil surface and render target 0 (targets 1-3 keep their
// bindings, see resetBindings), (re)creates the implicit swap chain,
// reinstalls every default, and optionally creates the auto depth-stencil
// surface, per §4.1.
func (d *Device) Reset(pp swapchain.PresentParameters) error {
	d.state.resetBindings()
	d.presentParams = pp

	if d.swapChains[0] == nil {
		sc, err := d.createSwapChain(pp)
		if err != nil {
			return wrapResult(DeviceLost, err)
		}
		d.swapChains[0] = sc
	} else if err := d.swapChains[0].Reset(pp); err != nil {
		return wrapResult(DeviceLost, fmt.Errorf("reset swap chain: %w", err))
	}

	backTex, backView, err := d.swapChains[0].GetBackBuffer()
	if err != nil {
		return wrapResult(DeviceLost, fmt.Errorf("acquire back buffer: %w", err))
	}
	_ = backTex // the wgpu surface texture has no standalone lifetime; only the view is bound
	rt0 := &Surface{refcount: newRefcount(nil), tex: &Texture{
		refcount: newRefcount(nil),
		width:    pp.BackBufferWidth,
		height:   pp.BackBufferHeight,
		format:   Format(pp.BackBufferFormat),
		views:    map[uint32]gfx.TextureView{0: backView},
	}}
	rt0.tex.addRefPrivate()
	d.state.renderTarget[0] = rt0
	rt0.addRefPrivate()

	d.state.viewport = Viewport{X: 0, Y: 0, Width: pp.BackBufferWidth, Height: pp.BackBufferHeight, MinZ: 0, MaxZ: 1}
	d.state.scissor = Rect{0, 0, int32(pp.BackBufferWidth), int32(pp.BackBufferHeight)}

	if err := d.installDefaultPixelSamplers(); err != nil {
		return wrapResult(DeviceLost, fmt.Errorf("default pixel samplers: %w", err))
	}

	d.autoDS = pp.EnableAutoDepthStencil
	d.autoDSFormat = Format(pp.AutoDepthStencilFormat)
	d.state.installRenderStateDefaults(d.autoDS)
	d.state.installSamplerStateDefaults()
	for i := range d.state.clipPlanes {
		d.state.clipPlanes[i] = ClipPlane{}
	}

	if d.autoDS {
		ds, err := d.CreateDepthStencilSurface(pp.BackBufferWidth, pp.BackBufferHeight, d.autoDSFormat, true)
		if err != nil {
			return wrapResult(InvalidCall, fmt.Errorf("auto depth-stencil: %w", err))
		}
		ds.addRefPrivate()
		d.state.depthStencil = ds
	}

	if dxcfg.Default.GetBool(dxcfg.InitialHideCursor) {
		d.cursorHidden = true
	}

	dxlog.Logger().Info("dxup: device reset", "width", pp.BackBufferWidth, "height", pp.BackBufferHeight)
	return nil
}

// installDefaultPixelSamplers (re)creates the 4 default pixel-stage
// samplers the source builds directly against the device on every Reset
// (d3d9_device.cpp:258-271), independently of any D3DSAMPLERSTATETYPE
// emulation: MIN_MAG_MIP_LINEAR filtering, wrap addressing on all three
// axes, and a CMP_NEVER comparison function. Any samplers from a prior
// Reset are destroyed first.
func (d *Device) installDefaultPixelSamplers() error {
	for i, s := range d.defaultPixelSamplers {
		if s != nil {
			s.Destroy()
			d.defaultPixelSamplers[i] = nil
		}
	}
	desc := gfx.SamplerDesc{
		Label:        "dxup-default-pixel-sampler",
		AddressModeU: gputypes.AddressModeRepeat,
		AddressModeV: gputypes.AddressModeRepeat,
		AddressModeW: gputypes.AddressModeRepeat,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
		Compare:      gputypes.CompareFunctionNever,
	}
	for i := range d.defaultPixelSamplers {
		s, err := d.gfxDevice.CreateSampler(desc)
		if err != nil {
			return fmt.Errorf("pixel sampler %d: %w", i, err)
		}
		d.defaultPixelSamplers[i] = s
	}
	return nil
}

func (d *Device) createSwapChain(pp swapchain.PresentParameters) (swapchain.SwapChain, error) {
	if d.openSwap != nil {
		return d.openSwap(pp)
	}
	return nil, fmt.Errorf("dxup: no swap chain opener configured")
}

// CreateAdditionalSwapChain creates a non-implicit swap chain in the
// first empty slot.
func (d *Device) CreateAdditionalSwapChain(pp swapchain.PresentParameters) (int, error) {
	for i := 1; i < maxSwapChains; i++ {
		if d.swapChains[i] == nil {
			sc, err := d.createSwapChain(pp)
			if err != nil {
				return -1, wrapResult(InvalidCall, err)
			}
			d.swapChains[i] = sc
			return i, nil
		}
	}
	return -1, InvalidCall
}

// GetSwapChain returns the swap chain at index, or NotFound if the slot
// is empty or out of range.
func (d *Device) GetSwapChain(index int) (swapchain.SwapChain, error) {
	if index < 0 || index >= maxSwapChains || d.swapChains[index] == nil {
		return nil, NotFound
	}
	return d.swapChains[index], nil
}

// GetNumberOfSwapChains preserves the source's empty-slot-counting
// inversion (§9 open question 1): it reports how many slots are *empty*,
// not how many are occupied. Flagged, not fixed, per the task's
// preserve-documented-quirks decision.
func (d *Device) GetNumberOfSwapChains() int {
	n := 0
	for i := range d.swapChains {
		if d.swapChains[i] == nil {
			n++
		}
	}
	return n
}

// deviceIID names the interfaces QueryInterface recognises.
type deviceIID int

const (
	IIDDevice deviceIID = iota
	IIDDeviceEx
	IIDUnknown
)

// QueryInterface recognises {device, device-ex, unknown}. Preserves §9
// open question 2: the source returns E_NOINTERFACE even after
// successfully populating the out-pointer for a recognised IID. Flagged,
// not fixed.
func (d *Device) QueryInterface(iid deviceIID) (any, error) {
	switch iid {
	case IIDDevice, IIDUnknown:
		return d, ENoInterface
	case IIDDeviceEx:
		if !d.isEx {
			return nil, ENoInterface
		}
		return d, ENoInterface
	default:
		return nil, ENoInterface
	}
}

// Present routes to slot-0's Present, runs the depth-discard check, then
// flushes any pending deferred cursor update, per §4.8.
func (d *Device) Present() error {
	return d.PresentEx(0)
}

// PresentEx is Present with an hwnd override (Ex devices only; ignored
// for non-Ex devices beyond being accepted).
func (d *Device) PresentEx(hwndOverride uintptr) error {
	sc := d.swapChains[0]
	if sc == nil {
		return wrapResult(InvalidCall, fmt.Errorf("no implicit swap chain"))
	}
	if err := sc.Present(hwndOverride); err != nil {
		return wrapResult(DeviceLost, err)
	}

	if ds := d.state.depthStencil; ds != nil && ds.tex.discard {
		// Depth-discard check: emulate legacy discard semantics by
		// clearing the DS surface's depth immediately after present.
		if err := d.clearDepthStencilSurface(ds, 1.0, 0); err != nil {
			dxlog.Logger().Warn("dxup: depth-discard clear failed", "error", err)
		}
	}

	if d.cursorPending {
		d.flushCursor()
	}
	return nil
}

// TestCooperativeLevel: Ex devices always return OK; legacy devices defer
// to slot-0's Test.
func (d *Device) TestCooperativeLevel() error {
	if d.isEx {
		return nil
	}
	sc := d.swapChains[0]
	if sc == nil {
		return wrapResult(DeviceLost, fmt.Errorf("no implicit swap chain"))
	}
	if err := sc.Test(); err != nil {
		return wrapResult(DeviceLost, err)
	}
	return nil
}

// BeginScene is a no-op, per §4.8.
func (d *Device) BeginScene() error { return nil }

// EndScene flushes the immediate context.
func (d *Device) EndScene() error {
	if err := d.gfxDevice.WaitIdle(); err != nil {
		return wrapResult(DeviceLost, err)
	}
	return nil
}

// Destroy tears down the state mirror and the underlying ModernGfx
// device.
func (d *Device) Destroy() {
	d.state.resetBindings()
	for i, s := range d.defaultPixelSamplers {
		if s != nil {
			s.Destroy()
			d.defaultPixelSamplers[i] = nil
		}
	}
	for i := range d.swapChains {
		if d.swapChains[i] != nil {
			d.swapChains[i].Destroy()
			d.swapChains[i] = nil
		}
	}
	if d.backend != nil {
		d.backend.Close()
	}
}

// flushCursor consumes a deferred SetCursorPosition, recorded via the
// pending-cursor-update record in §3: it clears the pending flag and logs
// the position. No OS cursor call is made.
func (d *Device) flushCursor() {
	d.cursorPending = false
	dxlog.Logger().Debug("dxup: cursor moved", "x", d.cursorX, "y", d.cursorY)
}

// SetCursorPosition arms the pending-cursor-update record, which the next
// Present consumes via flushCursor. The system cursor itself is not moved.
func (d *Device) SetCursorPosition(x, y int32) {
	d.cursorX, d.cursorY = x, y
	d.cursorPending = true
}
