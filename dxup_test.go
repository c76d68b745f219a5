package dxup

import (
	"errors"
	"math"
	"testing"

	"github.com/simulasi2/dxup/gfx"
	"github.com/simulasi2/dxup/gfx/gfxfake"
	"github.com/simulasi2/dxup/swapchain"
)

// Invariant 1: after Reset every render-state index in range carries its
// documented default. Expected values are transcribed independently from
// the original driver's Reset defaults table, not derived from
// renderStateDefault itself, so a wrong case in that switch shows up here.
func TestResetInstallsRenderStateDefaults(t *testing.T) {
	d := newTestDevice()

	nonZero := map[RenderStateType]uint32{
		RenderStateZWriteEnable:           1,
		RenderStateZFunc:                  4, // D3DCMP_LESSEQUAL
		RenderStateFillMode:               3, // D3DFILL_SOLID
		RenderStateCullMode:               3, // D3DCULL_CCW
		RenderStateShadeMode:              2, // D3DSHADE_GOURAUD
		RenderStateLastPixel:              1,
		RenderStateSrcBlend:               2, // D3DBLEND_ONE
		RenderStateDestBlend:              1, // D3DBLEND_ZERO
		RenderStateBlendOp:                1, // D3DBLENDOP_ADD
		RenderStateStencilFail:            1, // D3DSTENCILOP_KEEP
		RenderStateStencilZFail:           1,
		RenderStateStencilPass:            1,
		RenderStateCCWStencilFail:         1,
		RenderStateCCWStencilZFail:        1,
		RenderStateCCWStencilPass:         1,
		RenderStateStencilFunc:            8, // D3DCMP_ALWAYS
		RenderStateCCWStencilFunc:         8,
		RenderStateStencilMask:            0xFFFFFFFF,
		RenderStateStencilWriteMask:       0xFFFFFFFF,
		RenderStateTextureFactor:          0xFFFFFFFF,
		RenderStateBlendFactor:            0xFFFFFFFF,
		RenderStateColorWriteEnable:       0x0F,
		RenderStateColorWriteEnable1:      0x0F,
		RenderStateColorWriteEnable2:      0x0F,
		RenderStateColorWriteEnable3:      0x0F,
		RenderStateLighting:               1,
		RenderStateColorVertex:            1,
		RenderStateLocalViewer:            1,
		RenderStateDiffuseMaterialSource:  1, // D3DMCS_COLOR1
		RenderStateSpecularMaterialSource: 2, // D3DMCS_COLOR2
		RenderStateClipping:               1,
		RenderStateAlphaFunc:              8, // D3DCMP_ALWAYS
		RenderStatePointSize:              math.Float32bits(1.0),
		RenderStatePointSizeMin:           math.Float32bits(1.0),
		RenderStatePointSizeMax:           math.Float32bits(64.0),
		RenderStatePointScaleA:            math.Float32bits(1.0),
		RenderStateMultisampleAntialias:   1,
		RenderStateMultisampleMask:        0xFFFFFFFF,
		RenderStateDebugMonitorToken:      1,
		RenderStatePositionDegree:         3, // D3DDEGREE_CUBIC
		RenderStateNormalDegree:           1, // D3DDEGREE_LINEAR
		RenderStateMinTessellationLevel:   math.Float32bits(1.0),
		RenderStateMaxTessellationLevel:   math.Float32bits(1.0),
		RenderStateFogEnd:                 math.Float32bits(1.0),
		RenderStateFogDensity:             math.Float32bits(1.0),
		RenderStateAdaptiveTessZ:          math.Float32bits(1.0),
		RenderStateSrcBlendAlpha:          2, // D3DBLEND_ONE
		RenderStateDestBlendAlpha:         1, // D3DBLEND_ZERO
	}
	if d.autoDS {
		nonZero[RenderStateZEnable] = 1
	}

	for s := renderStateFirst; s <= renderStateLast; s++ {
		want := nonZero[s]
		if got := d.GetRenderState(s); got != want {
			t.Errorf("render state %d = %d, want default %d", s, got, want)
		}
	}
}

// Invariant 2: SetRenderState/GetRenderState round-trip in range;
// out-of-range reads back 0.
func TestRenderStateRoundTrip(t *testing.T) {
	d := newTestDevice()
	if err := d.SetRenderState(RenderStateZEnable, 0); err != nil {
		t.Fatalf("SetRenderState: %v", err)
	}
	if got := d.GetRenderState(RenderStateZEnable); got != 0 {
		t.Errorf("GetRenderState = %d, want 0", got)
	}
	if err := d.SetRenderState(RenderStateZEnable, 1); err != nil {
		t.Fatalf("SetRenderState: %v", err)
	}
	if got := d.GetRenderState(RenderStateZEnable); got != 1 {
		t.Errorf("GetRenderState = %d, want 1", got)
	}

	outOfRange := RenderStateType(0)
	if err := d.SetRenderState(outOfRange, 42); err != nil {
		t.Fatalf("SetRenderState out-of-range should be a silent no-op, got %v", err)
	}
	if got := d.GetRenderState(outOfRange); got != 0 {
		t.Errorf("GetRenderState(out-of-range) = %d, want 0", got)
	}
}

// Invariant 3: SetRenderTarget/GetRenderTarget round-trip for i<4;
// i>=4 is INVALIDCALL on both.
func TestRenderTargetRoundTrip(t *testing.T) {
	d := newTestDevice()
	rt, err := d.CreateRenderTarget(64, 64, FormatA8B8G8R8, false)
	if err != nil {
		t.Fatalf("CreateRenderTarget: %v", err)
	}
	if err := d.SetRenderTarget(1, rt); err != nil {
		t.Fatalf("SetRenderTarget: %v", err)
	}
	got, err := d.GetRenderTarget(1)
	if err != nil || got != rt {
		t.Fatalf("GetRenderTarget(1) = %v, %v; want %v, nil", got, err, rt)
	}

	if err := d.SetRenderTarget(4, rt); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("SetRenderTarget(4, ...) = %v, want InvalidCall", err)
	}
	if _, err := d.GetRenderTarget(4); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("GetRenderTarget(4) = %v, want InvalidCall", err)
	}
}

// Invariant 4 / Scenario S5: SetTexture is idempotent under repeated
// identical binds, and unbinding nets the private refcount back to 0.
func TestSetTextureIdempotent(t *testing.T) {
	d := newTestDevice()
	tex, err := d.CreateTextureInternal(false, 4, 4, 1, 0, FormatA8B8G8R8, PoolDefault, false)
	if err != nil {
		t.Fatalf("CreateTextureInternal: %v", err)
	}

	if err := d.SetTexture(0, tex); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	before := tex.private.Load()
	if err := d.SetTexture(0, tex); err != nil {
		t.Fatalf("SetTexture (repeat): %v", err)
	}
	if after := tex.private.Load(); after != before {
		t.Errorf("repeated SetTexture with the same pointer changed private refcount: %d -> %d", before, after)
	}

	if err := d.SetTexture(0, nil); err != nil {
		t.Fatalf("SetTexture(nil): %v", err)
	}
	if got := tex.private.Load(); got != before-1 {
		t.Errorf("SetTexture(nil) left private refcount at %d, want %d", got, before-1)
	}
}

// Invariant 5: stage-to-sampler mapping.
func TestResolveStage(t *testing.T) {
	for stage := 0; stage <= 15; stage++ {
		if got, err := resolveStage(stage); err != nil || got != stage {
			t.Errorf("resolveStage(%d) = %d, %v; want %d, nil", stage, got, err, stage)
		}
	}
	for i := 0; i <= 3; i++ {
		stage := vertexTextureSamplerBase + i
		if got, err := resolveStage(stage); err != nil || got != vertexTextureSlotBase+i {
			t.Errorf("resolveStage(%d) = %d, %v; want %d, nil", stage, got, err, vertexTextureSlotBase+i)
		}
	}
	for _, bad := range []int{-1, 16, 20, 100} {
		if _, err := resolveStage(bad); !errors.Is(err, ErrInvalidCall) {
			t.Errorf("resolveStage(%d) = %v, want InvalidCall", bad, err)
		}
	}
}

// Invariant 6 / Scenario S2: the rasterizer state cache returns the same
// handle for equal descriptors and grows monotonically on new ones.
func TestRasterizerCacheReuse(t *testing.T) {
	d := newTestDevice()
	fake := d.gfxDevice.(*gfxfake.Device)

	if err := d.SetRenderState(RenderStateCullMode, uint32(CullNone)); err != nil {
		t.Fatalf("SetRenderState: %v", err)
	}
	desc1 := d.currentRasterizerDesc()
	s1, err := d.internRasterizer(desc1)
	if err != nil {
		t.Fatalf("internRasterizer: %v", err)
	}
	sizeAfterFirst := d.rasterizerCache.size()
	createsAfterFirst := fake.RasterizerCreates

	desc2 := d.currentRasterizerDesc()
	s2, err := d.internRasterizer(desc2)
	if err != nil {
		t.Fatalf("internRasterizer (repeat): %v", err)
	}
	if s1 != s2 {
		t.Errorf("internRasterizer on an identical descriptor returned a different handle")
	}
	if d.rasterizerCache.size() != sizeAfterFirst {
		t.Errorf("cache grew on a repeat lookup: %d -> %d", sizeAfterFirst, d.rasterizerCache.size())
	}
	if fake.RasterizerCreates != createsAfterFirst {
		t.Errorf("backend CreateRasterizerState called again on a cache hit")
	}

	if err := d.SetRenderState(RenderStateCullMode, uint32(CullCW)); err != nil {
		t.Fatalf("SetRenderState: %v", err)
	}
	if _, err := d.internRasterizer(d.currentRasterizerDesc()); err != nil {
		t.Fatalf("internRasterizer (new desc): %v", err)
	}
	if d.rasterizerCache.size() != sizeAfterFirst+1 {
		t.Errorf("cache did not grow for a new descriptor: %d -> %d", sizeAfterFirst, d.rasterizerCache.size())
	}
}

// Invariant 7: a draw with no bound vertex shader or declaration is
// silently skipped, never reaching the backend.
func TestDrawSkippedWithoutVertexState(t *testing.T) {
	d := newTestDevice()
	fake := d.gfxDevice.(*gfxfake.Device)
	before := fake.PipelineCreates

	if err := d.DrawPrimitive(PrimitiveTriangleList, 0, 1); err != nil {
		t.Fatalf("DrawPrimitive: %v", err)
	}
	if fake.PipelineCreates != before {
		t.Errorf("DrawPrimitive built a pipeline with no vertex shader/declaration bound")
	}
}

// Invariant 8: CreateDepthStencilSurface and CreateRenderTarget always
// yield a singleton texture whose level-0 view resolves cleanly.
func TestSingletonSurfaceLevel(t *testing.T) {
	d := newTestDevice()
	rt, err := d.CreateRenderTarget(32, 32, FormatA8B8G8R8, false)
	if err != nil {
		t.Fatalf("CreateRenderTarget: %v", err)
	}
	if !rt.tex.singleton {
		t.Errorf("CreateRenderTarget did not produce a singleton texture")
	}
	if _, err := rt.view(); err != nil {
		t.Errorf("level-0 view: %v", err)
	}

	ds, err := d.CreateDepthStencilSurface(32, 32, FormatD24S8, false)
	if err != nil {
		t.Fatalf("CreateDepthStencilSurface: %v", err)
	}
	if !ds.tex.singleton {
		t.Errorf("CreateDepthStencilSurface did not produce a singleton texture")
	}
	if _, err := ds.view(); err != nil {
		t.Errorf("level-0 view: %v", err)
	}
}

// Scenario S1: a device reset with EnableAutoDepthStencil set exposes a
// render target matching the requested dimensions and a non-nil
// depth-stencil surface.
func TestAutoDepthStencilOnReset(t *testing.T) {
	d := newTestDeviceRaw()
	if err := d.Reset(presentParamsWithAutoDS(800, 600)); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	rt, err := d.GetRenderTarget(0)
	if err != nil {
		t.Fatalf("GetRenderTarget(0): %v", err)
	}
	if rt.tex.width != 800 || rt.tex.height != 600 {
		t.Errorf("render target size = %dx%d, want 800x600", rt.tex.width, rt.tex.height)
	}
	ds, err := d.GetDepthStencilSurface()
	if err != nil || ds == nil {
		t.Fatalf("GetDepthStencilSurface() = %v, %v; want a non-nil surface", ds, err)
	}
}

// Scenario S4: the input-layout cache builds once per (vertex shader,
// vertex declaration) pair and rebuilds when the declaration changes.
func TestInputLayoutCacheRebuildsOnDeclChange(t *testing.T) {
	d := newTestDevice()
	vs, err := d.CreateVertexShader([]byte("vs"))
	if err != nil {
		t.Fatalf("CreateVertexShader: %v", err)
	}
	vd1, err := d.CreateVertexDeclaration([]VertexElement{
		{Stream: 0, Offset: 0, Type: DeclTypeFloat3, Usage: UsagePosition},
		DeclEnd,
	})
	if err != nil {
		t.Fatalf("CreateVertexDeclaration: %v", err)
	}

	l1 := vs.inputLayoutFor(vd1)
	l2 := vs.inputLayoutFor(vd1)
	if len(vs.inputLayouts) != 1 {
		t.Errorf("inputLayouts has %d entries after repeat lookups, want 1", len(vs.inputLayouts))
	}
	_ = l1
	_ = l2

	vd2, err := d.CreateVertexDeclaration([]VertexElement{
		{Stream: 0, Offset: 0, Type: DeclTypeFloat4, Usage: UsagePosition},
		DeclEnd,
	})
	if err != nil {
		t.Fatalf("CreateVertexDeclaration: %v", err)
	}
	vs.inputLayoutFor(vd2)
	if len(vs.inputLayouts) != 2 {
		t.Errorf("inputLayouts has %d entries after a new declaration, want 2", len(vs.inputLayouts))
	}
}

// Scenario S6: StretchRect issues a copy with the expected source box and
// destination offset.
func TestStretchRectBoxAndOffset(t *testing.T) {
	d := newTestDevice()
	fake := d.gfxDevice.(*gfxfake.Device)
	src, err := d.CreateRenderTarget(16, 16, FormatA8B8G8R8, false)
	if err != nil {
		t.Fatalf("CreateRenderTarget(src): %v", err)
	}
	dst, err := d.CreateRenderTarget(16, 16, FormatA8B8G8R8, false)
	if err != nil {
		t.Fatalf("CreateRenderTarget(dst): %v", err)
	}

	err = d.StretchRect(src, &Rect{Left: 0, Top: 0, Right: 10, Bottom: 10},
		dst, &Rect{Left: 5, Top: 5, Right: 15, Bottom: 15})
	if err != nil {
		t.Fatalf("StretchRect: %v", err)
	}
	want := gfxfake.CopyCall{
		SrcOrigin: gfx.Origin3D{X: 0, Y: 0},
		DstOrigin: gfx.Origin3D{X: 5, Y: 5},
		Size:      gfx.Extent3D{Width: 10, Height: 10, DepthOrArrayLayers: 1},
	}
	if fake.LastCopy != want {
		t.Errorf("copy = %+v, want %+v", fake.LastCopy, want)
	}
}

// Open question 5: StretchRect zeroes box.top immediately after deriving
// it from the source rect, so a non-zero source top never reaches the
// copy. This test documents the preserved quirk rather than "fixing" it.
func TestStretchRectIgnoresSourceTop(t *testing.T) {
	d := newTestDevice()
	fake := d.gfxDevice.(*gfxfake.Device)
	src, _ := d.CreateRenderTarget(16, 16, FormatA8B8G8R8, false)
	dst, _ := d.CreateRenderTarget(16, 16, FormatA8B8G8R8, false)

	if err := d.StretchRect(src, &Rect{Left: 0, Top: 7, Right: 10, Bottom: 17}, dst, nil); err != nil {
		t.Fatalf("StretchRect: %v", err)
	}
	if got := fake.LastCopy.SrcOrigin; got != (gfx.Origin3D{X: 0, Y: 0}) {
		t.Errorf("copy source origin = %+v, want {X:0 Y:0 Z:0} (source top ignored)", got)
	}
	if got := fake.LastCopy.Size.Height; got != 17 {
		t.Errorf("copy height = %d, want 17 (bottom minus the zeroed top)", got)
	}
}

// Open question 3: Reset's render-target unbind only ever touches slot 0.
func TestResetOnlyUnbindsRenderTargetZero(t *testing.T) {
	d := newTestDevice()
	rt1, _ := d.CreateRenderTarget(8, 8, FormatA8B8G8R8, false)
	if err := d.SetRenderTarget(1, rt1); err != nil {
		t.Fatalf("SetRenderTarget(1, ...): %v", err)
	}

	if err := d.Reset(d.presentParams); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	got, err := d.GetRenderTarget(1)
	if err != nil || got != rt1 {
		t.Errorf("slot 1 binding was cleared by Reset; got %v, %v, want the stale binding preserved (documented quirk)", got, err)
	}
	if _, err := d.GetRenderTarget(0); err != nil {
		t.Errorf("GetRenderTarget(0) after Reset: %v", err)
	}
}

// Open question 4: SetIndices(nil) dereferences the argument before its
// nil check, so it panics rather than returning an error.
func TestSetIndicesNilPanics(t *testing.T) {
	d := newTestDevice()
	defer func() {
		if recover() == nil {
			t.Errorf("SetIndices(nil) did not panic; the documented quirk expects a nil dereference")
		}
	}()
	_ = d.SetIndices(nil)
}

// Reset must create 4 default pixel samplers and install the 20-slot
// sampler-state default table (d3d9_device.cpp:258-272, 401-415).
func TestResetInstallsSamplerDefaults(t *testing.T) {
	fake := gfxfake.New()
	d := &Device{
		gfxDevice:  fake,
		openSwap:   func(swapchain.PresentParameters) (swapchain.SwapChain, error) { return newFakeSwapChain(), nil },
		translator: fakeTranslator{},
		constants:  fakeConstants{},

		rasterizerCache:   newStateCache[gfx.RasterizerDesc, gfx.RasterizerState](),
		blendCache:        newStateCache[gfx.BlendDesc, gfx.BlendState](),
		depthStencilCache: newStateCache[gfx.DepthStencilDesc, gfx.DepthStencilState](),
		pipelineCache:     newStateCache[pipelineKey, gfx.Pipeline](),
	}
	if err := d.Reset(swapchain.PresentParameters{BackBufferWidth: 800, BackBufferHeight: 600}); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if fake.SamplerCreates != 4 {
		t.Errorf("CreateSampler called %d times on Reset, want 4", fake.SamplerCreates)
	}
	for i, s := range d.defaultPixelSamplers {
		if s == nil {
			t.Errorf("defaultPixelSamplers[%d] is nil after Reset", i)
		}
	}

	want := samplerStageDefault()
	for i, got := range d.state.samplers {
		if got != want {
			t.Errorf("state.samplers[%d] = %+v, want %+v", i, got, want)
		}
	}

	createsAfterFirst := fake.SamplerCreates
	if err := d.Reset(d.presentParams); err != nil {
		t.Fatalf("Reset (second): %v", err)
	}
	if fake.SamplerCreates != createsAfterFirst+4 {
		t.Errorf("second Reset created %d samplers, want 4 more (old ones released, not reused)", fake.SamplerCreates-createsAfterFirst)
	}
}

func newTestDeviceRaw() *Device {
	return &Device{
		gfxDevice: gfxfake.New(),
		openSwap: func(swapchain.PresentParameters) (swapchain.SwapChain, error) {
			return newFakeSwapChain(), nil
		},
		translator: fakeTranslator{},
		constants:  fakeConstants{},

		rasterizerCache:   newStateCache[gfx.RasterizerDesc, gfx.RasterizerState](),
		blendCache:        newStateCache[gfx.BlendDesc, gfx.BlendState](),
		depthStencilCache: newStateCache[gfx.DepthStencilDesc, gfx.DepthStencilState](),
		pipelineCache:     newStateCache[pipelineKey, gfx.Pipeline](),
	}
}

func presentParamsWithAutoDS(width, height uint32) swapchain.PresentParameters {
	return swapchain.PresentParameters{
		BackBufferWidth:        width,
		BackBufferHeight:       height,
		EnableAutoDepthStencil: true,
		AutoDepthStencilFormat: uint32(FormatD24S8),
	}
}
