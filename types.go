// Package dxup implements the device runtime: the per-device object that
// mirrors a LegacyGfx (Direct3D9-class) pipeline on top of a ModernGfx
// (Direct3D11-class) backend, realized here by gfx/wgpubackend atop
// github.com/gogpu/wgpu. Shader translation, presentation, and the
// shader-constant buffer are driven through the shaderxlat, swapchain
// and constants package interfaces; dxup never imports a concrete
// backend directly except to wire them together in Create.
package dxup

// PrimitiveType names a legacy draw topology.
type PrimitiveType int

const (
	PrimitivePointList PrimitiveType = iota + 1
	PrimitiveLineList
	PrimitiveLineStrip
	PrimitiveTriangleList
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

// RenderStateType enumerates the legacy render-state scalars. Only the
// subset the device runtime actually consults carries named constants;
// every other in-range index is a valid storage slot (Set/Get round-trip)
// even without one.
type RenderStateType int

const (
	RenderStateZEnable RenderStateType = iota + 1
	RenderStateFillMode
	RenderStateShadeMode
	_rsLinePattern // unused legacy slot, kept for index continuity
	RenderStateZWriteEnable
	RenderStateAlphaTestEnable
	RenderStateLastPixel
	RenderStateSrcBlend
	RenderStateDestBlend
	RenderStateCullMode
	RenderStateZFunc
	RenderStateAlphaRef
	RenderStateAlphaFunc
	RenderStateDitherEnable
	RenderStateAlphaBlendEnable
	RenderStateFogEnable
	RenderStateSpecularEnable
	_rsZVisible
	RenderStateFogColor
	RenderStateFogTableMode
	RenderStateFogStart
	RenderStateFogEnd
	RenderStateFogDensity
	_rsEdgeAntialias
	RenderStateRangeFogEnable
	_rsStipple1
	_rsStipple2
	RenderStateStencilEnable
	RenderStateStencilFail
	RenderStateStencilZFail
	RenderStateStencilPass
	RenderStateStencilFunc
	RenderStateStencilRef
	RenderStateStencilMask
	RenderStateStencilWriteMask
	RenderStateTextureFactor
	_rsReserved1
	_rsReserved2
	_rsReserved3
	_rsReserved4
	_rsReserved5
	_rsReserved6
	_rsReserved7
	_rsReserved8
	_rsReserved9
	_rsReserved10
	_rsReserved11
	_rsReserved12
	_rsReserved13
	_rsReserved14
	_rsReserved15
	_rsReserved16
	RenderStateWrap0
	_rsWrap1
	_rsWrap2
	_rsWrap3
	_rsWrap4
	_rsWrap5
	_rsWrap6
	_rsWrap7
	RenderStateClipping
	RenderStateLighting
	_rsExtents
	RenderStateAmbient
	RenderStateFogVertexMode
	RenderStateColorVertex
	RenderStateLocalViewer
	RenderStateNormalizeNormals
	RenderStateDiffuseMaterialSource
	RenderStateSpecularMaterialSource
	RenderStateAmbientMaterialSource
	RenderStateEmissiveMaterialSource
	RenderStateVertexBlend
	RenderStateClipPlaneEnable
	RenderStatePointSize
	RenderStatePointSizeMin
	RenderStatePointSpriteEnable
	RenderStatePointScaleEnable
	RenderStatePointScaleA
	RenderStatePointScaleB
	RenderStatePointScaleC
	RenderStateMultisampleAntialias
	RenderStateMultisampleMask
	RenderStatePatchEdgeStyle
	_rsPatchSegments
	RenderStateDebugMonitorToken
	RenderStatePointSizeMax
	RenderStateIndexedVertexBlendEnable
	RenderStateColorWriteEnable
	RenderStateTweenFactor
	RenderStateBlendOp
	RenderStatePositionDegree
	RenderStateNormalDegree
	RenderStateScissorTestEnable
	RenderStateSlopeScaleDepthBias
	RenderStateAntialiasedLineEnable
	_rsMinTessellation
	RenderStateMinTessellationLevel
	RenderStateMaxTessellationLevel
	RenderStateAdaptiveTessX
	RenderStateAdaptiveTessY
	RenderStateAdaptiveTessZ
	RenderStateAdaptiveTessW
	RenderStateEnableAdaptiveTessellation
	RenderStateTwoSidedStencilMode
	RenderStateCCWStencilFail
	RenderStateCCWStencilZFail
	RenderStateCCWStencilPass
	RenderStateCCWStencilFunc
	RenderStateColorWriteEnable1
	RenderStateColorWriteEnable2
	RenderStateColorWriteEnable3
	RenderStateBlendFactor
	RenderStateSRGBWriteEnable
	RenderStateDepthBias
	RenderStateWrap8
	RenderStateWrap9
	RenderStateWrap10
	RenderStateWrap11
	RenderStateWrap12
	RenderStateWrap13
	RenderStateWrap14
	RenderStateWrap15
	RenderStateSeparateAlphaBlendEnable
	RenderStateSrcBlendAlpha
	RenderStateDestBlendAlpha
	RenderStateBlendOpAlpha
)

// renderStateCount sizes the device's flat render-state array. The range
// [RenderStateZEnable, RenderStateBlendOpAlpha] is the only addressable
// span; Set on every other index is a silent no-op and Get reads back 0.
const (
	renderStateFirst = RenderStateZEnable
	renderStateLast  = RenderStateBlendOpAlpha
	renderStateCount = int(renderStateLast) + 1
)

func inRenderStateRange(s RenderStateType) bool {
	return s >= renderStateFirst && s <= renderStateLast
}

// StencilOperation mirrors the legacy D3DSTENCILOP enum. Its values differ
// from gfx.StencilOperation's; legacyToGfxStencilOp in convert.go converts
// them when building a DepthStencilDesc.
type StencilOperation uint32

const (
	StencilOpKeep StencilOperation = iota + 1
	StencilOpZero
	StencilOpReplace
	StencilOpIncrSat
	StencilOpDecrSat
	StencilOpInvert
	StencilOpIncr
	StencilOpDecr
)

// CompareFunc mirrors the legacy D3DCMPFUNC enum.
type CompareFunc uint32

const (
	CmpNever CompareFunc = iota + 1
	CmpLess
	CmpEqual
	CmpLessEqual
	CmpGreater
	CmpNotEqual
	CmpGreaterEqual
	CmpAlways
)

// CullMode mirrors the legacy D3DCULL enum.
type CullMode uint32

const (
	CullNone CullMode = iota + 1
	CullCW
	CullCCW
)

// FillMode mirrors the legacy D3DFILLMODE enum.
type FillMode uint32

const (
	FillPoint FillMode = iota + 1
	FillWireframe
	FillSolid
)

// Blend mirrors the legacy D3DBLEND enum.
type Blend uint32

const (
	BlendZero Blend = iota + 1
	BlendOne
	BlendSrcColor
	BlendInvSrcColor
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDestAlpha
	BlendInvDestAlpha
	BlendDestColor
	BlendInvDestColor
	BlendSrcAlphaSat
	BlendBothSrcAlpha
	BlendBothInvSrcAlpha
	BlendBlendFactor
	BlendInvBlendFactor
)

// BlendOp mirrors the legacy D3DBLENDOP enum.
type BlendOp uint32

const (
	BlendOpAdd BlendOp = iota + 1
	BlendOpSubtract
	BlendOpRevSubtract
	BlendOpMin
	BlendOpMax
)

// Format mirrors the subset of D3DFORMAT the device runtime resolves to a
// gputypes.TextureFormat; FormatUnknown triggers the BackBufferFormat
// default substitution in Create.
type Format uint32

const (
	FormatUnknown  Format = 0
	FormatA8R8G8B8 Format = 21
	FormatX8R8G8B8 Format = 22
	FormatA8B8G8R8 Format = 32
	FormatD24S8    Format = 75
	FormatD32      Format = 71
	FormatINDEX16  Format = 101
	FormatINDEX32  Format = 102
)

// Usage flags, legacy D3DUSAGE_* bits actually consulted by the resource
// factory.
type Usage uint32

const (
	UsageRenderTarget  Usage = 1 << 0
	UsageDepthStencil  Usage = 1 << 1
	UsageDynamic       Usage = 1 << 2
	UsageAutoGenMipMap Usage = 1 << 3
	UsageWriteOnly     Usage = 1 << 4
)

// Pool mirrors the legacy D3DPOOL enum.
type Pool uint32

const (
	PoolDefault Pool = iota
	PoolManaged
	PoolSystemMem
	PoolScratch
)

// ClearFlag mirrors the legacy D3DCLEAR_* bits.
type ClearFlag uint32

const (
	ClearTarget  ClearFlag = 1 << 0
	ClearZBuffer ClearFlag = 1 << 1
	ClearStencil ClearFlag = 1 << 2
)

// Rect is an integer 2D rectangle, legacy RECT layout (left, top, right,
// bottom), used by StretchRect/UpdateSurface/SetScissorRect.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Color is a legacy D3DCOLORVALUE: four floats in [0,1].
type Color struct {
	R, G, B, A float32
}

// Viewport mirrors D3DVIEWPORT9.
type Viewport struct {
	X, Y, Width, Height uint32
	MinZ, MaxZ          float32
}

// ClipPlane is one of the 6 user clip planes, {A,B,C,D} coefficients.
type ClipPlane [4]float32
