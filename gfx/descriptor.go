package gfx

import "github.com/gogpu/gputypes"

// BufferDesc describes buffer creation parameters.
type BufferDesc struct {
	Label string
	Size  uint64
	Usage gputypes.BufferUsage
}

// TextureDesc describes texture creation parameters.
type TextureDesc struct {
	Label         string
	Size          Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
}

// TextureViewDesc describes a texture view.
type TextureViewDesc struct {
	Label     string
	Format    gputypes.TextureFormat
	Dimension gputypes.TextureViewDimension
	Aspect    gputypes.TextureAspect
}

// SamplerDesc describes sampler creation parameters. Fields map directly
// onto D3DSAMPLERSTATETYPE values the device runtime tracks per stage.
type SamplerDesc struct {
	Label         string
	AddressModeU  gputypes.AddressMode
	AddressModeV  gputypes.AddressMode
	AddressModeW  gputypes.AddressMode
	MagFilter     gputypes.FilterMode
	MinFilter     gputypes.FilterMode
	MipmapFilter  gputypes.FilterMode
	MaxAnisotropy uint16
	Compare       gputypes.CompareFunction
}

// ShaderDesc describes a shader module. Exactly one of WGSL or SPIRV is
// set: WGSL text needs no prior translation, while SPIRV holds the
// shaderxlat translator's compiled output.
type ShaderDesc struct {
	Label string
	WGSL  string
	SPIRV []uint32
}

// FillMode has no ModernGfx equivalent (wgpu-class APIs rasterize
// triangles only) and is stored on RasterizerDesc purely so
// GetRenderState/cache-identity round-trip it; the backend ignores it and
// rasterizes every mode as FillModeSolid, without logging.
type FillMode uint8

const (
	FillModeSolid FillMode = iota
	FillModeWireframe
	FillModePoint
)

// RasterizerDesc is the value-type key for the rasterizer state cache.
// It must remain comparable (no slices/maps) so it can key a Go map and
// serve as a pipeline-cache sub-key.
type RasterizerDesc struct {
	FillMode              FillMode
	CullMode              gputypes.CullMode
	FrontFace             gputypes.FrontFace
	ScissorEnable         bool
	MultisampleEnable     bool
	AntialiasedLineEnable bool
}

// BlendDesc is the value-type key for the blend state cache. A single
// RenderTarget entry is carried (dxup targets exactly one color
// attachment, per spec scope).
type BlendDesc struct {
	BlendEnable   bool
	SrcBlend      gputypes.BlendFactor
	DstBlend      gputypes.BlendFactor
	BlendOp       gputypes.BlendOperation
	SrcBlendAlpha gputypes.BlendFactor
	DstBlendAlpha gputypes.BlendFactor
	BlendOpAlpha  gputypes.BlendOperation
	WriteMask     gputypes.ColorWriteMask
}

// StencilOperation describes a stencil test outcome action. Defined
// locally rather than borrowed from a backend package since it lives on
// the depth-stencil descriptor, part of the backend-agnostic boundary.
type StencilOperation uint8

const (
	StencilOperationKeep StencilOperation = iota
	StencilOperationZero
	StencilOperationReplace
	StencilOperationInvert
	StencilOperationIncrementClamp
	StencilOperationDecrementClamp
	StencilOperationIncrementWrap
	StencilOperationDecrementWrap
)

// DepthStencilDesc is the value-type key for the depth-stencil state
// cache. DepthBias fields live here, mirroring ModernGfx's
// DepthStencilState (not a separate rasterizer concern).
type DepthStencilDesc struct {
	DepthEnable         bool
	DepthWriteEnable    bool
	DepthFunc           gputypes.CompareFunction
	StencilEnable       bool
	StencilReadMask     uint8
	StencilWriteMask    uint8
	StencilFailOp       StencilOperation
	StencilDepthFailOp  StencilOperation
	StencilPassOp       StencilOperation
	StencilFunc         gputypes.CompareFunction
	DepthBias           int32
	DepthBiasSlopeScale float32
	DepthBiasClamp      float32
}

// VertexAttribute describes one element of a vertex declaration.
type VertexAttribute struct {
	Format         gputypes.VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes one vertex stream's layout.
type VertexBufferLayout struct {
	ArrayStride uint64
	StepMode    gputypes.VertexStepMode
	Attributes  []VertexAttribute
}

// RenderPipelineDesc describes a full pipeline build: both shader
// stages, vertex layout, primitive topology, and the three interned
// state objects folded in at build time.
type RenderPipelineDesc struct {
	Label         string
	VertexShader  Shader
	PixelShader   Shader
	VertexBuffers []VertexBufferLayout
	Topology      gputypes.PrimitiveTopology
	Rasterizer    RasterizerState
	Blend         BlendState
	DepthStencil  DepthStencilState
	ColorFormat   gputypes.TextureFormat
	DepthFormat   gputypes.TextureFormat
	HasDepth      bool
}

// RenderPassDesc describes a render pass: one color attachment and an
// optional depth-stencil attachment, matching the single-render-target
// scope the device runtime currently supports per draw.
type RenderPassDesc struct {
	Label            string
	ColorView        TextureView
	ColorLoadOp      gputypes.LoadOp
	ColorStoreOp     gputypes.StoreOp
	ClearColor       gputypes.Color
	DepthStencilView TextureView
	DepthLoadOp      gputypes.LoadOp
	DepthStoreOp     gputypes.StoreOp
	ClearDepth       float32
	StencilLoadOp    gputypes.LoadOp
	StencilStoreOp   gputypes.StoreOp
	ClearStencil     uint32
}
