// Package gfx states the ModernGfx interface the dxup device runtime is
// written against. It names only the capabilities the runtime actually
// drives: resource creation, pipeline construction, and command
// recording. The concrete implementation lives in gfx/wgpubackend.
//
// Descriptor field names and shapes deliberately track the vocabulary of
// github.com/gogpu/gputypes so a backend can pass them through with a
// thin conversion rather than a parallel enum universe.
package gfx

import "github.com/gogpu/gputypes"

// Device creates GPU resources and records command buffers.
type Device interface {
	CreateBuffer(desc BufferDesc) (Buffer, error)
	CreateTexture(desc TextureDesc) (Texture, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateShaderModule(desc ShaderDesc) (Shader, error)

	// CreateRasterizerState, CreateBlendState and CreateDepthStencilState
	// wrap their descriptors for later folding into a pipeline. ModernGfx
	// has no freestanding GPU object for any of the three; the call exists
	// so the device runtime's three independent state caches (mirroring
	// the legacy driver's rasterizer/blend/depth-stencil state objects)
	// have something to intern and compare by identity.
	CreateRasterizerState(desc RasterizerDesc) (RasterizerState, error)
	CreateBlendState(desc BlendDesc) (BlendState, error)
	CreateDepthStencilState(desc DepthStencilDesc) (DepthStencilState, error)

	CreateRenderPipeline(desc RenderPipelineDesc) (Pipeline, error)
	NewCommandEncoder(label string) (CommandEncoder, error)

	Queue() Queue
	Limits() gputypes.Limits
	WaitIdle() error
	Destroy()
}

// Buffer is a GPU buffer resource.
type Buffer interface {
	Destroy()
}

// Texture is a GPU texture resource.
type Texture interface {
	CreateView(desc TextureViewDesc) (TextureView, error)
	Destroy()
}

// TextureView is a view into a Texture, the unit render passes bind.
type TextureView interface {
	Destroy()
}

// Sampler is a texture sampler.
type Sampler interface {
	Destroy()
}

// Shader is a compiled shader module for one pipeline stage.
type Shader interface {
	Destroy()
}

// RasterizerState wraps an interned RasterizerDesc.
type RasterizerState interface {
	Desc() RasterizerDesc
}

// BlendState wraps an interned BlendDesc.
type BlendState interface {
	Desc() BlendDesc
}

// DepthStencilState wraps an interned DepthStencilDesc.
type DepthStencilState interface {
	Desc() DepthStencilDesc
}

// Pipeline is a fully built render pipeline: shader stages, vertex
// layout, and the folded rasterizer/blend/depth-stencil state.
type Pipeline interface {
	Destroy()
}

// CommandEncoder records commands for later submission.
type CommandEncoder interface {
	BeginRenderPass(desc RenderPassDesc) (RenderPassEncoder, error)
	CopyTextureToTexture(src Texture, srcOrigin Origin3D, dst Texture, dstOrigin Origin3D, size Extent3D, srcLevel, dstLevel uint32) error
	Finish() (CommandBuffer, error)
}

// CommandBuffer is a finished, submittable command recording.
type CommandBuffer interface{}

// RenderPassEncoder records draw commands within one render pass.
type RenderPassEncoder interface {
	SetPipeline(p Pipeline)
	SetVertexBuffer(slot uint32, b Buffer, offset uint64)
	SetIndexBuffer(b Buffer, format gputypes.IndexFormat, offset uint64)
	SetViewport(x, y, w, h, minDepth, maxDepth float32)
	SetScissorRect(x, y, w, h uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End() error
}

// Queue submits finished command buffers and uploads CPU data into
// buffers (shader-constant uploads).
type Queue interface {
	Submit(buffers ...CommandBuffer) error
	WriteBuffer(b Buffer, offset uint64, data []byte) error
}

// Extent3D and Origin3D mirror gputypes' 3D size/position pair, used for
// texture copies (StretchRect, UpdateSurface, UpdateTexture).
type Extent3D struct{ Width, Height, DepthOrArrayLayers uint32 }
type Origin3D struct{ X, Y, Z uint32 }
