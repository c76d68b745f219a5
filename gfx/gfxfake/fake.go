// Package gfxfake provides a noop gfx.Device, grounded on the teacher's
// own hal/noop backend, so dxup's unit tests can exercise the device
// runtime's binding, caching, and dispatch logic without a real GPU.
package gfxfake

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/gfx"
)

// Device is a gfx.Device that allocates lightweight in-memory stand-ins
// for every resource kind and records the render pipelines/state objects
// it is asked to build, so tests can assert on call counts.
type Device struct {
	RasterizerCreates   int
	BlendCreates        int
	DepthStencilCreates int
	PipelineCreates     int
	SamplerCreates      int

	// LastCopy holds the arguments of the most recent CopyTextureToTexture
	// call on an encoder created by this device.
	LastCopy CopyCall
}

// CopyCall records the origins and size of one CopyTextureToTexture call.
type CopyCall struct {
	SrcOrigin, DstOrigin gfx.Origin3D
	Size                 gfx.Extent3D
}

func New() *Device { return &Device{} }

func (d *Device) CreateBuffer(desc gfx.BufferDesc) (gfx.Buffer, error) { return &buffer{}, nil }

func (d *Device) CreateTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	return &texture{width: desc.Size.Width, height: desc.Size.Height}, nil
}

func (d *Device) CreateSampler(desc gfx.SamplerDesc) (gfx.Sampler, error) {
	d.SamplerCreates++
	return &resource{}, nil
}

func (d *Device) CreateShaderModule(desc gfx.ShaderDesc) (gfx.Shader, error) {
	return &resource{}, nil
}

func (d *Device) CreateRasterizerState(desc gfx.RasterizerDesc) (gfx.RasterizerState, error) {
	d.RasterizerCreates++
	return &rasterizerState{desc: desc}, nil
}

func (d *Device) CreateBlendState(desc gfx.BlendDesc) (gfx.BlendState, error) {
	d.BlendCreates++
	return &blendState{desc: desc}, nil
}

func (d *Device) CreateDepthStencilState(desc gfx.DepthStencilDesc) (gfx.DepthStencilState, error) {
	d.DepthStencilCreates++
	return &depthStencilState{desc: desc}, nil
}

func (d *Device) CreateRenderPipeline(desc gfx.RenderPipelineDesc) (gfx.Pipeline, error) {
	d.PipelineCreates++
	return &resource{}, nil
}

func (d *Device) NewCommandEncoder(label string) (gfx.CommandEncoder, error) {
	return &commandEncoder{dev: d}, nil
}

func (d *Device) Queue() gfx.Queue { return &queue{} }

func (d *Device) Limits() gputypes.Limits { return gputypes.Limits{} }

func (d *Device) WaitIdle() error { return nil }

func (d *Device) Destroy() {}

type resource struct{}

func (r *resource) Destroy() {}

type buffer struct{ resource }

type texture struct {
	resource
	width, height uint32
}

func (t *texture) CreateView(desc gfx.TextureViewDesc) (gfx.TextureView, error) {
	return &resource{}, nil
}

type rasterizerState struct{ desc gfx.RasterizerDesc }

func (s *rasterizerState) Desc() gfx.RasterizerDesc { return s.desc }

type blendState struct{ desc gfx.BlendDesc }

func (s *blendState) Desc() gfx.BlendDesc { return s.desc }

type depthStencilState struct{ desc gfx.DepthStencilDesc }

func (s *depthStencilState) Desc() gfx.DepthStencilDesc { return s.desc }

type commandEncoder struct{ dev *Device }

func (e *commandEncoder) BeginRenderPass(desc gfx.RenderPassDesc) (gfx.RenderPassEncoder, error) {
	return &renderPass{}, nil
}

func (e *commandEncoder) CopyTextureToTexture(src gfx.Texture, srcOrigin gfx.Origin3D, dst gfx.Texture, dstOrigin gfx.Origin3D, size gfx.Extent3D, srcLevel, dstLevel uint32) error {
	if src == nil || dst == nil {
		return fmt.Errorf("gfxfake: nil texture in CopyTextureToTexture")
	}
	e.dev.LastCopy = CopyCall{SrcOrigin: srcOrigin, DstOrigin: dstOrigin, Size: size}
	return nil
}

func (e *commandEncoder) Finish() (gfx.CommandBuffer, error) { return &commandBuffer{}, nil }

type commandBuffer struct{}

type renderPass struct{}

func (p *renderPass) SetPipeline(gfx.Pipeline)                                          {}
func (p *renderPass) SetVertexBuffer(slot uint32, b gfx.Buffer, offset uint64)           {}
func (p *renderPass) SetIndexBuffer(b gfx.Buffer, format gputypes.IndexFormat, off uint64) {}
func (p *renderPass) SetViewport(x, y, w, h, minDepth, maxDepth float32)                 {}
func (p *renderPass) SetScissorRect(x, y, w, h uint32)                                   {}
func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {}
func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
}
func (p *renderPass) End() error { return nil }

type queue struct{}

func (q *queue) Submit(buffers ...gfx.CommandBuffer) error { return nil }
func (q *queue) WriteBuffer(b gfx.Buffer, offset uint64, data []byte) error { return nil }
