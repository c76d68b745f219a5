package wgpubackend

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/simulasi2/dxup/gfx"
)

// Device adapts *wgpu.Device to gfx.Device.
type Device struct {
	raw    *wgpu.Device
	limits gputypes.Limits
}

// Raw returns the underlying wgpu device, for collaborators (the swap
// chain) that must configure a wgpu.Surface directly.
func (d *Device) Raw() *wgpu.Device { return d.raw }

// Queue returns the adapted command queue.
func (d *Device) Queue() gfx.Queue { return NewQueue(d.raw.Queue()) }

func (d *Device) Limits() gputypes.Limits { return d.limits }

func (d *Device) CreateBuffer(desc gfx.BufferDesc) (gfx.Buffer, error) {
	raw, err := d.raw.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create buffer: %w", err)
	}
	return &Buffer{raw: raw}, nil
}

func (d *Device) CreateTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	raw, err := d.raw.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Size:          wgpu.Extent3D{Width: desc.Size.Width, Height: desc.Size.Height, DepthOrArrayLayers: desc.Size.DepthOrArrayLayers},
		MipLevelCount: max1(desc.MipLevelCount),
		SampleCount:   max1(desc.SampleCount),
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create texture: %w", err)
	}
	return &Texture{raw: raw, device: d, format: desc.Format}, nil
}

func max1(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return v
}

func (d *Device) CreateSampler(desc gfx.SamplerDesc) (gfx.Sampler, error) {
	raw, err := d.raw.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressModeU,
		AddressModeV: desc.AddressModeV,
		AddressModeW: desc.AddressModeW,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: desc.MipmapFilter,
		Compare:      desc.Compare,
		Anisotropy:   desc.MaxAnisotropy,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create sampler: %w", err)
	}
	return &Sampler{raw: raw}, nil
}

func (d *Device) CreateShaderModule(desc gfx.ShaderDesc) (gfx.Shader, error) {
	raw, err := d.raw.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSL:  desc.WGSL,
		SPIRV: desc.SPIRV,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create shader module: %w", err)
	}
	return &Shader{raw: raw}, nil
}

// CreateRasterizerState, CreateBlendState and CreateDepthStencilState
// perform no device call: wgpu folds all three into the pipeline
// descriptor. They exist purely so the device runtime's three
// independent caches have something comparable to intern.
func (d *Device) CreateRasterizerState(desc gfx.RasterizerDesc) (gfx.RasterizerState, error) {
	return rasterizerState{desc: desc}, nil
}

func (d *Device) CreateBlendState(desc gfx.BlendDesc) (gfx.BlendState, error) {
	return blendState{desc: desc}, nil
}

func (d *Device) CreateDepthStencilState(desc gfx.DepthStencilDesc) (gfx.DepthStencilState, error) {
	return depthStencilState{desc: desc}, nil
}

func (d *Device) CreateRenderPipeline(desc gfx.RenderPipelineDesc) (gfx.Pipeline, error) {
	vs, ok := desc.VertexShader.(*Shader)
	if !ok || vs == nil {
		return nil, fmt.Errorf("wgpubackend: vertex shader is required")
	}
	ps, _ := desc.PixelShader.(*Shader)

	raster, _ := desc.Rasterizer.(rasterizerState)
	blend, _ := desc.Blend.(blendState)
	depth, hasDepth := desc.DepthStencil.(depthStencilState)

	halDesc := &wgpu.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: wgpu.VertexState{
			Module:     vs.raw,
			EntryPoint: "vs_main",
			Buffers:    convertVertexBuffers(desc.VertexBuffers),
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  desc.Topology,
			FrontFace: raster.desc.FrontFace,
			CullMode:  raster.desc.CullMode,
		},
	}

	if desc.HasDepth && hasDepth {
		halDesc.DepthStencil = convertDepthStencil(depth.desc, desc.DepthFormat)
	}

	if ps != nil {
		halDesc.Fragment = &wgpu.FragmentState{
			Module:     ps.raw,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    desc.ColorFormat,
					Blend:     convertBlend(blend.desc),
					WriteMask: blend.desc.WriteMask,
				},
			},
		}
	}

	raw, err := d.raw.CreateRenderPipeline(halDesc)
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create render pipeline: %w", err)
	}
	return &Pipeline{raw: raw}, nil
}

func (d *Device) NewCommandEncoder(label string) (gfx.CommandEncoder, error) {
	raw, err := d.raw.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create command encoder: %w", err)
	}
	return &CommandEncoder{raw: raw}, nil
}

func (d *Device) WaitIdle() error {
	return d.raw.WaitIdle()
}

func (d *Device) Destroy() {
	if d.raw != nil {
		d.raw.Release()
	}
}

// Resource wrapper types. Each just forwards Destroy/Release to the raw
// wgpu handle; the dxup-level refcounting and released-state tracking
// lives one layer up, in the device runtime's own resource wrappers.

type Buffer struct{ raw *wgpu.Buffer }

func (b *Buffer) Destroy() { b.raw.Release() }

// Raw exposes the underlying wgpu buffer for RenderPassEncoder binding
// and Queue.WriteBuffer/ReadBuffer calls.
func (b *Buffer) Raw() *wgpu.Buffer { return b.raw }

type Texture struct {
	raw    *wgpu.Texture
	device *Device
	format gputypes.TextureFormat
}

func (t *Texture) Destroy() { t.raw.Release() }

func (t *Texture) CreateView(desc gfx.TextureViewDesc) (gfx.TextureView, error) {
	raw, err := t.device.raw.CreateTextureView(t.raw, &wgpu.TextureViewDescriptor{
		Label:     desc.Label,
		Format:    desc.Format,
		Dimension: desc.Dimension,
		Aspect:    desc.Aspect,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: create texture view: %w", err)
	}
	return &TextureView{raw: raw}, nil
}

type TextureView struct{ raw *wgpu.TextureView }

func (v *TextureView) Destroy()               { v.raw.Release() }
func (v *TextureView) Raw() *wgpu.TextureView { return v.raw }

// WrapTextureView adapts a *wgpu.TextureView obtained outside a Device
// call (e.g. a swap chain's acquired back buffer view) to gfx.TextureView.
func WrapTextureView(raw *wgpu.TextureView) *TextureView {
	return &TextureView{raw: raw}
}

type Sampler struct{ raw *wgpu.Sampler }

func (s *Sampler) Destroy() { s.raw.Release() }

type Shader struct{ raw *wgpu.ShaderModule }

func (s *Shader) Destroy() { s.raw.Release() }

type Pipeline struct{ raw *wgpu.RenderPipeline }

func (p *Pipeline) Destroy()                  { p.raw.Release() }
func (p *Pipeline) Raw() *wgpu.RenderPipeline { return p.raw }

type rasterizerState struct{ desc gfx.RasterizerDesc }

func (r rasterizerState) Desc() gfx.RasterizerDesc { return r.desc }

type blendState struct{ desc gfx.BlendDesc }

func (b blendState) Desc() gfx.BlendDesc { return b.desc }

type depthStencilState struct{ desc gfx.DepthStencilDesc }

func (d depthStencilState) Desc() gfx.DepthStencilDesc { return d.desc }
