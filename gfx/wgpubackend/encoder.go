package wgpubackend

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/simulasi2/dxup/gfx"
)

type CommandEncoder struct{ raw *wgpu.CommandEncoder }

func (e *CommandEncoder) BeginRenderPass(desc gfx.RenderPassDesc) (gfx.RenderPassEncoder, error) {
	colorView, _ := desc.ColorView.(*TextureView)
	if colorView == nil {
		return nil, fmt.Errorf("wgpubackend: render pass requires a color view")
	}

	halDesc := &wgpu.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       colorView.raw,
				LoadOp:     desc.ColorLoadOp,
				StoreOp:    desc.ColorStoreOp,
				ClearValue: desc.ClearColor,
			},
		},
	}

	if depthView, ok := desc.DepthStencilView.(*TextureView); ok && depthView != nil {
		halDesc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:              depthView.raw,
			DepthLoadOp:       desc.DepthLoadOp,
			DepthStoreOp:      desc.DepthStoreOp,
			DepthClearValue:   desc.ClearDepth,
			StencilLoadOp:     desc.StencilLoadOp,
			StencilStoreOp:    desc.StencilStoreOp,
			StencilClearValue: desc.ClearStencil,
		}
	}

	raw, err := e.raw.BeginRenderPass(halDesc)
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: begin render pass: %w", err)
	}
	return &RenderPassEncoder{raw: raw}, nil
}

func (e *CommandEncoder) CopyTextureToTexture(src gfx.Texture, srcOrigin gfx.Origin3D, dst gfx.Texture, dstOrigin gfx.Origin3D, size gfx.Extent3D, srcLevel, dstLevel uint32) error {
	// StretchRect (and through it UpdateSurface, UpdateTexture and
	// GetRenderTargetData) calls this; this backend does not implement
	// the copy and always returns an error.
	return fmt.Errorf("wgpubackend: CopyTextureToTexture not implemented")
}

func (e *CommandEncoder) Finish() (gfx.CommandBuffer, error) {
	raw, err := e.raw.Finish()
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: finish command encoder: %w", err)
	}
	return &CommandBuffer{raw: raw}, nil
}

type CommandBuffer struct{ raw *wgpu.CommandBuffer }

type RenderPassEncoder struct{ raw *wgpu.RenderPassEncoder }

func (p *RenderPassEncoder) SetPipeline(pipeline gfx.Pipeline) {
	pp, _ := pipeline.(*Pipeline)
	if pp == nil {
		return
	}
	p.raw.SetPipeline(pp.raw)
}

func (p *RenderPassEncoder) SetVertexBuffer(slot uint32, b gfx.Buffer, offset uint64) {
	bb, _ := b.(*Buffer)
	if bb == nil {
		return
	}
	p.raw.SetVertexBuffer(slot, bb.raw, offset)
}

func (p *RenderPassEncoder) SetIndexBuffer(b gfx.Buffer, format gputypes.IndexFormat, offset uint64) {
	bb, _ := b.(*Buffer)
	if bb == nil {
		return
	}
	p.raw.SetIndexBuffer(bb.raw, format, offset)
}

func (p *RenderPassEncoder) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.raw.SetViewport(x, y, w, h, minDepth, maxDepth)
}

func (p *RenderPassEncoder) SetScissorRect(x, y, w, h uint32) {
	p.raw.SetScissorRect(x, y, w, h)
}

func (p *RenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.raw.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *RenderPassEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.raw.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *RenderPassEncoder) End() error {
	return p.raw.End()
}

// Queue adapts *wgpu.Queue to gfx.Queue.
type Queue struct{ raw *wgpu.Queue }

func NewQueue(raw *wgpu.Queue) *Queue { return &Queue{raw: raw} }

func (q *Queue) Submit(buffers ...gfx.CommandBuffer) error {
	raw := make([]*wgpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*CommandBuffer)
		if !ok || cb == nil {
			continue
		}
		raw = append(raw, cb.raw)
	}
	return q.raw.Submit(raw...)
}

// WriteBuffer uploads CPU data into a GPU buffer, used by the shader
// constant uploads of constants.BufferManager.
func (q *Queue) WriteBuffer(b gfx.Buffer, offset uint64, data []byte) error {
	bb, ok := b.(*Buffer)
	if !ok || bb == nil {
		return fmt.Errorf("wgpubackend: WriteBuffer: not a wgpubackend buffer")
	}
	return q.raw.WriteBuffer(bb.raw, offset, data)
}
