package wgpubackend

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/simulasi2/dxup/gfx"
)

func convertVertexBuffers(layouts []gfx.VertexBufferLayout) []gputypes.VertexBufferLayout {
	out := make([]gputypes.VertexBufferLayout, len(layouts))
	for i, l := range layouts {
		attrs := make([]gputypes.VertexAttribute, len(l.Attributes))
		for j, a := range l.Attributes {
			attrs[j] = gputypes.VertexAttribute{
				Format:         a.Format,
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			}
		}
		out[i] = gputypes.VertexBufferLayout{
			ArrayStride: l.ArrayStride,
			StepMode:    l.StepMode,
			Attributes:  attrs,
		}
	}
	return out
}

func stencilOp(op gfx.StencilOperation) hal.StencilOperation {
	switch op {
	case gfx.StencilOperationZero:
		return hal.StencilOperationZero
	case gfx.StencilOperationReplace:
		return hal.StencilOperationReplace
	case gfx.StencilOperationInvert:
		return hal.StencilOperationInvert
	case gfx.StencilOperationIncrementClamp:
		return hal.StencilOperationIncrementClamp
	case gfx.StencilOperationDecrementClamp:
		return hal.StencilOperationDecrementClamp
	case gfx.StencilOperationIncrementWrap:
		return hal.StencilOperationIncrementWrap
	case gfx.StencilOperationDecrementWrap:
		return hal.StencilOperationDecrementWrap
	default:
		return hal.StencilOperationKeep
	}
}

func convertDepthStencil(d gfx.DepthStencilDesc, format gputypes.TextureFormat) *wgpu.DepthStencilState {
	face := hal.StencilFaceState{
		Compare:     d.StencilFunc,
		FailOp:      stencilOp(d.StencilFailOp),
		DepthFailOp: stencilOp(d.StencilDepthFailOp),
		PassOp:      stencilOp(d.StencilPassOp),
	}
	return &wgpu.DepthStencilState{
		Format:              format,
		DepthWriteEnabled:   d.DepthWriteEnable,
		DepthCompare:        d.DepthFunc,
		StencilFront:        face,
		StencilBack:         face,
		StencilReadMask:     uint32(d.StencilReadMask),
		StencilWriteMask:    uint32(d.StencilWriteMask),
		DepthBias:           d.DepthBias,
		DepthBiasSlopeScale: d.DepthBiasSlopeScale,
		DepthBiasClamp:      d.DepthBiasClamp,
	}
}

func convertBlend(b gfx.BlendDesc) *gputypes.BlendState {
	if !b.BlendEnable {
		return nil
	}
	return &gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: b.SrcBlend,
			DstFactor: b.DstBlend,
			Operation: b.BlendOp,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: b.SrcBlendAlpha,
			DstFactor: b.DstBlendAlpha,
			Operation: b.BlendOpAlpha,
		},
	}
}
