package dxup

import (
	"math"

	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/gfx"
)

// dirtyCategory names one of the materialization categories prepare_draw
// consults, per §4.2.
type dirtyCategory uint8

const (
	dirtyVertexShader dirtyCategory = 1 << iota
	dirtyVertexDecl
	dirtyPixelShader
	dirtyRenderTargets
	dirtyDepthStencil
	dirtyRasterizer
)

// textureBinding is one of the 20 sampler slots' bound state: the strong
// reference to the bound texture (nil if empty). Per-stage
// D3DSAMPLERSTATETYPE defaults live separately in pipelineState.samplers
// (see installSamplerStateDefaults); SetSamplerState/GetSamplerState
// themselves are not implemented, per the fixed-function texture-stage
// Non-goal.
type textureBinding struct {
	texture *Texture
}

// streamBinding is one vertex-buffer slot.
type streamBinding struct {
	buffer *VertexBuffer
	offset uint32
	stride uint32
}

const (
	maxTextureStages = 20 // 16 pixel samplers + 4 vertex samplers, per §4.2
	maxStreams       = 16
	maxRenderTargets = 4
)

// pipelineState is the canonical in-memory mirror of every LegacyGfx
// binding and render-state scalar, per §3.
type pipelineState struct {
	textures [maxTextureStages]textureBinding
	streams  [maxStreams]streamBinding
	indices  *IndexBuffer

	vertexShader *Shader
	pixelShader  *Shader
	vertexDecl   *VertexDeclaration
	depthStencil *Surface
	renderTarget [maxRenderTargets]*Surface

	renderState [renderStateCount]uint32
	samplers    [maxTextureStages]gfx.SamplerDesc
	clipPlanes  [6]ClipPlane
	viewport    Viewport
	scissor     Rect

	dirty dirtyCategory
}

func (p *pipelineState) markDirty(c dirtyCategory)  { p.dirty |= c }
func (p *pipelineState) clearDirty(c dirtyCategory)  { p.dirty &^= c }
func (p *pipelineState) isDirty(c dirtyCategory) bool { return p.dirty&c != 0 }

// renderStateDefault returns the documented default for a single
// render-state slot, per §6's default table. Slots with no special
// behavior default to 0, matching the legacy driver's zero-init array
// before defaults are installed over it.
func renderStateDefault(s RenderStateType, autoDepthStencil bool) uint32 {
	switch s {
	case RenderStateZEnable:
		if autoDepthStencil {
			return 1
		}
		return 0
	case RenderStateZWriteEnable:
		return 1
	case RenderStateZFunc:
		return uint32(CmpLessEqual)
	case RenderStateFillMode:
		return uint32(FillSolid)
	case RenderStateCullMode:
		return uint32(CullCCW)
	case RenderStateShadeMode:
		return 2 // D3DSHADE_GOURAUD
	case RenderStateLastPixel:
		return 1
	case RenderStateSrcBlend:
		return uint32(BlendOne)
	case RenderStateDestBlend:
		return uint32(BlendZero)
	case RenderStateBlendOp:
		return uint32(BlendOpAdd)
	case RenderStateAlphaBlendEnable:
		return 0
	case RenderStateStencilFail, RenderStateStencilZFail, RenderStateStencilPass,
		RenderStateCCWStencilFail, RenderStateCCWStencilZFail, RenderStateCCWStencilPass:
		return uint32(StencilOpKeep)
	case RenderStateStencilFunc, RenderStateCCWStencilFunc:
		return uint32(CmpAlways)
	case RenderStateStencilMask, RenderStateStencilWriteMask:
		return 0xFFFFFFFF
	case RenderStateTextureFactor, RenderStateBlendFactor:
		return 0xFFFFFFFF
	case RenderStateColorWriteEnable, RenderStateColorWriteEnable1,
		RenderStateColorWriteEnable2, RenderStateColorWriteEnable3:
		return 0x0F
	case RenderStateLighting:
		return 1
	case RenderStateColorVertex:
		return 1
	case RenderStateLocalViewer:
		return 1
	case RenderStateDiffuseMaterialSource:
		return 1 // D3DMCS_COLOR1
	case RenderStateSpecularMaterialSource:
		return 2 // D3DMCS_COLOR2
	case RenderStateClipping:
		return 1
	case RenderStateAmbient:
		return 0
	case RenderStateAlphaRef:
		return 0
	case RenderStateAlphaFunc:
		return uint32(CmpAlways)
	case RenderStatePointSize:
		return floatBits(1.0)
	case RenderStatePointSizeMin:
		return floatBits(1.0)
	case RenderStatePointSizeMax:
		return floatBits(64.0)
	case RenderStatePointScaleA:
		return floatBits(1.0)
	case RenderStateMultisampleAntialias:
		return 1
	case RenderStateMultisampleMask:
		return 0xFFFFFFFF
	case RenderStateDebugMonitorToken:
		return 1
	case RenderStateTweenFactor:
		return floatBits(0.0)
	case RenderStatePositionDegree:
		return 3 // D3DDEGREE_CUBIC
	case RenderStateNormalDegree:
		return 1 // D3DDEGREE_LINEAR
	case RenderStateMinTessellationLevel, RenderStateMaxTessellationLevel:
		return floatBits(1.0)
	case RenderStateFogEnd:
		return floatBits(1.0)
	case RenderStateFogDensity:
		return floatBits(1.0)
	case RenderStateAdaptiveTessX, RenderStateAdaptiveTessY:
		return floatBits(0.0)
	case RenderStateAdaptiveTessZ:
		return floatBits(1.0)
	case RenderStateAdaptiveTessW:
		return floatBits(0.0)
	case RenderStateSrcBlendAlpha:
		return uint32(BlendOne)
	case RenderStateDestBlendAlpha:
		return uint32(BlendZero)
	default:
		return 0
	}
}

// floatBits stores a logically-float render-state scalar (point size,
// tessellation factors, ...) in the uint32 array via a bit-identical
// reinterpretation, mirroring the legacy driver's single DWORD-typed
// render-state table.
func floatBits(f float32) uint32 {
	return math.Float32bits(f)
}

// installRenderStateDefaults installs the complete default table, called
// from Reset per §4.1. autoDepthStencil controls ZENABLE's default.
func (p *pipelineState) installRenderStateDefaults(autoDepthStencil bool) {
	for i := renderStateFirst; i <= renderStateLast; i++ {
		p.renderState[i] = renderStateDefault(i, autoDepthStencil)
	}
}

// samplerStageDefault is the D3DSAMPLERSTATETYPE default the source
// installs at every one of the 20 texture-sampler stages in its Reset
// loop (d3d9_device.cpp:401-415): wrap addressing on all three axes,
// point filtering (no mipmapping), and anisotropy disabled. This is
// independent of the 4 always-linear samplers installDefaultPixelSamplers
// creates against the real device.
func samplerStageDefault() gfx.SamplerDesc {
	return gfx.SamplerDesc{
		AddressModeU:  gputypes.AddressModeRepeat,
		AddressModeV:  gputypes.AddressModeRepeat,
		AddressModeW:  gputypes.AddressModeRepeat,
		MagFilter:     gputypes.FilterModeNearest,
		MinFilter:     gputypes.FilterModeNearest,
		MipmapFilter:  gputypes.FilterModeNearest,
		MaxAnisotropy: 1,
	}
}

// installSamplerStateDefaults installs the per-stage sampler-state
// default table across all 20 stages, called from Reset per §4.1. No
// setter currently mutates these (SetSamplerState is out of scope, per
// the fixed-function texture-stage Non-goal), so today this only gives
// a future GetSamplerState something real to read.
func (p *pipelineState) installSamplerStateDefaults() {
	def := samplerStageDefault()
	for i := range p.samplers {
		p.samplers[i] = def
	}
}

// resetBindings drops every strong reference the mirror holds, releasing
// the corresponding private refcount on each, and clears the dirty
// bitset. Render targets 1-3 are the exception (see below). Called at the
// start of Reset.
func (p *pipelineState) resetBindings() {
	for i := range p.textures {
		if t := p.textures[i].texture; t != nil {
			t.releasePrivate()
		}
		p.textures[i] = textureBinding{}
	}
	for i := range p.streams {
		if b := p.streams[i].buffer; b != nil {
			b.releasePrivate()
		}
		p.streams[i] = streamBinding{}
	}
	if p.indices != nil {
		p.indices.releasePrivate()
		p.indices = nil
	}
	if p.vertexShader != nil {
		p.vertexShader.releasePrivate()
		p.vertexShader = nil
	}
	if p.pixelShader != nil {
		p.pixelShader.releasePrivate()
		p.pixelShader = nil
	}
	if p.vertexDecl != nil {
		p.vertexDecl.releasePrivate()
		p.vertexDecl = nil
	}
	if p.depthStencil != nil {
		p.depthStencil.releasePrivate()
		p.depthStencil = nil
	}
	// §9 open question 3: the source's unbind-all-render-targets loop only
	// ever touches index 0, leaving any surface bound at indices 1-3 with
	// a stale private reference and a stale binding after Reset. Preserved
	// deliberately rather than widened to the full slot range; see
	// DESIGN.md.
	if rt := p.renderTarget[0]; rt != nil {
		rt.releasePrivate()
		p.renderTarget[0] = nil
	}
	p.dirty = 0
}
