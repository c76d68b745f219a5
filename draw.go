package dxup

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/dxlog"
	"github.com/simulasi2/dxup/gfx"
)

// pipelineKey identifies a fully built render pipeline: both shader
// stages by pointer identity, the three interned state descriptors, and
// the primitive topology. Distinct from the rasterizer/blend/
// depth-stencil caches proper (§4.3, which cache the state objects
// ModernGfx would otherwise materialize independently); this cache
// exists because the chosen ModernGfx realization folds every one of
// those into a single pipeline object rather than binding them
// separately, so the device runtime also caches the fold.
type pipelineKey struct {
	vs, ps       *Shader
	vdecl        *VertexDeclaration
	rasterizer   gfx.RasterizerDesc
	blend        gfx.BlendDesc
	depthStencil gfx.DepthStencilDesc
	hasDepth     bool
	topology     gputypes.PrimitiveTopology
	colorFormat  gputypes.TextureFormat
	depthFormat  gputypes.TextureFormat
}

// topologyFor translates (type, prim_count) to (topology, vertex_count)
// per §6's table. TRIANGLEFAN has no wgpu-class equivalent; it is
// accepted with a warning logged on every call and drawn as a triangle
// list of primCount+2 vertices, so the draw still proceeds without
// crashing (§1 Non-goals: full
// fixed-function emulation is out of scope, but silent acceptance is
// required).
func topologyFor(t PrimitiveType, primCount uint32) (gputypes.PrimitiveTopology, uint32) {
	switch t {
	case PrimitivePointList:
		return gputypes.PrimitiveTopologyPointList, primCount
	case PrimitiveLineList:
		return gputypes.PrimitiveTopologyLineList, primCount * 2
	case PrimitiveLineStrip:
		return gputypes.PrimitiveTopologyLineStrip, primCount + 1
	case PrimitiveTriangleList:
		return gputypes.PrimitiveTopologyTriangleList, primCount * 3
	case PrimitiveTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, primCount + 2
	case PrimitiveTriangleFan:
		dxlog.Logger().Warn("dxup: TRIANGLEFAN has no ModernGfx equivalent, emulating as TRIANGLELIST")
		return gputypes.PrimitiveTopologyTriangleList, primCount + 2
	default:
		return gputypes.PrimitiveTopologyTriangleList, primCount
	}
}

// prepareDraw walks every dirty category and materializes it, per §4.5
// step 1. It returns whether the draw can proceed: a missing vertex
// shader or vertex declaration blocks the draw without being treated as
// an error (§7's draw-time-state-inconsistency policy).
func (d *Device) prepareDraw(topology gputypes.PrimitiveTopology) (canDraw bool, pipeline gfx.Pipeline, err error) {
	st := &d.state

	if st.vertexDecl == nil || st.vertexShader == nil {
		return false, nil, nil
	}

	if st.isDirty(dirtyVertexDecl) || st.isDirty(dirtyVertexShader) {
		if err := d.updateVertexShaderAndInputLayout(); err != nil {
			return false, nil, err
		}
	}

	if st.isDirty(dirtyRenderTargets) || st.isDirty(dirtyDepthStencil) {
		st.clearDirty(dirtyRenderTargets | dirtyDepthStencil)
	}

	rasterDesc := d.currentRasterizerDesc()
	rasterState, err := d.internRasterizer(rasterDesc)
	if err != nil {
		return false, nil, err
	}
	st.clearDirty(dirtyRasterizer)

	blendDesc := d.currentBlendDesc()
	blendState, err := d.internBlend(blendDesc)
	if err != nil {
		return false, nil, err
	}

	dsDesc, hasDepth := d.currentDepthStencilDesc()
	var dsState gfx.DepthStencilState
	if hasDepth {
		dsState, err = d.internDepthStencil(dsDesc)
		if err != nil {
			return false, nil, err
		}
	}

	st.clearDirty(dirtyPixelShader)

	if _, err := d.constants.PrepareDraw(); err != nil {
		return false, nil, wrapResult(InvalidCall, fmt.Errorf("constants.PrepareDraw: %w", err))
	}

	key := pipelineKey{
		vs: st.vertexShader, ps: st.pixelShader, vdecl: st.vertexDecl,
		rasterizer: rasterDesc, blend: blendDesc, depthStencil: dsDesc, hasDepth: hasDepth,
		topology:    topology,
		colorFormat: d.colorTargetFormat(),
		depthFormat: d.depthTargetFormat(),
	}
	pipeline, ok := d.pipelineCache.lookup(key)
	if !ok {
		pipeline, err = d.gfxDevice.CreateRenderPipeline(gfx.RenderPipelineDesc{
			Label:         "dxup-pipeline",
			VertexShader:  st.vertexShader.raw,
			PixelShader:   pixelShaderHandle(st.pixelShader),
			VertexBuffers: st.vertexShader.inputLayoutFor(st.vertexDecl),
			Topology:      topology,
			Rasterizer:    rasterState,
			Blend:         blendState,
			DepthStencil:  dsState,
			ColorFormat:   key.colorFormat,
			DepthFormat:   key.depthFormat,
			HasDepth:      hasDepth,
		})
		if err != nil {
			return false, nil, wrapResult(InvalidCall, fmt.Errorf("create render pipeline: %w", err))
		}
		d.pipelineCache.insert(key, pipeline)
	}

	return true, pipeline, nil
}

func pixelShaderHandle(s *Shader) gfx.Shader {
	if s == nil {
		return nil
	}
	return s.raw
}

func (d *Device) colorTargetFormat() gputypes.TextureFormat {
	if rt := d.state.renderTarget[0]; rt != nil {
		return resolveFormat(rt.tex.format, 0)
	}
	return gputypes.TextureFormatRGBA8Unorm
}

func (d *Device) depthTargetFormat() gputypes.TextureFormat {
	if ds := d.state.depthStencil; ds != nil {
		return resolveFormat(ds.tex.format, UsageDepthStencil)
	}
	return gputypes.TextureFormatDepth24PlusStencil8
}

// currentRasterizerDesc folds the subset of render-state scalars the
// rasterizer cares about into a comparable descriptor.
func (d *Device) currentRasterizerDesc() gfx.RasterizerDesc {
	rs := &d.state.renderState
	return gfx.RasterizerDesc{
		FillMode:      legacyToGfxFillMode(FillMode(rs[RenderStateFillMode])),
		CullMode:      legacyToGfxCullMode(CullMode(rs[RenderStateCullMode])),
		FrontFace:     gputypes.FrontFaceCCW,
		ScissorEnable: rs[RenderStateScissorTestEnable] != 0,
	}
}

func (d *Device) currentBlendDesc() gfx.BlendDesc {
	rs := &d.state.renderState
	return gfx.BlendDesc{
		BlendEnable:   rs[RenderStateAlphaBlendEnable] != 0,
		SrcBlend:      legacyToGfxBlendFactor(Blend(rs[RenderStateSrcBlend])),
		DstBlend:      legacyToGfxBlendFactor(Blend(rs[RenderStateDestBlend])),
		BlendOp:       legacyToGfxBlendOp(BlendOp(rs[RenderStateBlendOp])),
		SrcBlendAlpha: legacyToGfxBlendFactor(Blend(rs[RenderStateSrcBlendAlpha])),
		DstBlendAlpha: legacyToGfxBlendFactor(Blend(rs[RenderStateDestBlendAlpha])),
		BlendOpAlpha:  legacyToGfxBlendOp(BlendOp(rs[RenderStateBlendOpAlpha])),
		WriteMask:     gputypes.ColorWriteMaskAll,
	}
}

func (d *Device) currentDepthStencilDesc() (gfx.DepthStencilDesc, bool) {
	if d.state.depthStencil == nil {
		return gfx.DepthStencilDesc{}, false
	}
	rs := &d.state.renderState
	return gfx.DepthStencilDesc{
		DepthEnable:        rs[RenderStateZEnable] != 0,
		DepthWriteEnable:   rs[RenderStateZWriteEnable] != 0,
		DepthFunc:          legacyToGfxCompare(CompareFunc(rs[RenderStateZFunc])),
		StencilEnable:      rs[RenderStateStencilEnable] != 0,
		StencilReadMask:    uint8(rs[RenderStateStencilMask]),
		StencilWriteMask:   uint8(rs[RenderStateStencilWriteMask]),
		StencilFailOp:      legacyToGfxStencilOp(StencilOperation(rs[RenderStateStencilFail])),
		StencilDepthFailOp: legacyToGfxStencilOp(StencilOperation(rs[RenderStateStencilZFail])),
		StencilPassOp:      legacyToGfxStencilOp(StencilOperation(rs[RenderStateStencilPass])),
		StencilFunc:        legacyToGfxCompare(CompareFunc(rs[RenderStateStencilFunc])),
	}, true
}

func (d *Device) internRasterizer(desc gfx.RasterizerDesc) (gfx.RasterizerState, error) {
	if s, ok := d.rasterizerCache.lookup(desc); ok {
		return s, nil
	}
	s, err := d.gfxDevice.CreateRasterizerState(desc)
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("create rasterizer state: %w", err))
	}
	d.rasterizerCache.insert(desc, s)
	return s, nil
}

func (d *Device) internBlend(desc gfx.BlendDesc) (gfx.BlendState, error) {
	if s, ok := d.blendCache.lookup(desc); ok {
		return s, nil
	}
	s, err := d.gfxDevice.CreateBlendState(desc)
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("create blend state: %w", err))
	}
	d.blendCache.insert(desc, s)
	return s, nil
}

func (d *Device) internDepthStencil(desc gfx.DepthStencilDesc) (gfx.DepthStencilState, error) {
	if s, ok := d.depthStencilCache.lookup(desc); ok {
		return s, nil
	}
	s, err := d.gfxDevice.CreateDepthStencilState(desc)
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("create depth-stencil state: %w", err))
	}
	d.depthStencilCache.insert(desc, s)
	return s, nil
}

// DrawPrimitive issues a non-indexed draw, per §4.5.
func (d *Device) DrawPrimitive(primType PrimitiveType, startVertex uint32, primCount uint32) error {
	topology, vertexCount := topologyFor(primType, primCount)
	canDraw, pipeline, err := d.prepareDraw(topology)
	if err != nil {
		return err
	}
	if !canDraw {
		dxlog.Logger().Warn("dxup: draw skipped, missing vertex shader or declaration")
		return nil
	}
	return d.issueDraw(pipeline, func(enc gfx.RenderPassEncoder) {
		enc.Draw(vertexCount, 1, startVertex, 0)
	})
}

// DrawIndexedPrimitive issues an indexed draw, per §4.5.
func (d *Device) DrawIndexedPrimitive(primType PrimitiveType, baseVertexIndex int32, minIndex, numVertices, startIndex, primCount uint32) error {
	topology, indexCount := topologyFor(primType, primCount)
	canDraw, pipeline, err := d.prepareDraw(topology)
	if err != nil {
		return err
	}
	if !canDraw {
		dxlog.Logger().Warn("dxup: indexed draw skipped, missing vertex shader or declaration")
		return nil
	}
	if d.state.indices == nil {
		// §9 open question 4: SetIndices(nil) itself already crashes in
		// the source; a draw reaching here with no index buffer bound at
		// all is a distinct, always-guarded case.
		return wrapResult(InvalidCall, fmt.Errorf("DrawIndexedPrimitive: no index buffer bound"))
	}
	return d.issueDraw(pipeline, func(enc gfx.RenderPassEncoder) {
		enc.SetIndexBuffer(d.state.indices.raw, d.state.indices.format, 0)
		enc.DrawIndexed(indexCount, 1, startIndex, baseVertexIndex, 0)
	})
}

// issueDraw opens one command encoder and render pass per draw call. §4.5
// step 5's finish_draw is currently empty (reserved hook); batching
// multiple draws into one encoder is a documented simplification, see
// SPEC_FULL.md §4.5.
func (d *Device) issueDraw(pipeline gfx.Pipeline, record func(gfx.RenderPassEncoder)) error {
	colorView, err := d.renderTargetView(0)
	if err != nil {
		return err
	}
	passDesc := gfx.RenderPassDesc{
		ColorView:    colorView,
		ColorLoadOp:  gputypes.LoadOpLoad,
		ColorStoreOp: gputypes.StoreOpStore,
	}
	if ds := d.state.depthStencil; ds != nil {
		view, err := ds.view()
		if err != nil {
			return wrapResult(InvalidCall, err)
		}
		passDesc.DepthStencilView = view
		passDesc.DepthLoadOp = gputypes.LoadOpLoad
		passDesc.DepthStoreOp = gputypes.StoreOpStore
		passDesc.StencilLoadOp = gputypes.LoadOpLoad
		passDesc.StencilStoreOp = gputypes.StoreOpStore
	}

	encoder, err := d.gfxDevice.NewCommandEncoder("dxup-draw")
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	pass, err := encoder.BeginRenderPass(passDesc)
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	pass.SetPipeline(pipeline)
	d.bindStreams(pass)
	pass.SetViewport(float32(d.state.viewport.X), float32(d.state.viewport.Y), float32(d.state.viewport.Width), float32(d.state.viewport.Height), d.state.viewport.MinZ, d.state.viewport.MaxZ)
	pass.SetScissorRect(uint32(d.state.scissor.Left), uint32(d.state.scissor.Top), uint32(d.state.scissor.Right-d.state.scissor.Left), uint32(d.state.scissor.Bottom-d.state.scissor.Top))

	record(pass)

	if err := pass.End(); err != nil {
		return wrapResult(InvalidCall, err)
	}
	cmd, err := encoder.Finish()
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	if err := d.gfxDevice.Queue().Submit(cmd); err != nil {
		return wrapResult(DeviceLost, err)
	}
	d.finishDraw()
	return nil
}

func (d *Device) bindStreams(pass gfx.RenderPassEncoder) {
	for i, s := range d.state.streams {
		if s.buffer == nil {
			continue
		}
		pass.SetVertexBuffer(uint32(i), s.buffer.raw, uint64(s.offset))
	}
}

func (d *Device) renderTargetView(slot int) (gfx.TextureView, error) {
	rt := d.state.renderTarget[slot]
	if rt == nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("no render target bound at slot %d", slot))
	}
	return rt.view()
}

// finishDraw is the reserved hook named in §4.5 step 5; currently empty.
func (d *Device) finishDraw() {}

// updateVertexShaderAndInputLayout requires both a bound vertex
// declaration and vertex shader; absent either, it leaves the dirty bits
// set (which gates the draw), per §4.5.
func (d *Device) updateVertexShaderAndInputLayout() error {
	st := &d.state
	if st.vertexDecl == nil || st.vertexShader == nil {
		return nil
	}
	_ = st.vertexShader.inputLayoutFor(st.vertexDecl) // builds and caches on miss
	st.clearDirty(dirtyVertexDecl | dirtyVertexShader)
	return nil
}
