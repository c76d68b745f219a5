package dxup

import (
	"fmt"

	"github.com/simulasi2/dxup/constants"
	"github.com/simulasi2/dxup/dxlog"
)

// SetRenderTarget binds surface s to render-target index i (i<4), per
// §4.2's setter table.
func (d *Device) SetRenderTarget(i int, s *Surface) error {
	if i < 0 || i >= maxRenderTargets {
		return InvalidCall
	}
	if old := d.state.renderTarget[i]; old != nil {
		old.releasePrivate()
	}
	d.state.renderTarget[i] = s
	if s != nil {
		s.addRefPrivate()
	}
	d.state.markDirty(dirtyRenderTargets)
	return nil
}

// GetRenderTarget returns the surface bound at index i.
func (d *Device) GetRenderTarget(i int) (*Surface, error) {
	if i < 0 || i >= maxRenderTargets {
		return nil, InvalidCall
	}
	s := d.state.renderTarget[i]
	if s == nil {
		return nil, NotFound
	}
	return s, nil
}

// SetDepthStencilSurface runs the depth-discard check before assigning,
// per §4.2.
func (d *Device) SetDepthStencilSurface(s *Surface) error {
	if old := d.state.depthStencil; old != nil {
		if old.tex.discard {
			if err := d.clearDepthStencilSurface(old, 1.0, 0); err != nil {
				dxlog.Logger().Warn("dxup: depth-discard clear on unbind failed", "error", err)
			}
		}
		old.releasePrivate()
	}
	d.state.depthStencil = s
	if s != nil {
		s.addRefPrivate()
	}
	d.state.markDirty(dirtyDepthStencil)
	return nil
}

// GetDepthStencilSurface returns the currently bound depth-stencil
// surface.
func (d *Device) GetDepthStencilSurface() (*Surface, error) {
	if d.state.depthStencil == nil {
		return nil, NotFound
	}
	return d.state.depthStencil, nil
}

// SetVertexShader assigns the active vertex shader. A nil argument clears
// the binding and returns INVALIDCALL, per §4.2's table (a device cannot
// draw without one, so clearing it is itself a misuse signal).
func (d *Device) SetVertexShader(s *Shader) error {
	if old := d.state.vertexShader; old != nil {
		old.releasePrivate()
	}
	d.state.vertexShader = s
	if s != nil {
		s.addRefPrivate()
	}
	d.state.markDirty(dirtyVertexShader)
	if s == nil {
		return InvalidCall
	}
	return nil
}

// GetVertexShader returns the currently bound vertex shader.
func (d *Device) GetVertexShader() (*Shader, error) {
	if d.state.vertexShader == nil {
		return nil, NotFound
	}
	return d.state.vertexShader, nil
}

// SetPixelShader assigns the active pixel shader. A nil argument clears
// the binding without error: a device may legitimately draw with the
// fixed-function pipeline in place of a pixel shader.
func (d *Device) SetPixelShader(s *Shader) error {
	if old := d.state.pixelShader; old != nil {
		old.releasePrivate()
	}
	d.state.pixelShader = s
	if s != nil {
		s.addRefPrivate()
	}
	d.state.markDirty(dirtyPixelShader)
	return nil
}

// GetPixelShader returns the currently bound pixel shader.
func (d *Device) GetPixelShader() (*Shader, error) {
	if d.state.pixelShader == nil {
		return nil, NotFound
	}
	return d.state.pixelShader, nil
}

// SetVertexDeclaration assigns the active vertex declaration.
func (d *Device) SetVertexDeclaration(vd *VertexDeclaration) error {
	if old := d.state.vertexDecl; old != nil {
		old.releasePrivate()
	}
	d.state.vertexDecl = vd
	if vd != nil {
		vd.addRefPrivate()
	}
	d.state.markDirty(dirtyVertexDecl)
	return nil
}

// GetVertexDeclaration returns the currently bound vertex declaration.
func (d *Device) GetVertexDeclaration() (*VertexDeclaration, error) {
	if d.state.vertexDecl == nil {
		return nil, NotFound
	}
	return d.state.vertexDecl, nil
}

// SetRenderState mutates render-state slot s if it is in range and the
// value differs from the current one; CULLMODE/FILLMODE additionally
// mark the rasterizer category dirty. An out-of-range index is a silent
// no-op (invariant 3), and an in-range index outside the small set the
// device acts on logs an "unhandled" warning without failing, matching
// §4.2's table. The warning is logged on every such change, not once per
// state.
func (d *Device) SetRenderState(s RenderStateType, v uint32) error {
	if !inRenderStateRange(s) {
		return nil
	}
	if d.state.renderState[s] == v {
		return nil
	}
	d.state.renderState[s] = v
	switch s {
	case RenderStateCullMode, RenderStateFillMode:
		d.state.markDirty(dirtyRasterizer)
	case RenderStateSrcBlend, RenderStateDestBlend, RenderStateBlendOp,
		RenderStateAlphaBlendEnable, RenderStateSrcBlendAlpha,
		RenderStateDestBlendAlpha, RenderStateBlendOpAlpha,
		RenderStateZEnable, RenderStateZWriteEnable, RenderStateZFunc,
		RenderStateStencilEnable, RenderStateStencilFail, RenderStateStencilZFail,
		RenderStateStencilPass, RenderStateStencilFunc, RenderStateStencilMask,
		RenderStateStencilWriteMask, RenderStateScissorTestEnable:
		// Consulted directly from the render-state array when the
		// pipeline is (re)built in prepareDraw; no separate dirty bit is
		// needed since the pipeline cache key already folds these in.
	default:
		dxlog.Logger().Warn("dxup: unhandled render state", "state", s, "value", v)
	}
	return nil
}

// GetRenderState reads render-state slot s; an out-of-range index reads
// back 0 (invariant 3).
func (d *Device) GetRenderState(s RenderStateType) uint32 {
	if !inRenderStateRange(s) {
		return 0
	}
	return d.state.renderState[s]
}

// sampler stage mapping constants, per §4.2: the legacy vertex sampler
// stage ids D3DVERTEXTEXTURESAMPLER0..3 occupy slots 16..19 of the flat
// texture array.
const (
	vertexTextureSamplerBase = 257 // D3DVERTEXTEXTURESAMPLER0
	vertexTextureSamplerMax  = 3
	vertexTextureSlotBase    = 16
)

// resolveStage maps a legacy sampler-stage argument to the device's flat
// 20-slot texture array, per §4.2's stage mapping table.
func resolveStage(stage int) (int, error) {
	switch {
	case stage >= 0 && stage <= 15:
		return stage, nil
	case stage >= vertexTextureSamplerBase && stage <= vertexTextureSamplerBase+vertexTextureSamplerMax:
		return vertexTextureSlotBase + stage - vertexTextureSamplerBase, nil
	default:
		return 0, InvalidCall
	}
}

// SetTexture binds texture t to stage. Same-pointer calls are a no-op
// (invariant 4: idempotent, exactly one net private add-ref); changing
// the binding releases the private refcount on the old texture and adds
// one on the new.
func (d *Device) SetTexture(stage int, t *Texture) error {
	idx, err := resolveStage(stage)
	if err != nil {
		return err
	}
	cur := d.state.textures[idx].texture
	if cur == t {
		return nil
	}
	if cur != nil {
		cur.releasePrivate()
	}
	d.state.textures[idx].texture = t
	if t != nil {
		t.addRefPrivate()
	}
	return nil
}

// GetTexture returns the texture bound at stage.
func (d *Device) GetTexture(stage int) (*Texture, error) {
	idx, err := resolveStage(stage)
	if err != nil {
		return nil, err
	}
	t := d.state.textures[idx].texture
	if t == nil {
		return nil, NotFound
	}
	return t, nil
}

// SetStreamSource records a vertex-buffer slot; issueDraw binds every
// recorded slot into each draw's render pass.
func (d *Device) SetStreamSource(streamNumber int, b *VertexBuffer, offset, stride uint32) error {
	if streamNumber < 0 || streamNumber >= maxStreams {
		return InvalidCall
	}
	if old := d.state.streams[streamNumber].buffer; old != nil {
		old.releasePrivate()
	}
	d.state.streams[streamNumber] = streamBinding{buffer: b, offset: offset, stride: stride}
	if b != nil {
		b.addRefPrivate()
	}
	return nil
}

// SetIndices records the index buffer; DrawIndexedPrimitive binds it into
// the draw's render pass. §9 open
// question 4: the source dereferences the incoming wrapper before
// checking it for nil, so a nil argument crashes. Preserved deliberately
// (see DESIGN.md) rather than silently guarded.
func (d *Device) SetIndices(ib *IndexBuffer) error {
	_ = ib.raw // intentional: mirrors the source's unchecked dereference
	if old := d.state.indices; old != nil {
		old.releasePrivate()
	}
	d.state.indices = ib
	ib.addRefPrivate()
	return nil
}

// SetViewport records the viewport; issueDraw applies it to every draw's
// render pass, so no dirty bit is needed.
func (d *Device) SetViewport(v Viewport) error {
	d.state.viewport = v
	return nil
}

// GetViewport returns the currently bound viewport.
func (d *Device) GetViewport() Viewport { return d.state.viewport }

// SetScissorRect records the scissor rectangle; issueDraw applies it to
// every draw's render pass.
func (d *Device) SetScissorRect(r Rect) error {
	d.state.scissor = r
	return nil
}

// GetScissorRect returns the currently bound scissor rectangle.
func (d *Device) GetScissorRect() Rect { return d.state.scissor }

// SetClipPlane assigns one of the 6 user clip planes.
func (d *Device) SetClipPlane(index int, plane ClipPlane) error {
	if index < 0 || index >= len(d.state.clipPlanes) {
		return InvalidCall
	}
	d.state.clipPlanes[index] = plane
	return nil
}

// GetClipPlane returns one of the 6 user clip planes.
func (d *Device) GetClipPlane(index int) (ClipPlane, error) {
	if index < 0 || index >= len(d.state.clipPlanes) {
		return ClipPlane{}, InvalidCall
	}
	return d.state.clipPlanes[index], nil
}

// SetVertexShaderConstantF/I/B and SetPixelShaderConstantF/I/B delegate
// to the constants.Manager collaborator, per §3's ConstantManager field.

func (d *Device) SetVertexShaderConstantF(startRegister uint32, data []float32) error {
	return wrapConstantsErr(d.constants.SetFloat(constants.Vertex, startRegister, data))
}

func (d *Device) GetVertexShaderConstantF(startRegister, count uint32) ([]float32, error) {
	out, err := d.constants.GetFloat(constants.Vertex, startRegister, count)
	return out, wrapConstantsErr(err)
}

func (d *Device) SetPixelShaderConstantF(startRegister uint32, data []float32) error {
	return wrapConstantsErr(d.constants.SetFloat(constants.Pixel, startRegister, data))
}

func (d *Device) GetPixelShaderConstantF(startRegister, count uint32) ([]float32, error) {
	out, err := d.constants.GetFloat(constants.Pixel, startRegister, count)
	return out, wrapConstantsErr(err)
}

func (d *Device) SetVertexShaderConstantI(startRegister uint32, data [][4]int32) error {
	return wrapConstantsErr(d.constants.SetInt(constants.Vertex, startRegister, data))
}

func (d *Device) SetPixelShaderConstantI(startRegister uint32, data [][4]int32) error {
	return wrapConstantsErr(d.constants.SetInt(constants.Pixel, startRegister, data))
}

func (d *Device) SetVertexShaderConstantB(startRegister uint32, data []bool) error {
	return wrapConstantsErr(d.constants.SetBool(constants.Vertex, startRegister, data))
}

func (d *Device) SetPixelShaderConstantB(startRegister uint32, data []bool) error {
	return wrapConstantsErr(d.constants.SetBool(constants.Pixel, startRegister, data))
}

func wrapConstantsErr(err error) error {
	if err == nil {
		return nil
	}
	return wrapResult(InvalidCall, fmt.Errorf("constants: %w", err))
}
