package dxup

import (
	"fmt"
	"math/rand"

	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/dxcfg"
	"github.com/simulasi2/dxup/gfx"
)

// copyBox is the 2D region StretchRect resolves a source rectangle into
// before handing it to the backend's texture-copy primitive.
type copyBox struct {
	left, top, right, bottom int32
}

// StretchRect copies (without true scaling or filtering — only the 2D
// region is honoured, per §4.7) a subresource region from src to dst.
// Both surfaces must be backed by a 2D texture.
func (d *Device) StretchRect(src *Surface, srcRect *Rect, dst *Surface, dstRect *Rect) error {
	if src == nil || dst == nil {
		return InvalidCall
	}

	var box copyBox
	if srcRect != nil {
		box = copyBox{left: srcRect.Left, top: srcRect.Top, right: srcRect.Right, bottom: srcRect.Bottom}
		// §9 open question 5: the source overwrites box.top to 0
		// immediately after setting it from the source rect, so the
		// source rectangle's top coordinate is effectively ignored.
		// Preserved deliberately; see DESIGN.md.
		box.top = 0
	} else {
		box = copyBox{0, 0, int32(src.tex.width), int32(src.tex.height)}
	}

	var dstX, dstY uint32
	if dstRect != nil {
		dstX, dstY = uint32(dstRect.Left), uint32(dstRect.Top)
	}

	encoder, err := d.gfxDevice.NewCommandEncoder("dxup-stretchrect")
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	size := gfx.Extent3D{Width: uint32(box.right - box.left), Height: uint32(box.bottom - box.top), DepthOrArrayLayers: 1}
	err = encoder.CopyTextureToTexture(
		src.tex.raw, gfx.Origin3D{X: uint32(box.left), Y: uint32(box.top)},
		dst.tex.raw, gfx.Origin3D{X: dstX, Y: dstY},
		size, src.level, dst.level,
	)
	if err != nil {
		return wrapResult(InvalidCall, fmt.Errorf("StretchRect: %w", err))
	}
	cmd, err := encoder.Finish()
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	if err := d.gfxDevice.Queue().Submit(cmd); err != nil {
		return wrapResult(DeviceLost, err)
	}
	return nil
}

// UpdateSurface reduces to StretchRect, per §4.7: srcRect is passed
// through (nil means the whole source) and dstPoint becomes the top-left
// corner of the destination rect.
func (d *Device) UpdateSurface(src *Surface, srcRect *Rect, dst *Surface, dstPoint *struct{ X, Y int32 }) error {
	var dstRect *Rect
	if dstPoint != nil {
		dstRect = &Rect{Left: dstPoint.X, Top: dstPoint.Y}
	}
	return d.StretchRect(src, srcRect, dst, dstRect)
}

// UpdateTexture accepts only a TEXTURE-kind resource (volume/cube
// textures are out of scope, per §1's Non-goals); it reduces to
// StretchRect on level 0. The destination's mip chain is not regenerated,
// even when it was created with UsageAutoGenMipMap.
func (d *Device) UpdateTexture(src, dst *Texture) error {
	srcSurf := &Surface{refcount: newRefcount(nil), tex: src}
	dstSurf := &Surface{refcount: newRefcount(nil), tex: dst}
	if err := d.StretchRect(srcSurf, nil, dstSurf, nil); err != nil {
		return err
	}
	if dst.usage&UsageAutoGenMipMap != 0 {
		// Mip regeneration is not implemented; accepted silently per §1's
		// Non-goal on full fixed-function texture-stage emulation.
	}
	return nil
}

// GetRenderTargetData reduces to StretchRect from the bound render target
// to a caller-supplied system-memory-pool surface.
func (d *Device) GetRenderTargetData(rt, dst *Surface) error {
	return d.StretchRect(rt, nil, dst, nil)
}

// Clear implements the legacy Clear(flags, color, z, stencil), per §4.7.
// Per §9 open question 6, the render-target-unbind-loop style quirk
// carries over here too: every one of the 4 render-target slots is
// always consulted regardless of how many are actually meaningful to the
// caller, clearing whichever are non-nil.
func (d *Device) Clear(flags ClearFlag, color Color, z float32, stencil uint32) error {
	if flags&ClearTarget != 0 {
		c := color
		if dxcfg.Default.GetBool(dxcfg.RandomClearColour) {
			c = Color{R: rand.Float32(), G: rand.Float32(), B: rand.Float32(), A: 1}
		}
		for i := 0; i < maxRenderTargets; i++ {
			rt := d.state.renderTarget[i]
			if rt == nil {
				continue
			}
			if err := d.clearColorTarget(rt, c); err != nil {
				return err
			}
		}
	}

	if (flags&ClearZBuffer != 0 || flags&ClearStencil != 0) && d.state.depthStencil != nil {
		if err := d.clearDepthStencilSurface(d.state.depthStencil, z, stencil); err != nil {
			return err
		}
	}
	return nil
}

// ColorFill fills a surface with a solid color through the same
// clearColorTarget helper Clear uses. rect is ignored: the whole surface
// is always filled.
func (d *Device) ColorFill(surface *Surface, rect *Rect, color Color) error {
	return d.clearColorTarget(surface, color)
}

func (d *Device) clearColorTarget(rt *Surface, c Color) error {
	view, err := rt.view()
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	return d.clearViaRenderPass(gfx.RenderPassDesc{
		ColorView:    view,
		ColorLoadOp:  gputypes.LoadOpClear,
		ColorStoreOp: gputypes.StoreOpStore,
		ClearColor:   gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)},
	})
}

func (d *Device) clearDepthStencilSurface(ds *Surface, depth float32, stencil uint32) error {
	view, err := ds.view()
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	return d.clearViaRenderPass(gfx.RenderPassDesc{
		DepthStencilView: view,
		DepthLoadOp:      gputypes.LoadOpClear,
		DepthStoreOp:     gputypes.StoreOpStore,
		ClearDepth:       depth,
		StencilLoadOp:    gputypes.LoadOpClear,
		StencilStoreOp:   gputypes.StoreOpStore,
		ClearStencil:     stencil,
	})
}

// clearViaRenderPass clears by opening a render pass with the
// appropriate LoadOpClear attachment and immediately ending it, since
// ModernGfx (unlike the legacy driver) has no standalone Clear call.
func (d *Device) clearViaRenderPass(desc gfx.RenderPassDesc) error {
	if desc.ColorView == nil {
		desc.ColorLoadOp = gputypes.LoadOpLoad
		desc.ColorStoreOp = gputypes.StoreOpStore
	}
	encoder, err := d.gfxDevice.NewCommandEncoder("dxup-clear")
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
	if desc.ColorView == nil {
		// A depth-only clear still needs a bound color attachment for a
		// valid render pass; reuse render target 0 in Load mode.
		if rt := d.state.renderTarget[0]; rt != nil {
			view, err := rt.view()
			if err != nil {
				return wrapResult(InvalidCall, err)
			}
			desc.ColorView = view
		}
	}
	pass, err := encoder.BeginRenderPass(desc)
	if err != nil {
		return wrapResult(InvalidCall, err)
	}
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
	return nil
}
