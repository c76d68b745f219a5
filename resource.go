package dxup

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/gfx"
)

// Texture is the concrete backing for every 2D-texture-shaped resource:
// ordinary textures, render targets, and depth-stencil surfaces are all a
// Texture with singleton set for the latter two (exactly one addressable
// mip level, per §9's "singleton surface" design note).
type Texture struct {
	*refcount
	device *Device
	raw    gfx.Texture

	width, height uint32
	levels        uint32
	format        Format
	pool          Pool
	usage         Usage
	singleton     bool
	discard       bool // depth-discard semantics, consulted by the Present path

	views map[uint32]gfx.TextureView
}

func (t *Texture) viewForLevel(level uint32) (gfx.TextureView, error) {
	if v, ok := t.views[level]; ok {
		return v, nil
	}
	v, err := t.raw.CreateView(gfx.TextureViewDesc{})
	if err != nil {
		return nil, fmt.Errorf("dxup: create view for level %d: %w", level, err)
	}
	if t.views == nil {
		t.views = make(map[uint32]gfx.TextureView)
	}
	t.views[level] = v
	return v, nil
}

func (t *Texture) destroy() {
	for _, v := range t.views {
		v.Destroy()
	}
	t.raw.Destroy()
}

// Surface is a single addressable mip level of a Texture. Render targets
// and depth-stencil bindings hold a *Surface, always level 0 for
// singleton textures.
type Surface struct {
	*refcount
	tex   *Texture
	level uint32
}

func (s *Surface) view() (gfx.TextureView, error) { return s.tex.viewForLevel(s.level) }

// VertexBuffer backs SetStreamSource.
type VertexBuffer struct {
	*refcount
	raw    gfx.Buffer
	length uint32
	usage  Usage
	pool   Pool
}

// IndexBuffer backs SetIndices. Format is derived from the legacy
// D3DFORMAT passed at creation (INDEX16 or INDEX32).
type IndexBuffer struct {
	*refcount
	raw    gfx.Buffer
	length uint32
	format gputypes.IndexFormat
}

// VertexElementType mirrors the legacy D3DDECLTYPE enum values the
// resource factory actually converts.
type VertexElementType uint8

const (
	DeclTypeFloat1 VertexElementType = iota
	DeclTypeFloat2
	DeclTypeFloat3
	DeclTypeFloat4
	DeclTypeD3DColor
	DeclTypeUByte4
	DeclTypeShort2
	DeclTypeShort4
	DeclTypeUByte4N
	DeclTypeShort2N
	DeclTypeShort4N
	DeclTypeUShort2N
	DeclTypeUShort4N
)

// VertexElementUsage mirrors the legacy D3DDECLUSAGE enum.
type VertexElementUsage uint8

const (
	UsagePosition VertexElementUsage = iota
	UsageBlendWeight
	UsageBlendIndices
	UsageNormal
	UsagePSize
	UsageTexCoord
	UsageTangent
	UsageBinormal
	UsageTessFactor
	UsagePositionT
	UsageColor
	UsageFog
	UsageDepth
	UsageSample
)

// VertexElement is one entry of a legacy vertex declaration.
type VertexElement struct {
	Stream     uint16
	Offset     uint16
	Type       VertexElementType
	Usage      VertexElementUsage
	UsageIndex byte
}

// declEndStream is the sentinel stream value (0xFFFF in the real
// D3DDECL_END macro) terminating a legacy element array.
const declEndStream = 0xFFFF

// DeclEnd is the terminator callers append to a vertex element list
// passed to CreateVertexDeclaration, mirroring D3DDECL_END().
var DeclEnd = VertexElement{Stream: declEndStream}

// VertexDeclaration holds the legacy element list (preserved for clones
// and equality checks) plus the ModernGfx per-stream layouts derived from
// it. Identity (pointer equality), not content, is what the input-layout
// binder keys on.
type VertexDeclaration struct {
	*refcount
	elements []VertexElement
	layouts  []gfx.VertexBufferLayout
}

func elementFormat(t VertexElementType) gputypes.VertexFormat {
	switch t {
	case DeclTypeFloat1:
		return gputypes.VertexFormatFloat32
	case DeclTypeFloat2:
		return gputypes.VertexFormatFloat32x2
	case DeclTypeFloat3:
		return gputypes.VertexFormatFloat32x3
	case DeclTypeFloat4:
		return gputypes.VertexFormatFloat32x4
	case DeclTypeD3DColor, DeclTypeUByte4:
		return gputypes.VertexFormatUint8x4
	case DeclTypeUByte4N:
		return gputypes.VertexFormatUint8x4 // normalization not modeled separately
	case DeclTypeShort2:
		return gputypes.VertexFormatSint16x2
	case DeclTypeShort4:
		return gputypes.VertexFormatSint16x4
	case DeclTypeShort2N:
		return gputypes.VertexFormatSint16x2
	case DeclTypeShort4N:
		return gputypes.VertexFormatSint16x4
	case DeclTypeUShort2N:
		return gputypes.VertexFormatUint16x2
	case DeclTypeUShort4N:
		return gputypes.VertexFormatUint16x4
	default:
		return gputypes.VertexFormatFloat32x4
	}
}

// semanticSlot assigns a WGSL @location to a legacy (usage, usageIndex)
// pair. Shaders produced by shaderxlat are expected to bind attributes at
// these fixed locations; see DESIGN.md's resource.go entry.
func semanticSlot(usage VertexElementUsage, index byte) uint32 {
	base := map[VertexElementUsage]uint32{
		UsagePosition:     0,
		UsageBlendWeight:  1,
		UsageBlendIndices: 2,
		UsageNormal:       3,
		UsagePSize:        4,
		UsageTexCoord:     5,
		UsageTangent:      13,
		UsageBinormal:     14,
		UsageTessFactor:   15,
		UsagePositionT:    0,
		UsageColor:        16,
		UsageFog:          18,
		UsageDepth:        19,
		UsageSample:       20,
	}[usage]
	return base + uint32(index)
}

// CreateVertexDeclaration walks the legacy element array until the
// DeclEnd sentinel, converting each entry into the ModernGfx per-stream
// vertex-buffer layouts the input-layout binder consumes.
func (d *Device) CreateVertexDeclaration(elements []VertexElement) (*VertexDeclaration, error) {
	var trimmed []VertexElement
	for _, e := range elements {
		if e.Stream == declEndStream {
			break
		}
		trimmed = append(trimmed, e)
	}

	byStream := map[uint16][]VertexElement{}
	streamOrder := []uint16{}
	for _, e := range trimmed {
		if _, ok := byStream[e.Stream]; !ok {
			streamOrder = append(streamOrder, e.Stream)
		}
		byStream[e.Stream] = append(byStream[e.Stream], e)
	}

	layouts := make([]gfx.VertexBufferLayout, 0, len(streamOrder))
	for _, stream := range streamOrder {
		elems := byStream[stream]
		attrs := make([]gfx.VertexAttribute, len(elems))
		var stride uint64
		for i, e := range elems {
			attrs[i] = gfx.VertexAttribute{
				Format:         elementFormat(e.Type),
				Offset:         uint64(e.Offset),
				ShaderLocation: semanticSlot(e.Usage, e.UsageIndex),
			}
			if end := uint64(e.Offset) + formatSize(e.Type); end > stride {
				stride = end
			}
		}
		layouts = append(layouts, gfx.VertexBufferLayout{
			ArrayStride: stride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}

	return &VertexDeclaration{
		refcount: newRefcount(nil),
		elements: trimmed,
		layouts:  layouts,
	}, nil
}

func formatSize(t VertexElementType) uint64 {
	switch t {
	case DeclTypeFloat1:
		return 4
	case DeclTypeFloat2, DeclTypeShort4, DeclTypeShort4N, DeclTypeUShort4N:
		return 8
	case DeclTypeFloat3:
		return 12
	case DeclTypeFloat4:
		return 16
	case DeclTypeD3DColor, DeclTypeUByte4, DeclTypeUByte4N, DeclTypeShort2, DeclTypeShort2N, DeclTypeUShort2N:
		return 4
	default:
		return 16
	}
}

// textureUsage computes the ModernGfx usage flags for a texture: sampling
// and copy in both directions always, plus render attachment for render
// targets and depth-stencil surfaces. pool and singleton do not affect the
// result; dynamic and staging textures get the same flags as any other.
func textureUsage(pool Pool, usage Usage, singleton bool) gputypes.TextureUsage {
	out := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc
	if usage&UsageRenderTarget != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	if usage&UsageDepthStencil != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

// CreateTextureInternal is the single funnel every texture-shaped
// resource (ordinary texture, render target, depth-stencil surface) goes
// through, per §4.4.
func (d *Device) CreateTextureInternal(singleton bool, width, height, levels uint32, usage Usage, format Format, pool Pool, discard bool) (*Texture, error) {
	gf := resolveFormat(format, usage)
	if levels == 0 {
		levels = 1
	}
	raw, err := d.gfxDevice.CreateTexture(gfx.TextureDesc{
		Size:          gfx.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gf,
		Usage:         textureUsage(pool, usage, singleton),
	})
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("create texture: %w", err))
	}
	return &Texture{
		refcount:  newRefcount(nil),
		device:    d,
		raw:       raw,
		width:     width,
		height:    height,
		levels:    levels,
		format:    format,
		pool:      pool,
		usage:     usage,
		singleton: singleton,
		discard:   discard,
	}, nil
}

// CreateRenderTarget wraps CreateTextureInternal to produce a one-level
// singleton texture and returns its level-0 surface.
func (d *Device) CreateRenderTarget(width, height uint32, format Format, discard bool) (*Surface, error) {
	tex, err := d.CreateTextureInternal(true, width, height, 1, UsageRenderTarget, format, PoolDefault, discard)
	if err != nil {
		return nil, err
	}
	return &Surface{refcount: newRefcount(func() { tex.destroy() }), tex: tex}, nil
}

// CreateDepthStencilSurface mirrors CreateRenderTarget for depth-stencil
// bindings.
func (d *Device) CreateDepthStencilSurface(width, height uint32, format Format, discard bool) (*Surface, error) {
	tex, err := d.CreateTextureInternal(true, width, height, 1, UsageDepthStencil, format, PoolDefault, discard)
	if err != nil {
		return nil, err
	}
	return &Surface{refcount: newRefcount(func() { tex.destroy() }), tex: tex}, nil
}

// CreateVertexBuffer translates the legacy create arguments to a
// ModernGfx buffer descriptor.
func (d *Device) CreateVertexBuffer(length uint32, usage Usage, pool Pool) (*VertexBuffer, error) {
	bufUsage := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	raw, err := d.gfxDevice.CreateBuffer(gfx.BufferDesc{Size: uint64(length), Usage: bufUsage})
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("create vertex buffer: %w", err))
	}
	vb := &VertexBuffer{raw: raw, length: length, usage: usage, pool: pool}
	vb.refcount = newRefcount(func() { raw.Destroy() })
	return vb, nil
}

// CreateIndexBuffer translates the legacy create arguments to a ModernGfx
// buffer descriptor; format comes from the caller's D3DFORMAT argument
// (INDEX16 or INDEX32).
func (d *Device) CreateIndexBuffer(length uint32, usage Usage, format Format) (*IndexBuffer, error) {
	bufUsage := gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	raw, err := d.gfxDevice.CreateBuffer(gfx.BufferDesc{Size: uint64(length), Usage: bufUsage})
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("create index buffer: %w", err))
	}
	idxFormat := gputypes.IndexFormatUint16
	if format == FormatINDEX32 {
		idxFormat = gputypes.IndexFormatUint32
	}
	ib := &IndexBuffer{raw: raw, length: length, format: idxFormat}
	ib.refcount = newRefcount(func() { raw.Destroy() })
	return ib, nil
}

// resolveFormat maps a legacy D3DFORMAT (substituting the implicit
// depth/color default when unknown) to the gputypes.TextureFormat the
// backend actually allocates.
func resolveFormat(f Format, usage Usage) gputypes.TextureFormat {
	if usage&UsageDepthStencil != 0 {
		return gputypes.TextureFormatDepth24PlusStencil8
	}
	switch f {
	case FormatA8R8G8B8, FormatX8R8G8B8:
		return gputypes.TextureFormatBGRA8Unorm
	case FormatD24S8:
		return gputypes.TextureFormatDepth24PlusStencil8
	case FormatD32:
		return gputypes.TextureFormatDepth32Float
	case FormatUnknown, FormatA8B8G8R8:
		fallthrough
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}
