package dxup

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/simulasi2/dxup/dxcfg"
	"github.com/simulasi2/dxup/dxlog"
	"github.com/simulasi2/dxup/gfx"
	"github.com/simulasi2/dxup/shaderxlat"
)

// Shader wraps one compiled pipeline-stage program: the original legacy
// bytecode (opaque to the device, kept only for ShaderDump and clone
// semantics), the translated bytecode, the created ModernGfx shader
// handle, and an input-layout cache keyed by vertex-declaration identity
// (vertex shaders only; inputLayouts stays nil for pixel shaders).
//
// device is a back-reference used only to reach the shader dump
// directory and translator; per §9's design note on cyclic
// back-references, it is weak in the sense that a Shader cannot outlive
// the Device that created it — the device never calls through a shader
// after tearing itself down, so no explicit guard is required.
type Shader struct {
	*refcount
	device *Device
	stage  shaderxlat.Stage
	id     uint64

	legacyBytecode []byte
	translated     []byte
	raw            gfx.Shader

	inputLayouts map[*VertexDeclaration][]gfx.VertexBufferLayout
}

// Process-wide monotonic counters, one per stage, used only for
// shader-dump filenames. §9 flags these as suspect global state in the
// original; kept global here since forensic shader dumps are meant to be
// correlated across every device in the process, matching source
// behavior, not an oversight.
var (
	vertexShaderSerial atomic.Uint64
	pixelShaderSerial  atomic.Uint64
)

// createShader is the generic factory both CreateVertexShader and
// CreatePixelShader delegate to, per §4.6's numbered sequence.
func (d *Device) createShader(stage shaderxlat.Stage, legacyBytecode []byte) (*Shader, error) {
	var id uint64
	if stage == shaderxlat.StageVertex {
		id = vertexShaderSerial.Add(1)
	} else {
		id = pixelShaderSerial.Add(1)
	}

	if dxcfg.Default.GetBool(dxcfg.ShaderDump) {
		dumpBytecode(stage, id, "dx9asm", legacyBytecode)
	}

	translated, err := d.translator.Translate(stage, legacyBytecode)
	if err != nil {
		dxlog.Logger().Warn("dxup: shader translation failed", "stage", stage, "id", id, "error", err)
		return nil, wrapResult(InvalidCall, err)
	}

	if dxcfg.Default.GetBool(dxcfg.ShaderDump) {
		dumpBytecode(stage, id, "spv", translated)
	}

	words, err := spirvWords(translated)
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("shader wrapper: %w", err))
	}

	raw, err := d.gfxDevice.CreateShaderModule(gfx.ShaderDesc{
		Label: fmt.Sprintf("dxup-%s-%d", stage, id),
		SPIRV: words,
	})
	if err != nil {
		return nil, wrapResult(InvalidCall, fmt.Errorf("create shader module: %w", err))
	}

	s := &Shader{
		device:         d,
		stage:          stage,
		id:             id,
		legacyBytecode: legacyBytecode,
		translated:     translated,
		raw:            raw,
	}
	if stage == shaderxlat.StageVertex {
		s.inputLayouts = make(map[*VertexDeclaration][]gfx.VertexBufferLayout)
	}
	s.refcount = newRefcount(func() { raw.Destroy() })
	return s, nil
}

// CreateVertexShader implements the legacy device method.
func (d *Device) CreateVertexShader(bytecode []byte) (*Shader, error) {
	return d.createShader(shaderxlat.StageVertex, bytecode)
}

// CreatePixelShader implements the legacy device method.
func (d *Device) CreatePixelShader(bytecode []byte) (*Shader, error) {
	return d.createShader(shaderxlat.StagePixel, bytecode)
}

// spirvWords packs a raw SPIR-V byte blob (naga.Compile's output) into
// the little-endian uint32 words wgpu.ShaderModuleDescriptor.SPIRV
// expects.
func spirvWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V blob length %d is not a multiple of 4", len(b))
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out, nil
}

// dumpBytecode writes a shader-dump blob to shaderdump/<stage>_<id>.<ext>,
// creating the directory if missing. Errors are logged, not propagated:
// §7 treats shader dumping as best-effort diagnostics, never a reason to
// fail shader creation.
func dumpBytecode(stage shaderxlat.Stage, id uint64, ext string, data []byte) {
	dir := "shaderdump"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		dxlog.Logger().Warn("dxup: shader dump mkdir failed", "error", err)
		return
	}
	name := fmt.Sprintf("%s_%d.%s", stage, id, ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		dxlog.Logger().Warn("dxup: shader dump write failed", "path", path, "error", err)
	}
}

// inputLayoutFor returns the cached per-stream vertex-buffer layout for
// decl, building it on miss from the declaration's own layouts. Building
// is a cheap slice copy rather than a GPU call (ModernGfx folds the
// layout directly into the render pipeline descriptor), but the cache
// still exists so repeated draws with the same (vs, vdecl) pair skip even
// that, and S4's rebuild-on-swap behavior is observable in tests.
func (s *Shader) inputLayoutFor(decl *VertexDeclaration) []gfx.VertexBufferLayout {
	if layout, ok := s.inputLayouts[decl]; ok {
		return layout
	}
	layout := append([]gfx.VertexBufferLayout(nil), decl.layouts...)
	s.inputLayouts[decl] = layout
	return layout
}
