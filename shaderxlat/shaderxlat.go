// Package shaderxlat states the shader-translation collaborator the
// device runtime calls out to when building a shader wrapper: legacy
// bytecode (already decompiled to shader text upstream) in, a compiled
// module byte stream the target ModernGfx API accepts out.
package shaderxlat

// Stage names which pipeline stage a shader belongs to, for translators
// that need it (entry point selection, stage-specific validation).
type Stage int

const (
	StageVertex Stage = iota
	StagePixel
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "pixel"
}

// Translator turns one shader's source into the bytecode the ModernGfx
// backend's CreateShaderModule expects.
type Translator interface {
	Translate(stage Stage, source []byte) ([]byte, error)
}
