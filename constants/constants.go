// Package constants states the shader-constant buffer manager the
// device runtime delegates SetVertexShaderConstant{F,I,B} and
// SetPixelShaderConstant{F,I,B} to, and calls to flush dirty registers
// into a GPU-visible buffer immediately before a draw.
package constants

// ShaderType selects which stage's constant bank a call addresses.
type ShaderType int

const (
	Vertex ShaderType = iota
	Pixel
)

// BufferType selects which of the three independent register files
// (float4, int4, bool) a call addresses. D3D9 shaders read all three
// through distinct opcodes, so they never alias.
type BufferType int

const (
	Float BufferType = iota
	Int
	Bool
)

// Manager tracks the constant registers for both shader stages and
// exposes a PrepareDraw hook that uploads whatever changed since the
// last draw.
type Manager interface {
	SetFloat(stage ShaderType, startRegister uint32, data []float32) error
	GetFloat(stage ShaderType, startRegister uint32, count uint32) ([]float32, error)
	SetInt(stage ShaderType, startRegister uint32, data [][4]int32) error
	GetInt(stage ShaderType, startRegister uint32, count uint32) ([][4]int32, error)
	SetBool(stage ShaderType, startRegister uint32, data []bool) error
	GetBool(stage ShaderType, startRegister uint32, count uint32) ([]bool, error)

	// PrepareDraw uploads any registers dirtied since the previous call
	// and returns whether an upload happened (for cache-reuse tests).
	PrepareDraw() (uploaded bool, err error)
}

// Register counts the legacy driver enforces per stage.
const (
	MaxFloatRegisters = 256
	MaxIntRegisters   = 16
	MaxBoolRegisters  = 16
)
