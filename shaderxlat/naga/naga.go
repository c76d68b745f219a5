// Package naga adapts github.com/gogpu/naga to the shaderxlat.Translator
// interface. naga.Compile only accepts WGSL text, so this translator
// treats its input as WGSL source; the legacy bytecode-to-WGSL
// decompilation step is assumed to have already happened upstream of
// the device runtime.
package naga

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/simulasi2/dxup/shaderxlat"
)

// Translator compiles WGSL source to SPIR-V via naga.Compile.
type Translator struct{}

// New returns a ready-to-use Translator. naga.Compile holds no state, so
// every Translator value is equivalent; New exists for symmetry with
// other collaborator constructors and so call sites read the same way.
func New() *Translator {
	return &Translator{}
}

// Translate implements shaderxlat.Translator.
func (Translator) Translate(stage shaderxlat.Stage, source []byte) ([]byte, error) {
	spirv, err := naga.Compile(string(source))
	if err != nil {
		return nil, fmt.Errorf("naga: compile %s shader: %w", stage, err)
	}
	return spirv, nil
}
