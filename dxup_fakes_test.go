package dxup

import (
	"github.com/simulasi2/dxup/constants"
	"github.com/simulasi2/dxup/gfx"
	"github.com/simulasi2/dxup/gfx/gfxfake"
	"github.com/simulasi2/dxup/shaderxlat"
	"github.com/simulasi2/dxup/swapchain"
)

// fakeSwapChain is a minimal swapchain.SwapChain backed by an in-memory
// texture view, letting tests drive Reset/Present without a real surface.
type fakeSwapChain struct {
	view gfx.TextureView
}

func newFakeSwapChain() *fakeSwapChain { return &fakeSwapChain{view: &fakeView{}} }

func (s *fakeSwapChain) GetBackBuffer() (gfx.Texture, gfx.TextureView, error) {
	return nil, s.view, nil
}
func (s *fakeSwapChain) Present(hwndOverride uintptr) error                { return nil }
func (s *fakeSwapChain) Reset(params swapchain.PresentParameters) error     { return nil }
func (s *fakeSwapChain) Test() error                                       { return nil }
func (s *fakeSwapChain) Destroy()                                          {}

type fakeView struct{}

func (v *fakeView) Destroy() {}

// fakeTranslator passes bytecode through unchanged, padded to a multiple
// of 4 bytes so spirvWords never errors on it.
type fakeTranslator struct{}

func (fakeTranslator) Translate(stage shaderxlat.Stage, source []byte) ([]byte, error) {
	out := append([]byte(nil), source...)
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	if len(out) == 0 {
		out = []byte{0, 0, 0, 0}
	}
	return out, nil
}

// fakeConstants satisfies constants.Manager without touching a GPU buffer.
type fakeConstants struct{}

func (fakeConstants) SetFloat(stage constants.ShaderType, start uint32, data []float32) error {
	return nil
}
func (fakeConstants) GetFloat(stage constants.ShaderType, start, count uint32) ([]float32, error) {
	return make([]float32, count*4), nil
}
func (fakeConstants) SetInt(stage constants.ShaderType, start uint32, data [][4]int32) error {
	return nil
}
func (fakeConstants) GetInt(stage constants.ShaderType, start, count uint32) ([][4]int32, error) {
	return make([][4]int32, count), nil
}
func (fakeConstants) SetBool(stage constants.ShaderType, start uint32, data []bool) error {
	return nil
}
func (fakeConstants) GetBool(stage constants.ShaderType, start, count uint32) ([]bool, error) {
	return make([]bool, count), nil
}
func (fakeConstants) PrepareDraw() (bool, error) { return false, nil }

// newTestDevice builds a *Device wired entirely to fakes, bypassing
// Create's wgpubackend.Open call so tests run without a real adapter.
func newTestDevice() *Device {
	d := &Device{
		gfxDevice:  gfxfake.New(),
		openSwap:   func(swapchain.PresentParameters) (swapchain.SwapChain, error) { return newFakeSwapChain(), nil },
		translator: fakeTranslator{},
		constants:  fakeConstants{},

		rasterizerCache:   newStateCache[gfx.RasterizerDesc, gfx.RasterizerState](),
		blendCache:        newStateCache[gfx.BlendDesc, gfx.BlendState](),
		depthStencilCache: newStateCache[gfx.DepthStencilDesc, gfx.DepthStencilState](),
		pipelineCache:     newStateCache[pipelineKey, gfx.Pipeline](),
	}
	if err := d.Reset(swapchain.PresentParameters{BackBufferWidth: 800, BackBufferHeight: 600}); err != nil {
		panic(err)
	}
	return d
}
