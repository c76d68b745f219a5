package constants

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/gfx"
)

type bank struct {
	float   [MaxFloatRegisters][4]float32
	integer [MaxIntRegisters][4]int32
	boolean [MaxBoolRegisters]bool
	dirty   bool
}

// BufferManager is the reference constants.Manager implementation: two
// register banks (vertex, pixel) backed by one uniform buffer each,
// uploaded lazily on PrepareDraw.
type BufferManager struct {
	device  gfx.Device
	queue   gfx.Queue
	banks   [2]bank
	buffers [2]gfx.Buffer
}

// NewBufferManager allocates the backing uniform buffers for both
// shader stages. Buffer size covers the float bank only: D3D9 constant
// registers are almost always float4s in practice, and int/bool
// registers are validated and stored for GetXConstant round-trips but
// are not currently packed into the uploaded buffer layout.
func NewBufferManager(device gfx.Device, queue gfx.Queue) (*BufferManager, error) {
	m := &BufferManager{device: device, queue: queue}
	for i := range m.buffers {
		buf, err := device.CreateBuffer(gfx.BufferDesc{
			Label: fmt.Sprintf("dxup-shader-constants-%d", i),
			Size:  uint64(MaxFloatRegisters * 4 * 4), // 256 * float4 * 4 bytes
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("constants: allocate buffer: %w", err)
		}
		m.buffers[i] = buf
	}
	return m, nil
}

func (m *BufferManager) SetFloat(stage ShaderType, startRegister uint32, data []float32) error {
	if len(data)%4 != 0 {
		return fmt.Errorf("constants: SetFloat: data length %d is not a multiple of 4", len(data))
	}
	count := uint32(len(data) / 4)
	if startRegister+count > MaxFloatRegisters {
		return fmt.Errorf("constants: SetFloat: register range [%d,%d) exceeds %d", startRegister, startRegister+count, MaxFloatRegisters)
	}
	b := &m.banks[stage]
	for i := uint32(0); i < count; i++ {
		copy(b.float[startRegister+i][:], data[i*4:i*4+4])
	}
	b.dirty = true
	return nil
}

func (m *BufferManager) GetFloat(stage ShaderType, startRegister uint32, count uint32) ([]float32, error) {
	if startRegister+count > MaxFloatRegisters {
		return nil, fmt.Errorf("constants: GetFloat: register range [%d,%d) exceeds %d", startRegister, startRegister+count, MaxFloatRegisters)
	}
	out := make([]float32, 0, count*4)
	b := &m.banks[stage]
	for i := uint32(0); i < count; i++ {
		out = append(out, b.float[startRegister+i][:]...)
	}
	return out, nil
}

func (m *BufferManager) SetInt(stage ShaderType, startRegister uint32, data [][4]int32) error {
	if startRegister+uint32(len(data)) > MaxIntRegisters {
		return fmt.Errorf("constants: SetInt: register range exceeds %d", MaxIntRegisters)
	}
	b := &m.banks[stage]
	for i, v := range data {
		b.integer[startRegister+uint32(i)] = v
	}
	b.dirty = true
	return nil
}

func (m *BufferManager) GetInt(stage ShaderType, startRegister uint32, count uint32) ([][4]int32, error) {
	if startRegister+count > MaxIntRegisters {
		return nil, fmt.Errorf("constants: GetInt: register range exceeds %d", MaxIntRegisters)
	}
	b := &m.banks[stage]
	out := make([][4]int32, count)
	copy(out, b.integer[startRegister:startRegister+count])
	return out, nil
}

func (m *BufferManager) SetBool(stage ShaderType, startRegister uint32, data []bool) error {
	if startRegister+uint32(len(data)) > MaxBoolRegisters {
		return fmt.Errorf("constants: SetBool: register range exceeds %d", MaxBoolRegisters)
	}
	b := &m.banks[stage]
	for i, v := range data {
		b.boolean[startRegister+uint32(i)] = v
	}
	b.dirty = true
	return nil
}

func (m *BufferManager) GetBool(stage ShaderType, startRegister uint32, count uint32) ([]bool, error) {
	if startRegister+count > MaxBoolRegisters {
		return nil, fmt.Errorf("constants: GetBool: register range exceeds %d", MaxBoolRegisters)
	}
	b := &m.banks[stage]
	out := make([]bool, count)
	copy(out, b.boolean[startRegister:startRegister+count])
	return out, nil
}

// PrepareDraw uploads only the banks dirtied since the previous draw.
func (m *BufferManager) PrepareDraw() (bool, error) {
	uploaded := false
	for stage := range m.banks {
		b := &m.banks[stage]
		if !b.dirty {
			continue
		}
		data := floatBankBytes(&b.float)
		if err := m.queue.WriteBuffer(m.buffers[stage], 0, data); err != nil {
			return uploaded, fmt.Errorf("constants: upload stage %d: %w", stage, err)
		}
		b.dirty = false
		uploaded = true
	}
	return uploaded, nil
}

func floatBankBytes(bank *[MaxFloatRegisters][4]float32) []byte {
	out := make([]byte, 0, MaxFloatRegisters*4*4)
	for _, v := range bank {
		for _, f := range v {
			out = appendFloat32LE(out, f)
		}
	}
	return out
}

func appendFloat32LE(dst []byte, f float32) []byte {
	bits := math.Float32bits(f)
	return append(dst, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
}
