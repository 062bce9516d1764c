package glvk

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

// PushConstant maps a byte range of a PushConstantsBuffer to a uniform of
// the bound program.
type PushConstant struct {
	// Name is the uniform name. It is resolved against the program bound at
	// apply time; when empty, Location is used as is.
	Name     string
	Location int32
	// Offset is the byte offset of the value in the buffer data.
	Offset uint32
	Format backend.UniformFormat
	// ArraySize is the number of array elements; 0 means 1.
	ArraySize uint32
}

func (c PushConstant) count() uint32 { return max(c.ArraySize, 1) }

func (c PushConstant) size() uint32 {
	return uint32(c.Format.Size()) * c.count() // #nosec G115 -- format sizes are small
}

// PushConstantsBuffer holds push constant data and the uniforms it feeds.
//
// Recording a buffer copies its data; changing it afterwards does not affect
// commands already recorded.
type PushConstantsBuffer struct {
	Stages    gputypes.ShaderStages
	Constants []PushConstant
	data      []byte
}

// NewPushConstantsBuffer creates a zeroed buffer of size bytes.
func NewPushConstantsBuffer(stages gputypes.ShaderStages, size uint32, constants ...PushConstant) (*PushConstantsBuffer, error) {
	for _, c := range constants {
		if uint64(c.Offset)+uint64(c.size()) > uint64(size) {
			return nil, fmt.Errorf("glvk: push constants: %w: %q [%d, %d) exceeds %d bytes",
				ErrInvalidArgument, c.Name, c.Offset, c.Offset+c.size(), size)
		}
	}
	return &PushConstantsBuffer{
		Stages:    stages,
		Constants: append([]PushConstant(nil), constants...),
		data:      make([]byte, size),
	}, nil
}

// Data returns the buffer contents. The slice aliases the buffer.
func (p *PushConstantsBuffer) Data() []byte { return p.data }

// Set copies data into the buffer at offset.
func (p *PushConstantsBuffer) Set(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(p.data)) {
		return fmt.Errorf("glvk: push constants: %w: write [%d, %d) exceeds %d bytes",
			ErrInvalidArgument, offset, uint64(offset)+uint64(len(data)), len(p.data))
	}
	copy(p.data[offset:], data)
	return nil
}

// SetFloat32s stores values little-endian at offset.
func (p *PushConstantsBuffer) SetFloat32s(offset uint32, values ...float32) error {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return p.Set(offset, b)
}

// SetInt32s stores values little-endian at offset.
func (p *PushConstantsBuffer) SetInt32s(offset uint32, values ...int32) error {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v)) // #nosec G115 -- bit pattern
	}
	return p.Set(offset, b)
}

// SetUint32s stores values little-endian at offset.
func (p *PushConstantsBuffer) SetUint32s(offset uint32, values ...uint32) error {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], v)
	}
	return p.Set(offset, b)
}

// Clone returns a deep copy of p.
func (p *PushConstantsBuffer) Clone() *PushConstantsBuffer {
	if p == nil {
		return nil
	}
	return &PushConstantsBuffer{
		Stages:    p.Stages,
		Constants: append([]PushConstant(nil), p.Constants...),
		data:      append([]byte(nil), p.data...),
	}
}

// apply uploads every constant to the program in use.
func (p *PushConstantsBuffer) apply(ec *ExecContext) {
	for _, c := range p.Constants {
		loc := c.Location
		if c.Name != "" {
			loc = ec.uniformLocation(c.Name)
		}
		if loc < 0 {
			continue
		}
		end := c.Offset + c.size()
		ec.ctx.Uniform(loc, c.Format, int32(c.count()), p.data[c.Offset:end]) // #nosec G115
	}
}
