package glvk

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

// VertexBufferBinding selects a vertex buffer and the byte offset of its
// first vertex.
type VertexBufferBinding struct {
	Buffer Buffer
	Offset uint64
}

// IndexBufferBinding selects an index buffer, the byte offset of its first
// index and the index format.
type IndexBufferBinding struct {
	Buffer Buffer
	Offset uint64
	Format gputypes.IndexFormat
}

// GeometryBuffersDescriptor groups the vertex and index buffers of a draw.
// Layouts holds one layout per vertex buffer.
type GeometryBuffersDescriptor struct {
	Label         string
	VertexBuffers []VertexBufferBinding
	Layouts       []gputypes.VertexBufferLayout
	// IndexBuffer is nil for non-indexed geometry.
	IndexBuffer *IndexBufferBinding
}

type geometryBuffers struct {
	label     string
	vertex    []VertexBufferBinding
	layouts   []gputypes.VertexBufferLayout
	index     *IndexBufferBinding
	indexType uint32

	// vao is created by the first submission that binds the geometry.
	mu  sync.Mutex
	vao uint32
}

// CreateGeometryBuffers creates a geometry buffer set. The backend vertex
// array is created lazily when a submission first binds it.
func (d *Device) CreateGeometryBuffers(desc GeometryBuffersDescriptor) (GeometryBuffers, error) {
	wrap := func(err error) error {
		return fmt.Errorf("glvk: create geometry buffers %q: %w", desc.Label, err)
	}
	if len(desc.Layouts) != len(desc.VertexBuffers) {
		return GeometryBuffers{}, wrap(fmt.Errorf("%w: %d layouts for %d vertex buffers",
			ErrInvalidDescriptor, len(desc.Layouts), len(desc.VertexBuffers)))
	}
	for i, vb := range desc.VertexBuffers {
		if !d.buffers.Contains(vb.Buffer.h) {
			return GeometryBuffers{}, wrap(fmt.Errorf("vertex buffer %d: %w", i, destroyed("buffer")))
		}
		for _, attr := range desc.Layouts[i].Attributes {
			if _, ok := convert.VertexFormat(attr.Format); !ok {
				return GeometryBuffers{}, wrap(fmt.Errorf("%w: vertex buffer %d location %d: %v",
					ErrUnsupportedFormat, i, attr.ShaderLocation, attr.Format))
			}
		}
	}
	g := &geometryBuffers{
		label:   desc.Label,
		vertex:  append([]VertexBufferBinding(nil), desc.VertexBuffers...),
		layouts: append([]gputypes.VertexBufferLayout(nil), desc.Layouts...),
	}
	if ib := desc.IndexBuffer; ib != nil {
		if !d.buffers.Contains(ib.Buffer.h) {
			return GeometryBuffers{}, wrap(fmt.Errorf("index buffer: %w", destroyed("buffer")))
		}
		g.indexType = convert.IndexType(ib.Format)
		if g.indexType == backend.NONE {
			return GeometryBuffers{}, wrap(fmt.Errorf("%w: index format %v", ErrInvalidDescriptor, ib.Format))
		}
		idx := *ib
		g.index = &idx
	}
	return GeometryBuffers{d.geometry.Insert(g)}, nil
}

// DestroyGeometryBuffers releases a geometry buffer set. The buffers it
// references are not destroyed.
func (d *Device) DestroyGeometryBuffers(g GeometryBuffers) {
	geo, ok := d.geometry.Remove(g.h)
	if !ok {
		return
	}
	geo.mu.Lock()
	defer geo.mu.Unlock()
	if geo.vao != 0 {
		d.ctx.DeleteVertexArray(geo.vao)
		geo.vao = 0
	}
}

// prepare creates and fills the vertex array on first use.
func (g *geometryBuffers) prepare(d *Device) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.vao != 0 {
		return nil
	}
	ids := make([]uint32, len(g.vertex))
	for i, vb := range g.vertex {
		buf, err := lookup(d.buffers, vb.Buffer.h, "vertex buffer")
		if err != nil {
			return err
		}
		ids[i] = buf.id
	}
	var indexID uint32
	if g.index != nil {
		buf, err := lookup(d.buffers, g.index.Buffer.h, "index buffer")
		if err != nil {
			return err
		}
		indexID = buf.id
	}

	ctx := d.ctx
	vao := ctx.CreateVertexArray()
	ctx.BindVertexArray(vao)
	for i, vb := range g.vertex {
		layout := g.layouts[i]
		stride := int32(layout.ArrayStride) // #nosec G115
		ctx.BindBuffer(backend.ARRAY_BUFFER, ids[i])
		for _, attr := range layout.Attributes {
			va, _ := convert.VertexFormat(attr.Format)
			offset := int(vb.Offset + attr.Offset) // #nosec G115
			ctx.EnableVertexAttribArray(attr.ShaderLocation)
			if va.Integer {
				ctx.VertexAttribIPointer(attr.ShaderLocation, va.Size, va.Type, stride, offset)
			} else {
				ctx.VertexAttribPointer(attr.ShaderLocation, va.Size, va.Type, va.Normalized, stride, offset)
			}
			if layout.StepMode == gputypes.VertexStepModeInstance {
				ctx.VertexAttribDivisor(attr.ShaderLocation, 1)
			}
		}
	}
	if indexID != 0 {
		ctx.BindBuffer(backend.ELEMENT_ARRAY_BUFFER, indexID)
	}
	ctx.BindVertexArray(0)
	ctx.BindBuffer(backend.ARRAY_BUFFER, 0)
	g.vao = vao
	d.logger().Debug("glvk: geometry buffers initialised", "label", g.label, "vao", vao)
	return nil
}

func (g *geometryBuffers) vertexArray() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.vao
}
