package glvk

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/arena"
	"github.com/gogpu/glvk/internal/convert"
)

type buffer struct {
	id     uint32
	size   uint64
	usage  gputypes.BufferUsage
	target uint32
}

type bufferView struct {
	buffer Buffer
	id     uint32 // TEXTURE_BUFFER texture
	format gputypes.TextureFormat
	offset uint64
	size   uint64
}

// BufferViewDescriptor describes a texel view over a range of a buffer.
type BufferViewDescriptor struct {
	Buffer Buffer
	Format gputypes.TextureFormat
	Offset uint64
	// Range is the view size in bytes; 0 extends the view to the end of the buffer.
	Range uint64
}

// lookup resolves h in a, reporting ErrResourceDestroyed on a miss.
func lookup[T any](a *arena.Arena[T], h arena.Handle, kind string) (T, error) {
	v, ok := a.Get(h)
	if !ok {
		return v, destroyed(kind)
	}
	return v, nil
}

// bufferTarget picks the binding target that best describes a buffer's use.
func bufferTarget(usage gputypes.BufferUsage) uint32 {
	switch {
	case usage&gputypes.BufferUsageIndex != 0:
		return backend.ELEMENT_ARRAY_BUFFER
	case usage&gputypes.BufferUsageVertex != 0:
		return backend.ARRAY_BUFFER
	case usage&gputypes.BufferUsageUniform != 0:
		return backend.UNIFORM_BUFFER
	case usage&gputypes.BufferUsageStorage != 0:
		return backend.SHADER_STORAGE_BUFFER
	case usage&gputypes.BufferUsageIndirect != 0:
		return backend.DRAW_INDIRECT_BUFFER
	default:
		return backend.COPY_WRITE_BUFFER
	}
}

func bufferUsageHint(usage gputypes.BufferUsage) uint32 {
	switch {
	case usage&gputypes.BufferUsageMapRead != 0:
		return backend.DYNAMIC_READ
	case usage&(gputypes.BufferUsageMapWrite|gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst) != 0:
		return backend.DYNAMIC_DRAW
	default:
		return backend.STATIC_DRAW
	}
}

// CreateBuffer allocates uninitialized buffer storage of desc.Size bytes.
func (d *Device) CreateBuffer(desc gputypes.BufferDescriptor) (Buffer, error) {
	if desc.Size == 0 {
		return Buffer{}, fmt.Errorf("glvk: create buffer %q: %w: zero size", desc.Label, ErrInvalidDescriptor)
	}
	if desc.Usage.ContainsUnknownBits() {
		return Buffer{}, fmt.Errorf("glvk: create buffer %q: %w: unknown usage bits", desc.Label, ErrInvalidDescriptor)
	}

	id := d.ctx.CreateBuffer()
	d.ctx.BindBuffer(backend.COPY_WRITE_BUFFER, id)
	d.ctx.BufferData(backend.COPY_WRITE_BUFFER, int(desc.Size), nil, bufferUsageHint(desc.Usage)) // #nosec G115
	d.ctx.BindBuffer(backend.COPY_WRITE_BUFFER, 0)
	if err := checkBackend(d.ctx, "create buffer"); err != nil {
		d.ctx.DeleteBuffer(id)
		return Buffer{}, err
	}

	h := d.buffers.Insert(&buffer{
		id:     id,
		size:   desc.Size,
		usage:  desc.Usage,
		target: bufferTarget(desc.Usage),
	})
	d.logger().Debug("glvk: buffer created", "label", desc.Label, "id", id, "size", desc.Size)
	return Buffer{h}, nil
}

// DestroyBuffer releases a buffer. Destroying an invalid handle is a no-op.
func (d *Device) DestroyBuffer(b Buffer) {
	if buf, ok := d.buffers.Remove(b.h); ok {
		d.ctx.DeleteBuffer(buf.id)
	}
}

// BufferSize returns the size of a buffer in bytes.
func (d *Device) BufferSize(b Buffer) (uint64, error) {
	buf, err := lookup(d.buffers, b.h, "buffer")
	if err != nil {
		return 0, err
	}
	return buf.size, nil
}

// WriteBuffer uploads data into a buffer at offset.
func (d *Device) WriteBuffer(b Buffer, offset uint64, data []byte) error {
	buf, err := lookup(d.buffers, b.h, "buffer")
	if err != nil {
		return err
	}
	if offset+uint64(len(data)) > buf.size {
		return fmt.Errorf("glvk: write buffer: %w: range [%d, %d) exceeds size %d",
			ErrInvalidArgument, offset, offset+uint64(len(data)), buf.size)
	}
	d.ctx.BindBuffer(backend.COPY_WRITE_BUFFER, buf.id)
	d.ctx.BufferSubData(backend.COPY_WRITE_BUFFER, int(offset), data) // #nosec G115
	d.ctx.BindBuffer(backend.COPY_WRITE_BUFFER, 0)
	return checkBackend(d.ctx, "write buffer")
}

// ReadBuffer downloads len(dst) bytes of a buffer starting at offset.
// Pending submissions that write the buffer have completed when it returns.
func (d *Device) ReadBuffer(b Buffer, offset uint64, dst []byte) error {
	buf, err := lookup(d.buffers, b.h, "buffer")
	if err != nil {
		return err
	}
	if offset+uint64(len(dst)) > buf.size {
		return fmt.Errorf("glvk: read buffer: %w: range [%d, %d) exceeds size %d",
			ErrInvalidArgument, offset, offset+uint64(len(dst)), buf.size)
	}
	d.ctx.BindBuffer(backend.COPY_READ_BUFFER, buf.id)
	d.ctx.GetBufferSubData(backend.COPY_READ_BUFFER, int(offset), dst) // #nosec G115
	d.ctx.BindBuffer(backend.COPY_READ_BUFFER, 0)
	return checkBackend(d.ctx, "read buffer")
}

// CreateBufferView creates a texel buffer view.
func (d *Device) CreateBufferView(desc BufferViewDescriptor) (BufferView, error) {
	buf, err := lookup(d.buffers, desc.Buffer.h, "buffer")
	if err != nil {
		return BufferView{}, fmt.Errorf("glvk: create buffer view: %w", err)
	}
	pf, ok := convert.TextureFormat(desc.Format)
	if !ok {
		return BufferView{}, fmt.Errorf("glvk: create buffer view: %w: %v", ErrUnsupportedFormat, desc.Format)
	}
	size := desc.Range
	if size == 0 {
		if desc.Offset >= buf.size {
			return BufferView{}, fmt.Errorf("glvk: create buffer view: %w: offset %d past end", ErrInvalidArgument, desc.Offset)
		}
		size = buf.size - desc.Offset
	}
	if desc.Offset+size > buf.size {
		return BufferView{}, fmt.Errorf("glvk: create buffer view: %w: range exceeds buffer", ErrInvalidArgument)
	}

	id := d.ctx.CreateTexture()
	d.ctx.BindTexture(backend.TEXTURE_BUFFER, id)
	d.ctx.TexBufferRange(backend.TEXTURE_BUFFER, pf.Internal, buf.id, int(desc.Offset), int(size)) // #nosec G115
	d.ctx.BindTexture(backend.TEXTURE_BUFFER, 0)

	h := d.bufferViews.Insert(&bufferView{
		buffer: desc.Buffer,
		id:     id,
		format: desc.Format,
		offset: desc.Offset,
		size:   size,
	})
	return BufferView{h}, nil
}

// DestroyBufferView releases a buffer view.
func (d *Device) DestroyBufferView(v BufferView) {
	if view, ok := d.bufferViews.Remove(v.h); ok {
		d.ctx.DeleteTexture(view.id)
	}
}
