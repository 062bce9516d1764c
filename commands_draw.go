package glvk

import (
	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

// DrawCommand draws non-indexed primitives with the topology of the
// pipeline that was bound when it was recorded.
type DrawCommand struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
	// Topology is the backend primitive mode.
	Topology uint32
}

// Type implements Command.
func (*DrawCommand) Type() CommandType { return CmdDraw }

// Clone implements Command.
func (c *DrawCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *DrawCommand) Apply(ec *ExecContext) error {
	if ec.pipeline == nil {
		return ErrNoPipeline
	}
	if c.VertexCount == 0 || c.InstanceCount == 0 {
		return nil
	}
	ec.useProgram(ec.pipeline.prog)
	first, count := int32(c.FirstVertex), int32(c.VertexCount) // #nosec G115
	if c.InstanceCount > 1 || c.FirstInstance != 0 {
		ec.ctx.DrawArraysInstancedBaseInstance(c.Topology, first, count, int32(c.InstanceCount), c.FirstInstance) // #nosec G115
		return nil
	}
	ec.ctx.DrawArrays(c.Topology, first, count)
	return nil
}

// DrawIndexedCommand draws indexed primitives from the bound index buffer.
type DrawIndexedCommand struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	VertexOffset  int32
	FirstInstance uint32
	Topology      uint32
	// IndexType is the backend index type of the index buffer bound when
	// the command was recorded.
	IndexType uint32
}

// Type implements Command.
func (*DrawIndexedCommand) Type() CommandType { return CmdDrawIndexed }

// Clone implements Command.
func (c *DrawIndexedCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *DrawIndexedCommand) Apply(ec *ExecContext) error {
	if ec.pipeline == nil {
		return ErrNoPipeline
	}
	if c.IndexCount == 0 || c.InstanceCount == 0 {
		return nil
	}
	ec.useProgram(ec.pipeline.prog)
	offset := int(ec.indexBase) + int(c.FirstIndex)*convert.IndexSize(c.IndexType) // #nosec G115
	count := int32(c.IndexCount)                                                  // #nosec G115
	if c.InstanceCount > 1 || c.FirstInstance != 0 {
		ec.ctx.DrawElementsInstancedBaseVertexBaseInstance(c.Topology, count, c.IndexType, offset,
			int32(c.InstanceCount), c.VertexOffset, c.FirstInstance) // #nosec G115
		return nil
	}
	ec.ctx.DrawElementsBaseVertex(c.Topology, count, c.IndexType, offset, c.VertexOffset)
	return nil
}

// DispatchCommand runs the bound compute pipeline over a grid of
// workgroups. Its writes are visible to every later command.
type DispatchCommand struct {
	X, Y, Z uint32
}

// Type implements Command.
func (*DispatchCommand) Type() CommandType { return CmdDispatch }

// Clone implements Command.
func (c *DispatchCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *DispatchCommand) Apply(ec *ExecContext) error {
	if ec.compute == nil {
		return ErrNoComputePipeline
	}
	if c.X == 0 || c.Y == 0 || c.Z == 0 {
		return nil
	}
	ec.useProgram(ec.compute.prog)
	ec.ctx.DispatchCompute(c.X, c.Y, c.Z)
	ec.ctx.MemoryBarrier(backend.ALL_BARRIER_BITS)
	return nil
}

// Viewport maps normalized device coordinates to framebuffer pixels.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// SetViewportCommand sets the viewport and depth range.
type SetViewportCommand struct {
	Viewport Viewport
}

// Type implements Command.
func (*SetViewportCommand) Type() CommandType { return CmdSetViewport }

// Clone implements Command.
func (c *SetViewportCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *SetViewportCommand) Apply(ec *ExecContext) error {
	v := c.Viewport
	ec.ctx.Viewport(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))
	ec.ctx.DepthRange(float64(v.MinDepth), float64(v.MaxDepth))
	return nil
}

// SetScissorCommand sets the scissor rectangle.
type SetScissorCommand struct {
	Rect Rect2D
}

// Type implements Command.
func (*SetScissorCommand) Type() CommandType { return CmdSetScissor }

// Clone implements Command.
func (c *SetScissorCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *SetScissorCommand) Apply(ec *ExecContext) error {
	r := c.Rect
	ec.ctx.Scissor(r.X, r.Y, int32(r.Width), int32(r.Height)) // #nosec G115
	return nil
}

// SetLineWidthCommand sets the width of rasterized lines.
type SetLineWidthCommand struct {
	Width float32
}

// Type implements Command.
func (*SetLineWidthCommand) Type() CommandType { return CmdSetLineWidth }

// Clone implements Command.
func (c *SetLineWidthCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *SetLineWidthCommand) Apply(ec *ExecContext) error {
	ec.ctx.LineWidth(c.Width)
	return nil
}
