package glvk

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

// PipelineBindPoint selects the graphics or compute binding state.
type PipelineBindPoint uint8

const (
	PipelineBindPointGraphics PipelineBindPoint = iota
	PipelineBindPointCompute
)

// BindPipelineCommand makes a graphics pipeline current.
type BindPipelineCommand struct {
	Pipeline Pipeline
}

// Type implements Command.
func (*BindPipelineCommand) Type() CommandType { return CmdBindPipeline }

// Clone implements Command.
func (c *BindPipelineCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *BindPipelineCommand) Apply(ec *ExecContext) error {
	p, err := lookup(ec.device.pipelines, c.Pipeline.h, "pipeline")
	if err != nil {
		return err
	}
	return p.apply(ec)
}

// BindComputePipelineCommand makes a compute pipeline current.
type BindComputePipelineCommand struct {
	Pipeline ComputePipeline
}

// Type implements Command.
func (*BindComputePipelineCommand) Type() CommandType { return CmdBindComputePipeline }

// Clone implements Command.
func (c *BindComputePipelineCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *BindComputePipelineCommand) Apply(ec *ExecContext) error {
	p, err := lookup(ec.device.computePipelines, c.Pipeline.h, "compute pipeline")
	if err != nil {
		return err
	}
	return p.apply(ec)
}

// PushConstantsCommand uploads a push constant buffer to the program of the
// pipeline its stages target.
type PushConstantsCommand struct {
	Layout PipelineLayout
	Buffer *PushConstantsBuffer
}

// Type implements Command.
func (*PushConstantsCommand) Type() CommandType { return CmdPushConstants }

// Clone implements Command.
func (c *PushConstantsCommand) Clone() Command {
	return &PushConstantsCommand{Layout: c.Layout, Buffer: c.Buffer.Clone()}
}

// Apply implements Command.
func (c *PushConstantsCommand) Apply(ec *ExecContext) error {
	if !ec.device.pipelineLayouts.Contains(c.Layout.h) {
		return destroyed("pipeline layout")
	}
	switch {
	case c.Buffer.Stages == gputypes.ShaderStageCompute && ec.compute != nil:
		ec.useProgram(ec.compute.prog)
	case c.Buffer.Stages&gputypes.ShaderStageCompute == 0 && ec.pipeline != nil:
		ec.useProgram(ec.pipeline.prog)
	}
	if ec.program == nil {
		return ErrNoPipeline
	}
	c.Buffer.apply(ec)
	return nil
}

// BindGeometryBuffersCommand binds the vertex array of a geometry buffer
// set and selects its index buffer.
type BindGeometryBuffersCommand struct {
	Geometry GeometryBuffers
}

// Type implements Command.
func (*BindGeometryBuffersCommand) Type() CommandType { return CmdBindGeometryBuffers }

// Clone implements Command.
func (c *BindGeometryBuffersCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *BindGeometryBuffersCommand) Apply(ec *ExecContext) error {
	g, err := lookup(ec.device.geometry, c.Geometry.h, "geometry buffers")
	if err != nil {
		return err
	}
	vao := g.vertexArray()
	if vao == 0 {
		// Bound by a command the submission did not prepare.
		if err := g.prepare(ec.device); err != nil {
			return err
		}
		vao = g.vertexArray()
	}
	ec.ctx.BindVertexArray(vao)
	ec.indexBase = 0
	if g.index != nil {
		ec.indexBase = g.index.Offset
	}
	return nil
}

// BindDescriptorSetCommand binds the resources of one descriptor set at set
// index Set of Layout.
type BindDescriptorSetCommand struct {
	BindPoint PipelineBindPoint
	Layout    PipelineLayout
	Set       uint32
	// DescriptorSet is bound as it is when the command is applied.
	DescriptorSet DescriptorSet
	// DynamicOffsets holds one offset per array element of each dynamic
	// binding of the set, in binding order.
	DynamicOffsets []uint32
}

// Type implements Command.
func (*BindDescriptorSetCommand) Type() CommandType { return CmdBindDescriptorSet }

// Clone implements Command.
func (c *BindDescriptorSetCommand) Clone() Command {
	cp := *c
	cp.DynamicOffsets = append([]uint32(nil), c.DynamicOffsets...)
	return &cp
}

type bindingKey struct{ binding, element uint32 }

// Apply implements Command.
func (c *BindDescriptorSetCommand) Apply(ec *ExecContext) error {
	d := ec.device
	pl, err := lookup(d.pipelineLayouts, c.Layout.h, "pipeline layout")
	if err != nil {
		return err
	}
	if int(c.Set) >= len(pl.sets) {
		return fmt.Errorf("%w: set %d of a %d-set layout", ErrInvalidArgument, c.Set, len(pl.sets))
	}
	set, err := lookup(d.descriptorSets, c.DescriptorSet.h, "descriptor set")
	if err != nil {
		return err
	}

	dynamic := make(map[bindingKey]uint64)
	next := 0
	for _, b := range pl.sets[c.Set].bindings {
		if !b.Type.IsDynamic() {
			continue
		}
		for e := range b.count() {
			if next < len(c.DynamicOffsets) {
				dynamic[bindingKey{b.Binding, e}] = uint64(c.DynamicOffsets[next])
			}
			next++
		}
	}

	slot := func(class string, binding, element uint32) (uint32, error) {
		s, ok := pl.slot(c.Set, binding, element)
		if !ok {
			return 0, fmt.Errorf("%w: %s binding %d not in pipeline layout set %d", ErrInvalidArgument, class, binding, c.Set)
		}
		return s, nil
	}

	set.mu.RLock()
	defer set.mu.RUnlock()
	ctx := ec.ctx

	for _, b := range set.CombinedTextureSamplers {
		unit, err := slot("combined", b.Layout.Binding, b.Element)
		if err != nil {
			return err
		}
		v, err := lookup(d.textureViews, b.View.h, "texture view")
		if err != nil {
			return err
		}
		s, err := lookup(d.samplers, b.Sampler.h, "sampler")
		if err != nil {
			return err
		}
		ctx.ActiveTexture(backend.TEXTURE0 + unit)
		ctx.BindTexture(v.target, v.id)
		ctx.BindSampler(unit, s.id)
	}
	for _, b := range set.Samplers {
		s, err := slot("sampler", b.Layout.Binding, b.Element)
		if err != nil {
			return err
		}
		smp, err := lookup(d.samplers, b.Sampler.h, "sampler")
		if err != nil {
			return err
		}
		ec.bindSampler(s, smp.id)
	}
	for _, b := range set.SampledTextures {
		unit, err := slot("texture", b.Layout.Binding, b.Element)
		if err != nil {
			return err
		}
		v, err := lookup(d.textureViews, b.View.h, "texture view")
		if err != nil {
			return err
		}
		ctx.ActiveTexture(backend.TEXTURE0 + unit)
		ctx.BindTexture(v.target, v.id)
	}
	for _, b := range set.StorageTextures {
		unit, err := slot("storage texture", b.Layout.Binding, b.Element)
		if err != nil {
			return err
		}
		v, err := lookup(d.textureViews, b.View.h, "texture view")
		if err != nil {
			return err
		}
		layered := v.layerCount > 1 || v.target == backend.TEXTURE_3D
		ctx.BindImageTexture(unit, v.id, int32(v.baseMip), layered, 0, backend.READ_WRITE, v.pixel.Internal) // #nosec G115
	}
	for _, b := range set.UniformBuffers {
		index, err := slot("uniform buffer", b.Layout.Binding, b.Element)
		if err != nil {
			return err
		}
		if err := bindBufferRange(ec, backend.UNIFORM_BUFFER, index, b.Buffer, b.Offset+dynamic[bindingKey{b.Layout.Binding, b.Element}], b.Range); err != nil {
			return err
		}
	}
	for _, b := range set.StorageBuffers {
		index, err := slot("storage buffer", b.Layout.Binding, b.Element)
		if err != nil {
			return err
		}
		if err := bindBufferRange(ec, backend.SHADER_STORAGE_BUFFER, index, b.Buffer, b.Offset+dynamic[bindingKey{b.Layout.Binding, b.Element}], b.Range); err != nil {
			return err
		}
	}
	for _, b := range set.TexelBuffers {
		unit, err := slot("texel buffer", b.Layout.Binding, b.Element)
		if err != nil {
			return err
		}
		v, err := lookup(d.bufferViews, b.View.h, "buffer view")
		if err != nil {
			return err
		}
		if b.Layout.Type == DescriptorTypeStorageTexelBuffer {
			pf, _ := convert.TextureFormat(v.format)
			ctx.BindImageTexture(unit, v.id, 0, false, 0, backend.READ_WRITE, pf.Internal)
			continue
		}
		ctx.ActiveTexture(backend.TEXTURE0 + unit)
		ctx.BindTexture(backend.TEXTURE_BUFFER, v.id)
	}
	return nil
}

// bindBufferRange binds [offset, offset+size) of b to an indexed target.
// A zero size extends the range to the end of the buffer.
func bindBufferRange(ec *ExecContext, target, index uint32, b Buffer, offset, size uint64) error {
	buf, err := lookup(ec.device.buffers, b.h, "buffer")
	if err != nil {
		return err
	}
	if offset >= buf.size {
		return fmt.Errorf("%w: offset %d past end of %d-byte buffer", ErrInvalidArgument, offset, buf.size)
	}
	if size == 0 {
		size = buf.size - offset
	}
	if offset+size > buf.size {
		return fmt.Errorf("%w: range [%d, %d) exceeds %d-byte buffer", ErrInvalidArgument, offset, offset+size, buf.size)
	}
	ec.ctx.BindBufferRange(target, index, buf.id, int(offset), int(size)) // #nosec G115
	return nil
}
