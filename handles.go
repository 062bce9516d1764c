package glvk

import "github.com/gogpu/glvk/internal/arena"

// Device objects are addressed by handle. A handle is a small comparable
// value; copies refer to the same object. The zero handle is never valid.
// Destroying an object invalidates every copy of its handle.

// Buffer is a handle to a GPU buffer.
type Buffer struct{ h arena.Handle }

// BufferView is a handle to a typed texel view of a buffer.
type BufferView struct{ h arena.Handle }

// Texture is a handle to a texture image.
type Texture struct{ h arena.Handle }

// TextureView is a handle to a view of a texture.
type TextureView struct{ h arena.Handle }

// Sampler is a handle to a sampler object.
type Sampler struct{ h arena.Handle }

// ShaderModule is a handle to a validated WGSL module.
type ShaderModule struct{ h arena.Handle }

// ShaderProgram is a handle to a linked backend program.
type ShaderProgram struct{ h arena.Handle }

// PipelineLayout is a handle to a pipeline layout.
type PipelineLayout struct{ h arena.Handle }

// DescriptorSetLayout is a handle to a descriptor set layout.
type DescriptorSetLayout struct{ h arena.Handle }

// DescriptorPool is a handle to a descriptor pool.
type DescriptorPool struct{ h arena.Handle }

// DescriptorSet is a handle to a descriptor set.
type DescriptorSet struct{ h arena.Handle }

// RenderPass is a handle to a render pass.
type RenderPass struct{ h arena.Handle }

// Framebuffer is a handle to a framebuffer.
type Framebuffer struct{ h arena.Handle }

// Pipeline is a handle to a graphics pipeline.
type Pipeline struct{ h arena.Handle }

// ComputePipeline is a handle to a compute pipeline.
type ComputePipeline struct{ h arena.Handle }

// GeometryBuffers is a handle to a vertex/index buffer binding set.
type GeometryBuffers struct{ h arena.Handle }

// QueryPool is a handle to a pool of queries.
type QueryPool struct{ h arena.Handle }

// IsValid reports whether the handle was issued by a device.
// It does not report whether the object is still alive.
func (b Buffer) IsValid() bool { return !b.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (v BufferView) IsValid() bool { return !v.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (t Texture) IsValid() bool { return !t.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (v TextureView) IsValid() bool { return !v.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (s Sampler) IsValid() bool { return !s.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (m ShaderModule) IsValid() bool { return !m.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (p ShaderProgram) IsValid() bool { return !p.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (l PipelineLayout) IsValid() bool { return !l.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (l DescriptorSetLayout) IsValid() bool { return !l.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (p DescriptorPool) IsValid() bool { return !p.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (s DescriptorSet) IsValid() bool { return !s.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (r RenderPass) IsValid() bool { return !r.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (f Framebuffer) IsValid() bool { return !f.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (p Pipeline) IsValid() bool { return !p.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (p ComputePipeline) IsValid() bool { return !p.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (g GeometryBuffers) IsValid() bool { return !g.h.IsZero() }

// IsValid reports whether the handle was issued by a device.
func (q QueryPool) IsValid() bool { return !q.h.IsZero() }
