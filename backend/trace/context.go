package trace

import (
	"github.com/gogpu/glvk/backend"
)

// GetString implements backend.Context.
func (c *Context) GetString(name uint32) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strings[name]
}

// GetInteger implements backend.Context.
func (c *Context) GetInteger(pname uint32) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.integers[pname]
}

// GetError returns the oldest injected error, or NO_ERROR.
func (c *Context) GetError() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errors) == 0 {
		return backend.NO_ERROR
	}
	code := c.errors[0]
	c.errors = c.errors[1:]
	return code
}

func (c *Context) Flush()  { c.record("Flush") }
func (c *Context) Finish() { c.record("Finish") }

// Buffers

func (c *Context) CreateBuffer() uint32 { return c.gen("CreateBuffer") }

func (c *Context) DeleteBuffer(id uint32) {
	c.record("DeleteBuffer", id)
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buffers, id)
	for target, bound := range c.bindings {
		if bound == id {
			delete(c.bindings, target)
		}
	}
}

func (c *Context) BindBuffer(target, id uint32) {
	c.record("BindBuffer", target, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[target] = id
}

func (c *Context) BufferData(target uint32, size int, data []byte, usage uint32) {
	c.record("BufferData", target, size, usage)
	c.mu.Lock()
	defer c.mu.Unlock()
	if id := c.bindings[target]; id != 0 {
		buf := make([]byte, size)
		copy(buf, data)
		c.buffers[id] = buf
	}
}

func (c *Context) BufferSubData(target uint32, offset int, data []byte) {
	c.record("BufferSubData", target, offset, len(data))
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, buf := c.bound(target, offset+len(data)); buf != nil {
		copy(buf[offset:], data)
	}
}

func (c *Context) GetBufferSubData(target uint32, offset int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, buf := c.bound(target, offset+len(data)); buf != nil {
		copy(data, buf[offset:])
	}
}

func (c *Context) CopyBufferSubData(readTarget, writeTarget uint32, readOffset, writeOffset, size int) {
	c.record("CopyBufferSubData", readTarget, writeTarget, readOffset, writeOffset, size)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, src := c.bound(readTarget, readOffset+size)
	_, dst := c.bound(writeTarget, writeOffset+size)
	if src != nil && dst != nil {
		copy(dst[writeOffset:writeOffset+size], src[readOffset:readOffset+size])
	}
}

func (c *Context) BindBufferRange(target, index, id uint32, offset, size int) {
	c.record("BindBufferRange", target, index, id, offset, size)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[target] = id
}

// Textures

func (c *Context) CreateTexture() uint32         { return c.gen("CreateTexture") }
func (c *Context) DeleteTexture(id uint32)       { c.record("DeleteTexture", id) }
func (c *Context) ActiveTexture(unit uint32)     { c.record("ActiveTexture", unit) }
func (c *Context) BindTexture(target, id uint32) { c.record("BindTexture", target, id) }

func (c *Context) TexStorage1D(target uint32, levels int32, internalFormat uint32, width int32) {
	c.record("TexStorage1D", target, levels, internalFormat, width)
}

func (c *Context) TexStorage2D(target uint32, levels int32, internalFormat uint32, width, height int32) {
	c.record("TexStorage2D", target, levels, internalFormat, width, height)
}

func (c *Context) TexStorage3D(target uint32, levels int32, internalFormat uint32, width, height, depth int32) {
	c.record("TexStorage3D", target, levels, internalFormat, width, height, depth)
}

func (c *Context) TexStorage2DMultisample(target uint32, samples int32, internalFormat uint32, width, height int32) {
	c.record("TexStorage2DMultisample", target, samples, internalFormat, width, height)
}

func (c *Context) TexParameteri(target, pname uint32, param int32) {
	c.record("TexParameteri", target, pname, param)
}

func (c *Context) TexSubImage1D(target uint32, level, x, width int32, format, xtype uint32, offset int) {
	c.record("TexSubImage1D", target, level, x, width, format, xtype, offset)
}

func (c *Context) TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, offset int) {
	c.record("TexSubImage2D", target, level, x, y, width, height, format, xtype, offset)
}

func (c *Context) TexSubImage3D(target uint32, level, x, y, z, width, height, depth int32, format, xtype uint32, offset int) {
	c.record("TexSubImage3D", target, level, x, y, z, width, height, depth, format, xtype, offset)
}

func (c *Context) TexBufferRange(target, internalFormat, buffer uint32, offset, size int) {
	c.record("TexBufferRange", target, internalFormat, buffer, offset, size)
}

func (c *Context) TextureView(id, target, orig, internalFormat, minLevel, numLevels, minLayer, numLayers uint32) {
	c.record("TextureView", id, target, orig, internalFormat, minLevel, numLevels, minLayer, numLayers)
}

func (c *Context) PixelStorei(pname uint32, param int32) { c.record("PixelStorei", pname, param) }

func (c *Context) BindImageTexture(unit, id uint32, level int32, layered bool, layer int32, access, format uint32) {
	c.record("BindImageTexture", unit, id, level, layered, layer, access, format)
}

func (c *Context) CopyImageSubData(src, srcTarget uint32, srcLevel, srcX, srcY, srcZ int32,
	dst, dstTarget uint32, dstLevel, dstX, dstY, dstZ int32, width, height, depth int32) {
	c.record("CopyImageSubData", src, srcTarget, srcLevel, srcX, srcY, srcZ,
		dst, dstTarget, dstLevel, dstX, dstY, dstZ, width, height, depth)
}

func (c *Context) ReadPixels(x, y, width, height int32, format, xtype uint32, offset int) {
	c.record("ReadPixels", x, y, width, height, format, xtype, offset)
}

// Samplers

func (c *Context) CreateSampler() uint32       { return c.gen("CreateSampler") }
func (c *Context) DeleteSampler(id uint32)     { c.record("DeleteSampler", id) }
func (c *Context) BindSampler(unit, id uint32) { c.record("BindSampler", unit, id) }

func (c *Context) SamplerParameteri(id, pname uint32, param int32) {
	c.record("SamplerParameteri", id, pname, param)
}

func (c *Context) SamplerParameterf(id, pname uint32, param float32) {
	c.record("SamplerParameterf", id, pname, param)
}

// Programs

func (c *Context) CreateShader(stage uint32, source string) (uint32, error) {
	c.mu.Lock()
	err := c.compileErr
	c.mu.Unlock()
	if err != nil {
		c.record("CreateShader", stage)
		return 0, err
	}
	return c.gen("CreateShader"), nil
}

func (c *Context) DeleteShader(id uint32) { c.record("DeleteShader", id) }

func (c *Context) CreateProgram(shaders ...uint32) (uint32, error) {
	c.mu.Lock()
	err := c.linkErr
	c.mu.Unlock()
	if err != nil {
		c.record("CreateProgram", len(shaders))
		return 0, err
	}
	return c.gen("CreateProgram"), nil
}

func (c *Context) DeleteProgram(id uint32) { c.record("DeleteProgram", id) }
func (c *Context) UseProgram(id uint32)    { c.record("UseProgram", id) }

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if loc, ok := c.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (c *Context) Uniform(location int32, format backend.UniformFormat, count int32, data []byte) {
	c.record("Uniform", location, format, count, append([]byte(nil), data...))
}

// Vertex arrays

func (c *Context) CreateVertexArray() uint32        { return c.gen("CreateVertexArray") }
func (c *Context) DeleteVertexArray(id uint32)      { c.record("DeleteVertexArray", id) }
func (c *Context) BindVertexArray(id uint32)        { c.record("BindVertexArray", id) }
func (c *Context) EnableVertexAttribArray(i uint32) { c.record("EnableVertexAttribArray", i) }

func (c *Context) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	c.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (c *Context) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset int) {
	c.record("VertexAttribIPointer", index, size, xtype, stride, offset)
}

func (c *Context) VertexAttribDivisor(index, divisor uint32) {
	c.record("VertexAttribDivisor", index, divisor)
}

// Framebuffers

func (c *Context) CreateFramebuffer() uint32         { return c.gen("CreateFramebuffer") }
func (c *Context) DeleteFramebuffer(id uint32)       { c.record("DeleteFramebuffer", id) }
func (c *Context) BindFramebuffer(target, id uint32) { c.record("BindFramebuffer", target, id) }

func (c *Context) FramebufferTexture(target, attachment, texture uint32, level int32) {
	c.record("FramebufferTexture", target, attachment, texture, level)
}

func (c *Context) FramebufferTextureLayer(target, attachment, texture uint32, level, layer int32) {
	c.record("FramebufferTextureLayer", target, attachment, texture, level, layer)
}

func (c *Context) CheckFramebufferStatus(target uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fbStatus
}

func (c *Context) DrawBuffers(bufs []uint32) {
	c.record("DrawBuffers", append([]uint32(nil), bufs...))
}

func (c *Context) ReadBuffer(src uint32) { c.record("ReadBuffer", src) }

func (c *Context) InvalidateFramebuffer(target uint32, attachments []uint32) {
	c.record("InvalidateFramebuffer", target, append([]uint32(nil), attachments...))
}

func (c *Context) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) {
	c.record("BlitFramebuffer", srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

func (c *Context) ClearBufferfv(buffer uint32, drawBuffer int32, value [4]float32) {
	c.record("ClearBufferfv", buffer, drawBuffer, value)
}

func (c *Context) ClearBufferiv(buffer uint32, drawBuffer int32, value [4]int32) {
	c.record("ClearBufferiv", buffer, drawBuffer, value)
}

func (c *Context) ClearBufferfi(buffer uint32, drawBuffer int32, depth float32, stencil int32) {
	c.record("ClearBufferfi", buffer, drawBuffer, depth, stencil)
}

// Fixed-function state

func (c *Context) Enable(capability uint32)         { c.record("Enable", capability) }
func (c *Context) Disable(capability uint32)        { c.record("Disable", capability) }
func (c *Context) Enablei(capability, index uint32) { c.record("Enablei", capability, index) }
func (c *Context) Disablei(capability, index uint32) {
	c.record("Disablei", capability, index)
}

func (c *Context) Viewport(x, y, width, height int32) { c.record("Viewport", x, y, width, height) }
func (c *Context) DepthRange(near, far float64)       { c.record("DepthRange", near, far) }
func (c *Context) Scissor(x, y, width, height int32)  { c.record("Scissor", x, y, width, height) }
func (c *Context) LineWidth(width float32)            { c.record("LineWidth", width) }
func (c *Context) CullFace(mode uint32)               { c.record("CullFace", mode) }
func (c *Context) FrontFace(mode uint32)              { c.record("FrontFace", mode) }
func (c *Context) PolygonMode(face, mode uint32)      { c.record("PolygonMode", face, mode) }
func (c *Context) PolygonOffset(factor, units float32) {
	c.record("PolygonOffset", factor, units)
}
func (c *Context) DepthFunc(fn uint32)  { c.record("DepthFunc", fn) }
func (c *Context) DepthMask(write bool) { c.record("DepthMask", write) }

func (c *Context) StencilFuncSeparate(face, fn uint32, ref int32, mask uint32) {
	c.record("StencilFuncSeparate", face, fn, ref, mask)
}

func (c *Context) StencilOpSeparate(face, sfail, dpfail, dppass uint32) {
	c.record("StencilOpSeparate", face, sfail, dpfail, dppass)
}

func (c *Context) StencilMaskSeparate(face, mask uint32) {
	c.record("StencilMaskSeparate", face, mask)
}

func (c *Context) BlendFuncSeparatei(buf, srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	c.record("BlendFuncSeparatei", buf, srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (c *Context) BlendEquationSeparatei(buf, modeRGB, modeAlpha uint32) {
	c.record("BlendEquationSeparatei", buf, modeRGB, modeAlpha)
}

func (c *Context) BlendColor(r, g, b, a float32) { c.record("BlendColor", r, g, b, a) }

func (c *Context) ColorMaski(index uint32, r, g, b, a bool) {
	c.record("ColorMaski", index, r, g, b, a)
}

func (c *Context) SampleMaski(index, mask uint32) { c.record("SampleMaski", index, mask) }

// Draws and dispatches

func (c *Context) DrawArrays(mode uint32, first, count int32) {
	c.record("DrawArrays", mode, first, count)
}

func (c *Context) DrawArraysInstancedBaseInstance(mode uint32, first, count, instances int32, baseInstance uint32) {
	c.record("DrawArraysInstancedBaseInstance", mode, first, count, instances, baseInstance)
}

func (c *Context) DrawElementsBaseVertex(mode uint32, count int32, xtype uint32, offset int, baseVertex int32) {
	c.record("DrawElementsBaseVertex", mode, count, xtype, offset, baseVertex)
}

func (c *Context) DrawElementsInstancedBaseVertexBaseInstance(mode uint32, count int32, xtype uint32, offset int,
	instances, baseVertex int32, baseInstance uint32) {
	c.record("DrawElementsInstancedBaseVertexBaseInstance", mode, count, xtype, offset, instances, baseVertex, baseInstance)
}

func (c *Context) DispatchCompute(x, y, z uint32) { c.record("DispatchCompute", x, y, z) }
func (c *Context) MemoryBarrier(barriers uint32)  { c.record("MemoryBarrier", barriers) }

// Queries

func (c *Context) CreateQuery() uint32            { return c.gen("CreateQuery") }
func (c *Context) DeleteQuery(id uint32)          { c.record("DeleteQuery", id) }
func (c *Context) BeginQuery(target, id uint32)   { c.record("BeginQuery", target, id) }
func (c *Context) EndQuery(target uint32)         { c.record("EndQuery", target) }
func (c *Context) QueryCounter(id, target uint32) { c.record("QueryCounter", id, target) }

func (c *Context) GetQueryObjectui64(id, pname uint32) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pname == backend.QUERY_RESULT_AVAILABLE {
		return 1
	}
	return c.queries[id]
}
