//go:build !nogl

package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"

	"github.com/gogpu/glvk/backend"
)

// init registers the OpenGL backend on package import.
func init() {
	backend.Register(backend.NameOpenGL, New)
}

// Context implements backend.Context with OpenGL 4.3 core calls.
type Context struct {
	major, minor int32
}

var _ backend.Context = (*Context)(nil)

// New loads the OpenGL entry points for the context current on the calling
// thread and checks that it provides at least version 4.3.
func New() (backend.Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrNotAvailable, err)
	}
	c := &Context{}
	gl.GetIntegerv(gl.MAJOR_VERSION, &c.major)
	gl.GetIntegerv(gl.MINOR_VERSION, &c.minor)
	if c.major < 4 || (c.major == 4 && c.minor < 3) {
		return nil, fmt.Errorf("%w: OpenGL %d.%d, need 4.3", backend.ErrNotAvailable, c.major, c.minor)
	}
	return c, nil
}

// Name implements backend.Context.
func (c *Context) Name() string { return backend.NameOpenGL }

// GetString implements backend.Context.
func (c *Context) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

// GetInteger implements backend.Context.
func (c *Context) GetInteger(pname uint32) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

func (c *Context) GetError() uint32 { return gl.GetError() }
func (c *Context) Flush()           { gl.Flush() }
func (c *Context) Finish()          { gl.Finish() }

// Buffers.

func (c *Context) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (c *Context) DeleteBuffer(id uint32)       { gl.DeleteBuffers(1, &id) }
func (c *Context) BindBuffer(target, id uint32) { gl.BindBuffer(target, id) }

func (c *Context) BufferData(target uint32, size int, data []byte, usage uint32) {
	gl.BufferData(target, size, ptr(data), usage)
}

func (c *Context) BufferSubData(target uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(target, offset, len(data), gl.Ptr(data))
}

func (c *Context) GetBufferSubData(target uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.GetBufferSubData(target, offset, len(data), gl.Ptr(data))
}

func (c *Context) CopyBufferSubData(readTarget, writeTarget uint32, readOffset, writeOffset, size int) {
	gl.CopyBufferSubData(readTarget, writeTarget, readOffset, writeOffset, size)
}

func (c *Context) BindBufferRange(target, index, id uint32, offset, size int) {
	gl.BindBufferRange(target, index, id, offset, size)
}

// Textures.

func (c *Context) CreateTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (c *Context) DeleteTexture(id uint32)       { gl.DeleteTextures(1, &id) }
func (c *Context) ActiveTexture(unit uint32)     { gl.ActiveTexture(unit) }
func (c *Context) BindTexture(target, id uint32) { gl.BindTexture(target, id) }

func (c *Context) TexStorage1D(target uint32, levels int32, internalFormat uint32, width int32) {
	gl.TexStorage1D(target, levels, internalFormat, width)
}

func (c *Context) TexStorage2D(target uint32, levels int32, internalFormat uint32, width, height int32) {
	gl.TexStorage2D(target, levels, internalFormat, width, height)
}

func (c *Context) TexStorage3D(target uint32, levels int32, internalFormat uint32, width, height, depth int32) {
	gl.TexStorage3D(target, levels, internalFormat, width, height, depth)
}

func (c *Context) TexStorage2DMultisample(target uint32, samples int32, internalFormat uint32, width, height int32) {
	gl.TexStorage2DMultisample(target, samples, internalFormat, width, height, true)
}

func (c *Context) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

// Pixel transfers read from the buffer bound to PIXEL_UNPACK_BUFFER, so the
// pointer argument is a byte offset.

func (c *Context) TexSubImage1D(target uint32, level, x, width int32, format, xtype uint32, offset int) {
	gl.TexSubImage1D(target, level, x, width, format, xtype, gl.PtrOffset(offset))
}

func (c *Context) TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, offset int) {
	gl.TexSubImage2D(target, level, x, y, width, height, format, xtype, gl.PtrOffset(offset))
}

func (c *Context) TexSubImage3D(target uint32, level, x, y, z, width, height, depth int32, format, xtype uint32, offset int) {
	gl.TexSubImage3D(target, level, x, y, z, width, height, depth, format, xtype, gl.PtrOffset(offset))
}

func (c *Context) TexBufferRange(target, internalFormat, buffer uint32, offset, size int) {
	gl.TexBufferRange(target, internalFormat, buffer, offset, size)
}

func (c *Context) TextureView(id, target, orig, internalFormat, minLevel, numLevels, minLayer, numLayers uint32) {
	gl.TextureView(id, target, orig, internalFormat, minLevel, numLevels, minLayer, numLayers)
}

func (c *Context) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }

func (c *Context) BindImageTexture(unit, id uint32, level int32, layered bool, layer int32, access, format uint32) {
	gl.BindImageTexture(unit, id, level, layered, layer, access, format)
}

func (c *Context) CopyImageSubData(src, srcTarget uint32, srcLevel, srcX, srcY, srcZ int32,
	dst, dstTarget uint32, dstLevel, dstX, dstY, dstZ int32, width, height, depth int32) {
	gl.CopyImageSubData(src, srcTarget, srcLevel, srcX, srcY, srcZ, dst, dstTarget, dstLevel, dstX, dstY, dstZ, width, height, depth)
}

// ReadPixels writes into the buffer bound to PIXEL_PACK_BUFFER at offset.
func (c *Context) ReadPixels(x, y, width, height int32, format, xtype uint32, offset int) {
	gl.ReadPixels(x, y, width, height, format, xtype, gl.PtrOffset(offset))
}

// Samplers.

func (c *Context) CreateSampler() uint32 {
	var id uint32
	gl.GenSamplers(1, &id)
	return id
}

func (c *Context) DeleteSampler(id uint32)     { gl.DeleteSamplers(1, &id) }
func (c *Context) BindSampler(unit, id uint32) { gl.BindSampler(unit, id) }

func (c *Context) SamplerParameteri(id, pname uint32, param int32) {
	gl.SamplerParameteri(id, pname, param)
}

func (c *Context) SamplerParameterf(id, pname uint32, param float32) {
	gl.SamplerParameterf(id, pname, param)
}

// Programs.

// CreateShader compiles one stage. A failed compile returns an error
// wrapping backend.ErrCompile with the driver's info log.
func (c *Context) CreateShader(stage uint32, source string) (uint32, error) {
	id := gl.CreateShader(stage)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
		log := infoLog(n, func(buf *uint8) { gl.GetShaderInfoLog(id, n, nil, buf) })
		gl.DeleteShader(id)
		return 0, fmt.Errorf("%w: %s", backend.ErrCompile, log)
	}
	return id, nil
}

func (c *Context) DeleteShader(id uint32) { gl.DeleteShader(id) }

// CreateProgram links the given shaders. They are detached again after
// linking so deleting them frees them immediately.
func (c *Context) CreateProgram(shaders ...uint32) (uint32, error) {
	id := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(id, s)
	}
	gl.LinkProgram(id)
	for _, s := range shaders {
		gl.DetachShader(id, s)
	}

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &n)
		log := infoLog(n, func(buf *uint8) { gl.GetProgramInfoLog(id, n, nil, buf) })
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("%w: %s", backend.ErrLink, log)
	}
	return id, nil
}

func (c *Context) DeleteProgram(id uint32) { gl.DeleteProgram(id) }
func (c *Context) UseProgram(id uint32)    { gl.UseProgram(id) }

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Uniform uploads count elements of format from data, which holds the
// values as consecutive little-endian 32-bit words.
func (c *Context) Uniform(location int32, format backend.UniformFormat, count int32, data []byte) {
	if len(data) < format.Size()*int(count) || count <= 0 {
		return
	}
	f := (*float32)(gl.Ptr(data))
	i := (*int32)(gl.Ptr(data))
	u := (*uint32)(gl.Ptr(data))
	switch format {
	case backend.UniformFloat:
		gl.Uniform1fv(location, count, f)
	case backend.UniformVec2:
		gl.Uniform2fv(location, count, f)
	case backend.UniformVec3:
		gl.Uniform3fv(location, count, f)
	case backend.UniformVec4:
		gl.Uniform4fv(location, count, f)
	case backend.UniformInt:
		gl.Uniform1iv(location, count, i)
	case backend.UniformIVec2:
		gl.Uniform2iv(location, count, i)
	case backend.UniformIVec3:
		gl.Uniform3iv(location, count, i)
	case backend.UniformIVec4:
		gl.Uniform4iv(location, count, i)
	case backend.UniformUint:
		gl.Uniform1uiv(location, count, u)
	case backend.UniformUVec2:
		gl.Uniform2uiv(location, count, u)
	case backend.UniformUVec3:
		gl.Uniform3uiv(location, count, u)
	case backend.UniformUVec4:
		gl.Uniform4uiv(location, count, u)
	case backend.UniformMat2:
		gl.UniformMatrix2fv(location, count, false, f)
	case backend.UniformMat3:
		gl.UniformMatrix3fv(location, count, false, f)
	case backend.UniformMat4:
		gl.UniformMatrix4fv(location, count, false, f)
	}
}

// Vertex arrays.

func (c *Context) CreateVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (c *Context) DeleteVertexArray(id uint32)          { gl.DeleteVertexArrays(1, &id) }
func (c *Context) BindVertexArray(id uint32)            { gl.BindVertexArray(id) }
func (c *Context) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (c *Context) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (c *Context) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset int) {
	gl.VertexAttribIPointerWithOffset(index, size, xtype, stride, uintptr(offset))
}

func (c *Context) VertexAttribDivisor(index, divisor uint32) { gl.VertexAttribDivisor(index, divisor) }

// Framebuffers.

func (c *Context) CreateFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (c *Context) DeleteFramebuffer(id uint32)       { gl.DeleteFramebuffers(1, &id) }
func (c *Context) BindFramebuffer(target, id uint32) { gl.BindFramebuffer(target, id) }

func (c *Context) FramebufferTexture(target, attachment, texture uint32, level int32) {
	gl.FramebufferTexture(target, attachment, texture, level)
}

func (c *Context) FramebufferTextureLayer(target, attachment, texture uint32, level, layer int32) {
	gl.FramebufferTextureLayer(target, attachment, texture, level, layer)
}

func (c *Context) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (c *Context) DrawBuffers(bufs []uint32) {
	if len(bufs) == 0 {
		return
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0]) // #nosec G115 -- bounded by MAX_DRAW_BUFFERS
}

func (c *Context) ReadBuffer(src uint32) { gl.ReadBuffer(src) }

func (c *Context) InvalidateFramebuffer(target uint32, attachments []uint32) {
	if len(attachments) == 0 {
		return
	}
	gl.InvalidateFramebuffer(target, int32(len(attachments)), &attachments[0]) // #nosec G115
}

func (c *Context) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) {
	gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

func (c *Context) ClearBufferfv(buffer uint32, drawBuffer int32, value [4]float32) {
	gl.ClearBufferfv(buffer, drawBuffer, &value[0])
}

func (c *Context) ClearBufferiv(buffer uint32, drawBuffer int32, value [4]int32) {
	gl.ClearBufferiv(buffer, drawBuffer, &value[0])
}

func (c *Context) ClearBufferfi(buffer uint32, drawBuffer int32, depth float32, stencil int32) {
	gl.ClearBufferfi(buffer, drawBuffer, depth, stencil)
}

// Fixed-function state.

func (c *Context) Enable(capability uint32)            { gl.Enable(capability) }
func (c *Context) Disable(capability uint32)           { gl.Disable(capability) }
func (c *Context) Enablei(capability, index uint32)    { gl.Enablei(capability, index) }
func (c *Context) Disablei(capability, index uint32)   { gl.Disablei(capability, index) }
func (c *Context) Viewport(x, y, width, height int32)  { gl.Viewport(x, y, width, height) }
func (c *Context) DepthRange(near, far float64)        { gl.DepthRange(near, far) }
func (c *Context) Scissor(x, y, width, height int32)   { gl.Scissor(x, y, width, height) }
func (c *Context) LineWidth(width float32)             { gl.LineWidth(width) }
func (c *Context) CullFace(mode uint32)                { gl.CullFace(mode) }
func (c *Context) FrontFace(mode uint32)               { gl.FrontFace(mode) }
func (c *Context) PolygonMode(face, mode uint32)       { gl.PolygonMode(face, mode) }
func (c *Context) PolygonOffset(factor, units float32) { gl.PolygonOffset(factor, units) }
func (c *Context) DepthFunc(fn uint32)                 { gl.DepthFunc(fn) }
func (c *Context) DepthMask(write bool)                { gl.DepthMask(write) }

func (c *Context) StencilFuncSeparate(face, fn uint32, ref int32, mask uint32) {
	gl.StencilFuncSeparate(face, fn, ref, mask)
}

func (c *Context) StencilOpSeparate(face, sfail, dpfail, dppass uint32) {
	gl.StencilOpSeparate(face, sfail, dpfail, dppass)
}

func (c *Context) StencilMaskSeparate(face, mask uint32) { gl.StencilMaskSeparate(face, mask) }

func (c *Context) BlendFuncSeparatei(buf, srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	gl.BlendFuncSeparatei(buf, srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (c *Context) BlendEquationSeparatei(buf, modeRGB, modeAlpha uint32) {
	gl.BlendEquationSeparatei(buf, modeRGB, modeAlpha)
}

func (c *Context) BlendColor(r, g, b, a float32)            { gl.BlendColor(r, g, b, a) }
func (c *Context) ColorMaski(index uint32, r, g, b, a bool) { gl.ColorMaski(index, r, g, b, a) }
func (c *Context) SampleMaski(index, mask uint32)           { gl.SampleMaski(index, mask) }

// Draws and dispatches. Index offsets are byte offsets into the bound
// ELEMENT_ARRAY_BUFFER.

func (c *Context) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (c *Context) DrawArraysInstancedBaseInstance(mode uint32, first, count, instances int32, baseInstance uint32) {
	gl.DrawArraysInstancedBaseInstance(mode, first, count, instances, baseInstance)
}

func (c *Context) DrawElementsBaseVertex(mode uint32, count int32, xtype uint32, offset int, baseVertex int32) {
	gl.DrawElementsBaseVertexWithOffset(mode, count, xtype, uintptr(offset), baseVertex)
}

func (c *Context) DrawElementsInstancedBaseVertexBaseInstance(mode uint32, count int32, xtype uint32, offset int,
	instances, baseVertex int32, baseInstance uint32) {
	gl.DrawElementsInstancedBaseVertexBaseInstance(mode, count, xtype, gl.PtrOffset(offset), instances, baseVertex, baseInstance)
}

func (c *Context) DispatchCompute(x, y, z uint32) { gl.DispatchCompute(x, y, z) }
func (c *Context) MemoryBarrier(barriers uint32)  { gl.MemoryBarrier(barriers) }

// Queries.

func (c *Context) CreateQuery() uint32 {
	var id uint32
	gl.GenQueries(1, &id)
	return id
}

func (c *Context) DeleteQuery(id uint32)          { gl.DeleteQueries(1, &id) }
func (c *Context) BeginQuery(target, id uint32)   { gl.BeginQuery(target, id) }
func (c *Context) EndQuery(target uint32)         { gl.EndQuery(target) }
func (c *Context) QueryCounter(id, target uint32) { gl.QueryCounter(id, target) }

func (c *Context) GetQueryObjectui64(id, pname uint32) uint64 {
	var v uint64
	gl.GetQueryObjectui64v(id, pname, &v)
	return v
}

// ptr returns the address of the first byte of data, or nil when data is
// empty so BufferData only allocates.
func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

// infoLog reads an info log of n bytes through read.
func infoLog(n int32, read func(buf *uint8)) string {
	if n <= 0 {
		return "no info log"
	}
	buf := strings.Repeat("\x00", int(n)+1)
	read(gl.Str(buf))
	return strings.TrimRight(buf, "\x00\n ")
}
