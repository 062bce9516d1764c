package backend

import (
	"errors"
)

// Common backend errors.
var (
	// ErrNotAvailable is returned when a requested backend is not registered
	// or cannot produce a context.
	ErrNotAvailable = errors.New("backend: not available")

	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("backend: shader compilation failed")

	// ErrLink is returned when a program fails to link.
	ErrLink = errors.New("backend: program link failed")
)

// Context is the immediate-mode graphics context commands are applied to.
//
// The method set mirrors the OpenGL 4.3 core entry points the replay engine
// needs, with Go slices in place of raw pointers. Buffer-relative parameters
// (vertex attribute and index offsets, pixel transfer offsets) are byte
// offsets into the buffer currently bound to the relevant target.
//
// A Context is bound to one OS thread by the underlying API and is not safe
// for concurrent use.
type Context interface {
	// Name returns the backend identifier (e.g., "opengl", "trace").
	Name() string

	GetString(name uint32) string
	GetInteger(pname uint32) int32
	// GetError returns and clears the oldest recorded error code.
	GetError() uint32
	Flush()
	Finish()

	// Buffers.
	CreateBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target, id uint32)
	BufferData(target uint32, size int, data []byte, usage uint32)
	BufferSubData(target uint32, offset int, data []byte)
	GetBufferSubData(target uint32, offset int, data []byte)
	CopyBufferSubData(readTarget, writeTarget uint32, readOffset, writeOffset, size int)
	BindBufferRange(target, index, id uint32, offset, size int)

	// Textures.
	CreateTexture() uint32
	DeleteTexture(id uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, id uint32)
	TexStorage1D(target uint32, levels int32, internalFormat uint32, width int32)
	TexStorage2D(target uint32, levels int32, internalFormat uint32, width, height int32)
	TexStorage3D(target uint32, levels int32, internalFormat uint32, width, height, depth int32)
	TexStorage2DMultisample(target uint32, samples int32, internalFormat uint32, width, height int32)
	TexParameteri(target, pname uint32, param int32)
	TexSubImage1D(target uint32, level, x, width int32, format, xtype uint32, offset int)
	TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, offset int)
	TexSubImage3D(target uint32, level, x, y, z, width, height, depth int32, format, xtype uint32, offset int)
	TexBufferRange(target, internalFormat, buffer uint32, offset, size int)
	TextureView(id, target, orig, internalFormat, minLevel, numLevels, minLayer, numLayers uint32)
	PixelStorei(pname uint32, param int32)
	BindImageTexture(unit, id uint32, level int32, layered bool, layer int32, access, format uint32)
	CopyImageSubData(src, srcTarget uint32, srcLevel, srcX, srcY, srcZ int32,
		dst, dstTarget uint32, dstLevel, dstX, dstY, dstZ int32, width, height, depth int32)
	ReadPixels(x, y, width, height int32, format, xtype uint32, offset int)

	// Samplers.
	CreateSampler() uint32
	DeleteSampler(id uint32)
	BindSampler(unit, id uint32)
	SamplerParameteri(id, pname uint32, param int32)
	SamplerParameterf(id, pname uint32, param float32)

	// Programs.
	CreateShader(stage uint32, source string) (uint32, error)
	DeleteShader(id uint32)
	CreateProgram(shaders ...uint32) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform(location int32, format UniformFormat, count int32, data []byte)

	// Vertex arrays.
	CreateVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset int)
	VertexAttribDivisor(index, divisor uint32)

	// Framebuffers.
	CreateFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	BindFramebuffer(target, id uint32)
	FramebufferTexture(target, attachment, texture uint32, level int32)
	FramebufferTextureLayer(target, attachment, texture uint32, level, layer int32)
	CheckFramebufferStatus(target uint32) uint32
	DrawBuffers(bufs []uint32)
	ReadBuffer(src uint32)
	InvalidateFramebuffer(target uint32, attachments []uint32)
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32)
	ClearBufferfv(buffer uint32, drawBuffer int32, value [4]float32)
	ClearBufferiv(buffer uint32, drawBuffer int32, value [4]int32)
	ClearBufferfi(buffer uint32, drawBuffer int32, depth float32, stencil int32)

	// Fixed-function state.
	Enable(capability uint32)
	Disable(capability uint32)
	Enablei(capability, index uint32)
	Disablei(capability, index uint32)
	Viewport(x, y, width, height int32)
	DepthRange(near, far float64)
	Scissor(x, y, width, height int32)
	LineWidth(width float32)
	CullFace(mode uint32)
	FrontFace(mode uint32)
	PolygonMode(face, mode uint32)
	PolygonOffset(factor, units float32)
	DepthFunc(fn uint32)
	DepthMask(write bool)
	StencilFuncSeparate(face, fn uint32, ref int32, mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass uint32)
	StencilMaskSeparate(face, mask uint32)
	BlendFuncSeparatei(buf, srcRGB, dstRGB, srcAlpha, dstAlpha uint32)
	BlendEquationSeparatei(buf, modeRGB, modeAlpha uint32)
	BlendColor(r, g, b, a float32)
	ColorMaski(index uint32, r, g, b, a bool)
	SampleMaski(index, mask uint32)

	// Draws and dispatches.
	DrawArrays(mode uint32, first, count int32)
	DrawArraysInstancedBaseInstance(mode uint32, first, count, instances int32, baseInstance uint32)
	DrawElementsBaseVertex(mode uint32, count int32, xtype uint32, offset int, baseVertex int32)
	DrawElementsInstancedBaseVertexBaseInstance(mode uint32, count int32, xtype uint32, offset int,
		instances, baseVertex int32, baseInstance uint32)
	DispatchCompute(x, y, z uint32)
	MemoryBarrier(barriers uint32)

	// Queries.
	CreateQuery() uint32
	DeleteQuery(id uint32)
	BeginQuery(target, id uint32)
	EndQuery(target uint32)
	QueryCounter(id, target uint32)
	GetQueryObjectui64(id, pname uint32) uint64
}
