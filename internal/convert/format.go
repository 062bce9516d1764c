package convert

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

// VertexAttrib describes how a vertex format is fed to glVertexAttrib*Pointer.
type VertexAttrib struct {
	Size       int32
	Type       uint32
	Normalized bool
	// Integer selects glVertexAttribIPointer.
	Integer bool
}

// VertexFormat converts a vertex format. ok is false for unsupported formats.
func VertexFormat(f gputypes.VertexFormat) (VertexAttrib, bool) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return VertexAttrib{Size: 1, Type: backend.FLOAT}, true
	case gputypes.VertexFormatFloat32x2:
		return VertexAttrib{Size: 2, Type: backend.FLOAT}, true
	case gputypes.VertexFormatFloat32x3:
		return VertexAttrib{Size: 3, Type: backend.FLOAT}, true
	case gputypes.VertexFormatFloat32x4:
		return VertexAttrib{Size: 4, Type: backend.FLOAT}, true
	case gputypes.VertexFormatFloat16x2:
		return VertexAttrib{Size: 2, Type: backend.HALF_FLOAT}, true
	case gputypes.VertexFormatFloat16x4:
		return VertexAttrib{Size: 4, Type: backend.HALF_FLOAT}, true
	case gputypes.VertexFormatUint8x2:
		return VertexAttrib{Size: 2, Type: backend.UNSIGNED_BYTE, Integer: true}, true
	case gputypes.VertexFormatUint8x4:
		return VertexAttrib{Size: 4, Type: backend.UNSIGNED_BYTE, Integer: true}, true
	case gputypes.VertexFormatSint8x2:
		return VertexAttrib{Size: 2, Type: backend.BYTE, Integer: true}, true
	case gputypes.VertexFormatSint8x4:
		return VertexAttrib{Size: 4, Type: backend.BYTE, Integer: true}, true
	case gputypes.VertexFormatUnorm8x2:
		return VertexAttrib{Size: 2, Type: backend.UNSIGNED_BYTE, Normalized: true}, true
	case gputypes.VertexFormatUnorm8x4:
		return VertexAttrib{Size: 4, Type: backend.UNSIGNED_BYTE, Normalized: true}, true
	case gputypes.VertexFormatSnorm8x2:
		return VertexAttrib{Size: 2, Type: backend.BYTE, Normalized: true}, true
	case gputypes.VertexFormatSnorm8x4:
		return VertexAttrib{Size: 4, Type: backend.BYTE, Normalized: true}, true
	case gputypes.VertexFormatUint16x2:
		return VertexAttrib{Size: 2, Type: backend.UNSIGNED_SHORT, Integer: true}, true
	case gputypes.VertexFormatUint16x4:
		return VertexAttrib{Size: 4, Type: backend.UNSIGNED_SHORT, Integer: true}, true
	case gputypes.VertexFormatSint16x2:
		return VertexAttrib{Size: 2, Type: backend.SHORT, Integer: true}, true
	case gputypes.VertexFormatSint16x4:
		return VertexAttrib{Size: 4, Type: backend.SHORT, Integer: true}, true
	case gputypes.VertexFormatUnorm16x2:
		return VertexAttrib{Size: 2, Type: backend.UNSIGNED_SHORT, Normalized: true}, true
	case gputypes.VertexFormatUnorm16x4:
		return VertexAttrib{Size: 4, Type: backend.UNSIGNED_SHORT, Normalized: true}, true
	case gputypes.VertexFormatSnorm16x2:
		return VertexAttrib{Size: 2, Type: backend.SHORT, Normalized: true}, true
	case gputypes.VertexFormatSnorm16x4:
		return VertexAttrib{Size: 4, Type: backend.SHORT, Normalized: true}, true
	case gputypes.VertexFormatUint32:
		return VertexAttrib{Size: 1, Type: backend.UNSIGNED_INT, Integer: true}, true
	case gputypes.VertexFormatUint32x2:
		return VertexAttrib{Size: 2, Type: backend.UNSIGNED_INT, Integer: true}, true
	case gputypes.VertexFormatUint32x3:
		return VertexAttrib{Size: 3, Type: backend.UNSIGNED_INT, Integer: true}, true
	case gputypes.VertexFormatUint32x4:
		return VertexAttrib{Size: 4, Type: backend.UNSIGNED_INT, Integer: true}, true
	case gputypes.VertexFormatSint32:
		return VertexAttrib{Size: 1, Type: backend.INT, Integer: true}, true
	case gputypes.VertexFormatSint32x2:
		return VertexAttrib{Size: 2, Type: backend.INT, Integer: true}, true
	case gputypes.VertexFormatSint32x3:
		return VertexAttrib{Size: 3, Type: backend.INT, Integer: true}, true
	case gputypes.VertexFormatSint32x4:
		return VertexAttrib{Size: 4, Type: backend.INT, Integer: true}, true
	default:
		return VertexAttrib{}, false
	}
}

// PixelFormat is the GL triple describing a texture format.
type PixelFormat struct {
	Internal uint32
	Format   uint32
	Type     uint32
	// Bytes per texel for uncompressed transfers.
	TexelSize int
}

// Aspect returns the framebuffer attachment and clear bits for the format.
func (p PixelFormat) Aspect() (attachment, mask uint32) {
	switch p.Format {
	case backend.DEPTH_COMPONENT:
		return backend.DEPTH_ATTACHMENT, backend.DEPTH_BUFFER_BIT
	case backend.DEPTH_STENCIL:
		return backend.DEPTH_STENCIL_ATTACHMENT, backend.DEPTH_BUFFER_BIT | backend.STENCIL_BUFFER_BIT
	case backend.STENCIL_INDEX:
		return backend.STENCIL_ATTACHMENT, backend.STENCIL_BUFFER_BIT
	default:
		return backend.COLOR_ATTACHMENT0, backend.COLOR_BUFFER_BIT
	}
}

// TextureFormat converts a texture format. ok is false for formats the
// backend cannot store (block-compressed formats among them).
func TextureFormat(f gputypes.TextureFormat) (PixelFormat, bool) {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return PixelFormat{backend.R8, backend.RED, backend.UNSIGNED_BYTE, 1}, true
	case gputypes.TextureFormatRG8Unorm:
		return PixelFormat{backend.RG8, backend.RG, backend.UNSIGNED_BYTE, 2}, true
	case gputypes.TextureFormatRGBA8Unorm:
		return PixelFormat{backend.RGBA8, backend.RGBA, backend.UNSIGNED_BYTE, 4}, true
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return PixelFormat{backend.SRGB8_ALPHA8, backend.RGBA, backend.UNSIGNED_BYTE, 4}, true
	case gputypes.TextureFormatBGRA8Unorm:
		return PixelFormat{backend.RGBA8, backend.BGRA, backend.UNSIGNED_BYTE, 4}, true
	case gputypes.TextureFormatBGRA8UnormSrgb:
		return PixelFormat{backend.SRGB8_ALPHA8, backend.BGRA, backend.UNSIGNED_BYTE, 4}, true
	case gputypes.TextureFormatR16Float:
		return PixelFormat{backend.R16F, backend.RED, backend.HALF_FLOAT, 2}, true
	case gputypes.TextureFormatRG16Float:
		return PixelFormat{backend.RG16F, backend.RG, backend.HALF_FLOAT, 4}, true
	case gputypes.TextureFormatRGBA16Float:
		return PixelFormat{backend.RGBA16F, backend.RGBA, backend.HALF_FLOAT, 8}, true
	case gputypes.TextureFormatR32Float:
		return PixelFormat{backend.R32F, backend.RED, backend.FLOAT, 4}, true
	case gputypes.TextureFormatRG32Float:
		return PixelFormat{backend.RG32F, backend.RG, backend.FLOAT, 8}, true
	case gputypes.TextureFormatRGBA32Float:
		return PixelFormat{backend.RGBA32F, backend.RGBA, backend.FLOAT, 16}, true
	case gputypes.TextureFormatR32Uint:
		return PixelFormat{backend.R32UI, backend.RED_INTEGER, backend.UNSIGNED_INT, 4}, true
	case gputypes.TextureFormatRGBA32Uint:
		return PixelFormat{backend.RGBA32UI, backend.RGBA_INTEGER, backend.UNSIGNED_INT, 16}, true
	case gputypes.TextureFormatDepth16Unorm:
		return PixelFormat{backend.DEPTH_COMPONENT16, backend.DEPTH_COMPONENT, backend.UNSIGNED_SHORT, 2}, true
	case gputypes.TextureFormatDepth24Plus:
		return PixelFormat{backend.DEPTH_COMPONENT24, backend.DEPTH_COMPONENT, backend.UNSIGNED_INT, 4}, true
	case gputypes.TextureFormatDepth24PlusStencil8:
		return PixelFormat{backend.DEPTH24_STENCIL8, backend.DEPTH_STENCIL, backend.UNSIGNED_INT_24_8, 4}, true
	case gputypes.TextureFormatDepth32Float:
		return PixelFormat{backend.DEPTH_COMPONENT32F, backend.DEPTH_COMPONENT, backend.FLOAT, 4}, true
	case gputypes.TextureFormatDepth32FloatStencil8:
		return PixelFormat{backend.DEPTH32F_STENCIL8, backend.DEPTH_STENCIL, backend.FLOAT_32_UNSIGNED_INT_24_8_REV, 8}, true
	case gputypes.TextureFormatStencil8:
		return PixelFormat{backend.STENCIL_INDEX8, backend.STENCIL_INDEX, backend.UNSIGNED_BYTE, 1}, true
	default:
		return PixelFormat{}, false
	}
}

// TextureTarget returns the GL target for a texture of the given shape.
func TextureTarget(dim gputypes.TextureDimension, layers, samples uint32) uint32 {
	switch dim {
	case gputypes.TextureDimension1D:
		if layers > 1 {
			return backend.TEXTURE_1D_ARRAY
		}
		return backend.TEXTURE_1D
	case gputypes.TextureDimension3D:
		return backend.TEXTURE_3D
	default:
		if samples > 1 {
			return backend.TEXTURE_2D_MULTISAMPLE
		}
		if layers > 1 {
			return backend.TEXTURE_2D_ARRAY
		}
		return backend.TEXTURE_2D
	}
}

// ViewTarget returns the GL target for a texture view dimension.
// fallback is used for TextureViewDimensionUndefined.
func ViewTarget(dim gputypes.TextureViewDimension, fallback uint32) uint32 {
	switch dim {
	case gputypes.TextureViewDimension1D:
		return backend.TEXTURE_1D
	case gputypes.TextureViewDimension2D:
		if fallback == backend.TEXTURE_2D_MULTISAMPLE {
			return fallback
		}
		return backend.TEXTURE_2D
	case gputypes.TextureViewDimension2DArray:
		return backend.TEXTURE_2D_ARRAY
	case gputypes.TextureViewDimensionCube:
		return backend.TEXTURE_CUBE_MAP
	case gputypes.TextureViewDimensionCubeArray:
		return backend.TEXTURE_CUBE_MAP_ARRAY
	case gputypes.TextureViewDimension3D:
		return backend.TEXTURE_3D
	default:
		return fallback
	}
}
