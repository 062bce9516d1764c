package convert

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

// Topology converts a primitive topology to a GL draw mode.
func Topology(t gputypes.PrimitiveTopology) uint32 {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return backend.POINTS
	case gputypes.PrimitiveTopologyLineList:
		return backend.LINES
	case gputypes.PrimitiveTopologyLineStrip:
		return backend.LINE_STRIP
	case gputypes.PrimitiveTopologyTriangleStrip:
		return backend.TRIANGLE_STRIP
	default:
		return backend.TRIANGLES
	}
}

// IndexType converts an index format to a GL element type.
// IndexFormatUndefined maps to GL_NONE.
func IndexType(f gputypes.IndexFormat) uint32 {
	switch f {
	case gputypes.IndexFormatUint16:
		return backend.UNSIGNED_SHORT
	case gputypes.IndexFormatUint32:
		return backend.UNSIGNED_INT
	default:
		return backend.NONE
	}
}

// IndexSize returns the byte size of one index of the given GL element type.
func IndexSize(xtype uint32) int {
	switch xtype {
	case backend.UNSIGNED_BYTE:
		return 1
	case backend.UNSIGNED_SHORT:
		return 2
	case backend.UNSIGNED_INT:
		return 4
	default:
		return 0
	}
}

// CompareFunc converts a compare function to the GL constant.
func CompareFunc(fn gputypes.CompareFunction) uint32 {
	switch fn {
	case gputypes.CompareFunctionNever:
		return backend.NEVER
	case gputypes.CompareFunctionLess:
		return backend.LESS
	case gputypes.CompareFunctionEqual:
		return backend.EQUAL
	case gputypes.CompareFunctionLessEqual:
		return backend.LEQUAL
	case gputypes.CompareFunctionGreater:
		return backend.GREATER
	case gputypes.CompareFunctionNotEqual:
		return backend.NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return backend.GEQUAL
	default:
		return backend.ALWAYS
	}
}

// BlendFactor converts a blend factor to the GL constant.
func BlendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return backend.ZERO
	case gputypes.BlendFactorSrc:
		return backend.SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return backend.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return backend.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return backend.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return backend.DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return backend.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return backend.DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return backend.ONE_MINUS_DST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return backend.SRC_ALPHA_SATURATE
	case gputypes.BlendFactorConstant:
		return backend.CONSTANT_COLOR
	case gputypes.BlendFactorOneMinusConstant:
		return backend.ONE_MINUS_CONSTANT_COLOR
	default:
		return backend.ONE
	}
}

// BlendOp converts a blend operation to the GL blend equation.
func BlendOp(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return backend.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return backend.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return backend.MIN
	case gputypes.BlendOperationMax:
		return backend.MAX
	default:
		return backend.FUNC_ADD
	}
}

// StencilOp converts a stencil operation to the GL constant.
func StencilOp(op gputypes.StencilOperation) uint32 {
	switch op {
	case gputypes.StencilOperationZero:
		return backend.ZERO
	case gputypes.StencilOperationReplace:
		return backend.REPLACE
	case gputypes.StencilOperationInvert:
		return backend.INVERT
	case gputypes.StencilOperationIncrementClamp:
		return backend.INCR
	case gputypes.StencilOperationDecrementClamp:
		return backend.DECR
	case gputypes.StencilOperationIncrementWrap:
		return backend.INCR_WRAP
	case gputypes.StencilOperationDecrementWrap:
		return backend.DECR_WRAP
	default:
		return backend.KEEP
	}
}

// CullFace converts a cull mode. enabled is false for CullModeNone.
func CullFace(m gputypes.CullMode) (face uint32, enabled bool) {
	switch m {
	case gputypes.CullModeFront:
		return backend.FRONT, true
	case gputypes.CullModeBack:
		return backend.BACK, true
	default:
		return backend.BACK, false
	}
}

// FrontFace converts a winding order.
func FrontFace(f gputypes.FrontFace) uint32 {
	if f == gputypes.FrontFaceCW {
		return backend.CW
	}
	return backend.CCW
}
