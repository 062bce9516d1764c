package convert

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

// MinFilter combines a minification filter and a mipmap filter.
func MinFilter(min gputypes.FilterMode, mip gputypes.MipmapFilterMode) int32 {
	linear := min == gputypes.FilterModeLinear
	switch mip {
	case gputypes.MipmapFilterModeNearest:
		if linear {
			return backend.LINEAR_MIPMAP_NEAREST
		}
		return backend.NEAREST_MIPMAP_NEAREST
	case gputypes.MipmapFilterModeLinear:
		if linear {
			return backend.LINEAR_MIPMAP_LINEAR
		}
		return backend.NEAREST_MIPMAP_LINEAR
	default:
		if linear {
			return backend.LINEAR
		}
		return backend.NEAREST
	}
}

// MagFilter converts a magnification filter.
func MagFilter(f gputypes.FilterMode) int32 {
	if f == gputypes.FilterModeLinear {
		return backend.LINEAR
	}
	return backend.NEAREST
}

// AddressMode converts a wrap mode.
func AddressMode(m gputypes.AddressMode) int32 {
	switch m {
	case gputypes.AddressModeRepeat:
		return backend.REPEAT
	case gputypes.AddressModeMirrorRepeat:
		return backend.MIRRORED_REPEAT
	default:
		return backend.CLAMP_TO_EDGE
	}
}
