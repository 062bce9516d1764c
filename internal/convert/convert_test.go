package convert

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

func TestTopology(t *testing.T) {
	tests := []struct {
		in   gputypes.PrimitiveTopology
		want uint32
	}{
		{gputypes.PrimitiveTopologyTriangleList, backend.TRIANGLES},
		{gputypes.PrimitiveTopologyTriangleStrip, backend.TRIANGLE_STRIP},
		{gputypes.PrimitiveTopologyLineList, backend.LINES},
		{gputypes.PrimitiveTopologyLineStrip, backend.LINE_STRIP},
		{gputypes.PrimitiveTopologyPointList, backend.POINTS},
	}
	for _, tt := range tests {
		if got := Topology(tt.in); got != tt.want {
			t.Errorf("Topology(%v) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestIndexType(t *testing.T) {
	tests := []struct {
		in       gputypes.IndexFormat
		want     uint32
		wantSize int
	}{
		{gputypes.IndexFormatUint16, backend.UNSIGNED_SHORT, 2},
		{gputypes.IndexFormatUint32, backend.UNSIGNED_INT, 4},
		{gputypes.IndexFormatUndefined, backend.NONE, 0},
	}
	for _, tt := range tests {
		got := IndexType(tt.in)
		if got != tt.want {
			t.Errorf("IndexType(%v) = %#x, want %#x", tt.in, got, tt.want)
		}
		if size := IndexSize(got); size != tt.wantSize {
			t.Errorf("IndexSize(%#x) = %d, want %d", got, size, tt.wantSize)
		}
	}
}

func TestCompareFunc(t *testing.T) {
	tests := []struct {
		in   gputypes.CompareFunction
		want uint32
	}{
		{gputypes.CompareFunctionNever, backend.NEVER},
		{gputypes.CompareFunctionLess, backend.LESS},
		{gputypes.CompareFunctionLessEqual, backend.LEQUAL},
		{gputypes.CompareFunctionGreaterEqual, backend.GEQUAL},
		{gputypes.CompareFunctionUndefined, backend.ALWAYS},
	}
	for _, tt := range tests {
		if got := CompareFunc(tt.in); got != tt.want {
			t.Errorf("CompareFunc(%v) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestBlend(t *testing.T) {
	if got := BlendFactor(gputypes.BlendFactorOneMinusSrcAlpha); got != backend.ONE_MINUS_SRC_ALPHA {
		t.Errorf("BlendFactor(OneMinusSrcAlpha) = %#x", got)
	}
	if got := BlendFactor(gputypes.BlendFactorZero); got != backend.ZERO {
		t.Errorf("BlendFactor(Zero) = %#x", got)
	}
	if got := BlendOp(gputypes.BlendOperationReverseSubtract); got != backend.FUNC_REVERSE_SUBTRACT {
		t.Errorf("BlendOp(ReverseSubtract) = %#x", got)
	}
	if got := BlendOp(gputypes.BlendOperationUndefined); got != backend.FUNC_ADD {
		t.Errorf("BlendOp(Undefined) = %#x, want FUNC_ADD", got)
	}
}

func TestStencilOp(t *testing.T) {
	if got := StencilOp(gputypes.StencilOperationIncrementWrap); got != backend.INCR_WRAP {
		t.Errorf("StencilOp(IncrementWrap) = %#x", got)
	}
	if got := StencilOp(gputypes.StencilOperationKeep); got != backend.KEEP {
		t.Errorf("StencilOp(Keep) = %#x, want KEEP", got)
	}
}

func TestCullFace(t *testing.T) {
	if _, enabled := CullFace(gputypes.CullModeNone); enabled {
		t.Error("CullModeNone should disable culling")
	}
	face, enabled := CullFace(gputypes.CullModeFront)
	if !enabled || face != backend.FRONT {
		t.Errorf("CullFace(Front) = (%#x, %v)", face, enabled)
	}
	if got := FrontFace(gputypes.FrontFaceCW); got != backend.CW {
		t.Errorf("FrontFace(CW) = %#x", got)
	}
	if got := FrontFace(gputypes.FrontFaceCCW); got != backend.CCW {
		t.Errorf("FrontFace(CCW) = %#x", got)
	}
}

func TestVertexFormat(t *testing.T) {
	tests := []struct {
		in   gputypes.VertexFormat
		want VertexAttrib
	}{
		{gputypes.VertexFormatFloat32x3, VertexAttrib{Size: 3, Type: backend.FLOAT}},
		{gputypes.VertexFormatUnorm8x4, VertexAttrib{Size: 4, Type: backend.UNSIGNED_BYTE, Normalized: true}},
		{gputypes.VertexFormatUint32x2, VertexAttrib{Size: 2, Type: backend.UNSIGNED_INT, Integer: true}},
		{gputypes.VertexFormatSint16x4, VertexAttrib{Size: 4, Type: backend.SHORT, Integer: true}},
	}
	for _, tt := range tests {
		got, ok := VertexFormat(tt.in)
		if !ok {
			t.Errorf("VertexFormat(%v) unsupported", tt.in)
			continue
		}
		if got != tt.want {
			t.Errorf("VertexFormat(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, ok := VertexFormat(gputypes.VertexFormatUndefined); ok {
		t.Error("VertexFormat(Undefined) should be unsupported")
	}
}

func TestTextureFormat(t *testing.T) {
	tests := []struct {
		name           string
		format         gputypes.TextureFormat
		want           PixelFormat
		wantAttachment uint32
	}{
		{
			name:           "RGBA8Unorm",
			format:         gputypes.TextureFormatRGBA8Unorm,
			want:           PixelFormat{backend.RGBA8, backend.RGBA, backend.UNSIGNED_BYTE, 4},
			wantAttachment: backend.COLOR_ATTACHMENT0,
		},
		{
			name:           "BGRA8Unorm",
			format:         gputypes.TextureFormatBGRA8Unorm,
			want:           PixelFormat{backend.RGBA8, backend.BGRA, backend.UNSIGNED_BYTE, 4},
			wantAttachment: backend.COLOR_ATTACHMENT0,
		},
		{
			name:           "Depth32Float",
			format:         gputypes.TextureFormatDepth32Float,
			want:           PixelFormat{backend.DEPTH_COMPONENT32F, backend.DEPTH_COMPONENT, backend.FLOAT, 4},
			wantAttachment: backend.DEPTH_ATTACHMENT,
		},
		{
			name:           "Depth24PlusStencil8",
			format:         gputypes.TextureFormatDepth24PlusStencil8,
			want:           PixelFormat{backend.DEPTH24_STENCIL8, backend.DEPTH_STENCIL, backend.UNSIGNED_INT_24_8, 4},
			wantAttachment: backend.DEPTH_STENCIL_ATTACHMENT,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TextureFormat(tt.format)
			if !ok {
				t.Fatal("format unsupported")
			}
			if got != tt.want {
				t.Errorf("TextureFormat() = %+v, want %+v", got, tt.want)
			}
			if att, _ := got.Aspect(); att != tt.wantAttachment {
				t.Errorf("Aspect() attachment = %#x, want %#x", att, tt.wantAttachment)
			}
		})
	}
	if _, ok := TextureFormat(gputypes.TextureFormatBC7RGBAUnorm); ok {
		t.Error("BC7 should be unsupported")
	}
}

func TestTextureTarget(t *testing.T) {
	tests := []struct {
		dim             gputypes.TextureDimension
		layers, samples uint32
		want            uint32
	}{
		{gputypes.TextureDimension2D, 1, 1, backend.TEXTURE_2D},
		{gputypes.TextureDimension2D, 6, 1, backend.TEXTURE_2D_ARRAY},
		{gputypes.TextureDimension2D, 1, 4, backend.TEXTURE_2D_MULTISAMPLE},
		{gputypes.TextureDimension1D, 1, 1, backend.TEXTURE_1D},
		{gputypes.TextureDimension3D, 1, 1, backend.TEXTURE_3D},
	}
	for _, tt := range tests {
		if got := TextureTarget(tt.dim, tt.layers, tt.samples); got != tt.want {
			t.Errorf("TextureTarget(%v, %d, %d) = %#x, want %#x", tt.dim, tt.layers, tt.samples, got, tt.want)
		}
	}
	if got := ViewTarget(gputypes.TextureViewDimensionCube, backend.TEXTURE_2D_ARRAY); got != backend.TEXTURE_CUBE_MAP {
		t.Errorf("ViewTarget(Cube) = %#x", got)
	}
	if got := ViewTarget(gputypes.TextureViewDimensionUndefined, backend.TEXTURE_3D); got != backend.TEXTURE_3D {
		t.Errorf("ViewTarget(Undefined) = %#x, want fallback", got)
	}
}

func TestSamplerFilters(t *testing.T) {
	if got := MinFilter(gputypes.FilterModeLinear, gputypes.MipmapFilterModeLinear); got != backend.LINEAR_MIPMAP_LINEAR {
		t.Errorf("MinFilter(Linear, Linear) = %#x", got)
	}
	if got := MinFilter(gputypes.FilterModeNearest, gputypes.MipmapFilterModeUndefined); got != backend.NEAREST {
		t.Errorf("MinFilter(Nearest, Undefined) = %#x", got)
	}
	if got := MagFilter(gputypes.FilterModeLinear); got != backend.LINEAR {
		t.Errorf("MagFilter(Linear) = %#x", got)
	}
	if got := AddressMode(gputypes.AddressModeMirrorRepeat); got != backend.MIRRORED_REPEAT {
		t.Errorf("AddressMode(MirrorRepeat) = %#x", got)
	}
	if got := AddressMode(gputypes.AddressModeUndefined); got != backend.CLAMP_TO_EDGE {
		t.Errorf("AddressMode(Undefined) = %#x", got)
	}
}
