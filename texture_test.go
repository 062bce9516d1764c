package glvk

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

func TestCreateTextureInvalid(t *testing.T) {
	f := newFixture(t)
	base := gputypes.TextureDescriptor{
		Size:      gputypes.Extent3D{Width: 8, Height: 8},
		Dimension: gputypes.TextureDimension2D,
		Format:    gputypes.TextureFormatRGBA8Unorm,
	}
	tests := []struct {
		name   string
		modify func(*gputypes.TextureDescriptor)
		want   error
	}{
		{"undefined format", func(d *gputypes.TextureDescriptor) { d.Format = gputypes.TextureFormatUndefined }, ErrUnsupportedFormat},
		{"zero width", func(d *gputypes.TextureDescriptor) { d.Size.Width = 0 }, ErrInvalidDescriptor},
		{"multisampled with mips", func(d *gputypes.TextureDescriptor) { d.SampleCount, d.MipLevelCount = 4, 2 }, ErrInvalidDescriptor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := base
			tt.modify(&desc)
			if _, err := f.dev.CreateTexture(desc); !errors.Is(err, tt.want) {
				t.Errorf("CreateTexture() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateTextureStorage(t *testing.T) {
	tests := []struct {
		name string
		desc gputypes.TextureDescriptor
		want string
	}{
		{
			name: "2D with mips",
			desc: gputypes.TextureDescriptor{
				Size: gputypes.Extent3D{Width: 64, Height: 32}, MipLevelCount: 4,
				Dimension: gputypes.TextureDimension2D, Format: gputypes.TextureFormatRGBA8Unorm,
			},
			want: fmt.Sprintf("TexStorage2D(%d, 4, %d, 64, 32)", backend.TEXTURE_2D, backend.RGBA8),
		},
		{
			name: "2D array",
			desc: gputypes.TextureDescriptor{
				Size:      gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 6},
				Dimension: gputypes.TextureDimension2D, Format: gputypes.TextureFormatR32Float,
			},
			want: fmt.Sprintf("TexStorage3D(%d, 1, %d, 16, 16, 6)", backend.TEXTURE_2D_ARRAY, backend.R32F),
		},
		{
			name: "multisampled",
			desc: gputypes.TextureDescriptor{
				Size: gputypes.Extent3D{Width: 8, Height: 8}, SampleCount: 4,
				Dimension: gputypes.TextureDimension2D, Format: gputypes.TextureFormatRGBA8Unorm,
			},
			want: fmt.Sprintf("TexStorage2DMultisample(%d, 4, %d, 8, 8)", backend.TEXTURE_2D_MULTISAMPLE, backend.RGBA8),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.trace.Clear()
			tex, err := f.dev.CreateTexture(tt.desc)
			if err != nil {
				t.Fatalf("CreateTexture() error = %v", err)
			}
			if calls := callStrings(f.trace.Calls()); !slices.Contains(calls, tt.want) {
				t.Errorf("calls = %v, missing %s", calls, tt.want)
			}
			if l, _ := f.dev.TextureLayout(tex); l != ImageLayoutUndefined {
				t.Errorf("TextureLayout() = %v, want Undefined", l)
			}
		})
	}
}

func TestTextureMaxLevel(t *testing.T) {
	f := newFixture(t)
	f.trace.Clear()
	_, err := f.dev.CreateTexture(gputypes.TextureDescriptor{
		Size: gputypes.Extent3D{Width: 64, Height: 64}, MipLevelCount: 3,
		Dimension: gputypes.TextureDimension2D, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	want := fmt.Sprintf("TexParameteri(%d, %d, 2)", backend.TEXTURE_2D, backend.TEXTURE_MAX_LEVEL)
	if calls := callStrings(f.trace.Filter("TexParameteri")); !slices.Contains(calls, want) {
		t.Errorf("calls = %v, missing %s", calls, want)
	}
}

func TestCreateTextureView(t *testing.T) {
	f := newFixture(t)
	tex, err := f.dev.CreateTexture(gputypes.TextureDescriptor{
		Size: gputypes.Extent3D{Width: 32, Height: 32}, MipLevelCount: 3,
		Dimension: gputypes.TextureDimension2D, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	src, _ := f.dev.textures.Get(tex.h)

	t.Run("whole texture aliases", func(t *testing.T) {
		f.trace.Clear()
		v, err := f.dev.CreateTextureView(tex, gputypes.TextureViewDescriptor{})
		if err != nil {
			t.Fatalf("CreateTextureView() error = %v", err)
		}
		view, _ := f.dev.textureViews.Get(v.h)
		if view.id != src.id || view.owned {
			t.Errorf("view id = %d owned = %v, want %d and not owned", view.id, view.owned, src.id)
		}
		if n := f.trace.Count("TextureView"); n != 0 {
			t.Errorf("TextureView calls = %d, want 0", n)
		}
		f.dev.DestroyTextureView(v)
		if n := f.trace.Count("DeleteTexture"); n != 0 {
			t.Errorf("DeleteTexture calls = %d, want 0", n)
		}
	})

	t.Run("single mip creates a view", func(t *testing.T) {
		f.trace.Clear()
		v, err := f.dev.CreateTextureView(tex, gputypes.TextureViewDescriptor{BaseMipLevel: 1, MipLevelCount: 1})
		if err != nil {
			t.Fatalf("CreateTextureView() error = %v", err)
		}
		view, _ := f.dev.textureViews.Get(v.h)
		want := fmt.Sprintf("TextureView(%d, %d, %d, %d, 1, 1, 0, 1)", view.id, backend.TEXTURE_2D, src.id, backend.RGBA8)
		if calls := callStrings(f.trace.Filter("TextureView")); len(calls) != 1 || calls[0] != want {
			t.Errorf("calls = %v, want [%s]", calls, want)
		}
		got, err := f.dev.ViewTexture(v)
		if err != nil || got != tex {
			t.Errorf("ViewTexture() = %v, %v, want %v", got, err, tex)
		}
		f.dev.DestroyTextureView(v)
		if n := f.trace.Count("DeleteTexture"); n != 1 {
			t.Errorf("DeleteTexture calls = %d, want 1", n)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := f.dev.CreateTextureView(tex, gputypes.TextureViewDescriptor{BaseMipLevel: 3})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("CreateTextureView() error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestTextureSize(t *testing.T) {
	f := newFixture(t)
	tex := f.texture(gputypes.TextureFormatRGBA8Unorm, 4, 2)
	size, err := f.dev.TextureSize(tex)
	if err != nil {
		t.Fatalf("TextureSize() error = %v", err)
	}
	if want := (gputypes.Extent3D{Width: 4, Height: 2, DepthOrArrayLayers: 1}); size != want {
		t.Errorf("TextureSize() = %+v, want %+v", size, want)
	}

	f.dev.DestroyTexture(tex)
	if _, err := f.dev.TextureSize(tex); !errors.Is(err, ErrResourceDestroyed) {
		t.Errorf("TextureSize() after destroy error = %v, want ErrResourceDestroyed", err)
	}
}

func TestCreateSampler(t *testing.T) {
	f := newFixture(t)
	f.trace.Clear()
	s, err := f.dev.CreateSampler(gputypes.SamplerDescriptor{
		Label:         "shadow",
		MinFilter:     gputypes.FilterModeLinear,
		MagFilter:     gputypes.FilterModeLinear,
		LodMaxClamp:   8,
		MaxAnisotropy: 4,
		Compare:       gputypes.CompareFunctionLess,
	})
	if err != nil {
		t.Fatalf("CreateSampler() error = %v", err)
	}
	smp, _ := f.dev.samplers.Get(s.h)

	calls := callStrings(f.trace.Calls())
	for _, want := range []string{
		fmt.Sprintf("SamplerParameteri(%d, %d, %d)", smp.id, backend.TEXTURE_COMPARE_MODE, backend.COMPARE_REF_TO_TEXTURE),
		fmt.Sprintf("SamplerParameteri(%d, %d, %d)", smp.id, backend.TEXTURE_COMPARE_FUNC, backend.LESS),
		fmt.Sprintf("SamplerParameterf(%d, %d, 8)", smp.id, backend.TEXTURE_MAX_LOD),
		fmt.Sprintf("SamplerParameterf(%d, %d, 4)", smp.id, backend.TEXTURE_MAX_ANISOTROPY),
	} {
		if !slices.Contains(calls, want) {
			t.Errorf("calls = %v, missing %s", calls, want)
		}
	}

	f.dev.DestroySampler(s)
	if n := f.trace.Count("DeleteSampler"); n != 1 {
		t.Errorf("DeleteSampler calls = %d, want 1", n)
	}
}
