package glvk

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

// ImageLayout is the access layout an image is kept in.
//
// The backend has no layouts; they are tracked so that layout queries made
// after render passes and barriers report what an explicit API would.
type ImageLayout uint32

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachment
	ImageLayoutDepthStencilAttachment
	ImageLayoutDepthStencilReadOnly
	ImageLayoutShaderReadOnly
	ImageLayoutTransferSrc
	ImageLayoutTransferDst
	ImageLayoutPreinitialized
	ImageLayoutPresentSrc
)

var imageLayoutNames = [...]string{
	ImageLayoutUndefined:              "Undefined",
	ImageLayoutGeneral:                "General",
	ImageLayoutColorAttachment:        "ColorAttachment",
	ImageLayoutDepthStencilAttachment: "DepthStencilAttachment",
	ImageLayoutDepthStencilReadOnly:   "DepthStencilReadOnly",
	ImageLayoutShaderReadOnly:         "ShaderReadOnly",
	ImageLayoutTransferSrc:            "TransferSrc",
	ImageLayoutTransferDst:            "TransferDst",
	ImageLayoutPreinitialized:         "Preinitialized",
	ImageLayoutPresentSrc:             "PresentSrc",
}

// String returns the layout name.
func (l ImageLayout) String() string {
	if int(l) < len(imageLayoutNames) {
		return imageLayoutNames[l]
	}
	return fmt.Sprintf("ImageLayout(%d)", uint32(l))
}

type texture struct {
	id      uint32
	target  uint32
	format  gputypes.TextureFormat
	pixel   convert.PixelFormat
	size    gputypes.Extent3D
	mips    uint32
	samples uint32
	usage   gputypes.TextureUsage
	layout  atomic.Uint32
}

func (t *texture) setLayout(l ImageLayout) { t.layout.Store(uint32(l)) }

func (t *texture) currentLayout() ImageLayout { return ImageLayout(t.layout.Load()) }

type textureView struct {
	texture    Texture
	tex        *texture
	id         uint32
	owned      bool
	target     uint32
	format     gputypes.TextureFormat
	pixel      convert.PixelFormat
	baseMip    uint32
	mipCount   uint32
	baseLayer  uint32
	layerCount uint32
}

// CreateTexture allocates immutable texture storage.
func (d *Device) CreateTexture(desc gputypes.TextureDescriptor) (Texture, error) {
	pf, ok := convert.TextureFormat(desc.Format)
	if !ok {
		return Texture{}, fmt.Errorf("glvk: create texture %q: %w: %v", desc.Label, ErrUnsupportedFormat, desc.Format)
	}
	size := desc.Size
	if size.Width == 0 || size.Height == 0 {
		return Texture{}, fmt.Errorf("glvk: create texture %q: %w: empty extent", desc.Label, ErrInvalidDescriptor)
	}
	if size.DepthOrArrayLayers == 0 {
		size.DepthOrArrayLayers = 1
	}
	mips := max(desc.MipLevelCount, 1)
	samples := max(desc.SampleCount, 1)
	if samples > 1 && mips > 1 {
		return Texture{}, fmt.Errorf("glvk: create texture %q: %w: multisampled textures cannot have mips", desc.Label, ErrInvalidDescriptor)
	}

	target := convert.TextureTarget(desc.Dimension, size.DepthOrArrayLayers, samples)
	w, h, depth := int32(size.Width), int32(size.Height), int32(size.DepthOrArrayLayers) // #nosec G115
	levels := int32(mips)                                                                // #nosec G115

	id := d.ctx.CreateTexture()
	d.ctx.BindTexture(target, id)
	switch target {
	case backend.TEXTURE_1D:
		d.ctx.TexStorage1D(target, levels, pf.Internal, w)
	case backend.TEXTURE_1D_ARRAY:
		d.ctx.TexStorage2D(target, levels, pf.Internal, w, depth)
	case backend.TEXTURE_2D:
		d.ctx.TexStorage2D(target, levels, pf.Internal, w, h)
	case backend.TEXTURE_2D_MULTISAMPLE:
		d.ctx.TexStorage2DMultisample(target, int32(samples), pf.Internal, w, h) // #nosec G115
	default:
		d.ctx.TexStorage3D(target, levels, pf.Internal, w, h, depth)
	}
	if target != backend.TEXTURE_2D_MULTISAMPLE {
		d.ctx.TexParameteri(target, backend.TEXTURE_BASE_LEVEL, 0)
		d.ctx.TexParameteri(target, backend.TEXTURE_MAX_LEVEL, levels-1)
	}
	d.ctx.BindTexture(target, 0)
	if err := checkBackend(d.ctx, "create texture"); err != nil {
		d.ctx.DeleteTexture(id)
		return Texture{}, err
	}

	t := &texture{
		id:      id,
		target:  target,
		format:  desc.Format,
		pixel:   pf,
		size:    size,
		mips:    mips,
		samples: samples,
		usage:   desc.Usage,
	}
	handle := d.textures.Insert(t)
	d.logger().Debug("glvk: texture created", "label", desc.Label, "id", id,
		"width", size.Width, "height", size.Height, "format", desc.Format.String())
	return Texture{handle}, nil
}

// DestroyTexture releases a texture. Views created from it must be
// destroyed separately.
func (d *Device) DestroyTexture(t Texture) {
	if tex, ok := d.textures.Remove(t.h); ok {
		d.ctx.DeleteTexture(tex.id)
	}
}

// TextureLayout returns the layout the texture is currently tracked in.
func (d *Device) TextureLayout(t Texture) (ImageLayout, error) {
	tex, err := lookup(d.textures, t.h, "texture")
	if err != nil {
		return ImageLayoutUndefined, err
	}
	return tex.currentLayout(), nil
}

// TextureSize returns the extent of mip level 0.
func (d *Device) TextureSize(t Texture) (gputypes.Extent3D, error) {
	tex, err := lookup(d.textures, t.h, "texture")
	if err != nil {
		return gputypes.Extent3D{}, err
	}
	return tex.size, nil
}

// CreateTextureView creates a view of a texture. A view covering the whole
// texture in its own format and dimension aliases the texture; any other
// view creates a backend texture view.
func (d *Device) CreateTextureView(t Texture, desc gputypes.TextureViewDescriptor) (TextureView, error) {
	tex, err := lookup(d.textures, t.h, "texture")
	if err != nil {
		return TextureView{}, fmt.Errorf("glvk: create texture view %q: %w", desc.Label, err)
	}

	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = tex.format
	}
	pf, ok := convert.TextureFormat(format)
	if !ok {
		return TextureView{}, fmt.Errorf("glvk: create texture view %q: %w: %v", desc.Label, ErrUnsupportedFormat, format)
	}
	layers := tex.size.DepthOrArrayLayers
	if tex.target == backend.TEXTURE_3D {
		layers = 1
	}
	if desc.BaseMipLevel >= tex.mips || desc.BaseArrayLayer >= layers {
		return TextureView{}, fmt.Errorf("glvk: create texture view %q: %w: subresource out of range", desc.Label, ErrInvalidArgument)
	}
	mipCount := desc.MipLevelCount
	if mipCount == 0 {
		mipCount = tex.mips - desc.BaseMipLevel
	}
	layerCount := desc.ArrayLayerCount
	if layerCount == 0 {
		layerCount = layers - desc.BaseArrayLayer
	}
	target := convert.ViewTarget(desc.Dimension, tex.target)

	v := &textureView{
		texture:    t,
		tex:        tex,
		id:         tex.id,
		target:     target,
		format:     format,
		pixel:      pf,
		baseMip:    desc.BaseMipLevel,
		mipCount:   mipCount,
		baseLayer:  desc.BaseArrayLayer,
		layerCount: layerCount,
	}
	whole := target == tex.target && format == tex.format &&
		desc.BaseMipLevel == 0 && mipCount == tex.mips &&
		desc.BaseArrayLayer == 0 && layerCount == layers
	if !whole {
		v.id = d.ctx.CreateTexture()
		v.owned = true
		d.ctx.TextureView(v.id, target, tex.id, pf.Internal, desc.BaseMipLevel, mipCount, desc.BaseArrayLayer, layerCount)
		if err := checkBackend(d.ctx, "create texture view"); err != nil {
			d.ctx.DeleteTexture(v.id)
			return TextureView{}, err
		}
	}
	return TextureView{d.textureViews.Insert(v)}, nil
}

// DestroyTextureView releases a texture view.
func (d *Device) DestroyTextureView(v TextureView) {
	if view, ok := d.textureViews.Remove(v.h); ok && view.owned {
		d.ctx.DeleteTexture(view.id)
	}
}

// ViewTexture returns the texture a view was created from.
func (d *Device) ViewTexture(v TextureView) (Texture, error) {
	view, err := lookup(d.textureViews, v.h, "texture view")
	if err != nil {
		return Texture{}, err
	}
	return view.texture, nil
}
