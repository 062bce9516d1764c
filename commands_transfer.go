package glvk

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

// BufferCopy is one region of a buffer-to-buffer copy.
type BufferCopy struct {
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
}

// ImageSubresource selects a mip level and a range of array layers.
// A zero LayerCount means one layer.
type ImageSubresource struct {
	MipLevel       uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

func (s ImageSubresource) layers() uint32 { return max(s.LayerCount, 1) }

// ImageSubresourceRange selects mip levels and array layers. Zero counts
// extend the range to the last level or layer.
type ImageSubresourceRange struct {
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// BufferImageCopy is one region of a copy between a buffer and a texture.
type BufferImageCopy struct {
	BufferOffset uint64
	// BufferRowLength and BufferImageHeight give the buffer layout in
	// texels; zero means tightly packed.
	BufferRowLength   uint32
	BufferImageHeight uint32
	Subresource       ImageSubresource
	Origin            gputypes.Origin3D
	Extent            gputypes.Extent3D
}

// ImageCopy is one region of a texture-to-texture copy.
type ImageCopy struct {
	SrcSubresource ImageSubresource
	SrcOffset      gputypes.Origin3D
	DstSubresource ImageSubresource
	DstOffset      gputypes.Origin3D
	Extent         gputypes.Extent3D
}

// ImageBlit is one region of a scaled copy. Each pair of offsets gives
// opposite corners of a box; reversed corners mirror the copy.
type ImageBlit struct {
	SrcSubresource ImageSubresource
	SrcOffsets     [2]gputypes.Origin3D
	DstSubresource ImageSubresource
	DstOffsets     [2]gputypes.Origin3D
}

func isLayered(target uint32) bool {
	switch target {
	case backend.TEXTURE_1D_ARRAY, backend.TEXTURE_2D_ARRAY, backend.TEXTURE_3D,
		backend.TEXTURE_CUBE_MAP, backend.TEXTURE_CUBE_MAP_ARRAY:
		return true
	}
	return false
}

// attachLevel attaches one level, and for layered textures one layer, of
// tex to the framebuffer bound to target.
func attachLevel(ctx backend.Context, target, point uint32, tex *texture, level, layer uint32) {
	if isLayered(tex.target) {
		ctx.FramebufferTextureLayer(target, point, tex.id, int32(level), int32(layer)) // #nosec G115
		return
	}
	ctx.FramebufferTexture(target, point, tex.id, int32(level)) // #nosec G115
}

// layerCount returns the number of layers at level, counting 3D slices.
func (t *texture) layerCount(level uint32) uint32 {
	if t.target == backend.TEXTURE_3D {
		return max(t.size.DepthOrArrayLayers>>level, 1)
	}
	return t.size.DepthOrArrayLayers
}

// resolve clamps a range to the texture.
func (r ImageSubresourceRange) resolve(t *texture) (levels, layers uint32, err error) {
	if r.BaseMipLevel >= t.mips || r.BaseArrayLayer >= t.layerCount(r.BaseMipLevel) {
		return 0, 0, fmt.Errorf("%w: subresource range starts past the texture", ErrInvalidArgument)
	}
	levels = r.LevelCount
	if levels == 0 || r.BaseMipLevel+levels > t.mips {
		levels = t.mips - r.BaseMipLevel
	}
	layers = r.LayerCount
	if layers == 0 || r.BaseArrayLayer+layers > t.layerCount(r.BaseMipLevel) {
		layers = t.layerCount(r.BaseMipLevel) - r.BaseArrayLayer
	}
	return levels, layers, nil
}

// restoreAfterTransfer rebinds the framebuffer and state a transfer
// command disturbed.
func (ec *ExecContext) restoreAfterTransfer() {
	ec.ctx.BindFramebuffer(backend.FRAMEBUFFER, ec.currentFramebuffer())
	if ec.pipeline != nil || ec.pass != nil {
		ec.ctx.Enable(backend.SCISSOR_TEST)
	}
	if ec.pipeline != nil {
		ec.pipeline.restoreMasks(ec.ctx)
	}
}

func clearColorBuffer(ctx backend.Context, drawBuffer int32, pf convert.PixelFormat, c gputypes.Color) {
	switch pf.Format {
	case backend.RED_INTEGER, backend.RG_INTEGER, backend.RGBA_INTEGER:
		ctx.ClearBufferiv(backend.COLOR, drawBuffer, [4]int32{int32(c.R), int32(c.G), int32(c.B), int32(c.A)})
	default:
		ctx.ClearBufferfv(backend.COLOR, drawBuffer, [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)})
	}
}

// CopyBufferCommand copies regions between buffers.
type CopyBufferCommand struct {
	Src     Buffer
	Dst     Buffer
	Regions []BufferCopy
}

// Type implements Command.
func (*CopyBufferCommand) Type() CommandType { return CmdCopyBuffer }

// Clone implements Command.
func (c *CopyBufferCommand) Clone() Command {
	cp := *c
	cp.Regions = append([]BufferCopy(nil), c.Regions...)
	return &cp
}

// Apply implements Command.
func (c *CopyBufferCommand) Apply(ec *ExecContext) error {
	src, err := lookup(ec.device.buffers, c.Src.h, "source buffer")
	if err != nil {
		return err
	}
	dst, err := lookup(ec.device.buffers, c.Dst.h, "destination buffer")
	if err != nil {
		return err
	}
	for i, r := range c.Regions {
		if r.SrcOffset+r.Size > src.size || r.DstOffset+r.Size > dst.size {
			return fmt.Errorf("%w: copy region %d out of bounds", ErrInvalidArgument, i)
		}
	}
	ctx := ec.ctx
	ctx.BindBuffer(backend.COPY_READ_BUFFER, src.id)
	ctx.BindBuffer(backend.COPY_WRITE_BUFFER, dst.id)
	for _, r := range c.Regions {
		ctx.CopyBufferSubData(backend.COPY_READ_BUFFER, backend.COPY_WRITE_BUFFER,
			int(r.SrcOffset), int(r.DstOffset), int(r.Size)) // #nosec G115
	}
	ctx.BindBuffer(backend.COPY_READ_BUFFER, 0)
	ctx.BindBuffer(backend.COPY_WRITE_BUFFER, 0)
	return nil
}

// bufferLayout returns the row length and image height in texels and the
// byte size of one layer of a buffer/image copy region.
func (r BufferImageCopy) bufferLayout(pf convert.PixelFormat) (rowLength, imageHeight uint32, layerBytes uint64) {
	rowLength = r.BufferRowLength
	if rowLength == 0 {
		rowLength = r.Extent.Width
	}
	imageHeight = r.BufferImageHeight
	if imageHeight == 0 {
		imageHeight = max(r.Extent.Height, 1)
	}
	return rowLength, imageHeight, uint64(rowLength) * uint64(imageHeight) * uint64(pf.TexelSize) // #nosec G115
}

// span returns how many bytes of the buffer the region touches.
func (r BufferImageCopy) span(pf convert.PixelFormat, layers uint32) uint64 {
	rowLength, _, layerBytes := r.bufferLayout(pf)
	height := uint64(max(r.Extent.Height, 1))
	lastLayer := uint64(rowLength)*(height-1) + uint64(r.Extent.Width)
	return layerBytes*uint64(layers-1) + lastLayer*uint64(pf.TexelSize) // #nosec G115
}

func (r BufferImageCopy) depth(t *texture) uint32 {
	if t.target == backend.TEXTURE_3D {
		return max(r.Extent.DepthOrArrayLayers, 1)
	}
	return r.Subresource.layers()
}

func (r BufferImageCopy) validate(t *texture, bufSize uint64) error {
	if r.Subresource.MipLevel >= t.mips {
		return fmt.Errorf("%w: mip level %d of %d", ErrInvalidArgument, r.Subresource.MipLevel, t.mips)
	}
	if r.Extent.Width == 0 {
		return fmt.Errorf("%w: empty copy extent", ErrInvalidArgument)
	}
	mw := max(t.size.Width>>r.Subresource.MipLevel, 1)
	mh := max(t.size.Height>>r.Subresource.MipLevel, 1)
	if uint64(r.Origin.X)+uint64(r.Extent.Width) > uint64(mw) || uint64(r.Origin.Y)+uint64(max(r.Extent.Height, 1)) > uint64(mh) {
		return fmt.Errorf("%w: region exceeds %dx%d mip level %d", ErrInvalidArgument, mw, mh, r.Subresource.MipLevel)
	}
	if end := r.BufferOffset + r.span(t.pixel, r.depth(t)); end > bufSize {
		return fmt.Errorf("%w: region needs %d bytes, buffer has %d", ErrInvalidArgument, end, bufSize)
	}
	return nil
}

// CopyBufferToImageCommand uploads buffer regions into a texture.
type CopyBufferToImageCommand struct {
	Buffer  Buffer
	Texture Texture
	// Layout is the layout the texture is in during the copy.
	Layout  ImageLayout
	Regions []BufferImageCopy
}

// Type implements Command.
func (*CopyBufferToImageCommand) Type() CommandType { return CmdCopyBufferToImage }

// Clone implements Command.
func (c *CopyBufferToImageCommand) Clone() Command {
	cp := *c
	cp.Regions = append([]BufferImageCopy(nil), c.Regions...)
	return &cp
}

// Apply implements Command.
func (c *CopyBufferToImageCommand) Apply(ec *ExecContext) error {
	buf, err := lookup(ec.device.buffers, c.Buffer.h, "buffer")
	if err != nil {
		return err
	}
	tex, err := lookup(ec.device.textures, c.Texture.h, "texture")
	if err != nil {
		return err
	}
	if tex.samples > 1 {
		return fmt.Errorf("%w: copy into a multisampled texture", ErrInvalidArgument)
	}
	for i, r := range c.Regions {
		if err := r.validate(tex, buf.size); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
	}

	ctx := ec.ctx
	pf := tex.pixel
	ctx.BindBuffer(backend.PIXEL_UNPACK_BUFFER, buf.id)
	ctx.BindTexture(tex.target, tex.id)
	ctx.PixelStorei(backend.UNPACK_ALIGNMENT, 1)
	for _, r := range c.Regions {
		rowLength, imageHeight, layerBytes := r.bufferLayout(pf)
		ctx.PixelStorei(backend.UNPACK_ROW_LENGTH, int32(rowLength))     // #nosec G115
		ctx.PixelStorei(backend.UNPACK_IMAGE_HEIGHT, int32(imageHeight)) // #nosec G115

		level := int32(r.Subresource.MipLevel)                                                 // #nosec G115
		x, y, z := int32(r.Origin.X), int32(r.Origin.Y), int32(r.Origin.Z)                     // #nosec G115
		w, h := int32(r.Extent.Width), int32(max(r.Extent.Height, 1))                          // #nosec G115
		base, layers := int32(r.Subresource.BaseArrayLayer), int32(r.Subresource.layers())     // #nosec G115
		offset := int(r.BufferOffset)                                                          // #nosec G115
		switch tex.target {
		case backend.TEXTURE_1D:
			ctx.TexSubImage1D(tex.target, level, x, w, pf.Format, pf.Type, offset)
		case backend.TEXTURE_1D_ARRAY:
			ctx.TexSubImage2D(tex.target, level, x, base, w, layers, pf.Format, pf.Type, offset)
		case backend.TEXTURE_2D:
			ctx.TexSubImage2D(tex.target, level, x, y, w, h, pf.Format, pf.Type, offset)
		case backend.TEXTURE_CUBE_MAP:
			for l := range layers {
				face := backend.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(base+l)                             // #nosec G115
				ctx.TexSubImage2D(face, level, x, y, w, h, pf.Format, pf.Type, offset+int(l)*int(layerBytes)) // #nosec G115
			}
		case backend.TEXTURE_3D:
			ctx.TexSubImage3D(tex.target, level, x, y, z, w, h, int32(r.depth(tex)), pf.Format, pf.Type, offset) // #nosec G115
		default:
			ctx.TexSubImage3D(tex.target, level, x, y, base, w, h, layers, pf.Format, pf.Type, offset)
		}
	}
	ctx.PixelStorei(backend.UNPACK_ROW_LENGTH, 0)
	ctx.PixelStorei(backend.UNPACK_IMAGE_HEIGHT, 0)
	ctx.PixelStorei(backend.UNPACK_ALIGNMENT, 4)
	ctx.BindTexture(tex.target, 0)
	ctx.BindBuffer(backend.PIXEL_UNPACK_BUFFER, 0)
	tex.setLayout(c.Layout)
	return nil
}

// CopyImageToBufferCommand reads texture regions into a buffer through a
// transient read framebuffer.
type CopyImageToBufferCommand struct {
	Texture Texture
	Layout  ImageLayout
	Buffer  Buffer
	Regions []BufferImageCopy
}

// Type implements Command.
func (*CopyImageToBufferCommand) Type() CommandType { return CmdCopyImageToBuffer }

// Clone implements Command.
func (c *CopyImageToBufferCommand) Clone() Command {
	cp := *c
	cp.Regions = append([]BufferImageCopy(nil), c.Regions...)
	return &cp
}

// Apply implements Command.
func (c *CopyImageToBufferCommand) Apply(ec *ExecContext) error {
	tex, err := lookup(ec.device.textures, c.Texture.h, "texture")
	if err != nil {
		return err
	}
	buf, err := lookup(ec.device.buffers, c.Buffer.h, "buffer")
	if err != nil {
		return err
	}
	if tex.samples > 1 {
		return fmt.Errorf("%w: read from a multisampled texture", ErrInvalidArgument)
	}
	for i, r := range c.Regions {
		if err := r.validate(tex, buf.size); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
	}

	ctx := ec.ctx
	pf := tex.pixel
	point, _ := pf.Aspect()
	ctx.BindFramebuffer(backend.READ_FRAMEBUFFER, ec.transientFramebuffer())
	if point == backend.COLOR_ATTACHMENT0 {
		ctx.ReadBuffer(backend.COLOR_ATTACHMENT0)
	} else {
		ctx.ReadBuffer(backend.NONE)
	}
	ctx.BindBuffer(backend.PIXEL_PACK_BUFFER, buf.id)
	ctx.PixelStorei(backend.PACK_ALIGNMENT, 1)
	for _, r := range c.Regions {
		rowLength, imageHeight, layerBytes := r.bufferLayout(pf)
		ctx.PixelStorei(backend.PACK_ROW_LENGTH, int32(rowLength))     // #nosec G115
		ctx.PixelStorei(backend.PACK_IMAGE_HEIGHT, int32(imageHeight)) // #nosec G115

		first := r.Subresource.BaseArrayLayer
		if tex.target == backend.TEXTURE_3D {
			first = r.Origin.Z
		}
		x, y := int32(r.Origin.X), int32(r.Origin.Y)                  // #nosec G115
		w, h := int32(r.Extent.Width), int32(max(r.Extent.Height, 1)) // #nosec G115
		for l := range r.depth(tex) {
			attachLevel(ctx, backend.READ_FRAMEBUFFER, point, tex, r.Subresource.MipLevel, first+l)
			offset := int(r.BufferOffset) + int(l)*int(layerBytes) // #nosec G115
			ctx.ReadPixels(x, y, w, h, pf.Format, pf.Type, offset)
		}
	}
	ctx.PixelStorei(backend.PACK_ROW_LENGTH, 0)
	ctx.PixelStorei(backend.PACK_IMAGE_HEIGHT, 0)
	ctx.PixelStorei(backend.PACK_ALIGNMENT, 4)
	ctx.BindBuffer(backend.PIXEL_PACK_BUFFER, 0)
	ctx.BindFramebuffer(backend.READ_FRAMEBUFFER, ec.currentFramebuffer())
	tex.setLayout(c.Layout)
	return nil
}

// CopyImageCommand copies texel regions between textures of compatible
// formats without conversion.
type CopyImageCommand struct {
	Src       Texture
	SrcLayout ImageLayout
	Dst       Texture
	DstLayout ImageLayout
	Regions   []ImageCopy
}

// Type implements Command.
func (*CopyImageCommand) Type() CommandType { return CmdCopyImage }

// Clone implements Command.
func (c *CopyImageCommand) Clone() Command {
	cp := *c
	cp.Regions = append([]ImageCopy(nil), c.Regions...)
	return &cp
}

// zRange returns the z coordinate and depth a copy addresses in t.
func zRange(t *texture, sub ImageSubresource, origin gputypes.Origin3D, extent gputypes.Extent3D) (z, depth int32) {
	switch {
	case t.target == backend.TEXTURE_3D:
		return int32(origin.Z), int32(max(extent.DepthOrArrayLayers, 1)) // #nosec G115
	case isLayered(t.target):
		return int32(sub.BaseArrayLayer), int32(sub.layers()) // #nosec G115
	default:
		return 0, 1
	}
}

// Apply implements Command.
func (c *CopyImageCommand) Apply(ec *ExecContext) error {
	src, err := lookup(ec.device.textures, c.Src.h, "source texture")
	if err != nil {
		return err
	}
	dst, err := lookup(ec.device.textures, c.Dst.h, "destination texture")
	if err != nil {
		return err
	}
	if src.pixel.TexelSize != dst.pixel.TexelSize {
		return fmt.Errorf("%w: copy between %v and %v", ErrUnsupportedFormat, src.format, dst.format)
	}
	for _, r := range c.Regions {
		sz, depth := zRange(src, r.SrcSubresource, r.SrcOffset, r.Extent)
		dz, _ := zRange(dst, r.DstSubresource, r.DstOffset, r.Extent)
		ec.ctx.CopyImageSubData(
			src.id, src.target, int32(r.SrcSubresource.MipLevel), int32(r.SrcOffset.X), int32(r.SrcOffset.Y), sz, // #nosec G115
			dst.id, dst.target, int32(r.DstSubresource.MipLevel), int32(r.DstOffset.X), int32(r.DstOffset.Y), dz, // #nosec G115
			int32(r.Extent.Width), int32(max(r.Extent.Height, 1)), depth) // #nosec G115
	}
	src.setLayout(c.SrcLayout)
	dst.setLayout(c.DstLayout)
	return nil
}

// BlitImageCommand copies regions between textures with scaling, format
// conversion and filtering.
type BlitImageCommand struct {
	Src       Texture
	SrcLayout ImageLayout
	Dst       Texture
	DstLayout ImageLayout
	Regions   []ImageBlit
	Filter    gputypes.FilterMode
}

// Type implements Command.
func (*BlitImageCommand) Type() CommandType { return CmdBlitImage }

// Clone implements Command.
func (c *BlitImageCommand) Clone() Command {
	cp := *c
	cp.Regions = append([]ImageBlit(nil), c.Regions...)
	return &cp
}

// Apply implements Command.
func (c *BlitImageCommand) Apply(ec *ExecContext) error {
	src, err := lookup(ec.device.textures, c.Src.h, "source texture")
	if err != nil {
		return err
	}
	dst, err := lookup(ec.device.textures, c.Dst.h, "destination texture")
	if err != nil {
		return err
	}
	srcPoint, srcMask := src.pixel.Aspect()
	dstPoint, dstMask := dst.pixel.Aspect()
	if srcMask != dstMask {
		return fmt.Errorf("%w: blit between %v and %v", ErrUnsupportedFormat, src.format, dst.format)
	}
	filter := uint32(backend.NEAREST)
	if srcMask == backend.COLOR_BUFFER_BIT && c.Filter == gputypes.FilterModeLinear {
		filter = backend.LINEAR
	}

	ctx := ec.ctx
	ctx.Disable(backend.SCISSOR_TEST)
	ctx.BindFramebuffer(backend.READ_FRAMEBUFFER, ec.transientFramebuffer())
	ctx.BindFramebuffer(backend.DRAW_FRAMEBUFFER, ec.transientFramebuffer())
	if srcMask == backend.COLOR_BUFFER_BIT {
		ctx.ReadBuffer(backend.COLOR_ATTACHMENT0)
		ctx.DrawBuffers([]uint32{backend.COLOR_ATTACHMENT0})
	}
	for _, r := range c.Regions {
		layers := min(r.SrcSubresource.layers(), r.DstSubresource.layers())
		for l := range layers {
			attachLevel(ctx, backend.READ_FRAMEBUFFER, srcPoint, src, r.SrcSubresource.MipLevel, r.SrcSubresource.BaseArrayLayer+l)
			attachLevel(ctx, backend.DRAW_FRAMEBUFFER, dstPoint, dst, r.DstSubresource.MipLevel, r.DstSubresource.BaseArrayLayer+l)
			s, d := r.SrcOffsets, r.DstOffsets
			ctx.BlitFramebuffer(
				int32(s[0].X), int32(s[0].Y), int32(s[1].X), int32(s[1].Y), // #nosec G115
				int32(d[0].X), int32(d[0].Y), int32(d[1].X), int32(d[1].Y), // #nosec G115
				srcMask, filter)
		}
	}
	ctx.BindFramebuffer(backend.READ_FRAMEBUFFER, 0)
	ec.restoreAfterTransfer()
	src.setLayout(c.SrcLayout)
	dst.setLayout(c.DstLayout)
	return nil
}

// ClearColourCommand clears ranges of a color texture outside a render pass.
type ClearColourCommand struct {
	Texture Texture
	Layout  ImageLayout
	Color   gputypes.Color
	Ranges  []ImageSubresourceRange
}

// Type implements Command.
func (*ClearColourCommand) Type() CommandType { return CmdClearColour }

// Clone implements Command.
func (c *ClearColourCommand) Clone() Command {
	cp := *c
	cp.Ranges = append([]ImageSubresourceRange(nil), c.Ranges...)
	return &cp
}

// Apply implements Command.
func (c *ClearColourCommand) Apply(ec *ExecContext) error {
	tex, err := lookup(ec.device.textures, c.Texture.h, "texture")
	if err != nil {
		return err
	}
	if point, _ := tex.pixel.Aspect(); point != backend.COLOR_ATTACHMENT0 {
		return fmt.Errorf("%w: color clear of %v", ErrInvalidArgument, tex.format)
	}
	ctx := ec.ctx
	ctx.Disable(backend.SCISSOR_TEST)
	ctx.BindFramebuffer(backend.DRAW_FRAMEBUFFER, ec.transientFramebuffer())
	ctx.DrawBuffers([]uint32{backend.COLOR_ATTACHMENT0})
	ctx.ColorMaski(0, true, true, true, true)
	err = forEachSubresource(tex, c.Ranges, func(level, layer uint32) {
		attachLevel(ctx, backend.DRAW_FRAMEBUFFER, backend.COLOR_ATTACHMENT0, tex, level, layer)
		clearColorBuffer(ctx, 0, tex.pixel, c.Color)
	})
	ec.restoreAfterTransfer()
	if err != nil {
		return err
	}
	tex.setLayout(c.Layout)
	return nil
}

// ClearDepthStencilCommand clears ranges of a depth/stencil texture
// outside a render pass. Only the aspects the format has are cleared.
type ClearDepthStencilCommand struct {
	Texture Texture
	Layout  ImageLayout
	Depth   float32
	Stencil uint32
	Ranges  []ImageSubresourceRange
}

// Type implements Command.
func (*ClearDepthStencilCommand) Type() CommandType { return CmdClearDepthStencil }

// Clone implements Command.
func (c *ClearDepthStencilCommand) Clone() Command {
	cp := *c
	cp.Ranges = append([]ImageSubresourceRange(nil), c.Ranges...)
	return &cp
}

// Apply implements Command.
func (c *ClearDepthStencilCommand) Apply(ec *ExecContext) error {
	tex, err := lookup(ec.device.textures, c.Texture.h, "texture")
	if err != nil {
		return err
	}
	point, mask := tex.pixel.Aspect()
	if point == backend.COLOR_ATTACHMENT0 {
		return fmt.Errorf("%w: depth/stencil clear of %v", ErrInvalidArgument, tex.format)
	}
	ctx := ec.ctx
	ctx.Disable(backend.SCISSOR_TEST)
	ctx.BindFramebuffer(backend.DRAW_FRAMEBUFFER, ec.transientFramebuffer())
	ctx.DrawBuffers([]uint32{backend.NONE})
	ctx.DepthMask(true)
	ctx.StencilMaskSeparate(backend.FRONT_AND_BACK, 0xff)
	stencil := int32(c.Stencil & 0xff) // #nosec G115 -- masked
	err = forEachSubresource(tex, c.Ranges, func(level, layer uint32) {
		attachLevel(ctx, backend.DRAW_FRAMEBUFFER, point, tex, level, layer)
		switch mask {
		case backend.DEPTH_BUFFER_BIT | backend.STENCIL_BUFFER_BIT:
			ctx.ClearBufferfi(backend.DEPTH_STENCIL, 0, c.Depth, stencil)
		case backend.DEPTH_BUFFER_BIT:
			ctx.ClearBufferfv(backend.DEPTH, 0, [4]float32{c.Depth})
		default:
			ctx.ClearBufferiv(backend.STENCIL, 0, [4]int32{stencil})
		}
	})
	ec.restoreAfterTransfer()
	if err != nil {
		return err
	}
	tex.setLayout(c.Layout)
	return nil
}

// forEachSubresource calls fn for every (level, layer) the ranges cover.
func forEachSubresource(tex *texture, ranges []ImageSubresourceRange, fn func(level, layer uint32)) error {
	for _, r := range ranges {
		levels, layers, err := r.resolve(tex)
		if err != nil {
			return err
		}
		for level := r.BaseMipLevel; level < r.BaseMipLevel+levels; level++ {
			for layer := r.BaseArrayLayer; layer < r.BaseArrayLayer+min(layers, tex.layerCount(level)); layer++ {
				fn(level, layer)
			}
		}
	}
	return nil
}

// BufferBarrier names a buffer range a barrier orders accesses to.
type BufferBarrier struct {
	Buffer Buffer
	Offset uint64
	// Size 0 covers the rest of the buffer.
	Size uint64
}

// BufferMemoryBarrierCommand orders buffer accesses. Commands are applied
// in order on one context, so it issues no backend call.
type BufferMemoryBarrierCommand struct {
	SrcStages PipelineStage
	DstStages PipelineStage
	Barriers  []BufferBarrier
}

// Type implements Command.
func (*BufferMemoryBarrierCommand) Type() CommandType { return CmdBufferMemoryBarrier }

// Clone implements Command.
func (c *BufferMemoryBarrierCommand) Clone() Command {
	cp := *c
	cp.Barriers = append([]BufferBarrier(nil), c.Barriers...)
	return &cp
}

// Apply implements Command.
func (c *BufferMemoryBarrierCommand) Apply(ec *ExecContext) error {
	for _, b := range c.Barriers {
		if !ec.device.buffers.Contains(b.Buffer.h) {
			return destroyed("buffer")
		}
	}
	return nil
}

// ImageBarrier transitions a texture between layouts.
type ImageBarrier struct {
	Texture   Texture
	OldLayout ImageLayout
	NewLayout ImageLayout
	Range     ImageSubresourceRange
}

// ImageMemoryBarrierCommand orders texture accesses and records layout
// transitions.
type ImageMemoryBarrierCommand struct {
	SrcStages PipelineStage
	DstStages PipelineStage
	Barriers  []ImageBarrier
}

// Type implements Command.
func (*ImageMemoryBarrierCommand) Type() CommandType { return CmdImageMemoryBarrier }

// Clone implements Command.
func (c *ImageMemoryBarrierCommand) Clone() Command {
	cp := *c
	cp.Barriers = append([]ImageBarrier(nil), c.Barriers...)
	return &cp
}

// Apply implements Command.
func (c *ImageMemoryBarrierCommand) Apply(ec *ExecContext) error {
	for _, b := range c.Barriers {
		tex, err := lookup(ec.device.textures, b.Texture.h, "texture")
		if err != nil {
			return err
		}
		tex.setLayout(b.NewLayout)
	}
	return nil
}
