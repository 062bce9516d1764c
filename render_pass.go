package glvk

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

// AttachmentDescription describes one attachment of a render pass.
type AttachmentDescription struct {
	Format  gputypes.TextureFormat
	Samples uint32

	LoadOp         gputypes.LoadOp
	StoreOp        gputypes.StoreOp
	StencilLoadOp  gputypes.LoadOp
	StencilStoreOp gputypes.StoreOp

	InitialLayout ImageLayout
	// FinalLayout is the layout the attachment is left in by EndRenderPass.
	// ImageLayoutUndefined keeps the layout of the last subpass.
	FinalLayout ImageLayout
}

// AttachmentReference selects an attachment of the render pass and the
// layout it is used in during a subpass.
type AttachmentReference struct {
	Attachment uint32
	Layout     ImageLayout
}

// SubpassDescription lists the attachments a subpass renders to.
type SubpassDescription struct {
	ColorAttachments       []AttachmentReference
	DepthStencilAttachment *AttachmentReference
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label       string
	Attachments []AttachmentDescription
	Subpasses   []SubpassDescription
}

type renderPass struct {
	label       string
	attachments []AttachmentDescription
	pixels      []convert.PixelFormat
	subpasses   []SubpassDescription
	// firstUse is the index of the subpass that first references each
	// attachment, or -1. Load-op clears happen there.
	firstUse []int
}

// CreateRenderPass creates a render pass.
func (d *Device) CreateRenderPass(desc RenderPassDescriptor) (RenderPass, error) {
	wrap := func(err error) error {
		return fmt.Errorf("glvk: create render pass %q: %w", desc.Label, err)
	}
	if len(desc.Subpasses) == 0 {
		return RenderPass{}, wrap(fmt.Errorf("%w: no subpasses", ErrInvalidDescriptor))
	}
	rp := &renderPass{
		label:       desc.Label,
		attachments: append([]AttachmentDescription(nil), desc.Attachments...),
		pixels:      make([]convert.PixelFormat, len(desc.Attachments)),
		subpasses:   make([]SubpassDescription, len(desc.Subpasses)),
		firstUse:    make([]int, len(desc.Attachments)),
	}
	for i, a := range desc.Attachments {
		pf, ok := convert.TextureFormat(a.Format)
		if !ok {
			return RenderPass{}, wrap(fmt.Errorf("%w: attachment %d: %v", ErrUnsupportedFormat, i, a.Format))
		}
		rp.pixels[i] = pf
		rp.firstUse[i] = -1
	}

	use := func(sub int, ref AttachmentReference, depth bool) error {
		if int(ref.Attachment) >= len(rp.attachments) {
			return fmt.Errorf("%w: subpass %d references attachment %d of %d",
				ErrInvalidDescriptor, sub, ref.Attachment, len(rp.attachments))
		}
		att, _ := rp.pixels[ref.Attachment].Aspect()
		if isColor := att == backend.COLOR_ATTACHMENT0; isColor == depth {
			return fmt.Errorf("%w: subpass %d uses attachment %d with the wrong aspect",
				ErrInvalidDescriptor, sub, ref.Attachment)
		}
		if rp.firstUse[ref.Attachment] < 0 {
			rp.firstUse[ref.Attachment] = sub
		}
		return nil
	}
	for i, sp := range desc.Subpasses {
		for _, ref := range sp.ColorAttachments {
			if err := use(i, ref, false); err != nil {
				return RenderPass{}, wrap(err)
			}
		}
		if ref := sp.DepthStencilAttachment; ref != nil {
			if err := use(i, *ref, true); err != nil {
				return RenderPass{}, wrap(err)
			}
		}
		rp.subpasses[i] = SubpassDescription{
			ColorAttachments: append([]AttachmentReference(nil), sp.ColorAttachments...),
		}
		if sp.DepthStencilAttachment != nil {
			ref := *sp.DepthStencilAttachment
			rp.subpasses[i].DepthStencilAttachment = &ref
		}
	}
	return RenderPass{d.renderPasses.Insert(rp)}, nil
}

// DestroyRenderPass releases a render pass.
func (d *Device) DestroyRenderPass(rp RenderPass) {
	d.renderPasses.Remove(rp.h)
}

// FramebufferDescriptor describes a framebuffer. Attachments pairs one
// texture view with each attachment of RenderPass.
type FramebufferDescriptor struct {
	Label       string
	RenderPass  RenderPass
	Attachments []TextureView
	// Width and Height default to the size of the first attachment.
	Width, Height uint32
	Layers        uint32
}

type framebuffer struct {
	id     uint32
	pass   RenderPass
	views  []TextureView
	tex    []*textureView
	points []uint32 // attachment point of each attachment
	width  uint32
	height uint32
}

// CreateFramebuffer creates a framebuffer object with the given views
// attached.
func (d *Device) CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error) {
	wrap := func(err error) error {
		return fmt.Errorf("glvk: create framebuffer %q: %w", desc.Label, err)
	}
	rp, err := lookup(d.renderPasses, desc.RenderPass.h, "render pass")
	if err != nil {
		return Framebuffer{}, wrap(err)
	}
	if len(desc.Attachments) != len(rp.attachments) {
		return Framebuffer{}, wrap(fmt.Errorf("%w: %d views for %d attachments",
			ErrInvalidDescriptor, len(desc.Attachments), len(rp.attachments)))
	}
	fb := &framebuffer{
		pass:   desc.RenderPass,
		views:  append([]TextureView(nil), desc.Attachments...),
		tex:    make([]*textureView, len(desc.Attachments)),
		points: make([]uint32, len(desc.Attachments)),
		width:  desc.Width,
		height: desc.Height,
	}
	var color uint32
	for i, h := range desc.Attachments {
		v, err := lookup(d.textureViews, h.h, "texture view")
		if err != nil {
			return Framebuffer{}, wrap(fmt.Errorf("attachment %d: %w", i, err))
		}
		fb.tex[i] = v
		point, _ := rp.pixels[i].Aspect()
		if point == backend.COLOR_ATTACHMENT0 {
			point += color
			color++
		}
		fb.points[i] = point
	}
	if fb.width == 0 || fb.height == 0 {
		if len(fb.tex) == 0 {
			return Framebuffer{}, wrap(fmt.Errorf("%w: no attachments and no extent", ErrInvalidDescriptor))
		}
		v := fb.tex[0]
		fb.width = max(v.tex.size.Width>>v.baseMip, 1)
		fb.height = max(v.tex.size.Height>>v.baseMip, 1)
	}

	fb.id = d.ctx.CreateFramebuffer()
	d.ctx.BindFramebuffer(backend.FRAMEBUFFER, fb.id)
	for i, v := range fb.tex {
		attachView(d.ctx, backend.FRAMEBUFFER, fb.points[i], v)
	}
	status := d.ctx.CheckFramebufferStatus(backend.FRAMEBUFFER)
	d.ctx.BindFramebuffer(backend.FRAMEBUFFER, 0)
	if status != backend.FRAMEBUFFER_COMPLETE {
		d.ctx.DeleteFramebuffer(fb.id)
		return Framebuffer{}, wrap(fmt.Errorf("%w: status 0x%04x", ErrFramebufferIncomplete, status))
	}
	if err := checkBackend(d.ctx, "create framebuffer"); err != nil {
		d.ctx.DeleteFramebuffer(fb.id)
		return Framebuffer{}, err
	}
	return Framebuffer{d.framebuffers.Insert(fb)}, nil
}

// DestroyFramebuffer releases a framebuffer. The attached views are not
// destroyed.
func (d *Device) DestroyFramebuffer(fb Framebuffer) {
	if f, ok := d.framebuffers.Remove(fb.h); ok {
		d.ctx.DeleteFramebuffer(f.id)
	}
}

// attachView attaches mip level 0 of a view to the framebuffer bound to
// target. Views that alias a layered texture attach their first layer.
func attachView(ctx backend.Context, target, point uint32, v *textureView) {
	if v.owned {
		ctx.FramebufferTexture(target, point, v.id, 0)
		return
	}
	switch v.target {
	case backend.TEXTURE_1D_ARRAY, backend.TEXTURE_2D_ARRAY, backend.TEXTURE_3D, backend.TEXTURE_CUBE_MAP_ARRAY:
		ctx.FramebufferTextureLayer(target, point, v.id, int32(v.baseMip), int32(v.baseLayer)) // #nosec G115
	default:
		ctx.FramebufferTexture(target, point, v.id, int32(v.baseMip)) // #nosec G115
	}
}

// Rect2D is a rectangle in framebuffer pixels.
type Rect2D struct {
	X, Y          int32
	Width, Height uint32
}

// ClearValue holds the clear value of one attachment. Color is used for
// color attachments, Depth and Stencil for depth/stencil attachments.
type ClearValue struct {
	Color   gputypes.Color
	Depth   float32
	Stencil uint32
}

// SubpassContents tells whether a subpass is recorded inline or through
// secondary command buffers.
type SubpassContents uint8

const (
	SubpassContentsInline SubpassContents = iota
	SubpassContentsSecondaryCommandBuffers
)

// passState is the render pass being applied.
type passState struct {
	pass    *renderPass
	fb      *framebuffer
	subpass int
	clears  []ClearValue
}

// enterSubpass selects the draw buffers of subpass i, clears the
// attachments it uses first and records their layouts.
func (ec *ExecContext) enterSubpass(ps *passState, i int) {
	ctx := ec.ctx
	rp, fb := ps.pass, ps.fb
	sp := rp.subpasses[i]
	ps.subpass = i

	bufs := make([]uint32, len(sp.ColorAttachments))
	for j, ref := range sp.ColorAttachments {
		bufs[j] = fb.points[ref.Attachment]
	}
	if len(bufs) == 0 {
		bufs = []uint32{backend.NONE}
	}
	ctx.DrawBuffers(bufs)

	forced := false
	for j, ref := range sp.ColorAttachments {
		a := ref.Attachment
		if rp.firstUse[a] != i || rp.attachments[a].LoadOp != gputypes.LoadOpClear {
			continue
		}
		draw := uint32(j) // #nosec G115
		ctx.ColorMaski(draw, true, true, true, true)
		forced = true
		clearColorBuffer(ctx, int32(j), rp.pixels[a], ps.clearValue(a).Color) // #nosec G115
	}
	if ref := sp.DepthStencilAttachment; ref != nil && rp.firstUse[ref.Attachment] == i {
		a := ref.Attachment
		desc := rp.attachments[a]
		_, mask := rp.pixels[a].Aspect()
		clearDepth := mask&backend.DEPTH_BUFFER_BIT != 0 && desc.LoadOp == gputypes.LoadOpClear
		clearStencil := mask&backend.STENCIL_BUFFER_BIT != 0 && desc.StencilLoadOp == gputypes.LoadOpClear
		if clearDepth || clearStencil {
			ctx.DepthMask(true)
			ctx.StencilMaskSeparate(backend.FRONT_AND_BACK, 0xff)
			forced = true
		}
		cv := ps.clearValue(a)
		stencil := int32(cv.Stencil & 0xff) // #nosec G115 -- masked
		switch {
		case clearDepth && clearStencil:
			ctx.ClearBufferfi(backend.DEPTH_STENCIL, 0, cv.Depth, stencil)
		case clearDepth:
			ctx.ClearBufferfv(backend.DEPTH, 0, [4]float32{cv.Depth})
		case clearStencil:
			ctx.ClearBufferiv(backend.STENCIL, 0, [4]int32{stencil})
		}
	}
	if forced && ec.pipeline != nil {
		ec.pipeline.restoreMasks(ctx)
	}

	for _, ref := range sp.ColorAttachments {
		fb.tex[ref.Attachment].tex.setLayout(ref.Layout)
	}
	if ref := sp.DepthStencilAttachment; ref != nil {
		fb.tex[ref.Attachment].tex.setLayout(ref.Layout)
	}
}

func (ps *passState) clearValue(attachment uint32) ClearValue {
	if int(attachment) < len(ps.clears) {
		return ps.clears[attachment]
	}
	return ClearValue{}
}

// leavePass discards attachments whose contents are not stored, applies
// final layouts and restores the default framebuffer.
func (ec *ExecContext) leavePass(ps *passState) {
	ctx := ec.ctx
	rp, fb := ps.pass, ps.fb
	var discard []uint32
	for i, a := range rp.attachments {
		if rp.firstUse[i] < 0 {
			continue
		}
		point := fb.points[i]
		_, mask := rp.pixels[i].Aspect()
		switch {
		case point == backend.DEPTH_STENCIL_ATTACHMENT:
			depth := a.StoreOp == gputypes.StoreOpDiscard
			stencil := a.StencilStoreOp == gputypes.StoreOpDiscard
			if depth && stencil {
				discard = append(discard, backend.DEPTH_STENCIL_ATTACHMENT)
			} else if depth {
				discard = append(discard, backend.DEPTH_ATTACHMENT)
			} else if stencil {
				discard = append(discard, backend.STENCIL_ATTACHMENT)
			}
		case mask&backend.STENCIL_BUFFER_BIT != 0:
			if a.StencilStoreOp == gputypes.StoreOpDiscard {
				discard = append(discard, point)
			}
		default:
			if a.StoreOp == gputypes.StoreOpDiscard {
				discard = append(discard, point)
			}
		}
		if a.FinalLayout != ImageLayoutUndefined {
			fb.tex[i].tex.setLayout(a.FinalLayout)
		}
	}
	if len(discard) > 0 {
		ctx.InvalidateFramebuffer(backend.FRAMEBUFFER, discard)
	}
	ctx.BindFramebuffer(backend.FRAMEBUFFER, 0)
}
