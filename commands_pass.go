package glvk

import (
	"fmt"

	"github.com/gogpu/glvk/backend"
)

// BeginRenderPassCommand binds a framebuffer and enters the first subpass
// of a render pass.
type BeginRenderPassCommand struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  Rect2D
	// ClearValues holds one value per attachment, indexed by attachment.
	ClearValues []ClearValue
	Contents    SubpassContents
}

// Type implements Command.
func (*BeginRenderPassCommand) Type() CommandType { return CmdBeginRenderPass }

// Clone implements Command.
func (c *BeginRenderPassCommand) Clone() Command {
	cp := *c
	cp.ClearValues = append([]ClearValue(nil), c.ClearValues...)
	return &cp
}

// Apply implements Command.
func (c *BeginRenderPassCommand) Apply(ec *ExecContext) error {
	if ec.pass != nil {
		return ErrInRenderPass
	}
	rp, err := lookup(ec.device.renderPasses, c.RenderPass.h, "render pass")
	if err != nil {
		return err
	}
	fb, err := lookup(ec.device.framebuffers, c.Framebuffer.h, "framebuffer")
	if err != nil {
		return err
	}
	if len(fb.tex) != len(rp.attachments) {
		return fmt.Errorf("%w: framebuffer has %d attachments, render pass %d",
			ErrInvalidArgument, len(fb.tex), len(rp.attachments))
	}
	for i, v := range fb.views {
		if !ec.device.textureViews.Contains(v.h) {
			return fmt.Errorf("framebuffer attachment %d: %w", i, destroyed("texture view"))
		}
	}

	ctx := ec.ctx
	ctx.BindFramebuffer(backend.FRAMEBUFFER, fb.id)
	area := c.RenderArea
	if area.Width == 0 || area.Height == 0 {
		area = Rect2D{Width: fb.width, Height: fb.height}
	}
	ctx.Enable(backend.SCISSOR_TEST)
	ctx.Scissor(area.X, area.Y, int32(area.Width), int32(area.Height)) // #nosec G115
	ctx.Viewport(area.X, area.Y, int32(area.Width), int32(area.Height)) // #nosec G115

	ps := &passState{pass: rp, fb: fb, clears: c.ClearValues}
	ec.pass = ps
	ec.enterSubpass(ps, 0)
	return nil
}

// NextSubpassCommand advances the active render pass to its next subpass.
type NextSubpassCommand struct {
	Contents SubpassContents
}

// Type implements Command.
func (*NextSubpassCommand) Type() CommandType { return CmdNextSubpass }

// Clone implements Command.
func (c *NextSubpassCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *NextSubpassCommand) Apply(ec *ExecContext) error {
	ps := ec.pass
	if ps == nil {
		return ErrNotInRenderPass
	}
	if ps.subpass+1 >= len(ps.pass.subpasses) {
		return ErrSubpassOverflow
	}
	ec.enterSubpass(ps, ps.subpass+1)
	return nil
}

// EndRenderPassCommand leaves the active render pass.
type EndRenderPassCommand struct{}

// Type implements Command.
func (*EndRenderPassCommand) Type() CommandType { return CmdEndRenderPass }

// Clone implements Command.
func (c *EndRenderPassCommand) Clone() Command { return &EndRenderPassCommand{} }

// Apply implements Command.
func (c *EndRenderPassCommand) Apply(ec *ExecContext) error {
	if ec.pass == nil {
		return ErrNotInRenderPass
	}
	ec.leavePass(ec.pass)
	ec.pass = nil
	return nil
}
