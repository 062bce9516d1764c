package glvk

import (
	"fmt"
)

// SubmitInfo is one batch of primary command buffers.
type SubmitInfo struct {
	CommandBuffers []*CommandBuffer
	// WaitSemaphores, WaitStages and SignalSemaphores are accepted for
	// compatibility. Submissions run in order on one context, so waits are
	// already satisfied.
	WaitSemaphores   []*Semaphore
	WaitStages       []PipelineStage
	SignalSemaphores []*Semaphore
}

// PresentInfo describes a presentation request.
type PresentInfo struct {
	WaitSemaphores []*Semaphore
	ImageIndices   []uint32
}

// Queue applies command buffers to the device's backend context.
type Queue struct {
	device *Device
}

// Submit applies every command of every buffer, in order, on the calling
// goroutine. For each buffer it first creates the vertex arrays of geometry
// buffers the buffer binds, then applies its commands, then runs the
// completion hooks the commands registered.
//
// The first failing command aborts the submission: later commands and
// buffers are not applied and fence is not signaled.
func (q *Queue) Submit(info SubmitInfo, fence *Fence) error {
	d := q.device
	for i, cb := range info.CommandBuffers {
		switch {
		case cb == nil:
			return fmt.Errorf("glvk: submit: command buffer %d: %w: nil", i, ErrInvalidArgument)
		case cb.device != d:
			return fmt.Errorf("glvk: submit: command buffer %d: %w: allocated from another device", i, ErrInvalidArgument)
		case cb.level != CommandBufferLevelPrimary:
			return fmt.Errorf("glvk: submit: command buffer %d: %w: secondary buffers are executed, not submitted", i, ErrInvalidArgument)
		case cb.state != CommandBufferStateExecutable:
			return fmt.Errorf("glvk: submit: command buffer %d: %w: state %v", i, ErrNotExecutable, cb.state)
		}
	}

	for i, cb := range info.CommandBuffers {
		if err := q.prepareGeometry(cb); err != nil {
			return fmt.Errorf("glvk: submit: command buffer %d: %w", i, err)
		}
		if err := q.apply(cb); err != nil {
			return fmt.Errorf("glvk: submit: command buffer %d: %w", i, err)
		}
		if cb.usage&CommandBufferUsageOneTimeSubmit != 0 {
			cb.state = CommandBufferStateInvalid
		}
	}
	if err := checkBackend(d.ctx, "submit"); err != nil {
		d.logger().Warn("glvk: backend error", "op", "submit", "err", err)
		return err
	}
	d.logger().Debug("glvk: submitted", "buffers", len(info.CommandBuffers))
	if fence != nil {
		fence.signal()
	}
	return nil
}

// prepareGeometry creates the vertex arrays of the geometry buffers cb
// binds that no earlier submission has initialised.
func (q *Queue) prepareGeometry(cb *CommandBuffer) error {
	d := q.device
	for _, c := range cb.commands {
		bind, ok := c.(*BindGeometryBuffersCommand)
		if !ok {
			continue
		}
		g, err := lookup(d.geometry, bind.Geometry.h, "geometry buffers")
		if err != nil {
			return err
		}
		if err := g.prepare(d); err != nil {
			return fmt.Errorf("geometry buffers %q: %w", g.label, err)
		}
	}
	return nil
}

func (q *Queue) apply(cb *CommandBuffer) error {
	d := q.device
	ec := newExecContext(d)
	defer ec.runHooks()

	log := d.logger()
	for i, c := range cb.commands {
		if err := c.Apply(ec); err != nil {
			log.Warn("glvk: command failed", "index", i, "command", c.Type().String(), "err", err)
			return fmt.Errorf("command %d (%v): %w", i, c.Type(), err)
		}
		if d.opts.debugChecks {
			if err := checkBackend(d.ctx, c.Type().String()); err != nil {
				return fmt.Errorf("command %d (%v): %w", i, c.Type(), err)
			}
		}
	}
	log.Debug("glvk: command buffer applied", "commands", len(cb.commands))
	return nil
}

// Present is accepted for compatibility. Swapping buffers belongs to the
// window system that owns the context.
func (q *Queue) Present(info PresentInfo) error {
	return nil
}

// WaitIdle blocks until the backend has finished all submitted work.
func (q *Queue) WaitIdle() error {
	ctx := q.device.ctx
	ctx.Finish()
	return checkBackend(ctx, "wait idle")
}
