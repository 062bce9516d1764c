package glvk

import (
	"maps"
	"slices"

	"github.com/gogpu/glvk/backend"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// Render pass commands
	CmdBeginRenderPass CommandType = iota // Bind a framebuffer and enter subpass 0
	CmdNextSubpass                        // Advance to the next subpass
	CmdEndRenderPass                      // Leave the render pass

	// Binding commands
	CmdBindPipeline        // Make a graphics pipeline current
	CmdBindComputePipeline // Make a compute pipeline current
	CmdBindDescriptorSet   // Bind the resources of one descriptor set
	CmdBindGeometryBuffers // Bind vertex and index buffers
	CmdPushConstants       // Upload push constants

	// Dynamic state commands
	CmdSetViewport  // Set the viewport and depth range
	CmdSetScissor   // Set the scissor rectangle
	CmdSetLineWidth // Set the rasterized line width

	// Draw and dispatch commands
	CmdDraw        // Non-indexed draw
	CmdDrawIndexed // Indexed draw
	CmdDispatch    // Compute dispatch

	// Transfer commands
	CmdCopyBuffer        // Copy between buffers
	CmdCopyBufferToImage // Upload buffer data to a texture
	CmdCopyImageToBuffer // Read texture data into a buffer
	CmdCopyImage         // Copy between textures
	CmdBlitImage         // Scaled copy between textures
	CmdClearColour       // Clear a color texture
	CmdClearDepthStencil // Clear a depth/stencil texture

	// Synchronization commands
	CmdBufferMemoryBarrier // Order buffer accesses
	CmdImageMemoryBarrier  // Order texture accesses and transition layouts

	// Query commands
	CmdResetQueryPool // Reset a range of queries
	CmdBeginQuery     // Begin an occlusion query
	CmdEndQuery       // End an occlusion query
	CmdWriteTimestamp // Write a timestamp query
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdBeginRenderPass:     "BeginRenderPass",
	CmdNextSubpass:         "NextSubpass",
	CmdEndRenderPass:       "EndRenderPass",
	CmdBindPipeline:        "BindPipeline",
	CmdBindComputePipeline: "BindComputePipeline",
	CmdBindDescriptorSet:   "BindDescriptorSet",
	CmdBindGeometryBuffers: "BindGeometryBuffers",
	CmdPushConstants:       "PushConstants",
	CmdSetViewport:         "SetViewport",
	CmdSetScissor:          "SetScissor",
	CmdSetLineWidth:        "SetLineWidth",
	CmdDraw:                "Draw",
	CmdDrawIndexed:         "DrawIndexed",
	CmdDispatch:            "Dispatch",
	CmdCopyBuffer:          "CopyBuffer",
	CmdCopyBufferToImage:   "CopyBufferToImage",
	CmdCopyImageToBuffer:   "CopyImageToBuffer",
	CmdCopyImage:           "CopyImage",
	CmdBlitImage:           "BlitImage",
	CmdClearColour:         "ClearColour",
	CmdClearDepthStencil:   "ClearDepthStencil",
	CmdBufferMemoryBarrier: "BufferMemoryBarrier",
	CmdImageMemoryBarrier:  "ImageMemoryBarrier",
	CmdResetQueryPool:      "ResetQueryPool",
	CmdBeginQuery:          "BeginQuery",
	CmdEndQuery:            "EndQuery",
	CmdWriteTimestamp:      "WriteTimestamp",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one unit of deferred work in a command buffer.
//
// A command owns every value it needs to replay; objects it uses are held
// by handle and resolved when the command is applied. A command is not
// modified once it has been recorded.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	// Apply executes the command against the backend context of ec.
	Apply(ec *ExecContext) error

	// Clone returns an independent copy of the command.
	Clone() Command
}

// ExecContext is the state shared by the commands of one command buffer
// while a submission applies them.
type ExecContext struct {
	device *Device
	ctx    backend.Context

	pipeline *pipeline
	compute  *computePipeline
	program  *program
	pass     *passState

	// indexBase is the byte offset of the bound index buffer.
	indexBase uint64

	// samplerSlots holds sampler-only bindings by sampler slot. They are
	// attached to texture units of whichever program is in use.
	samplerSlots map[uint32]uint32

	uniforms map[*program]map[string]int32
	hooks    []func()
}

func newExecContext(d *Device) *ExecContext {
	return &ExecContext{
		device:       d,
		ctx:          d.ctx,
		samplerSlots: make(map[uint32]uint32),
		uniforms:     make(map[*program]map[string]int32),
	}
}

// Backend returns the context commands are applied to.
func (ec *ExecContext) Backend() backend.Context { return ec.ctx }

// Device returns the device the submission runs on.
func (ec *ExecContext) Device() *Device { return ec.device }

// OnComplete registers fn to run after every command of the command buffer
// has been applied, even if applying one of them failed. Commands use it to
// release transient backend objects.
func (ec *ExecContext) OnComplete(fn func()) {
	ec.hooks = append(ec.hooks, fn)
}

func (ec *ExecContext) runHooks() {
	for _, fn := range ec.hooks {
		fn()
	}
	ec.hooks = nil
}

// useProgram makes p the program in use and attaches the bound
// sampler-only bindings to its texture units.
func (ec *ExecContext) useProgram(p *program) {
	if ec.program == p {
		return
	}
	ec.ctx.UseProgram(p.id)
	ec.program = p
	for _, slot := range slices.Sorted(maps.Keys(ec.samplerSlots)) {
		for _, unit := range p.textureUnitsFor(slot) {
			ec.ctx.BindSampler(unit, ec.samplerSlots[slot])
		}
	}
}

// bindSampler records a sampler-only binding and attaches it to the
// program in use, if any.
func (ec *ExecContext) bindSampler(slot, id uint32) {
	ec.samplerSlots[slot] = id
	if ec.program == nil {
		return
	}
	for _, unit := range ec.program.textureUnitsFor(slot) {
		ec.ctx.BindSampler(unit, id)
	}
}

// uniformLocation resolves a uniform of the program in use, caching the
// result per program.
func (ec *ExecContext) uniformLocation(name string) int32 {
	p := ec.program
	if p == nil {
		return -1
	}
	locs := ec.uniforms[p]
	if locs == nil {
		locs = make(map[string]int32)
		ec.uniforms[p] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = ec.ctx.GetUniformLocation(p.id, name)
		locs[name] = loc
	}
	return loc
}

// currentFramebuffer returns the framebuffer of the active render pass, or
// 0 for the default framebuffer.
func (ec *ExecContext) currentFramebuffer() uint32 {
	if ec.pass == nil {
		return 0
	}
	return ec.pass.fb.id
}

// transientFramebuffer creates a framebuffer deleted once the command
// buffer has been applied.
func (ec *ExecContext) transientFramebuffer() uint32 {
	id := ec.ctx.CreateFramebuffer()
	ctx := ec.ctx
	ec.OnComplete(func() { ctx.DeleteFramebuffer(id) })
	return id
}
