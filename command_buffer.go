package glvk

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// CommandBufferLevel tells whether a buffer is submitted directly or
// executed from a primary buffer.
type CommandBufferLevel uint8

const (
	CommandBufferLevelPrimary CommandBufferLevel = iota
	CommandBufferLevelSecondary
)

// CommandBufferUsage describes how a recording will be submitted.
type CommandBufferUsage uint32

const (
	// CommandBufferUsageOneTimeSubmit invalidates the buffer after its
	// first submission.
	CommandBufferUsageOneTimeSubmit CommandBufferUsage = 1 << iota
	// CommandBufferUsageRenderPassContinue marks a secondary buffer
	// recorded entirely inside the render pass given by its inheritance.
	CommandBufferUsageRenderPassContinue
	// CommandBufferUsageSimultaneousUse allows resubmission while pending.
	CommandBufferUsageSimultaneousUse
)

// InheritanceInfo is the render pass and query state a secondary buffer
// continues from the primary buffer that executes it.
type InheritanceInfo struct {
	RenderPass           RenderPass
	Subpass              uint32
	Framebuffer          Framebuffer
	OcclusionQueryEnable bool
	QueryFlags           QueryControlFlags
	PipelineStatistics   uint32
}

// BeginInfo configures a recording.
type BeginInfo struct {
	Flags CommandBufferUsage
	// Inheritance is read for secondary buffers only.
	Inheritance *InheritanceInfo
}

// CommandBufferState is the lifecycle state of a command buffer.
type CommandBufferState uint8

const (
	CommandBufferStateInitial CommandBufferState = iota
	CommandBufferStateRecording
	CommandBufferStateExecutable
	CommandBufferStateInvalid
)

var commandBufferStateNames = [...]string{
	CommandBufferStateInitial:    "Initial",
	CommandBufferStateRecording:  "Recording",
	CommandBufferStateExecutable: "Executable",
	CommandBufferStateInvalid:    "Invalid",
}

// String returns the state name.
func (s CommandBufferState) String() string {
	if int(s) < len(commandBufferStateNames) {
		return commandBufferStateNames[s]
	}
	return "Unknown"
}

type pendingPush struct {
	layout PipelineLayout
	buf    *PushConstantsBuffer
}

// CommandBuffer records commands for later submission.
//
// Verbs append Command values in call order. Everything a command needs is
// captured when it is recorded: Draw takes the topology of the pipeline
// bound at that point, DrawIndexed the index type of the last geometry
// buffers bound with an index buffer.
//
// A verb used out of sequence records nothing and sets a RecordingError
// that End returns. A CommandBuffer is not safe for concurrent use.
type CommandBuffer struct {
	device *Device
	pool   *CommandPool
	level  CommandBufferLevel

	state    CommandBufferState
	usage    CommandBufferUsage
	commands []Command
	err      error

	// Recording cursor.
	pass        *renderPass
	renderPass  RenderPass
	framebuffer Framebuffer
	subpass     uint32
	inPass      bool
	pipeline    *pipeline
	compute     *computePipeline
	indexType   uint32
	pending     []pendingPush
}

// Level returns the level the buffer was allocated with.
func (cb *CommandBuffer) Level() CommandBufferLevel { return cb.level }

// State returns the lifecycle state.
func (cb *CommandBuffer) State() CommandBufferState { return cb.state }

// Len returns the number of recorded commands.
func (cb *CommandBuffer) Len() int { return len(cb.commands) }

// Commands returns the recorded commands in execution order. The commands
// are shared with the buffer and must not be modified.
func (cb *CommandBuffer) Commands() []Command {
	return append([]Command(nil), cb.commands...)
}

// Err returns the first recording error since Begin.
func (cb *CommandBuffer) Err() error { return cb.err }

func (cb *CommandBuffer) resetCursor() {
	cb.pass = nil
	cb.renderPass = RenderPass{}
	cb.framebuffer = Framebuffer{}
	cb.subpass = 0
	cb.inPass = false
	cb.pipeline = nil
	cb.compute = nil
	cb.indexType = 0
	cb.pending = nil
}

func (cb *CommandBuffer) fail(op string, err error) {
	rerr := recordingError(op, err)
	if cb.err == nil {
		cb.err = rerr
	}
	cb.device.recordingFailed(rerr)
}

// recording reports whether verbs may be recorded, failing op otherwise.
func (cb *CommandBuffer) recording(op string) bool {
	if cb.state != CommandBufferStateRecording {
		cb.fail(op, fmt.Errorf("%w: state %v", ErrNotRecording, cb.state))
		return false
	}
	return true
}

// outsidePass is recording(op) for verbs that are invalid in a render pass.
func (cb *CommandBuffer) outsidePass(op string) bool {
	if !cb.recording(op) {
		return false
	}
	if cb.inPass {
		cb.fail(op, ErrInRenderPass)
		return false
	}
	return true
}

func (cb *CommandBuffer) record(c Command) {
	cb.commands = append(cb.commands, c)
}

// Begin starts a new recording. Previously recorded commands are discarded
// and the recording cursor is reset.
func (cb *CommandBuffer) Begin(info BeginInfo) error {
	if cb.pool == nil {
		return recordingError("begin", fmt.Errorf("%w: command buffer was freed", ErrInvalidArgument))
	}
	cb.commands = nil
	cb.resetCursor()
	cb.err = nil
	cb.usage = info.Flags
	cb.state = CommandBufferStateRecording

	inh := info.Inheritance
	if cb.level != CommandBufferLevelSecondary || inh == nil || info.Flags&CommandBufferUsageRenderPassContinue == 0 {
		return nil
	}
	rp, err := lookup(cb.device.renderPasses, inh.RenderPass.h, "render pass")
	if err != nil {
		cb.fail("begin", err)
		return cb.err
	}
	if int(inh.Subpass) >= len(rp.subpasses) {
		cb.fail("begin", fmt.Errorf("%w: subpass %d of %d", ErrInvalidArgument, inh.Subpass, len(rp.subpasses)))
		return cb.err
	}
	if inh.Framebuffer.IsValid() && !cb.device.framebuffers.Contains(inh.Framebuffer.h) {
		cb.fail("begin", destroyed("framebuffer"))
		return cb.err
	}
	cb.pass, cb.renderPass, cb.framebuffer = rp, inh.RenderPass, inh.Framebuffer
	cb.subpass, cb.inPass = inh.Subpass, true
	return nil
}

// End finishes the recording. It drops push constants still waiting for a
// pipeline and returns the first recording error, or a BackendError if the
// backend reports one. The buffer is executable only if End succeeds.
func (cb *CommandBuffer) End() error {
	if cb.state != CommandBufferStateRecording {
		return recordingError("end", fmt.Errorf("%w: state %v", ErrNotRecording, cb.state))
	}
	cb.pending = nil
	if cb.level == CommandBufferLevelPrimary && cb.inPass {
		cb.fail("end", fmt.Errorf("%w: missing EndRenderPass", ErrInRenderPass))
	}
	if cb.err != nil {
		cb.state = CommandBufferStateInvalid
		return cb.err
	}
	if err := checkBackend(cb.device.ctx, "end command buffer"); err != nil {
		cb.device.logger().Warn("glvk: backend error", "op", "end command buffer", "err", err)
		cb.state = CommandBufferStateInvalid
		return err
	}
	cb.state = CommandBufferStateExecutable
	return nil
}

// Reset discards the recorded commands. The recording cursor is kept, so a
// buffer reset while recording keeps its bound pipeline and render pass.
// Reset always succeeds.
func (cb *CommandBuffer) Reset() error {
	cb.commands = nil
	if cb.state != CommandBufferStateRecording {
		cb.state = CommandBufferStateInitial
	}
	return nil
}

// BeginRenderPass binds fb and enters the first subpass of pass. Attachments
// with a clear load op are cleared to clears[attachment] on first use.
func (cb *CommandBuffer) BeginRenderPass(pass RenderPass, fb Framebuffer, area Rect2D, clears []ClearValue, contents SubpassContents) {
	const op = "begin render pass"
	if !cb.outsidePass(op) {
		return
	}
	rp, err := lookup(cb.device.renderPasses, pass.h, "render pass")
	if err != nil {
		cb.fail(op, err)
		return
	}
	if !cb.device.framebuffers.Contains(fb.h) {
		cb.fail(op, destroyed("framebuffer"))
		return
	}
	cb.pass, cb.renderPass, cb.framebuffer = rp, pass, fb
	cb.subpass, cb.inPass = 0, true
	cb.record(&BeginRenderPassCommand{
		RenderPass:  pass,
		Framebuffer: fb,
		RenderArea:  area,
		ClearValues: append([]ClearValue(nil), clears...),
		Contents:    contents,
	})
}

// NextSubpass advances to the next subpass of the current render pass.
func (cb *CommandBuffer) NextSubpass(contents SubpassContents) {
	const op = "next subpass"
	if !cb.recording(op) {
		return
	}
	if !cb.inPass {
		cb.fail(op, ErrNotInRenderPass)
		return
	}
	if int(cb.subpass)+1 >= len(cb.pass.subpasses) {
		cb.fail(op, fmt.Errorf("%w: subpass %d is the last", ErrSubpassOverflow, cb.subpass))
		return
	}
	cb.subpass++
	cb.record(&NextSubpassCommand{Contents: contents})
}

// EndRenderPass leaves the current render pass.
func (cb *CommandBuffer) EndRenderPass() {
	const op = "end render pass"
	if !cb.recording(op) {
		return
	}
	if !cb.inPass {
		cb.fail(op, ErrNotInRenderPass)
		return
	}
	cb.pass, cb.renderPass, cb.framebuffer = nil, RenderPass{}, Framebuffer{}
	cb.subpass, cb.inPass = 0, false
	cb.record(&EndRenderPassCommand{})
}

// BindPipeline binds a graphics pipeline. Push constants recorded while no
// pipeline was bound follow it in recording order, then the pipeline's own
// constants.
func (cb *CommandBuffer) BindPipeline(p Pipeline) {
	const op = "bind pipeline"
	if !cb.recording(op) {
		return
	}
	pl, err := lookup(cb.device.pipelines, p.h, "pipeline")
	if err != nil {
		cb.fail(op, err)
		return
	}
	cb.pipeline = pl
	cb.record(&BindPipelineCommand{Pipeline: p})
	cb.flushPushConstants(pl.layoutH, pl.constants)
}

// BindComputePipeline binds a compute pipeline. Pending push constants are
// flushed as for BindPipeline.
func (cb *CommandBuffer) BindComputePipeline(p ComputePipeline) {
	const op = "bind compute pipeline"
	if !cb.recording(op) {
		return
	}
	cp, err := lookup(cb.device.computePipelines, p.h, "compute pipeline")
	if err != nil {
		cb.fail(op, err)
		return
	}
	cb.compute = cp
	cb.record(&BindComputePipelineCommand{Pipeline: p})
	cb.flushPushConstants(cp.layoutH, cp.constants)
}

func (cb *CommandBuffer) flushPushConstants(layout PipelineLayout, constants []*PushConstantsBuffer) {
	for _, pp := range cb.pending {
		cb.record(&PushConstantsCommand{Layout: pp.layout, Buffer: pp.buf})
	}
	for _, c := range constants {
		cb.record(&PushConstantsCommand{Layout: layout, Buffer: c.Clone()})
	}
	cb.pending = nil
}

// PushConstants records a push constant upload. The buffer is copied. If no
// pipeline is bound yet the upload waits for the next BindPipeline or
// BindComputePipeline; End drops uploads that are still waiting.
func (cb *CommandBuffer) PushConstants(layout PipelineLayout, buf *PushConstantsBuffer) {
	const op = "push constants"
	if !cb.recording(op) {
		return
	}
	if buf == nil {
		cb.fail(op, fmt.Errorf("%w: nil push constants buffer", ErrInvalidArgument))
		return
	}
	if !cb.device.pipelineLayouts.Contains(layout.h) {
		cb.fail(op, destroyed("pipeline layout"))
		return
	}
	if cb.pipeline == nil && cb.compute == nil {
		cb.pending = append(cb.pending, pendingPush{layout: layout, buf: buf.Clone()})
		return
	}
	cb.record(&PushConstantsCommand{Layout: layout, Buffer: buf.Clone()})
}

// BindDescriptorSets binds sets to consecutive set indices starting at
// firstSet. dynamicOffsets holds one offset per array element of every
// dynamic binding of the sets, in set then binding order.
func (cb *CommandBuffer) BindDescriptorSets(bindPoint PipelineBindPoint, layout PipelineLayout, firstSet uint32, sets []DescriptorSet, dynamicOffsets []uint32) {
	const op = "bind descriptor sets"
	if !cb.recording(op) {
		return
	}
	pl, err := lookup(cb.device.pipelineLayouts, layout.h, "pipeline layout")
	if err != nil {
		cb.fail(op, err)
		return
	}
	if int(firstSet)+len(sets) > len(pl.sets) {
		cb.fail(op, fmt.Errorf("%w: sets [%d, %d) of a %d-set layout", ErrInvalidArgument, firstSet, int(firstSet)+len(sets), len(pl.sets)))
		return
	}
	want := 0
	for i, s := range sets {
		if !cb.device.descriptorSets.Contains(s.h) {
			cb.fail(op, fmt.Errorf("set %d: %w", i, destroyed("descriptor set")))
			return
		}
		want += pl.dynamic[int(firstSet)+i]
	}
	if want != len(dynamicOffsets) {
		cb.fail(op, fmt.Errorf("%w: %d dynamic offsets for %d dynamic bindings", ErrInvalidArgument, len(dynamicOffsets), want))
		return
	}
	next := 0
	for i, s := range sets {
		n := pl.dynamic[int(firstSet)+i]
		cb.record(&BindDescriptorSetCommand{
			BindPoint:      bindPoint,
			Layout:         layout,
			Set:            firstSet + uint32(i), // #nosec G115
			DescriptorSet:  s,
			DynamicOffsets: append([]uint32(nil), dynamicOffsets[next:next+n]...),
		})
		next += n
	}
}

// BindGeometryBuffers binds vertex buffers and, if the geometry has one, an
// index buffer whose type later DrawIndexed calls use. Geometry without an
// index buffer leaves the previous index type in place.
func (cb *CommandBuffer) BindGeometryBuffers(g GeometryBuffers) {
	const op = "bind geometry buffers"
	if !cb.recording(op) {
		return
	}
	geo, err := lookup(cb.device.geometry, g.h, "geometry buffers")
	if err != nil {
		cb.fail(op, err)
		return
	}
	if geo.index != nil {
		cb.indexType = geo.indexType
	}
	cb.record(&BindGeometryBuffersCommand{Geometry: g})
}

// SetViewport sets the viewport.
func (cb *CommandBuffer) SetViewport(v Viewport) {
	if !cb.recording("set viewport") {
		return
	}
	cb.record(&SetViewportCommand{Viewport: v})
}

// SetScissor sets the scissor rectangle.
func (cb *CommandBuffer) SetScissor(r Rect2D) {
	if !cb.recording("set scissor") {
		return
	}
	cb.record(&SetScissorCommand{Rect: r})
}

// SetLineWidth sets the width of rasterized lines.
func (cb *CommandBuffer) SetLineWidth(width float32) {
	const op = "set line width"
	if !cb.recording(op) {
		return
	}
	if width <= 0 {
		cb.fail(op, fmt.Errorf("%w: line width %v", ErrInvalidArgument, width))
		return
	}
	cb.record(&SetLineWidthCommand{Width: width})
}

// Draw records a non-indexed draw with the topology of the bound pipeline.
func (cb *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	const op = "draw"
	if !cb.recording(op) {
		return
	}
	if cb.pipeline == nil {
		cb.fail(op, ErrNoPipeline)
		return
	}
	cb.record(&DrawCommand{
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		FirstVertex:   firstVertex,
		FirstInstance: firstInstance,
		Topology:      cb.pipeline.topology,
	})
}

// DrawIndexed records an indexed draw with the topology of the bound
// pipeline and the index type of the bound index buffer.
func (cb *CommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	const op = "draw indexed"
	if !cb.recording(op) {
		return
	}
	if cb.pipeline == nil {
		cb.fail(op, ErrNoPipeline)
		return
	}
	if cb.indexType == 0 {
		cb.fail(op, ErrNoIndexBuffer)
		return
	}
	cb.record(&DrawIndexedCommand{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		VertexOffset:  vertexOffset,
		FirstInstance: firstInstance,
		Topology:      cb.pipeline.topology,
		IndexType:     cb.indexType,
	})
}

// Dispatch records a compute dispatch of x*y*z workgroups.
func (cb *CommandBuffer) Dispatch(x, y, z uint32) {
	const op = "dispatch"
	if !cb.outsidePass(op) {
		return
	}
	if cb.compute == nil {
		cb.fail(op, ErrNoComputePipeline)
		return
	}
	cb.record(&DispatchCommand{X: x, Y: y, Z: z})
}

// check fails op when any of the resources is gone.
func (cb *CommandBuffer) check(op string, ok bool, kind string) bool {
	if !ok {
		cb.fail(op, destroyed(kind))
	}
	return ok
}

// CopyBuffer copies regions of src into dst.
func (cb *CommandBuffer) CopyBuffer(src, dst Buffer, regions ...BufferCopy) {
	const op = "copy buffer"
	d := cb.device
	if !cb.outsidePass(op) ||
		!cb.check(op, d.buffers.Contains(src.h), "source buffer") ||
		!cb.check(op, d.buffers.Contains(dst.h), "destination buffer") {
		return
	}
	cb.record(&CopyBufferCommand{Src: src, Dst: dst, Regions: append([]BufferCopy(nil), regions...)})
}

// CopyBufferToImage uploads buffer regions into a texture that is in
// layout during the copy.
func (cb *CommandBuffer) CopyBufferToImage(buf Buffer, tex Texture, layout ImageLayout, regions ...BufferImageCopy) {
	const op = "copy buffer to image"
	d := cb.device
	if !cb.outsidePass(op) ||
		!cb.check(op, d.buffers.Contains(buf.h), "buffer") ||
		!cb.check(op, d.textures.Contains(tex.h), "texture") {
		return
	}
	cb.record(&CopyBufferToImageCommand{Buffer: buf, Texture: tex, Layout: layout, Regions: append([]BufferImageCopy(nil), regions...)})
}

// CopyImageToBuffer reads texture regions into a buffer.
func (cb *CommandBuffer) CopyImageToBuffer(tex Texture, layout ImageLayout, buf Buffer, regions ...BufferImageCopy) {
	const op = "copy image to buffer"
	d := cb.device
	if !cb.outsidePass(op) ||
		!cb.check(op, d.textures.Contains(tex.h), "texture") ||
		!cb.check(op, d.buffers.Contains(buf.h), "buffer") {
		return
	}
	cb.record(&CopyImageToBufferCommand{Texture: tex, Layout: layout, Buffer: buf, Regions: append([]BufferImageCopy(nil), regions...)})
}

// CopyImage copies texel regions between textures.
func (cb *CommandBuffer) CopyImage(src Texture, srcLayout ImageLayout, dst Texture, dstLayout ImageLayout, regions ...ImageCopy) {
	const op = "copy image"
	d := cb.device
	if !cb.outsidePass(op) ||
		!cb.check(op, d.textures.Contains(src.h), "source texture") ||
		!cb.check(op, d.textures.Contains(dst.h), "destination texture") {
		return
	}
	cb.record(&CopyImageCommand{
		Src: src, SrcLayout: srcLayout,
		Dst: dst, DstLayout: dstLayout,
		Regions: append([]ImageCopy(nil), regions...),
	})
}

// BlitImage copies regions between textures with scaling and filtering.
func (cb *CommandBuffer) BlitImage(src Texture, srcLayout ImageLayout, dst Texture, dstLayout ImageLayout, regions []ImageBlit, filter gputypes.FilterMode) {
	const op = "blit image"
	d := cb.device
	if !cb.outsidePass(op) ||
		!cb.check(op, d.textures.Contains(src.h), "source texture") ||
		!cb.check(op, d.textures.Contains(dst.h), "destination texture") {
		return
	}
	cb.record(&BlitImageCommand{
		Src: src, SrcLayout: srcLayout,
		Dst: dst, DstLayout: dstLayout,
		Regions: append([]ImageBlit(nil), regions...),
		Filter:  filter,
	})
}

func wholeRange(ranges []ImageSubresourceRange) []ImageSubresourceRange {
	if len(ranges) == 0 {
		return []ImageSubresourceRange{{}}
	}
	return append([]ImageSubresourceRange(nil), ranges...)
}

// ClearColour clears ranges of a color texture. No ranges clears the whole
// texture.
func (cb *CommandBuffer) ClearColour(tex Texture, layout ImageLayout, color gputypes.Color, ranges ...ImageSubresourceRange) {
	const op = "clear colour"
	if !cb.outsidePass(op) || !cb.check(op, cb.device.textures.Contains(tex.h), "texture") {
		return
	}
	cb.record(&ClearColourCommand{Texture: tex, Layout: layout, Color: color, Ranges: wholeRange(ranges)})
}

// ClearDepthStencil clears ranges of a depth/stencil texture. No ranges
// clears the whole texture.
func (cb *CommandBuffer) ClearDepthStencil(tex Texture, layout ImageLayout, depth float32, stencil uint32, ranges ...ImageSubresourceRange) {
	const op = "clear depth stencil"
	if !cb.outsidePass(op) || !cb.check(op, cb.device.textures.Contains(tex.h), "texture") {
		return
	}
	cb.record(&ClearDepthStencilCommand{Texture: tex, Layout: layout, Depth: depth, Stencil: stencil, Ranges: wholeRange(ranges)})
}

// BufferMemoryBarrier orders accesses to buffer ranges.
func (cb *CommandBuffer) BufferMemoryBarrier(src, dst PipelineStage, barriers ...BufferBarrier) {
	if !cb.recording("buffer memory barrier") {
		return
	}
	cb.record(&BufferMemoryBarrierCommand{SrcStages: src, DstStages: dst, Barriers: append([]BufferBarrier(nil), barriers...)})
}

// ImageMemoryBarrier orders accesses to textures and transitions their
// layouts.
func (cb *CommandBuffer) ImageMemoryBarrier(src, dst PipelineStage, barriers ...ImageBarrier) {
	if !cb.recording("image memory barrier") {
		return
	}
	cb.record(&ImageMemoryBarrierCommand{SrcStages: src, DstStages: dst, Barriers: append([]ImageBarrier(nil), barriers...)})
}

// ResetQueryPool marks count queries starting at first unavailable.
func (cb *CommandBuffer) ResetQueryPool(pool QueryPool, first, count uint32) {
	const op = "reset query pool"
	if !cb.outsidePass(op) || !cb.check(op, cb.device.queryPools.Contains(pool.h), "query pool") {
		return
	}
	cb.record(&ResetQueryPoolCommand{Pool: pool, First: first, Count: count})
}

// BeginQuery starts an occlusion query.
func (cb *CommandBuffer) BeginQuery(pool QueryPool, query uint32, flags QueryControlFlags) {
	const op = "begin query"
	if !cb.recording(op) || !cb.check(op, cb.device.queryPools.Contains(pool.h), "query pool") {
		return
	}
	cb.record(&BeginQueryCommand{Pool: pool, Query: query, Flags: flags})
}

// EndQuery ends an occlusion query.
func (cb *CommandBuffer) EndQuery(pool QueryPool, query uint32) {
	const op = "end query"
	if !cb.recording(op) || !cb.check(op, cb.device.queryPools.Contains(pool.h), "query pool") {
		return
	}
	cb.record(&EndQueryCommand{Pool: pool, Query: query})
}

// WriteTimestamp writes a timestamp once previous commands complete.
func (cb *CommandBuffer) WriteTimestamp(stage PipelineStage, pool QueryPool, query uint32) {
	const op = "write timestamp"
	if !cb.recording(op) || !cb.check(op, cb.device.queryPools.Contains(pool.h), "query pool") {
		return
	}
	cb.record(&WriteTimestampCommand{Stage: stage, Pool: pool, Query: query})
}

// ExecuteCommands appends a copy of every command of each secondary buffer,
// in the order given. Later changes to the secondary buffers do not affect
// this buffer.
func (cb *CommandBuffer) ExecuteCommands(buffers ...*CommandBuffer) {
	const op = "execute commands"
	if !cb.recording(op) {
		return
	}
	if cb.level != CommandBufferLevelPrimary {
		cb.fail(op, fmt.Errorf("%w: executed from a secondary buffer", ErrInvalidArgument))
		return
	}
	for i, sb := range buffers {
		switch {
		case sb == nil || sb.level != CommandBufferLevelSecondary:
			cb.fail(op, fmt.Errorf("buffer %d: %w", i, ErrNotSecondary))
			return
		case sb.state != CommandBufferStateExecutable:
			cb.fail(op, fmt.Errorf("buffer %d: %w: state %v", i, ErrNotExecutable, sb.state))
			return
		}
	}
	for _, sb := range buffers {
		for _, c := range sb.commands {
			cb.record(c.Clone())
		}
	}
}
