package glvk

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

// PipelineDescriptor describes a graphics pipeline.
type PipelineDescriptor struct {
	Label   string
	Layout  PipelineLayout
	Program ShaderProgram

	RenderPass RenderPass
	Subpass    uint32

	VertexBuffers []gputypes.VertexBufferLayout
	// Primitive.StripIndexFormat enables primitive restart and
	// Primitive.UnclippedDepth enables depth clamping.
	Primitive gputypes.PrimitiveState
	// DepthStencil is nil when depth and stencil testing are disabled.
	DepthStencil     *gputypes.DepthStencilState
	StencilReference uint32
	Multisample      gputypes.MultisampleState
	// Targets holds one entry per color attachment of the subpass.
	Targets       []gputypes.ColorTargetState
	BlendConstant gputypes.Color
	// LineWidth is the rasterized line width; 0 means 1.
	LineWidth float32
	// Wireframe rasterizes polygon edges only.
	Wireframe bool

	// Constants are pushed every time the pipeline is bound, after any push
	// constants recorded before the bind.
	Constants []*PushConstantsBuffer
}

type stencilFace struct {
	fn, sfail, dpfail, dppass uint32
}

type blendTarget struct {
	enabled                            bool
	srcRGB, dstRGB, srcAlpha, dstAlpha uint32
	opRGB, opAlpha                     uint32
	mask                               gputypes.ColorWriteMask
}

// pipeline is the resolved form of a PipelineDescriptor. Every backend
// token is computed once here.
type pipeline struct {
	label    string
	layoutH  PipelineLayout
	layout   *pipelineLayout
	programH ShaderProgram
	prog     *program
	vertex   []gputypes.VertexBufferLayout

	topology    uint32
	cull        bool
	cullFace    uint32
	frontFace   uint32
	polygonMode uint32
	depthClamp  bool
	bias        bool
	biasFactor  float32
	biasUnits   float32
	lineWidth   float32
	restart     bool

	depthTest   bool
	depthWrite  bool
	depthFunc   uint32
	stencilTest bool
	front, back stencilFace
	stencilRead uint32
	stencilMask uint32
	stencilRef  int32

	blends        []blendTarget
	blendConstant [4]float32

	multisample     bool
	alphaToCoverage bool
	sampleMask      uint32

	constants []*PushConstantsBuffer
}

// CreatePipeline creates a graphics pipeline.
func (d *Device) CreatePipeline(desc PipelineDescriptor) (Pipeline, error) {
	wrap := func(err error) error {
		return fmt.Errorf("glvk: create pipeline %q: %w", desc.Label, err)
	}
	layout, err := lookup(d.pipelineLayouts, desc.Layout.h, "pipeline layout")
	if err != nil {
		return Pipeline{}, wrap(err)
	}
	prog, err := lookup(d.programs, desc.Program.h, "shader program")
	if err != nil {
		return Pipeline{}, wrap(err)
	}
	if prog.stages&gputypes.ShaderStageCompute != 0 {
		return Pipeline{}, wrap(fmt.Errorf("%w: compute program in a graphics pipeline", ErrInvalidDescriptor))
	}
	rp, err := lookup(d.renderPasses, desc.RenderPass.h, "render pass")
	if err != nil {
		return Pipeline{}, wrap(err)
	}
	if int(desc.Subpass) >= len(rp.subpasses) {
		return Pipeline{}, wrap(fmt.Errorf("%w: subpass %d of %d", ErrInvalidDescriptor, desc.Subpass, len(rp.subpasses)))
	}
	if n := len(rp.subpasses[desc.Subpass].ColorAttachments); len(desc.Targets) > n {
		return Pipeline{}, wrap(fmt.Errorf("%w: %d targets for %d color attachments",
			ErrInvalidDescriptor, len(desc.Targets), n))
	}
	for i, vb := range desc.VertexBuffers {
		for _, attr := range vb.Attributes {
			if _, ok := convert.VertexFormat(attr.Format); !ok {
				return Pipeline{}, wrap(fmt.Errorf("%w: vertex buffer %d location %d: %v",
					ErrUnsupportedFormat, i, attr.ShaderLocation, attr.Format))
			}
		}
	}

	prim := desc.Primitive
	p := &pipeline{
		label:       desc.Label,
		layoutH:     desc.Layout,
		layout:      layout,
		programH:    desc.Program,
		prog:        prog,
		vertex:      append([]gputypes.VertexBufferLayout(nil), desc.VertexBuffers...),
		topology:    convert.Topology(prim.Topology),
		frontFace:   convert.FrontFace(prim.FrontFace),
		polygonMode: backend.FILL,
		depthClamp:  prim.UnclippedDepth,
		restart:     prim.StripIndexFormat != nil,
		lineWidth:   desc.LineWidth,
		depthFunc:   backend.ALWAYS,
		stencilRead: 0xff,
		stencilMask: 0xff,
		stencilRef:  int32(desc.StencilReference & 0xff), // #nosec G115 -- masked to 8 bits
	}
	p.cullFace, p.cull = convert.CullFace(prim.CullMode)
	if desc.Wireframe {
		p.polygonMode = backend.LINE
	}
	if p.lineWidth <= 0 {
		p.lineWidth = 1
	}

	if ds := desc.DepthStencil; ds != nil {
		// Depth writes need the depth test enabled; ALWAYS keeps it a no-op.
		p.depthFunc = convert.CompareFunc(ds.DepthCompare)
		p.depthTest = ds.DepthWriteEnabled || p.depthFunc != backend.ALWAYS
		p.depthWrite = ds.DepthWriteEnabled
		p.front = resolveStencilFace(ds.StencilFront)
		p.back = resolveStencilFace(ds.StencilBack)
		p.stencilTest = !p.front.passthrough() || !p.back.passthrough()
		p.stencilRead, p.stencilMask = ds.StencilReadMask, ds.StencilWriteMask
		p.bias = ds.DepthBias != 0 || ds.DepthBiasSlopeScale != 0
		p.biasFactor, p.biasUnits = ds.DepthBiasSlopeScale, float32(ds.DepthBias)
	}

	p.blends = make([]blendTarget, len(desc.Targets))
	for i, ct := range desc.Targets {
		if _, ok := convert.TextureFormat(ct.Format); !ok && ct.Format != gputypes.TextureFormatUndefined {
			return Pipeline{}, wrap(fmt.Errorf("%w: target %d: %v", ErrUnsupportedFormat, i, ct.Format))
		}
		bt := blendTarget{mask: ct.WriteMask}
		if b := ct.Blend; b != nil {
			bt.enabled = true
			bt.srcRGB = convert.BlendFactor(b.Color.SrcFactor)
			bt.dstRGB = convert.BlendFactor(b.Color.DstFactor)
			bt.srcAlpha = convert.BlendFactor(b.Alpha.SrcFactor)
			bt.dstAlpha = convert.BlendFactor(b.Alpha.DstFactor)
			bt.opRGB = convert.BlendOp(b.Color.Operation)
			bt.opAlpha = convert.BlendOp(b.Alpha.Operation)
		}
		p.blends[i] = bt
	}
	c := desc.BlendConstant
	p.blendConstant = [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}

	ms := desc.Multisample
	p.multisample = ms.Count > 1
	p.alphaToCoverage = ms.AlphaToCoverageEnabled
	p.sampleMask = uint32(ms.Mask) // #nosec G115 -- GL takes 32 sample bits per word
	if ms.Mask == 0 {
		p.sampleMask = ^uint32(0)
	}

	p.constants = make([]*PushConstantsBuffer, 0, len(desc.Constants))
	for _, pcb := range desc.Constants {
		if pcb != nil {
			p.constants = append(p.constants, pcb.Clone())
		}
	}

	h := d.pipelines.Insert(p)
	d.logger().Debug("glvk: pipeline created", "label", desc.Label, "program", prog.id,
		"topology", desc.Primitive.Topology, "targets", len(p.blends))
	return Pipeline{h}, nil
}

// DestroyPipeline releases a graphics pipeline.
func (d *Device) DestroyPipeline(p Pipeline) {
	d.pipelines.Remove(p.h)
}

// passthrough reports whether the face always passes and keeps the value.
func (f stencilFace) passthrough() bool {
	return f.fn == backend.ALWAYS && f.sfail == backend.KEEP && f.dpfail == backend.KEEP && f.dppass == backend.KEEP
}

func resolveStencilFace(f gputypes.StencilFaceState) stencilFace {
	return stencilFace{
		fn:     convert.CompareFunc(f.Compare),
		sfail:  convert.StencilOp(f.FailOp),
		dpfail: convert.StencilOp(f.DepthFailOp),
		dppass: convert.StencilOp(f.PassOp),
	}
}

func setCapability(ctx backend.Context, capability uint32, enabled bool) {
	if enabled {
		ctx.Enable(capability)
	} else {
		ctx.Disable(capability)
	}
}

// apply makes p the current graphics state.
func (p *pipeline) apply(ec *ExecContext) error {
	if !ec.device.programs.Contains(p.programH.h) {
		return destroyed("shader program")
	}
	ctx := ec.ctx
	ec.useProgram(p.prog)

	setCapability(ctx, backend.CULL_FACE, p.cull)
	if p.cull {
		ctx.CullFace(p.cullFace)
	}
	ctx.FrontFace(p.frontFace)
	ctx.PolygonMode(backend.FRONT_AND_BACK, p.polygonMode)
	setCapability(ctx, backend.DEPTH_CLAMP, p.depthClamp)
	setCapability(ctx, backend.POLYGON_OFFSET_FILL, p.bias)
	if p.bias {
		ctx.PolygonOffset(p.biasFactor, p.biasUnits)
	}
	ctx.LineWidth(p.lineWidth)
	setCapability(ctx, backend.PRIMITIVE_RESTART_FIXED_INDEX, p.restart)

	setCapability(ctx, backend.DEPTH_TEST, p.depthTest)
	if p.depthTest {
		ctx.DepthFunc(p.depthFunc)
	}
	ctx.DepthMask(p.depthWrite)

	setCapability(ctx, backend.STENCIL_TEST, p.stencilTest)
	if p.stencilTest {
		ctx.StencilFuncSeparate(backend.FRONT, p.front.fn, p.stencilRef, p.stencilRead)
		ctx.StencilOpSeparate(backend.FRONT, p.front.sfail, p.front.dpfail, p.front.dppass)
		ctx.StencilFuncSeparate(backend.BACK, p.back.fn, p.stencilRef, p.stencilRead)
		ctx.StencilOpSeparate(backend.BACK, p.back.sfail, p.back.dpfail, p.back.dppass)
	}
	ctx.StencilMaskSeparate(backend.FRONT_AND_BACK, p.stencilMask)

	for i, b := range p.blends {
		buf := uint32(i) // #nosec G115
		if b.enabled {
			ctx.Enablei(backend.BLEND, buf)
			ctx.BlendFuncSeparatei(buf, b.srcRGB, b.dstRGB, b.srcAlpha, b.dstAlpha)
			ctx.BlendEquationSeparatei(buf, b.opRGB, b.opAlpha)
		} else {
			ctx.Disablei(backend.BLEND, buf)
		}
		ctx.ColorMaski(buf, b.mask&gputypes.ColorWriteMaskRed != 0, b.mask&gputypes.ColorWriteMaskGreen != 0,
			b.mask&gputypes.ColorWriteMaskBlue != 0, b.mask&gputypes.ColorWriteMaskAlpha != 0)
	}
	ctx.BlendColor(p.blendConstant[0], p.blendConstant[1], p.blendConstant[2], p.blendConstant[3])

	setCapability(ctx, backend.MULTISAMPLE, p.multisample)
	setCapability(ctx, backend.SAMPLE_ALPHA_TO_COVERAGE, p.alphaToCoverage)
	setCapability(ctx, backend.SAMPLE_MASK, p.sampleMask != ^uint32(0))
	if p.sampleMask != ^uint32(0) {
		ctx.SampleMaski(0, p.sampleMask)
	}

	ctx.Enable(backend.SCISSOR_TEST)
	ec.pipeline = p
	return nil
}

// restoreMasks re-applies the write masks of p after a clear forced them on.
func (p *pipeline) restoreMasks(ctx backend.Context) {
	for i, b := range p.blends {
		ctx.ColorMaski(uint32(i), b.mask&gputypes.ColorWriteMaskRed != 0, b.mask&gputypes.ColorWriteMaskGreen != 0, // #nosec G115
			b.mask&gputypes.ColorWriteMaskBlue != 0, b.mask&gputypes.ColorWriteMaskAlpha != 0)
	}
	ctx.DepthMask(p.depthWrite)
	ctx.StencilMaskSeparate(backend.FRONT_AND_BACK, p.stencilMask)
}

// ComputePipelineDescriptor describes a compute pipeline.
type ComputePipelineDescriptor struct {
	Label   string
	Layout  PipelineLayout
	Program ShaderProgram
	// Constants are pushed every time the pipeline is bound.
	Constants []*PushConstantsBuffer
}

type computePipeline struct {
	label     string
	layoutH   PipelineLayout
	layout    *pipelineLayout
	programH  ShaderProgram
	prog      *program
	constants []*PushConstantsBuffer
}

// CreateComputePipeline creates a compute pipeline.
func (d *Device) CreateComputePipeline(desc ComputePipelineDescriptor) (ComputePipeline, error) {
	layout, err := lookup(d.pipelineLayouts, desc.Layout.h, "pipeline layout")
	if err != nil {
		return ComputePipeline{}, fmt.Errorf("glvk: create compute pipeline %q: %w", desc.Label, err)
	}
	prog, err := lookup(d.programs, desc.Program.h, "shader program")
	if err != nil {
		return ComputePipeline{}, fmt.Errorf("glvk: create compute pipeline %q: %w", desc.Label, err)
	}
	if prog.stages != gputypes.ShaderStageCompute {
		return ComputePipeline{}, fmt.Errorf("glvk: create compute pipeline %q: %w: program has %v stages",
			desc.Label, ErrInvalidDescriptor, prog.stages)
	}
	p := &computePipeline{label: desc.Label, layoutH: desc.Layout, layout: layout, programH: desc.Program, prog: prog}
	for _, pcb := range desc.Constants {
		if pcb != nil {
			p.constants = append(p.constants, pcb.Clone())
		}
	}
	return ComputePipeline{d.computePipelines.Insert(p)}, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (d *Device) DestroyComputePipeline(p ComputePipeline) {
	d.computePipelines.Remove(p.h)
}

func (p *computePipeline) apply(ec *ExecContext) error {
	if !ec.device.programs.Contains(p.programH.h) {
		return destroyed("shader program")
	}
	ec.useProgram(p.prog)
	ec.compute = p
	return nil
}
