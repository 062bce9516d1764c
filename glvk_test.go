package glvk

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend/trace"
)

const (
	testVertexGLSL = `#version 430 core
layout(location = 0) in vec2 pos;
void main() { gl_Position = vec4(pos, 0.0, 1.0); }
`
	testFragmentGLSL = `#version 430 core
layout(location = 0) out vec4 color;
uniform vec4 tint;
void main() { color = tint; }
`
	testComputeGLSL = `#version 430 core
layout(local_size_x = 1) in;
void main() {}
`
)

// fixture is a device on a trace backend with a pipeline layout, an empty
// single-subpass render pass and a linked graphics program.
type fixture struct {
	t      *testing.T
	dev    *Device
	trace  *trace.Context
	layout PipelineLayout
	pass   RenderPass
	prog   ShaderProgram
	pool   *CommandPool
}

func newFixture(t *testing.T, opts ...DeviceOption) *fixture {
	t.Helper()
	tc := trace.New()
	dev, err := NewDevice(tc, opts...)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	f := &fixture{t: t, dev: dev, trace: tc}

	f.layout, err = dev.CreatePipelineLayout(PipelineLayoutDescriptor{Label: "test"})
	if err != nil {
		t.Fatalf("CreatePipelineLayout() error = %v", err)
	}
	f.pass, err = dev.CreateRenderPass(RenderPassDescriptor{
		Label:     "empty",
		Subpasses: []SubpassDescription{{}},
	})
	if err != nil {
		t.Fatalf("CreateRenderPass() error = %v", err)
	}
	f.prog = f.program(
		gputypes.ShaderSourceGLSL{Code: testVertexGLSL, Stage: gputypes.ShaderStageVertex},
		gputypes.ShaderSourceGLSL{Code: testFragmentGLSL, Stage: gputypes.ShaderStageFragment},
	)
	f.pool, err = dev.CreateCommandPool(CommandPoolDescriptor{Label: "test"})
	if err != nil {
		t.Fatalf("CreateCommandPool() error = %v", err)
	}
	return f
}

func (f *fixture) program(sources ...gputypes.ShaderSourceGLSL) ShaderProgram {
	f.t.Helper()
	stages := make([]ProgramStage, len(sources))
	for i, src := range sources {
		m, err := f.dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{Label: src.Stage.String(), Source: src})
		if err != nil {
			f.t.Fatalf("CreateShaderModule() error = %v", err)
		}
		stages[i] = ProgramStage{Module: m}
	}
	p, err := f.dev.CreateShaderProgram(ShaderProgramDescriptor{Label: "test", Layout: f.layout, Stages: stages})
	if err != nil {
		f.t.Fatalf("CreateShaderProgram() error = %v", err)
	}
	return p
}

func (f *fixture) pipeline(topology gputypes.PrimitiveTopology, constants ...*PushConstantsBuffer) Pipeline {
	f.t.Helper()
	p, err := f.dev.CreatePipeline(PipelineDescriptor{
		Label:      topology.String(),
		Layout:     f.layout,
		Program:    f.prog,
		RenderPass: f.pass,
		Primitive:  gputypes.PrimitiveState{Topology: topology},
		Constants:  constants,
	})
	if err != nil {
		f.t.Fatalf("CreatePipeline() error = %v", err)
	}
	return p
}

func (f *fixture) computePipeline() ComputePipeline {
	f.t.Helper()
	prog := f.program(gputypes.ShaderSourceGLSL{Code: testComputeGLSL, Stage: gputypes.ShaderStageCompute})
	p, err := f.dev.CreateComputePipeline(ComputePipelineDescriptor{Label: "compute", Layout: f.layout, Program: prog})
	if err != nil {
		f.t.Fatalf("CreateComputePipeline() error = %v", err)
	}
	return p
}

func (f *fixture) buffer(size uint64, usage gputypes.BufferUsage) Buffer {
	f.t.Helper()
	b, err := f.dev.CreateBuffer(gputypes.BufferDescriptor{Label: "test", Size: size, Usage: usage})
	if err != nil {
		f.t.Fatalf("CreateBuffer() error = %v", err)
	}
	return b
}

// geometry creates a geometry set with one vertex buffer and, if index is
// not IndexFormatUndefined, an index buffer of that format.
func (f *fixture) geometry(index gputypes.IndexFormat) GeometryBuffers {
	f.t.Helper()
	desc := GeometryBuffersDescriptor{
		Label:         "test",
		VertexBuffers: []VertexBufferBinding{{Buffer: f.buffer(64, gputypes.BufferUsageVertex)}},
		Layouts: []gputypes.VertexBufferLayout{{
			ArrayStride: 8,
			Attributes:  []gputypes.VertexAttribute{{Format: gputypes.VertexFormatFloat32x2}},
		}},
	}
	if index != gputypes.IndexFormatUndefined {
		desc.IndexBuffer = &IndexBufferBinding{Buffer: f.buffer(64, gputypes.BufferUsageIndex), Format: index}
	}
	g, err := f.dev.CreateGeometryBuffers(desc)
	if err != nil {
		f.t.Fatalf("CreateGeometryBuffers() error = %v", err)
	}
	return g
}

func (f *fixture) texture(format gputypes.TextureFormat, width, height uint32) Texture {
	f.t.Helper()
	tex, err := f.dev.CreateTexture(gputypes.TextureDescriptor{
		Label:         "test",
		Size:          gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		f.t.Fatalf("CreateTexture() error = %v", err)
	}
	return tex
}

func (f *fixture) primary() *CommandBuffer {
	return f.pool.Allocate(CommandBufferLevelPrimary)
}

// submit submits cb after clearing the trace so only replayed calls remain.
func (f *fixture) submit(cb *CommandBuffer) {
	f.t.Helper()
	f.trace.Clear()
	if err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, nil); err != nil {
		f.t.Fatalf("Submit() error = %v", err)
	}
}

func commandTypes(cb *CommandBuffer) []CommandType {
	cmds := cb.Commands()
	out := make([]CommandType, len(cmds))
	for i, c := range cmds {
		out[i] = c.Type()
	}
	return out
}

func callStrings(calls []trace.Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}
