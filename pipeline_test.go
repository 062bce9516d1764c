package glvk

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

func TestCreatePipelineInvalid(t *testing.T) {
	f := newFixture(t)
	compute := f.program(gputypes.ShaderSourceGLSL{Code: testComputeGLSL, Stage: gputypes.ShaderStageCompute})
	gone, _ := f.dev.CreatePipelineLayout(PipelineLayoutDescriptor{})
	f.dev.DestroyPipelineLayout(gone)

	base := PipelineDescriptor{Layout: f.layout, Program: f.prog, RenderPass: f.pass}
	tests := []struct {
		name   string
		modify func(*PipelineDescriptor)
		want   error
	}{
		{"destroyed layout", func(d *PipelineDescriptor) { d.Layout = gone }, ErrResourceDestroyed},
		{"compute program", func(d *PipelineDescriptor) { d.Program = compute }, ErrInvalidDescriptor},
		{"subpass out of range", func(d *PipelineDescriptor) { d.Subpass = 1 }, ErrInvalidDescriptor},
		{"more targets than attachments", func(d *PipelineDescriptor) {
			d.Targets = []gputypes.ColorTargetState{{Format: gputypes.TextureFormatRGBA8Unorm}}
		}, ErrInvalidDescriptor},
		{"unsupported vertex format", func(d *PipelineDescriptor) {
			d.VertexBuffers = []gputypes.VertexBufferLayout{{
				ArrayStride: 8,
				Attributes:  []gputypes.VertexAttribute{{Format: gputypes.VertexFormatUndefined}},
			}}
		}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := base
			tt.modify(&desc)
			if _, err := f.dev.CreatePipeline(desc); !errors.Is(err, tt.want) {
				t.Errorf("CreatePipeline() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBindPipelineAppliesState(t *testing.T) {
	f := newFixture(t)
	p, err := f.dev.CreatePipeline(PipelineDescriptor{
		Label:      "wireframe",
		Layout:     f.layout,
		Program:    f.prog,
		RenderPass: f.pass,
		Primitive:  gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyLineList},
		DepthStencil: &gputypes.DepthStencilState{
			Format:            gputypes.TextureFormatDepth32Float,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      gputypes.StencilFaceState{Compare: gputypes.CompareFunctionAlways, FailOp: gputypes.StencilOperationKeep, DepthFailOp: gputypes.StencilOperationKeep, PassOp: gputypes.StencilOperationKeep},
			StencilBack:       gputypes.StencilFaceState{Compare: gputypes.CompareFunctionAlways, FailOp: gputypes.StencilOperationKeep, DepthFailOp: gputypes.StencilOperationKeep, PassOp: gputypes.StencilOperationKeep},
			StencilReadMask:   0xff,
			StencilWriteMask:  0xff,
		},
		LineWidth: 2,
		Wireframe: true,
	})
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}

	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.BindPipeline(p)
	cb.Draw(2, 1, 0, 0)
	if err := cb.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	f.submit(cb)

	calls := callStrings(f.trace.Calls())
	for _, want := range []string{
		fmt.Sprintf("PolygonMode(%d, %d)", backend.FRONT_AND_BACK, backend.LINE),
		fmt.Sprintf("Enable(%d)", backend.DEPTH_TEST),
		fmt.Sprintf("DepthFunc(%d)", backend.LESS),
		"DepthMask(true)",
		"LineWidth(2)",
		fmt.Sprintf("Disable(%d)", backend.STENCIL_TEST),
		fmt.Sprintf("DrawArrays(%d, 0, 2)", backend.LINES),
	} {
		if !slices.Contains(calls, want) {
			t.Errorf("calls = %v, missing %s", calls, want)
		}
	}
}

func TestBindPipelineBlendTargets(t *testing.T) {
	f := newFixture(t)
	rp, err := f.dev.CreateRenderPass(RenderPassDescriptor{
		Attachments: []AttachmentDescription{
			{Format: gputypes.TextureFormatRGBA8Unorm},
			{Format: gputypes.TextureFormatRGBA8Unorm},
		},
		Subpasses: []SubpassDescription{{
			ColorAttachments: []AttachmentReference{{Attachment: 0}, {Attachment: 1}},
		}},
	})
	if err != nil {
		t.Fatalf("CreateRenderPass() error = %v", err)
	}
	blend := gputypes.BlendStatePremultiplied()
	p, err := f.dev.CreatePipeline(PipelineDescriptor{
		Layout:     f.layout,
		Program:    f.prog,
		RenderPass: rp,
		Targets: []gputypes.ColorTargetState{
			{Format: gputypes.TextureFormatRGBA8Unorm, Blend: &blend, WriteMask: gputypes.ColorWriteMaskAll},
			{Format: gputypes.TextureFormatRGBA8Unorm, WriteMask: gputypes.ColorWriteMaskRed},
		},
	})
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}

	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.BindPipeline(p)
	_ = cb.End()
	f.submit(cb)

	got := callStrings(f.trace.Filter("Enablei", "Disablei", "BlendFuncSeparatei", "ColorMaski"))
	want := []string{
		fmt.Sprintf("Enablei(%d, 0)", backend.BLEND),
		fmt.Sprintf("BlendFuncSeparatei(0, %d, %d, %d, %d)", backend.ONE, backend.ONE_MINUS_SRC_ALPHA, backend.ONE, backend.ONE_MINUS_SRC_ALPHA),
		"ColorMaski(0, true, true, true, true)",
		fmt.Sprintf("Disablei(%d, 1)", backend.BLEND),
		"ColorMaski(1, true, false, false, false)",
	}
	if !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestCreateComputePipelineRejectsGraphicsProgram(t *testing.T) {
	f := newFixture(t)
	_, err := f.dev.CreateComputePipeline(ComputePipelineDescriptor{Layout: f.layout, Program: f.prog})
	if !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("CreateComputePipeline() error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestCreateShaderProgramInvalid(t *testing.T) {
	f := newFixture(t)
	vs, _ := f.dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{
		Source: gputypes.ShaderSourceGLSL{Code: testVertexGLSL, Stage: gputypes.ShaderStageVertex},
	})
	cs, _ := f.dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{
		Source: gputypes.ShaderSourceGLSL{Code: testComputeGLSL, Stage: gputypes.ShaderStageCompute},
	})

	tests := []struct {
		name   string
		stages []ProgramStage
	}{
		{"no stages", nil},
		{"duplicate stage", []ProgramStage{{Module: vs}, {Module: vs}}},
		{"compute with vertex", []ProgramStage{{Module: vs}, {Module: cs}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.dev.CreateShaderProgram(ShaderProgramDescriptor{Layout: f.layout, Stages: tt.stages})
			if !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("CreateShaderProgram() error = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestCreateShaderModuleInvalid(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		source gputypes.ShaderSource
	}{
		{"empty GLSL", gputypes.ShaderSourceGLSL{Code: "  ", Stage: gputypes.ShaderStageVertex}},
		{"GLSL without stage", gputypes.ShaderSourceGLSL{Code: testVertexGLSL}},
		{"SPIR-V", gputypes.ShaderSourceSPIRV{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{Label: tt.name, Source: tt.source})
			if !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("CreateShaderModule() error = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestShaderProgramCompileError(t *testing.T) {
	f := newFixture(t)
	f.trace.FailCompile(fmt.Errorf("%w: 0:1: syntax error", backend.ErrCompile))
	m, _ := f.dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{
		Source: gputypes.ShaderSourceGLSL{Code: testVertexGLSL, Stage: gputypes.ShaderStageVertex},
	})
	_, err := f.dev.CreateShaderProgram(ShaderProgramDescriptor{Layout: f.layout, Stages: []ProgramStage{{Module: m}}})
	if !errors.Is(err, backend.ErrCompile) {
		t.Fatalf("CreateShaderProgram() error = %v, want backend.ErrCompile", err)
	}
}

func TestInjectDefines(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		defines map[string]string
		want    string
	}{
		{"none", "void main() {}\n", nil, "void main() {}\n"},
		{"after version", "#version 430 core\nvoid main() {}\n", map[string]string{"B": "2", "A": "1"},
			"#version 430 core\n#define A 1\n#define B 2\nvoid main() {}\n"},
		{"no version", "void main() {}\n", map[string]string{"X": ""}, "#define X \nvoid main() {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := injectDefines(tt.source, tt.defines); got != tt.want {
				t.Errorf("injectDefines() = %q, want %q", got, tt.want)
			}
		})
	}
}

const testWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(f32(idx), 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestShaderTranslationCache(t *testing.T) {
	f := newFixture(t)
	m, err := f.dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{
		Label:  "wgsl",
		Source: gputypes.ShaderSourceWGSL{Code: testWGSL},
	})
	if err != nil {
		t.Fatalf("CreateShaderModule() error = %v", err)
	}
	desc := ShaderProgramDescriptor{
		Layout: f.layout,
		Stages: []ProgramStage{{Module: m, EntryPoint: "vs_main"}, {Module: m, EntryPoint: "fs_main"}},
	}
	for range 2 {
		if _, err := f.dev.CreateShaderProgram(desc); err != nil {
			t.Fatalf("CreateShaderProgram() error = %v", err)
		}
	}

	want := ShaderCacheStats{Entries: 2, Hits: 2, Misses: 2}
	if got := f.dev.ShaderCacheStats(); got != want {
		t.Errorf("ShaderCacheStats() = %+v, want %+v", got, want)
	}

	f.dev.DestroyShaderModule(m)
	if got := f.dev.ShaderCacheStats().Entries; got != 0 {
		t.Errorf("ShaderCacheStats().Entries after destroy = %d, want 0", got)
	}
}

func TestShaderTranslationKeys(t *testing.T) {
	a := slotsKey(map[glslKey]uint8{{Group: 1, Binding: 0}: 2, {Group: 0, Binding: 3}: 1})
	if want := "0.3=1;1.0=2;"; a != want {
		t.Errorf("slotsKey() = %q, want %q", a, want)
	}
	c := constantsKey(map[string]float64{"scale": 0.5, "count": 3})
	if want := "count=3;scale=0.5;"; c != want {
		t.Errorf("constantsKey() = %q, want %q", c, want)
	}
}
