package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/glsl"
)

const triangleWGSL = `
struct Globals {
    tint: vec4<f32>,
}

@group(0) @binding(3) var<uniform> globals: Globals;

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    var pos = array<vec2<f32>, 3>(
        vec2<f32>(0.0, 0.5),
        vec2<f32>(-0.5, -0.5),
        vec2<f32>(0.5, -0.5),
    );
    return vec4<f32>(pos[idx], 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return globals.tint;
}
`

func TestParseEntryPoints(t *testing.T) {
	m, err := Parse(triangleWGSL)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	eps := m.EntryPoints()
	if len(eps) != 2 {
		t.Fatalf("EntryPoints() len = %d, want 2", len(eps))
	}
	vs, err := m.EntryPoint("vs_main")
	if err != nil {
		t.Fatalf("EntryPoint(vs_main) error = %v", err)
	}
	if vs.Stage != gputypes.ShaderStageVertex {
		t.Errorf("vs_main stage = %v, want vertex", vs.Stage)
	}
	fs, _ := m.EntryPoint("fs_main")
	if fs.Stage != gputypes.ShaderStageFragment {
		t.Errorf("fs_main stage = %v, want fragment", fs.Stage)
	}
	if _, err := m.EntryPoint("missing"); !errors.Is(err, ErrEntryPoint) {
		t.Errorf("EntryPoint(missing) error = %v, want ErrEntryPoint", err)
	}
}

func TestBindings(t *testing.T) {
	m, err := Parse(triangleWGSL)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b := m.Bindings()
	if len(b) != 1 {
		t.Fatalf("Bindings() len = %d, want 1", len(b))
	}
	if b[0].Group != 0 || b[0].Binding != 3 || b[0].Name != "globals" {
		t.Errorf("Bindings()[0] = %+v", b[0])
	}
}

func TestGLSL(t *testing.T) {
	m, err := Parse(triangleWGSL)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	out, err := m.GLSL("vs_main", nil, nil)
	if err != nil {
		t.Fatalf("GLSL(vs_main) error = %v", err)
	}
	if !strings.Contains(out.Source, "#version 430") {
		t.Errorf("vertex GLSL missing #version 430:\n%s", out.Source)
	}

	slots := map[glsl.BindingMapKey]uint8{{Group: 0, Binding: 3}: 3}
	out, err = m.GLSL("fs_main", slots, nil)
	if err != nil {
		t.Fatalf("GLSL(fs_main) error = %v", err)
	}
	if !strings.Contains(out.Source, "binding = 3") {
		t.Errorf("fragment GLSL missing flattened binding:\n%s", out.Source)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("   "); err == nil {
		t.Error("Parse(empty) should fail")
	}
	if _, err := Parse("fn broken( {"); err == nil {
		t.Error("Parse(invalid) should fail")
	}
}
