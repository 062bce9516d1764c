// Package shader translates WGSL modules to GLSL 4.30 core with naga.
//
// OpenGL does not understand WGSL. A Module is parsed, lowered and validated
// once; each entry point is translated to GLSL on demand with resource
// bindings flattened through a caller-supplied binding map.
package shader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
)

// ErrEntryPoint is returned when a requested entry point does not exist.
var ErrEntryPoint = errors.New("shader: entry point not found")

// EntryPoint names a shader entry point and its stage.
type EntryPoint struct {
	Name  string
	Stage gputypes.ShaderStage
}

// Binding is a resource declared with @group/@binding.
type Binding struct {
	Name    string
	Group   uint32
	Binding uint32
}

// SamplerPair associates a sampler binding with the texture it is combined
// with in generated GLSL. The sampler object must be bound to the texture's
// unit.
type SamplerPair struct {
	Texture Binding
	Sampler Binding
}

// Module is a validated WGSL module.
type Module struct {
	source string
	module *ir.Module
}

// Parse parses, lowers and validates WGSL source.
func Parse(source string) (*Module, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("shader: empty WGSL source")
	}
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("shader: WGSL parse error: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("shader: WGSL lower error: %w", err)
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("shader: validation: %w", err)
	}
	if len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i := range problems {
			msgs[i] = problems[i].Error()
		}
		return nil, fmt.Errorf("shader: invalid module: %s", strings.Join(msgs, "; "))
	}
	return &Module{source: source, module: module}, nil
}

// Source returns the WGSL text the module was parsed from.
func (m *Module) Source() string { return m.source }

// EntryPoints lists the module's entry points in declaration order.
func (m *Module) EntryPoints() []EntryPoint {
	out := make([]EntryPoint, 0, len(m.module.EntryPoints))
	for _, ep := range m.module.EntryPoints {
		out = append(out, EntryPoint{Name: ep.Name, Stage: stageOf(ep.Stage)})
	}
	return out
}

// EntryPoint looks up an entry point by name.
func (m *Module) EntryPoint(name string) (EntryPoint, error) {
	for _, ep := range m.module.EntryPoints {
		if ep.Name == name {
			return EntryPoint{Name: ep.Name, Stage: stageOf(ep.Stage)}, nil
		}
	}
	return EntryPoint{}, fmt.Errorf("%w: %q", ErrEntryPoint, name)
}

// Bindings lists the bound resources sorted by (group, binding).
func (m *Module) Bindings() []Binding {
	var out []Binding
	for _, gv := range m.module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		out = append(out, Binding{Name: gv.Name, Group: gv.Binding.Group, Binding: gv.Binding.Binding})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Binding < out[j].Binding
	})
	return out
}

// Output is the translation of one entry point.
type Output struct {
	Source   string
	Samplers []SamplerPair
}

// GLSL translates the named entry point. slots maps (group, binding) to the
// flat GL binding index; a nil map keeps naga's default numbering.
// constants overrides pipeline-overridable constants by name or "@id(N)".
func (m *Module) GLSL(entryPoint string, slots map[glsl.BindingMapKey]uint8, constants map[string]float64) (Output, error) {
	if _, err := m.EntryPoint(entryPoint); err != nil {
		return Output{}, err
	}
	src, info, err := glsl.Compile(m.module, glsl.Options{
		LangVersion:        glsl.Version430,
		EntryPoint:         entryPoint,
		ForceHighPrecision: true,
		BindingMap:         slots,
		PipelineConstants:  constants,
		WriterFlags:        glsl.WriterFlagAdjustCoordinateSpace,
	})
	if err != nil {
		return Output{}, fmt.Errorf("shader: GLSL compile error for entry point %q: %w", entryPoint, err)
	}

	out := Output{Source: src}
	names := make([]string, 0, len(info.TextureMappings))
	for name := range info.TextureMappings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tm := info.TextureMappings[name]
		if tm.SamplerBinding == nil {
			continue
		}
		out.Samplers = append(out.Samplers, SamplerPair{
			Texture: Binding{Group: tm.TextureBinding.Group, Binding: tm.TextureBinding.Binding},
			Sampler: Binding{Group: tm.SamplerBinding.Group, Binding: tm.SamplerBinding.Binding},
		})
	}
	return out, nil
}

func stageOf(s ir.ShaderStage) gputypes.ShaderStage {
	switch s {
	case ir.StageVertex:
		return gputypes.ShaderStageVertex
	case ir.StageFragment:
		return gputypes.ShaderStageFragment
	case ir.StageCompute:
		return gputypes.ShaderStageCompute
	default:
		return gputypes.ShaderStageNone
	}
}
