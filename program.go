package glvk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/arena"
	"github.com/gogpu/glvk/internal/shader"
)

type shaderModule struct {
	label string
	wgsl  *shader.Module

	// GLSL modules are passed through.
	glsl    string
	stage   gputypes.ShaderStage
	defines map[string]string
}

// CreateShaderModule creates a shader module from WGSL or GLSL source.
// WGSL is parsed and validated here; errors carry source positions.
func (d *Device) CreateShaderModule(desc gputypes.ShaderModuleDescriptor) (ShaderModule, error) {
	m := &shaderModule{label: desc.Label}
	switch src := desc.Source.(type) {
	case gputypes.ShaderSourceWGSL:
		mod, err := shader.Parse(src.Code)
		if err != nil {
			return ShaderModule{}, fmt.Errorf("glvk: create shader module %q: %w", desc.Label, err)
		}
		m.wgsl = mod
	case *gputypes.ShaderSourceWGSL:
		mod, err := shader.Parse(src.Code)
		if err != nil {
			return ShaderModule{}, fmt.Errorf("glvk: create shader module %q: %w", desc.Label, err)
		}
		m.wgsl = mod
	case gputypes.ShaderSourceGLSL:
		if strings.TrimSpace(src.Code) == "" {
			return ShaderModule{}, fmt.Errorf("glvk: create shader module %q: %w: empty GLSL source", desc.Label, ErrInvalidDescriptor)
		}
		switch src.Stage {
		case gputypes.ShaderStageVertex, gputypes.ShaderStageFragment, gputypes.ShaderStageCompute:
		default:
			return ShaderModule{}, fmt.Errorf("glvk: create shader module %q: %w: GLSL stage %v", desc.Label, ErrInvalidDescriptor, src.Stage)
		}
		m.glsl, m.stage, m.defines = src.Code, src.Stage, src.Defines
	default:
		return ShaderModule{}, fmt.Errorf("glvk: create shader module %q: %w: source type %T", desc.Label, ErrInvalidDescriptor, desc.Source)
	}
	return ShaderModule{d.modules.Insert(m)}, nil
}

// DestroyShaderModule releases a shader module. Programs linked from it
// are unaffected.
func (d *Device) DestroyShaderModule(m ShaderModule) {
	if _, ok := d.modules.Remove(m.h); ok {
		d.translations.DeleteFunc(func(k translationKey) bool { return k.module == m.h })
	}
}

// ProgramStage selects one entry point of a module.
type ProgramStage struct {
	Module ShaderModule
	// EntryPoint is required for WGSL modules and ignored for GLSL.
	EntryPoint string
	// Constants overrides WGSL pipeline-overridable constants.
	Constants map[string]float64
}

// ShaderProgramDescriptor describes a program. Layout determines the
// backend binding index of every (group, binding) the shaders declare.
type ShaderProgramDescriptor struct {
	Label  string
	Layout PipelineLayout
	Stages []ProgramStage
}

type program struct {
	id     uint32
	stages gputypes.ShaderStages
	// samplers pairs sampler bindings with the texture they sample, as
	// backend binding indices: sampler objects go to the texture's unit.
	samplers []shader.SamplerPair
}

// CreateShaderProgram translates, compiles and links a program.
func (d *Device) CreateShaderProgram(desc ShaderProgramDescriptor) (ShaderProgram, error) {
	layout, err := lookup(d.pipelineLayouts, desc.Layout.h, "pipeline layout")
	if err != nil {
		return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: %w", desc.Label, err)
	}
	if len(desc.Stages) == 0 {
		return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: %w: no stages", desc.Label, ErrInvalidDescriptor)
	}

	p := &program{}
	slots := layout.bindingMap()
	shaders := make([]uint32, 0, len(desc.Stages))
	defer func() {
		for _, id := range shaders {
			d.ctx.DeleteShader(id)
		}
	}()

	for i, st := range desc.Stages {
		mod, err := lookup(d.modules, st.Module.h, "shader module")
		if err != nil {
			return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: stage %d: %w", desc.Label, i, err)
		}
		tr, err := d.translate(st.Module.h, mod, st, slots)
		if err != nil {
			return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: stage %d: %w", desc.Label, i, err)
		}
		stage := tr.stage
		if p.stages&stage != 0 {
			return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: %w: duplicate %v stage", desc.Label, ErrInvalidDescriptor, stage)
		}
		p.stages |= stage
		p.samplers = append(p.samplers, tr.pairs...)

		id, err := d.ctx.CreateShader(glStage(stage), tr.source)
		if err != nil {
			return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: %v stage: %w", desc.Label, stage, err)
		}
		shaders = append(shaders, id)
	}
	if p.stages&gputypes.ShaderStageCompute != 0 && p.stages != gputypes.ShaderStageCompute {
		return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: %w: compute mixed with graphics stages", desc.Label, ErrInvalidDescriptor)
	}

	id, err := d.ctx.CreateProgram(shaders...)
	if err != nil {
		return ShaderProgram{}, fmt.Errorf("glvk: create shader program %q: %w", desc.Label, err)
	}
	p.id = id
	p.samplers = dedupPairs(p.samplers)
	d.logger().Debug("glvk: program linked", "label", desc.Label, "id", id, "stages", p.stages.String())
	return ShaderProgram{d.programs.Insert(p)}, nil
}

// DestroyShaderProgram releases a program.
func (d *Device) DestroyShaderProgram(p ShaderProgram) {
	if prog, ok := d.programs.Remove(p.h); ok {
		d.ctx.DeleteProgram(prog.id)
	}
}

// translationKey identifies one WGSL entry point translated against one
// binding map with one set of constant overrides.
type translationKey struct {
	module    arena.Handle
	entry     string
	slots     string
	constants string
}

type translation struct {
	source string
	stage  gputypes.ShaderStage
	pairs  []shader.SamplerPair
}

// ShaderCacheStats reports the state of the device's WGSL translation cache.
type ShaderCacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// ShaderCacheStats returns translation cache statistics.
func (d *Device) ShaderCacheStats() ShaderCacheStats {
	s := d.translations.Stats()
	return ShaderCacheStats{Entries: s.Len, Hits: s.Hits, Misses: s.Misses}
}

// translate returns the GLSL source of one program stage. WGSL
// translations are cached per module, entry point, binding map and
// constants; GLSL sources only get their defines injected.
func (d *Device) translate(h arena.Handle, m *shaderModule, st ProgramStage, slots map[glslKey]uint8) (translation, error) {
	if m.wgsl == nil {
		return translation{source: injectDefines(m.glsl, m.defines), stage: m.stage}, nil
	}
	key := translationKey{
		module:    h,
		entry:     st.EntryPoint,
		slots:     slotsKey(slots),
		constants: constantsKey(st.Constants),
	}
	return d.translations.GetOrCreate(key, func() (translation, error) {
		return m.translateWGSL(st, slots)
	})
}

func (m *shaderModule) translateWGSL(st ProgramStage, slots map[glslKey]uint8) (translation, error) {
	ep, err := m.wgsl.EntryPoint(st.EntryPoint)
	if err != nil {
		return translation{}, err
	}
	out, err := m.wgsl.GLSL(st.EntryPoint, slots, st.Constants)
	if err != nil {
		return translation{}, err
	}
	pairs := make([]shader.SamplerPair, 0, len(out.Samplers))
	for _, sp := range out.Samplers {
		tex, ok1 := slots[glslKey{Group: sp.Texture.Group, Binding: sp.Texture.Binding}]
		smp, ok2 := slots[glslKey{Group: sp.Sampler.Group, Binding: sp.Sampler.Binding}]
		if !ok1 || !ok2 {
			continue
		}
		pairs = append(pairs, shader.SamplerPair{
			Texture: shader.Binding{Group: sp.Texture.Group, Binding: uint32(tex)},
			Sampler: shader.Binding{Group: sp.Sampler.Group, Binding: uint32(smp)},
		})
	}
	return translation{source: out.Source, stage: ep.Stage, pairs: pairs}, nil
}

// slotsKey renders a binding map in a canonical order.
func slotsKey(slots map[glslKey]uint8) string {
	keys := make([]glslKey, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Group != keys[j].Group {
			return keys[i].Group < keys[j].Group
		}
		return keys[i].Binding < keys[j].Binding
	})
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%d.%d=%d;", k.Group, k.Binding, slots[k])
	}
	return b.String()
}

func constantsKey(constants map[string]float64) string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(constants[name], 'g', -1, 64))
		b.WriteByte(';')
	}
	return b.String()
}

// textureUnitsFor returns the texture units the sampler bound at sampler
// slot samplerSlot must be attached to.
func (p *program) textureUnitsFor(samplerSlot uint32) []uint32 {
	var units []uint32
	for _, sp := range p.samplers {
		if sp.Sampler.Binding == samplerSlot {
			units = append(units, sp.Texture.Binding)
		}
	}
	return units
}

func dedupPairs(pairs []shader.SamplerPair) []shader.SamplerPair {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Sampler.Binding != pairs[j].Sampler.Binding {
			return pairs[i].Sampler.Binding < pairs[j].Sampler.Binding
		}
		return pairs[i].Texture.Binding < pairs[j].Texture.Binding
	})
	var out []shader.SamplerPair
	for _, sp := range pairs {
		if n := len(out); n > 0 && out[n-1].Sampler.Binding == sp.Sampler.Binding && out[n-1].Texture.Binding == sp.Texture.Binding {
			continue
		}
		out = append(out, sp)
	}
	return out
}

// injectDefines inserts #define lines after the #version directive.
func injectDefines(source string, defines map[string]string) string {
	if len(defines) == 0 {
		return source
	}
	names := make([]string, 0, len(defines))
	for k := range defines {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, k := range names {
		fmt.Fprintf(&b, "#define %s %s\n", k, defines[k])
	}
	if strings.HasPrefix(source, "#version") {
		if nl := strings.IndexByte(source, '\n'); nl >= 0 {
			return source[:nl+1] + b.String() + source[nl+1:]
		}
	}
	return b.String() + source
}

func glStage(s gputypes.ShaderStage) uint32 {
	switch s {
	case gputypes.ShaderStageFragment:
		return backend.FRAGMENT_SHADER
	case gputypes.ShaderStageCompute:
		return backend.COMPUTE_SHADER
	default:
		return backend.VERTEX_SHADER
	}
}
