package glvk

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/glsl"
)

type glslKey = glsl.BindingMapKey

// DescriptorType is the kind of resource a descriptor binding holds.
type DescriptorType uint8

const (
	DescriptorTypeSampler DescriptorType = iota
	DescriptorTypeCombinedImageSampler
	DescriptorTypeSampledImage
	DescriptorTypeStorageImage
	DescriptorTypeUniformTexelBuffer
	DescriptorTypeStorageTexelBuffer
	DescriptorTypeUniformBuffer
	DescriptorTypeStorageBuffer
	DescriptorTypeUniformBufferDynamic
	DescriptorTypeStorageBufferDynamic
)

var descriptorTypeNames = [...]string{
	DescriptorTypeSampler:              "Sampler",
	DescriptorTypeCombinedImageSampler: "CombinedImageSampler",
	DescriptorTypeSampledImage:         "SampledImage",
	DescriptorTypeStorageImage:         "StorageImage",
	DescriptorTypeUniformTexelBuffer:   "UniformTexelBuffer",
	DescriptorTypeStorageTexelBuffer:   "StorageTexelBuffer",
	DescriptorTypeUniformBuffer:        "UniformBuffer",
	DescriptorTypeStorageBuffer:        "StorageBuffer",
	DescriptorTypeUniformBufferDynamic: "UniformBufferDynamic",
	DescriptorTypeStorageBufferDynamic: "StorageBufferDynamic",
}

// String returns the descriptor type name.
func (t DescriptorType) String() string {
	if int(t) < len(descriptorTypeNames) {
		return descriptorTypeNames[t]
	}
	return fmt.Sprintf("DescriptorType(%d)", uint8(t))
}

// IsDynamic reports whether bindings of this type take a dynamic offset.
func (t DescriptorType) IsDynamic() bool {
	return t == DescriptorTypeUniformBufferDynamic || t == DescriptorTypeStorageBufferDynamic
}

// bindingClass is the backend binding namespace a descriptor type lives in.
type bindingClass uint8

const (
	classSampler bindingClass = iota
	classTexture
	classImage
	classUniformBuffer
	classStorageBuffer
	numBindingClasses
)

func (t DescriptorType) class() bindingClass {
	switch t {
	case DescriptorTypeSampler:
		return classSampler
	case DescriptorTypeCombinedImageSampler, DescriptorTypeSampledImage, DescriptorTypeUniformTexelBuffer:
		return classTexture
	case DescriptorTypeStorageImage, DescriptorTypeStorageTexelBuffer:
		return classImage
	case DescriptorTypeUniformBuffer, DescriptorTypeUniformBufferDynamic:
		return classUniformBuffer
	default:
		return classStorageBuffer
	}
}

// DescriptorSetLayoutBinding declares one binding of a descriptor set.
type DescriptorSetLayoutBinding struct {
	Binding uint32
	Type    DescriptorType
	// Count is the array size of the binding; 0 means 1.
	Count  uint32
	Stages gputypes.ShaderStages
}

func (b DescriptorSetLayoutBinding) count() uint32 {
	return max(b.Count, 1)
}

// DescriptorSetLayoutDescriptor describes a descriptor set layout.
type DescriptorSetLayoutDescriptor struct {
	Label    string
	Bindings []DescriptorSetLayoutBinding
}

type setLayout struct {
	bindings  []DescriptorSetLayoutBinding // sorted by binding number
	byBinding map[uint32]int
}

func (l *setLayout) binding(n uint32) (DescriptorSetLayoutBinding, bool) {
	i, ok := l.byBinding[n]
	if !ok {
		return DescriptorSetLayoutBinding{}, false
	}
	return l.bindings[i], true
}

// CreateDescriptorSetLayout creates a descriptor set layout.
func (d *Device) CreateDescriptorSetLayout(desc DescriptorSetLayoutDescriptor) (DescriptorSetLayout, error) {
	l := &setLayout{
		bindings:  append([]DescriptorSetLayoutBinding(nil), desc.Bindings...),
		byBinding: make(map[uint32]int, len(desc.Bindings)),
	}
	sort.Slice(l.bindings, func(i, j int) bool { return l.bindings[i].Binding < l.bindings[j].Binding })
	for i, b := range l.bindings {
		if _, dup := l.byBinding[b.Binding]; dup {
			return DescriptorSetLayout{}, fmt.Errorf("glvk: create descriptor set layout %q: %w: duplicate binding %d",
				desc.Label, ErrInvalidDescriptor, b.Binding)
		}
		if int(b.Type) >= len(descriptorTypeNames) {
			return DescriptorSetLayout{}, fmt.Errorf("glvk: create descriptor set layout %q: %w: binding %d has %v",
				desc.Label, ErrInvalidDescriptor, b.Binding, b.Type)
		}
		l.byBinding[b.Binding] = i
	}
	return DescriptorSetLayout{d.setLayouts.Insert(l)}, nil
}

// DestroyDescriptorSetLayout releases a descriptor set layout. Pipeline
// layouts and descriptor sets created from it stay usable.
func (d *Device) DestroyDescriptorSetLayout(l DescriptorSetLayout) {
	d.setLayouts.Remove(l.h)
}

// PipelineLayoutDescriptor describes a pipeline layout.
type PipelineLayoutDescriptor struct {
	Label              string
	SetLayouts         []DescriptorSetLayout
	PushConstantRanges []gputypes.PushConstantRange
}

type pipelineLayout struct {
	sets   []*setLayout
	ranges []gputypes.PushConstantRange
	// slots maps (set, binding) to the first backend binding index of the
	// binding's class; array elements occupy consecutive indices.
	slots map[glsl.BindingMapKey]uint32
	// dynamic counts the dynamic offsets each set consumes: one per array
	// element of every dynamic binding.
	dynamic []int
}

// slot returns the backend binding index of element of (set, binding).
func (l *pipelineLayout) slot(set, binding, element uint32) (uint32, bool) {
	base, ok := l.slots[glsl.BindingMapKey{Group: set, Binding: binding}]
	if !ok {
		return 0, false
	}
	return base + element, true
}

// bindingMap returns the (group, binding) to slot table handed to the
// shader translator.
func (l *pipelineLayout) bindingMap() map[glsl.BindingMapKey]uint8 {
	m := make(map[glsl.BindingMapKey]uint8, len(l.slots))
	for k, v := range l.slots {
		m[k] = uint8(v) // #nosec G115 -- slot counts are bounded by backend limits
	}
	return m
}

// CreatePipelineLayout creates a pipeline layout. Bindings are numbered per
// backend namespace (texture units, image units, uniform and storage buffer
// bindings) in set order, then binding order.
func (d *Device) CreatePipelineLayout(desc PipelineLayoutDescriptor) (PipelineLayout, error) {
	l := &pipelineLayout{
		sets:    make([]*setLayout, len(desc.SetLayouts)),
		ranges:  append([]gputypes.PushConstantRange(nil), desc.PushConstantRanges...),
		slots:   make(map[glsl.BindingMapKey]uint32),
		dynamic: make([]int, len(desc.SetLayouts)),
	}
	var next [numBindingClasses]uint32
	for i, h := range desc.SetLayouts {
		sl, err := lookup(d.setLayouts, h.h, "descriptor set layout")
		if err != nil {
			return PipelineLayout{}, fmt.Errorf("glvk: create pipeline layout %q: set %d: %w", desc.Label, i, err)
		}
		l.sets[i] = sl
		set := uint32(i) // #nosec G115
		for _, b := range sl.bindings {
			c := b.Type.class()
			l.slots[glsl.BindingMapKey{Group: set, Binding: b.Binding}] = next[c]
			next[c] += b.count()
			if b.Type.IsDynamic() {
				l.dynamic[i] += int(b.count())
			}
		}
	}
	for c, n := range next {
		if n > 255 {
			return PipelineLayout{}, fmt.Errorf("glvk: create pipeline layout %q: %w: %d bindings in class %d",
				desc.Label, ErrInvalidDescriptor, n, c)
		}
	}
	for _, r := range l.ranges {
		if r.End < r.Start || r.Start%4 != 0 || r.End%4 != 0 {
			return PipelineLayout{}, fmt.Errorf("glvk: create pipeline layout %q: %w: push constant range [%d, %d)",
				desc.Label, ErrInvalidDescriptor, r.Start, r.End)
		}
	}
	return PipelineLayout{d.pipelineLayouts.Insert(l)}, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *Device) DestroyPipelineLayout(l PipelineLayout) {
	d.pipelineLayouts.Remove(l.h)
}
