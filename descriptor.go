package glvk

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/glvk/internal/arena"
)

// CombinedTextureSamplerBinding binds a texture view and a sampler to one
// texture unit.
type CombinedTextureSamplerBinding struct {
	Layout  DescriptorSetLayoutBinding
	Element uint32
	View    TextureView
	Sampler Sampler
}

// SamplerBinding binds a sampler alone. It is attached to the texture unit
// of the texture the shader samples with it.
type SamplerBinding struct {
	Layout  DescriptorSetLayoutBinding
	Element uint32
	Sampler Sampler
}

// SampledTextureBinding binds a texture view for sampling.
type SampledTextureBinding struct {
	Layout      DescriptorSetLayoutBinding
	Element     uint32
	View        TextureView
	ImageLayout ImageLayout
}

// StorageTextureBinding binds a texture view as a read/write image.
type StorageTextureBinding struct {
	Layout  DescriptorSetLayoutBinding
	Element uint32
	View    TextureView
}

// UniformBufferBinding binds a range of a buffer as a uniform block.
type UniformBufferBinding struct {
	Layout  DescriptorSetLayoutBinding
	Element uint32
	Buffer  Buffer
	Offset  uint64
	Range   uint64
}

// StorageBufferBinding binds a range of a buffer as a storage block.
type StorageBufferBinding struct {
	Layout  DescriptorSetLayoutBinding
	Element uint32
	Buffer  Buffer
	Offset  uint64
	Range   uint64
}

// TexelBufferBinding binds a buffer view.
type TexelBufferBinding struct {
	Layout  DescriptorSetLayoutBinding
	Element uint32
	View    BufferView
}

// DescriptorSetContents is a snapshot of the seven binding sequences of a
// descriptor set, each ordered by binding number then array element.
type DescriptorSetContents struct {
	CombinedTextureSamplers []CombinedTextureSamplerBinding
	Samplers                []SamplerBinding
	SampledTextures         []SampledTextureBinding
	StorageTextures         []StorageTextureBinding
	UniformBuffers          []UniformBufferBinding
	StorageBuffers          []StorageBufferBinding
	TexelBuffers            []TexelBufferBinding
}

// DescriptorWrite updates one array element of one binding. Which fields
// are read depends on the binding's DescriptorType.
type DescriptorWrite struct {
	Binding      uint32
	ArrayElement uint32

	View        TextureView
	Sampler     Sampler
	ImageLayout ImageLayout

	BufferView BufferView

	// Uniform and storage buffer range. Range 0 extends to the end of the buffer.
	Buffer Buffer
	Offset uint64
	Range  uint64
}

type descriptorSet struct {
	mu     sync.RWMutex
	pool   arena.Handle
	layout *setLayout
	DescriptorSetContents
}

// DescriptorPoolDescriptor describes a descriptor pool.
type DescriptorPoolDescriptor struct {
	Label string
	// MaxSets is the number of sets that may be allocated at once.
	MaxSets uint32
	// FreeIndividualSets allows FreeDescriptorSets.
	FreeIndividualSets bool
}

type descriptorPool struct {
	mu       sync.Mutex
	maxSets  uint32
	freeable bool
	sets     map[arena.Handle]struct{}
}

// CreateDescriptorPool creates a descriptor pool.
func (d *Device) CreateDescriptorPool(desc DescriptorPoolDescriptor) (DescriptorPool, error) {
	if desc.MaxSets == 0 {
		return DescriptorPool{}, fmt.Errorf("glvk: create descriptor pool %q: %w: MaxSets is 0", desc.Label, ErrInvalidDescriptor)
	}
	p := &descriptorPool{
		maxSets:  desc.MaxSets,
		freeable: desc.FreeIndividualSets,
		sets:     make(map[arena.Handle]struct{}),
	}
	return DescriptorPool{d.descriptorPools.Insert(p)}, nil
}

// DestroyDescriptorPool releases a pool and every set allocated from it.
func (d *Device) DestroyDescriptorPool(p DescriptorPool) {
	pool, ok := d.descriptorPools.Remove(p.h)
	if !ok {
		return
	}
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for h := range pool.sets {
		d.descriptorSets.Remove(h)
	}
	pool.sets = nil
}

// ResetDescriptorPool frees every set allocated from a pool.
func (d *Device) ResetDescriptorPool(p DescriptorPool) error {
	pool, err := lookup(d.descriptorPools, p.h, "descriptor pool")
	if err != nil {
		return err
	}
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for h := range pool.sets {
		d.descriptorSets.Remove(h)
	}
	pool.sets = make(map[arena.Handle]struct{})
	return nil
}

// AllocateDescriptorSets allocates one empty set per layout.
// Either all sets are allocated or none is.
func (d *Device) AllocateDescriptorSets(p DescriptorPool, layouts ...DescriptorSetLayout) ([]DescriptorSet, error) {
	pool, err := lookup(d.descriptorPools, p.h, "descriptor pool")
	if err != nil {
		return nil, fmt.Errorf("glvk: allocate descriptor sets: %w", err)
	}
	resolved := make([]*setLayout, len(layouts))
	for i, l := range layouts {
		sl, err := lookup(d.setLayouts, l.h, "descriptor set layout")
		if err != nil {
			return nil, fmt.Errorf("glvk: allocate descriptor sets: layout %d: %w", i, err)
		}
		resolved[i] = sl
	}

	pool.mu.Lock()
	defer pool.mu.Unlock()
	if uint64(len(pool.sets))+uint64(len(layouts)) > uint64(pool.maxSets) {
		return nil, fmt.Errorf("glvk: allocate descriptor sets: %w: %d of %d in use",
			ErrPoolExhausted, len(pool.sets), pool.maxSets)
	}
	out := make([]DescriptorSet, len(resolved))
	for i, sl := range resolved {
		h := d.descriptorSets.Insert(&descriptorSet{pool: p.h, layout: sl})
		pool.sets[h] = struct{}{}
		out[i] = DescriptorSet{h}
	}
	return out, nil
}

// FreeDescriptorSets returns sets to a pool created with FreeIndividualSets.
func (d *Device) FreeDescriptorSets(p DescriptorPool, sets ...DescriptorSet) error {
	pool, err := lookup(d.descriptorPools, p.h, "descriptor pool")
	if err != nil {
		return err
	}
	if !pool.freeable {
		return fmt.Errorf("glvk: free descriptor sets: %w: pool does not free individual sets", ErrInvalidArgument)
	}
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for _, s := range sets {
		if _, ok := pool.sets[s.h]; !ok {
			continue
		}
		delete(pool.sets, s.h)
		d.descriptorSets.Remove(s.h)
	}
	return nil
}

// UpdateDescriptorSet writes bindings into a set. A write to a binding
// element that is already bound replaces it.
//
// Updating a set that a pending submission reads from changes what that
// submission binds.
func (d *Device) UpdateDescriptorSet(s DescriptorSet, writes ...DescriptorWrite) error {
	set, err := lookup(d.descriptorSets, s.h, "descriptor set")
	if err != nil {
		return fmt.Errorf("glvk: update descriptor set: %w", err)
	}
	for i, w := range writes {
		if err := d.validateWrite(set.layout, w); err != nil {
			return fmt.Errorf("glvk: update descriptor set: write %d: %w", i, err)
		}
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	c := &set.DescriptorSetContents
	for _, w := range writes {
		lb, _ := set.layout.binding(w.Binding)
		switch lb.Type {
		case DescriptorTypeCombinedImageSampler:
			c.CombinedTextureSamplers = upsert(c.CombinedTextureSamplers, CombinedTextureSamplerBinding{
				Layout: lb, Element: w.ArrayElement, View: w.View, Sampler: w.Sampler,
			}, func(b CombinedTextureSamplerBinding) (uint32, uint32) { return b.Layout.Binding, b.Element })
		case DescriptorTypeSampler:
			c.Samplers = upsert(c.Samplers, SamplerBinding{
				Layout: lb, Element: w.ArrayElement, Sampler: w.Sampler,
			}, func(b SamplerBinding) (uint32, uint32) { return b.Layout.Binding, b.Element })
		case DescriptorTypeSampledImage:
			c.SampledTextures = upsert(c.SampledTextures, SampledTextureBinding{
				Layout: lb, Element: w.ArrayElement, View: w.View, ImageLayout: w.ImageLayout,
			}, func(b SampledTextureBinding) (uint32, uint32) { return b.Layout.Binding, b.Element })
		case DescriptorTypeStorageImage:
			c.StorageTextures = upsert(c.StorageTextures, StorageTextureBinding{
				Layout: lb, Element: w.ArrayElement, View: w.View,
			}, func(b StorageTextureBinding) (uint32, uint32) { return b.Layout.Binding, b.Element })
		case DescriptorTypeUniformBuffer, DescriptorTypeUniformBufferDynamic:
			c.UniformBuffers = upsert(c.UniformBuffers, UniformBufferBinding{
				Layout: lb, Element: w.ArrayElement, Buffer: w.Buffer, Offset: w.Offset, Range: w.Range,
			}, func(b UniformBufferBinding) (uint32, uint32) { return b.Layout.Binding, b.Element })
		case DescriptorTypeStorageBuffer, DescriptorTypeStorageBufferDynamic:
			c.StorageBuffers = upsert(c.StorageBuffers, StorageBufferBinding{
				Layout: lb, Element: w.ArrayElement, Buffer: w.Buffer, Offset: w.Offset, Range: w.Range,
			}, func(b StorageBufferBinding) (uint32, uint32) { return b.Layout.Binding, b.Element })
		case DescriptorTypeUniformTexelBuffer, DescriptorTypeStorageTexelBuffer:
			c.TexelBuffers = upsert(c.TexelBuffers, TexelBufferBinding{
				Layout: lb, Element: w.ArrayElement, View: w.BufferView,
			}, func(b TexelBufferBinding) (uint32, uint32) { return b.Layout.Binding, b.Element })
		}
	}
	return nil
}

func (d *Device) validateWrite(l *setLayout, w DescriptorWrite) error {
	lb, ok := l.binding(w.Binding)
	if !ok {
		return fmt.Errorf("%w: binding %d not in layout", ErrInvalidArgument, w.Binding)
	}
	if w.ArrayElement >= lb.count() {
		return fmt.Errorf("%w: element %d of binding %d (count %d)", ErrInvalidArgument, w.ArrayElement, w.Binding, lb.count())
	}
	var texView, smp, buf, bufView bool
	switch lb.Type {
	case DescriptorTypeCombinedImageSampler:
		texView, smp = true, true
	case DescriptorTypeSampler:
		smp = true
	case DescriptorTypeSampledImage, DescriptorTypeStorageImage:
		texView = true
	case DescriptorTypeUniformTexelBuffer, DescriptorTypeStorageTexelBuffer:
		bufView = true
	default:
		buf = true
	}
	if texView && !d.textureViews.Contains(w.View.h) {
		return destroyed("texture view")
	}
	if smp && !d.samplers.Contains(w.Sampler.h) {
		return destroyed("sampler")
	}
	if bufView && !d.bufferViews.Contains(w.BufferView.h) {
		return destroyed("buffer view")
	}
	if buf && !d.buffers.Contains(w.Buffer.h) {
		return destroyed("buffer")
	}
	return nil
}

// upsert replaces the entry with the same (binding, element) key or inserts
// v keeping the slice ordered by key.
func upsert[T any](s []T, v T, key func(T) (uint32, uint32)) []T {
	kb, ke := key(v)
	i := sort.Search(len(s), func(i int) bool {
		b, e := key(s[i])
		return b > kb || (b == kb && e >= ke)
	})
	if i < len(s) {
		if b, e := key(s[i]); b == kb && e == ke {
			s[i] = v
			return s
		}
	}
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// DescriptorSetContents returns a snapshot of a set's bindings.
func (d *Device) DescriptorSetContents(s DescriptorSet) (DescriptorSetContents, error) {
	set, err := lookup(d.descriptorSets, s.h, "descriptor set")
	if err != nil {
		return DescriptorSetContents{}, err
	}
	set.mu.RLock()
	defer set.mu.RUnlock()
	c := set.DescriptorSetContents
	return DescriptorSetContents{
		CombinedTextureSamplers: append([]CombinedTextureSamplerBinding(nil), c.CombinedTextureSamplers...),
		Samplers:                append([]SamplerBinding(nil), c.Samplers...),
		SampledTextures:         append([]SampledTextureBinding(nil), c.SampledTextures...),
		StorageTextures:         append([]StorageTextureBinding(nil), c.StorageTextures...),
		UniformBuffers:          append([]UniformBufferBinding(nil), c.UniformBuffers...),
		StorageBuffers:          append([]StorageBufferBinding(nil), c.StorageBuffers...),
		TexelBuffers:            append([]TexelBufferBinding(nil), c.TexelBuffers...),
	}, nil
}
