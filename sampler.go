package glvk

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/convert"
)

type sampler struct {
	id uint32
}

// CreateSampler creates a sampler object.
func (d *Device) CreateSampler(desc gputypes.SamplerDescriptor) (Sampler, error) {
	id := d.ctx.CreateSampler()
	d.ctx.SamplerParameteri(id, backend.TEXTURE_MIN_FILTER, convert.MinFilter(desc.MinFilter, desc.MipmapFilter))
	d.ctx.SamplerParameteri(id, backend.TEXTURE_MAG_FILTER, convert.MagFilter(desc.MagFilter))
	d.ctx.SamplerParameteri(id, backend.TEXTURE_WRAP_S, convert.AddressMode(desc.AddressModeU))
	d.ctx.SamplerParameteri(id, backend.TEXTURE_WRAP_T, convert.AddressMode(desc.AddressModeV))
	d.ctx.SamplerParameteri(id, backend.TEXTURE_WRAP_R, convert.AddressMode(desc.AddressModeW))
	d.ctx.SamplerParameterf(id, backend.TEXTURE_MIN_LOD, desc.LodMinClamp)
	if desc.LodMaxClamp > 0 {
		d.ctx.SamplerParameterf(id, backend.TEXTURE_MAX_LOD, desc.LodMaxClamp)
	}
	if desc.MaxAnisotropy > 1 {
		d.ctx.SamplerParameterf(id, backend.TEXTURE_MAX_ANISOTROPY, float32(desc.MaxAnisotropy))
	}
	if desc.Compare != gputypes.CompareFunctionUndefined {
		d.ctx.SamplerParameteri(id, backend.TEXTURE_COMPARE_MODE, backend.COMPARE_REF_TO_TEXTURE)
		d.ctx.SamplerParameteri(id, backend.TEXTURE_COMPARE_FUNC, int32(convert.CompareFunc(desc.Compare))) // #nosec G115
	}
	if err := checkBackend(d.ctx, "create sampler"); err != nil {
		d.ctx.DeleteSampler(id)
		return Sampler{}, err
	}
	return Sampler{d.samplers.Insert(&sampler{id: id})}, nil
}

// DestroySampler releases a sampler.
func (d *Device) DestroySampler(s Sampler) {
	if smp, ok := d.samplers.Remove(s.h); ok {
		d.ctx.DeleteSampler(smp.id)
	}
}
