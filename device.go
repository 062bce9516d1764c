package glvk

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
	"github.com/gogpu/glvk/internal/arena"
	"github.com/gogpu/glvk/internal/cache"
)

// Device owns every object created through it and the backend context
// commands are applied to.
//
// Object creation and destruction are safe for concurrent use. Operations
// that talk to the backend (creation of backend objects, Submit, WaitIdle,
// WriteBuffer, ReadBuffer) must run on the goroutine that owns the context.
type Device struct {
	ctx   backend.Context
	opts  deviceOptions
	info  gpucontext.AdapterInfo
	queue *Queue

	buffers          *arena.Arena[*buffer]
	bufferViews      *arena.Arena[*bufferView]
	textures         *arena.Arena[*texture]
	textureViews     *arena.Arena[*textureView]
	samplers         *arena.Arena[*sampler]
	modules          *arena.Arena[*shaderModule]
	programs         *arena.Arena[*program]
	pipelineLayouts  *arena.Arena[*pipelineLayout]
	setLayouts       *arena.Arena[*setLayout]
	descriptorPools  *arena.Arena[*descriptorPool]
	descriptorSets   *arena.Arena[*descriptorSet]
	renderPasses     *arena.Arena[*renderPass]
	framebuffers     *arena.Arena[*framebuffer]
	pipelines        *arena.Arena[*pipeline]
	computePipelines *arena.Arena[*computePipeline]
	geometry         *arena.Arena[*geometryBuffers]
	queryPools       *arena.Arena[*queryPool]

	translations *cache.Cache[translationKey, translation]
}

// NewDevice creates a device on top of an existing backend context.
func NewDevice(ctx backend.Context, opts ...DeviceOption) (*Device, error) {
	if ctx == nil {
		return nil, fmt.Errorf("glvk: new device: %w", backend.ErrNotAvailable)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &Device{
		ctx:              ctx,
		opts:             o,
		buffers:          arena.New[*buffer](64),
		bufferViews:      arena.New[*bufferView](8),
		textures:         arena.New[*texture](64),
		textureViews:     arena.New[*textureView](64),
		samplers:         arena.New[*sampler](16),
		modules:          arena.New[*shaderModule](16),
		programs:         arena.New[*program](16),
		pipelineLayouts:  arena.New[*pipelineLayout](16),
		setLayouts:       arena.New[*setLayout](16),
		descriptorPools:  arena.New[*descriptorPool](8),
		descriptorSets:   arena.New[*descriptorSet](64),
		renderPasses:     arena.New[*renderPass](8),
		framebuffers:     arena.New[*framebuffer](8),
		pipelines:        arena.New[*pipeline](16),
		computePipelines: arena.New[*computePipeline](8),
		geometry:         arena.New[*geometryBuffers](16),
		queryPools:       arena.New[*queryPool](4),
		translations:     cache.New[translationKey, translation](o.shaderCacheSize),
	}
	d.queue = &Queue{device: d}
	d.info = adapterInfo(ctx.GetString(backend.VENDOR), ctx.GetString(backend.RENDERER))

	d.logger().Info("glvk: device created",
		"backend", ctx.Name(),
		"adapter", d.info.Name,
		"type", d.info.Type.String(),
		"version", ctx.GetString(backend.VERSION))
	return d, nil
}

// OpenDevice opens the named registered backend and creates a device on it.
// An empty name selects the default backend.
func OpenDevice(name string, opts ...DeviceOption) (*Device, error) {
	var (
		ctx backend.Context
		err error
	)
	if name == "" {
		ctx, err = backend.OpenDefault()
	} else {
		ctx, err = backend.Open(name)
	}
	if err != nil {
		return nil, fmt.Errorf("glvk: open device: %w", err)
	}
	return NewDevice(ctx, opts...)
}

// Backend returns the context commands are applied to.
func (d *Device) Backend() backend.Context { return d.ctx }

// Queue returns the device's single queue.
func (d *Device) Queue() *Queue { return d.queue }

// AdapterInfo describes the adapter behind the backend context.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo { return d.info }

// Limits reports the limits queried from the backend. Fields the backend
// has no query for are left zero.
func (d *Device) Limits() gputypes.Limits {
	u := func(pname uint32) uint32 {
		v := d.ctx.GetInteger(pname)
		if v < 0 {
			return 0
		}
		return uint32(v) // #nosec G115 -- checked non-negative
	}
	maxTex := u(backend.MAX_TEXTURE_SIZE)
	return gputypes.Limits{
		MaxTextureDimension1D:           maxTex,
		MaxTextureDimension2D:           maxTex,
		MaxColorAttachments:             u(backend.MAX_COLOR_ATTACHMENTS),
		MaxVertexAttributes:             u(backend.MAX_VERTEX_ATTRIBS),
		MinUniformBufferOffsetAlignment: u(backend.UNIFORM_BUFFER_OFFSET_ALIGNMENT),
	}
}

// WaitIdle blocks until all submitted work has completed.
func (d *Device) WaitIdle() error {
	return d.queue.WaitIdle()
}

// logger returns the device logger, falling back to the package logger so
// that SetLogger calls made after device creation take effect.
func (d *Device) logger() *slog.Logger {
	l := d.opts.logger
	if l == nil {
		l = Logger()
	}
	if d.opts.label != "" {
		l = l.With("device", d.opts.label)
	}
	return l
}

// recordingFailed handles a recording error according to the debug mode.
func (d *Device) recordingFailed(err error) {
	if d.opts.debugChecks {
		panic(err)
	}
	d.logger().Warn("glvk: recording error", "err", err)
}

func adapterInfo(vendor, renderer string) gpucontext.AdapterInfo {
	name := renderer
	if name == "" {
		name = vendor
	}
	lower := strings.ToLower(vendor + " " + renderer)
	typ := gpucontext.AdapterTypeUnknown
	switch {
	case containsAny(lower, "llvmpipe", "softpipe", "swiftshader", "software", "trace"):
		typ = gpucontext.AdapterTypeSoftware
	case containsAny(lower, "intel", "integrated", "apple", "mali", "adreno"):
		typ = gpucontext.AdapterTypeIntegrated
	case containsAny(lower, "nvidia", "geforce", "radeon", "amd", "ati "):
		typ = gpucontext.AdapterTypeDiscrete
	}
	return gpucontext.AdapterInfo{Name: name, Type: typ}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
