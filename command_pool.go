package glvk

import (
	"fmt"
	"slices"
	"sync"
)

// CommandPoolFlags are hints about how command buffers of a pool are used.
type CommandPoolFlags uint32

const (
	// CommandPoolTransient marks buffers that are rerecorded often.
	CommandPoolTransient CommandPoolFlags = 1 << iota
	// CommandPoolResetCommandBuffer allows buffers to be reset one by one.
	CommandPoolResetCommandBuffer
)

// CommandPoolDescriptor describes a command pool.
type CommandPoolDescriptor struct {
	Label string
	// QueueFamilyIndex must be 0: a device has a single queue.
	QueueFamilyIndex uint32
	Flags            CommandPoolFlags
}

// CommandPool allocates command buffers. It is safe for concurrent use;
// the buffers it allocates are not.
type CommandPool struct {
	device *Device
	label  string
	flags  CommandPoolFlags

	mu      sync.Mutex
	buffers []*CommandBuffer
}

// CreateCommandPool creates a command pool.
func (d *Device) CreateCommandPool(desc CommandPoolDescriptor) (*CommandPool, error) {
	if desc.QueueFamilyIndex != 0 {
		return nil, fmt.Errorf("glvk: create command pool %q: %w: queue family %d",
			desc.Label, ErrInvalidArgument, desc.QueueFamilyIndex)
	}
	return &CommandPool{device: d, label: desc.Label, flags: desc.Flags}, nil
}

// Allocate creates a command buffer in the Initial state.
func (p *CommandPool) Allocate(level CommandBufferLevel) *CommandBuffer {
	cb := &CommandBuffer{device: p.device, pool: p, level: level}
	p.mu.Lock()
	p.buffers = append(p.buffers, cb)
	p.mu.Unlock()
	return cb
}

// Free releases command buffers allocated from p. Freed buffers must not
// be used again.
func (p *CommandPool) Free(buffers ...*CommandBuffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cb := range buffers {
		if cb == nil || cb.pool != p {
			continue
		}
		p.buffers = slices.DeleteFunc(p.buffers, func(b *CommandBuffer) bool { return b == cb })
		cb.commands = nil
		cb.pending = nil
		cb.state = CommandBufferStateInvalid
		cb.pool = nil
	}
}

// Reset returns every buffer allocated from p to the Initial state.
func (p *CommandPool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cb := range p.buffers {
		cb.commands = nil
		cb.resetCursor()
		cb.err = nil
		cb.state = CommandBufferStateInitial
	}
}

// Len returns the number of live buffers allocated from p.
func (p *CommandPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buffers)
}
