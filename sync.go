package glvk

import (
	"sync"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// PipelineStage is a set of pipeline stages used to scope barriers and
// semaphore waits. The backend executes in order, so stages only document
// intent.
type PipelineStage uint32

const (
	PipelineStageTopOfPipe PipelineStage = 1 << iota
	PipelineStageDrawIndirect
	PipelineStageVertexInput
	PipelineStageVertexShader
	PipelineStageFragmentShader
	PipelineStageEarlyFragmentTests
	PipelineStageLateFragmentTests
	PipelineStageColorAttachmentOutput
	PipelineStageComputeShader
	PipelineStageTransfer
	PipelineStageBottomOfPipe
	PipelineStageHost
	PipelineStageAllGraphics
	PipelineStageAllCommands
)

// Fence is signaled when a submission completes.
type Fence struct {
	mu       sync.Mutex
	signaled bool
	done     chan struct{}
}

// CreateFence creates a fence, optionally already signaled.
func (d *Device) CreateFence(signaled bool) *Fence {
	f := &Fence{done: make(chan struct{})}
	if signaled {
		f.signal()
	}
	return f
}

// Signaled reports whether the fence is signaled.
func (f *Fence) Signaled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signaled
}

// Reset returns the fence to the unsignaled state.
func (f *Fence) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signaled {
		f.signaled = false
		f.done = make(chan struct{})
	}
}

// Wait blocks until the fence is signaled or timeout elapses, in which case
// it returns hal.ErrTimeout. A zero timeout polls.
func (f *Fence) Wait(timeout time.Duration) error {
	f.mu.Lock()
	if f.signaled {
		f.mu.Unlock()
		return nil
	}
	done := f.done
	f.mu.Unlock()

	if timeout <= 0 {
		return hal.ErrTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		return hal.ErrTimeout
	}
}

func (f *Fence) signal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.signaled {
		f.signaled = true
		close(f.done)
	}
}

// WaitForFences waits for all fences, or for any one of them when waitAll
// is false.
func (d *Device) WaitForFences(fences []*Fence, waitAll bool, timeout time.Duration) error {
	if len(fences) == 0 {
		return nil
	}
	deadline := time.Now().Add(timeout)
	if !waitAll {
		for {
			for _, f := range fences {
				if f.Signaled() {
					return nil
				}
			}
			if !time.Now().Before(deadline) {
				return hal.ErrTimeout
			}
			time.Sleep(min(time.Millisecond, time.Until(deadline)))
		}
	}
	for _, f := range fences {
		if err := f.Wait(time.Until(deadline)); err != nil {
			return err
		}
	}
	return nil
}

// Semaphore orders submissions on an explicit API. Submissions here run
// serially on the calling goroutine, so semaphores carry no state.
type Semaphore struct {
	label string
}

// CreateSemaphore creates a semaphore.
func (d *Device) CreateSemaphore(label string) *Semaphore {
	return &Semaphore{label: label}
}
