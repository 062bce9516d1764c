package glvk

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glvk/backend"
)

// Errors returned by glvk.
var (
	// ErrRecording is matched by every RecordingError.
	ErrRecording = errors.New("glvk: recording error")

	// ErrNotRecording is returned when a command buffer verb is used outside
	// Begin/End.
	ErrNotRecording = errors.New("glvk: command buffer not in recording state")

	// ErrNotExecutable is returned when a command buffer that was not ended
	// successfully is submitted or executed.
	ErrNotExecutable = errors.New("glvk: command buffer not executable")

	// ErrNoPipeline is returned when a draw is recorded before any graphics
	// pipeline is bound.
	ErrNoPipeline = errors.New("glvk: no graphics pipeline bound")

	// ErrNoComputePipeline is returned when a dispatch is recorded before any
	// compute pipeline is bound.
	ErrNoComputePipeline = errors.New("glvk: no compute pipeline bound")

	// ErrNoIndexBuffer is returned when an indexed draw is recorded without
	// an index type ever being bound.
	ErrNoIndexBuffer = errors.New("glvk: no index buffer bound")

	// ErrNotInRenderPass is returned for pass-scoped verbs outside a render pass.
	ErrNotInRenderPass = errors.New("glvk: not inside a render pass")

	// ErrInRenderPass is returned for verbs that are invalid inside a render pass.
	ErrInRenderPass = errors.New("glvk: inside a render pass")

	// ErrSubpassOverflow is returned by NextSubpass on the last subpass.
	ErrSubpassOverflow = errors.New("glvk: no next subpass")

	// ErrNotSecondary is returned when ExecuteCommands is given a primary buffer.
	ErrNotSecondary = errors.New("glvk: command buffer is not secondary")

	// ErrResourceDestroyed is returned when a handle does not resolve to a
	// live object: it was destroyed, or never created by this device.
	ErrResourceDestroyed = errors.New("glvk: resource destroyed or invalid handle")

	// ErrBackend is matched by every BackendError.
	ErrBackend = errors.New("glvk: backend error")

	// ErrUnsupportedFormat is returned for formats the backend cannot represent.
	ErrUnsupportedFormat = errors.New("glvk: unsupported format")

	// ErrInvalidDescriptor is returned when a creation descriptor is malformed.
	ErrInvalidDescriptor = errors.New("glvk: invalid descriptor")

	// ErrInvalidArgument is returned for out-of-range offsets, sizes and indices.
	ErrInvalidArgument = errors.New("glvk: invalid argument")

	// ErrPoolExhausted is returned when a descriptor pool has no sets left.
	ErrPoolExhausted = errors.New("glvk: descriptor pool exhausted")

	// ErrFramebufferIncomplete is returned when the backend rejects a
	// framebuffer's attachment set.
	ErrFramebufferIncomplete = errors.New("glvk: framebuffer incomplete")
)

// RecordingError reports a command buffer sequencing violation.
// It matches ErrRecording and the underlying cause with errors.Is.
type RecordingError struct {
	// Op is the command buffer verb that failed.
	Op  string
	Err error
}

func (e *RecordingError) Error() string {
	return fmt.Sprintf("glvk: recording %s: %v", e.Op, e.Err)
}

// Unwrap returns ErrRecording and the cause.
func (e *RecordingError) Unwrap() []error {
	return []error{ErrRecording, e.Err}
}

// BackendError reports an error code raised by the backend context.
//
// It matches ErrBackend. GL_OUT_OF_MEMORY additionally matches
// hal.ErrDeviceOutOfMemory and GL_CONTEXT_LOST matches hal.ErrDeviceLost.
type BackendError struct {
	Op   string
	Code uint32
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("glvk: %s: %s (0x%04x)", e.Op, backend.ErrorString(e.Code), e.Code)
}

// Unwrap returns ErrBackend and, where one applies, the matching hal error.
func (e *BackendError) Unwrap() []error {
	switch e.Code {
	case backend.OUT_OF_MEMORY:
		return []error{ErrBackend, hal.ErrDeviceOutOfMemory}
	case backend.CONTEXT_LOST:
		return []error{ErrBackend, hal.ErrDeviceLost}
	default:
		return []error{ErrBackend}
	}
}

// maxDrainedErrors bounds the GetError loop; a lost context may report
// errors forever.
const maxDrainedErrors = 16

// checkBackend drains the backend error queue and returns the first error
// as a BackendError, or nil if the queue was empty.
func checkBackend(ctx backend.Context, op string) error {
	var first uint32
	for i := 0; i < maxDrainedErrors; i++ {
		code := ctx.GetError()
		if code == backend.NO_ERROR {
			break
		}
		if first == backend.NO_ERROR {
			first = code
		}
		if code == backend.CONTEXT_LOST {
			first = code
			break
		}
	}
	if first == backend.NO_ERROR {
		return nil
	}
	return &BackendError{Op: op, Code: first}
}

func recordingError(op string, err error) error {
	return &RecordingError{Op: op, Err: err}
}

func destroyed(kind string) error {
	return fmt.Errorf("%w: %s", ErrResourceDestroyed, kind)
}
