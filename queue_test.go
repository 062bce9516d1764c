package glvk

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glvk/backend"
)

func recordDraw(t *testing.T, f *fixture, flags CommandBufferUsage) *CommandBuffer {
	t.Helper()
	cb := f.primary()
	_ = cb.Begin(BeginInfo{Flags: flags})
	cb.BindPipeline(f.pipeline(gputypes.PrimitiveTopologyTriangleList))
	cb.BindGeometryBuffers(f.geometry(gputypes.IndexFormatUint16))
	cb.DrawIndexed(3, 1, 0, 0, 0)
	if err := cb.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	return cb
}

func TestSubmitSignalsFence(t *testing.T) {
	f := newFixture(t)
	cb := recordDraw(t, f, 0)
	fence := f.dev.CreateFence(false)

	if err := fence.Wait(0); !errors.Is(err, hal.ErrTimeout) {
		t.Errorf("Wait() before submit error = %v, want hal.ErrTimeout", err)
	}
	if err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, fence); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !fence.Signaled() {
		t.Error("fence not signaled after Submit")
	}
	if err := fence.Wait(0); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestSubmitPreparesGeometryOnce(t *testing.T) {
	f := newFixture(t)
	cb := recordDraw(t, f, 0)

	f.trace.Clear()
	for range 2 {
		if err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, nil); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	if n := f.trace.Count("CreateVertexArray"); n != 1 {
		t.Errorf("CreateVertexArray calls = %d, want 1", n)
	}
	if n := f.trace.Count("DrawElementsBaseVertex"); n != 2 {
		t.Errorf("DrawElementsBaseVertex calls = %d, want 2", n)
	}
	names := f.trace.Names()
	first := slices.Index(names, "CreateVertexArray")
	if first < 0 || first > slices.Index(names, "UseProgram") {
		t.Errorf("calls = %v, want the vertex array prepared before commands apply", names)
	}
}

func TestSubmitOneTimeInvalidates(t *testing.T) {
	f := newFixture(t)
	cb := recordDraw(t, f, CommandBufferUsageOneTimeSubmit)
	q := f.dev.Queue()

	if err := q.Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if cb.State() != CommandBufferStateInvalid {
		t.Errorf("State() = %v, want %v", cb.State(), CommandBufferStateInvalid)
	}
	if err := q.Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, nil); !errors.Is(err, ErrNotExecutable) {
		t.Errorf("second Submit() error = %v, want ErrNotExecutable", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	other := newFixture(t)

	recording := f.primary()
	_ = recording.Begin(BeginInfo{})

	secondary := f.pool.Allocate(CommandBufferLevelSecondary)
	_ = secondary.Begin(BeginInfo{})
	_ = secondary.End()

	foreign := other.primary()
	_ = foreign.Begin(BeginInfo{})
	_ = foreign.End()

	tests := []struct {
		name string
		cb   *CommandBuffer
		want error
	}{
		{"nil", nil, ErrInvalidArgument},
		{"initial", f.primary(), ErrNotExecutable},
		{"recording", recording, ErrNotExecutable},
		{"secondary", secondary, ErrInvalidArgument},
		{"other device", foreign, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fence := f.dev.CreateFence(false)
			err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{tt.cb}}, fence)
			if !errors.Is(err, tt.want) {
				t.Errorf("Submit() error = %v, want %v", err, tt.want)
			}
			if fence.Signaled() {
				t.Error("fence signaled by a rejected submission")
			}
		})
	}
}

func TestSubmitDestroyedResource(t *testing.T) {
	f := newFixture(t)
	p := f.pipeline(gputypes.PrimitiveTopologyTriangleList)

	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.SetLineWidth(1)
	cb.BindPipeline(p)
	cb.Draw(3, 1, 0, 0)
	if err := cb.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	f.dev.DestroyPipeline(p)

	f.trace.Clear()
	fence := f.dev.CreateFence(false)
	err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, fence)
	if !errors.Is(err, ErrResourceDestroyed) {
		t.Fatalf("Submit() error = %v, want ErrResourceDestroyed", err)
	}
	if fence.Signaled() {
		t.Error("fence signaled by a failed submission")
	}
	if n := f.trace.Count("DrawArrays"); n != 0 {
		t.Errorf("DrawArrays calls = %d, want 0 after the failing command", n)
	}
	if n := f.trace.Count("LineWidth"); n != 1 {
		t.Errorf("LineWidth calls = %d, want the commands before the failure applied", n)
	}
}

func TestSubmitBackendError(t *testing.T) {
	f := newFixture(t)
	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.SetLineWidth(1)
	_ = cb.End()

	f.trace.InjectError(backend.OUT_OF_MEMORY)
	err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, nil)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("Submit() error = %v, want ErrBackend", err)
	}
	if !errors.Is(err, hal.ErrDeviceOutOfMemory) {
		t.Errorf("Submit() error = %v, want it to match hal.ErrDeviceOutOfMemory", err)
	}
}

func TestSubmitDebugChecksPerCommand(t *testing.T) {
	f := newFixture(t, WithDebugChecks(true))
	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.SetLineWidth(1)
	cb.SetLineWidth(2)
	_ = cb.End()

	f.trace.InjectError(backend.CONTEXT_LOST)
	err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, nil)
	if !errors.Is(err, hal.ErrDeviceLost) {
		t.Fatalf("Submit() error = %v, want hal.ErrDeviceLost", err)
	}
	if n := f.trace.Count("LineWidth"); n != 1 {
		t.Errorf("LineWidth calls = %d, want 1: the submission stops at the first failing command", n)
	}
}

func TestSubmitMultipleBuffersInOrder(t *testing.T) {
	f := newFixture(t)
	widths := []float32{1, 2, 3}
	var buffers []*CommandBuffer
	for _, w := range widths {
		cb := f.primary()
		_ = cb.Begin(BeginInfo{})
		cb.SetLineWidth(w)
		_ = cb.End()
		buffers = append(buffers, cb)
	}

	f.trace.Clear()
	if err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: buffers}, nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	got := callStrings(f.trace.Filter("LineWidth"))
	want := []string{"LineWidth(1)", "LineWidth(2)", "LineWidth(3)"}
	if !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestQueueWaitIdle(t *testing.T) {
	f := newFixture(t)
	f.trace.Clear()
	if err := f.dev.WaitIdle(); err != nil {
		t.Fatalf("WaitIdle() error = %v", err)
	}
	if n := f.trace.Count("Finish"); n != 1 {
		t.Errorf("Finish calls = %d, want 1", n)
	}
}

func TestQueuePresentAndSemaphores(t *testing.T) {
	f := newFixture(t)
	cb := recordDraw(t, f, 0)
	acquire := f.dev.CreateSemaphore("acquire")
	done := f.dev.CreateSemaphore("done")

	q := f.dev.Queue()
	err := q.Submit(SubmitInfo{
		CommandBuffers:   []*CommandBuffer{cb},
		WaitSemaphores:   []*Semaphore{acquire},
		WaitStages:       []PipelineStage{PipelineStageColorAttachmentOutput},
		SignalSemaphores: []*Semaphore{done},
	}, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	f.trace.Clear()
	if err := q.Present(PresentInfo{WaitSemaphores: []*Semaphore{done}, ImageIndices: []uint32{0}}); err != nil {
		t.Errorf("Present() error = %v", err)
	}
	if names := f.trace.Names(); len(names) != 0 {
		t.Errorf("Present() made backend calls %v", names)
	}
}

func TestCommandPool(t *testing.T) {
	f := newFixture(t)
	if _, err := f.dev.CreateCommandPool(CommandPoolDescriptor{QueueFamilyIndex: 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("CreateCommandPool(family 1) error = %v, want ErrInvalidArgument", err)
	}

	a := f.primary()
	b := f.primary()
	if f.pool.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.pool.Len())
	}
	_ = a.Begin(BeginInfo{})
	a.SetLineWidth(1)
	_ = a.End()

	f.pool.Reset()
	if a.State() != CommandBufferStateInitial || a.Len() != 0 {
		t.Errorf("after pool Reset: State() = %v, Len() = %d, want Initial and 0", a.State(), a.Len())
	}

	f.pool.Free(b)
	if f.pool.Len() != 1 {
		t.Errorf("Len() after Free = %d, want 1", f.pool.Len())
	}
	if err := b.Begin(BeginInfo{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Begin() on a freed buffer error = %v, want ErrInvalidArgument", err)
	}
}
