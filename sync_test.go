package glvk

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/wgpu/hal"
)

func TestFenceLifecycle(t *testing.T) {
	f := newFixture(t)
	fence := f.dev.CreateFence(true)
	if !fence.Signaled() {
		t.Fatal("CreateFence(true) is not signaled")
	}
	fence.Reset()
	if fence.Signaled() {
		t.Error("Signaled() after Reset = true, want false")
	}
	if err := fence.Wait(time.Millisecond); !errors.Is(err, hal.ErrTimeout) {
		t.Errorf("Wait() error = %v, want hal.ErrTimeout", err)
	}
	fence.signal()
	fence.signal()
	if err := fence.Wait(0); err != nil {
		t.Errorf("Wait() after signal error = %v", err)
	}
}

func TestFenceWaitWakesOnSignal(t *testing.T) {
	f := newFixture(t)
	fence := f.dev.CreateFence(false)

	var wg sync.WaitGroup
	errs := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- fence.Wait(10 * time.Second)
	}()
	fence.signal()
	wg.Wait()
	if err := <-errs; err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestWaitForFences(t *testing.T) {
	f := newFixture(t)
	on := f.dev.CreateFence(true)
	off := f.dev.CreateFence(false)

	tests := []struct {
		name    string
		fences  []*Fence
		waitAll bool
		want    error
	}{
		{"none", nil, true, nil},
		{"all signaled", []*Fence{on, on}, true, nil},
		{"all with one pending", []*Fence{on, off}, true, hal.ErrTimeout},
		{"any with one signaled", []*Fence{off, on}, false, nil},
		{"any with none signaled", []*Fence{off}, false, hal.ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.dev.WaitForFences(tt.fences, tt.waitAll, time.Millisecond)
			if !errors.Is(err, tt.want) {
				t.Errorf("WaitForFences() error = %v, want %v", err, tt.want)
			}
		})
	}
}
