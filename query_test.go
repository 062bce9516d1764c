package glvk

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glvk/backend"
)

func TestCreateQueryPoolInvalid(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		desc QueryPoolDescriptor
	}{
		{"zero count", QueryPoolDescriptor{Type: QueryTypeOcclusion}},
		{"bad type", QueryPoolDescriptor{Type: QueryType(7), Count: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.dev.CreateQueryPool(tt.desc); !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("CreateQueryPool() error = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestOcclusionQuery(t *testing.T) {
	f := newFixture(t)
	qp, err := f.dev.CreateQueryPool(QueryPoolDescriptor{Label: "occlusion", Type: QueryTypeOcclusion, Count: 2})
	if err != nil {
		t.Fatalf("CreateQueryPool() error = %v", err)
	}
	pool, _ := f.dev.queryPools.Get(qp.h)
	f.trace.SetQueryResult(pool.ids[0], 1)
	f.trace.SetQueryResult(pool.ids[1], 42)

	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.ResetQueryPool(qp, 0, 2)
	cb.BeginQuery(qp, 0, 0)
	cb.EndQuery(qp, 0)
	cb.BeginQuery(qp, 1, QueryControlPrecise)
	cb.EndQuery(qp, 1)
	if err := cb.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	if _, err := f.dev.QueryResults(qp, 0, 2, false); !errors.Is(err, hal.ErrNotReady) {
		t.Errorf("QueryResults() before submit error = %v, want hal.ErrNotReady", err)
	}
	f.submit(cb)

	got := callStrings(f.trace.Filter("BeginQuery", "EndQuery"))
	want := []string{
		fmt.Sprintf("BeginQuery(%d, %d)", backend.ANY_SAMPLES_PASSED, pool.ids[0]),
		fmt.Sprintf("EndQuery(%d)", backend.ANY_SAMPLES_PASSED),
		fmt.Sprintf("BeginQuery(%d, %d)", backend.SAMPLES_PASSED, pool.ids[1]),
		fmt.Sprintf("EndQuery(%d)", backend.SAMPLES_PASSED),
	}
	if !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}

	results, err := f.dev.QueryResults(qp, 0, 2, false)
	if err != nil {
		t.Fatalf("QueryResults() error = %v", err)
	}
	if !slices.Equal(results, []uint64{1, 42}) {
		t.Errorf("QueryResults() = %v, want [1 42]", results)
	}
}

func TestQueryResetMakesUnavailable(t *testing.T) {
	f := newFixture(t)
	qp, _ := f.dev.CreateQueryPool(QueryPoolDescriptor{Type: QueryTypeTimestamp, Count: 1})

	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.WriteTimestamp(PipelineStageBottomOfPipe, qp, 0)
	_ = cb.End()
	f.submit(cb)
	if _, err := f.dev.QueryResults(qp, 0, 1, true); err != nil {
		t.Fatalf("QueryResults() error = %v", err)
	}

	_ = cb.Begin(BeginInfo{})
	cb.ResetQueryPool(qp, 0, 1)
	_ = cb.End()
	f.submit(cb)
	if _, err := f.dev.QueryResults(qp, 0, 1, true); !errors.Is(err, hal.ErrNotReady) {
		t.Errorf("QueryResults() after reset error = %v, want hal.ErrNotReady", err)
	}
}

func TestWriteTimestamp(t *testing.T) {
	f := newFixture(t)
	qp, _ := f.dev.CreateQueryPool(QueryPoolDescriptor{Type: QueryTypeTimestamp, Count: 1})
	pool, _ := f.dev.queryPools.Get(qp.h)

	cb := f.primary()
	_ = cb.Begin(BeginInfo{})
	cb.WriteTimestamp(PipelineStageTopOfPipe, qp, 0)
	_ = cb.End()
	f.submit(cb)

	calls := f.trace.Filter("QueryCounter")
	if len(calls) != 1 {
		t.Fatalf("QueryCounter calls = %v, want one", callStrings(calls))
	}
	if id, target := calls[0].Args[0], calls[0].Args[1]; id != pool.ids[0] || target != uint32(backend.TIMESTAMP) {
		t.Errorf("QueryCounter(%v, %v), want (%d, %d)", id, target, pool.ids[0], backend.TIMESTAMP)
	}
}

func TestQueryApplyErrors(t *testing.T) {
	f := newFixture(t)
	occlusion, _ := f.dev.CreateQueryPool(QueryPoolDescriptor{Type: QueryTypeOcclusion, Count: 1})
	timestamps, _ := f.dev.CreateQueryPool(QueryPoolDescriptor{Type: QueryTypeTimestamp, Count: 1})

	tests := []struct {
		name   string
		record func(cb *CommandBuffer)
	}{
		{"end without begin", func(cb *CommandBuffer) { cb.EndQuery(occlusion, 0) }},
		{"begin on timestamp pool", func(cb *CommandBuffer) { cb.BeginQuery(timestamps, 0, 0) }},
		{"timestamp on occlusion pool", func(cb *CommandBuffer) { cb.WriteTimestamp(PipelineStageTopOfPipe, occlusion, 0) }},
		{"query out of range", func(cb *CommandBuffer) { cb.WriteTimestamp(PipelineStageTopOfPipe, timestamps, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := f.primary()
			_ = cb.Begin(BeginInfo{})
			tt.record(cb)
			if err := cb.End(); err != nil {
				t.Fatalf("End() error = %v", err)
			}
			err := f.dev.Queue().Submit(SubmitInfo{CommandBuffers: []*CommandBuffer{cb}}, nil)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Submit() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestQueryResultsRange(t *testing.T) {
	f := newFixture(t)
	qp, _ := f.dev.CreateQueryPool(QueryPoolDescriptor{Type: QueryTypeOcclusion, Count: 2})
	if _, err := f.dev.QueryResults(qp, 1, 2, true); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("QueryResults() error = %v, want ErrInvalidArgument", err)
	}
	f.dev.DestroyQueryPool(qp)
	if _, err := f.dev.QueryResults(qp, 0, 1, true); !errors.Is(err, ErrResourceDestroyed) {
		t.Errorf("QueryResults() on destroyed pool error = %v, want ErrResourceDestroyed", err)
	}
}
