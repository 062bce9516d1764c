package glvk

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glvk/backend"
)

// QueryType is the kind of queries a pool holds.
type QueryType uint8

const (
	QueryTypeOcclusion QueryType = iota
	QueryTypeTimestamp
)

// QueryControlFlags modify an occlusion query.
type QueryControlFlags uint32

// QueryControlPrecise requests an exact sample count instead of a boolean
// any-samples-passed result.
const QueryControlPrecise QueryControlFlags = 1

// QueryPoolDescriptor describes a query pool.
type QueryPoolDescriptor struct {
	Label string
	Type  QueryType
	Count uint32
}

type queryPool struct {
	typ QueryType
	ids []uint32

	mu      sync.Mutex
	written []bool
	active  map[uint32]uint32 // query index to the target it was begun on
}

// CreateQueryPool creates Count queries of one type.
func (d *Device) CreateQueryPool(desc QueryPoolDescriptor) (QueryPool, error) {
	if desc.Count == 0 {
		return QueryPool{}, fmt.Errorf("glvk: create query pool %q: %w: zero queries", desc.Label, ErrInvalidDescriptor)
	}
	if desc.Type > QueryTypeTimestamp {
		return QueryPool{}, fmt.Errorf("glvk: create query pool %q: %w: query type %d", desc.Label, ErrInvalidDescriptor, desc.Type)
	}
	p := &queryPool{
		typ:     desc.Type,
		ids:     make([]uint32, desc.Count),
		written: make([]bool, desc.Count),
		active:  make(map[uint32]uint32),
	}
	for i := range p.ids {
		p.ids[i] = d.ctx.CreateQuery()
	}
	return QueryPool{d.queryPools.Insert(p)}, nil
}

// DestroyQueryPool releases a query pool.
func (d *Device) DestroyQueryPool(p QueryPool) {
	if pool, ok := d.queryPools.Remove(p.h); ok {
		for _, id := range pool.ids {
			d.ctx.DeleteQuery(id)
		}
	}
}

// QueryResults reads count results starting at first. Without wait, a
// query whose result is not available yet fails with hal.ErrNotReady.
// Queries that were reset and not written since are never available.
func (d *Device) QueryResults(p QueryPool, first, count uint32, wait bool) ([]uint64, error) {
	pool, err := lookup(d.queryPools, p.h, "query pool")
	if err != nil {
		return nil, err
	}
	if uint64(first)+uint64(count) > uint64(len(pool.ids)) {
		return nil, fmt.Errorf("glvk: query results: %w: [%d, %d) of %d queries",
			ErrInvalidArgument, first, uint64(first)+uint64(count), len(pool.ids))
	}
	out := make([]uint64, count)
	for i := range out {
		q := first + uint32(i) // #nosec G115 -- bounded by count
		if !pool.isWritten(q) {
			return nil, fmt.Errorf("glvk: query results: query %d: %w", q, hal.ErrNotReady)
		}
		id := pool.ids[q]
		if !wait && d.ctx.GetQueryObjectui64(id, backend.QUERY_RESULT_AVAILABLE) == 0 {
			return nil, fmt.Errorf("glvk: query results: query %d: %w", q, hal.ErrNotReady)
		}
		out[i] = d.ctx.GetQueryObjectui64(id, backend.QUERY_RESULT)
	}
	return out, checkBackend(d.ctx, "query results")
}

func (p *queryPool) isWritten(q uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written[q]
}

func (p *queryPool) reset(first, count uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for q := first; q < first+count && int(q) < len(p.written); q++ {
		p.written[q] = false
		delete(p.active, q)
	}
}

func (p *queryPool) begin(q, target uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active[q] = target
}

// end returns the target q was begun on.
func (p *queryPool) end(q uint32) (uint32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, ok := p.active[q]
	if ok {
		delete(p.active, q)
		p.written[q] = true
	}
	return target, ok
}

func (p *queryPool) markWritten(q uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written[q] = true
}
