package glvk

import (
	"fmt"

	"github.com/gogpu/glvk/backend"
)

func queryIndex(pool *queryPool, q uint32) error {
	if int(q) >= len(pool.ids) {
		return fmt.Errorf("%w: query %d of %d", ErrInvalidArgument, q, len(pool.ids))
	}
	return nil
}

// ResetQueryPoolCommand marks a range of queries unavailable.
type ResetQueryPoolCommand struct {
	Pool  QueryPool
	First uint32
	Count uint32
}

// Type implements Command.
func (*ResetQueryPoolCommand) Type() CommandType { return CmdResetQueryPool }

// Clone implements Command.
func (c *ResetQueryPoolCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *ResetQueryPoolCommand) Apply(ec *ExecContext) error {
	pool, err := lookup(ec.device.queryPools, c.Pool.h, "query pool")
	if err != nil {
		return err
	}
	pool.reset(c.First, c.Count)
	return nil
}

// BeginQueryCommand starts an occlusion query.
type BeginQueryCommand struct {
	Pool  QueryPool
	Query uint32
	Flags QueryControlFlags
}

// Type implements Command.
func (*BeginQueryCommand) Type() CommandType { return CmdBeginQuery }

// Clone implements Command.
func (c *BeginQueryCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *BeginQueryCommand) Apply(ec *ExecContext) error {
	pool, err := lookup(ec.device.queryPools, c.Pool.h, "query pool")
	if err != nil {
		return err
	}
	if err := queryIndex(pool, c.Query); err != nil {
		return err
	}
	if pool.typ != QueryTypeOcclusion {
		return fmt.Errorf("%w: begin query on a timestamp pool", ErrInvalidArgument)
	}
	target := uint32(backend.ANY_SAMPLES_PASSED)
	if c.Flags&QueryControlPrecise != 0 {
		target = backend.SAMPLES_PASSED
	}
	ec.ctx.BeginQuery(target, pool.ids[c.Query])
	pool.begin(c.Query, target)
	return nil
}

// EndQueryCommand ends an occlusion query.
type EndQueryCommand struct {
	Pool  QueryPool
	Query uint32
}

// Type implements Command.
func (*EndQueryCommand) Type() CommandType { return CmdEndQuery }

// Clone implements Command.
func (c *EndQueryCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *EndQueryCommand) Apply(ec *ExecContext) error {
	pool, err := lookup(ec.device.queryPools, c.Pool.h, "query pool")
	if err != nil {
		return err
	}
	if err := queryIndex(pool, c.Query); err != nil {
		return err
	}
	target, ok := pool.end(c.Query)
	if !ok {
		return fmt.Errorf("%w: query %d is not active", ErrInvalidArgument, c.Query)
	}
	ec.ctx.EndQuery(target)
	return nil
}

// WriteTimestampCommand writes the backend time into a timestamp query
// once every previous command has completed.
type WriteTimestampCommand struct {
	Stage PipelineStage
	Pool  QueryPool
	Query uint32
}

// Type implements Command.
func (*WriteTimestampCommand) Type() CommandType { return CmdWriteTimestamp }

// Clone implements Command.
func (c *WriteTimestampCommand) Clone() Command { cp := *c; return &cp }

// Apply implements Command.
func (c *WriteTimestampCommand) Apply(ec *ExecContext) error {
	pool, err := lookup(ec.device.queryPools, c.Pool.h, "query pool")
	if err != nil {
		return err
	}
	if err := queryIndex(pool, c.Query); err != nil {
		return err
	}
	if pool.typ != QueryTypeTimestamp {
		return fmt.Errorf("%w: timestamp written to an occlusion pool", ErrInvalidArgument)
	}
	ec.ctx.QueryCounter(pool.ids[c.Query], backend.TIMESTAMP)
	pool.markWritten(c.Query)
	return nil
}
