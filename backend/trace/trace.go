// Package trace provides a backend.Context that records every call instead
// of talking to a GPU.
//
// A trace Context is the test double for the replay engine: commands are
// applied against it and the resulting call log is compared with the
// expected backend traffic. Object names are handed out from a single
// counter starting at 1, so traces are deterministic.
//
// State queries (GetError, GetString, GetInteger, GetUniformLocation,
// CheckFramebufferStatus, GetQueryObjectui64, GetBufferSubData) are answered
// but not recorded. Buffer contents are simulated so copies and readbacks
// can be verified.
package trace

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/glvk/backend"
)

func init() {
	backend.Register(backend.NameTrace, func() (backend.Context, error) {
		return New(), nil
	})
}

// Call is one recorded backend call.
type Call struct {
	Name string
	Args []any
}

// String formats the call as Name(arg, arg, ...).
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Context records backend calls. It is safe for concurrent use.
type Context struct {
	mu sync.Mutex

	calls    []Call
	nextID   uint32
	errors   []uint32
	strings  map[uint32]string
	integers map[uint32]int32
	uniforms map[string]int32
	queries  map[uint32]uint64

	buffers  map[uint32][]byte
	bindings map[uint32]uint32

	compileErr error
	linkErr    error
	fbStatus   uint32
}

var _ backend.Context = (*Context)(nil)

// New creates an empty trace context.
func New() *Context {
	return &Context{
		strings: map[uint32]string{
			backend.VENDOR:                   "gogpu",
			backend.RENDERER:                 "trace",
			backend.VERSION:                  "4.3.0 trace",
			backend.SHADING_LANGUAGE_VERSION: "4.30",
		},
		integers: map[uint32]int32{
			backend.MAX_TEXTURE_SIZE:                16384,
			backend.MAX_COLOR_ATTACHMENTS:           8,
			backend.MAX_VERTEX_ATTRIBS:              16,
			backend.UNIFORM_BUFFER_OFFSET_ALIGNMENT: 256,
		},
		uniforms: make(map[string]int32),
		queries:  make(map[uint32]uint64),
		buffers:  make(map[uint32][]byte),
		bindings: make(map[uint32]uint32),
		fbStatus: backend.FRAMEBUFFER_COMPLETE,
	}
}

// Calls returns a copy of the recorded calls.
func (c *Context) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Names returns the names of the recorded calls in order.
func (c *Context) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	for i, call := range c.calls {
		out[i] = call.Name
	}
	return out
}

// Filter returns the recorded calls whose name is one of names.
func (c *Context) Filter(names ...string) []Call {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Call
	for _, call := range c.calls {
		if want[call.Name] {
			out = append(out, call)
		}
	}
	return out
}

// Count returns how many calls named name were recorded.
func (c *Context) Count(name string) int {
	return len(c.Filter(name))
}

// Clear drops the recorded calls. Simulated objects are kept.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

// InjectError queues code to be returned by the next GetError.
func (c *Context) InjectError(code uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, code)
}

// SetString sets the value returned by GetString(name).
func (c *Context) SetString(name uint32, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strings[name] = value
}

// SetUniformLocation sets the value returned by GetUniformLocation for name.
func (c *Context) SetUniformLocation(name string, location int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uniforms[name] = location
}

// SetQueryResult sets the value returned for query id.
func (c *Context) SetQueryResult(id uint32, value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries[id] = value
}

// FailCompile makes subsequent CreateShader calls fail with err.
func (c *Context) FailCompile(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compileErr = err
}

// FailLink makes subsequent CreateProgram calls fail with err.
func (c *Context) FailLink(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.linkErr = err
}

// SetFramebufferStatus sets the value returned by CheckFramebufferStatus.
func (c *Context) SetFramebufferStatus(status uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fbStatus = status
}

// BufferContents returns a copy of the simulated storage of buffer id.
func (c *Context) BufferContents(id uint32) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.buffers[id]...)
}

func (c *Context) record(name string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Name: name, Args: args})
}

func (c *Context) gen(name string) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.calls = append(c.calls, Call{Name: name, Args: []any{id}})
	return id
}

// bound returns the storage of the buffer bound to target, growing it to
// hold end bytes. Callers must hold c.mu.
func (c *Context) bound(target uint32, end int) (uint32, []byte) {
	id := c.bindings[target]
	if id == 0 {
		return 0, nil
	}
	buf := c.buffers[id]
	if len(buf) < end {
		grown := make([]byte, end)
		copy(grown, buf)
		buf = grown
		c.buffers[id] = buf
	}
	return id, buf
}

// Name implements backend.Context.
func (c *Context) Name() string { return backend.NameTrace }
