// Package opengl provides a backend.Context on top of OpenGL 4.3 core
// through github.com/go-gl/gl.
//
// # Registration
//
// The backend registers itself as backend.NameOpenGL on import:
//
//	import _ "github.com/gogpu/glvk/backend/opengl"
//
// Building with the "nogl" tag replaces it with a stub whose factory
// returns backend.ErrNotAvailable, so programs that only replay against
// the trace backend need no cgo toolchain.
//
// # Threading
//
// OpenGL binds a context to one OS thread. The windowing layer must make a
// 4.3 core context current on a thread locked with runtime.LockOSThread
// before calling New (or backend.Open), and every Context method must be
// called from that thread.
//
//	runtime.LockOSThread()
//	window.MakeContextCurrent()
//	ctx, err := backend.Open(backend.NameOpenGL)
package opengl
