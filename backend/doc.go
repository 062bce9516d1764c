// Package backend defines the immediate-mode graphics context that recorded
// commands are replayed against, and a registry of context factories.
//
// # Context
//
// Context is a thin, Go-typed view of the OpenGL 4.3 core API. The replay
// engine in the root glvk package never calls a global graphics API; every
// command receives the Context explicitly, so independent contexts (for
// example a real OpenGL context and a recording test double) can coexist in
// one process.
//
// The enum constants in this package carry their OpenGL values and are
// passed through to the implementation unchanged.
//
// # Backend Registration
//
// Backends are registered via init() functions, following the database/sql
// driver pattern:
//
//	import _ "github.com/gogpu/glvk/backend/opengl"
//
// # Backend Selection
//
// Open a specific backend by name, or let OpenDefault pick the best one:
//
//	ctx, err := backend.Open(backend.NameOpenGL)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// A factory binds to the graphics context current on the calling thread, so
// the windowing layer must make its context current before Open is called.
//
// # Implementations
//
//   - backend/opengl: OpenGL 4.3 core via github.com/go-gl/gl
//   - backend/trace: records every call for tests, no GPU required
package backend
