//go:build nogl

package opengl

import (
	"fmt"

	"github.com/gogpu/glvk/backend"
)

// init registers a factory that always fails when the nogl tag is set, so
// backend.Open(backend.NameOpenGL) reports why no context is available.
func init() {
	backend.Register(backend.NameOpenGL, New)
}

// New reports that the backend was compiled out.
func New() (backend.Context, error) {
	return nil, fmt.Errorf("%w: built with the nogl tag", backend.ErrNotAvailable)
}
