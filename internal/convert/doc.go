// Package convert maps gputypes descriptor vocabulary to OpenGL enum values.
//
// Every function resolves a single value. Callers resolve once, at object
// creation or command recording time, and store the GL token.
package convert
