package glvk

import "log/slog"

// DeviceOption configures a Device during creation.
//
// Example:
//
//	dev, err := glvk.NewDevice(ctx,
//	    glvk.WithLogger(logger),
//	    glvk.WithDebugChecks(true),
//	)
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	logger      *slog.Logger
	debugChecks bool
	label       string

	shaderCacheSize int
}

// defaultOptions returns the default device options.
func defaultOptions() deviceOptions {
	return deviceOptions{
		logger:          nil, // falls back to the package logger
		shaderCacheSize: 64,
	}
}

// WithLogger sets a logger for this device, overriding the package-wide
// logger configured with SetLogger.
func WithLogger(l *slog.Logger) DeviceOption {
	return func(o *deviceOptions) {
		o.logger = l
	}
}

// WithDebugChecks enables fail-fast validation.
//
// When enabled, a RecordingError panics at the offending command buffer
// call instead of being deferred to End, and the backend error state is
// checked after every applied command rather than once per command buffer.
func WithDebugChecks(enabled bool) DeviceOption {
	return func(o *deviceOptions) {
		o.debugChecks = enabled
	}
}

// WithLabel sets a debug label that prefixes the device's log records.
func WithLabel(label string) DeviceOption {
	return func(o *deviceOptions) {
		o.label = label
	}
}

// WithShaderCacheSize bounds the number of WGSL entry point translations
// kept for reuse by CreateShaderProgram. Zero keeps every translation
// until its module is destroyed.
func WithShaderCacheSize(n int) DeviceOption {
	return func(o *deviceOptions) {
		o.shaderCacheSize = max(n, 0)
	}
}
