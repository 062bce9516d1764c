// Package glvk provides an explicit, Vulkan-style command-buffer API on top
// of an immediate-mode OpenGL context.
//
// # Overview
//
// OpenGL executes state changes and draw calls as soon as they are issued.
// glvk records them instead: command buffer verbs are turned into Command
// values that capture everything needed to replay the operation, and a
// Queue applies them in order against a backend.Context at submission time.
// Pipelines, render passes and descriptor sets are immutable or explicitly
// updated objects that commands refer to by handle.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/glvk"
//		_ "github.com/gogpu/glvk/backend/opengl"
//	)
//
//	dev, err := glvk.OpenDevice("opengl")
//	if err != nil {
//		log.Fatal(err)
//	}
//	pool, err := dev.CreateCommandPool(glvk.CommandPoolDescriptor{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	cb := pool.Allocate(glvk.CommandBufferLevelPrimary)
//
//	cb.Begin(glvk.BeginInfo{})
//	cb.BeginRenderPass(pass, fb, area, clears, glvk.SubpassContentsInline)
//	cb.BindPipeline(pipeline)
//	cb.BindGeometryBuffers(geometry)
//	cb.Draw(3, 1, 0, 0)
//	cb.EndRenderPass()
//	if err := cb.End(); err != nil {
//		log.Fatal(err)
//	}
//	if err := dev.Queue().Submit(glvk.SubmitInfo{CommandBuffers: []*glvk.CommandBuffer{cb}}, nil); err != nil {
//		log.Fatal(err)
//	}
//
// # Handles
//
// Every device object (Buffer, Texture, Pipeline, DescriptorSet, ...) is a
// small value type indexing a device-owned table. Destroying an object
// invalidates all copies of its handle: a recorded command that refers to
// it fails with ErrResourceDestroyed when applied instead of touching freed
// backend state.
//
// # Errors
//
// Sequencing mistakes while recording (drawing before a pipeline is bound,
// recording outside Begin/End, overrunning the subpasses of a render pass)
// are RecordingErrors. The first one is kept and returned by End; with
// WithDebugChecks the device panics at the offending call instead. Faults
// reported by the backend during End or Submit are BackendErrors. A failed
// submission is never retried.
//
// # Threading
//
// All commands of a submission are applied on the goroutine that calls
// Submit, which must own the graphics context. Recording touches only the
// command buffer's own state and may happen on any goroutine, but a single
// CommandBuffer must not be used concurrently.
package glvk
