// Command glvkdemo renders a triangle offscreen through glvk command buffers
// and writes the result as a PNG.
//
// With -backend=trace no window is created; the recorded OpenGL calls are
// printed instead.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/glvk"
	"github.com/gogpu/glvk/backend"
	_ "github.com/gogpu/glvk/backend/opengl"
	"github.com/gogpu/glvk/backend/trace"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

const vertexGLSL = `#version 430 core
layout(location = 0) in vec2 pos;
layout(location = 1) in vec3 col;
out vec3 vcol;
void main() {
	vcol = col;
	gl_Position = vec4(pos, 0.0, 1.0);
}
`

const fragmentGLSL = `#version 430 core
in vec3 vcol;
layout(location = 0) out vec4 color;
void main() { color = vec4(vcol, 1.0); }
`

// triangle holds interleaved position (vec2) and color (vec3) per vertex.
var triangle = []float32{
	-0.8, -0.8, 1, 0, 0,
	0.8, -0.8, 0, 1, 0,
	0.0, 0.8, 0, 0, 1,
}

func main() {
	var (
		name    = flag.String("backend", backend.NameOpenGL, "backend to replay on (opengl, trace)")
		width   = flag.Int("width", 256, "image width")
		height  = flag.Int("height", 256, "image height")
		output  = flag.String("output", "triangle.png", "output file")
		scale   = flag.Int("scale", 1, "upscale factor applied to the saved image")
		verbose = flag.Bool("v", false, "log device activity")
	)
	flag.Parse()

	opts := []glvk.DeviceOption{glvk.WithLabel("glvkdemo"), glvk.WithDebugChecks(true)}
	if *verbose {
		opts = append(opts, glvk.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	if *name == backend.NameOpenGL {
		window, err := openWindow()
		if err != nil {
			log.Fatalf("Failed to create GL context: %v", err)
		}
		defer glfw.Terminate()
		defer window.Destroy()
	}

	dev, err := glvk.OpenDevice(*name, opts...)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	info := dev.AdapterInfo()
	log.Printf("Device: %s (%s)", info.Name, info.Type)

	pixels, err := render(dev, uint32(*width), uint32(*height)) // #nosec G115 -- flag values
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if tc, ok := dev.Backend().(*trace.Context); ok {
		for _, c := range tc.Calls() {
			fmt.Println(c)
		}
		return
	}

	if err := savePNG(*output, pixels, *width, *height, *scale); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// openWindow creates a hidden window with a current 4.3 core context.
func openWindow() (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(1, 1, "glvkdemo", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()
	return window, nil
}

// render draws the triangle into an RGBA8 texture and returns its rows,
// bottom row first.
func render(dev *glvk.Device, width, height uint32) ([]byte, error) {
	vertices := make([]byte, 4*len(triangle))
	for i, v := range triangle {
		binary.LittleEndian.PutUint32(vertices[4*i:], math.Float32bits(v))
	}
	vbo, err := dev.CreateBuffer(gputypes.BufferDescriptor{
		Label: "triangle",
		Size:  uint64(len(vertices)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := dev.WriteBuffer(vbo, 0, vertices); err != nil {
		return nil, err
	}

	vertexLayout := []gputypes.VertexBufferLayout{{
		ArrayStride: 20,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1},
		},
	}}
	geometry, err := dev.CreateGeometryBuffers(glvk.GeometryBuffersDescriptor{
		Label:         "triangle",
		VertexBuffers: []glvk.VertexBufferBinding{{Buffer: vbo}},
		Layouts:       vertexLayout,
	})
	if err != nil {
		return nil, err
	}

	target, err := dev.CreateTexture(gputypes.TextureDescriptor{
		Label:         "target",
		Size:          gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	view, err := dev.CreateTextureView(target, gputypes.TextureViewDescriptor{Label: "target"})
	if err != nil {
		return nil, err
	}

	pass, err := dev.CreateRenderPass(glvk.RenderPassDescriptor{
		Label: "main",
		Attachments: []glvk.AttachmentDescription{{
			Format:      gputypes.TextureFormatRGBA8Unorm,
			LoadOp:      gputypes.LoadOpClear,
			StoreOp:     gputypes.StoreOpStore,
			FinalLayout: glvk.ImageLayoutTransferSrc,
		}},
		Subpasses: []glvk.SubpassDescription{{
			ColorAttachments: []glvk.AttachmentReference{{Attachment: 0, Layout: glvk.ImageLayoutColorAttachment}},
		}},
	})
	if err != nil {
		return nil, err
	}
	fb, err := dev.CreateFramebuffer(glvk.FramebufferDescriptor{Label: "main", RenderPass: pass, Attachments: []glvk.TextureView{view}})
	if err != nil {
		return nil, err
	}

	layout, err := dev.CreatePipelineLayout(glvk.PipelineLayoutDescriptor{Label: "empty"})
	if err != nil {
		return nil, err
	}
	vs, err := dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{
		Label:  "vertex",
		Source: gputypes.ShaderSourceGLSL{Code: vertexGLSL, Stage: gputypes.ShaderStageVertex},
	})
	if err != nil {
		return nil, err
	}
	fs, err := dev.CreateShaderModule(gputypes.ShaderModuleDescriptor{
		Label:  "fragment",
		Source: gputypes.ShaderSourceGLSL{Code: fragmentGLSL, Stage: gputypes.ShaderStageFragment},
	})
	if err != nil {
		return nil, err
	}
	prog, err := dev.CreateShaderProgram(glvk.ShaderProgramDescriptor{
		Label:  "triangle",
		Layout: layout,
		Stages: []glvk.ProgramStage{{Module: vs}, {Module: fs}},
	})
	if err != nil {
		return nil, err
	}
	pipeline, err := dev.CreatePipeline(glvk.PipelineDescriptor{
		Label:         "triangle",
		Layout:        layout,
		Program:       prog,
		RenderPass:    pass,
		VertexBuffers: vertexLayout,
		Primitive:     gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Multisample:   gputypes.DefaultMultisampleState(),
		Targets: []gputypes.ColorTargetState{{
			Format:    gputypes.TextureFormatRGBA8Unorm,
			WriteMask: gputypes.ColorWriteMaskAll,
		}},
	})
	if err != nil {
		return nil, err
	}

	size := uint64(width) * uint64(height) * 4
	readback, err := dev.CreateBuffer(gputypes.BufferDescriptor{
		Label: "readback",
		Size:  size,
		Usage: gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead,
	})
	if err != nil {
		return nil, err
	}

	pool, err := dev.CreateCommandPool(glvk.CommandPoolDescriptor{Label: "frame"})
	if err != nil {
		return nil, err
	}
	cb := pool.Allocate(glvk.CommandBufferLevelPrimary)
	if err := cb.Begin(glvk.BeginInfo{}); err != nil {
		return nil, err
	}
	cb.BeginRenderPass(pass, fb, glvk.Rect2D{Width: width, Height: height},
		[]glvk.ClearValue{{Color: gputypes.Color{R: 0.1, G: 0.1, B: 0.15, A: 1}}}, glvk.SubpassContentsInline)
	cb.BindPipeline(pipeline)
	cb.BindGeometryBuffers(geometry)
	cb.Draw(3, 1, 0, 0)
	cb.EndRenderPass()
	cb.CopyImageToBuffer(target, glvk.ImageLayoutTransferSrc, readback, glvk.BufferImageCopy{
		Extent: gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	})
	if err := cb.End(); err != nil {
		return nil, err
	}

	fence := dev.CreateFence(false)
	if err := dev.Queue().Submit(glvk.SubmitInfo{CommandBuffers: []*glvk.CommandBuffer{cb}}, fence); err != nil {
		return nil, err
	}
	if err := fence.Wait(time.Second); err != nil {
		return nil, err
	}

	pixels := make([]byte, size)
	if err := dev.ReadBuffer(readback, 0, pixels); err != nil {
		return nil, err
	}
	return pixels, nil
}

// savePNG writes bottom-up RGBA rows as a top-down PNG, upscaled by scale.
func savePNG(path string, pixels []byte, width, height, scale int) error {
	var img image.Image = flipRows(pixels, width, height)
	if scale > 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, width*scale, height*scale))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = dst
	}

	f, err := os.Create(path) // #nosec G304 -- user-specified output path
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// flipRows converts bottom-up rows as read back from GL into an image.
func flipRows(pixels []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	stride := width * 4
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:], pixels[(height-1-y)*stride:(height-y)*stride])
	}
	return img
}
