package renderer

import (
	"github.com/plot3d-go/plot3d/common"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
// Only meaningful when the renderer was built with WithSurface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// BackendTexture is an opaque GPU texture owned by a renderer backend. The
// renderer tracks these through its texture pool and never inspects them;
// only the backend that created a texture knows its concrete type.
type BackendTexture interface {
	// Release frees the GPU texture and its view. Must be called exactly once;
	// the texture pool enforces this.
	Release()
}

// accumulateTargets bundles the three offscreen attachments of one plot's
// transparency accumulate pass, plus their shared dimensions.
type accumulateTargets struct {
	accum  BackendTexture
	reveal BackendTexture
	depth  BackendTexture
	width  uint32
	height uint32
}

// plotUniforms is the accumulate pass's uniform block. Layout must match the
// PlotUniforms struct in the accumulate shader: a column-major 4x4 rotation
// matrix followed by the viewport size in pixels, padded to a 16-byte multiple.
type plotUniforms struct {
	Rotation [16]float32
	Viewport [2]float32
	_        [2]float32
}

// wgpuRendererBackend is the concrete backend interface for the WebGPU API.
type wgpuRendererBackend interface {
	// Init acquires the GPU: instance, adapter, device, and queue, then builds
	// the render pipelines, samplers, and shared buffers. Must be called once
	// before any other method; calling other methods first returns
	// ErrNotInitialized.
	//
	// Returns:
	//   - error: an error if no suitable adapter or device could be acquired,
	//     or if pipeline creation failed
	Init() error

	// Shutdown releases every GPU object the backend created. The backend
	// returns to its pre-Init state and may be initialized again.
	Shutdown()

	// CreateTexture creates an offscreen texture of the given size and format,
	// usable both as a render attachment and as a sampled texture.
	//
	// Parameters:
	//   - size: the texture dimensions in pixels; must be positive
	//   - format: one of the renderer's fixed texture formats
	//
	// Returns:
	//   - BackendTexture: the created texture
	//   - error: an error if the texture could not be created
	CreateTexture(size common.Size, format TextureFormat) (BackendTexture, error)

	// RenderAccumulate encodes and submits one plot's accumulate pass: uploads
	// the geometry and uniforms, clears the accumulation, reveal, and depth
	// targets, and draws the plot's triangles with weighted additive blending.
	//
	// Parameters:
	//   - targets: the accumulation, reveal, and depth attachments
	//   - vertexData: the packed vertex bytes (position float32x3 + color unorm8x4)
	//   - indexData: the index bytes (uint32 indices)
	//   - indexCount: the number of indices to draw
	//   - uniforms: the per-plot uniform block (rotation + viewport)
	//
	// Returns:
	//   - error: an error if command encoding or submission failed
	RenderAccumulate(targets accumulateTargets, vertexData, indexData []byte, indexCount int, uniforms plotUniforms) error

	// RenderComposite encodes and submits one plot's composite pass: resolves
	// the accumulation and reveal textures into the plot's final color texture
	// with a full-screen quad.
	//
	// Parameters:
	//   - color: the color texture to composite into
	//   - accum: the accumulation texture from the accumulate pass
	//   - reveal: the reveal texture from the accumulate pass
	//
	// Returns:
	//   - error: an error if command encoding or submission failed
	RenderComposite(color, accum, reveal BackendTexture) error

	// ConfigureSurface (re)configures the presentation surface at the given
	// size. Only valid for backends constructed with a surface descriptor;
	// call again whenever the window is resized.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: an error if the backend has no surface or configuration failed
	ConfigureSurface(width, height int) error

	// PresentTexture blits the given color texture to the configured surface
	// and presents it. Only valid after ConfigureSurface.
	//
	// Parameters:
	//   - color: the plot color texture to present
	//
	// Returns:
	//   - error: an error if the backend has no surface or presentation failed
	PresentTexture(color BackendTexture) error
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
