package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/plot3d-go/plot3d/profiler"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithWeightFunction overrides the transparency depth-weight curve baked into
// the accumulate shader. DefaultWeightFunction reproduces the stock constants.
//
// Parameters:
//   - w: the weight curve constants to bake into the accumulate shader
//
// Returns:
//   - RendererBuilderOption: a function that applies the weight function option to a renderer
func WithWeightFunction(w WeightFunction) RendererBuilderOption {
	return func(r *renderer) {
		r.weight = w
	}
}

// WithCompositeQuadScale overrides the composite pass's quad overscan factor.
// The default is DefaultCompositeQuadScale.
//
// Parameters:
//   - scale: the clip-space scale applied to the composite quad
//
// Returns:
//   - RendererBuilderOption: a function that applies the quad scale option to a renderer
func WithCompositeQuadScale(scale float32) RendererBuilderOption {
	return func(r *renderer) {
		r.quadScale = scale
	}
}

// WithSurface attaches a presentation surface so Present can blit a plot's
// color texture to a window. The surface descriptor is platform-specific and
// is typically obtained from Window.SurfaceDescriptor(). Without this option
// the renderer is fully headless and Present returns ErrNoSurface.
//
// Parameters:
//   - descriptor: the platform-specific surface descriptor for WebGPU surface creation
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurface(descriptor *wgpu.SurfaceDescriptor, width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.surfaceDescriptor = descriptor
		r.surfaceWidth = width
		r.surfaceHeight = height
	}
}

// WithPresentMode sets the surface present mode which controls how frames are
// delivered to the display. The default is PresentModeVSync. Only meaningful
// together with WithSurface.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Useful for CI environments without a GPU.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithDebugLogf overrides the destination of the renderer's non-fatal
// diagnostic messages. The default is log.Printf; pass a no-op function to
// silence them.
//
// Parameters:
//   - logf: the Printf-style function diagnostics are written to
//
// Returns:
//   - RendererBuilderOption: a function that applies the debug log option to a renderer
func WithDebugLogf(logf func(format string, args ...any)) RendererBuilderOption {
	return func(r *renderer) {
		r.logf = logf
	}
}

// WithProfiling enables per-frame profiling: FPS, heap, GC, live texture and
// rendered plot counts, logged once per second.
//
// Parameters:
//   - enabled: true to enable the profiler
//
// Returns:
//   - RendererBuilderOption: a function that applies the profiling option to a renderer
func WithProfiling(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		if enabled {
			r.prof = profiler.NewProfiler()
		} else {
			r.prof = nil
		}
	}
}

// WithConversionWorkers overrides the number of worker goroutines used for the
// parallel geometry conversion phase. The default is NumCPU-1, minimum 1.
//
// Parameters:
//   - workers: the worker count; values below 1 are clamped to 1
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count option to a renderer
func WithConversionWorkers(workers int) RendererBuilderOption {
	return func(r *renderer) {
		r.conversionWorkers = max(workers, 1)
	}
}
