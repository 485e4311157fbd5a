package renderer

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/plot3d-go/plot3d/common"
	"github.com/plot3d-go/plot3d/profiler"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	pool *texturePool

	// conversionPool manages a bounded set of reusable goroutines for the
	// parallel per-plot geometry conversion phase.
	conversionPool    worker.DynamicWorkerPool
	conversionWorkers int

	prof *profiler.Profiler

	logf func(format string, args ...any)

	// Pre-creation config collected from builder options
	weight               WeightFunction
	quadScale            float32
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	surfaceWidth         int
	surfaceHeight        int

	initialized bool
}

// Renderer is the offscreen 3D plot rendering system. Each visible plot widget
// owns a PlotDrawData record; once per GUI frame the host calls RenderFrame
// with every record, and the renderer runs the two-pass transparency pipeline
// for each renderable plot into that plot's own color texture. The host then
// draws the color textures in its ordinary 2D draw list.
//
// The renderer is frame-stepped and synchronous: RenderFrame runs to
// completion on the calling goroutine, and all GPU work is submitted before it
// returns. Per-plot failures are never fatal — they are logged through the
// debug log function and the plot is skipped for the frame.
type Renderer interface {
	// Init acquires the GPU and builds the pipelines and persistent buffers.
	// Must be called once before RenderFrame or any texture operation; after
	// Shutdown, Init may be called again.
	//
	// Returns:
	//   - error: an error if GPU acquisition or pipeline creation failed
	Init() error

	// Shutdown releases every pooled texture and all backend GPU resources,
	// returning the renderer to its pre-Init state.
	Shutdown()

	// RenderFrame processes one frame for all plots: records flagged
	// ShouldDelete have their textures released and are dropped; the survivors
	// are converted, (re)allocated on resize or first render, and rendered
	// through the accumulate and composite passes. Every surviving record's
	// vertex and index buffers are truncated before returning, whether or not
	// it rendered.
	//
	// Parameters:
	//   - plots: the per-plot draw records for this frame
	//
	// Returns:
	//   - []*PlotDrawData: the retained record list with deleted records
	//     filtered out; the caller must use this as next frame's input
	RenderFrame(plots []*PlotDrawData) []*PlotDrawData

	// CreateColorTexture creates an RGBA8 color texture and tracks it in the
	// texture pool.
	//
	// Parameters:
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - TextureHandle: the new handle, or TextureHandleInvalid if the size
	//     is not positive or creation failed
	CreateColorTexture(width, height int) TextureHandle

	// CreateDepthTexture creates a 24-bit depth texture and tracks it in the
	// texture pool.
	//
	// Parameters:
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - TextureHandle: the new handle, or TextureHandleInvalid on failure
	CreateDepthTexture(width, height int) TextureHandle

	// CreateAccumTexture creates an RGBA16F accumulation texture and tracks it
	// in the texture pool.
	//
	// Parameters:
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - TextureHandle: the new handle, or TextureHandleInvalid on failure
	CreateAccumTexture(width, height int) TextureHandle

	// CreateRevealTexture creates an R16F reveal texture and tracks it in the
	// texture pool.
	//
	// Parameters:
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - TextureHandle: the new handle, or TextureHandleInvalid on failure
	CreateRevealTexture(width, height int) TextureHandle

	// DestroyTexture releases a pooled texture. Unknown, invalid, and
	// already-destroyed handles are ignored.
	//
	// Parameters:
	//   - h: the handle to release
	DestroyTexture(h TextureHandle)

	// TextureCount returns the number of live textures in the pool.
	//
	// Returns:
	//   - int: the live texture count
	TextureCount() int

	// Resize reconfigures the presentation surface after a window resize.
	// Only meaningful for a renderer built with WithSurface.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: ErrNoSurface if the renderer is headless
	Resize(width, height int) error

	// Present blits a plot's color texture to the surface and presents it.
	// Only meaningful for a renderer built with WithSurface.
	//
	// Parameters:
	//   - h: the color texture handle to present
	//
	// Returns:
	//   - error: ErrNoSurface if the renderer is headless, or an error if the
	//     handle is not tracked
	Present(h TextureHandle) error
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type.
// By default the renderer is headless and renders only into pooled offscreen
// textures; pass WithSurface to add a presentation swapchain.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., BackendTypeWGPU)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:                &sync.Mutex{},
		backendType:       backendType,
		pool:              newTexturePool(),
		conversionWorkers: max(runtime.NumCPU()-1, 1),
		logf:              log.Printf,
		weight:            DefaultWeightFunction,
		quadScale:         DefaultCompositeQuadScale,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter, the
	// weight constants) are available before the backend is constructed.
	for _, opt := range options {
		opt(r)
	}

	presentMode := wgpu.PresentModeFifo
	if r.pendingPresentMode != nil && *r.pendingPresentMode == PresentModeUncapped {
		presentMode = wgpu.PresentModeImmediate
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(r.surfaceDescriptor, r.forceFallbackAdapter, presentMode, r.weight, r.quadScale)
	}

	// Queue size of 256 accommodates typical plot counts with headroom.
	r.conversionPool = worker.NewDynamicWorkerPool(r.conversionWorkers, 256, 1*time.Second)

	return r
}

func (r *renderer) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if err := r.backend.Init(); err != nil {
		return fmt.Errorf("renderer init: %w", err)
	}
	if r.surfaceDescriptor != nil {
		if err := r.backend.ConfigureSurface(r.surfaceWidth, r.surfaceHeight); err != nil {
			r.backend.Shutdown()
			return fmt.Errorf("renderer init: %w", err)
		}
	}
	r.initialized = true
	return nil
}

func (r *renderer) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return
	}
	// Pooled textures hold backend resources, so they go first.
	r.pool.releaseAll()
	r.backend.Shutdown()
	r.initialized = false
}

func (r *renderer) RenderFrame(plots []*PlotDrawData) []*PlotDrawData {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		r.logf("plot renderer: RenderFrame called before Init")
		return plots
	}

	// First pass: deletions. Deleted records lose their textures and drop out
	// of the retained list before anything renders; deletion always wins over
	// the other flags.
	retained := make([]*PlotDrawData, 0, len(plots))
	for _, p := range plots {
		if p.ShouldDelete {
			p.releaseTextures(r.pool)
			continue
		}
		retained = append(retained, p)
	}

	// CPU prep: pack every renderable plot's geometry, in parallel when there
	// is more than one. GPU encoding below stays on this goroutine.
	convertPlots(r.conversionPool, retained)

	// Second pass: render each visible plot through accumulate + composite.
	rendered := 0
	for _, p := range retained {
		if r.renderPlot(p) {
			rendered++
		}
	}

	// Third pass: every surviving record's geometry is consumed, rendered or
	// not — next frame's producer starts from empty buffers.
	for _, p := range retained {
		p.ResetBuffers()
	}

	if r.prof != nil {
		r.prof.Tick(r.pool.count(), rendered)
	}

	return retained
}

// renderPlot runs the full per-plot pipeline: resize handling, lazy texture
// allocation, target validation, and the two render passes. Returns true if
// the plot's color texture was redrawn this frame. Failures log and skip the
// plot; the next frame retries from whatever state remains.
func (r *renderer) renderPlot(p *PlotDrawData) bool {
	if !p.ShouldRender {
		return false
	}

	if p.ShouldResize {
		// Drop all four targets; they are recreated below at the new size.
		p.releaseTextures(r.pool)
		p.ShouldResize = false
	}

	// Each target is allocated independently, so a partial failure is retried
	// on the next frame rather than wedging the plot.
	if p.ColorTexture == TextureHandleInvalid {
		p.ColorTexture = r.createTexture(p.TextureSize, TextureFormatColorRGBA8)
	}
	if p.DepthTexture == TextureHandleInvalid {
		p.DepthTexture = r.createTexture(p.TextureSize, TextureFormatDepth24)
	}
	if p.AccumTexture == TextureHandleInvalid {
		p.AccumTexture = r.createTexture(p.TextureSize, TextureFormatAccumRGBA16F)
	}
	if p.RevealTexture == TextureHandleInvalid {
		p.RevealTexture = r.createTexture(p.TextureSize, TextureFormatRevealR16F)
	}

	color := r.pool.get(p.ColorTexture)
	depth := r.pool.get(p.DepthTexture)
	accum := r.pool.get(p.AccumTexture)
	reveal := r.pool.get(p.RevealTexture)
	if color == nil || depth == nil || accum == nil || reveal == nil {
		r.logf("plot renderer: incomplete render targets for %dx%d plot, skipping",
			p.TextureSize.Width, p.TextureSize.Height)
		return false
	}

	if len(p.packed) == 0 || len(p.Indices) == 0 {
		return false
	}

	uniforms := plotUniforms{
		Viewport: [2]float32{float32(p.TextureSize.Width), float32(p.TextureSize.Height)},
	}
	p.Rotation.Normalized().RotationMatrix(uniforms.Rotation[:])

	err := r.backend.RenderAccumulate(
		accumulateTargets{
			accum:  accum.gpu,
			reveal: reveal.gpu,
			depth:  depth.gpu,
			width:  uint32(p.TextureSize.Width),
			height: uint32(p.TextureSize.Height),
		},
		common.SliceToBytes(p.packed),
		common.SliceToBytes(p.Indices),
		len(p.Indices),
		uniforms,
	)
	if err != nil {
		r.logf("plot renderer: accumulate pass failed: %v", err)
		return false
	}

	if err := r.backend.RenderComposite(color.gpu, accum.gpu, reveal.gpu); err != nil {
		r.logf("plot renderer: composite pass failed: %v", err)
		return false
	}

	return true
}

// createTexture allocates one pooled texture, degrading to
// TextureHandleInvalid with a debug log line on any failure.
func (r *renderer) createTexture(size common.Size, format TextureFormat) TextureHandle {
	if !size.Positive() {
		r.logf("plot renderer: refusing to create %s texture with size %dx%d",
			format, size.Width, size.Height)
		return TextureHandleInvalid
	}

	gpu, err := r.backend.CreateTexture(size, format)
	if err != nil {
		r.logf("plot renderer: %v", err)
		return TextureHandleInvalid
	}

	return r.pool.add(&trackedTexture{
		gpu:    gpu,
		size:   size,
		format: format,
		filter: format.Filter(),
	})
}

func (r *renderer) CreateColorTexture(width, height int) TextureHandle {
	return r.createTrackedTexture(width, height, TextureFormatColorRGBA8)
}

func (r *renderer) CreateDepthTexture(width, height int) TextureHandle {
	return r.createTrackedTexture(width, height, TextureFormatDepth24)
}

func (r *renderer) CreateAccumTexture(width, height int) TextureHandle {
	return r.createTrackedTexture(width, height, TextureFormatAccumRGBA16F)
}

func (r *renderer) CreateRevealTexture(width, height int) TextureHandle {
	return r.createTrackedTexture(width, height, TextureFormatRevealR16F)
}

func (r *renderer) createTrackedTexture(width, height int, format TextureFormat) TextureHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		r.logf("plot renderer: texture creation before Init")
		return TextureHandleInvalid
	}
	return r.createTexture(common.Size{Width: width, Height: height}, format)
}

func (r *renderer) DestroyTexture(h TextureHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pool.release(h)
}

func (r *renderer) TextureCount() int {
	return r.pool.count()
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	r.surfaceWidth = width
	r.surfaceHeight = height
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Present(h TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	t := r.pool.get(h)
	if t == nil {
		return fmt.Errorf("present: texture handle %d is not tracked", h)
	}
	return r.backend.PresentTexture(t.gpu)
}
