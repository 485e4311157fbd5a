package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/plot3d-go/plot3d/common"
	"github.com/plot3d-go/plot3d/renderer/pipeline"
	"github.com/plot3d-go/plot3d/renderer/shader"
)

var (
	// ErrNotInitialized is returned when a backend method is called before Init
	// or after Shutdown.
	ErrNotInitialized = errors.New("renderer backend not initialized")

	// ErrNoSurface is returned from the presentation methods of a backend that
	// was constructed without a surface descriptor.
	ErrNoSurface = errors.New("renderer backend has no presentation surface")
)

// wgpuTexture is the WebGPU implementation of BackendTexture: the texture plus
// its default view, created together and released together.
type wgpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

var _ BackendTexture = &wgpuTexture{}

func (t *wgpuTexture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// registeredPipeline pairs a configured Pipeline with the bind group layouts
// created during registration, so bind groups can be built against them later.
type registeredPipeline struct {
	pipeline pipeline.Pipeline
	layouts  []*wgpu.BindGroupLayout
}

func (r *registeredPipeline) release() {
	if r.pipeline != nil && r.pipeline.RenderPipeline() != nil {
		r.pipeline.RenderPipeline().Release()
		r.pipeline.SetRenderPipeline(nil)
	}
	for _, l := range r.layouts {
		if l != nil {
			l.Release()
		}
	}
	r.layouts = nil
}

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	// Construction-time configuration, immutable after New.
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode
	weight               WeightFunction
	quadScale            float32

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surface           *wgpu.Surface
	surfaceFormat     *wgpu.TextureFormat
	surfaceConfigured bool

	accumulate *registeredPipeline
	composite  *registeredPipeline
	// blit is registered lazily in ConfigureSurface because its color target
	// format is the surface format, unknown until a surface exists.
	blit *registeredPipeline

	uniformBuffer    *wgpu.Buffer
	uniformBindGroup *wgpu.BindGroup
	sampler          *wgpu.Sampler

	// Geometry staging buffers, grown on demand and reused across plots.
	vertexBuffer   *wgpu.Buffer
	vertexCapacity uint64
	indexBuffer    *wgpu.Buffer
	indexCapacity  uint64

	// The composite pass's quad, uploaded once.
	quadVertexBuffer *wgpu.Buffer
	quadIndexBuffer  *wgpu.Buffer

	initialized bool
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, presentMode wgpu.PresentMode, weight WeightFunction, quadScale float32) wgpuRendererBackend {
	return &wgpuRendererBackendImpl{
		mu:                   &sync.Mutex{},
		surfaceDescriptor:    surfaceDescriptor,
		forceFallbackAdapter: forceFallbackAdapter,
		presentMode:          presentMode,
		weight:               weight,
		quadScale:            quadScale,
	}
}

func (b *wgpuRendererBackendImpl) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	// WebGPU device interaction must stay on one OS thread.
	runtime.LockOSThread()

	b.instance = wgpu.CreateInstance(nil)
	if b.surfaceDescriptor != nil {
		b.surface = b.instance.CreateSurface(b.surfaceDescriptor)
	}

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.shutdownLocked()
		return fmt.Errorf("failed to acquire adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Plot Renderer Device",
	})
	if err != nil {
		b.shutdownLocked()
		return fmt.Errorf("failed to acquire device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	if err := b.createStaticResources(); err != nil {
		b.shutdownLocked()
		return err
	}

	b.initialized = true
	return nil
}

// createStaticResources builds the pipelines, uniform buffer, sampler, and
// composite quad that live for the whole backend lifetime.
func (b *wgpuRendererBackendImpl) createStaticResources() error {
	var err error

	b.accumulate, err = b.registerRenderPipeline(newAccumulatePipeline(b.weight))
	if err != nil {
		return fmt.Errorf("failed to create accumulate pipeline: %w", err)
	}
	b.composite, err = b.registerRenderPipeline(newCompositePipeline(b.quadScale))
	if err != nil {
		return fmt.Errorf("failed to create composite pipeline: %w", err)
	}

	var u plotUniforms
	b.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Plot Uniform Buffer",
		Size:  uint64(len(common.StructToBytes(&u))),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform buffer: %w", err)
	}

	b.uniformBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Plot Uniform Bind Group",
		Layout: b.accumulate.layouts[0],
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform bind group: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Composite Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	// Quad corners in clip space with their texture coordinates; v runs
	// downward in texture space, so the bottom-left corner samples v=1.
	quadVertices := []float32{
		-1, -1, 0, 1,
		1, -1, 1, 1,
		1, 1, 1, 0,
		-1, 1, 0, 0,
	}
	quadIndices := []uint32{0, 1, 2, 0, 2, 3}

	b.quadVertexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Composite Quad Vertex Buffer",
		Size:  uint64(len(common.SliceToBytes(quadVertices))),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create quad vertex buffer: %w", err)
	}
	b.queue.WriteBuffer(b.quadVertexBuffer, 0, common.SliceToBytes(quadVertices))

	b.quadIndexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Composite Quad Index Buffer",
		Size:  uint64(len(common.SliceToBytes(quadIndices))),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create quad index buffer: %w", err)
	}
	b.queue.WriteBuffer(b.quadIndexBuffer, 0, common.SliceToBytes(quadIndices))

	return nil
}

// registerRenderPipeline creates the shader modules, bind group layouts,
// pipeline layout, and GPU render pipeline for a configured Pipeline. The
// created bind group layouts are returned alongside the pipeline so callers
// can build bind groups against them.
func (b *wgpuRendererBackendImpl) registerRenderPipeline(p pipeline.Pipeline) (*registeredPipeline, error) {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return nil, errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: vertexShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShader.Source(),
		},
	})
	if err != nil {
		return nil, err
	}
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fragmentShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentShader.Source(),
		},
	})
	if err != nil {
		return nil, err
	}

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	maxGroup := -1
	for g := range merged {
		if g > maxGroup {
			maxGroup = g
		}
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, desc := range merged {
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	var depthStencil *wgpu.DepthStencilState
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		depthCompare := wgpu.CompareFunctionLess
		if !p.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionAlways
		}
		depthStencil = &wgpu.DepthStencilState{
			Format:            p.DepthFormat(),
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    p.ColorTargets(),
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return nil, err
	}
	p.SetRenderPipeline(created)

	return &registeredPipeline{pipeline: p, layouts: bindGroupLayouts}, nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(size common.Size, format TextureFormat) (BackendTexture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if !size.Positive() {
		return nil, fmt.Errorf("texture size must be positive, got %dx%d", size.Width, size.Height)
	}

	usage := wgpu.TextureUsageRenderAttachment
	if format != TextureFormatDepth24 {
		// Color-class textures are sampled by the composite/blit passes and by
		// the host GUI; depth is only ever a render attachment.
		usage |= wgpu.TextureUsageTextureBinding
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Plot Texture " + format.String(),
		Size: wgpu.Extent3D{
			Width:              uint32(size.Width),
			Height:             uint32(size.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format.wgpuFormat(),
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s texture: %w", format, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create %s texture view: %w", format, err)
	}

	return &wgpuTexture{texture: tex, view: view}, nil
}

// ensureBufferCapacity grows a staging buffer to at least the needed size,
// doubling from a 64 KiB floor so per-frame geometry churn settles quickly.
func (b *wgpuRendererBackendImpl) ensureBufferCapacity(buf **wgpu.Buffer, capacity *uint64, needed uint64, usage wgpu.BufferUsage, label string) error {
	if *buf != nil && *capacity >= needed {
		return nil
	}

	newCapacity := *capacity
	if newCapacity < 1<<16 {
		newCapacity = 1 << 16
	}
	for newCapacity < needed {
		newCapacity *= 2
	}

	if *buf != nil {
		(*buf).Release()
		*buf = nil
	}

	created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  newCapacity,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to grow %s to %d bytes: %w", label, newCapacity, err)
	}
	*buf = created
	*capacity = newCapacity
	return nil
}

func (b *wgpuRendererBackendImpl) RenderAccumulate(targets accumulateTargets, vertexData, indexData []byte, indexCount int, uniforms plotUniforms) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}

	accum, ok := targets.accum.(*wgpuTexture)
	if !ok {
		return errors.New("accumulate target is not a WebGPU texture")
	}
	reveal, ok := targets.reveal.(*wgpuTexture)
	if !ok {
		return errors.New("reveal target is not a WebGPU texture")
	}
	depth, ok := targets.depth.(*wgpuTexture)
	if !ok {
		return errors.New("depth target is not a WebGPU texture")
	}

	if err := b.ensureBufferCapacity(&b.vertexBuffer, &b.vertexCapacity, uint64(len(vertexData)), wgpu.BufferUsageVertex, "Plot Vertex Buffer"); err != nil {
		return err
	}
	if err := b.ensureBufferCapacity(&b.indexBuffer, &b.indexCapacity, uint64(len(indexData)), wgpu.BufferUsageIndex, "Plot Index Buffer"); err != nil {
		return err
	}

	b.queue.WriteBuffer(b.vertexBuffer, 0, vertexData)
	b.queue.WriteBuffer(b.indexBuffer, 0, indexData)
	b.queue.WriteBuffer(b.uniformBuffer, 0, common.StructToBytes(&uniforms))

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	// Both color targets clear to zero: accumulation starts empty and reveal
	// accumulates alpha from zero. Depth is tested but never written, so the
	// cleared depth buffer only rejects fragments behind the far plane.
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       accum.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
			},
			{
				View:       reveal.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	pass.SetPipeline(b.accumulate.pipeline.RenderPipeline())
	pass.SetBindGroup(0, b.uniformBindGroup, nil)
	pass.SetVertexBuffer(0, b.vertexBuffer, 0, uint64(len(vertexData)))
	pass.SetIndexBuffer(b.indexBuffer, wgpu.IndexFormatUint32, 0, uint64(len(indexData)))
	pass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	return nil
}

func (b *wgpuRendererBackendImpl) RenderComposite(color, accum, reveal BackendTexture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}

	colorTex, ok := color.(*wgpuTexture)
	if !ok {
		return errors.New("color target is not a WebGPU texture")
	}
	accumTex, ok := accum.(*wgpuTexture)
	if !ok {
		return errors.New("accumulate source is not a WebGPU texture")
	}
	revealTex, ok := reveal.(*wgpuTexture)
	if !ok {
		return errors.New("reveal source is not a WebGPU texture")
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Composite Bind Group",
		Layout: b.composite.layouts[0],
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: accumTex.view},
			{Binding: 1, TextureView: revealTex.view},
			{Binding: 2, Sampler: b.sampler},
		},
	})
	if err != nil {
		return err
	}
	defer bindGroup.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       colorTex.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})

	pass.SetPipeline(b.composite.pipeline.RenderPipeline())
	pass.SetBindGroup(0, bindGroup, nil)
	pass.SetVertexBuffer(0, b.quadVertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(b.quadIndexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(6, 1, 0, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	if b.surface == nil {
		return ErrNoSurface
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.blit == nil {
		blit, err := b.registerRenderPipeline(newBlitPipeline(*b.surfaceFormat))
		if err != nil {
			return fmt.Errorf("failed to create blit pipeline: %w", err)
		}
		b.blit = blit
	}

	b.surfaceConfigured = true
	return nil
}

func (b *wgpuRendererBackendImpl) PresentTexture(color BackendTexture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	if b.surface == nil || !b.surfaceConfigured {
		return ErrNoSurface
	}

	colorTex, ok := color.(*wgpuTexture)
	if !ok {
		return errors.New("presented texture is not a WebGPU texture")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Blit Bind Group",
		Layout: b.blit.layouts[0],
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: colorTex.view},
			{Binding: 1, Sampler: b.sampler},
		},
	})
	if err != nil {
		return err
	}
	defer bindGroup.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})

	pass.SetPipeline(b.blit.pipeline.RenderPipeline())
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdownLocked()
}

func (b *wgpuRendererBackendImpl) shutdownLocked() {
	if b.quadIndexBuffer != nil {
		b.quadIndexBuffer.Release()
		b.quadIndexBuffer = nil
	}
	if b.quadVertexBuffer != nil {
		b.quadVertexBuffer.Release()
		b.quadVertexBuffer = nil
	}
	if b.indexBuffer != nil {
		b.indexBuffer.Release()
		b.indexBuffer = nil
	}
	b.indexCapacity = 0
	if b.vertexBuffer != nil {
		b.vertexBuffer.Release()
		b.vertexBuffer = nil
	}
	b.vertexCapacity = 0
	if b.uniformBindGroup != nil {
		b.uniformBindGroup.Release()
		b.uniformBindGroup = nil
	}
	if b.uniformBuffer != nil {
		b.uniformBuffer.Release()
		b.uniformBuffer = nil
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.blit != nil {
		b.blit.release()
		b.blit = nil
	}
	if b.composite != nil {
		b.composite.release()
		b.composite = nil
	}
	if b.accumulate != nil {
		b.accumulate.release()
		b.accumulate = nil
	}

	b.surfaceConfigured = false
	b.surfaceFormat = nil
	b.surface = nil
	b.queue = nil
	b.device = nil
	b.adapter = nil
	b.instance = nil
	b.initialized = false
}

// mergeBindGroupLayouts merges the bind group layout descriptors from a vertex
// and fragment shader into a unified set keyed by group index. Entries with
// the same binding number have their visibility flags ORed together; entries
// unique to one stage keep their declared visibility.
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	groupIndices := make(map[int]bool)
	for g := range vertexLayouts {
		groupIndices[g] = true
	}
	for g := range fragmentLayouts {
		groupIndices[g] = true
	}

	for g := range groupIndices {
		vDesc, hasV := vertexLayouts[g]
		fDesc, hasF := fragmentLayouts[g]

		switch {
		case hasV && !hasF:
			merged[g] = vDesc
		case hasF && !hasV:
			merged[g] = fDesc
		default:
			entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range vDesc.Entries {
				entryMap[e.Binding] = e
			}
			for _, e := range fDesc.Entries {
				if existing, ok := entryMap[e.Binding]; ok {
					existing.Visibility |= e.Visibility
					entryMap[e.Binding] = existing
				} else {
					entryMap[e.Binding] = e
				}
			}

			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
			for _, e := range entryMap {
				entries = append(entries, e)
			}
			// sort by binding for deterministic layout
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Binding < entries[j].Binding
			})

			merged[g] = wgpu.BindGroupLayoutDescriptor{
				Label:   vDesc.Label,
				Entries: entries,
			}
		}
	}

	return merged
}
