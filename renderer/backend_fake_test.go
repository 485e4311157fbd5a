package renderer

import (
	"errors"
	"sync"

	"github.com/plot3d-go/plot3d/common"
)

// fakeTexture records its own lifecycle so tests can assert on release
// behavior without a GPU.
type fakeTexture struct {
	size     common.Size
	format   TextureFormat
	released bool
}

func (t *fakeTexture) Release() {
	t.released = true
}

type fakeAccumulateCall struct {
	width, height uint32
	vertexBytes   int
	indexBytes    int
	indexCount    int
	uniforms      plotUniforms
}

// fakeBackend is an in-memory RendererBackend used by the renderer tests.
// It tracks every created texture and every pass submission.
type fakeBackend struct {
	initialized bool
	hasSurface  bool
	shutdowns   int

	created []*fakeTexture

	accumulateCalls []fakeAccumulateCall
	compositeCalls  int
	presented       []BackendTexture

	failCreateTexture bool
	failAccumulate    bool
}

var _ RendererBackend = &fakeBackend{}

func (b *fakeBackend) Init() error {
	b.initialized = true
	return nil
}

func (b *fakeBackend) Shutdown() {
	b.initialized = false
	b.shutdowns++
}

func (b *fakeBackend) CreateTexture(size common.Size, format TextureFormat) (BackendTexture, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if b.failCreateTexture {
		return nil, errors.New("texture creation forced to fail")
	}
	t := &fakeTexture{size: size, format: format}
	b.created = append(b.created, t)
	return t, nil
}

func (b *fakeBackend) RenderAccumulate(targets accumulateTargets, vertexData, indexData []byte, indexCount int, uniforms plotUniforms) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if b.failAccumulate {
		return errors.New("accumulate pass forced to fail")
	}
	b.accumulateCalls = append(b.accumulateCalls, fakeAccumulateCall{
		width:       targets.width,
		height:      targets.height,
		vertexBytes: len(vertexData),
		indexBytes:  len(indexData),
		indexCount:  indexCount,
		uniforms:    uniforms,
	})
	return nil
}

func (b *fakeBackend) RenderComposite(color, accum, reveal BackendTexture) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	b.compositeCalls++
	return nil
}

func (b *fakeBackend) ConfigureSurface(width, height int) error {
	if !b.hasSurface {
		return ErrNoSurface
	}
	return nil
}

func (b *fakeBackend) PresentTexture(color BackendTexture) error {
	if !b.hasSurface {
		return ErrNoSurface
	}
	b.presented = append(b.presented, color)
	return nil
}

// releasedCount returns how many created textures have been released.
func (b *fakeBackend) releasedCount() int {
	n := 0
	for _, t := range b.created {
		if t.released {
			n++
		}
	}
	return n
}

// newTestRenderer builds a renderer wired to a fresh fakeBackend, already
// initialized and with diagnostics captured instead of logged.
func newTestRenderer() (*renderer, *fakeBackend, *[]string) {
	backend := &fakeBackend{initialized: true}
	logged := &[]string{}
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeWGPU,
		backend:     backend,
		pool:        newTexturePool(),
		weight:      DefaultWeightFunction,
		quadScale:   DefaultCompositeQuadScale,
		logf: func(format string, args ...any) {
			*logged = append(*logged, format)
		},
		initialized: true,
	}
	return r, backend, logged
}

// newTestPlot builds a renderable PlotDrawData with a single triangle.
func newTestPlot(width, height int) *PlotDrawData {
	return &PlotDrawData{
		TextureSize: common.Size{Width: width, Height: height},
		Rotation:    common.Quat{W: 1},
		Vertices: []PlotVertex{
			{Pos: common.Point3{X: -0.5, Y: -0.5, Z: 0}, Color: common.PackColor(255, 0, 0, 255)},
			{Pos: common.Point3{X: 0.5, Y: -0.5, Z: 0}, Color: common.PackColor(0, 255, 0, 255)},
			{Pos: common.Point3{X: 0, Y: 0.5, Z: 0}, Color: common.PackColor(0, 0, 255, 128)},
		},
		Indices:      []uint32{0, 1, 2},
		ShouldRender: true,
	}
}
