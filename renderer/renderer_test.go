package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plot3d-go/plot3d/common"
)

func TestRenderFrameRendersPlot(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(320, 240)

	retained := r.RenderFrame([]*PlotDrawData{plot})

	require.Len(t, retained, 1)
	assert.NotEqual(t, TextureHandleInvalid, plot.ColorTexture)
	assert.NotEqual(t, TextureHandleInvalid, plot.DepthTexture)
	assert.NotEqual(t, TextureHandleInvalid, plot.AccumTexture)
	assert.NotEqual(t, TextureHandleInvalid, plot.RevealTexture)
	assert.Equal(t, 4, r.TextureCount())

	require.Len(t, backend.accumulateCalls, 1)
	call := backend.accumulateCalls[0]
	assert.Equal(t, uint32(320), call.width)
	assert.Equal(t, uint32(240), call.height)
	assert.Equal(t, 3, call.indexCount)
	assert.Equal(t, 3*16, call.vertexBytes)
	assert.Equal(t, 3*4, call.indexBytes)
	assert.Equal(t, 1, backend.compositeCalls)

	// Geometry is consumed whether or not the plot rendered.
	assert.Empty(t, plot.Vertices)
	assert.Empty(t, plot.Indices)
}

func TestRenderFrameUniforms(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(100, 50)

	r.RenderFrame([]*PlotDrawData{plot})

	require.Len(t, backend.accumulateCalls, 1)
	u := backend.accumulateCalls[0].uniforms
	assert.Equal(t, [2]float32{100, 50}, u.Viewport)

	// Identity quaternion produces the identity rotation matrix.
	var identity [16]float32
	common.Identity(identity[:])
	assert.Equal(t, identity, u.Rotation)
}

func TestRenderFrameDeleteReleasesTextures(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)

	retained := r.RenderFrame([]*PlotDrawData{plot})
	require.Equal(t, 4, r.TextureCount())

	plot.ShouldDelete = true
	retained = r.RenderFrame(retained)

	assert.Empty(t, retained)
	assert.Equal(t, 0, r.TextureCount())
	assert.Equal(t, 4, backend.releasedCount())
	assert.Equal(t, TextureHandleInvalid, plot.ColorTexture)
	assert.Equal(t, TextureHandleInvalid, plot.RevealTexture)
}

func TestRenderFrameDeleteWinsOverRender(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)
	plot.ShouldDelete = true

	retained := r.RenderFrame([]*PlotDrawData{plot})

	assert.Empty(t, retained)
	assert.Empty(t, backend.accumulateCalls)
	assert.Equal(t, 0, r.TextureCount())
	assert.Empty(t, backend.created)
}

func TestRenderFrameDeleteNeverRenderedPlot(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)
	plot.ShouldDelete = true
	plot.ShouldRender = false

	retained := r.RenderFrame([]*PlotDrawData{plot})

	assert.Empty(t, retained)
	assert.Equal(t, 0, r.TextureCount())
	assert.Empty(t, backend.created)
}

func TestRenderFrameResizeRecreatesTextures(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)

	retained := r.RenderFrame([]*PlotDrawData{plot})
	firstColor := plot.ColorTexture
	require.Equal(t, 4, len(backend.created))

	plot.Vertices = newTestPlot(0, 0).Vertices
	plot.Indices = []uint32{0, 1, 2}
	plot.TextureSize = common.Size{Width: 128, Height: 128}
	plot.ShouldResize = true
	retained = r.RenderFrame(retained)

	require.Len(t, retained, 1)
	assert.False(t, plot.ShouldResize)
	assert.NotEqual(t, firstColor, plot.ColorTexture)
	// Old four released, exactly four new ones created, none leaked.
	assert.Equal(t, 4, r.TextureCount())
	assert.Equal(t, 8, len(backend.created))
	assert.Equal(t, 4, backend.releasedCount())
	for _, tex := range backend.created[4:] {
		assert.Equal(t, common.Size{Width: 128, Height: 128}, tex.size)
	}
}

func TestRenderFrameSteadyStateReusesTextures(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)

	retained := r.RenderFrame([]*PlotDrawData{plot})
	plot.Vertices = newTestPlot(0, 0).Vertices
	plot.Indices = []uint32{0, 1, 2}
	retained = r.RenderFrame(retained)

	require.Len(t, retained, 1)
	assert.Equal(t, 4, len(backend.created))
	assert.Equal(t, 0, backend.releasedCount())
	assert.Len(t, backend.accumulateCalls, 2)
}

func TestRenderFrameSkipsHiddenPlot(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)
	plot.ShouldRender = false

	retained := r.RenderFrame([]*PlotDrawData{plot})

	require.Len(t, retained, 1)
	assert.Empty(t, backend.created)
	assert.Empty(t, backend.accumulateCalls)
	// Buffers are still consumed.
	assert.Empty(t, plot.Vertices)
	assert.Empty(t, plot.Indices)
}

func TestRenderFrameEmptyGeometryIsNoop(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)
	plot.Vertices = nil
	plot.Indices = nil

	retained := r.RenderFrame([]*PlotDrawData{plot})

	require.Len(t, retained, 1)
	// Targets exist for later frames, but no pass ran.
	assert.Equal(t, 4, r.TextureCount())
	assert.Empty(t, backend.accumulateCalls)
	assert.Equal(t, 0, backend.compositeCalls)
}

func TestRenderFrameTextureCreateFailureSkipsPlot(t *testing.T) {
	r, backend, logged := newTestRenderer()
	backend.failCreateTexture = true
	plot := newTestPlot(64, 64)

	retained := r.RenderFrame([]*PlotDrawData{plot})

	require.Len(t, retained, 1)
	assert.Equal(t, TextureHandleInvalid, plot.ColorTexture)
	assert.Empty(t, backend.accumulateCalls)
	assert.NotEmpty(t, *logged)

	// Creation recovers once the backend stops failing.
	backend.failCreateTexture = false
	plot.Vertices = newTestPlot(0, 0).Vertices
	plot.Indices = []uint32{0, 1, 2}
	retained = r.RenderFrame(retained)
	assert.Equal(t, 4, r.TextureCount())
	assert.Len(t, backend.accumulateCalls, 1)
}

func TestRenderFrameAccumulateFailureSkipsComposite(t *testing.T) {
	r, backend, logged := newTestRenderer()
	backend.failAccumulate = true
	plot := newTestPlot(64, 64)

	retained := r.RenderFrame([]*PlotDrawData{plot})

	require.Len(t, retained, 1)
	assert.Equal(t, 0, backend.compositeCalls)
	assert.NotEmpty(t, *logged)
	// Buffers still reset so next frame starts clean.
	assert.Empty(t, plot.Vertices)
}

func TestRenderFrameNonPositiveSizeSkipsPlot(t *testing.T) {
	r, backend, logged := newTestRenderer()
	plot := newTestPlot(0, 64)

	retained := r.RenderFrame([]*PlotDrawData{plot})

	require.Len(t, retained, 1)
	assert.Equal(t, 0, r.TextureCount())
	assert.Empty(t, backend.accumulateCalls)
	assert.NotEmpty(t, *logged)
}

func TestRenderFrameMultiplePlots(t *testing.T) {
	r, backend, _ := newTestRenderer()
	a := newTestPlot(64, 64)
	b := newTestPlot(128, 128)
	c := newTestPlot(32, 32)
	c.ShouldRender = false

	retained := r.RenderFrame([]*PlotDrawData{a, b, c})

	require.Len(t, retained, 3)
	assert.Len(t, backend.accumulateCalls, 2)
	assert.Equal(t, 2, backend.compositeCalls)
	assert.Equal(t, 8, r.TextureCount())
}

func TestRenderFrameBeforeInit(t *testing.T) {
	r, backend, logged := newTestRenderer()
	r.initialized = false
	plot := newTestPlot(64, 64)

	retained := r.RenderFrame([]*PlotDrawData{plot})

	assert.Len(t, retained, 1)
	assert.Empty(t, backend.accumulateCalls)
	assert.NotEmpty(t, *logged)
	// Buffers untouched: the frame never ran.
	assert.Len(t, plot.Vertices, 3)
}

func TestCreateAndDestroyTexture(t *testing.T) {
	r, backend, _ := newTestRenderer()

	color := r.CreateColorTexture(64, 64)
	depth := r.CreateDepthTexture(64, 64)
	accum := r.CreateAccumTexture(64, 64)
	reveal := r.CreateRevealTexture(64, 64)

	require.NotEqual(t, TextureHandleInvalid, color)
	assert.Equal(t, 4, r.TextureCount())
	assert.Equal(t, TextureFormatColorRGBA8, backend.created[0].format)
	assert.Equal(t, TextureFormatDepth24, backend.created[1].format)
	assert.Equal(t, TextureFormatAccumRGBA16F, backend.created[2].format)
	assert.Equal(t, TextureFormatRevealR16F, backend.created[3].format)

	r.DestroyTexture(color)
	r.DestroyTexture(color) // idempotent
	r.DestroyTexture(TextureHandleInvalid)
	assert.Equal(t, 3, r.TextureCount())

	r.DestroyTexture(depth)
	r.DestroyTexture(accum)
	r.DestroyTexture(reveal)
	assert.Equal(t, 0, r.TextureCount())
	assert.Equal(t, 4, backend.releasedCount())
}

func TestCreateTextureRejectsNonPositiveSize(t *testing.T) {
	r, backend, logged := newTestRenderer()

	assert.Equal(t, TextureHandleInvalid, r.CreateColorTexture(0, 64))
	assert.Equal(t, TextureHandleInvalid, r.CreateDepthTexture(64, -1))
	assert.Equal(t, 0, r.TextureCount())
	assert.Empty(t, backend.created)
	assert.Len(t, *logged, 2)
}

func TestShutdownReleasesEverything(t *testing.T) {
	r, backend, _ := newTestRenderer()
	plot := newTestPlot(64, 64)
	r.RenderFrame([]*PlotDrawData{plot})
	r.CreateColorTexture(32, 32)
	require.Equal(t, 5, r.TextureCount())

	r.Shutdown()

	assert.Equal(t, 0, r.TextureCount())
	assert.Equal(t, 5, backend.releasedCount())
	assert.Equal(t, 1, backend.shutdowns)
	assert.False(t, r.initialized)

	// Shutdown twice is harmless.
	r.Shutdown()
	assert.Equal(t, 1, backend.shutdowns)
}

func TestPresentRequiresSurface(t *testing.T) {
	r, backend, _ := newTestRenderer()
	h := r.CreateColorTexture(64, 64)

	err := r.Present(h)
	assert.ErrorIs(t, err, ErrNoSurface)

	backend.hasSurface = true
	require.NoError(t, r.Present(h))
	assert.Len(t, backend.presented, 1)
}

func TestPresentUnknownHandle(t *testing.T) {
	r, backend, _ := newTestRenderer()
	backend.hasSurface = true

	err := r.Present(TextureHandle(1234))
	assert.Error(t, err)
	assert.Empty(t, backend.presented)
}

func TestResizeRequiresSurface(t *testing.T) {
	r, backend, _ := newTestRenderer()

	assert.ErrorIs(t, r.Resize(800, 600), ErrNoSurface)

	backend.hasSurface = true
	assert.NoError(t, r.Resize(800, 600))
}
