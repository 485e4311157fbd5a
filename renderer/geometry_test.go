package renderer

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plot3d-go/plot3d/common"
)

func TestPackPlotVertices(t *testing.T) {
	src := []PlotVertex{
		{Pos: common.Point3{X: 0.25, Y: -0.5, Z: 1}, Color: common.PackColor(1, 2, 3, 4)},
		{Pos: common.Point3{X: -1, Y: 0, Z: 0.125}, Color: common.PackColor(255, 255, 255, 255)},
	}

	packed := packPlotVertices(nil, src)

	require.Len(t, packed, 2)
	assert.Equal(t, gpuVertex{X: 0.25, Y: -0.5, Z: 1, Color: 0x04030201}, packed[0])
	assert.Equal(t, gpuVertex{X: -1, Y: 0, Z: 0.125, Color: 0xFFFFFFFF}, packed[1])
}

func TestPackPlotVerticesReusesCapacity(t *testing.T) {
	scratch := make([]gpuVertex, 0, 8)
	src := []PlotVertex{{Pos: common.Point3{X: 1}, Color: 7}}

	packed := packPlotVertices(scratch, src)

	assert.Len(t, packed, 1)
	assert.Equal(t, 8, cap(packed))
}

func TestPackedVertexIsSixteenBytes(t *testing.T) {
	packed := []gpuVertex{{}, {}}
	assert.Len(t, common.SliceToBytes(packed), 32)
}

func TestConvertPlotsInline(t *testing.T) {
	a := newTestPlot(64, 64)
	b := newTestPlot(64, 64)
	b.ShouldRender = false
	c := newTestPlot(64, 64)
	c.Vertices = nil

	convertPlots(nil, []*PlotDrawData{a, b, c})

	assert.Len(t, a.packed, 3)
	assert.Empty(t, b.packed)
	assert.Empty(t, c.packed)
}

func TestConvertPlotsParallel(t *testing.T) {
	pool := worker.NewDynamicWorkerPool(2, 16, time.Second)
	plots := make([]*PlotDrawData, 0, 4)
	for i := 0; i < 4; i++ {
		plots = append(plots, newTestPlot(64, 64))
	}

	convertPlots(pool, plots)

	for i, p := range plots {
		require.Len(t, p.packed, 3, "plot %d not converted", i)
		assert.Equal(t, float32(-0.5), p.packed[0].X)
	}
}

func TestResetBuffersKeepsCapacity(t *testing.T) {
	p := newTestPlot(64, 64)
	vertexCap := cap(p.Vertices)

	p.ResetBuffers()

	assert.Empty(t, p.Vertices)
	assert.Empty(t, p.Indices)
	assert.Equal(t, vertexCap, cap(p.Vertices))
}
