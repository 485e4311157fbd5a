package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// gpuVertex is the packed wire format of one plot vertex as consumed by the
// accumulate pipeline: float32x3 position + unorm8x4 color, 16 bytes.
type gpuVertex struct {
	X, Y, Z float32
	Color   uint32
}

// packPlotVertices converts a plot's double-precision vertices into the packed
// single-precision GPU layout, reusing dst's capacity when possible.
func packPlotVertices(dst []gpuVertex, src []PlotVertex) []gpuVertex {
	if cap(dst) < len(src) {
		dst = make([]gpuVertex, len(src))
	} else {
		dst = dst[:len(src)]
	}
	for i := range src {
		dst[i] = gpuVertex{
			X:     float32(src[i].Pos.X),
			Y:     float32(src[i].Pos.Y),
			Z:     float32(src[i].Pos.Z),
			Color: src[i].Color,
		}
	}
	return dst
}

// convertPlots packs every renderable plot's vertices into its GPU scratch
// buffer. With two or more plots the per-plot conversions fan out across the
// worker pool; workers are reused across frames and a WaitGroup provides the
// per-frame barrier. Conversion is pure CPU work per plot, so this is the only
// parallel stage — GPU command encoding stays on the caller's thread.
func convertPlots(pool worker.DynamicWorkerPool, plots []*PlotDrawData) {
	renderable := plots[:0:0]
	for _, p := range plots {
		if !p.ShouldRender || len(p.Vertices) == 0 {
			continue
		}
		renderable = append(renderable, p)
	}

	if len(renderable) < 2 || pool == nil {
		for _, p := range renderable {
			p.packed = packPlotVertices(p.packed, p.Vertices)
		}
		return
	}

	var wg sync.WaitGroup
	for i, p := range renderable {
		wg.Add(1)
		pCap := p // capture for closure
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				pCap.packed = packPlotVertices(pCap.packed, pCap.Vertices)
				return nil, nil
			},
		})
	}
	wg.Wait()
}
