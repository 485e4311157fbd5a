package renderer

import (
	"github.com/plot3d-go/plot3d/common"
)

// PlotVertex is one vertex of a plot's triangle geometry as produced by the
// widget/geometry layer: a double-precision position in normalized device
// coordinates plus a packed 32-bit RGBA color (see common.PackColor).
type PlotVertex struct {
	Pos   common.Point3
	Color uint32
}

// PlotDrawData is the per-frame draw record for one visible 3D plot widget.
// The widget layer owns the record and refreshes TextureSize, Rotation, the
// geometry buffers, and the lifecycle flags before every RenderFrame call.
// The renderer exclusively owns the four texture handles.
type PlotDrawData struct {
	// TextureSize is the target offscreen resolution in device pixels, set by
	// the owning widget layer from its layout.
	TextureSize common.Size

	// Rotation is the current camera orientation as a unit quaternion.
	Rotation common.Quat

	// Vertices and Indices hold this frame's triangle geometry. They are
	// filled by the geometry producer before RenderFrame, read exactly once
	// by the renderer, and truncated to empty afterwards — geometry never
	// persists across frames.
	Vertices []PlotVertex
	Indices  []uint32

	// ColorTexture is the final composited texture the host references in
	// its own 2D draw list. DepthTexture, AccumTexture, and RevealTexture
	// are the offscreen working targets of the transparency passes.
	// All four are TextureHandleInvalid until the plot is first rendered.
	ColorTexture  TextureHandle
	DepthTexture  TextureHandle
	AccumTexture  TextureHandle
	RevealTexture TextureHandle

	// ShouldRender is cleared by the widget layer while the plot is
	// collapsed or hidden; such records are skipped entirely.
	ShouldRender bool

	// ShouldResize is set by the widget layer when TextureSize changed since
	// the last frame; the renderer recreates all four textures at the new
	// size and clears the flag.
	ShouldResize bool

	// ShouldDelete is set when the owning plot was destroyed this frame. The
	// record's textures are released and the record is dropped from the
	// retained list before any rendering happens; deletion always wins over
	// resize and render processing.
	ShouldDelete bool

	// packed is the conversion scratch buffer, reused across frames to avoid
	// per-frame allocation. Owned by the geometry conversion step.
	packed []gpuVertex
}

// ResetBuffers truncates the vertex and index buffers to empty while keeping
// their capacity. Called by the renderer after every frame; the geometry
// producer must repopulate the buffers each frame the plot is visible.
func (p *PlotDrawData) ResetBuffers() {
	p.Vertices = p.Vertices[:0]
	p.Indices = p.Indices[:0]
	p.packed = p.packed[:0]
}

// releaseTextures returns every texture handle to the pool and resets the
// handles to TextureHandleInvalid. Safe to call on a record that never
// allocated; pool release is idempotent.
func (p *PlotDrawData) releaseTextures(pool *texturePool) {
	pool.release(p.ColorTexture)
	pool.release(p.DepthTexture)
	pool.release(p.AccumTexture)
	pool.release(p.RevealTexture)
	p.ColorTexture = TextureHandleInvalid
	p.DepthTexture = TextureHandleInvalid
	p.AccumTexture = TextureHandleInvalid
	p.RevealTexture = TextureHandleInvalid
}
