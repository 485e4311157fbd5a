package renderer

import (
	"sync"

	"github.com/plot3d-go/plot3d/common"
)

// trackedTexture is a pool entry: the GPU texture plus the metadata it was
// created with.
type trackedTexture struct {
	gpu    BackendTexture
	size   common.Size
	format TextureFormat
	filter FilterMode
}

// texturePool tracks every texture the renderer has allocated so that each
// one is released exactly once: explicitly on resize/delete, or in bulk at
// shutdown. Release of an unknown or already-released handle is a no-op —
// delete and resize cleanup may both touch the same record, and idempotence
// is the safety net.
type texturePool struct {
	mu       *sync.Mutex
	next     TextureHandle
	textures map[TextureHandle]*trackedTexture
}

func newTexturePool() *texturePool {
	return &texturePool{
		mu:       &sync.Mutex{},
		next:     TextureHandleInvalid + 1,
		textures: make(map[TextureHandle]*trackedTexture),
	}
}

// add registers a texture and returns its new handle. Handles are issued from
// a monotonically increasing counter and never collide with live or released
// handles.
func (p *texturePool) add(t *trackedTexture) TextureHandle {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := p.next
	p.next++
	p.textures[h] = t
	return h
}

// get returns the tracked entry for a handle, or nil if the handle is invalid
// or no longer tracked.
func (p *texturePool) get(h TextureHandle) *trackedTexture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textures[h]
}

// release frees a single texture and stops tracking it. Unknown handles
// (including TextureHandleInvalid and double-releases) are ignored.
func (p *texturePool) release(h TextureHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.textures[h]
	if !ok {
		return
	}
	delete(p.textures, h)
	t.gpu.Release()
}

// releaseAll frees every tracked texture. Used at shutdown.
func (p *texturePool) releaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for h, t := range p.textures {
		t.gpu.Release()
		delete(p.textures, h)
	}
}

// count returns the number of live tracked textures.
func (p *texturePool) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.textures)
}
