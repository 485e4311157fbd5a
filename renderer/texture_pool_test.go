package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plot3d-go/plot3d/common"
)

func newPooledTexture(size common.Size, format TextureFormat) *trackedTexture {
	return &trackedTexture{
		gpu:    &fakeTexture{size: size, format: format},
		size:   size,
		format: format,
		filter: format.Filter(),
	}
}

func TestTexturePoolHandlesAreDistinct(t *testing.T) {
	pool := newTexturePool()
	size := common.Size{Width: 64, Height: 64}

	seen := make(map[TextureHandle]bool)
	for i := 0; i < 100; i++ {
		h := pool.add(newPooledTexture(size, TextureFormatColorRGBA8))
		require.NotEqual(t, TextureHandleInvalid, h)
		require.False(t, seen[h], "handle %d issued twice", h)
		seen[h] = true
	}
	assert.Equal(t, 100, pool.count())
}

func TestTexturePoolHandlesNotReusedAfterRelease(t *testing.T) {
	pool := newTexturePool()
	size := common.Size{Width: 8, Height: 8}

	first := pool.add(newPooledTexture(size, TextureFormatColorRGBA8))
	pool.release(first)
	second := pool.add(newPooledTexture(size, TextureFormatColorRGBA8))

	assert.NotEqual(t, first, second)
	assert.Nil(t, pool.get(first))
	assert.NotNil(t, pool.get(second))
}

func TestTexturePoolReleaseIsIdempotent(t *testing.T) {
	pool := newTexturePool()
	entry := newPooledTexture(common.Size{Width: 16, Height: 16}, TextureFormatAccumRGBA16F)
	h := pool.add(entry)

	pool.release(h)
	pool.release(h)
	pool.release(TextureHandleInvalid)
	pool.release(TextureHandle(9999))

	assert.True(t, entry.gpu.(*fakeTexture).released)
	assert.Equal(t, 0, pool.count())
}

func TestTexturePoolReleaseAll(t *testing.T) {
	pool := newTexturePool()
	entries := make([]*trackedTexture, 0, 5)
	for i := 0; i < 5; i++ {
		e := newPooledTexture(common.Size{Width: 4, Height: 4}, TextureFormatRevealR16F)
		entries = append(entries, e)
		pool.add(e)
	}

	pool.releaseAll()

	assert.Equal(t, 0, pool.count())
	for _, e := range entries {
		assert.True(t, e.gpu.(*fakeTexture).released)
	}
}

func TestTextureFormatFilter(t *testing.T) {
	assert.Equal(t, FilterModeNearest, TextureFormatDepth24.Filter())
	assert.Equal(t, FilterModeLinear, TextureFormatColorRGBA8.Filter())
	assert.Equal(t, FilterModeLinear, TextureFormatAccumRGBA16F.Filter())
	assert.Equal(t, FilterModeLinear, TextureFormatRevealR16F.Filter())
}
