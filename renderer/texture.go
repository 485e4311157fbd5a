package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureHandle is an opaque identifier for a texture tracked by the
// renderer's resource pool. Handles are never reused within the lifetime of a
// renderer and are meaningless to any other renderer instance.
type TextureHandle uint64

// TextureHandleInvalid is the reserved sentinel for "no texture". It is never
// returned for a successfully created texture.
const TextureHandleInvalid TextureHandle = 0

// TextureFormat identifies one of the fixed set of texture formats the
// renderer allocates.
type TextureFormat int

const (
	// TextureFormatColorRGBA8 is the final per-plot color texture format, 8-bit RGBA.
	TextureFormatColorRGBA8 TextureFormat = iota

	// TextureFormatDepth24 is the per-plot depth buffer format, 24-bit depth.
	TextureFormatDepth24

	// TextureFormatAccumRGBA16F is the HDR accumulation target format, 16-bit float RGBA.
	// Weighted color sums exceed 1.0 quickly, so a float format is required.
	TextureFormatAccumRGBA16F

	// TextureFormatRevealR16F is the HDR reveal target format, single-channel 16-bit float.
	TextureFormatRevealR16F
)

// FilterMode is the sampling filter policy associated with a texture.
type FilterMode int

const (
	// FilterModeLinear interpolates between texels when sampling.
	FilterModeLinear FilterMode = iota

	// FilterModeNearest samples the nearest texel. Depth values must not be
	// interpolated, so depth textures always use this mode.
	FilterModeNearest
)

// Filter returns the fixed filter policy for the format: nearest for depth,
// linear for everything else.
//
// Returns:
//   - FilterMode: the filter mode textures of this format are created with
func (f TextureFormat) Filter() FilterMode {
	if f == TextureFormatDepth24 {
		return FilterModeNearest
	}
	return FilterModeLinear
}

// wgpuFormat maps the renderer format to the underlying WebGPU texture format.
func (f TextureFormat) wgpuFormat() wgpu.TextureFormat {
	switch f {
	case TextureFormatColorRGBA8:
		return wgpu.TextureFormatRGBA8Unorm
	case TextureFormatDepth24:
		return wgpu.TextureFormatDepth24Plus
	case TextureFormatAccumRGBA16F:
		return wgpu.TextureFormatRGBA16Float
	case TextureFormatRevealR16F:
		return wgpu.TextureFormatR16Float
	default:
		return wgpu.TextureFormatUndefined
	}
}

// String returns a short human-readable name for debug labels and logs.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatColorRGBA8:
		return "color-rgba8"
	case TextureFormatDepth24:
		return "depth24"
	case TextureFormatAccumRGBA16F:
		return "accum-rgba16f"
	case TextureFormatRevealR16F:
		return "reveal-r16f"
	default:
		return "unknown"
	}
}
