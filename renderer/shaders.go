package renderer

import (
	"fmt"
	"strconv"
	"strings"
)

// WeightFunction holds the constants of the depth-weighted transparency
// blending curve applied in the accumulate pass:
//
//	weight = alpha * clamp(Scale / (Epsilon + (z / DepthDivisor)^4), ClampMin, ClampMax)
//
// where z is the fragment depth normalized to [0, 1]. The default constants
// are tuned heuristically; alternative weight curves from the transparency
// literature can be substituted via WithWeightFunction without touching the
// rest of the pipeline.
type WeightFunction struct {
	Scale        float32
	Epsilon      float32
	DepthDivisor float32
	ClampMin     float32
	ClampMax     float32
}

// DefaultWeightFunction is the depth-weight curve the renderer ships with.
// Changing any constant changes how strongly near geometry dominates far
// geometry in the blended result; verify visually before adjusting.
var DefaultWeightFunction = WeightFunction{
	Scale:        0.03,
	Epsilon:      1e-5,
	DepthDivisor: 200.0,
	ClampMin:     1e-2,
	ClampMax:     3e3,
}

// DefaultCompositeQuadScale is the scale applied to the composite pass's
// full-screen quad. Values above 1.0 overscan the quad slightly so linear
// sampling never reads the clamped border texels at the plot edge. The exact
// value is empirically tuned; verify visually if changing it.
const DefaultCompositeQuadScale float32 = 1.11

// wgslFloat formats a float for inclusion in WGSL source, forcing a decimal
// point so the literal is typed f32-compatible rather than abstract-int.
func wgslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// accumulateShaderWGSL renders the accumulate-pass shader source with the
// given weight curve baked in. The vertex stage applies the camera rotation,
// aspect-ratio-correcting scale, and depth negation; clip z is remapped from
// the [-1, 1] convention into WebGPU's [0, 1] range while the fragment weight
// keeps the pre-remap depth so the weight response is unchanged. No vertical
// flip: WebGPU framebuffers are top-down, so clip y up already lands scene-up
// at texture row zero.
func accumulateShaderWGSL(w WeightFunction) string {
	return fmt.Sprintf(`struct PlotUniforms {
    rotation: mat4x4<f32>,
    viewport: vec2<f32>,
    _pad: vec2<f32>,
};

@group(0) @binding(0) var<uniform> plot: PlotUniforms;

struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(1) color: vec4<f32>,
};

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) depth: f32,
};

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    let rotated = plot.rotation * vec4<f32>(in.position, 1.0);

    // Scale the cube-shaped view volume uniformly into the viewport.
    let min_dim = min(plot.viewport.x, plot.viewport.y);
    let scale = vec2<f32>(min_dim / plot.viewport.x, min_dim / plot.viewport.y);

    let z = -rotated.z;
    var out: VertexOut;
    out.position = vec4<f32>(rotated.x * scale.x, rotated.y * scale.y, (z + 1.0) * 0.5, 1.0);
    out.color = in.color;
    out.depth = z;
    return out;
}

struct FragmentOut {
    @location(0) accum: vec4<f32>,
    @location(1) reveal: vec4<f32>,
};

@fragment
fn fs_main(in: VertexOut) -> FragmentOut {
    let z = (in.depth + 1.0) * 0.5;
    let weight = in.color.a * clamp(%s / (%s + pow(z / %s, 4.0)), %s, %s);

    var out: FragmentOut;
    // Weight already includes alpha; don't multiply by color.a again.
    out.accum = vec4<f32>(in.color.rgb * weight, weight);
    out.reveal = vec4<f32>(in.color.a);
    return out;
}
`,
		wgslFloat(w.Scale), wgslFloat(w.Epsilon), wgslFloat(w.DepthDivisor),
		wgslFloat(w.ClampMin), wgslFloat(w.ClampMax))
}

// compositeShaderWGSL renders the composite-pass shader source: a scaled
// full-screen quad that resolves the accumulation and reveal targets into the
// plot's final color texture. Pixels with negligible accumulated weight are
// discarded so the plot background stays fully transparent. The square-root
// alpha response matches the host GUI's own alpha compositing.
func compositeShaderWGSL(quadScale float32) string {
	return fmt.Sprintf(`@group(0) @binding(0) var accum_texture: texture_2d<f32>;
@group(0) @binding(1) var reveal_texture: texture_2d<f32>;
@group(0) @binding(2) var composite_sampler: sampler;

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) position: vec2<f32>, @location(1) uv: vec2<f32>) -> VertexOut {
    var out: VertexOut;
    out.position = vec4<f32>(position * %s, 0.0, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let accum = textureSample(accum_texture, composite_sampler, in.uv);
    let reveal = textureSample(reveal_texture, composite_sampler, in.uv).r;

    if (accum.a < 0.00001) {
        discard;
    }

    let average_color = accum.rgb / accum.a;
    let alpha = sqrt(clamp(reveal, 0.0, 1.0));
    return vec4<f32>(average_color, alpha);
}
`, wgslFloat(quadScale))
}

// blitShaderWGSL is the presentation shader used only when a surface is
// configured: a full-screen triangle that samples a plot's color texture onto
// the swapchain. Generated from a vertex index, so it needs no vertex buffer.
const blitShaderWGSL = `@group(0) @binding(0) var src_texture: texture_2d<f32>;
@group(0) @binding(1) var src_sampler: sampler;

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOut {
    let x = f32(i32(index) / 2) * 4.0 - 1.0;
    let y = f32(i32(index) % 2) * 4.0 - 1.0;
    var out: VertexOut;
    out.position = vec4<f32>(x, y, 0.0, 1.0);
    out.uv = vec2<f32>((x + 1.0) * 0.5, 1.0 - (y + 1.0) * 0.5);
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return textureSample(src_texture, src_sampler, in.uv);
}
`
