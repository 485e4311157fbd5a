package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/plot3d-go/plot3d/common"
	"github.com/plot3d-go/plot3d/renderer/pipeline"
	"github.com/plot3d-go/plot3d/renderer/shader"
)

// additiveBlend is the accumulate pass blend state: src + dst on every
// channel, so weighted colors and alpha coverage sum across fragments.
var additiveBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
	},
}

// straightAlphaBlend is the composite pass blend state: standard source-over
// blending with straight (non-premultiplied) alpha, matching how the host GUI
// composites the plot texture into its own draw list.
var straightAlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

// plotVertexLayout describes the packed plot vertex: a float32x3 position
// followed by a unorm8x4 color, 16 bytes per vertex.
var plotVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 16,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 1},
	},
}

// quadVertexLayout describes the composite quad vertex: a float32x2 clip-space
// position followed by a float32x2 texture coordinate.
var quadVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 16,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
	},
}

// newAccumulatePipeline builds the transparency accumulate pipeline: plot
// triangles rendered to the accumulation and reveal targets with additive
// blending, depth-tested against the plot depth buffer but never writing it.
func newAccumulatePipeline(weight WeightFunction) pipeline.Pipeline {
	var u plotUniforms
	uniformSize := uint64(len(common.StructToBytes(&u)))
	source := accumulateShaderWGSL(weight)

	vs := shader.NewShader("accumulate-vs", shader.ShaderTypeVertex, source,
		shader.WithBindGroupLayout(0, wgpu.BindGroupLayoutDescriptor{
			Label: "Plot Uniform Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeUniform,
						MinBindingSize: uniformSize,
					},
				},
			},
		}),
		shader.WithVertexLayouts(plotVertexLayout),
	)
	fs := shader.NewShader("accumulate-fs", shader.ShaderTypeFragment, source)

	return pipeline.NewPipeline("accumulate",
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithDepth(wgpu.TextureFormatDepth24Plus, false),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithColorTargets(
			wgpu.ColorTargetState{
				Format:    TextureFormatAccumRGBA16F.wgpuFormat(),
				Blend:     &additiveBlend,
				WriteMask: wgpu.ColorWriteMaskAll,
			},
			wgpu.ColorTargetState{
				Format:    TextureFormatRevealR16F.wgpuFormat(),
				Blend:     &additiveBlend,
				WriteMask: wgpu.ColorWriteMaskAll,
			},
		),
	)
}

// newCompositePipeline builds the composite pipeline: a full-screen quad that
// resolves the accumulation and reveal targets into the plot's color texture
// with straight-alpha blending.
func newCompositePipeline(quadScale float32) pipeline.Pipeline {
	source := compositeShaderWGSL(quadScale)

	textureEntry := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		}
	}

	vs := shader.NewShader("composite-vs", shader.ShaderTypeVertex, source,
		shader.WithVertexLayouts(quadVertexLayout),
	)
	fs := shader.NewShader("composite-fs", shader.ShaderTypeFragment, source,
		shader.WithBindGroupLayout(0, wgpu.BindGroupLayoutDescriptor{
			Label: "Composite Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				textureEntry(0),
				textureEntry(1),
				{
					Binding:    2,
					Visibility: wgpu.ShaderStageFragment,
					Sampler: wgpu.SamplerBindingLayout{
						Type: wgpu.SamplerBindingTypeFiltering,
					},
				},
			},
		}),
	)

	return pipeline.NewPipeline("composite",
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithColorTargets(
			wgpu.ColorTargetState{
				Format:    TextureFormatColorRGBA8.wgpuFormat(),
				Blend:     &straightAlphaBlend,
				WriteMask: wgpu.ColorWriteMaskAll,
			},
		),
	)
}

// newBlitPipeline builds the presentation pipeline: a bufferless full-screen
// triangle that copies a plot color texture to the swapchain. Registered
// lazily because the target format is the surface format.
func newBlitPipeline(surfaceFormat wgpu.TextureFormat) pipeline.Pipeline {
	vs := shader.NewShader("blit-vs", shader.ShaderTypeVertex, blitShaderWGSL)
	fs := shader.NewShader("blit-fs", shader.ShaderTypeFragment, blitShaderWGSL,
		shader.WithBindGroupLayout(0, wgpu.BindGroupLayoutDescriptor{
			Label: "Blit Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    wgpu.TextureSampleTypeFloat,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageFragment,
					Sampler: wgpu.SamplerBindingLayout{
						Type: wgpu.SamplerBindingTypeFiltering,
					},
				},
			},
		}),
	)

	return pipeline.NewPipeline("blit",
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithColorTargets(
			wgpu.ColorTargetState{
				Format:    surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			},
		),
	)
}
