package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/plot3d-go/plot3d/renderer/shader"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithDepth enables a depth attachment with the given format, depth testing
// with a closer-wins comparison, and the given depth-write flag.
//
// Parameters:
//   - format: the depth attachment format (e.g. wgpu.TextureFormatDepth24Plus)
//   - writeEnabled: whether fragments update the depth buffer
//
// Returns:
//   - PipelineBuilderOption: a function that configures the depth state for this pipeline
func WithDepth(format wgpu.TextureFormat, writeEnabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = true
		p.depthWriteEnabled = writeEnabled
		p.depthFormat = format
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline (e.g., wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the front face to use for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithColorTargets sets the color target states for this pipeline, in
// attachment order. Each target carries its own format, blend state, and
// write mask, so multi-attachment passes can blend each output differently.
//
// Parameters:
//   - targets: the color target states to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color targets for this pipeline
func WithColorTargets(targets ...wgpu.ColorTargetState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorTargets = targets
	}
}
