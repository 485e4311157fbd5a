package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWgslFloat(t *testing.T) {
	assert.Equal(t, "200.0", wgslFloat(200))
	assert.Equal(t, "0.03", wgslFloat(0.03))
	assert.Equal(t, "1.11", wgslFloat(1.11))
	assert.Equal(t, "0.0", wgslFloat(0))
	assert.Contains(t, wgslFloat(1e-5), "e")
	assert.Contains(t, wgslFloat(3e3), ".")
}

func TestAccumulateShaderBakesWeightConstants(t *testing.T) {
	src := accumulateShaderWGSL(DefaultWeightFunction)

	assert.Contains(t, src, "0.03")
	assert.Contains(t, src, "200.0")
	assert.Contains(t, src, "0.01")
	assert.Contains(t, src, "3000.0")
	assert.Contains(t, src, "pow(z / 200.0, 4.0)")
	// Clip z is remapped to [0, 1]; the weight keeps the pre-remap depth.
	assert.Contains(t, src, "(z + 1.0) * 0.5")
	assert.Contains(t, src, "out.depth = z")
}

func TestAccumulateShaderCustomWeight(t *testing.T) {
	src := accumulateShaderWGSL(WeightFunction{
		Scale:        1,
		Epsilon:      0.5,
		DepthDivisor: 10,
		ClampMin:     2,
		ClampMax:     4,
	})

	assert.Contains(t, src, "clamp(1.0 / (0.5 + pow(z / 10.0, 4.0)), 2.0, 4.0)")
	assert.NotContains(t, src, "0.03")
}

func TestCompositeShaderBakesQuadScale(t *testing.T) {
	src := compositeShaderWGSL(DefaultCompositeQuadScale)

	assert.Contains(t, src, "position * 1.11")
	assert.Contains(t, src, "accum.a < 0.00001")
	assert.Contains(t, src, "discard")
	assert.Contains(t, src, "sqrt(clamp(reveal, 0.0, 1.0))")
}

func TestShadersHaveEntryPoints(t *testing.T) {
	for name, src := range map[string]string{
		"accumulate": accumulateShaderWGSL(DefaultWeightFunction),
		"composite":  compositeShaderWGSL(DefaultCompositeQuadScale),
		"blit":       blitShaderWGSL,
	} {
		assert.True(t, strings.Contains(src, "fn vs_main"), "%s missing vertex entry point", name)
		assert.True(t, strings.Contains(src, "fn fs_main"), "%s missing fragment entry point", name)
	}
}
