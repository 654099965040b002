package assasin8

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectLights(t *testing.T) {
	defs := []LightDef{
		NewLightDef(mgl32.Vec3{40, -300, 1}, [3]float32{1, 0, 0}, 0.3),
		NewLightDef(mgl32.Vec3{100, -400, 7}, [3]float32{0, 0, 1}, 0.3),
	}

	samples := CollectLights(defs)
	require.Len(t, samples, 2)

	assert.Equal(t, mgl32.Vec2{40, -300}, samples[0].Pos, "z must be dropped")
	assert.Equal(t, [3]float32{1, 0, 0}, samples[0].Color)
	assert.Equal(t, float32(0.3), samples[0].Intensity)
	assert.Equal(t, mgl32.Vec2{100, -400}, samples[1].Pos)
}

func TestCollectLights_NoFiltering(t *testing.T) {
	// Zero-intensity lights still get a sample; culling is not collection's
	// job.
	defs := []LightDef{
		NewLightDef(mgl32.Vec3{0, 0, 0}, [3]float32{1, 1, 1}, 0),
	}
	assert.Len(t, CollectLights(defs), 1)
}

func TestCollectLights_Empty(t *testing.T) {
	assert.Empty(t, CollectLights(nil))
}
