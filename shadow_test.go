package assasin8

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func centeredViewport(size float32) Viewport {
	half := size / 2
	return Viewport{
		BottomLeft: mgl32.Vec2{-half, -half},
		TopRight:   mgl32.Vec2{half, half},
		Width:      uint32(size),
		Height:     uint32(size),
	}
}

func TestBuildShadowVolume_SkirtGeometry(t *testing.T) {
	vp := centeredViewport(100)
	light := LightSample{Pos: mgl32.Vec2{10, 0}, Intensity: 1}
	occluders := []OcclusionSegment{
		{Start: mgl32.Vec2{-10, 10}, End: mgl32.Vec2{10, 10}, Visibility: 1},
	}

	verts := BuildShadowVolume(light, occluders, vp, mgl32.Vec2{0, 0})
	require.Len(t, verts, 6)

	// Near vertices sit on the occluder edge in NDC with weight 1.
	assert.Equal(t, [3]float32{-0.2, 0.2, 1}, verts[0].Pos) // start near
	assert.Equal(t, [3]float32{0.2, 0.2, 1}, verts[2].Pos)  // end near
	assert.Equal(t, verts[2], verts[3])

	// Far vertices are near - lightNdc with weight 0.
	assert.InDelta(t, -0.4, verts[1].Pos[0], 1e-6)
	assert.InDelta(t, 0.2, verts[1].Pos[1], 1e-6)
	assert.Equal(t, float32(0), verts[1].Pos[2])
	assert.Equal(t, verts[1], verts[4])
	assert.InDelta(t, 0.0, verts[5].Pos[0], 1e-6)
	assert.InDelta(t, 0.2, verts[5].Pos[1], 1e-6)
	assert.Equal(t, float32(0), verts[5].Pos[2])

	// Fully opaque occluder: uv.x encodes 1 - visibility = 0.
	for _, v := range verts {
		assert.Equal(t, [2]float32{0, 0}, v.UV)
	}
}

func TestBuildShadowVolume_VisibilityEncoding(t *testing.T) {
	vp := centeredViewport(100)
	light := LightSample{Pos: mgl32.Vec2{0, 0}}
	occluders := []OcclusionSegment{
		{Start: mgl32.Vec2{-10, 10}, End: mgl32.Vec2{10, 10}, Visibility: 0.25},
	}

	verts := BuildShadowVolume(light, occluders, vp, mgl32.Vec2{0, 0})
	require.Len(t, verts, 6)
	for _, v := range verts {
		assert.InDelta(t, 0.75, v.UV[0], 1e-6)
	}
}

func TestBuildShadowVolume_CullsFullyInvisibleOccluders(t *testing.T) {
	vp := centeredViewport(100)
	// Light well outside the viewport; both endpoint rays pass nowhere near
	// the box.
	light := LightSample{Pos: mgl32.Vec2{200, 0}}
	occluders := []OcclusionSegment{
		{Start: mgl32.Vec2{300, 100}, End: mgl32.Vec2{310, 100}, Visibility: 1},
	}

	verts := BuildShadowVolume(light, occluders, vp, mgl32.Vec2{0, 0})
	assert.Empty(t, verts)
}

func TestBuildShadowVolume_KeepsPartiallyVisibleOccluders(t *testing.T) {
	vp := centeredViewport(100)
	light := LightSample{Pos: mgl32.Vec2{200, 0}}
	// The start ray crosses the box, the end ray does not: one hit is
	// enough to keep the occluder.
	occluders := []OcclusionSegment{
		{Start: mgl32.Vec2{100, 0}, End: mgl32.Vec2{300, 200}, Visibility: 1},
	}

	verts := BuildShadowVolume(light, occluders, vp, mgl32.Vec2{0, 0})
	assert.Len(t, verts, 6)
}

func TestBuildShadowVolume_MultipleOccludersConcatenated(t *testing.T) {
	vp := centeredViewport(100)
	light := LightSample{Pos: mgl32.Vec2{0, 0}}
	occluders := []OcclusionSegment{
		{Start: mgl32.Vec2{-10, 10}, End: mgl32.Vec2{10, 10}, Visibility: 1},
		{Start: mgl32.Vec2{-10, -10}, End: mgl32.Vec2{10, -10}, Visibility: 1},
	}

	verts := BuildShadowVolume(light, occluders, vp, mgl32.Vec2{0, 0})
	assert.Len(t, verts, 12, "all skirts share one vertex list")
}

func TestBuildShadowVolume_DegenerateRayNoNaN(t *testing.T) {
	vp := centeredViewport(100)
	// Light sits exactly on the occluder's start: the ray direction is the
	// zero vector. Must not panic and must not leak NaN into geometry.
	light := LightSample{Pos: mgl32.Vec2{5, 5}}
	occluders := []OcclusionSegment{
		{Start: mgl32.Vec2{5, 5}, End: mgl32.Vec2{15, 5}, Visibility: 1},
	}

	verts := BuildShadowVolume(light, occluders, vp, mgl32.Vec2{0, 0})
	for _, v := range verts {
		for _, c := range v.Pos {
			assert.False(t, math.IsNaN(float64(c)), "vertex position contains NaN")
		}
	}
}
