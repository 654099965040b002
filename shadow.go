package assasin8

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowVertex matches the WGSL VertexInput of the shadow-mask shader.
// Pos is (x, y, weight): weight 1 marks the near edge of a skirt, weight 0
// marks the far edge. The vertex shader feeds the weight into clip-space w,
// so weight-0 vertices become points at infinity along their xy direction.
// UV.x carries 1 - visibility for the fragment stage.
type ShadowVertex struct {
	Pos [3]float32
	UV  [2]float32
}

// BuildShadowVolume constructs the shadow-skirt geometry for one light in
// normalized device space. Every occluder whose endpoint rays both miss the
// viewport's bounding box is culled; an occluder with at least one
// intersecting ray is kept. All kept skirts are concatenated into a single
// vertex list so the whole light renders in one draw call.
func BuildShadowVolume(light LightSample, occluders []OcclusionSegment, vp Viewport, cameraPos mgl32.Vec2) []ShadowVertex {
	boxMin, boxMax := vp.Bounds()
	half := vp.WorldSize().Mul(0.5)

	ndc := func(p mgl32.Vec2) mgl32.Vec2 {
		return mgl32.Vec2{
			(p.X() - cameraPos.X()) / half.X(),
			(p.Y() - cameraPos.Y()) / half.Y(),
		}
	}

	lightNdc := ndc(light.Pos)

	var verts []ShadowVertex
	for _, occ := range occluders {
		d1 := occ.Start.Sub(light.Pos)
		d2 := occ.End.Sub(light.Pos)
		if !rayIntersectsAABB(light.Pos, d1, boxMin, boxMax) &&
			!rayIntersectsAABB(light.Pos, d2, boxMin, boxMax) {
			continue
		}

		start := ndc(occ.Start)
		end := ndc(occ.End)
		startFar := start.Sub(lightNdc)
		endFar := end.Sub(lightNdc)
		shade := 1 - occ.Visibility

		near := func(p mgl32.Vec2) ShadowVertex {
			return ShadowVertex{Pos: [3]float32{p.X(), p.Y(), 1}, UV: [2]float32{shade, 0}}
		}
		far := func(p mgl32.Vec2) ShadowVertex {
			return ShadowVertex{Pos: [3]float32{p.X(), p.Y(), 0}, UV: [2]float32{shade, 0}}
		}

		verts = append(verts,
			near(start), far(startFar), near(end),
			near(end), far(startFar), far(endFar),
		)
	}
	return verts
}
