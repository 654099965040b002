package assasin8

import (
	"github.com/go-gl/mathgl/mgl32"
)

// OcclusionSegment is one world-space edge of an occluding surface.
// Visibility 0 occludes nothing, 1 is fully opaque.
type OcclusionSegment struct {
	Start      mgl32.Vec2
	End        mgl32.Vec2
	Visibility float32
}

// ExtractOcclusionSegments turns a triangle list (three consecutive verts per
// triangle, local space) into occlusion segments, one per triangle edge.
// Shared edges between adjacent triangles are emitted once per triangle on
// purpose: attenuation may differ per caster. Endpoints are brought into
// world space via the caster's model matrix. Degenerate (zero-length) edges
// are carried through; they produce no visible shadow downstream.
func ExtractOcclusionSegments(model mgl32.Mat4, verts []mgl32.Vec2, visibility float32) []OcclusionSegment {
	segments := make([]OcclusionSegment, 0, len(verts))
	for i := 0; i < len(verts)/3; i++ {
		v0 := verts[i*3]
		v1 := verts[i*3+1]
		v2 := verts[i*3+2]
		segments = append(segments,
			OcclusionSegment{Start: v0, End: v1, Visibility: visibility},
			OcclusionSegment{Start: v1, End: v2, Visibility: visibility},
			OcclusionSegment{Start: v2, End: v0, Visibility: visibility},
		)
	}
	for i := range segments {
		segments[i].Start = transformPoint(model, segments[i].Start)
		segments[i].End = transformPoint(model, segments[i].End)
	}
	return segments
}
