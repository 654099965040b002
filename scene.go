package assasin8

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// SceneDef is the plain-data description of one frame's scene: who casts
// shadows, who emits light, and how it is viewed. The renderer never queries
// a live entity registry; whatever owns the frame loop fills this in.
type SceneDef struct {
	ShadowCasters []ShadowCasterDef
	Lights        []LightDef
	Camera        *CameraDef
	Window        *Window
}

// ShadowCasterDef is a triangle-list mesh that blocks light. Verts hold three
// consecutive local-space vertices per triangle. Visibility scales how much
// the caster's shadow attenuates (0 = casts nothing, 1 = fully opaque).
type ShadowCasterDef struct {
	Id         string
	Model      mgl32.Mat4
	Verts      []mgl32.Vec2
	Visibility float32
}

// LightDef is a point light. Z of the position is ignored at collection.
type LightDef struct {
	Id        string
	Position  mgl32.Vec3
	Color     [3]float32
	Intensity float32
}

// CameraDef holds the camera's world transform. Only the transform is needed:
// the system is 2D, so no projection math survives past viewport mapping.
type CameraDef struct {
	Transform mgl32.Mat4
}

func NewShadowCasterDef(model mgl32.Mat4, verts []mgl32.Vec2, visibility float32) ShadowCasterDef {
	return ShadowCasterDef{
		Id:         uuid.NewString(),
		Model:      model,
		Verts:      verts,
		Visibility: visibility,
	}
}

func NewLightDef(position mgl32.Vec3, color [3]float32, intensity float32) LightDef {
	return LightDef{
		Id:        uuid.NewString(),
		Position:  position,
		Color:     color,
		Intensity: intensity,
	}
}

// GatherOccluders flattens every shadow caster into world-space occlusion
// segments for this frame.
func GatherOccluders(scene *SceneDef) []OcclusionSegment {
	var occluders []OcclusionSegment
	for _, caster := range scene.ShadowCasters {
		occluders = append(occluders, ExtractOcclusionSegments(caster.Model, caster.Verts, caster.Visibility)...)
	}
	return occluders
}

// GatherLights collects this frame's light samples.
func GatherLights(scene *SceneDef) []LightSample {
	return CollectLights(scene.Lights)
}

// RingMesh builds an annulus out of eight triangles between an outer and an
// inner square, both centered at the origin. This is the player silhouette
// from the original game; it doubles as a handy non-convex test caster.
func RingMesh(scale float32) []mgl32.Vec2 {
	positions := []mgl32.Vec2{
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
		{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5},
	}
	indices := []int{
		0, 4, 5, 0, 5, 1, 1, 5, 6, 1, 6, 2, 2, 6, 7, 2, 7, 3, 3, 7, 4, 3, 4, 0,
	}

	verts := make([]mgl32.Vec2, 0, len(indices))
	for _, idx := range indices {
		verts = append(verts, positions[idx].Mul(scale))
	}
	return verts
}

// DemoScene recreates the original demo: the ring-shaped player at the
// origin, a red and a blue light, camera centered on the player.
func DemoScene(win Window) *SceneDef {
	return &SceneDef{
		ShadowCasters: []ShadowCasterDef{
			NewShadowCasterDef(mgl32.Ident4(), RingMesh(10), 1.0),
		},
		Lights: []LightDef{
			NewLightDef(mgl32.Vec3{40, -300, 1}, [3]float32{1, 0, 0}, 0.3),
			NewLightDef(mgl32.Vec3{100, -400, 1}, [3]float32{0, 0, 1}, 0.3),
		},
		Camera: &CameraDef{Transform: mgl32.Ident4()},
		Window: &win,
	}
}
