package assasin8

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LightSample is one point light, rebuilt from the scene every frame.
type LightSample struct {
	Pos       mgl32.Vec2
	Color     [3]float32
	Intensity float32
}

// CollectLights converts light defs into per-frame samples. Position is the
// world translation with z dropped. No filtering happens here; zero-intensity
// or off-screen lights still get a compositor pass, which keeps collection
// and culling independently testable.
func CollectLights(defs []LightDef) []LightSample {
	samples := make([]LightSample, 0, len(defs))
	for _, def := range defs {
		samples = append(samples, LightSample{
			Pos:       mgl32.Vec2{def.Position.X(), def.Position.Y()},
			Color:     def.Color,
			Intensity: def.Intensity,
		})
	}
	return samples
}
