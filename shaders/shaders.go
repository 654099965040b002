package shaders

import (
	_ "embed"
)

//go:embed shadow_mask.wgsl
var ShadowMaskWGSL string

//go:embed additive_light.wgsl
var AdditiveLightWGSL string

//go:embed blit.wgsl
var BlitWGSL string
