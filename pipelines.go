package assasin8

import (
	"unsafe"

	"github.com/AmethystGear/assasin8/shaders"
	"github.com/cogentcore/webgpu/wgpu"
)

// lightmapFormat is the format of every offscreen target (mask, accumulation)
// and therefore of the exported raster: 8-bit RGBA, linear.
const lightmapFormat = wgpu.TextureFormatRGBA8Unorm

// quadVertex matches the WGSL VertexInput of the additive-light and blit
// shaders.
type quadVertex struct {
	Pos [2]float32
	UV  [2]float32
}

// fullscreenQuad covers the whole viewport. UVs put texel (0,0) at the top
// left, which fixes the raster origin of everything sampled with them.
var fullscreenQuad = []quadVertex{
	{Pos: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
	{Pos: [2]float32{1, -1}, UV: [2]float32{1, 1}},
	{Pos: [2]float32{1, 1}, UV: [2]float32{1, 0}},
	{Pos: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
	{Pos: [2]float32{1, 1}, UV: [2]float32{1, 0}},
	{Pos: [2]float32{-1, 1}, UV: [2]float32{0, 0}},
}

// lightPipelines holds the two fixed-function pipelines of the compositor
// plus the shared sampler and static quad geometry. Built once per Renderer.
type lightPipelines struct {
	shadowMask    *wgpu.RenderPipeline
	additiveLight *wgpu.RenderPipeline
	additiveBGL   *wgpu.BindGroupLayout
	sampler       *wgpu.Sampler
	quadBuffer    *wgpu.Buffer

	// created on demand, only for windowed backends
	blit    *wgpu.RenderPipeline
	blitBGL *wgpu.BindGroupLayout
}

func newLightPipelines(device *wgpu.Device) (*lightPipelines, error) {
	p := &lightPipelines{}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	p.sampler = sampler

	if err := p.createShadowMaskPipeline(device); err != nil {
		p.release()
		return nil, err
	}
	if err := p.createAdditiveLightPipeline(device); err != nil {
		p.release()
		return nil, err
	}

	quadSize := uint64(len(fullscreenQuad) * int(unsafe.Sizeof(quadVertex{})))
	p.quadBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Fullscreen Quad",
		Contents: unsafe.Slice((*byte)(unsafe.Pointer(&fullscreenQuad[0])), quadSize),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		p.release()
		return nil, err
	}

	return p, nil
}

// createShadowMaskPipeline builds the pass-A pipeline: skirt triangles,
// red-channel-only writes, no bindings (the vertices are already in NDC).
func (p *lightPipelines) createShadowMaskPipeline(device *wgpu.Device) error {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ShadowMaskShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ShadowMaskWGSL},
	})
	if err != nil {
		return err
	}
	defer shader.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "ShadowMaskLayout",
	})
	if err != nil {
		return err
	}

	p.shadowMask, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ShadowMaskPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(ShadowVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    lightmapFormat,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskRed,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone, // skirt winding depends on light position
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	return err
}

// createAdditiveLightPipeline builds the pass-B pipeline: fullscreen quad,
// all channels, replace semantics (the accumulation happens in the shader by
// sampling the previous texture, not via blending).
func (p *lightPipelines) createAdditiveLightPipeline(device *wgpu.Device) error {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "AdditiveLightShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.AdditiveLightWGSL},
	})
	if err != nil {
		return err
	}
	defer shader.Release()

	p.additiveBGL, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "AdditiveLightBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: lightUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "AdditiveLightLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.additiveBGL},
	})
	if err != nil {
		return err
	}

	p.additiveLight, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "AdditiveLightPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{quadVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    lightmapFormat,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	return err
}

// createBlitPipeline builds the presentation pipeline against the surface
// format. Only needed by windowed backends, so it is created lazily.
func (p *lightPipelines) createBlitPipeline(device *wgpu.Device, format wgpu.TextureFormat) error {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "BlitShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.BlitWGSL},
	})
	if err != nil {
		return err
	}
	defer shader.Release()

	p.blitBGL, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "BlitBGL",
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
	})
	if err != nil {
		return err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "BlitLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.blitBGL},
	})
	if err != nil {
		return err
	}

	p.blit, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "BlitPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{quadVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	return err
}

func quadVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(quadVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}
}

func (p *lightPipelines) release() {
	if p.quadBuffer != nil {
		p.quadBuffer.Release()
	}
	if p.blit != nil {
		p.blit.Release()
	}
	if p.blitBGL != nil {
		p.blitBGL.Release()
	}
	if p.additiveLight != nil {
		p.additiveLight.Release()
	}
	if p.additiveBGL != nil {
		p.additiveBGL.Release()
	}
	if p.shadowMask != nil {
		p.shadowMask.Release()
	}
	if p.sampler != nil {
		p.sampler.Release()
	}
}
