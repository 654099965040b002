package assasin8

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Per-light uniform block: vec4 color+intensity, vec4 flags.
const lightUniformSize = 32

// Clear values. maskClear is "fully lit, zero shadow"; accumClear is the
// documented zero-light baseline: opaque black.
var (
	maskClear  = wgpu.Color{R: 1, G: 1, B: 1, A: 1}
	accumClear = wgpu.Color{R: 0, G: 0, B: 0, A: 1}
)

// frameTextures are the per-frame render targets: the shadow-mask scratch
// texture and the two accumulation textures the light loop ping-pongs
// between. Everything here is created at frame start and released at frame
// end.
type frameTextures struct {
	mask      *wgpu.Texture
	maskView  *wgpu.TextureView
	ping      [2]*wgpu.Texture
	pingViews [2]*wgpu.TextureView

	// transient buffers and bind groups accumulated during the light loop,
	// released together once the submission has drained
	buffers    []*wgpu.Buffer
	bindGroups []*wgpu.BindGroup
}

func (f *frameTextures) release() {
	for _, bg := range f.bindGroups {
		bg.Release()
	}
	for _, buf := range f.buffers {
		buf.Release()
	}
	for i := range f.pingViews {
		if f.pingViews[i] != nil {
			f.pingViews[i].Release()
		}
		if f.ping[i] != nil {
			f.ping[i].Release()
		}
	}
	if f.maskView != nil {
		f.maskView.Release()
	}
	if f.mask != nil {
		f.mask.Release()
	}
}

func (r *Renderer) createFrameTextures(width, height uint32) (*frameTextures, error) {
	f := &frameTextures{}

	create := func(label string) (*wgpu.Texture, *wgpu.TextureView, error) {
		tex, err := r.backend.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         label,
			Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        lightmapFormat,
			Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
		})
		if err != nil {
			return nil, nil, err
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return nil, nil, err
		}
		return tex, view, nil
	}

	var err error
	if f.mask, f.maskView, err = create("Shadow Mask"); err != nil {
		f.release()
		return nil, err
	}
	for i := range f.ping {
		if f.ping[i], f.pingViews[i], err = create("Lightmap Accumulator"); err != nil {
			f.release()
			return nil, err
		}
	}
	return f, nil
}

// compositeLights records all passes for this frame into the encoder and
// returns the index of the ping texture holding the final lightmap. Nothing
// is submitted here; the caller owns the single end-of-frame submission.
//
// The accumulation is an explicit fold over the light list: light i reads
// ping[accum] and writes ping[1-accum]. The mask texture is shared scratch:
// it is cleared before the first light only, and each light's skirts simply
// overwrite whatever is there.
func (r *Renderer) compositeLights(
	encoder *wgpu.CommandEncoder,
	lights []LightSample,
	occluders []OcclusionSegment,
	vp Viewport,
	cameraPos mgl32.Vec2,
	f *frameTextures,
) (int, error) {
	// Baseline clear; with zero lights this is the whole frame.
	clearPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Lightmap Clear",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       f.pingViews[0],
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: accumClear,
		}},
	})
	if err := clearPass.End(); err != nil {
		return 0, err
	}

	accum := 0
	for i, light := range lights {
		verts := BuildShadowVolume(light, occluders, vp, cameraPos)
		r.log.Debugf("light %d/%d: %d shadow vertices", i+1, len(lights), len(verts))

		// Pass A: shadow mask
		maskLoad := wgpu.LoadOpLoad
		if i == 0 {
			maskLoad = wgpu.LoadOpClear
		}
		maskPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "Shadow Mask Pass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       f.maskView,
				LoadOp:     maskLoad,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: maskClear,
			}},
		})
		if len(verts) > 0 {
			size := uint64(len(verts) * int(unsafe.Sizeof(ShadowVertex{})))
			vb, err := r.backend.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
				Label:    "Shadow Skirt Vertices",
				Contents: unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])), size),
				Usage:    wgpu.BufferUsageVertex,
			})
			if err != nil {
				return 0, err
			}
			f.buffers = append(f.buffers, vb)

			maskPass.SetPipeline(r.pipelines.shadowMask)
			maskPass.SetVertexBuffer(0, vb, 0, vb.GetSize())
			maskPass.Draw(uint32(len(verts)), 1, 0, 0)
		}
		if err := maskPass.End(); err != nil {
			return 0, err
		}

		// Pass B: additive contribution, ping[accum] -> ping[1-accum]
		uniform, err := r.backend.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "Light Uniform",
			Contents: packLightUniform(light, i == len(lights)-1),
			Usage:    wgpu.BufferUsageUniform,
		})
		if err != nil {
			return 0, err
		}
		f.buffers = append(f.buffers, uniform)

		bindGroup, err := r.backend.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Additive Light BG",
			Layout: r.pipelines.additiveBGL,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: uniform, Size: lightUniformSize},
				{Binding: 1, TextureView: f.maskView},
				{Binding: 2, TextureView: f.pingViews[accum]},
				{Binding: 3, Sampler: r.pipelines.sampler},
			},
		})
		if err != nil {
			return 0, err
		}
		f.bindGroups = append(f.bindGroups, bindGroup)

		lightPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "Additive Light Pass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       f.pingViews[1-accum],
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: accumClear,
			}},
		})
		lightPass.SetPipeline(r.pipelines.additiveLight)
		lightPass.SetBindGroup(0, bindGroup, nil)
		lightPass.SetVertexBuffer(0, r.pipelines.quadBuffer, 0, r.pipelines.quadBuffer.GetSize())
		lightPass.Draw(uint32(len(fullscreenQuad)), 1, 0, 0)
		if err := lightPass.End(); err != nil {
			return 0, err
		}

		accum = 1 - accum
	}

	return accum, nil
}

// packLightUniform lays the light out as the shader expects: vec4 color with
// intensity in w, vec4 flags with the is-last-light marker in x.
func packLightUniform(light LightSample, isLast bool) []byte {
	buf := make([]byte, lightUniformSize)
	putF32 := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}

	putF32(0, light.Color[0])
	putF32(4, light.Color[1])
	putF32(8, light.Color[2])
	putF32(12, light.Intensity)

	if isLast {
		putF32(16, 1.0)
	}
	return buf
}
