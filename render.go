package assasin8

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Lightmap is the composited per-pixel illumination raster for one frame:
// tightly packed RGBA8, row-major, top-left origin.
type Lightmap struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// Image wraps the lightmap as an *image.NRGBA sharing the pixel slice.
func (lm *Lightmap) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    lm.Pixels,
		Stride: int(lm.Width) * lightmapBytesPerPixel,
		Rect:   image.Rect(0, 0, int(lm.Width), int(lm.Height)),
	}
}

type RendererConfig struct {
	Logger Logger
}

// Renderer turns (lights, occluders, viewport, camera) into a lightmap. It
// owns the pipelines but borrows the backend; the caller controls the
// backend's lifecycle.
type Renderer struct {
	backend   *Backend
	pipelines *lightPipelines
	log       Logger
}

func NewRenderer(backend *Backend, cfg RendererConfig) (*Renderer, error) {
	log := cfg.Logger
	if log == nil {
		log = NewDefaultLogger("assasin8", false)
	}

	pipelines, err := newLightPipelines(backend.device)
	if err != nil {
		return nil, fmt.Errorf("creating pipelines: %w", err)
	}

	return &Renderer{
		backend:   backend,
		pipelines: pipelines,
		log:       log,
	}, nil
}

// Destroy releases the renderer's pipelines. The backend is left alone.
func (r *Renderer) Destroy() {
	if r.pipelines != nil {
		r.pipelines.release()
		r.pipelines = nil
	}
}

// RenderFrame composites every light over the occluders and reads the result
// back. Inputs are read-only for the duration of the call. All passes are
// recorded into one command batch and submitted once; the only blocking
// point is the readback wait at the end.
func (r *Renderer) RenderFrame(
	lights []LightSample,
	occluders []OcclusionSegment,
	vp Viewport,
	cameraWorld mgl32.Mat4,
) (*Lightmap, error) {
	if vp.Width == 0 || vp.Height == 0 {
		return nil, fmt.Errorf("%w: empty viewport", ErrNoPrimaryWindow)
	}
	cameraPos := mgl32.Vec2{cameraWorld.At(0, 3), cameraWorld.At(1, 3)}

	frame, err := r.createFrameTextures(vp.Width, vp.Height)
	if err != nil {
		return nil, fmt.Errorf("creating frame textures: %w", err)
	}
	defer frame.release()

	encoder, err := r.backend.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("creating command encoder: %w", err)
	}

	final, err := r.compositeLights(encoder, lights, occluders, vp, cameraPos, frame)
	if err != nil {
		return nil, fmt.Errorf("compositing lights: %w", err)
	}

	readback, err := r.recordReadback(encoder, frame.ping[final], vp.Width, vp.Height)
	if err != nil {
		return nil, err
	}
	defer readback.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finishing command encoder: %w", err)
	}
	r.backend.queue.Submit(cmd)

	pixels, err := r.resolveReadback(readback, vp.Width, vp.Height)
	if err != nil {
		return nil, err
	}

	return &Lightmap{Width: vp.Width, Height: vp.Height, Pixels: pixels}, nil
}

// RenderScene is the scene-level entry point: gather occluders and lights,
// derive the viewport, render, read back.
func (r *Renderer) RenderScene(scene *SceneDef) (*Lightmap, error) {
	if scene.Camera == nil {
		return nil, ErrNoCamera
	}
	vp, err := ComputeViewport(scene.Window, &scene.Camera.Transform)
	if err != nil {
		return nil, err
	}
	return r.RenderFrame(GatherLights(scene), GatherOccluders(scene), vp, scene.Camera.Transform)
}

// PresentFrame renders the scene's lightmap and blits it to the backend's
// surface instead of reading it back. Windowed backends only.
func (r *Renderer) PresentFrame(scene *SceneDef) error {
	if r.backend.surface == nil {
		return ErrNoSurface
	}
	if scene.Camera == nil {
		return ErrNoCamera
	}
	vp, err := ComputeViewport(scene.Window, &scene.Camera.Transform)
	if err != nil {
		return err
	}

	if r.pipelines.blit == nil {
		if err := r.pipelines.createBlitPipeline(r.backend.device, r.backend.surfaceConfig.Format); err != nil {
			return fmt.Errorf("creating blit pipeline: %w", err)
		}
	}

	cameraPos := mgl32.Vec2{scene.Camera.Transform.At(0, 3), scene.Camera.Transform.At(1, 3)}

	frame, err := r.createFrameTextures(vp.Width, vp.Height)
	if err != nil {
		return fmt.Errorf("creating frame textures: %w", err)
	}
	defer frame.release()

	surfaceTexture, err := r.backend.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquiring surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	surfaceView, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("creating surface view: %w", err)
	}
	defer surfaceView.Release()

	encoder, err := r.backend.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("creating command encoder: %w", err)
	}

	final, err := r.compositeLights(encoder, GatherLights(scene), GatherOccluders(scene), vp, cameraPos, frame)
	if err != nil {
		return fmt.Errorf("compositing lights: %w", err)
	}

	blitBG, err := r.backend.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Blit BG",
		Layout: r.pipelines.blitBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: frame.pingViews[final]},
			{Binding: 1, Sampler: r.pipelines.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("creating blit bind group: %w", err)
	}
	frame.bindGroups = append(frame.bindGroups, blitBG)

	blitPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Blit Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       surfaceView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: accumClear,
		}},
	})
	blitPass.SetPipeline(r.pipelines.blit)
	blitPass.SetBindGroup(0, blitBG, nil)
	blitPass.SetVertexBuffer(0, r.pipelines.quadBuffer, 0, r.pipelines.quadBuffer.GetSize())
	blitPass.Draw(uint32(len(fullscreenQuad)), 1, 0, 0)
	if err := blitPass.End(); err != nil {
		return err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finishing command encoder: %w", err)
	}
	r.backend.queue.Submit(cmd)
	r.backend.surface.Present()

	// Drain the queue so the per-frame textures can be released safely.
	r.backend.device.Poll(true, nil)
	return nil
}
