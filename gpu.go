package assasin8

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	// ErrNoAdapter means no compatible GPU adapter/device could be acquired.
	ErrNoAdapter = errors.New("no compatible gpu adapter")
	// ErrNoSurface means a presentation call was made on a headless backend.
	ErrNoSurface = errors.New("backend has no surface")
)

// Backend owns the long-lived wgpu state: instance, adapter, device, queue,
// and (for windowed use) the surface. It is created once at startup and must
// be destroyed explicitly; everything else in this package is per-frame.
type Backend struct {
	instance      *wgpu.Instance
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surface       *wgpu.Surface
	surfaceConfig *wgpu.SurfaceConfiguration
}

// NewBackend acquires a headless device, suitable for offscreen rendering
// and readback.
func NewBackend() (*Backend, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}

	return &Backend{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

// NewWindowedBackend acquires a device with a swapchain surface wrapping the
// given GLFW window, for interactive presentation.
func NewWindowedBackend(win *glfw.Window, width, height int) (*Backend, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		surface.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	return &Backend{
		instance:      instance,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surface:       surface,
		surfaceConfig: &surfaceConfig,
	}, nil
}

// Destroy tears the backend down. The Backend must not be used afterwards.
func (b *Backend) Destroy() {
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
		b.queue = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
