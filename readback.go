package assasin8

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrReadbackFailed means the final lightmap could not be mapped back into
// CPU memory. The frame produced no artifact; long-lived state is untouched.
var ErrReadbackFailed = errors.New("lightmap readback failed")

const lightmapBytesPerPixel = 4

// readbackBytesPerRow pads a row to the 256-byte alignment wgpu requires for
// texture-to-buffer copies.
func readbackBytesPerRow(width uint32) uint32 {
	return (width*lightmapBytesPerPixel + 255) &^ uint32(255)
}

// recordReadback appends the texture-to-buffer copy to the frame's encoder
// and returns the destination buffer. The copy only runs when the command
// batch is submitted; resolveReadback does the waiting.
func (r *Renderer) recordReadback(encoder *wgpu.CommandEncoder, tex *wgpu.Texture, width, height uint32) (*wgpu.Buffer, error) {
	bytesPerRow := readbackBytesPerRow(width)
	buf, err := r.backend.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Lightmap Readback",
		Size:  uint64(bytesPerRow) * uint64(height),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadbackFailed, err)
	}

	encoder.CopyTextureToBuffer(
		tex.AsImageCopy(),
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: height,
			},
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	return buf, nil
}

// resolveReadback runs the two-step synchronization: request the async map,
// then block on the device poll until the callback fires. The returned bytes
// are tightly packed top-left-origin RGBA8 with the row padding stripped.
// There is no timeout; a hung backend stalls the frame.
func (r *Renderer) resolveReadback(buf *wgpu.Buffer, width, height uint32) ([]byte, error) {
	var (
		done   bool
		status wgpu.BufferMapAsyncStatus
	)
	err := buf.MapAsync(wgpu.MapModeRead, 0, buf.GetSize(), func(s wgpu.BufferMapAsyncStatus) {
		status = s
		done = true
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadbackFailed, err)
	}

	for !done {
		r.backend.device.Poll(true, nil)
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("%w: map status %v", ErrReadbackFailed, status)
	}

	data := buf.GetMappedRange(0, uint(buf.GetSize()))
	bytesPerRow := readbackBytesPerRow(width)
	rowBytes := width * lightmapBytesPerPixel

	pixels := make([]byte, uint64(rowBytes)*uint64(height))
	for y := uint32(0); y < height; y++ {
		src := data[y*bytesPerRow : y*bytesPerRow+rowBytes]
		copy(pixels[y*rowBytes:], src)
	}
	buf.Unmap()

	return pixels, nil
}
