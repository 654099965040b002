package assasin8

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoPrimaryWindow is returned when no usable window description is
	// available to size the lightmap.
	ErrNoPrimaryWindow = errors.New("no primary window")
	// ErrNoCamera is returned when the frame has no camera transform.
	ErrNoCamera = errors.New("no camera")
)

// Window describes the primary window's physical size and display scale.
type Window struct {
	PhysicalWidth  uint32
	PhysicalHeight uint32
	ScaleFactor    float64
}

// Viewport is the world-space window mapped onto the output raster.
// BottomLeft and TopRight are the transformed corners of the camera window;
// under camera rotation they are corners of a rotated rectangle, not
// necessarily the componentwise extremes.
type Viewport struct {
	BottomLeft mgl32.Vec2
	TopRight   mgl32.Vec2
	Width      uint32
	Height     uint32
}

// WorldSize returns TopRight - BottomLeft.
func (v Viewport) WorldSize() mgl32.Vec2 {
	return v.TopRight.Sub(v.BottomLeft)
}

// Bounds returns the axis-aligned bounding box of the viewport corners,
// which is what shadow culling tests against.
func (v Viewport) Bounds() (boxMin, boxMax mgl32.Vec2) {
	return vecMin(v.BottomLeft, v.TopRight), vecMax(v.BottomLeft, v.TopRight)
}

// ComputeViewport derives the visible world window from the primary window
// and the camera's world transform. The window extents are transformed by the
// full camera transform, so camera rotation is respected. Both inputs are
// required; a frame without them cannot be rendered.
func ComputeViewport(win *Window, cameraWorld *mgl32.Mat4) (Viewport, error) {
	if win == nil || win.PhysicalWidth == 0 || win.PhysicalHeight == 0 {
		return Viewport{}, ErrNoPrimaryWindow
	}
	if cameraWorld == nil {
		return Viewport{}, ErrNoCamera
	}

	scale := win.ScaleFactor
	if scale == 0 {
		scale = 1
	}
	extents := mgl32.Vec2{
		float32(float64(win.PhysicalWidth) / scale),
		float32(float64(win.PhysicalHeight) / scale),
	}

	half := extents.Mul(0.5)
	return Viewport{
		BottomLeft: transformPoint(*cameraWorld, half.Mul(-1)),
		TopRight:   transformPoint(*cameraWorld, half),
		Width:      uint32(extents.X()),
		Height:     uint32(extents.Y()),
	}, nil
}
