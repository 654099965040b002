package assasin8

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeViewport_IdentityCamera(t *testing.T) {
	win := &Window{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 1}
	camera := mgl32.Ident4()

	vp, err := ComputeViewport(win, &camera)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec2{-400, -300}, vp.BottomLeft)
	assert.Equal(t, mgl32.Vec2{400, 300}, vp.TopRight)
	assert.Equal(t, uint32(800), vp.Width)
	assert.Equal(t, uint32(600), vp.Height)
	assert.Equal(t, mgl32.Vec2{800, 600}, vp.WorldSize())
}

func TestComputeViewport_TranslatedCamera(t *testing.T) {
	win := &Window{PhysicalWidth: 100, PhysicalHeight: 100, ScaleFactor: 1}
	camera := mgl32.Translate3D(50, -20, 0)

	vp, err := ComputeViewport(win, &camera)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec2{0, -70}, vp.BottomLeft)
	assert.Equal(t, mgl32.Vec2{100, 30}, vp.TopRight)
}

func TestComputeViewport_RotatedCamera(t *testing.T) {
	// 90 degree roll: corners rotate with the camera, they are not merely
	// translated.
	win := &Window{PhysicalWidth: 200, PhysicalHeight: 100, ScaleFactor: 1}
	camera := mgl32.HomogRotate3DZ(math.Pi / 2)

	vp, err := ComputeViewport(win, &camera)
	require.NoError(t, err)

	assert.InDelta(t, 50, vp.BottomLeft.X(), 1e-4)
	assert.InDelta(t, -100, vp.BottomLeft.Y(), 1e-4)
	assert.InDelta(t, -50, vp.TopRight.X(), 1e-4)
	assert.InDelta(t, 100, vp.TopRight.Y(), 1e-4)

	boxMin, boxMax := vp.Bounds()
	assert.InDelta(t, -50, boxMin.X(), 1e-4)
	assert.InDelta(t, -100, boxMin.Y(), 1e-4)
	assert.InDelta(t, 50, boxMax.X(), 1e-4)
	assert.InDelta(t, 100, boxMax.Y(), 1e-4)
}

func TestComputeViewport_ScaleFactor(t *testing.T) {
	// Retina-style 2x display: the world window uses logical units.
	win := &Window{PhysicalWidth: 800, PhysicalHeight: 600, ScaleFactor: 2}
	camera := mgl32.Ident4()

	vp, err := ComputeViewport(win, &camera)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec2{-200, -150}, vp.BottomLeft)
	assert.Equal(t, uint32(400), vp.Width)
	assert.Equal(t, uint32(300), vp.Height)
}

func TestComputeViewport_Errors(t *testing.T) {
	camera := mgl32.Ident4()

	_, err := ComputeViewport(nil, &camera)
	require.ErrorIs(t, err, ErrNoPrimaryWindow)

	_, err = ComputeViewport(&Window{}, &camera)
	require.ErrorIs(t, err, ErrNoPrimaryWindow)

	_, err = ComputeViewport(&Window{PhysicalWidth: 10, PhysicalHeight: 10, ScaleFactor: 1}, nil)
	require.ErrorIs(t, err, ErrNoCamera)
}
