package assasin8

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// nanMin returns the smaller of a and b, treating NaN as "no value": a
// comparison against NaN yields the other operand, and if both are NaN the
// first is returned. Needed because the slab test divides by ray direction
// components that may be zero.
func nanMin(a, b float32) float32 {
	if math.IsNaN(float64(a)) {
		if math.IsNaN(float64(b)) {
			return a
		}
		return b
	}
	if math.IsNaN(float64(b)) {
		return a
	}
	if a < b {
		return a
	}
	return b
}

// nanMax is the NaN-tolerant counterpart of nanMin.
func nanMax(a, b float32) float32 {
	if math.IsNaN(float64(a)) {
		if math.IsNaN(float64(b)) {
			return a
		}
		return b
	}
	if math.IsNaN(float64(b)) {
		return a
	}
	if a > b {
		return a
	}
	return b
}

// rayIntersectsAABB runs the slab method for the line through origin with
// direction dir against the box [boxMin, boxMax]. Zero direction components
// divide to +/-Inf (or NaN when the origin sits on the slab boundary), which
// the NaN-tolerant min/max absorb. Note this is a line test: intersections at
// negative t still count, which keeps shadow culling conservative.
func rayIntersectsAABB(origin, dir, boxMin, boxMax mgl32.Vec2) bool {
	tMinX := (boxMin.X() - origin.X()) / dir.X()
	tMinY := (boxMin.Y() - origin.Y()) / dir.Y()
	tMaxX := (boxMax.X() - origin.X()) / dir.X()
	tMaxY := (boxMax.Y() - origin.Y()) / dir.Y()

	t1x := nanMin(tMinX, tMaxX)
	t1y := nanMin(tMinY, tMaxY)
	t2x := nanMax(tMinX, tMaxX)
	t2y := nanMax(tMinY, tMaxY)

	tNear := nanMax(t1x, t1y)
	tFar := nanMin(t2x, t2y)

	return tNear < tFar
}

// vecMin/vecMax are componentwise and NaN-free (used for building the
// viewport's bounding box from its possibly rotated corners).
func vecMin(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{minf(a.X(), b.X()), minf(a.Y(), b.Y())}
}

func vecMax(a, b mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{maxf(a.X(), b.X()), maxf(a.Y(), b.Y())}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// transformPoint applies a full 4x4 world transform to a 2D point (z = 0).
func transformPoint(m mgl32.Mat4, p mgl32.Vec2) mgl32.Vec2 {
	v := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), 0, 1})
	return mgl32.Vec2{v.X(), v.Y()}
}
