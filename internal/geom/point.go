// Package geom provides the 3D vector helpers the collision core is built on.
// Points are mgl64.Vec3 values; this package only adds what mathgl lacks:
// euler pose rotation in the simulation's axis order and parametric
// axis-plane intercepts for segment queries.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Segments closer than this to parallel with a plane are treated as never
// crossing it.
const planeEpsilon = 1e-7

// Rotate rotates v by euler angles in degrees, applied around X, then Y,
// then Z. This matches the pose convention entities report their angles in.
func Rotate(v, angles mgl64.Vec3) mgl64.Vec3 {
	if angles.X() == 0 && angles.Y() == 0 && angles.Z() == 0 {
		return v
	}
	rot := mgl64.Rotate3DZ(mgl64.DegToRad(angles.Z())).
		Mul3(mgl64.Rotate3DY(mgl64.DegToRad(angles.Y()))).
		Mul3(mgl64.Rotate3DX(mgl64.DegToRad(angles.X())))
	return rot.Mul3x1(v)
}

// Distance returns the straight-line distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// intermediate returns the point at parameter t along start->end when t is
// within the segment, reporting false otherwise.
func intermediate(start, end mgl64.Vec3, delta, t float64) (mgl64.Vec3, bool) {
	if delta*delta < planeEpsilon {
		return mgl64.Vec3{}, false
	}
	if t < 0 || t > 1 {
		return mgl64.Vec3{}, false
	}
	return start.Add(end.Sub(start).Mul(t)), true
}

// IntermediateWithX returns the point where the segment start->end crosses
// the plane x = value, or false if the segment is parallel to the plane or
// the crossing lies outside the segment. Endpoint crossings count.
func IntermediateWithX(start, end mgl64.Vec3, value float64) (mgl64.Vec3, bool) {
	delta := end.X() - start.X()
	return intermediate(start, end, delta, (value-start.X())/delta)
}

// IntermediateWithY is IntermediateWithX for the plane y = value.
func IntermediateWithY(start, end mgl64.Vec3, value float64) (mgl64.Vec3, bool) {
	delta := end.Y() - start.Y()
	return intermediate(start, end, delta, (value-start.Y())/delta)
}

// IntermediateWithZ is IntermediateWithX for the plane z = value.
func IntermediateWithZ(start, end mgl64.Vec3, value float64) (mgl64.Vec3, bool) {
	delta := end.Z() - start.Z()
	return intermediate(start, end, delta, (value-start.Z())/delta)
}

// TruncateTenth truncates v toward zero at 0.1 resolution. Used to shave
// floating-point noise off hard-collision box centers.
func TruncateTenth(v float64) float64 {
	return math.Trunc(v*10) / 10
}
