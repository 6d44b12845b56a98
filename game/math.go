package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3ApproxEq reports whether every component of a and b is within epsilon of the other.
func Vec3ApproxEq(a, b mgl32.Vec3, epsilon float32) bool {
	return math32.Abs(a[0]-b[0]) <= epsilon &&
		math32.Abs(a[1]-b[1]) <= epsilon &&
		math32.Abs(a[2]-b[2]) <= epsilon
}

// Vec3HasNaN returns true if any component of the vector is NaN or infinite.
func Vec3HasNaN(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return true
		}
	}
	return false
}

// SafeNormalize returns the unit vector of v, or false if v has no usable length.
func SafeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l <= 1e-12 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// ProjectOnPlane removes the component of v along the plane normal n. A zero normal leaves v
// unchanged.
func ProjectOnPlane(v, n mgl32.Vec3) mgl32.Vec3 {
	nn := n.Dot(n)
	if nn <= 1e-12 {
		return v
	}
	return v.Sub(n.Mul(v.Dot(n) / nn))
}

// YawRotation returns the rotation of the given amount of degrees around the world up axis.
func YawRotation(degrees float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(degrees), Up)
}

// Yaw returns the heading of the rotation around the world up axis, in degrees.
func Yaw(q mgl32.Quat) float32 {
	forward := q.Rotate(mgl32.Vec3{0, 0, 1})
	if forward[0] == 0 && forward[2] == 0 {
		return 0
	}
	return mgl32.RadToDeg(math32.Atan2(forward[0], forward[2]))
}

// RotateAround rotates point around pivot by q.
func RotateAround(point, pivot mgl32.Vec3, q mgl32.Quat) mgl32.Vec3 {
	return pivot.Add(q.Rotate(point.Sub(pivot)))
}

// AngularVelocity returns the angular velocity, as axis * radians per second, that rotates from
// into to over dt seconds. The angle-axis extraction is unstable for differences close to 180
// degrees, where the axis degenerates; NaN results are zeroed instead of being propagated.
func AngularVelocity(from, to mgl32.Quat, dt float32) mgl32.Vec3 {
	if dt <= 0 {
		return mgl32.Vec3{}
	}
	delta := to.Mul(from.Inverse()).Normalize()
	if delta.W < 0 {
		delta = delta.Scale(-1)
	}
	angle := 2 * math32.Acos(mgl32.Clamp(delta.W, -1, 1))
	s := math32.Sqrt(1 - delta.W*delta.W)
	if s < 1e-6 {
		return mgl32.Vec3{}
	}
	v := delta.V.Mul(angle / (s * dt))
	if Vec3HasNaN(v) {
		return mgl32.Vec3{}
	}
	return v
}
