package locomotion

import "github.com/go-gl/mathgl/mgl32"

// Side identifies one of the two hands.
type Side uint8

const (
	Left Side = iota
	Right
)

var sides = [...]Side{Left, Right}

// IsRight returns true for the right hand.
func (s Side) IsRight() bool {
	return s == Right
}

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Pose is a tracked position and rotation.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// ColliderID is an opaque reference to a collider of the Geometry.
type ColliderID uint64

// Hit describes the surface touched by a sweep or raycast.
type Hit struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
	Collider ColliderID
}

// Surface overrides the default slip behaviour of a collider.
type Surface struct {
	// SlipPercentage is the fraction of the along-surface residual movement that is allowed after
	// a hand is blocked, in [0, 1].
	SlipPercentage float32
	// Roughness describes how coarse the surface feels, in [0, 1]. It does not affect resolution
	// and is passed on to touch handlers.
	Roughness float32
}

// ResolvedMovement is the outcome of resolving a movement against the Geometry.
type ResolvedMovement struct {
	EndPosition mgl32.Vec3
	// Normal and Collider are only valid if DidHit is true.
	Normal   mgl32.Vec3
	Collider ColliderID
	DidHit   bool
}

// TouchEvent is passed to a Handler when a hand starts or stops touching geometry.
type TouchEvent struct {
	Side     Side
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	// Surface is the descriptor of the touched collider, valid if HasSurface is true.
	Surface    Surface
	HasSurface bool
}
