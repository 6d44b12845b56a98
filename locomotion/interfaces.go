package locomotion

import "github.com/go-gl/mathgl/mgl32"

// Geometry bridges the static collision world the hands and head are resolved against.
type Geometry interface {
	// SweepSphere moves a sphere of the radius passed from origin along direction for at most
	// maxDistance and returns the first surface it touches. Colliders already overlapping the
	// sphere at origin are not reported.
	SweepSphere(origin mgl32.Vec3, radius float32, direction mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool)
	// Raycast returns the first surface hit by the ray from origin along direction within maxDistance.
	Raycast(origin, direction mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool)
	// Surface returns the surface descriptor attached to a collider, if any.
	Surface(id ColliderID) (Surface, bool)
}

// PoseSource provides the tracked head and hand poses, in the rig's local (tracking) space.
type PoseSource interface {
	Head() Pose
	Hand(side Side) Pose
}

// Body is the physics representation of the rig. The controller moves it directly and only
// uses its velocity to impart launches.
type Body interface {
	Position() mgl32.Vec3
	SetPosition(pos mgl32.Vec3)
	Rotation() mgl32.Quat
	SetRotation(rot mgl32.Quat)
	SetVelocity(vel mgl32.Vec3)
}

// Handler handles the touch events of a Controller, for example to play sounds or haptics.
type Handler interface {
	// HandleTouchEnter is called when a hand starts touching geometry.
	HandleTouchEnter(e TouchEvent)
	// HandleTouchExit is called when a hand stops touching geometry, either because it moved
	// away or because it was pulled free of a surface it was stuck on.
	HandleTouchExit(e TouchEvent)
}

// NopHandler implements Handler and does nothing.
type NopHandler struct{}

func (NopHandler) HandleTouchEnter(TouchEvent) {}
func (NopHandler) HandleTouchExit(TouchEvent)  {}

// Handlers fans touch events out to each of its handlers, in order.
type Handlers []Handler

func (hs Handlers) HandleTouchEnter(e TouchEvent) {
	for _, h := range hs {
		h.HandleTouchEnter(e)
	}
}

func (hs Handlers) HandleTouchExit(e TouchEvent) {
	for _, h := range hs {
		h.HandleTouchExit(e)
	}
}
