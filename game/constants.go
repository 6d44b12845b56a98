package game

import "github.com/go-gl/mathgl/mgl32"

const (
	// Gravity is the magnitude of the downward acceleration, in units per second squared.
	Gravity = float32(9.8)
	// StickBiasMultiplier scales Gravity*dt² into the downward bias added to the first hand
	// resolve of a tick, so a hand resting on a flat ledge keeps contact.
	StickBiasMultiplier = float32(2)

	DefaultVelocityHistorySize    = 6
	DefaultMaxArmLength           = float32(1.5)
	DefaultUnStickDistance        = float32(0.5)
	DefaultVelocityLimit          = float32(0.3)
	DefaultMaxJumpSpeed           = float32(6.5)
	DefaultJumpMultiplier         = float32(1.1)
	DefaultMinimumRaycastDistance = float32(0.03)
	DefaultSlideFactor            = float32(0.03)
	SingleHandSlideFactor         = float32(0.001)
	DefaultPrecision              = float32(0.98)
	DefaultHeadRadius             = float32(0.15)

	// TouchDebounce is the minimum time, in seconds, between two touch-enter events of one hand.
	TouchDebounce = float32(0.2)
	// MinTouchVelocity is the impact speed a hand must exceed for a touch-enter to fire.
	MinTouchVelocity = float32(0.0001)

	// SanityRadiusFactor shrinks the radius of the last-chance cast that catches spheres which
	// started the tick already resting against geometry.
	SanityRadiusFactor = float32(0.66)
	// RaycastShrink keeps the anti-tunneling raycasts a hair shorter than the sphere they guard.
	RaycastShrink = float32(0.999)

	// DefaultLayerMask collides with every layer except layer 2 (ignore-raycast).
	DefaultLayerMask = ^uint32(1 << 2)
)

var (
	Up   = mgl32.Vec3{0, 1, 0}
	Down = mgl32.Vec3{0, -1, 0}
)
