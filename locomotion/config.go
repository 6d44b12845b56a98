package locomotion

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/game"
)

// Config holds the tunables of a Controller.
type Config struct {
	// VelocityHistorySize is the number of ticks averaged to compute the launch velocity.
	VelocityHistorySize int
	// MaxArmLength is the furthest a hand may be from the head.
	MaxArmLength float32
	// UnStickDistance is how far a hand must be pulled away from its anchor before it is freed.
	UnStickDistance float32
	// VelocityLimit is the average speed that must be exceeded before a launch is applied.
	VelocityLimit float32
	// MaxJumpSpeed caps the launch speed.
	MaxJumpSpeed float32
	// JumpMultiplier scales the average velocity into the launch velocity.
	JumpMultiplier float32
	// MinimumRaycastDistance is the radius of the hand sphere.
	MinimumRaycastDistance float32
	// DefaultSlideFactor is the slip applied to colliders without a Surface while both hands are
	// engaged. SingleHandSlideFactor applies when only one hand is.
	DefaultSlideFactor    float32
	SingleHandSlideFactor float32
	// Precision is the factor by which sweep radii are shrunk on each resolution attempt.
	Precision float32
	// HeadRadius is the radius of the head sphere.
	HeadRadius float32
	// Gravity is used for the sticking bias of the hands.
	Gravity float32
	// TouchDebounce is the minimum time between two touch-enter events of one hand.
	TouchDebounce float32
	// LayerMask selects the collider layers the hands and head collide with.
	LayerMask uint32

	// LeftHandOffset and RightHandOffset are applied to the tracked hand positions in the hands'
	// local space.
	LeftHandOffset  mgl32.Vec3
	RightHandOffset mgl32.Vec3

	// DisableMovement prevents launches while set.
	DisableMovement bool

	// DebugModes selects which stages of a tick are logged at debug level.
	DebugModes DebugMode
	// Log is the logger debug output is written to. A nil Log discards it.
	Log logrus.FieldLogger
}

// DefaultConfig returns the Config the controller was tuned with.
func DefaultConfig() Config {
	return Config{
		VelocityHistorySize:    game.DefaultVelocityHistorySize,
		MaxArmLength:           game.DefaultMaxArmLength,
		UnStickDistance:        game.DefaultUnStickDistance,
		VelocityLimit:          game.DefaultVelocityLimit,
		MaxJumpSpeed:           game.DefaultMaxJumpSpeed,
		JumpMultiplier:         game.DefaultJumpMultiplier,
		MinimumRaycastDistance: game.DefaultMinimumRaycastDistance,
		DefaultSlideFactor:     game.DefaultSlideFactor,
		SingleHandSlideFactor:  game.SingleHandSlideFactor,
		Precision:              game.DefaultPrecision,
		HeadRadius:             game.DefaultHeadRadius,
		Gravity:                game.Gravity,
		TouchDebounce:          game.TouchDebounce,
		LayerMask:              game.DefaultLayerMask,
	}
}

// Validate returns an error wrapping cerror.ErrInvalidConfig for the first out of range value.
func (conf Config) Validate() error {
	positive := []struct {
		name string
		v    float32
	}{
		{"MaxArmLength", conf.MaxArmLength},
		{"UnStickDistance", conf.UnStickDistance},
		{"MaxJumpSpeed", conf.MaxJumpSpeed},
		{"MinimumRaycastDistance", conf.MinimumRaycastDistance},
		{"HeadRadius", conf.HeadRadius},
	}
	for _, p := range positive {
		if !(p.v > 0) || math32.IsInf(p.v, 0) {
			return cerror.Kind(cerror.ErrInvalidConfig, "%s must be positive, got %v", p.name, p.v)
		}
	}
	if conf.VelocityHistorySize <= 0 {
		return cerror.Kind(cerror.ErrInvalidConfig, "VelocityHistorySize must be positive, got %d", conf.VelocityHistorySize)
	}
	if !(conf.Precision > 0 && conf.Precision < 1) {
		return cerror.Kind(cerror.ErrInvalidConfig, "Precision must be in (0, 1), got %v", conf.Precision)
	}
	unit := []struct {
		name string
		v    float32
	}{
		{"DefaultSlideFactor", conf.DefaultSlideFactor},
		{"SingleHandSlideFactor", conf.SingleHandSlideFactor},
	}
	for _, u := range unit {
		if !(u.v >= 0 && u.v <= 1) {
			return cerror.Kind(cerror.ErrInvalidConfig, "%s must be in [0, 1], got %v", u.name, u.v)
		}
	}
	if !(conf.VelocityLimit >= 0) || !(conf.JumpMultiplier >= 0) || !(conf.Gravity >= 0) || !(conf.TouchDebounce >= 0) {
		return cerror.Kind(cerror.ErrInvalidConfig, "VelocityLimit, JumpMultiplier, Gravity and TouchDebounce must not be negative")
	}
	return nil
}

func (conf Config) handOffset(side Side) mgl32.Vec3 {
	if side == Right {
		return conf.RightHandOffset
	}
	return conf.LeftHandOffset
}
