package simulation

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/velutils/climb/game"
	"github.com/velutils/climb/locomotion"
)

// BodyConfig holds the physical properties of a Body.
type BodyConfig struct {
	// Gravity is the downward acceleration applied every step, in units per second squared.
	Gravity float32
	// ColliderOffset is the centre of the body sphere relative to the body position, in body space.
	ColliderOffset mgl32.Vec3
	// Radius is the radius of the body sphere.
	Radius float32
	// Precision shrinks the body sphere when it is resolved against the geometry.
	Precision float32
	// Friction is the fraction of the along-surface velocity lost per second while the body
	// touches geometry.
	Friction float32
}

// DefaultBodyConfig returns the BodyConfig used by the demo rig.
func DefaultBodyConfig() BodyConfig {
	return BodyConfig{
		Gravity:        game.Gravity,
		ColliderOffset: mgl32.Vec3{0, 0.4, 0},
		Radius:         0.3,
		Precision:      game.DefaultPrecision,
		Friction:       8,
	}
}

// Body is a kinematic rigid body: a sphere that falls with gravity and stops against the
// geometry. It implements locomotion.Body.
type Body struct {
	conf     BodyConfig
	resolver *locomotion.Resolver
	log      logrus.FieldLogger

	pos mgl32.Vec3
	rot mgl32.Quat
	vel mgl32.Vec3

	grounded bool
}

// NewBody returns a Body at the position passed, colliding with the geometry through a resolver
// configured by conf.
func NewBody(geometry locomotion.Geometry, conf locomotion.Config, bodyConf BodyConfig, pos mgl32.Vec3) *Body {
	log := conf.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Body{
		conf:     bodyConf,
		resolver: locomotion.NewResolver(geometry, conf),
		log:      log,
		pos:      pos,
		rot:      mgl32.QuatIdent(),
	}
}

func (b *Body) Position() mgl32.Vec3 {
	return b.pos
}

func (b *Body) SetPosition(pos mgl32.Vec3) {
	b.pos = pos
}

func (b *Body) Rotation() mgl32.Quat {
	return b.rot
}

func (b *Body) SetRotation(rot mgl32.Quat) {
	b.rot = rot
}

func (b *Body) Velocity() mgl32.Vec3 {
	return b.vel
}

func (b *Body) SetVelocity(vel mgl32.Vec3) {
	b.vel = vel
}

// Teleport moves the body to the position and rotation passed and stops it.
func (b *Body) Teleport(pos mgl32.Vec3, rot mgl32.Quat) {
	b.pos, b.rot, b.vel = pos, rot, mgl32.Vec3{}
	b.grounded = false
}

// Grounded returns true if the body sphere was stopped by the geometry in the last step.
func (b *Body) Grounded() bool {
	return b.grounded
}

// Center returns the world position of the centre of the body sphere.
func (b *Body) Center() mgl32.Vec3 {
	return b.pos.Add(b.rot.Rotate(b.conf.ColliderOffset))
}

// Step integrates gravity over dt and moves the body by its velocity, stopping against the
// geometry. The velocity component into a touched surface is removed.
func (b *Body) Step(dt float32) {
	if !(dt > 0) || math32.IsInf(dt, 0) {
		return
	}
	b.vel = b.vel.Add(game.Down.Mul(b.conf.Gravity * dt))
	if game.Vec3HasNaN(b.vel) {
		b.log.Warnf("body velocity became NaN, stopping body at %v", b.pos)
		b.vel = mgl32.Vec3{}
	}

	move := b.vel.Mul(dt)
	center := b.Center()
	res := b.resolver.Resolve(center, b.conf.Radius, move, b.conf.Precision, false)
	b.pos = b.pos.Add(res.EndPosition.Sub(center))
	b.grounded = res.DidHit
	if !res.DidHit {
		return
	}
	if into := b.vel.Dot(res.Normal); into < 0 {
		b.vel = b.vel.Sub(res.Normal.Mul(into))
	}
	b.vel = b.vel.Mul(math32.Max(0, 1-b.conf.Friction*dt))
	b.log.Debugf("body stopped by collider %d at %v, velocity %v", res.Collider, b.pos, b.vel)
}
