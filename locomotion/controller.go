package locomotion

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/game"
)

// Controller moves a Body by the hands of a rig pushing and pulling on static geometry. It is
// driven by a single goroutine calling Tick once per fixed step.
type Controller struct {
	conf     Config
	geometry Geometry
	poses    PoseSource
	body     Body
	handler  Handler

	resolver *Resolver
	dbg      debugger

	hands    [2]handState
	lastHead mgl32.Vec3
	// lastBody is the body position at the end of the previous tick, used to measure velocity.
	lastBody mgl32.Vec3
	history  *VelocityHistory
	bodyYaw  float32

	now float32
}

// New creates a Controller for the rig formed by the PoseSource and Body passed, colliding with
// the Geometry. The hands and head start out at their current tracked positions.
func New(conf Config, geometry Geometry, poses PoseSource, body Body) (*Controller, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if geometry == nil || poses == nil || body == nil {
		return nil, cerror.New("geometry, pose source and body must all be set")
	}
	c := &Controller{
		conf:     conf,
		geometry: geometry,
		poses:    poses,
		body:     body,
		handler:  NopHandler{},
		resolver: NewResolver(geometry, conf),
		dbg:      newDebugger(conf.DebugModes, conf.Log),
		history:  NewVelocityHistory(conf.VelocityHistorySize),
	}
	for _, side := range sides {
		c.hands[side].side = side
	}
	c.Reset()
	return c, nil
}

// Handle sets the handler touch events are passed to. A nil handler discards them.
func (c *Controller) Handle(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	c.handler = h
}

// Reset places both hands at their tracked positions, clears their contacts and the velocity
// history. It should be called after the body is teleported.
func (c *Controller) Reset() {
	head := c.headPosition()
	for _, side := range sides {
		h := &c.hands[side]
		*h = handState{side: side, last: c.desired(side, head)}
	}
	c.lastHead = head
	c.lastBody = c.body.Position()
	c.bodyYaw = game.Yaw(orIdentity(c.body.Rotation()).Mul(orIdentity(c.poses.Head().Rotation)))
	c.history.Reset()
}

// Tick runs one step of dt seconds: both hands are resolved against the geometry, the body is
// moved by their contacts, and a launch velocity is applied from the velocity history while a
// hand is touching. Non-positive or non-finite time steps are ignored.
func (c *Controller) Tick(dt float32) {
	if !(dt > 0) || math32.IsInf(dt, 0) {
		return
	}
	c.now += dt
	c.resolver.ResetQueries()

	head := c.headPosition()
	c.bodyYaw = game.Yaw(orIdentity(c.body.Rotation()).Mul(orIdentity(c.poses.Head().Rotation)))

	for i := range c.hands {
		h := &c.hands[i]
		h.beginTick()
		c.resolveFirst(h, c.desired(h.side, head), dt)
	}
	left, right := &c.hands[Left], &c.hands[Right]

	bothEngaged := left.engaged() && right.engaged()
	move := CombineHandDisplacements(left.displacement, right.displacement, left.engaged(), right.engaged())
	if game.Vec3HasNaN(move) {
		move = mgl32.Vec3{}
	}
	move = c.vetoHeadMovement(head, move)
	if move.LenSqr() != 0 {
		c.body.SetPosition(c.body.Position().Add(move))
		if c.dbg.Enabled(DebugModeBody) {
			c.dbg.Notify(DebugModeBody, true, "body moved by %v to %v", move, c.body.Position())
		}
	}
	head = c.headPosition()
	c.lastHead = head

	// Moving the body moved the tracked hands with it.
	for i := range c.hands {
		h := &c.hands[i]
		c.resolveSecond(h, c.desired(h.side, head), !bothEngaged, dt)
	}

	pos := c.body.Position()
	c.history.Push(pos.Sub(c.lastBody).Mul(1 / dt))
	c.lastBody = pos

	if (left.colliding || right.colliding) && !c.conf.DisableMovement {
		c.launch()
	}

	for i := range c.hands {
		h := &c.hands[i]
		c.unstick(h, head, c.desired(h.side, head), dt)
		c.endTick(h)
	}
}

// launch applies the average velocity of the last ticks to the body if it exceeds the velocity
// limit. The launch speed is capped at MaxJumpSpeed.
func (c *Controller) launch() {
	avg := c.history.Average()
	avgSpeed := speed(avg)
	if avgSpeed <= c.conf.VelocityLimit {
		return
	}
	vel := LaunchVelocity(avg, c.conf.JumpMultiplier, c.conf.MaxJumpSpeed)
	if c.dbg.Enabled(DebugModeLaunch) {
		c.dbg.Notify(DebugModeLaunch, true, "launch: average=%v velocity=%v", avg, vel)
	}
	c.body.SetVelocity(vel)
}

// LaunchVelocity scales the average velocity by the multiplier, preserving its direction but
// limiting its magnitude to maxSpeed.
func LaunchVelocity(average mgl32.Vec3, multiplier, maxSpeed float32) mgl32.Vec3 {
	vel := average.Mul(multiplier)
	if speed(vel) <= maxSpeed {
		return vel
	}
	dir, ok := game.SafeNormalize(average)
	if !ok {
		return mgl32.Vec3{}
	}
	return dir.Mul(maxSpeed)
}

// Turn rotates the body by the amount of degrees passed around the world up axis through the
// head. The velocity history is rotated with it, so a launch right after a turn follows the new
// heading.
func (c *Controller) Turn(degrees float32) {
	if degrees == 0 || math32.IsNaN(degrees) || math32.IsInf(degrees, 0) {
		return
	}
	q := game.YawRotation(degrees)
	pivot := c.headPosition()

	c.body.SetPosition(game.RotateAround(c.body.Position(), pivot, q))
	c.body.SetRotation(q.Mul(orIdentity(c.body.Rotation())).Normalize())
	c.lastBody = game.RotateAround(c.lastBody, pivot, q)
	c.history.Rotate(q)
	c.bodyYaw = game.Yaw(orIdentity(c.body.Rotation()).Mul(orIdentity(c.poses.Head().Rotation)))
	if c.dbg.Enabled(DebugModeBody) {
		c.dbg.Notify(DebugModeBody, true, "turned %v degrees around %v", degrees, pivot)
	}
}

// IsHandTouching returns true if the hand touched geometry in the last tick.
func (c *Controller) IsHandTouching(side Side) bool {
	return c.hands[side].touching
}

// HandFollowerPosition returns the position a hand should be drawn at: its last resolved
// position, which stays on the surface the hand is touching.
func (c *Controller) HandFollowerPosition(side Side) mgl32.Vec3 {
	return c.hands[side].last
}

// BodyYaw returns the heading of the head in the world, in degrees. The body collider of the rig
// follows it.
func (c *Controller) BodyYaw() float32 {
	return c.bodyYaw
}

// SetDisableMovement disables or enables launches.
func (c *Controller) SetDisableMovement(disable bool) {
	c.conf.DisableMovement = disable
}

// MovementDisabled returns true if launches are disabled.
func (c *Controller) MovementDisabled() bool {
	return c.conf.DisableMovement
}

// AverageVelocity returns the running average of the body velocity.
func (c *Controller) AverageVelocity() mgl32.Vec3 {
	return c.history.Average()
}

// Queries returns the number of geometry queries the resolver performed in the last tick.
func (c *Controller) Queries() int {
	return c.resolver.Queries()
}

// Config returns the Config of the controller.
func (c *Controller) Config() Config {
	return c.conf
}

func (c *Controller) String() string {
	return fmt.Sprintf("Controller{left=%v/%v right=%v/%v head=%v}", c.hands[Left].last, c.hands[Left].touching,
		c.hands[Right].last, c.hands[Right].touching, c.lastHead)
}
