package locomotion

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/game"
)

// handState is the contact state of one hand, carried between ticks.
type handState struct {
	side Side

	// last is the last resolved position of the hand. While the hand is touching it is the
	// anchor the body is pulled towards.
	last mgl32.Vec3
	// touching is the colliding state of the previous tick.
	touching bool
	// colliding is set when any resolve of the current tick hit geometry.
	colliding bool

	// displacement is the movement this hand asks of the body in the current tick.
	displacement mgl32.Vec3
	// impact is the velocity the hand moved with in the first resolve of the tick. exit is the
	// velocity reported if the hand is released in the current tick.
	impact  mgl32.Vec3
	exit    mgl32.Vec3
	unstuck bool

	// collider is the collider most recently touched by the hand.
	collider ColliderID

	lastTouchTime float32
	hasTouched    bool
}

// beginTick moves the state of the previous tick out of the way.
func (h *handState) beginTick() {
	h.colliding, h.unstuck = false, false
	h.displacement, h.impact, h.exit = mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}
}

// engaged returns true if the hand touches geometry in this tick or touched it in the last.
func (h *handState) engaged() bool {
	return h.colliding || h.touching
}

// desiredHandPosition returns where the tracked hand is in the world, with the offset applied in
// the hand's own space, pulled back towards the head if it is further than maxArmLength away.
func desiredHandPosition(head mgl32.Vec3, hand Pose, offset mgl32.Vec3, maxArmLength float32) mgl32.Vec3 {
	pos := hand.Position.Add(orIdentity(hand.Rotation).Rotate(offset))
	toHand := pos.Sub(head)
	if toHand.Len() <= maxArmLength {
		return pos
	}
	dir, ok := game.SafeNormalize(toHand)
	if !ok {
		return pos
	}
	return head.Add(dir.Mul(maxArmLength))
}

// stickingBias is the downward offset added to the first resolve of a hand so that a hand
// resting on a flat ledge keeps touching it.
func stickingBias(gravity, dt float32) mgl32.Vec3 {
	return game.Down.Mul(game.StickBiasMultiplier * gravity * dt * dt)
}

// resolveFirst resolves the hand from its anchor towards the desired position before the body is
// moved. On contact the hand either keeps its anchor, if it was already touching, or asks the
// body to move so that it rests where it touched.
func (c *Controller) resolveFirst(h *handState, desired mgl32.Vec3, dt float32) {
	movement := desired.Sub(h.last).Add(stickingBias(c.conf.Gravity, dt))
	h.impact = movement.Mul(1 / dt)

	res := c.resolver.Resolve(h.last, c.conf.MinimumRaycastDistance, movement, c.conf.Precision, true)
	if c.dbg.Enabled(DebugModeResolver) {
		c.dbg.Notify(DebugModeResolver, true, "(%v) first pass: from=%v movement=%v end=%v hit=%v", h.side, h.last, movement, res.EndPosition, res.DidHit)
	}
	if !res.DidHit {
		return
	}
	if h.touching {
		h.displacement = h.last.Sub(desired)
	} else {
		h.displacement = res.EndPosition.Sub(desired)
	}
	h.colliding = true
	h.collider = res.Collider
	c.body.SetVelocity(mgl32.Vec3{})
}

// resolveSecond resolves the hand again after the body moved and stores the new anchor.
func (c *Controller) resolveSecond(h *handState, desired mgl32.Vec3, singleHand bool, dt float32) {
	movement := desired.Sub(h.last)
	res := c.resolver.Resolve(h.last, c.conf.MinimumRaycastDistance, movement, c.conf.Precision, singleHand)
	if c.dbg.Enabled(DebugModeResolver) {
		c.dbg.Notify(DebugModeResolver, true, "(%v) second pass: from=%v movement=%v end=%v hit=%v single=%v", h.side, h.last, movement, res.EndPosition, res.DidHit, singleHand)
	}

	h.exit = movement.Mul(1 / dt)
	if res.DidHit {
		h.last = res.EndPosition
		h.colliding = true
		h.collider = res.Collider
		return
	}
	h.last = desired
}

// unstick releases a colliding hand that was pulled further than UnStickDistance away from its
// anchor, as long as nothing is in the way between the head and the tracked hand.
func (c *Controller) unstick(h *handState, head, desired mgl32.Vec3, dt float32) {
	if !h.colliding {
		return
	}
	pull := desired.Sub(h.last)
	if pull.Len() <= c.conf.UnStickDistance {
		return
	}
	toHand := desired.Sub(head)
	radius := c.conf.MinimumRaycastDistance * c.conf.Precision
	if dist := toHand.Len() - c.conf.MinimumRaycastDistance; dist > 0 && toHand.LenSqr() > 0 {
		if _, ok := c.geometry.SweepSphere(head, radius, toHand, dist, c.conf.LayerMask); ok {
			if c.dbg.Enabled(DebugModeHands) {
				c.dbg.Notify(DebugModeHands, true, "(%v) unstick blocked: pull=%v", h.side, pull.Len())
			}
			return
		}
	}
	if c.dbg.Enabled(DebugModeHands) {
		c.dbg.Notify(DebugModeHands, true, "(%v) unstuck: pull=%v", h.side, pull.Len())
	}
	h.exit = pull.Mul(1 / dt)
	h.last = desired
	h.colliding = false
	h.unstuck = true
}

// endTick fires the touch events of the tick and latches the colliding state.
func (c *Controller) endTick(h *handState) {
	switch {
	case h.colliding && !h.touching:
		debounced := h.hasTouched && c.now-h.lastTouchTime < c.conf.TouchDebounce
		if !debounced && h.impact.Len() > game.MinTouchVelocity {
			h.lastTouchTime, h.hasTouched = c.now, true
			if c.dbg.Enabled(DebugModeHands) {
				c.dbg.Notify(DebugModeHands, true, "(%v) touch enter: pos=%v velocity=%v", h.side, h.last, h.impact)
			}
			c.handler.HandleTouchEnter(c.touchEvent(h, h.impact))
		}
	case !h.colliding && h.touching:
		if c.dbg.Enabled(DebugModeHands) {
			c.dbg.Notify(DebugModeHands, true, "(%v) touch exit: pos=%v velocity=%v unstuck=%v", h.side, h.last, h.exit, h.unstuck)
		}
		c.handler.HandleTouchExit(c.touchEvent(h, h.exit))
	}
	h.touching = h.colliding
}

func (c *Controller) touchEvent(h *handState, velocity mgl32.Vec3) TouchEvent {
	e := TouchEvent{Side: h.side, Position: h.last, Velocity: velocity}
	e.Surface, e.HasSurface = c.geometry.Surface(h.collider)
	return e
}

// orIdentity returns the identity rotation for the zero quaternion.
func orIdentity(q mgl32.Quat) mgl32.Quat {
	if q.W == 0 && q.V.LenSqr() == 0 {
		return mgl32.QuatIdent()
	}
	return q
}

// speed returns the magnitude of v, or zero if it is not finite.
func speed(v mgl32.Vec3) float32 {
	l := v.Len()
	if math32.IsNaN(l) || math32.IsInf(l, 0) {
		return 0
	}
	return l
}
