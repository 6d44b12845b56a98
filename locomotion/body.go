package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/game"
)

// CombineHandDisplacements returns the movement of the body for the displacements of both hands.
// If both hands are engaged the displacements are averaged so a two-handed hold does not move the
// body twice as far. Otherwise only one of the displacements is non-zero and it is used as is.
func CombineHandDisplacements(left, right mgl32.Vec3, leftEngaged, rightEngaged bool) mgl32.Vec3 {
	if leftEngaged && rightEngaged {
		return left.Add(right).Mul(0.5)
	}
	return left.Add(right)
}

// vetoHeadMovement validates the movement of the head from its last position to where the
// tracked head ends up after the body moved. If the head would pass into geometry, the body
// movement is shortened so the head rests against it instead. If even the shortened movement ends
// up with the head embedded in a wall, the head is put back at its last position.
func (c *Controller) vetoHeadMovement(head, move mgl32.Vec3) mgl32.Vec3 {
	res := c.resolver.Resolve(c.lastHead, c.conf.HeadRadius, head.Add(move).Sub(c.lastHead), c.conf.Precision, false)
	if !res.DidHit {
		return move
	}
	corrected := res.EndPosition.Sub(head)
	if c.dbg.Enabled(DebugModeBody) {
		c.dbg.Notify(DebugModeBody, true, "head blocked: move=%v corrected=%v", move, corrected)
	}

	travel := res.EndPosition.Sub(c.lastHead)
	if travel.LenSqr() == 0 {
		return corrected
	}
	if _, ok := c.geometry.Raycast(c.lastHead, travel, travel.Len()+c.conf.HeadRadius*c.conf.Precision*game.RaycastShrink, c.conf.LayerMask); ok {
		if c.dbg.Enabled(DebugModeBody) {
			c.dbg.Notify(DebugModeBody, true, "head embedded: returning to %v", c.lastHead)
		}
		return c.lastHead.Sub(head)
	}
	return corrected
}

// headPosition returns the world position of the tracked head for the current body pose.
func (c *Controller) headPosition() mgl32.Vec3 {
	return c.toWorld(c.poses.Head().Position)
}

// toWorld transforms a position in the rig's tracking space into the world.
func (c *Controller) toWorld(local mgl32.Vec3) mgl32.Vec3 {
	return c.body.Position().Add(orIdentity(c.body.Rotation()).Rotate(local))
}

// desired returns the desired world position of the hand for the current body pose.
func (c *Controller) desired(side Side, head mgl32.Vec3) mgl32.Vec3 {
	local := c.poses.Hand(side)
	world := Pose{
		Position: c.toWorld(local.Position),
		Rotation: orIdentity(c.body.Rotation()).Mul(orIdentity(local.Rotation)),
	}
	return desiredHandPosition(head, world, c.conf.handOffset(side), c.conf.MaxArmLength)
}
