package locomotion_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/game"
	"github.com/velutils/climb/locomotion"
	"github.com/velutils/climb/world"
)

const dt = float32(1) / 60

type mockPoses struct {
	head  locomotion.Pose
	hands [2]locomotion.Pose
}

func (p *mockPoses) Head() locomotion.Pose {
	return p.head
}

func (p *mockPoses) Hand(side locomotion.Side) locomotion.Pose {
	return p.hands[side]
}

type mockBody struct {
	pos        mgl32.Vec3
	rot        mgl32.Quat
	vel        mgl32.Vec3
	velocities []mgl32.Vec3
}

func (b *mockBody) Position() mgl32.Vec3       { return b.pos }
func (b *mockBody) SetPosition(pos mgl32.Vec3) { b.pos = pos }
func (b *mockBody) Rotation() mgl32.Quat       { return b.rot }
func (b *mockBody) SetRotation(rot mgl32.Quat) { b.rot = rot }

func (b *mockBody) SetVelocity(vel mgl32.Vec3) {
	b.vel = vel
	b.velocities = append(b.velocities, vel)
}

func (b *mockBody) head(local mgl32.Vec3) mgl32.Vec3 {
	return b.pos.Add(b.rot.Rotate(local))
}

type recorder struct {
	enter, exit []locomotion.TouchEvent
}

func (r *recorder) HandleTouchEnter(e locomotion.TouchEvent) {
	r.enter = append(r.enter, e)
}

func (r *recorder) HandleTouchExit(e locomotion.TouchEvent) {
	r.exit = append(r.exit, e)
}

func newRig(t *testing.T, w *world.World) (*locomotion.Controller, *mockPoses, *mockBody, *recorder) {
	t.Helper()
	return newRigWithConfig(t, w, locomotion.DefaultConfig())
}

func newRigWithConfig(t *testing.T, w *world.World, conf locomotion.Config) (*locomotion.Controller, *mockPoses, *mockBody, *recorder) {
	t.Helper()
	poses := &mockPoses{head: locomotion.Pose{Position: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.QuatIdent()}}
	poses.hands[locomotion.Left] = locomotion.Pose{Position: mgl32.Vec3{0.3, 0.1, 0}, Rotation: mgl32.QuatIdent()}
	poses.hands[locomotion.Right] = locomotion.Pose{Position: mgl32.Vec3{0.2, 1.3, 0}, Rotation: mgl32.QuatIdent()}
	body := &mockBody{rot: mgl32.QuatIdent()}

	c, err := locomotion.New(conf, w, poses, body)
	require.NoError(t, err)
	rec := &recorder{}
	c.Handle(rec)
	return c, poses, body, rec
}

func floorWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(nil)
	_, err := w.Add("floor", world.NewBox(mgl32.Vec3{-5, -1, -5}, mgl32.Vec3{5, 0, 5}))
	require.NoError(t, err)
	return w
}

func TestNewValidatesConfig(t *testing.T) {
	conf := locomotion.DefaultConfig()
	conf.Precision = 1.5
	_, err := locomotion.New(conf, world.New(nil), &mockPoses{}, &mockBody{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, cerror.ErrInvalidConfig))

	_, err = locomotion.New(locomotion.DefaultConfig(), nil, &mockPoses{}, &mockBody{})
	assert.Error(t, err)
}

func TestTickFreeHands(t *testing.T) {
	c, _, body, rec := newRig(t, world.New(nil))
	for i := 0; i < 10; i++ {
		c.Tick(dt)
	}
	assert.Equal(t, mgl32.Vec3{}, body.pos)
	assert.False(t, c.IsHandTouching(locomotion.Left))
	assert.False(t, c.IsHandTouching(locomotion.Right))
	assert.Empty(t, rec.enter)
	assert.Empty(t, body.velocities)
	assert.LessOrEqual(t, c.Queries(), 40)

	// Non-positive time steps are ignored.
	c.Tick(0)
	c.Tick(-1)
}

func TestTouchAndClimb(t *testing.T) {
	c, poses, body, rec := newRig(t, floorWorld(t))
	c.Tick(dt)
	require.False(t, c.IsHandTouching(locomotion.Left))

	// Pressing the hand into the floor pushes the body up instead.
	poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.01, 0}
	c.Tick(dt)
	require.True(t, c.IsHandTouching(locomotion.Left))
	require.Len(t, rec.enter, 1)
	assert.Equal(t, locomotion.Left, rec.enter[0].Side)
	assert.Less(t, rec.enter[0].Velocity.Y(), float32(0))
	assert.Greater(t, body.pos.Y(), float32(0.015))
	assert.GreaterOrEqual(t, c.HandFollowerPosition(locomotion.Left).Y(), float32(0.028))

	// Pulling the hand down further while touching lifts the body by the same amount.
	before := body.pos.Y()
	poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, -0.09, 0}
	c.Tick(dt)
	assert.True(t, c.IsHandTouching(locomotion.Left))
	assert.InDelta(t, before+0.1, body.pos.Y(), 1e-3)
	assert.Len(t, rec.enter, 1)
	assert.Empty(t, rec.exit)

	// Lifting the hand off releases it.
	poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.3, 0}
	c.Tick(dt)
	assert.False(t, c.IsHandTouching(locomotion.Left))
	require.Len(t, rec.exit, 1)
	assert.Equal(t, locomotion.Left, rec.exit[0].Side)
}

func TestUnstick(t *testing.T) {
	w := floorWorld(t)
	// A wall behind the head keeps the body from following the hand.
	_, err := w.Add("wall", world.NewBox(mgl32.Vec3{-1, 0.5, -1}, mgl32.Vec3{-0.2, 2, 1}))
	require.NoError(t, err)
	c, poses, body, rec := newRig(t, w)
	c.Tick(dt)

	poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.01, 0}
	c.Tick(dt)
	require.True(t, c.IsHandTouching(locomotion.Left))
	anchor := c.HandFollowerPosition(locomotion.Left)

	// Drag the hand along the floor, further than the unstick distance from its anchor.
	poses.hands[locomotion.Left].Position = mgl32.Vec3{1, 0.02 - body.pos.Y(), 0}
	c.Tick(dt)
	assert.Greater(t, body.pos.X(), float32(-0.1), "the head is stopped by the wall")
	assert.False(t, c.IsHandTouching(locomotion.Left))
	require.Len(t, rec.exit, 1)
	assert.Equal(t, locomotion.Left, rec.exit[0].Side)
	assert.Greater(t, rec.exit[0].Velocity.X(), float32(0))
	assert.Greater(t, c.HandFollowerPosition(locomotion.Left).Sub(anchor).Len(), float32(0.5))

	for i := 0; i < 3; i++ {
		c.Tick(dt)
	}
	assert.Len(t, rec.exit, 1)
}

func TestTurn(t *testing.T) {
	c, poses, body, _ := newRig(t, world.New(nil))
	poses.head.Position = mgl32.Vec3{0.5, 1.5, 0}
	body.pos = mgl32.Vec3{1, 0, 0}
	c.Reset()

	// Move the body from outside, as gravity would, to fill the velocity history.
	body.pos = body.pos.Add(mgl32.Vec3{0.1, 0, 0})
	c.Tick(dt)
	avg := c.AverageVelocity()
	require.InDelta(t, 1, avg.Len(), 1e-3)

	head := body.head(poses.head.Position)
	c.Turn(90)

	q := game.YawRotation(90)
	assert.True(t, game.Vec3ApproxEq(head, body.head(poses.head.Position), 1e-5), "the head is the pivot")
	assert.True(t, game.Vec3ApproxEq(q.Rotate(avg), c.AverageVelocity(), 1e-5))
	assert.InDelta(t, 90, c.BodyYaw(), 1e-3)

	// The turn itself is not body movement: a zero sample replaces a zero sample.
	c.Tick(dt)
	assert.True(t, game.Vec3ApproxEq(q.Rotate(avg), c.AverageVelocity(), 1e-4), "got %v", c.AverageVelocity())
	assert.Equal(t, mgl32.Vec3{}, c.Config().LeftHandOffset)
}

func TestLaunchOnPull(t *testing.T) {
	c, poses, body, _ := newRig(t, floorWorld(t))
	c.Tick(dt)
	poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.01, 0}
	c.Tick(dt)
	require.True(t, c.IsHandTouching(locomotion.Left))

	// Quickly pulling down on the floor moves the body up fast enough to launch it.
	for i := 1; i <= 3; i++ {
		poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.01 - 0.05*float32(i), 0}
		c.Tick(dt)
	}
	require.NotEmpty(t, body.velocities)
	assert.Greater(t, body.vel.Y(), float32(0))
	assert.LessOrEqual(t, body.vel.Len(), float32(6.5)+1e-4)

	c.SetDisableMovement(true)
	body.velocities = nil
	poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, -0.2, 0}
	c.Tick(dt)
	for _, v := range body.velocities {
		assert.Equal(t, mgl32.Vec3{}, v, "only the contact reset is applied")
	}
}

func TestHeadStopsAtWall(t *testing.T) {
	w := world.New(nil)
	_, err := w.Add("wall", world.NewBox(mgl32.Vec3{0.5, -5, -5}, mgl32.Vec3{0.55, 5, 5}))
	require.NoError(t, err)
	c, poses, body, _ := newRig(t, w)
	c.Tick(dt)

	// The hands are free, yet stepping the tracked head through the wall moves the body back.
	poses.head.Position = mgl32.Vec3{1, 1, 0}
	c.Tick(dt)
	head := body.head(poses.head.Position)
	assert.Less(t, head.X(), float32(0.4), "head at %v", head)
	assert.LessOrEqual(t, head.X()+c.Config().HeadRadius*c.Config().Precision, float32(0.5)+1e-4)
	assert.Less(t, body.pos.X(), float32(-0.5))
	assert.InDelta(t, 0, body.pos.Y(), 1e-5)
}

func TestTouchDebounce(t *testing.T) {
	c, poses, body, rec := newRig(t, floorWorld(t))
	c.Tick(dt)

	press := func() {
		poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.01 - body.pos.Y(), 0}
		c.Tick(dt)
	}
	lift := func() {
		poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.3, 0}
		c.Tick(dt)
	}

	press()
	require.Len(t, rec.enter, 1)
	lift()
	require.Len(t, rec.exit, 1)

	// Touching again right away is a contact, but not a new touch.
	press()
	assert.True(t, c.IsHandTouching(locomotion.Left))
	assert.Len(t, rec.enter, 1)
	lift()
	assert.Len(t, rec.exit, 2, "releases are not debounced")

	for i := 0; i < 15; i++ {
		c.Tick(dt)
	}
	press()
	assert.True(t, c.IsHandTouching(locomotion.Left))
	assert.Len(t, rec.enter, 2)
}

func TestTwoHandsAverage(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	conf := locomotion.DefaultConfig()
	conf.DebugModes = locomotion.DebugModeResolver | locomotion.DebugModeHands
	conf.Log = log

	c, poses, body, rec := newRigWithConfig(t, floorWorld(t), conf)
	poses.hands[locomotion.Left].Position = mgl32.Vec3{-0.3, 0.1, 0}
	poses.hands[locomotion.Right].Position = mgl32.Vec3{0.3, 0.1, 0}
	c.Tick(dt)
	poses.hands[locomotion.Left].Position = mgl32.Vec3{-0.3, 0.01, 0}
	poses.hands[locomotion.Right].Position = mgl32.Vec3{0.3, 0.01, 0}
	c.Tick(dt)
	require.True(t, c.IsHandTouching(locomotion.Left))
	require.True(t, c.IsHandTouching(locomotion.Right))
	require.Len(t, rec.enter, 2)

	// Pulling by 0.1 and 0.2 moves the body by the mean of both.
	hook.Reset()
	before := body.pos.Y()
	poses.hands[locomotion.Left].Position = mgl32.Vec3{-0.3, -0.09, 0}
	poses.hands[locomotion.Right].Position = mgl32.Vec3{0.3, -0.19, 0}
	c.Tick(dt)
	assert.InDelta(t, before+0.15, body.pos.Y(), 2e-3)

	var second int
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "second pass") {
			second++
			assert.Contains(t, e.Message, "single=false", "both hands hold on")
			assert.Equal(t, "resolver", e.Data["stage"])
		}
	}
	assert.Equal(t, 2, second)
}

func TestTouchEnterIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	conf := locomotion.DefaultConfig()
	conf.DebugModes = locomotion.DebugModeHands
	conf.Log = log

	c, poses, _, _ := newRigWithConfig(t, floorWorld(t), conf)
	c.Tick(dt)
	assert.Empty(t, hook.AllEntries(), "nothing happened to the hands")

	poses.hands[locomotion.Left].Position = mgl32.Vec3{0.3, 0.01, 0}
	c.Tick(dt)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "(left) touch enter")
	for _, e := range hook.AllEntries() {
		assert.Equal(t, "hands", e.Data["stage"], "only the enabled stage is logged")
	}
}

func TestLaunchAfterTurn(t *testing.T) {
	c, poses, body, _ := newRig(t, floorWorld(t))
	poses.hands[locomotion.Left].Position = mgl32.Vec3{0, 0.1, 0}
	c.Tick(dt)
	poses.hands[locomotion.Left].Position = mgl32.Vec3{0, 0.01, 0}
	c.Tick(dt)
	require.True(t, c.IsHandTouching(locomotion.Left))

	// Drag the body along -x, keeping the hand right below the head so a turn does not move it.
	for i := 1; i <= 3; i++ {
		x := 0.05 * float32(i)
		poses.head.Position = mgl32.Vec3{x, 1, 0}
		poses.hands[locomotion.Left].Position = mgl32.Vec3{x, 0.01, 0}
		c.Tick(dt)
	}
	require.True(t, c.IsHandTouching(locomotion.Left))
	avg := c.AverageVelocity()
	require.Less(t, avg.X(), float32(-1))

	c.Turn(90)
	c.Tick(dt)
	require.True(t, c.IsHandTouching(locomotion.Left))
	want := game.YawRotation(90).Rotate(locomotion.LaunchVelocity(avg, 1.1, 6.5))
	assert.True(t, game.Vec3ApproxEq(want, body.vel, 0.05), "want %v, got %v", want, body.vel)
	assert.Greater(t, body.vel.Z(), float32(1), "the launch follows the new heading")
}

// planeGeometry is a floor at y=0 that does not allocate on queries.
type planeGeometry struct{}

func (planeGeometry) SweepSphere(origin mgl32.Vec3, radius float32, direction mgl32.Vec3, maxDistance float32, _ uint32) (locomotion.Hit, bool) {
	dir, ok := game.SafeNormalize(direction)
	if !ok || dir.Y() >= 0 || origin.Y() < radius {
		return locomotion.Hit{}, false
	}
	d := (origin.Y() - radius) / -dir.Y()
	if d > maxDistance {
		return locomotion.Hit{}, false
	}
	p := origin.Add(dir.Mul(d))
	return locomotion.Hit{Point: mgl32.Vec3{p.X(), 0, p.Z()}, Normal: game.Up, Distance: d, Collider: 1}, true
}

func (g planeGeometry) Raycast(origin, direction mgl32.Vec3, maxDistance float32, mask uint32) (locomotion.Hit, bool) {
	if origin.Y() <= 0 {
		return locomotion.Hit{}, false
	}
	return g.SweepSphere(origin, 0, direction, maxDistance, mask)
}

func (planeGeometry) Surface(locomotion.ColliderID) (locomotion.Surface, bool) {
	return locomotion.Surface{}, false
}

type touchCounter struct {
	enter, exit int
}

func (tc *touchCounter) HandleTouchEnter(locomotion.TouchEvent) { tc.enter++ }
func (tc *touchCounter) HandleTouchExit(locomotion.TouchEvent)  { tc.exit++ }

func TestTickDoesNotAllocate(t *testing.T) {
	poses := &mockPoses{head: locomotion.Pose{Position: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.QuatIdent()}}
	poses.hands[locomotion.Left] = locomotion.Pose{Position: mgl32.Vec3{-0.3, 0.3, 0}, Rotation: mgl32.QuatIdent()}
	poses.hands[locomotion.Right] = locomotion.Pose{Position: mgl32.Vec3{0.3, 0.3, 0}, Rotation: mgl32.QuatIdent()}
	body := &staticBody{rot: mgl32.QuatIdent()}
	c, err := locomotion.New(locomotion.DefaultConfig(), planeGeometry{}, poses, body)
	require.NoError(t, err)
	counter := &touchCounter{}
	c.Handle(counter)

	// Alternate between pressing both hands into the floor and lifting them, slower than the
	// touch debounce.
	var n int
	allocs := testing.AllocsPerRun(100, func() {
		y := float32(0.3)
		if n/15%2 == 1 {
			y = 0.01 - body.pos.Y()
		}
		poses.hands[locomotion.Left].Position[1] = y
		poses.hands[locomotion.Right].Position[1] = y
		c.Tick(dt)
		n++
	})
	assert.Zero(t, allocs)
	assert.Positive(t, counter.enter)
	assert.Positive(t, counter.exit)
}

type staticBody struct {
	pos mgl32.Vec3
	rot mgl32.Quat
	vel mgl32.Vec3
}

func (b *staticBody) Position() mgl32.Vec3       { return b.pos }
func (b *staticBody) SetPosition(pos mgl32.Vec3) { b.pos = pos }
func (b *staticBody) Rotation() mgl32.Quat       { return b.rot }
func (b *staticBody) SetRotation(rot mgl32.Quat) { b.rot = rot }
func (b *staticBody) SetVelocity(vel mgl32.Vec3) { b.vel = vel }
