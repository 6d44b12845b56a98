package simulation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/game"
	"github.com/velutils/climb/locomotion"
)

// Recorder records the inputs of a Rig, so that its run can be replayed.
type Recorder interface {
	RecordTick(tick int64, dt float32, head, left, right locomotion.Pose)
	RecordTurn(tick int64, degrees float32)
	RecordDisable(tick int64, disable bool)
	RecordReset(tick int64, pos mgl32.Vec3, rot mgl32.Quat)
}

// NopRecorder implements Recorder and records nothing.
type NopRecorder struct{}

func (NopRecorder) RecordTick(int64, float32, locomotion.Pose, locomotion.Pose, locomotion.Pose) {}
func (NopRecorder) RecordTurn(int64, float32)                                                   {}
func (NopRecorder) RecordDisable(int64, bool)                                                   {}
func (NopRecorder) RecordReset(int64, mgl32.Vec3, mgl32.Quat)                                   {}

// Frame is a snapshot of a Rig at the end of a step.
type Frame struct {
	Tick     int64
	Time     float32
	Body     mgl32.Vec3
	Velocity mgl32.Vec3
	Head     mgl32.Vec3

	// HeadAngularVelocity is the rotation of the head in the world during the step, as axis *
	// radians per second. Turns of the rig count towards it.
	HeadAngularVelocity mgl32.Vec3
	Hands               [2]mgl32.Vec3
	Touching            [2]bool
}

// Rig ties a Controller to a kinematic Body and a settable pose source. Every input passed to
// the rig is forwarded to its Recorder.
type Rig struct {
	Controller *locomotion.Controller
	Body       *Body
	Poses      *Poses

	rec  Recorder
	tick int64
	now  float32

	headRot     mgl32.Quat
	headAngular mgl32.Vec3
}

// NewRig returns a Rig with its body at pos, colliding with the geometry passed.
func NewRig(geometry locomotion.Geometry, conf locomotion.Config, bodyConf BodyConfig, pos mgl32.Vec3, poses *Poses) (*Rig, error) {
	body := NewBody(geometry, conf, bodyConf, pos)
	c, err := locomotion.New(conf, geometry, poses, body)
	if err != nil {
		return nil, err
	}
	r := &Rig{Controller: c, Body: body, Poses: poses, rec: NopRecorder{}}
	r.headRot = r.headRotation()
	return r, nil
}

// Record sets the Recorder inputs are passed to. A nil Recorder discards them.
func (r *Rig) Record(rec Recorder) {
	if rec == nil {
		rec = NopRecorder{}
	}
	r.rec = rec
}

// Tick returns the number of steps run.
func (r *Rig) Tick() int64 {
	return r.tick
}

// Now returns the simulated time in seconds.
func (r *Rig) Now() float32 {
	return r.now
}

// Step ticks the controller with the current poses and then moves the body by its velocity.
func (r *Rig) Step(dt float32) Frame {
	r.rec.RecordTick(r.tick, dt, r.Poses.Head(), r.Poses.Hand(locomotion.Left), r.Poses.Hand(locomotion.Right))
	r.Controller.Tick(dt)
	r.Body.Step(dt)

	rot := r.headRotation()
	r.headAngular = game.AngularVelocity(r.headRot, rot, dt)
	r.headRot = rot
	r.tick++
	if dt > 0 {
		r.now += dt
	}
	return r.Frame()
}

// Turn turns the rig around its head.
func (r *Rig) Turn(degrees float32) {
	r.rec.RecordTurn(r.tick, degrees)
	r.Controller.Turn(degrees)
}

// SetDisableMovement disables or enables launches.
func (r *Rig) SetDisableMovement(disable bool) {
	r.rec.RecordDisable(r.tick, disable)
	r.Controller.SetDisableMovement(disable)
}

// Teleport moves the body and resets the controller.
func (r *Rig) Teleport(pos mgl32.Vec3, rot mgl32.Quat) {
	r.rec.RecordReset(r.tick, pos, rot)
	r.Body.Teleport(pos, rot)
	r.Controller.Reset()
	r.headRot, r.headAngular = r.headRotation(), mgl32.Vec3{}
}

// headRotation returns the rotation of the tracked head in the world.
func (r *Rig) headRotation() mgl32.Quat {
	return r.Body.Rotation().Mul(r.Poses.Head().Rotation).Normalize()
}

// Frame returns a snapshot of the rig.
func (r *Rig) Frame() Frame {
	f := Frame{
		Tick:     r.tick,
		Time:     r.now,
		Body:     r.Body.Position(),
		Velocity: r.Body.Velocity(),
		Head:     r.Body.Position().Add(r.Body.Rotation().Rotate(r.Poses.Head().Position)),

		HeadAngularVelocity: r.headAngular,
	}
	for _, side := range [...]locomotion.Side{locomotion.Left, locomotion.Right} {
		f.Hands[side] = r.Controller.HandFollowerPosition(side)
		f.Touching[side] = r.Controller.IsHandTouching(side)
	}
	return f
}

// TouchRecord is a touch event together with the step it happened in.
type TouchRecord struct {
	Tick  int64
	Enter bool
	Event locomotion.TouchEvent
}

// TouchLog is a locomotion.Handler that keeps every touch event of a Rig.
type TouchLog struct {
	rig     *Rig
	Records []TouchRecord
}

// NewTouchLog returns a TouchLog stamping events with the current step of the rig passed.
func NewTouchLog(r *Rig) *TouchLog {
	return &TouchLog{rig: r}
}

func (l *TouchLog) HandleTouchEnter(e locomotion.TouchEvent) {
	l.Records = append(l.Records, TouchRecord{Tick: l.rig.tick, Enter: true, Event: e})
}

func (l *TouchLog) HandleTouchExit(e locomotion.TouchEvent) {
	l.Records = append(l.Records, TouchRecord{Tick: l.rig.tick, Event: e})
}

// Enters returns the number of touch-enter records of the side passed.
func (l *TouchLog) Enters(side locomotion.Side) (n int) {
	for _, r := range l.Records {
		if r.Enter && r.Event.Side == side {
			n++
		}
	}
	return n
}
