package simulation

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/locomotion"
)

// Keyframe holds the tracked poses of a rig at a point in time, in seconds from the start of a
// Script.
type Keyframe struct {
	Time  float32
	Head  locomotion.Pose
	Left  locomotion.Pose
	Right locomotion.Pose
}

// Script plays back keyframed poses, interpolating between them. Positions are interpolated
// linearly and rotations spherically.
type Script struct {
	frames []Keyframe
	t      float32
}

// NewScript returns a Script of the keyframes passed, which must have strictly increasing times.
func NewScript(frames ...Keyframe) (*Script, error) {
	if len(frames) == 0 {
		return nil, cerror.New("script needs at least one keyframe")
	}
	for i := 1; i < len(frames); i++ {
		if !(frames[i].Time > frames[i-1].Time) {
			return nil, cerror.New("keyframe %d at %v does not come after keyframe %d at %v", i, frames[i].Time, i-1, frames[i-1].Time)
		}
	}
	return &Script{frames: slices.Clone(frames)}, nil
}

// Duration returns the time of the last keyframe.
func (s *Script) Duration() float32 {
	return s.frames[len(s.frames)-1].Time
}

// Time returns the current playback time.
func (s *Script) Time() float32 {
	return s.t
}

// Done returns true once playback passed the last keyframe.
func (s *Script) Done() bool {
	return s.t >= s.Duration()
}

// Advance moves playback forward by dt seconds.
func (s *Script) Advance(dt float32) {
	s.t += dt
}

// Rewind restarts playback.
func (s *Script) Rewind() {
	s.t = 0
}

// Apply sets the poses passed to the poses of the script at the current playback time.
func (s *Script) Apply(p *Poses) {
	f := s.At(s.t)
	p.Set(f.Head, f.Left, f.Right)
}

// At returns the interpolated keyframe at time t. Before the first and after the last keyframe
// the poses of that keyframe are returned.
func (s *Script) At(t float32) Keyframe {
	i, _ := slices.BinarySearchFunc(s.frames, t, func(f Keyframe, t float32) int {
		switch {
		case f.Time < t:
			return -1
		case f.Time > t:
			return 1
		}
		return 0
	})
	if i == 0 {
		f := s.frames[0]
		f.Time = t
		return f
	}
	if i == len(s.frames) {
		f := s.frames[len(s.frames)-1]
		f.Time = t
		return f
	}
	a, b := s.frames[i-1], s.frames[i]
	amount := mgl32.Clamp((t-a.Time)/(b.Time-a.Time), 0, 1)
	if math32.IsNaN(amount) {
		amount = 0
	}
	return Keyframe{
		Time:  t,
		Head:  lerpPose(a.Head, b.Head, amount),
		Left:  lerpPose(a.Left, b.Left, amount),
		Right: lerpPose(a.Right, b.Right, amount),
	}
}

func lerpPose(a, b locomotion.Pose, amount float32) locomotion.Pose {
	pos := a.Position.Add(b.Position.Sub(a.Position).Mul(amount))
	return locomotion.Pose{Position: pos, Rotation: slerp(a.Rotation, b.Rotation, amount)}
}

func slerp(a, b mgl32.Quat, amount float32) mgl32.Quat {
	zero := mgl32.Quat{}
	if a == zero {
		a = mgl32.QuatIdent()
	}
	if b == zero {
		b = mgl32.QuatIdent()
	}
	return mgl32.QuatSlerp(a, b, amount)
}
