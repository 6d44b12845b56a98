package simulation

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/locomotion"
)

// Scenario is a scripted run of a Rig.
type Scenario struct {
	Name  string
	Start mgl32.Vec3
	// DT is the fixed step the rig is run at.
	DT     float32
	Script *Script
	// Turns and Disable hold the turns and launch toggles applied before the step they are keyed
	// by.
	Turns   map[int64]float32
	Disable map[int64]bool
}

// Ticks returns the number of steps needed to play the whole script.
func (sc Scenario) Ticks() int64 {
	return int64(math32.Ceil(sc.Script.Duration() / sc.DT))
}

// Result holds the frames and touch events of a Run.
type Result struct {
	Frames  []Frame
	Touches []TouchRecord
}

// MaxHeight returns the highest body position reached.
func (r Result) MaxHeight() float32 {
	h := float32(-math32.MaxFloat32)
	for _, f := range r.Frames {
		h = math32.Max(h, f.Body.Y())
	}
	return h
}

// Run plays the scenario on a new rig colliding with the geometry passed. Its inputs are passed to
// rec and its touch events to handler, both of which may be nil. Run stops early with the
// context's error if it is cancelled.
func Run(ctx context.Context, geometry locomotion.Geometry, conf locomotion.Config, bodyConf BodyConfig, sc Scenario, rec Recorder, handler locomotion.Handler) (Result, error) {
	if sc.Script == nil || !(sc.DT > 0) {
		return Result{}, cerror.New("scenario %q needs a script and a positive step", sc.Name)
	}
	first := sc.Script.At(0)
	poses := &Poses{}
	poses.Set(first.Head, first.Left, first.Right)

	rig, err := NewRig(geometry, conf, bodyConf, sc.Start, poses)
	if err != nil {
		return Result{}, fmt.Errorf("create rig for scenario %q: %w", sc.Name, err)
	}
	rig.Record(rec)
	log := NewTouchLog(rig)
	if handler != nil {
		rig.Controller.Handle(locomotion.Handlers{log, handler})
	} else {
		rig.Controller.Handle(log)
	}
	sc.Script.Rewind()
	sc.Script.Apply(poses)
	rig.Teleport(sc.Start, mgl32.QuatIdent())

	n := sc.Ticks()
	res := Result{Frames: make([]Frame, 0, n)}
	for tick := int64(0); tick < n; tick++ {
		if err := ctx.Err(); err != nil {
			res.Touches = log.Records
			return res, err
		}
		if deg, ok := sc.Turns[tick]; ok {
			rig.Turn(deg)
		}
		if disable, ok := sc.Disable[tick]; ok {
			rig.SetDisableMovement(disable)
		}
		sc.Script.Apply(poses)
		res.Frames = append(res.Frames, rig.Step(sc.DT))
		sc.Script.Advance(sc.DT)
	}
	res.Touches = log.Records
	return res, nil
}
