package session

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/event"
	"github.com/velutils/climb/locomotion"
	"github.com/velutils/climb/simulation"
	"github.com/velutils/climb/worker"
)

// Replay drives a new rig with the inputs of the recording and returns the frames and touch
// events it produced. Given the same geometry and configuration, the result is identical to that
// of the recorded run.
func Replay(rec *Recording, geometry locomotion.Geometry, conf locomotion.Config, bodyConf simulation.BodyConfig) (simulation.Result, error) {
	poses := &simulation.Poses{}
	rig, err := simulation.NewRig(geometry, conf, bodyConf, mgl32.Vec3{}, poses)
	if err != nil {
		return simulation.Result{}, fmt.Errorf("create rig for replay %s: %w", rec.ID, err)
	}
	log := simulation.NewTouchLog(rig)
	rig.Controller.Handle(log)

	res := simulation.Result{}
	for i, ev := range rec.Events {
		if ev.Time() != rig.Tick() {
			return res, cerror.Kind(cerror.ErrCorruptRecording, "event %d happened in tick %d, but the replay is at tick %d", i, ev.Time(), rig.Tick())
		}
		switch ev := ev.(type) {
		case event.TickEvent:
			poses.Set(ev.Head, ev.Hands[locomotion.Left], ev.Hands[locomotion.Right])
			res.Frames = append(res.Frames, rig.Step(ev.DT))
		case event.TurnEvent:
			rig.Turn(ev.Degrees)
		case event.DisableMovementEvent:
			rig.SetDisableMovement(ev.Disable)
		case event.ResetEvent:
			// The hands are placed at the poses of the tick following the reset.
			if next, ok := nextTick(rec.Events[i+1:]); ok {
				poses.Set(next.Head, next.Hands[locomotion.Left], next.Hands[locomotion.Right])
			}
			rig.Teleport(ev.Position, ev.Rotation)
		default:
			return res, cerror.New("unable to replay event %T", ev)
		}
	}
	res.Touches = log.Records
	return res, nil
}

func nextTick(events []event.Event) (event.TickEvent, bool) {
	for _, ev := range events {
		if tick, ok := ev.(event.TickEvent); ok {
			return tick, true
		}
	}
	return event.TickEvent{}, false
}

// ReplayAll replays every recording on the worker pool. The geometry is shared between the
// replays and must be safe for concurrent queries.
func ReplayAll(recs []*Recording, geometry locomotion.Geometry, conf locomotion.Config, bodyConf simulation.BodyConfig) ([]simulation.Result, error) {
	results := make([]simulation.Result, len(recs))
	jobs := make([]<-chan error, len(recs))
	for i, rec := range recs {
		jobs[i] = worker.Do(func() error {
			var err error
			results[i], err = Replay(rec, geometry, conf, bodyConf)
			return err
		})
	}
	if err := worker.Wait(jobs...); err != nil {
		return nil, err
	}
	return results, nil
}
