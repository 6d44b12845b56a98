package simulation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/velutils/climb/locomotion"
	"github.com/velutils/climb/world"
)

// DemoHeadHeight is the height of the tracked head above the body in the demo scenario.
const DemoHeadHeight = 0.8

// DemoWorld returns a small playground: a floor, a climbing wall with a ledge, an icy slab and a
// rough boulder.
func DemoWorld(log logrus.FieldLogger) (*world.World, error) {
	w := world.New(log)
	colliders := []struct {
		name  string
		shape world.Shape
		opts  []world.ColliderOption
	}{
		{name: "floor", shape: world.NewBox(mgl32.Vec3{-10, -1, -10}, mgl32.Vec3{10, 0, 10})},
		{name: "wall", shape: world.NewBox(mgl32.Vec3{1.2, 0, -2}, mgl32.Vec3{1.6, 4, 2})},
		{name: "ledge", shape: world.NewBox(mgl32.Vec3{0.9, 2.2, -1}, mgl32.Vec3{1.2, 2.3, 1})},
		{
			name:  "ice",
			shape: world.NewBox(mgl32.Vec3{-4, 0, -4}, mgl32.Vec3{-2, 0.2, -2}),
			opts:  []world.ColliderOption{world.WithSurface(locomotion.Surface{SlipPercentage: 1, Roughness: 0.05})},
		},
		{
			name:  "boulder",
			shape: world.Sphere{Center: mgl32.Vec3{-2, 0.4, 2}, Radius: 0.8},
			opts:  []world.ColliderOption{world.WithSurface(locomotion.Surface{SlipPercentage: 0, Roughness: 0.9})},
		},
		{
			name:  "trigger",
			shape: world.NewBox(mgl32.Vec3{-0.5, 0, 3}, mgl32.Vec3{0.5, 2, 4}),
			opts:  []world.ColliderOption{world.WithLayer(2)},
		},
	}
	for _, c := range colliders {
		if _, err := w.Add(c.name, c.shape, c.opts...); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func demoPose(x, y, z float32) locomotion.Pose {
	return locomotion.Pose{Position: mgl32.Vec3{x, y, z}, Rotation: mgl32.QuatIdent()}
}

// DemoScenario returns a scenario in which the rig settles on the floor of the demo world, pushes
// itself up off the floor with both hands, turns around and lets itself fall back down.
func DemoScenario() Scenario {
	head := demoPose(0, DemoHeadHeight, 0)
	frames := []Keyframe{
		{Time: 0, Head: head, Left: demoPose(-0.3, 0.6, 0.3), Right: demoPose(0.3, 0.6, 0.3)},
		{Time: 0.5, Head: head, Left: demoPose(-0.3, 0.1, 0.3), Right: demoPose(0.3, 0.1, 0.3)},
		{Time: 0.8, Head: head, Left: demoPose(-0.3, -0.5, 0.3), Right: demoPose(0.3, -0.5, 0.3)},
		{Time: 1, Head: head, Left: demoPose(-0.3, 0.6, 0.3), Right: demoPose(0.3, 0.6, 0.3)},
		{Time: 2.5, Head: head, Left: demoPose(-0.3, 0.6, 0.3), Right: demoPose(0.3, 0.6, 0.3)},
	}
	script, err := NewScript(frames...)
	if err != nil {
		panic(err)
	}
	return Scenario{
		Name:   "demo",
		DT:     1.0 / 60,
		Script: script,
		Turns:  map[int64]float32{70: 45, 100: -45},
	}
}
