package world

import (
	"slices"
	"sync/atomic"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/velutils/climb/cerror"
	"github.com/velutils/climb/game"
	"github.com/velutils/climb/locomotion"
	"github.com/zeebo/xxh3"
)

// DefaultLayer is the layer colliders are added to unless another one is passed.
const DefaultLayer = 0

// Collider is a static shape in the World.
type Collider struct {
	ID    locomotion.ColliderID
	Name  string
	Shape Shape
	// Layer is the layer of the collider, in [0, 32). Queries only consider colliders whose layer
	// bit is set in their mask.
	Layer uint8

	surface    locomotion.Surface
	hasSurface bool
}

// Surface returns the Surface attached to the collider, if any.
func (c *Collider) Surface() (locomotion.Surface, bool) {
	return c.surface, c.hasSurface
}

// ColliderOption configures a Collider added to a World.
type ColliderOption func(c *Collider)

// WithLayer places the collider on the layer passed.
func WithLayer(layer uint8) ColliderOption {
	return func(c *Collider) {
		c.Layer = layer
	}
}

// WithSurface attaches a Surface to the collider.
func WithSurface(s locomotion.Surface) ColliderOption {
	return func(c *Collider) {
		c.surface, c.hasSurface = s, true
	}
}

// World is a set of static colliders. It implements locomotion.Geometry and may be queried from
// multiple goroutines at once. Queries read an immutable snapshot of the colliders, which Add and
// Remove replace while holding the lock.
type World struct {
	colliders *orderedmap.OrderedMap[locomotion.ColliderID, *Collider]
	snapshot  atomic.Pointer[snapshot]
	log       logrus.FieldLogger

	deadlock.Mutex
}

// snapshot is the set of colliders at one point in time. It is never modified once published.
type snapshot struct {
	list []*Collider
	byID map[locomotion.ColliderID]*Collider
}

// New returns an empty World. log may be nil.
func New(log logrus.FieldLogger) *World {
	if log == nil {
		log = logrus.StandardLogger()
	}
	w := &World{
		colliders: orderedmap.NewOrderedMap[locomotion.ColliderID, *Collider](),
		log:       log,
	}
	w.publish()
	return w
}

// publish replaces the snapshot with the current colliders. The lock must be held, except in New.
func (w *World) publish() {
	s := &snapshot{
		list: make([]*Collider, 0, w.colliders.Len()),
		byID: make(map[locomotion.ColliderID]*Collider, w.colliders.Len()),
	}
	for el := w.colliders.Front(); el != nil; el = el.Next() {
		s.list = append(s.list, el.Value)
		s.byID[el.Key] = el.Value
	}
	w.snapshot.Store(s)
}

// ColliderID returns the ID a collider with the name passed is added under.
func ColliderID(name string) locomotion.ColliderID {
	return locomotion.ColliderID(xxh3.HashString(name))
}

// Add adds a collider with the shape passed to the world. The name must be unique within the
// world.
func (w *World) Add(name string, shape Shape, opts ...ColliderOption) (locomotion.ColliderID, error) {
	if shape == nil {
		return 0, cerror.New("collider %q has no shape", name)
	}
	c := &Collider{ID: ColliderID(name), Name: name, Shape: shape, Layer: DefaultLayer}
	for _, opt := range opts {
		opt(c)
	}
	if c.Layer >= 32 {
		return 0, cerror.New("collider %q: layer %d out of range", name, c.Layer)
	}

	w.Lock()
	defer w.Unlock()
	if _, ok := w.colliders.Get(c.ID); ok {
		return 0, cerror.New("collider %q already exists", name)
	}
	w.colliders.Set(c.ID, c)
	w.publish()
	w.log.Debugf("added collider %q (id=%d layer=%d)", name, c.ID, c.Layer)
	return c.ID, nil
}

// Remove removes the collider with the ID passed. It returns false if no such collider exists.
func (w *World) Remove(id locomotion.ColliderID) bool {
	w.Lock()
	defer w.Unlock()
	if !w.colliders.Delete(id) {
		return false
	}
	w.publish()
	return true
}

// Collider returns the collider with the ID passed.
func (w *World) Collider(id locomotion.ColliderID) (*Collider, bool) {
	c, ok := w.snapshot.Load().byID[id]
	return c, ok
}

// Colliders returns all colliders in the order they were added.
func (w *World) Colliders() []*Collider {
	return slices.Clone(w.snapshot.Load().list)
}

// Len returns the number of colliders in the world.
func (w *World) Len() int {
	return len(w.snapshot.Load().list)
}

// Surface returns the Surface attached to a collider.
func (w *World) Surface(id locomotion.ColliderID) (locomotion.Surface, bool) {
	c, ok := w.Collider(id)
	if !ok {
		return locomotion.Surface{}, false
	}
	return c.Surface()
}

// SweepSphere moves a sphere from origin along direction and returns the closest collider it
// touches. Colliders the sphere overlaps at origin are ignored.
func (w *World) SweepSphere(origin mgl32.Vec3, radius float32, direction mgl32.Vec3, maxDistance float32, mask uint32) (locomotion.Hit, bool) {
	if !(radius >= 0) {
		return locomotion.Hit{}, false
	}
	return w.query(origin, radius, direction, maxDistance, mask)
}

// Raycast returns the closest collider hit by the ray. Colliders containing origin are ignored.
func (w *World) Raycast(origin, direction mgl32.Vec3, maxDistance float32, mask uint32) (locomotion.Hit, bool) {
	return w.query(origin, 0, direction, maxDistance, mask)
}

func (w *World) query(origin mgl32.Vec3, radius float32, direction mgl32.Vec3, maxDistance float32, mask uint32) (locomotion.Hit, bool) {
	dir, ok := game.SafeNormalize(direction)
	if !ok || !(maxDistance > 0) || game.Vec3HasNaN(origin) {
		return locomotion.Hit{}, false
	}

	var (
		closest locomotion.Hit
		found   bool
	)
	for _, c := range w.snapshot.Load().list {
		if mask&(1<<c.Layer) == 0 {
			continue
		}
		ct, ok := sweepShape(c.Shape, origin, dir, radius, maxDistance)
		if !ok || (found && ct.distance >= closest.Distance) {
			continue
		}
		closest = locomotion.Hit{Point: ct.point, Normal: ct.normal, Distance: ct.distance, Collider: c.ID}
		found = true
	}
	return closest, found
}
