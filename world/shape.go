package world

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/game"
)

const (
	// contactEpsilon is the distance at which a swept sphere is considered to touch a shape.
	contactEpsilon = float32(1e-5)
	// maxTraceSteps bounds the sphere tracing of a single sweep.
	maxTraceSteps = 64
	boundsSlack   = float32(1e-3)
)

// Shape is the convex geometry of a collider.
type Shape interface {
	// Bounds returns the smallest box containing the shape.
	Bounds() cube.BBox
	// ClosestPoint returns the point of the shape closest to p. Points inside the shape are
	// returned as is.
	ClosestPoint(p mgl32.Vec3) mgl32.Vec3
}

// Box is an axis aligned box shape.
type Box struct {
	BBox cube.BBox
}

// NewBox returns a Box spanning the two corners passed.
func NewBox(min, max mgl32.Vec3) Box {
	return Box{BBox: cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])}
}

func (b Box) Bounds() cube.BBox {
	return b.BBox
}

func (b Box) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	min, max := b.BBox.Min(), b.BBox.Max()
	return mgl32.Vec3{
		mgl32.Clamp(p[0], min[0], max[0]),
		mgl32.Clamp(p[1], min[1], max[1]),
		mgl32.Clamp(p[2], min[2], max[2]),
	}
}

// Sphere is a sphere shape.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) Bounds() cube.BBox {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	min, max := s.Center.Sub(r), s.Center.Add(r)
	return cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

func (s Sphere) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	rel := p.Sub(s.Center)
	if rel.Len() <= s.Radius {
		return p
	}
	dir, _ := game.SafeNormalize(rel)
	return s.Center.Add(dir.Mul(s.Radius))
}

// contact is a sphere touching a shape during a sweep.
type contact struct {
	distance float32
	point    mgl32.Vec3
	normal   mgl32.Vec3
}

// sweepShape moves a sphere of the radius passed from origin along the unit direction dir for at
// most maxDistance, returning the first contact with the shape. A sphere that already overlaps the
// shape at origin, or that only touches it while moving away, does not make contact. A radius of
// zero casts a ray.
func sweepShape(s Shape, origin, dir mgl32.Vec3, radius, maxDistance float32) (contact, bool) {
	if d := origin.Sub(s.ClosestPoint(origin)).Len(); d < radius || (radius == 0 && d == 0) {
		return contact{}, false
	}
	if sph, ok := s.(Sphere); ok {
		return sweepSphere(sph, origin, dir, radius, maxDistance)
	}
	bounds := s.Bounds().Grow(radius + contactEpsilon)
	// The trace gives up once the sphere left the bounds again, with some slack for the rounding
	// of the entry point.
	exit := s.Bounds().Grow(radius + boundsSlack)

	t := float32(0)
	if !insideBox(bounds, origin) {
		res, ok := trace.BBoxIntercept(bounds, origin, origin.Add(dir.Mul(maxDistance)))
		if !ok {
			return contact{}, false
		}
		t = res.Position().Sub(origin).Len()
	}

	// The distance to a convex shape never changes faster than the sphere moves, so stepping by it
	// never passes through the surface.
	for i := 0; i < maxTraceSteps && t <= maxDistance; i++ {
		center := origin.Add(dir.Mul(t))
		closest := s.ClosestPoint(center)
		gap := center.Sub(closest).Len() - radius
		if gap <= contactEpsilon {
			normal, ok := game.SafeNormalize(center.Sub(closest))
			if !ok {
				normal = faceNormal(s.Bounds(), closest, dir)
			}
			if normal.Dot(dir) >= 0 {
				return contact{}, false
			}
			return contact{distance: t, point: closest, normal: normal}, true
		}
		if !insideBox(exit, center) {
			return contact{}, false
		}
		t += gap
	}
	return contact{}, false
}

// sweepSphere sweeps a sphere against a sphere shape, which is a ray against a sphere of the
// summed radii.
func sweepSphere(s Sphere, origin, dir mgl32.Vec3, radius, maxDistance float32) (contact, bool) {
	r := s.Radius + radius
	m := origin.Sub(s.Center)
	b := m.Dot(dir)
	c := m.Dot(m) - r*r
	if c > 0 && b > 0 {
		return contact{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return contact{}, false
	}
	t := math32.Max(0, -b-math32.Sqrt(disc))
	if t > maxDistance {
		return contact{}, false
	}
	center := origin.Add(dir.Mul(t))
	normal, ok := game.SafeNormalize(center.Sub(s.Center))
	if !ok {
		return contact{}, false
	}
	return contact{distance: t, point: s.Center.Add(normal.Mul(s.Radius)), normal: normal}, true
}

// faceNormal returns the outward normal of the box face the point lies on. Points on an edge get
// the face facing the direction of travel the most.
func faceNormal(bb cube.BBox, p, dir mgl32.Vec3) mgl32.Vec3 {
	min, max := bb.Min(), bb.Max()
	var (
		best   mgl32.Vec3
		bestAt = float32(math.MaxFloat32)
	)
	for axis := 0; axis < 3; axis++ {
		for _, face := range [...]struct {
			dist float32
			sign float32
		}{{p[axis] - min[axis], -1}, {max[axis] - p[axis], 1}} {
			n := mgl32.Vec3{}
			n[axis] = face.sign
			if n.Dot(dir) >= 0 {
				continue
			}
			if d := math32.Abs(face.dist); d < bestAt {
				best, bestAt = n, d
			}
		}
	}
	if bestAt == math.MaxFloat32 {
		return dir.Mul(-1)
	}
	return best
}

func insideBox(bb cube.BBox, p mgl32.Vec3) bool {
	min, max := bb.Min(), bb.Max()
	return p[0] >= min[0] && p[0] <= max[0] &&
		p[1] >= min[1] && p[1] <= max[1] &&
		p[2] >= min[2] && p[2] <= max[2]
}
