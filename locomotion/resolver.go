package locomotion

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/game"
)

// maxResolveDepth is the number of casts Resolve attempts after a contact: the first contact,
// the slide along the contact plane and the final approach back toward the target. It bounds
// the geometry queries of a single Resolve to maxResolveDepth*castQueries.
const maxResolveDepth = 3

// castQueries is the most geometry queries a single cast performs.
const castQueries = 3

// Resolver resolves sphere movements against a Geometry, sliding along and sticking to the
// surfaces it touches without letting the sphere pass through them.
type Resolver struct {
	geometry Geometry
	mask     uint32

	slideFactor           float32
	singleHandSlideFactor float32

	queries int
}

// NewResolver returns a Resolver querying the geometry passed, using the layer mask and slide
// factors of the Config.
func NewResolver(geometry Geometry, conf Config) *Resolver {
	return &Resolver{
		geometry:              geometry,
		mask:                  conf.LayerMask,
		slideFactor:           conf.DefaultSlideFactor,
		singleHandSlideFactor: conf.SingleHandSlideFactor,
	}
}

// Queries returns the number of geometry queries performed since the last call to ResetQueries.
func (r *Resolver) Queries() int {
	return r.queries
}

// ResetQueries resets the query counter.
func (r *Resolver) ResetQueries() {
	r.queries = 0
}

// Resolve moves a sphere of the radius passed from start along movement. If the sphere touches
// geometry, it is pushed out to rest against it and slides along the surface by the slip
// percentage of the collider. precision shrinks the sweep radius on every attempt so that a
// sphere resting against a surface can still move along it. singleHand selects the default
// slip used when the collider has no Surface.
//
// If nothing is touched, the end position is exactly start+movement.
func (r *Resolver) Resolve(start mgl32.Vec3, radius float32, movement mgl32.Vec3, precision float32, singleHand bool) ResolvedMovement {
	if movement.LenSqr() == 0 || game.Vec3HasNaN(movement) {
		return ResolvedMovement{EndPosition: start}
	}
	target := start.Add(movement)

	first, hit, ok := r.cast(start, radius*precision, movement, precision)
	if !ok {
		return r.sanityCast(start, radius, movement, precision, target)
	}
	result := ResolvedMovement{EndPosition: first, Normal: hit.Normal, Collider: hit.Collider, DidHit: true}

	// Slide along the contact plane for the part of the movement that was blocked, then try to
	// approach the target again from wherever the slide ended.
	origin := first
	step := game.ProjectOnPlane(target.Sub(first), hit.Normal).Mul(r.slipPercentage(hit.Collider, singleHand))
	levelPrecision := precision
	for depth := 1; depth < maxResolveDepth; depth++ {
		levelPrecision *= precision
		if end, h, ok := r.cast(origin, radius, step, levelPrecision); ok {
			return ResolvedMovement{EndPosition: end, Normal: h.Normal, Collider: h.Collider, DidHit: true}
		}
		origin = origin.Add(step)
		step = target.Sub(origin)
	}
	// Nothing was touched after the slide, meaning it went around a corner. Don't trust it.
	return result
}

// sanityCast retries a missed movement with a smaller sphere. A sphere that started the tick
// already resting against a surface is not reported by a sweep, but the smaller one is.
func (r *Resolver) sanityCast(start mgl32.Vec3, radius float32, movement mgl32.Vec3, precision float32, target mgl32.Vec3) ResolvedMovement {
	dir, ok := game.SafeNormalize(movement)
	if !ok {
		return ResolvedMovement{EndPosition: target}
	}
	small := radius * precision * game.SanityRadiusFactor
	extended := dir.Mul(movement.Len() + radius*precision*(1-game.SanityRadiusFactor))
	if _, hit, ok := r.cast(start, small, extended, precision*game.SanityRadiusFactor); ok {
		return ResolvedMovement{EndPosition: start, Normal: hit.Normal, Collider: hit.Collider, DidHit: true}
	}
	return ResolvedMovement{EndPosition: target}
}

// cast sweeps a sphere of radius*precision along movement and returns the position where a
// sphere of the full radius rests against the surface touched. The sweep is extended by the
// radius lost to precision. Two more queries guard against corners the pushed out position
// would penetrate, and against thin geometry a sweep of this size slips through.
func (r *Resolver) cast(start mgl32.Vec3, radius float32, movement mgl32.Vec3, precision float32) (mgl32.Vec3, Hit, bool) {
	dist := movement.Len()
	if dist == 0 {
		return start, Hit{}, false
	}
	if hit, ok := r.sweep(start, radius*precision, movement, dist+radius*(1-precision)); ok {
		end := hit.Point.Add(hit.Normal.Mul(radius))
		toEnd := end.Sub(start)
		toEndDist := toEnd.Len()

		innerPrecision := precision * precision
		if inner, ok := r.sweep(start, radius*innerPrecision, toEnd, toEndDist+radius*(1-innerPrecision)); ok {
			// The pushed out position is inside other geometry: back off along the direction of travel.
			dir, _ := game.SafeNormalize(toEnd)
			return start.Add(dir.Mul(math32.Max(0, hit.Distance-radius*(1-innerPrecision)))), inner, true
		}
		if inner, ok := r.ray(start, toEnd, toEndDist+radius*innerPrecision*game.RaycastShrink); ok {
			return start, inner, true
		}
		return end, hit, true
	}
	if hit, ok := r.ray(start, movement, dist+radius*precision*game.RaycastShrink); ok {
		return start, hit, true
	}
	return start, Hit{}, false
}

func (r *Resolver) sweep(origin mgl32.Vec3, radius float32, direction mgl32.Vec3, maxDistance float32) (Hit, bool) {
	if direction.LenSqr() == 0 || maxDistance <= 0 {
		return Hit{}, false
	}
	r.queries++
	return r.geometry.SweepSphere(origin, radius, direction, maxDistance, r.mask)
}

func (r *Resolver) ray(origin, direction mgl32.Vec3, maxDistance float32) (Hit, bool) {
	if direction.LenSqr() == 0 || maxDistance <= 0 {
		return Hit{}, false
	}
	r.queries++
	return r.geometry.Raycast(origin, direction, maxDistance, r.mask)
}

func (r *Resolver) slipPercentage(id ColliderID, singleHand bool) float32 {
	if s, ok := r.geometry.Surface(id); ok {
		return mgl32.Clamp(s.SlipPercentage, 0, 1)
	}
	if singleHand {
		return r.singleHandSlideFactor
	}
	return r.slideFactor
}
