package physics

import (
	"math"

	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/vmath"
)

// ShapeKind selects the closed-form narrow phase for a collider
type ShapeKind uint8

const (
	ShapePlane ShapeKind = iota
	ShapeSphere
	ShapeCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePlane:
		return "plane"
	case ShapeSphere:
		return "sphere"
	case ShapeCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// Collider is world-space rigid geometry, read-only to the solver
type Collider struct {
	Kind ShapeKind

	// Plane: a point on the plane and its unit normal (solid side is -Normal)
	// Sphere: Center and Radius
	// Capsule: segment A-B and Radius
	Center vmath.Vec3
	Normal vmath.Vec3
	A, B   vmath.Vec3
	Radius float64

	// Friction removes up to Friction*|v_n| of tangential speed per contact, 0 keeps it
	Friction float64

	// Owner is the entity carrying the collider, NullEntity for free geometry
	Owner core.Entity

	min, max vmath.Vec3
}

// PlaneCollider builds a half-space bounded by the plane through point with normal
func PlaneCollider(point, normal vmath.Vec3) Collider {
	return Collider{Kind: ShapePlane, Center: point, Normal: vmath.V3Normalize(normal)}
}

func SphereCollider(center vmath.Vec3, radius float64) Collider {
	return Collider{Kind: ShapeSphere, Center: center, Radius: radius}
}

func CapsuleCollider(a, b vmath.Vec3, radius float64) Collider {
	return Collider{Kind: ShapeCapsule, A: a, B: b, Radius: radius}
}

// Contact describes a penetration; Normal points from the collider toward the query sphere
type Contact struct {
	Depth    float64
	Normal   vmath.Vec3
	Point    vmath.Vec3 // closest point on the collider surface
	Collider int        // index in the CollisionWorld
	Friction float64
}

// CollisionWorld holds the colliders for one substep
// Broad phase is a per-collider bounds test, no spatial index at the target entity counts
type CollisionWorld struct {
	colliders []Collider
}

// NewCollisionWorld creates an empty world with capacity hint
func NewCollisionWorld(hint int) *CollisionWorld {
	return &CollisionWorld{colliders: make([]Collider, 0, hint)}
}

// Reset drops all colliders, keeping capacity
func (cw *CollisionWorld) Reset() {
	cw.colliders = cw.colliders[:0]
}

// Add registers a collider and returns its index
func (cw *CollisionWorld) Add(c Collider) int {
	c.computeBounds()
	cw.colliders = append(cw.colliders, c)
	return len(cw.colliders) - 1
}

func (cw *CollisionWorld) Len() int {
	return len(cw.colliders)
}

// Colliders returns the backing slice, callers must not modify it
func (cw *CollisionWorld) Colliders() []Collider {
	return cw.colliders
}

// Query returns the deepest contact for a query sphere
// Ties keep the lowest collider index
func (cw *CollisionWorld) Query(point vmath.Vec3, radius float64) (Contact, bool) {
	var best Contact
	found := false
	pmin, pmax := sphereBounds(point, radius)
	for i := range cw.colliders {
		c := &cw.colliders[i]
		if !c.overlaps(pmin, pmax) {
			continue
		}
		contact, ok := c.pointContact(point, radius)
		if !ok {
			continue
		}
		if !found || contact.Depth > best.Depth {
			contact.Collider = i
			best = contact
			found = true
		}
	}
	return best, found
}

// Contacts appends every contact for a query sphere in collider order
func (cw *CollisionWorld) Contacts(point vmath.Vec3, radius float64, dst []Contact) []Contact {
	pmin, pmax := sphereBounds(point, radius)
	for i := range cw.colliders {
		c := &cw.colliders[i]
		if !c.overlaps(pmin, pmax) {
			continue
		}
		if contact, ok := c.pointContact(point, radius); ok {
			contact.Collider = i
			dst = append(dst, contact)
		}
	}
	return dst
}

// QueryCapsule returns the deepest contact for a query capsule with segment a-b
func (cw *CollisionWorld) QueryCapsule(a, b vmath.Vec3, radius float64) (Contact, bool) {
	var best Contact
	found := false
	pmin, pmax := capsuleBounds(a, b, radius)
	for i := range cw.colliders {
		c := &cw.colliders[i]
		if !c.overlaps(pmin, pmax) {
			continue
		}
		contact, ok := c.capsuleContact(a, b, radius)
		if !ok {
			continue
		}
		if !found || contact.Depth > best.Depth {
			contact.Collider = i
			best = contact
			found = true
		}
	}
	return best, found
}

// --- Broad phase ---

func sphereBounds(p vmath.Vec3, r float64) (vmath.Vec3, vmath.Vec3) {
	ext := vmath.Vec3{X: r, Y: r, Z: r}
	return vmath.V3Sub(p, ext), vmath.V3Add(p, ext)
}

func capsuleBounds(a, b vmath.Vec3, r float64) (vmath.Vec3, vmath.Vec3) {
	ext := vmath.Vec3{X: r, Y: r, Z: r}
	return vmath.V3Sub(vmath.V3Min(a, b), ext), vmath.V3Add(vmath.V3Max(a, b), ext)
}

func (c *Collider) computeBounds() {
	switch c.Kind {
	case ShapeSphere:
		c.min, c.max = sphereBounds(c.Center, c.Radius)
	case ShapeCapsule:
		c.min, c.max = capsuleBounds(c.A, c.B, c.Radius)
	default:
		inf := math.Inf(1)
		c.min = vmath.Vec3{X: -inf, Y: -inf, Z: -inf}
		c.max = vmath.Vec3{X: inf, Y: inf, Z: inf}
	}
}

func (c *Collider) overlaps(pmin, pmax vmath.Vec3) bool {
	if c.Kind == ShapePlane {
		return true
	}
	return pmin.X <= c.max.X && pmax.X >= c.min.X &&
		pmin.Y <= c.max.Y && pmax.Y >= c.min.Y &&
		pmin.Z <= c.max.Z && pmax.Z >= c.min.Z
}

// --- Narrow phase ---

func (c *Collider) pointContact(p vmath.Vec3, r float64) (Contact, bool) {
	switch c.Kind {
	case ShapePlane:
		d := vmath.V3Dot(c.Normal, vmath.V3Sub(p, c.Center))
		depth := r - d
		if depth <= 0 {
			return Contact{}, false
		}
		return Contact{
			Depth:    depth,
			Normal:   c.Normal,
			Point:    vmath.V3AddScaled(p, c.Normal, -d),
			Friction: c.Friction,
		}, true
	case ShapeSphere:
		return sphereSphere(c.Center, c.Radius, p, r, c.Friction)
	case ShapeCapsule:
		q := closestOnSegment(c.A, c.B, p)
		return sphereSphere(q, c.Radius, p, r, c.Friction)
	}
	return Contact{}, false
}

func (c *Collider) capsuleContact(a, b vmath.Vec3, r float64) (Contact, bool) {
	switch c.Kind {
	case ShapePlane:
		da := vmath.V3Dot(c.Normal, vmath.V3Sub(a, c.Center))
		db := vmath.V3Dot(c.Normal, vmath.V3Sub(b, c.Center))
		p, d := a, da
		if db < da {
			p, d = b, db
		}
		depth := r - d
		if depth <= 0 {
			return Contact{}, false
		}
		return Contact{
			Depth:    depth,
			Normal:   c.Normal,
			Point:    vmath.V3AddScaled(p, c.Normal, -d),
			Friction: c.Friction,
		}, true
	case ShapeSphere:
		p := closestOnSegment(a, b, c.Center)
		return sphereSphere(c.Center, c.Radius, p, r, c.Friction)
	case ShapeCapsule:
		p, q := closestSegmentSegment(a, b, c.A, c.B)
		return sphereSphere(q, c.Radius, p, r, c.Friction)
	}
	return Contact{}, false
}

// sphereSphere resolves query sphere (p, r) against collider sphere (center, radius)
func sphereSphere(center vmath.Vec3, radius float64, p vmath.Vec3, r, friction float64) (Contact, bool) {
	n, dist := vmath.V3NormalizeLen(vmath.V3Sub(p, center))
	depth := radius + r - dist
	if depth <= 0 {
		return Contact{}, false
	}
	return Contact{
		Depth:    depth,
		Normal:   n,
		Point:    vmath.V3AddScaled(center, n, radius),
		Friction: friction,
	}, true
}

// closestOnSegment returns the point on segment a-b nearest to p
func closestOnSegment(a, b, p vmath.Vec3) vmath.Vec3 {
	ab := vmath.V3Sub(b, a)
	lenSq := vmath.V3MagSq(ab)
	if lenSq < vmath.EpsilonSq {
		return a
	}
	t := vmath.Clamp(vmath.V3Dot(vmath.V3Sub(p, a), ab)/lenSq, 0, 1)
	return vmath.V3AddScaled(a, ab, t)
}

// closestSegmentSegment returns the closest points on p1-q1 and p2-q2
func closestSegmentSegment(p1, q1, p2, q2 vmath.Vec3) (vmath.Vec3, vmath.Vec3) {
	d1 := vmath.V3Sub(q1, p1)
	d2 := vmath.V3Sub(q2, p2)
	r := vmath.V3Sub(p1, p2)
	a := vmath.V3Dot(d1, d1)
	e := vmath.V3Dot(d2, d2)
	f := vmath.V3Dot(d2, r)

	var s, t float64
	switch {
	case a < vmath.EpsilonSq && e < vmath.EpsilonSq:
		return p1, p2
	case a < vmath.EpsilonSq:
		t = vmath.Clamp(f/e, 0, 1)
	default:
		c := vmath.V3Dot(d1, r)
		if e < vmath.EpsilonSq {
			s = vmath.Clamp(-c/a, 0, 1)
		} else {
			b := vmath.V3Dot(d1, d2)
			denom := a*e - b*b
			if denom > vmath.EpsilonSq {
				s = vmath.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = vmath.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = vmath.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return vmath.V3AddScaled(p1, d1, s), vmath.V3AddScaled(p2, d2, t)
}
