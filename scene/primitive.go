package scene

import (
	"math"

	"github.com/achilleasa/wavefront/types"
)

type PrimitiveType uint32

const (
	PlanePrimitive PrimitiveType = iota
	SpherePrimitive
)

// Implements Stringer.
func (pt PrimitiveType) String() string {
	switch pt {
	case PlanePrimitive:
		return "plane"
	case SpherePrimitive:
		return "sphere"
	}
	return "unknown"
}

// Defines a scene primitive.
type Primitive struct {
	// The primitive type.
	Type PrimitiveType

	// Sphere center or plane normal.
	Origin types.Vec3

	// Sphere radius or plane distance from the world origin.
	Dimensions types.Vec3

	// Per-object flags (holdout mask, shadow catcher).
	Flags ObjectFlag

	// The primitive material. Must be added to the scene before the primitive
	Material *Material
}

// Create new plane primitive. The plane contains all points p with
// dot(normal, p) == planeDist.
func NewPlane(normal types.Vec3, planeDist float32, material *Material) *Primitive {
	return &Primitive{
		Type:       PlanePrimitive,
		Origin:     normal.Normalize(),
		Dimensions: types.Vec3{planeDist},
		Material:   material,
	}
}

// Create new sphere primitive.
func NewSphere(origin types.Vec3, radius float32, material *Material) *Primitive {
	return &Primitive{
		Type:       SpherePrimitive,
		Origin:     origin,
		Dimensions: types.Vec3{radius},
		Material:   material,
	}
}

// Test the ray against the primitive and return the hit distance if it
// falls inside (tmin, tmax).
func (p *Primitive) intersect(ray *Ray, tmin, tmax float32) (t, u, v float32, hit bool) {
	switch p.Type {
	case PlanePrimitive:
		denom := p.Origin.Dot(ray.D)
		if denom > -1e-8 && denom < 1e-8 {
			return 0, 0, 0, false
		}
		t = (p.Dimensions[0] - p.Origin.Dot(ray.P)) / denom
		if t <= tmin || t >= tmax {
			return 0, 0, 0, false
		}
		return t, 0, 0, true
	case SpherePrimitive:
		oc := ray.P.Sub(p.Origin)
		r := p.Dimensions[0]
		b := oc.Dot(ray.D)
		c := oc.Dot(oc) - r*r
		disc := b*b - c
		if disc < 0 {
			return 0, 0, 0, false
		}
		sq := float32(math.Sqrt(float64(disc)))
		t = -b - sq
		if t <= tmin {
			t = -b + sq
		}
		if t <= tmin || t >= tmax {
			return 0, 0, 0, false
		}

		// Spherical parametrization of the hit point
		n := ray.At(t).Sub(p.Origin).Mul(1.0 / r)
		u = float32(0.5 + math.Atan2(float64(n[2]), float64(n[0]))/(2*math.Pi))
		v = float32(0.5 - math.Asin(float64(clamp(n[1], -1, 1)))/math.Pi)
		return t, u, v, true
	}
	return 0, 0, 0, false
}

// Geometric normal at point p (pointing outwards for spheres).
func (p *Primitive) normal(pos types.Vec3) types.Vec3 {
	if p.Type == SpherePrimitive {
		return pos.Sub(p.Origin).Normalize()
	}
	return p.Origin
}

// Surface area used for light sampling. Planes are infinite.
func (p *Primitive) area() float32 {
	if p.Type == SpherePrimitive {
		r := p.Dimensions[0]
		return 4 * math.Pi * r * r
	}
	return float32(math.Inf(1))
}
