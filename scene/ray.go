package scene

import (
	"math"

	"github.com/achilleasa/wavefront/types"
)

// Sentinel primitive index for rays that did not hit anything.
const PrimNone int32 = -1

// Offset applied to spawned ray origins to avoid self-intersections.
const RayEpsilon float32 = 1e-4

// Infinite ray length.
var RayInfinity = float32(math.MaxFloat32)

// A ray segment.
type Ray struct {
	P    types.Vec3
	D    types.Vec3
	T    float32
	Time float32
}

// Get the point at distance t along the ray.
func (r *Ray) At(t float32) types.Vec3 {
	return r.P.Add(r.D.Mul(t))
}

// Closest-hit record.
type Intersection struct {
	Prim   int32
	Object int32
	Type   PrimitiveType
	U      float32
	V      float32
	T      float32
}

// An intersection record for rays that did not hit anything.
func NoIntersection() Intersection {
	return Intersection{Prim: PrimNone, Object: PrimNone}
}

// Move a point along the normal to escape the surface it lies on.
func RayOffset(p, ng types.Vec3) types.Vec3 {
	return p.Add(ng.Mul(RayEpsilon))
}
