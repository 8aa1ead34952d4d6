package scene

import (
	"math"

	"github.com/achilleasa/wavefront/types"
)

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sqrtf(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// Build two tangent vectors orthogonal to n.
func makeOrthonormals(n types.Vec3) (a, b types.Vec3) {
	if n[0] != n[1] || n[0] != n[2] {
		a = types.XYZ(n[2]-n[1], n[0]-n[2], n[1]-n[0])
	} else {
		a = types.XYZ(n[2]-n[1], n[0]+n[2], -n[1]-n[0])
	}
	a = a.Normalize()
	b = n.Cross(a)
	return a, b
}

// Map two uniform numbers to a point on the unit disk.
func concentricDisk(u, v float32) (x, y float32) {
	r := sqrtf(u)
	phi := 2 * math.Pi * float64(v)
	return r * float32(math.Cos(phi)), r * float32(math.Sin(phi))
}

// Cosine weighted hemisphere sample around n. Returns the direction and its pdf.
func sampleCosHemisphere(n types.Vec3, u, v float32) (types.Vec3, float32) {
	x, y := concentricDisk(u, v)
	z := sqrtf(float32(math.Max(0, float64(1-x*x-y*y))))
	t, b := makeOrthonormals(n)
	dir := t.Mul(x).Add(b.Mul(y)).Add(n.Mul(z))
	return dir, z / math.Pi
}

// Uniform sample on the unit sphere.
func sampleUniformSphere(u, v float32) types.Vec3 {
	z := 1 - 2*u
	r := sqrtf(float32(math.Max(0, float64(1-z*z))))
	phi := 2 * math.Pi * float64(v)
	return types.XYZ(r*float32(math.Cos(phi)), r*float32(math.Sin(phi)), z)
}

// Reflect the incoming direction i around n.
func reflect(i, n types.Vec3) types.Vec3 {
	return n.Mul(2 * n.Dot(i)).Sub(i)
}
