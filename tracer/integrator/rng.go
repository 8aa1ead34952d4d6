package integrator

// Random number dimensions. Each bounce consumes rngBounceNum dimensions.
const (
	rngFilterU uint32 = iota
	rngFilterV
	rngBsdfU
	rngBsdfV
	rngLightU
	rngLightV
	rngLightTerminate
	rngTerminate
	rngSubsurfaceU
	rngSubsurfaceV
	rngBounceNum
)

func rot(x uint32, k uint) uint32 {
	return x<<k | x>>(32-k)
}

// Jenkins lookup3 final mix of three keys.
func hashUint3(kx, ky, kz uint32) uint32 {
	a := uint32(0xdeadbeef) + (3 << 2) + 13
	b, c := a, a

	c += kz
	b += ky
	a += kx

	c ^= b
	c -= rot(b, 14)
	a ^= c
	a -= rot(c, 11)
	b ^= a
	b -= rot(a, 25)
	c ^= b
	c -= rot(b, 16)
	a ^= c
	a -= rot(c, 4)
	b ^= a
	b -= rot(a, 14)
	c ^= b
	c -= rot(b, 24)
	return c
}

// Map a hash to a float in [0, 1).
func hashToFloat(h uint32) float32 {
	return float32(h>>8) * (1.0 / float32(1<<24))
}

// Seed the per-pixel hash. The sequence only depends on the pixel, the seed
// and the sample so results do not depend on the scheduling order.
func pixelRNGHash(seed uint32, x, y int) uint32 {
	return hashUint3(uint32(x), uint32(y), seed)
}

// Get a random number for the given dimension of the current bounce.
func (ps *PathState) rand1D(dim uint32) float32 {
	return hashToFloat(hashUint3(ps.RNGHash, uint32(ps.Sample), ps.RNGOffset+dim))
}

// Get a pair of random numbers starting at the given dimension.
func (ps *PathState) rand2D(dim uint32) (float32, float32) {
	return ps.rand1D(dim), ps.rand1D(dim + 1)
}
