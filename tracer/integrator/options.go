package integrator

import "math"

// Features is a bitset of optional integrator stages. Disabled features are
// skipped by the kernels.
type Features uint32

const (
	FeatureEmission Features = 1 << iota
	FeatureHoldout
	FeatureVolume
	FeatureSubsurface
	FeaturePasses
	FeatureDenoising
	//
	FeatureAll = FeatureEmission | FeatureHoldout | FeatureVolume | FeatureSubsurface | FeaturePasses | FeatureDenoising
)

// Check whether all features in f2 are enabled.
func (f Features) Has(f2 Features) bool {
	return f&f2 == f2
}

// Integrator options.
type Options struct {
	// Max number of non-transparent bounces.
	MaxBounce int

	// Max number of transparent bounces.
	MaxTransparentBounce int

	// Paths with fewer bounces than this are never terminated by russian roulette.
	MinBouncesForRR int

	// Paths with more bounces than this are cut at their next surface hit.
	// A value of 0 disables the check.
	AOBounces int

	// Sample lights at each surface hit.
	UseDirectLight bool

	// Weight light and BSDF samples using multiple importance sampling.
	UseMIS bool

	// Render the background as transparent and store coverage in the
	// alpha channel of the combined pass.
	TransparentBackground bool

	// Light samples whose contribution falls below this threshold are
	// stochastically discarded. A value of 0 disables the check.
	LightTerminationThreshold float32

	// Max distance between subsurface entry and exit points.
	SubsurfaceRadius float32

	// Segment length used when a ray inside a volume escapes the scene.
	VolumeMissDistance float32

	// Random number generator seed.
	Seed uint32

	Features Features
}

// Get a default set of integrator options.
func DefaultOptions() Options {
	return Options{
		MaxBounce:            5,
		MaxTransparentBounce: 8,
		MinBouncesForRR:      3,
		UseDirectLight:       true,
		UseMIS:               true,
		SubsurfaceRadius:     0.1,
		VolumeMissDistance:   1e3,
		Features:             FeatureAll,
	}
}

// Power heuristic with beta = 2.
func powerHeuristic(a, b float32) float32 {
	if a == 0 && b == 0 {
		return 0
	}
	if math.IsInf(float64(a), 1) {
		return 1
	}
	a2, b2 := float64(a)*float64(a), float64(b)*float64(b)
	return float32(a2 / (a2 + b2))
}
