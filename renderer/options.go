package renderer

import (
	"fmt"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/denoiser"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer"
	"github.com/achilleasa/wavefront/tracer/integrator"
)

type Options struct {
	// Frame dims.
	FrameW int
	FrameH int

	// Number of indirect bounces.
	NumBounces int

	// Min bounces before applying russian roulette for path elimination.
	MinBouncesForRR int

	// Number of samples.
	SamplesPerPixel int

	// Number of samples rendered between interruption checks. A value of 0
	// renders all samples in a single pass.
	SamplesPerPass int

	// Exposure for tonemapping.
	Exposure float32

	// Device setup. Zero values select the device defaults.
	NumQueues     int
	PathsPerQueue int
	Concurrency   int

	// Fraction of active paths below which a tile is finished by the
	// megakernel.
	MegakernelThreshold float32

	// Render the background as transparent.
	TransparentBackground bool

	// Random number generator seed.
	Seed uint32

	// Extra passes to store next to the combined pass.
	Passes buffers.PassFlag

	// Post-process denoiser.
	Denoiser denoiser.Params
}

// Get default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:              512,
		FrameH:              512,
		NumBounces:          5,
		MinBouncesForRR:     3,
		SamplesPerPixel:     16,
		SamplesPerPass:      4,
		Exposure:            1.0,
		MegakernelThreshold: tracer.DefaultOptions().MegakernelThreshold,
		Denoiser:            denoiser.DefaultParams(denoiser.TypeNone),
	}
}

var optionsLogger = log.New("renderer options")

// Validate options and normalize values that depend on each other.
func (o *Options) Validate() error {
	if o.FrameW <= 0 || o.FrameH <= 0 {
		return ErrInvalidFrameSize
	}
	if o.SamplesPerPixel <= 0 {
		return ErrInvalidSampleCount
	}

	if o.MinBouncesForRR == 0 || o.MinBouncesForRR >= o.NumBounces {
		optionsLogger.Notice("disabling RR for path elimination")
		o.MinBouncesForRR = o.NumBounces + 1
	}

	if o.SamplesPerPass <= 0 || o.SamplesPerPass > o.SamplesPerPixel {
		o.SamplesPerPass = o.SamplesPerPixel
	}

	if o.Denoiser.Type == denoiser.TypeNone {
		o.Denoiser.Use = false
	}
	if o.Denoiser.Use {
		if o.Denoiser.Type != denoiser.TypeBilateral && o.Denoiser.Type != denoiser.TypeNLM {
			return fmt.Errorf("%w: %s", ErrInvalidDenoiser, o.Denoiser.Type)
		}
		o.Passes |= buffers.DenoisingPasses
	}
	return nil
}

// Get the integrator options for these render options.
func (o Options) IntegratorOptions() integrator.Options {
	opts := integrator.DefaultOptions()
	opts.MaxBounce = o.NumBounces
	opts.MinBouncesForRR = o.MinBouncesForRR
	opts.TransparentBackground = o.TransparentBackground
	opts.Seed = o.Seed

	if o.Passes&buffers.LightPasses == 0 {
		opts.Features &^= integrator.FeaturePasses
	}
	if o.Passes&buffers.DenoisingPasses == 0 {
		opts.Features &^= integrator.FeatureDenoising
	}
	return opts
}
