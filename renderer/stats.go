package renderer

import (
	"time"

	"github.com/achilleasa/wavefront/tracer"
)

type PassStat struct {
	// The sample range rendered by this pass.
	StartSample int
	NumSamples  int

	RenderTime time.Duration
}

type FrameStats struct {
	// Individual queue stats.
	Queues []tracer.Stats

	// Progressive sample passes.
	Passes []PassStat

	// Number of samples accumulated in the render buffers.
	NumSamples int

	// Time spent denoising the frame.
	DenoiseTime time.Duration

	// Total render time for entire frame.
	RenderTime time.Duration
}
