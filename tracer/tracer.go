package tracer

import (
	"time"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/tracer/device"
)

// Work renders sample passes into a set of render buffers.
type Work interface {
	// Prepare all queues for a new render.
	InitExecution() error

	// Render numSamples samples, starting at startSample, for every pixel
	// of the region described by params. Blocks until all work completes.
	RenderSamples(params buffers.Params, startSample, numSamples int) error

	// Get per-queue statistics.
	Stats() []Stats
}

// Queue statistics.
type Stats struct {
	// The queue index.
	Queue int

	// Number of rendered tiles.
	Tiles int

	// Number of wavefront rounds over all tiles.
	Rounds int

	// Number of tiles finished by the megakernel.
	MegakernelFallbacks int

	// Time spent rendering tiles.
	RenderTime time.Duration

	// Kernel execution statistics reported by the queue.
	Kernels device.QueueStats
}

// Tracer options.
type Options struct {
	// When the number of active paths after a round drops below this
	// fraction of the tile work size, the remaining paths are finished by
	// the megakernel. A value of 0 disables the fallback.
	MegakernelThreshold float32
}

// Get the default tracer options.
func DefaultOptions() Options {
	return Options{
		MegakernelThreshold: 0.1,
	}
}
