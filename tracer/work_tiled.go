package tracer

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer/device"
	"golang.org/x/sync/errgroup"
)

type PipelineState uint8

// Per-tile pipeline states.
const (
	PipelineInit PipelineState = iota
	PipelineIntersecting
	PipelineShading
	PipelineShadowResolving
	PipelineMegakernel
	PipelineDone
)

// Implements Stringer.
func (ps PipelineState) String() string {
	switch ps {
	case PipelineInit:
		return "init"
	case PipelineIntersecting:
		return "intersecting"
	case PipelineShading:
		return "shading"
	case PipelineShadowResolving:
		return "shadow-resolving"
	case PipelineMegakernel:
		return "megakernel"
	case PipelineDone:
		return "done"
	}
	panic(fmt.Sprintf("Unsupported pipeline state: %d", ps))
}

// Pipeline state a kernel belongs to.
func pipelineStateFor(kernel device.Kernel) PipelineState {
	switch kernel {
	case device.KernelIntersectClosest:
		return PipelineIntersecting
	case device.KernelIntersectShadow, device.KernelShadeShadow:
		return PipelineShadowResolving
	default:
		return PipelineShading
	}
}

// WorkTiled renders samples by letting each device queue pull tiles from a
// shared work scheduler and run the wavefront kernel pipeline on them.
type WorkTiled struct {
	logger log.Logger

	device    device.Device
	buffers   *buffers.RenderBuffers
	queues    []device.Queue
	scheduler *WorkScheduler
	opts      Options

	// Each entry is only written by the goroutine driving that queue.
	stats []Stats
}

// Create queues for the device and size the scheduler tiles to their
// capacity. All queues of a device are expected to have the same capacity.
func NewWorkTiled(dev device.Device, rb *buffers.RenderBuffers, opts Options) (*WorkTiled, error) {
	numQueues := dev.ConcurrentQueueCount()
	if numQueues <= 0 {
		return nil, ErrNoQueues
	}

	w := &WorkTiled{
		logger:    log.New("work tiled"),
		device:    dev,
		buffers:   rb,
		queues:    make([]device.Queue, 0, numQueues),
		scheduler: NewWorkScheduler(),
		opts:      opts,
		stats:     make([]Stats, numQueues),
	}

	for i := 0; i < numQueues; i++ {
		queue, err := dev.QueueCreate(rb)
		if err != nil {
			return nil, fmt.Errorf("tracer: could not create queue %d: %w", i, err)
		}
		w.queues = append(w.queues, queue)
		w.stats[i].Queue = i
	}

	w.scheduler.SetMaxNumPathStates(w.queues[0].MaxNumPaths())
	return w, nil
}

// Prepare all queues for a new render.
func (w *WorkTiled) InitExecution() error {
	for i, queue := range w.queues {
		if err := queue.InitExecution(); err != nil {
			return fmt.Errorf("tracer: could not init queue %d: %w", i, err)
		}
		w.stats[i] = Stats{Queue: i}
	}
	return nil
}

// Render a range of samples for the given region. Each queue pulls tiles
// from the scheduler until it runs out of work. If a queue fails, the
// remaining queues stop after finishing their current tile and the first
// error is returned.
func (w *WorkTiled) RenderSamples(params buffers.Params, startSample, numSamples int) error {
	w.scheduler.Reset(params, startSample, numSamples)
	tileW, tileH, tileSamples := w.scheduler.TileSize()
	w.logger.Debugf(
		"rendering samples [%d, %d) using %d queue(s); %d tiles of %dx%d px with %d sample(s)",
		startSample, startSample+numSamples, len(w.queues), w.scheduler.NumTiles(), tileW, tileH, tileSamples,
	)

	g, ctx := errgroup.WithContext(context.Background())
	for queueIndex := range w.queues {
		queueIndex := queueIndex
		g.Go(func() error {
			return w.renderSamplesFullPipeline(ctx, queueIndex)
		})
	}
	return g.Wait()
}

// Get per-queue statistics.
func (w *WorkTiled) Stats() []Stats {
	stats := make([]Stats, len(w.stats))
	for i := range w.stats {
		stats[i] = w.stats[i]
		stats[i].Kernels = w.queues[i].Stats()
	}
	return stats
}

func (w *WorkTiled) renderSamplesFullPipeline(ctx context.Context, queueIndex int) error {
	var tile device.WorkTile
	for ctx.Err() == nil && w.scheduler.GetWork(&tile) {
		if err := w.renderTile(queueIndex, tile); err != nil {
			return fmt.Errorf("tracer: queue %d failed to render %s: %w", queueIndex, tile, err)
		}
	}
	return nil
}

// Run the kernel pipeline for a single tile until all of its paths have
// terminated.
func (w *WorkTiled) renderTile(queueIndex int, tile device.WorkTile) error {
	queue := w.queues[queueIndex]
	stats := &w.stats[queueIndex]
	totalWorkSize := tile.WorkSize()
	state := PipelineInit

	tick := time.Now()
	defer func() {
		stats.Tiles++
		stats.RenderTime += time.Since(tick)
	}()

	if err := queue.SetWorkTile(tile); err != nil {
		return err
	}
	if err := w.enqueue(queue, device.KernelInitFromCamera, &state, PipelineInit); err != nil {
		return err
	}

	for {
		for _, kernel := range device.RoundKernels {
			if err := w.enqueue(queue, kernel, &state, pipelineStateFor(kernel)); err != nil {
				return err
			}
		}
		stats.Rounds++

		numActive := queue.NumActivePaths()
		if numActive == 0 {
			break
		}
		if float32(numActive) < w.opts.MegakernelThreshold*float32(totalWorkSize) {
			if err := w.enqueue(queue, device.KernelMegakernel, &state, PipelineMegakernel); err != nil {
				return err
			}
			stats.MegakernelFallbacks++
			break
		}
	}

	w.transition(&state, PipelineDone)
	return nil
}

func (w *WorkTiled) enqueue(queue device.Queue, kernel device.Kernel, state *PipelineState, next PipelineState) error {
	w.transition(state, next)
	if err := queue.Enqueue(kernel); err != nil {
		return fmt.Errorf("kernel %s: %w", kernel, err)
	}
	return nil
}

func (w *WorkTiled) transition(state *PipelineState, next PipelineState) {
	if *state == next {
		return
	}
	if log.IsEnabledFor(log.Debug) {
		w.logger.Debugf("pipeline %s -> %s", *state, next)
	}
	*state = next
}
