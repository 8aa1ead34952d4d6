package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/denoiser"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer"
	"github.com/achilleasa/wavefront/tracer/cpu"
)

type Renderer interface {
	// Render frame. The context is checked between progressive sample
	// passes; a cancelled render returns ErrInterrupted and keeps the
	// samples accumulated so far.
	Render(ctx context.Context) error

	// Get the render buffers and the number of samples accumulated in them.
	Buffers() (*buffers.RenderBuffers, int)

	// Shutdown renderer and release the device.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// A renderer that drives the tiled wavefront tracer on the CPU device.
type defaultRenderer struct {
	logger log.Logger

	options Options
	scene   *scene.Scene

	device   *cpu.Device
	buffers  *buffers.RenderBuffers
	work     tracer.Work
	denoiser denoiser.Denoiser

	numSamples int
	stats      FrameStats
}

// Create a new renderer for the given scene.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &defaultRenderer{
		logger:  log.New("renderer"),
		options: opts,
		scene:   sc,
	}

	// Update projection matrix
	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	var err error
	r.device, err = cpu.NewDevice(cpu.Config{
		Scene:       sc,
		Camera:      sc.Camera,
		Options:     opts.IntegratorOptions(),
		NumQueues:   opts.NumQueues,
		MaxNumPaths: opts.PathsPerQueue,
		Concurrency: opts.Concurrency,
	})
	if err != nil {
		return nil, err
	}

	r.buffers = buffers.New(buffers.NewParams(opts.FrameW, opts.FrameH, opts.Passes))
	r.work, err = tracer.NewWorkTiled(r.device, r.buffers, tracer.Options{MegakernelThreshold: opts.MegakernelThreshold})
	if err != nil {
		r.Close()
		return nil, err
	}

	if opts.Denoiser.Use {
		r.denoiser = denoiser.Create(r.device, opts.Denoiser)
	}

	r.logger.Infof("using device:\n%s", r.device.Info())
	return r, nil
}

func (r *defaultRenderer) Render(ctx context.Context) error {
	start := time.Now()
	defer func() {
		r.stats.RenderTime = time.Since(start)
		r.stats.Queues = r.work.Stats()
		r.stats.NumSamples = r.numSamples
	}()

	r.buffers.Reset()
	r.numSamples = 0
	r.stats = FrameStats{}
	if err := r.work.InitExecution(); err != nil {
		return err
	}

	params := r.buffers.Params()
	for r.numSamples < r.options.SamplesPerPixel {
		select {
		case <-ctx.Done():
			r.logger.Warningf("render interrupted after %d/%d samples", r.numSamples, r.options.SamplesPerPixel)
			return fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		default:
		}

		numSamples := min(r.options.SamplesPerPass, r.options.SamplesPerPixel-r.numSamples)
		passStart := time.Now()
		if err := r.work.RenderSamples(params, r.numSamples, numSamples); err != nil {
			return err
		}

		r.stats.Passes = append(r.stats.Passes, PassStat{
			StartSample: r.numSamples,
			NumSamples:  numSamples,
			RenderTime:  time.Since(passStart),
		})
		r.numSamples += numSamples
		r.logger.Debugf("rendered samples %d/%d", r.numSamples, r.options.SamplesPerPixel)
	}

	if r.denoiser != nil {
		denoiseStart := time.Now()
		if err := r.denoiser.Denoise(r.buffers, denoiser.NewBufferParams(params), r.numSamples); err != nil {
			return err
		}
		r.stats.DenoiseTime = time.Since(denoiseStart)
	}

	return nil
}

func (r *defaultRenderer) Buffers() (*buffers.RenderBuffers, int) {
	return r.buffers, r.numSamples
}

func (r *defaultRenderer) Close() {
	if r.device != nil {
		r.device.Close()
		r.device = nil
	}
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}
