package cpu

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/tracer/integrator"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// Default path state capacity of each queue.
	DefaultMaxNumPaths   = 1 << 14
	defaultWorkGroupSize = 256
)

// Device configuration.
type Config struct {
	Scene   integrator.Scene
	Camera  *scene.Camera
	Options integrator.Options

	// Number of queues to create. Defaults to 1.
	NumQueues int

	// Path state capacity of each queue.
	MaxNumPaths int

	// Max number of work groups executing at the same time across all
	// queues. Defaults to the number of available CPUs.
	Concurrency int

	// Number of path slots processed by a single work group.
	WorkGroupSize int
}

// A device that runs the integrator kernels on the host CPUs.
type Device struct {
	logger log.Logger
	cfg    Config

	// Bounds the number of concurrently executing work groups.
	sem *semaphore.Weighted
}

// Create a new CPU device.
func NewDevice(cfg Config) (*Device, error) {
	if cfg.Scene == nil || cfg.Camera == nil {
		return nil, ErrMissingScene
	}
	if cfg.NumQueues <= 0 {
		cfg.NumQueues = 1
	}
	if cfg.MaxNumPaths <= 0 {
		cfg.MaxNumPaths = DefaultMaxNumPaths
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.WorkGroupSize <= 0 {
		cfg.WorkGroupSize = defaultWorkGroupSize
	}

	return &Device{
		logger: log.New("cpu device"),
		cfg:    cfg,
		sem:    semaphore.NewWeighted(int64(cfg.Concurrency)),
	}, nil
}

// Get device information.
func (d *Device) Info() device.Info {
	return device.Info{
		Name:        fmt.Sprintf("%s/%s CPU", runtime.GOOS, runtime.GOARCH),
		Type:        device.CpuDevice,
		Concurrency: d.cfg.Concurrency,
		MaxNumPaths: d.cfg.MaxNumPaths,
		NumQueues:   d.cfg.NumQueues,
	}
}

// The number of queues that should be created for this device.
func (d *Device) ConcurrentQueueCount() int {
	return d.cfg.NumQueues
}

// Create a queue that accumulates into the given render buffers.
func (d *Device) QueueCreate(rb *buffers.RenderBuffers) (device.Queue, error) {
	if rb == nil {
		return nil, fmt.Errorf("cpu device: queue requires a render buffer")
	}
	return newQueue(d, rb), nil
}

// Release device resources.
func (d *Device) Close() {
}

// Execute a 1D kernel over [offset, offset+globalWorkSize). The range is
// split into work groups of localWorkSize items that run concurrently,
// subject to the device-wide concurrency limit. If localWorkSize is 0 the
// configured work group size is used. Blocks until all groups complete.
func (d *Device) Exec1D(offset, globalWorkSize, localWorkSize int, kernelFn func(workIndex int)) (time.Duration, error) {
	if localWorkSize <= 0 {
		localWorkSize = d.cfg.WorkGroupSize
	}

	tick := time.Now()
	var g errgroup.Group
	end := offset + globalWorkSize
	for groupStart := offset; groupStart < end; groupStart += localWorkSize {
		groupStart := groupStart
		groupEnd := min(groupStart+localWorkSize, end)
		if err := d.sem.Acquire(context.Background(), 1); err != nil {
			_ = g.Wait()
			return time.Since(tick), err
		}
		g.Go(func() error {
			defer d.sem.Release(1)
			for workIndex := groupStart; workIndex < groupEnd; workIndex++ {
				kernelFn(workIndex)
			}
			return nil
		})
	}

	err := g.Wait()
	return time.Since(tick), err
}
