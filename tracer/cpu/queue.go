package cpu

import (
	"fmt"
	"sync/atomic"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/tracer/integrator"
)

var queueCount int32

// A queue owning a fixed pool of path states. Entry i of the shadow pool
// holds the shadow ray spawned by path i.
type queue struct {
	logger log.Logger
	dev    *Device
	kg     *integrator.Globals

	paths   []integrator.PathState
	shadows []integrator.ShadowPathState

	tile    device.WorkTile
	hasTile bool

	stats device.QueueStats
}

func newQueue(dev *Device, rb *buffers.RenderBuffers) *queue {
	id := atomic.AddInt32(&queueCount, 1)
	q := &queue{
		logger:  log.New(fmt.Sprintf("cpu queue %d", id)),
		dev:     dev,
		kg:      integrator.NewGlobals(dev.cfg.Scene, dev.cfg.Camera, rb, dev.cfg.Options),
		paths:   make([]integrator.PathState, dev.cfg.MaxNumPaths),
		shadows: make([]integrator.ShadowPathState, dev.cfg.MaxNumPaths),
	}
	q.resetSlots()
	return q
}

func (q *queue) resetSlots() {
	for i := range q.paths {
		q.paths[i].Next = device.KernelNone
		q.shadows[i] = integrator.ShadowPathState{Parent: i, Next: device.KernelNone}
	}
}

// Prepare the queue for a new render.
func (q *queue) InitExecution() error {
	q.resetSlots()
	q.hasTile = false
	q.stats = device.QueueStats{}
	q.logger.Debugf("initialized queue with %d path states", len(q.paths))
	return nil
}

// Set the tile for the next init kernel.
func (q *queue) SetWorkTile(tile device.WorkTile) error {
	if tile.WorkSize() > len(q.paths) {
		return fmt.Errorf("%w: %s needs %d path states; capacity is %d", ErrTileTooLarge, tile, tile.WorkSize(), len(q.paths))
	}
	q.tile = tile
	q.hasTile = true
	return nil
}

// Execute a kernel over all path states queued for it.
func (q *queue) Enqueue(kernel device.Kernel) error {
	var kernelFn func(slot int)

	switch {
	case kernel == device.KernelInitFromCamera:
		if !q.hasTile {
			return ErrNoWorkTile
		}
		tile := q.tile
		kernelFn = func(slot int) {
			integrator.InitFromCamera(q.kg, &q.paths[slot], &tile, slot)
		}
	case kernel == device.KernelMegakernel:
		kernelFn = func(slot int) {
			if q.paths[slot].IsTerminated() && q.shadows[slot].IsTerminated() {
				return
			}
			integrator.Megakernel(q.kg, &q.paths[slot], &q.shadows[slot])
		}
	case integrator.IsShadowKernel(kernel):
		kernelFn = func(slot int) {
			if q.shadows[slot].Next == kernel {
				integrator.Dispatch(q.kg, kernel, &q.paths[slot], &q.shadows[slot])
			}
		}
	case kernel > device.KernelInitFromCamera && kernel < device.KernelMegakernel:
		kernelFn = func(slot int) {
			if q.paths[slot].Next == kernel {
				integrator.Dispatch(q.kg, kernel, &q.paths[slot], &q.shadows[slot])
			}
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedKernel, kernel)
	}

	elapsed, err := q.dev.Exec1D(0, q.numSlots(kernel), 0, kernelFn)
	if err != nil {
		return fmt.Errorf("cpu device: kernel %s: %w", kernel, err)
	}

	q.stats.Kernels[kernel].Calls++
	q.stats.Kernels[kernel].Time += elapsed
	return nil
}

// Init only touches the slots covered by the current tile.
func (q *queue) numSlots(kernel device.Kernel) int {
	if kernel == device.KernelInitFromCamera {
		return q.tile.WorkSize()
	}
	return len(q.paths)
}

// The number of path and shadow path states that are not yet terminated.
func (q *queue) NumActivePaths() int {
	active := 0
	for i := range q.paths {
		if !q.paths[i].IsTerminated() {
			active++
		}
		if !q.shadows[i].IsTerminated() {
			active++
		}
	}
	return active
}

// Path state pool capacity.
func (q *queue) MaxNumPaths() int {
	return len(q.paths)
}

// Get kernel execution statistics.
func (q *queue) Stats() device.QueueStats {
	return q.stats
}
