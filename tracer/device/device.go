package device

import (
	"fmt"
	"time"

	"github.com/achilleasa/wavefront/buffers"
)

type DeviceType uint8

// Supported device types.
const (
	CpuDevice DeviceType = 1 << iota
	GpuDevice
	OtherDevice
	AllDevices DeviceType = 0xFF
)

func (dt DeviceType) String() string {
	switch dt {
	case CpuDevice:
		return "CPU"
	case GpuDevice:
		return "GPU"
	case OtherDevice:
		return "Other"
	}
	panic("device: unsupported device type")
}

// Device description.
type Info struct {
	Name string
	Type DeviceType

	// Max number of work groups that may execute at the same time.
	Concurrency int

	// Path state capacity of each queue created by the device.
	MaxNumPaths int

	// Number of queues the device can drive in parallel.
	NumQueues int
}

// Implements Stringer.
func (i Info) String() string {
	return fmt.Sprintf(
		"Name: %s\nType: %s\nSpecs: %d concurrent work groups, %d queue(s) with %d path states each",
		i.Name,
		i.Type.String(),
		i.Concurrency,
		i.NumQueues,
		i.MaxNumPaths,
	)
}

// A compute device capable of creating integrator queues.
type Device interface {
	// Get device information.
	Info() Info

	// The number of queues that should be created for this device.
	ConcurrentQueueCount() int

	// Create a queue that accumulates into the given render buffers.
	QueueCreate(rb *buffers.RenderBuffers) (Queue, error)

	// Release device resources.
	Close()
}

// Execution statistics for a single kernel.
type KernelStats struct {
	Calls int
	Time  time.Duration
}

// Per-queue execution statistics.
type QueueStats struct {
	Kernels [NumKernels]KernelStats
}

// Get the total time spent executing kernels.
func (qs QueueStats) TotalTime() time.Duration {
	var total time.Duration
	for _, ks := range qs.Kernels {
		total += ks.Time
	}
	return total
}

// A queue owns a fixed-capacity pool of path states and executes integrator
// kernels over them. A queue is driven by a single goroutine.
type Queue interface {
	// Prepare the queue for a new render.
	InitExecution() error

	// Set the tile for the next init kernel. The tile work size must
	// not exceed MaxNumPaths.
	SetWorkTile(tile WorkTile) error

	// Execute a kernel over all path states queued for it and wait for
	// it to complete.
	Enqueue(kernel Kernel) error

	// The number of path states that are not yet terminated.
	NumActivePaths() int

	// Path state pool capacity.
	MaxNumPaths() int

	// Get kernel execution statistics.
	Stats() QueueStats
}
