package buffers

import (
	"math"
	"sync/atomic"

	"github.com/achilleasa/wavefront/types"
)

// Accumulation target for rendered samples. Pass values are summed in place
// using atomic float additions so concurrent writers never need ordering.
type RenderBuffers struct {
	params Params

	// Cached layout.
	passStride  int
	passOffsets [numPassTypes]int
	offset      int
	stride      int

	// Float bits; accessed atomically.
	data []uint32
}

// Allocate buffers for the given geometry.
func New(params Params) *RenderBuffers {
	rb := &RenderBuffers{
		params:     params,
		passStride: params.PassStride(),
	}
	rb.offset, rb.stride = params.OffsetStride()
	for pt := PassCombined; pt < numPassTypes; pt++ {
		rb.passOffsets[pt] = params.PassOffset(pt)
	}
	rb.data = make([]uint32, params.NumPixels()*rb.passStride)
	return rb
}

// Get buffer geometry.
func (rb *RenderBuffers) Params() Params {
	return rb.params
}

// Clear all passes.
func (rb *RenderBuffers) Reset() {
	for i := range rb.data {
		atomic.StoreUint32(&rb.data[i], 0)
	}
}

// Map full-frame coordinates to a buffer pixel index.
func (rb *RenderBuffers) PixelIndex(x, y int) int {
	return rb.offset + x + y*rb.stride
}

// Check whether a pass is stored in this buffer.
func (rb *RenderBuffers) HasPass(pass PassType) bool {
	return rb.passOffsets[pass] != -1
}

// Add v to the RGB components of a pass. Disabled passes are ignored.
func (rb *RenderBuffers) Accumulate(pixelIndex int, pass PassType, v types.Vec3) {
	passOffset := rb.passOffsets[pass]
	if passOffset == -1 || v.IsZero() {
		return
	}

	base := pixelIndex*rb.passStride + passOffset
	rb.AddFloat(base, v[0])
	rb.AddFloat(base+1, v[1])
	rb.AddFloat(base+2, v[2])
}

// Add to the transparency accumulator stored in the combined pass.
func (rb *RenderBuffers) AccumulateTransparent(pixelIndex int, transparent float32) {
	if transparent == 0 {
		return
	}
	rb.AddFloat(pixelIndex*rb.passStride+rb.passOffsets[PassCombined]+3, transparent)
}

// Overwrite the RGB components of a pass. Only used for passes that are
// produced after accumulation has finished (e.g. the denoised pass).
func (rb *RenderBuffers) Store(pixelIndex int, pass PassType, v types.Vec3) {
	passOffset := rb.passOffsets[pass]
	if passOffset == -1 {
		return
	}

	base := pixelIndex*rb.passStride + passOffset
	for c := 0; c < 3; c++ {
		atomic.StoreUint32(&rb.data[base+c], math.Float32bits(v[c]))
	}
}

// Read the RGB components of a pass.
func (rb *RenderBuffers) Read(pixelIndex int, pass PassType) types.Vec3 {
	passOffset := rb.passOffsets[pass]
	if passOffset == -1 {
		return types.Vec3{}
	}

	base := pixelIndex*rb.passStride + passOffset
	return types.Vec3{rb.Float(base), rb.Float(base + 1), rb.Float(base + 2)}
}

// Read the transparency accumulator of the combined pass.
func (rb *RenderBuffers) ReadTransparent(pixelIndex int) float32 {
	return rb.Float(pixelIndex*rb.passStride + rb.passOffsets[PassCombined] + 3)
}

// Read a raw float at the given buffer index.
func (rb *RenderBuffers) Float(index int) float32 {
	return math.Float32frombits(atomic.LoadUint32(&rb.data[index]))
}

// Atomically add v to the raw float at the given buffer index.
func (rb *RenderBuffers) AddFloat(index int, v float32) {
	addr := &rb.data[index]
	for {
		old := atomic.LoadUint32(addr)
		sum := math.Float32bits(math.Float32frombits(old) + v)
		if atomic.CompareAndSwapUint32(addr, old, sum) {
			return
		}
	}
}

// Size of the raw storage in floats.
func (rb *RenderBuffers) Len() int {
	return len(rb.data)
}
