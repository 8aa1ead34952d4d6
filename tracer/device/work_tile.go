package device

import "fmt"

// A rectangle of pixels and a contiguous range of samples. A tile is
// immutable once claimed and is consumed by exactly one queue.
type WorkTile struct {
	X, Y int
	W, H int

	StartSample int
	NumSamples  int

	// Render buffer addressing: the index of pixel (x, y) is
	// Offset + x + y*Stride.
	Offset int
	Stride int
}

// The number of path states needed to render the tile in one go.
func (wt WorkTile) WorkSize() int {
	return wt.W * wt.H * wt.NumSamples
}

// Map a work index in [0, WorkSize) to a pixel and a sample. Consecutive
// indices cover all pixels of a sample before moving to the next one.
func (wt WorkTile) Pixel(workIndex int) (x, y, sample int) {
	pixels := wt.W * wt.H
	sample = wt.StartSample + workIndex/pixels
	pixel := workIndex % pixels
	return wt.X + pixel%wt.W, wt.Y + pixel/wt.W, sample
}

// Get the render buffer index of pixel (x, y).
func (wt WorkTile) BufferIndex(x, y int) int {
	return wt.Offset + x + y*wt.Stride
}

// Implements Stringer.
func (wt WorkTile) String() string {
	return fmt.Sprintf("tile(%d, %d)+(%dx%d) samples [%d, %d)", wt.X, wt.Y, wt.W, wt.H, wt.StartSample, wt.StartSample+wt.NumSamples)
}
