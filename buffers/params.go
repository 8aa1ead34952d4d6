package buffers

// Geometry of a render buffer. The buffer covers a Width x Height window
// located at (FullX, FullY) inside a FullWidth x FullHeight frame.
type Params struct {
	Width  int
	Height int

	FullX      int
	FullY      int
	FullWidth  int
	FullHeight int

	Passes PassFlag
}

// Create params for a buffer covering an entire frame.
func NewParams(width, height int, passes PassFlag) Params {
	return Params{
		Width:      width,
		Height:     height,
		FullWidth:  width,
		FullHeight: height,
		Passes:     passes,
	}
}

// Number of pixels covered by the buffer.
func (p Params) NumPixels() int {
	return p.Width * p.Height
}

// Get the offset and stride for mapping full-frame pixel coordinates to
// buffer pixel indices: index = offset + x + y*stride.
func (p Params) OffsetStride() (offset, stride int) {
	return -(p.FullX + p.FullY*p.Width), p.Width
}

// Number of floats stored per pixel.
func (p Params) PassStride() int {
	stride := 0
	for _, pt := range p.Passes.List() {
		stride += pt.Components()
	}
	return stride
}

// Get the float offset of a pass within a pixel or -1 if the pass is disabled.
func (p Params) PassOffset(pass PassType) int {
	offset := 0
	for _, pt := range p.Passes.List() {
		if pt == pass {
			return offset
		}
		offset += pt.Components()
	}
	return -1
}

// Get the offset of the first denoising pass or -1 if denoising passes
// are not enabled.
func (p Params) DenoisingOffset() int {
	return p.PassOffset(PassDenoisingAlbedo)
}

// Check whether the full-frame coordinates fall inside the buffer window.
func (p Params) Contains(x, y int) bool {
	return x >= p.FullX && x < p.FullX+p.Width && y >= p.FullY && y < p.FullY+p.Height
}
