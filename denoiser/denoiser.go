package denoiser

import (
	"fmt"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer/device"
)

type Type uint8

// Supported denoiser types. TypeNone and TypeAll are sentinels that can be
// used for flag parsing but never select a backend.
const (
	TypeNone Type = iota
	TypeBilateral
	TypeNLM
	TypeAll
)

// Implements Stringer.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeBilateral:
		return "bilateral"
	case TypeNLM:
		return "nlm"
	case TypeAll:
		return "all"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Parse a denoiser type name.
func ParseType(name string) (Type, error) {
	for t := TypeNone; t <= TypeAll; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Denoiser parameters. Params are immutable once a denoiser is created.
type Params struct {
	Use  bool
	Type Type

	// Filter window radius in pixels.
	Radius int

	// Bilateral falloffs for the pixel distance and the color, albedo and
	// normal differences.
	SigmaSpatial float32
	SigmaColor   float32
	SigmaAlbedo  float32
	SigmaNormal  float32

	// NLM patch radius in pixels.
	PatchRadius int

	// Blend factor between the noisy (0) and the filtered (1) color.
	Strength float32
}

// Get the default parameters for a denoiser type.
func DefaultParams(t Type) Params {
	return Params{
		Use:          t != TypeNone,
		Type:         t,
		Radius:       3,
		SigmaSpatial: 2.0,
		SigmaColor:   0.25,
		SigmaAlbedo:  0.1,
		SigmaNormal:  0.2,
		PatchRadius:  1,
		Strength:     1.0,
	}
}

// The coordinate view of a render buffer used by the denoisers.
type BufferParams struct {
	X, Y          int
	Width, Height int

	Offset int
	Stride int

	// Floats per pixel and the float offset of the first denoising pass.
	PassStride          int
	PassDenoisingOffset int
}

// Compute the denoiser view of a render buffer.
func NewBufferParams(params buffers.Params) BufferParams {
	bp := BufferParams{
		X:                   params.FullX,
		Y:                   params.FullY,
		Width:               params.Width,
		Height:              params.Height,
		PassStride:          params.PassStride(),
		PassDenoisingOffset: params.DenoisingOffset(),
	}
	bp.Offset, bp.Stride = params.OffsetStride()
	return bp
}

// Get the buffer index of pixel (x, y).
func (bp BufferParams) pixelIndex(x, y int) int {
	return bp.Offset + x + y*bp.Stride
}

// A post-process filter that writes a denoised copy of the combined pass.
type Denoiser interface {
	// Filter the finalized passes of rb that were accumulated over
	// numSamples samples and store the result in the denoised pass.
	Denoise(rb *buffers.RenderBuffers, bp BufferParams, numSamples int) error

	// Get the denoiser parameters.
	Params() Params
}

var logger = log.New("denoiser")

// Create the denoiser selected by params.Type. Callers must only create a
// denoiser when params.Use is set and the type names a backend.
func Create(dev device.Device, params Params) Denoiser {
	if !params.Use {
		logger.Panicf("denoiser requested with Use = false (type: %s)", params.Type)
	}

	switch params.Type {
	case TypeBilateral:
		return newBilateral(dev, params)
	case TypeNLM:
		return newNLM(dev, params)
	}

	logger.Panicf("Unhandled denoiser type %s, should never happen", params.Type)
	return nil
}
