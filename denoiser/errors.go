package denoiser

import "errors"

var (
	ErrUnknownType    = errors.New("denoiser: unknown denoiser type")
	ErrMissingPasses  = errors.New("denoiser: render buffer does not contain the denoising passes")
	ErrInvalidSamples = errors.New("denoiser: number of samples must be positive")
	ErrRegionMismatch = errors.New("denoiser: buffer params do not match the render buffer")
)
