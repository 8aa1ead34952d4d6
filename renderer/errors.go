package renderer

import "errors"

var (
	ErrSceneNotDefined    = errors.New("renderer: no scene defined")
	ErrCameraNotDefined   = errors.New("renderer: no camera defined")
	ErrInvalidFrameSize   = errors.New("renderer: frame dimensions must be positive")
	ErrInvalidSampleCount = errors.New("renderer: samples per pixel must be positive")
	ErrInterrupted        = errors.New("renderer: interrupted while rendering")
	ErrInvalidDenoiser    = errors.New("renderer: denoiser type does not select a backend")
	ErrUnsupportedFormat  = errors.New("renderer: unsupported image format")
)
