package cpu

import "errors"

var (
	ErrTileTooLarge      = errors.New("cpu device: work tile exceeds path state capacity")
	ErrUnsupportedKernel = errors.New("cpu device: unsupported kernel")
	ErrNoWorkTile        = errors.New("cpu device: no work tile set")
	ErrMissingScene      = errors.New("cpu device: no scene or camera specified")
)
