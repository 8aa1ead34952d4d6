package denoiser

import (
	"fmt"
	"time"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/types"
	"golang.org/x/sync/errgroup"
)

// Float offsets of the guide passes relative to PassDenoisingOffset.
const (
	albedoOffset = 0
	normalOffset = 3
)

// Per-sample averages of the passes that guide the filters.
type featureImage struct {
	width, height int

	color  []types.Vec3
	albedo []types.Vec3
	normal []types.Vec3
}

func (img *featureImage) at(x, y int) int {
	return x + y*img.width
}

// Load the combined and feature passes of the buffer region.
func loadFeatureImage(rb *buffers.RenderBuffers, bp BufferParams, numSamples int) (*featureImage, error) {
	if numSamples <= 0 {
		return nil, ErrInvalidSamples
	}
	if !rb.HasPass(buffers.PassDenoisingAlbedo) || !rb.HasPass(buffers.PassDenoisingNormal) || !rb.HasPass(buffers.PassDenoised) || bp.PassDenoisingOffset < 0 {
		return nil, ErrMissingPasses
	}
	if rbParams := rb.Params(); rbParams.Width != bp.Width || rbParams.Height != bp.Height || rbParams.PassStride() != bp.PassStride {
		return nil, fmt.Errorf("%w: expected %dx%d with pass stride %d", ErrRegionMismatch, rbParams.Width, rbParams.Height, rbParams.PassStride())
	}

	numPixels := bp.Width * bp.Height
	img := &featureImage{
		width:  bp.Width,
		height: bp.Height,
		color:  make([]types.Vec3, numPixels),
		albedo: make([]types.Vec3, numPixels),
		normal: make([]types.Vec3, numPixels),
	}

	invSamples := 1.0 / float32(numSamples)
	for y := 0; y < bp.Height; y++ {
		for x := 0; x < bp.Width; x++ {
			pixel := bp.pixelIndex(bp.X+x, bp.Y+y)
			base := pixel*bp.PassStride + bp.PassDenoisingOffset

			i := img.at(x, y)
			img.color[i] = rb.Read(pixel, buffers.PassCombined).Mul(invSamples)
			img.albedo[i] = readVec3(rb, base+albedoOffset).Mul(invSamples)
			img.normal[i] = readVec3(rb, base+normalOffset).Mul(invSamples)
		}
	}
	return img, nil
}

func readVec3(rb *buffers.RenderBuffers, index int) types.Vec3 {
	return types.Vec3{rb.Float(index), rb.Float(index + 1), rb.Float(index + 2)}
}

// The filtered value of a single pixel.
type pixelFilter func(img *featureImage, x, y int) types.Vec3

// Shared driver for the denoiser backends. Rows are filtered in parallel,
// bounded by the device concurrency.
type rowDenoiser struct {
	logger log.Logger
	dev    device.Device
	params Params
	filter pixelFilter
}

func (d *rowDenoiser) Params() Params {
	return d.params
}

func (d *rowDenoiser) Denoise(rb *buffers.RenderBuffers, bp BufferParams, numSamples int) error {
	start := time.Now()
	img, err := loadFeatureImage(rb, bp, numSamples)
	if err != nil {
		return err
	}

	out := make([]types.Vec3, len(img.color))
	strength := clampf(d.params.Strength, 0, 1)

	var g errgroup.Group
	g.SetLimit(max(1, d.dev.Info().Concurrency))
	for y := 0; y < img.height; y++ {
		y := y
		g.Go(func() error {
			for x := 0; x < img.width; x++ {
				i := img.at(x, y)
				out[i] = types.Lerp(img.color[i], d.filter(img, x, y), strength)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	// The denoised pass holds the per-sample average scaled back to the
	// accumulated range so all passes share the same normalization.
	scale := float32(numSamples)
	for y := 0; y < bp.Height; y++ {
		for x := 0; x < bp.Width; x++ {
			rb.Store(bp.pixelIndex(bp.X+x, bp.Y+y), buffers.PassDenoised, out[img.at(x, y)].Mul(scale))
		}
	}

	d.logger.Debugf("denoised %dx%d px in %d ms", bp.Width, bp.Height, time.Since(start).Nanoseconds()/1e6)
	return nil
}

func clampf(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
