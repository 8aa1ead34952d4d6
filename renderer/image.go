package renderer

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/types"
	"golang.org/x/image/tiff"
)

// Display gamma applied after tonemapping.
const gamma = 2.2

// Map the per-sample average of a pass to display range. Color passes use
// simple Reinhard tonemapping followed by gamma correction; normals are
// remapped from [-1, 1] to [0, 1].
func tonemapPixel(rb *buffers.RenderBuffers, pixel int, pass buffers.PassType, invSamples, exposure float32) (rgb types.Vec3, alpha float32) {
	v := rb.Read(pixel, pass).Mul(invSamples)
	alpha = 1
	if pass == buffers.PassCombined {
		alpha = clampf(1-rb.ReadTransparent(pixel)*invSamples, 0, 1)
	}

	if pass == buffers.PassDenoisingNormal {
		return v.Mul(0.5).Add(types.Splat(0.5)), alpha
	}

	for c := 0; c < 3; c++ {
		x := max(0, v[c]*exposure)
		x = x / (1 + x)
		rgb[c] = float32(math.Pow(float64(x), 1/gamma))
	}
	return rgb, alpha
}

// Tonemap a pass into an 8-bit RGBA image.
func Tonemap(rb *buffers.RenderBuffers, pass buffers.PassType, numSamples int, exposure float32) *image.RGBA {
	params := rb.Params()
	im := image.NewRGBA(image.Rect(0, 0, params.Width, params.Height))
	invSamples := 1 / float32(max(1, numSamples))

	for y := 0; y < params.Height; y++ {
		for x := 0; x < params.Width; x++ {
			rgb, alpha := tonemapPixel(rb, rb.PixelIndex(params.FullX+x, params.FullY+y), pass, invSamples, exposure)
			offset := im.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				im.Pix[offset+c] = uint8(clampf(rgb[c], 0, 1)*alpha*255 + 0.5)
			}
			im.Pix[offset+3] = uint8(alpha*255 + 0.5)
		}
	}
	return im
}

// Tonemap a pass into a 16-bit RGBA image.
func Tonemap16(rb *buffers.RenderBuffers, pass buffers.PassType, numSamples int, exposure float32) *image.RGBA64 {
	params := rb.Params()
	im := image.NewRGBA64(image.Rect(0, 0, params.Width, params.Height))
	invSamples := 1 / float32(max(1, numSamples))

	for y := 0; y < params.Height; y++ {
		for x := 0; x < params.Width; x++ {
			rgb, alpha := tonemapPixel(rb, rb.PixelIndex(params.FullX+x, params.FullY+y), pass, invSamples, exposure)
			offset := im.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				v := alpha
				if c < 3 {
					v = clampf(rgb[c], 0, 1) * alpha
				}
				u := uint16(v*65535 + 0.5)
				im.Pix[offset+2*c] = uint8(u >> 8)
				im.Pix[offset+2*c+1] = uint8(u)
			}
		}
	}
	return im
}

// Tonemap a pass and write it to imgFile. The file extension selects the
// format: .png for 8-bit PNG and .tif/.tiff for 16-bit TIFF.
func SaveImage(imgFile string, rb *buffers.RenderBuffers, pass buffers.PassType, numSamples int, exposure float32) error {
	ext := strings.ToLower(filepath.Ext(imgFile))
	if ext != ".png" && ext != ".tif" && ext != ".tiff" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if ext == ".png" {
		err = png.Encode(f, Tonemap(rb, pass, numSamples, exposure))
	} else {
		err = tiff.Encode(f, Tonemap16(rb, pass, numSamples, exposure), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func clampf(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
