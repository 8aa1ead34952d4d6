package denoiser

import (
	"math"

	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/types"
)

// A joint bilateral filter. Neighbor weights fall off with pixel distance
// and with the differences of the color, albedo and normal features, so
// edges present in the feature passes are preserved.
type bilateral struct {
	rowDenoiser

	invTwoSigmaSpatial2 float32
	invTwoSigmaColor2   float32
	invTwoSigmaAlbedo2  float32
	invTwoSigmaNormal2  float32
}

func newBilateral(dev device.Device, params Params) *bilateral {
	d := &bilateral{
		rowDenoiser: rowDenoiser{
			logger: log.New("bilateral denoiser"),
			dev:    dev,
			params: params,
		},
		invTwoSigmaSpatial2: invTwoSigma2(params.SigmaSpatial),
		invTwoSigmaColor2:   invTwoSigma2(params.SigmaColor),
		invTwoSigmaAlbedo2:  invTwoSigma2(params.SigmaAlbedo),
		invTwoSigmaNormal2:  invTwoSigma2(params.SigmaNormal),
	}
	d.filter = d.filterPixel
	return d
}

func (d *bilateral) filterPixel(img *featureImage, x, y int) types.Vec3 {
	radius := max(0, d.params.Radius)
	center := img.at(x, y)
	cColor, cAlbedo, cNormal := img.color[center], img.albedo[center], img.normal[center]

	var sum types.Vec3
	var sumW float32
	for ny := max(0, y-radius); ny <= min(img.height-1, y+radius); ny++ {
		for nx := max(0, x-radius); nx <= min(img.width-1, x+radius); nx++ {
			i := img.at(nx, ny)
			dx, dy := float32(nx-x), float32(ny-y)

			exponent := (dx*dx+dy*dy)*d.invTwoSigmaSpatial2 +
				distSq(cColor, img.color[i])*d.invTwoSigmaColor2 +
				distSq(cAlbedo, img.albedo[i])*d.invTwoSigmaAlbedo2 +
				distSq(cNormal, img.normal[i])*d.invTwoSigmaNormal2
			w := float32(math.Exp(-float64(exponent)))

			sum = sum.Add(img.color[i].Mul(w))
			sumW += w
		}
	}

	if sumW <= 0 {
		return cColor
	}
	return sum.Mul(1 / sumW)
}

// Get 1/(2*sigma^2) or 0 if sigma is not positive, which disables the term.
func invTwoSigma2(sigma float32) float32 {
	if sigma <= 0 {
		return 0
	}
	return 1 / (2 * sigma * sigma)
}

func distSq(a, b types.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}
