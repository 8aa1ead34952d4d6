package denoiser

import (
	"math"

	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/types"
)

// Non-local means on the combined pass. Each neighbor in the search window
// is weighted by the mean squared difference between the patches around
// it and around the filtered pixel.
type nlm struct {
	rowDenoiser

	invH2 float32
}

func newNLM(dev device.Device, params Params) *nlm {
	d := &nlm{
		rowDenoiser: rowDenoiser{
			logger: log.New("nlm denoiser"),
			dev:    dev,
			params: params,
		},
	}
	if params.SigmaColor > 0 {
		d.invH2 = 1 / (params.SigmaColor * params.SigmaColor)
	}
	d.filter = d.filterPixel
	return d
}

func (d *nlm) filterPixel(img *featureImage, x, y int) types.Vec3 {
	radius := max(0, d.params.Radius)
	center := img.at(x, y)

	var sum types.Vec3
	var sumW float32
	for ny := max(0, y-radius); ny <= min(img.height-1, y+radius); ny++ {
		for nx := max(0, x-radius); nx <= min(img.width-1, x+radius); nx++ {
			w := float32(1)
			if nx != x || ny != y {
				w = float32(math.Exp(-float64(d.patchDistance(img, x, y, nx, ny) * d.invH2)))
			}

			sum = sum.Add(img.color[img.at(nx, ny)].Mul(w))
			sumW += w
		}
	}

	if sumW <= 0 {
		return img.color[center]
	}
	return sum.Mul(1 / sumW)
}

// Mean squared color difference of the patches centered at (x0, y0) and
// (x1, y1). Patch pixels outside the image are clamped to the border.
func (d *nlm) patchDistance(img *featureImage, x0, y0, x1, y1 int) float32 {
	patch := max(0, d.params.PatchRadius)

	var dist float32
	var count int
	for py := -patch; py <= patch; py++ {
		for px := -patch; px <= patch; px++ {
			a := img.color[img.at(clampi(x0+px, 0, img.width-1), clampi(y0+py, 0, img.height-1))]
			b := img.color[img.at(clampi(x1+px, 0, img.width-1), clampi(y1+py, 0, img.height-1))]
			dist += distSq(a, b)
			count++
		}
	}
	return dist / float32(count*3)
}

func clampi(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
