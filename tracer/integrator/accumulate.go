package integrator

import (
	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/types"
)

// Write a contribution to the combined pass and to the light pass matching
// its origin. Contributions from later bounces always go to the indirect pass.
func (kg *Globals) accumulate(pixelIndex, bounce int, L types.Vec3, pass buffers.PassType) {
	if L.IsZero() {
		return
	}
	kg.Buffers.Accumulate(pixelIndex, buffers.PassCombined, L)
	if !kg.Options.Features.Has(FeaturePasses) {
		return
	}
	if bounce == 0 {
		kg.Buffers.Accumulate(pixelIndex, pass, L)
	} else {
		kg.Buffers.Accumulate(pixelIndex, buffers.PassIndirect, L)
	}
}

// Write the denoising albedo and normal at the first non-transparent hit.
func (kg *Globals) accumulateDenoisingFeatures(state *PathState, sd *scene.ShaderData) {
	if state.Flag&PathRayDenoisingFeatures == 0 {
		return
	}
	if sd.Flag&scene.SdTransparent != 0 {
		return
	}
	state.Flag &^= PathRayDenoisingFeatures

	kg.Buffers.Accumulate(state.PixelIndex, buffers.PassDenoisingAlbedo, state.Throughput.MulVec(sd.Albedo))
	kg.Buffers.Accumulate(state.PixelIndex, buffers.PassDenoisingNormal, sd.N)
}
