package integrator

import (
	"math"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/types"
)

// Initialize the path for a work index of the tile and generate its camera
// ray. Work indices past the tile work size leave the slot terminated.
func InitFromCamera(kg *Globals, state *PathState, tile *device.WorkTile, workIndex int) {
	if workIndex >= tile.WorkSize() {
		state.terminate()
		return
	}

	x, y, sample := tile.Pixel(workIndex)
	*state = PathState{
		Isect:      scene.NoIntersection(),
		Throughput: types.Splat(1),
		MinRayPDF:  float32(math.Inf(1)),
		Flag:       PathRayCamera | PathRayMISSkip | PathRayTransparentBackground,
		PixelIndex: tile.BufferIndex(x, y),
		Sample:     sample,
		RNGHash:    pixelRNGHash(kg.Options.Seed, x, y),
	}
	if kg.Options.Features.Has(FeatureDenoising) {
		state.Flag |= PathRayDenoisingFeatures
	}

	// Jitter the sample position inside the pixel
	filterU, filterV := state.rand2D(rngFilterU)
	state.Ray = kg.Camera.GenerateRay(
		(float32(x)+filterU)*kg.invFullW,
		(float32(y)+filterV)*kg.invFullH,
	)
	state.Next = device.KernelIntersectClosest
}

// Find the closest intersection for the path ray and route the path to the
// volume, surface or background stage.
func IntersectClosest(kg *Globals, state *PathState) {
	if state.IsTerminated() {
		return
	}

	isect, hit := kg.Scene.Intersect(&state.Ray)
	state.Isect = isect

	switch {
	case state.Volume.Len() > 0 && kg.Options.Features.Has(FeatureVolume):
		state.Next = device.KernelShadeVolume
	case hit:
		state.Next = device.KernelShadeSurface
	default:
		state.Next = device.KernelShadeBackground
	}
}

// Attenuate the path throughput by the volumes it is currently inside of.
func ShadeVolume(kg *Globals, state *PathState) {
	if state.IsTerminated() {
		return
	}

	hit := state.Isect.Prim != scene.PrimNone
	distance := kg.Options.VolumeMissDistance
	if hit {
		distance = state.Isect.T
	}

	state.Throughput = state.Throughput.MulVec(kg.Scene.VolumeTransmittance(state.Volume.Entries(), distance))
	if state.Throughput.IsZero() {
		state.terminate()
		return
	}

	if hit {
		state.Next = device.KernelShadeSurface
	} else {
		state.Next = device.KernelShadeBackground
	}
}

// Accumulate the background for a path that escaped the scene and
// terminate it.
func ShadeBackground(kg *Globals, state *PathState) {
	if state.IsTerminated() {
		return
	}
	defer state.terminate()

	if kg.Options.TransparentBackground && state.Flag&PathRayTransparentBackground != 0 {
		kg.Buffers.AccumulateTransparent(state.PixelIndex, state.Throughput.Avg())
		return
	}

	L := kg.Scene.Background(&state.Ray)
	kg.accumulate(state.PixelIndex, state.Bounce, state.Throughput.MulVec(L), buffers.PassBackground)
}

// Test the shadow ray for occlusion.
func IntersectShadow(kg *Globals, shadow *ShadowPathState) {
	if shadow.IsTerminated() {
		return
	}

	if kg.Scene.Occluded(&shadow.Ray) {
		shadow.terminate()
		return
	}
	shadow.Next = device.KernelShadeShadow
}

// Deliver the light carried by an unoccluded shadow ray.
func ShadeShadow(kg *Globals, shadow *ShadowPathState) {
	if shadow.IsTerminated() {
		return
	}
	defer shadow.terminate()

	L := shadow.L
	if shadow.Volume.Len() > 0 && kg.Options.Features.Has(FeatureVolume) {
		L = L.MulVec(kg.Scene.VolumeTransmittance(shadow.Volume.Entries(), shadow.Ray.T))
	}
	kg.accumulate(shadow.PixelIndex, shadow.Bounce, L, buffers.PassDirect)
}
