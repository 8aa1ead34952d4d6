package integrator

import (
	"math"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/types"
)

// Shade the surface hit by the path: apply holdouts, accumulate emission,
// run russian roulette, spawn a shadow ray towards a light sample and
// bounce off the surface. The shadow slot must belong to the same path.
func ShadeSurface(kg *Globals, state *PathState, shadow *ShadowPathState) {
	if state.IsTerminated() || state.Isect.Prim == scene.PrimNone {
		return
	}

	if !integrateSurface(kg, state, shadow) {
		state.terminate()
	}
}

func integrateSurface(kg *Globals, state *PathState, shadow *ShadowPathState) bool {
	if pathStateAOBounce(kg, state) {
		return false
	}

	var sd scene.ShaderData
	kg.Scene.ShaderSetup(&sd, &state.Ray, &state.Isect)
	kg.Scene.EvalSurface(&sd)

	if sd.Flag&scene.SdHasOnlyVolume != 0 {
		return integrateVolumeBoundary(kg, state, &sd)
	}

	if kg.Options.Features.Has(FeatureHoldout) && !integrateSurfaceHoldout(kg, state, &sd) {
		return false
	}

	if kg.Options.Features.Has(FeatureDenoising) {
		kg.accumulateDenoisingFeatures(state, &sd)
	}

	if sd.Flag&scene.SdEmission != 0 && kg.Options.Features.Has(FeatureEmission) {
		integrateSurfaceEmission(kg, state, &sd)
	}

	// Russian roulette
	probability := continuationProbability(kg, state)
	if probability == 0 {
		return false
	} else if probability != 1 {
		if state.rand1D(rngTerminate) >= probability {
			return false
		}
		state.Throughput = state.Throughput.Mul(1.0 / probability)
	}

	// Subsurface scattering does direct and indirect light in its own kernel
	if sd.Flag&scene.SdBssrdf != 0 && kg.Options.Features.Has(FeatureSubsurface) {
		state.Flag |= PathRaySubsurface
		state.Next = device.KernelIntersectSubsurface
		return true
	}

	integrateSurfaceDirectLight(kg, state, shadow, &sd)
	return integrateSurfaceBounce(kg, state, &sd)
}

// Check whether the path went past the configured AO bounce depth.
func pathStateAOBounce(kg *Globals, state *PathState) bool {
	if kg.Options.AOBounces == 0 {
		return false
	}
	return state.Bounce > kg.Options.AOBounces
}

// Write holdout transparency and report whether the path should continue.
func integrateSurfaceHoldout(kg *Globals, state *PathState, sd *scene.ShaderData) bool {
	if sd.Flag&scene.SdHoldout == 0 && sd.ObjectFlag&scene.ObjectHoldoutMask == 0 {
		return true
	}
	if state.Flag&PathRayTransparentBackground == 0 {
		return true
	}

	holdoutWeight := kg.Scene.HoldoutWeight(sd)
	if kg.Options.TransparentBackground {
		kg.Buffers.AccumulateTransparent(state.PixelIndex, holdoutWeight.MulVec(state.Throughput).Avg())
	}
	if holdoutWeight == types.Splat(1) {
		return false
	}

	// The remaining closures are weighted by the non-holdout fraction
	state.Throughput = state.Throughput.MulVec(types.Splat(1).Sub(holdoutWeight))
	return true
}

func integrateSurfaceEmission(kg *Globals, state *PathState, sd *scene.ShaderData) {
	L := sd.Emission
	if state.Flag&PathRayMISSkip == 0 && sd.Flag&scene.SdUseMIS != 0 && kg.Options.UseMIS {
		lightPdf := kg.Scene.LightPDF(sd)
		L = L.Mul(powerHeuristic(state.RayPDF, lightPdf))
	}
	kg.accumulate(state.PixelIndex, state.Bounce, state.Throughput.MulVec(L), buffers.PassEmission)
}

// Get the probability of continuing the path.
func continuationProbability(kg *Globals, state *PathState) float32 {
	if state.Flag&PathRayTransparent != 0 {
		if state.TransparentBounce >= kg.Options.MaxTransparentBounce {
			return 0
		}
		return 1
	}
	if state.Bounce > kg.Options.MaxBounce {
		return 0
	}
	if state.Bounce < kg.Options.MinBouncesForRR {
		return 1
	}

	return float32(math.Min(math.Sqrt(float64(state.Throughput.Abs().Max())), 1))
}

// Sample a point on a light and queue a shadow ray towards it.
func integrateSurfaceDirectLight(kg *Globals, state *PathState, shadow *ShadowPathState, sd *scene.ShaderData) {
	if !kg.Options.UseDirectLight || !kg.Options.Features.Has(FeatureEmission) {
		return
	}
	if sd.Flag&scene.SdBsdfHasEval == 0 {
		return
	}

	lightU, lightV := state.rand2D(rngLightU)
	ls, ok := kg.Scene.SampleLight(lightU, lightV, sd.P)
	if !ok || ls.PDF <= 0 {
		return
	}

	lightEval := kg.Scene.EvalLight(&ls)
	if lightEval.IsZero() {
		return
	}

	bsdfEval, bsdfPdf := kg.Scene.EvalBsdf(sd, ls.D)
	if bsdfEval.IsZero() {
		return
	}

	// Without a following BSDF bounce the light sample carries full weight
	if ls.UseMIS && kg.Options.UseMIS && state.Bounce < kg.Options.MaxBounce {
		bsdfEval = bsdfEval.Mul(powerHeuristic(ls.PDF, bsdfPdf))
	}
	L := bsdfEval.MulVec(lightEval).Mul(1.0 / ls.PDF)

	if lightSampleTerminate(kg, &L, state.rand1D(rngLightTerminate)) {
		return
	}

	// Shadow ray from the side of the surface facing the light
	ng := sd.Ng
	if ng.Dot(ls.D) < 0 {
		ng = ng.Neg()
	}
	tmax := ls.T - 2*scene.RayEpsilon
	if tmax <= 0 {
		return
	}

	*shadow = ShadowPathState{
		Parent: shadow.Parent,
		Ray: scene.Ray{
			P:    scene.RayOffset(sd.P, ng),
			D:    ls.D,
			T:    tmax,
			Time: sd.Time,
		},
		L:          L.MulVec(state.Throughput),
		Flag:       state.Flag | PathRayShadow,
		Bounce:     state.Bounce,
		Volume:     state.Volume,
		PixelIndex: state.PixelIndex,
		Next:       device.KernelIntersectShadow,
	}
}

// Stochastically discard light samples with a small contribution.
func lightSampleTerminate(kg *Globals, L *types.Vec3, randTerminate float32) bool {
	if L.IsZero() {
		return true
	}
	if kg.Options.LightTerminationThreshold <= 0 {
		return false
	}

	probability := L.Abs().Max() / kg.Options.LightTerminationThreshold
	if probability < 1 {
		if randTerminate >= probability {
			return true
		}
		*L = L.Mul(1.0 / probability)
	}
	return false
}

// Bounce off or through the surface in a BSDF-sampled direction.
func integrateSurfaceBounce(kg *Globals, state *PathState, sd *scene.ShaderData) bool {
	if sd.Flag&scene.SdBsdf == 0 {
		return false
	}

	bsdfU, bsdfV := state.rand2D(rngBsdfU)
	bs := kg.Scene.SampleBsdf(sd, bsdfU, bsdfV)
	if bs.PDF == 0 || bs.Eval.IsZero() {
		return false
	}

	transparent := bs.Label&scene.LabelTransparent != 0
	if !transparent && state.Bounce >= kg.Options.MaxBounce {
		return false
	}

	// Clipping works through transparent bounces
	offsetN := sd.Ng
	if bs.Label&scene.LabelTransmit != 0 {
		offsetN = sd.Ng.Neg()
	}
	rayT := scene.RayInfinity
	if state.Bounce == 0 {
		rayT = state.Ray.T - sd.RayLength
	}
	state.Ray = scene.Ray{
		P:    scene.RayOffset(sd.P, offsetN),
		D:    bs.OmegaIn.Normalize(),
		T:    rayT,
		Time: sd.Time,
	}

	state.Throughput = state.Throughput.MulVec(bs.Eval).Mul(1.0 / bs.PDF)
	if !transparent {
		state.RayPDF = bs.PDF
		if bs.PDF < state.MinRayPDF {
			state.MinRayPDF = bs.PDF
		}
	}

	pathStateNext(state, bs.Label)
	state.Next = device.KernelIntersectClosest
	return true
}

// Update path flags and bounce counters after a bounce with the given label.
func pathStateNext(state *PathState, label scene.Label) {
	state.RNGOffset += rngBounceNum

	// Transparent bounces keep the flags of the previous ray
	if label&scene.LabelTransparent != 0 {
		state.Flag |= PathRayTransparent | PathRayMISSkip
		state.TransparentBounce++
		return
	}

	state.Bounce++
	state.Flag &^= pathRayAllVisibility | PathRayMISSkip | PathRayTransparentBackground

	if label&scene.LabelReflect != 0 {
		state.Flag |= PathRayReflect
	} else {
		state.Flag |= PathRayTransmit
	}

	switch {
	case label&scene.LabelDiffuse != 0:
		state.Flag |= PathRayDiffuse
	case label&scene.LabelGlossy != 0:
		state.Flag |= PathRayGlossy
	default:
		state.Flag |= PathRayGlossy | PathRaySingular | PathRayMISSkip
	}
}

// Pass through a surface that only bounds a volume.
func integrateVolumeBoundary(kg *Globals, state *PathState, sd *scene.ShaderData) bool {
	state.VolumeBoundsBounce++
	if state.VolumeBoundsBounce > maxVolumeBounds {
		return false
	}
	if state.VolumeBoundsBounce > 1 {
		state.RNGOffset += rngBounceNum
	}

	if kg.Options.Features.Has(FeatureVolume) {
		state.Volume.EnterExit(scene.VolumeEntry{Object: sd.Object, Absorption: sd.Absorption})
	}

	// Direction stays unchanged
	if state.Bounce == 0 {
		state.Ray.T -= sd.RayLength
	} else {
		state.Ray.T = scene.RayInfinity
	}
	state.Ray.P = scene.RayOffset(sd.P, sd.Ng.Neg())
	state.Next = device.KernelIntersectClosest
	return true
}

// Find the exit point of a subsurface path, then sample direct light and
// bounce from there.
func IntersectSubsurface(kg *Globals, state *PathState, shadow *ShadowPathState) {
	if state.IsTerminated() {
		return
	}

	if !integrateSubsurface(kg, state, shadow) {
		state.terminate()
	}
}

func integrateSubsurface(kg *Globals, state *PathState, shadow *ShadowPathState) bool {
	var sd scene.ShaderData
	kg.Scene.ShaderSetup(&sd, &state.Ray, &state.Isect)
	kg.Scene.EvalSurface(&sd)

	ssU, ssV := state.rand2D(rngSubsurfaceU)
	probe, exit, ok := kg.Scene.SubsurfaceExit(&sd, kg.Options.SubsurfaceRadius, ssU, ssV)
	if !ok {
		return false
	}

	state.Throughput = state.Throughput.MulVec(sd.Albedo)
	state.Ray, state.Isect = probe, exit
	state.Ray.T = scene.RayInfinity
	state.Flag &^= PathRaySubsurface

	// Exit with a white diffuse closure; the albedo was already applied
	kg.Scene.ShaderSetup(&sd, &probe, &exit)
	kg.Scene.EvalSurface(&sd)
	sd.Albedo = types.Splat(1)

	integrateSurfaceDirectLight(kg, state, shadow, &sd)
	return integrateSurfaceBounce(kg, state, &sd)
}
