package integrator

import (
	"fmt"

	"github.com/achilleasa/wavefront/tracer/device"
)

// Run a single path kernel on a path slot. Shadow kernels operate on the
// shadow slot paired with the path.
func Dispatch(kg *Globals, kernel device.Kernel, state *PathState, shadow *ShadowPathState) {
	switch kernel {
	case device.KernelIntersectClosest:
		IntersectClosest(kg, state)
	case device.KernelShadeVolume:
		ShadeVolume(kg, state)
	case device.KernelShadeBackground:
		ShadeBackground(kg, state)
	case device.KernelShadeSurface:
		ShadeSurface(kg, state, shadow)
	case device.KernelIntersectSubsurface:
		IntersectSubsurface(kg, state, shadow)
	case device.KernelIntersectShadow:
		IntersectShadow(kg, shadow)
	case device.KernelShadeShadow:
		ShadeShadow(kg, shadow)
	case device.KernelMegakernel:
		Megakernel(kg, state, shadow)
	default:
		panic(fmt.Sprintf("integrator: kernel %s cannot be dispatched on a path slot", kernel))
	}
}

// Check whether a kernel operates on shadow paths.
func IsShadowKernel(kernel device.Kernel) bool {
	return kernel == device.KernelIntersectShadow || kernel == device.KernelShadeShadow
}

// Advance a path and its shadow sub-path until both are terminated. A
// pending shadow ray is always resolved before the path moves on so the
// shadow slot is free for the next light sample.
func Megakernel(kg *Globals, state *PathState, shadow *ShadowPathState) {
	for {
		if !shadow.IsTerminated() {
			Dispatch(kg, shadow.Next, state, shadow)
			continue
		}
		if !state.IsTerminated() {
			Dispatch(kg, state.Next, state, shadow)
			continue
		}
		return
	}
}
