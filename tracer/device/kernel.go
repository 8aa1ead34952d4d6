package device

import "fmt"

type Kernel uint8

// The list of kernels that implement the integrator. KernelNone marks a
// terminated path.
const (
	KernelNone Kernel = iota
	KernelInitFromCamera
	KernelIntersectClosest
	KernelShadeVolume
	KernelShadeBackground
	KernelShadeSurface
	KernelIntersectSubsurface
	KernelIntersectShadow
	KernelShadeShadow
	KernelMegakernel
	//
	NumKernels
)

// Implements Stringer.
func (k Kernel) String() string {
	switch k {
	case KernelNone:
		return "none"
	case KernelInitFromCamera:
		return "integratorInitFromCamera"
	case KernelIntersectClosest:
		return "integratorIntersectClosest"
	case KernelShadeVolume:
		return "integratorShadeVolume"
	case KernelShadeBackground:
		return "integratorShadeBackground"
	case KernelShadeSurface:
		return "integratorShadeSurface"
	case KernelIntersectSubsurface:
		return "integratorIntersectSubsurface"
	case KernelIntersectShadow:
		return "integratorIntersectShadow"
	case KernelShadeShadow:
		return "integratorShadeShadow"
	case KernelMegakernel:
		return "integratorMegakernel"
	default:
		panic(fmt.Sprintf("Unsupported kernel type: %d", k))
	}
}

// The kernels executed, in order, by one wavefront round.
var RoundKernels = []Kernel{
	KernelIntersectClosest,
	KernelShadeVolume,
	KernelShadeBackground,
	KernelShadeSurface,
	KernelIntersectSubsurface,
	KernelIntersectShadow,
	KernelShadeShadow,
}
