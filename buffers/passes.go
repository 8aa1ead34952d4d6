package buffers

import "fmt"

type PassType uint8

// The list of render passes. The buffer stores enabled passes in this order.
const (
	PassCombined PassType = iota
	// light passes
	PassEmission
	PassBackground
	PassDirect
	PassIndirect
	// denoising passes
	PassDenoisingAlbedo
	PassDenoisingNormal
	PassDenoised
	//
	numPassTypes
)

// Implements Stringer.
func (pt PassType) String() string {
	switch pt {
	case PassCombined:
		return "combined"
	case PassEmission:
		return "emission"
	case PassBackground:
		return "background"
	case PassDirect:
		return "direct"
	case PassIndirect:
		return "indirect"
	case PassDenoisingAlbedo:
		return "denoising_albedo"
	case PassDenoisingNormal:
		return "denoising_normal"
	case PassDenoised:
		return "denoised"
	default:
		panic(fmt.Sprintf("Unsupported pass type: %d", pt))
	}
}

// Number of float components used by the pass. The combined pass stores
// the transparency accumulator in its fourth component.
func (pt PassType) Components() int {
	if pt == PassCombined {
		return 4
	}
	return 3
}

// The flag bit for this pass.
func (pt PassType) Flag() PassFlag {
	return PassFlag(1 << pt)
}

// A bitset of enabled passes.
type PassFlag uint16

const (
	LightPasses     = PassFlag(1<<PassEmission | 1<<PassBackground | 1<<PassDirect | 1<<PassIndirect)
	DenoisingPasses = PassFlag(1<<PassDenoisingAlbedo | 1<<PassDenoisingNormal | 1<<PassDenoised)
	AllPasses       = PassFlag(1<<PassCombined) | LightPasses | DenoisingPasses
)

// Check whether a pass is enabled. The combined pass is always enabled.
func (pf PassFlag) Has(pt PassType) bool {
	return pt == PassCombined || pf&pt.Flag() != 0
}

// List the enabled passes in storage order.
func (pf PassFlag) List() []PassType {
	out := make([]PassType, 0, numPassTypes)
	for pt := PassCombined; pt < numPassTypes; pt++ {
		if pf.Has(pt) {
			out = append(out, pt)
		}
	}
	return out
}
