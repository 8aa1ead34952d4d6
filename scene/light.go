package scene

import "github.com/achilleasa/wavefront/types"

type LightType uint8

const (
	PointLight LightType = iota
	SphereLight
)

// Implements Stringer.
func (lt LightType) String() string {
	switch lt {
	case PointLight:
		return "point"
	case SphereLight:
		return "sphere"
	}
	return "unknown"
}

// A light that can be sampled for next event estimation.
type Light struct {
	Type LightType

	// Point light position and radiant intensity.
	Position  types.Vec3
	Intensity types.Vec3

	// Index of the emissive sphere primitive backing a sphere light.
	Prim int32
}
