package scene

import "github.com/achilleasa/wavefront/types"

type MaterialType uint8

const (
	DiffuseMaterial MaterialType = iota
	MirrorMaterial
	TransparentMaterial
	VolumeMaterial
	SubsurfaceMaterial
)

// Implements Stringer.
func (mt MaterialType) String() string {
	switch mt {
	case DiffuseMaterial:
		return "diffuse"
	case MirrorMaterial:
		return "mirror"
	case TransparentMaterial:
		return "transparent"
	case VolumeMaterial:
		return "volume"
	case SubsurfaceMaterial:
		return "subsurface"
	}
	return "unknown"
}

// Defines a scene material.
type Material struct {
	// The type of the material.
	Type MaterialType

	// Diffuse color; also used as the mirror/transparency tint.
	Diffuse types.Vec3

	// Emissive color (if material is light).
	Emissive types.Vec3

	// Holdout weight in [0, 1]. A weight of 1 makes the surface a full holdout.
	Holdout float32

	// Absorption coefficient for volume materials.
	Absorption types.Vec3
}
