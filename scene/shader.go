package scene

import "github.com/achilleasa/wavefront/types"

type ShaderFlag uint32

// Shader data flags describing which closures the evaluated surface carries.
const (
	SdEmission ShaderFlag = 1 << iota
	SdBsdf
	SdBsdfHasEval
	SdBssrdf
	SdHoldout
	SdUseMIS
	SdHasOnlyVolume
	SdTransparent
)

type ObjectFlag uint32

// Per-object flags.
const (
	ObjectHoldoutMask ObjectFlag = 1 << iota
)

type Label uint32

// BSDF sample labels.
const (
	LabelNone     Label = 0
	LabelTransmit Label = 1 << iota
	LabelReflect
	LabelDiffuse
	LabelGlossy
	LabelSingular
	LabelTransparent
)

// Local surface-interaction record.
type ShaderData struct {
	// Hit position, shading normal and geometric normal. Both normals
	// face the side the ray arrived from.
	P  types.Vec3
	N  types.Vec3
	Ng types.Vec3

	// Direction towards the ray origin.
	I types.Vec3

	U, V      float32
	Time      float32
	RayLength float32

	Prim   int32
	Object int32
	Type   PrimitiveType

	Flag       ShaderFlag
	ObjectFlag ObjectFlag
	BackFacing bool

	// Populated by surface evaluation.
	Emission   types.Vec3
	Albedo     types.Vec3
	Absorption types.Vec3

	material *Material
}

// Result of sampling the surface BSDF.
type BsdfSample struct {
	Eval    types.Vec3
	OmegaIn types.Vec3
	PDF     float32
	Label   Label
}

// Result of sampling a point on a light.
type LightSample struct {
	P types.Vec3
	D types.Vec3
	T float32

	// Solid angle density including the light selection probability.
	PDF float32

	Light  int
	UseMIS bool
}

// An entry in a path's volume stack.
type VolumeEntry struct {
	Object     int32
	Absorption types.Vec3
}
