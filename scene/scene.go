package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/wavefront/types"
)

type Scene struct {
	Camera *Camera

	Materials  []*Material
	Primitives []*Primitive

	// Lights contains the point lights added via AddPointLight followed
	// by one sphere light for each emissive sphere. It is rebuilt by Prepare.
	Lights []*Light

	BgColor types.Vec3

	pointLights []*Light
	primLight   map[int32]int
}

func NewScene() *Scene {
	return &Scene{
		Materials:  make([]*Material, 0),
		Primitives: make([]*Primitive, 0),
		primLight:  make(map[int32]int),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *Material) error {
	for _, mat := range s.Materials {
		if mat == material {
			return fmt.Errorf("scene: material already added")
		}
	}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a primitive to the scene.
func (s *Scene) AddPrimitive(primitive *Primitive) error {
	for _, prim := range s.Primitives {
		if prim == primitive {
			return fmt.Errorf("scene: primitive already added")
		}
	}
	if primitive.Material == nil {
		return fmt.Errorf("scene: no material assigned to primitive")
	}
	for _, mat := range s.Materials {
		if mat == primitive.Material {
			s.Primitives = append(s.Primitives, primitive)
			return nil
		}
	}

	return fmt.Errorf("scene: primitive references unknown material; ensure that the material is added to the scene before adding the primitive")
}

// Add a point light to the scene.
func (s *Scene) AddPointLight(position, intensity types.Vec3) {
	s.pointLights = append(s.pointLights, &Light{
		Type:      PointLight,
		Position:  position,
		Intensity: intensity,
		Prim:      PrimNone,
	})
}

// Rebuild the light list. Must be called after the scene has been populated
// and before rendering.
func (s *Scene) Prepare() {
	s.Lights = append(make([]*Light, 0, len(s.pointLights)), s.pointLights...)
	s.primLight = make(map[int32]int)
	for idx, prim := range s.Primitives {
		if prim.Type != SpherePrimitive || prim.Material.Emissive.IsZero() {
			continue
		}
		s.primLight[int32(idx)] = len(s.Lights)
		s.Lights = append(s.Lights, &Light{
			Type: SphereLight,
			Prim: int32(idx),
		})
	}
}

// Find the closest intersection along the ray.
func (s *Scene) Intersect(ray *Ray) (Intersection, bool) {
	isect := NoIntersection()
	tmax := ray.T
	for idx, prim := range s.Primitives {
		t, u, v, hit := prim.intersect(ray, 0, tmax)
		if !hit {
			continue
		}
		tmax = t
		isect = Intersection{
			Prim:   int32(idx),
			Object: int32(idx),
			Type:   prim.Type,
			U:      u,
			V:      v,
			T:      t,
		}
	}
	return isect, isect.Prim != PrimNone
}

// Check whether any surface blocks the ray segment. Volume boundaries do
// not occlude.
func (s *Scene) Occluded(ray *Ray) bool {
	for _, prim := range s.Primitives {
		if prim.Material.Type == VolumeMaterial {
			continue
		}
		if _, _, _, hit := prim.intersect(ray, 0, ray.T); hit {
			return true
		}
	}
	return false
}

// Populate shader data for a ray hit.
func (s *Scene) ShaderSetup(sd *ShaderData, ray *Ray, isect *Intersection) {
	prim := s.Primitives[isect.Prim]
	*sd = ShaderData{
		P:          ray.At(isect.T),
		I:          ray.D.Neg(),
		U:          isect.U,
		V:          isect.V,
		Time:       ray.Time,
		RayLength:  isect.T,
		Prim:       isect.Prim,
		Object:     isect.Object,
		Type:       isect.Type,
		ObjectFlag: prim.Flags,
		material:   prim.Material,
	}

	sd.Ng = prim.normal(sd.P)
	if sd.Ng.Dot(sd.I) < 0 {
		sd.Ng = sd.Ng.Neg()
		sd.BackFacing = true
	}
	sd.N = sd.Ng
}

// Evaluate the surface shader and set the closure flags.
func (s *Scene) EvalSurface(sd *ShaderData) {
	mat := sd.material
	if mat == nil {
		return
	}

	if !mat.Emissive.IsZero() {
		sd.Flag |= SdEmission
		sd.Emission = mat.Emissive
		if _, isLight := s.primLight[sd.Prim]; isLight {
			sd.Flag |= SdUseMIS
		}
	}
	if mat.Holdout > 0 || sd.ObjectFlag&ObjectHoldoutMask != 0 {
		sd.Flag |= SdHoldout
	}

	switch mat.Type {
	case DiffuseMaterial:
		sd.Flag |= SdBsdf | SdBsdfHasEval
	case MirrorMaterial:
		sd.Flag |= SdBsdf
	case TransparentMaterial:
		sd.Flag |= SdBsdf | SdTransparent
	case VolumeMaterial:
		sd.Flag |= SdHasOnlyVolume
		sd.Absorption = mat.Absorption
	case SubsurfaceMaterial:
		sd.Flag |= SdBsdf | SdBsdfHasEval | SdBssrdf
	}
	sd.Albedo = mat.Diffuse
}

// Get the holdout weight of the evaluated surface.
func (s *Scene) HoldoutWeight(sd *ShaderData) types.Vec3 {
	if sd.ObjectFlag&ObjectHoldoutMask != 0 {
		return types.Splat(1)
	}
	if sd.material == nil {
		return types.Vec3{}
	}
	return types.Splat(clamp(sd.material.Holdout, 0, 1))
}

// Evaluate the BSDF for the given outgoing direction. Singular closures
// always evaluate to zero.
func (s *Scene) EvalBsdf(sd *ShaderData, omegaIn types.Vec3) (types.Vec3, float32) {
	if sd.Flag&SdBsdfHasEval == 0 {
		return types.Vec3{}, 0
	}
	cosNI := sd.N.Dot(omegaIn)
	if cosNI <= 0 {
		return types.Vec3{}, 0
	}
	pdf := cosNI / math.Pi
	return sd.Albedo.Mul(pdf), pdf
}

// Sample an outgoing direction from the BSDF.
func (s *Scene) SampleBsdf(sd *ShaderData, randU, randV float32) BsdfSample {
	if sd.material == nil || sd.Flag&SdBsdf == 0 {
		return BsdfSample{}
	}

	switch sd.material.Type {
	case MirrorMaterial:
		return BsdfSample{
			Eval:    sd.Albedo,
			OmegaIn: reflect(sd.I, sd.N),
			PDF:     1,
			Label:   LabelReflect | LabelSingular,
		}
	case TransparentMaterial:
		return BsdfSample{
			Eval:    sd.Albedo,
			OmegaIn: sd.I.Neg(),
			PDF:     1,
			Label:   LabelTransmit | LabelTransparent,
		}
	}

	omegaIn, pdf := sampleCosHemisphere(sd.N, randU, randV)
	if pdf <= 0 {
		return BsdfSample{}
	}
	return BsdfSample{
		Eval:    sd.Albedo.Mul(pdf),
		OmegaIn: omegaIn,
		PDF:     pdf,
		Label:   LabelReflect | LabelDiffuse,
	}
}

// Pick a light and a point on it as seen from p. Returns false if the scene
// has no lights or the sampled point faces away from p.
func (s *Scene) SampleLight(randU, randV float32, p types.Vec3) (LightSample, bool) {
	numLights := len(s.Lights)
	if numLights == 0 {
		return LightSample{}, false
	}

	// Reuse the remainder of randU after picking a light
	scaled := randU * float32(numLights)
	index := int(scaled)
	if index >= numLights {
		index = numLights - 1
	}
	randU = clamp(scaled-float32(index), 0, 1)
	selectPdf := 1.0 / float32(numLights)

	light := s.Lights[index]
	ls := LightSample{Light: index}
	switch light.Type {
	case PointLight:
		ls.P = light.Position
		ls.D = light.Position.Sub(p)
		ls.T = ls.D.Len()
		if ls.T <= 0 {
			return LightSample{}, false
		}
		ls.D = ls.D.Mul(1.0 / ls.T)
		ls.PDF = selectPdf
	case SphereLight:
		prim := s.Primitives[light.Prim]
		n := sampleUniformSphere(randU, randV)
		ls.P = prim.Origin.Add(n.Mul(prim.Dimensions[0]))
		ls.D = ls.P.Sub(p)
		ls.T = ls.D.Len()
		if ls.T <= 0 {
			return LightSample{}, false
		}
		ls.D = ls.D.Mul(1.0 / ls.T)
		cosL := -n.Dot(ls.D)
		if cosL <= 0 {
			return LightSample{}, false
		}
		ls.PDF = selectPdf * ls.T * ls.T / (prim.area() * cosL)
		ls.UseMIS = true
	}
	return ls, true
}

// Evaluate the radiance arriving from a light sample.
func (s *Scene) EvalLight(ls *LightSample) types.Vec3 {
	light := s.Lights[ls.Light]
	if light.Type == PointLight {
		return light.Intensity.Mul(1.0 / (ls.T * ls.T))
	}
	return s.Primitives[light.Prim].Material.Emissive
}

// Get the solid angle pdf of reaching the emissive hit described by sd via
// light sampling. Emitters that are not part of the light list return 0.
func (s *Scene) LightPDF(sd *ShaderData) float32 {
	lightIndex, isLight := s.primLight[sd.Prim]
	if !isLight || lightIndex >= len(s.Lights) {
		return 0
	}
	cosL := sd.Ng.Dot(sd.I)
	if cosL <= 0 {
		return 0
	}
	prim := s.Primitives[sd.Prim]
	t := sd.RayLength
	return t * t / (prim.area() * cosL * float32(len(s.Lights)))
}

// Get the background radiance for a ray that escaped the scene.
func (s *Scene) Background(ray *Ray) types.Vec3 {
	return s.BgColor
}

// Evaluate the transmittance of a homogeneous volume stack over a distance.
func (s *Scene) VolumeTransmittance(stack []VolumeEntry, distance float32) types.Vec3 {
	var sigma types.Vec3
	for _, entry := range stack {
		sigma = sigma.Add(entry.Absorption)
	}
	if sigma.IsZero() {
		return types.Splat(1)
	}
	return sigma.Mul(-distance).Exp()
}

// Probe for a subsurface exit point on the same object. A disk of the given
// radius around the entry point is sampled and a probe ray is cast back
// towards the surface along the inverted normal. The probe ray is returned
// together with the exit intersection.
func (s *Scene) SubsurfaceExit(sd *ShaderData, radius, randU, randV float32) (Ray, Intersection, bool) {
	if sd.Prim == PrimNone || radius <= 0 {
		return Ray{}, NoIntersection(), false
	}
	x, y := concentricDisk(randU, randV)
	tx, ty := makeOrthonormals(sd.N)
	origin := sd.P.Add(tx.Mul(x * radius)).Add(ty.Mul(y * radius)).Add(sd.N.Mul(radius))
	probe := Ray{P: origin, D: sd.N.Neg(), T: 2 * radius, Time: sd.Time}

	prim := s.Primitives[sd.Prim]
	t, u, v, hit := prim.intersect(&probe, 0, probe.T)
	if !hit {
		return probe, NoIntersection(), false
	}
	return probe, Intersection{
		Prim:   sd.Prim,
		Object: sd.Object,
		Type:   prim.Type,
		U:      u,
		V:      v,
		T:      t,
	}, true
}
