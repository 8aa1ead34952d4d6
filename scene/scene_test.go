package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/wavefront/types"
)

func approxEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestAddPrimitive(t *testing.T) {
	sc := NewScene()
	mat := &Material{Type: DiffuseMaterial}
	sphere := NewSphere(types.XYZ(0, 0, 0), 1, mat)

	if err := sc.AddPrimitive(sphere); err == nil {
		t.Fatal("expected an error when adding a primitive with an unknown material")
	}
	if err := sc.AddMaterial(mat); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddMaterial(mat); err == nil {
		t.Fatal("expected an error when adding a duplicate material")
	}
	if err := sc.AddPrimitive(sphere); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddPrimitive(sphere); err == nil {
		t.Fatal("expected an error when adding a duplicate primitive")
	}
}

func TestIntersect(t *testing.T) {
	sc := NewScene()
	mat := &Material{Type: DiffuseMaterial, Diffuse: types.Splat(0.5)}
	sc.AddMaterial(mat)
	sc.AddPrimitive(NewPlane(types.XYZ(0, 1, 0), -1, mat))
	sc.AddPrimitive(NewSphere(types.XYZ(0, 0, -5), 1, mat))

	type spec struct {
		ray      Ray
		expHit   bool
		expPrim  int32
		expT     float32
		expNgDir types.Vec3
	}

	specs := []spec{
		{Ray{P: types.XYZ(0, 0, 0), D: types.XYZ(0, 0, -1), T: RayInfinity}, true, 1, 4, types.XYZ(0, 0, 1)},
		{Ray{P: types.XYZ(0, 0, 0), D: types.XYZ(0, -1, 0), T: RayInfinity}, true, 0, 1, types.XYZ(0, 1, 0)},
		{Ray{P: types.XYZ(0, 0, 0), D: types.XYZ(0, 1, 0), T: RayInfinity}, false, PrimNone, 0, types.Vec3{}},
		{Ray{P: types.XYZ(0, 0, 0), D: types.XYZ(0, 0, -1), T: 3}, false, PrimNone, 0, types.Vec3{}},
	}

	for specIndex, s := range specs {
		isect, hit := sc.Intersect(&s.ray)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", specIndex, s.expHit, hit)
		}
		if isect.Prim != s.expPrim {
			t.Fatalf("[spec %d] expected prim %d; got %d", specIndex, s.expPrim, isect.Prim)
		}
		if !hit {
			continue
		}
		if !approxEqual(isect.T, s.expT, 1e-4) {
			t.Fatalf("[spec %d] expected t %f; got %f", specIndex, s.expT, isect.T)
		}

		var sd ShaderData
		sc.ShaderSetup(&sd, &s.ray, &isect)
		if sd.Ng.Sub(s.expNgDir).Len() > 1e-4 {
			t.Fatalf("[spec %d] expected Ng %v; got %v", specIndex, s.expNgDir, sd.Ng)
		}
	}
}

func TestOccludedSkipsVolumes(t *testing.T) {
	sc := NewScene()
	vol := &Material{Type: VolumeMaterial, Absorption: types.Splat(1)}
	sc.AddMaterial(vol)
	sc.AddPrimitive(NewSphere(types.XYZ(0, 0, -5), 1, vol))

	ray := Ray{P: types.XYZ(0, 0, 0), D: types.XYZ(0, 0, -1), T: 10}
	if sc.Occluded(&ray) {
		t.Fatal("expected volume boundaries not to occlude shadow rays")
	}

	solid := &Material{Type: DiffuseMaterial}
	sc.AddMaterial(solid)
	sc.AddPrimitive(NewSphere(types.XYZ(0, 0, -8), 1, solid))
	if !sc.Occluded(&ray) {
		t.Fatal("expected ray to be occluded")
	}
	ray.T = 6
	if sc.Occluded(&ray) {
		t.Fatal("expected occluder past the segment end to be ignored")
	}
}

func TestSphereLightPDFMatchesSampling(t *testing.T) {
	sc := NewScene()
	light := &Material{Type: DiffuseMaterial, Emissive: types.Splat(10)}
	sc.AddMaterial(light)
	sc.AddPrimitive(NewSphere(types.XYZ(0, 3, 0), 0.5, light))
	sc.AddPointLight(types.XYZ(5, 5, 5), types.Splat(1))
	sc.Prepare()

	if len(sc.Lights) != 2 {
		t.Fatalf("expected 2 lights; got %d", len(sc.Lights))
	}

	p := types.XYZ(0, 0, 0)
	for _, rand := range [][2]float32{{0.75, 0.1}, {0.8, 0.9}, {0.99, 0.5}} {
		ls, ok := sc.SampleLight(rand[0], rand[1], p)
		if !ok {
			continue
		}
		if ls.Light != 1 || !ls.UseMIS {
			t.Fatalf("expected sphere light sample with MIS; got %+v", ls)
		}

		ray := Ray{P: p, D: ls.D, T: RayInfinity}
		isect, hit := sc.Intersect(&ray)
		if !hit {
			t.Fatalf("expected ray towards light sample to hit the light")
		}
		var sd ShaderData
		sc.ShaderSetup(&sd, &ray, &isect)
		sc.EvalSurface(&sd)
		if sd.Flag&SdUseMIS == 0 || sd.Flag&SdEmission == 0 {
			t.Fatalf("expected emissive MIS flags; got %b", sd.Flag)
		}
		if !approxEqual(sc.LightPDF(&sd), ls.PDF, ls.PDF*1e-3) {
			t.Fatalf("expected light pdf %f; got %f", ls.PDF, sc.LightPDF(&sd))
		}
	}

	ls, ok := sc.SampleLight(0.1, 0.5, p)
	if !ok || ls.Light != 0 || ls.UseMIS {
		t.Fatalf("expected point light sample without MIS; got %+v", ls)
	}
	expRadiance := 1.0 / (ls.T * ls.T)
	if !approxEqual(sc.EvalLight(&ls)[0], expRadiance, 1e-6) {
		t.Fatalf("expected point light radiance %f; got %f", expRadiance, sc.EvalLight(&ls)[0])
	}
}

func TestSampleBsdf(t *testing.T) {
	sc := NewScene()
	type spec struct {
		mat      *Material
		expLabel Label
		expPdf   float32
	}
	specs := []spec{
		{&Material{Type: MirrorMaterial, Diffuse: types.Splat(1)}, LabelReflect | LabelSingular, 1},
		{&Material{Type: TransparentMaterial, Diffuse: types.Splat(1)}, LabelTransmit | LabelTransparent, 1},
		{&Material{Type: VolumeMaterial}, LabelNone, 0},
	}

	ray := Ray{P: types.XYZ(0, 0, 0), D: types.XYZ(0, -1, 0), T: RayInfinity}
	for specIndex, s := range specs {
		sc.AddMaterial(s.mat)
		sc.AddPrimitive(NewPlane(types.XYZ(0, 1, 0), float32(-1-specIndex), s.mat))
		isect := Intersection{Prim: int32(specIndex), Object: int32(specIndex), Type: PlanePrimitive, T: float32(1 + specIndex)}

		var sd ShaderData
		sc.ShaderSetup(&sd, &ray, &isect)
		sc.EvalSurface(&sd)
		bs := sc.SampleBsdf(&sd, 0.3, 0.6)
		if bs.Label != s.expLabel || bs.PDF != s.expPdf {
			t.Fatalf("[spec %d] expected label %b and pdf %f; got %b and %f", specIndex, s.expLabel, s.expPdf, bs.Label, bs.PDF)
		}
	}

	// Diffuse samples must agree with EvalBsdf
	diffuse := &Material{Type: DiffuseMaterial, Diffuse: types.Splat(0.5)}
	sc.AddMaterial(diffuse)
	sc.AddPrimitive(NewPlane(types.XYZ(0, 1, 0), -10, diffuse))
	isect := Intersection{Prim: int32(len(specs)), Object: int32(len(specs)), Type: PlanePrimitive, T: 10}
	var sd ShaderData
	sc.ShaderSetup(&sd, &ray, &isect)
	sc.EvalSurface(&sd)
	bs := sc.SampleBsdf(&sd, 0.3, 0.6)
	eval, pdf := sc.EvalBsdf(&sd, bs.OmegaIn)
	if !approxEqual(pdf, bs.PDF, 1e-4) || !approxEqual(eval[0], bs.Eval[0], 1e-4) {
		t.Fatalf("expected eval/pdf (%f, %f); got (%f, %f)", bs.Eval[0], bs.PDF, eval[0], pdf)
	}
}

func TestVolumeTransmittance(t *testing.T) {
	sc := NewScene()
	tr := sc.VolumeTransmittance(nil, 100)
	if tr != types.Splat(1) {
		t.Fatalf("expected unit transmittance for an empty stack; got %v", tr)
	}

	stack := []VolumeEntry{{Object: 0, Absorption: types.XYZ(1, 0, 0)}, {Object: 1, Absorption: types.XYZ(1, 0.5, 0)}}
	tr = sc.VolumeTransmittance(stack, 2)
	exp := types.XYZ(float32(math.Exp(-4)), float32(math.Exp(-1)), 1)
	if tr.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected transmittance %v; got %v", exp, tr)
	}
}

func TestSubsurfaceExit(t *testing.T) {
	sc := NewScene()
	mat := &Material{Type: SubsurfaceMaterial, Diffuse: types.Splat(0.8)}
	sc.AddMaterial(mat)
	sc.AddPrimitive(NewSphere(types.XYZ(0, 0, 0), 1, mat))

	ray := Ray{P: types.XYZ(0, 0, 5), D: types.XYZ(0, 0, -1), T: RayInfinity}
	isect, hit := sc.Intersect(&ray)
	if !hit {
		t.Fatal("expected hit")
	}
	var sd ShaderData
	sc.ShaderSetup(&sd, &ray, &isect)
	sc.EvalSurface(&sd)
	if sd.Flag&SdBssrdf == 0 {
		t.Fatal("expected bssrdf flag")
	}

	probe, exit, ok := sc.SubsurfaceExit(&sd, 0.1, 0.5, 0.5)
	if !ok {
		t.Fatal("expected probe to find an exit point")
	}
	exitP := probe.At(exit.T)
	if d := exitP.Sub(sd.P).Len(); d > 0.15 {
		t.Fatalf("expected exit point within the probe radius; got distance %f", d)
	}
	if r := exitP.Len(); !approxEqual(r, 1, 1e-3) {
		t.Fatalf("expected exit point on the sphere surface; got radius %f", r)
	}
}

func TestCameraGenerateRay(t *testing.T) {
	cam := NewCamera(90)
	cam.SetupProjection(1)

	center := cam.GenerateRay(0.5, 0.5)
	if center.D.Sub(types.XYZ(0, 0, -1)).Len() > 1e-5 {
		t.Fatalf("expected center ray to point along -Z; got %v", center.D)
	}

	topLeft := cam.GenerateRay(0, 0)
	exp := types.XYZ(-1, 1, -1).Normalize()
	if topLeft.D.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected top-left ray %v; got %v", exp, topLeft.D)
	}

	cam.InvertY = true
	cam.Update()
	topLeft = cam.GenerateRay(0, 0)
	exp = types.XYZ(-1, -1, -1).Normalize()
	if topLeft.D.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected inverted top-left ray %v; got %v", exp, topLeft.D)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		sc, err := Preset(name)
		if err != nil {
			t.Fatalf("preset %q: %v", name, err)
		}
		if sc.Camera == nil {
			t.Fatalf("preset %q: missing camera", name)
		}
		if sc.Stats() == "" {
			t.Fatalf("preset %q: empty stats", name)
		}
	}

	if _, err := Preset("no-such-scene"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset; got %v", err)
	}
}
