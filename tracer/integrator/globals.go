package integrator

import (
	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/types"
)

// Scene is the shading, lighting and intersection capability the
// integrator kernels depend on.
type Scene interface {
	Intersect(ray *scene.Ray) (scene.Intersection, bool)
	Occluded(ray *scene.Ray) bool

	ShaderSetup(sd *scene.ShaderData, ray *scene.Ray, isect *scene.Intersection)
	EvalSurface(sd *scene.ShaderData)
	HoldoutWeight(sd *scene.ShaderData) types.Vec3

	EvalBsdf(sd *scene.ShaderData, omegaIn types.Vec3) (types.Vec3, float32)
	SampleBsdf(sd *scene.ShaderData, randU, randV float32) scene.BsdfSample

	SampleLight(randU, randV float32, p types.Vec3) (scene.LightSample, bool)
	EvalLight(ls *scene.LightSample) types.Vec3
	LightPDF(sd *scene.ShaderData) float32

	Background(ray *scene.Ray) types.Vec3
	VolumeTransmittance(stack []scene.VolumeEntry, distance float32) types.Vec3
	SubsurfaceExit(sd *scene.ShaderData, radius, randU, randV float32) (scene.Ray, scene.Intersection, bool)
}

// Globals holds the read-only data shared by all kernel invocations of a
// queue, plus the render buffers the kernels accumulate into.
type Globals struct {
	Scene   Scene
	Camera  *scene.Camera
	Buffers *buffers.RenderBuffers
	Options Options

	invFullW float32
	invFullH float32
}

// Create kernel globals.
func NewGlobals(sc Scene, camera *scene.Camera, rb *buffers.RenderBuffers, opts Options) *Globals {
	params := rb.Params()
	return &Globals{
		Scene:    sc,
		Camera:   camera,
		Buffers:  rb,
		Options:  opts,
		invFullW: 1.0 / float32(params.FullWidth),
		invFullH: 1.0 / float32(params.FullHeight),
	}
}
