package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/achilleasa/wavefront/types"
)

var ErrUnknownPreset = errors.New("scene: unknown preset")

var presets = map[string]func() *Scene{
	"empty":   emptyPreset,
	"spheres": spheresPreset,
	"cornell": cornellPreset,
	"holdout": holdoutPreset,
}

// Get the names of the built-in scenes.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build one of the built-in scenes. The returned scene is prepared and ready
// for rendering; callers still need to setup the camera projection.
func Preset(name string) (*Scene, error) {
	builder, exists := presets[name]
	if !exists {
		return nil, fmt.Errorf("%w %q; available presets: %v", ErrUnknownPreset, name, PresetNames())
	}
	sc := builder()
	sc.Prepare()
	return sc, nil
}

// Add a primitive together with its material; materials may be shared
// between primitives.
func mustAdd(sc *Scene, prim *Primitive) {
	known := false
	for _, mat := range sc.Materials {
		if mat == prim.Material {
			known = true
			break
		}
	}
	if !known {
		sc.Materials = append(sc.Materials, prim.Material)
	}
	if err := sc.AddPrimitive(prim); err != nil {
		panic(err)
	}
}

func lookingAt(position, target types.Vec3, fov float32) *Camera {
	cam := NewCamera(fov)
	cam.Position = position
	cam.LookAt = target
	return cam
}

func emptyPreset() *Scene {
	sc := NewScene()
	sc.BgColor = types.XYZ(0.5, 0.7, 1.0)
	sc.SetCamera(NewCamera(45))
	return sc
}

func spheresPreset() *Scene {
	sc := NewScene()
	sc.BgColor = types.XYZ(0.4, 0.5, 0.7)
	sc.SetCamera(lookingAt(types.XYZ(0, 1, 5), types.XYZ(0, 0.5, 0), 45))

	ground := &Material{Type: DiffuseMaterial, Diffuse: types.XYZ(0.6, 0.6, 0.6)}
	mustAdd(sc, NewPlane(types.XYZ(0, 1, 0), 0, ground))
	mustAdd(sc, NewSphere(types.XYZ(-0.8, 0.5, 0), 0.5, &Material{Type: DiffuseMaterial, Diffuse: types.XYZ(0.8, 0.2, 0.2)}))
	mustAdd(sc, NewSphere(types.XYZ(0.8, 0.5, 0), 0.5, &Material{Type: MirrorMaterial, Diffuse: types.XYZ(0.9, 0.9, 0.9)}))
	mustAdd(sc, NewSphere(types.XYZ(0, 0.35, 1), 0.35, &Material{Type: TransparentMaterial, Diffuse: types.XYZ(0.9, 0.9, 0.6)}))
	sc.AddPointLight(types.XYZ(2, 4, 3), types.Splat(30))
	return sc
}

func cornellPreset() *Scene {
	sc := NewScene()
	sc.SetCamera(lookingAt(types.XYZ(0, 1, 3.4), types.XYZ(0, 1, 0), 45))

	white := &Material{Type: DiffuseMaterial, Diffuse: types.XYZ(0.73, 0.73, 0.73)}
	mustAdd(sc, NewPlane(types.XYZ(0, 1, 0), 0, white))
	mustAdd(sc, NewPlane(types.XYZ(0, -1, 0), -2, white))
	mustAdd(sc, NewPlane(types.XYZ(0, 0, 1), -1, white))
	mustAdd(sc, NewPlane(types.XYZ(1, 0, 0), -1, &Material{Type: DiffuseMaterial, Diffuse: types.XYZ(0.65, 0.05, 0.05)}))
	mustAdd(sc, NewPlane(types.XYZ(-1, 0, 0), -1, &Material{Type: DiffuseMaterial, Diffuse: types.XYZ(0.12, 0.45, 0.15)}))

	mustAdd(sc, NewSphere(types.XYZ(0, 1.85, 0), 0.12, &Material{Type: DiffuseMaterial, Emissive: types.Splat(40)}))
	mustAdd(sc, NewSphere(types.XYZ(-0.45, 0.35, -0.3), 0.35, &Material{Type: SubsurfaceMaterial, Diffuse: types.XYZ(0.9, 0.8, 0.7)}))
	mustAdd(sc, NewSphere(types.XYZ(0.45, 0.35, 0.2), 0.35, &Material{Type: MirrorMaterial, Diffuse: types.XYZ(0.95, 0.95, 0.95)}))
	mustAdd(sc, NewSphere(types.XYZ(0, 1, 0), 0.3, &Material{Type: VolumeMaterial, Absorption: types.XYZ(0.8, 0.4, 0.2)}))
	return sc
}

func holdoutPreset() *Scene {
	sc := NewScene()
	sc.BgColor = types.XYZ(0.2, 0.2, 0.2)
	sc.SetCamera(lookingAt(types.XYZ(0, 1, 4), types.XYZ(0, 0.5, 0), 45))

	mustAdd(sc, NewPlane(types.XYZ(0, 1, 0), 0, &Material{Type: DiffuseMaterial, Diffuse: types.XYZ(0.5, 0.5, 0.5)}))
	mustAdd(sc, NewSphere(types.XYZ(-0.6, 0.5, 0), 0.5, &Material{Type: DiffuseMaterial, Holdout: 1}))
	mustAdd(sc, NewSphere(types.XYZ(0.6, 0.5, 0), 0.5, &Material{Type: DiffuseMaterial, Diffuse: types.XYZ(0.2, 0.4, 0.8), Holdout: 0.5}))
	sc.AddPointLight(types.XYZ(0, 4, 2), types.Splat(25))
	return sc
}
