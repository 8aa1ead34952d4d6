package integrator

import (
	"github.com/achilleasa/wavefront/scene"
	"github.com/achilleasa/wavefront/tracer/device"
	"github.com/achilleasa/wavefront/types"
)

type PathFlag uint32

// Path state flags.
const (
	PathRayCamera PathFlag = 1 << iota
	PathRayReflect
	PathRayTransmit
	PathRayDiffuse
	PathRayGlossy
	PathRaySingular
	PathRayTransparent
	PathRayShadow
	PathRayTransparentBackground
	PathRayMISSkip
	PathRaySubsurface
	PathRayDenoisingFeatures
)

// Flags describing the ray type; reset on every non-transparent bounce.
const pathRayAllVisibility = PathRayCamera | PathRayReflect | PathRayTransmit | PathRayDiffuse | PathRayGlossy | PathRaySingular | PathRayTransparent | PathRayShadow

const (
	// Max number of nested volumes a path can be inside of.
	MaxVolumeStackSize = 4

	// Max number of volume-only surfaces a path may cross.
	maxVolumeBounds = 1024
)

// A fixed-size stack of the volumes a path is currently inside of.
type VolumeStack struct {
	entries [MaxVolumeStackSize]scene.VolumeEntry
	count   int
}

// Get the active stack entries.
func (vs *VolumeStack) Entries() []scene.VolumeEntry {
	return vs.entries[:vs.count]
}

func (vs *VolumeStack) Len() int {
	return vs.count
}

// Enter the volume of an object or exit it if the path is already inside.
// Entries beyond the stack capacity are dropped.
func (vs *VolumeStack) EnterExit(entry scene.VolumeEntry) {
	for i := 0; i < vs.count; i++ {
		if vs.entries[i].Object != entry.Object {
			continue
		}
		copy(vs.entries[i:vs.count], vs.entries[i+1:vs.count])
		vs.count--
		vs.entries[vs.count] = scene.VolumeEntry{}
		return
	}
	if vs.count == MaxVolumeStackSize {
		return
	}
	vs.entries[vs.count] = entry
	vs.count++
}

// The state of a light path in flight.
type PathState struct {
	Ray   scene.Ray
	Isect scene.Intersection

	Throughput types.Vec3

	Bounce             int
	TransparentBounce  int
	VolumeBoundsBounce int

	// Pdf of the last BSDF sample and the smallest pdf along the path.
	RayPDF    float32
	MinRayPDF float32

	Flag   PathFlag
	Volume VolumeStack

	// Render buffer index of the pixel this path contributes to.
	PixelIndex int
	Sample     int

	RNGHash   uint32
	RNGOffset uint32

	// The kernel this path is queued for; KernelNone once terminated.
	Next device.Kernel
}

// Check whether the path has terminated.
func (ps *PathState) IsTerminated() bool {
	return ps.Next == device.KernelNone
}

func (ps *PathState) terminate() {
	ps.Next = device.KernelNone
}

// The state of a shadow ray spawned by a main path. A shadow path is
// scheduled independently of its parent and only references it by index.
type ShadowPathState struct {
	Parent int

	Ray scene.Ray

	// Weighted light contribution delivered if the ray is not occluded.
	L types.Vec3

	// Flags and bounce count of the parent at the time of spawning.
	Flag   PathFlag
	Bounce int
	Volume VolumeStack

	PixelIndex int

	Next device.Kernel
}

// Check whether the shadow path has terminated.
func (sp *ShadowPathState) IsTerminated() bool {
	return sp.Next == device.KernelNone
}

func (sp *ShadowPathState) terminate() {
	sp.Next = device.KernelNone
}
