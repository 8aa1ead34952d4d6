package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/wavefront/types"
)

// Stores the ray directions at the four corners of the camera frustrum. Per
// pixel rays are generated by interpolating the corner rays.
type Frustrum [4]types.Vec4

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Pending rotation in radians; consumed by Update.
	Pitch float32
	Yaw   float32

	Frustrum Frustrum

	// Vertical camera FOV in degrees.
	FOV float32

	// Adjust the frustrum so that Y is inverted
	InvertY bool

	aspect float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		aspect:   1,
	}
}

// Setup camera projection for the given frame aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.aspect = aspect
	c.Update()
}

// Apply any pending pitch/yaw rotation and rebuild the frustrum.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up).Normalize()
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	// Update direction
	dir = orientQuat.Rotate(dir).Normalize()
	c.LookAt = c.Position.Add(dir.Mul(1.0))
	c.Pitch, c.Yaw = 0, 0

	c.updateFrustrum(dir)
}

// Generate a ray vector for each corner of the camera frustrum using the
// camera basis and the tangent of the half FOV.
func (c *Camera) updateFrustrum(dir types.Vec3) {
	right := dir.Cross(c.Up).Normalize()
	up := right.Cross(dir)

	var yUp float32 = 1.0
	if c.InvertY {
		yUp = -1.0
	}

	h := float32(math.Tan(float64(c.FOV) * math.Pi / 360.0))
	w := h * c.aspect
	vUp := up.Mul(h * yUp)
	vRight := right.Mul(w)

	c.Frustrum[0] = dir.Add(vUp).Sub(vRight).Vec4(0)
	c.Frustrum[1] = dir.Add(vUp).Add(vRight).Vec4(0)
	c.Frustrum[2] = dir.Sub(vUp).Sub(vRight).Vec4(0)
	c.Frustrum[3] = dir.Sub(vUp).Add(vRight).Vec4(0)
}

// Generate a primary ray through normalized film coordinates; (0, 0) is the
// top-left corner of the frame.
func (c *Camera) GenerateRay(u, v float32) Ray {
	top := types.Lerp(c.Frustrum[0].Vec3(), c.Frustrum[1].Vec3(), u)
	bottom := types.Lerp(c.Frustrum[2].Vec3(), c.Frustrum[3].Vec3(), u)
	return Ray{
		P: c.Position,
		D: types.Lerp(top, bottom, v).Normalize(),
		T: RayInfinity,
	}
}
