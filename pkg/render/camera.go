package render

import (
	"math"

	"github.com/taigrr/vib4d/pkg/math4d"
)

// Camera orbits a target and places projected 3D points on screen.
type Camera struct {
	Target   math4d.Vec3
	Distance float64

	// Orbit angles in radians
	Yaw   float64
	Pitch float64

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near        float64
	Far         float64

	viewMatrix     math4d.Mat4
	projMatrix     math4d.Mat4
	viewProjMatrix math4d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera looks at the origin from six units down +Z.
func NewCamera() *Camera {
	return &Camera{
		Distance:    6,
		FOV:         math.Pi / 4,
		AspectRatio: 1,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// Position returns the eye position.
func (c *Camera) Position() math4d.Vec3 {
	cp := math.Cos(c.Pitch)
	return c.Target.Add(math4d.V3(
		c.Distance*math.Sin(c.Yaw)*cp,
		c.Distance*math.Sin(c.Pitch),
		c.Distance*math.Cos(c.Yaw)*cp,
	))
}

// Orbit changes yaw and pitch. Pitch stops short of the poles.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = min(max(c.Pitch+deltaPitch, -maxPitch), maxPitch)
	c.viewDirty = true
}

// Zoom scales the orbit distance, keeping it outside the near plane.
func (c *Camera) Zoom(factor float64) {
	c.Distance = max(c.Distance*factor, c.Near*2)
	c.viewDirty = true
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math4d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math4d.LookAt(c.Position(), c.Target, math4d.Up())
		c.viewDirty = false
		c.vpDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective matrix.
func (c *Camera) ProjectionMatrix() math4d.Mat4 {
	if c.projDirty {
		c.projMatrix = math4d.PerspectiveMatrix(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.vpDirty = true
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math4d.Mat4 {
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()
	if c.vpDirty {
		c.viewProjMatrix = proj.Mul(view)
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// ScreenPoint maps a point to pixel coordinates without bounds checks. ok
// is false only behind the camera.
func (c *Camera) ScreenPoint(p math4d.Vec3, width, height int) (x, y, depth float64, ok bool) {
	clip := c.ViewProjectionMatrix().MulPoint3(p)
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W
	x = (nx + 1) * 0.5 * float64(width)
	y = (1 - ny) * 0.5 * float64(height)
	return x, y, nz, true
}

// WorldToScreen maps a point to pixel coordinates. visible is false behind
// the camera or outside the view volume.
func (c *Camera) WorldToScreen(p math4d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	x, y, depth, ok := c.ScreenPoint(p, width, height)
	if !ok || x < 0 || x > float64(width) || y < 0 || y > float64(height) || depth < -1 || depth > 1 {
		return 0, 0, 0, false
	}
	return x, y, depth, true
}
