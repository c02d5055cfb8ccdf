package render

import (
	"math"

	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/scene"
)

// Wireframe draws projected 4D geometry as lines.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// DrawLine3D draws a line between two projected points. Both ends must be
// in front of the camera; lines running far off screen are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math4d.Vec3, c Color) {
	x1, y1, ok1 := w.screen(p1)
	x2, y2, ok2 := w.screen(p2)
	if !ok1 || !ok2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), c)
}

func (w *Wireframe) screen(p math4d.Vec3) (x, y float64, ok bool) {
	x, y, _, ok = w.camera.ScreenPoint(p, w.fb.Width, w.fb.Height)
	limit := 4 * float64(max(w.fb.Width, w.fb.Height))
	return x, y, ok && math.Abs(x) < limit && math.Abs(y) < limit
}

// DrawFrame draws every edge of f and returns how many it handed to the
// framebuffer. Edges take the scene hue, brighter where the rotated
// geometry sits nearer in w. A mesh without edges is drawn as points.
func (w *Wireframe) DrawFrame(f *scene.Frame) int {
	p := f.Params
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range f.Rotated {
		lo, hi = min(lo, v.W), max(hi, v.W)
	}
	span := hi - lo
	value := min(1, 0.4+p.Intensity)
	shade := func(pw float64) Color {
		depth := 0.5
		if span > 1e-9 {
			depth = 1 - (pw-lo)/span
		}
		return lattice.RGBA(lattice.Shade(p.Hue, p.Saturation, value, 0.3+0.7*depth))
	}

	if len(f.Mesh.Edges) == 0 {
		for i, pt := range f.Points {
			w.DrawPoint(pt, 0.03, shade(f.Rotated[i].W))
		}
		return len(f.Points)
	}
	for _, e := range f.Mesh.Edges {
		a, b := e[0], e[1]
		w.DrawLine3D(f.Points[a], f.Points[b], shade((f.Rotated[a].W+f.Rotated[b].W)/2))
	}
	return len(f.Mesh.Edges)
}

// DrawAxes draws the x, y and z axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	var origin math4d.Vec3
	w.DrawLine3D(origin, math4d.V3(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math4d.V3(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math4d.V3(0, 0, length), ColorBlue)
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math4d.Vec3, size float64, c Color) {
	h := size / 2
	w.DrawLine3D(math4d.V3(pos.X-h, pos.Y, pos.Z), math4d.V3(pos.X+h, pos.Y, pos.Z), c)
	w.DrawLine3D(math4d.V3(pos.X, pos.Y-h, pos.Z), math4d.V3(pos.X, pos.Y+h, pos.Z), c)
	w.DrawLine3D(math4d.V3(pos.X, pos.Y, pos.Z-h), math4d.V3(pos.X, pos.Y, pos.Z+h), c)
}
