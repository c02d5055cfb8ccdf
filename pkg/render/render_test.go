package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/scene"
	"github.com/taigrr/vib4d/pkg/system"
)

func countPixels(fb *Framebuffer, bg Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != bg {
			n++
		}
	}
	return n
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 0, 0, 9, 0, 10},
		{"vertical", 3, 1, 3, 6, 6},
		{"diagonal", 0, 0, 7, 7, 8},
		{"single point", 4, 4, 4, 4, 1},
		{"clipped", -5, 2, 4, 2, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(10, 10)
			fb.DrawLine(tc.x0, tc.y0, tc.x1, tc.y1, ColorWhite)
			if got := countPixels(fb, Color{}); got != tc.want {
				t.Errorf("lit %d pixels, want %d", got, tc.want)
			}
		})
	}
}

func TestResizeReusesBuffer(t *testing.T) {
	fb := NewFramebuffer(20, 10)
	first := &fb.Pixels[0]
	fb.Resize(10, 10)
	if fb.Width != 10 || len(fb.Pixels) != 100 || &fb.Pixels[0] != first {
		t.Error("shrinking Resize reallocated")
	}
	fb.Resize(40, 40)
	if len(fb.Pixels) != 1600 {
		t.Errorf("len = %d", len(fb.Pixels))
	}
}

func TestCameraCentresTarget(t *testing.T) {
	c := NewCamera()
	c.SetAspectRatio(2)
	x, y, depth, ok := c.WorldToScreen(math4d.V3(0, 0, 0), 80, 40)
	if !ok {
		t.Fatal("target not visible")
	}
	if math.Abs(x-40) > 1e-9 || math.Abs(y-20) > 1e-9 {
		t.Errorf("target at (%v, %v)", x, y)
	}
	if depth <= -1 || depth >= 1 {
		t.Errorf("depth = %v", depth)
	}
	if _, _, _, ok := c.WorldToScreen(math4d.V3(0, 0, 10), 80, 40); ok {
		t.Error("point behind the camera is visible")
	}
	// up on screen is smaller y
	_, yUp, _, _ := c.WorldToScreen(math4d.V3(0, 0.5, 0), 80, 40)
	if yUp >= y {
		t.Errorf("+y drew at row %v, below centre %v", yUp, y)
	}
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	c := NewCamera()
	c.Orbit(1.2, 4)
	if c.Pitch >= math.Pi/2 {
		t.Errorf("pitch %v not clamped", c.Pitch)
	}
	if d := c.Position().Len(); math.Abs(d-c.Distance) > 1e-9 {
		t.Errorf("eye distance %v, want %v", d, c.Distance)
	}
	c.Zoom(0)
	if c.Distance < c.Near {
		t.Errorf("zoomed inside the near plane: %v", c.Distance)
	}
}

func TestWireframeDrawFrame(t *testing.T) {
	p := scene.Defaults()
	p.Geometry = 1
	p.Angles[math4d.XW] = 0.6
	f, err := scene.NewPipeline().Frame(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	fb := NewFramebuffer(64, 64)
	fb.Clear(ColorNight)
	w := NewWireframe(NewCamera(), fb)
	if n := w.DrawFrame(f); n != len(f.Mesh.Edges) {
		t.Errorf("drew %d of %d edges", n, len(f.Mesh.Edges))
	}
	if countPixels(fb, ColorNight) == 0 {
		t.Error("nothing drawn")
	}
}

func TestWireframeDrawsPoints(t *testing.T) {
	pts := []math4d.Vec4{math4d.V4(0, 0, 0, 0), math4d.V4(0.5, 0.5, 0, 1)}
	f := &scene.Frame{
		Params:  scene.Defaults(),
		Mesh:    &geometry.Mesh{Name: "cloud", Vertices: pts},
		Rotated: pts,
		Points:  []math4d.Vec3{pts[0].XYZ(), pts[1].XYZ()},
	}
	fb := NewFramebuffer(32, 32)
	fb.Clear(ColorNight)
	w := NewWireframe(NewCamera(), fb)
	if n := w.DrawFrame(f); n != 2 {
		t.Errorf("drew %d points, want 2", n)
	}
	if countPixels(fb, ColorNight) == 0 {
		t.Error("nothing drawn")
	}
}

func TestFieldRendererMatchesSystem(t *testing.T) {
	p := scene.Defaults()
	p.Geometry = 11
	b := p.Bindings(1.25, [2]float64{})
	fb := NewFramebuffer(24, 12)
	r := &FieldRenderer{System: system.Quantum, Workers: 3, BandHeight: 5}
	if err := r.Render(context.Background(), fb, b); err != nil {
		t.Fatal(err)
	}
	b.Resolution = [2]float64{24, 12}
	c := b.Field.Compile()
	for _, px := range [][2]int{{0, 0}, {11, 6}, {23, 11}} {
		x, y := px[0], px[1]
		want := lattice.RGBA(system.Quantum.ShadeNative(c, b, [2]float64{float64(x) + 0.5, float64(12-y) - 0.5}))
		if got := fb.GetPixel(x, y); got != want {
			t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
		}
	}
}

func TestFieldRendererCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewFieldRenderer(system.Faceted).Render(ctx, NewFramebuffer(8, 32), scene.Defaults().Bindings(0, [2]float64{}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render = %v, want context.Canceled", err)
	}
}

func TestWritePNG(t *testing.T) {
	fb := NewFramebuffer(5, 3)
	fb.Clear(ColorBlue)
	fb.SetPixel(0, 0, ColorRed)
	var buf bytes.Buffer
	if err := fb.WritePNG(&buf, 3); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 15 || b.Dy() != 9 {
		t.Fatalf("bounds = %v", b)
	}
	if r, g, b, _ := img.At(2, 2).RGBA(); r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("scaled corner = %v", img.At(2, 2))
	}
	if err := fb.WritePNG(&buf, 0); err == nil {
		t.Error("scale 0 accepted")
	}
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "fb.png"), 1); err != nil {
		t.Error(err)
	}
}

func BenchmarkFieldRender(b *testing.B) {
	p := scene.Defaults()
	p.Geometry = 13
	bind := p.Bindings(0, [2]float64{})
	fb := NewFramebuffer(80, 48)
	r := NewFieldRenderer(system.Holographic)
	for b.Loop() {
		if err := r.Render(context.Background(), fb, bind); err != nil {
			b.Fatal(err)
		}
	}
}
