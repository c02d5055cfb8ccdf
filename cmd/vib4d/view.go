package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/render"
	"github.com/taigrr/vib4d/pkg/scene"
	"github.com/taigrr/vib4d/pkg/system"
)

const viewHelp = `Controls:
  W/S         - Spin XW
  A/D         - Spin YW
  Q/E         - Spin ZW
  Arrows      - Orbit camera
  Mouse drag  - Orbit camera
  Scroll, +/- - Zoom
  G/B         - Next/previous geometry
  P           - Cycle projection
  F           - Toggle lattice field / wireframe
  X           - Toggle axes
  Space       - Random 4D spin
  R           - Ease back to the start angles
  ?           - Toggle HUD
  Esc         - Quit`

func newViewCmd(pf *paramFlags) *cobra.Command {
	var (
		fps     int
		fov     float64
		sysName string
		field   bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Interactive terminal viewer",
		Long:  "Draws the rotating geometry in the terminal.\n\n" + viewHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pf.params()
			if err != nil {
				return err
			}
			sys, err := lookupSystem(sysName)
			if err != nil {
				return err
			}
			if fps < 1 {
				return fmt.Errorf("fps %d must be positive", fps)
			}
			v, err := newViewer(p, sys, fps)
			if err != nil {
				return err
			}
			v.fieldMode = field
			v.camera.SetFOV(fov * math.Pi / 180)
			return v.run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	cmd.Flags().Float64Var(&fov, "fov", 45, "camera field of view in degrees")
	cmd.Flags().StringVar(&sysName, "system", system.Faceted.Name, "visual system for field mode")
	cmd.Flags().BoolVar(&field, "field", false, "start in lattice field mode")
	return cmd
}

// hud tracks the frame rate shown in the overlay.
type hud struct {
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func (h *hud) tick() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

type viewer struct {
	state    *scene.State
	start    math4d.Angles
	anim     *scene.Animator
	pipeline *scene.Pipeline
	camera   *render.Camera
	fb       *render.Framebuffer
	wire     *render.Wireframe
	field    *render.FieldRenderer
	fps      int
	hud      hud

	fieldMode bool
	axes      bool
	edges     int

	// mouse
	dragging     bool
	lastX, lastY int
}

func newViewer(p scene.Params, sys system.System, fps int) (*viewer, error) {
	st, err := scene.NewState(p)
	if err != nil {
		return nil, err
	}
	v := &viewer{
		state:    st,
		start:    p.Angles,
		anim:     scene.NewAnimator(fps, p.Angles),
		pipeline: scene.NewPipeline(),
		camera:   render.NewCamera(),
		fb:       render.NewFramebuffer(1, 1),
		field:    render.NewFieldRenderer(sys),
		fps:      fps,
		hud:      hud{fpsTime: time.Now()},
	}
	v.wire = render.NewWireframe(v.camera, v.fb)
	return v, nil
}

// resize matches the framebuffer to a terminal of w by h cells; each cell
// holds two pixel rows.
func (v *viewer) resize(w, h int) {
	v.fb.Resize(max(w, 1), max(2*h, 1))
	v.camera.SetAspectRatio(float64(v.fb.Width) / float64(v.fb.Height))
}

func (v *viewer) run(ctx context.Context) error {
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	v.resize(width, height)

	// any-event mouse tracking, SGR encoding
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Warn("terminal shutdown", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := term.Events()
	frame := time.Second / time.Duration(v.fps)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	began := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				v.resize(width, height)
			default:
				if v.handle(ev) {
					cancel()
				}
			}
		case <-ticker.C:
			if err := v.draw(ctx, term, time.Since(began).Seconds()); err != nil {
				return err
			}
		}
	}
}

// handle applies one input event and reports whether to quit.
func (v *viewer) handle(ev uv.Event) bool {
	const nudge = 0.01
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return true
		case ev.MatchString("w"):
			v.anim.Nudge(math4d.XW, nudge)
		case ev.MatchString("s"):
			v.anim.Nudge(math4d.XW, -nudge)
		case ev.MatchString("a"):
			v.anim.Nudge(math4d.YW, nudge)
		case ev.MatchString("d"):
			v.anim.Nudge(math4d.YW, -nudge)
		case ev.MatchString("q"):
			v.anim.Nudge(math4d.ZW, nudge)
		case ev.MatchString("e"):
			v.anim.Nudge(math4d.ZW, -nudge)
		case ev.MatchString("up"):
			v.camera.Orbit(0, 0.1)
		case ev.MatchString("down"):
			v.camera.Orbit(0, -0.1)
		case ev.MatchString("left"):
			v.camera.Orbit(-0.1, 0)
		case ev.MatchString("right"):
			v.camera.Orbit(0.1, 0)
		case ev.MatchString("+", "="):
			v.camera.Zoom(0.9)
		case ev.MatchString("-", "_"):
			v.camera.Zoom(1.1)
		case ev.MatchString("g"):
			v.stepGeometry(1)
		case ev.MatchString("b"):
			v.stepGeometry(-1)
		case ev.MatchString("p"):
			v.stepProjection()
		case ev.MatchString("f"):
			v.fieldMode = !v.fieldMode
		case ev.MatchString("x"):
			v.axes = !v.axes
		case ev.MatchString("space"):
			v.anim.Release()
			for _, pl := range math4d.Planes {
				v.anim.Nudge(pl, (rand.Float64()-0.5)*0.1)
			}
		case ev.MatchString("r"):
			v.anim.EaseTo(v.start)
		case ev.MatchString("?", "shift+/"):
			v.hud.show = !v.hud.show
		}

	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.dragging {
			v.camera.Orbit(float64(ev.X-v.lastX)*0.03, float64(ev.Y-v.lastY)*0.03)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.camera.Zoom(0.9)
		case uv.MouseWheelDown:
			v.camera.Zoom(1.1)
		}
	}
	return false
}

func (v *viewer) stepGeometry(d int) {
	err := v.state.Update(func(p *scene.Params) error {
		p.Geometry = geometry.Index((int(p.Geometry) + d + geometry.IndexCount) % geometry.IndexCount)
		return nil
	})
	if err != nil {
		logger.Warn("change geometry", "err", err)
	}
}

func (v *viewer) stepProjection() {
	err := v.state.Update(func(p *scene.Params) error {
		p.Projection = (p.Projection + 1) % (math4d.ObliqueProjection + 1)
		return nil
	})
	if err != nil {
		logger.Warn("change projection", "err", err)
	}
}

func (v *viewer) draw(ctx context.Context, term *uv.Terminal, t float64) error {
	p := v.state.Snapshot()
	p.Angles = v.anim.Step()
	if v.anim.Settled(1e-4) {
		v.anim.Release()
	}

	if v.fieldMode {
		if err := v.field.Render(ctx, v.fb, p.Bindings(t, [2]float64{})); err != nil && ctx.Err() == nil {
			return err
		}
	} else {
		f, err := v.pipeline.Frame(p, t)
		if err != nil {
			return err
		}
		v.fb.Clear(render.ColorNight)
		v.edges = v.wire.DrawFrame(f)
		if v.axes {
			v.wire.DrawAxes(1.5)
		}
	}

	area := term.Bounds()
	v.fb.Draw(term, area)
	v.hud.tick()
	if v.hud.show {
		v.drawHUD(term, area, p)
	}
	return term.Display()
}

func (v *viewer) drawHUD(scr uv.Screen, area uv.Rectangle, p scene.Params) {
	bg := render.ColorBlack
	render.DrawText(scr, area.Min.X, area.Min.Y, fmt.Sprintf(" %.0f FPS ", v.hud.fps), render.ColorGreen, bg)

	title := fmt.Sprintf(" %s · %s ", p.Geometry.Name(), p.Projection)
	col := max(area.Min.X+(area.Dx()-len(title))/2, area.Min.X)
	render.DrawText(scr, col, area.Min.Y, title, render.ColorWhite, bg)

	mode := fmt.Sprintf(" wireframe, %d edges ", v.edges)
	if v.fieldMode {
		mode = " field: " + v.field.System.Name + " "
	}
	a := p.Angles
	status := fmt.Sprintf(" XW %.2f  YW %.2f  ZW %.2f ·%s", a[math4d.XW], a[math4d.YW], a[math4d.ZW], mode)
	render.DrawText(scr, area.Min.X, area.Max.Y-1, status, render.ColorWhite, bg)
}
