package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/vib4d/pkg/math4d"
)

// Axis is the rotation of one plane: a position, a velocity that springs
// back to zero after a nudge, and an optional target the position eases to.
type Axis struct {
	Position float64
	Velocity float64

	target    float64
	easing    bool
	posVel    float64
	velAccel  float64
	posSpring harmonica.Spring
	velSpring harmonica.Spring
}

func newAxis(fps int, pos float64) Axis {
	return Axis{
		Position: pos,
		// critically damped, no overshoot
		posSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *Axis) step() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	if a.easing {
		a.Position, a.posVel = a.posSpring.Update(a.Position, a.posVel, a.target)
	}
}

// Animator drives the six rotation angles with harmonica springs, one frame
// per Step.
type Animator struct {
	axes [math4d.PlaneCount]Axis
	fps  int
}

// NewAnimator starts at start and steps at fps frames per second.
func NewAnimator(fps int, start math4d.Angles) *Animator {
	a := &Animator{fps: fps}
	for i := range a.axes {
		a.axes[i] = newAxis(fps, start[i])
	}
	return a
}

// Nudge adds an impulse to one plane's velocity in radians per frame.
func (a *Animator) Nudge(p math4d.Plane, dv float64) {
	a.axes[p].Velocity += dv
}

// EaseTo makes every plane approach target.
func (a *Animator) EaseTo(target math4d.Angles) {
	for i := range a.axes {
		a.axes[i].target = target[i]
		a.axes[i].easing = true
	}
}

// Release stops easing; nudges still decay.
func (a *Animator) Release() {
	for i := range a.axes {
		a.axes[i].easing = false
		a.axes[i].posVel = 0
	}
}

// Step advances one frame and returns the angles.
func (a *Animator) Step() math4d.Angles {
	for i := range a.axes {
		a.axes[i].step()
	}
	return a.Angles()
}

// Angles returns the current angles without advancing.
func (a *Animator) Angles() math4d.Angles {
	var out math4d.Angles
	for i := range a.axes {
		out[i] = a.axes[i].Position
	}
	return out
}

// Settled reports whether every plane is within tol of rest: no velocity
// left and, when easing, at the target.
func (a *Animator) Settled(tol float64) bool {
	for _, ax := range a.axes {
		if math.Abs(ax.Velocity) > tol || math.Abs(ax.posVel) > tol {
			return false
		}
		if ax.easing && math.Abs(ax.Position-ax.target) > tol {
			return false
		}
	}
	return true
}

// Reset zeroes every plane.
func (a *Animator) Reset() {
	for i := range a.axes {
		a.axes[i] = newAxis(a.fps, 0)
	}
}
