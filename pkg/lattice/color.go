package lattice

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Hue is carried in degrees, [0, 360), everywhere outside colour
// evaluation. HueUnit is the only conversion to the unit interval.
func HueUnit(degrees float64) float64 {
	return fract(degrees / 360)
}

// WrapHue reduces any angle in degrees to [0, 360).
func WrapHue(degrees float64) float64 {
	return HueUnit(degrees) * 360
}

// Color converts hue in degrees, saturation and value to sRGB
// components in [0, 1].
func Color(hue, saturation, value float64) colorful.Color {
	return colorful.Hsv(WrapHue(hue), clamp(saturation, 0, 1), clamp(value, 0, 1))
}

// RGBA converts a colour to 8-bit RGBA.
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Shade colours a presence value: value scales with intensity times
// presence.
func Shade(hue, saturation, intensity, presence float64) colorful.Color {
	return Color(hue, saturation, intensity*presence)
}

// ColorDistance returns the largest channel difference between two colours.
func ColorDistance(a, b colorful.Color) float64 {
	return math.Max(math.Abs(a.R-b.R), math.Max(math.Abs(a.G-b.G), math.Abs(a.B-b.B)))
}
