package domain

import "math"

// Color is an (r, g, b) triple. Formulas keep it in [-1, 1]; arity-3 operators may overshoot.
type Color [3]float64

// Gray returns a color with the same value in every channel.
func Gray(v float64) Color {
	return Color{v, v, v}
}

// Channel maps a single value from [-1, 1] to [1, 255].
// Values outside the range are clamped and NaN maps to the floor.
func Channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 1
	}
	c := math.Round(128 * (v + 1))
	if c < 1 {
		return 1
	}
	if c > 255 {
		return 255
	}
	return uint8(c)
}

// RGB normalizes the color into 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	return Channel(c[0]), Channel(c[1]), Channel(c[2])
}
