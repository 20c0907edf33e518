package geom

import (
	"fmt"
	"math"
)

// Vector is a 2D point, displacement or size. Every method returns a new value.
type Vector struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float64) Vector { return Vector{X: x, Y: y} }

// Add returns v + o.
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }

// Mul multiplies component-wise.
func (v Vector) Mul(o Vector) Vector { return Vector{v.X * o.X, v.Y * o.Y} }

// Scale multiplies both components by s.
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s} }

// Div divides component-wise. Zero components yield Inf or NaN.
func (v Vector) Div(o Vector) Vector { return Vector{v.X / o.X, v.Y / o.Y} }

// DivScalar divides both components by s.
func (v Vector) DivScalar(s float64) Vector { return Vector{v.X / s, v.Y / s} }

// Neg returns -v.
func (v Vector) Neg() Vector { return Vector{-v.X, -v.Y} }

// Clamp limits each component to [lo, hi] of the matching component.
func (v Vector) Clamp(lo, hi Vector) Vector {
	return Vector{
		X: max(lo.X, min(v.X, hi.X)),
		Y: max(lo.Y, min(v.Y, hi.Y)),
	}
}

// Min returns the component-wise minimum.
func (v Vector) Min(o Vector) Vector { return Vector{min(v.X, o.X), min(v.Y, o.Y)} }

// Max returns the component-wise maximum.
func (v Vector) Max(o Vector) Vector { return Vector{max(v.X, o.X), max(v.Y, o.Y)} }

// Ceil rounds both components up.
func (v Vector) Ceil() Vector { return Vector{math.Ceil(v.X), math.Ceil(v.Y)} }

// Len returns the Euclidean length.
func (v Vector) Len() float64 { return math.Hypot(v.X, v.Y) }

// Norm returns the unit vector in the direction of v.
// The zero vector normalizes to NaN components.
func (v Vector) Norm() Vector { return v.DivScalar(v.Len()) }

// DistanceTo returns the Euclidean distance between v and o.
func (v Vector) DistanceTo(o Vector) float64 { return o.Sub(v).Len() }

// Rotate rotates v about the origin by rad radians.
func (v Vector) Rotate(rad float64) Vector {
	sin, cos := math.Sincos(rad)
	return Vector{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// RotateAbout rotates v about origin by rad radians.
func (v Vector) RotateAbout(rad float64, origin Vector) Vector {
	return v.Sub(origin).Rotate(rad).Add(origin)
}

// InterpolateTo returns a function mapping t in [0, 1] linearly from v to o.
func (v Vector) InterpolateTo(o Vector) func(t float64) Vector {
	d := o.Sub(v)
	return func(t float64) Vector {
		return Vector{v.X + d.X*t, v.Y + d.Y*t}
	}
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vector) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
