package anim

import (
	"math"

	"github.com/matzehuels/cardtable/pkg/errors"
)

// Ease identifies an easing curve.
type Ease string

const (
	EaseLinear     Ease = "linear"
	EaseQuadInOut  Ease = "quad-in-out"
	EaseCubicIn    Ease = "cubic-in"
	EaseCubicOut   Ease = "cubic-out"
	EaseCubicInOut Ease = "cubic-in-out"
	EaseSinInOut   Ease = "sin-in-out"
)

// DefaultEase is used when a step leaves Ease empty.
const DefaultEase = EaseCubicInOut

var easeFuncs = map[Ease]func(float64) float64{
	EaseLinear: func(t float64) float64 { return t },
	EaseQuadInOut: func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 2)/2
	},
	EaseCubicIn:  func(t float64) float64 { return t * t * t },
	EaseCubicOut: func(t float64) float64 { return 1 - math.Pow(1-t, 3) },
	EaseCubicInOut: func(t float64) float64 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - math.Pow(-2*t+2, 3)/2
	},
	EaseSinInOut: func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 },
}

// cubic-bezier approximations, as used by CSS and SMIL keySplines.
var easeSplines = map[Ease]string{
	EaseLinear:     "0 0 1 1",
	EaseQuadInOut:  "0.455 0.03 0.515 0.955",
	EaseCubicIn:    "0.55 0.055 0.675 0.19",
	EaseCubicOut:   "0.215 0.61 0.355 1",
	EaseCubicInOut: "0.645 0.045 0.355 1",
	EaseSinInOut:   "0.445 0.05 0.55 0.95",
}

// ParseEase validates s as an easing identifier. An empty string yields DefaultEase.
func ParseEase(s string) (Ease, error) {
	if s == "" {
		return DefaultEase, nil
	}
	e := Ease(s)
	if _, ok := easeFuncs[e]; !ok {
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown ease %q", s)
	}
	return e, nil
}

// Eases lists every known easing identifier.
func Eases() []Ease {
	return []Ease{EaseLinear, EaseQuadInOut, EaseCubicIn, EaseCubicOut, EaseCubicInOut, EaseSinInOut}
}

// Apply maps linear progress t in [0, 1] through the curve.
// Values outside [0, 1] are clamped. Unknown identifiers fall back to linear.
func (e Ease) Apply(t float64) float64 {
	t = max(0, min(t, 1))
	if f, ok := easeFuncs[e]; ok {
		return f(t)
	}
	return t
}

// KeySplines returns the SMIL keySplines control points for the curve.
func (e Ease) KeySplines() string {
	if s, ok := easeSplines[e]; ok {
		return s
	}
	return easeSplines[EaseLinear]
}

func (e Ease) orDefault() Ease {
	if e == "" {
		return DefaultEase
	}
	return e
}
