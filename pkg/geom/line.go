package geom

// Epsilon is the tolerance used when clipping an intersection to a segment's
// bounding box. It admits crossings that floating-point error pushes just
// outside a segment end.
const Epsilon = 0.001

// Line is the segment between P1 and P2 in implicit form A·x + B·y + C = 0.
// DomMin and DomMax bound the segment and restrict intersections to it.
type Line struct {
	P1, P2         Vector
	A, B, C        float64
	DomMin, DomMax Vector
}

// NewLine derives the implicit coefficients and bounding box of the segment p1→p2.
func NewLine(p1, p2 Vector) Line {
	return Line{
		P1:     p1,
		P2:     p2,
		A:      p1.Y - p2.Y,
		B:      p2.X - p1.X,
		C:      p1.X*p2.Y - p2.X*p1.Y,
		DomMin: p1.Min(p2),
		DomMax: p1.Max(p2),
	}
}

// Eval returns A·x + B·y + C at p. The sign tells which side of the line p is on.
func (l Line) Eval(p Vector) float64 {
	return l.A*p.X + l.B*p.Y + l.C
}

// Intercept returns the crossing point of l and o. It reports false when the
// lines are parallel or the crossing lies outside either segment.
func (l Line) Intercept(o Line) (Vector, bool) {
	det := l.A*o.B - o.A*l.B
	x := (l.B*o.C - o.B*l.C) / det
	y := (l.C*o.A - o.C*l.A) / det
	p := Vector{x, y}
	if !p.IsFinite() {
		return Vector{}, false
	}
	if !l.inDomain(p) || !o.inDomain(p) {
		return Vector{}, false
	}
	return p, true
}

func (l Line) inDomain(p Vector) bool {
	return p.X >= l.DomMin.X-Epsilon && p.X <= l.DomMax.X+Epsilon &&
		p.Y >= l.DomMin.Y-Epsilon && p.Y <= l.DomMax.Y+Epsilon
}

// Translate returns the line moved by d.
func (l Line) Translate(d Vector) Line {
	return NewLine(l.P1.Add(d), l.P2.Add(d))
}

// Rotate returns the line rotated by rad radians about origin.
func (l Line) Rotate(rad float64, origin Vector) Line {
	return NewLine(l.P1.RotateAbout(rad, origin), l.P2.RotateAbout(rad, origin))
}

// Len returns the segment length.
func (l Line) Len() float64 { return l.P1.DistanceTo(l.P2) }

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
