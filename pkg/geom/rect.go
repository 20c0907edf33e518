package geom

// Rect is an oriented rectangle: a centre, a size and a rotation angle in
// radians, plus the four boundary segments of the rotated quad.
//
// The boundaries are oriented so that Top and Bottom run in the same
// direction (tl→tr, bl→br), as do Left and Right (tl→bl, tr→br). A point lies
// between a pair of parallel boundaries exactly when its implicit evaluations
// have opposite signs.
type Rect struct {
	center Vector
	size   Vector
	angle  float64

	Top, Bottom, Left, Right Line
}

// NewRect returns the axis-aligned rectangle of the given size centred on center.
func NewRect(center, size Vector) Rect {
	return newRect(center, size, 0)
}

// NewRectAt returns a rectangle rotated by rad radians about its centre.
func NewRectAt(center, size Vector, rad float64) Rect {
	return newRect(center, size, rad)
}

// RectFromMin returns the axis-aligned rectangle with top-left corner pos.
func RectFromMin(pos, size Vector) Rect {
	return newRect(pos.Add(size.Scale(0.5)), size, 0)
}

func newRect(center, size Vector, angle float64) Rect {
	r := Rect{center: center, size: size, angle: angle}
	tl, tr, br, bl := r.cornersFromScratch()
	r.Top = NewLine(tl, tr)
	r.Bottom = NewLine(bl, br)
	r.Left = NewLine(tl, bl)
	r.Right = NewLine(tr, br)
	return r
}

// cornersFromScratch rotates the axis-aligned corners by the total angle.
func (r Rect) cornersFromScratch() (tl, tr, br, bl Vector) {
	h := r.size.Scale(0.5)
	tl = Vector{-h.X, -h.Y}.Rotate(r.angle).Add(r.center)
	tr = Vector{h.X, -h.Y}.Rotate(r.angle).Add(r.center)
	br = Vector{h.X, h.Y}.Rotate(r.angle).Add(r.center)
	bl = Vector{-h.X, h.Y}.Rotate(r.angle).Add(r.center)
	return tl, tr, br, bl
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Vector { return r.center }

// Size returns the unrotated width and height.
func (r Rect) Size() Vector { return r.size }

// Angle returns the rotation in radians.
func (r Rect) Angle() float64 { return r.angle }

// Corners returns the corners in the order top-left, top-right,
// bottom-right, bottom-left.
func (r Rect) Corners() [4]Vector {
	return [4]Vector{r.Top.P1, r.Top.P2, r.Bottom.P2, r.Bottom.P1}
}

// Lines returns the four boundaries: top, bottom, left, right.
func (r Rect) Lines() [4]Line {
	return [4]Line{r.Top, r.Bottom, r.Left, r.Right}
}

// Bounds returns the axis-aligned bounding box of the rotated quad.
func (r Rect) Bounds() (lo, hi Vector) {
	c := r.Corners()
	lo, hi = c[0], c[0]
	for _, p := range c[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Vector) Rect {
	return newRect(r.center.Add(d), r.size, r.angle)
}

// Rotate returns the rectangle rotated by rad radians about its centre.
// The boundaries are rebuilt from the total angle.
func (r Rect) Rotate(rad float64) Rect {
	return newRect(r.center, r.size, r.angle+rad)
}

// ContainsPoint reports whether p lies inside r or on its boundary.
func (r Rect) ContainsPoint(p Vector) bool {
	return sign(r.Top.Eval(p))*sign(r.Bottom.Eval(p)) <= 0 &&
		sign(r.Left.Eval(p))*sign(r.Right.Eval(p)) <= 0
}

// ContainsPointStrict reports whether p lies strictly inside r.
func (r Rect) ContainsPointStrict(p Vector) bool {
	return sign(r.Top.Eval(p))*sign(r.Bottom.Eval(p)) < 0 &&
		sign(r.Left.Eval(p))*sign(r.Right.Eval(p)) < 0
}

// Overlaps reports whether any corner of either rectangle lies inside the other.
// Edge crossings without a contained corner are not detected.
func (r Rect) Overlaps(o Rect) bool {
	for _, c := range o.Corners() {
		if r.ContainsPoint(c) {
			return true
		}
	}
	for _, c := range r.Corners() {
		if o.ContainsPoint(c) {
			return true
		}
	}
	return false
}

// AllIntercepts returns every crossing point between a boundary of r and a
// boundary of o. At most 16 points are returned.
func (r Rect) AllIntercepts(o Rect) []Vector {
	var pts []Vector
	for _, a := range r.Lines() {
		for _, b := range o.Lines() {
			if p, ok := a.Intercept(b); ok {
				pts = append(pts, p)
			}
		}
	}
	return pts
}
