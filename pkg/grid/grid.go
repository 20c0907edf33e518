// Package grid arranges dealt cards into a responsive, centred grid.
//
// The column count is chosen to maximise card scale within the viewport.
// On mobile viewports the grid never exceeds two columns. When the viewport
// changes, [Grid.Reflow] recomputes the arrangement for the same cards.
package grid

import (
	"math"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
)

const (
	// DefaultGap is the spacing between neighbouring cards in pixels.
	DefaultGap = 16.0

	// DefaultPadding is the minimum distance from the viewport edges.
	DefaultPadding = 24.0

	// DefaultMaxScale caps how far cards are enlarged beyond their base size.
	DefaultMaxScale = 1.5

	// MobileColumns is the column cap applied when Options.Mobile is set.
	MobileColumns = 2
)

// Options configures a grid computation.
type Options struct {
	Viewport geom.Vector `json:"viewport" toml:"viewport"`
	CardSize geom.Vector `json:"card_size" toml:"card_size"`
	Gap      float64     `json:"gap,omitempty" toml:"gap"`
	Padding  float64     `json:"padding,omitempty" toml:"padding"`
	MaxScale float64     `json:"max_scale,omitempty" toml:"max_scale"`
	// Mobile is decided by the caller; the grid does no device detection.
	Mobile bool `json:"mobile,omitempty" toml:"mobile"`
}

// SetDefaults fills zero-valued fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.MaxScale == 0 {
		o.MaxScale = DefaultMaxScale
	}
}

// Validate checks the options. Call SetDefaults first.
func (o *Options) Validate() error {
	if !o.Viewport.IsFinite() || o.Viewport.X <= 0 || o.Viewport.Y <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport must be positive, got %s", o.Viewport)
	}
	if !o.CardSize.IsFinite() || o.CardSize.X <= 0 || o.CardSize.Y <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "card size must be positive, got %s", o.CardSize)
	}
	if o.Gap < 0 || o.Padding < 0 || o.MaxScale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap and padding must be non-negative and max_scale positive")
	}
	return nil
}

// Grid is a computed arrangement of n cards.
type Grid struct {
	Options   Options       `json:"options"`
	Columns   int           `json:"columns"`
	Rows      int           `json:"rows"`
	Scale     float64       `json:"scale"`
	CellSize  geom.Vector   `json:"cell_size"`
	Positions []geom.Vector `json:"positions"`
}

// Compute arranges n cards within opts.Viewport.
func Compute(n int, opts Options) (Grid, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Grid{}, err
	}
	if n < 0 {
		return Grid{}, errors.New(errors.ErrCodeInvalidInput, "card count must be non-negative, got %d", n)
	}
	g := Grid{Options: opts}
	if n == 0 {
		return g, nil
	}

	maxCols := n
	if opts.Mobile {
		maxCols = min(n, MobileColumns)
	}
	avail := opts.Viewport.Sub(geom.Vec(2*opts.Padding, 2*opts.Padding))

	best := math.Inf(-1)
	for cols := 1; cols <= maxCols; cols++ {
		rows := (n + cols - 1) / cols
		if s := fit(avail, opts.CardSize, opts.Gap, cols, rows); s > best {
			best, g.Columns, g.Rows = s, cols, rows
		}
	}
	if best <= 0 {
		return Grid{}, errors.New(errors.ErrCodeInvalidConfig,
			"viewport %s is too small for %d cards", opts.Viewport, n)
	}

	g.Scale = min(best, opts.MaxScale)
	g.CellSize = opts.CardSize.Scale(g.Scale)
	g.Positions = g.place(n)
	return g, nil
}

// fit returns the largest scale at which cols×rows cards fit into avail.
func fit(avail, card geom.Vector, gap float64, cols, rows int) float64 {
	sx := (avail.X - float64(cols-1)*gap) / (float64(cols) * card.X)
	sy := (avail.Y - float64(rows-1)*gap) / (float64(rows) * card.Y)
	return min(sx, sy)
}

// place centres the grid in the viewport; a partial last row is centred too.
func (g Grid) place(n int) []geom.Vector {
	step := g.CellSize.Add(geom.Vec(g.Options.Gap, g.Options.Gap))
	span := func(k int) geom.Vector {
		return geom.Vec(float64(k)*g.CellSize.X+float64(k-1)*g.Options.Gap,
			float64(g.Rows)*g.CellSize.Y+float64(g.Rows-1)*g.Options.Gap)
	}
	origin := g.Options.Viewport.Sub(span(g.Columns)).Scale(0.5)
	half := g.CellSize.Scale(0.5)

	out := make([]geom.Vector, n)
	for i := range out {
		row, col := i/g.Columns, i%g.Columns
		rowOrigin := origin
		if inRow := min(g.Columns, n-row*g.Columns); inRow < g.Columns {
			rowOrigin.X = (g.Options.Viewport.X - span(inRow).X) / 2
		}
		out[i] = rowOrigin.Add(geom.Vec(float64(col), float64(row)).Mul(step)).Add(half)
	}
	return out
}

// Len returns the number of cards in the grid.
func (g Grid) Len() int { return len(g.Positions) }

// Params returns the upright end state of every card.
func (g Grid) Params() []anim.Params {
	out := make([]anim.Params, len(g.Positions))
	for i, p := range g.Positions {
		out[i] = anim.At(p).WithSize(g.CellSize).WithRotation(0)
	}
	return out
}

// Rect returns the cell occupied by card i.
func (g Grid) Rect(i int) geom.Rect {
	return geom.NewRect(g.Positions[i], g.CellSize)
}

// Reflow recomputes the grid for the same cards in a new viewport.
func (g Grid) Reflow(viewport geom.Vector) (Grid, error) {
	opts := g.Options
	opts.Viewport = viewport
	return Compute(len(g.Positions), opts)
}
