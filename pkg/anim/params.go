package anim

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
)

// Params is a target (or start) visual state for one element.
// A nil field leaves that attribute unchanged. Position is the element's
// centre and Rotation is in degrees.
//
// Params is treated as immutable: the With* methods return copies with
// freshly allocated fields.
type Params struct {
	Position *geom.Vector `json:"position,omitempty"`
	Size     *geom.Vector `json:"size,omitempty"`
	Rotation *float64     `json:"rotation,omitempty"`
}

// At returns Params that only set the position.
func At(pos geom.Vector) Params {
	return Params{Position: &pos}
}

// WithPosition returns a copy of p with the position set.
func (p Params) WithPosition(pos geom.Vector) Params {
	p.Position = &pos
	return p
}

// WithSize returns a copy of p with the size set.
func (p Params) WithSize(size geom.Vector) Params {
	p.Size = &size
	return p
}

// WithRotation returns a copy of p with the rotation set, in degrees.
func (p Params) WithRotation(deg float64) Params {
	p.Rotation = &deg
	return p
}

// Merge returns p with every field that o sets replaced by o's value.
func (p Params) Merge(o Params) Params {
	if o.Position != nil {
		p = p.WithPosition(*o.Position)
	}
	if o.Size != nil {
		p = p.WithSize(*o.Size)
	}
	if o.Rotation != nil {
		p = p.WithRotation(*o.Rotation)
	}
	return p
}

// IsZero reports whether p sets no attribute.
func (p Params) IsZero() bool {
	return p.Position == nil && p.Size == nil && p.Rotation == nil
}

func (p Params) String() string {
	var parts []string
	if p.Position != nil {
		parts = append(parts, "pos="+p.Position.String())
	}
	if p.Size != nil {
		parts = append(parts, "size="+p.Size.String())
	}
	if p.Rotation != nil {
		parts = append(parts, fmt.Sprintf("rot=%g°", *p.Rotation))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Targets holds either one Params broadcast to every item of a group or one
// Params per item. The zero value sets nothing.
type Targets struct {
	all     *Params
	each    []Params
	perItem bool
}

// All broadcasts p to every item.
func All(p Params) Targets { return Targets{all: &p} }

// Each assigns ps[i] to item i. len(ps) must equal the group's Len, so
// Each(nil) only fits an empty group.
func Each(ps []Params) Targets { return Targets{each: ps, perItem: true} }

// IsZero reports whether t sets nothing.
func (t Targets) IsZero() bool { return t.all == nil && !t.perItem }

// PerItem reports whether t was built with Each.
func (t Targets) PerItem() bool { return t.perItem }

// Resolve expands t to one Params per item of a group of n items.
// It fails when a per-item array does not have exactly n entries. The
// result never aliases the slice given to Each.
func (t Targets) Resolve(n int) ([]Params, error) {
	switch {
	case t.perItem:
		if len(t.each) != n {
			return nil, errors.New(errors.ErrCodeCardinalityMismatch,
				"element group has %d items but %d params were given", n, len(t.each))
		}
		return slices.Clone(t.each), nil
	case t.all != nil:
		out := make([]Params, n)
		for i := range out {
			out[i] = *t.all
		}
		return out, nil
	default:
		return nil, nil
	}
}
