package deal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
)

// Placement is the final resting state of one dealt card.
type Placement struct {
	// Slot is the card's index before the arrival order was shuffled.
	// Seed-grid slots are numbered row by row.
	Slot int `json:"slot"`
	// Position is the card's centre.
	Position geom.Vector `json:"position"`
	// Rotation is in degrees.
	Rotation float64 `json:"rotation"`
	// Extra marks cosmetic cards placed at random beyond the covering grid.
	Extra bool `json:"extra,omitempty"`
}

// Params converts p into animation params for a card of the given size.
func (p Placement) Params(size geom.Vector) anim.Params {
	return anim.At(p.Position).WithSize(size).WithRotation(p.Rotation)
}

// Rect returns the oriented rectangle covered by the card.
func (p Placement) Rect(size geom.Vector) geom.Rect {
	return geom.NewRectAt(p.Position, size, geom.Radians(p.Rotation))
}

// Stats summarises a jitter run.
type Stats struct {
	MinGrid  [2]int      `json:"min_grid"`
	Margin   geom.Vector `json:"margin"`
	Seeded   int         `json:"seeded"`
	Extras   int         `json:"extras"`
	Trials   int         `json:"trials"`
	Accepted int         `json:"accepted"`
	Rejected int         `json:"rejected"`
}

// Layout is the computed arrangement of a deal, in arrival order.
type Layout struct {
	ID         string      `json:"id"`
	AreaPos    geom.Vector `json:"area_pos"`
	AreaSize   geom.Vector `json:"area_size"`
	CardSize   geom.Vector `json:"card_size"`
	Seed       uint64      `json:"seed"`
	Placements []Placement `json:"placements"`
	Stats      Stats       `json:"stats"`
}

// Len returns the number of placed cards.
func (l *Layout) Len() int { return len(l.Placements) }

// Targets returns one set of end params per card, in arrival order.
func (l *Layout) Targets() []anim.Params {
	out := make([]anim.Params, len(l.Placements))
	for i, p := range l.Placements {
		out[i] = p.Params(l.CardSize)
	}
	return out
}

// Rects returns the card rectangles in arrival order.
func (l *Layout) Rects() []geom.Rect {
	out := make([]geom.Rect, len(l.Placements))
	for i, p := range l.Placements {
		out[i] = p.Rect(l.CardSize)
	}
	return out
}

// Marshal encodes the layout as indented JSON.
func (l *Layout) Marshal() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal decodes a layout and checks that every placement is finite.
func Unmarshal(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	for i, p := range l.Placements {
		if !p.Position.IsFinite() {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "placement %d has non-finite position %s", i, p.Position)
		}
	}
	return &l, nil
}

// WriteFile writes the layout to path as JSON.
func (l *Layout) WriteFile(path string) error {
	data, err := l.Marshal()
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a layout previously written with WriteFile.
func ReadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
