// Package scene is a retained model of the card table that the animation
// scheduler drives.
//
// A [Scene] owns one [Card] per dealt card. Its [Group] type implements
// [anim.ElementGroup]: instant writes and eased transitions are recorded per
// card as [Segment]s stamped with the loop's virtual time, so the whole
// animation can be sampled afterwards at any instant with [Scene.At]. The
// renderers and the terminal player read scenes; they never talk to the
// scheduler.
//
// A transition that starts while another is in flight samples the card's
// current state as its origin and supersedes the earlier one from then on.
package scene

import (
	"fmt"
	"time"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
)

// State is the fully resolved visual state of a card.
type State struct {
	Position geom.Vector `json:"position"` // centre
	Size     geom.Vector `json:"size"`
	Rotation float64     `json:"rotation"` // degrees
}

// Merge returns s with every attribute p sets replaced.
func (s State) Merge(p anim.Params) State {
	if p.Position != nil {
		s.Position = *p.Position
	}
	if p.Size != nil {
		s.Size = *p.Size
	}
	if p.Rotation != nil {
		s.Rotation = *p.Rotation
	}
	return s
}

// Lerp interpolates between s and o at progress t.
func (s State) Lerp(o State, t float64) State {
	return State{
		Position: s.Position.InterpolateTo(o.Position)(t),
		Size:     s.Size.InterpolateTo(o.Size)(t),
		Rotation: s.Rotation + (o.Rotation-s.Rotation)*t,
	}
}

// Rect returns the oriented rectangle covered by the card.
func (s State) Rect() geom.Rect {
	return geom.NewRectAt(s.Position, s.Size, geom.Radians(s.Rotation))
}

// Segment is one recorded write. Instant writes have zero duration.
type Segment struct {
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
	Ease     anim.Ease     `json:"ease,omitempty"`
	From     State         `json:"from"`
	To       State         `json:"to"`
}

// End returns the time at which the segment reaches its target.
func (s Segment) End() time.Duration { return s.Start + s.Duration }

// At samples the segment at t, which must not precede Start.
func (s Segment) At(t time.Duration) State {
	if s.Duration <= 0 || t >= s.End() {
		return s.To
	}
	progress := float64(t-s.Start) / float64(s.Duration)
	return s.From.Lerp(s.To, s.Ease.Apply(progress))
}

// Card is one element of the scene.
type Card struct {
	Index    int       `json:"index"`
	Label    string    `json:"label,omitempty"`
	Initial  State     `json:"initial"`
	Segments []Segment `json:"segments"`

	data any
}

// Data returns the datum bound to the card.
func (c *Card) Data() any { return c.data }

// At returns the card's state at t.
func (c *Card) At(t time.Duration) State {
	s := c.Initial
	for _, seg := range c.Segments {
		if seg.Start > t {
			break
		}
		s = seg.At(t)
	}
	return s
}

// Rect returns the card's rectangle at t.
func (c *Card) Rect(t time.Duration) geom.Rect {
	return c.At(t).Rect()
}

// Final returns the state the card settles in.
func (c *Card) Final() State {
	if len(c.Segments) == 0 {
		return c.Initial
	}
	return c.Segments[len(c.Segments)-1].To
}

// Scene holds every card and the surface they are drawn on.
type Scene struct {
	loop     *anim.Loop
	viewport geom.Vector
	area     *geom.Rect
	cards    []*Card
}

// New creates a scene of n cards, all starting in state initial.
func New(loop *anim.Loop, n int, viewport geom.Vector, initial State) *Scene {
	s := &Scene{loop: loop, viewport: viewport, cards: make([]*Card, n)}
	for i := range s.cards {
		s.cards[i] = &Card{Index: i, Initial: initial}
	}
	return s
}

// Loop returns the loop whose clock stamps the scene's segments.
func (s *Scene) Loop() *anim.Loop { return s.loop }

// Viewport returns the size of the drawing surface.
func (s *Scene) Viewport() geom.Vector { return s.viewport }

// SetViewport changes the drawing surface, for example after a resize.
func (s *Scene) SetViewport(v geom.Vector) { s.viewport = v }

// SetDealArea records the deal area for renderers that outline it.
func (s *Scene) SetDealArea(r geom.Rect) { s.area = &r }

// DealArea returns the deal area if one was set.
func (s *Scene) DealArea() (geom.Rect, bool) {
	if s.area == nil {
		return geom.Rect{}, false
	}
	return *s.area, true
}

// Len returns the number of cards.
func (s *Scene) Len() int { return len(s.cards) }

// Card returns card i.
func (s *Scene) Card(i int) *Card { return s.cards[i] }

// Cards returns every card in index order.
func (s *Scene) Cards() []*Card { return s.cards }

// At samples every card at t.
func (s *Scene) At(t time.Duration) []State {
	out := make([]State, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.At(t)
	}
	return out
}

// Duration returns the time at which the last segment ends.
func (s *Scene) Duration() time.Duration {
	var d time.Duration
	for _, c := range s.cards {
		for _, seg := range c.Segments {
			d = max(d, seg.End())
		}
	}
	return d
}

// Group returns an element group over every card.
func (s *Scene) Group() *Group {
	idx := make([]int, len(s.cards))
	for i := range idx {
		idx[i] = i
	}
	return &Group{scene: s, idx: idx}
}

// Group is a view of some of a scene's cards. It implements anim.ElementGroup.
type Group struct {
	scene *Scene
	idx   []int
}

var _ anim.ElementGroup = (*Group)(nil)

// Len returns the number of cards in the group.
func (g *Group) Len() int { return len(g.idx) }

// Bind attaches one datum per card. Strings and fmt.Stringers also become
// the card's label.
func (g *Group) Bind(data []any) error {
	if len(data) != len(g.idx) {
		return errors.New(errors.ErrCodeCardinalityMismatch,
			"group has %d cards but %d data items were given", len(g.idx), len(data))
	}
	for i, d := range data {
		c := g.scene.cards[g.idx[i]]
		c.data = d
		switch v := d.(type) {
		case string:
			c.Label = v
		case fmt.Stringer:
			c.Label = v.String()
		}
	}
	return nil
}

// Apply writes params instantly at the loop's current time.
func (g *Group) Apply(params []anim.Params) {
	now := g.scene.loop.Now()
	for i, p := range params {
		c := g.scene.cards[g.idx[i]]
		from := c.At(now)
		c.Segments = append(c.Segments, Segment{Start: now, From: from, To: from.Merge(p)})
	}
}

// Transition records an eased transition from each card's current state and
// returns a signal that resolves after d.
func (g *Group) Transition(params []anim.Params, ease anim.Ease, d time.Duration) *anim.Signal {
	now := g.scene.loop.Now()
	for i, p := range params {
		c := g.scene.cards[g.idx[i]]
		from := c.At(now)
		c.Segments = append(c.Segments, Segment{
			Start:    now,
			Duration: d,
			Ease:     ease,
			From:     from,
			To:       from.Merge(p),
		})
	}
	return g.scene.loop.Timer(d)
}

// Item returns the single-card group at index i of g.
func (g *Group) Item(i int) anim.ElementGroup {
	return &Group{scene: g.scene, idx: []int{g.idx[i]}}
}

// Indices returns the scene indices of the group's cards.
func (g *Group) Indices() []int { return g.idx }
