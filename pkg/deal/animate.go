package deal

import (
	"fmt"
	"time"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/errors"
)

// Animate adds the deal sequence for l to g and returns its completion node.
//
// The sequence stacks every card on the deck, then sends card i to its
// placement after i staggers. The returned node is a zero-length delay that
// resolves once the last card has landed; attach callbacks to it to chain
// the next phase. cards.Len must equal l.Len.
func (d *Dealer) Animate(g *anim.Graph, cards anim.ElementGroup, l *Layout) (anim.Node, error) {
	n := cards.Len()
	if n != l.Len() {
		return anim.Node{}, errors.New(errors.ErrCodeCardinalityMismatch,
			"element group has %d cards but the layout places %d", n, l.Len())
	}

	deck := anim.At(d.cfg.DeckPosition()).WithSize(l.CardSize).WithRotation(0)
	setup, err := g.Add(anim.Step{
		Elements: cards,
		Start:    anim.All(deck),
		Label:    "deal:deck",
	})
	if err != nil {
		return anim.Node{}, err
	}

	moves := make([]anim.Node, n)
	for i, p := range l.Placements {
		wait := g.Delay(time.Duration(i)*d.cfg.Stagger, setup)
		moves[i], err = g.Add(anim.Step{
			Elements: cards.Item(i),
			End:      anim.All(p.Params(l.CardSize)),
			Ease:     d.cfg.Ease,
			Duration: d.cfg.Duration,
			After:    []anim.Node{wait},
			Label:    fmt.Sprintf("deal:%d", i),
		})
		if err != nil {
			return anim.Node{}, err
		}
	}

	return g.Add(anim.Step{After: moves, Label: "deal:done"})
}

// CreateAnimation computes a layout for every card in cards and adds its
// deal sequence to g. Configuration errors are returned before any node is
// added.
func (d *Dealer) CreateAnimation(g *anim.Graph, cards anim.ElementGroup) (anim.Node, *Layout, error) {
	l, err := d.Layout(cards.Len())
	if err != nil {
		return anim.Node{}, nil, err
	}
	done, err := d.Animate(g, cards, l)
	if err != nil {
		return anim.Node{}, nil, err
	}
	return done, l, nil
}
