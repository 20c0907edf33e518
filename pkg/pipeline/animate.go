package pipeline

import (
	"time"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/deal"
	"github.com/matzehuels/cardtable/pkg/geom"
	"github.com/matzehuels/cardtable/pkg/grid"
	"github.com/matzehuels/cardtable/pkg/scene"
)

// Animation is the animation graph for one layout together with the scene
// that records it.
//
// The graph runs in three phases: the deal, a pause followed by the cards
// gathering into a grid, and, when Options.Resize is set, a reflow of that
// grid into the new viewport.
type Animation struct {
	Scene  *scene.Scene
	Graph  *anim.Graph
	Layout *deal.Layout

	// Grid is the gathered arrangement; nil when the grid phase is skipped.
	Grid *grid.Grid
	// Reflow is the arrangement after the resize; nil without one.
	Reflow *grid.Grid

	// Dealt resolves when the last card has landed.
	Dealt anim.Node
	// Done is the final node of the graph.
	Done anim.Node

	done *anim.Signal
}

// BuildAnimation adds every phase for l to a new graph and starts it.
// The virtual clock has not advanced yet; call Run to play it through.
func BuildAnimation(opts Options, l *deal.Layout) (*Animation, error) {
	d, err := newDealer(opts)
	if err != nil {
		return nil, err
	}

	loop := anim.NewLoop()
	s := scene.New(loop, l.Len(), opts.Viewport, scene.State{
		Position: d.Config().DeckPosition(),
		Size:     l.CardSize,
	})
	s.SetDealArea(geom.RectFromMin(l.AreaPos, l.AreaSize))

	cards := s.Group()
	if len(opts.Labels) > 0 {
		data := make([]any, len(opts.Labels))
		for i, label := range opts.Labels {
			data[i] = label
		}
		if err := cards.Bind(data); err != nil {
			return nil, err
		}
	}

	g := anim.NewGraph(loop)
	dealt, err := d.Animate(g, cards, l)
	if err != nil {
		return nil, err
	}
	a := &Animation{Scene: s, Graph: g, Layout: l, Dealt: dealt, Done: dealt}

	if !opts.SkipGrid {
		if err := a.addGrid(opts, cards); err != nil {
			return nil, err
		}
	}

	a.done = a.Done.Animate()
	return a, nil
}

func (a *Animation) addGrid(opts Options, cards *scene.Group) error {
	gr, err := grid.Compute(cards.Len(), opts.Grid)
	if err != nil {
		return err
	}
	a.Grid = &gr

	gather, err := a.Graph.Add(anim.Step{
		Elements: cards,
		End:      anim.Each(gr.Params()),
		Ease:     opts.GridEase,
		Duration: opts.GridDuration,
		After:    []anim.Node{a.Graph.Delay(opts.Pause, a.Dealt)},
		Label:    "grid",
	})
	if err != nil {
		return err
	}
	a.Done = gather
	if opts.Resize == nil {
		return nil
	}

	viewport := *opts.Resize
	re, err := gr.Reflow(viewport)
	if err != nil {
		return err
	}
	a.Reflow = &re
	gather.AddCallback(func() { a.Scene.SetViewport(viewport) })
	a.Done, err = gather.ContinueTo(anim.Each(re.Params()), anim.WithLabel("grid:reflow"))
	return err
}

// Run advances the clock until the animation has finished and returns the
// time it finished at.
func (a *Animation) Run() time.Duration {
	a.Scene.Loop().Run()
	return a.done.At()
}

// Finished reports whether the final node has resolved.
func (a *Animation) Finished() bool { return a.done.Done() }
