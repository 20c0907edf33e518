// Package pkg provides the core libraries for cardtable, a card dealing
// layout engine with an animation dependency scheduler.
//
// # Overview
//
// Cards are scattered over a rectangular deal area so that the area stays
// completely covered while every card looks casually jittered, then animated
// from a stacked deck to their places. The pkg directory is organized into:
//
//  1. [geom] - Vector, Line and oriented Rect value types
//  2. [anim] - Virtual-clock loop, easing and the animation DAG
//  3. [deal] - The jitter layout engine and the deal animation
//  4. [grid] - Responsive grid the cards gather into afterwards
//  5. [scene] - Recorded card scene implementing the element group contract
//  6. [render] - SVG/PNG/JSON sinks and Graphviz DAG diagrams
//  7. [pipeline] - Orchestration (layout → animate → render) with caching
//
// # Architecture
//
//	deal.Config
//	     ↓
//	[deal] Dealer.Layout (seed grid, extras, jitter, shuffle)
//	     ↓
//	[anim] Graph (deck setup → staggered moves → grid → reflow)
//	     ↓
//	[scene] recorded segments
//	     ↓
//	[render] SVG / PNG / JSON / DOT
//
// # Quick Start
//
//	d, err := deal.New(deal.Config{
//	    AreaSize: geom.Vec(300, 200),
//	    CardSize: geom.Vec(100, 140),
//	})
//	if err != nil {
//	    return err
//	}
//	loop := anim.NewLoop()
//	s := scene.New(loop, 8, geom.Vec(800, 600), scene.State{})
//	g := anim.NewGraph(loop)
//	done, layout, err := d.CreateAnimation(g, s.Group())
//	if err != nil {
//	    return err
//	}
//	done.Animate()
//	loop.Run()
//	svg := sink.RenderSVG(s)
//
// [geom]: github.com/matzehuels/cardtable/pkg/geom
// [anim]: github.com/matzehuels/cardtable/pkg/anim
// [deal]: github.com/matzehuels/cardtable/pkg/deal
// [grid]: github.com/matzehuels/cardtable/pkg/grid
// [scene]: github.com/matzehuels/cardtable/pkg/scene
// [render]: github.com/matzehuels/cardtable/pkg/render
// [pipeline]: github.com/matzehuels/cardtable/pkg/pipeline
package pkg
