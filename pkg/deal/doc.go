// Package deal scatters cards over a rectangular deal area and builds the
// animation that deals them.
//
// # Coverage
//
// Overlapping cards are expected; gaps are not. After every accepted move,
// each point where two card boundaries cross strictly inside the deal area
// lies within some third card. The check samples only these intersection
// points, so it is a heuristic rather than an exact area test.
//
// # Algorithm
//
// [Dealer.Layout] seeds a grid of ceil(area/card) cards that overlap just
// enough to cover the area edge to edge, places any further cards at random,
// then runs a fixed number of greedy passes. Each pass proposes a random
// translation and rotation for every card in turn and keeps it only if
// coverage still holds. Rejected trials restore the previous state exactly
// and are never reported as errors. The committed offsets accumulate across
// passes.
//
// Randomness comes from a PCG source seeded by [Config.Seed], so identical
// inputs always produce identical layouts.
//
// # Animation
//
// [Dealer.CreateAnimation] feeds the layout into an [anim.Graph]:
//
//	dealer, err := deal.New(deal.Config{
//	    AreaSize: geom.Vec(300, 200),
//	    CardSize: geom.Vec(100, 100),
//	})
//	done, layout, err := dealer.CreateAnimation(graph, cards)
//	done.AddCallback(formGrid)
//	done.Animate()
package deal
