// Package anim schedules timed, eased transitions over groups of elements.
//
// # Model
//
// Animation is single-threaded and cooperative. A [Loop] owns a virtual
// clock and a queue of timers; nothing runs in parallel. "Concurrency" is
// several pending timers and transition completions interleaved by the loop.
// A [Signal] is a one-shot completion event, resolved by the loop when a
// timer fires or a transition finishes.
//
// Work is described as a [Graph] of nodes. Each node wraps an
// [ElementGroup], optional start and end [Params], an [Ease] and a duration:
//
//	loop := anim.NewLoop()
//	g := anim.NewGraph(loop)
//	move, _ := g.Add(anim.Step{
//	    Elements: cards,
//	    End:      anim.All(anim.At(geom.Vec(100, 100))),
//	    Ease:     anim.EaseCubicOut,
//	    Duration: 400 * time.Millisecond,
//	})
//	settle, _ := move.ContinueTo(anim.All(anim.Params{}.WithRotation(0)))
//	settle.AddCallback(func() { fmt.Println("done") })
//	settle.Animate()
//	loop.Run()
//
// # Ordering
//
// A node's start params are applied, and its end transition begins, only
// after every predecessor's signal has resolved. Siblings with no path
// between them run concurrently on the virtual clock. A node resolves once
// both its transition and its own duration have elapsed. Nodes are memoised
// by [NodeID], so a node shared by several dependents fires exactly once.
//
// There is no cancellation. A later transition on the same elements simply
// overrides the earlier one at the presentation layer.
//
// # Element groups
//
// The scheduler never touches a rendering surface directly; it only talks
// to the [ElementGroup] interface. Package scene provides the adapter used by
// the renderers and the terminal player.
package anim
