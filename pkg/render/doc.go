// Package render groups the output renderers for cardtable.
//
// # Overview
//
// Rendering is split by what is being drawn:
//
//   - [sink]: recorded card scenes as animated SVG, PNG frames or JSON
//   - [nodelink]: animation dependency graphs as Graphviz diagrams
//
// Both read finished data structures. Neither drives the animation loop;
// scenes are recorded first and rendered afterwards.
//
//	svg := sink.RenderSVG(scene, sink.WithDealArea())
//	dot := nodelink.ToDOT(graph, nodelink.Options{})
//	diagram, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/cardtable/pkg/render/sink
// [nodelink]: github.com/matzehuels/cardtable/pkg/render/nodelink
package render
