// Package nodelink renders animation dependency graphs as node-link diagrams.
//
// # Overview
//
// Each [anim.Node] becomes a box and each ordering edge an arrow from the
// predecessor to its dependent. Delay nodes are dashed, so a deal sequence
// reads as a deck setup fanning out through staggered delays into per-card
// moves and joining again at the completion node.
//
// # Usage
//
//	dot := nodelink.ToDOT(graph, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz, so no system binaries are required.
package nodelink
