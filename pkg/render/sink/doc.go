// Package sink provides output format renderers for card scenes.
//
// # Overview
//
// A "sink" transforms a recorded [scene.Scene] into a final output format:
//
//   - SVG: the whole deal as a self-playing SMIL animation, or one frame
//   - PNG: a single rasterized frame
//   - JSON: the per-card timeline for external players
//
// # SVG Output
//
// [RenderSVG] turns each recorded segment into animateTransform and animate
// elements whose key splines approximate the segment's [anim.Ease]:
//
//	svg := sink.RenderSVG(scene, sink.WithDealArea(), sink.WithLabels())
//
// Pass [WithFrameAt] to freeze the scene at a given instant instead.
//
// # PNG Output
//
// [RenderPNG] rasterizes the scene at a given instant with
// golang.org/x/image/vector; no external tools are needed:
//
//	png, err := sink.RenderPNG(scene, scene.Duration(), sink.WithScale(2))
//
// # JSON Output
//
// [RenderJSON] exports the timeline with times in milliseconds.
package sink
