// Package geom provides the 2D geometry used to lay out and hit-test cards.
//
// # Overview
//
// Three value types cover everything the dealer and the renderers need:
//
//   - [Vector]: an immutable point, displacement or size
//   - [Line]: an implicit line a·x + b·y + c = 0 clipped to its segment
//   - [Rect]: an oriented rectangle built from four boundary lines
//
// All three are values. Transforming a [Line] or [Rect] returns a new value
// that is recomputed from the transformed endpoints, never updated
// incrementally, so repeated rotations do not accumulate drift and a caller
// can undo any transform by keeping the previous value around.
//
// # Intersections
//
// [Line.Intercept] solves the two implicit equations with Cramer's rule and
// clips the result to both segments' bounding boxes with a tolerance of
// [Epsilon]. [Rect.AllIntercepts] collects the crossing points of every pair
// of boundary segments of two rectangles; the dealer uses these as sample
// points when checking that no gap opens inside the deal area.
//
// # Overlap
//
// [Rect.Overlaps] only tests corner containment in both directions. Two
// rectangles that cross like a plus sign, with no corner inside the other,
// are reported as not overlapping. Jitter tuning depends on this behaviour.
package geom
