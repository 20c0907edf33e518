package sink

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/scene"
)

const cardCSS = `
    .card rect { fill: #fffdf7; stroke: #2b2b2b; stroke-width: 1.5; }
    .card text { font: 14px sans-serif; fill: #2b2b2b; text-anchor: middle; dominant-baseline: middle; }
    .deal-area { fill: none; stroke: #9a9a9a; stroke-dasharray: 6 4; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	frame    *time.Duration
	dealArea bool
	labels   bool
	radius   float64
}

// WithFrameAt renders a static frame at t instead of an animated document.
func WithFrameAt(t time.Duration) SVGOption { return func(r *svgRenderer) { r.frame = &t } }

// WithDealArea outlines the scene's deal area, if it has one.
func WithDealArea() SVGOption { return func(r *svgRenderer) { r.dealArea = true } }

// WithLabels draws each card's bound label at its centre.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithCornerRadius sets the card corner radius in pixels (default 6).
func WithCornerRadius(px float64) SVGOption { return func(r *svgRenderer) { r.radius = px } }

// RenderSVG renders the scene as SVG. By default every recorded segment
// becomes a SMIL animation that starts when the document loads.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{radius: 6}
	for _, opt := range opts {
		opt(&r)
	}

	vp := s.Viewport()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vp.X, vp.Y, vp.X, vp.Y)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardCSS)

	if area, ok := s.DealArea(); ok && r.dealArea {
		lo, hi := area.Bounds()
		fmt.Fprintf(&buf, `  <rect class="deal-area" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			lo.X, lo.Y, hi.X-lo.X, hi.Y-lo.Y)
	}

	for _, c := range s.Cards() {
		r.renderCard(&buf, c)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderCard nests translate and rotate groups so each can be animated
// independently of the size attributes on the rect.
func (r *svgRenderer) renderCard(buf *bytes.Buffer, c *scene.Card) {
	at := time.Duration(0)
	if r.frame != nil {
		at = *r.frame
	}
	st := c.At(at)

	fmt.Fprintf(buf, `  <g id="card-%d" class="card" transform="translate(%.2f %.2f)">`+"\n", c.Index, st.Position.X, st.Position.Y)
	if r.frame == nil {
		for _, seg := range c.Segments {
			animateTransform(buf, "translate", seg,
				fmt.Sprintf("%.2f %.2f", seg.From.Position.X, seg.From.Position.Y),
				fmt.Sprintf("%.2f %.2f", seg.To.Position.X, seg.To.Position.Y))
		}
	}

	fmt.Fprintf(buf, `    <g transform="rotate(%.2f)">`+"\n", st.Rotation)
	if r.frame == nil {
		for _, seg := range c.Segments {
			animateTransform(buf, "rotate", seg,
				fmt.Sprintf("%.2f", seg.From.Rotation),
				fmt.Sprintf("%.2f", seg.To.Rotation))
		}
	}

	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f">`,
		-st.Size.X/2, -st.Size.Y/2, st.Size.X, st.Size.Y, r.radius)
	if r.frame == nil {
		buf.WriteString("\n")
		for _, seg := range c.Segments {
			if seg.From.Size == seg.To.Size {
				continue
			}
			animate(buf, "width", seg, seg.From.Size.X, seg.To.Size.X)
			animate(buf, "height", seg, seg.From.Size.Y, seg.To.Size.Y)
			animate(buf, "x", seg, -seg.From.Size.X/2, -seg.To.Size.X/2)
			animate(buf, "y", seg, -seg.From.Size.Y/2, -seg.To.Size.Y/2)
		}
		buf.WriteString("      ")
	}
	buf.WriteString("</rect>\n")

	if r.labels && c.Label != "" {
		fmt.Fprintf(buf, "      <text>%s</text>\n", html.EscapeString(c.Label))
	}
	buf.WriteString("    </g>\n  </g>\n")
}

// Instant writes become a one-millisecond discrete step so that SMIL orders
// them with the transitions around them.
func timing(seg scene.Segment) (begin, dur string, spline bool) {
	d := seg.Duration
	if d <= 0 {
		d = time.Millisecond
	}
	return fmt.Sprintf("%dms", seg.Start.Milliseconds()), fmt.Sprintf("%dms", max(d.Milliseconds(), 1)), seg.Duration > 0
}

func easing(seg scene.Segment, spline bool) string {
	if !spline {
		return `calcMode="discrete" keyTimes="0;1"`
	}
	ease := seg.Ease
	if ease == "" {
		ease = anim.DefaultEase
	}
	return fmt.Sprintf(`calcMode="spline" keyTimes="0;1" keySplines="%s"`, ease.KeySplines())
}

func animateTransform(buf *bytes.Buffer, typ string, seg scene.Segment, from, to string) {
	if from == to && seg.Duration > 0 {
		return
	}
	begin, dur, spline := timing(seg)
	fmt.Fprintf(buf, `      <animateTransform attributeName="transform" type="%s" from="%s" to="%s" begin="%s" dur="%s" fill="freeze" %s/>`+"\n",
		typ, from, to, begin, dur, easing(seg, spline))
}

func animate(buf *bytes.Buffer, attr string, seg scene.Segment, from, to float64) {
	begin, dur, spline := timing(seg)
	fmt.Fprintf(buf, `        <animate attributeName="%s" from="%.2f" to="%.2f" begin="%s" dur="%s" fill="freeze" %s/>`+"\n",
		attr, from, to, begin, dur, easing(seg, spline))
}
