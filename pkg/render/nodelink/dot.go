package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cardtable/pkg/anim"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds duration, ease and item count to node labels.
	// When false, only the node label (or id) is shown.
	Detailed bool
}

// ToDOT converts an animation graph to Graphviz DOT format. Edges point from
// a predecessor to the node that waits for it.
//
// Delay nodes are drawn dashed and grey so the gating structure stands out
// from the nodes that actually move cards.
func ToDOT(g *anim.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for _, p := range n.Predecessors() {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", p.ID(), n.ID())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n anim.Node, detailed bool) string {
	label := n.Label()
	if label == "" {
		label = fmt.Sprintf("#%d", n.ID())
	}
	if !detailed {
		return label
	}

	parts := []string{n.Duration().String()}
	if !n.IsDelay() {
		parts = append(parts, string(n.Ease()), fmt.Sprintf("items: %d", n.Elements().Len()))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n anim.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsDelay() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
