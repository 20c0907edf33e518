package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/pipeline"
	"github.com/matzehuels/cardtable/pkg/render/nodelink"
)

const (
	graphFormatDOT = "dot"
	graphFormatSVG = "svg"
	graphFormatPNG = "png"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	table    tableFlags
	output   string // output file, stdout when empty
	format   string // dot, svg or png
	detailed bool   // show timings and eases on nodes
}

// graphCommand creates the graph command that draws the animation DAG.
func (c *CLI) graphCommand() *cobra.Command {
	o := graphOpts{format: graphFormatDOT}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the animation graph of a deal",
		Long: `Build the animation for a deal and draw its dependency graph: one node per
step, callback and delay, with an edge from every node to the nodes that wait
for it. Writes Graphviz source by default, or lays it out with Graphviz.`,
		Example: `  cardtable graph -n 6 | dot -Tsvg > graph.svg
  cardtable graph -n 6 --format svg --detailed -o graph.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch o.format {
			case graphFormatDOT, graphFormatSVG, graphFormatPNG:
			default:
				return fmt.Errorf("invalid format: %s (must be 'dot', 'svg' or 'png')", o.format)
			}
			if o.output != "" {
				if err := errors.ValidateOutputPath(o.output); err != nil {
					return err
				}
			}
			opts, err := o.table.options(cmd)
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), opts, &o)
		},
	}

	o.table.register(cmd)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", o.format, "output format: dot (default), svg, png")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "show start times, durations and eases")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts pipeline.Options, o *graphOpts) error {
	opts.Logger = c.Logger
	runner := c.newRunner(ctx, opts.Cache, o.table.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	l, err := runner.Layout(ctx, opts)
	if err != nil {
		return err
	}
	a, err := runner.Animate(ctx, opts, l)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built animation graph with %d nodes", a.Graph.Len()))

	dot := nodelink.ToDOT(a.Graph, nodelink.Options{Detailed: o.detailed})
	var data []byte
	switch o.format {
	case graphFormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case graphFormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	default:
		data = []byte(dot)
	}
	if err != nil {
		return err
	}

	out, err := openOutput(o.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if o.output != "" {
		printSuccess("Wrote animation graph")
		printFile(o.output)
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
