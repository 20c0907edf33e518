package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/pipeline"
)

// defaultOutput is the base path artifacts are written to.
const defaultOutput = "cardtable"

// dealOpts holds the command-line flags for the deal command.
type dealOpts struct {
	table      tableFlags
	output     string        // base output path, "-" for stdout
	formats    string        // comma-separated output formats
	dealArea   bool          // outline the deal area
	showLabels bool          // draw card labels
	frame      time.Duration // render a still frame at this time
	scale      float64       // PNG pixel scale
	detailed   bool          // detailed DAG node labels
}

// dealCommand creates the deal command that runs the full pipeline and
// writes one artifact per format.
func (c *CLI) dealCommand() *cobra.Command {
	var o dealOpts

	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Deal cards and render the animation",
		Long: `Deal cards over the deal area, animate them from the deck into place and
gather them into a grid. Writes one file per requested format:

  svg    animated SVG of the whole timeline (or one frame with --frame)
  png    still frame, the final state unless --frame is given
  json   recorded per-card timelines
  dot    Graphviz source of the animation graph
  graph  the animation graph rendered to SVG`,
		Example: `  cardtable deal -n 16 --seed 7 -f svg,png
  cardtable deal --labels A,K,Q,J --show-labels --deal-area
  cardtable deal --resize 600x900 -o out/table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := o.options(cmd)
			if err != nil {
				return err
			}
			return c.runDeal(cmd.Context(), opts, o.output, o.table.noCache)
		},
	}

	o.table.register(cmd)
	cmd.Flags().StringVarP(&o.output, "output", "o", defaultOutput, "output base path (\"-\" writes a single format to stdout)")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): svg (default), png, json, dot, graph (comma-separated)")
	cmd.Flags().BoolVar(&o.dealArea, "deal-area", false, "outline the deal area")
	cmd.Flags().BoolVar(&o.showLabels, "show-labels", false, "draw card labels")
	cmd.Flags().DurationVar(&o.frame, "frame", 0, "render a still frame at this time (e.g. 750ms)")
	cmd.Flags().Float64Var(&o.scale, "scale", pipeline.DefaultPNGScale, "PNG pixel scale")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "show timings in graph nodes")

	return cmd
}

func (o *dealOpts) options(cmd *cobra.Command) (pipeline.Options, error) {
	opts, err := o.table.options(cmd)
	if err != nil {
		return pipeline.Options{}, err
	}

	fs := cmd.Flags()
	if fs.Changed("format") {
		opts.Formats = pipeline.ParseFormats(o.formats)
	}
	if fs.Changed("deal-area") {
		opts.DealArea = o.dealArea
	}
	if fs.Changed("show-labels") {
		opts.ShowText = o.showLabels
	}
	if fs.Changed("frame") {
		frame := o.frame
		opts.FrameAt = &frame
	}
	if fs.Changed("scale") {
		opts.Scale = o.scale
	}
	if fs.Changed("detailed") {
		opts.Detailed = o.detailed
	}
	return opts, nil
}

func (c *CLI) runDeal(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	opts.Logger = c.Logger
	opts.SetDefaults()
	if output == "-" && len(opts.Formats) != 1 {
		return fmt.Errorf("writing to stdout needs exactly one format, got %d", len(opts.Formats))
	}

	runner := c.newRunner(ctx, opts.Cache, noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Dealing %d cards...", opts.Cards))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	base := basePath(output)
	if err := errors.ValidateOutputPath(base); err != nil {
		return err
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	printSuccess("Dealt %d cards", result.Stats.Cards)
	printStats(result.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	for _, format := range slices.Sorted(maps.Keys(result.Artifacts)) {
		path := outputPath(base, format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printNewline()
	printNextStep("Watch it in the terminal", fmt.Sprintf("%s play -n %d --seed %d", appName, opts.Cards, opts.Deal.Seed))
	return nil
}

// formatExt maps output formats to file extensions.
var formatExt = map[string]string{
	pipeline.FormatSVG:   ".svg",
	pipeline.FormatPNG:   ".png",
	pipeline.FormatJSON:  ".json",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatGraph: ".graph.svg",
}

// basePath strips a known format extension from output so that
// "-o table.svg -f svg,png" writes table.svg and table.png.
func basePath(output string) string {
	if output == "" {
		return defaultOutput
	}
	for _, ext := range []string{".graph.svg", ".svg", ".png", ".json", ".dot"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPath returns the file an artifact of format is written to.
func outputPath(base, format string) string {
	if ext, ok := formatExt[format]; ok {
		return base + ext
	}
	return base + "." + format
}
