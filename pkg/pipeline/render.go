package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/render/nodelink"
	"github.com/matzehuels/cardtable/pkg/render/sink"
)

// RenderAnimation generates output artifacts in the requested formats.
// The animation should have been run so that its scene is fully recorded.
func RenderAnimation(ctx context.Context, a *Animation, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(a.Scene, buildSVGOptions(opts)...)
		case FormatPNG:
			t := a.Scene.Duration()
			if opts.FrameAt != nil {
				t = *opts.FrameAt
			}
			data, err = sink.RenderPNG(a.Scene, t, buildPNGOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(a.Scene)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(a.Graph, nodelink.Options{Detailed: opts.Detailed}))
		case FormatGraph:
			dot := nodelink.ToDOT(a.Graph, nodelink.Options{Detailed: opts.Detailed})
			data, err = nodelink.RenderSVG(ctx, dot)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.FrameAt != nil {
		svgOpts = append(svgOpts, sink.WithFrameAt(*opts.FrameAt))
	}
	if opts.DealArea {
		svgOpts = append(svgOpts, sink.WithDealArea())
	}
	if opts.ShowText {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.DealArea {
		pngOpts = append(pngOpts, sink.WithPNGDealArea())
	}
	return pngOpts
}
