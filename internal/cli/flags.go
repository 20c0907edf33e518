package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
	"github.com/matzehuels/cardtable/pkg/pipeline"
)

// tableFlags holds the flags shared by every command that deals cards.
// Flags only override the options file when they were set explicitly.
type tableFlags struct {
	config   string   // TOML options file
	cards    int      // number of cards
	seed     uint64   // jitter seed
	labels   []string // one label per card
	viewport string   // WxH
	resize   string   // WxH viewport to reflow the grid into
	mobile   bool     // single-column grid
	noGrid   bool     // stop after the deal
	noJitter bool     // keep the seeded grid untouched
	noCache  bool     // bypass the cache entirely
	refresh  bool     // recompute and overwrite cached results
}

func (f *tableFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "options file (default ./"+defaultConfigFile+" when present)")
	fs.IntVarP(&f.cards, "cards", "n", pipeline.DefaultCards, "number of cards to deal")
	fs.Uint64Var(&f.seed, "seed", 0, "jitter seed")
	fs.StringSliceVar(&f.labels, "labels", nil, "card labels, one per card (comma-separated)")
	fs.StringVar(&f.viewport, "viewport", "", "viewport size as WxH")
	fs.StringVar(&f.resize, "resize", "", "reflow the grid into a WxH viewport after it forms")
	fs.BoolVar(&f.mobile, "mobile", false, "use the single-column mobile grid")
	fs.BoolVar(&f.noGrid, "no-grid", false, "stop after the deal")
	fs.BoolVar(&f.noJitter, "no-jitter", false, "place cards on the seed grid without jitter")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")
}

// options loads the options file and applies every flag the user set.
func (f *tableFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	opts, err := loadOptions(f.config)
	if err != nil {
		return pipeline.Options{}, err
	}

	fs := cmd.Flags()
	if fs.Changed("labels") {
		opts.Labels = f.labels
		if !fs.Changed("cards") {
			opts.Cards = len(f.labels)
		}
	}
	switch {
	case fs.Changed("cards"):
		opts.Cards = f.cards
	case opts.Cards == 0 && len(opts.Labels) > 0:
		opts.Cards = len(opts.Labels)
	case opts.Cards == 0:
		opts.Cards = f.cards
	}
	if fs.Changed("seed") {
		opts.Deal.Seed = f.seed
	}
	if fs.Changed("viewport") {
		v, err := parseSize(f.viewport)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Viewport = v
	}
	if fs.Changed("resize") {
		v, err := parseSize(f.resize)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Resize = &v
	}
	if fs.Changed("mobile") {
		opts.Grid.Mobile = f.mobile
	}
	if fs.Changed("no-grid") {
		opts.SkipGrid = f.noGrid
	}
	if fs.Changed("no-jitter") {
		opts.Deal.NoJitter = f.noJitter
	}
	opts.Refresh = f.refresh
	return opts, nil
}

// parseSize parses a "WxH" size such as "1024x768".
func parseSize(s string) (geom.Vector, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geom.Vector{}, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want WxH)", s)
	}
	x, errW := strconv.ParseFloat(w, 64)
	y, errH := strconv.ParseFloat(h, 64)
	if errW != nil || errH != nil || x <= 0 || y <= 0 {
		return geom.Vector{}, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want positive WxH)", s)
	}
	return geom.Vec(x, y), nil
}
