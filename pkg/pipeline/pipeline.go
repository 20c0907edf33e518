// Package pipeline provides the deal → animate → render pipeline for cardtable.
//
// The CLI and any other front end share this package so that defaults,
// validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Layout: scatter the cards over the deal area with [deal.Dealer]
//  2. Animate: build the animation graph (deal, gather into a grid,
//     optional reflow) over a recorded [scene.Scene]
//  3. Render: produce SVG, PNG, JSON or DOT artifacts
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, err := pipeline.LoadOptions("cardtable.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/cache"
	"github.com/matzehuels/cardtable/pkg/deal"
	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
	"github.com/matzehuels/cardtable/pkg/grid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and library callers
// =============================================================================

const (
	// DefaultCards is the number of cards dealt when none is given.
	DefaultCards = 12

	// DefaultGridDuration is the time the cards take to gather into the grid.
	DefaultGridDuration = 800 * time.Millisecond

	// DefaultPause is the pause between the last card landing and the grid.
	DefaultPause = 1200 * time.Millisecond

	// DefaultPNGScale renders PNG frames at twice the viewport resolution.
	DefaultPNGScale = 2.0
)

// Default geometry, in pixels.
var (
	DefaultViewport = geom.Vec(1200, 800)
	DefaultCardSize = geom.Vec(100, 140)
	DefaultAreaSize = geom.Vec(400, 280)
)

// DefaultGridEase is the easing curve of the grid phase.
const DefaultGridEase = anim.EaseCubicInOut

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
	// FormatGraph is the animation graph drawn by Graphviz, as SVG.
	FormatGraph = "graph"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatGraph: true,
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It is loaded from
// cardtable.toml and overlaid by command-line flags.
type Options struct {
	// Deal options
	Cards    int         `json:"cards" toml:"cards"`
	Labels   []string    `json:"labels,omitempty" toml:"labels"`
	Viewport geom.Vector `json:"viewport" toml:"viewport"`
	Deal     deal.Config `json:"deal" toml:"deal"`

	// Grid phase options
	Grid         grid.Options  `json:"grid" toml:"grid"`
	SkipGrid     bool          `json:"skip_grid,omitempty" toml:"skip_grid"`
	Pause        time.Duration `json:"pause,omitempty" toml:"pause"`
	GridDuration time.Duration `json:"grid_duration,omitempty" toml:"grid_duration"`
	GridEase     anim.Ease     `json:"grid_ease,omitempty" toml:"grid_ease"`
	// Resize reflows the grid into a new viewport once it has formed.
	Resize *geom.Vector `json:"resize,omitempty" toml:"resize"`

	// Render options
	Formats  []string       `json:"formats,omitempty" toml:"formats"`
	DealArea bool           `json:"deal_area,omitempty" toml:"deal_area"`
	ShowText bool           `json:"show_labels,omitempty" toml:"show_labels"`
	FrameAt  *time.Duration `json:"frame_at,omitempty" toml:"frame_at"`
	Scale    float64        `json:"scale,omitempty" toml:"scale"`
	Detailed bool           `json:"detailed,omitempty" toml:"detailed"`

	Cache   CacheOptions `json:"-" toml:"cache"`
	Refresh bool         `json:"-" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`
}

// CacheOptions selects and configures the cache backend.
type CacheOptions struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`

	// Scope namespaces every key, so several tables can share one backend
	// without reusing each other's entries.
	Scope string `toml:"scope"`
}

// Keyer returns the cache key scheme for the configured scope.
func (c CacheOptions) Keyer() cache.Keyer {
	if c.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Scope+":")
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the dealt layout.
	Layout *deal.Layout

	// Animation is the built and completed animation. It is nil when every
	// artifact came from the cache.
	Animation *Animation

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cards      int
	Nodes      int
	Timeline   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Loading
// =============================================================================

// LoadOptions reads a TOML options file. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func LoadOptions(path string) (Options, error) {
	var opts Options
	meta, err := toml.DecodeFile(path, &opts)
	if os.IsNotExist(err) {
		return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// WriteOptions encodes opts as TOML.
func WriteOptions(w io.Writer, opts Options) error {
	return toml.NewEncoder(w).Encode(opts)
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json, dot, graph)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats parses a comma-separated format list.
func ParseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero-valued fields. The deal area defaults to
// DefaultAreaSize centred in the viewport and the deck to the bottom centre
// of the viewport.
func (o *Options) SetDefaults() {
	if o.Cards == 0 {
		o.Cards = DefaultCards
	}
	if o.Viewport == (geom.Vector{}) {
		o.Viewport = DefaultViewport
	}
	if o.Deal.CardSize == (geom.Vector{}) {
		o.Deal.CardSize = DefaultCardSize
	}
	if o.Deal.AreaSize == (geom.Vector{}) {
		o.Deal.AreaSize = DefaultAreaSize
		if o.Deal.AreaPos == (geom.Vector{}) {
			o.Deal.AreaPos = o.Viewport.Sub(o.Deal.AreaSize).Scale(0.5)
		}
	}
	if o.Deal.Deck == nil {
		deck := geom.Vec(o.Viewport.X/2, o.Viewport.Y-o.Deal.CardSize.Y/2)
		o.Deal.Deck = &deck
	}
	o.Deal.SetDefaults()

	if o.Grid.Viewport == (geom.Vector{}) {
		o.Grid.Viewport = o.Viewport
	}
	if o.Grid.CardSize == (geom.Vector{}) {
		o.Grid.CardSize = o.Deal.CardSize
	}
	o.Grid.SetDefaults()
	if o.Pause == 0 {
		o.Pause = DefaultPause
	}
	if o.GridDuration == 0 {
		o.GridDuration = DefaultGridDuration
	}
	if o.GridEase == "" {
		o.GridEase = DefaultGridEase
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Cache.Backend == "" {
		o.Cache.Backend = CacheFile
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate checks the options. Call SetDefaults first.
func (o *Options) Validate() error {
	if o.Cards < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cards must be non-negative, got %d", o.Cards)
	}
	if len(o.Labels) > 0 && len(o.Labels) != o.Cards {
		return errors.New(errors.ErrCodeCardinalityMismatch,
			"%d labels given for %d cards", len(o.Labels), o.Cards)
	}
	for _, label := range o.Labels {
		if err := errors.ValidateCardLabel(label); err != nil {
			return err
		}
	}
	if !o.Viewport.IsFinite() || o.Viewport.X <= 0 || o.Viewport.Y <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport must be positive, got %s", o.Viewport)
	}
	if err := o.Deal.Validate(); err != nil {
		return err
	}
	if err := o.Grid.Validate(); err != nil {
		return err
	}
	if o.Resize != nil && (!o.Resize.IsFinite() || o.Resize.X <= 0 || o.Resize.Y <= 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "resize viewport must be positive, got %s", *o.Resize)
	}
	if o.Pause < 0 || o.GridDuration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations must be non-negative")
	}
	if _, err := anim.ParseEase(string(o.GridEase)); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", o.Scale)
	}
	switch o.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid cache backend: %q (must be one of: file, redis, none)", o.Cache.Backend)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Cards: o.Cards, Seed: o.Deal.Seed}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Viewport.X,
		Height:   o.Viewport.Y,
		Resize:   o.Resize != nil,
		Labels:   o.ShowText,
		DealArea: o.DealArea,
		Detailed: o.Detailed,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if o.FrameAt != nil {
		k.Still = true
		k.FrameNS = o.FrameAt.Nanoseconds()
	}
	return k
}

// animationKey holds every option that shapes the animation after the layout.
type animationKey struct {
	Labels       []string      `json:"labels,omitempty"`
	Grid         grid.Options  `json:"grid"`
	SkipGrid     bool          `json:"skip_grid"`
	Pause        time.Duration `json:"pause"`
	GridDuration time.Duration `json:"grid_duration"`
	GridEase     anim.Ease     `json:"grid_ease"`
	Resize       *geom.Vector  `json:"resize,omitempty"`
}

// artifactHash identifies the animation rendered from layout l.
func (o *Options) artifactHash(l *deal.Layout) string {
	h, err := cache.HashJSON(struct {
		Layout    string       `json:"layout"`
		Animation animationKey `json:"animation"`
	}{
		Layout: l.ID,
		Animation: animationKey{
			Labels:       o.Labels,
			Grid:         o.Grid,
			SkipGrid:     o.SkipGrid,
			Pause:        o.Pause,
			GridDuration: o.GridDuration,
			GridEase:     o.GridEase,
			Resize:       o.Resize,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("pipeline: hash animation options: %v", err))
	}
	return h
}
