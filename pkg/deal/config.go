package deal

import (
	"math"
	"time"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
)

const (
	// DefaultTransJitter scales the maximum translation per trial, as a
	// fraction of half the card's width plus height.
	DefaultTransJitter = 0.25

	// DefaultRotJitter is the maximum absolute card rotation in degrees.
	DefaultRotJitter = 10.0

	// DefaultIterations is the number of passes over every card.
	DefaultIterations = 10

	// DefaultDealDuration is the flight time of a single card.
	DefaultDealDuration = 600 * time.Millisecond

	// DefaultStagger is the delay between consecutive cards leaving the deck.
	DefaultStagger = 80 * time.Millisecond

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// DefaultEase is the easing curve of the card flight.
const DefaultEase = anim.EaseCubicOut

// Config describes the deal area, the cards and the jitter parameters.
type Config struct {
	// AreaPos is the top-left corner of the deal area.
	AreaPos geom.Vector `json:"area_pos" toml:"area_pos"`
	// AreaSize is the size of the deal area.
	AreaSize geom.Vector `json:"area_size" toml:"area_size"`
	// CardSize is the size of every card.
	CardSize geom.Vector `json:"card_size" toml:"card_size"`

	TransJitter float64 `json:"trans_jitter,omitempty" toml:"trans_jitter"`
	RotJitter   float64 `json:"rot_jitter,omitempty" toml:"rot_jitter"` // degrees
	Iterations  int     `json:"iterations,omitempty" toml:"iterations"`
	NoJitter    bool    `json:"no_jitter,omitempty" toml:"no_jitter"`
	Seed        uint64  `json:"seed,omitempty" toml:"seed"`

	// Deck is the centre of the stacked deck cards fly from. When nil the
	// deck sits centred one card height below the deal area.
	Deck *geom.Vector `json:"deck,omitempty" toml:"deck"`

	Duration time.Duration `json:"duration,omitempty" toml:"duration"`
	Stagger  time.Duration `json:"stagger,omitempty" toml:"stagger"`
	Ease     anim.Ease     `json:"ease,omitempty" toml:"ease"`
}

// SetDefaults fills zero-valued fields with their defaults.
func (c *Config) SetDefaults() {
	if c.TransJitter == 0 {
		c.TransJitter = DefaultTransJitter
	}
	if c.RotJitter == 0 {
		c.RotJitter = DefaultRotJitter
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Duration == 0 {
		c.Duration = DefaultDealDuration
	}
	if c.Stagger == 0 {
		c.Stagger = DefaultStagger
	}
	if c.Ease == "" {
		c.Ease = DefaultEase
	}
}

// Validate checks the configuration. Call SetDefaults first.
func (c *Config) Validate() error {
	if !positive(c.AreaSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "deal area size must be positive, got %s", c.AreaSize)
	}
	if !positive(c.CardSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "card size must be positive, got %s", c.CardSize)
	}
	if !c.AreaPos.IsFinite() {
		return errors.New(errors.ErrCodeInvalidConfig, "deal area position must be finite, got %s", c.AreaPos)
	}
	if c.TransJitter < 0 || math.IsNaN(c.TransJitter) {
		return errors.New(errors.ErrCodeInvalidConfig, "trans_jitter must be non-negative, got %g", c.TransJitter)
	}
	if c.RotJitter < 0 || c.RotJitter > 90 || math.IsNaN(c.RotJitter) {
		return errors.New(errors.ErrCodeInvalidConfig, "rot_jitter must be within [0, 90] degrees, got %g", c.RotJitter)
	}
	if c.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must be non-negative, got %d", c.Iterations)
	}
	if c.Duration < 0 || c.Stagger < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations must be non-negative")
	}
	if _, err := anim.ParseEase(string(c.Ease)); err != nil {
		return err
	}
	return nil
}

// MinGrid returns the number of card columns and rows needed to cover the
// deal area edge to edge.
func (c Config) MinGrid() (cols, rows int) {
	g := c.AreaSize.Div(c.CardSize).Ceil()
	return int(g.X), int(g.Y)
}

// Margin returns the overlap between neighbouring seed cards, which is also
// how far the seed grid overhangs each edge of the deal area.
func (c Config) Margin() geom.Vector {
	cols, rows := c.MinGrid()
	g := geom.Vec(float64(cols), float64(rows))
	return g.Mul(c.CardSize).Sub(c.AreaSize).Div(g.Add(geom.Vec(1, 1)))
}

// Area returns the deal area as a rectangle.
func (c Config) Area() geom.Rect {
	return geom.RectFromMin(c.AreaPos, c.AreaSize)
}

// DeckPosition returns the centre of the stacked deck.
func (c Config) DeckPosition() geom.Vector {
	if c.Deck != nil {
		return *c.Deck
	}
	return geom.Vec(c.AreaPos.X+c.AreaSize.X/2, c.AreaPos.Y+c.AreaSize.Y+c.CardSize.Y)
}

func positive(v geom.Vector) bool {
	return v.IsFinite() && v.X > 0 && v.Y > 0
}
