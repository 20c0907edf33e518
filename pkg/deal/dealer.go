package deal

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cardtable/pkg/errors"
)

// Dealer computes card layouts and builds the animation that deals them.
type Dealer struct {
	cfg    Config
	logger *log.Logger
}

// Option configures a Dealer.
type Option func(*Dealer)

// WithLogger sets the logger used for per-deal summaries.
func WithLogger(l *log.Logger) Option {
	return func(d *Dealer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New applies defaults to cfg, validates it and returns a dealer.
func New(cfg Config, opts ...Option) (*Dealer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Dealer{cfg: cfg, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the dealer's configuration with defaults applied.
func (d *Dealer) Config() Config { return d.cfg }

// Layout scatters n cards over the deal area.
//
// The first cols×rows cards form a grid that covers the area; it fails with
// INSUFFICIENT_CARDS when n is smaller. Remaining cards are placed at random.
// Every card then goes through the jitter passes, and finally the order of
// the covering cards is shuffled so they arrive in random order.
//
// The same configuration and n always yield the same layout.
func (d *Dealer) Layout(n int) (*Layout, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "card count must be non-negative, got %d", n)
	}
	rng := rand.New(rand.NewPCG(d.cfg.Seed, d.cfg.Seed^0xdeadbeef))
	e, err := newEngine(&d.cfg, n, rng)
	if err != nil {
		return nil, err
	}
	if !d.cfg.NoJitter {
		e.jitter(d.cfg.Iterations)
	}
	e.shuffleSeeded()

	l := &Layout{
		ID:         d.layoutID(n),
		AreaPos:    d.cfg.AreaPos,
		AreaSize:   d.cfg.AreaSize,
		CardSize:   d.cfg.CardSize,
		Seed:       d.cfg.Seed,
		Placements: e.placed,
		Stats:      e.stats,
	}
	d.logger.Debug("dealt cards",
		"cards", n,
		"grid", fmt.Sprintf("%dx%d", e.stats.MinGrid[0], e.stats.MinGrid[1]),
		"extras", e.stats.Extras,
		"accepted", e.stats.Accepted,
		"rejected", e.stats.Rejected)
	return l, nil
}

// layoutID derives a stable UUID from everything that determines a layout.
func (d *Dealer) layoutID(n int) string {
	key, _ := json.Marshal(struct {
		Config Config `json:"config"`
		Cards  int    `json:"cards"`
	}{d.cfg, n})
	return uuid.NewSHA1(uuid.NameSpaceURL, append([]byte("cardtable:layout:"), key...)).String()
}
