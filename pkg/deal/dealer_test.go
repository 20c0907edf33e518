package deal

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/cardtable/pkg/anim"
	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
)

func mustDealer(t *testing.T, cfg Config) *Dealer {
	t.Helper()
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestLayoutExample(t *testing.T) {
	d := mustDealer(t, Config{AreaSize: geom.Vec(300, 200), CardSize: geom.Vec(100, 100)})
	cols, rows := d.cfg.MinGrid()
	if cols != 3 || rows != 2 {
		t.Fatalf("MinGrid() = (%d, %d), want (3, 2)", cols, rows)
	}

	l, err := d.Layout(6)
	if err != nil {
		t.Fatalf("Layout(6) error = %v", err)
	}
	if l.Len() != 6 {
		t.Errorf("placements = %d, want 6", l.Len())
	}
	if l.Stats.Seeded != 6 || l.Stats.Extras != 0 {
		t.Errorf("seeded/extras = %d/%d, want 6/0", l.Stats.Seeded, l.Stats.Extras)
	}
	if l.Stats.Margin != (geom.Vector{}) {
		t.Errorf("margin = %s, want (0, 0)", l.Stats.Margin)
	}
	for i, p := range l.Placements {
		if !p.Position.IsFinite() || math.IsNaN(p.Rotation) {
			t.Errorf("placement %d not finite: %+v", i, p)
		}
	}
}

func TestLayoutInsufficientCards(t *testing.T) {
	d := mustDealer(t, Config{AreaSize: geom.Vec(300, 200), CardSize: geom.Vec(100, 100)})
	if _, err := d.Layout(5); !errors.Is(err, errors.ErrCodeInsufficientCards) {
		t.Fatalf("Layout(5) error = %v, want INSUFFICIENT_CARDS", err)
	}

	g := anim.NewGraph(anim.NewLoop())
	cards := newCards(g.Loop(), 5)
	if _, _, err := d.CreateAnimation(g, cards); !errors.Is(err, errors.ErrCodeInsufficientCards) {
		t.Fatalf("CreateAnimation() error = %v, want INSUFFICIENT_CARDS", err)
	}
	if g.Len() != 0 || len(*cards.log) != 0 {
		t.Errorf("side effects before failure: nodes=%d writes=%d", g.Len(), len(*cards.log))
	}
}

func TestLayoutProperties(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		cards int
	}{
		{"exact tiling", Config{AreaSize: geom.Vec(300, 200), CardSize: geom.Vec(100, 100)}, 6},
		{"overlapping grid", Config{AreaSize: geom.Vec(250, 170), CardSize: geom.Vec(100, 80)}, 9},
		{"with extras", Config{AreaSize: geom.Vec(180, 180), CardSize: geom.Vec(100, 100)}, 12},
		{"offset area", Config{AreaPos: geom.Vec(40, -20), AreaSize: geom.Vec(320, 240), CardSize: geom.Vec(90, 120), RotJitter: 25}, 14},
		{"no jitter", Config{AreaSize: geom.Vec(180, 180), CardSize: geom.Vec(100, 100), NoJitter: true}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDealer(t, tt.cfg)
			cfg := d.Config()
			l, err := d.Layout(tt.cards)
			if err != nil {
				t.Fatalf("Layout() error = %v", err)
			}
			if l.Len() != tt.cards {
				t.Fatalf("placements = %d, want %d", l.Len(), tt.cards)
			}

			lo, hi := cfg.AreaPos, cfg.AreaPos.Add(cfg.AreaSize)
			m := cfg.Margin()
			slots := make(map[int]bool)
			for i, p := range l.Placements {
				if !p.Position.IsFinite() {
					t.Errorf("placement %d has non-finite position %s", i, p.Position)
				}
				if p.Rotation < -cfg.RotJitter-1e-9 || p.Rotation > cfg.RotJitter+1e-9 {
					t.Errorf("placement %d rotation %v exceeds ±%v", i, p.Rotation, cfg.RotJitter)
				}
				c := p.Position
				if c.X < lo.X-m.X || c.X > hi.X+m.X || c.Y < lo.Y-m.Y || c.Y > hi.Y+m.Y {
					t.Errorf("placement %d centre %s outside the deal area", i, c)
				}
				if (i >= l.Stats.Seeded) != p.Extra {
					t.Errorf("placement %d: Extra = %v with %d seeded", i, p.Extra, l.Stats.Seeded)
				}
				slots[p.Slot] = true
			}
			if len(slots) != tt.cards {
				t.Errorf("slots are not a permutation: %v", slots)
			}
			if cfg.NoJitter && l.Stats.Trials != 0 {
				t.Errorf("trials = %d with jitter disabled", l.Stats.Trials)
			}
			if !cfg.NoJitter && l.Stats.Trials != cfg.Iterations*tt.cards {
				t.Errorf("trials = %d, want %d", l.Stats.Trials, cfg.Iterations*tt.cards)
			}
			if l.Stats.Accepted+l.Stats.Rejected != l.Stats.Trials {
				t.Errorf("accepted+rejected = %d, trials = %d", l.Stats.Accepted+l.Stats.Rejected, l.Stats.Trials)
			}
		})
	}
}

func TestLayoutKeepsCoverage(t *testing.T) {
	d := mustDealer(t, Config{AreaSize: geom.Vec(180, 180), CardSize: geom.Vec(100, 100), Iterations: 20})
	l, err := d.Layout(12)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if l.Stats.Accepted == 0 {
		t.Error("no trial was accepted")
	}

	cfg := d.Config()
	e := &engine{area: cfg.Area(), rects: l.Rects()}
	e.computeAll()
	if !e.valid() {
		t.Error("final layout leaves an uncovered intersection point")
	}
}

func TestLayoutDeterministic(t *testing.T) {
	cfg := Config{AreaSize: geom.Vec(250, 170), CardSize: geom.Vec(100, 80), Seed: 7}
	a, err := mustDealer(t, cfg).Layout(11)
	if err != nil {
		t.Fatal(err)
	}
	b, err := mustDealer(t, cfg).Layout(11)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different layouts")
	}

	cfg.Seed = 8
	c, err := mustDealer(t, cfg).Layout(11)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a.Placements, c.Placements) {
		t.Error("different seeds produced identical placements")
	}
	if a.ID == c.ID {
		t.Errorf("layout IDs collide across seeds: %s", a.ID)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero area", Config{CardSize: geom.Vec(10, 10)}},
		{"negative card", Config{AreaSize: geom.Vec(10, 10), CardSize: geom.Vec(-1, 10)}},
		{"infinite area", Config{AreaSize: geom.Vec(math.Inf(1), 10), CardSize: geom.Vec(10, 10)}},
		{"rotation too large", Config{AreaSize: geom.Vec(10, 10), CardSize: geom.Vec(10, 10), RotJitter: 120}},
		{"negative jitter", Config{AreaSize: geom.Vec(10, 10), CardSize: geom.Vec(10, 10), TransJitter: -1}},
		{"negative iterations", Config{AreaSize: geom.Vec(10, 10), CardSize: geom.Vec(10, 10), Iterations: -2}},
		{"unknown ease", Config{AreaSize: geom.Vec(10, 10), CardSize: geom.Vec(10, 10), Ease: "wobble"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("New() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	d := mustDealer(t, Config{AreaSize: geom.Vec(250, 170), CardSize: geom.Vec(100, 80)})
	l, err := d.Layout(10)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := l.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.ID != l.ID || got.Len() != l.Len() || got.Stats != l.Stats {
		t.Errorf("ReadFile() = %+v, want %+v", got, l)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}
	if _, err := Unmarshal([]byte("{not json")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Unmarshal(garbage) error = %v", err)
	}
}

// cardGroup is a minimal ElementGroup that records writes with their time.
type cardGroup struct {
	loop  *anim.Loop
	index []int
	log   *[]write
}

type write struct {
	card       int
	at         time.Duration
	transition bool
	params     anim.Params
}

func newCards(loop *anim.Loop, n int) *cardGroup {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return &cardGroup{loop: loop, index: idx, log: new([]write)}
}

func (c *cardGroup) Len() int { return len(c.index) }

func (c *cardGroup) Bind([]any) error { return nil }

func (c *cardGroup) Apply(params []anim.Params) {
	for i, p := range params {
		*c.log = append(*c.log, write{card: c.index[i], at: c.loop.Now(), params: p})
	}
}

func (c *cardGroup) Transition(params []anim.Params, _ anim.Ease, d time.Duration) *anim.Signal {
	for i, p := range params {
		*c.log = append(*c.log, write{card: c.index[i], at: c.loop.Now(), transition: true, params: p})
	}
	return c.loop.Timer(d)
}

func (c *cardGroup) Item(i int) anim.ElementGroup {
	return &cardGroup{loop: c.loop, index: []int{c.index[i]}, log: c.log}
}

func TestCreateAnimation(t *testing.T) {
	d := mustDealer(t, Config{
		AreaSize: geom.Vec(300, 200),
		CardSize: geom.Vec(100, 100),
		Duration: 500 * time.Millisecond,
		Stagger:  100 * time.Millisecond,
	})
	loop := anim.NewLoop()
	g := anim.NewGraph(loop)
	cards := newCards(loop, 8)

	done, l, err := d.CreateAnimation(g, cards)
	if err != nil {
		t.Fatalf("CreateAnimation() error = %v", err)
	}
	if want := 2*8 + 2; g.Len() != want {
		t.Errorf("graph nodes = %d, want %d", g.Len(), want)
	}

	var finished []time.Duration
	done.AddCallback(func() { finished = append(finished, loop.Now()) })
	done.Animate()
	loop.Run()

	if want := 7*100*time.Millisecond + 500*time.Millisecond; len(finished) != 1 || finished[0] != want {
		t.Errorf("completion callbacks = %v, want one at %v", finished, want)
	}

	deck := d.Config().DeckPosition()
	var flights int
	for _, w := range *cards.log {
		if !w.transition {
			if *w.params.Position != deck || w.at != 0 {
				t.Errorf("card %d setup = %v at %v, want deck %s at 0", w.card, w.params, w.at, deck)
			}
			continue
		}
		flights++
		if want := time.Duration(w.card) * 100 * time.Millisecond; w.at != want {
			t.Errorf("card %d left the deck at %v, want %v", w.card, w.at, want)
		}
		if *w.params.Position != l.Placements[w.card].Position {
			t.Errorf("card %d flew to %s, want %s", w.card, *w.params.Position, l.Placements[w.card].Position)
		}
	}
	if flights != 8 {
		t.Errorf("flights = %d, want 8", flights)
	}
}

func TestAnimateCardinalityMismatch(t *testing.T) {
	d := mustDealer(t, Config{AreaSize: geom.Vec(300, 200), CardSize: geom.Vec(100, 100)})
	l, err := d.Layout(6)
	if err != nil {
		t.Fatal(err)
	}
	g := anim.NewGraph(anim.NewLoop())
	if _, err := d.Animate(g, newCards(g.Loop(), 7), l); !errors.Is(err, errors.ErrCodeCardinalityMismatch) {
		t.Errorf("Animate() error = %v, want CARDINALITY_MISMATCH", err)
	}
	if g.Len() != 0 {
		t.Errorf("graph nodes = %d after failure, want 0", g.Len())
	}
}
