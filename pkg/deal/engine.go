package deal

import (
	"math/rand/v2"

	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
)

// engine scatters cards by greedy hill-climbing over random trial moves.
//
// A trial is kept only if every cached boundary intersection strictly inside
// the deal area is still covered by some card other than the two that
// produced it. Rects are values rebuilt from centre, size and total angle,
// so restoring the saved value undoes a rejected trial exactly.
type engine struct {
	area     geom.Rect
	lo, hi   geom.Vector
	cardSize geom.Vector

	rects  []geom.Rect
	placed []Placement
	seeded int

	// points[i*n+j] holds AllIntercepts(rects[i], rects[j]) for i < j.
	points [][]geom.Vector

	maxShift  float64
	rotJitter float64 // degrees
	rng       *rand.Rand
	stats     Stats
}

func newEngine(cfg *Config, n int, rng *rand.Rand) (*engine, error) {
	cols, rows := cfg.MinGrid()
	if cols*rows > n {
		return nil, errors.New(errors.ErrCodeInsufficientCards,
			"a %gx%g deal area needs %dx%d=%d cards of size %gx%g, only %d given",
			cfg.AreaSize.X, cfg.AreaSize.Y, cols, rows, cols*rows, cfg.CardSize.X, cfg.CardSize.Y, n)
	}
	e := &engine{
		area:      cfg.Area(),
		lo:        cfg.AreaPos,
		hi:        cfg.AreaPos.Add(cfg.AreaSize),
		cardSize:  cfg.CardSize,
		rects:     make([]geom.Rect, 0, n),
		placed:    make([]Placement, 0, n),
		maxShift:  0.5 * (cfg.CardSize.X + cfg.CardSize.Y) * cfg.TransJitter,
		rotJitter: cfg.RotJitter,
		rng:       rng,
	}
	e.stats.MinGrid = [2]int{cols, rows}
	e.stats.Margin = cfg.Margin()
	e.seed(cols, rows, n)
	e.stats.Seeded = e.seeded
	e.stats.Extras = n - e.seeded
	e.computeAll()
	return e, nil
}

// seed lays out the covering grid, then scatters the remaining cards.
func (e *engine) seed(cols, rows, n int) {
	margin := e.stats.Margin
	half := e.cardSize.Scale(0.5)
	stride := e.cardSize.Sub(margin)
	for y := range rows {
		for x := range cols {
			center := e.lo.Sub(margin).Add(geom.Vec(float64(x), float64(y)).Mul(stride)).Add(half)
			e.add(center, 0, false)
		}
	}
	e.seeded = len(e.rects)

	for len(e.rects) < n {
		center := e.lo.Add(geom.Vec(e.rng.Float64(), e.rng.Float64()).Mul(e.hi.Sub(e.lo)))
		e.add(center, e.uniform(e.rotJitter), true)
	}
}

func (e *engine) add(center geom.Vector, rot float64, extra bool) {
	e.rects = append(e.rects, geom.NewRectAt(center, e.cardSize, geom.Radians(rot)))
	e.placed = append(e.placed, Placement{
		Slot:     len(e.placed),
		Position: center,
		Rotation: rot,
		Extra:    extra,
	})
}

// uniform returns a value in [-r, r).
func (e *engine) uniform(r float64) float64 {
	return (e.rng.Float64()*2 - 1) * r
}

func (e *engine) key(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return i*len(e.rects) + j
}

func (e *engine) computeAll() {
	n := len(e.rects)
	e.points = make([][]geom.Vector, n*n)
	for i := range n {
		for j := i + 1; j < n; j++ {
			e.points[i*n+j] = e.rects[i].AllIntercepts(e.rects[j])
		}
	}
}

// recompute refreshes only the pairs that involve v, with the lower index
// first as in computeAll.
func (e *engine) recompute(v int) {
	for j := range e.rects {
		if j != v {
			lo, hi := min(v, j), max(v, j)
			e.points[e.key(lo, hi)] = e.rects[lo].AllIntercepts(e.rects[hi])
		}
	}
}

// snapshot returns the cached point slices for every pair involving v.
// recompute replaces slices rather than mutating them, so the headers are
// enough to restore.
func (e *engine) snapshot(v int) [][]geom.Vector {
	saved := make([][]geom.Vector, len(e.rects))
	for j := range e.rects {
		if j != v {
			saved[j] = e.points[e.key(v, j)]
		}
	}
	return saved
}

func (e *engine) restore(v int, saved [][]geom.Vector) {
	for j := range e.rects {
		if j != v {
			e.points[e.key(v, j)] = saved[j]
		}
	}
}

// valid reports whether every intersection point strictly inside the deal
// area is covered by a card other than the pair that produced it.
func (e *engine) valid() bool {
	n := len(e.rects)
	for i := range n {
		for j := i + 1; j < n; j++ {
			for _, p := range e.points[i*n+j] {
				if !e.area.ContainsPointStrict(p) {
					continue
				}
				if !e.covered(p, i, j) {
					return false
				}
			}
		}
	}
	return true
}

func (e *engine) covered(p geom.Vector, i, j int) bool {
	for k, r := range e.rects {
		if k != i && k != j && r.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// try applies a translation and a rotation in degrees to card v, keeps the
// move if coverage still holds and restores the previous state otherwise.
func (e *engine) try(v int, delta geom.Vector, rot float64) bool {
	e.stats.Trials++
	saved := e.rects[v]
	savedPoints := e.snapshot(v)

	p := &e.placed[v]
	pos, total := p.Position.Add(delta), p.Rotation+rot
	e.rects[v] = geom.NewRectAt(pos, saved.Size(), geom.Radians(total))
	e.recompute(v)

	if !e.valid() {
		e.rects[v] = saved
		e.restore(v, savedPoints)
		e.stats.Rejected++
		return false
	}
	p.Position, p.Rotation = pos, total
	e.stats.Accepted++
	return true
}

// propose draws a random move for v. The translation keeps the card's centre
// inside the deal area and the rotation keeps its total angle within
// ±rotJitter.
func (e *engine) propose(v int) (geom.Vector, float64) {
	center := e.rects[v].Center()
	delta := geom.Vec(e.uniform(e.maxShift), e.uniform(e.maxShift))
	delta = center.Add(delta).Clamp(e.lo, e.hi).Sub(center)

	total := e.placed[v].Rotation
	rot := max(-e.rotJitter, min(total+e.uniform(e.rotJitter), e.rotJitter)) - total
	return delta, rot
}

func (e *engine) jitter(iterations int) {
	for range iterations {
		for v := range e.rects {
			delta, rot := e.propose(v)
			e.try(v, delta, rot)
		}
	}
}

// shuffleSeeded permutes the arrival order of the covering cards. Extras
// stay at the end.
func (e *engine) shuffleSeeded() {
	e.rng.Shuffle(e.seeded, func(i, j int) {
		e.placed[i], e.placed[j] = e.placed[j], e.placed[i]
		e.rects[i], e.rects[j] = e.rects[j], e.rects[i]
	})
}
