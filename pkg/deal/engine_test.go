package deal

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/matzehuels/cardtable/pkg/geom"
)

// newTestEngine builds an engine over explicit axis-aligned cards.
func newTestEngine(areaPos, areaSize geom.Vector, centers, sizes []geom.Vector) *engine {
	e := &engine{
		area:      geom.RectFromMin(areaPos, areaSize),
		lo:        areaPos,
		hi:        areaPos.Add(areaSize),
		rotJitter: DefaultRotJitter,
		rng:       rand.New(rand.NewPCG(1, 1^0xdeadbeef)),
	}
	for i, c := range centers {
		e.rects = append(e.rects, geom.NewRect(c, sizes[i]))
		e.placed = append(e.placed, Placement{Slot: i, Position: c})
	}
	e.seeded = len(e.rects)
	e.computeAll()
	return e
}

// threeCards: A and B cover the left and right of a 200x100 area, overlapping
// in x ∈ [90, 110]; C sits across the seam.
func threeCards() *engine {
	return newTestEngine(
		geom.Vec(0, 0), geom.Vec(200, 100),
		[]geom.Vector{geom.Vec(50, 50), geom.Vec(150, 50), geom.Vec(100, 50)},
		[]geom.Vector{geom.Vec(120, 120), geom.Vec(120, 120), geom.Vec(60, 60)},
	)
}

func TestEngineRejectsUncoveringTrial(t *testing.T) {
	e := threeCards()
	if !e.valid() {
		t.Fatal("initial configuration should be valid")
	}

	beforeRect := e.rects[0]
	beforePlaced := e.placed[0]
	beforePoints := make([][]geom.Vector, len(e.points))
	copy(beforePoints, e.points)

	// Moving A left exposes the strip between x=80 and x=90 where only C's
	// boundary remains.
	if e.try(0, geom.Vec(-30, 0), 2) {
		t.Fatal("trial that opens a gap was accepted")
	}

	if e.rects[0] != beforeRect {
		t.Errorf("rect after rollback = %+v, want %+v", e.rects[0], beforeRect)
	}
	if e.rects[0].Center() != geom.Vec(50, 50) || e.rects[0].Angle() != 0 {
		t.Errorf("centre/angle after rollback = %s/%v", e.rects[0].Center(), e.rects[0].Angle())
	}
	if e.placed[0] != beforePlaced {
		t.Errorf("placement changed by rejected trial: %+v", e.placed[0])
	}
	if !reflect.DeepEqual(e.points, beforePoints) {
		t.Error("intersection cache not restored after rollback")
	}
	if e.stats.Rejected != 1 || e.stats.Accepted != 0 {
		t.Errorf("stats = %+v", e.stats)
	}
}

func TestEngineAcceptsCoveredTrial(t *testing.T) {
	e := threeCards()
	if !e.try(2, geom.Vec(0, 5), 0) {
		t.Fatal("harmless trial was rejected")
	}
	if got, want := e.placed[2].Position, geom.Vec(100, 55); got != want {
		t.Errorf("committed position = %s, want %s", got, want)
	}
	if !e.try(2, geom.Vec(2, 0), 3) {
		t.Fatal("second harmless trial was rejected")
	}
	if got, want := e.placed[2].Position, geom.Vec(102, 55); got != want {
		t.Errorf("accumulated position = %s, want %s", got, want)
	}
	if e.placed[2].Rotation != 3 {
		t.Errorf("accumulated rotation = %v, want 3", e.placed[2].Rotation)
	}
	if e.rects[2].Center() != geom.Vec(102, 55) {
		t.Errorf("rect centre = %s, want (102, 55)", e.rects[2].Center())
	}
}

func TestEngineIncrementalCacheMatchesFull(t *testing.T) {
	e := threeCards()
	e.try(2, geom.Vec(-4, 6), 5)
	e.try(1, geom.Vec(3, 0), -2)

	incremental := make([][]geom.Vector, len(e.points))
	copy(incremental, e.points)
	e.computeAll()
	if !reflect.DeepEqual(incremental, e.points) {
		t.Error("incremental intersection cache diverged from full recomputation")
	}
}

func TestEngineProposeStaysInBounds(t *testing.T) {
	e := threeCards()
	e.maxShift = 500
	for range 200 {
		for v := range e.rects {
			delta, rot := e.propose(v)
			c := e.rects[v].Center().Add(delta)
			if c.X < e.lo.X || c.X > e.hi.X || c.Y < e.lo.Y || c.Y > e.hi.Y {
				t.Fatalf("proposed centre %s outside deal area", c)
			}
			total := e.placed[v].Rotation + rot
			if total < -e.rotJitter-1e-9 || total > e.rotJitter+1e-9 {
				t.Fatalf("proposed total rotation %v exceeds ±%v", total, e.rotJitter)
			}
			e.try(v, delta, rot)
		}
	}
}

func TestSeedGridCoversArea(t *testing.T) {
	cfg := Config{AreaSize: geom.Vec(250, 170), CardSize: geom.Vec(100, 80)}
	cfg.SetDefaults()
	e, err := newEngine(&cfg, 9, rand.New(rand.NewPCG(3, 3)))
	if err != nil {
		t.Fatalf("newEngine() error = %v", err)
	}
	if e.seeded != 9 {
		t.Fatalf("seeded = %d, want 9", e.seeded)
	}
	// Every interior sample point of the area must lie in some seed card.
	for x := 1.0; x < 250; x += 7 {
		for y := 1.0; y < 170; y += 7 {
			p := geom.Vec(x, y)
			if !e.covered(p, -1, -1) {
				t.Fatalf("point %s not covered by the seed grid", p)
			}
		}
	}
	lo, hi := e.rects[0].Bounds()
	m := cfg.Margin()
	if lo.X != -m.X || lo.Y != -m.Y {
		t.Errorf("first card min = %s, want %s", lo, m.Neg())
	}
	_, hi = e.rects[8].Bounds()
	if want := cfg.AreaSize.Add(m); hi.DistanceTo(want) > 1e-9 {
		t.Errorf("last card max = %s, want %s", hi, want)
	}
	if !e.valid() {
		t.Error("seed grid should satisfy coverage")
	}
}
