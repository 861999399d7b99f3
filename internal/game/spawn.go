package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Generator names.
const (
	GeneratorRandom = "random"
	GeneratorSimple = "simple"
	GeneratorLevel  = "level"
)

const (
	spawnAttempts   = 50
	spawnJitterFrac = 0.6        // of a cell
	spawnEdgeMargin = 20.0 / 300 // grid units kept clear of the map edge
)

// SpawnRequest describes a batch of enemies to place. Distances are grid
// units from Origin, normally the player; MaxDistance 0 means unbounded.
type SpawnRequest struct {
	Count         int
	CountOverride int // used instead of Count when positive
	MinDistance   float64
	MaxDistance   float64
	Kind          EnemyKind // empty draws from the random pool
	Origin        GridPos
}

func (r SpawnRequest) count() int {
	if r.CountOverride > 0 {
		return r.CountOverride
	}
	return r.Count
}

// accepts reports whether pos honours the distance band.
func (r SpawnRequest) accepts(pos GridPos) bool {
	d := pos.DistanceTo(r.Origin)
	if d < r.MinDistance {
		return false
	}
	return r.MaxDistance <= 0 || d <= r.MaxDistance
}

func (r SpawnRequest) build(f *EnemyFactory, pos GridPos) *Enemy {
	var (
		e   *Enemy
		err error
	)
	if r.Kind != "" {
		e, err = f.New(r.Kind, pos)
	} else {
		e, err = f.Random(pos)
	}
	if err != nil {
		log.Warn("spawn failed", "kind", r.Kind, "err", err)
		return nil
	}
	return e
}

// EnemyGenerator places enemies on a map. Implementations never fail; they
// return fewer enemies when no valid spot turns up.
type EnemyGenerator interface {
	Generate(m *GameMap, req SpawnRequest, f *EnemyFactory) []*Enemy
	Name() string
}

// NewEnemyGenerator returns the named generator. level supplies per-kind
// counts for the level generator.
func NewEnemyGenerator(name string, level map[EnemyKind]int, rng *rand.Rand) (EnemyGenerator, error) {
	return newGenerator(name, level, rng)
}

func newGenerator(name string, level map[EnemyKind]int, rng *rand.Rand) (EnemyGenerator, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // #nosec G404 -- game only
	}
	switch name {
	case GeneratorRandom:
		return &RandomGenerator{rng: rng}, nil
	case GeneratorSimple:
		return &SimpleGenerator{rng: rng}, nil
	case GeneratorLevel:
		return &LevelGenerator{Counts: level, rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown enemy generator %q", name)
	}
}

// jitteredCellPos picks a point inside cell (x, y), offset up to 60% of a
// cell from its corner and kept just inside the map edge.
func jitteredCellPos(m *GameMap, x, y int, rng *rand.Rand) GridPos {
	o := m.CellOrigin(x, y)
	hw, hh := m.HalfExtent()
	gx := o.X + rng.Float64()*spawnJitterFrac
	gy := o.Y + rng.Float64()*spawnJitterFrac
	mx, my := hw-spawnEdgeMargin, hh-spawnEdgeMargin
	return GridPos{
		X: math.Max(-mx, math.Min(mx, gx)),
		Y: math.Max(-my, math.Min(my, gy)),
	}
}

// --- Random ---

// RandomGenerator makes one attempt per enemy on a random empty cell.
type RandomGenerator struct {
	rng *rand.Rand
}

func (g *RandomGenerator) Name() string { return GeneratorRandom }

func (g *RandomGenerator) Generate(m *GameMap, req SpawnRequest, f *EnemyFactory) []*Enemy {
	var out []*Enemy
	for i := 0; i < req.count(); i++ {
		x, y := g.rng.Intn(m.width), g.rng.Intn(m.height)
		c, ok := m.Cell(x, y)
		if !ok || c.Type != CellEmpty {
			continue
		}
		pos := jitteredCellPos(m, x, y, g.rng)
		if !req.accepts(pos) {
			continue
		}
		if e := req.build(f, pos); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// --- Simple ---

// SimpleGenerator tries up to 50 random points inside the map per enemy.
type SimpleGenerator struct {
	rng *rand.Rand
}

func (g *SimpleGenerator) Name() string { return GeneratorSimple }

func (g *SimpleGenerator) Generate(m *GameMap, req SpawnRequest, f *EnemyFactory) []*Enemy {
	var out []*Enemy
	for i := 0; i < req.count(); i++ {
		pos, ok := g.find(m, req)
		if !ok {
			continue
		}
		if e := req.build(f, pos); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (g *SimpleGenerator) find(m *GameMap, req SpawnRequest) (GridPos, bool) {
	for attempt := 0; attempt < spawnAttempts; attempt++ {
		pos := GridPos{
			X: (g.rng.Float64() - 0.5) * float64(m.width),
			Y: (g.rng.Float64() - 0.5) * float64(m.height),
		}
		if m.Contains(pos) && req.accepts(pos) {
			return pos, true
		}
	}
	return GridPos{}, false
}

// --- Level ---

// levelOrder fixes the spawn order so results are reproducible per seed.
var levelOrder = []EnemyKind{EnemyBasic, EnemyFast, EnemyTank, EnemyBoss}

// LevelGenerator spawns fixed counts per kind and ignores the request's
// count and kind.
type LevelGenerator struct {
	Counts map[EnemyKind]int
	rng    *rand.Rand
}

func (g *LevelGenerator) Name() string { return GeneratorLevel }

func (g *LevelGenerator) Generate(m *GameMap, req SpawnRequest, f *EnemyFactory) []*Enemy {
	var out []*Enemy
	for _, kind := range levelOrder {
		for i := 0; i < g.Counts[kind]; i++ {
			pos, ok := g.find(m, req)
			if !ok {
				continue
			}
			e, err := f.New(kind, pos)
			if err != nil {
				log.Warn("spawn failed", "kind", kind, "err", err)
				continue
			}
			out = append(out, e)
		}
	}
	return out
}

func (g *LevelGenerator) find(m *GameMap, req SpawnRequest) (GridPos, bool) {
	for attempt := 0; attempt < spawnAttempts; attempt++ {
		x, y := g.rng.Intn(m.width), g.rng.Intn(m.height)
		c, ok := m.Cell(x, y)
		if !ok || c.Type != CellEmpty {
			continue
		}
		pos := jitteredCellPos(m, x, y, g.rng)
		if req.accepts(pos) {
			return pos, true
		}
	}
	return GridPos{}, false
}
