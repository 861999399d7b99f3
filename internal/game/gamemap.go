package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CellType classifies one map cell.
type CellType string

const (
	CellEmpty CellType = "empty"
	CellWall  CellType = "wall"
	CellSpawn CellType = "spawn"
	CellGoal  CellType = "goal"
	CellEnemy CellType = "enemy"
)

const (
	minMapScale  = 0.1
	maxMapScale  = 5.0
	maxCellValue = 100
)

// Cell is one map square. X and Y are cell indices, not grid positions.
type Cell struct {
	X, Y  int
	Type  CellType
	Value int // 1..100
}

// MapLayout is the pixel extent of the map at one cell size. The map is
// centred on the origin so StartX and StartY are negative.
type MapLayout struct {
	CellSize float64
	Width    float64
	Height   float64
	StartX   float64
	StartY   float64
}

// GameMap is a width x height cell grid centred on the grid origin.
type GameMap struct {
	width, height int
	cells         [][]Cell // [y][x]
	scale         float64
	generator     EnemyGenerator
	colors        MapColors
	rng           *rand.Rand
}

// NewGameMap returns a map of empty cells with random values. generator may
// be nil, in which case SpawnEnemies yields nothing.
func NewGameMap(mt MapTuning, generator EnemyGenerator, rng *rand.Rand) *GameMap {
	m := &GameMap{
		width:     mt.Width,
		height:    mt.Height,
		generator: generator,
		colors:    mt.Colors,
		rng:       rng,
	}
	m.Reset()
	if mt.Scale > 0 {
		m.SetScale(mt.Scale)
	}
	return m
}

// Reset rebuilds every cell and restores scale 1.
func (m *GameMap) Reset() {
	m.cells = make([][]Cell, m.height)
	for y := range m.cells {
		m.cells[y] = make([]Cell, m.width)
		for x := range m.cells[y] {
			m.cells[y][x] = Cell{X: x, Y: y, Type: CellEmpty, Value: m.rng.Intn(maxCellValue) + 1}
		}
	}
	m.scale = 1
}

func (m *GameMap) Width() int                    { return m.width }
func (m *GameMap) Height() int                   { return m.height }
func (m *GameMap) Scale() float64                { return m.scale }
func (m *GameMap) Generator() EnemyGenerator     { return m.generator }
func (m *GameMap) SetGenerator(g EnemyGenerator) { m.generator = g }

// InBounds reports whether (x, y) is a valid cell index.
func (m *GameMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Cell returns the cell at (x, y).
func (m *GameMap) Cell(x, y int) (Cell, bool) {
	if !m.InBounds(x, y) {
		return Cell{}, false
	}
	return m.cells[y][x], true
}

// SetCellType changes a cell's type; out-of-bounds writes are ignored.
func (m *GameMap) SetCellType(x, y int, t CellType) {
	if m.InBounds(x, y) {
		m.cells[y][x].Type = t
	}
}

// SetCellValue changes a cell's value; out-of-bounds writes are ignored.
func (m *GameMap) SetCellValue(x, y, v int) {
	if m.InBounds(x, y) {
		m.cells[y][x].Value = v
	}
}

// SetScale sets the display scale clamped to [0.1, 5].
func (m *GameMap) SetScale(s float64) {
	m.scale = math.Max(minMapScale, math.Min(maxMapScale, s))
}

// Layout returns the map extent in pixels for cellSize.
func (m *GameMap) Layout(cellSize float64) MapLayout {
	w := float64(m.width) * cellSize
	h := float64(m.height) * cellSize
	return MapLayout{CellSize: cellSize, Width: w, Height: h, StartX: -w / 2, StartY: -h / 2}
}

// HalfExtent returns half the map size in grid units.
func (m *GameMap) HalfExtent() (float64, float64) {
	return float64(m.width) / 2, float64(m.height) / 2
}

// CellAt returns the index of the cell containing g.
func (m *GameMap) CellAt(g GridPos) (int, int, bool) {
	hw, hh := m.HalfExtent()
	x := int(math.Floor(g.X + hw))
	y := int(math.Floor(g.Y + hh))
	return x, y, m.InBounds(x, y)
}

// CellOrigin returns the grid position of the top-left corner of (x, y).
func (m *GameMap) CellOrigin(x, y int) GridPos {
	hw, hh := m.HalfExtent()
	return GridPos{X: float64(x) - hw, Y: float64(y) - hh}
}

// Contains reports whether g lies within the map.
func (m *GameMap) Contains(g GridPos) bool {
	hw, hh := m.HalfExtent()
	return math.Abs(g.X) <= hw && math.Abs(g.Y) <= hh
}

// SpawnEnemies asks the generator for enemies. A short result is not an
// error.
func (m *GameMap) SpawnEnemies(req SpawnRequest, f *EnemyFactory) []*Enemy {
	if m.generator == nil {
		log.Warn("no enemy generator configured for this map")
		return nil
	}
	out := m.generator.Generate(m, req, f)
	if want := req.count(); len(out) < want && m.generator.Name() != GeneratorLevel {
		log.Debug("spawn short", "generator", m.generator.Name(), "want", want, "got", len(out))
	}
	return out
}

// Draw fills every cell by type and outlines the grid.
func (m *GameMap) Draw(screen *ebiten.Image, v View) {
	cs := float32(v.World.CellSize)
	line := m.colors.GridLine.Color()
	for y := range m.cells {
		for x := range m.cells[y] {
			c := m.cells[y][x]
			sx, sy := v.ToScreen(m.CellOrigin(x, y))
			vector.FillRect(screen, sx, sy, cs, cs, m.cellColor(c.Type), false)
			vector.StrokeRect(screen, sx, sy, cs, cs, 1, line, false)
		}
	}
}

func (m *GameMap) cellColor(t CellType) color.RGBA {
	switch t {
	case CellWall:
		return m.colors.Wall.Color()
	case CellSpawn:
		return m.colors.Spawn.Color()
	case CellGoal:
		return m.colors.Goal.Color()
	case CellEnemy:
		return m.colors.Enemy.Color()
	default:
		return m.colors.Empty.Color()
	}
}
