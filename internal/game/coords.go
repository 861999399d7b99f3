package game

import "math"

// BaseCellSize is the cell size (px) that world-unit stats such as enemy
// speed and entity size are tuned against.
const BaseCellSize = 80.0

// --- Positions ---

// GridPos is a position in grid cells. It is the authoritative position for
// all gameplay math.
type GridPos struct {
	X, Y float64
}

// VirtualPos is a pixel position derived from a GridPos and the cell size.
type VirtualPos struct {
	X, Y float64
}

// DistanceTo returns the pixel distance between v and o.
func (v VirtualPos) DistanceTo(o VirtualPos) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Vec is a 2D direction or displacement in grid units.
type Vec struct {
	X, Y float64
}

// Add returns g displaced by v.
func (g GridPos) Add(v Vec) GridPos {
	return GridPos{X: g.X + v.X, Y: g.Y + v.Y}
}

// Sub returns the vector from o to g.
func (g GridPos) Sub(o GridPos) Vec {
	return Vec{X: g.X - o.X, Y: g.Y - o.Y}
}

// DistanceTo returns the grid distance between g and o.
func (g GridPos) DistanceTo(o GridPos) float64 {
	return math.Hypot(g.X-o.X, g.Y-o.Y)
}

// Len returns the vector length.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale multiplies v by k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Normalized returns the unit vector for v. ok is false for a zero vector,
// which callers treat as "no movement".
func (v Vec) Normalized() (Vec, bool) {
	l := v.Len()
	if l == 0 {
		return Vec{}, false
	}
	return Vec{X: v.X / l, Y: v.Y / l}, true
}

// Angle returns the heading of v in radians.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// VecFromAngle returns the unit vector for heading a.
func VecFromAngle(a float64) Vec {
	return Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// --- World ---

// Cell-size (zoom) defaults.
const (
	defaultCellSize = 160.0
	minCellSize     = 20.0
	maxCellSize     = 3200.0
	zoomStepFrac    = 0.05 // fraction of the current cell size per zoom step
)

// World is the per-frame world configuration threaded through update and
// draw calls. CellSize is pixels per grid unit.
type World struct {
	CellSize    float64
	MinCellSize float64
	MaxCellSize float64
}

// DefaultWorld returns a world at the default zoom.
func DefaultWorld() World {
	return World{
		CellSize:    defaultCellSize,
		MinCellSize: minCellSize,
		MaxCellSize: maxCellSize,
	}
}

// Scale is the ratio between the current cell size and BaseCellSize.
func (w World) Scale() float64 {
	return w.CellSize / BaseCellSize
}

// ToVirtual converts a grid position to pixels.
func (w World) ToVirtual(g GridPos) VirtualPos {
	return VirtualPos{X: g.X * w.CellSize, Y: g.Y * w.CellSize}
}

// ToGrid converts a pixel position back to grid cells.
func (w World) ToGrid(v VirtualPos) GridPos {
	if w.CellSize == 0 {
		return GridPos{}
	}
	return GridPos{X: v.X / w.CellSize, Y: v.Y / w.CellSize}
}

// SetCellSize sets the cell size clamped to [MinCellSize, MaxCellSize] and
// reports whether it changed.
func (w *World) SetCellSize(cs float64) bool {
	lo, hi := w.MinCellSize, w.MaxCellSize
	if lo <= 0 {
		lo = minCellSize
	}
	if hi < lo {
		hi = lo
	}
	if cs < lo {
		cs = lo
	}
	if cs > hi {
		cs = hi
	}
	if cs == w.CellSize {
		return false
	}
	w.CellSize = cs
	return true
}

// Zoom grows (in=true) or shrinks the cell size by 5%, at least one pixel.
func (w *World) Zoom(in bool) bool {
	step := math.Max(1, w.CellSize*zoomStepFrac)
	if in {
		return w.SetCellSize(w.CellSize + step)
	}
	return w.SetCellSize(w.CellSize - step)
}

// --- View ---

// View carries the resolved screen transform for one draw pass. The origin is
// where virtual (0,0) lands before the map offset is applied; the offset is
// normally the negated player virtual position so the player stays centred.
type View struct {
	OriginX float64
	OriginY float64
	Offset  VirtualPos
	World   World
}

// ToScreen converts a grid position to screen pixels.
func (v View) ToScreen(g GridPos) (float32, float32) {
	p := v.World.ToVirtual(g)
	return float32(v.OriginX + p.X + v.Offset.X), float32(v.OriginY + p.Y + v.Offset.Y)
}

// ToGrid converts screen pixels back to a grid position.
func (v View) ToGrid(sx, sy float64) GridPos {
	return v.World.ToGrid(VirtualPos{X: sx - v.OriginX - v.Offset.X, Y: sy - v.OriginY - v.Offset.Y})
}

// Px scales a base-size length (tuned at BaseCellSize) to screen pixels.
func (v View) Px(base float64) float32 {
	return float32(base * v.World.Scale())
}
