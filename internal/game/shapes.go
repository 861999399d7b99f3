package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Shape selects the outline an entity or projectile is drawn with.
type Shape string

const (
	ShapeNone     Shape = ""
	ShapeCircle   Shape = "circle"
	ShapeSquare   Shape = "square"
	ShapeDiamond  Shape = "diamond"
	ShapeTriangle Shape = "triangle"
	ShapeArrow    Shape = "arrow"
)

// Valid reports whether s names a drawable outline.
func (s Shape) Valid() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeDiamond, ShapeTriangle, ShapeArrow:
		return true
	}
	return false
}

const circleSegments = 20

// outline returns the closed polyline for s at the given size (px) and
// rotation, relative to the shape center. Arrows return two strokes; the
// second slice is nil for every other shape.
func outline(s Shape, size, angle float64) (main, extra []Vec) {
	half := size / 2
	switch s {
	case ShapeSquare:
		r := math.Sqrt2 * half
		for i := 0; i <= 4; i++ {
			a := angle - math.Pi/4 + float64(i%4)*math.Pi/2
			main = append(main, VecFromAngle(a).Scale(r))
		}
	case ShapeDiamond:
		for i := 0; i <= 4; i++ {
			a := angle - math.Pi/2 + float64(i%4)*math.Pi/2
			main = append(main, VecFromAngle(a).Scale(half))
		}
	case ShapeTriangle:
		for i := 0; i <= 3; i++ {
			a := angle + float64(i%3)*2*math.Pi/3
			main = append(main, VecFromAngle(a).Scale(half))
		}
	case ShapeArrow:
		tip := VecFromAngle(angle).Scale(half)
		tail := VecFromAngle(angle).Scale(-half)
		main = []Vec{tail, tip}
		l := tip.Add(VecFromAngle(angle + 2.5).Scale(half * 0.6))
		r := tip.Add(VecFromAngle(angle - 2.5).Scale(half * 0.6))
		extra = []Vec{l, tip, r}
	default:
		for i := 0; i <= circleSegments; i++ {
			a := float64(i) * 2 * math.Pi / circleSegments
			main = append(main, VecFromAngle(a).Scale(half))
		}
	}
	return main, extra
}

// drawOutline strokes shape s centred at (cx, cy) in screen pixels.
func drawOutline(screen *ebiten.Image, s Shape, cx, cy float32, size, angle float64, width float32, c color.Color) {
	main, extra := outline(s, size, angle)
	strokePolyline(screen, main, cx, cy, width, c)
	strokePolyline(screen, extra, cx, cy, width, c)
}

func strokePolyline(screen *ebiten.Image, pts []Vec, cx, cy float32, width float32, c color.Color) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		vector.StrokeLine(screen,
			cx+float32(a.X), cy+float32(a.Y),
			cx+float32(b.X), cy+float32(b.Y),
			width, c, true)
	}
}
