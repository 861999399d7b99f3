package game

import (
	"fmt"
	"image/color"
)

// EntityID identifies an enemy or projectile for its whole lifetime. IDs are
// never reused within a session.
type EntityID uint64

func (id EntityID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// idSource hands out increasing entity IDs. The zero value starts at 1.
type idSource struct {
	last uint64
}

func (s *idSource) next() EntityID {
	s.last++
	return EntityID(s.last)
}

// RGB is an opaque color written as [r, g, b] in tuning files.
type RGB [3]uint8

// Color converts c to an opaque color.RGBA.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Gray returns the opaque gray level v.
func Gray(v uint8) RGB {
	return RGB{v, v, v}
}
