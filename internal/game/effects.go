package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// --- Hit effect constants ---

const (
	ringFrames       = 20
	doubleRingFrames = 24

	particleCount    = 20
	particleMinSpeed = 1.0 // base px per frame
	particleMaxSpeed = 2.0
	particleMinLife  = 0.5 // seconds
	particleMaxLife  = 1.0
	particleBaseSize = 3.0
)

// Hit effect names used in tuning.
const (
	EffectRing       = "ring"
	EffectDoubleRing = "doubleRing"
	EffectParticles  = "particles"
)

// HitEffect is a short-lived impact visual owned by the projectile manager.
// The set of implementations is closed to this package.
type HitEffect interface {
	Update(dt float64)
	Done() bool
	Draw(screen *ebiten.Image, v View)
	hitEffect()
}

// NewHitEffectFactory returns a factory for the named effect. Particle bursts
// draw their spread from rng.
func NewHitEffectFactory(name string, rng *rand.Rand) (HitEffectFactory, error) {
	switch name {
	case "":
		return nil, nil
	case EffectRing:
		return func(at GridPos) HitEffect { return NewRingEffect(at, ringFrames) }, nil
	case EffectDoubleRing:
		return func(at GridPos) HitEffect { return NewDoubleRingEffect(at, doubleRingFrames) }, nil
	case EffectParticles:
		if rng == nil {
			rng = rand.New(rand.NewSource(1)) // #nosec G404 -- game only
		}
		return func(at GridPos) HitEffect { return NewParticleBurst(at, particleCount, rng) }, nil
	default:
		return nil, fmt.Errorf("unknown hit effect %q", name)
	}
}

// --- Ring ---

// RingEffect is a single expanding yellow ring that thins as it fades.
type RingEffect struct {
	at        GridPos
	frame     int
	maxFrames int
}

// NewRingEffect returns a ring lasting maxFrames ticks.
func NewRingEffect(at GridPos, maxFrames int) *RingEffect {
	return &RingEffect{at: at, maxFrames: maxFrames}
}

func (r *RingEffect) Update(float64) { r.frame++ }
func (r *RingEffect) Done() bool     { return r.frame >= r.maxFrames }
func (r *RingEffect) hitEffect()     {}

func (r *RingEffect) Draw(screen *ebiten.Image, v View) {
	p := float64(r.frame) / float64(r.maxFrames)
	if p >= 1 {
		return
	}
	sx, sy := v.ToScreen(r.at)
	fade := 1 - p
	c := color.RGBA{R: 255, G: uint8(255 * fade), B: 0, A: uint8(255 * fade)}
	diameter := v.Px(30 + 40*p)
	vector.StrokeCircle(screen, sx, sy, diameter/2, v.Px(2+6*fade), c, true)
}

// --- Double ring ---

// DoubleRingEffect is a cyan shock ring with a fainter white inner ring. It
// marks hits on the player.
type DoubleRingEffect struct {
	at        GridPos
	frame     int
	maxFrames int
}

// NewDoubleRingEffect returns a double ring lasting maxFrames ticks.
func NewDoubleRingEffect(at GridPos, maxFrames int) *DoubleRingEffect {
	return &DoubleRingEffect{at: at, maxFrames: maxFrames}
}

func (r *DoubleRingEffect) Update(float64) { r.frame++ }
func (r *DoubleRingEffect) Done() bool     { return r.frame >= r.maxFrames }
func (r *DoubleRingEffect) hitEffect()     {}

func (r *DoubleRingEffect) Draw(screen *ebiten.Image, v View) {
	p := float64(r.frame) / float64(r.maxFrames)
	if p >= 1 {
		return
	}
	sx, sy := v.ToScreen(r.at)
	alpha := 255 * (1 - p)
	diameter := v.Px(20 + 60*p)
	width := v.Px(3 + 2*(1-p))
	vector.StrokeCircle(screen, sx, sy, diameter/2, width,
		color.RGBA{R: 0, G: 200, B: 255, A: uint8(alpha)}, true)
	vector.StrokeCircle(screen, sx, sy, diameter*0.3, width,
		color.RGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 0.7)}, true)
}

// --- Particle burst ---

type particle struct {
	x, y    float64 // base px from the burst center
	vx, vy  float64 // base px per frame
	life    float64 // seconds
	maxLife float64
	shade   uint8
}

// ParticleBurst scatters black and white specks that shrink and fade.
type ParticleBurst struct {
	at        GridPos
	particles []particle
}

// NewParticleBurst returns count particles flying out from at.
func NewParticleBurst(at GridPos, count int, rng *rand.Rand) *ParticleBurst {
	b := &ParticleBurst{at: at, particles: make([]particle, 0, count)}
	for i := 0; i < count; i++ {
		a := rng.Float64() * 2 * math.Pi
		speed := particleMinSpeed + rng.Float64()*(particleMaxSpeed-particleMinSpeed)
		var shade uint8
		if rng.Float64() >= 0.5 {
			shade = 255
		}
		b.particles = append(b.particles, particle{
			vx:      math.Cos(a) * speed,
			vy:      math.Sin(a) * speed,
			maxLife: particleMinLife + rng.Float64()*(particleMaxLife-particleMinLife),
			shade:   shade,
		})
	}
	return b
}

func (b *ParticleBurst) Update(dt float64) {
	kept := b.particles[:0]
	for _, p := range b.particles {
		p.x += p.vx
		p.y += p.vy
		p.life += dt
		if p.life < p.maxLife {
			kept = append(kept, p)
		}
	}
	b.particles = kept
}

func (b *ParticleBurst) Done() bool { return len(b.particles) == 0 }
func (b *ParticleBurst) hitEffect() {}

// Len returns the number of live particles.
func (b *ParticleBurst) Len() int { return len(b.particles) }

func (b *ParticleBurst) Draw(screen *ebiten.Image, v View) {
	cx, cy := v.ToScreen(b.at)
	for _, p := range b.particles {
		prog := p.life / p.maxLife
		size := v.Px(particleBaseSize * (1 - prog))
		if size <= 0 {
			continue
		}
		c := color.RGBA{R: p.shade, G: p.shade, B: p.shade, A: uint8(255 * (1 - prog))}
		vector.FillCircle(screen, cx+v.Px(p.x), cy+v.Px(p.y), size/2, c, true)
	}
}
