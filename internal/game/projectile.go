package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Owner is the side that fired a projectile.
type Owner string

const (
	OwnerPlayer Owner = "player"
	OwnerEnemy  Owner = "enemy"
)

// StatusEffect is a named modifier a projectile carries to its target.
type StatusEffect struct {
	Name      string        `yaml:"name"`
	Duration  time.Duration `yaml:"duration"`
	Magnitude float64       `yaml:"magnitude"`
}

// Hit describes one projectile striking one enemy. Splash returns the live
// enemies within r grid units of (x, y).
type Hit struct {
	Projectile *Projectile
	Target     *Enemy
	Now        time.Duration
	Splash     func(x, y, r float64) []*Enemy
}

// HitHandler resolves a hit and describes the sound it makes. It replaces the
// default direct-damage resolution.
type HitHandler func(h *Hit) SoundCue

// ShootHook runs once when a projectile is launched.
type ShootHook func(p *Projectile) SoundCue

// HitEffectFactory creates the visual for a hit at the given grid position.
type HitEffectFactory func(at GridPos) HitEffect

// Projectile is a live shot. Its grid position is authoritative; virtual is
// refreshed whenever the position or the cell size changes.
type Projectile struct {
	ID   EntityID
	Kind ProjectileKind

	Damage       float64
	Speed        float64 // grid units per second
	Size         float64 // px at BaseCellSize
	Range        float64 // grid units of path length
	Color        RGB
	StrokeWeight float64
	Shape        Shape
	Owner        Owner
	Effects      []StatusEffect

	pos      GridPos
	virtual  VirtualPos
	dir      Vec
	traveled float64
	active   bool

	behavior  ProjectileBehavior
	hitEffect HitEffectFactory
	onHit     HitHandler
	launchCue SoundCue // from the shoot hook, queued when the manager adopts it
}

// Pos returns the grid position.
func (p *Projectile) Pos() GridPos { return p.pos }

// SetPos moves the projectile without counting travel distance.
func (p *Projectile) SetPos(g GridPos) { p.pos = g }

// Dir returns the unit heading.
func (p *Projectile) Dir() Vec { return p.dir }

// SetDir replaces the heading; a zero vector keeps the old one.
func (p *Projectile) SetDir(v Vec) {
	if n, ok := v.Normalized(); ok {
		p.dir = n
	}
}

// Virtual returns the last computed pixel position.
func (p *Projectile) Virtual() VirtualPos { return p.virtual }

// RefreshVirtual recomputes the pixel position for w.
func (p *Projectile) RefreshVirtual(w World) { p.virtual = w.ToVirtual(p.pos) }

// Active reports whether the projectile is still in flight.
func (p *Projectile) Active() bool { return p.active }

// Destroy marks the projectile inactive; the manager prunes it.
func (p *Projectile) Destroy() { p.active = false }

// GridDistanceTraveled returns the accumulated path length.
func (p *Projectile) GridDistanceTraveled() float64 { return p.traveled }

// BehaviorName returns the flight behavior's name.
func (p *Projectile) BehaviorName() string {
	if p.behavior == nil {
		return ""
	}
	return p.behavior.Name()
}

// advance moves along the current heading for dt seconds.
func (p *Projectile) advance(dt float64) {
	p.pos = p.pos.Add(p.dir.Scale(p.Speed * dt))
}

// Update runs the flight behavior, accounts travel and expires the projectile
// once its range is used up.
func (p *Projectile) Update(dt float64, w World) {
	if !p.active {
		return
	}
	if p.behavior != nil {
		p.behavior.Update(p, dt)
	} else {
		p.advance(dt)
	}
	p.RefreshVirtual(w)
	p.traveled += p.dir.Scale(p.Speed * dt).Len()
	if p.traveled >= p.Range {
		p.Destroy()
	}
}

// resolveHit applies the hit through the custom handler when one is set,
// otherwise by dealing direct damage. The projectile is always spent.
func (p *Projectile) resolveHit(h *Hit) SoundCue {
	defer p.Destroy()
	if p.onHit != nil {
		return p.onHit(h)
	}
	applyDirectHit(h)
	return CueExplosion
}

// applyDirectHit deals the projectile's damage to the target and attaches its
// status effects.
func applyDirectHit(h *Hit) {
	if h.Target == nil {
		return
	}
	h.Target.TakeDamage(h.Projectile.Damage, h.Now)
	for _, e := range h.Projectile.Effects {
		h.Target.ApplyStatus(e, h.Now)
	}
}

// Draw strokes the projectile outline, scaled to the current zoom.
func (p *Projectile) Draw(screen *ebiten.Image, v View) {
	if !p.active {
		return
	}
	sx, sy := v.ToScreen(p.pos)
	drawOutline(screen, p.Shape, sx, sy,
		float64(v.Px(p.Size)), p.dir.Angle(),
		v.Px(p.StrokeWeight), p.Color.Color())
}
