package game

import (
	"errors"
	"fmt"
)

// ErrIncompleteProjectile is returned when a builder lacks a required field.
var ErrIncompleteProjectile = errors.New("incomplete projectile")

// Builder defaults.
const (
	defaultProjectileDamage = 25.0
	defaultProjectileSpeed  = 8.0
	defaultProjectileSize   = 5.0
	defaultProjectileStroke = 2.0
	defaultProjectileRange  = 1.0
)

// ProjectileSpec is the static part of a projectile: everything except its
// position, heading and flight state.
type ProjectileSpec struct {
	Kind         ProjectileKind
	Damage       float64
	Speed        float64
	Size         float64
	Color        RGB
	StrokeWeight float64
	Shape        Shape
	Range        float64
	Owner        Owner
	Effects      []StatusEffect
	HitEffect    HitEffectFactory
}

// ProjectileBuilder accumulates a ProjectileSpec plus behavior and hooks.
// Setters chain; Build validates.
type ProjectileBuilder struct {
	spec     ProjectileSpec
	behavior ProjectileBehavior
	onHit    HitHandler
	onShoot  ShootHook
}

// NewProjectileBuilder returns a builder holding the default straight shot.
func NewProjectileBuilder() *ProjectileBuilder {
	b := &ProjectileBuilder{}
	return b.Reset()
}

// Reset restores every field to its default.
func (b *ProjectileBuilder) Reset() *ProjectileBuilder {
	b.spec = ProjectileSpec{
		Damage:       defaultProjectileDamage,
		Speed:        defaultProjectileSpeed,
		Size:         defaultProjectileSize,
		StrokeWeight: defaultProjectileStroke,
		Shape:        ShapeCircle,
		Range:        defaultProjectileRange,
		Owner:        OwnerPlayer,
	}
	b.behavior = StraightBehavior{}
	b.onHit = nil
	b.onShoot = nil
	return b
}

func (b *ProjectileBuilder) Kind(k ProjectileKind) *ProjectileBuilder  { b.spec.Kind = k; return b }
func (b *ProjectileBuilder) Damage(v float64) *ProjectileBuilder       { b.spec.Damage = v; return b }
func (b *ProjectileBuilder) Speed(v float64) *ProjectileBuilder        { b.spec.Speed = v; return b }
func (b *ProjectileBuilder) Size(v float64) *ProjectileBuilder         { b.spec.Size = v; return b }
func (b *ProjectileBuilder) Color(c RGB) *ProjectileBuilder            { b.spec.Color = c; return b }
func (b *ProjectileBuilder) GrayColor(v uint8) *ProjectileBuilder      { b.spec.Color = Gray(v); return b }
func (b *ProjectileBuilder) StrokeWeight(v float64) *ProjectileBuilder { b.spec.StrokeWeight = v; return b }
func (b *ProjectileBuilder) Shape(s Shape) *ProjectileBuilder          { b.spec.Shape = s; return b }
func (b *ProjectileBuilder) Range(v float64) *ProjectileBuilder        { b.spec.Range = v; return b }
func (b *ProjectileBuilder) Owner(o Owner) *ProjectileBuilder          { b.spec.Owner = o; return b }

// AddEffect appends one status effect.
func (b *ProjectileBuilder) AddEffect(e StatusEffect) *ProjectileBuilder {
	b.spec.Effects = append(b.spec.Effects, e)
	return b
}

// Effects replaces the status effect list.
func (b *ProjectileBuilder) Effects(es []StatusEffect) *ProjectileBuilder {
	b.spec.Effects = append([]StatusEffect(nil), es...)
	return b
}

// ClearEffects drops every status effect.
func (b *ProjectileBuilder) ClearEffects() *ProjectileBuilder {
	b.spec.Effects = nil
	return b
}

// HitEffect sets the visual spawned when the projectile strikes an enemy.
func (b *ProjectileBuilder) HitEffect(f HitEffectFactory) *ProjectileBuilder {
	b.spec.HitEffect = f
	return b
}

// Behavior sets the flight behavior. Each built projectile receives its own
// fresh copy.
func (b *ProjectileBuilder) Behavior(pb ProjectileBehavior) *ProjectileBuilder {
	b.behavior = pb
	return b
}

// OnHit replaces direct-damage resolution with h.
func (b *ProjectileBuilder) OnHit(h HitHandler) *ProjectileBuilder {
	b.onHit = h
	return b
}

// OnShoot runs h for every projectile BuildProjectile creates.
func (b *ProjectileBuilder) OnShoot(h ShootHook) *ProjectileBuilder {
	b.onShoot = h
	return b
}

// Build validates and returns a copy of the accumulated spec.
func (b *ProjectileBuilder) Build() (ProjectileSpec, error) {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %g", ErrIncompleteProjectile, name, v))
		}
	}
	positive("damage", b.spec.Damage)
	positive("speed", b.spec.Speed)
	positive("size", b.spec.Size)
	positive("stroke weight", b.spec.StrokeWeight)
	positive("range", b.spec.Range)
	if !b.spec.Shape.Valid() {
		errs = append(errs, fmt.Errorf("%w: shape %q", ErrIncompleteProjectile, b.spec.Shape))
	}
	if b.spec.Owner == "" {
		b.spec.Owner = OwnerPlayer
	}
	if err := errors.Join(errs...); err != nil {
		return ProjectileSpec{}, err
	}
	out := b.spec
	out.Effects = append([]StatusEffect(nil), b.spec.Effects...)
	return out, nil
}

// BuildProjectile creates a live projectile at start heading along dir and
// runs the shoot hook. A zero dir is rejected.
func (b *ProjectileBuilder) BuildProjectile(start GridPos, dir Vec) (*Projectile, error) {
	spec, err := b.Build()
	if err != nil {
		return nil, err
	}
	unit, ok := dir.Normalized()
	if !ok {
		return nil, errors.New("projectile direction is zero")
	}
	behavior := b.behavior
	if behavior == nil {
		behavior = StraightBehavior{}
	}
	p := &Projectile{
		Kind:         spec.Kind,
		Damage:       spec.Damage,
		Speed:        spec.Speed,
		Size:         spec.Size,
		Range:        spec.Range,
		Color:        spec.Color,
		StrokeWeight: spec.StrokeWeight,
		Shape:        spec.Shape,
		Owner:        spec.Owner,
		Effects:      spec.Effects,
		pos:          start,
		dir:          unit,
		active:       true,
		behavior:     behavior.fresh(),
		hitEffect:    spec.HitEffect,
		onHit:        b.onHit,
	}
	if b.onShoot != nil {
		p.launchCue = b.onShoot(p)
	}
	return p, nil
}
