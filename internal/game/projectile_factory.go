package game

import (
	"fmt"
	"math/rand"
)

// ProjectileFactory turns tuned templates into ready builders.
type ProjectileFactory struct {
	tuning *Tuning
	rng    *rand.Rand
}

// NewProjectileFactory returns a factory over t. rng feeds particle effects.
func NewProjectileFactory(t *Tuning, rng *rand.Rand) *ProjectileFactory {
	return &ProjectileFactory{tuning: t, rng: rng}
}

// BuilderForKind returns a builder for kind fired by owner. Homing templates
// steer toward target; without a target they use their fallback template.
// An enemy firing a kind with an enemy variant gets the variant instead.
func (f *ProjectileFactory) BuilderForKind(kind ProjectileKind, target TargetFunc, owner Owner) (*ProjectileBuilder, error) {
	resolved, tpl, err := f.resolve(kind, target, owner)
	if err != nil {
		return nil, err
	}
	return tpl.builder(resolved, target, f.rng).Owner(owner), nil
}

func (f *ProjectileFactory) resolve(kind ProjectileKind, target TargetFunc, owner Owner) (ProjectileKind, ProjectileTemplate, error) {
	seen := map[ProjectileKind]bool{}
	for {
		tpl, ok := f.tuning.Projectiles[kind]
		if !ok {
			return "", ProjectileTemplate{}, fmt.Errorf("%w: %q", ErrUnknownProjectileKind, kind)
		}
		if seen[kind] {
			return "", ProjectileTemplate{}, fmt.Errorf("projectile %q: template cycle", kind)
		}
		seen[kind] = true
		switch {
		case owner == OwnerEnemy && tpl.EnemyVariant != "":
			kind = tpl.EnemyVariant
		case tpl.Homing != nil && target == nil && tpl.Fallback != "":
			kind = tpl.Fallback
		default:
			return kind, tpl, nil
		}
	}
}

// builder loads the template into a fresh builder. Every template cues a
// shot on launch and resolves hits through splashHit.
func (tpl ProjectileTemplate) builder(kind ProjectileKind, target TargetFunc, rng *rand.Rand) *ProjectileBuilder {
	b := NewProjectileBuilder().
		Kind(kind).
		Damage(tpl.Damage).
		Speed(tpl.Speed).
		Size(tpl.Size).
		Color(tpl.Color).
		StrokeWeight(tpl.StrokeWeight).
		Shape(tpl.Shape).
		Range(tpl.Range).
		Owner(tpl.Owner).
		Effects(tpl.Effects)
	if fx, err := NewHitEffectFactory(tpl.HitEffect, rng); err == nil && fx != nil {
		b.HitEffect(fx)
	}
	if tpl.Homing != nil {
		b.Behavior(NewHomingBehavior(target, tpl.Homing.TurnRate, tpl.Homing.Delay))
	}
	cue := tpl.HitCue
	if cue == CueNone {
		cue = CueExplosion2
	}
	return b.
		OnShoot(func(*Projectile) SoundCue { return CueShoot }).
		OnHit(splashHit(tpl.SplashRadius, cue))
}

// splashHit damages the target, then every other live enemy within radius of
// the projectile at full damage. A zero radius is a plain direct hit.
func splashHit(radius float64, cue SoundCue) HitHandler {
	return func(h *Hit) SoundCue {
		applyDirectHit(h)
		if radius <= 0 || h.Splash == nil {
			return cue
		}
		at := h.Projectile.Pos()
		for _, e := range h.Splash(at.X, at.Y, radius) {
			if e == h.Target {
				continue
			}
			e.TakeDamage(h.Projectile.Damage, h.Now)
			for _, se := range h.Projectile.Effects {
				e.ApplyStatus(se, h.Now)
			}
		}
		return cue
	}
}
