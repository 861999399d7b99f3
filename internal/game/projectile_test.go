package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectileBuilder_Defaults(t *testing.T) {
	spec, err := NewProjectileBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, defaultProjectileDamage, spec.Damage)
	assert.Equal(t, ShapeCircle, spec.Shape)
	assert.Equal(t, OwnerPlayer, spec.Owner)
}

func TestProjectileBuilder_ReportsEveryMissingField(t *testing.T) {
	_, err := NewProjectileBuilder().Damage(0).Speed(-1).Shape("blob").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteProjectile))
	for _, want := range []string{"damage", "speed", "shape"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestProjectileBuilder_ResetAndEffectsCopy(t *testing.T) {
	b := NewProjectileBuilder().Damage(99).AddEffect(StatusEffect{Name: "burn"})
	spec, err := b.Build()
	require.NoError(t, err)
	b.ClearEffects()
	assert.Len(t, spec.Effects, 1, "built specs do not alias the builder")

	spec, err = b.Reset().Build()
	require.NoError(t, err)
	assert.Equal(t, defaultProjectileDamage, spec.Damage)
	assert.Empty(t, spec.Effects)
}

func TestProjectileBuilder_RejectsZeroDirection(t *testing.T) {
	_, err := NewProjectileBuilder().BuildProjectile(GridPos{}, Vec{})
	assert.Error(t, err)
}

func TestProjectileBuilder_ShootHookAndFreshBehavior(t *testing.T) {
	target := func() (GridPos, bool) { return GridPos{Y: 5}, true }
	b := NewProjectileBuilder().
		Behavior(NewHomingBehavior(target, 1, 0)).
		OnShoot(func(*Projectile) SoundCue { return CueShoot })

	p1, err := b.BuildProjectile(GridPos{}, Vec{X: 2})
	require.NoError(t, err)
	p2, err := b.BuildProjectile(GridPos{}, Vec{X: 1})
	require.NoError(t, err)

	assert.Equal(t, Vec{X: 1}, p1.Dir(), "heading is normalised")
	assert.Equal(t, CueShoot, p1.launchCue)
	assert.Equal(t, FlightHoming, p1.BehaviorName())
	assert.NotSame(t, p1.behavior, p2.behavior)

	p1.Update(tickDt, DefaultWorld())
	assert.Zero(t, p2.behavior.(*HomingBehavior).elapsed)
}

func TestProjectile_ExpiresAtRange(t *testing.T) {
	p, err := NewProjectileBuilder().Speed(5).Range(4).BuildProjectile(GridPos{}, Vec{X: 1})
	require.NoError(t, err)

	ticks := 0
	for p.Active() && ticks < 1000 {
		p.Update(tickDt, DefaultWorld())
		ticks++
	}
	assert.InDelta(t, 48, ticks, 1, "4 grid units at 5 per second")
	assert.GreaterOrEqual(t, p.GridDistanceTraveled(), 4.0-1e-9)
	assert.InDelta(t, p.GridDistanceTraveled(), p.Pos().X, 1e-9)

	// Spent projectiles stay put.
	at := p.Pos()
	p.Update(tickDt, DefaultWorld())
	assert.Equal(t, at, p.Pos())
}

func TestProjectile_TravelIsPathLengthNotDisplacement(t *testing.T) {
	b := NewProjectileBuilder().Speed(6).Range(100).
		Behavior(NewHomingBehavior(func() (GridPos, bool) { return GridPos{}, true }, 50, 0))
	p, err := b.BuildProjectile(GridPos{X: 1}, Vec{Y: 1})
	require.NoError(t, err)

	for i := 0; i < 120; i++ {
		p.Update(tickDt, DefaultWorld())
	}
	assert.InDelta(t, 12, p.GridDistanceTraveled(), 1e-6)
	assert.Less(t, p.Pos().DistanceTo(GridPos{X: 1}), 12.0)
}

func TestHomingBehavior_TurnRateBounded(t *testing.T) {
	h := NewHomingBehavior(func() (GridPos, bool) { return GridPos{Y: 5}, true }, 10, 0)
	p, err := NewProjectileBuilder().Speed(1).Range(10).Behavior(h).BuildProjectile(GridPos{}, Vec{X: 1})
	require.NoError(t, err)

	p.Update(tickDt, DefaultWorld())
	assert.InDelta(t, 10*tickDt, p.Dir().Angle(), 1e-9, "turned by exactly the cap")
	assert.InDelta(t, 1, p.Dir().Len(), 1e-9)
}

func TestHomingBehavior_DampedNearTarget(t *testing.T) {
	tests := []struct {
		name   string
		target GridPos
		want   float64
	}{
		{"inside close range", GridPos{Y: 0.2}, homingCloseTurnFrac * 10 * tickDt},
		{"just outside close range", GridPos{Y: 0.3}, 10 * tickDt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHomingBehavior(func() (GridPos, bool) { return tt.target, true }, 10, 0)
			p, err := NewProjectileBuilder().Speed(1).Range(10).Behavior(h).BuildProjectile(GridPos{}, Vec{X: 1})
			require.NoError(t, err)

			p.Update(tickDt, DefaultWorld())
			assert.InDelta(t, tt.want, p.Dir().Angle(), 1e-9)
		})
	}
}

func TestHomingBehavior_TakesShorterArc(t *testing.T) {
	start := VecFromAngle(170 * math.Pi / 180)
	target := GridPos{}.Add(VecFromAngle(-170 * math.Pi / 180).Scale(5))
	h := NewHomingBehavior(func() (GridPos, bool) { return target, true }, 1, 0)
	p, err := NewProjectileBuilder().Speed(0.001).Range(10).Behavior(h).BuildProjectile(GridPos{}, start)
	require.NoError(t, err)

	before := p.Dir().Angle()
	p.Update(tickDt, DefaultWorld())
	turned := wrapAngle(p.Dir().Angle() - before)
	assert.InDelta(t, tickDt, turned, 1e-6, "turns through ±180° rather than back across 0°")
}

func TestHomingBehavior_DelayAndLostTarget(t *testing.T) {
	h := NewHomingBehavior(func() (GridPos, bool) { return GridPos{Y: 5}, true }, 10, 0.5)
	p, err := NewProjectileBuilder().Speed(1).Range(10).Behavior(h).BuildProjectile(GridPos{}, Vec{X: 1})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		p.Update(tickDt, DefaultWorld())
	}
	assert.Equal(t, Vec{X: 1}, p.Dir(), "straight during the delay")

	lost := NewHomingBehavior(func() (GridPos, bool) { return GridPos{}, false }, 10, 0)
	p, err = NewProjectileBuilder().Speed(1).Range(10).Behavior(lost).BuildProjectile(GridPos{}, Vec{X: 1})
	require.NoError(t, err)
	p.Update(tickDt, DefaultWorld())
	assert.Equal(t, Vec{X: 1}, p.Dir())
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, wrapAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, math.Pi/2, wrapAngle(-3*math.Pi/2), 1e-9)
	assert.InDelta(t, 0.3, wrapAngle(0.3+4*math.Pi), 1e-9)
}

func TestProjectileFactory_ResolvesVariants(t *testing.T) {
	f := NewProjectileFactory(MustDefaultTuning(), rand.New(rand.NewSource(1)))
	target := func() (GridPos, bool) { return GridPos{X: 3}, true }

	build := func(kind ProjectileKind, tf TargetFunc, owner Owner) *Projectile {
		t.Helper()
		b, err := f.BuilderForKind(kind, tf, owner)
		require.NoError(t, err)
		p, err := b.BuildProjectile(GridPos{}, Vec{X: 1})
		require.NoError(t, err)
		return p
	}

	p := build(ProjectileMissile, target, OwnerEnemy)
	assert.Equal(t, ProjectileMissile, p.Kind)
	assert.Equal(t, FlightHoming, p.BehaviorName())

	p = build(ProjectileMissile, nil, OwnerEnemy)
	assert.Equal(t, ProjectileEnemyBullet, p.Kind, "no target falls back")
	assert.Equal(t, FlightStraight, p.BehaviorName())

	p = build(ProjectileBullet, nil, OwnerEnemy)
	assert.Equal(t, ProjectileEnemyBullet, p.Kind)
	assert.Equal(t, OwnerEnemy, p.Owner)

	p = build(ProjectileArrowBullet, target, OwnerPlayer)
	assert.Equal(t, 45.0, p.Damage)
	assert.Equal(t, ShapeArrow, p.Shape)
	assert.Equal(t, CueShoot, p.launchCue)

	_, err := f.BuilderForKind("plasma", nil, OwnerPlayer)
	assert.True(t, errors.Is(err, ErrUnknownProjectileKind))
}

func TestProjectileFactory_DetectsTemplateCycle(t *testing.T) {
	tu := MustDefaultTuning()
	bullet := tu.Projectiles[ProjectileBullet]
	bullet.EnemyVariant = ProjectileEnemyBullet
	tu.Projectiles[ProjectileBullet] = bullet
	eb := tu.Projectiles[ProjectileEnemyBullet]
	eb.EnemyVariant = ProjectileBullet
	tu.Projectiles[ProjectileEnemyBullet] = eb

	_, err := NewProjectileFactory(tu, nil).BuilderForKind(ProjectileBullet, nil, OwnerEnemy)
	assert.ErrorContains(t, err, "cycle")
}
