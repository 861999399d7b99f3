package game

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnemyFactory(t *testing.T) *EnemyFactory {
	t.Helper()
	return NewEnemyFactory(MustDefaultTuning(), rand.New(rand.NewSource(1)))
}

func TestEnemyFactory_BuildsFromStatTable(t *testing.T) {
	f := newTestEnemyFactory(t)
	e, err := f.New(EnemyTank, GridPos{X: 2, Y: 3})
	require.NoError(t, err)

	assert.Equal(t, EnemyTank, e.Kind)
	assert.Equal(t, 150.0, e.Health().Max())
	assert.Equal(t, BehaviorPatrol, e.BehaviorName())
	assert.Equal(t, ProjectileFireball, e.Projectile.Kind)
	assert.Equal(t, GridPos{X: 2, Y: 3}, e.Pos())
	assert.Zero(t, e.ID, "IDs come from the manager")
}

func TestEnemyFactory_UnknownKind(t *testing.T) {
	_, err := newTestEnemyFactory(t).New("dragon", GridPos{})
	assert.True(t, errors.Is(err, ErrUnknownEnemyKind))
}

func TestEnemyFactory_RandomDrawsFromPool(t *testing.T) {
	f := newTestEnemyFactory(t)
	for i := 0; i < 50; i++ {
		e, err := f.Random(GridPos{})
		require.NoError(t, err)
		assert.Contains(t, randomPool, e.Kind)
	}
}

func TestEnemyFactory_CustomPatchesProjectileOnly(t *testing.T) {
	f := newTestEnemyFactory(t)
	e, err := f.Custom(EnemyBasic, GridPos{}, func(c *ProjectileConfig) {
		c.Kind = ProjectileLaser
		c.FireRate = 100 * time.Millisecond
	})
	require.NoError(t, err)
	assert.Equal(t, ProjectileLaser, e.Projectile.Kind)
	assert.Equal(t, 100*time.Millisecond, e.Projectile.FireRate)

	plain, err := f.New(EnemyBasic, GridPos{})
	require.NoError(t, err)
	assert.Equal(t, ProjectileEnemyBullet, plain.Projectile.Kind, "the stat table is untouched")
}

func TestEnemyFactory_BehaviorsAreNotShared(t *testing.T) {
	f := newTestEnemyFactory(t)
	a, err := f.New(EnemyFast, GridPos{})
	require.NoError(t, err)
	b, err := f.New(EnemyFast, GridPos{})
	require.NoError(t, err)
	assert.NotSame(t, a.Behavior(), b.Behavior())
}

func TestChaseBehavior_StepsTowardTarget(t *testing.T) {
	e, err := newTestEnemyFactory(t).New(EnemyBasic, GridPos{})
	require.NoError(t, err)

	e.Update(GridPos{X: 10}, tickDt, DefaultWorld())
	assert.InDelta(t, 0.5/BaseCellSize, e.Pos().X, 1e-12, "speed is world units per tick")
	assert.InDelta(t, 0, e.Pos().Y, 1e-12)
	assert.Equal(t, DefaultWorld().ToVirtual(e.Pos()), e.Virtual())

	// Standing on the target is a no-op, not a NaN.
	e.SetGridPos(GridPos{X: 10})
	e.Update(GridPos{X: 10}, tickDt, DefaultWorld())
	assert.Equal(t, GridPos{X: 10}, e.Pos())
}

func TestChaseBehavior_ClosesInEveryTick(t *testing.T) {
	e, err := newTestEnemyFactory(t).New(EnemyBasic, GridPos{})
	require.NoError(t, err)
	target := GridPos{X: 1, Y: 0.5}
	step := gridStep(e.Speed())

	dist := e.Pos().DistanceTo(target)
	ticks := 0
	for dist > step {
		e.Update(target, tickDt, DefaultWorld())
		next := e.Pos().DistanceTo(target)
		require.Less(t, next, dist, "tick %d", ticks)
		dist = next
		ticks++
		require.Less(t, ticks, 1000, "never arrived")
	}
	assert.LessOrEqual(t, dist, step)
}

func TestPatrolBehavior_OrbitsThenChases(t *testing.T) {
	e, err := newTestEnemyFactory(t).New(EnemyTank, GridPos{X: 5, Y: 5})
	require.NoError(t, err)
	pb := e.Behavior().(*PatrolBehavior)

	_, ok := pb.Center()
	assert.False(t, ok)

	far := GridPos{X: 50, Y: 50}
	for i := 0; i < 30; i++ {
		e.Update(far, tickDt, DefaultWorld())
	}
	c, ok := pb.Center()
	require.True(t, ok)
	assert.Equal(t, GridPos{X: 5, Y: 5}, c)
	assert.InDelta(t, patrolRadius, e.Pos().DistanceTo(c), 1e-9)

	near := e.Pos().Add(Vec{X: 1})
	before := e.Pos().DistanceTo(near)
	e.Update(near, tickDt, DefaultWorld())
	assert.InDelta(t, before-gridStep(e.Speed()), e.Pos().DistanceTo(near), 1e-9)
}

func TestWanderBehavior_StaysNearby(t *testing.T) {
	e, err := newTestEnemyFactory(t).New(EnemyFast, GridPos{})
	require.NoError(t, err)
	wb := e.Behavior().(*WanderBehavior)

	e.Update(GridPos{X: 100}, tickDt, DefaultWorld())
	assert.LessOrEqual(t, wb.Target().DistanceTo(GridPos{}), wanderRadius+1e-9)

	moved := e.Pos().DistanceTo(GridPos{})
	assert.InDelta(t, gridStep(e.Speed()*wanderSpeedFraction), moved, 1e-9)
}

func TestIdleBehavior_NeverMoves(t *testing.T) {
	e, err := newTestEnemyFactory(t).New(EnemyIdle, GridPos{X: 1, Y: 1})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		e.Update(GridPos{}, tickDt, DefaultWorld())
	}
	assert.Equal(t, GridPos{X: 1, Y: 1}, e.Pos())
}

func TestNewEnemyBehavior_Unknown(t *testing.T) {
	_, err := NewEnemyBehavior("teleport", nil)
	assert.Error(t, err)
}

func TestEnemy_DeadDoesNotMove(t *testing.T) {
	e, err := newTestEnemyFactory(t).New(EnemyBasic, GridPos{})
	require.NoError(t, err)
	require.True(t, e.TakeDamage(1000, 0))
	e.Update(GridPos{X: 10}, tickDt, DefaultWorld())
	assert.Equal(t, GridPos{}, e.Pos())
}

func TestEnemy_StatusesExpire(t *testing.T) {
	e, err := newTestEnemyFactory(t).New(EnemyBasic, GridPos{})
	require.NoError(t, err)
	e.ApplyStatus(StatusEffect{Name: "slow", Duration: time.Second, Magnitude: 0.5}, 0)
	e.ApplyStatus(StatusEffect{Name: "marked"}, 0)

	assert.Len(t, e.Statuses(500*time.Millisecond), 2)
	left := e.Statuses(2 * time.Second)
	require.Len(t, left, 1)
	assert.Equal(t, "marked", left[0].Name, "no duration never expires")
}

func TestHealthBarColor_Bands(t *testing.T) {
	assert.NotEqual(t, healthBarColor(0.9), healthBarColor(0.5))
	assert.NotEqual(t, healthBarColor(0.5), healthBarColor(0.1))
}
