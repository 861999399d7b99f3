package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	added []*Projectile
}

func (c *captureSink) Add(p *Projectile) EntityID {
	c.added = append(c.added, p)
	return EntityID(len(c.added))
}

type panicBehavior struct{}

func (panicBehavior) Update(*Enemy, GridPos, float64) { panic("behavior exploded") }
func (panicBehavior) Name() string                    { return "panic" }
func (panicBehavior) enemyBehavior()                  {}

type enemyRig struct {
	tuning  *Tuning
	factory *EnemyFactory
	player  *Player
	sink    *captureSink
	cues    *CueQueue
	em      *EnemyManager
}

func newEnemyRig(t *testing.T) *enemyRig {
	t.Helper()
	tu := MustDefaultTuning()
	r := &enemyRig{
		tuning:  tu,
		factory: NewEnemyFactory(tu, rand.New(rand.NewSource(1))),
		player:  NewPlayer(GridPos{}, tu.Player, nil),
		sink:    &captureSink{},
		cues:    &CueQueue{},
	}
	r.em = NewEnemyManager(NewProjectileFactory(tu, rand.New(rand.NewSource(2))), tu.Combat, r.cues)
	r.em.SetPlayer(r.player)
	r.em.SetProjectileSink(r.sink)
	return r
}

func (r *enemyRig) add(t *testing.T, kind EnemyKind, pos GridPos, patch func(*ProjectileConfig)) *Enemy {
	t.Helper()
	e, err := r.factory.Custom(kind, pos, patch)
	require.NoError(t, err)
	r.em.Add(e)
	return e
}

func noFire(c *ProjectileConfig) { c.Enabled = false }

func TestEnemyManager_AssignsIncreasingIDs(t *testing.T) {
	r := newEnemyRig(t)
	a := r.add(t, EnemyIdle, GridPos{X: 5}, noFire)
	b := r.add(t, EnemyIdle, GridPos{X: 6}, noFire)
	assert.Less(t, uint64(a.ID), uint64(b.ID))

	got, ok := r.em.Get(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.True(t, r.em.Remove(a.ID))
	assert.False(t, r.em.Remove(a.ID))
	assert.Equal(t, 1, r.em.Count())
}

func TestEnemyManager_ContactCooldown(t *testing.T) {
	r := newEnemyRig(t)
	r.add(t, EnemyBasic, GridPos{}, noFire)
	w := DefaultWorld()

	res := r.em.Update(0, tickDt, w)
	assert.Equal(t, 1, res.Contacts)
	assert.Equal(t, 90.0, r.player.Health().Current())
	assert.Equal(t, []SoundCue{CuePlayerHurt}, r.cues.Drain())

	res = r.em.Update(500*time.Millisecond, tickDt, w)
	assert.Zero(t, res.Contacts, "still cooling down")

	res = r.em.Update(time.Second, tickDt, w)
	assert.Equal(t, 1, res.Contacts)
	assert.Equal(t, 80.0, r.player.Health().Current())
}

func TestEnemyManager_ContactKillCuesDeath(t *testing.T) {
	r := newEnemyRig(t)
	r.player.SetMaxHealth(10)
	r.add(t, EnemyBasic, GridPos{}, noFire)

	r.em.Update(0, tickDt, DefaultWorld())
	assert.False(t, r.player.Alive())
	assert.Equal(t, []SoundCue{CuePlayerDeath}, r.cues.Drain())

	r.em.Update(2*time.Second, tickDt, DefaultWorld())
	assert.Empty(t, r.cues.Drain(), "a dead player makes no sound")
}

func TestEnemyManager_FireRespectsRateAndRange(t *testing.T) {
	r := newEnemyRig(t)
	e := r.add(t, EnemyIdle, GridPos{X: 1}, func(c *ProjectileConfig) {
		c.Kind = ProjectileEnemyBullet
		c.FireRate = 2 * time.Second
		c.Damage = 7
	})
	w := DefaultWorld()

	res := r.em.Update(0, tickDt, w)
	require.Len(t, res.Fired, 1)
	p := res.Fired[0]
	assert.Equal(t, OwnerEnemy, p.Owner)
	assert.Equal(t, 7.0, p.Damage, "the enemy's damage overrides the template")
	assert.InDelta(t, -1, p.Dir().X, 1e-9, "aimed at the player")
	assert.Equal(t, w.ToVirtual(p.Pos()), p.Virtual())

	assert.Empty(t, r.em.Update(time.Second, tickDt, w).Fired)
	assert.Len(t, r.em.Update(2*time.Second, tickDt, w).Fired, 1)
	assert.Len(t, r.sink.added, 2)

	e.SetGridPos(GridPos{X: 10})
	assert.Empty(t, r.em.Update(10*time.Second, tickDt, w).Fired, "player out of reach")
}

func TestEnemyManager_EnemyShotsUseEnemyVariant(t *testing.T) {
	r := newEnemyRig(t)
	r.add(t, EnemyIdle, GridPos{X: 1}, func(c *ProjectileConfig) { c.Kind = ProjectileBullet })

	res := r.em.Update(0, tickDt, DefaultWorld())
	require.Len(t, res.Fired, 1)
	assert.Equal(t, ProjectileEnemyBullet, res.Fired[0].Kind)
}

func TestEnemyManager_NoSinkNoFire(t *testing.T) {
	r := newEnemyRig(t)
	r.em.SetProjectileSink(nil)
	r.add(t, EnemyIdle, GridPos{X: 1}, nil)

	assert.NotPanics(t, func() {
		res := r.em.Update(0, tickDt, DefaultWorld())
		assert.Empty(t, res.Fired)
	})
}

func TestEnemyManager_PrunesDeadBeforeUpdating(t *testing.T) {
	r := newEnemyRig(t)
	dead := r.add(t, EnemyIdle, GridPos{X: 5}, noFire)
	r.add(t, EnemyIdle, GridPos{X: 6}, noFire)
	dead.TakeDamage(1000, 0)

	res := r.em.Update(0, tickDt, DefaultWorld())
	assert.Equal(t, []EntityID{dead.ID}, res.Removed)
	assert.Equal(t, 1, r.em.Count())
}

func TestEnemyManager_RecoversPanickingBehavior(t *testing.T) {
	r := newEnemyRig(t)
	bad := r.add(t, EnemyIdle, GridPos{X: 5}, noFire)
	bad.behavior = panicBehavior{}
	good := r.add(t, EnemyBasic, GridPos{X: 5, Y: 5}, noFire)

	var res EnemyTickResult
	require.NotPanics(t, func() { res = r.em.Update(0, tickDt, DefaultWorld()) })
	assert.Equal(t, []EntityID{bad.ID}, res.Failed)
	assert.Less(t, good.Pos().DistanceTo(GridPos{}), GridPos{X: 5, Y: 5}.DistanceTo(GridPos{}), "the rest of the tick ran")
	assert.Equal(t, 2, r.em.Count())
}

func TestEnemyManager_NearestAndPick(t *testing.T) {
	r := newEnemyRig(t)
	far := r.add(t, EnemyIdle, GridPos{X: 5}, noFire)
	near := r.add(t, EnemyIdle, GridPos{X: 2}, noFire)

	got, ok := r.em.Nearest(GridPos{})
	require.True(t, ok)
	assert.Same(t, near, got)

	got, ok = r.em.EnemyAt(GridPos{X: 5.1})
	require.True(t, ok)
	assert.Same(t, far, got)
	_, ok = r.em.EnemyAt(GridPos{X: 3.5})
	assert.False(t, ok)

	assert.True(t, r.em.HasEnemiesInRange(GridPos{}, 2))
	assert.False(t, r.em.HasEnemiesInRange(GridPos{}, 1.9))

	near.TakeDamage(1000, 0)
	got, _ = r.em.Nearest(GridPos{})
	assert.Same(t, far, got, "dead enemies are skipped")

	r.em.Clear()
	_, ok = r.em.Nearest(GridPos{})
	assert.False(t, ok)
}
