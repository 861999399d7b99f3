package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, cfg SessionConfig) *Session {
	t.Helper()
	s, err := NewSession(cfg)
	require.NoError(t, err)
	return s
}

func TestNewSession_InitialWave(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 7, InitialWave: true})
	assert.Positive(t, s.Enemies.Count())
	assert.LessOrEqual(t, s.Enemies.Count(), s.Tuning.Spawn.Initial)
	assert.Equal(t, s.Enemies.Count(), s.Stats().Spawned)
	for _, e := range s.Enemies.Enemies() {
		assert.GreaterOrEqual(t, e.Pos().DistanceTo(s.Player.Pos()), s.Tuning.Spawn.MinDistance)
		assert.Equal(t, s.World.ToVirtual(e.Pos()), e.Virtual())
	}
}

func TestNewSession_SameSeedSameWave(t *testing.T) {
	a := newTestSession(t, SessionConfig{Seed: 11, InitialWave: true})
	b := newTestSession(t, SessionConfig{Seed: 11, InitialWave: true})
	require.Equal(t, a.Enemies.Count(), b.Enemies.Count())
	for i, e := range a.Enemies.Enemies() {
		assert.Equal(t, e.Kind, b.Enemies.Enemies()[i].Kind)
		assert.Equal(t, e.Pos(), b.Enemies.Enemies()[i].Pos())
	}
}

func TestNewSession_BadGenerator(t *testing.T) {
	tu := *MustDefaultTuning()
	tu.Map.Generator = "maze"
	_, err := NewSession(SessionConfig{Tuning: &tu})
	assert.Error(t, err)
}

func TestSession_StepAdvancesClock(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	res := s.Step(Input{})
	assert.Equal(t, 1, res.Tick)
	assert.Equal(t, tickDuration, res.Now)
	s.Step(Input{})
	assert.Equal(t, 2, s.Tick())
	assert.Equal(t, 2*tickDuration, s.Now())
}

func TestSession_MoveIsNormalised(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	for i := 0; i < TicksPerSecond; i++ {
		s.Step(Input{Move: Vec{X: 1, Y: 1}})
	}
	assert.InDelta(t, s.Tuning.Player.Speed, s.Player.Pos().DistanceTo(GridPos{}), 1e-9,
		"diagonals are no faster")
	assert.Equal(t, s.World.ToVirtual(s.Player.Pos()), s.Player.Virtual())
}

func TestSession_FireErrors(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	_, err := s.Fire(s.Player.Pos())
	assert.ErrorContains(t, err, "aim")

	s.DamagePlayer(1000)
	_, err = s.Fire(GridPos{X: 1})
	assert.ErrorContains(t, err, "down")

	bare := newTestSession(t, SessionConfig{Seed: 1, NoProjectiles: true})
	_, err = bare.Fire(GridPos{X: 1})
	assert.ErrorContains(t, err, "projectile manager")
	assert.Zero(t, bare.Stats().PlayerShots)
}

func TestSession_FireStepKillsAndCounts(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	e, err := s.SpawnAt(EnemyBasic, GridPos{X: 1})
	require.NoError(t, err)
	e.Projectile.Enabled = false

	res := s.Step(Input{Fire: true, Aim: e.Pos()})
	require.NotNil(t, res.PlayerShot)
	assert.Equal(t, ProjectileBullet, res.PlayerShot.Kind)
	assert.Contains(t, s.DrainCues(), CueShoot)

	for i := 0; i < 2*TicksPerSecond && s.Stats().TotalKills() == 0; i++ {
		if i%20 == 0 && e.Alive() {
			s.Step(Input{Fire: true, Aim: e.Pos()})
			continue
		}
		s.Step(Input{})
	}
	st := s.Stats()
	assert.Equal(t, 1, st.Kills[EnemyBasic])
	assert.GreaterOrEqual(t, st.EnemyHits, 2)
	assert.Zero(t, s.Enemies.Count(), "pruned once counted")
}

func TestSession_HomingLocksNearestToAim(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	require.True(t, s.SelectWeapon(1))
	assert.Equal(t, ProjectileArrowBullet, s.Weapon())

	target, err := s.SpawnAt(EnemyIdle, GridPos{X: 2, Y: 2})
	require.NoError(t, err)
	_, err = s.SpawnAt(EnemyIdle, GridPos{X: -2, Y: 2})
	require.NoError(t, err)

	p, err := s.Fire(GridPos{X: 1.5, Y: 1.5})
	require.NoError(t, err)
	assert.Equal(t, FlightHoming, p.BehaviorName())
	hb := p.behavior.(*HomingBehavior)
	got, ok := hb.Target()
	require.True(t, ok)
	assert.Equal(t, target.Pos(), got)

	target.TakeDamage(1000, 0)
	_, ok = hb.Target()
	assert.False(t, ok, "a dead target releases the lock")
}

func TestSession_SelectWeaponBounds(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	assert.False(t, s.SelectWeapon(-1))
	assert.False(t, s.SelectWeapon(2))
	assert.Equal(t, 0, s.WeaponIndex())
	assert.Equal(t, ProjectileBullet, s.Weapon())
}

func TestSession_ZoomKeepsGridPositions(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	e, err := s.SpawnAt(EnemyIdle, GridPos{X: 2, Y: 1})
	require.NoError(t, err)
	p, err := s.Fire(GridPos{X: -1})
	require.NoError(t, err)
	s.Player.SetGridPos(GridPos{X: 0.5})

	require.True(t, s.Zoom(true))
	assert.Equal(t, GridPos{X: 2, Y: 1}, e.Pos())
	assert.Equal(t, s.World.ToVirtual(e.Pos()), e.Virtual())
	assert.Equal(t, s.World.ToVirtual(p.Pos()), p.Virtual())
	assert.Equal(t, s.World.ToVirtual(GridPos{X: 0.5}), s.Player.Virtual())

	assert.True(t, s.SetCellSize(s.Tuning.World.MaxCellSize*10))
	assert.Equal(t, s.Tuning.World.MaxCellSize, s.World.CellSize)
	assert.False(t, s.Zoom(true), "already at the maximum")
}

func TestSession_PlayerCommands(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	assert.False(t, s.Resurrect(), "alive players are not resurrected")

	s.DamagePlayer(30)
	assert.Equal(t, []SoundCue{CuePlayerHurt}, s.DrainCues())
	assert.Equal(t, 20.0, s.HealPlayer(20))
	assert.Equal(t, []SoundCue{CuePlayerHeal}, s.DrainCues())
	assert.Equal(t, 10.0, s.HealPlayer(50), "capped at max")
	s.DrainCues()
	assert.Zero(t, s.HealPlayer(5))
	assert.Empty(t, s.DrainCues(), "nothing healed, no cue")

	s.DamagePlayer(500)
	assert.Equal(t, []SoundCue{CuePlayerDeath}, s.DrainCues())
	s.DamagePlayer(10)
	assert.Empty(t, s.DrainCues(), "no cue once down")
	require.True(t, s.Resurrect())
	assert.Equal(t, s.Tuning.Player.MaxHealth, s.Player.Health().Current())

	st := s.Stats()
	assert.Equal(t, 1, st.Deaths)
	assert.Equal(t, 1, st.Resurrections)
	assert.Equal(t, 130.0, st.DamageTaken, "30 then the full 100")
}

func TestSession_StopAndClear(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 3, InitialWave: true})
	_, err := s.Fire(GridPos{X: 1})
	require.NoError(t, err)

	s.Stop()
	assert.Zero(t, s.Enemies.Count())
	assert.Zero(t, s.Projectiles.ActiveCount())
	s.Step(Input{})
	assert.Zero(t, s.Stats().TotalKills(), "cleared enemies are not kills")
}

func TestSession_StatsAreCopies(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1})
	st := s.Stats()
	st.Kills[EnemyBoss] = 9
	assert.Zero(t, s.Stats().Kills[EnemyBoss])
}

func TestSession_WithoutProjectilesEnemiesHold(t *testing.T) {
	s := newTestSession(t, SessionConfig{Seed: 1, NoProjectiles: true})
	_, err := s.SpawnAt(EnemyIdle, GridPos{X: 1})
	require.NoError(t, err)
	for i := 0; i < 5*TicksPerSecond; i++ {
		res := s.Step(Input{})
		require.Empty(t, res.Enemy.Fired)
	}
	assert.Equal(t, s.Tuning.Player.MaxHealth, s.Player.Health().Current())
}
