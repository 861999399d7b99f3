package game

import (
	"fmt"
)

// TestSim is a headless harness over Session. It mirrors Game.Update without
// Ebiten, seeds deterministically and logs every tick's events to SimLog.
type TestSim struct {
	Session *Session
	SimLog  *SimLog

	cfg       SessionConfig
	mapW      int
	mapH      int
	generator string
	playerAt  GridPos
	pilot     func(*TestSim) Input
	cues      []SoundCue
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // tuning, seed, map, verbose; applied before the session exists
	simOptEntity                      // player placement and enemies; applied after
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithTuning replaces the default tuning.
func WithTuning(t *Tuning) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Tuning = t
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Seed = seed
	}}
}

// WithMapSize sets the map size in cells.
func WithMapSize(w, h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.mapW, ts.mapH = w, h
	}}
}

// WithGenerator picks the map's enemy generator by name.
func WithGenerator(name string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.generator = name
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithoutProjectileManager runs without a projectile manager.
func WithoutProjectileManager() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.NoProjectiles = true
	}}
}

// WithInitialWave spawns the tuned initial wave.
func WithInitialWave() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.InitialWave = true
	}}
}

// WithPlayerAt places the player at (x, y) in grid units.
func WithPlayerAt(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.playerAt = GridPos{X: x, Y: y}
		ts.Session.Player.SetGridPos(ts.playerAt)
		ts.Session.Player.RefreshVirtual(ts.Session.World)
	}}
}

// WithEnemy adds one enemy of kind at (x, y).
func WithEnemy(kind EnemyKind, x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		if _, err := ts.Session.SpawnAt(kind, GridPos{X: x, Y: y}); err != nil {
			panic(fmt.Sprintf("test harness: %v", err))
		}
	}}
}

// WithArmedEnemy adds an enemy whose ranged attack is patched before adoption.
func WithArmedEnemy(kind EnemyKind, x, y float64, patch func(*ProjectileConfig)) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		e, err := ts.Session.EnemyFactory().Custom(kind, GridPos{X: x, Y: y}, patch)
		if err != nil {
			panic(fmt.Sprintf("test harness: %v", err))
		}
		ts.Session.adopt(e)
	}}
}

// WithPilot supplies the player's input each tick.
func WithPilot(fn func(*TestSim) Input) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.pilot = fn
	}}
}

// NewTestSim constructs a TestSim from opts in two ordered passes:
//  1. Infrastructure (tuning, seed, map, verbose), then the session is built
//  2. Player placement and enemies
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		SimLog: NewSimLog(false),
		cfg:    SessionConfig{Seed: 1},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	if ts.cfg.Tuning == nil {
		ts.cfg.Tuning = MustDefaultTuning()
	}
	if ts.mapW > 0 || ts.mapH > 0 || ts.generator != "" {
		t := *ts.cfg.Tuning
		if ts.mapW > 0 {
			t.Map.Width = ts.mapW
		}
		if ts.mapH > 0 {
			t.Map.Height = ts.mapH
		}
		if ts.generator != "" {
			t.Map.Generator = ts.generator
		}
		ts.cfg.Tuning = &t
	}
	s, err := NewSession(ts.cfg)
	if err != nil {
		panic(fmt.Sprintf("test harness: %v", err))
	}
	ts.Session = s
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	ts.logSpawns(0, s.Enemies.Enemies())
	return ts
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances up to maxTicks, stopping when predicate holds. It returns
// the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Session.Tick()
		}
	}
	return -1
}

// Fire launches the selected weapon toward aim outside the tick loop.
func (ts *TestSim) Fire(aim GridPos) (*Projectile, error) {
	p, err := ts.Session.Fire(aim)
	if err == nil {
		ts.logShot(ts.Session.Tick(), "P", "player", p)
	}
	return p, err
}

// runOneTick mirrors Game.Update for the headless harness.
func (ts *TestSim) runOneTick() {
	var in Input
	if ts.pilot != nil {
		in = ts.pilot(ts)
	}
	s := ts.Session
	before := make(map[EntityID]float64, s.Enemies.Count())
	for _, e := range s.Enemies.Enemies() {
		before[e.ID] = e.Health().Current()
	}

	res := s.Step(in)
	tick := res.Tick

	if res.PlayerShot != nil {
		ts.logShot(tick, "P", "player", res.PlayerShot)
	}
	for _, id := range res.Enemy.Removed {
		ts.SimLog.Add(tick, enemyLabel(id), "enemy", "death", "removed", "pruned after death", 0)
	}
	for _, id := range res.Enemy.Failed {
		ts.SimLog.Add(tick, enemyLabel(id), "enemy", "error", "update_failed", "behavior panicked", 0)
	}
	for _, p := range res.Enemy.Fired {
		ts.logShot(tick, "--", "enemy", p)
	}
	if res.Enemy.Contacts > 0 {
		ts.SimLog.Add(tick, "P", "player", "contact", "hit",
			fmt.Sprintf("%d enemies touching", res.Enemy.Contacts), float64(res.Enemy.Contacts))
	}
	for _, id := range res.Projectile.EnemyHits {
		ts.SimLog.Add(tick, enemyLabel(id), "enemy", "hit", "direct", "struck by player fire", 0)
	}
	for _, id := range res.Projectile.Failed {
		ts.SimLog.Add(tick, projectileLabel(id), "--", "error", "update_failed", "flight panicked", 0)
	}
	if res.Projectile.PlayerHits > 0 {
		ts.SimLog.Add(tick, "P", "player", "hit", "projectile",
			fmt.Sprintf("%d enemy shots landed", res.Projectile.PlayerHits), float64(res.Projectile.PlayerHits))
	}
	if res.Projectile.Expired > 0 {
		ts.SimLog.Add(tick, "--", "--", "projectile", "expired",
			fmt.Sprintf("%d out of range", res.Projectile.Expired), float64(res.Projectile.Expired))
	}

	for _, e := range s.Enemies.Enemies() {
		prev, ok := before[e.ID]
		if !ok {
			continue
		}
		if now := e.Health().Current(); now < prev {
			ts.SimLog.Add(tick, enemyLabel(e.ID), "enemy", "health", "damage",
				fmt.Sprintf("%s %.0f → %.0f", e.Kind, prev, now), prev-now)
			if !e.Alive() {
				ts.SimLog.Add(tick, enemyLabel(e.ID), "enemy", "death", "killed", string(e.Kind), 0)
			}
		}
		ts.SimLog.AddVerbose(tick, enemyLabel(e.ID), "enemy", "move", "position",
			fmt.Sprintf("(%.2f,%.2f)", e.Pos().X, e.Pos().Y), 0)
	}

	if res.PlayerDelta < 0 {
		hp := s.Player.Health().Current()
		ts.SimLog.Add(tick, "P", "player", "health", "damage",
			fmt.Sprintf("%.0f → %.0f", hp-res.PlayerDelta, hp), -res.PlayerDelta)
		if !s.Player.Alive() && hp-res.PlayerDelta > 0 {
			ts.SimLog.Add(tick, "P", "player", "death", "killed", "player down", 0)
		}
	}
	ts.SimLog.AddVerbose(tick, "P", "player", "move", "position",
		fmt.Sprintf("(%.2f,%.2f)", s.Player.Pos().X, s.Player.Pos().Y), 0)

	for _, c := range s.DrainCues() {
		ts.cues = append(ts.cues, c)
		ts.SimLog.Add(tick, "--", "--", "sound", string(c), "", 0)
	}
}

func (ts *TestSim) logShot(tick int, who, side string, p *Projectile) {
	ts.SimLog.Add(tick, who, side, "fire", string(p.Kind),
		fmt.Sprintf("%s from (%.2f,%.2f)", projectileLabel(p.ID), p.Pos().X, p.Pos().Y), p.Damage)
}

func (ts *TestSim) logSpawns(tick int, es []*Enemy) {
	for _, e := range es {
		ts.SimLog.Add(tick, enemyLabel(e.ID), "enemy", "spawn", string(e.Kind),
			fmt.Sprintf("at (%.2f,%.2f) %s", e.Pos().X, e.Pos().Y, e.BehaviorName()), 0)
	}
}

// Cues returns every sound cue raised so far, in order.
func (ts *TestSim) Cues() []SoundCue { return ts.cues }

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int { return ts.Session.Tick() }

func enemyLabel(id EntityID) string      { return fmt.Sprintf("E%d", uint64(id)) }
func projectileLabel(id EntityID) string { return fmt.Sprintf("S%d", uint64(id)) }

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick        int
	Player      HealthInfo
	PlayerPos   GridPos
	Enemies     []EnemySnapshot
	Projectiles int
}

// EnemySnapshot is a lightweight copy of an enemy's state at a tick.
type EnemySnapshot struct {
	ID       EntityID
	Kind     EnemyKind
	Pos      GridPos
	Health   float64
	Behavior string
}

// Snapshot returns the current state of the session.
func (ts *TestSim) Snapshot() SimSnapshot {
	s := ts.Session
	snap := SimSnapshot{
		Tick:      s.Tick(),
		Player:    s.Player.HealthInfo(),
		PlayerPos: s.Player.Pos(),
	}
	for _, e := range s.Enemies.Enemies() {
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID:       e.ID,
			Kind:     e.Kind,
			Pos:      e.Pos(),
			Health:   e.Health().Current(),
			Behavior: e.BehaviorName(),
		})
	}
	if s.Projectiles != nil {
		snap.Projectiles = s.Projectiles.ActiveCount()
	}
	return snap
}
