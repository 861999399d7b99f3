package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// TicksPerSecond is the fixed simulation rate.
const TicksPerSecond = 60

const (
	tickDt       = 1.0 / TicksPerSecond
	tickDuration = time.Second / TicksPerSecond
)

// Input is what the player does during one tick.
type Input struct {
	Move Vec     // raw direction; normalised before use
	Fire bool    // launch the selected weapon toward Aim
	Aim  GridPos // grid position under the cursor
}

// StepResult reports what happened during one Session.Step.
type StepResult struct {
	Tick        int
	Now         time.Duration
	PlayerShot  *Projectile
	Enemy       EnemyTickResult
	Projectile  ProjectileTickResult
	PlayerDelta float64 // health change this tick
}

// SessionStats are running totals for reports.
type SessionStats struct {
	PlayerShots   int
	EnemyShots    int
	EnemyHits     int
	PlayerHits    int
	ContactHits   int
	Kills         map[EnemyKind]int
	Spawned       int
	DamageTaken   float64
	Deaths        int
	Resurrections int
	Failures      int // recovered entity panics
}

// TotalKills sums Kills.
func (st SessionStats) TotalKills() int {
	n := 0
	for _, k := range st.Kills {
		n += k
	}
	return n
}

// SessionConfig configures NewSession.
type SessionConfig struct {
	Tuning *Tuning
	Seed   int64
	// Spawn the tuned initial wave around the player.
	InitialWave bool
	// Run without a projectile manager: enemies never shoot and the player
	// cannot fire.
	NoProjectiles bool
}

// Session is one running simulation: the clock, the player, the map and both
// managers, stepped in a fixed order. It draws nothing and plays nothing;
// Game and the headless runner sit on top of it.
type Session struct {
	Tuning *Tuning
	World  World

	Player      *Player
	Map         *GameMap
	Enemies     *EnemyManager
	Projectiles *ProjectileManager

	enemyFactory      *EnemyFactory
	projectileFactory *ProjectileFactory

	cues   CueQueue
	rng    *rand.Rand
	tick   int
	now    time.Duration
	weapon int
	stats  SessionStats

	enemyKinds map[EntityID]EnemyKind
}

// NewSession builds a session from cfg. A nil tuning uses the defaults.
func NewSession(cfg SessionConfig) (*Session, error) {
	t := cfg.Tuning
	if t == nil {
		var err error
		if t, err = DefaultTuning(); err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- game only
	gen, err := newGenerator(t.Map.Generator, t.Spawn.Level, rand.New(rand.NewSource(rng.Int63()))) // #nosec G404 -- game only
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		Tuning:     t,
		World:      t.NewWorld(),
		rng:        rng,
		stats:      SessionStats{Kills: map[EnemyKind]int{}},
		enemyKinds: map[EntityID]EnemyKind{},
	}
	s.enemyFactory = NewEnemyFactory(t, rand.New(rand.NewSource(rng.Int63())))           // #nosec G404 -- game only
	s.projectileFactory = NewProjectileFactory(t, rand.New(rand.NewSource(rng.Int63()))) // #nosec G404 -- game only
	s.Map = NewGameMap(t.Map, gen, rand.New(rand.NewSource(rng.Int63())))                // #nosec G404 -- game only
	s.Player = NewPlayer(GridPos{}, t.Player, rand.New(rand.NewSource(rng.Int63())))      // #nosec G404 -- game only

	s.Enemies = NewEnemyManager(s.projectileFactory, t.Combat, &s.cues)
	s.Enemies.SetPlayer(s.Player)
	if !cfg.NoProjectiles {
		s.Projectiles = NewProjectileManager(t.Combat, &s.cues)
		s.Projectiles.SetPlayer(s.Player)
		s.Enemies.SetProjectileSink(s.Projectiles)
	}
	s.Player.RefreshVirtual(s.World)

	if cfg.InitialWave {
		s.Spawn(t.Spawn.Initial, "")
	}
	return s, nil
}

func (s *Session) Tick() int                   { return s.tick }
func (s *Session) Now() time.Duration          { return s.now }
func (s *Session) EnemyFactory() *EnemyFactory { return s.enemyFactory }

// Stats returns a copy of the running totals.
func (s *Session) Stats() SessionStats {
	st := s.stats
	st.Kills = make(map[EnemyKind]int, len(s.stats.Kills))
	for k, n := range s.stats.Kills {
		st.Kills[k] = n
	}
	return st
}

// Step advances the simulation by one tick: input, player movement, enemies,
// then projectiles.
func (s *Session) Step(in Input) StepResult {
	s.tick++
	s.now += tickDuration
	res := StepResult{Tick: s.tick, Now: s.now}
	before := s.Player.Health().Current()
	wasAlive := s.Player.Alive()

	if in.Fire {
		p, err := s.Fire(in.Aim)
		if err != nil {
			log.Debug("player fire skipped", "err", err)
		}
		res.PlayerShot = p
	}

	if dir, ok := in.Move.Normalized(); ok {
		s.Player.Move(dir, tickDt, s.World)
	}

	res.Enemy = s.Enemies.Update(s.now, tickDt, s.World)
	for _, id := range res.Enemy.Removed {
		s.stats.Kills[s.enemyKinds[id]]++
		delete(s.enemyKinds, id)
	}
	s.stats.EnemyShots += len(res.Enemy.Fired)
	s.stats.ContactHits += res.Enemy.Contacts
	s.stats.Failures += len(res.Enemy.Failed)

	if s.Projectiles != nil {
		s.Projectiles.SetEnemies(s.Enemies.Enemies())
		res.Projectile = s.Projectiles.Update(s.now, tickDt, s.World)
		s.stats.EnemyHits += len(res.Projectile.EnemyHits)
		s.stats.PlayerHits += res.Projectile.PlayerHits
		s.stats.Failures += len(res.Projectile.Failed)
	}

	s.Player.Update(tickDt)

	res.PlayerDelta = s.Player.Health().Current() - before
	if res.PlayerDelta < 0 {
		s.stats.DamageTaken -= res.PlayerDelta
	}
	if wasAlive && !s.Player.Alive() {
		s.stats.Deaths++
	}
	return res
}

// DrainCues returns and clears the sound cues raised since the last drain.
func (s *Session) DrainCues() []SoundCue { return s.cues.Drain() }

// Stop clears both managers.
func (s *Session) Stop() {
	s.Enemies.Clear()
	if s.Projectiles != nil {
		s.Projectiles.ClearAll()
	}
	s.enemyKinds = map[EntityID]EnemyKind{}
}

// --- Weapons ---

// Weapon returns the selected weapon kind.
func (s *Session) Weapon() ProjectileKind {
	ws := s.Tuning.Player.Weapons
	if len(ws) == 0 {
		return ProjectileBullet
	}
	return ws[s.weapon%len(ws)]
}

// WeaponIndex returns the selected weapon slot.
func (s *Session) WeaponIndex() int { return s.weapon }

// SelectWeapon switches to slot i and reports whether i exists.
func (s *Session) SelectWeapon(i int) bool {
	if i < 0 || i >= len(s.Tuning.Player.Weapons) {
		return false
	}
	s.weapon = i
	return true
}

// Fire launches the selected weapon from the player toward aim. Homing shots
// lock onto the live enemy nearest aim.
func (s *Session) Fire(aim GridPos) (*Projectile, error) {
	if s.Projectiles == nil {
		return nil, errors.New("no projectile manager")
	}
	if !s.Player.Alive() {
		return nil, errors.New("player is down")
	}
	origin := s.Player.Pos()
	dir := aim.Sub(origin)
	if _, ok := dir.Normalized(); !ok {
		return nil, errors.New("aim is on the player")
	}
	b, err := s.projectileFactory.BuilderForKind(s.Weapon(), s.lockOn(aim), OwnerPlayer)
	if err != nil {
		return nil, err
	}
	p, err := b.BuildProjectile(origin, dir)
	if err != nil {
		return nil, err
	}
	p.RefreshVirtual(s.World)
	s.Projectiles.Add(p)
	s.stats.PlayerShots++
	return p, nil
}

// lockOn returns a target func following the enemy nearest aim, or nil when
// there is none.
func (s *Session) lockOn(aim GridPos) TargetFunc {
	e, ok := s.Enemies.Nearest(aim)
	if !ok {
		return nil
	}
	return func() (GridPos, bool) {
		if !e.Alive() {
			return GridPos{}, false
		}
		return e.Pos(), true
	}
}

// --- Spawning ---

// Spawn asks the map generator for n enemies of kind (empty for random)
// around the player and adopts them. It returns how many appeared.
func (s *Session) Spawn(n int, kind EnemyKind) int {
	req := SpawnRequest{
		Count:         s.Tuning.Spawn.Batch,
		CountOverride: n,
		MinDistance:   s.Tuning.Spawn.MinDistance,
		MaxDistance:   s.Tuning.Spawn.MaxDistance,
		Kind:          kind,
		Origin:        s.Player.Pos(),
	}
	spawned := s.Map.SpawnEnemies(req, s.enemyFactory)
	for _, e := range spawned {
		s.adopt(e)
	}
	return len(spawned)
}

// SpawnAt places one enemy of kind at pos, bypassing the generator.
func (s *Session) SpawnAt(kind EnemyKind, pos GridPos) (*Enemy, error) {
	e, err := s.enemyFactory.New(kind, pos)
	if err != nil {
		return nil, err
	}
	s.adopt(e)
	return e, nil
}

func (s *Session) adopt(e *Enemy) {
	e.RefreshVirtual(s.World)
	id := s.Enemies.Add(e)
	s.enemyKinds[id] = e.Kind
	s.stats.Spawned++
	log.Debug("enemy spawned", "id", id, "kind", e.Kind, "x", e.Pos().X, "y", e.Pos().Y)
}

// ClearEnemies removes every enemy without counting kills.
func (s *Session) ClearEnemies() {
	s.Enemies.Clear()
	s.enemyKinds = map[EntityID]EnemyKind{}
}

// --- Player commands ---

// DamagePlayer hurts the player directly.
func (s *Session) DamagePlayer(amount float64) {
	wasAlive := s.Player.Alive()
	before := s.Player.Health().Current()
	s.cues.Push(playerHitCue(s.Player, amount, s.now))
	s.stats.DamageTaken += before - s.Player.Health().Current()
	if wasAlive && !s.Player.Alive() {
		s.stats.Deaths++
	}
}

// HealPlayer heals the player and returns the amount restored.
func (s *Session) HealPlayer(amount float64) float64 {
	healed := s.Player.Heal(amount)
	if healed > 0 {
		s.cues.Push(CuePlayerHeal)
	}
	return healed
}

// Resurrect fully heals a downed player. It does nothing while alive.
func (s *Session) Resurrect() bool {
	if s.Player.Alive() {
		return false
	}
	s.Player.FullHeal()
	s.cues.Push(CuePlayerHeal)
	s.stats.Resurrections++
	return true
}

// --- Zoom ---

// Zoom changes the cell size by one step and refreshes every virtual
// position. Grid positions never change.
func (s *Session) Zoom(in bool) bool {
	if !s.World.Zoom(in) {
		return false
	}
	s.refreshVirtual()
	return true
}

// SetCellSize sets an explicit cell size (clamped).
func (s *Session) SetCellSize(cs float64) bool {
	if !s.World.SetCellSize(cs) {
		return false
	}
	s.refreshVirtual()
	return true
}

func (s *Session) refreshVirtual() {
	s.Player.RefreshVirtual(s.World)
	s.Enemies.UpdateVirtualPositions(s.World)
	if s.Projectiles != nil {
		s.Projectiles.UpdateVirtualPositions(s.World)
	}
}
