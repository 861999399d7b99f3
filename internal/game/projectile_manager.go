package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

const playerHitRingFrames = 25

// ProjectileStats counts projectiles over the manager's lifetime.
type ProjectileStats struct {
	Total     int // ever added
	Active    int // currently in flight
	Destroyed int // expired, spent on a hit, or failed
}

// ProjectileTickResult summarises one ProjectileManager.Update.
type ProjectileTickResult struct {
	EnemyHits  []EntityID // enemies struck directly
	PlayerHits int
	Expired    int
	Failed     []EntityID // projectiles whose flight panicked
}

// ProjectileManager owns projectiles and hit effects.
type ProjectileManager struct {
	projectiles []*Projectile
	effects     []HitEffect
	ids         idSource

	enemies []*Enemy
	player  *Player
	combat  CombatTuning
	cues    *CueQueue

	total     int
	destroyed int
}

// NewProjectileManager returns an empty manager. cues may be nil.
func NewProjectileManager(combat CombatTuning, cues *CueQueue) *ProjectileManager {
	return &ProjectileManager{combat: combat, cues: cues}
}

// Add adopts p, assigns its ID and queues its launch cue.
func (pm *ProjectileManager) Add(p *Projectile) EntityID {
	if p.ID == 0 {
		p.ID = pm.ids.next()
	}
	pm.projectiles = append(pm.projectiles, p)
	pm.total++
	pm.cues.Push(p.launchCue)
	return p.ID
}

// SetEnemies replaces the collision targets. The slice is borrowed, not owned.
func (pm *ProjectileManager) SetEnemies(es []*Enemy) { pm.enemies = es }

// SetPlayer sets the target for enemy-owned projectiles.
func (pm *ProjectileManager) SetPlayer(p *Player) { pm.player = p }

// Projectiles returns the live slice; callers must not modify it.
func (pm *ProjectileManager) Projectiles() []*Projectile { return pm.projectiles }

// Effects returns the running hit effects.
func (pm *ProjectileManager) Effects() []HitEffect { return pm.effects }

// AddEffect adopts a hit effect.
func (pm *ProjectileManager) AddEffect(e HitEffect) {
	if e != nil {
		pm.effects = append(pm.effects, e)
	}
}

// ActiveCount returns the number of projectiles still in flight.
func (pm *ProjectileManager) ActiveCount() int {
	n := 0
	for _, p := range pm.projectiles {
		if p.Active() {
			n++
		}
	}
	return n
}

// Stats returns lifetime counters.
func (pm *ProjectileManager) Stats() ProjectileStats {
	return ProjectileStats{Total: pm.total, Active: pm.ActiveCount(), Destroyed: pm.destroyed}
}

// EnemiesInRange returns the live enemies within r grid units of (x, y).
func (pm *ProjectileManager) EnemiesInRange(x, y, r float64) []*Enemy {
	at := GridPos{X: x, Y: y}
	var out []*Enemy
	for _, e := range pm.enemies {
		if e.Alive() && e.pos.DistanceTo(at) <= r {
			out = append(out, e)
		}
	}
	return out
}

// ClearAll drops every projectile and effect.
func (pm *ProjectileManager) ClearAll() {
	pm.destroyed += len(pm.projectiles)
	pm.projectiles = nil
	pm.effects = nil
}

// UpdateVirtualPositions recomputes pixel positions after a zoom change.
func (pm *ProjectileManager) UpdateVirtualPositions(w World) {
	for _, p := range pm.projectiles {
		p.RefreshVirtual(w)
	}
}

// Update moves every projectile, resolves collisions, advances hit effects
// and prunes what is finished.
func (pm *ProjectileManager) Update(now time.Duration, dt float64, w World) ProjectileTickResult {
	var res ProjectileTickResult

	// 1. Flight.
	for _, p := range pm.projectiles {
		if !p.Active() {
			continue
		}
		if !pm.safeUpdate(p, dt, w) {
			res.Failed = append(res.Failed, p.ID)
			continue
		}
		if !p.Active() {
			res.Expired++
		}
	}

	// 2. Collisions.
	for _, p := range pm.projectiles {
		if !p.Active() {
			continue
		}
		switch p.Owner {
		case OwnerPlayer:
			if e := pm.firstEnemyHit(p, w); e != nil {
				pm.hitEnemy(p, e, now)
				res.EnemyHits = append(res.EnemyHits, e.ID)
			}
		case OwnerEnemy:
			if pm.hitPlayer(p, now) {
				res.PlayerHits++
			}
		}
	}

	// 3. Effects.
	keptFx := pm.effects[:0]
	for _, fx := range pm.effects {
		fx.Update(dt)
		if !fx.Done() {
			keptFx = append(keptFx, fx)
		}
	}
	pm.effects = keptFx

	// 4. Prune.
	kept := pm.projectiles[:0]
	for _, p := range pm.projectiles {
		if p.Active() {
			kept = append(kept, p)
		} else {
			pm.destroyed++
		}
	}
	pm.projectiles = kept
	return res
}

// safeUpdate flies one projectile; a panic deactivates it.
func (pm *ProjectileManager) safeUpdate(p *Projectile, dt float64, w World) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("projectile update failed", "id", p.ID, "kind", p.Kind, "panic", r)
			p.Destroy()
			ok = false
		}
	}()
	p.Update(dt, w)
	return true
}

// firstEnemyHit returns the first live enemy whose outline overlaps p,
// measured in pixels at the current zoom.
func (pm *ProjectileManager) firstEnemyHit(p *Projectile, w World) *Enemy {
	s := w.Scale()
	pv := w.ToVirtual(p.pos)
	for _, e := range pm.enemies {
		if !e.Alive() {
			continue
		}
		if pv.DistanceTo(w.ToVirtual(e.pos)) < (p.Size*s+e.stats.Size*s)/2 {
			return e
		}
	}
	return nil
}

func (pm *ProjectileManager) hitEnemy(p *Projectile, e *Enemy, now time.Duration) {
	at := p.pos
	if p.hitEffect != nil {
		pm.AddEffect(p.hitEffect(at))
	} else {
		pm.AddEffect(NewRingEffect(at, ringFrames))
	}
	cue := p.resolveHit(&Hit{
		Projectile: p,
		Target:     e,
		Now:        now,
		Splash:     pm.EnemiesInRange,
	})
	pm.cues.Push(cue)
}

func (pm *ProjectileManager) hitPlayer(p *Projectile, now time.Duration) bool {
	if pm.player == nil {
		return false
	}
	if p.pos.DistanceTo(pm.player.Pos()) > pm.combat.PlayerHitRange {
		return false
	}
	pm.cues.Push(playerHitCue(pm.player, p.Damage, now))
	pm.AddEffect(NewDoubleRingEffect(pm.player.Pos(), playerHitRingFrames))
	p.Destroy()
	return true
}

// Draw renders projectiles, then hit effects on top.
func (pm *ProjectileManager) Draw(screen *ebiten.Image, v View) {
	for _, p := range pm.projectiles {
		p.Draw(screen, v)
	}
	for _, fx := range pm.effects {
		fx.Draw(screen, v)
	}
}
