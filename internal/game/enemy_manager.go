package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// ProjectileSink accepts projectiles fired by enemies.
type ProjectileSink interface {
	Add(p *Projectile) EntityID
}

// EnemyTickResult summarises one EnemyManager.Update.
type EnemyTickResult struct {
	Removed  []EntityID    // dead enemies dropped at the start of the tick
	Fired    []*Projectile // projectiles handed to the sink
	Contacts int           // contact hits on the player
	Failed   []EntityID    // enemies whose behavior panicked
}

// EnemyManager owns the live enemies. Each tick it drops the dead, runs every
// behavior, applies contact damage and fires at the player.
type EnemyManager struct {
	enemies []*Enemy
	ids     idSource

	player      *Player
	projectiles ProjectileSink
	factory     *ProjectileFactory
	combat      CombatTuning
	cues        *CueQueue

	warnedNoSink bool
}

// NewEnemyManager returns an empty manager. cues may be nil.
func NewEnemyManager(factory *ProjectileFactory, combat CombatTuning, cues *CueQueue) *EnemyManager {
	return &EnemyManager{factory: factory, combat: combat, cues: cues}
}

// SetPlayer sets the contact and fire target.
func (em *EnemyManager) SetPlayer(p *Player) { em.player = p }

// SetProjectileSink wires enemy fire. With no sink, enemies never shoot.
func (em *EnemyManager) SetProjectileSink(s ProjectileSink) {
	em.projectiles = s
	em.warnedNoSink = false
}

// Add adopts e and assigns it an ID.
func (em *EnemyManager) Add(e *Enemy) EntityID {
	if e.ID == 0 {
		e.ID = em.ids.next()
	}
	em.enemies = append(em.enemies, e)
	return e.ID
}

// Enemies returns the live slice; callers must not modify it.
func (em *EnemyManager) Enemies() []*Enemy { return em.enemies }

// Count returns the number of tracked enemies.
func (em *EnemyManager) Count() int { return len(em.enemies) }

// Get returns the enemy with id.
func (em *EnemyManager) Get(id EntityID) (*Enemy, bool) {
	for _, e := range em.enemies {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// EnemyAt returns the first live enemy closer than the pick range to pos.
func (em *EnemyManager) EnemyAt(pos GridPos) (*Enemy, bool) {
	for _, e := range em.enemies {
		if e.Alive() && e.pos.DistanceTo(pos) < em.combat.PickRange {
			return e, true
		}
	}
	return nil, false
}

// Nearest returns the live enemy closest to pos.
func (em *EnemyManager) Nearest(pos GridPos) (*Enemy, bool) {
	var best *Enemy
	bestD := 0.0
	for _, e := range em.enemies {
		if !e.Alive() {
			continue
		}
		d := e.pos.DistanceTo(pos)
		if best == nil || d < bestD {
			best, bestD = e, d
		}
	}
	return best, best != nil
}

// Remove drops the enemy with id and reports whether it was present.
func (em *EnemyManager) Remove(id EntityID) bool {
	for i, e := range em.enemies {
		if e.ID == id {
			em.enemies = append(em.enemies[:i], em.enemies[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every enemy.
func (em *EnemyManager) Clear() { em.enemies = nil }

// HasEnemiesInRange reports whether any live enemy is within r of pos.
func (em *EnemyManager) HasEnemiesInRange(pos GridPos, r float64) bool {
	for _, e := range em.enemies {
		if e.Alive() && e.pos.DistanceTo(pos) <= r {
			return true
		}
	}
	return false
}

// UpdateVirtualPositions recomputes pixel positions after a zoom change.
func (em *EnemyManager) UpdateVirtualPositions(w World) {
	for _, e := range em.enemies {
		e.RefreshVirtual(w)
	}
}

// Update advances every enemy by one tick at sim time now.
func (em *EnemyManager) Update(now time.Duration, dt float64, w World) EnemyTickResult {
	var res EnemyTickResult

	kept := em.enemies[:0]
	for _, e := range em.enemies {
		if e.Alive() {
			kept = append(kept, e)
		} else {
			res.Removed = append(res.Removed, e.ID)
		}
	}
	em.enemies = kept

	if em.player == nil {
		return res
	}
	target := em.player.Pos()

	for _, e := range em.enemies {
		if !em.safeUpdate(e, target, dt, w) {
			res.Failed = append(res.Failed, e.ID)
		}
	}
	res.Contacts = em.resolveContacts(now)
	res.Fired = em.resolveFire(now, w)
	return res
}

// safeUpdate runs one behavior, recovering a panic so the rest of the frame
// still runs.
func (em *EnemyManager) safeUpdate(e *Enemy, target GridPos, dt float64, w World) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("enemy update failed", "id", e.ID, "kind", e.Kind, "panic", r)
			ok = false
		}
	}()
	e.Update(target, dt, w)
	return true
}

func (em *EnemyManager) resolveContacts(now time.Duration) int {
	hits := 0
	ppos := em.player.Pos()
	for _, e := range em.enemies {
		if !e.Alive() || now < e.nextContactAt {
			continue
		}
		if e.pos.DistanceTo(ppos) > em.combat.ContactRange {
			continue
		}
		em.cues.Push(playerHitCue(em.player, e.Damage(), now))
		e.nextContactAt = now + em.combat.ContactCooldown
		hits++
	}
	return hits
}

func (em *EnemyManager) resolveFire(now time.Duration, w World) []*Projectile {
	if em.projectiles == nil || em.factory == nil {
		if !em.warnedNoSink {
			log.Warn("enemy fire disabled: no projectile manager")
			em.warnedNoSink = true
		}
		return nil
	}
	player := em.player
	target := func() (GridPos, bool) { return player.Pos(), true }

	var fired []*Projectile
	ppos := player.Pos()
	for _, e := range em.enemies {
		cfg := e.Projectile
		if !e.Alive() || !cfg.Enabled || now < e.nextShotAt {
			continue
		}
		reach := cfg.Range
		if reach <= 0 {
			reach = em.combat.DefaultShootRange
		}
		if e.pos.DistanceTo(ppos) > reach {
			continue
		}
		e.nextShotAt = now + cfg.FireRate
		dir, ok := ppos.Sub(e.pos).Normalized()
		if !ok {
			continue
		}
		b, err := em.factory.BuilderForKind(cfg.Kind, target, OwnerEnemy)
		if err != nil {
			log.Warn("enemy fire failed", "id", e.ID, "kind", cfg.Kind, "err", err)
			continue
		}
		p, err := b.Damage(cfg.Damage).BuildProjectile(e.pos, dir)
		if err != nil {
			log.Warn("enemy fire failed", "id", e.ID, "kind", cfg.Kind, "err", err)
			continue
		}
		p.RefreshVirtual(w)
		em.projectiles.Add(p)
		log.Debug("enemy fired", "id", e.ID, "enemy", e.Kind, "projectile", p.Kind)
		fired = append(fired, p)
	}
	return fired
}

// Draw renders every live enemy.
func (em *EnemyManager) Draw(screen *ebiten.Image, v View) {
	for _, e := range em.enemies {
		e.Draw(screen, v)
	}
}
