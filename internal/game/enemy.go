package game

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	enemySpinPerTick   = 0.03 // radians; outlines rotate slowly while alive
	healthBarWidthFrac = 1.5  // of enemy size
	healthBarHeight    = 4.0  // base px
	healthBarGap       = 10.0 // base px above the outline
)

// Enemy is one hostile entity. Contact and fire cooldowns live on the enemy
// itself as absolute sim-clock deadlines.
type Enemy struct {
	ID   EntityID
	Kind EnemyKind

	stats      EnemyStats
	Projectile ProjectileConfig
	health     Health
	behavior   EnemyBehavior

	pos     GridPos
	virtual VirtualPos
	spin    float64

	statuses []ActiveStatus

	nextContactAt time.Duration
	nextShotAt    time.Duration
}

// ActiveStatus is a status effect applied to an enemy at a point in time.
type ActiveStatus struct {
	StatusEffect
	AppliedAt time.Duration
}

// newEnemy assembles an enemy from a stat row. The caller assigns the ID.
func newEnemy(kind EnemyKind, st EnemyStats, pos GridPos, behavior EnemyBehavior) *Enemy {
	return &Enemy{
		Kind:       kind,
		stats:      st,
		Projectile: st.Projectile,
		health:     NewHealth(st.MaxHealth),
		behavior:   behavior,
		pos:        pos,
	}
}

func (e *Enemy) Pos() GridPos           { return e.pos }
func (e *Enemy) Virtual() VirtualPos    { return e.virtual }
func (e *Enemy) Alive() bool            { return e.health.Alive() }
func (e *Enemy) Health() Health         { return e.health }
func (e *Enemy) HealthPercent() float64 { return e.health.Percent() }
func (e *Enemy) Speed() float64         { return e.stats.Speed }
func (e *Enemy) Damage() float64        { return e.stats.Damage }
func (e *Enemy) Stats() EnemyStats      { return e.stats }

// SetGridPos moves the enemy; the virtual position follows on the next
// RefreshVirtual.
func (e *Enemy) SetGridPos(g GridPos) { e.pos = g }

// RefreshVirtual recomputes the pixel position for w.
func (e *Enemy) RefreshVirtual(w World) { e.virtual = w.ToVirtual(e.pos) }

// Size returns the on-screen size for w.
func (e *Enemy) Size(w World) float64 { return e.stats.Size * w.Scale() }

// BehaviorName returns the behavior's name.
func (e *Enemy) BehaviorName() string { return e.behavior.Name() }

// Behavior returns the enemy's own behavior instance.
func (e *Enemy) Behavior() EnemyBehavior { return e.behavior }

// TakeDamage reduces health and reports whether the enemy is dead.
func (e *Enemy) TakeDamage(amount float64, now time.Duration) bool {
	return e.health.TakeDamage(amount, now)
}

// Heal restores health and returns the amount restored.
func (e *Enemy) Heal(amount float64) float64 { return e.health.Heal(amount) }

// ApplyStatus records a status effect.
func (e *Enemy) ApplyStatus(s StatusEffect, now time.Duration) {
	e.statuses = append(e.statuses, ActiveStatus{StatusEffect: s, AppliedAt: now})
}

// Statuses returns the effects still running at now and forgets the rest.
// Effects without a duration never expire.
func (e *Enemy) Statuses(now time.Duration) []ActiveStatus {
	kept := e.statuses[:0]
	for _, s := range e.statuses {
		if s.Duration <= 0 || now-s.AppliedAt < s.Duration {
			kept = append(kept, s)
		}
	}
	e.statuses = kept
	return kept
}

// Update runs the behavior for one tick toward target.
func (e *Enemy) Update(target GridPos, dt float64, w World) {
	if !e.Alive() {
		return
	}
	e.behavior.Update(e, target, dt)
	e.spin += enemySpinPerTick
	e.RefreshVirtual(w)
}

// Draw strokes the outline and a health bar above it.
func (e *Enemy) Draw(screen *ebiten.Image, v View) {
	if !e.Alive() {
		return
	}
	sx, sy := v.ToScreen(e.pos)
	size := float64(v.Px(e.stats.Size))
	drawOutline(screen, e.stats.Shape, sx, sy, size, e.spin, v.Px(e.stats.StrokeWeight), e.stats.StrokeColor.Color())
	drawHealthBar(screen, sx, sy, float32(size), e.health.Percent(), v)
}

func drawHealthBar(screen *ebiten.Image, sx, sy, size float32, pct float64, v View) {
	w := size * healthBarWidthFrac
	h := v.Px(healthBarHeight)
	x := sx - w/2
	y := sy - size/2 - v.Px(healthBarGap)
	vector.FillRect(screen, x, y, w, h, color.RGBA{A: 30}, false)
	vector.StrokeRect(screen, x, y, w, h, v.Px(1), color.RGBA{A: 255}, false)
	vector.FillRect(screen, x, y, w*float32(pct), h, healthBarColor(pct), false)
}

func healthBarColor(pct float64) color.RGBA {
	switch {
	case pct > 0.6:
		return color.RGBA{R: 70, G: 130, B: 180, A: 200}
	case pct > 0.3:
		return color.RGBA{R: 180, G: 120, B: 70, A: 200}
	default:
		return color.RGBA{R: 180, G: 70, B: 70, A: 200}
	}
}

// --- Factory ---

// randomPool is what RandomEnemy draws from.
var randomPool = []EnemyKind{EnemyBasic, EnemyFast, EnemyTank}

// EnemyFactory builds enemies from the tuned stat table.
type EnemyFactory struct {
	tuning *Tuning
	rng    *rand.Rand
}

// NewEnemyFactory returns a factory over t. rng seeds randomised behaviors.
func NewEnemyFactory(t *Tuning, rng *rand.Rand) *EnemyFactory {
	return &EnemyFactory{tuning: t, rng: rng}
}

// New builds an enemy of kind at pos.
func (f *EnemyFactory) New(kind EnemyKind, pos GridPos) (*Enemy, error) {
	return f.Custom(kind, pos, nil)
}

// Random builds a basic, fast or tank enemy.
func (f *EnemyFactory) Random(pos GridPos) (*Enemy, error) {
	return f.New(randomPool[f.rng.Intn(len(randomPool))], pos)
}

// Custom builds an enemy of kind whose projectile config is adjusted by patch.
func (f *EnemyFactory) Custom(kind EnemyKind, pos GridPos, patch func(*ProjectileConfig)) (*Enemy, error) {
	st, err := f.tuning.Stats(kind)
	if err != nil {
		return nil, err
	}
	if patch != nil {
		patch(&st.Projectile)
	}
	// Each wander instance gets its own stream so enemies never share state.
	behavior, err := NewEnemyBehavior(st.Behavior, rand.New(rand.NewSource(f.rng.Int63()))) // #nosec G404 -- game only
	if err != nil {
		return nil, fmt.Errorf("enemy %q: %w", kind, err)
	}
	return newEnemy(kind, st, pos, behavior), nil
}
