package game

import (
	"math"
	"time"
)

const (
	defaultMaxHealth      = 100.0
	defaultDeathAnimation = 1000 * time.Millisecond
	defaultRevivePercent  = 0.5
)

// HealthInfo is a read-only snapshot of a Health value for HUDs and reports.
type HealthInfo struct {
	Current        float64
	Max            float64
	Percent        float64
	Alive          bool
	DeathStarted   bool
	DeathStart     time.Duration
	DeathAnimation time.Duration
}

// Health is the shared current/max health state machine used by the player
// and by enemies. Current always stays in [0, Max].
//
//	Alive -> (damage to 0) -> Dead (death animation) -> (heal from 0 / revive) -> Alive
type Health struct {
	max     float64
	current float64
	alive   bool

	deathStarted   bool
	deathStart     time.Duration // sim clock when the entity died
	deathAnimation time.Duration
}

// NewHealth returns full health with the given maximum (clamped to >= 1).
func NewHealth(max float64) Health {
	max = math.Max(1, max)
	return NewHealthAt(max, max)
}

// NewHealthAt returns a Health with an explicit starting value.
func NewHealthAt(max, current float64) Health {
	max = math.Max(1, max)
	current = math.Max(0, math.Min(max, current))
	return Health{
		max:            max,
		current:        current,
		alive:          current > 0,
		deathAnimation: defaultDeathAnimation,
	}
}

// TakeDamage subtracts amount and reports whether the owner is now dead.
// Damage against an already dead owner is a no-op that still reports true.
func (h *Health) TakeDamage(amount float64, now time.Duration) bool {
	if !h.alive {
		return true
	}
	if amount < 0 {
		amount = 0
	}
	h.current = math.Max(0, h.current-amount)
	h.alive = h.current > 0
	if !h.alive {
		h.deathStarted = true
		h.deathStart = now
	}
	return !h.alive
}

// Heal adds amount (capped at Max) and returns what was actually restored.
// Healing from zero revives.
func (h *Health) Heal(amount float64) float64 {
	if amount < 0 {
		amount = 0
	}
	old := h.current
	h.current = math.Min(h.max, h.current+amount)
	if old <= 0 && h.current > 0 {
		h.alive = true
		h.ResetDeathAnimation()
	}
	return h.current - old
}

// FullHeal restores to Max and revives.
func (h *Health) FullHeal() {
	h.current = h.max
	h.alive = true
	h.ResetDeathAnimation()
}

// Revive brings the owner back at pct of Max (at least 1 point).
// A non-positive pct uses the default of 50%.
func (h *Health) Revive(pct float64) {
	if pct <= 0 {
		pct = defaultRevivePercent
	}
	h.current = math.Min(h.max, math.Max(1, math.Floor(h.max*pct)))
	h.alive = true
	h.ResetDeathAnimation()
}

// SetMax sets the maximum (clamped to >= 1) and clamps current down to it.
func (h *Health) SetMax(max float64) {
	h.max = math.Max(1, max)
	if h.current > h.max {
		h.current = h.max
	}
}

// IncreaseMax raises (or with a negative amount lowers) the maximum.
func (h *Health) IncreaseMax(amount float64) {
	h.SetMax(h.max + amount)
}

// SetDeathAnimation overrides the death animation length.
func (h *Health) SetDeathAnimation(d time.Duration) {
	if d > 0 {
		h.deathAnimation = d
	}
}

// DeathAnimationProgress returns 0..1 through the death animation; 0 while
// alive or when no animation was started.
func (h Health) DeathAnimationProgress(now time.Duration) float64 {
	if h.alive || !h.deathStarted || h.deathAnimation <= 0 {
		return 0
	}
	p := float64(now-h.deathStart) / float64(h.deathAnimation)
	return math.Max(0, math.Min(1, p))
}

// IsPlayingDeathAnimation reports whether the owner is dead with a running
// (or finished, not yet reset) death animation.
func (h Health) IsPlayingDeathAnimation() bool {
	return !h.alive && h.deathStarted
}

// ResetDeathAnimation clears the death animation start.
func (h *Health) ResetDeathAnimation() {
	h.deathStarted = false
	h.deathStart = 0
}

func (h Health) Current() float64 { return h.current }
func (h Health) Max() float64     { return h.max }
func (h Health) Alive() bool      { return h.alive }

// Percent returns Current/Max.
func (h Health) Percent() float64 {
	return h.current / h.max
}

// Info returns a snapshot.
func (h Health) Info() HealthInfo {
	return HealthInfo{
		Current:        h.current,
		Max:            h.max,
		Percent:        h.Percent(),
		Alive:          h.alive,
		DeathStarted:   h.deathStarted,
		DeathStart:     h.deathStart,
		DeathAnimation: h.deathAnimation,
	}
}
