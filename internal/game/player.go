package game

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	playerDeathParticles = 30
	playerBarWidth       = 30.0  // base px
	playerBarHeight      = 4.0   // base px
	playerBarOffsetY     = -20.0 // base px from the player center
)

// Player is the single controllable entity. It is created once per session
// and never destroyed; death is undone by Revive, Heal or FullHeal.
type Player struct {
	pos     GridPos
	virtual VirtualPos

	Speed        float64 // grid units per second
	Size         float64 // px at BaseCellSize
	StrokeWeight float64
	Color        RGB

	health        Health
	revivePercent float64

	rng        *rand.Rand
	deathBurst *ParticleBurst
}

// NewPlayer builds a player at pos from the tuned player block.
func NewPlayer(pos GridPos, pt PlayerTuning, rng *rand.Rand) *Player {
	h := NewHealth(pt.MaxHealth)
	h.SetDeathAnimation(pt.DeathAnimation)
	return &Player{
		pos:           pos,
		Speed:         pt.Speed,
		Size:          pt.Size,
		StrokeWeight:  pt.StrokeWeight,
		Color:         pt.Color,
		health:        h,
		revivePercent: pt.RevivePercent,
		rng:           rng,
	}
}

func (p *Player) Pos() GridPos        { return p.pos }
func (p *Player) Virtual() VirtualPos { return p.virtual }
func (p *Player) Alive() bool         { return p.health.Alive() }

// SetGridPos teleports the player.
func (p *Player) SetGridPos(g GridPos) { p.pos = g }

// RefreshVirtual recomputes the pixel position for w.
func (p *Player) RefreshVirtual(w World) { p.virtual = w.ToVirtual(p.pos) }

// MapOffset is the translation that keeps the player at the view origin.
func (p *Player) MapOffset() VirtualPos {
	return VirtualPos{X: -p.virtual.X, Y: -p.virtual.Y}
}

// Move steps along dir (not normalised here) for dt seconds. Dead players
// stay put.
func (p *Player) Move(dir Vec, dt float64, w World) {
	if !p.Alive() {
		return
	}
	p.pos = p.pos.Add(dir.Scale(p.Speed * dt))
	p.RefreshVirtual(w)
}

// TakeDamage reduces health and reports whether the player is dead. The
// death burst starts on the killing blow.
func (p *Player) TakeDamage(amount float64, now time.Duration) bool {
	wasAlive := p.Alive()
	dead := p.health.TakeDamage(amount, now)
	if wasAlive && dead && p.rng != nil {
		p.deathBurst = NewParticleBurst(p.pos, playerDeathParticles, p.rng)
	}
	return dead
}

// Heal restores health and returns the amount restored.
func (p *Player) Heal(amount float64) float64 {
	healed := p.health.Heal(amount)
	if p.Alive() {
		p.deathBurst = nil
	}
	return healed
}

// FullHeal restores to max and revives.
func (p *Player) FullHeal() {
	p.health.FullHeal()
	p.deathBurst = nil
}

// Revive brings the player back at pct of max; pct <= 0 uses the tuned
// revive percentage.
func (p *Player) Revive(pct float64) {
	if pct <= 0 {
		pct = p.revivePercent
	}
	p.health.Revive(pct)
	p.deathBurst = nil
}

// ResetDeathAnimation clears the death animation without reviving.
func (p *Player) ResetDeathAnimation() {
	p.health.ResetDeathAnimation()
	p.deathBurst = nil
}

func (p *Player) SetMaxHealth(max float64)      { p.health.SetMax(max) }
func (p *Player) IncreaseMaxHealth(amt float64) { p.health.IncreaseMax(amt) }
func (p *Player) HealthPercent() float64        { return p.health.Percent() }
func (p *Player) HealthInfo() HealthInfo        { return p.health.Info() }
func (p *Player) Health() Health                { return p.health }

// IsPlayingDeathAnimation reports whether the player is dead with the
// animation not yet reset.
func (p *Player) IsPlayingDeathAnimation() bool { return p.health.IsPlayingDeathAnimation() }

// DeathAnimationProgress returns 0..1 through the death animation.
func (p *Player) DeathAnimationProgress(now time.Duration) float64 {
	return p.health.DeathAnimationProgress(now)
}

// Update advances the death burst.
func (p *Player) Update(dt float64) {
	if p.deathBurst != nil {
		p.deathBurst.Update(dt)
		if p.deathBurst.Done() {
			p.deathBurst = nil
		}
	}
}

// playerHitCue applies damage and names the resulting sound: hurt while the
// player survives, death on the killing blow, nothing when already dead.
func playerHitCue(p *Player, amount float64, now time.Duration) SoundCue {
	if !p.Alive() {
		return CueNone
	}
	if p.TakeDamage(amount, now) {
		return CuePlayerDeath
	}
	return CuePlayerHurt
}

// Draw renders the player outline and health bar, or the death burst.
func (p *Player) Draw(screen *ebiten.Image, v View) {
	sx, sy := v.ToScreen(p.pos)
	if !p.Alive() {
		if p.deathBurst != nil {
			p.deathBurst.Draw(screen, v)
		}
		return
	}
	drawOutline(screen, ShapeCircle, sx, sy, float64(v.Px(p.Size)), 0, v.Px(p.StrokeWeight), p.Color.Color())

	pct := p.health.Percent()
	w, h := v.Px(playerBarWidth), v.Px(playerBarHeight)
	x, y := sx-w/2, sy+v.Px(playerBarOffsetY)
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}, false)
	vector.FillRect(screen, x, y, w*float32(pct), h, playerBarColor(pct), false)
	vector.StrokeRect(screen, x, y, w, h, 1, color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 255}, false)
}

func playerBarColor(pct float64) color.RGBA {
	switch {
	case pct > 0.6:
		return color.RGBA{R: 0x4a, G: 0xde, B: 0x80, A: 255}
	case pct > 0.3:
		return color.RGBA{R: 0xfb, G: 0xbf, B: 0x24, A: 255}
	default:
		return color.RGBA{R: 0xf8, G: 0x71, B: 0x71, A: 255}
	}
}
