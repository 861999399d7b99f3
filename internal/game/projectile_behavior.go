package game

import "math"

const (
	homingCloseRange    = 0.25 // grid units; turn rate is damped inside this
	homingCloseTurnFrac = 0.3
)

// Projectile behavior names.
const (
	FlightStraight = "Straight"
	FlightHoming   = "Homing"
)

// TargetFunc reports where a homing projectile should steer. ok is false when
// there is nothing to chase.
type TargetFunc func() (GridPos, bool)

// ProjectileBehavior moves a projectile for one tick. Each projectile owns
// its own instance; the set of implementations is closed to this package.
type ProjectileBehavior interface {
	Update(p *Projectile, dt float64)
	Name() string
	// fresh returns an instance with the same parameters and no flight state.
	fresh() ProjectileBehavior
}

// StraightBehavior flies along the launch heading.
type StraightBehavior struct{}

func (StraightBehavior) Update(p *Projectile, dt float64) { p.advance(dt) }
func (StraightBehavior) Name() string                     { return FlightStraight }
func (StraightBehavior) fresh() ProjectileBehavior        { return StraightBehavior{} }

// HomingBehavior flies straight for Delay seconds, then turns toward the
// target by at most TurnRate radians per second, always along the shorter
// arc.
type HomingBehavior struct {
	Target   TargetFunc
	TurnRate float64 // radians per second
	Delay    float64 // seconds

	elapsed float64
}

// NewHomingBehavior returns a homing behavior with its own elapsed timer.
func NewHomingBehavior(target TargetFunc, turnRate, delay float64) *HomingBehavior {
	return &HomingBehavior{Target: target, TurnRate: turnRate, Delay: delay}
}

func (b *HomingBehavior) Update(p *Projectile, dt float64) {
	b.elapsed += dt
	if b.elapsed < b.Delay || b.Target == nil {
		p.advance(dt)
		return
	}
	target, ok := b.Target()
	if !ok {
		p.advance(dt)
		return
	}
	to := target.Sub(p.pos)
	rate := b.TurnRate
	if to.Len() < homingCloseRange {
		rate *= homingCloseTurnFrac
	}
	cur := p.dir.Angle()
	diff := wrapAngle(to.Angle() - cur)
	maxTurn := rate * dt
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	p.dir = VecFromAngle(cur + diff)
	p.advance(dt)
}

func (b *HomingBehavior) Name() string { return FlightHoming }

func (b *HomingBehavior) fresh() ProjectileBehavior {
	return NewHomingBehavior(b.Target, b.TurnRate, b.Delay)
}

// wrapAngle maps a into [-π, π].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
