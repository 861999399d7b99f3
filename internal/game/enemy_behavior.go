package game

import (
	"fmt"
	"math"
	"math/rand"
)

// --- Enemy behavior constants ---

const (
	patrolRadius         = 0.625 // grid units around the remembered center
	patrolDetectionRange = 1.875 // grid units; inside this a patroller chases
	patrolAngleStep      = 0.02  // radians per tick along the orbit

	wanderRadius        = 1.25   // grid units from the current position
	wanderRepickTicks   = 120    // ticks before a new wander target is forced
	wanderArrivalDist   = 0.0625 // grid units
	wanderSpeedFraction = 0.7
)

// Behavior names, also used as tuning values.
const (
	BehaviorChase  = "chase"
	BehaviorPatrol = "patrol"
	BehaviorWander = "wander"
	BehaviorIdle   = "idle"
)

// EnemyBehavior is a per-tick motion policy. Each enemy owns its own
// instance; the set of implementations is closed to this package.
type EnemyBehavior interface {
	Update(e *Enemy, target GridPos, dt float64)
	Name() string
	enemyBehavior()
}

// NewEnemyBehavior returns a fresh behavior instance by name. rng feeds
// randomised behaviors and may be nil for the others.
func NewEnemyBehavior(name string, rng *rand.Rand) (EnemyBehavior, error) {
	switch name {
	case BehaviorChase:
		return &ChaseBehavior{}, nil
	case BehaviorPatrol:
		return &PatrolBehavior{}, nil
	case BehaviorWander:
		if rng == nil {
			rng = rand.New(rand.NewSource(1)) // #nosec G404 -- game only
		}
		return &WanderBehavior{rng: rng}, nil
	case BehaviorIdle:
		return IdleBehavior{}, nil
	default:
		return nil, fmt.Errorf("unknown enemy behavior %q", name)
	}
}

// gridStep converts a world-unit speed (tuned at BaseCellSize) to grid units
// per tick. Enemy speeds are per tick and independent of zoom.
func gridStep(speed float64) float64 {
	return speed / BaseCellSize
}

// stepToward moves e by step grid units toward target. A zero-length
// direction is a no-op.
func stepToward(e *Enemy, target GridPos, step float64) {
	dir, ok := target.Sub(e.pos).Normalized()
	if !ok {
		return
	}
	e.SetGridPos(e.pos.Add(dir.Scale(step)))
}

// --- Chase ---

// ChaseBehavior walks straight at the target.
type ChaseBehavior struct{}

func (b *ChaseBehavior) Update(e *Enemy, target GridPos, _ float64) {
	stepToward(e, target, gridStep(e.Speed()))
}

func (b *ChaseBehavior) Name() string { return BehaviorChase }
func (b *ChaseBehavior) enemyBehavior() {}

// --- Patrol ---

// PatrolBehavior orbits the first position it saw and chases anything that
// comes within detection range.
type PatrolBehavior struct {
	center      GridPos
	angle       float64
	initialised bool
}

func (b *PatrolBehavior) Update(e *Enemy, target GridPos, _ float64) {
	if !b.initialised {
		b.center = e.pos
		b.initialised = true
	}
	if e.pos.DistanceTo(target) <= patrolDetectionRange {
		stepToward(e, target, gridStep(e.Speed()))
		return
	}
	b.angle += patrolAngleStep
	e.SetGridPos(GridPos{
		X: b.center.X + math.Cos(b.angle)*patrolRadius,
		Y: b.center.Y + math.Sin(b.angle)*patrolRadius,
	})
}

func (b *PatrolBehavior) Name() string { return BehaviorPatrol }
func (b *PatrolBehavior) enemyBehavior() {}

// Center returns the remembered patrol center and whether it is set yet.
func (b *PatrolBehavior) Center() (GridPos, bool) {
	return b.center, b.initialised
}

// --- Wander ---

// WanderBehavior drifts between random points near the enemy.
type WanderBehavior struct {
	rng       *rand.Rand
	target    GridPos
	hasTarget bool
	ticks     int
}

func (b *WanderBehavior) Update(e *Enemy, _ GridPos, _ float64) {
	if !b.hasTarget {
		b.pick(e.pos)
	}
	b.ticks++
	if b.ticks >= wanderRepickTicks {
		b.pick(e.pos)
		b.ticks = 0
	}
	if e.pos.DistanceTo(b.target) > wanderArrivalDist {
		stepToward(e, b.target, gridStep(e.Speed()*wanderSpeedFraction))
		return
	}
	b.pick(e.pos)
}

func (b *WanderBehavior) pick(from GridPos) {
	a := b.rng.Float64() * 2 * math.Pi
	b.target = from.Add(VecFromAngle(a).Scale(wanderRadius))
	b.hasTarget = true
}

// Target returns the current wander destination.
func (b *WanderBehavior) Target() GridPos { return b.target }

func (b *WanderBehavior) Name() string { return BehaviorWander }
func (b *WanderBehavior) enemyBehavior() {}

// --- Idle ---

// IdleBehavior never moves.
type IdleBehavior struct{}

func (IdleBehavior) Update(*Enemy, GridPos, float64) {}
func (IdleBehavior) Name() string                    { return BehaviorIdle }
func (IdleBehavior) enemyBehavior()                  {}
