package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tuning.yaml
var defaultTuningYAML []byte

// EnemyKind names an enemy stat table entry.
type EnemyKind string

const (
	EnemyBasic EnemyKind = "basic"
	EnemyFast  EnemyKind = "fast"
	EnemyTank  EnemyKind = "tank"
	EnemyBoss  EnemyKind = "boss"
	EnemyIdle  EnemyKind = "idle"
)

// AllEnemyKinds lists every kind the stat table must define.
var AllEnemyKinds = []EnemyKind{EnemyBasic, EnemyFast, EnemyTank, EnemyBoss, EnemyIdle}

// ProjectileKind names a projectile template.
type ProjectileKind string

const (
	ProjectileBullet      ProjectileKind = "bullet"
	ProjectileEnemyBullet ProjectileKind = "enemyBullet"
	ProjectileFireball    ProjectileKind = "fireball"
	ProjectileArrow       ProjectileKind = "arrow"
	ProjectileArrowBullet ProjectileKind = "arrowBullet"
	ProjectileMissile     ProjectileKind = "missile"
	ProjectileLaser       ProjectileKind = "laser"
)

var (
	ErrUnknownEnemyKind      = errors.New("unknown enemy kind")
	ErrUnknownProjectileKind = errors.New("unknown projectile kind")
	ErrInvalidTuning         = errors.New("invalid tuning")
)

// --- Tuning document ---

// Tuning is the full combat configuration. Load it with DefaultTuning or
// LoadTuning; the zero value is not usable.
type Tuning struct {
	World       WorldTuning                           `yaml:"world"`
	Player      PlayerTuning                          `yaml:"player"`
	Map         MapTuning                             `yaml:"map"`
	Spawn       SpawnTuning                           `yaml:"spawn"`
	Combat      CombatTuning                          `yaml:"combat"`
	Enemies     map[EnemyKind]EnemyStats              `yaml:"enemies"`
	Projectiles map[ProjectileKind]ProjectileTemplate `yaml:"projectiles"`
}

type WorldTuning struct {
	CellSize    float64 `yaml:"cellSize"`
	MinCellSize float64 `yaml:"minCellSize"`
	MaxCellSize float64 `yaml:"maxCellSize"`
}

type PlayerTuning struct {
	MaxHealth      float64          `yaml:"maxHealth"`
	Speed          float64          `yaml:"speed"` // grid units per second
	Size           float64          `yaml:"size"`
	StrokeWeight   float64          `yaml:"strokeWeight"`
	Color          RGB              `yaml:"color"`
	DeathAnimation time.Duration    `yaml:"deathAnimation"`
	RevivePercent  float64          `yaml:"revivePercent"`
	Weapons        []ProjectileKind `yaml:"weapons"`
}

type MapColors struct {
	Background RGB `yaml:"background"`
	GridLine   RGB `yaml:"gridLine"`
	Empty      RGB `yaml:"empty"`
	Wall       RGB `yaml:"wall"`
	Spawn      RGB `yaml:"spawn"`
	Goal       RGB `yaml:"goal"`
	Enemy      RGB `yaml:"enemy"`
}

type MapTuning struct {
	Width     int       `yaml:"width"`
	Height    int       `yaml:"height"`
	Scale     float64   `yaml:"scale"`
	Generator string    `yaml:"generator"`
	Colors    MapColors `yaml:"colors"`
}

type SpawnTuning struct {
	Initial     int               `yaml:"initial"`
	Batch       int               `yaml:"batch"`
	MinDistance float64           `yaml:"minDistance"`
	MaxDistance float64           `yaml:"maxDistance"`
	Level       map[EnemyKind]int `yaml:"level"`
}

type CombatTuning struct {
	ContactRange      float64       `yaml:"contactRange"`
	ContactCooldown   time.Duration `yaml:"contactCooldown"`
	DefaultShootRange float64       `yaml:"defaultShootRange"`
	PlayerHitRange    float64       `yaml:"playerHitRange"`
	PickRange         float64       `yaml:"pickRange"`
}

// ProjectileConfig is an enemy's ranged attack.
type ProjectileConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Kind     ProjectileKind `yaml:"kind"`
	FireRate time.Duration  `yaml:"fireRate"`
	Damage   float64        `yaml:"damage"`
	Range    float64        `yaml:"range"` // grid units; 0 uses the combat default
}

// EnemyStats is one row of the enemy stat table.
type EnemyStats struct {
	MaxHealth    float64          `yaml:"maxHealth"`
	Speed        float64          `yaml:"speed"` // world units per tick
	Damage       float64          `yaml:"damage"`
	Size         float64          `yaml:"size"`
	StrokeColor  RGB              `yaml:"strokeColor"`
	StrokeWeight float64          `yaml:"strokeWeight"`
	Shape        Shape            `yaml:"shape"`
	Behavior     string           `yaml:"behavior"`
	Projectile   ProjectileConfig `yaml:"projectile"`
}

type HomingTuning struct {
	TurnRate float64 `yaml:"turnRate"` // radians per second
	Delay    float64 `yaml:"delay"`    // seconds
}

// ProjectileTemplate is one named projectile recipe.
type ProjectileTemplate struct {
	Damage       float64        `yaml:"damage"`
	Speed        float64        `yaml:"speed"`
	Size         float64        `yaml:"size"`
	Color        RGB            `yaml:"color"`
	StrokeWeight float64        `yaml:"strokeWeight"`
	Shape        Shape          `yaml:"shape"`
	Range        float64        `yaml:"range"`
	Owner        Owner          `yaml:"owner"`
	Effects      []StatusEffect `yaml:"effects"`
	Homing       *HomingTuning  `yaml:"homing"`
	HitEffect    string         `yaml:"hitEffect"`
	HitCue       SoundCue       `yaml:"hitCue"`
	SplashRadius float64        `yaml:"splashRadius"`
	// Fallback is used instead when a homing template has no target.
	Fallback ProjectileKind `yaml:"fallback"`
	// EnemyVariant is used instead when an enemy fires this kind.
	EnemyVariant ProjectileKind `yaml:"enemyVariant"`
}

// --- Loading ---

// DefaultTuning returns the embedded defaults.
func DefaultTuning() (*Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(defaultTuningYAML, &t); err != nil {
		return nil, fmt.Errorf("parse embedded tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("embedded tuning: %w", err)
	}
	return &t, nil
}

// MustDefaultTuning is DefaultTuning for tests and tools; it panics on error.
func MustDefaultTuning() *Tuning {
	t, err := DefaultTuning()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTuning overlays the YAML file at path on the defaults. An empty path
// returns the defaults unchanged.
func LoadTuning(path string) (*Tuning, error) {
	if path == "" {
		return DefaultTuning()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning %s: %w", path, err)
	}
	return ParseTuning(raw)
}

// ParseTuning overlays raw YAML on the defaults and validates the result.
func ParseTuning(raw []byte) (*Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(defaultTuningYAML, &t); err != nil {
		return nil, fmt.Errorf("parse embedded tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every referenced kind exists and every template would
// build. All problems are reported together.
func (t *Tuning) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTuning}, args...)...))
	}
	if t.Player.Speed <= 0 {
		bad("player speed must be positive")
	}
	if t.Player.MaxHealth < 1 {
		bad("player maxHealth must be at least 1")
	}
	if t.Map.Width <= 0 || t.Map.Height <= 0 {
		bad("map size %dx%d", t.Map.Width, t.Map.Height)
	}
	if t.World.MinCellSize <= 0 || t.World.MaxCellSize < t.World.MinCellSize {
		bad("cell size bounds [%g, %g]", t.World.MinCellSize, t.World.MaxCellSize)
	}
	if _, err := newGenerator(t.Map.Generator, nil, nil); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidTuning, err))
	}
	for _, w := range t.Player.Weapons {
		if _, ok := t.Projectiles[w]; !ok {
			bad("weapon %q: %w", w, ErrUnknownProjectileKind)
		}
	}
	for _, k := range AllEnemyKinds {
		st, ok := t.Enemies[k]
		if !ok {
			bad("enemy %q missing", k)
			continue
		}
		if _, err := NewEnemyBehavior(st.Behavior, nil); err != nil {
			bad("enemy %q: %v", k, err)
		}
		if st.MaxHealth < 1 {
			bad("enemy %q maxHealth must be at least 1", k)
		}
		if st.Projectile.Enabled {
			if _, ok := t.Projectiles[st.Projectile.Kind]; !ok {
				bad("enemy %q fires %q: %w", k, st.Projectile.Kind, ErrUnknownProjectileKind)
			}
		}
	}
	for _, k := range sortedProjectileKinds(t.Projectiles) {
		tpl := t.Projectiles[k]
		if _, err := tpl.builder(k, nil, nil).Build(); err != nil {
			bad("projectile %q: %w", k, err)
		}
		if _, err := NewHitEffectFactory(tpl.HitEffect, nil); err != nil {
			bad("projectile %q: %v", k, err)
		}
		for _, ref := range []ProjectileKind{tpl.Fallback, tpl.EnemyVariant} {
			if ref == "" {
				continue
			}
			if _, ok := t.Projectiles[ref]; !ok {
				bad("projectile %q refers to %q: %w", k, ref, ErrUnknownProjectileKind)
			}
		}
	}
	return errors.Join(errs...)
}

// Stats returns the stat row for kind.
func (t *Tuning) Stats(kind EnemyKind) (EnemyStats, error) {
	st, ok := t.Enemies[kind]
	if !ok {
		return EnemyStats{}, fmt.Errorf("%w: %q", ErrUnknownEnemyKind, kind)
	}
	return st, nil
}

// NewWorld returns a World at the tuned default zoom.
func (t *Tuning) NewWorld() World {
	w := World{MinCellSize: t.World.MinCellSize, MaxCellSize: t.World.MaxCellSize}
	w.SetCellSize(t.World.CellSize)
	return w
}

func sortedProjectileKinds(m map[ProjectileKind]ProjectileTemplate) []ProjectileKind {
	out := make([]ProjectileKind, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
