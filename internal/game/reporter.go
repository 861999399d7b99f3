package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// KindReport captures the enemies of one kind at one point in time.
type KindReport struct {
	Kind        EnemyKind
	Alive       int
	Injured     int // health below max but above zero
	AvgHealth   float64
	AvgDistance float64 // grid units from the player
}

// CombatReport is a full snapshot of a session at one tick.
type CombatReport struct {
	Tick int

	PlayerHealth   float64
	PlayerMax      float64
	PlayerAlive    bool
	PlayerPos      GridPos
	ThreatsInReach int // enemies within their own firing range of the player

	EnemiesAlive int
	Kinds        []KindReport

	Projectiles int // in flight
	Effects     int

	Stats SessionStats
}

// --- Reporter ---

// CombatReporter collects periodic reports from a session and summarises
// them over sliding time windows.
type CombatReporter struct {
	history     []CombatReport
	windowTicks int
}

// NewCombatReporter creates a reporter with the given window size.
func NewCombatReporter(windowTicks int) *CombatReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &CombatReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the session.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *CombatReporter) Collect(s *Session) {
	hi := s.Player.HealthInfo()
	rpt := CombatReport{
		Tick:         s.Tick(),
		PlayerHealth: hi.Current,
		PlayerMax:    hi.Max,
		PlayerAlive:  hi.Alive,
		PlayerPos:    s.Player.Pos(),
		Stats:        s.Stats(),
	}

	byKind := map[EnemyKind]*KindReport{}
	ppos := s.Player.Pos()
	for _, e := range s.Enemies.Enemies() {
		if !e.Alive() {
			continue
		}
		rpt.EnemiesAlive++
		kr, ok := byKind[e.Kind]
		if !ok {
			kr = &KindReport{Kind: e.Kind}
			byKind[e.Kind] = kr
		}
		kr.Alive++
		h := e.Health()
		if h.Current() < h.Max() {
			kr.Injured++
		}
		kr.AvgHealth += h.Current()
		d := e.Pos().DistanceTo(ppos)
		kr.AvgDistance += d
		if e.Projectile.Enabled {
			reach := e.Projectile.Range
			if reach <= 0 {
				reach = s.Tuning.Combat.DefaultShootRange
			}
			if d <= reach {
				rpt.ThreatsInReach++
			}
		}
	}
	for _, k := range AllEnemyKinds {
		kr, ok := byKind[k]
		if !ok {
			continue
		}
		kr.AvgHealth /= float64(kr.Alive)
		kr.AvgDistance /= float64(kr.Alive)
		rpt.Kinds = append(rpt.Kinds, *kr)
	}
	if s.Projectiles != nil {
		rpt.Projectiles = s.Projectiles.ActiveCount()
		rpt.Effects = len(s.Projectiles.Effects())
	}
	r.history = append(r.history, rpt)
}

// Latest returns the most recent report, or nil.
func (r *CombatReporter) Latest() *CombatReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *CombatReporter) History() []CombatReport {
	return r.history
}

// WindowSummary aggregates the reports inside the recent window.
func (r *CombatReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	var window []CombatReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	oldest := window[len(window)-1]

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:        oldest.Tick,
		ToTick:          latest.Tick,
		SampleCount:     len(window),
		MinPlayerHealth: latest.PlayerHealth,
	}
	for _, rpt := range window {
		wr.AvgPlayerHealth += rpt.PlayerHealth
		wr.AvgEnemiesAlive += float64(rpt.EnemiesAlive)
		wr.AvgProjectiles += float64(rpt.Projectiles)
		wr.AvgThreats += float64(rpt.ThreatsInReach)
		if rpt.PlayerHealth < wr.MinPlayerHealth {
			wr.MinPlayerHealth = rpt.PlayerHealth
		}
	}
	wr.AvgPlayerHealth /= n
	wr.AvgEnemiesAlive /= n
	wr.AvgProjectiles /= n
	wr.AvgThreats /= n

	wr.Kills = latest.Stats.TotalKills() - oldest.Stats.TotalKills()
	wr.PlayerShots = latest.Stats.PlayerShots - oldest.Stats.PlayerShots
	wr.EnemyShots = latest.Stats.EnemyShots - oldest.Stats.EnemyShots
	wr.EnemyHits = latest.Stats.EnemyHits - oldest.Stats.EnemyHits
	wr.DamageTaken = latest.Stats.DamageTaken - oldest.Stats.DamageTaken
	if wr.PlayerShots > 0 {
		wr.Accuracy = float64(wr.EnemyHits) / float64(wr.PlayerShots)
	}
	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	// Averages over the window.
	AvgPlayerHealth float64
	MinPlayerHealth float64
	AvgEnemiesAlive float64
	AvgProjectiles  float64
	AvgThreats      float64

	// Deltas across the window.
	Kills       int
	PlayerShots int
	EnemyShots  int
	EnemyHits   int
	DamageTaken float64
	Accuracy    float64 // direct hits per player shot
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Combat Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Player ---\n")
	fmt.Fprintf(&sb, "  health: avg=%.1f  min=%.1f  damage_taken=%.1f (%s)\n",
		wr.AvgPlayerHealth, wr.MinPlayerHealth, wr.DamageTaken, pressureLabel(wr.AvgThreats))
	fmt.Fprintf(&sb, "  shots=%d  hits=%d  accuracy=%.0f%%  kills=%d\n",
		wr.PlayerShots, wr.EnemyHits, wr.Accuracy*100, wr.Kills)

	sb.WriteString("\n--- Enemies ---\n")
	fmt.Fprintf(&sb, "  alive: avg=%.1f  threats_in_reach: avg=%.1f  shots=%d\n",
		wr.AvgEnemiesAlive, wr.AvgThreats, wr.EnemyShots)
	fmt.Fprintf(&sb, "  projectiles in flight: avg=%.1f\n", wr.AvgProjectiles)
	return sb.String()
}

func pressureLabel(threats float64) string {
	switch {
	case threats >= 4:
		return "overwhelmed"
	case threats >= 2:
		return "under fire"
	case threats > 0.25:
		return "harassed"
	default:
		return "safe"
	}
}

// FormatLatest returns a concise snapshot of the most recent report.
func (r *CombatReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	fmt.Fprintf(&sb, "Player: hp=%.0f/%.0f alive=%t at (%.2f,%.2f)  threats=%d\n",
		rpt.PlayerHealth, rpt.PlayerMax, rpt.PlayerAlive, rpt.PlayerPos.X, rpt.PlayerPos.Y, rpt.ThreatsInReach)
	fmt.Fprintf(&sb, "Enemies: alive=%d  projectiles=%d effects=%d\n",
		rpt.EnemiesAlive, rpt.Projectiles, rpt.Effects)
	for _, kr := range rpt.Kinds {
		fmt.Fprintf(&sb, "  %-5s alive=%d injured=%d avg_hp=%.1f avg_dist=%.2f\n",
			kr.Kind, kr.Alive, kr.Injured, kr.AvgHealth, kr.AvgDistance)
	}
	return sb.String()
}
