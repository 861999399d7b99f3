package game

import (
	"fmt"
	"strings"
)

// enemyDebugReport describes one enemy and the session around it for
// pasting into a bug report.
func enemyDebugReport(s *Session, e *Enemy, seed int64) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- Grid Skirmish debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d now=%s cell=%.1f weapon=%s\n",
		seed, s.Tick(), s.Now(), s.World.CellSize, s.Weapon())

	hi := s.Player.HealthInfo()
	fmt.Fprintf(&b, "player: hp=%.1f/%.1f alive=%t at (%.3f,%.3f)\n\n",
		hi.Current, hi.Max, hi.Alive, s.Player.Pos().X, s.Player.Pos().Y)

	if e == nil {
		b.WriteString("(no enemy selected)\n")
	} else {
		writeEnemy(&b, s, e)
	}

	st := s.Stats()
	b.WriteString("\nsession:\n")
	fmt.Fprintf(&b, "  spawned=%d kills=%d deaths=%d resurrections=%d failures=%d\n",
		st.Spawned, st.TotalKills(), st.Deaths, st.Resurrections, st.Failures)
	fmt.Fprintf(&b, "  shots: player=%d enemy=%d  hits: enemy=%d player=%d contact=%d  damage_taken=%.1f\n",
		st.PlayerShots, st.EnemyShots, st.EnemyHits, st.PlayerHits, st.ContactHits, st.DamageTaken)
	if s.Projectiles != nil {
		ps := s.Projectiles.Stats()
		fmt.Fprintf(&b, "  projectiles: total=%d active=%d destroyed=%d effects=%d\n",
			ps.Total, ps.Active, ps.Destroyed, len(s.Projectiles.Effects()))
	}
	return b.String()
}

func writeEnemy(b *strings.Builder, s *Session, e *Enemy) {
	st := e.Stats()
	h := e.Health()
	fmt.Fprintf(b, "== %s %s ==\n", enemyLabel(e.ID), e.Kind)
	fmt.Fprintf(b, "hp=%.1f/%.1f alive=%t at (%.3f,%.3f) dist=%.3f\n",
		h.Current(), h.Max(), h.Alive(), e.Pos().X, e.Pos().Y, e.Pos().DistanceTo(s.Player.Pos()))
	fmt.Fprintf(b, "behavior=%s%s\n", e.BehaviorName(), behaviorDetail(e.Behavior()))
	fmt.Fprintf(b, "speed=%.2f/tick damage=%.1f size=%.0f shape=%s\n", st.Speed, st.Damage, st.Size, st.Shape)

	cfg := e.Projectile
	if cfg.Enabled {
		fmt.Fprintf(b, "fires %s every %s dmg=%.1f range=%.2f next=%s\n",
			cfg.Kind, cfg.FireRate, cfg.Damage, cfg.Range, e.nextShotAt)
	} else {
		b.WriteString("no ranged attack\n")
	}
	if e.nextContactAt > s.Now() {
		fmt.Fprintf(b, "contact cooldown until %s\n", e.nextContactAt)
	}

	statuses := e.Statuses(s.Now())
	if len(statuses) == 0 {
		return
	}
	b.WriteString("statuses:\n")
	for _, as := range statuses {
		fmt.Fprintf(b, "  - %s x%.2f for %s since %s\n", as.Name, as.Magnitude, as.Duration, as.AppliedAt)
	}
}

func behaviorDetail(b EnemyBehavior) string {
	switch bh := b.(type) {
	case *PatrolBehavior:
		if c, ok := bh.Center(); ok {
			return fmt.Sprintf(" center=(%.2f,%.2f)", c.X, c.Y)
		}
	case *WanderBehavior:
		t := bh.Target()
		return fmt.Sprintf(" target=(%.2f,%.2f)", t.X, t.Y)
	}
	return ""
}
