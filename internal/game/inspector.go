package game

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Inspector panel, rendered into an offscreen buffer at 1× then blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 260 // buffer width in pixels
	inspBufH  = 300 // buffer height in pixels
	inspBarW  = 14  // cells in a text bar
)

// Inspector holds the selected enemy and view toggle state.
type Inspector struct {
	selected *Enemy
	rawView  bool // false = curated, true = full debug report
}

// handleInspectorClick selects the live enemy at at, or clears the selection
// when there is none. Returns true if an enemy was hit.
func (g *Game) handleInspectorClick(at GridPos) bool {
	if e, ok := g.session.Enemies.EnemyAt(at); ok {
		g.inspector.selected = e
		return true
	}
	g.inspector.selected = nil
	return false
}

// drawInspector renders the panel for the selected enemy bottom-right.
func (g *Game) drawInspector(screen *ebiten.Image) {
	e := g.inspector.selected
	if e == nil {
		return
	}
	if !e.Alive() {
		g.inspector.selected = nil
		return
	}
	if g.inspBuf == nil {
		g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	}
	g.inspBuf.Clear()

	var lines []string
	if g.inspector.rawView {
		lines = strings.Split(strings.TrimRight(enemyDebugReport(g.session, e, g.seed), "\n"), "\n")
	} else {
		lines = g.inspectorCurated(e)
	}
	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	lines = append([]string{
		fmt.Sprintf("[ %s %s ]", enemyLabel(e.ID), e.Kind),
		fmt.Sprintf("view: %s  [I] toggle", viewName),
	}, lines...)
	w, h := drawPanel(g.inspBuf, 0, 0, lines, hudText)

	px := float64(g.width) - float64(w)*inspScale - 12
	py := float64(g.height) - float64(h)*inspScale - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(inspScale, inspScale)
	opts.GeoM.Translate(px, py)
	screen.DrawImage(g.inspBuf, opts)
}

// inspectorCurated lists the fields that matter in a fight.
func (g *Game) inspectorCurated(e *Enemy) []string {
	s := g.session
	st := e.Stats()
	h := e.Health()
	bar := func(label string, v float64) string {
		filled := int(v * inspBarW)
		if filled < 0 {
			filled = 0
		}
		if filled > inspBarW {
			filled = inspBarW
		}
		return fmt.Sprintf("%-7s %s%s %.0f%%", label,
			strings.Repeat("#", filled), strings.Repeat(".", inspBarW-filled), v*100)
	}

	lines := []string{
		"-- STATE --",
		bar("health", h.Percent()),
		fmt.Sprintf("hp %.0f/%.0f  dist %.2f", h.Current(), h.Max(), e.Pos().DistanceTo(s.Player.Pos())),
		fmt.Sprintf("behavior %s%s", e.BehaviorName(), behaviorDetail(e.Behavior())),
		"-- STATS --",
		fmt.Sprintf("speed %.2f  dmg %.0f", st.Speed, st.Damage),
		fmt.Sprintf("size %.0f  shape %s", st.Size, st.Shape),
	}
	if cfg := e.Projectile; cfg.Enabled {
		lines = append(lines, fmt.Sprintf("fires %s/%s", cfg.Kind, cfg.FireRate))
	}
	for _, as := range e.Statuses(s.Now()) {
		lines = append(lines, fmt.Sprintf("status %s x%.1f", as.Name, as.Magnitude))
	}
	return lines
}
