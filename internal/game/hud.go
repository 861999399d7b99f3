package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// HUD font metrics at 1x.
const (
	hudLineH = 14
	hudCharW = 7
	hudPadX  = 5
	hudPadY  = 4
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

var (
	panelBg     = color.RGBA{R: 8, G: 10, B: 14, A: 210}
	panelBorder = color.RGBA{R: 70, G: 90, B: 120, A: 200}
	panelGlow   = color.RGBA{R: 90, G: 120, B: 170, A: 80}
	hudText     = color.RGBA{R: 220, G: 225, B: 235, A: 255}
	hudWarn     = color.RGBA{R: 255, G: 120, B: 110, A: 255}
)

// drawPanel draws a framed text block into dst at (x, y) and returns its size.
func drawPanel(dst *ebiten.Image, x, y float32, lines []string, c color.Color) (float32, float32) {
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	w := float32(maxLen*hudCharW + hudPadX*2)
	h := float32(len(lines)*hudLineH + hudPadY*2)

	vector.FillRect(dst, x, y, w, h, panelBg, false)
	vector.StrokeRect(dst, x, y, w, h, 1.0, panelBorder, false)
	// Inner highlight line along top edge.
	vector.StrokeLine(dst, x+1, y+1, x+w-1, y+1, 1.0, panelGlow, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(x)+hudPadX, float64(y)+hudPadY+float64(i*hudLineH))
		op.ColorScale.ScaleWithColor(c)
		text.Draw(dst, line, hudFace, op)
	}
	return w, h
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.session
	hi := s.Player.HealthInfo()
	st := s.Stats()

	speedStr := "1x"
	switch {
	case g.simSpeed == 0:
		speedStr = "PAUSED"
	case g.simSpeed != 1:
		speedStr = fmt.Sprintf("%gx", g.simSpeed)
	}
	sound := "on"
	if g.muted {
		sound = "off"
	}

	lines := []string{
		fmt.Sprintf("HP %.0f/%.0f  weapon [%d] %s", hi.Current, hi.Max, s.WeaponIndex()+1, s.Weapon()),
		fmt.Sprintf("enemies %d  kills %d  shots %d", s.Enemies.Count(), st.TotalKills(), st.PlayerShots),
		fmt.Sprintf("cell %.0fpx  sim %s  sound %s", s.World.CellSize, speedStr, sound),
		"WASD move  click fire  1/2 weapon",
		"= spawn  - clear  3/5/6 basic/x3/boss",
		"Z hurt  X heal  R revive  wheel zoom",
		"C copy report  M mute  P pause  ,/. speed",
	}
	if g.status != "" && g.frame < g.statusUntil {
		lines = append(lines, "> "+g.status)
	}

	g.hudBuf.Clear()
	drawPanel(g.hudBuf, 4, 4, lines, hudText)

	// Blit hudBuf onto screen at hudScale.
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func (g *Game) drawGameOver(screen *ebiten.Image) {
	s := g.session
	out := DetermineSessionOutcome(s)
	lines := []string{
		"GAME OVER",
		fmt.Sprintf("%s (%s)", out.Outcome, out.Description),
		fmt.Sprintf("kills %d of %d spawned", out.Kills, out.EnemiesSpawned),
		"press R to resurrect",
	}
	if s.Player.IsPlayingDeathAnimation() {
		lines = append(lines, fmt.Sprintf("fading %.0f%%", s.Player.DeathAnimationProgress(s.Now())*100))
	}

	g.hudBuf.Clear()
	bw := float32(g.width / hudScale)
	bh := float32(g.height / hudScale)
	w := float32(0)
	for _, l := range lines {
		if lw := float32(len(l)*hudCharW + hudPadX*2); lw > w {
			w = lw
		}
	}
	h := float32(len(lines)*hudLineH + hudPadY*2)
	drawPanel(g.hudBuf, (bw-w)/2, (bh-h)/2, lines, hudWarn)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}
