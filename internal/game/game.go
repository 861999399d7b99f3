package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Window size.
const (
	ScreenWidth  = 1280
	ScreenHeight = 800
)

// hudScale is the integer upscale factor applied to all HUD text (2 = 2× larger).
const hudScale = 2

// reportInterval is how often the reporter samples the session (~1s at 60TPS).
const reportInterval = 60

// Keyboard command amounts.
const (
	selfDamageAmount = 10
	selfHealAmount   = 15
	spawnPackSize    = 3
)

// statusTicks is how long a status line stays on the HUD.
const statusTicks = 150

// Options configures New.
type Options struct {
	Tuning   *Tuning
	Seed     int64
	Sound    *ToneSink      // nil plays nothing
	Settings *SettingsStore // nil keeps preferences in memory
}

type Game struct {
	width  int
	height int

	session  *Session
	seed     int64
	sound    *ToneSink
	settings *SettingsStore
	reporter *CombatReporter
	muted    bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	// Input latched between frames and consumed by the next sim tick.
	fireQueued bool
	aim        GridPos

	// Enemy inspector (right-click to select).
	inspector Inspector
	inspBuf   *ebiten.Image

	// Offscreen buffer for HUD text, rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image

	status      string
	statusUntil int
	frame       int
}

func New(opts Options) (*Game, error) {
	s, err := NewSession(SessionConfig{Tuning: opts.Tuning, Seed: opts.Seed, InitialWave: true})
	if err != nil {
		return nil, err
	}
	settings := opts.Settings
	if settings == nil {
		settings = NewSettingsStore(nil)
	}
	g := &Game{
		width:    ScreenWidth,
		height:   ScreenHeight,
		session:  s,
		seed:     opts.Seed,
		sound:    opts.Sound,
		settings: settings,
		reporter: NewCombatReporter(reportWindowTicks),
		simSpeed: 1.0,
		// HUD buffer: 1/hudScale of screen so it renders crisply when scaled up.
		hudBuf: ebiten.NewImage(ScreenWidth/hudScale, ScreenHeight/hudScale),
	}
	settings.Apply(s)
	g.setMuted(settings.Settings().Muted)
	log.Info("session started", "seed", opts.Seed, "enemies", s.Enemies.Count(), "cell", s.World.CellSize)
	return g, nil
}

// Session exposes the running simulation.
func (g *Game) Session() *Session { return g.session }

func (g *Game) Update() error {
	g.frame++
	// Handle input every frame regardless of sim speed.
	g.handleInput()

	if g.simSpeed > 0 {
		// For speeds > 1 run multiple sim ticks per frame.
		// For speeds < 1 accumulate fractions.
		g.tickAccum += g.simSpeed
		for g.tickAccum >= 1.0 {
			g.tickAccum -= 1.0
			g.simTick()
		}
	}

	cues := g.session.DrainCues()
	if !g.muted && g.sound != nil {
		DispatchCues(g.sound, cues)
	}
	return nil
}

// simTick runs one simulation tick.
func (g *Game) simTick() {
	// 1. INPUT: movement is sampled live, fire was latched on click.
	in := Input{Move: moveInput(), Fire: g.fireQueued, Aim: g.aim}
	g.fireQueued = false

	// 2-4. PLAYER, ENEMIES, PROJECTILES.
	res := g.session.Step(in)

	// 5. ANALYTICS: collect a combat report every ~1s.
	if res.Tick%reportInterval == 0 {
		g.reporter.Collect(g.session)
	}
}

// moveInput reads WASD and the arrow keys into a raw direction.
func moveInput() Vec {
	var v Vec
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.X++
	}
	return v
}

// handleInput processes edge-triggered commands.
func (g *Game) handleInput() {
	s := g.session
	mx, my := ebiten.CursorPosition()
	g.aim = g.view().ToGrid(float64(mx), float64(my))

	// Left click: fire toward the cursor on the next tick.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.fireQueued = true
	}
	// Right click: inspect the enemy under the cursor.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.handleInspectorClick(g.aim)
	}

	// Weapons: 1/2.
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2} {
		if inpututil.IsKeyJustPressed(k) && s.SelectWeapon(i) {
			g.flash(fmt.Sprintf("weapon: %s", s.Weapon()))
			g.saveSettings()
		}
	}

	// Spawning: = pack, 3 one basic, 5 three basics, 6 boss; - clears.
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.flash(fmt.Sprintf("spawned %d", s.Spawn(spawnPackSize, "")))
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.flash(fmt.Sprintf("spawned %d basic", s.Spawn(1, EnemyBasic)))
	case inpututil.IsKeyJustPressed(ebiten.Key5):
		g.flash(fmt.Sprintf("spawned %d basic", s.Spawn(spawnPackSize, EnemyBasic)))
	case inpututil.IsKeyJustPressed(ebiten.Key6):
		g.flash(fmt.Sprintf("spawned %d boss", s.Spawn(1, EnemyBoss)))
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.ClearEnemies()
		g.inspector.selected = nil
		g.flash("enemies cleared")
	}

	// Z hurts, X heals, R resurrects after game over.
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		s.DamagePlayer(selfDamageAmount)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		s.HealPlayer(selfHealAmount)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && s.Resurrect() {
		g.flash("resurrected")
	}

	// Zoom: mouse wheel.
	_, wy := ebiten.Wheel()
	if wy != 0 && s.Zoom(wy > 0) {
		g.saveSettings()
	}

	// C copies the report, M mutes, I flips the inspector, P pauses.
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.setMuted(!g.muted)
		g.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}

	// Sim speed controls: ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		for i, sp := range speeds {
			if sp >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		for i, sp := range speeds {
			if sp <= g.simSpeed && i < len(speeds)-1 && speeds[i+1] > g.simSpeed {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}
}

func (g *Game) setMuted(m bool) {
	g.muted = m
	if g.sound != nil {
		g.sound.SetMuted(m)
	}
}

func (g *Game) saveSettings() {
	g.settings.Capture(g.session, g.muted)
	if err := g.settings.Save(); err != nil {
		log.Warn("settings not saved", "err", err)
	}
}

// copyReport puts the combat report and the inspected enemy on the clipboard.
func (g *Game) copyReport() {
	g.reporter.Collect(g.session)
	out := g.reporter.WindowSummary().Format() + "\n" + g.reporter.FormatLatest() + "\n" +
		enemyDebugReport(g.session, g.inspector.selected, g.seed)
	if err := setClipboardText(out); err != nil {
		log.Warn("clipboard write failed", "err", err)
		g.flash("copy failed")
		return
	}
	g.flash("report copied")
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusUntil = g.frame + statusTicks
}

// view centres the player on screen.
func (g *Game) view() View {
	return View{
		OriginX: float64(g.width) / 2,
		OriginY: float64(g.height) / 2,
		Offset:  g.session.Player.MapOffset(),
		World:   g.session.World,
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.session
	screen.Fill(s.Tuning.Map.Colors.Background.Color())

	v := g.view()
	s.Map.Draw(screen, v)
	s.Enemies.Draw(screen, v)
	if s.Projectiles != nil {
		s.Projectiles.Draw(screen, v)
	}
	s.Player.Draw(screen, v)
	g.drawSelection(screen, v)
	g.drawCrosshair(screen)

	g.drawHUD(screen)
	g.drawInspector(screen)
	if !s.Player.Alive() {
		g.drawGameOver(screen)
	}
}

func (g *Game) drawCrosshair(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	x, y := float32(mx), float32(my)
	c := color.RGBA{R: 230, G: 230, B: 230, A: 160}
	vector.StrokeLine(screen, x-6, y, x+6, y, 1, c, false)
	vector.StrokeLine(screen, x, y-6, x, y+6, 1, c, false)
}

func (g *Game) drawSelection(screen *ebiten.Image, v View) {
	e := g.inspector.selected
	if e == nil || !e.Alive() {
		return
	}
	sx, sy := v.ToScreen(e.Pos())
	r := float32(math.Max(8, float64(v.Px(e.Stats().Size))*0.8))
	vector.StrokeCircle(screen, sx, sy, r, 1.5, color.RGBA{R: 255, G: 230, B: 90, A: 200}, false)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
