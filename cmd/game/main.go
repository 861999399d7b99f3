package main

import (
	"flag"
	"time"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

func main() {
	var configPath string
	var seed int64
	var logLevel string
	var mute bool

	flag.StringVar(&configPath, "config", "", "tuning YAML overlaid on the defaults")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = time based)")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.BoolVar(&mute, "mute", false, "start with sound off")
	flag.Parse()

	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Fatal("bad -log-level", "err", err)
	}
	log.SetLevel(lvl)

	tuning, err := game.DefaultTuning()
	if configPath != "" {
		tuning, err = game.LoadTuning(configPath)
	}
	if err != nil {
		log.Fatal("tuning", "err", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	settings, err := game.OpenSettings("grid-skirmish")
	if err != nil {
		log.Warn("settings kept in memory", "err", err)
		settings = game.NewSettingsStore(nil)
	}
	if mute {
		s := settings.Settings()
		s.Muted = true
		settings.Set(s)
	}

	g, err := game.New(game.Options{
		Tuning:   tuning,
		Seed:     seed,
		Sound:    game.NewToneSink(audio.NewContext(game.SampleRate)),
		Settings: settings,
	})
	if err != nil {
		log.Fatal("new game", "err", err)
	}

	ebiten.SetWindowTitle("Grid Skirmish")
	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
