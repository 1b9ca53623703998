package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Better-Minimap/internal/game"
	"github.com/Garsondee/Better-Minimap/internal/logger"
)

func main() {
	var opts game.Options
	var logLevel string

	flag.StringVar(&opts.SettingsPath, "settings", "better-minimap.json", "settings file")
	flag.IntVar(&opts.Units, "units", 600, "random units in the world")
	flag.IntVar(&opts.Buildings, "buildings", 150, "random buildings in the world")
	flag.Int64Var(&opts.Seed, "seed", 1, "world seed")
	flag.StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	flag.Parse()

	logger.Init()
	if logLevel != "" {
		if err := logger.SetLevel(logLevel); err != nil {
			logger.Log.WithError(err).Warn("Ignoring bad -log-level.")
		}
	}

	g, err := game.New(opts)
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not start.")
	}

	ebiten.SetWindowTitle("Better Minimap")
	ebiten.SetWindowSize(1280, 720)
	runErr := ebiten.RunGame(g)
	if err := g.Save(); err != nil {
		logger.Log.WithError(err).Warn("Settings not saved.")
	}
	if runErr != nil {
		logger.Log.WithError(runErr).Fatal("Game loop failed.")
	}
}
