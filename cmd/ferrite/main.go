package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"ferrite/internal/cache"
	"ferrite/internal/config"
	"ferrite/internal/decode"
	"ferrite/internal/image_list"
	"ferrite/internal/logger"
	"ferrite/internal/ui"
	"ferrite/internal/viewer"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Ferrite",
		zap.Int("cache_capacity", cfg.CacheCapacity),
		zap.String("initial_path", cfg.InitialPath),
	)

	imageCache := cache.New(cfg.CacheCapacity)
	controller := viewer.New(imageCache, decode.FileDecoder{}, log)
	scanner := image_list.New(log)

	if cfg.InitialPath != "" {
		outcome := controller.LoadImage(cfg.InitialPath)
		if outcome.Status != viewer.Displayed {
			log.Warn("Could not display initial image",
				zap.String("path", cfg.InitialPath),
				zap.String("status", outcome.Status.String()),
				zap.Error(outcome.Err),
			)
		}
	}

	app := ui.New(controller, scanner, log)

	ebiten.SetWindowTitle("Ferrite")
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(app); err != nil {
		log.Fatal("Viewer exited", zap.Error(err))
	}

	log.Info("Viewer closed")
}
