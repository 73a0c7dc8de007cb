// Command snake-window plays the bug-eating snake in a desktop window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/audio"
	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/service"
	"github.com/lixenwraith/bugsnake/storage"
	"github.com/lixenwraith/bugsnake/window"
)

var (
	configFlag  = flag.String("config", "", "Path of the TOML configuration file")
	dataFlag    = flag.String("data", "", "Best-score file, overrides storage.path and BUGSNAKE_DATA")
	scaleFlag   = flag.Int("scale", 1, "Window scale factor")
	noSoundFlag = flag.Bool("nosound", false, "Disable sound effects")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Errorf("snake-window: %v", err)
		glog.Flush()
		fmt.Fprintf(os.Stderr, "snake-window: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *dataFlag != "" {
		cfg.Storage.Path = *dataFlag
	}
	if *noSoundFlag {
		cfg.Audio.Enabled = false
	}

	hub := service.NewHub()
	if err := hub.Register(audio.NewService(), cfg.Audio); err != nil {
		return err
	}
	if err := hub.Register(storage.NewService(), cfg.Storage); err != nil {
		return err
	}
	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	sound := service.MustGet[*audio.AudioService](hub, "audio")
	store := service.MustGet[*storage.StorageService](hub, "storage")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return window.Run(ctx, window.Options{
		CellSize: cfg.Game.CellSize,
		Width:    cfg.Game.CanvasWidth,
		Height:   cfg.Game.CanvasHeight,
		Interval: cfg.Game.TickInterval.Duration,
		Scale:    *scaleFlag,
		Store:    store.ScoreStore(""),
		Sound:    sound.Player(),
	})
}
