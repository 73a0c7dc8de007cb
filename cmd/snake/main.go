// Command snake plays the bug-eating snake in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/audio"
	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/core"
	"github.com/lixenwraith/bugsnake/service"
	"github.com/lixenwraith/bugsnake/storage"
	"github.com/lixenwraith/bugsnake/termui"
)

var (
	configFlag  = flag.String("config", "", "Path of the TOML configuration file")
	dataFlag    = flag.String("data", "", "Best-score file, overrides storage.path and BUGSNAKE_DATA")
	noSoundFlag = flag.Bool("nosound", false, "Disable sound effects")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Errorf("snake: %v", err)
		glog.Flush()
		fmt.Fprintf(os.Stderr, "snake: %v\n", err)
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

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.RegisterCleanup(screen.Fini)
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return termui.Run(ctx, screen, termui.Options{
		Interval: cfg.Game.TickInterval.Duration,
		Store:    store.ScoreStore(""),
		Sound:    sound.Player(),
	})
}
