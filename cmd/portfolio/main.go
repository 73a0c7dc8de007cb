// Command portfolio serves the portfolio site and its browser snake game.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/service"
	"github.com/lixenwraith/bugsnake/storage"
	"github.com/lixenwraith/bugsnake/web"
)

var (
	configFlag = flag.String("config", "", "Path of the TOML configuration file")
	addrFlag   = flag.String("addr", "", "Listen address, overrides server.addr and PORT")
	rootFlag   = flag.String("root", "", "Site directory, overrides server.root (empty serves the embedded site)")
	dataFlag   = flag.String("data", "", "Best-score file, overrides storage.path and BUGSNAKE_DATA")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Errorf("portfolio: %v", err)
		glog.Flush()
		fmt.Fprintf(os.Stderr, "portfolio: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}
	if *rootFlag != "" {
		cfg.Server.Root = *rootFlag
	}
	if *dataFlag != "" {
		cfg.Storage.Path = *dataFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewService()

	hub := service.NewHub()
	if err := hub.Register(store, cfg.Storage); err != nil {
		return err
	}
	if err := hub.Register(web.NewService(), cfg, store); err != nil {
		return err
	}
	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	site := service.MustGet[*web.WebService](hub, "web")

	select {
	case <-ctx.Done():
		glog.Info("shutting down")
	case <-site.Done():
		return errors.New("server stopped unexpectedly")
	}
	return nil
}
