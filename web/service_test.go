package web

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/service"
	"github.com/lixenwraith/bugsnake/storage"
)

// TestWebServiceLifecycle verifies the hub starts storage before web and serves the embedded site
func TestWebServiceLifecycle(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "scores.toml")

	st := storage.NewService()
	web := NewService()

	hub := service.NewHub()
	if err := hub.Register(web, cfg, st); err != nil {
		t.Fatalf("Register web: %v", err)
	}
	if err := hub.Register(st, cfg.Storage); err != nil {
		t.Fatalf("Register storage: %v", err)
	}
	if err := hub.InitAll(); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if err := hub.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}

	addr := web.Addr()
	if addr == nil {
		t.Fatal("Expected bound address after Start")
	}

	resp, err := http.Get("http://" + addr.String() + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for embedded index, got %d", resp.StatusCode)
	}

	done := web.Done()
	hub.StopAll()
	select {
	case <-done:
	default:
		t.Error("Expected server stopped after StopAll")
	}
	if err := web.Stop(); err != nil {
		t.Errorf("Expected repeated Stop to be harmless, got %v", err)
	}
}

// TestWebServiceInitArgs verifies argument validation
func TestWebServiceInitArgs(t *testing.T) {
	if err := NewService().Init(); err == nil {
		t.Error("Expected error without config")
	}
	if err := NewService().Init("config"); err == nil {
		t.Error("Expected error for wrong config type")
	}
	if err := NewService().Init(config.Default(), 3); err == nil {
		t.Error("Expected error for wrong storage type")
	}
}

// TestWebServiceBadAddr verifies a listen failure fails Start
func TestWebServiceBadAddr(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "256.0.0.1:bad"
	svc := NewService()
	svc.Init(cfg)
	if err := svc.Start(); err == nil {
		svc.Stop()
		t.Error("Expected listen error")
	}
}
