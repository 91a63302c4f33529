package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/cutsheet/internal/api"
	"github.com/ignite/cutsheet/internal/config"
	"github.com/ignite/cutsheet/internal/metrics"
	"github.com/ignite/cutsheet/internal/pkg/logger"
	"github.com/ignite/cutsheet/internal/storage"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedactPII(*cfg.Log.RedactPII)

	if _, err := cfg.Options(); err != nil {
		logger.Error("invalid cutsheet config", "error", err)
		os.Exit(1)
	}
	if _, err := cfg.RenderOptions(); err != nil {
		logger.Error("invalid render config", "error", err)
		os.Exit(1)
	}

	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		logger.Error("cannot bind", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := api.NewServer(cfg, metrics.NewRegistry())

	if cfg.Template.Path != "" {
		data, err := loadTemplate(ctx, storage.New(cfg.Storage), cfg.Template.Path)
		if err != nil {
			logger.Error("failed to load template", "path", cfg.Template.Path, "error", err)
			os.Exit(1)
		}
		server.SetTemplate(data)
		logger.Info("template loaded", "path", cfg.Template.Path, "bytes", len(data))
	}

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

func loadTemplate(ctx context.Context, store storage.Store, location string) ([]byte, error) {
	rc, err := store.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
