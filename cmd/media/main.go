package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sir_venger/media_lite/internal/app/mediahttp"
	"github.com/sir_venger/media_lite/internal/config"
)

const shutdownTimeout = 15 * time.Second

// main поднимает медиа-сервис и обеспечивает корректное завершение по сигналу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	handler, srv, err := mediahttp.NewServer(cfg, log)
	if err != nil {
		log.Error("init", "err", err)
		os.Exit(1)
	}

	stopSweeper := srv.StartSweeper()
	defer stopSweeper()

	// WriteTimeout не задаём: отдача больших видео может идти долго.
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("media listening",
			"addr", cfg.ListenAddr,
			"video_dir", cfg.VideoDir,
			"image_dir", cfg.ImageDir,
			"sweep_ttl", cfg.SweepTTL,
			"sweep_every", cfg.SweepInterval,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// Сценарий graceful shutdown при получении SIGTERM/SIGINT или падении сервера.
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("shutdown", "err", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("serve", "err", err)
		stopSweeper()
		os.Exit(1)
	}
	log.Info("media stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	lvl, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: lvl}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
