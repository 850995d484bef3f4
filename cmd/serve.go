package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the in-memory development backend until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Address()
	}

	store := server.NewQueueStore()
	for _, url := range cmd.StringSlice("video") {
		video, err := store.Enqueue("", url, models.ColorModeColor)
		if err != nil {
			return err
		}
		r.logger.Debug("enqueued", "id", video.ID, "url", url)
	}
	if playing := store.Advance(); playing != nil {
		r.logger.Info("now playing", "id", playing.ID, "title", playing.Title)
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(server.NewQueueHandler(store, r.logger))

	if playFor := cmd.Duration("play-for"); playFor > 0 {
		go advance(ctx, store, playFor, r.logger)
	}

	r.logger.Info("serving development backend", "addr", addr, "routes", router.Routes())
	return ignoreCanceled(server.ListenAndServe(ctx, addr, router))
}

// advance finishes the playing video every interval, standing in for the player loop.
func advance(ctx context.Context, store *server.QueueStore, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if next := store.Advance(); next != nil {
				logger.Info("now playing", "id", next.ID, "title", next.Title)
			}
		}
	}
}
