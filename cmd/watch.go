package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/playlist"
	"github.com/urfave/cli/v3"
)

// Watch polls the queue until interrupted, logging each change and recording now playing history.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.config.PollInterval()
	}

	rec := playlist.NewReconciler(r.client, r.logger)
	poller := playlist.NewPoller(rec, interval, r.logger)
	poller.OnChange(r.logChange)

	if !cmd.Bool("no-history") {
		repo, err := r.history()
		if err != nil {
			return err
		}
		poller.OnChange(playlist.NewHistoryRecorder(repo, r.logger).Observe)
	}

	r.logger.Info("watching queue", "interval", interval, "backend", r.config.API.BaseURL)
	poller.Start(ctx)
	<-ctx.Done()
	poller.Stop()

	r.logger.Info("stopped watching")
	return nil
}

func (r *Runner) logChange(change playlist.Change, state playlist.State) {
	r.logger.Info("queue changed",
		"change", change,
		"now_playing", playlist.Label(state),
		"queued", len(models.FilterQueued(state.Videos)),
	)
}
