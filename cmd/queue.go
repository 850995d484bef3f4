package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/lightness/internal/formatter"
	"github.com/desertthunder/lightness/internal/playlist"
	"github.com/desertthunder/lightness/internal/shared"
	"github.com/urfave/cli/v3"
)

// fetchQueue runs one reconciliation pass for the one-shot commands.
//
// Unlike the polling loop, a failed or malformed fetch is reported instead of being absorbed.
func (r *Runner) fetchQueue(ctx context.Context) (*playlist.Reconciler, error) {
	rec := playlist.NewReconciler(r.client, r.logger)
	if _, err := rec.Tick(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

// Queue prints the current queue in the requested format.
func (r *Runner) Queue(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	rec, err := r.fetchQueue(ctx)
	if err != nil {
		return err
	}

	out, err := formatter.Render(rec.Snapshot(), format, cmd.Bool("pretty"))
	if err != nil {
		return err
	}

	if _, err := r.output.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Next skips the currently playing video. Nothing is sent when nothing plays.
func (r *Runner) Next(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.fetchQueue(ctx)
	if err != nil {
		return err
	}

	current := rec.Current()
	if current == nil {
		return r.writePlain("%s\n", playlist.NothingLabel)
	}

	if err := rec.NextVideo(ctx); err != nil {
		return err
	}
	return r.writePlain("Skipped %s\n", current.Title)
}

// Clear removes every queued video.
func (r *Runner) Clear(ctx context.Context, cmd *cli.Command) error {
	rec := playlist.NewReconciler(r.client, r.logger)
	if err := rec.ClearQueue(ctx); err != nil {
		return err
	}
	return r.writePlain("Queue cleared\n")
}

// Remove drops one video, looked up by playlist video id, from the queue.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("id")
	if arg == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: %q is not a playlist video id", shared.ErrInvalidArgument, arg)
	}

	rec, err := r.fetchQueue(ctx)
	if err != nil {
		return err
	}

	for _, v := range rec.Videos() {
		if v.ID != id {
			continue
		}
		if err := rec.RemoveVideo(ctx, v); err != nil {
			return err
		}
		return r.writePlain("Removed %s\n", v.Title)
	}

	return fmt.Errorf("%w: video %d is not in the queue", shared.ErrNotFound, id)
}
