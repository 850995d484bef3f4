package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/lightness/internal/formatter"
	"github.com/urfave/cli/v3"
)

type historyRow struct {
	ID        string    `json:"id"`
	VideoID   int64     `json:"playlist_video_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// History prints recorded now playing entries, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.history()
	if err != nil {
		return err
	}

	if cmd.Bool("clear") {
		if err := repo.Clear(); err != nil {
			return err
		}
		return r.writePlain("History cleared\n")
	}

	if cmd.IsSet("keep") {
		removed, err := repo.Prune(cmd.Int("keep"))
		if err != nil {
			return err
		}
		return r.writePlain("Removed %d entries\n", removed)
	}

	entries, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if cmd.Bool("json") {
		rows := make([]historyRow, len(entries))
		for i, e := range entries {
			rows[i] = historyRow{
				ID:        e.ID(),
				VideoID:   e.VideoID(),
				Title:     e.Title(),
				URL:       e.URL(),
				StartedAt: e.StartedAt(),
			}
		}
		return r.writeJSON(rows, true)
	}

	if _, err := r.output.Write(formatter.HistoryToText(entries, time.Local)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	total, err := repo.Count()
	if err != nil {
		return err
	}
	if total > len(entries) {
		return r.writePlain("(showing %d of %d)\n", len(entries), total)
	}
	return nil
}
