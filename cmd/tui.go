package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lightness/internal/playlist"
	"github.com/desertthunder/lightness/internal/shared"
	"github.com/desertthunder/lightness/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist widget.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.LogLevel())
	r.SetLogger(fileLogger)

	rec := playlist.NewReconciler(r.client, r.logger)
	model := ui.NewModel(ctx, rec, r.config.PollInterval(), r.logger)
	model.SetExpanded(cmd.Bool("expanded"))

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
