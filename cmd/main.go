package main

import (
	"context"
	"os"

	"github.com/desertthunder/lightness/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(nil)})
	os.Exit(run(context.Background(), runner, os.Args))
}

// run executes the CLI and returns the process exit code. The runner is closed before returning.
func run(ctx context.Context, runner *Runner, args []string) int {
	defer runner.Close()

	if err := newApp(runner).Run(ctx, args); err != nil {
		runner.logger.Error("application error", "err", err)
		return 1
	}
	return 0
}

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lightness",
		Usage:   "Watch and control the lightness video queue",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   runner.Configure,
		Commands: runner.register(),
	}
}
