package main

import (
	"fmt"
	"log/slog"
	"os"

	"git.sr.ht/~sircmpwn/getopt"

	"github.com/titivuk/golox/config"
	"github.com/titivuk/golox/repl"
	"github.com/titivuk/golox/runner"
)

const usage = "Usage: golox [-v] [-c config] [script]"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	opts, optind, err := getopt.Getopts(args, "c:hv")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Println(usage)
		return runner.ExitUsage
	}

	configPath := ""
	verbose := false
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'v':
			verbose = true
		default: // case 'h':
			fmt.Println(usage)
			return runner.ExitOK
		}
	}

	rest := args[optind:]
	if len(rest) > 1 {
		fmt.Println(usage)
		return runner.ExitUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return runner.ExitUsage
	}

	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithMaxCallDepth(cfg.MaxCallDepth),
	}
	switch cfg.Color {
	case config.ColorAlways:
		runnerOpts = append(runnerOpts, runner.WithColor(true))
	case config.ColorNever:
		runnerOpts = append(runnerOpts, runner.WithColor(false))
	}
	r := runner.New(os.Stdout, runnerOpts...)

	if len(rest) == 1 {
		return runFile(r, rest[0], logger)
	}

	if err := repl.Start(r, cfg.HistoryFile, logger); err != nil {
		logger.Error("interactive session failed", "err", err)
		return runner.ExitSoftware
	}
	return runner.ExitOK
}

func runFile(r *runner.Runner, path string, logger *slog.Logger) int {
	source, err := os.ReadFile(path)
	if err != nil {
		logger.Error("could not read script", "path", path, "err", err)
		return runner.ExitNoInput
	}

	return runner.ExitCode(r.Run(string(source)))
}
