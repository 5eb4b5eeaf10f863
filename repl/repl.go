// Package repl runs an interactive session on top of a runner. All inputs of
// one session share the runner's top-level environment.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/titivuk/golox/runner"
)

// LineReader is the part of *liner.State the session loop needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type Session struct {
	runner *runner.Runner
	out    io.Writer
	logger *slog.Logger
	// history receives every non-blank input, may be nil
	history func(string)
}

func NewSession(r *runner.Runner, out io.Writer, logger *slog.Logger) *Session {
	return &Session{runner: r, out: out, logger: logger}
}

// Loop reads inputs until the reader reports io.EOF. Errors in an input are
// reported by the runner and do not end the session.
func (s *Session) Loop(reader LineReader) error {
	for line := 1; ; line++ {
		input, err := reader.Prompt(fmt.Sprintf("[%d] ", line))
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		if s.history != nil {
			s.history(input)
		}

		if err := s.runner.Run(input); err != nil {
			s.logger.Debug("input failed", "line", line, "exit", runner.ExitCode(err))
		}
	}
}

// Start runs the session on the terminal. History is loaded from and saved
// to historyFile when it is set.
func Start(r *runner.Runner, historyFile string, logger *slog.Logger) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				logger.Warn("could not load history", "file", historyFile, "err", err)
			}
			f.Close()
		}
	}

	s := NewSession(r, os.Stdout, logger)
	s.history = ln.AppendHistory
	loopErr := s.Loop(ln)

	if historyFile != "" {
		f, err := os.Create(historyFile)
		if err != nil {
			logger.Warn("could not save history", "file", historyFile, "err", err)
			return loopErr
		}
		if _, err := ln.WriteHistory(f); err != nil {
			logger.Warn("could not save history", "file", historyFile, "err", err)
		}
		f.Close()
	}

	return loopErr
}
