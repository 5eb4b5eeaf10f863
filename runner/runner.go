// Package runner drives one source text through scanning, parsing and
// evaluation against a session-wide environment, and reports the outcome.
package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/titivuk/golox/evaluator"
	"github.com/titivuk/golox/lexer"
	"github.com/titivuk/golox/object"
	"github.com/titivuk/golox/parser"
)

// Process exit statuses, following sysexits(3).
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitNoInput  = 66
	ExitSoftware = 70
)

type Runner struct {
	env    *object.Environment
	interp *evaluator.Interpreter
	logger *slog.Logger

	diag     io.Writer
	errColor *color.Color

	maxCallDepth int
}

type Option func(*Runner)

// WithDiagnostics sets where error reports are written. Defaults to the
// program output.
func WithDiagnostics(w io.Writer) Option {
	return func(r *Runner) { r.diag = w }
}

// WithColor forces colored diagnostics on or off. Without it the decision is
// left to fatih/color, which checks whether stdout is a terminal.
func WithColor(enabled bool) Option {
	return func(r *Runner) {
		if enabled {
			r.errColor.EnableColor()
		} else {
			r.errColor.DisableColor()
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

func WithMaxCallDepth(n int) Option {
	return func(r *Runner) { r.maxCallDepth = n }
}

// New creates a runner with a fresh top-level environment. Program output
// goes to out.
func New(out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		env:      object.NewEnvironment(),
		logger:   slog.Default(),
		diag:     out,
		errColor: color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.interp = evaluator.New(out,
		evaluator.WithLogger(r.logger),
		evaluator.WithMaxCallDepth(r.maxCallDepth),
	)
	return r
}

// Env returns the top-level environment shared by every Run call.
func (r *Runner) Env() *object.Environment {
	return r.env
}

// Run executes source. Definitions made by earlier calls stay visible. Every
// error is reported before Run returns it; use ExitCode to classify it.
func (r *Runner) Run(source string) error {
	start := time.Now()

	tokens, err := lexer.Scan(source)
	if err != nil {
		r.Report(err)
		return err
	}
	r.logger.Debug("scanned", "tokens", len(tokens))

	statements, err := parser.Parse(tokens)
	if err != nil {
		r.Report(err)
		return err
	}
	r.logger.Debug("parsed", "statements", len(statements))

	if err := r.interp.Interpret(statements, r.env); err != nil {
		r.Report(err)
		return err
	}
	r.logger.Debug("interpreted", "elapsed", time.Since(start))

	return nil
}

// Report prints one diagnostic line per error contained in err.
func (r *Runner) Report(err error) {
	var (
		scanErr    *lexer.ScanError
		parseErrs  parser.Errors
		runtimeErr evaluator.RuntimeErrors
	)

	switch {
	case errors.As(err, &scanErr):
		r.printf("[line %d] Error: %s", scanErr.Line, scanErr.Error())
	case errors.As(err, &parseErrs):
		for _, e := range parseErrs {
			r.printf("[line %d] Error %s: %s", e.Line, e.Location(), e.Message)
		}
	case errors.As(err, &runtimeErr):
		for _, e := range runtimeErr {
			r.printf("%s", e.Error())
		}
	default:
		r.printf("%v", err)
	}
}

func (r *Runner) printf(format string, a ...any) {
	r.errColor.Fprintln(r.diag, fmt.Sprintf(format, a...))
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	var (
		scanErr   *lexer.ScanError
		parseErrs parser.Errors
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &scanErr), errors.As(err, &parseErrs):
		return ExitDataErr
	default:
		return ExitSoftware
	}
}
