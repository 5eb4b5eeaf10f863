package repl

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titivuk/golox/runner"
)

type scriptedReader struct {
	inputs  []string
	errs    map[int]error
	prompts []string
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	n := len(r.prompts) - 1
	if err, ok := r.errs[n]; ok {
		return "", err
	}
	if n >= len(r.inputs) {
		return "", io.EOF
	}
	return r.inputs[n], nil
}

func newSession(out *bytes.Buffer) *Session {
	r := runner.New(out, runner.WithColor(false))
	return NewSession(r, out, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSessionPersistsDefinitions(t *testing.T) {
	var out bytes.Buffer
	reader := &scriptedReader{inputs: []string{"var x = 1;", "print x;"}}

	require.NoError(t, newSession(&out).Loop(reader))
	assert.Equal(t, "1\n\n", out.String())
}

func TestSessionContinuesAfterErrors(t *testing.T) {
	var out bytes.Buffer
	reader := &scriptedReader{inputs: []string{
		"print @;",
		"print ;",
		"print missing;",
		"fun twice(n) { return n * 2; }",
		"print twice(21);",
	}}

	require.NoError(t, newSession(&out).Loop(reader))
	assert.Equal(t,
		"[line 1] Error: Unexpected character @ at 6\n"+
			"[line 1] Error at ';': Expect expression.\n"+
			"Undefined variable 'missing'. [line 1]: missing\n"+
			"42\n\n",
		out.String())
}

func TestSessionPromptCountsInputs(t *testing.T) {
	var out bytes.Buffer
	reader := &scriptedReader{
		inputs: []string{"", "print 1;", "", "print 2;"},
		errs:   map[int]error{2: liner.ErrPromptAborted},
	}

	var history []string
	s := newSession(&out)
	s.history = func(line string) { history = append(history, line) }

	require.NoError(t, s.Loop(reader))
	assert.Equal(t, []string{"[1] ", "[2] ", "[3] ", "[4] ", "[5] "}, reader.prompts)
	assert.Equal(t, []string{"print 1;", "print 2;"}, history)
	assert.Equal(t, "1\n2\n\n", out.String())
}

func TestSessionReturnsReadErrors(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("terminal gone")
	reader := &scriptedReader{errs: map[int]error{0: boom}}

	err := newSession(&out).Loop(reader)
	assert.ErrorIs(t, err, boom)
}
