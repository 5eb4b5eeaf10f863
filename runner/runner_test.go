package runner

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var out, diag bytes.Buffer
	r := New(&out, WithDiagnostics(&diag), WithColor(false))
	return r, &out, &diag
}

func TestRunSuccess(t *testing.T) {
	r, out, diag := newTestRunner()

	err := r.Run(`var greeting = "hello"; print greeting + " world";`)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out.String())
	assert.Empty(t, diag.String())
	assert.Equal(t, ExitOK, ExitCode(err))
}

func TestRunScanError(t *testing.T) {
	r, out, diag := newTestRunner()

	err := r.Run("print 1;\nprint @;")
	require.Error(t, err)
	assert.Equal(t, ExitDataErr, ExitCode(err))
	assert.Empty(t, out.String(), "nothing runs when scanning fails")
	assert.Equal(t, "[line 2] Error: Unexpected character @ at 15\n", diag.String())
}

func TestRunParseErrors(t *testing.T) {
	r, out, diag := newTestRunner()

	err := r.Run("print 1;\nvar = 2;\nprint;")
	require.Error(t, err)
	assert.Equal(t, ExitDataErr, ExitCode(err))
	assert.Empty(t, out.String(), "nothing runs when parsing fails")
	assert.Equal(t,
		"[line 2] Error at '=': Expect variable name.\n"+
			"[line 3] Error at ';': Expect expression.\n",
		diag.String())
}

func TestRunParseErrorAtEnd(t *testing.T) {
	r, _, diag := newTestRunner()

	err := r.Run("print 1")
	assert.Equal(t, ExitDataErr, ExitCode(err))
	assert.Equal(t, "[line 1] Error at end: Expect ';' after value.\n", diag.String())
}

func TestRunRuntimeErrors(t *testing.T) {
	r, out, diag := newTestRunner()

	err := r.Run("print 1 - \"x\";\nprint \"after\";\nprint nope;")
	require.Error(t, err)
	assert.Equal(t, ExitSoftware, ExitCode(err))
	assert.Equal(t, "after\n", out.String())
	assert.Equal(t,
		"Operands must be numbers. [line 1]: (1 - \"x\")\n"+
			"Undefined variable 'nope'. [line 3]: nope\n",
		diag.String())
}

func TestRunKeepsTopLevelEnvironment(t *testing.T) {
	r, out, _ := newTestRunner()

	require.NoError(t, r.Run("var x = 1;"))
	require.NoError(t, r.Run("print x;"))
	// a failed input keeps earlier and partial definitions
	require.Error(t, r.Run("var y = 2; print z;"))
	require.NoError(t, r.Run("print x + y;"))

	assert.Equal(t, "1\n3\n", out.String())

	y, err := r.Env().Get("y")
	require.NoError(t, err)
	assert.Equal(t, "2", y.Inspect())
}

func TestRunMaxCallDepth(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, WithColor(false), WithMaxCallDepth(10))

	err := r.Run("fun f(n) { if (n == 0) return 0; return f(n - 1); }\nprint f(5);\nprint f(20);")
	assert.Equal(t, ExitSoftware, ExitCode(err))
	assert.Equal(t, "0\nStack overflow. [line 1]: f((n - 1))\n", out.String())
}

func TestExitCodeForOtherErrors(t *testing.T) {
	assert.Equal(t, ExitSoftware, ExitCode(errors.New("boom")))
}
