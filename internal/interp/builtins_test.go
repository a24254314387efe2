package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
)

func TestNowWrongArgCount(t *testing.T) {
	_, err := run(t, `LET t = NOW(1)`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryRuntime, ierr.Category)
}

func TestPrintWrongArgCount(t *testing.T) {
	_, err := run(t, `PRINT()`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryRuntime, ierr.Category)
}

func TestPrintStringifiesEveryKind(t *testing.T) {
	var printed []string
	reg := NewRegistry()
	in := New(reg)
	in.SetOutputHandler(func(s string) { printed = append(printed, s) })

	src := `
PRINT(null)
PRINT(true)
PRINT(42)
PRINT(3.5)
PRINT("hi")
PRINT([1, "a", false])
PRINT({x: 1, y: "z"})
`
	scope, err := runWithInterpreter(t, in, src)
	require.NoError(t, err)
	_ = scope

	require.Equal(t, []string{
		"null", "true", "42", "3.5", "hi", "[1, a, false]", "{x: 1, y: z}",
	}, printed)
}

func TestUnknownFunctionCall(t *testing.T) {
	_, err := run(t, `NOT_A_BUILTIN(1)`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryRuntime, ierr.Category)
}
