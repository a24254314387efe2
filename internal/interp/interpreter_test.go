package interp

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
	"github.com/nuwa-ai/nuwascript/internal/parser"
	"github.com/nuwa-ai/nuwascript/internal/value"
)

func run(t *testing.T, source string, reg *Registry) (*Scope, error) {
	t.Helper()
	script, err := parser.Parse(source)
	require.NoError(t, err)
	if reg == nil {
		reg = NewRegistry()
	}
	in := New(reg)
	return in.Execute(context.Background(), script, NewScope())
}

func runWithInterpreter(t *testing.T, in *Interpreter, source string) (*Scope, error) {
	t.Helper()
	script, err := parser.Parse(source)
	require.NoError(t, err)
	return in.Execute(context.Background(), script, NewScope())
}

func numOf(t *testing.T, scope *Scope, name string) float64 {
	t.Helper()
	v, ok := scope.Get(name)
	require.True(t, ok, "expected %s to be bound", name)
	n, ok := v.AsNumber()
	require.True(t, ok, "expected %s to be a Number, got %s", name, v.Kind())
	return n
}

func TestArithmeticAndPrecedence(t *testing.T) {
	scope, err := run(t, `LET r = 10 + 6 / 2`, nil)
	require.NoError(t, err)
	require.Equal(t, 13.0, numOf(t, scope, "r"))

	scope, err = run(t, `LET r = (10 + 5) * 2`, nil)
	require.NoError(t, err)
	require.Equal(t, 30.0, numOf(t, scope, "r"))

	scope, err = run(t, `LET r = 10 % 3 + 1`, nil)
	require.NoError(t, err)
	require.Equal(t, 2.0, numOf(t, scope, "r"))
}

func TestSignedModulo(t *testing.T) {
	scope, err := run(t, `
LET a = -10 % 3
LET b = 10 % -3
LET c = 5.5 % 2
`, nil)
	require.NoError(t, err)
	require.Equal(t, -1.0, numOf(t, scope, "a"))
	require.Equal(t, 1.0, numOf(t, scope, "b"))
	require.Equal(t, 1.5, numOf(t, scope, "c"))
}

func TestForLoopShadowingRestore(t *testing.T) {
	var printed []string
	reg := NewRegistry()
	script, err := parser.Parse(`LET i = 99 FOR i IN [1,2,3] DO PRINT(i) END`)
	require.NoError(t, err)
	in := New(reg)
	in.SetOutputHandler(func(s string) { printed = append(printed, s) })
	scope, err := in.Execute(context.Background(), script, NewScope())
	require.NoError(t, err)

	require.Equal(t, []string{"1", "2", "3"}, printed)
	require.Equal(t, 99.0, numOf(t, scope, "i"))
}

func TestToolDispatchAndState(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Schema{
		Name:       "get_price",
		Parameters: []Parameter{{Name: "token", Required: true}},
	}, func(ctx context.Context, args map[string]value.Value, tc ToolContext) (value.Value, error) {
		token, _ := args["token"].AsString()
		if token == "BTC" {
			return value.Number(65000), nil
		}
		return value.Null, nil
	}))

	scope, err := run(t, `LET p = CALL get_price { token: "BTC" }`, reg)
	require.NoError(t, err)
	require.Equal(t, 65000.0, numOf(t, scope, "p"))

	log := reg.GetInvocationLog()
	require.Len(t, log, 1)
	require.Equal(t, "get_price", log[0].Tool)
	tok, _ := log[0].Args["token"].AsString()
	require.Equal(t, "BTC", tok)
}

func TestFormatBuiltin(t *testing.T) {
	scope, err := run(t, `LET r = FORMAT("Pos x={x}, y={y}", {x: 10, y: 20})`, nil)
	require.NoError(t, err)
	v, _ := scope.Get("r")
	s, _ := v.AsString()
	require.Equal(t, "Pos x=10, y=20", s)

	scope, err = run(t, `LET r = FORMAT("brace {{ and }}", {})`, nil)
	require.NoError(t, err)
	v, _ = scope.Get("r")
	s, _ = v.AsString()
	require.Equal(t, "brace { and }", s)

	_, err = run(t, `LET r = FORMAT("Hi {name}", {})`, nil)
	require.Error(t, err)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Contains(t, ierr.Error(), "name")
}

func TestToolExecutionErrorPropagation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Schema{Name: "error_tool"}, func(ctx context.Context, args map[string]value.Value, tc ToolContext) (value.Value, error) {
		return value.Null, goerrors.New("boom")
	}))

	_, err := run(t, `CALL error_tool {}`, reg)
	require.Error(t, err)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryToolExecution, ierr.Category)
	require.Contains(t, ierr.Error(), "error_tool")
	require.Contains(t, ierr.Error(), "boom")
}

func TestInvalidConditionTypeError(t *testing.T) {
	_, err := run(t, `IF 1 THEN LET x = 1 END`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryInvalidCondition, ierr.Category)
}

func TestInvalidIterableTypeError(t *testing.T) {
	_, err := run(t, `FOR x IN 5 DO LET y = x END`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryInvalidIterable, ierr.Category)
}

func TestUndefinedVariableError(t *testing.T) {
	_, err := run(t, `LET x = y`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryUndefinedVariable, ierr.Category)
	require.Equal(t, "y", ierr.Variable)
}

func TestDivisionByZero(t *testing.T) {
	_, err := run(t, `LET x = 1 / 0`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryDivisionByZero, ierr.Category)
}

func TestIndexOutOfBounds(t *testing.T) {
	_, err := run(t, `LET x = [1,2][5]`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryIndexOutOfBounds, ierr.Category)
	require.Equal(t, 5, ierr.Index)
	require.Equal(t, 2, ierr.Length)
}

func TestMemberAccessOnNonObject(t *testing.T) {
	_, err := run(t, `LET x = 5.foo`, nil)
	require.Error(t, err)
}

func TestMemberAccessMissingProperty(t *testing.T) {
	_, err := run(t, `LET x = {a: 1}.b`, nil)
	var ierr *errs.InterpreterError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, errs.CategoryMemberAccess, ierr.Category)
}

func TestDeepEqualityForObjectsAndArrays(t *testing.T) {
	scope, err := run(t, `
LET a = {x: 1, y: [1,2,3]}
LET b = {y: [1,2,3], x: 1}
LET same = a == b
`, nil)
	require.NoError(t, err)
	v, _ := scope.Get("same")
	b, _ := v.AsBool()
	require.True(t, b)
}

func TestNotNotIdentity(t *testing.T) {
	scope, err := run(t, `LET r = NOT NOT true`, nil)
	require.NoError(t, err)
	v, _ := scope.Get("r")
	b, _ := v.AsBool()
	require.True(t, b)
}

func TestDoubleNegationIdentity(t *testing.T) {
	scope, err := run(t, `LET r = -(-5)`, nil)
	require.NoError(t, err)
	require.Equal(t, 5.0, numOf(t, scope, "r"))
}

func TestIndexAndMemberAccessReads(t *testing.T) {
	scope, err := run(t, `
LET list = [10, 20, 30]
LET item = list[1]
LET obj = {name: "x"}
LET n = obj.name
`, nil)
	require.NoError(t, err)
	require.Equal(t, 20.0, numOf(t, scope, "item"))
	v, _ := scope.Get("n")
	s, _ := v.AsString()
	require.Equal(t, "x", s)
}

func TestNowReturnsNumber(t *testing.T) {
	scope, err := run(t, `LET t = NOW()`, nil)
	require.NoError(t, err)
	v, _ := scope.Get("t")
	require.Equal(t, value.KindNumber, v.Kind())
}

func TestShortCircuitAndOr(t *testing.T) {
	// If short-circuiting didn't occur, referencing the undefined variable
	// in the unevaluated branch would raise UndefinedVariableError.
	scope, err := run(t, `
LET a = false AND undefined_var == 1
LET b = true OR undefined_var == 1
`, nil)
	require.NoError(t, err)
	v, _ := scope.Get("a")
	b, _ := v.AsBool()
	require.False(t, b)
	v, _ = scope.Get("b")
	b, _ = v.AsBool()
	require.True(t, b)
}
