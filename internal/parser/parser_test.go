package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuwa-ai/nuwascript/internal/ast"
	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
)

func TestParseLet(t *testing.T) {
	script, err := Parse(`LET x = 1 + 2 * 3`)
	require.NoError(t, err)
	require.Len(t, script.Statements, 1)

	let, ok := script.Statements[0].(*ast.Let)
	require.True(t, ok)
	require.Equal(t, "x", let.Name)

	bin, ok := let.Value.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
	mul, ok := bin.Right.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "*", mul.Op)
}

func TestParseIfElse(t *testing.T) {
	src := `
IF x > 0 THEN
  CALL log { message: "positive" }
ELSE
  CALL log { message: "non-positive" }
END
`
	script, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, script.Statements, 1)

	ifStmt, ok := script.Statements[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)

	cond, ok := ifStmt.Condition.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, ">", cond.Op)
}

func TestParseForLoop(t *testing.T) {
	src := `
FOR item IN items DO
  CALL process { value: item }
END
`
	script, err := Parse(src)
	require.NoError(t, err)
	forStmt, ok := script.Statements[0].(*ast.For)
	require.True(t, ok)
	require.Equal(t, "item", forStmt.Iterator)
	require.Len(t, forStmt.Body, 1)
}

func TestParseCallStatementNamedArgs(t *testing.T) {
	script, err := Parse(`CALL get_weather { city: "Paris", units: "metric" }`)
	require.NoError(t, err)
	call, ok := script.Statements[0].(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "get_weather", call.Name)
	require.Equal(t, []string{"city", "units"}, call.ArgNames)
	require.Contains(t, call.ArgExprs, "city")
	require.Contains(t, call.ArgExprs, "units")
}

func TestParseToolCallExpression(t *testing.T) {
	script, err := Parse(`LET price = CALL get_price { symbol: "AAPL" }`)
	require.NoError(t, err)
	let, ok := script.Statements[0].(*ast.Let)
	require.True(t, ok)
	toolCall, ok := let.Value.(*ast.ToolCall)
	require.True(t, ok)
	require.Equal(t, "get_price", toolCall.Name)
}

func TestParseFunctionCallStatement(t *testing.T) {
	script, err := Parse(`PRINT("hello")`)
	require.NoError(t, err)
	exprStmt, ok := script.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	fc, ok := exprStmt.Expr.(*ast.FunctionCall)
	require.True(t, ok)
	require.Equal(t, "PRINT", fc.Name)
	require.Len(t, fc.Args, 1)
}

func TestParseBareExpressionStatementRejected(t *testing.T) {
	_, err := Parse(`1 + 2`)
	require.Error(t, err)
	var perr *errs.ParserError
	require.ErrorAs(t, err, &perr)
}

func TestParseNotIsRightAssociative(t *testing.T) {
	script, err := Parse(`LET x = NOT NOT flag`)
	require.NoError(t, err)
	let := script.Statements[0].(*ast.Let)
	outer, ok := let.Value.(*ast.UnaryOp)
	require.True(t, ok)
	require.Equal(t, "NOT", outer.Op)
	inner, ok := outer.Operand.(*ast.UnaryOp)
	require.True(t, ok)
	require.Equal(t, "NOT", inner.Op)
	_, ok = inner.Operand.(*ast.Variable)
	require.True(t, ok)
}

func TestParsePrecedenceAndOr(t *testing.T) {
	// AND binds tighter than OR: "a AND b OR c" parses as OR(AND(a,b), c).
	script, err := Parse(`LET x = a AND b OR c`)
	require.NoError(t, err)
	let := script.Statements[0].(*ast.Let)
	or, ok := let.Value.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "OR", or.Op)
	and, ok := or.Left.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "AND", and.Op)
}

func TestParseMemberAndIndexChaining(t *testing.T) {
	script, err := Parse(`LET x = obj.items[0].name`)
	require.NoError(t, err)
	let := script.Statements[0].(*ast.Let)
	member, ok := let.Value.(*ast.MemberAccess)
	require.True(t, ok)
	require.Equal(t, "name", member.Property)
	idx, ok := member.Object.(*ast.IndexAccess)
	require.True(t, ok)
	innerMember, ok := idx.Object.(*ast.MemberAccess)
	require.True(t, ok)
	require.Equal(t, "items", innerMember.Property)
}

func TestParseListAndObjectLiterals(t *testing.T) {
	script, err := Parse(`LET x = [1, 2, {name: "a", count: 3}]`)
	require.NoError(t, err)
	let := script.Statements[0].(*ast.Let)
	list, ok := let.Value.(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	obj, ok := list.Elements[2].(*ast.ObjectLiteral)
	require.True(t, ok)
	require.Equal(t, []string{"name", "count"}, obj.Keys)
}

func TestParseUnaryMinusAndParens(t *testing.T) {
	script, err := Parse(`LET x = -(a + b) * 2`)
	require.NoError(t, err)
	let := script.Statements[0].(*ast.Let)
	mul, ok := let.Value.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "*", mul.Op)
	unary, ok := mul.Left.(*ast.UnaryOp)
	require.True(t, ok)
	require.Equal(t, "-", unary.Op)
	_, ok = unary.Operand.(*ast.BinaryOp)
	require.True(t, ok)
}

func TestParseUnterminatedIfProducesParserError(t *testing.T) {
	_, err := Parse(`IF x THEN CALL log { message: "a" }`)
	require.Error(t, err)
	var perr *errs.ParserError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "END", perr.Expectation)
}

func TestParseLexerErrorPropagates(t *testing.T) {
	_, err := Parse(`LET x = 1 @ 2`)
	require.Error(t, err)
}
