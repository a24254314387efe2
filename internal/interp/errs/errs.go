// Package errs defines the closed error taxonomy for NuwaScript. Every
// failure is an InterpreterError (or a ParserError/LexerError, which are
// not interpreter failures at all) carrying an optional source position.
// Errors are never caught inside the interpreter — the first failure
// aborts the script and surfaces to the host.
package errs

import (
	"fmt"

	"github.com/nuwa-ai/nuwascript/internal/lexer"
)

// Pos is an optional source position carried by most error kinds.
type Pos = lexer.Position

// Category partitions the taxonomy for host-side dispatch.
type Category string

const (
	CategoryRuntime             Category = "RuntimeError"
	CategoryDivisionByZero      Category = "DivisionByZeroError"
	CategoryIndexOutOfBounds    Category = "IndexOutOfBoundsError"
	CategoryType                Category = "TypeError"
	CategoryInvalidCondition    Category = "InvalidConditionError"
	CategoryUndefinedVariable   Category = "UndefinedVariableError"
	CategoryMemberAccess        Category = "MemberAccessError"
	CategoryToolNotFound        Category = "ToolNotFoundError"
	CategoryToolArgument        Category = "ToolArgumentError"
	CategoryToolExecution       Category = "ToolExecutionError"
	CategoryUnsupportedOperation Category = "UnsupportedOperationError"
	CategoryInvalidIterable     Category = "InvalidIterableError"
)

// InterpreterError is the root of the runtime-error taxonomy. All of the
// specific constructors below return one, tagged by Category so hosts can
// switch on e.Category without type-asserting concrete types.
type InterpreterError struct {
	Category Category
	Message  string
	Pos      *Pos
	Cause    error // set for ToolExecutionError

	// Extra context carried by specific categories, kept untyped so the
	// struct stays single-shaped across the whole taxonomy.
	Index     int
	Length    int
	Variable  string
	Tool      string
	Parameter string
}

func (e *InterpreterError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s at %d:%d: %s", e.Category, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *InterpreterError) Unwrap() error { return e.Cause }

// Line and Column implement diag.Positioned. They return 0 when the error
// carries no position.
func (e *InterpreterError) Line() int {
	if e.Pos == nil {
		return 0
	}
	return e.Pos.Line
}

func (e *InterpreterError) Column() int {
	if e.Pos == nil {
		return 0
	}
	return e.Pos.Column
}

func withPos(pos *Pos, category Category, msg string) *InterpreterError {
	return &InterpreterError{Category: category, Message: msg, Pos: pos}
}

func NewRuntimeError(pos *Pos, format string, args ...any) *InterpreterError {
	return withPos(pos, CategoryRuntime, fmt.Sprintf(format, args...))
}

func NewDivisionByZero(pos *Pos, op string) *InterpreterError {
	return withPos(pos, CategoryDivisionByZero, fmt.Sprintf("%s by zero", op))
}

func NewIndexOutOfBounds(pos *Pos, index, length int) *InterpreterError {
	e := withPos(pos, CategoryIndexOutOfBounds, fmt.Sprintf("index %d out of bounds (length %d)", index, length))
	e.Index, e.Length = index, length
	return e
}

func NewTypeError(pos *Pos, format string, args ...any) *InterpreterError {
	return withPos(pos, CategoryType, fmt.Sprintf(format, args...))
}

func NewInvalidCondition(pos *Pos, gotKind string) *InterpreterError {
	return withPos(pos, CategoryInvalidCondition, fmt.Sprintf("IF condition must be Bool, got %s", gotKind))
}

func NewUndefinedVariable(pos *Pos, name string) *InterpreterError {
	e := withPos(pos, CategoryUndefinedVariable, fmt.Sprintf("undefined variable: %s", name))
	e.Variable = name
	return e
}

func NewMemberAccess(pos *Pos, format string, args ...any) *InterpreterError {
	return withPos(pos, CategoryMemberAccess, fmt.Sprintf(format, args...))
}

func NewToolNotFound(pos *Pos, tool string) *InterpreterError {
	e := withPos(pos, CategoryToolNotFound, fmt.Sprintf("tool not found: %s", tool))
	e.Tool = tool
	return e
}

func NewToolArgument(pos *Pos, tool, param string) *InterpreterError {
	e := withPos(pos, CategoryToolArgument, fmt.Sprintf("tool %s: missing required argument %q", tool, param))
	e.Tool, e.Parameter = tool, param
	return e
}

func NewToolExecution(pos *Pos, tool string, cause error) *InterpreterError {
	e := withPos(pos, CategoryToolExecution, fmt.Sprintf("tool %s failed: %s", tool, cause.Error()))
	e.Tool = tool
	e.Cause = cause
	return e
}

func NewInvalidIterable(pos *Pos, gotKind string) *InterpreterError {
	return withPos(pos, CategoryInvalidIterable, fmt.Sprintf("FOR iterable must be Array, got %s", gotKind))
}

// NewUnsupportedOperation reports an operator or node kind the interpreter
// has no evaluation rule for. The parser never emits anything that reaches
// these paths; they exist as a defensive backstop against a malformed AST.
func NewUnsupportedOperation(pos *Pos, format string, args ...any) *InterpreterError {
	return withPos(pos, CategoryUnsupportedOperation, fmt.Sprintf(format, args...))
}

// ParserError reports a syntax violation: an unexpected token plus what was
// expected instead.
type ParserError struct {
	Pos        Pos
	Expectation string
	Got        string
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: expected %s, got %s", e.Pos.Line, e.Pos.Column, e.Expectation, e.Got)
}

// Line and Column implement diag.Positioned.
func (e *ParserError) Line() int   { return e.Pos.Line }
func (e *ParserError) Column() int { return e.Pos.Column }
