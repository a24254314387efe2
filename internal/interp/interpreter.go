// Package interp implements the NuwaScript tree-walking interpreter:
// statement/expression evaluation, the tool registry, the state store, and
// the three built-in functions.
package interp

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/nuwa-ai/nuwascript/internal/ast"
	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
	"github.com/nuwa-ai/nuwascript/internal/logging"
	"github.com/nuwa-ai/nuwascript/internal/value"
)

// Interpreter executes a Script against a Scope and a Registry. One
// Interpreter may run many scripts in sequence against the same registry,
// so the registry's tool state persists across executions.
type Interpreter struct {
	registry      *Registry
	outputHandler OutputHandler
	logger        *zap.SugaredLogger
	maxSteps      int // 0 = unbounded; guards runaway FOR loops
}

// New returns an Interpreter bound to registry, with console PRINT output
// and no step limit.
func New(registry *Registry) *Interpreter {
	return &Interpreter{registry: registry, logger: logging.Nop()}
}

// SetOutputHandler overrides where PRINT writes; the zero value prints to
// stdout.
func (in *Interpreter) SetOutputHandler(h OutputHandler) { in.outputHandler = h }

// SetLogger attaches a logger for script/statement tracing.
func (in *Interpreter) SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		in.logger = l
		in.registry.SetLogger(l)
	}
}

// SetMaxSteps bounds the number of statements a single Execute call may
// run; 0 leaves it unbounded. This is a host/CLI convenience, not a
// language-core contract.
func (in *Interpreter) SetMaxSteps(n int) { in.maxSteps = n }

func (in *Interpreter) output(s string) {
	if in.outputHandler != nil {
		in.outputHandler(s)
		return
	}
	fmt.Println(s)
}

// Registry returns the interpreter's bound tool registry.
func (in *Interpreter) Registry() *Registry { return in.registry }

// stepBudget tracks remaining statement executions across nested blocks
// within one Execute call.
type stepBudget struct {
	remaining int // -1 = unbounded
}

func (b *stepBudget) consume(pos *errs.Pos) error {
	if b.remaining < 0 {
		return nil
	}
	if b.remaining == 0 {
		return errs.NewRuntimeError(pos, "exceeded maximum step limit")
	}
	b.remaining--
	return nil
}

// Execute runs script to completion against scope, returning the final
// scope or the first error raised.
func (in *Interpreter) Execute(ctx context.Context, script *ast.Script, scope *Scope) (*Scope, error) {
	if scope == nil {
		scope = NewScope()
	}
	budget := &stepBudget{remaining: -1}
	if in.maxSteps > 0 {
		budget.remaining = in.maxSteps
	}
	in.logger.Debugw("script execution start", "statements", len(script.Statements))
	for _, stmt := range script.Statements {
		if err := in.execStatement(ctx, stmt, scope, budget); err != nil {
			in.logger.Debugw("script execution failed", "error", err)
			return scope, err
		}
	}
	in.logger.Debugw("script execution end")
	return scope, nil
}

func (in *Interpreter) execStatement(ctx context.Context, stmt ast.Statement, scope *Scope, budget *stepBudget) error {
	stmtPos := stmt.Position()
	if err := budget.consume(&stmtPos); err != nil {
		return err
	}
	switch s := stmt.(type) {
	case *ast.Let:
		v, err := in.eval(ctx, s.Value, scope)
		if err != nil {
			return err
		}
		scope.Set(s.Name, v)
		return nil

	case *ast.Call:
		args, err := in.evalNamedArgs(ctx, s.ArgNames, s.ArgExprs, scope)
		if err != nil {
			return err
		}
		pos := s.Position()
		_, err = in.registry.Dispatch(ctx, &pos, s.Name, args)
		return err

	case *ast.If:
		cond, err := in.eval(ctx, s.Condition, scope)
		if err != nil {
			return err
		}
		b, ok := cond.AsBool()
		if !ok {
			pos := s.Condition.Position()
			return errs.NewInvalidCondition(&pos, cond.Kind().String())
		}
		block := s.Else
		if b {
			block = s.Then
		}
		return in.execBlock(ctx, block, scope, budget)

	case *ast.For:
		return in.execFor(ctx, s, scope, budget)

	case *ast.ExpressionStatement:
		_, err := in.eval(ctx, s.Expr, scope)
		return err

	default:
		pos := stmt.Position()
		return errs.NewUnsupportedOperation(&pos, "unsupported statement kind")
	}
}

func (in *Interpreter) execBlock(ctx context.Context, stmts []ast.Statement, scope *Scope, budget *stepBudget) error {
	for _, stmt := range stmts {
		if err := in.execStatement(ctx, stmt, scope, budget); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execFor(ctx context.Context, f *ast.For, scope *Scope, budget *stepBudget) error {
	iterable, err := in.eval(ctx, f.Iterable, scope)
	if err != nil {
		return err
	}
	elems, ok := iterable.AsArray()
	if !ok {
		pos := f.Iterable.Position()
		return errs.NewInvalidIterable(&pos, iterable.Kind().String())
	}

	priorVal, priorPresent := scope.Snapshot(f.Iterator)
	defer scope.Restore(f.Iterator, priorVal, priorPresent)

	for _, elem := range elems {
		scope.Set(f.Iterator, elem)
		if err := in.execBlock(ctx, f.Body, scope, budget); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) evalNamedArgs(ctx context.Context, names []string, exprs map[string]ast.Expression, scope *Scope) (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(names))
	for _, name := range names {
		v, err := in.eval(ctx, exprs[name], scope)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// eval evaluates an expression node.
func (in *Interpreter) eval(ctx context.Context, expr ast.Expression, scope *Scope) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalToValue(e.Value), nil

	case *ast.Variable:
		v, ok := scope.Get(e.Name)
		if !ok {
			pos := e.Position()
			return value.Null, errs.NewUndefinedVariable(&pos, e.Name)
		}
		return v, nil

	case *ast.BinaryOp:
		return in.evalBinary(ctx, e, scope)

	case *ast.UnaryOp:
		return in.evalUnary(ctx, e, scope)

	case *ast.FunctionCall:
		args := make([]value.Value, len(e.Args))
		for i, argExpr := range e.Args {
			v, err := in.eval(ctx, argExpr, scope)
			if err != nil {
				return value.Null, err
			}
			args[i] = v
		}
		pos := e.Position()
		return in.builtinCall(&pos, e.Name, args)

	case *ast.ToolCall:
		args, err := in.evalNamedArgs(ctx, e.ArgNames, e.ArgExprs, scope)
		if err != nil {
			return value.Null, err
		}
		pos := e.Position()
		return in.registry.Dispatch(ctx, &pos, e.Name, args)

	case *ast.IndexAccess:
		return in.evalIndex(ctx, e, scope)

	case *ast.MemberAccess:
		return in.evalMember(ctx, e, scope)

	case *ast.ListLiteral:
		elems := make([]value.Value, len(e.Elements))
		for i, elExpr := range e.Elements {
			v, err := in.eval(ctx, elExpr, scope)
			if err != nil {
				return value.Null, err
			}
			elems[i] = v
		}
		return value.Array(elems), nil

	case *ast.ObjectLiteral:
		obj := value.NewObject()
		for _, key := range e.Keys {
			v, err := in.eval(ctx, e.Values[key], scope)
			if err != nil {
				return value.Null, err
			}
			obj = obj.Set(key, v)
		}
		return obj, nil

	default:
		pos := expr.Position()
		return value.Null, errs.NewUnsupportedOperation(&pos, "unsupported expression kind")
	}
}

func literalToValue(lv ast.LiteralValue) value.Value {
	switch lv.Kind {
	case ast.LiteralNull:
		return value.Null
	case ast.LiteralBool:
		return value.Bool(lv.Bool)
	case ast.LiteralNumber:
		return value.Number(lv.Num)
	case ast.LiteralString:
		return value.String(lv.Str)
	default:
		return value.Null
	}
}

func (in *Interpreter) evalIndex(ctx context.Context, e *ast.IndexAccess, scope *Scope) (value.Value, error) {
	obj, err := in.eval(ctx, e.Object, scope)
	if err != nil {
		return value.Null, err
	}
	idxVal, err := in.eval(ctx, e.Index, scope)
	if err != nil {
		return value.Null, err
	}
	pos := e.Position()
	elems, ok := obj.AsArray()
	if !ok {
		return value.Null, errs.NewTypeError(&pos, "index target must be Array, got %s", obj.Kind())
	}
	n, ok := idxVal.AsNumber()
	if !ok || !value.IsInteger(n) {
		return value.Null, errs.NewTypeError(&pos, "index must be an integer Number, got %s", idxVal.Kind())
	}
	i := int(n)
	if i < 0 || i >= len(elems) {
		return value.Null, errs.NewIndexOutOfBounds(&pos, i, len(elems))
	}
	return elems[i], nil
}

func (in *Interpreter) evalMember(ctx context.Context, e *ast.MemberAccess, scope *Scope) (value.Value, error) {
	obj, err := in.eval(ctx, e.Object, scope)
	if err != nil {
		return value.Null, err
	}
	pos := e.Position()
	if obj.Kind() != value.KindObject {
		return value.Null, errs.NewMemberAccess(&pos, "member access target must be Object, got %s", obj.Kind())
	}
	v, ok := obj.Get(e.Property)
	if !ok {
		return value.Null, errs.NewMemberAccess(&pos, "object has no property %q", e.Property)
	}
	return v, nil
}

func (in *Interpreter) evalUnary(ctx context.Context, e *ast.UnaryOp, scope *Scope) (value.Value, error) {
	operand, err := in.eval(ctx, e.Operand, scope)
	if err != nil {
		return value.Null, err
	}
	pos := e.Position()
	switch e.Op {
	case "NOT":
		b, ok := operand.AsBool()
		if !ok {
			return value.Null, errs.NewTypeError(&pos, "NOT requires Bool, got %s", operand.Kind())
		}
		return value.Bool(!b), nil
	case "+":
		n, ok := operand.AsNumber()
		if !ok {
			return value.Null, errs.NewTypeError(&pos, "unary + requires Number, got %s", operand.Kind())
		}
		return value.Number(n), nil
	case "-":
		n, ok := operand.AsNumber()
		if !ok {
			return value.Null, errs.NewTypeError(&pos, "unary - requires Number, got %s", operand.Kind())
		}
		return value.Number(-n), nil
	default:
		return value.Null, errs.NewUnsupportedOperation(&pos, "unsupported unary operator %q", e.Op)
	}
}

func (in *Interpreter) evalBinary(ctx context.Context, e *ast.BinaryOp, scope *Scope) (value.Value, error) {
	// AND/OR short-circuit, so the right operand is only evaluated when
	// needed; every other operator evaluates both sides eagerly.
	pos := e.Position()

	if e.Op == "AND" || e.Op == "OR" {
		left, err := in.eval(ctx, e.Left, scope)
		if err != nil {
			return value.Null, err
		}
		lb, ok := left.AsBool()
		if !ok {
			return value.Null, errs.NewTypeError(&pos, "%s requires Bool operands, got %s", e.Op, left.Kind())
		}
		if e.Op == "AND" && !lb {
			return value.Bool(false), nil
		}
		if e.Op == "OR" && lb {
			return value.Bool(true), nil
		}
		right, err := in.eval(ctx, e.Right, scope)
		if err != nil {
			return value.Null, err
		}
		rb, ok := right.AsBool()
		if !ok {
			return value.Null, errs.NewTypeError(&pos, "%s requires Bool operands, got %s", e.Op, right.Kind())
		}
		return value.Bool(rb), nil
	}

	left, err := in.eval(ctx, e.Left, scope)
	if err != nil {
		return value.Null, err
	}
	right, err := in.eval(ctx, e.Right, scope)
	if err != nil {
		return value.Null, err
	}

	switch e.Op {
	case "==":
		return value.Bool(value.Equal(left, right)), nil
	case "!=":
		return value.Bool(!value.Equal(left, right)), nil
	case ">", "<", ">=", "<=":
		return compareNumbers(&pos, e.Op, left, right)
	case "+", "-", "*", "/", "%":
		return arithmetic(&pos, e.Op, left, right)
	default:
		return value.Null, errs.NewUnsupportedOperation(&pos, "unsupported binary operator %q", e.Op)
	}
}

func compareNumbers(pos *errs.Pos, op string, left, right value.Value) (value.Value, error) {
	ln, ok := left.AsNumber()
	if !ok {
		return value.Null, errs.NewTypeError(pos, "%s requires Number operands, got %s", op, left.Kind())
	}
	rn, ok := right.AsNumber()
	if !ok {
		return value.Null, errs.NewTypeError(pos, "%s requires Number operands, got %s", op, right.Kind())
	}
	switch op {
	case ">":
		return value.Bool(ln > rn), nil
	case "<":
		return value.Bool(ln < rn), nil
	case ">=":
		return value.Bool(ln >= rn), nil
	case "<=":
		return value.Bool(ln <= rn), nil
	default:
		return value.Null, errs.NewUnsupportedOperation(pos, "unsupported comparison operator %q", op)
	}
}

func arithmetic(pos *errs.Pos, op string, left, right value.Value) (value.Value, error) {
	ln, ok := left.AsNumber()
	if !ok {
		return value.Null, errs.NewTypeError(pos, "%s requires Number operands, got %s", op, left.Kind())
	}
	rn, ok := right.AsNumber()
	if !ok {
		return value.Null, errs.NewTypeError(pos, "%s requires Number operands, got %s", op, right.Kind())
	}
	switch op {
	case "+":
		return value.Number(ln + rn), nil
	case "-":
		return value.Number(ln - rn), nil
	case "*":
		return value.Number(ln * rn), nil
	case "/":
		if rn == 0 {
			return value.Null, errs.NewDivisionByZero(pos, "/")
		}
		return value.Number(ln / rn), nil
	case "%":
		if rn == 0 {
			return value.Null, errs.NewDivisionByZero(pos, "%")
		}
		// math.Mod mirrors standard floating-point modulo: sign follows the
		// dividend.
		return value.Number(math.Mod(ln, rn)), nil
	default:
		return value.Null, errs.NewUnsupportedOperation(pos, "unsupported arithmetic operator %q", op)
	}
}
