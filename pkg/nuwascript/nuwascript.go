// Package nuwascript is the stable host-facing surface over the
// lexer/parser/interp pipeline: a one-call Execute, tool registration,
// output handler injection, and the state API. It is a thin composition
// layer with no algorithms of its own.
package nuwascript

import (
	"context"

	"go.uber.org/zap"

	"github.com/nuwa-ai/nuwascript/internal/ast"
	"github.com/nuwa-ai/nuwascript/internal/diag"
	"github.com/nuwa-ai/nuwascript/internal/interp"
	"github.com/nuwa-ai/nuwascript/internal/parser"
	"github.com/nuwa-ai/nuwascript/internal/value"
)

// Re-exported types so callers never need to import internal/interp or
// internal/value directly.
type (
	Value            = value.Value
	Schema           = interp.Schema
	Parameter        = interp.Parameter
	ParamType        = interp.ParamType
	ReturnSchema     = interp.ReturnSchema
	ToolContext      = interp.ToolContext
	Executor         = interp.Executor
	StateMetadata    = interp.StateMetadata
	StateFormatter   = interp.StateFormatter
	OutputHandler    = interp.OutputHandler
	InvocationRecord = interp.InvocationRecord
)

const (
	ParamString  = interp.ParamString
	ParamNumber  = interp.ParamNumber
	ParamBoolean = interp.ParamBoolean
	ParamArray   = interp.ParamArray
	ParamObject  = interp.ParamObject
	ParamNull    = interp.ParamNull
	ParamAny     = interp.ParamAny
)

var (
	Null = value.Null

	Bool   = value.Bool
	Number = value.Number
	String = value.String
	Array  = value.Array

	NewObject = value.NewObject
	Stringify = value.Stringify
	Equal     = value.Equal
)

// Runtime bundles a Registry with an Interpreter configured to use it,
// the unit a host application embeds once and reuses across many scripts:
// the registry and its state store outlive individual executions.
type Runtime struct {
	registry *interp.Registry
	interp   *interp.Interpreter
}

// New returns a Runtime with an empty tool registry and default settings
// (console PRINT output, no step limit, no logging).
func New() *Runtime {
	reg := interp.NewRegistry()
	return &Runtime{registry: reg, interp: interp.New(reg)}
}

// Register adds a tool. Duplicate names fail.
func (r *Runtime) Register(schema Schema, exec Executor) error {
	return r.registry.Register(schema, exec)
}

// SetOutputHandler overrides where PRINT writes.
func (r *Runtime) SetOutputHandler(h OutputHandler) { r.interp.SetOutputHandler(h) }

// SetLogger attaches structured tracing to the interpreter and registry.
func (r *Runtime) SetLogger(l *zap.SugaredLogger) { r.interp.SetLogger(l) }

// SetMaxSteps bounds statement execution per Execute call; 0 is unbounded.
func (r *Runtime) SetMaxSteps(n int) { r.interp.SetMaxSteps(n) }

// GetAllSchemas returns every registered tool schema in registration order.
func (r *Runtime) GetAllSchemas() []Schema { return r.registry.GetAllSchemas() }

// GetInvocationLog returns the ordered tool-dispatch history.
func (r *Runtime) GetInvocationLog() []InvocationRecord { return r.registry.GetInvocationLog() }

// SetState, GetStateValue, HasState, GetAllState, ClearState, and
// RegisterStateMetadata expose the state API directly on the Runtime
// since the state store is registry-owned and outlives any single
// Execute call.

func (r *Runtime) SetState(key string, v Value) { r.registry.State().Set(key, v) }

func (r *Runtime) SetStateWithMeta(key string, v Value, meta StateMetadata) {
	r.registry.State().SetWithMeta(key, v, meta)
}

func (r *Runtime) RegisterStateMetadata(key string, meta StateMetadata) {
	r.registry.State().RegisterMetadata(key, meta)
}

func (r *Runtime) GetStateValue(key string) (Value, bool) { return r.registry.State().Get(key) }

func (r *Runtime) HasState(key string) bool { return r.registry.State().Has(key) }

func (r *Runtime) GetAllState() map[string]Value { return r.registry.State().All() }

func (r *Runtime) ClearState() { r.registry.State().Clear() }

// FormatStateForPrompt renders the state store for an external prompt
// builder.
func (r *Runtime) FormatStateForPrompt() string { return r.registry.State().FormatForPrompt() }

// Execute lexes, parses, and interprets source against scope (nil means
// start empty), returning the final scope's bindings or the first error
// raised anywhere in the pipeline.
func (r *Runtime) Execute(ctx context.Context, source string, scope map[string]Value) (map[string]Value, error) {
	script, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	finalScope, err := r.interp.Execute(ctx, script, interp.NewScopeFrom(scope))
	if err != nil {
		if finalScope != nil {
			return finalScope.All(), err
		}
		return nil, err
	}
	return finalScope.All(), nil
}

// Parse exposes the parser directly for hosts that want to inspect the AST
// or report diagnostics before executing.
func Parse(source string) (*ast.Script, error) {
	return parser.Parse(source)
}

// FormatError renders err against source using the same diagnostic style
// as the CLI, for hosts that want colorized or file-anchored output.
func FormatError(err error, source, file string, useColor bool) string {
	return diag.Format(err, source, file, useColor)
}
