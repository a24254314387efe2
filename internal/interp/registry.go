package interp

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
	"github.com/nuwa-ai/nuwascript/internal/logging"
	"github.com/nuwa-ai/nuwascript/internal/value"
)

// ParamType enumerates the schema types a tool parameter may declare.
// It is advisory metadata for the host's prompt builder; the core
// interpreter only enforces presence of required parameters.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
	ParamObject  ParamType = "object"
	ParamNull    ParamType = "null"
	ParamAny     ParamType = "any"
)

// Parameter describes one named entry in a tool's schema.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// ReturnSchema documents a tool's result shape for the prompt builder.
type ReturnSchema struct {
	Description string
	Type        ParamType
}

// Schema is a normalised tool schema.
type Schema struct {
	Name        string
	Description string
	Parameters  []Parameter
	Returns     ReturnSchema
}

// ToolContext is passed to every executor invocation, exposing the
// registry's state store.
type ToolContext interface {
	SetState(key string, v value.Value)
	SetStateWithMeta(key string, v value.Value, meta StateMetadata)
	GetStateValue(key string) (value.Value, bool)
	HasState(key string) bool
	GetAllState() map[string]value.Value
	ClearState()
}

// Executor is the asynchronous tool body. ctx carries cancellation from the
// host; it is not part of the core language contract but is idiomatic Go
// practice for any operation that may block.
type Executor func(ctx context.Context, args map[string]value.Value, tc ToolContext) (value.Value, error)

// Tool bundles a schema with its implementation.
type Tool struct {
	Schema   Schema
	Executor Executor
}

// InvocationRecord is one entry in the registry's tool-invocation log,
// implementing the host-inspectable ordering guarantee of Testable
// Property 8.
type InvocationRecord struct {
	ID     string
	Tool   string
	Args   map[string]value.Value
	Result value.Value
	Err    error
}

// Registry owns the set of registered tools, the shared state store, and
// the invocation log. It is safe for concurrent read access but NuwaScript
// itself never dispatches two tools concurrently.
type Registry struct {
	mu     sync.Mutex
	tools  map[string]*Tool
	order  []string
	state  *StateStore
	log    []InvocationRecord
	logger *zap.SugaredLogger
}

// NewRegistry returns an empty registry with a nop logger; use SetLogger to
// attach structured tracing.
func NewRegistry() *Registry {
	return &Registry{
		tools:  map[string]*Tool{},
		state:  newStateStore(),
		logger: logging.Nop(),
	}
}

// SetLogger attaches a logger for registration/dispatch tracing.
func (r *Registry) SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		r.logger = l
		r.state.setLogger(l)
	}
}

// Register adds a tool under schema.Name. Registering a name that already
// exists fails.
func (r *Registry) Register(schema Schema, exec Executor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[schema.Name]; exists {
		return fmt.Errorf("tool %q already registered", schema.Name)
	}
	r.tools[schema.Name] = &Tool{Schema: schema, Executor: exec}
	r.order = append(r.order, schema.Name)
	r.logger.Debugw("tool registered", "tool", schema.Name)
	return nil
}

// GetAllSchemas returns every registered schema in registration order.
func (r *Registry) GetAllSchemas() []Schema {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema)
	}
	return out
}

// GetInvocationLog returns the ordered record of every dispatch attempted
// so far, as an inspectable audit trail for the host.
func (r *Registry) GetInvocationLog() []InvocationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]InvocationRecord, len(r.log))
	copy(out, r.log)
	return out
}

// State exposes the registry's state store directly, for host code that
// wants setState/getStateValue access outside of a tool invocation.
func (r *Registry) State() *StateStore { return r.state }

// Dispatch looks up the named tool, validates required arguments, builds
// a ToolContext, invokes the executor, and wraps any error it returns as
// a ToolExecutionError.
func (r *Registry) Dispatch(ctx context.Context, pos *errs.Pos, name string, args map[string]value.Value) (value.Value, error) {
	r.mu.Lock()
	tool, ok := r.tools[name]
	r.mu.Unlock()
	if !ok {
		return value.Null, errs.NewToolNotFound(pos, name)
	}

	for _, param := range tool.Schema.Parameters {
		if !param.Required {
			continue
		}
		if _, present := args[param.Name]; !present {
			return value.Null, errs.NewToolArgument(pos, name, param.Name)
		}
	}

	invocationID := uuid.NewString()
	r.logger.Debugw("tool dispatch start", "tool", name, "invocation_id", invocationID, "args", args)

	tc := &toolContext{store: r.state}
	result, err := tool.Executor(ctx, args, tc)

	record := InvocationRecord{ID: invocationID, Tool: name, Args: args}
	if err != nil {
		wrapped := errs.NewToolExecution(pos, name, err)
		record.Err = wrapped
		r.appendLog(record)
		r.logger.Debugw("tool dispatch failed", "tool", name, "invocation_id", invocationID, "error", err)
		return value.Null, wrapped
	}

	record.Result = result
	r.appendLog(record)
	r.logger.Debugw("tool dispatch end", "tool", name, "invocation_id", invocationID)
	return result, nil
}

func (r *Registry) appendLog(rec InvocationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, rec)
}

// toolContext adapts the registry's StateStore to the ToolContext
// interface handed to executors.
type toolContext struct {
	store *StateStore
}

func (t *toolContext) SetState(key string, v value.Value) { t.store.Set(key, v) }
func (t *toolContext) SetStateWithMeta(key string, v value.Value, meta StateMetadata) {
	t.store.SetWithMeta(key, v, meta)
}
func (t *toolContext) GetStateValue(key string) (value.Value, bool) { return t.store.Get(key) }
func (t *toolContext) HasState(key string) bool                     { return t.store.Has(key) }
func (t *toolContext) GetAllState() map[string]value.Value          { return t.store.All() }
func (t *toolContext) ClearState()                                  { t.store.Clear() }
