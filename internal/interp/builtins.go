package interp

import (
	"time"

	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
	"github.com/nuwa-ai/nuwascript/internal/value"
)

// OutputHandler receives the string representation passed to PRINT. The
// default, used when a host never calls SetOutputHandler, writes to the
// process's standard console.
type OutputHandler func(s string)

// builtinCall dispatches one of the three core built-in functions. Any
// other name is an unknown-function RuntimeError — NuwaScript has no
// user-defined functions.
func (in *Interpreter) builtinCall(pos *errs.Pos, name string, args []value.Value) (value.Value, error) {
	switch name {
	case "NOW":
		return callNow(pos, args)
	case "PRINT":
		return in.callPrint(pos, args)
	case "FORMAT":
		return callFormat(pos, args)
	default:
		return value.Null, errs.NewRuntimeError(pos, "unknown function: %s", name)
	}
}

func callNow(pos *errs.Pos, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.Null, errs.NewRuntimeError(pos, "NOW expects 0 arguments, got %d", len(args))
	}
	return value.Number(float64(time.Now().Unix())), nil
}

func (in *Interpreter) callPrint(pos *errs.Pos, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null, errs.NewRuntimeError(pos, "PRINT expects 1 argument, got %d", len(args))
	}
	in.output(value.Stringify(args[0]))
	return value.Null, nil
}

func callFormat(pos *errs.Pos, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Null, errs.NewRuntimeError(pos, "FORMAT expects 2 arguments, got %d", len(args))
	}
	template, ok := args[0].AsString()
	if !ok {
		return value.Null, errs.NewTypeError(pos, "FORMAT: first argument must be String, got %s", args[0].Kind())
	}
	if args[1].Kind() != value.KindObject {
		return value.Null, errs.NewTypeError(pos, "FORMAT: second argument must be Object, got %s", args[1].Kind())
	}
	rendered, err := renderFormat(pos, template, args[1])
	if err != nil {
		return value.Null, err
	}
	return value.String(rendered), nil
}
